package revset

import (
	"fmt"
	"path"
	"strconv"
	"strings"
)

// FilePatternKind selects how a fileset path is matched.
type FilePatternKind int

const (
	FilePath   FilePatternKind = iota // exactly this file
	PrefixPath                        // this file or anything under this directory
	FileGlob                          // glob over file paths
	PrefixGlob                        // glob whose matches also cover their subtrees
)

var filePatternKinds = map[string]FilePatternKind{
	"":                 PrefixPath,
	"cwd":              PrefixPath,
	"root":             PrefixPath,
	"file":             FilePath,
	"cwd-file":         FilePath,
	"root-file":        FilePath,
	"glob":             FileGlob,
	"cwd-glob":         FileGlob,
	"root-glob":        FileGlob,
	"prefix-glob":      PrefixGlob,
	"cwd-prefix-glob":  PrefixGlob,
	"root-prefix-glob": PrefixGlob,
}

// Fileset is an expression over repository paths.
type Fileset interface {
	fmt.Stringer
	fileset()
}

// FilesetNone matches no paths.
type FilesetNone struct{}

// FilesetAll matches every path.
type FilesetAll struct{}

// FilePattern matches paths by a single pattern.
type FilePattern struct {
	Kind FilePatternKind
	Path string // repository-relative, "/" separated
}

// FilesetUnion matches paths any term matches.
type FilesetUnion struct{ Terms []Fileset }

// FilesetIntersection matches paths both sides match.
type FilesetIntersection struct{ Left, Right Fileset }

// FilesetDifference matches paths Left matches and Right does not.
type FilesetDifference struct{ Left, Right Fileset }

// NewFilePattern builds a pattern from a kind prefix ("" for a bare path).
func NewFilePattern(kind, value string) (*FilePattern, error) {
	k, ok := filePatternKinds[kind]
	if !ok {
		return nil, fmt.Errorf("invalid file pattern kind %q", kind)
	}
	if strings.HasPrefix(value, "/") {
		return nil, fmt.Errorf("path %q must be relative to the repository root", value)
	}
	cleaned := path.Clean(value)
	if cleaned == "." {
		cleaned = ""
	}
	if cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return nil, fmt.Errorf("path %q is outside the repository", value)
	}
	return &FilePattern{Kind: k, Path: cleaned}, nil
}

func (*FilesetNone) String() string { return "none()" }
func (*FilesetAll) String() string  { return "all()" }

func (f *FilePattern) String() string {
	switch f.Kind {
	case FilePath:
		return "file:" + strconv.Quote(f.Path)
	case FileGlob:
		return "glob:" + strconv.Quote(f.Path)
	case PrefixGlob:
		return "prefix-glob:" + strconv.Quote(f.Path)
	default:
		return strconv.Quote(f.Path)
	}
}

func (f *FilesetUnion) String() string {
	parts := make([]string, len(f.Terms))
	for i, term := range f.Terms {
		parts[i] = term.String()
	}
	return "(" + strings.Join(parts, " | ") + ")"
}

func (f *FilesetIntersection) String() string {
	return "(" + f.Left.String() + " & " + f.Right.String() + ")"
}

func (f *FilesetDifference) String() string {
	return "(" + f.Left.String() + " ~ " + f.Right.String() + ")"
}

func (*FilesetNone) fileset()         {}
func (*FilesetAll) fileset()          {}
func (*FilePattern) fileset()         {}
func (*FilesetUnion) fileset()        {}
func (*FilesetIntersection) fileset() {}
func (*FilesetDifference) fileset()   {}

// IsAllFiles reports whether f matches every path. A files() filter over
// every path is the "non-empty" predicate.
func IsAllFiles(f Fileset) bool {
	_, ok := f.(*FilesetAll)
	return ok
}
