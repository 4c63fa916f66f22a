package revset

import "fmt"

// FilterPredicate tests a single commit without looking at the graph.
type FilterPredicate interface {
	fmt.Stringer
	filterPredicate()
}

// TextField names the commit field a TextFilter matches.
type TextField string

const (
	FieldDescription    TextField = "description"
	FieldSubject        TextField = "subject"
	FieldAuthorName     TextField = "author_name"
	FieldAuthorEmail    TextField = "author_email"
	FieldCommitterName  TextField = "committer_name"
	FieldCommitterEmail TextField = "committer_email"
)

// DateField names the timestamp a DateFilter compares.
type DateField string

const (
	FieldAuthorDate    DateField = "author_date"
	FieldCommitterDate DateField = "committer_date"
)

// ParentCount matches commits whose number of parents lies in Range.
type ParentCount struct{ Range ParentsRange }

// TextFilter matches a text field against a string expression.
type TextFilter struct {
	Field   TextField
	Pattern StringExpression
}

// DateFilter matches a timestamp against a date pattern.
type DateFilter struct {
	Field   DateField
	Pattern DatePattern
}

// FilesFilter matches commits that modify a path in Files.
type FilesFilter struct{ Files Fileset }

// DiffLines matches commits whose diff adds or removes a matching line.
type DiffLines struct {
	Text  StringExpression
	Files Fileset
}

// HasConflict matches commits with conflicted files.
type HasConflict struct{}

// Signed matches cryptographically signed commits.
type Signed struct{}

// Divergent matches commits whose change id has several visible commits.
type Divergent struct{}

func (p *ParentCount) String() string {
	if p.Range == MergeParents {
		return "merges()"
	}
	return "parent_count(" + p.Range.String() + ")"
}

func (p *TextFilter) String() string {
	return string(p.Field) + "(" + p.Pattern.String() + ")"
}

func (p *DateFilter) String() string {
	return string(p.Field) + "(" + p.Pattern.String() + ")"
}

func (p *FilesFilter) String() string { return "files(" + p.Files.String() + ")" }

func (p *DiffLines) String() string {
	return "diff_lines(" + p.Text.String() + ", " + p.Files.String() + ")"
}

func (*HasConflict) String() string { return "conflicts()" }
func (*Signed) String() string      { return "signed()" }
func (*Divergent) String() string   { return "divergent()" }

func (*ParentCount) filterPredicate() {}
func (*TextFilter) filterPredicate()  {}
func (*DateFilter) filterPredicate()  {}
func (*FilesFilter) filterPredicate() {}
func (*DiffLines) filterPredicate()   {}
func (*HasConflict) filterPredicate() {}
func (*Signed) filterPredicate()      {}
func (*Divergent) filterPredicate()   {}
