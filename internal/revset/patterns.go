package revset

import (
	"fmt"
	"strconv"
	"strings"
)

// Pattern kinds accepted in string pattern arguments.
const (
	PatternExact       = "exact"
	PatternExactI      = "exact-i"
	PatternSubstring   = "substring"
	PatternSubstringI  = "substring-i"
	PatternGlob        = "glob"
	PatternGlobI       = "glob-i"
	PatternRegex       = "regex"
	PatternRegexI      = "regex-i"
	defaultPatternKind = PatternGlob
)

var patternKinds = map[string]bool{
	PatternExact:      true,
	PatternExactI:     true,
	PatternSubstring:  true,
	PatternSubstringI: true,
	PatternGlob:       true,
	PatternGlobI:      true,
	PatternRegex:      true,
	PatternRegexI:     true,
}

// StringPattern matches names, descriptions and other commit text.
type StringPattern struct {
	Kind  string
	Value string
}

// NewStringPattern validates kind and builds a pattern. A glob without
// wildcard characters is stored as an exact match.
func NewStringPattern(kind, value string) (StringPattern, error) {
	if kind == "" {
		kind = defaultPatternKind
	}
	if !patternKinds[kind] {
		return StringPattern{}, fmt.Errorf("invalid string pattern kind %q", kind)
	}
	if kind == PatternGlob && !hasGlobMeta(value) {
		kind = PatternExact
	}
	return StringPattern{Kind: kind, Value: value}, nil
}

// IsAll reports whether the pattern matches every string.
func (p StringPattern) IsAll() bool {
	return (p.Kind == PatternGlob || p.Kind == PatternGlobI) && p.Value == "*" ||
		(p.Kind == PatternSubstring || p.Kind == PatternSubstringI) && p.Value == ""
}

func (p StringPattern) String() string {
	return p.Kind + ":" + strconv.Quote(p.Value)
}

func hasGlobMeta(s string) bool {
	return strings.ContainsAny(s, `*?[\`)
}

// StringExpression combines string patterns with ~, | and &.
type StringExpression interface {
	fmt.Stringer
	stringExpression()
}

// StringMatch is a single pattern.
type StringMatch struct{ Pattern StringPattern }

// StringNot matches strings the inner expression rejects.
type StringNot struct{ Inner StringExpression }

// StringUnion matches either side.
type StringUnion struct{ Left, Right StringExpression }

// StringIntersection matches both sides.
type StringIntersection struct{ Left, Right StringExpression }

func (s *StringMatch) String() string { return s.Pattern.String() }
func (s *StringNot) String() string   { return "~" + s.Inner.String() }
func (s *StringUnion) String() string {
	return "(" + s.Left.String() + " | " + s.Right.String() + ")"
}
func (s *StringIntersection) String() string {
	return "(" + s.Left.String() + " & " + s.Right.String() + ")"
}

func (*StringMatch) stringExpression()        {}
func (*StringNot) stringExpression()          {}
func (*StringUnion) stringExpression()        {}
func (*StringIntersection) stringExpression() {}

// matchesAll reports whether expr is a lone pattern matching everything.
func matchesAll(expr StringExpression) bool {
	m, ok := expr.(*StringMatch)
	return ok && m.Pattern.IsAll()
}
