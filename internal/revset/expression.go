// Package revset is the logical model of a revset: the tree that lowering
// produces from syntax and that the optimizer rewrites.
package revset

import "fmt"

// Expression is a node of the logical revset tree. The set of node types
// is closed; switches over Expression panic on anything else.
type Expression interface {
	expression()
}

// None is the empty set.
type None struct{}

// All is every visible commit.
type All struct{}

// VisibleHeads is the set of visible head commits.
type VisibleHeads struct{}

// Root is the root commit.
type Root struct{}

// Reference is a commit reference resolved by the backend, identified by
// the label shown to users ("@", "main@origin", "tags()", ...).
type Reference struct{ Label string }

// CollapsedAlias stands in for an alias call that is shown by name.
type CollapsedAlias struct {
	Call      string
	Operation string // non-empty inside at_operation()
}

// Ancestors walks parents of Heads.
type Ancestors struct {
	Heads        Expression
	Generation   GenerationRange
	ParentsRange ParentsRange
}

// Descendants walks children of Roots.
type Descendants struct {
	Roots      Expression
	Generation GenerationRange
}

// Range is ancestors of Heads that are not ancestors of Roots.
type Range struct {
	Roots        Expression
	Heads        Expression
	Generation   GenerationRange
	ParentsRange ParentsRange
}

// DagRange is descendants of Roots that are also ancestors of Heads.
type DagRange struct {
	Roots Expression
	Heads Expression
}

// Reachable is commits in Domain connected to Sources through Domain.
type Reachable struct {
	Sources Expression
	Domain  Expression
}

// Heads keeps candidates that have no descendants among the candidates.
type Heads struct{ Candidates Expression }

// Roots keeps candidates that have no ancestors among the candidates.
type Roots struct{ Candidates Expression }

// ForkPoint is the common ancestors of all candidates.
type ForkPoint struct{ Candidates Expression }

// Bisect picks the midpoint of the candidates.
type Bisect struct{ Candidates Expression }

// HeadsRange is heads(Roots..Heads & Filter) evaluated as one traversal.
type HeadsRange struct {
	Roots        Expression
	Heads        Expression
	ParentsRange ParentsRange
	Filter       Expression // nil when unfiltered
}

// Latest keeps the Count newest candidates by committer timestamp.
type Latest struct {
	Candidates Expression
	Count      int
}

// HasSize is the candidates if there are exactly Count of them.
type HasSize struct {
	Candidates Expression
	Count      int
}

// Filter is commits matching a predicate.
type Filter struct{ Predicate FilterPredicate }

// AsFilter marks a subtree containing filters that must be evaluated as a
// predicate rather than materialized.
type AsFilter struct{ Candidates Expression }

// Present is the candidates, or nothing if a referenced name is missing.
type Present struct{ Candidates Expression }

// NotIn is every commit outside Complement.
type NotIn struct{ Complement Expression }

// Union is commits in any term.
type Union struct{ Terms []Expression }

// Intersection is commits in every term.
type Intersection struct{ Terms []Expression }

// Difference is commits in Left but not Right.
type Difference struct{ Left, Right Expression }

// Coalesce is the first term that is not empty.
type Coalesce struct{ Terms []Expression }

// AtOperation evaluates Candidates as of an earlier operation.
type AtOperation struct {
	Operation  string
	Candidates Expression
}

// AliasExpanded marks the body of an expanded alias until the optimizer
// unwraps it.
type AliasExpanded struct {
	Name      string
	Function  bool
	Call      string
	Builtin   bool
	Operation string // non-empty inside at_operation()
	Body      Expression
}

func (*None) expression()           {}
func (*All) expression()            {}
func (*VisibleHeads) expression()   {}
func (*Root) expression()           {}
func (*Reference) expression()      {}
func (*CollapsedAlias) expression() {}
func (*Ancestors) expression()      {}
func (*Descendants) expression()    {}
func (*Range) expression()          {}
func (*DagRange) expression()       {}
func (*Reachable) expression()      {}
func (*Heads) expression()          {}
func (*Roots) expression()          {}
func (*ForkPoint) expression()      {}
func (*Bisect) expression()         {}
func (*HeadsRange) expression()     {}
func (*Latest) expression()         {}
func (*HasSize) expression()        {}
func (*Filter) expression()         {}
func (*AsFilter) expression()       {}
func (*Present) expression()        {}
func (*NotIn) expression()          {}
func (*Union) expression()          {}
func (*Intersection) expression()   {}
func (*Difference) expression()     {}
func (*Coalesce) expression()       {}
func (*AtOperation) expression()    {}
func (*AliasExpanded) expression()  {}

// MapChildren returns a copy of e whose direct children are replaced by
// f(child). Leaves are returned unchanged.
func MapChildren(e Expression, f func(Expression) Expression) Expression {
	switch e := e.(type) {
	case *None, *All, *VisibleHeads, *Root, *Reference, *CollapsedAlias, *Filter:
		return e
	case *Ancestors:
		n := *e
		n.Heads = f(e.Heads)
		return &n
	case *Descendants:
		n := *e
		n.Roots = f(e.Roots)
		return &n
	case *Range:
		n := *e
		n.Roots = f(e.Roots)
		n.Heads = f(e.Heads)
		return &n
	case *DagRange:
		return &DagRange{Roots: f(e.Roots), Heads: f(e.Heads)}
	case *Reachable:
		return &Reachable{Sources: f(e.Sources), Domain: f(e.Domain)}
	case *Heads:
		return &Heads{Candidates: f(e.Candidates)}
	case *Roots:
		return &Roots{Candidates: f(e.Candidates)}
	case *ForkPoint:
		return &ForkPoint{Candidates: f(e.Candidates)}
	case *Bisect:
		return &Bisect{Candidates: f(e.Candidates)}
	case *HeadsRange:
		n := *e
		n.Roots = f(e.Roots)
		n.Heads = f(e.Heads)
		if e.Filter != nil {
			n.Filter = f(e.Filter)
		}
		return &n
	case *Latest:
		return &Latest{Candidates: f(e.Candidates), Count: e.Count}
	case *HasSize:
		return &HasSize{Candidates: f(e.Candidates), Count: e.Count}
	case *AsFilter:
		return &AsFilter{Candidates: f(e.Candidates)}
	case *Present:
		return &Present{Candidates: f(e.Candidates)}
	case *NotIn:
		return &NotIn{Complement: f(e.Complement)}
	case *Union:
		return &Union{Terms: mapTerms(e.Terms, f)}
	case *Intersection:
		return &Intersection{Terms: mapTerms(e.Terms, f)}
	case *Difference:
		return &Difference{Left: f(e.Left), Right: f(e.Right)}
	case *Coalesce:
		return &Coalesce{Terms: mapTerms(e.Terms, f)}
	case *AtOperation:
		return &AtOperation{Operation: e.Operation, Candidates: f(e.Candidates)}
	case *AliasExpanded:
		n := *e
		n.Body = f(e.Body)
		return &n
	default:
		panic(fmt.Sprintf("revset: unexpected expression %T", e))
	}
}

func mapTerms(terms []Expression, f func(Expression) Expression) []Expression {
	out := make([]Expression, len(terms))
	for i, term := range terms {
		out[i] = f(term)
	}
	return out
}

// Transform rebuilds e bottom-up, applying rule to every node after its
// children have been rebuilt.
func Transform(e Expression, rule func(Expression) Expression) Expression {
	var walk func(Expression) Expression
	walk = func(e Expression) Expression {
		return rule(MapChildren(e, walk))
	}
	return walk(e)
}

// IsFilter reports whether e is a filter leaf or an AsFilter subtree.
func IsFilter(e Expression) bool {
	switch e.(type) {
	case *Filter, *AsFilter:
		return true
	}
	return false
}

// IsFilterTree reports whether evaluating e needs a predicate: e is a
// filter, or a negation, union, intersection or present() containing one.
func IsFilterTree(e Expression) bool {
	switch e := e.(type) {
	case *Filter, *AsFilter:
		return true
	case *NotIn:
		return IsFilterTree(e.Complement)
	case *Present:
		return IsFilterTree(e.Candidates)
	case *Union:
		for _, term := range e.Terms {
			if IsFilterTree(term) {
				return true
			}
		}
	case *Intersection:
		for _, term := range e.Terms {
			if IsFilterTree(term) {
				return true
			}
		}
	case *Difference:
		return IsFilterTree(e.Left) || IsFilterTree(e.Right)
	}
	return false
}
