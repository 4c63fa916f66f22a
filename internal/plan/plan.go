// Package plan holds the backend form of a revset: the tree the engine
// evaluates after optimization, with filters attached to the sets they
// narrow and commit references resolved to labels.
package plan

import "github.com/scott2000/jj-analyze/internal/revset"

// Expr is a node of the backend plan.
type Expr interface {
	planExpr()
}

// Predicate is a per-commit membership test.
type Predicate interface {
	planPredicate()
}

// None is the empty set.
type None struct{}

// Reference is a resolved commit reference shown by label.
type Reference struct{ Label string }

// Ancestors walks parents of Heads.
type Ancestors struct {
	Heads        Expr
	Generation   revset.GenerationRange
	ParentsRange revset.ParentsRange
}

// Range walks parents of Heads, stopping at ancestors of Roots.
type Range struct {
	Roots        Expr
	Heads        Expr
	Generation   revset.GenerationRange
	ParentsRange revset.ParentsRange
}

// DagRange walks children of Roots that are ancestors of Heads.
type DagRange struct {
	Roots               Expr
	Heads               Expr
	GenerationFromRoots revset.GenerationRange
}

type Reachable struct {
	Sources Expr
	Domain  Expr
}

type Heads struct{ Candidates Expr }

// HeadsRange finds heads of Roots..Heads, testing Filter during the walk.
type HeadsRange struct {
	Roots        Expr
	Heads        Expr
	ParentsRange revset.ParentsRange
	Filter       Predicate // nil when unfiltered
}

type Roots struct{ Candidates Expr }

type ForkPoint struct{ Candidates Expr }

type Bisect struct{ Candidates Expr }

type HasSize struct {
	Candidates Expr
	Count      int
}

type Latest struct {
	Candidates Expr
	Count      int
}

type Coalesce struct{ Terms []Expr }

type Union struct{ Terms []Expr }

// FilterWithin keeps the candidates matching Predicate.
type FilterWithin struct {
	Candidates Expr
	Predicate  Predicate
}

type Intersection struct{ Terms []Expr }

type Difference struct{ Left, Right Expr }

func (*None) planExpr()         {}
func (*Reference) planExpr()    {}
func (*Ancestors) planExpr()    {}
func (*Range) planExpr()        {}
func (*DagRange) planExpr()     {}
func (*Reachable) planExpr()    {}
func (*Heads) planExpr()        {}
func (*HeadsRange) planExpr()   {}
func (*Roots) planExpr()        {}
func (*ForkPoint) planExpr()    {}
func (*Bisect) planExpr()       {}
func (*HasSize) planExpr()      {}
func (*Latest) planExpr()       {}
func (*Coalesce) planExpr()     {}
func (*Union) planExpr()        {}
func (*FilterWithin) planExpr() {}
func (*Intersection) planExpr() {}
func (*Difference) planExpr()   {}

// PredicateFilter tests a single filter.
type PredicateFilter struct{ Filter revset.FilterPredicate }

// PredicateDivergent needs the visible heads to find other commits of the
// same change.
type PredicateDivergent struct{ VisibleHeads Expr }

// PredicateSet tests membership in a materialized set.
type PredicateSet struct{ Set Expr }

type PredicateNotIn struct{ Inner Predicate }

type PredicateUnion struct{ Terms []Predicate }

type PredicateIntersection struct{ Terms []Predicate }

func (*PredicateFilter) planPredicate()       {}
func (*PredicateDivergent) planPredicate()    {}
func (*PredicateSet) planPredicate()          {}
func (*PredicateNotIn) planPredicate()        {}
func (*PredicateUnion) planPredicate()        {}
func (*PredicateIntersection) planPredicate() {}

// RootLabel and VisibleHeadsLabel name the two references every plan can
// mention without the query naming them.
const (
	RootLabel         = "root()"
	VisibleHeadsLabel = "visible_heads()"
)

// IsNone reports whether e is the empty set.
func IsNone(e Expr) bool {
	_, ok := e.(*None)
	return ok
}

// IsRootOrNone reports whether e can only contain the root commit.
func IsRootOrNone(e Expr) bool {
	switch e := e.(type) {
	case *None:
		return true
	case *Reference:
		return e.Label == RootLabel
	case *Coalesce:
		return allRootOrNone(e.Terms)
	case *Union:
		return allRootOrNone(e.Terms)
	case *Intersection:
		for _, term := range e.Terms {
			if IsRootOrNone(term) {
				return true
			}
		}
	}
	return false
}

func allRootOrNone(terms []Expr) bool {
	for _, term := range terms {
		if !IsRootOrNone(term) {
			return false
		}
	}
	return true
}
