package analyze

import (
	"github.com/scott2000/jj-analyze/internal/plan"
	"github.com/scott2000/jj-analyze/internal/revset"
)

// PolicyVersion identifies the revision of the cost rules in Expensive.
// Bump it when the rules change to follow the engine.
const PolicyVersion = 1

// DefaultLargeGenerationSpan is the default Policy.LargeGenerationSpan.
const DefaultLargeGenerationSpan = 10000

// Policy holds the tunable thresholds of the cost heuristic.
type Policy struct {
	// LargeGenerationSpan is the number of generations at which a traversal
	// counts as unbounded.
	LargeGenerationSpan uint64
}

// DefaultPolicy returns the policy matching the engine's own behavior.
func DefaultPolicy() Policy {
	return Policy{LargeGenerationSpan: DefaultLargeGenerationSpan}
}

func (p Policy) isLarge(g revset.GenerationRange) bool {
	return g.Span() >= p.LargeGenerationSpan
}

// Expensive reports whether evaluating n under the inherited context ctx
// likely scans an unbounded part of the history.
func (p Policy) Expensive(n Node, ctx Context) bool {
	switch n := n.(type) {
	case *plan.Ancestors:
		return ctx == Eager && !plan.IsRootOrNone(n.Heads) && p.isLarge(n.Generation)
	case *plan.Range:
		return ctx == Eager &&
			plan.IsRootOrNone(n.Roots) &&
			!plan.IsRootOrNone(n.Heads) &&
			p.isLarge(n.Generation)
	case *plan.DagRange:
		return !plan.IsNone(n.Roots) &&
			plan.IsRootOrNone(n.Roots) &&
			!plan.IsRootOrNone(n.Heads) &&
			p.isLarge(n.GenerationFromRoots)
	case *plan.Intersection:
		for _, term := range n.Terms {
			if !p.Expensive(term, ctx) {
				return false
			}
		}
		return true
	case *plan.PredicateSet:
		return p.Expensive(n.Set, Predicate)
	}
	return false
}
