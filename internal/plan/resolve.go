package plan

import (
	"fmt"

	"github.com/scott2000/jj-analyze/internal/revset"
)

type resolver struct {
	visibleHeads string
}

// Resolve lowers an optimized logical tree to the backend plan.
func Resolve(e revset.Expression) Expr {
	r := &resolver{visibleHeads: VisibleHeadsLabel}
	return r.expr(e)
}

func (r *resolver) all() Expr {
	return &Ancestors{
		Heads:        &Reference{Label: r.visibleHeads},
		Generation:   revset.FullGeneration,
		ParentsRange: revset.FullParents,
	}
}

func (r *resolver) expr(e revset.Expression) Expr {
	switch e := e.(type) {
	case *revset.None:
		return &None{}
	case *revset.All:
		return r.all()
	case *revset.VisibleHeads:
		return &Reference{Label: r.visibleHeads}
	case *revset.Root:
		return &Reference{Label: RootLabel}
	case *revset.Reference:
		return &Reference{Label: e.Label}
	case *revset.CollapsedAlias:
		label := e.Call
		if e.Operation != "" {
			label += " at operation " + e.Operation
		}
		return &Reference{Label: label}
	case *revset.Ancestors:
		return &Ancestors{Heads: r.expr(e.Heads), Generation: e.Generation, ParentsRange: e.ParentsRange}
	case *revset.Descendants:
		return &DagRange{
			Roots:               r.expr(e.Roots),
			Heads:               &Reference{Label: r.visibleHeads},
			GenerationFromRoots: e.Generation,
		}
	case *revset.Range:
		return &Range{
			Roots:        r.expr(e.Roots),
			Heads:        r.expr(e.Heads),
			Generation:   e.Generation,
			ParentsRange: e.ParentsRange,
		}
	case *revset.DagRange:
		return &DagRange{Roots: r.expr(e.Roots), Heads: r.expr(e.Heads), GenerationFromRoots: revset.FullGeneration}
	case *revset.Reachable:
		return &Reachable{Sources: r.expr(e.Sources), Domain: r.expr(e.Domain)}
	case *revset.Heads:
		return &Heads{Candidates: r.expr(e.Candidates)}
	case *revset.Roots:
		return &Roots{Candidates: r.expr(e.Candidates)}
	case *revset.ForkPoint:
		return &ForkPoint{Candidates: r.expr(e.Candidates)}
	case *revset.Bisect:
		return &Bisect{Candidates: r.expr(e.Candidates)}
	case *revset.HeadsRange:
		hr := &HeadsRange{Roots: r.expr(e.Roots), Heads: r.expr(e.Heads), ParentsRange: e.ParentsRange}
		if e.Filter != nil {
			if _, all := e.Filter.(*revset.All); !all {
				hr.Filter = r.predicate(e.Filter)
			}
		}
		return hr
	case *revset.Latest:
		return &Latest{Candidates: r.expr(e.Candidates), Count: e.Count}
	case *revset.HasSize:
		return &HasSize{Candidates: r.expr(e.Candidates), Count: e.Count}
	case *revset.Filter, *revset.AsFilter:
		return &FilterWithin{Candidates: r.all(), Predicate: r.predicate(e)}
	case *revset.Present:
		return r.expr(e.Candidates)
	case *revset.NotIn:
		return &Difference{Left: r.all(), Right: r.expr(e.Complement)}
	case *revset.Union:
		return newUnion(r.exprs(e.Terms))
	case *revset.Intersection:
		var sets []Expr
		var filters []revset.Expression
		for _, term := range e.Terms {
			if revset.IsFilter(term) {
				filters = append(filters, term)
			} else {
				sets = append(sets, r.expr(term))
			}
		}
		var base Expr
		switch len(sets) {
		case 0:
			base = r.all()
		case 1:
			base = sets[0]
		default:
			base = newIntersection(sets)
		}
		for _, f := range filters {
			base = &FilterWithin{Candidates: base, Predicate: r.predicate(f)}
		}
		return base
	case *revset.Difference:
		return &Difference{Left: r.expr(e.Left), Right: r.expr(e.Right)}
	case *revset.Coalesce:
		return newCoalesce(r.exprs(e.Terms))
	case *revset.AtOperation:
		inner := &resolver{visibleHeads: "visible_heads() at operation " + e.Operation}
		return inner.expr(e.Candidates)
	case *revset.AliasExpanded:
		return r.expr(e.Body)
	default:
		panic(fmt.Sprintf("plan: unexpected expression %T", e))
	}
}

func (r *resolver) exprs(terms []revset.Expression) []Expr {
	out := make([]Expr, len(terms))
	for i, term := range terms {
		out[i] = r.expr(term)
	}
	return out
}

func (r *resolver) predicate(e revset.Expression) Predicate {
	switch e := e.(type) {
	case *revset.Filter:
		if _, ok := e.Predicate.(*revset.Divergent); ok {
			return &PredicateDivergent{VisibleHeads: &Reference{Label: r.visibleHeads}}
		}
		return &PredicateFilter{Filter: e.Predicate}
	case *revset.AsFilter:
		return r.predicate(e.Candidates)
	case *revset.Present:
		return r.predicate(e.Candidates)
	case *revset.NotIn:
		return &PredicateNotIn{Inner: r.predicate(e.Complement)}
	case *revset.Union:
		if revset.IsFilterTree(e) {
			var terms []Predicate
			for _, term := range e.Terms {
				terms = appendUnionPredicate(terms, r.predicate(term))
			}
			return &PredicateUnion{Terms: terms}
		}
	case *revset.Intersection:
		if revset.IsFilterTree(e) {
			var terms []Predicate
			for _, term := range e.Terms {
				terms = appendIntersectionPredicate(terms, r.predicate(term))
			}
			return &PredicateIntersection{Terms: terms}
		}
	case *revset.Difference:
		if revset.IsFilterTree(e) {
			var terms []Predicate
			terms = appendIntersectionPredicate(terms, r.predicate(e.Left))
			terms = append(terms, &PredicateNotIn{Inner: r.predicate(e.Right)})
			return &PredicateIntersection{Terms: terms}
		}
	}
	return &PredicateSet{Set: r.expr(e)}
}

// appendUnionPredicate flattens nested unions, including a set operand
// that is itself a union of sets.
func appendUnionPredicate(terms []Predicate, p Predicate) []Predicate {
	switch p := p.(type) {
	case *PredicateUnion:
		return append(terms, p.Terms...)
	case *PredicateSet:
		if u, ok := p.Set.(*Union); ok {
			for _, set := range u.Terms {
				terms = append(terms, &PredicateSet{Set: set})
			}
			return terms
		}
	}
	return append(terms, p)
}

func appendIntersectionPredicate(terms []Predicate, p Predicate) []Predicate {
	if i, ok := p.(*PredicateIntersection); ok {
		return append(terms, i.Terms...)
	}
	return append(terms, p)
}

func newUnion(terms []Expr) Expr {
	var out []Expr
	for _, term := range terms {
		if u, ok := term.(*Union); ok {
			out = append(out, u.Terms...)
		} else {
			out = append(out, term)
		}
	}
	return &Union{Terms: out}
}

func newIntersection(terms []Expr) Expr {
	var out []Expr
	for _, term := range terms {
		if i, ok := term.(*Intersection); ok {
			out = append(out, i.Terms...)
		} else {
			out = append(out, term)
		}
	}
	return &Intersection{Terms: out}
}

func newCoalesce(terms []Expr) Expr {
	var out []Expr
	for _, term := range terms {
		if c, ok := term.(*Coalesce); ok {
			out = append(out, c.Terms...)
		} else {
			out = append(out, term)
		}
	}
	return &Coalesce{Terms: out}
}
