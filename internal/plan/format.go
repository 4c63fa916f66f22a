package plan

import (
	"fmt"
	"strconv"
	"strings"
)

// Format renders a plan in call notation for logs and tests, e.g.
// "filter_within(ancestors(visible_heads()), not(merges()))".
func Format(e Expr) string {
	var sb strings.Builder
	writeExpr(&sb, e)
	return sb.String()
}

func writeExpr(sb *strings.Builder, e Expr) {
	switch e := e.(type) {
	case *None:
		sb.WriteString("none()")
	case *Reference:
		sb.WriteString(e.Label)
	case *Ancestors:
		writeCall(sb, "ancestors", []any{e.Heads}, generation(e.Generation.IsFull(), e.Generation.String()), parents(e.ParentsRange.IsFull(), e.ParentsRange.String()))
	case *Range:
		writeCall(sb, "range", []any{e.Roots, e.Heads}, generation(e.Generation.IsFull(), e.Generation.String()), parents(e.ParentsRange.IsFull(), e.ParentsRange.String()))
	case *DagRange:
		writeCall(sb, "dag_range", []any{e.Roots, e.Heads}, generation(e.GenerationFromRoots.IsFull(), e.GenerationFromRoots.String()))
	case *Reachable:
		writeCall(sb, "reachable", []any{e.Sources, e.Domain})
	case *Heads:
		writeCall(sb, "heads", []any{e.Candidates})
	case *HeadsRange:
		args := []any{e.Roots, e.Heads}
		if e.Filter != nil {
			args = append(args, e.Filter)
		}
		writeCall(sb, "heads_range", args, parents(e.ParentsRange.IsFull(), e.ParentsRange.String()))
	case *Roots:
		writeCall(sb, "roots", []any{e.Candidates})
	case *ForkPoint:
		writeCall(sb, "fork_point", []any{e.Candidates})
	case *Bisect:
		writeCall(sb, "bisect", []any{e.Candidates})
	case *HasSize:
		writeCall(sb, "has_size", []any{e.Candidates}, strconv.Itoa(e.Count))
	case *Latest:
		writeCall(sb, "latest", []any{e.Candidates}, strconv.Itoa(e.Count))
	case *Coalesce:
		writeCall(sb, "coalesce", exprArgs(e.Terms))
	case *Union:
		writeCall(sb, "union", exprArgs(e.Terms))
	case *FilterWithin:
		writeCall(sb, "filter_within", []any{e.Candidates, e.Predicate})
	case *Intersection:
		writeCall(sb, "intersection", exprArgs(e.Terms))
	case *Difference:
		writeCall(sb, "difference", []any{e.Left, e.Right})
	default:
		panic(fmt.Sprintf("plan: unexpected expression %T", e))
	}
}

func writePredicate(sb *strings.Builder, p Predicate) {
	switch p := p.(type) {
	case *PredicateFilter:
		sb.WriteString(p.Filter.String())
	case *PredicateDivergent:
		writeCall(sb, "divergent", []any{p.VisibleHeads})
	case *PredicateSet:
		writeCall(sb, "set", []any{p.Set})
	case *PredicateNotIn:
		writeCall(sb, "not", []any{p.Inner})
	case *PredicateUnion:
		writeCall(sb, "any", predicateArgs(p.Terms))
	case *PredicateIntersection:
		writeCall(sb, "every", predicateArgs(p.Terms))
	default:
		panic(fmt.Sprintf("plan: unexpected predicate %T", p))
	}
}

func writeCall(sb *strings.Builder, name string, args []any, extra ...string) {
	sb.WriteString(name)
	sb.WriteByte('(')
	for i, arg := range args {
		if i > 0 {
			sb.WriteString(", ")
		}
		switch arg := arg.(type) {
		case Expr:
			writeExpr(sb, arg)
		case Predicate:
			writePredicate(sb, arg)
		}
	}
	for _, x := range extra {
		if x != "" {
			sb.WriteString(", ")
			sb.WriteString(x)
		}
	}
	sb.WriteByte(')')
}

func exprArgs(terms []Expr) []any {
	out := make([]any, len(terms))
	for i, term := range terms {
		out[i] = term
	}
	return out
}

func predicateArgs(terms []Predicate) []any {
	out := make([]any, len(terms))
	for i, term := range terms {
		out[i] = term
	}
	return out
}

func generation(full bool, text string) string {
	if full {
		return ""
	}
	return "generation=" + text
}

func parents(full bool, text string) string {
	if full {
		return ""
	}
	return "parents=" + text
}
