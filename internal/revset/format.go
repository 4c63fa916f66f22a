package revset

import (
	"fmt"
	"strconv"
	"strings"
)

// Format renders e as a compact, unambiguous function-call notation used in
// debug logs and tests, e.g. "intersection(ancestors(@), not_in(root()))".
func Format(e Expression) string {
	var sb strings.Builder
	writeExpression(&sb, e)
	return sb.String()
}

func writeExpression(sb *strings.Builder, e Expression) {
	switch e := e.(type) {
	case *None:
		sb.WriteString("none()")
	case *All:
		sb.WriteString("all()")
	case *VisibleHeads:
		sb.WriteString("visible_heads()")
	case *Root:
		sb.WriteString("root()")
	case *Reference:
		sb.WriteString(e.Label)
	case *CollapsedAlias:
		sb.WriteString(e.Call)
		if e.Operation != "" {
			sb.WriteString(" at operation " + e.Operation)
		}
	case *Ancestors:
		call(sb, "ancestors", []Expression{e.Heads}, generationArg(e.Generation), parentsArg(e.ParentsRange))
	case *Descendants:
		call(sb, "descendants", []Expression{e.Roots}, generationArg(e.Generation))
	case *Range:
		call(sb, "range", []Expression{e.Roots, e.Heads}, generationArg(e.Generation), parentsArg(e.ParentsRange))
	case *DagRange:
		call(sb, "dag_range", []Expression{e.Roots, e.Heads})
	case *Reachable:
		call(sb, "reachable", []Expression{e.Sources, e.Domain})
	case *Heads:
		call(sb, "heads", []Expression{e.Candidates})
	case *Roots:
		call(sb, "roots", []Expression{e.Candidates})
	case *ForkPoint:
		call(sb, "fork_point", []Expression{e.Candidates})
	case *Bisect:
		call(sb, "bisect", []Expression{e.Candidates})
	case *HeadsRange:
		args := []Expression{e.Roots, e.Heads}
		if e.Filter != nil {
			args = append(args, e.Filter)
		}
		call(sb, "heads_range", args, parentsArg(e.ParentsRange))
	case *Latest:
		call(sb, "latest", []Expression{e.Candidates}, strconv.Itoa(e.Count))
	case *HasSize:
		call(sb, "exactly", []Expression{e.Candidates}, strconv.Itoa(e.Count))
	case *Filter:
		sb.WriteString(e.Predicate.String())
	case *AsFilter:
		call(sb, "as_filter", []Expression{e.Candidates})
	case *Present:
		call(sb, "present", []Expression{e.Candidates})
	case *NotIn:
		call(sb, "not_in", []Expression{e.Complement})
	case *Union:
		call(sb, "union", e.Terms)
	case *Intersection:
		call(sb, "intersection", e.Terms)
	case *Difference:
		call(sb, "difference", []Expression{e.Left, e.Right})
	case *Coalesce:
		call(sb, "coalesce", e.Terms)
	case *AtOperation:
		sb.WriteString("at_operation(" + e.Operation + ", ")
		writeExpression(sb, e.Candidates)
		sb.WriteByte(')')
	case *AliasExpanded:
		sb.WriteString("alias[" + e.Call + "](")
		writeExpression(sb, e.Body)
		sb.WriteByte(')')
	default:
		panic(fmt.Sprintf("revset: unexpected expression %T", e))
	}
}

func call(sb *strings.Builder, name string, args []Expression, extra ...string) {
	sb.WriteString(name)
	sb.WriteByte('(')
	for i, arg := range args {
		if i > 0 {
			sb.WriteString(", ")
		}
		writeExpression(sb, arg)
	}
	for _, x := range extra {
		if x != "" {
			sb.WriteString(", ")
			sb.WriteString(x)
		}
	}
	sb.WriteByte(')')
}

func generationArg(g GenerationRange) string {
	if g.IsFull() {
		return ""
	}
	return "generation=" + g.String()
}

func parentsArg(p ParentsRange) string {
	if p.IsFull() {
		return ""
	}
	return "parents=" + p.String()
}
