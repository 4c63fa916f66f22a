package analyze

import (
	"fmt"
	"strconv"

	"github.com/scott2000/jj-analyze/internal/plan"
	"github.com/scott2000/jj-analyze/internal/revset"
)

// Node is a plan.Expr, a plan.Predicate, or one of the resolved leaf values
// Generation, ParentIndex and Count.
type Node any

// Generation is a generation range shown as a child of a traversal.
type Generation revset.GenerationRange

// ParentIndex is a parents range shown as a child of a traversal.
type ParentIndex revset.ParentsRange

// Count is the count argument of latest() or exactly().
type Count int

// Entry is the classification of one node under an inherited context.
type Entry struct {
	Name     string
	Strategy Context
	Children []Child
}

// Child is a child node together with the context it inherits.
type Child struct {
	Label   string // empty for unlabeled operands
	Context Context
	Node    Node
}

// Classify returns the display name and strategy of n under the inherited
// context ctx, and the contexts its children inherit. It never fails.
func Classify(n Node, ctx Context) Entry {
	switch n := n.(type) {
	case Generation:
		return Entry{Name: revset.GenerationRange(n).String(), Strategy: Resolved}
	case ParentIndex:
		return Entry{Name: revset.ParentsRange(n).String(), Strategy: Resolved}
	case Count:
		return Entry{Name: strconv.Itoa(int(n)), Strategy: Resolved}
	case plan.Expr:
		return classifyExpr(n, ctx)
	case plan.Predicate:
		return classifyPredicate(n)
	default:
		panic(fmt.Sprintf("analyze: unexpected node %T", n))
	}
}

func classifyExpr(e plan.Expr, ctx Context) Entry {
	switch e := e.(type) {
	case *plan.None:
		return Entry{Name: "none()", Strategy: Resolved}
	case *plan.Reference:
		return Entry{Name: e.Label, Strategy: Resolved}
	case *plan.Ancestors:
		return Entry{
			Name:     "Ancestors",
			Strategy: ctx.predicateToLazy(),
			Children: present(
				generationChild("generation", e.Generation, ctx),
				parentsChild(e.ParentsRange, ctx),
				&Child{Label: "heads", Context: Eager, Node: e.Heads},
			),
		}
	case *plan.Range:
		return Entry{
			Name:     "Range",
			Strategy: ctx.predicateToLazy(),
			Children: present(
				generationChild("generation", e.Generation, ctx),
				parentsChild(e.ParentsRange, ctx),
				&Child{Label: "roots", Context: Eager, Node: e.Roots},
				&Child{Label: "heads", Context: Eager, Node: e.Heads},
			),
		}
	case *plan.DagRange:
		strategy := Eager
		if e.GenerationFromRoots == revset.GenerationAt(1) {
			strategy = ctx.predicateToLazy()
		}
		return Entry{
			Name:     "DagRange",
			Strategy: strategy,
			Children: present(
				generationChild("generation_from_roots", e.GenerationFromRoots, ctx),
				&Child{Label: "roots", Context: Eager, Node: e.Roots},
				&Child{Label: "heads", Context: Eager, Node: e.Heads},
			),
		}
	case *plan.Reachable:
		return Entry{
			Name:     "Reachable",
			Strategy: Eager,
			Children: []Child{
				{Label: "sources", Context: Predicate, Node: e.Sources},
				{Label: "domain", Context: Eager, Node: e.Domain},
			},
		}
	case *plan.Heads:
		return eagerOperand("Heads", e.Candidates)
	case *plan.Roots:
		return eagerOperand("Roots", e.Candidates)
	case *plan.ForkPoint:
		return eagerOperand("ForkPoint", e.Candidates)
	case *plan.Bisect:
		return eagerOperand("Bisect", e.Candidates)
	case *plan.HeadsRange:
		var filter *Child
		if e.Filter != nil {
			filter = &Child{Label: "filter", Context: Predicate, Node: e.Filter}
		}
		return Entry{
			Name:     "HeadsRange",
			Strategy: Eager,
			Children: present(
				parentsChild(e.ParentsRange, ctx),
				&Child{Label: "roots", Context: Eager, Node: e.Roots},
				&Child{Label: "heads", Context: Eager, Node: e.Heads},
				filter,
			),
		}
	case *plan.HasSize:
		return Entry{
			Name:     "HasSize",
			Strategy: Eager,
			Children: []Child{
				{Label: "count", Context: Resolved, Node: Count(e.Count)},
				{Label: "candidates", Context: Lazy, Node: e.Candidates},
			},
		}
	case *plan.Latest:
		return Entry{
			Name:     "Latest",
			Strategy: Eager,
			Children: []Child{
				{Label: "count", Context: Resolved, Node: Count(e.Count)},
				{Label: "candidates", Context: Eager, Node: e.Candidates},
			},
		}
	case *plan.Coalesce:
		return Entry{Name: "Coalesce", Strategy: ctx, Children: operands(exprNodes(e.Terms), ctx)}
	case *plan.Union:
		return Entry{Name: "Union", Strategy: ctx, Children: operands(exprNodes(e.Terms), ctx)}
	case *plan.FilterWithin:
		return Entry{
			Name:     "FilterWithin",
			Strategy: ctx,
			Children: []Child{
				{Label: "candidates", Context: ctx, Node: e.Candidates},
				{Label: "predicate", Context: Predicate, Node: e.Predicate},
			},
		}
	case *plan.Intersection:
		return Entry{Name: "Intersection", Strategy: ctx, Children: operands(exprNodes(e.Terms), ctx.eagerToLazy())}
	case *plan.Difference:
		return Entry{
			Name:     "Difference",
			Strategy: ctx,
			Children: []Child{
				{Label: "candidates", Context: ctx, Node: e.Left},
				{Label: "excluded", Context: ctx.eagerToLazy(), Node: e.Right},
			},
		}
	default:
		panic(fmt.Sprintf("analyze: unexpected plan expression %T", e))
	}
}

func classifyPredicate(p plan.Predicate) Entry {
	switch p := p.(type) {
	case *plan.PredicateFilter:
		if isNonEmpty(p.Filter) {
			return Entry{Name: "~empty()", Strategy: Predicate}
		}
		return Entry{Name: p.Filter.String(), Strategy: Predicate}
	case *plan.PredicateDivergent:
		return Entry{
			Name:     "Divergent",
			Strategy: Predicate,
			Children: []Child{{Label: "visible_heads", Context: Eager, Node: p.VisibleHeads}},
		}
	case *plan.PredicateSet:
		return classifyExpr(p.Set, Predicate)
	case *plan.PredicateNotIn:
		if f, ok := p.Inner.(*plan.PredicateFilter); ok {
			if isNonEmpty(f.Filter) {
				return Entry{Name: "empty()", Strategy: Predicate}
			}
			return Entry{Name: "~" + f.Filter.String(), Strategy: Predicate}
		}
		return Entry{
			Name:     "NotIn",
			Strategy: Predicate,
			Children: []Child{{Context: Predicate, Node: p.Inner}},
		}
	case *plan.PredicateUnion:
		return Entry{Name: "Union", Strategy: Predicate, Children: operands(predicateNodes(p.Terms), Predicate)}
	case *plan.PredicateIntersection:
		return Entry{Name: "Intersection", Strategy: Predicate, Children: operands(predicateNodes(p.Terms), Predicate)}
	default:
		panic(fmt.Sprintf("analyze: unexpected plan predicate %T", p))
	}
}

// isNonEmpty matches files(all()), the filter behind ~empty().
func isNonEmpty(f revset.FilterPredicate) bool {
	files, ok := f.(*revset.FilesFilter)
	return ok && revset.IsAllFiles(files.Files)
}

func eagerOperand(name string, operand plan.Expr) Entry {
	return Entry{Name: name, Strategy: Eager, Children: []Child{{Context: Eager, Node: operand}}}
}

func generationChild(label string, g revset.GenerationRange, ctx Context) *Child {
	if g.IsFull() {
		return nil
	}
	return &Child{Label: label, Context: ctx, Node: Generation(g)}
}

func parentsChild(p revset.ParentsRange, ctx Context) *Child {
	if p.IsFull() {
		return nil
	}
	return &Child{Label: "parent_index", Context: ctx, Node: ParentIndex(p)}
}

func present(children ...*Child) []Child {
	var out []Child
	for _, c := range children {
		if c != nil {
			out = append(out, *c)
		}
	}
	return out
}

func operands(nodes []Node, ctx Context) []Child {
	out := make([]Child, len(nodes))
	for i, n := range nodes {
		out[i] = Child{Context: ctx, Node: n}
	}
	return out
}

func exprNodes(terms []plan.Expr) []Node {
	out := make([]Node, len(terms))
	for i, term := range terms {
		out[i] = term
	}
	return out
}

func predicateNodes(terms []plan.Predicate) []Node {
	out := make([]Node, len(terms))
	for i, term := range terms {
		out[i] = term
	}
	return out
}
