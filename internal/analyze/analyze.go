package analyze

import "github.com/scott2000/jj-analyze/internal/plan"

// Tree is a plan node annotated with its strategy and cost.
type Tree struct {
	Label     string  `json:"label,omitempty" yaml:"label,omitempty"`
	Name      string  `json:"name" yaml:"name"`
	Strategy  Context `json:"strategy" yaml:"strategy"`
	Expensive bool    `json:"expensive,omitempty" yaml:"expensive,omitempty"`
	Children  []*Tree `json:"children,omitempty" yaml:"children,omitempty"`
}

// Options controls Analyze.
type Options struct {
	// Context is the context the whole query is evaluated in.
	Context Context
	Policy  Policy
	// Disabled skips classification: strategies become Neutral and no node
	// is marked expensive.
	Disabled bool
}

// Analyze annotates every node of e. A zero Policy means DefaultPolicy.
func Analyze(e plan.Expr, opts Options) *Tree {
	if opts.Policy == (Policy{}) {
		opts.Policy = DefaultPolicy()
	}
	return annotate(e, opts.Context, "", opts)
}

func annotate(n Node, ctx Context, label string, opts Options) *Tree {
	entry := Classify(n, ctx)
	t := &Tree{Label: label, Name: entry.Name, Strategy: entry.Strategy}
	if opts.Disabled {
		if t.Strategy != Resolved {
			t.Strategy = Neutral
		}
	} else {
		t.Expensive = opts.Policy.Expensive(n, ctx)
	}
	for _, child := range entry.Children {
		t.Children = append(t.Children, annotate(child.Node, child.Context, child.Label, opts))
	}
	return t
}

// Walk calls fn for t and every descendant in depth-first order.
func (t *Tree) Walk(fn func(*Tree)) {
	fn(t)
	for _, child := range t.Children {
		child.Walk(fn)
	}
}
