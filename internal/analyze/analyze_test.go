package analyze_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scott2000/jj-analyze/internal/analyze"
	"github.com/scott2000/jj-analyze/internal/plan"
	"github.com/scott2000/jj-analyze/internal/revset"
	"github.com/scott2000/jj-analyze/internal/testutil"
)

func analyzeString(t *testing.T, input string, ctx analyze.Context) *analyze.Tree {
	t.Helper()
	return analyze.Analyze(plan.Resolve(testutil.Optimized(t, input)), analyze.Options{Context: ctx})
}

func leaf(label, name string, strategy analyze.Context) *analyze.Tree {
	return &analyze.Tree{Label: label, Name: name, Strategy: strategy}
}

func TestAnalyzeLatestOfEmpty(t *testing.T) {
	want := &analyze.Tree{
		Name:     "Latest",
		Strategy: analyze.Eager,
		Children: []*analyze.Tree{
			leaf("count", "1", analyze.Resolved),
			{
				Label:    "candidates",
				Name:     "FilterWithin",
				Strategy: analyze.Eager,
				Children: []*analyze.Tree{
					{
						Label:     "candidates",
						Name:      "Ancestors",
						Strategy:  analyze.Eager,
						Expensive: true,
						Children:  []*analyze.Tree{leaf("heads", "visible_heads()", analyze.Resolved)},
					},
					leaf("predicate", "empty()", analyze.Predicate),
				},
			},
		},
	}

	got := analyzeString(t, "latest(empty())", analyze.Lazy)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestAnalyzeMutableRangeIsBounded(t *testing.T) {
	got := analyzeString(t, "latest(empty() & mutable())", analyze.Lazy)

	filter := got.Children[1]
	require.Equal(t, "FilterWithin", filter.Name)
	rng := filter.Children[0]
	assert.Equal(t, "Range", rng.Name)
	assert.Equal(t, analyze.Eager, rng.Strategy)
	assert.False(t, rng.Expensive)
	assert.Equal(t, "roots", rng.Children[0].Label)
	assert.Equal(t, "Union", rng.Children[0].Name)
}

func TestAnalyzeHeadsRangeFusion(t *testing.T) {
	want := &analyze.Tree{
		Label:    "candidates",
		Name:     "HeadsRange",
		Strategy: analyze.Eager,
		Children: []*analyze.Tree{
			{
				Label:    "roots",
				Name:     "Union",
				Strategy: analyze.Eager,
				Children: []*analyze.Tree{
					leaf("", "builtin_immutable_heads()", analyze.Resolved),
					leaf("", "root()", analyze.Resolved),
				},
			},
			leaf("heads", "visible_heads()", analyze.Resolved),
			leaf("filter", "empty()", analyze.Predicate),
		},
	}

	got := analyzeString(t, "latest(heads(empty() & mutable()))", analyze.Lazy)
	if diff := cmp.Diff(want, got.Children[1]); diff != "" {
		t.Errorf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestClassify(t *testing.T) {
	x := &plan.Reference{Label: "x"}
	root := &plan.Reference{Label: plan.RootLabel}
	files := &revset.FilesFilter{Files: &revset.FilesetAll{}}
	merges := &revset.ParentCount{Range: revset.MergeParents}

	tests := []struct {
		name         string
		node         analyze.Node
		ctx          analyze.Context
		wantName     string
		wantStrategy analyze.Context
		wantChildren []string // "label:context"
	}{
		{"reference", x, analyze.Eager, "x", analyze.Resolved, nil},
		{"none", &plan.None{}, analyze.Lazy, "none()", analyze.Resolved, nil},
		{
			"ancestors under predicate",
			&plan.Ancestors{Heads: x, Generation: revset.GenerationAt(1), ParentsRange: revset.ParentsRange{Start: 0, End: 1}},
			analyze.Predicate, "Ancestors", analyze.Lazy,
			[]string{"generation:predicate", "parent_index:predicate", "heads:eager"},
		},
		{
			"range",
			&plan.Range{Roots: root, Heads: x, Generation: revset.FullGeneration, ParentsRange: revset.FullParents},
			analyze.Eager, "Range", analyze.Eager,
			[]string{"roots:eager", "heads:eager"},
		},
		{
			"children dag range is lazy",
			&plan.DagRange{Roots: x, Heads: x, GenerationFromRoots: revset.GenerationAt(1)},
			analyze.Predicate, "DagRange", analyze.Lazy,
			[]string{"generation_from_roots:predicate", "roots:eager", "heads:eager"},
		},
		{
			"unbounded dag range is eager",
			&plan.DagRange{Roots: x, Heads: x, GenerationFromRoots: revset.FullGeneration},
			analyze.Lazy, "DagRange", analyze.Eager,
			[]string{"roots:eager", "heads:eager"},
		},
		{
			"reachable",
			&plan.Reachable{Sources: x, Domain: x},
			analyze.Lazy, "Reachable", analyze.Eager,
			[]string{"sources:predicate", "domain:eager"},
		},
		{"heads", &plan.Heads{Candidates: x}, analyze.Lazy, "Heads", analyze.Eager, []string{":eager"}},
		{"roots", &plan.Roots{Candidates: x}, analyze.Lazy, "Roots", analyze.Eager, []string{":eager"}},
		{"fork point", &plan.ForkPoint{Candidates: x}, analyze.Lazy, "ForkPoint", analyze.Eager, []string{":eager"}},
		{"bisect", &plan.Bisect{Candidates: x}, analyze.Lazy, "Bisect", analyze.Eager, []string{":eager"}},
		{
			"heads range with filter",
			&plan.HeadsRange{Roots: x, Heads: x, ParentsRange: revset.FullParents, Filter: &plan.PredicateFilter{Filter: merges}},
			analyze.Lazy, "HeadsRange", analyze.Eager,
			[]string{"roots:eager", "heads:eager", "filter:predicate"},
		},
		{
			"has size",
			&plan.HasSize{Candidates: x, Count: 2},
			analyze.Eager, "HasSize", analyze.Eager,
			[]string{"count:resolved", "candidates:lazy"},
		},
		{
			"latest",
			&plan.Latest{Candidates: x, Count: 1},
			analyze.Lazy, "Latest", analyze.Eager,
			[]string{"count:resolved", "candidates:eager"},
		},
		{"union", &plan.Union{Terms: []plan.Expr{x, x}}, analyze.Eager, "Union", analyze.Eager, []string{":eager", ":eager"}},
		{"coalesce", &plan.Coalesce{Terms: []plan.Expr{x, x}}, analyze.Lazy, "Coalesce", analyze.Lazy, []string{":lazy", ":lazy"}},
		{"intersection", &plan.Intersection{Terms: []plan.Expr{x, x}}, analyze.Eager, "Intersection", analyze.Eager, []string{":lazy", ":lazy"}},
		{
			"difference",
			&plan.Difference{Left: x, Right: x},
			analyze.Eager, "Difference", analyze.Eager,
			[]string{"candidates:eager", "excluded:lazy"},
		},
		{
			"filter within",
			&plan.FilterWithin{Candidates: x, Predicate: &plan.PredicateFilter{Filter: merges}},
			analyze.Lazy, "FilterWithin", analyze.Lazy,
			[]string{"candidates:lazy", "predicate:predicate"},
		},
		{"filter", &plan.PredicateFilter{Filter: merges}, analyze.Predicate, "merges()", analyze.Predicate, nil},
		{"non-empty", &plan.PredicateFilter{Filter: files}, analyze.Predicate, "~empty()", analyze.Predicate, nil},
		{"empty", &plan.PredicateNotIn{Inner: &plan.PredicateFilter{Filter: files}}, analyze.Predicate, "empty()", analyze.Predicate, nil},
		{"negated filter", &plan.PredicateNotIn{Inner: &plan.PredicateFilter{Filter: merges}}, analyze.Predicate, "~merges()", analyze.Predicate, nil},
		{
			"negated set",
			&plan.PredicateNotIn{Inner: &plan.PredicateSet{Set: x}},
			analyze.Predicate, "NotIn", analyze.Predicate,
			[]string{":predicate"},
		},
		{
			"divergent",
			&plan.PredicateDivergent{VisibleHeads: &plan.Reference{Label: plan.VisibleHeadsLabel}},
			analyze.Predicate, "Divergent", analyze.Predicate,
			[]string{"visible_heads:eager"},
		},
		{
			"set",
			&plan.PredicateSet{Set: &plan.Union{Terms: []plan.Expr{x, x}}},
			analyze.Eager, "Union", analyze.Predicate,
			[]string{":predicate", ":predicate"},
		},
		{
			"predicate union",
			&plan.PredicateUnion{Terms: []plan.Predicate{&plan.PredicateSet{Set: x}, &plan.PredicateFilter{Filter: merges}}},
			analyze.Predicate, "Union", analyze.Predicate,
			[]string{":predicate", ":predicate"},
		},
		{"generation", analyze.Generation(revset.GenerationRange{Start: 0, End: 3}), analyze.Eager, "0..3", analyze.Resolved, nil},
		{"parent index", analyze.ParentIndex(revset.ParentsRange{Start: 0, End: 1}), analyze.Eager, "0", analyze.Resolved, nil},
		{"count", analyze.Count(5), analyze.Eager, "5", analyze.Resolved, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := analyze.Classify(tt.node, tt.ctx)
			assert.Equal(t, tt.wantName, entry.Name)
			assert.Equal(t, tt.wantStrategy, entry.Strategy)

			var children []string
			for _, c := range entry.Children {
				children = append(children, c.Label+":"+c.Context.String())
			}
			assert.Equal(t, tt.wantChildren, children)
		})
	}
}

func TestExpensive(t *testing.T) {
	x := &plan.Reference{Label: "x"}
	root := &plan.Reference{Label: plan.RootLabel}
	full := revset.FullGeneration
	policy := analyze.DefaultPolicy()

	tests := []struct {
		name string
		node analyze.Node
		ctx  analyze.Context
		want bool
	}{
		{"eager ancestors", &plan.Ancestors{Heads: x, Generation: full, ParentsRange: revset.FullParents}, analyze.Eager, true},
		{"lazy ancestors", &plan.Ancestors{Heads: x, Generation: full, ParentsRange: revset.FullParents}, analyze.Lazy, false},
		{"ancestors of root", &plan.Ancestors{Heads: root, Generation: full, ParentsRange: revset.FullParents}, analyze.Eager, false},
		{"bounded ancestors", &plan.Ancestors{Heads: x, Generation: revset.GenerationRange{Start: 0, End: 9999}, ParentsRange: revset.FullParents}, analyze.Eager, false},
		{"at threshold", &plan.Ancestors{Heads: x, Generation: revset.GenerationRange{Start: 0, End: 10000}, ParentsRange: revset.FullParents}, analyze.Eager, true},
		{"range from root", &plan.Range{Roots: root, Heads: x, Generation: full, ParentsRange: revset.FullParents}, analyze.Eager, true},
		{"range from none", &plan.Range{Roots: &plan.None{}, Heads: x, Generation: full, ParentsRange: revset.FullParents}, analyze.Eager, true},
		{"range with boundary", &plan.Range{Roots: x, Heads: x, Generation: full, ParentsRange: revset.FullParents}, analyze.Eager, false},
		{"dag range from root", &plan.DagRange{Roots: root, Heads: x, GenerationFromRoots: full}, analyze.Lazy, true},
		{"dag range from none", &plan.DagRange{Roots: &plan.None{}, Heads: x, GenerationFromRoots: full}, analyze.Lazy, false},
		{"dag range to root", &plan.DagRange{Roots: root, Heads: root, GenerationFromRoots: full}, analyze.Lazy, false},
		{
			"intersection of expensive",
			&plan.Intersection{Terms: []plan.Expr{
				&plan.Ancestors{Heads: x, Generation: full, ParentsRange: revset.FullParents},
				&plan.Range{Roots: root, Heads: x, Generation: full, ParentsRange: revset.FullParents},
			}},
			analyze.Eager, true,
		},
		{
			"intersection with bounded term",
			&plan.Intersection{Terms: []plan.Expr{
				&plan.Ancestors{Heads: x, Generation: full, ParentsRange: revset.FullParents},
				x,
			}},
			analyze.Eager, false,
		},
		{"predicate set", &plan.PredicateSet{Set: &plan.DagRange{Roots: root, Heads: x, GenerationFromRoots: full}}, analyze.Predicate, true},
		{"predicate set of ancestors", &plan.PredicateSet{Set: &plan.Ancestors{Heads: x, Generation: full, ParentsRange: revset.FullParents}}, analyze.Eager, false},
		{"reference", x, analyze.Eager, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, policy.Expensive(tt.node, tt.ctx))
		})
	}
}

var propertyInputs = []string{
	"latest(empty())",
	"latest(empty() & mutable())",
	"latest(heads(empty() & mutable()))",
	"@ | ancestors(immutable_heads().., 2) | trunk()",
	"::@ & ~::trunk()",
	"root()::@",
	"reachable(@, mutable())",
	"heads(::x) & exactly(y, 2)",
	"fork_point(x | y) ~ divergent()",
	"bisect(x..y) | coalesce(::a, b::)",
	"ancestors(@, 20000) & ancestors(x, 3)",
}

func TestAnalyzeIsDeterministic(t *testing.T) {
	for _, input := range propertyInputs {
		for _, ctx := range []analyze.Context{analyze.Eager, analyze.Lazy, analyze.Predicate} {
			t.Run(input+"/"+ctx.String(), func(t *testing.T) {
				first := analyzeString(t, input, ctx)
				second := analyzeString(t, input, ctx)
				if diff := cmp.Diff(first, second); diff != "" {
					t.Errorf("analysis differs between runs:\n%s", diff)
				}
			})
		}
	}
}

// expensiveSubset reports whether every node expensive in a is also
// expensive at the same position in b.
func expensiveSubset(a, b *analyze.Tree) bool {
	if a.Expensive && !b.Expensive {
		return false
	}
	if len(a.Children) != len(b.Children) {
		return false
	}
	for i := range a.Children {
		if !expensiveSubset(a.Children[i], b.Children[i]) {
			return false
		}
	}
	return true
}

func TestExpensiveIsMonotonic(t *testing.T) {
	for _, input := range propertyInputs {
		t.Run(input, func(t *testing.T) {
			p := plan.Resolve(testutil.Optimized(t, input))
			eager := analyze.Analyze(p, analyze.Options{Context: analyze.Eager})
			lazy := analyze.Analyze(p, analyze.Options{Context: analyze.Lazy})
			predicate := analyze.Analyze(p, analyze.Options{Context: analyze.Predicate})
			assert.True(t, expensiveSubset(lazy, eager), "lazy marks a node eager does not")
			assert.True(t, expensiveSubset(predicate, eager), "predicate marks a node eager does not")

			strict := analyze.Analyze(p, analyze.Options{Context: analyze.Lazy, Policy: analyze.Policy{LargeGenerationSpan: 3}})
			assert.True(t, expensiveSubset(lazy, strict), "a lower threshold unmarked a node")
		})
	}
}

func TestAnalyzeDisabled(t *testing.T) {
	p := plan.Resolve(testutil.Optimized(t, "latest(empty())"))
	tree := analyze.Analyze(p, analyze.Options{Context: analyze.Lazy, Disabled: true})
	tree.Walk(func(n *analyze.Tree) {
		assert.False(t, n.Expensive, n.Name)
		if n.Strategy != analyze.Resolved {
			assert.Equal(t, analyze.Neutral, n.Strategy, n.Name)
		}
	})
}

func TestContextText(t *testing.T) {
	for _, ctx := range []analyze.Context{analyze.Eager, analyze.Lazy, analyze.Predicate, analyze.Resolved, analyze.Neutral} {
		text, err := ctx.MarshalText()
		require.NoError(t, err)
		var parsed analyze.Context
		require.NoError(t, parsed.UnmarshalText(text))
		assert.Equal(t, ctx, parsed)
	}
	_, err := analyze.ParseContext("fast")
	assert.Error(t, err)
}
