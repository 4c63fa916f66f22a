package pipeline

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scott2000/jj-analyze/internal/alias"
	"github.com/scott2000/jj-analyze/internal/analyze"
	"github.com/scott2000/jj-analyze/internal/config"
	"github.com/scott2000/jj-analyze/internal/render"
	"github.com/scott2000/jj-analyze/internal/revset"
	"github.com/scott2000/jj-analyze/internal/syntax"
	"github.com/scott2000/jj-analyze/internal/testutil"
	"github.com/scott2000/jj-analyze/internal/ui"
)

func run(t *testing.T, input string, opts Options) *Result {
	t.Helper()
	if opts.Now.IsZero() {
		opts.Now = testutil.Now
	}
	res, err := Run(input, opts)
	require.NoError(t, err)
	return res
}

func text(t *testing.T, res *Result) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, render.Write(&buf, res.Tree, render.FormatText, ui.ColorNever))
	return buf.String()
}

func TestRunScenarios(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		optimized string
		want      string
	}{
		{
			name:      "collapsed builtins",
			input:     "@ | ancestors(immutable_heads().., 2) | trunk()",
			optimized: "union(@, ancestors(range(builtin_immutable_heads(), visible_heads()), generation=0..2), trunk())",
			want: `Union [
  @
  Ancestors {
    generation: 0..2
    heads: Range {
      roots: builtin_immutable_heads()
      heads: visible_heads()
    }
  }
  trunk()
]
`,
		},
		{
			name:      "latest empty commit scans everything",
			input:     "latest(empty())",
			optimized: "latest(as_filter(not_in(files(all()))), 1)",
			want: `Latest {
  count: 1
  candidates: FilterWithin {
    candidates: (EXPENSIVE) Ancestors {
      heads: visible_heads()
    }
    predicate: empty()
  }
}
`,
		},
		{
			name:      "mutable bounds the scan",
			input:     "latest(empty() & mutable())",
			optimized: "latest(intersection(range(union(builtin_immutable_heads(), root()), visible_heads()), as_filter(not_in(files(all())))), 1)",
		},
		{
			name:      "heads of a filtered range",
			input:     "latest(heads(empty() & mutable()))",
			optimized: "latest(heads_range(union(builtin_immutable_heads(), root()), visible_heads(), as_filter(not_in(files(all())))), 1)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := run(t, tt.input, Options{Context: analyze.Lazy})
			assert.Equal(t, tt.optimized, revset.Format(res.Optimized))
			if tt.want != "" {
				assert.Equal(t, tt.want, text(t, res))
			}
		})
	}
}

func TestRunDefineOverridesBuiltin(t *testing.T) {
	res := run(t, "immutable()", Options{
		Context: analyze.Lazy,
		Defines: []string{"immutable_heads() = none()"},
	})
	assert.Equal(t, "ancestors(root())", revset.Format(res.Optimized))
}

func TestRunDefineUncollapsesBuiltin(t *testing.T) {
	res := run(t, "trunk() | x", Options{
		Context: analyze.Lazy,
		Defines: []string{"trunk()=main"},
	})
	assert.Equal(t, "union(main, x)", revset.Format(res.Optimized))
}

func TestRunNoCollapseBuiltin(t *testing.T) {
	res := run(t, "immutable_heads()", Options{Context: analyze.Lazy, NoCollapseBuiltin: true})
	formatted := revset.Format(res.Optimized)
	assert.NotContains(t, formatted, "builtin_immutable_heads()")
	assert.NotContains(t, formatted, "trunk()")
	assert.Contains(t, formatted, "tags()")
}

func TestRunWholeInputIsNeverCollapsed(t *testing.T) {
	res := run(t, "trunk()", Options{Context: analyze.Lazy})
	assert.NotEqual(t, "trunk()", revset.Format(res.Optimized))
	assert.Contains(t, revset.Format(res.Optimized), "latest(")
}

func TestRunCollapseUserAlias(t *testing.T) {
	cfg := &config.Config{RevsetAliases: map[string]string{
		"stack(x)": "x::@",
		"wip":      `description(glob:"wip*")`,
	}}

	res := run(t, "stack(main) | wip", Options{
		Config:   cfg,
		Context:  analyze.Lazy,
		Collapse: []string{"stack(y)", " wip "},
	})
	assert.Equal(t, "union(stack(main), wip)", revset.Format(res.Optimized))
}

func TestRunCollapseSkipsExpansion(t *testing.T) {
	t.Run("undefined function", func(t *testing.T) {
		res := run(t, "foo() | x", Options{Context: analyze.Lazy, Collapse: []string{"foo()"}})
		assert.Equal(t, "union(foo(), x)", revset.Format(res.Optimized))
	})

	t.Run("body that does not expand", func(t *testing.T) {
		cfg := &config.Config{RevsetAliases: map[string]string{
			"wip":      "wip | x",
			"broken()": "nonexistent(x)",
			"stack(x)": "x::@",
		}}
		res := run(t, "wip | broken() | stack(main)", Options{
			Config:   cfg,
			Context:  analyze.Lazy,
			Collapse: []string{"wip", "broken()", "stack(x)"},
		})
		assert.Equal(t, "union(wip, broken(), stack(main))", revset.Format(res.Optimized))
	})

	t.Run("collapsed alias keeps its arity", func(t *testing.T) {
		cfg := &config.Config{RevsetAliases: map[string]string{"stack(x)": "x::@"}}
		_, err := Run("stack() | x", Options{
			Config:   cfg,
			Context:  analyze.Lazy,
			Collapse: []string{"stack(x)"},
		})
		var arity *alias.ArityError
		require.True(t, errors.As(err, &arity), "got %v", err)
	})

	t.Run("expanded without collapse", func(t *testing.T) {
		cfg := &config.Config{RevsetAliases: map[string]string{"wip": "wip | x"}}
		_, err := Run("wip | y", Options{Config: cfg, Context: analyze.Lazy})
		var cycle *alias.CycleError
		require.True(t, errors.As(err, &cycle), "got %v", err)
	})
}

func TestRunNoOptimize(t *testing.T) {
	res := run(t, "x ~ y", Options{Context: analyze.Lazy, NoOptimize: true})
	assert.Equal(t, "difference(x, y)", revset.Format(res.Optimized))

	res = run(t, "x ~ y", Options{Context: analyze.Lazy})
	assert.Equal(t, "difference(x, y)", revset.Format(res.Optimized))
}

func TestRunUsesConfig(t *testing.T) {
	cfg := &config.Config{
		User:    config.UserConfig{Email: "me@example.com"},
		Analyze: config.AnalyzeConfig{LargeGenerationSpan: 3},
	}

	res := run(t, "mine()", Options{Config: cfg, Context: analyze.Lazy})
	assert.Contains(t, revset.Format(res.Optimized), "me@example.com")

	res = run(t, "ancestors(x, 5)", Options{Config: cfg, Context: analyze.Eager})
	assert.True(t, res.Tree.Expensive)

	res = run(t, "ancestors(x, 5)", Options{Context: analyze.Eager})
	assert.False(t, res.Tree.Expensive)
}

func TestRunNoAnalyze(t *testing.T) {
	res := run(t, "latest(empty())", Options{Context: analyze.Lazy, NoAnalyze: true})
	res.Tree.Walk(func(n *analyze.Tree) {
		assert.False(t, n.Expensive)
		assert.Contains(t, []analyze.Context{analyze.Neutral, analyze.Resolved}, n.Strategy)
	})
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		opts   Options
		stage  Stage
		target any
	}{
		{
			name:   "syntax error",
			input:  "x &",
			stage:  StageParse,
			target: new(*syntax.Error),
		},
		{
			name:   "chained range",
			input:  "a::b::c",
			stage:  StageParse,
			target: new(*syntax.Error),
		},
		{
			name:   "unknown function",
			input:  "heds(x)",
			stage:  StageLower,
			target: new(*revset.UnknownFunctionError),
		},
		{
			name:   "bad argument",
			input:  "parents(x, y)",
			stage:  StageLower,
			target: new(*revset.ArgumentError),
		},
		{
			name:   "alias cycle",
			input:  "a",
			opts:   Options{Defines: []string{"a=b", "b=a"}},
			stage:  StageExpand,
			target: new(*alias.CycleError),
		},
		{
			name:   "alias arity",
			input:  "f(x, y)",
			opts:   Options{Defines: []string{"f(a)=a"}},
			stage:  StageExpand,
			target: new(*alias.ArityError),
		},
		{
			name:   "define without equals",
			input:  "x",
			opts:   Options{Defines: []string{"trunk()"}},
			stage:  StageAliases,
			target: nil,
		},
		{
			name:   "define with bad body",
			input:  "x",
			opts:   Options{Defines: []string{"f()=x &"}},
			stage:  StageAliases,
			target: new(*alias.DeclarationError),
		},
		{
			name:   "bad collapse declaration",
			input:  "x",
			opts:   Options{Collapse: []string{"f(a, a)"}},
			stage:  StageAliases,
			target: new(*alias.DeclarationError),
		},
		{
			name:   "bad configured alias",
			input:  "x",
			opts:   Options{Config: &config.Config{RevsetAliases: map[string]string{"bad": "(("}}},
			stage:  StageAliases,
			target: new(*config.AliasLoadError),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Run(tt.input, tt.opts)
			require.Error(t, err)

			var stageErr *StageError
			require.True(t, errors.As(err, &stageErr), "expected StageError, got %T", err)
			assert.Equal(t, tt.stage, stageErr.Stage)
			assert.Contains(t, err.Error(), string(tt.stage)+": ")
			if tt.target != nil {
				assert.True(t, errors.As(err, tt.target), "expected %T in %v", tt.target, err)
			}
		})
	}
}

func TestLoadConfigTagsStage(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/config.toml"
	testutil.WriteFile(t, path, "[user\n")

	_, err := LoadConfig(config.Options{UserConfigPaths: []string{path}})
	var stageErr *StageError
	require.True(t, errors.As(err, &stageErr))
	assert.Equal(t, StageConfig, stageErr.Stage)
}
