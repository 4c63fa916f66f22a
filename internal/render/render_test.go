package render

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/scott2000/jj-analyze/internal/analyze"
	"github.com/scott2000/jj-analyze/internal/plan"
	"github.com/scott2000/jj-analyze/internal/testutil"
	"github.com/scott2000/jj-analyze/internal/ui"
)

func tree(t *testing.T, input string, opts analyze.Options) *analyze.Tree {
	t.Helper()
	return analyze.Analyze(plan.Resolve(testutil.Optimized(t, input)), opts)
}

func TestText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		opts  analyze.Options
		want  string
	}{
		{
			name:  "union with collapsed aliases",
			input: "@ | ancestors(immutable_heads().., 2) | trunk()",
			opts:  analyze.Options{Context: analyze.Lazy},
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
			name:  "latest empty commit",
			input: "latest(empty())",
			opts:  analyze.Options{Context: analyze.Lazy},
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
			name:  "latest empty mutable commit",
			input: "latest(empty() & mutable())",
			opts:  analyze.Options{Context: analyze.Lazy},
			want: `Latest {
  count: 1
  candidates: FilterWithin {
    candidates: Range {
      roots: Union [
        builtin_immutable_heads()
        root()
      ]
      heads: visible_heads()
    }
    predicate: empty()
  }
}
`,
		},
		{
			name:  "heads range",
			input: "latest(heads(empty() & mutable()))",
			opts:  analyze.Options{Context: analyze.Lazy},
			want: `Latest {
  count: 1
  candidates: HeadsRange {
    roots: Union [
      builtin_immutable_heads()
      root()
    ]
    heads: visible_heads()
    filter: empty()
  }
}
`,
		},
		{
			name:  "single operand",
			input: "heads(x)",
			opts:  analyze.Options{Context: analyze.Eager},
			want: `Heads(
  x
)
`,
		},
		{
			name:  "leaf",
			input: "x",
			opts:  analyze.Options{Context: analyze.Eager},
			want:  "x\n",
		},
		{
			name:  "analysis disabled hides cost",
			input: "latest(empty())",
			opts:  analyze.Options{Context: analyze.Lazy, Disabled: true},
			want: `Latest {
  count: 1
  candidates: FilterWithin {
    candidates: Ancestors {
      heads: visible_heads()
    }
    predicate: empty()
  }
}
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			err := Write(&buf, tree(t, tt.input, tt.opts), FormatText, ui.ColorNever)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, buf.String()); diff != "" {
				t.Errorf("output mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTextColored(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf, tree(t, "latest(empty())", analyze.Options{Context: analyze.Lazy}), FormatText, ui.ColorAlways)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "\x1b[")
	assert.Contains(t, out, "(EXPENSIVE)")
	assert.Contains(t, out, "visible_heads()")
}

func TestJSONRoundTrip(t *testing.T) {
	want := tree(t, "latest(heads(empty() & mutable())) | ::@", analyze.Options{Context: analyze.Eager})

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, want, FormatJSON, ui.ColorNever))

	var got analyze.Tree
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	if diff := cmp.Diff(want, &got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
	assert.Contains(t, buf.String(), `"strategy": "eager"`)
}

func TestYAML(t *testing.T) {
	want := tree(t, "latest(empty())", analyze.Options{Context: analyze.Lazy})

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, want, FormatYAML, ui.ColorNever))
	assert.Contains(t, buf.String(), "name: Latest\n")
	assert.Contains(t, buf.String(), "expensive: true")

	var got analyze.Tree
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	if diff := cmp.Diff(want, &got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"text", "json", "yaml"} {
		f, err := ParseFormat(s)
		require.NoError(t, err)
		assert.Equal(t, s, f.String())
	}
	_, err := ParseFormat("xml")
	assert.Error(t, err)

	var f Format
	assert.Error(t, f.Set("toml"))
	assert.Equal(t, "format", f.Type())
}
