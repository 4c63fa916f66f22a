package cli_test

import (
	"strings"
	"testing"

	"github.com/scott2000/jj-analyze/internal/testutil"
)

func TestCLIIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	t.Parallel()

	ws := testutil.NewTestWorkspace(t).
		WithRepoConfig("[revset-aliases]\n'immutable_heads()' = 'builtin_immutable_heads() | release'\n").
		Build()

	t.Run("collapsed builtins", func(t *testing.T) {
		ws.RunCLI("@ | ancestors(immutable_heads().., 2) | trunk()").
			MustSucceed(t).
			AssertStdout(t, `Union [
  @
  Ancestors {
    generation: 0..2
    heads: Range {
      roots: Union [
        builtin_immutable_heads()
        release
      ]
      heads: visible_heads()
    }
  }
  trunk()
]
`)
	})

	t.Run("define overrides repo config", func(t *testing.T) {
		ws.RunCLI("-d", "immutable_heads()=none()", "latest(heads(empty() & mutable()))").
			MustSucceed(t).
			AssertStdout(t, `Latest {
  count: 1
  candidates: HeadsRange {
    roots: root()
    heads: visible_heads()
    filter: empty()
  }
}
`)
	})

	t.Run("no analyze", func(t *testing.T) {
		result := ws.RunCLI("-A", "latest(empty())").MustSucceed(t)
		if strings.Contains(result.Stdout, "EXPENSIVE") {
			t.Errorf("expected no cost markers, got:\n%s", result.Stdout)
		}
	})

	t.Run("yaml output", func(t *testing.T) {
		ws.RunCLI("-o", "yaml", "x").
			MustSucceed(t).
			AssertStdout(t, "name: x\nstrategy: resolved\n")
	})

	t.Run("syntax error", func(t *testing.T) {
		ws.RunCLI("x &").MustFail(t, "parse: ")
	})

	t.Run("unknown function", func(t *testing.T) {
		ws.RunCLI("heds(x)").MustFail(t, "lower: ")
	})

	t.Run("alias cycle", func(t *testing.T) {
		ws.RunCLI("-d", "a=b", "-d", "b=a", "a").MustFail(t, "expand: ")
	})

	t.Run("missing equals in define", func(t *testing.T) {
		ws.RunCLI("-d", "trunk()", "x").MustFail(t, "aliases: ")
	})

	t.Run("invalid context", func(t *testing.T) {
		ws.RunCLI("-c", "fast", "x").MustFail(t, "invalid context")
	})

	t.Run("version", func(t *testing.T) {
		ws.RunCLI("--version").MustSucceed(t).AssertStdoutContains(t, "jj-analyze ")
	})
}
