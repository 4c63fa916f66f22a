package testutil

import (
	"testing"
	"time"

	"github.com/scott2000/jj-analyze/internal/alias"
	"github.com/scott2000/jj-analyze/internal/optimize"
	"github.com/scott2000/jj-analyze/internal/revset"
	"github.com/scott2000/jj-analyze/internal/syntax"
)

// Now is the fixed clock used when lowering test revsets.
var Now = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

// CollapseDefaults collapses trunk() and builtin_immutable_heads().
func CollapseDefaults(name string, function bool, _ string) bool {
	if !function {
		return false
	}
	for _, collapsed := range alias.DefaultCollapsed {
		if collapsed == name+"()" {
			return true
		}
	}
	return false
}

// Optimized parses, expands, lowers and optimizes input with the built-in
// aliases and the default collapse set, failing the test on any error.
func Optimized(t *testing.T, input string) revset.Expression {
	t.Helper()
	node, err := syntax.Parse(input)
	if err != nil {
		t.Fatalf("parse %q: %v", input, err)
	}
	expanded, err := alias.NewExpander(alias.NewBuiltinTable(), nil).WithCollapse(CollapseDefaults).Expand(node)
	if err != nil {
		t.Fatalf("expand %q: %v", input, err)
	}
	e, err := revset.Lower(expanded, revset.LowerOptions{UserEmail: "me@example.com", Now: Now})
	if err != nil {
		t.Fatalf("lower %q: %v", input, err)
	}
	return optimize.Optimize(e, optimize.Options{})
}
