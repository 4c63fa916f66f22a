// Package optimize rewrites logical revset trees the way the default
// revset engine does before evaluating them.
package optimize

import (
	"reflect"

	"go.uber.org/zap"

	"github.com/scott2000/jj-analyze/internal/revset"
)

// maxIterations bounds the fixed-point loop.
const maxIterations = 64

// Options controls a single Optimize call.
type Options struct {
	// UnwrapOnly removes alias markers and skips every other rewrite.
	UnwrapOnly bool
	Logger     *zap.Logger
}

type pass struct {
	name string
	rule func(revset.Expression) revset.Expression
}

var rewrites = []pass{
	{"unfold_difference", unfoldDifference},
	{"fold_redundant", foldRedundant},
	{"fold_generation", foldGeneration},
	{"internalize_filter", internalizeFilter},
	{"normalize_intersection", normalizeIntersection},
	{"fold_difference", foldDifference},
	{"fold_not_in_ancestors", foldNotInAncestors},
	{"fold_heads_range", foldHeadsRange},
}

// Optimize returns the rewritten tree. Rewrites repeat until the tree stops
// changing, so optimizing the result again returns an identical tree.
func Optimize(e revset.Expression, opts Options) revset.Expression {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	e = revset.Transform(e, unwrapAliases)
	if opts.UnwrapOnly {
		return e
	}

	for i := 0; i < maxIterations; i++ {
		next := e
		for _, p := range rewrites {
			next = revset.Transform(next, p.rule)
		}
		if reflect.DeepEqual(next, e) {
			logger.Debug("optimizer reached fixed point", zap.Int("iterations", i+1))
			return next
		}
		if ce := logger.Check(zap.DebugLevel, "optimizer iteration"); ce != nil {
			ce.Write(zap.Int("iteration", i+1), zap.String("expression", revset.Format(next)))
		}
		e = next
	}
	logger.Warn("optimizer did not reach a fixed point", zap.Int("iterations", maxIterations))
	return e
}

func unwrapAliases(e revset.Expression) revset.Expression {
	if alias, ok := e.(*revset.AliasExpanded); ok {
		return alias.Body
	}
	return e
}
