// Package pipeline runs a revset through every analysis stage: parsing,
// alias expansion, lowering, optimization, plan resolution and analysis.
package pipeline

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/scott2000/jj-analyze/internal/alias"
	"github.com/scott2000/jj-analyze/internal/analyze"
	"github.com/scott2000/jj-analyze/internal/config"
	"github.com/scott2000/jj-analyze/internal/optimize"
	"github.com/scott2000/jj-analyze/internal/plan"
	"github.com/scott2000/jj-analyze/internal/revset"
	"github.com/scott2000/jj-analyze/internal/syntax"
)

// Options controls Run.
type Options struct {
	// Config supplies user aliases, the user's email and the cost policy.
	// Nil means no configuration was loaded.
	Config *config.Config

	// Defines are NAME=EXPR alias definitions applied after Config.
	Defines []string
	// Collapse lists alias declarations to show by name.
	Collapse []string
	// NoCollapseBuiltin expands trunk() and builtin_immutable_heads().
	NoCollapseBuiltin bool

	NoOptimize bool
	NoAnalyze  bool

	// Context is the context the whole revset is evaluated in.
	Context analyze.Context

	// Now anchors relative dates; zero means the current time.
	Now time.Time

	Logger *zap.Logger
}

// Result holds the output of every stage after parsing.
type Result struct {
	Optimized revset.Expression
	Plan      plan.Expr
	Tree      *analyze.Tree
}

// LoadConfig loads the configuration layers, tagging failures with
// StageConfig.
func LoadConfig(opts config.Options) (*config.Config, error) {
	cfg, err := config.Load(opts)
	if err != nil {
		return nil, stageErr(StageConfig, err)
	}
	return cfg, nil
}

// Run analyzes input.
func Run(input string, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = &config.Config{}
	}

	table, err := buildTable(cfg, opts.Defines)
	if err != nil {
		return nil, stageErr(StageAliases, err)
	}
	collapse, err := collapseSet(input, opts)
	if err != nil {
		return nil, stageErr(StageAliases, err)
	}
	logger.Debug("alias table ready",
		zap.Int("aliases", len(table.Declarations())),
		zap.Strings("collapse", collapse.names()),
	)

	node, err := syntax.Parse(input)
	if err != nil {
		return nil, stageErr(StageParse, err)
	}
	logger.Debug("parsed", zap.String("syntax", syntax.Format(node)))

	expanded, err := alias.NewExpander(table, logger).WithCollapse(collapse.contains).Expand(node)
	if err != nil {
		return nil, stageErr(StageExpand, err)
	}

	lowered, err := revset.Lower(expanded, revset.LowerOptions{
		UserEmail:  cfg.User.Email,
		Now:        opts.Now,
		AliasNames: table.FunctionNames(),
	})
	if err != nil {
		return nil, stageErr(StageLower, err)
	}
	logger.Debug("lowered", zap.String("expression", revset.Format(lowered)))

	optimized := optimize.Optimize(lowered, optimize.Options{
		UnwrapOnly: opts.NoOptimize,
		Logger:     logger,
	})
	logger.Debug("optimized", zap.String("expression", revset.Format(optimized)))

	p := plan.Resolve(optimized)
	policy := analyze.DefaultPolicy()
	if span := cfg.Analyze.LargeGenerationSpan; span != 0 {
		policy.LargeGenerationSpan = span
	}
	tree := analyze.Analyze(p, analyze.Options{
		Context:  opts.Context,
		Policy:   policy,
		Disabled: opts.NoAnalyze,
	})
	logger.Debug("analyzed",
		zap.Stringer("context", opts.Context),
		zap.Int("policy_version", analyze.PolicyVersion),
		zap.Uint64("large_generation_span", policy.LargeGenerationSpan),
	)

	return &Result{Optimized: optimized, Plan: p, Tree: tree}, nil
}

// buildTable layers the built-in aliases, the configured aliases and the
// --define overrides, later layers replacing earlier ones.
func buildTable(cfg *config.Config, defines []string) (*alias.Table, error) {
	table := alias.NewBuiltinTable()
	if err := cfg.DefineAliases(table); err != nil {
		return nil, err
	}
	for _, def := range defines {
		name, body, err := splitDefine(def)
		if err != nil {
			return nil, err
		}
		if err := table.Define(name, body); err != nil {
			return nil, err
		}
	}
	return table, nil
}

func splitDefine(def string) (string, string, error) {
	name, body, ok := strings.Cut(def, "=")
	if !ok {
		return "", "", fmt.Errorf("expected a '=' in revset definition %q", def)
	}
	return strings.TrimSpace(name), strings.TrimSpace(body), nil
}
