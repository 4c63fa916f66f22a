// Package cli implements the command-line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/scott2000/jj-analyze/internal/analyze"
	"github.com/scott2000/jj-analyze/internal/config"
	"github.com/scott2000/jj-analyze/internal/pipeline"
	"github.com/scott2000/jj-analyze/internal/render"
	"github.com/scott2000/jj-analyze/internal/ui"
)

var (
	// Flags
	collapseFlags     []string
	colorFlag         ui.ColorMode // empty when --color is not given
	contextFlag       = contextValue(analyze.Lazy)
	defineFlags       []string
	noAnalyze         bool
	noCollapseBuiltin bool
	noConfig          bool
	noOptimize        bool
	repositoryPath    string
	outputFormat      = render.FormatText
	verbose           bool

	// Resolved values, also used when reporting errors
	resolvedColor ui.ColorMode
	analyzedInput string

	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "jj-analyze [flags] <REVSET>",
	Short: "Analyze a revset and display a tree showing how it will be evaluated",
	Long: `Analyze a revset and display a tree showing how it will be evaluated.

Potentially expensive operations are indicated with an (EXPENSIVE) label.
When color is enabled, operations are also colored based on how they are
evaluated: eager evaluation is blue, lazy evaluation is cyan, and predicates
are magenta.

The analysis follows the default index implementation's revset engine. If you
use a build of jj with a different index implementation, the results may not
be accurate.

To make the output easier to read, nested union, intersection and coalesce
operations are flattened, and some operations are renamed for clarity.`,
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeRevset,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := zapcore.WarnLevel
		if verbose {
			level = zapcore.DebugLevel
		}
		var err error
		logger, err = newLogger(level)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runAnalyze,
}

func newLogger(level zapcore.Level) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.DisableStacktrace = true
	return cfg.Build()
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	analyzedInput = args[0]
	if logger == nil {
		logger = zap.NewNop()
	}

	workspace := repositoryPath
	if workspace == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to find current directory: %w", err)
		}
		workspace = config.FindWorkspaceDir(cwd)
	}

	cfg := &config.Config{}
	if !noConfig {
		var err error
		cfg, err = pipeline.LoadConfig(config.Options{WorkspaceDir: workspace})
		if err != nil {
			return err
		}
		logger.Debug("config loaded",
			zap.String("workspace", workspace),
			zap.Int("revset_aliases", len(cfg.RevsetAliases)),
		)
	}
	resolvedColor = colorMode(cfg)

	res, err := pipeline.Run(analyzedInput, pipeline.Options{
		Config:            cfg,
		Defines:           defineFlags,
		Collapse:          collapseFlags,
		NoCollapseBuiltin: noCollapseBuiltin,
		NoOptimize:        noOptimize,
		NoAnalyze:         noAnalyze,
		Context:           analyze.Context(contextFlag),
		Logger:            logger,
	})
	if err != nil {
		return err
	}

	return render.Write(cmd.OutOrStdout(), res.Tree, outputFormat, resolvedColor)
}

// colorMode prefers --color, then ui.color from config. Values jj accepts
// but this tool does not, such as "debug", fall back to auto.
func colorMode(cfg *config.Config) ui.ColorMode {
	if colorFlag != "" {
		return colorFlag
	}
	if mode, err := ui.ParseColorMode(cfg.UI.Color); err == nil {
		return mode
	}
	return ui.ColorAuto
}

// Execute runs the CLI, printing any error to stderr. With $COMPLETE set to
// a shell name it prints that shell's completion script instead.
func Execute() error {
	var err error
	if shell := os.Getenv("COMPLETE"); shell != "" && shell != "0" {
		err = writeCompletionScript(os.Stdout, shell)
	} else {
		err = rootCmd.Execute()
	}
	if err != nil {
		printError(os.Stderr, resolvedColor, analyzedInput, err)
	}
	return err
}

func init() {
	flags := rootCmd.Flags()
	flags.StringArrayVar(&collapseFlags, "collapse", nil, "Collapse the given revset alias, hiding its expansion (repeatable)")
	flags.Var(&colorFlag, "color", "When to colorize output (auto, never, always)")
	flags.VarP(&contextFlag, "context", "c", "Base context for evaluation of the revset (eager, lazy, predicate)")
	flags.StringArrayVarP(&defineFlags, "define", "d", nil, "Define a revset alias as NAME=EXPR (repeatable)")
	flags.BoolVarP(&noAnalyze, "no-analyze", "A", false, "Disable analysis of evaluation and cost")
	flags.BoolVarP(&noCollapseBuiltin, "no-collapse-builtin", "B", false, "Do not collapse trunk() and builtin_immutable_heads()")
	flags.BoolVarP(&noConfig, "no-config", "C", false, "Do not load revset aliases or settings from jj config")
	flags.BoolVarP(&noOptimize, "no-optimize", "O", false, "Disable revset optimizations")
	flags.StringVarP(&repositoryPath, "repository", "R", "", "Path to the repository to load config from")
	flags.VarP(&outputFormat, "output", "o", "Output format (text, json, yaml)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Log each analysis stage to stderr")

	_ = rootCmd.RegisterFlagCompletionFunc("collapse", completeCollapse)
	_ = rootCmd.RegisterFlagCompletionFunc("color", completeValues(string(ui.ColorAuto), string(ui.ColorNever), string(ui.ColorAlways)))
	_ = rootCmd.RegisterFlagCompletionFunc("context", completeValues("eager", "lazy", "predicate"))
	_ = rootCmd.RegisterFlagCompletionFunc("output", completeValues(string(render.FormatText), string(render.FormatJSON), string(render.FormatYAML)))
	_ = rootCmd.MarkFlagDirname("repository")
}
