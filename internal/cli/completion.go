package cli

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/scott2000/jj-analyze/internal/alias"
	"github.com/scott2000/jj-analyze/internal/config"
	"github.com/scott2000/jj-analyze/internal/revset"
)

func completeValues(values ...string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		var out []string
		for _, v := range values {
			if strings.HasPrefix(v, toComplete) {
				out = append(out, v)
			}
		}
		return out, cobra.ShellCompDirectiveNoFileComp
	}
}

// completeRevset completes the identifier at the end of the REVSET argument
// with function names, symbol aliases and function aliases.
func completeRevset(_ *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) != 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	table := completionAliases()
	functions := append(revset.FunctionNames(), table.FunctionNames()...)
	return revsetCompletionCandidates(functions, table.SymbolNames(), toComplete),
		cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
}

// completeCollapse offers every alias in the form --collapse accepts.
func completeCollapse(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	table := completionAliases()
	var out []string
	for _, name := range collapseCompletionCandidates(table) {
		if strings.HasPrefix(name, toComplete) {
			out = append(out, name)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

func collapseCompletionCandidates(table *alias.Table) []string {
	out := table.SymbolNames()
	for _, name := range table.FunctionNames() {
		out = append(out, name+"()")
	}
	sort.Strings(out)
	return out
}

// completionAliases loads the built-in and configured aliases, ignoring any
// config that fails to load.
func completionAliases() *alias.Table {
	table := alias.NewBuiltinTable()
	if noConfig {
		return table
	}
	workspace := repositoryPath
	if workspace == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return table
		}
		workspace = config.FindWorkspaceDir(cwd)
	}
	cfg, err := config.Load(config.Options{WorkspaceDir: workspace})
	if err != nil {
		return table
	}
	_ = cfg.DefineAliases(table)
	return table
}

func revsetCompletionCandidates(functions, symbols []string, toComplete string) []string {
	start := strings.LastIndexFunc(toComplete, func(r rune) bool {
		return !isIdentifierRune(r)
	}) + 1
	prefix, word := toComplete[:start], toComplete[start:]

	seen := make(map[string]bool)
	var out []string
	add := func(candidate string) {
		if !seen[candidate] && strings.HasPrefix(candidate, word) {
			seen[candidate] = true
			out = append(out, prefix+candidate)
		}
	}
	for _, name := range functions {
		add(name + "(")
	}
	for _, name := range symbols {
		add(name)
	}
	sort.Strings(out)
	return out
}

func isIdentifierRune(r rune) bool {
	return r == '_' || r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'
}

// writeCompletionScript writes the completion script for shell, which
// completes through the hidden __complete command.
func writeCompletionScript(w io.Writer, shell string) error {
	switch shell {
	case "bash":
		return rootCmd.GenBashCompletionV2(w, true)
	case "zsh":
		return rootCmd.GenZshCompletion(w)
	case "fish":
		return rootCmd.GenFishCompletion(w, true)
	case "powershell":
		return rootCmd.GenPowerShellCompletionWithDesc(w)
	default:
		return fmt.Errorf("unsupported shell %q for COMPLETE (want bash, zsh, fish or powershell)", shell)
	}
}
