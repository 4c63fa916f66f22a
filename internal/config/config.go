// Package config loads the jj configuration layers jj-analyze reads:
// revset aliases, the user's email, the color preference and the tool's own
// [jj-analyze] table.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/scott2000/jj-analyze/internal/alias"
	"github.com/scott2000/jj-analyze/internal/syntax"
)

// Config is the merged view of every loaded layer.
type Config struct {
	// RevsetAliases maps alias declarations to their bodies, for example
	// "immutable_heads()" = "main@origin".
	RevsetAliases map[string]string `toml:"revset-aliases"`

	UI      UIConfig      `toml:"ui"`
	User    UserConfig    `toml:"user"`
	Analyze AnalyzeConfig `toml:"jj-analyze"`

	// aliasSources records the file each alias was last defined in.
	aliasSources map[string]string
}

// UIConfig holds the [ui] settings that affect output.
type UIConfig struct {
	// Color is "auto", "never" or "always". jj also accepts "debug", which
	// is treated as "auto".
	Color string `toml:"color"`
}

// UserConfig holds the [user] settings.
type UserConfig struct {
	// Email is matched by mine().
	Email string `toml:"email"`
}

// AnalyzeConfig is the [jj-analyze] table.
type AnalyzeConfig struct {
	// LargeGenerationSpan overrides the span at which a traversal counts as
	// unbounded. Zero keeps the default.
	LargeGenerationSpan uint64 `toml:"large-generation-span"`
}

// AliasLoadError reports a configured alias that does not parse.
type AliasLoadError struct {
	Name   string
	Source string // file the alias came from; empty for aliases set in code
	Err    error
}

func (e *AliasLoadError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("failed to load revset alias %q: %v", e.Name, e.Err)
	}
	return fmt.Sprintf("failed to load revset alias %q from %s: %v", e.Name, e.Source, e.Err)
}

func (e *AliasLoadError) Unwrap() error { return e.Err }

// Options selects the layers Load reads.
type Options struct {
	// WorkspaceDir is the root of the jj workspace. Repo and workspace
	// layers are skipped when it has no .jj directory.
	WorkspaceDir string
	// UserConfigPaths overrides UserConfigPaths(); nil means the default.
	UserConfigPaths []string
}

// Load reads the user, repo and workspace layers in that order, each
// overriding the previous one, then applies environment overrides.
// Missing files are skipped.
func Load(opts Options) (*Config, error) {
	paths := opts.UserConfigPaths
	if paths == nil {
		var err error
		paths, err = UserConfigPaths()
		if err != nil {
			return nil, err
		}
	}
	if opts.WorkspaceDir != "" {
		paths = append(paths, WorkspaceConfigPaths(opts.WorkspaceDir)...)
	}

	cfg := &Config{}
	for _, path := range paths {
		layer, err := LoadFrom(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		cfg.Merge(layer)
	}

	if email := os.Getenv("JJ_EMAIL"); email != "" {
		cfg.User.Email = email
	}
	return cfg, nil
}

// LoadFrom loads a single config file.
func LoadFrom(path string) (*Config, error) {
	var config Config
	if _, err := toml.DecodeFile(path, &config); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	config.aliasSources = make(map[string]string, len(config.RevsetAliases))
	for name := range config.RevsetAliases {
		config.aliasSources[name] = path
	}
	return &config, nil
}

// Merge applies layer on top of c. An alias in layer replaces every alias
// of c with the same name and kind, however its parameters are spelled;
// scalar settings are replaced when set in layer.
func (c *Config) Merge(layer *Config) {
	for name, body := range layer.RevsetAliases {
		if c.RevsetAliases == nil {
			c.RevsetAliases = make(map[string]string)
		}
		key := aliasKey(name)
		for existing := range c.RevsetAliases {
			if existing != name && aliasKey(existing) == key {
				delete(c.RevsetAliases, existing)
				delete(c.aliasSources, existing)
			}
		}
		c.RevsetAliases[name] = body
		if c.aliasSources == nil {
			c.aliasSources = make(map[string]string)
		}
		c.aliasSources[name] = layer.aliasSources[name]
	}
	if layer.UI.Color != "" {
		c.UI.Color = layer.UI.Color
	}
	if layer.User.Email != "" {
		c.User.Email = layer.User.Email
	}
	if layer.Analyze.LargeGenerationSpan != 0 {
		c.Analyze.LargeGenerationSpan = layer.Analyze.LargeGenerationSpan
	}
}

// aliasKey identifies the alias a declaration defines. Declarations that do
// not parse are keyed by their text and fail later in DefineAliases.
func aliasKey(declaration string) string {
	decl, err := syntax.ParseDeclaration(declaration)
	if err != nil {
		return declaration
	}
	if decl.Function {
		return decl.Name + "()"
	}
	return decl.Name
}

// DefineAliases inserts every configured alias into t in name order.
func (c *Config) DefineAliases(t *alias.Table) error {
	names := make([]string, 0, len(c.RevsetAliases))
	for name := range c.RevsetAliases {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := t.Define(name, c.RevsetAliases[name]); err != nil {
			return &AliasLoadError{Name: name, Source: c.aliasSources[name], Err: err}
		}
	}
	return nil
}

// UserConfigPaths returns the user config files in load order.
//
// $JJ_CONFIG, when set, is a list of files and directories separated by the
// OS path list separator; directories contribute their *.toml files in name
// order. Otherwise the files are ~/.jjconfig.toml, then
// <config dir>/jj/config.toml and <config dir>/jj/conf.d/*.toml, where the
// config dir honors $XDG_CONFIG_HOME.
func UserConfigPaths() ([]string, error) {
	if env, ok := os.LookupEnv("JJ_CONFIG"); ok {
		var paths []string
		for _, entry := range filepath.SplitList(env) {
			if strings.TrimSpace(entry) == "" {
				continue
			}
			expanded, err := expandEntry(entry)
			if err != nil {
				return nil, err
			}
			paths = append(paths, expanded...)
		}
		return paths, nil
	}

	var paths []string
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".jjconfig.toml"))
	}
	if configDir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(configDir, "jj", "config.toml"))
		dropIns, err := tomlFiles(filepath.Join(configDir, "jj", "conf.d"))
		if err != nil {
			return nil, err
		}
		paths = append(paths, dropIns...)
	}
	return paths, nil
}

func expandEntry(entry string) ([]string, error) {
	info, err := os.Stat(entry)
	if err != nil || !info.IsDir() {
		return []string{entry}, nil
	}
	return tomlFiles(entry)
}

func tomlFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config directory %s: %w", dir, err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".toml" {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

// WorkspaceConfigPaths returns the repo and workspace config files of the
// workspace rooted at dir, or nil when dir is not a jj workspace.
func WorkspaceConfigPaths(dir string) []string {
	jjDir := filepath.Join(dir, ".jj")
	if info, err := os.Stat(jjDir); err != nil || !info.IsDir() {
		return nil
	}
	return []string{
		filepath.Join(repoDir(jjDir), "config.toml"),
		filepath.Join(jjDir, "workspace-config.toml"),
	}
}

// repoDir follows the pointer file secondary workspaces keep in .jj/repo.
func repoDir(jjDir string) string {
	repo := filepath.Join(jjDir, "repo")
	info, err := os.Stat(repo)
	if err != nil || info.IsDir() {
		return repo
	}
	target, err := os.ReadFile(repo)
	if err != nil {
		return repo
	}
	path := strings.TrimSpace(string(target))
	if !filepath.IsAbs(path) {
		path = filepath.Join(jjDir, path)
	}
	return path
}

// FindWorkspaceDir walks up from start looking for a directory containing
// .jj and returns it, or start itself when there is none.
func FindWorkspaceDir(start string) string {
	dir := start
	for {
		if info, err := os.Stat(filepath.Join(dir, ".jj")); err == nil && info.IsDir() {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return start
		}
		dir = parent
	}
}
