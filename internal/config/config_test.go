package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/scott2000/jj-analyze/internal/alias"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func TestLoadFrom(t *testing.T) {
	t.Run("full config", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		writeFile(t, path, `
[user]
email = "me@example.com"

[ui]
color = "never"

[revset-aliases]
'immutable_heads()' = 'main@origin'
wip = 'description(glob:"wip*")'

[jj-analyze]
large-generation-span = 500

[[--scope]]
--when.repositories = ["~/oss"]
`)

		cfg, err := LoadFrom(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.User.Email != "me@example.com" {
			t.Errorf("expected email, got %q", cfg.User.Email)
		}
		if cfg.UI.Color != "never" {
			t.Errorf("expected color 'never', got %q", cfg.UI.Color)
		}
		if cfg.Analyze.LargeGenerationSpan != 500 {
			t.Errorf("expected span 500, got %d", cfg.Analyze.LargeGenerationSpan)
		}
		want := map[string]string{
			"immutable_heads()": "main@origin",
			"wip":               `description(glob:"wip*")`,
		}
		if !reflect.DeepEqual(cfg.RevsetAliases, want) {
			t.Errorf("aliases = %v, want %v", cfg.RevsetAliases, want)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFrom(filepath.Join(t.TempDir(), "nope.toml"))
		if !errors.Is(err, os.ErrNotExist) {
			t.Fatalf("expected not-exist error, got %v", err)
		}
	})

	t.Run("invalid toml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		writeFile(t, path, "[user\nemail = ")
		if _, err := LoadFrom(path); err == nil {
			t.Fatal("expected parse error")
		}
	})
}

func TestLoadLayersOverride(t *testing.T) {
	home := t.TempDir()
	workspace := t.TempDir()
	user := filepath.Join(home, "config.toml")
	writeFile(t, user, `
[user]
email = "user@example.com"

[ui]
color = "always"

[revset-aliases]
'trunk()' = 'main'
mine_wip = 'mine() & description("wip")'
`)
	writeFile(t, filepath.Join(workspace, ".jj", "repo", "config.toml"), `
[revset-aliases]
'trunk()' = 'dev'

[jj-analyze]
large-generation-span = 42
`)
	writeFile(t, filepath.Join(workspace, ".jj", "workspace-config.toml"), `
[ui]
color = "never"
`)
	t.Setenv("JJ_EMAIL", "")

	cfg, err := Load(Options{WorkspaceDir: workspace, UserConfigPaths: []string{user}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := cfg.RevsetAliases["trunk()"]; got != "dev" {
		t.Errorf("expected repo layer to override trunk(), got %q", got)
	}
	if _, ok := cfg.RevsetAliases["mine_wip"]; !ok {
		t.Error("expected user alias to survive merge")
	}
	if cfg.UI.Color != "never" {
		t.Errorf("expected workspace color, got %q", cfg.UI.Color)
	}
	if cfg.User.Email != "user@example.com" {
		t.Errorf("expected user email, got %q", cfg.User.Email)
	}
	if cfg.Analyze.LargeGenerationSpan != 42 {
		t.Errorf("expected span 42, got %d", cfg.Analyze.LargeGenerationSpan)
	}
}

func TestLoadLayersOverrideRenamedParameters(t *testing.T) {
	home := t.TempDir()
	workspace := t.TempDir()
	user := filepath.Join(home, "config.toml")
	writeFile(t, user, `
[revset-aliases]
'stack(y)' = 'y::@'
'stack' = 'trunk()::@'
`)
	repoConfig := filepath.Join(workspace, ".jj", "repo", "config.toml")
	writeFile(t, repoConfig, `
[revset-aliases]
'stack(x)' = 'x & mutable()'
`)
	t.Setenv("JJ_EMAIL", "")

	cfg, err := Load(Options{WorkspaceDir: workspace, UserConfigPaths: []string{user}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := map[string]string{
		"stack(x)": "x & mutable()",
		"stack":    "trunk()::@",
	}
	if !reflect.DeepEqual(cfg.RevsetAliases, want) {
		t.Errorf("aliases = %v, want %v", cfg.RevsetAliases, want)
	}

	table := alias.NewTable()
	if err := cfg.DefineAliases(table); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	def, ok := table.Function("stack")
	if !ok {
		t.Fatal("expected stack() to be defined")
	}
	if def.Source != "x & mutable()" {
		t.Errorf("expected repo layer to win, got %q", def.Source)
	}
	if got := cfg.aliasSources["stack(x)"]; got != repoConfig {
		t.Errorf("source = %q, want %q", got, repoConfig)
	}
}

func TestLoadEmailFromEnvironment(t *testing.T) {
	t.Setenv("JJ_EMAIL", "env@example.com")
	cfg, err := Load(Options{UserConfigPaths: []string{}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.User.Email != "env@example.com" {
		t.Errorf("expected env email, got %q", cfg.User.Email)
	}
}

func TestLoadSkipsMissingLayers(t *testing.T) {
	t.Setenv("JJ_EMAIL", "")
	cfg, err := Load(Options{
		WorkspaceDir:    t.TempDir(),
		UserConfigPaths: []string{filepath.Join(t.TempDir(), "missing.toml")},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.RevsetAliases) != 0 || cfg.UI.Color != "" {
		t.Errorf("expected empty config, got %+v", cfg)
	}
}

func TestUserConfigPaths(t *testing.T) {
	t.Run("JJ_CONFIG files and directories", func(t *testing.T) {
		dir := t.TempDir()
		file := filepath.Join(dir, "single.toml")
		confd := filepath.Join(dir, "conf.d")
		writeFile(t, file, "")
		writeFile(t, filepath.Join(confd, "b.toml"), "")
		writeFile(t, filepath.Join(confd, "a.toml"), "")
		writeFile(t, filepath.Join(confd, "notes.txt"), "")

		t.Setenv("JJ_CONFIG", file+string(os.PathListSeparator)+confd)
		got, err := UserConfigPaths()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := []string{file, filepath.Join(confd, "a.toml"), filepath.Join(confd, "b.toml")}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("XDG config home", func(t *testing.T) {
		xdg := t.TempDir()
		writeFile(t, filepath.Join(xdg, "jj", "conf.d", "extra.toml"), "")
		t.Setenv("XDG_CONFIG_HOME", xdg)
		t.Setenv("JJ_CONFIG", "")
		os.Unsetenv("JJ_CONFIG")

		got, err := UserConfigPaths()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		wantMain := filepath.Join(xdg, "jj", "config.toml")
		wantDropIn := filepath.Join(xdg, "jj", "conf.d", "extra.toml")
		if !contains(got, wantMain) || !contains(got, wantDropIn) {
			t.Errorf("expected %s and %s in %v", wantMain, wantDropIn, got)
		}
	})
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

func TestWorkspaceConfigPaths(t *testing.T) {
	t.Run("not a workspace", func(t *testing.T) {
		if paths := WorkspaceConfigPaths(t.TempDir()); paths != nil {
			t.Errorf("expected nil, got %v", paths)
		}
	})

	t.Run("secondary workspace", func(t *testing.T) {
		main := t.TempDir()
		secondary := t.TempDir()
		mainRepo := filepath.Join(main, ".jj", "repo")
		if err := os.MkdirAll(mainRepo, 0o755); err != nil {
			t.Fatal(err)
		}
		writeFile(t, filepath.Join(secondary, ".jj", "repo"), mainRepo+"\n")

		paths := WorkspaceConfigPaths(secondary)
		want := []string{
			filepath.Join(mainRepo, "config.toml"),
			filepath.Join(secondary, ".jj", "workspace-config.toml"),
		}
		if !reflect.DeepEqual(paths, want) {
			t.Errorf("got %v, want %v", paths, want)
		}
	})
}

func TestFindWorkspaceDir(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, ".jj"), 0o755); err != nil {
		t.Fatal(err)
	}
	nested := filepath.Join(root, "src", "deep")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	if got := FindWorkspaceDir(nested); got != root {
		t.Errorf("expected %s, got %s", root, got)
	}

	outside := t.TempDir()
	if got := FindWorkspaceDir(outside); got != outside {
		t.Errorf("expected start dir %s, got %s", outside, got)
	}
}

func TestDefineAliases(t *testing.T) {
	t.Run("valid aliases", func(t *testing.T) {
		cfg := &Config{RevsetAliases: map[string]string{
			"wip":      `description("wip")`,
			"stack(x)": "x::@",
			"trunk()":  "main",
		}}
		table := alias.NewTable()
		if err := cfg.DefineAliases(table); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := []string{"stack(x)", "trunk()", "wip"}
		if got := table.Declarations(); !reflect.DeepEqual(got, want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("bad body names the source file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		writeFile(t, path, "[revset-aliases]\nbroken = 'x &'\n")
		cfg, err := LoadFrom(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		err = cfg.DefineAliases(alias.NewTable())
		var loadErr *AliasLoadError
		if !errors.As(err, &loadErr) {
			t.Fatalf("expected AliasLoadError, got %v", err)
		}
		if loadErr.Name != "broken" || loadErr.Source != path {
			t.Errorf("unexpected error fields: %+v", loadErr)
		}
		var declErr *alias.DeclarationError
		if !errors.As(err, &declErr) {
			t.Errorf("expected wrapped DeclarationError, got %v", err)
		}
	})
}
