package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// TestWorkspace is a temporary jj workspace with its own user config, so
// that tests never read the real ~/.jjconfig.toml.
type TestWorkspace struct {
	Path string
	// UserConfig is the file JJ_CONFIG points at.
	UserConfig string

	t               *testing.T
	userConfig      string
	repoConfig      string
	workspaceConfig string
	files           map[string]string
}

// NewTestWorkspace creates a new test workspace builder.
// Call Build() to create the actual directories.
func NewTestWorkspace(t *testing.T) *TestWorkspace {
	t.Helper()
	return &TestWorkspace{
		t:     t,
		files: make(map[string]string),
	}
}

// WithUserConfig sets the user-level config.toml content.
func (w *TestWorkspace) WithUserConfig(toml string) *TestWorkspace {
	w.userConfig = toml
	return w
}

// WithRepoConfig sets .jj/repo/config.toml.
func (w *TestWorkspace) WithRepoConfig(toml string) *TestWorkspace {
	w.repoConfig = toml
	return w
}

// WithWorkspaceConfig sets .jj/workspace-config.toml.
func (w *TestWorkspace) WithWorkspaceConfig(toml string) *TestWorkspace {
	w.workspaceConfig = toml
	return w
}

// WithFile adds a file relative to the workspace root.
func (w *TestWorkspace) WithFile(path, content string) *TestWorkspace {
	w.files[path] = content
	return w
}

// Build creates the workspace and writes every configured file.
func (w *TestWorkspace) Build() *TestWorkspace {
	w.t.Helper()

	w.Path = w.t.TempDir()
	w.UserConfig = filepath.Join(w.t.TempDir(), "config.toml")

	if err := os.MkdirAll(filepath.Join(w.Path, ".jj", "repo"), 0o755); err != nil {
		w.t.Fatalf("failed to create .jj: %v", err)
	}
	WriteFile(w.t, w.UserConfig, w.userConfig)
	if w.repoConfig != "" {
		WriteFile(w.t, filepath.Join(w.Path, ".jj", "repo", "config.toml"), w.repoConfig)
	}
	if w.workspaceConfig != "" {
		WriteFile(w.t, filepath.Join(w.Path, ".jj", "workspace-config.toml"), w.workspaceConfig)
	}
	for path, content := range w.files {
		WriteFile(w.t, filepath.Join(w.Path, path), content)
	}
	return w
}

// Env returns the environment a CLI run in this workspace uses.
func (w *TestWorkspace) Env() []string {
	return append(os.Environ(),
		"JJ_CONFIG="+w.UserConfig,
		"JJ_EMAIL=",
	)
}

// WriteFile writes a file, creating directories as needed.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create directory %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write file %s: %v", path, err)
	}
}
