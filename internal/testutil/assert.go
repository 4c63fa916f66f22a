package testutil

import (
	"strings"
	"testing"
)

// MustSucceed fails the test if the command exited non-zero.
func (r *CLIResult) MustSucceed(t *testing.T) *CLIResult {
	t.Helper()
	if r.ExitCode != 0 {
		t.Fatalf("expected command to succeed, got exit code %d\nstderr: %s", r.ExitCode, r.Stderr)
	}
	return r
}

// MustFail fails the test unless the command exited with status 1 and an
// "Error: " line on stderr containing msgSubstr.
func (r *CLIResult) MustFail(t *testing.T, msgSubstr string) *CLIResult {
	t.Helper()
	if r.ExitCode != 1 {
		t.Fatalf("expected exit code 1, got %d\nstdout: %s\nstderr: %s", r.ExitCode, r.Stdout, r.Stderr)
	}
	if !strings.HasPrefix(r.Stderr, "Error: ") {
		t.Errorf("expected stderr to start with \"Error: \", got: %s", r.Stderr)
	}
	if !strings.Contains(r.Stderr, msgSubstr) {
		t.Errorf("expected stderr to contain %q, got: %s", msgSubstr, r.Stderr)
	}
	if r.Stdout != "" {
		t.Errorf("expected no output on failure, got: %s", r.Stdout)
	}
	return r
}

// AssertStdout fails the test if stdout differs from want.
func (r *CLIResult) AssertStdout(t *testing.T, want string) {
	t.Helper()
	if r.Stdout != want {
		t.Errorf("unexpected stdout\nwant:\n%s\ngot:\n%s", want, r.Stdout)
	}
}

// AssertStdoutContains fails the test if stdout does not contain substr.
func (r *CLIResult) AssertStdoutContains(t *testing.T, substr string) {
	t.Helper()
	if !strings.Contains(r.Stdout, substr) {
		t.Errorf("expected stdout to contain %q, got:\n%s", substr, r.Stdout)
	}
}
