package cli

import (
	"runtime"
	"runtime/debug"
	"strings"
	"testing"
)

func TestCurrentVersionInfoFromBuildInfo(t *testing.T) {
	prevRead := readBuildInfo
	t.Cleanup(func() {
		readBuildInfo = prevRead
	})

	readBuildInfo = func() (*debug.BuildInfo, bool) {
		return &debug.BuildInfo{
			GoVersion: "go1.23.4",
			Main: debug.Module{
				Path:    "github.com/scott2000/jj-analyze",
				Version: "v0.3.0",
			},
			Settings: []debug.BuildSetting{
				{Key: "vcs.revision", Value: "abc123"},
				{Key: "vcs.time", Value: "2026-02-14T17:00:00Z"},
				{Key: "vcs.modified", Value: "true"},
				{Key: "GOOS", Value: "windows"},
				{Key: "GOARCH", Value: "amd64"},
			},
		}, true
	}

	info := currentVersionInfo()

	if info.Version != "v0.3.0" {
		t.Fatalf("Version = %q, want %q", info.Version, "v0.3.0")
	}
	if info.Commit != "abc123" {
		t.Fatalf("Commit = %q, want %q", info.Commit, "abc123")
	}
	if info.CommitTime != "2026-02-14T17:00:00Z" {
		t.Fatalf("CommitTime = %q, want %q", info.CommitTime, "2026-02-14T17:00:00Z")
	}
	if !info.Modified {
		t.Fatal("Modified = false, want true")
	}
	if info.GOOS != "windows" || info.GOARCH != "amd64" {
		t.Fatalf("platform = %s/%s, want windows/amd64", info.GOOS, info.GOARCH)
	}
}

func TestCurrentVersionInfoFallbackWhenBuildInfoMissing(t *testing.T) {
	prevRead := readBuildInfo
	t.Cleanup(func() {
		readBuildInfo = prevRead
	})

	readBuildInfo = func() (*debug.BuildInfo, bool) {
		return nil, false
	}

	info := currentVersionInfo()

	if info.Version != "devel" {
		t.Fatalf("Version = %q, want %q", info.Version, "devel")
	}
	if info.ModulePath != defaultModulePath {
		t.Fatalf("ModulePath = %q, want %q", info.ModulePath, defaultModulePath)
	}
	if info.GoVersion != runtime.Version() {
		t.Fatalf("GoVersion = %q, want runtime %q", info.GoVersion, runtime.Version())
	}
}

func TestVersionText(t *testing.T) {
	text := versionText(versionInfo{
		Version:    "devel",
		ModulePath: defaultModulePath,
		Commit:     "deadbeef",
		GoVersion:  "go1.23.4",
		GOOS:       "darwin",
		GOARCH:     "arm64",
	})

	for _, want := range []string{
		"jj-analyze devel\n",
		"commit: deadbeef\n",
		"platform: darwin/arm64\n",
		"builtin aliases: v1\n",
		"cost policy: v1\n",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("expected %q in version text:\n%s", want, text)
		}
	}
	if strings.Contains(text, "commit_time") {
		t.Errorf("unexpected commit_time line:\n%s", text)
	}
}
