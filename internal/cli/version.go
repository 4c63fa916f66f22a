package cli

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/scott2000/jj-analyze/internal/alias"
	"github.com/scott2000/jj-analyze/internal/analyze"
	"github.com/scott2000/jj-analyze/internal/buildinfo"
)

const defaultModulePath = "github.com/scott2000/jj-analyze"

type versionInfo struct {
	Version    string
	ModulePath string
	Commit     string
	CommitTime string
	Modified   bool
	GoVersion  string
	GOOS       string
	GOARCH     string
}

var readBuildInfo = debug.ReadBuildInfo

func currentVersionInfo() versionInfo {
	info := versionInfo{
		Version:    "devel",
		ModulePath: defaultModulePath,
		GoVersion:  runtime.Version(),
		GOOS:       runtime.GOOS,
		GOARCH:     runtime.GOARCH,
	}

	buildInfo, ok := readBuildInfo()
	if !ok || buildInfo == nil {
		applyLdflagsFallback(&info)
		return info
	}

	if buildInfo.Main.Path != "" {
		info.ModulePath = buildInfo.Main.Path
	}
	info.Version = normalizeVersion(buildInfo.Main.Version)

	if buildInfo.GoVersion != "" {
		info.GoVersion = buildInfo.GoVersion
	}

	if val := buildSetting(buildInfo, "GOOS"); val != "" {
		info.GOOS = val
	}
	if val := buildSetting(buildInfo, "GOARCH"); val != "" {
		info.GOARCH = val
	}

	info.Commit = buildSetting(buildInfo, "vcs.revision")
	info.CommitTime = buildSetting(buildInfo, "vcs.time")
	info.Modified = strings.EqualFold(buildSetting(buildInfo, "vcs.modified"), "true")
	applyLdflagsFallback(&info)

	return info
}

// versionText is printed by --version. Besides the build, it names the
// revisions of the built-in aliases and the cost policy, since both decide
// what the analysis reports.
func versionText(info versionInfo) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "jj-analyze %s\n", info.Version)
	fmt.Fprintf(&sb, "module: %s\n", info.ModulePath)
	if info.Commit != "" {
		fmt.Fprintf(&sb, "commit: %s\n", info.Commit)
	}
	if info.CommitTime != "" {
		fmt.Fprintf(&sb, "commit_time: %s\n", info.CommitTime)
	}
	fmt.Fprintf(&sb, "go: %s\n", info.GoVersion)
	fmt.Fprintf(&sb, "platform: %s/%s\n", info.GOOS, info.GOARCH)
	fmt.Fprintf(&sb, "modified: %t\n", info.Modified)
	fmt.Fprintf(&sb, "builtin aliases: v%d\n", alias.BuiltinVersion)
	fmt.Fprintf(&sb, "cost policy: v%d\n", analyze.PolicyVersion)
	return sb.String()
}

func normalizeVersion(version string) string {
	if version == "" || version == "(devel)" {
		return "devel"
	}
	return version
}

func buildSetting(info *debug.BuildInfo, key string) string {
	if info == nil {
		return ""
	}
	for _, setting := range info.Settings {
		if setting.Key == key {
			return setting.Value
		}
	}
	return ""
}

func applyLdflagsFallback(info *versionInfo) {
	if info == nil {
		return
	}

	if info.Version == "devel" && buildinfo.Version != "" {
		info.Version = normalizeVersion(buildinfo.Version)
	}
	if info.Commit == "" && buildinfo.Commit != "" {
		info.Commit = buildinfo.Commit
	}
	if info.CommitTime == "" && buildinfo.Date != "" {
		info.CommitTime = buildinfo.Date
	}
}

func init() {
	info := currentVersionInfo()
	rootCmd.Version = info.Version
	// The template is parsed by text/template; the text has no actions.
	rootCmd.SetVersionTemplate(versionText(info))
}
