package version

import (
	"runtime/debug"
)

// Version is the current semantic version of searcher
const Version = "0.3.0"

// Set during build time with -ldflags "-X github.com/standardbeagle/searcher/internal/version.GitCommit=..."
var (
	BuildDate = "development"
	GitCommit = "unknown"
)

// Info returns version information as a string
func Info() string {
	return Version
}

// FullInfo returns detailed version information
func FullInfo() string {
	return "searcher " + Version + " (commit: " + commit() + ", built: " + BuildDate + ")"
}

// commit prefers the ldflag value and falls back to the VCS revision that
// the Go toolchain embeds in module builds.
func commit() string {
	if GitCommit != "unknown" {
		return GitCommit
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return GitCommit
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" && len(s.Value) >= 12 {
			return s.Value[:12]
		}
	}
	return GitCommit
}
