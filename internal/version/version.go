package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

//nolint:gochecknoglobals // Injected with -ldflags "-X".
var (
	// Version is the release tag of the build.
	Version = "0.1.0"
	// Commit is the short git SHA, or the VCS revision recorded by the toolchain.
	Commit = ""
	// BuildTime is the UTC build timestamp.
	BuildTime = "unknown"
)

// Short returns only the release tag.
func Short() string {
	return Version
}

// Full returns the release tag with commit, build time and Go version.
func Full() string {
	return fmt.Sprintf("sleep-watch %s (commit %s, built %s, %s)", Version, commit(), BuildTime, runtime.Version())
}

// commit falls back to the VCS revision embedded by go build.
func commit() string {
	if Commit != "" {
		return Commit
	}

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "none"
	}

	for _, setting := range info.Settings {
		if setting.Key == "vcs.revision" && len(setting.Value) >= 7 {
			return setting.Value[:7]
		}
	}

	return "none"
}
