package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"sync"
)

var (
	// Version is the semantic version of the packagexml build. It can be overridden via ldflags.
	Version = "0.1.0"
	// Commit is the short git SHA embedded at build time (or "none").
	Commit = "none"
	// BuildTime is the UTC build timestamp embedded at build time.
	BuildTime = "unknown"
)

// shortCommitLength is how many characters of a VCS revision are shown.
const shortCommitLength = 12

//nolint:gochecknoglobals // Build info is read once per process.
var fillFromBuildInfo = sync.OnceFunc(func() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}

	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			if Commit == "none" && setting.Value != "" {
				Commit = setting.Value[:min(len(setting.Value), shortCommitLength)]
			}
		case "vcs.time":
			if BuildTime == "unknown" && setting.Value != "" {
				BuildTime = setting.Value
			}
		}
	}
})

// Short returns only the semantic version string.
func Short() string {
	return Version
}

// Full returns the tool version with commit, build time and Go toolchain.
// Commit and build time fall back to the VCS stamp of the binary when not set via ldflags.
func Full() string {
	fillFromBuildInfo()

	return fmt.Sprintf("packagexml %s (commit %s, built %s, %s)", Version, Commit, BuildTime, runtime.Version())
}
