// Package buildinfo holds the build metadata of the lazyqr binary. The linker
// sets the variables in cmd/lazyqr; main forwards them here with Set.
package buildinfo

import (
	"fmt"
	"runtime/debug"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
	builtBy = "unknown"
)

// Set stores linker-injected metadata.
func Set(v, c, d, b string) {
	version = v
	commit = c
	date = d
	builtBy = b
}

// Version returns the release version.
func Version() string { return version }

// Commit returns the VCS revision.
func Commit() string { return commit }

// Date returns the build date.
func Date() string { return date }

// BuiltBy returns the build agent.
func BuiltBy() string { return builtBy }

// Enrich fills placeholder values from debug.ReadBuildInfo: the VCS revision
// for commit and the Go toolchain version for builtBy.
func Enrich() {
	if commit != "none" && builtBy != "unknown" {
		return
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	if commit == "none" {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.revision" {
				commit = setting.Value
			}
		}
	}
	if builtBy == "unknown" {
		builtBy = info.GoVersion
	}
}

// Summary renders the multi-line text printed by --version and the version
// subcommand.
func Summary() string {
	return fmt.Sprintf("lazyqr version %s\ncommit: %s\nbuilt at: %s\nbuilt by: %s", version, commit, date, builtBy)
}
