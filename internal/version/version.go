// Package version reports the deck build. Values come from ldflags
// (-X github.com/rnwolfe/deck/internal/version.Version=...) or, for plain
// `go install` builds, from the embedded module build info.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Full returns the version with commit, date, and toolchain.
func Full() string {
	return fmt.Sprintf("deck %s (%s, %s) %s", Version, Commit, Date, runtime.Version())
}

// Short returns just the version string.
func Short() string {
	return Version
}

func init() {
	if info, ok := debug.ReadBuildInfo(); ok {
		fromBuildInfo(info)
	}
}

// fromBuildInfo fills any value still at its default. A locally modified
// checkout gets a "-dirty" commit suffix.
func fromBuildInfo(info *debug.BuildInfo) {
	if info == nil {
		return
	}
	if Version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		Version = info.Main.Version
	}

	var rev, when string
	dirty := false
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			rev = s.Value
		case "vcs.time":
			when = s.Value
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}
	if Commit == "none" && rev != "" {
		if len(rev) > 7 {
			rev = rev[:7]
		}
		if dirty {
			rev += "-dirty"
		}
		Commit = rev
	}
	if Date == "unknown" && when != "" {
		Date = when
	}
}
