package version

import (
	"runtime/debug"
	"strings"
	"testing"
)

func reset(t *testing.T) {
	t.Helper()
	v, c, d := Version, Commit, Date
	Version, Commit, Date = "dev", "none", "unknown"
	t.Cleanup(func() { Version, Commit, Date = v, c, d })
}

func TestFull(t *testing.T) {
	result := Full()
	if !strings.HasPrefix(result, "deck ") {
		t.Errorf("Full() = %q, want deck prefix", result)
	}
	if !strings.Contains(result, Version) {
		t.Errorf("Full() %q does not contain version %q", result, Version)
	}
}

func TestShort(t *testing.T) {
	if got := Short(); got != Version {
		t.Errorf("Short() = %q, want %q", got, Version)
	}
}

func TestFromBuildInfo(t *testing.T) {
	reset(t)
	fromBuildInfo(&debug.BuildInfo{
		Main: debug.Module{Version: "v0.3.0"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789abcdef"},
			{Key: "vcs.time", Value: "2026-02-10T12:00:00Z"},
			{Key: "vcs.modified", Value: "true"},
		},
	})
	if Version != "v0.3.0" || Commit != "0123456-dirty" || Date != "2026-02-10T12:00:00Z" {
		t.Errorf("got %s %s %s", Version, Commit, Date)
	}
}

func TestFromBuildInfo_KeepsLdflags(t *testing.T) {
	reset(t)
	Version, Commit = "v1.0.0", "abc1234"
	fromBuildInfo(&debug.BuildInfo{
		Main:     debug.Module{Version: "v0.0.1"},
		Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "ffffffffff"}},
	})
	if Version != "v1.0.0" || Commit != "abc1234" {
		t.Errorf("ldflags values overwritten: %s %s", Version, Commit)
	}
}

func TestFromBuildInfo_Devel(t *testing.T) {
	reset(t)
	fromBuildInfo(&debug.BuildInfo{Main: debug.Module{Version: "(devel)"}})
	fromBuildInfo(nil)
	if Version != "dev" {
		t.Errorf("Version = %q, want dev", Version)
	}
}
