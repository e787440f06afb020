package ui

import (
	"strings"
	"testing"

	"github.com/muesli/termenv"

	"github.com/rnwolfe/deck/internal/streak"
)

func TestGreet(t *testing.T) {
	tests := []struct {
		name     string
		expected string
	}{
		{"", "🂠 Your deck"},
		{"Sam", "🂠 Sam's deck"},
	}
	for _, tt := range tests {
		if got := Greet(tt.name); got != tt.expected {
			t.Errorf("Greet(%q) = %q, want %q", tt.name, got, tt.expected)
		}
	}
}

func TestFormatStreak(t *testing.T) {
	tests := []struct {
		name   string
		res    streak.Result
		want   string
		atRisk bool
	}{
		{"none", streak.Result{}, "no streak", false},
		{"one day", streak.Result{Current: 1, Longest: 1, Today: true}, "1 day " + IconFire, false},
		{"at risk", streak.Result{Current: 4, Longest: 6}, "4 days " + IconFire, true},
	}
	for _, tt := range tests {
		got := FormatStreak(tt.res)
		if !strings.Contains(got, tt.want) {
			t.Errorf("%s: FormatStreak = %q, want it to contain %q", tt.name, got, tt.want)
		}
		if strings.Contains(got, IconRisk) != tt.atRisk {
			t.Errorf("%s: risk marker mismatch in %q", tt.name, got)
		}
	}
}

func TestColorProfile(t *testing.T) {
	if got := colorProfile(false, false); got != termenv.Ascii {
		t.Errorf("non-TTY profile = %v, want Ascii", got)
	}
	if got := colorProfile(true, true); got != termenv.Ascii {
		t.Errorf("NO_COLOR profile = %v, want Ascii", got)
	}
}

func TestIconConstants(t *testing.T) {
	icons := []string{
		IconDeck, IconHabit, IconWidget, IconDone, IconFire, IconRisk, IconParty,
		IconVault, IconCalendar, IconNote, IconGraph, IconQuest, IconCoin,
		IconWarn, IconError, IconOk, IconArrow, IconDot,
	}
	for i, icon := range icons {
		if icon == "" {
			t.Errorf("Icon at index %d is empty", i)
		}
	}
}

func TestStatus(t *testing.T) {
	var buf strings.Builder
	status(&buf, Success, IconOk, "saved")
	if got := buf.String(); !strings.Contains(got, IconOk+"saved") || !strings.HasSuffix(got, "\n") {
		t.Errorf("status wrote %q", got)
	}
}
