package ui

import (
	"fmt"

	"github.com/rnwolfe/deck/internal/streak"
)

// FormatStreak renders a streak count for list output, e.g. "5 days 🔥".
func FormatStreak(r streak.Result) string {
	if r.Current == 0 {
		return Muted.Render("no streak")
	}
	unit := "days"
	if r.Current == 1 {
		unit = "day"
	}
	s := fmt.Sprintf("%d %s %s", r.Current, unit, IconFire)
	if r.AtRisk() {
		s += " " + IconRisk
	}
	return Streak.Render(s)
}

// FormatBest renders the longest streak, e.g. "best 12".
func FormatBest(r streak.Result) string {
	return Muted.Render(fmt.Sprintf("best %d", r.Longest))
}

// CheckMark returns the today indicator for a habit row.
func CheckMark(done bool) string {
	if done {
		return Success.Render("●")
	}
	return Muted.Render("○")
}
