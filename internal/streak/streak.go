// Package streak computes consecutive-day streaks from completion records.
//
// A streak is a run of consecutive calendar days with at least one completion.
// The current streak stays alive if the most recent completion was today or
// yesterday, so a habit isn't shown as broken before the user has had a
// chance to log it today.
package streak

import (
	"slices"
	"time"
)

// Record is a single completion. Only the calendar day of EntryDate matters.
type Record struct {
	EntryDate time.Time
}

// Result holds the streak values computed for a set of records.
type Result struct {
	Current int
	Longest int
	// Last is the start of the most recent counted day, zero if there is none.
	Last time.Time
	// Today reports whether Last is the reference day.
	Today bool
}

// AtRisk reports whether the current streak is only alive through the
// yesterday grace window and will break if nothing is logged today.
func (r Result) AtRisk() bool {
	return r.Current > 0 && !r.Today
}

// Calculator computes streaks using the given Calendar.
type Calculator struct {
	Calendar Calendar
}

// Compute calculates streaks with a LocalCalendar in time.Local.
func Compute(records []Record, now time.Time) Result {
	return Calculator{Calendar: LocalCalendar{}}.Compute(records, now)
}

// Compute returns the current and longest streaks for records relative to now.
//
// Records may be unsorted and may contain several entries per day. Days after
// the calendar day of now are ignored. The records slice is not modified.
func (c Calculator) Compute(records []Record, now time.Time) Result {
	cal := c.Calendar
	if cal == nil {
		cal = LocalCalendar{}
	}

	days := uniqueDays(cal, records, cal.StartOfDay(now))
	if len(days) == 0 {
		return Result{}
	}

	run, longest := 1, 1
	for i := 1; i < len(days); i++ {
		if cal.DaysBetween(days[i-1], days[i]) == 1 {
			run++
		} else {
			run = 1
		}
		longest = max(longest, run)
	}

	last := days[len(days)-1]
	res := Result{
		Longest: longest,
		Last:    last,
		Today:   cal.SameDay(last, now),
	}
	if res.Today || cal.SameDay(last, cal.AddDays(now, -1)) {
		res.Current = run
	}
	return res
}

// uniqueDays projects records onto sorted, distinct calendar days that are
// not after today.
func uniqueDays(cal Calendar, records []Record, today time.Time) []time.Time {
	days := make([]time.Time, 0, len(records))
	for _, r := range records {
		d := cal.StartOfDay(r.EntryDate)
		if cal.DaysBetween(today, d) > 0 {
			continue
		}
		days = append(days, d)
	}
	slices.SortFunc(days, func(a, b time.Time) int { return a.Compare(b) })
	return slices.CompactFunc(days, cal.SameDay)
}
