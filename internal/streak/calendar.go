package streak

import "time"

// Calendar provides the day-granularity date operations the streak
// calculation depends on.
type Calendar interface {
	// StartOfDay returns midnight of the calendar day containing t.
	StartOfDay(t time.Time) time.Time
	// AddDays moves t by n calendar days (n may be negative).
	AddDays(t time.Time, n int) time.Time
	// SameDay reports whether a and b fall on the same calendar day.
	SameDay(a, b time.Time) bool
	// DaysBetween returns the number of calendar days from a to b.
	// Positive when b is after a.
	DaysBetween(a, b time.Time) int
}

// LocalCalendar interprets instants in a single time zone.
// A nil Location means time.Local.
type LocalCalendar struct {
	Location *time.Location
}

func (c LocalCalendar) loc() *time.Location {
	if c.Location == nil {
		return time.Local
	}
	return c.Location
}

// StartOfDay returns the first instant of t's calendar day. Where a DST
// change skips local midnight that is the transition, not 00:00.
func (c LocalCalendar) StartOfDay(t time.Time) time.Time {
	y, m, d := t.In(c.loc()).Date()
	return startOfDate(y, m, d, c.loc())
}

// AddDays steps in calendar days, then resolves the day's first instant.
func (c LocalCalendar) AddDays(t time.Time, n int) time.Time {
	y, m, d := t.In(c.loc()).Date()
	y, m, d = time.Date(y, m, d+n, 0, 0, 0, 0, time.UTC).Date()
	return startOfDate(y, m, d, c.loc())
}

func (c LocalCalendar) SameDay(a, b time.Time) bool {
	a, b = a.In(c.loc()), b.In(c.loc())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// DaysBetween counts civil days, so a 23- or 25-hour DST day still counts as one.
func (c LocalCalendar) DaysBetween(a, b time.Time) int {
	return civilDay(b.In(c.loc())) - civilDay(a.In(c.loc()))
}

// civilDay maps the date part of t onto a day number in UTC.
func civilDay(t time.Time) int {
	y, m, d := t.Date()
	return int(time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400)
}

// startOfDate returns the first instant in loc that falls on y-m-d.
// time.Date resolves a skipped midnight to the previous day (23:00 in
// America/Santiago on 2026-09-06), so walk forward until the date matches.
// Known gaps are multiples of 15 minutes.
func startOfDate(y int, m time.Month, d int, loc *time.Location) time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, loc)
	for i := 0; i < 24*4; i++ {
		if ty, tm, td := t.Date(); ty == y && tm == m && td == d {
			return t
		}
		t = t.Add(15 * time.Minute)
	}
	// The whole day was skipped (Pacific/Apia 2011-12-30).
	return t
}
