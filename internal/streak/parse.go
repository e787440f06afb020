package streak

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DayLayout is the storage and input format for calendar days.
const DayLayout = "2006-01-02"

// ErrInvalidDate is returned when a day string cannot be parsed.
var ErrInvalidDate = errors.New("invalid date")

// ParseDay parses a YYYY-MM-DD string as the first instant of that day in
// loc (time.Local if nil).
func ParseDay(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.Parse(DayLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w %q: expected YYYY-MM-DD", ErrInvalidDate, s)
	}
	y, m, d := t.Date()
	return startOfDate(y, m, d, loc), nil
}

// ParseDays converts day strings into records. A single bad value rejects the
// whole batch so it can never skew the ordering of the others.
func ParseDays(days []string, loc *time.Location) ([]Record, error) {
	records := make([]Record, 0, len(days))
	for _, d := range days {
		t, err := ParseDay(d, loc)
		if err != nil {
			return nil, err
		}
		records = append(records, Record{EntryDate: t})
	}
	return records, nil
}

// FromTimes wraps instants as records.
func FromTimes(ts []time.Time) []Record {
	records := make([]Record, len(ts))
	for i, t := range ts {
		records[i] = Record{EntryDate: t}
	}
	return records
}
