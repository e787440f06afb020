package habit

import (
	"fmt"
	"time"

	"github.com/rnwolfe/deck/internal/streak"
)

// Summary is a habit together with its streak as of a reference time.
type Summary struct {
	Habit  Habit
	Streak streak.Result
	// Checks is the number of check-ins on the reference day.
	Checks int
}

// DoneToday reports whether the habit has been checked on the reference day.
func (s Summary) DoneToday() bool {
	return s.Checks > 0
}

// Check records a check-in for habit id on the calendar day containing day.
func (s *Store) Check(id int, day time.Time, note string) (int, error) {
	if _, err := s.Get(id); err != nil {
		return 0, err
	}
	res, err := s.db.Exec(
		`INSERT INTO habit_entries (habit_id, day, note) VALUES (?, ?, ?)`,
		id, s.dayString(day), note,
	)
	if err != nil {
		return 0, fmt.Errorf("checking habit: %w", err)
	}
	entryID, _ := res.LastInsertId()
	return int(entryID), nil
}

// Uncheck removes every check-in for habit id on the given day and returns how
// many were removed.
func (s *Store) Uncheck(id int, day time.Time) (int, error) {
	res, err := s.db.Exec(
		`DELETE FROM habit_entries WHERE habit_id = ? AND day = ?`,
		id, s.dayString(day),
	)
	if err != nil {
		return 0, fmt.Errorf("unchecking habit: %w", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

// Entries returns check-ins for habit id on or after since, newest first.
// A zero since returns the full history.
func (s *Store) Entries(id int, since time.Time) ([]Entry, error) {
	sinceStr := ""
	if !since.IsZero() {
		sinceStr = s.dayString(since)
	}
	rows, err := s.db.Query(
		`SELECT id, habit_id, day, note, created_at FROM habit_entries
		 WHERE habit_id = ? AND day >= ? ORDER BY day DESC, id DESC`,
		id, sinceStr,
	)
	if err != nil {
		return nil, fmt.Errorf("listing entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var dayStr, createdStr string
		if err := rows.Scan(&e.ID, &e.HabitID, &dayStr, &e.Note, &createdStr); err != nil {
			return nil, err
		}
		e.Day, err = streak.ParseDay(dayStr, s.loc)
		if err != nil {
			return nil, fmt.Errorf("entry #%d: %w", e.ID, err)
		}
		e.CreatedAt = parseTimestamp(createdStr)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Records loads every check-in for habit id as streak records.
func (s *Store) Records(id int) ([]streak.Record, error) {
	rows, err := s.db.Query(`SELECT day FROM habit_entries WHERE habit_id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("loading check-ins: %w", err)
	}
	defer rows.Close()

	var days []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		days = append(days, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return streak.ParseDays(days, s.loc)
}

// Streak computes the streak for habit id relative to now.
func (s *Store) Streak(id int, now time.Time) (streak.Result, error) {
	records, err := s.Records(id)
	if err != nil {
		return streak.Result{}, err
	}
	return streak.Calculator{Calendar: s.Calendar()}.Compute(records, now), nil
}

// Summaries returns every active habit with its streak and today's check-in count.
func (s *Store) Summaries(now time.Time) ([]Summary, error) {
	habits, err := s.List(false)
	if err != nil {
		return nil, err
	}

	calc := streak.Calculator{Calendar: s.Calendar()}
	today := s.dayString(now)
	out := make([]Summary, 0, len(habits))
	for _, h := range habits {
		records, err := s.Records(h.ID)
		if err != nil {
			return nil, fmt.Errorf("habit %q: %w", h.Name, err)
		}
		var checks int
		if err := s.db.QueryRow(
			`SELECT COUNT(*) FROM habit_entries WHERE habit_id = ? AND day = ?`, h.ID, today,
		).Scan(&checks); err != nil {
			return nil, err
		}
		out = append(out, Summary{
			Habit:  h,
			Streak: calc.Compute(records, now),
			Checks: checks,
		})
	}
	return out, nil
}

// Milestone reports the highest milestone the streak reached by going from
// before to after, if any.
func Milestone(before, after streak.Result, milestones []int) (int, bool) {
	hit := 0
	for _, m := range milestones {
		if before.Current < m && after.Current >= m && m > hit {
			hit = m
		}
	}
	return hit, hit > 0
}

func (s *Store) dayString(t time.Time) string {
	return t.In(s.loc).Format(streak.DayLayout)
}

// parseTimestamp accepts SQLite's CURRENT_TIMESTAMP text and RFC 3339, which
// the driver may hand back for DATETIME columns.
func parseTimestamp(s string) time.Time {
	for _, layout := range []string{"2006-01-02 15:04:05", time.RFC3339Nano} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
