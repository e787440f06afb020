package backup

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rnwolfe/deck/internal/streak"
	"github.com/rnwolfe/deck/internal/widget"
)

// Collect reads the whole database into a Snapshot.
func Collect(db *sql.DB) (*Snapshot, error) {
	snap := &Snapshot{
		Version:    FormatVersion,
		ExportedAt: time.Now().UTC(),
		Habits:     []Habit{},
		Entries:    []Entry{},
		Widgets:    []Widget{},
	}

	rows, err := db.Query(`SELECT id, name, COALESCE(note, ''), archived, COALESCE(created_at, '') FROM habits ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("reading habits: %w", err)
	}
	for rows.Next() {
		var h Habit
		var archived int
		if err := rows.Scan(&h.ID, &h.Name, &h.Note, &archived, &h.CreatedAt); err != nil {
			rows.Close()
			return nil, err
		}
		h.Archived = archived != 0
		snap.Habits = append(snap.Habits, h)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading habits: %w", err)
	}

	rows, err = db.Query(`SELECT habit_id, day, COALESCE(note, ''), COALESCE(created_at, '') FROM habit_entries ORDER BY habit_id, day, id`)
	if err != nil {
		return nil, fmt.Errorf("reading entries: %w", err)
	}
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.HabitID, &e.Day, &e.Note, &e.CreatedAt); err != nil {
			rows.Close()
			return nil, err
		}
		snap.Entries = append(snap.Entries, e)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading entries: %w", err)
	}

	widgets, err := widget.NewStore(db).List()
	if err != nil {
		return nil, fmt.Errorf("reading widgets: %w", err)
	}
	for _, w := range widgets {
		snap.Widgets = append(snap.Widgets, Widget{
			ID:     w.ID,
			Kind:   string(w.Kind),
			Title:  w.Title,
			Row:    w.Row,
			Col:    w.Col,
			Config: w.Config,
		})
	}
	return snap, nil
}

// Validate checks a snapshot for references and values the schema can't hold.
func (s *Snapshot) Validate() error {
	ids := make(map[int]bool, len(s.Habits))
	for _, h := range s.Habits {
		if h.Name == "" {
			return fmt.Errorf("habit #%d has no name", h.ID)
		}
		ids[h.ID] = true
	}
	for _, e := range s.Entries {
		if !ids[e.HabitID] {
			return fmt.Errorf("entry on %s references unknown habit #%d", e.Day, e.HabitID)
		}
		if _, err := streak.ParseDay(e.Day, time.UTC); err != nil {
			return err
		}
	}
	cells := make(map[[2]int]string, len(s.Widgets))
	for _, w := range s.Widgets {
		if _, err := widget.ParseKind(w.Kind); err != nil {
			return err
		}
		cell := [2]int{w.Row, w.Col}
		if other, ok := cells[cell]; ok {
			return fmt.Errorf("widgets %s and %s share cell %d,%d", other, w.ID, w.Row, w.Col)
		}
		cells[cell] = w.ID
	}
	return nil
}

// Restore replaces all habits, entries, and widgets with the snapshot's
// contents in a single transaction.
func Restore(db *sql.DB, snap *Snapshot) error {
	if err := snap.Validate(); err != nil {
		return fmt.Errorf("invalid backup: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range []string{"habit_entries", "habits", "widget_config", "widgets"} {
		if _, err := tx.Exec(`DELETE FROM ` + table); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	for _, h := range snap.Habits {
		created := h.CreatedAt
		if created == "" {
			created = time.Now().UTC().Format("2006-01-02 15:04:05")
		}
		if _, err := tx.Exec(
			`INSERT INTO habits (id, name, note, archived, created_at) VALUES (?, ?, ?, ?, ?)`,
			h.ID, h.Name, h.Note, boolInt(h.Archived), created,
		); err != nil {
			return fmt.Errorf("restoring habit %q: %w", h.Name, err)
		}
	}
	for _, e := range snap.Entries {
		if _, err := tx.Exec(
			`INSERT INTO habit_entries (habit_id, day, note, created_at) VALUES (?, ?, ?, COALESCE(NULLIF(?, ''), CURRENT_TIMESTAMP))`,
			e.HabitID, e.Day, e.Note, e.CreatedAt,
		); err != nil {
			return fmt.Errorf("restoring entry: %w", err)
		}
	}
	for _, w := range snap.Widgets {
		if _, err := tx.Exec(
			`INSERT INTO widgets (id, kind, title, row, col) VALUES (?, ?, ?, ?, ?)`,
			w.ID, w.Kind, w.Title, w.Row, w.Col,
		); err != nil {
			return fmt.Errorf("restoring widget %s: %w", w.ID, err)
		}
		for k, v := range w.Config {
			if _, err := tx.Exec(
				`INSERT INTO widget_config (widget_id, key, value) VALUES (?, ?, ?)`, w.ID, k, v,
			); err != nil {
				return fmt.Errorf("restoring widget %s config: %w", w.ID, err)
			}
		}
	}

	return tx.Commit()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
