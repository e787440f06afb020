// Package habit persists habits and their daily check-ins and derives
// streaks from them.
package habit

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rnwolfe/deck/internal/streak"
)

// ErrNotFound is returned when a habit reference matches nothing.
var ErrNotFound = errors.New("habit not found")

// Habit is a recurring practice tracked by daily check-ins.
type Habit struct {
	ID        int
	Name      string
	Note      string
	Archived  bool
	CreatedAt time.Time
}

// Entry is a single check-in. Day is midnight in the store's location.
type Entry struct {
	ID        int
	HabitID   int
	Day       time.Time
	Note      string
	CreatedAt time.Time
}

// Store handles habit persistence. Days are stored as YYYY-MM-DD strings
// interpreted in loc.
type Store struct {
	db  *sql.DB
	loc *time.Location
}

// NewStore creates a habit store. A nil loc means time.Local.
func NewStore(db *sql.DB, loc *time.Location) *Store {
	if loc == nil {
		loc = time.Local
	}
	return &Store{db: db, loc: loc}
}

// Calendar returns the calendar matching the store's location.
func (s *Store) Calendar() streak.LocalCalendar {
	return streak.LocalCalendar{Location: s.loc}
}

// Add creates a habit and returns its ID.
func (s *Store) Add(name, note string) (int, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, fmt.Errorf("habit name must not be empty")
	}
	if _, err := strconv.Atoi(name); err == nil {
		return 0, fmt.Errorf("habit name %q can't be a number (numbers refer to IDs)", name)
	}
	res, err := s.db.Exec(`INSERT INTO habits (name, note) VALUES (?, ?)`, name, note)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return 0, fmt.Errorf("habit %q already exists", name)
		}
		return 0, fmt.Errorf("adding habit: %w", err)
	}
	id, _ := res.LastInsertId()
	return int(id), nil
}

// Get returns a habit by ID.
func (s *Store) Get(id int) (*Habit, error) {
	row := s.db.QueryRow(
		`SELECT id, name, note, archived, created_at FROM habits WHERE id = ?`, id,
	)
	h, err := scanHabit(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("habit #%d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting habit #%d: %w", id, err)
	}
	return h, nil
}

// Find resolves a user reference: a numeric ID or a case-insensitive name.
func (s *Store) Find(ref string) (*Habit, error) {
	ref = strings.TrimPrefix(strings.TrimSpace(ref), "#")
	if id, err := strconv.Atoi(ref); err == nil {
		return s.Get(id)
	}
	row := s.db.QueryRow(
		`SELECT id, name, note, archived, created_at FROM habits WHERE name = ? COLLATE NOCASE`, ref,
	)
	h, err := scanHabit(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("habit %q: %w", ref, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("finding habit %q: %w", ref, err)
	}
	return h, nil
}

// List returns habits ordered by creation. Archived habits are included only
// when includeArchived is set.
func (s *Store) List(includeArchived bool) ([]Habit, error) {
	q := `SELECT id, name, note, archived, created_at FROM habits`
	if !includeArchived {
		q += ` WHERE archived = 0`
	}
	q += ` ORDER BY id ASC`

	rows, err := s.db.Query(q)
	if err != nil {
		return nil, fmt.Errorf("listing habits: %w", err)
	}
	defer rows.Close()

	var habits []Habit
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, err
		}
		habits = append(habits, *h)
	}
	return habits, rows.Err()
}

// Archive hides a habit from the dashboard. Its history is kept.
func (s *Store) Archive(id int) error {
	return s.setArchived(id, true)
}

// Unarchive restores an archived habit.
func (s *Store) Unarchive(id int) error {
	return s.setArchived(id, false)
}

func (s *Store) setArchived(id int, archived bool) error {
	v := 0
	if archived {
		v = 1
	}
	res, err := s.db.Exec(`UPDATE habits SET archived = ? WHERE id = ?`, v, id)
	if err != nil {
		return fmt.Errorf("archiving habit: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("habit #%d: %w", id, ErrNotFound)
	}
	return nil
}

// Rename changes a habit's name.
func (s *Store) Rename(id int, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("habit name must not be empty")
	}
	if _, err := strconv.Atoi(name); err == nil {
		return fmt.Errorf("habit name %q can't be a number (numbers refer to IDs)", name)
	}
	res, err := s.db.Exec(`UPDATE habits SET name = ? WHERE id = ?`, name, id)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return fmt.Errorf("habit %q already exists", name)
		}
		return fmt.Errorf("renaming habit: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("habit #%d: %w", id, ErrNotFound)
	}
	return nil
}

// Delete removes a habit and all of its check-ins.
func (s *Store) Delete(id int) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM habit_entries WHERE habit_id = ?`, id); err != nil {
		return fmt.Errorf("deleting entries: %w", err)
	}
	res, err := tx.Exec(`DELETE FROM habits WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting habit: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("habit #%d: %w", id, ErrNotFound)
	}
	return tx.Commit()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanHabit(row scanner) (*Habit, error) {
	var h Habit
	var archived int
	var createdStr string
	if err := row.Scan(&h.ID, &h.Name, &h.Note, &archived, &createdStr); err != nil {
		return nil, err
	}
	h.Archived = archived == 1
	h.CreatedAt = parseTimestamp(createdStr)
	return &h, nil
}
