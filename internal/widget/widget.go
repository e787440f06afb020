// Package widget stores the dashboard grid: which widgets exist, where they
// sit, and each widget's key-value configuration.
package widget

import (
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// Kind identifies what a widget displays.
type Kind string

const (
	KindHabits   Kind = "habits"
	KindQuests   Kind = "quests"
	KindFinance  Kind = "finance"
	KindCalendar Kind = "calendar"
	KindNotes    Kind = "notes"
	KindGraph    Kind = "graph"
)

var kinds = []Kind{KindHabits, KindQuests, KindFinance, KindCalendar, KindNotes, KindGraph}

// Kinds returns all known widget kinds in display order.
func Kinds() []Kind {
	return append([]Kind(nil), kinds...)
}

// ParseKind validates a user-supplied kind name.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range kinds {
		if k == known {
			return k, nil
		}
	}
	names := make([]string, len(kinds))
	for i, known := range kinds {
		names[i] = string(known)
	}
	return "", fmt.Errorf("unknown widget kind %q (use one of: %s)", s, strings.Join(names, ", "))
}

var (
	// ErrNotFound is returned when a widget reference matches nothing.
	ErrNotFound = errors.New("widget not found")
	// ErrAmbiguous is returned when an ID prefix matches several widgets.
	ErrAmbiguous = errors.New("widget reference is ambiguous")
)

// Widget is one tile on the dashboard grid.
type Widget struct {
	ID     string
	Kind   Kind
	Title  string
	Row    int
	Col    int
	Config map[string]string
}

// ShortID returns the first 8 characters of the ID for display.
func (w Widget) ShortID() string {
	if len(w.ID) > 8 {
		return w.ID[:8]
	}
	return w.ID
}

// DisplayTitle falls back to the kind when no title is set.
func (w Widget) DisplayTitle() string {
	if w.Title != "" {
		return w.Title
	}
	return strings.ToUpper(string(w.Kind)[:1]) + string(w.Kind)[1:]
}

// Store handles widget persistence.
type Store struct {
	db *sql.DB
}

// NewStore creates a widget store.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Add creates a widget in the first free cell of a grid that is columns wide,
// scanning row by row.
func (s *Store) Add(kind Kind, title string, columns int) (*Widget, error) {
	if columns < 1 {
		columns = 1
	}
	existing, err := s.List()
	if err != nil {
		return nil, err
	}
	row, col := firstFree(existing, columns)

	w := &Widget{
		ID:     uuid.New().String(),
		Kind:   kind,
		Title:  strings.TrimSpace(title),
		Row:    row,
		Col:    col,
		Config: map[string]string{},
	}
	if _, err := s.db.Exec(
		`INSERT INTO widgets (id, kind, title, row, col) VALUES (?, ?, ?, ?, ?)`,
		w.ID, string(w.Kind), w.Title, w.Row, w.Col,
	); err != nil {
		return nil, fmt.Errorf("adding widget: %w", err)
	}
	return w, nil
}

func firstFree(widgets []Widget, columns int) (int, int) {
	taken := make(map[[2]int]bool, len(widgets))
	for _, w := range widgets {
		taken[[2]int{w.Row, w.Col}] = true
	}
	for i := 0; ; i++ {
		r, c := i/columns, i%columns
		if !taken[[2]int{r, c}] {
			return r, c
		}
	}
}

// List returns all widgets ordered by position, with config loaded.
func (s *Store) List() ([]Widget, error) {
	rows, err := s.db.Query(`SELECT id, kind, title, row, col FROM widgets ORDER BY row ASC, col ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing widgets: %w", err)
	}
	defer rows.Close()

	var widgets []Widget
	index := map[string]int{}
	for rows.Next() {
		var w Widget
		var kind string
		if err := rows.Scan(&w.ID, &kind, &w.Title, &w.Row, &w.Col); err != nil {
			return nil, err
		}
		w.Kind = Kind(kind)
		w.Config = map[string]string{}
		index[w.ID] = len(widgets)
		widgets = append(widgets, w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	cfgRows, err := s.db.Query(`SELECT widget_id, key, value FROM widget_config`)
	if err != nil {
		return nil, fmt.Errorf("loading widget config: %w", err)
	}
	defer cfgRows.Close()
	for cfgRows.Next() {
		var id, k, v string
		if err := cfgRows.Scan(&id, &k, &v); err != nil {
			return nil, err
		}
		if i, ok := index[id]; ok {
			widgets[i].Config[k] = v
		}
	}
	return widgets, cfgRows.Err()
}

// Get resolves a widget by full ID or unique ID prefix.
func (s *Store) Get(ref string) (*Widget, error) {
	ref = strings.ToLower(strings.TrimSpace(ref))
	if ref == "" {
		return nil, fmt.Errorf("empty widget reference: %w", ErrNotFound)
	}
	widgets, err := s.List()
	if err != nil {
		return nil, err
	}
	var match *Widget
	for i := range widgets {
		if widgets[i].ID == ref {
			return &widgets[i], nil
		}
		if strings.HasPrefix(widgets[i].ID, ref) {
			if match != nil {
				return nil, fmt.Errorf("%q: %w", ref, ErrAmbiguous)
			}
			match = &widgets[i]
		}
	}
	if match == nil {
		return nil, fmt.Errorf("%q: %w", ref, ErrNotFound)
	}
	return match, nil
}

// Move places widget id at (row, col). A widget already in that cell swaps
// into id's old position.
func (s *Store) Move(id string, row, col int) error {
	if row < 0 || col < 0 {
		return fmt.Errorf("position must not be negative (got %d,%d)", row, col)
	}
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var oldRow, oldCol int
	err = tx.QueryRow(`SELECT row, col FROM widgets WHERE id = ?`, id).Scan(&oldRow, &oldCol)
	if err == sql.ErrNoRows {
		return fmt.Errorf("%q: %w", id, ErrNotFound)
	}
	if err != nil {
		return err
	}

	if _, err := tx.Exec(
		`UPDATE widgets SET row = ?, col = ? WHERE row = ? AND col = ? AND id != ?`,
		oldRow, oldCol, row, col, id,
	); err != nil {
		return fmt.Errorf("swapping widget: %w", err)
	}
	if _, err := tx.Exec(`UPDATE widgets SET row = ?, col = ? WHERE id = ?`, row, col, id); err != nil {
		return fmt.Errorf("moving widget: %w", err)
	}
	return tx.Commit()
}

// Remove deletes a widget and its config.
func (s *Store) Remove(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM widget_config WHERE widget_id = ?`, id); err != nil {
		return err
	}
	res, err := tx.Exec(`DELETE FROM widgets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("removing widget: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%q: %w", id, ErrNotFound)
	}
	return tx.Commit()
}

// SetTitle updates a widget's title.
func (s *Store) SetTitle(id, title string) error {
	res, err := s.db.Exec(`UPDATE widgets SET title = ? WHERE id = ?`, strings.TrimSpace(title), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%q: %w", id, ErrNotFound)
	}
	return nil
}

// SetConfig stores key=value for a widget. The last write wins.
func (s *Store) SetConfig(id, key, value string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("config key must not be empty")
	}
	var exists int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM widgets WHERE id = ?`, id).Scan(&exists); err != nil {
		return err
	}
	if exists == 0 {
		return fmt.Errorf("%q: %w", id, ErrNotFound)
	}
	_, err := s.db.Exec(
		`INSERT INTO widget_config (widget_id, key, value) VALUES (?, ?, ?)
		 ON CONFLICT(widget_id, key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		id, key, value,
	)
	if err != nil {
		return fmt.Errorf("setting widget config: %w", err)
	}
	return nil
}

// UnsetConfig removes a config key. Removing a missing key is not an error.
func (s *Store) UnsetConfig(id, key string) error {
	_, err := s.db.Exec(`DELETE FROM widget_config WHERE widget_id = ? AND key = ?`, id, key)
	return err
}

// ConfigKeys returns the widget's config keys sorted.
func (w Widget) ConfigKeys() []string {
	keys := make([]string, 0, len(w.Config))
	for k := range w.Config {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Grid arranges widgets into rows of the given width. Cells with no widget are
// nil; widgets positioned beyond the width wrap onto extra rows at the end.
func Grid(widgets []Widget, columns int) [][]*Widget {
	if columns < 1 {
		columns = 1
	}
	var grid [][]*Widget
	var overflow []*Widget
	for i := range widgets {
		w := &widgets[i]
		if w.Col >= columns {
			overflow = append(overflow, w)
			continue
		}
		for len(grid) <= w.Row {
			grid = append(grid, make([]*Widget, columns))
		}
		if grid[w.Row][w.Col] != nil {
			overflow = append(overflow, w)
			continue
		}
		grid[w.Row][w.Col] = w
	}
	for i, w := range overflow {
		if i%columns == 0 {
			grid = append(grid, make([]*Widget, columns))
		}
		grid[len(grid)-1][i%columns] = w
	}
	return grid
}
