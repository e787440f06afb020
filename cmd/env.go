package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/rnwolfe/deck/internal/config"
	"github.com/rnwolfe/deck/internal/habit"
	"github.com/rnwolfe/deck/internal/store"
	"github.com/rnwolfe/deck/internal/streak"
	"github.com/rnwolfe/deck/internal/widget"
)

// cmdEnv bundles what most commands need: config, the open database, and
// stores bound to the configured timezone.
type cmdEnv struct {
	cfg     *config.Config
	db      *store.DB
	loc     *time.Location
	habits  *habit.Store
	widgets *widget.Store
}

func openEnv() (*cmdEnv, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	db, err := store.Open()
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	return &cmdEnv{
		cfg:     cfg,
		db:      db,
		loc:     loc,
		habits:  habit.NewStore(db.Conn(), loc),
		widgets: widget.NewStore(db.Conn()),
	}, nil
}

func (e *cmdEnv) Close() error {
	return e.db.Close()
}

// parseDayArg accepts "today", "yesterday", or YYYY-MM-DD in loc. An empty
// string means today.
func parseDayArg(s string, now time.Time, loc *time.Location) (time.Time, error) {
	now = now.In(loc)
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "today":
		return now, nil
	case "yesterday":
		return streak.LocalCalendar{Location: loc}.AddDays(now, -1), nil
	}
	d, err := streak.ParseDay(s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w (or use today/yesterday)", err)
	}
	return d, nil
}
