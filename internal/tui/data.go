package tui

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/rnwolfe/deck/internal/habit"
	"github.com/rnwolfe/deck/internal/widget"
)

// DashData holds everything the dashboard renders for one reference time.
type DashData struct {
	Now     time.Time
	Habits  []habit.Summary
	Widgets []widget.Widget
	Columns int
	// Series holds daily check-in counts for graph widgets, oldest first,
	// keyed by widget ID.
	Series map[string][]int
}

// Source loads dashboard data and applies check-ins from the dashboard.
type Source interface {
	Load(now time.Time) (DashData, error)
	Check(habitID int, now time.Time) (CheckResult, error)
	Uncheck(habitID int, now time.Time) error
}

// CheckResult describes a check-in made from the dashboard.
type CheckResult struct {
	Habit     string
	Day       time.Time
	Current   int
	Longest   int
	Milestone int
}

// StoreSource reads dashboard data from the habit and widget stores.
type StoreSource struct {
	Habits     *habit.Store
	Widgets    *widget.Store
	Columns    int
	Milestones []int
	// OnCheck, if set, sees every successful check-in.
	OnCheck func(CheckResult)
}

// DefaultGraphDays is the graph widget window when "days" isn't configured.
const DefaultGraphDays = 14

func (s *StoreSource) Load(now time.Time) (DashData, error) {
	summaries, err := s.Habits.Summaries(now)
	if err != nil {
		return DashData{}, err
	}
	widgets, err := s.Widgets.List()
	if err != nil {
		return DashData{}, err
	}

	data := DashData{
		Now:     now,
		Habits:  summaries,
		Widgets: widgets,
		Columns: s.Columns,
		Series:  map[string][]int{},
	}
	for _, w := range widgets {
		if w.Kind != widget.KindGraph {
			continue
		}
		series, err := s.series(w, now)
		if err != nil {
			if errors.Is(err, habit.ErrNotFound) {
				continue
			}
			return DashData{}, fmt.Errorf("graph %s: %w", w.ShortID(), err)
		}
		data.Series[w.ID] = series
	}
	return data, nil
}

// series counts check-ins per day for the habit a graph widget points at.
func (s *StoreSource) series(w widget.Widget, now time.Time) ([]int, error) {
	ref := w.Config["habit"]
	if ref == "" {
		return nil, habit.ErrNotFound
	}
	h, err := s.Habits.Find(ref)
	if err != nil {
		return nil, err
	}
	days := graphDays(w)
	cal := s.Habits.Calendar()
	start := cal.AddDays(now, -(days - 1))

	entries, err := s.Habits.Entries(h.ID, start)
	if err != nil {
		return nil, err
	}
	counts := make([]int, days)
	for _, e := range entries {
		if i := cal.DaysBetween(start, e.Day); i >= 0 && i < days {
			counts[i]++
		}
	}
	return counts, nil
}

func graphDays(w widget.Widget) int {
	if n, err := strconv.Atoi(w.Config["days"]); err == nil && n > 0 && n <= 90 {
		return n
	}
	return DefaultGraphDays
}

func (s *StoreSource) Check(habitID int, now time.Time) (CheckResult, error) {
	h, err := s.Habits.Get(habitID)
	if err != nil {
		return CheckResult{}, err
	}
	before, err := s.Habits.Streak(habitID, now)
	if err != nil {
		return CheckResult{}, err
	}
	if _, err := s.Habits.Check(habitID, now, ""); err != nil {
		return CheckResult{}, err
	}
	after, err := s.Habits.Streak(habitID, now)
	if err != nil {
		return CheckResult{}, err
	}
	res := CheckResult{
		Habit:   h.Name,
		Day:     s.Habits.Calendar().StartOfDay(now),
		Current: after.Current,
		Longest: after.Longest,
	}
	if m, ok := habit.Milestone(before, after, s.Milestones); ok {
		res.Milestone = m
	}
	if s.OnCheck != nil {
		s.OnCheck(res)
	}
	return res, nil
}

func (s *StoreSource) Uncheck(habitID int, now time.Time) error {
	_, err := s.Habits.Uncheck(habitID, now)
	return err
}
