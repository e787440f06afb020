// Package remind nudges the user about streaks that will break tonight.
package remind

import (
	"context"
	"fmt"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/rnwolfe/deck/internal/habit"
	"github.com/rnwolfe/deck/internal/streak"
)

// Reminder is a single at-risk habit.
type Reminder struct {
	Habit  habit.Habit
	Streak streak.Result
}

// Message formats the reminder for a notification line.
func (r Reminder) Message() string {
	days := "days"
	if r.Streak.Current == 1 {
		days = "day"
	}
	return fmt.Sprintf("%s: %d %s on the line, check in before midnight", r.Habit.Name, r.Streak.Current, days)
}

// Notifier delivers a reminder.
type Notifier func(Reminder)

// Summarizer yields habit summaries as of now.
type Summarizer interface {
	Summaries(now time.Time) ([]habit.Summary, error)
}

// KV persists which habits were already reminded about.
type KV interface {
	GetKV(key string) (string, error)
	SetKV(key, value string) error
}

// Checker selects habits whose streak is alive only through yesterday.
type Checker struct {
	Habits Summarizer
	// Sent, if set, suppresses a second reminder for the same habit on the same day.
	Sent KV
}

// Due returns reminders for at-risk habits as of now.
func (c *Checker) Due(now time.Time) ([]Reminder, error) {
	summaries, err := c.Habits.Summaries(now)
	if err != nil {
		return nil, fmt.Errorf("loading habits: %w", err)
	}

	today := now.Format(streak.DayLayout)
	var due []Reminder
	for _, s := range summaries {
		if !s.Streak.AtRisk() || s.DoneToday() {
			continue
		}
		if c.Sent != nil {
			last, err := c.Sent.GetKV(sentKey(s.Habit.ID))
			if err != nil {
				return nil, fmt.Errorf("reading reminder state: %w", err)
			}
			if last == today {
				continue
			}
		}
		due = append(due, Reminder{Habit: s.Habit, Streak: s.Streak})
	}
	return due, nil
}

// MarkSent records that r was delivered on the day of now.
func (c *Checker) MarkSent(r Reminder, now time.Time) error {
	if c.Sent == nil {
		return nil
	}
	return c.Sent.SetKV(sentKey(r.Habit.ID), now.Format(streak.DayLayout))
}

func sentKey(habitID int) string {
	return "remind.sent." + strconv.Itoa(habitID)
}

// Run checks once and delivers every due reminder. It returns how many were sent.
func (c *Checker) Run(ctx context.Context, now time.Time, notify Notifier) (int, error) {
	due, err := c.Due(now)
	if err != nil {
		return 0, err
	}
	sent := 0
	for _, r := range due {
		if err := ctx.Err(); err != nil {
			return sent, err
		}
		notify(r)
		if err := c.MarkSent(r, now); err != nil {
			log.WithError(err).WithField("habit", r.Habit.Name).Warn("could not record reminder")
		}
		sent++
	}
	return sent, nil
}
