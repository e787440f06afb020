package remind

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/rnwolfe/deck/internal/habit"
	"github.com/rnwolfe/deck/internal/streak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeHabits struct {
	summaries []habit.Summary
	err       error
}

func (f fakeHabits) Summaries(time.Time) ([]habit.Summary, error) {
	return f.summaries, f.err
}

type memKV struct {
	mu sync.Mutex
	m  map[string]string
}

func (k *memKV) GetKV(key string) (string, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.m[key], nil
}

func (k *memKV) SetKV(key, value string) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.m == nil {
		k.m = map[string]string{}
	}
	k.m[key] = value
	return nil
}

var now = time.Date(2026, 2, 10, 20, 0, 0, 0, time.UTC)

func sample() fakeHabits {
	return fakeHabits{summaries: []habit.Summary{
		// Alive through yesterday, not checked today: due.
		{Habit: habit.Habit{ID: 1, Name: "read"}, Streak: streak.Result{Current: 4, Longest: 4}},
		// Already checked today.
		{Habit: habit.Habit{ID: 2, Name: "run"}, Streak: streak.Result{Current: 2, Longest: 2, Today: true}, Checks: 1},
		// Broken streak: nothing to save.
		{Habit: habit.Habit{ID: 3, Name: "piano"}, Streak: streak.Result{Current: 0, Longest: 9}},
	}}
}

func TestChecker_DueOnlyAtRisk(t *testing.T) {
	c := &Checker{Habits: sample()}
	due, err := c.Due(now)
	if err != nil {
		t.Fatal(err)
	}
	if len(due) != 1 || due[0].Habit.Name != "read" {
		t.Fatalf("Due = %+v, want only read", due)
	}
}

func TestChecker_SentSuppressesSameDay(t *testing.T) {
	kv := &memKV{}
	c := &Checker{Habits: sample(), Sent: kv}

	var got []string
	notify := func(r Reminder) { got = append(got, r.Habit.Name) }

	n, err := c.Run(context.Background(), now, notify)
	if err != nil || n != 1 {
		t.Fatalf("first Run = %d, %v", n, err)
	}
	n, err = c.Run(context.Background(), now.Add(time.Hour), notify)
	if err != nil || n != 0 {
		t.Fatalf("second Run same day = %d, %v; want 0", n, err)
	}
	n, err = c.Run(context.Background(), now.AddDate(0, 0, 1), notify)
	if err != nil || n != 1 {
		t.Fatalf("Run next day = %d, %v; want 1", n, err)
	}
	if len(got) != 2 {
		t.Errorf("notified %v", got)
	}
}

func TestChecker_PropagatesSourceError(t *testing.T) {
	c := &Checker{Habits: fakeHabits{err: errors.New("db gone")}}
	if _, err := c.Due(now); err == nil {
		t.Fatal("expected error")
	}
}

func TestChecker_RunStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := &Checker{Habits: sample()}
	n, err := c.Run(ctx, now, func(Reminder) { t.Error("notified after cancel") })
	if !errors.Is(err, context.Canceled) || n != 0 {
		t.Errorf("Run = %d, %v", n, err)
	}
}

func TestReminderMessage(t *testing.T) {
	r := Reminder{Habit: habit.Habit{Name: "read"}, Streak: streak.Result{Current: 1}}
	if got, want := r.Message(), "read: 1 day on the line, check in before midnight"; got != want {
		t.Errorf("Message() = %q, want %q", got, want)
	}
}

func TestNewScheduler_RejectsBadSpec(t *testing.T) {
	if _, err := NewScheduler(&Checker{Habits: sample()}, "every evening", nil, func(Reminder) {}); err == nil {
		t.Fatal("expected error for invalid cron spec")
	}
}

func TestScheduler_RunOnceUsesClock(t *testing.T) {
	var got []Reminder
	s, err := NewScheduler(&Checker{Habits: sample()}, "0 20 * * *", time.UTC, func(r Reminder) { got = append(got, r) })
	if err != nil {
		t.Fatal(err)
	}
	s.now = func() time.Time { return now }

	n, err := s.RunOnce(context.Background())
	if err != nil || n != 1 || len(got) != 1 {
		t.Fatalf("RunOnce = %d, %v (%d notified)", n, err, len(got))
	}
}

func TestScheduler_StartFiresAndStops(t *testing.T) {
	fired := make(chan Reminder, 8)
	s, err := NewScheduler(&Checker{Habits: sample()}, "@every 1s", time.UTC, func(r Reminder) {
		select {
		case fired <- r:
		default:
		}
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	if s.Next().IsZero() {
		t.Error("Next() should be set after Start")
	}

	select {
	case r := <-fired:
		if r.Habit.Name != "read" {
			t.Errorf("fired for %q", r.Habit.Name)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("scheduled check never ran")
	}
	s.Stop()
}

func TestScheduler_StopWithoutStart(t *testing.T) {
	s, err := NewScheduler(&Checker{Habits: sample()}, "0 20 * * *", nil, func(Reminder) {})
	if err != nil {
		t.Fatal(err)
	}
	s.Stop()
}
