package remind

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// Scheduler runs a Checker on a cron schedule.
type Scheduler struct {
	cron    *cron.Cron
	checker *Checker
	notify  Notifier
	spec    string
	loc     *time.Location
	now     func() time.Time

	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewScheduler validates spec (standard five-field cron) and builds a
// scheduler that evaluates it in loc. A nil loc means time.Local.
func NewScheduler(checker *Checker, spec string, loc *time.Location, notify Notifier) (*Scheduler, error) {
	if loc == nil {
		loc = time.Local
	}
	if _, err := cron.ParseStandard(spec); err != nil {
		return nil, fmt.Errorf("invalid remind schedule %q: %w", spec, err)
	}
	return &Scheduler{
		cron:    cron.New(cron.WithLocation(loc)),
		checker: checker,
		notify:  notify,
		spec:    spec,
		loc:     loc,
		now:     time.Now,
	}, nil
}

// RunOnce checks for due reminders immediately.
func (s *Scheduler) RunOnce(ctx context.Context) (int, error) {
	return s.checker.Run(ctx, s.now().In(s.loc), s.notify)
}

// Start registers the reminder job and starts the cron loop. Jobs stop
// running once ctx is cancelled or Stop is called.
func (s *Scheduler) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)

	_, err := s.cron.AddFunc(s.spec, func() {
		log.Debug("[remind] checking streaks")
		n, err := s.RunOnce(ctx)
		if err != nil {
			if ctx.Err() == nil {
				log.WithError(err).Error("[remind] check failed")
			}
			return
		}
		log.WithField("sent", n).Info("[remind] check done")
	})
	if err != nil {
		cancel()
		return fmt.Errorf("scheduling reminders: %w", err)
	}

	s.mu.Lock()
	s.cancel = cancel
	s.mu.Unlock()

	s.cron.Start()
	log.WithFields(log.Fields{"schedule": s.spec, "tz": s.loc.String()}).Info("[remind] scheduler started")
	return nil
}

// Next returns the next time the job will run, zero if not started.
func (s *Scheduler) Next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

// Stop halts the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.mu.Unlock()

	<-s.cron.Stop().Done()
	log.Info("[remind] scheduler stopped")
}
