package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"
)

// Ticker is one iteration of a cooperative loop.
type Ticker interface {
	Tick(ctx context.Context)
}

// Scheduler drives a Ticker at a fixed interval. At most one Tick runs at a
// time; an iteration that comes due while the previous one is still running
// (a slow fetch, say) is dropped.
type Scheduler struct {
	scheduler *gocron.Scheduler
	loop      Ticker
	interval  time.Duration
}

// New creates a new Scheduler.
func New(loop Ticker, interval time.Duration) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	s.SetMaxConcurrentJobs(1, gocron.RescheduleMode)
	return &Scheduler{
		scheduler: s,
		loop:      loop,
		interval:  interval,
	}
}

// Start schedules the loop and starts the underlying scheduler. Ticks run
// with ctx until Stop is called.
func (s *Scheduler) Start(ctx context.Context) error {
	ms := int(s.interval.Milliseconds())
	if ms <= 0 {
		ms = int(DefaultTickInterval.Milliseconds())
	}

	_, err := s.scheduler.Every(ms).Milliseconds().SingletonMode().Do(func() {
		if ctx.Err() != nil {
			return
		}
		s.loop.Tick(ctx)
	})
	if err != nil {
		return err
	}

	log.Printf("scheduler: ticking every %dms", ms)
	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler; no tick starts afterwards.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
