package workers

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/comitanigiacomo/kanso-planner/internal/logger"
)

type Bootstrapper interface {
	Bootstrap(ctx context.Context) error
}

// BootstrapFunc adapts a plain function to Bootstrapper.
type BootstrapFunc func(ctx context.Context) error

func (f BootstrapFunc) Bootstrap(ctx context.Context) error {
	return f(ctx)
}

// Scheduler runs the bootstrap once at start and queues a summary every day
// at the configured hour.
type Scheduler struct {
	bootstrap Bootstrapper
	worker    *SummaryWorker
	hour      int
	now       func() time.Time
	log       *logger.Logger
}

func NewScheduler(bootstrap Bootstrapper, worker *SummaryWorker, hour int, now func() time.Time, log *logger.Logger) *Scheduler {
	return &Scheduler{
		bootstrap: bootstrap,
		worker:    worker,
		hour:      hour,
		now:       now,
		log:       log.Named("scheduler"),
	}
}

// NextRun is the first moment at hour:00 strictly after now.
func NextRun(now time.Time, hour int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

func (s *Scheduler) Start(ctx context.Context) {
	if s.bootstrap != nil {
		if err := s.bootstrap.Bootstrap(ctx); err != nil {
			s.log.Error("startup bootstrap failed", zap.Error(err))
		}
	}

	go s.loop(ctx)
}

func (s *Scheduler) loop(ctx context.Context) {
	for {
		now := s.now()
		next := NextRun(now, s.hour)
		s.log.Info("next summary run scheduled",
			zap.Time("next_run", next),
			zap.Duration("time_until_next_run", next.Sub(now)),
		)

		timer := time.NewTimer(next.Sub(now))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			s.worker.Enqueue(s.now(), "scheduled")
		}
	}
}
