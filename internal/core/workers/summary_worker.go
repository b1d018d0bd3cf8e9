package workers

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/comitanigiacomo/kanso-planner/internal/core/domain"
	"github.com/comitanigiacomo/kanso-planner/internal/logger"
	"github.com/comitanigiacomo/kanso-planner/internal/metrics"
)

const defaultQueueSize = 100

type SummaryGenerator interface {
	GenerateWeeklySummary(ctx context.Context, date time.Time) (*domain.WeeklyReport, error)
}

type SummaryJob struct {
	Date   time.Time
	Reason string
}

// SummaryWorker regenerates Summary.md off the request path.
type SummaryWorker struct {
	generator SummaryGenerator
	jobs      chan SummaryJob
	log       *logger.Logger
}

func NewSummaryWorker(generator SummaryGenerator, queueSize int, log *logger.Logger) *SummaryWorker {
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	return &SummaryWorker{
		generator: generator,
		jobs:      make(chan SummaryJob, queueSize),
		log:       log.Named("summary_worker"),
	}
}

func (w *SummaryWorker) Start(ctx context.Context) {
	go func() {
		w.log.Info("summary worker started")
		for {
			select {
			case job := <-w.jobs:
				metrics.WorkerQueueDepth.Set(float64(len(w.jobs)))
				w.processJob(ctx, job)
			case <-ctx.Done():
				w.log.Info("summary worker shutting down")
				return
			}
		}
	}()
}

// Enqueue never blocks: a full queue drops the job.
func (w *SummaryWorker) Enqueue(date time.Time, reason string) bool {
	select {
	case w.jobs <- SummaryJob{Date: date, Reason: reason}:
		metrics.WorkerQueueDepth.Set(float64(len(w.jobs)))
		return true
	default:
		metrics.WorkerDropped.Inc()
		w.log.Warn("summary queue full, dropping job", zap.Time("date", date), zap.String("reason", reason))
		return false
	}
}

func (w *SummaryWorker) Pending() int {
	return len(w.jobs)
}

func (w *SummaryWorker) processJob(ctx context.Context, job SummaryJob) {
	started := time.Now()
	report, err := w.generator.GenerateWeeklySummary(ctx, job.Date)
	if err != nil {
		w.log.Error("summary job failed", zap.String("reason", job.Reason), zap.Error(err))
		return
	}

	w.log.Info("summary job done",
		zap.String("reason", job.Reason),
		zap.Time("week_start", report.HealthWeek.Start),
		zap.Duration("duration", time.Since(started)),
	)
}
