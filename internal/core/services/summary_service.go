package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/comitanigiacomo/kanso-planner/internal/core/domain"
	"github.com/comitanigiacomo/kanso-planner/internal/logger"
	"github.com/comitanigiacomo/kanso-planner/internal/metrics"
)

var (
	ErrInvalidLimit = errors.New("limit must be between 1 and 52")
)

const maxHistory = 52

type SummaryService struct {
	vault      domain.Vault
	layout     Layout
	aggregator *AggregatorService
	renderer   *Renderer
	archive    domain.SummaryRepository
	notifier   domain.Notifier
	log        *logger.Logger
}

// NewSummaryService wires the weekly summary pipeline. archive may be nil.
func NewSummaryService(
	vault domain.Vault,
	layout Layout,
	aggregator *AggregatorService,
	renderer *Renderer,
	archive domain.SummaryRepository,
	notifier domain.Notifier,
	log *logger.Logger,
) *SummaryService {
	return &SummaryService{
		vault:      vault,
		layout:     layout,
		aggregator: aggregator,
		renderer:   renderer,
		archive:    archive,
		notifier:   notifier,
		log:        log.Named("summary"),
	}
}

// BuildReport reads the vault for date and renders the document without writing it.
func (s *SummaryService) BuildReport(ctx context.Context, date time.Time) (*domain.WeeklyReport, error) {
	date = domain.Midnight(date)

	tasks := s.aggregator.ReadDailyTasks(ctx, date)
	habits, err := s.aggregator.ReadWeekHabits(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("read week habits: %w", err)
	}

	healthWeek := domain.HealthWeek(date)
	return &domain.WeeklyReport{
		Date:       date,
		HealthWeek: healthWeek,
		TaskWeek:   tasks,
		Habits:     habits,
		Document:   s.renderer.RenderSummary(tasks.Stats, habits, healthWeek, tasks.Week),
		Path:       s.layout.SummaryPath(),
	}, nil
}

// WriteSummary replaces the summary file with the report document.
func (s *SummaryService) WriteSummary(ctx context.Context, report *domain.WeeklyReport) error {
	if err := domain.EnsureFolders(ctx, s.vault, report.Path); err != nil {
		return fmt.Errorf("ensure summary folders: %w", err)
	}
	if err := s.vault.Write(ctx, report.Path, report.Document); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	return nil
}

// GenerateWeeklySummary is the top-level run: build, write, archive.
// A failure is logged and surfaced through the notifier before being returned.
func (s *SummaryService) GenerateWeeklySummary(ctx context.Context, date time.Time) (*domain.WeeklyReport, error) {
	started := time.Now()

	report, err := s.BuildReport(ctx, date)
	if err == nil {
		err = s.WriteSummary(ctx, report)
	}
	metrics.SummaryDuration.Observe(float64(time.Since(started).Milliseconds()))

	if err != nil {
		metrics.SummariesGenerated.WithLabelValues("error").Inc()
		s.log.Error("error generating summary", zap.Time("date", date), zap.Error(err))
		s.notifier.Notify(ctx, "Error generating summary: "+err.Error())
		return nil, err
	}

	metrics.SummariesGenerated.WithLabelValues("ok").Inc()
	s.log.Info("summary generated",
		zap.String("path", report.Path),
		zap.Time("week_start", report.HealthWeek.Start),
		zap.Int("total_tasks", report.TaskWeek.Stats.TotalTasks),
		zap.Int("skipped_files", report.TaskWeek.SkippedCount()),
	)

	s.saveSnapshot(ctx, report)
	return report, nil
}

func (s *SummaryService) saveSnapshot(ctx context.Context, report *domain.WeeklyReport) {
	if s.archive == nil {
		return
	}
	if err := s.archive.Save(ctx, domain.NewWeeklySnapshot(report)); err != nil {
		s.log.Warn("failed to archive weekly snapshot", zap.Time("week_start", report.HealthWeek.Start), zap.Error(err))
	}
}

// WeeklyStats runs only the daily task pass.
func (s *SummaryService) WeeklyStats(ctx context.Context, date time.Time) domain.TaskWeekSummary {
	return s.aggregator.ReadDailyTasks(ctx, domain.Midnight(date))
}

// Chart decodes the chart block of the current summary file.
func (s *SummaryService) Chart(ctx context.Context) (*domain.ChartSpec, error) {
	content, err := s.vault.Read(ctx, s.layout.SummaryPath())
	if err != nil {
		return nil, err
	}
	return domain.ParseChartSpec(content)
}

func (s *SummaryService) History(ctx context.Context, limit int) ([]*domain.WeeklySnapshot, error) {
	if limit < 1 || limit > maxHistory {
		return nil, ErrInvalidLimit
	}
	if s.archive == nil {
		return []*domain.WeeklySnapshot{}, nil
	}
	return s.archive.ListRecent(ctx, limit)
}

func (s *SummaryService) Snapshot(ctx context.Context, date time.Time) (*domain.WeeklySnapshot, error) {
	if s.archive == nil {
		return nil, domain.ErrSnapshotNotFound
	}
	return s.archive.GetByWeek(ctx, domain.HealthWeek(date).Start)
}
