package services

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/comitanigiacomo/kanso-planner/internal/core/domain"
	"github.com/comitanigiacomo/kanso-planner/internal/logger"
	"github.com/comitanigiacomo/kanso-planner/internal/metrics"
)

const (
	reasonNotFound = "not found"
	reasonRead     = "read error"
)

// AggregatorService reads a week of vault files into task and habit totals.
type AggregatorService struct {
	vault      domain.Vault
	layout     Layout
	categories CategorySource
	log        *logger.Logger
}

func NewAggregatorService(vault domain.Vault, layout Layout, categories CategorySource, log *logger.Logger) *AggregatorService {
	return &AggregatorService{
		vault:      vault,
		layout:     layout,
		categories: categories,
		log:        log.Named("aggregator"),
	}
}

// ReadDailyTasks walks the 7 days of date's task week. Missing or unreadable
// files are skipped and reported in the result, never returned as errors.
func (s *AggregatorService) ReadDailyTasks(ctx context.Context, date time.Time) domain.TaskWeekSummary {
	week := domain.TaskWeek(date)
	results := make([]domain.FileResult, 0, domain.DaysPerWeek)

	for _, day := range week.Days() {
		results = append(results, s.readDailyFile(ctx, s.layout.DailyTaskPath(day)))
	}

	return domain.FoldTaskWeek(week, results)
}

func (s *AggregatorService) readDailyFile(ctx context.Context, p string) domain.FileResult {
	kind, err := s.vault.Stat(ctx, p)
	if err != nil || kind != domain.EntryFile {
		s.log.Warn("task file not found", zap.String("path", p))
		metrics.FilesSkipped.WithLabelValues("tasks", reasonNotFound).Inc()
		return domain.FileSkipped(p, reasonNotFound)
	}

	content, err := s.vault.Read(ctx, p)
	if err != nil {
		s.log.Error("error reading task file", zap.String("path", p), zap.Error(err))
		metrics.FilesSkipped.WithLabelValues("tasks", reasonRead).Inc()
		return domain.FileSkipped(p, err.Error())
	}

	return domain.FileOk(p, content)
}

// ReadWeekHabits parses the tracker of date's health week. The table always
// covers every discovered category, zero filled when the file is absent.
func (s *AggregatorService) ReadWeekHabits(ctx context.Context, date time.Time) (*domain.HabitTable, error) {
	categories, err := s.categories.Categories(ctx, date)
	if err != nil {
		return nil, err
	}

	p := s.layout.TrackerPath(date)
	kind, err := s.vault.Stat(ctx, p)
	if err != nil || kind != domain.EntryFile {
		s.log.Warn("week file not found", zap.String("path", p))
		metrics.FilesSkipped.WithLabelValues("habits", reasonNotFound).Inc()
		return domain.NewHabitTable(categories), nil
	}

	content, err := s.vault.Read(ctx, p)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		s.log.Error("error reading week file", zap.String("path", p), zap.Error(err))
		metrics.FilesSkipped.WithLabelValues("habits", reasonRead).Inc()
		return domain.NewHabitTable(categories), nil
	}

	return domain.ParseHabitTable(content, categories), nil
}
