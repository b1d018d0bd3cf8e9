package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/comitanigiacomo/kanso-planner/internal/core/domain"
	"github.com/comitanigiacomo/kanso-planner/internal/logger"
)

// CategorySource yields the habit categories tracked for the week of date.
type CategorySource interface {
	Categories(ctx context.Context, date time.Time) (*domain.CategorySet, error)
}

// CategoryService rediscovers categories from the previous week's tracker.
type CategoryService struct {
	vault    domain.Vault
	layout   Layout
	defaults []string
	log      *logger.Logger
}

func NewCategoryService(vault domain.Vault, layout Layout, chart domain.ChartConfig, log *logger.Logger) *CategoryService {
	return &CategoryService{
		vault:    vault,
		layout:   layout,
		defaults: chart.DefaultCategories,
		log:      log.Named("categories"),
	}
}

// Categories never fails: every problem falls back to the default list.
func (s *CategoryService) Categories(ctx context.Context, date time.Time) (*domain.CategorySet, error) {
	p := s.layout.PreviousTrackerPath(date)

	kind, err := s.vault.Stat(ctx, p)
	if err != nil || kind != domain.EntryFile {
		s.log.Warn("previous week tracker not found, using default categories", zap.String("path", p))
		return s.fallback(), nil
	}

	content, err := s.vault.Read(ctx, p)
	if err != nil {
		s.log.Error("failed to read previous week tracker", zap.String("path", p), zap.Error(err))
		return s.fallback(), nil
	}

	set, ok := domain.DiscoverCategories(content)
	if !ok {
		s.log.Warn("previous week tracker has no category rows", zap.String("path", p))
		return s.fallback(), nil
	}
	return set, nil
}

func (s *CategoryService) fallback() *domain.CategorySet {
	return domain.CategorySetFrom(s.defaults)
}
