package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/comitanigiacomo/kanso-planner/internal/core/domain"
)

var _ domain.SummaryRepository = (*InMemorySummaryRepository)(nil)

type InMemorySummaryRepository struct {
	store map[string]*domain.WeeklySnapshot

	mu sync.RWMutex
}

func NewInMemorySummaryRepository() *InMemorySummaryRepository {
	return &InMemorySummaryRepository{
		store: make(map[string]*domain.WeeklySnapshot),
	}
}

func weekKey(t time.Time) string {
	return domain.CalendarDay(t).Format("2006-01-02")
}

func (r *InMemorySummaryRepository) Save(ctx context.Context, s *domain.WeeklySnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	clone := *s
	r.store[weekKey(s.HealthWeekStart)] = &clone
	return nil
}

func (r *InMemorySummaryRepository) GetByWeek(ctx context.Context, weekStart time.Time) (*domain.WeeklySnapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.store[weekKey(weekStart)]
	if !ok {
		return nil, domain.ErrSnapshotNotFound
	}
	clone := *s
	return &clone, nil
}

func (r *InMemorySummaryRepository) ListRecent(ctx context.Context, limit int) ([]*domain.WeeklySnapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]*domain.WeeklySnapshot, 0, len(r.store))
	for _, s := range r.store {
		clone := *s
		list = append(list, &clone)
	}

	sort.Slice(list, func(i, j int) bool {
		return list[i].HealthWeekStart.After(list[j].HealthWeekStart)
	})

	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}
