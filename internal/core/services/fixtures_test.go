package services_test

import (
	"context"
	"errors"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/comitanigiacomo/kanso-planner/internal/adapters/vault"
	"github.com/comitanigiacomo/kanso-planner/internal/core/domain"
	"github.com/comitanigiacomo/kanso-planner/internal/core/services"
	"github.com/comitanigiacomo/kanso-planner/internal/logger"
)

// wednesday falls in the health week 12-18 October and the task week 5-11 October.
var wednesday = time.Date(2026, 10, 14, 10, 30, 0, 0, time.UTC)

var errDisk = errors.New("disk on fire")

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, message string) {
	m.Called(ctx, message)
}

type MockSummaryRepository struct {
	mock.Mock
}

func (m *MockSummaryRepository) Save(ctx context.Context, snapshot *domain.WeeklySnapshot) error {
	return m.Called(ctx, snapshot).Error(0)
}

func (m *MockSummaryRepository) GetByWeek(ctx context.Context, weekStart time.Time) (*domain.WeeklySnapshot, error) {
	args := m.Called(ctx, weekStart)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WeeklySnapshot), args.Error(1)
}

func (m *MockSummaryRepository) ListRecent(ctx context.Context, limit int) ([]*domain.WeeklySnapshot, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.WeeklySnapshot), args.Error(1)
}

// brokenVault fails every Read of the listed paths and every Write.
type brokenVault struct {
	domain.Vault
	unreadable map[string]bool
	failWrites bool
}

func (b *brokenVault) Read(ctx context.Context, p string) (string, error) {
	if b.unreadable[p] {
		return "", errDisk
	}
	return b.Vault.Read(ctx, p)
}

func (b *brokenVault) Write(ctx context.Context, p, content string) error {
	if b.failWrites {
		return errDisk
	}
	return b.Vault.Write(ctx, p, content)
}

type harness struct {
	vault      *vault.MemoryVault
	layout     services.Layout
	chart      domain.ChartConfig
	categories *services.CategoryService
	aggregator *services.AggregatorService
	renderer   *services.Renderer
	summary    *services.SummaryService
	planner    *services.PlannerService
	notifier   *MockNotifier
}

func newHarness(archive domain.SummaryRepository) *harness {
	return newHarnessWith(vault.NewMemoryVault(), nil, archive)
}

// newHarnessWith lets a test wrap the memory vault. wrap may be nil.
func newHarnessWith(mem *vault.MemoryVault, wrap func(domain.Vault) domain.Vault, archive domain.SummaryRepository) *harness {
	var v domain.Vault = mem
	if wrap != nil {
		v = wrap(mem)
	}

	h := &harness{
		vault:    mem,
		layout:   services.DefaultLayout(),
		chart:    domain.DefaultChartConfig(),
		notifier: new(MockNotifier),
	}
	log := logger.Nop()

	h.categories = services.NewCategoryService(v, h.layout, h.chart, log)
	h.aggregator = services.NewAggregatorService(v, h.layout, h.categories, log)
	h.renderer = services.NewRenderer(h.chart)
	h.summary = services.NewSummaryService(v, h.layout, h.aggregator, h.renderer, archive, h.notifier, log)
	h.planner = services.NewPlannerService(v, h.layout, h.categories, h.aggregator, h.summary, h.chart, h.notifier,
		func() time.Time { return wednesday }, log)
	return h
}

func trackerContent(rows ...string) string {
	content := "# tracker\n\n" +
		"| Weekdays | Monday | Tuesday | Wednesday | Thursday | Friday | Saturday | Sunday |\n" +
		"| --- | --- | --- | --- | --- | --- | --- | --- |\n" +
		"| 🏋️ Daily Habits Track |  |  |  |  |  |  |  |\n"
	for _, r := range rows {
		content += r + "\n"
	}
	return content
}
