package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/comitanigiacomo/kanso-planner/internal/core/domain"
	"github.com/comitanigiacomo/kanso-planner/internal/logger"
)

const (
	migrationRule     = "-----------------"
	migrationLookback = 7
	placeholderDoc    = "# Summary\n\nInitial summary content."
)

// Clock returns the current time in the vault's timezone.
type Clock func() time.Time

type MigrationResult struct {
	Source      string   `json:"source,omitempty"`
	Tasks       []string `json:"tasks"`
	AlreadyDone bool     `json:"already_done"`
}

type BootstrapResult struct {
	DailyFile   string           `json:"daily_file"`
	TrackerFile string           `json:"tracker_file"`
	SummaryFile string           `json:"summary_file"`
	Migration   *MigrationResult `json:"migration,omitempty"`
	Created     []string         `json:"created"`
	Notices     []string         `json:"notices"`
}

// PlannerService keeps the daily and weekly planner files in shape.
type PlannerService struct {
	vault      domain.Vault
	layout     Layout
	categories CategorySource
	aggregator *AggregatorService
	summary    *SummaryService
	chart      domain.ChartConfig
	notifier   domain.Notifier
	clock      Clock
	log        *logger.Logger
}

func NewPlannerService(
	vault domain.Vault,
	layout Layout,
	categories CategorySource,
	aggregator *AggregatorService,
	summary *SummaryService,
	chart domain.ChartConfig,
	notifier domain.Notifier,
	clock Clock,
	log *logger.Logger,
) *PlannerService {
	return &PlannerService{
		vault:      vault,
		layout:     layout,
		categories: categories,
		aggregator: aggregator,
		summary:    summary,
		chart:      chart,
		notifier:   notifier,
		clock:      clock,
		log:        log.Named("planner"),
	}
}

func (s *PlannerService) today() time.Time {
	return domain.Midnight(s.clock())
}

// MigrationMarker is the line appended once tasks were carried into day.
func MigrationMarker(day time.Time) string {
	return "Migrated: " + domain.DayLabel(day) + "\n"
}

func dailyHeading(day time.Time) string {
	return fmt.Sprintf("# 📅 %d %s\n\n", day.Day(), day.Month().String())
}

// createIfAbsent reports created=false when the file was already there.
func (s *PlannerService) createIfAbsent(ctx context.Context, p, content string) (bool, error) {
	if err := domain.EnsureFolders(ctx, s.vault, p); err != nil {
		return false, fmt.Errorf("ensure folders for %s: %w", p, err)
	}
	err := s.vault.CreateFile(ctx, p, content)
	if errors.Is(err, domain.ErrFileExists) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("create %s: %w", p, err)
	}
	return true, nil
}

// CreateDailyFile makes sure today's task file exists.
func (s *PlannerService) CreateDailyFile(ctx context.Context) (string, bool, error) {
	day := s.today()
	p := s.layout.DailyTaskPath(day)

	created, err := s.createIfAbsent(ctx, p, dailyHeading(day))
	if err != nil {
		return "", false, err
	}
	if created {
		s.log.Info("daily file created", zap.String("path", p))
	}
	return p, created, nil
}

// TodayTasks lists the open tasks of today's file, checkbox stripped.
func (s *PlannerService) TodayTasks(ctx context.Context) ([]string, error) {
	p := s.layout.DailyTaskPath(s.today())
	content, err := s.vault.Read(ctx, p)
	if errors.Is(err, domain.ErrFileNotFound) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}

	_, unfinished := domain.CountTasks(content)
	tasks := make([]string, 0, len(unfinished))
	for _, line := range unfinished {
		tasks = append(tasks, domain.TaskText(line))
	}
	return tasks, nil
}

// AddTask appends an open task to today's file, creating the file first.
func (s *PlannerService) AddTask(ctx context.Context, text string) (string, error) {
	p, _, err := s.CreateDailyFile(ctx)
	if err != nil {
		return "", err
	}

	line := domain.TaskLine(text)
	if err := s.vault.Append(ctx, p, line+"\n"); err != nil {
		s.notifier.Notify(ctx, "Failed to add task.")
		return "", fmt.Errorf("append task: %w", err)
	}

	s.log.Info("task added", zap.String("path", p), zap.String("task", line))
	s.notifier.Notify(ctx, "New task added!")
	return line, nil
}

// MigrateUnfinished copies the open tasks of the most recent earlier daily
// file into today's file, at most once per day.
func (s *PlannerService) MigrateUnfinished(ctx context.Context) (*MigrationResult, error) {
	day := s.today()
	p, _, err := s.CreateDailyFile(ctx)
	if err != nil {
		return nil, err
	}

	content, err := s.vault.Read(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("read today's file: %w", err)
	}
	marker := MigrationMarker(day)
	if strings.Contains(content, marker) {
		return &MigrationResult{Tasks: []string{}, AlreadyDone: true}, nil
	}

	result := &MigrationResult{Tasks: []string{}}
	source, previous, err := s.previousDailyFile(ctx, day)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	if source != "" {
		result.Source = source
		_, unfinished := domain.CountTasks(previous)
		for _, line := range unfinished {
			if strings.Contains(content, line) {
				continue
			}
			b.WriteString(line + "\n")
			result.Tasks = append(result.Tasks, domain.TaskText(line))
		}
	}
	b.WriteString(migrationRule + "\n" + marker)

	if err := s.vault.Append(ctx, p, b.String()); err != nil {
		s.notifier.Notify(ctx, "Error migrating tasks: "+err.Error())
		return nil, fmt.Errorf("append migrated tasks: %w", err)
	}

	s.log.Info("unfinished tasks migrated",
		zap.String("path", p),
		zap.String("source", source),
		zap.Int("count", len(result.Tasks)),
	)
	s.notifier.Notify(ctx, "Transferred unfinished tasks for today!")
	return result, nil
}

func (s *PlannerService) previousDailyFile(ctx context.Context, day time.Time) (string, string, error) {
	for back := 1; back <= migrationLookback; back++ {
		p := s.layout.DailyTaskPath(day.AddDate(0, 0, -back))
		kind, err := s.vault.Stat(ctx, p)
		if err != nil || kind != domain.EntryFile {
			continue
		}
		content, err := s.vault.Read(ctx, p)
		if err != nil {
			return "", "", fmt.Errorf("read %s: %w", p, err)
		}
		return p, content, nil
	}
	return "", "", nil
}

func (s *PlannerService) trackerDocument(week domain.Week, categories *domain.CategorySet) string {
	return fmt.Sprintf("# ❤️ Health Tracker (📅 %s)\n\n", week.RangeLabel()) +
		domain.RenderTrackerTable(categories, s.chart.Weekdays)
}

// CreateWeeklyTracker writes the current health week's tracker with one
// unchecked row per category carried over from last week.
func (s *PlannerService) CreateWeeklyTracker(ctx context.Context) (string, bool, error) {
	day := s.today()
	p := s.layout.TrackerPath(day)

	categories, err := s.categories.Categories(ctx, day)
	if err != nil {
		return "", false, err
	}

	created, err := s.createIfAbsent(ctx, p, s.trackerDocument(domain.HealthWeek(day), categories))
	if err != nil {
		return "", false, err
	}
	if created {
		s.log.Info("weekly tracker created", zap.String("path", p), zap.Strings("categories", categories.Names()))
	}
	return p, created, nil
}

// TrackerSummary lists "<category>: <days done>" for the current week.
func (s *PlannerService) TrackerSummary(ctx context.Context) ([]string, error) {
	habits, err := s.aggregator.ReadWeekHabits(ctx, s.today())
	if err != nil {
		return nil, err
	}

	lines := make([]string, 0, habits.Categories().Len())
	for _, c := range habits.Categories().Items() {
		lines = append(lines, fmt.Sprintf("%s: %d", c, habits.Total(c)))
	}
	return lines, nil
}

// Bootstrap runs the whole morning routine: folders, daily file, migration,
// weekly tracker, summary and the placeholder summary file.
func (s *PlannerService) Bootstrap(ctx context.Context) (*BootstrapResult, error) {
	res := &BootstrapResult{Created: []string{}, Notices: []string{}}
	notify := func(msg string) {
		res.Notices = append(res.Notices, msg)
		s.notifier.Notify(ctx, msg)
	}

	for _, folder := range []string{s.layout.PlannerDir, s.layout.TasksRoot(), s.layout.HealthRoot()} {
		kind, err := s.vault.Stat(ctx, folder)
		if err == nil && kind == domain.EntryFolder {
			continue
		}
		if err := domain.EnsureFolder(ctx, s.vault, folder); err != nil {
			return nil, fmt.Errorf("create folder %s: %w", folder, err)
		}
		res.Created = append(res.Created, folder)
		notify(fmt.Sprintf("Directory %q created!", folder))
	}

	daily, created, err := s.CreateDailyFile(ctx)
	if err != nil {
		return nil, err
	}
	res.DailyFile = daily
	if created {
		res.Created = append(res.Created, daily)
	}

	migration, err := s.MigrateUnfinished(ctx)
	if err != nil {
		notify("Error migrating tasks: " + err.Error())
	} else {
		res.Migration = migration
	}

	tracker, created, err := s.CreateWeeklyTracker(ctx)
	if err != nil {
		return nil, err
	}
	res.TrackerFile = tracker
	if created {
		res.Created = append(res.Created, tracker)
	}
	if summary, err := s.TrackerSummary(ctx); err == nil && len(summary) > 0 {
		notify("Health Tracker: " + strings.Join(summary, ", "))
	}

	// A failed generation was already logged and notified.
	_, _ = s.summary.GenerateWeeklySummary(ctx, s.today())

	res.SummaryFile = s.layout.SummaryPath()
	created, err = s.createIfAbsent(ctx, res.SummaryFile, placeholderDoc)
	if err != nil {
		return nil, err
	}
	if created {
		res.Created = append(res.Created, res.SummaryFile)
		notify("Summary.md created!")
	}

	return res, nil
}
