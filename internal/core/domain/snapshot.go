package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrSnapshotNotFound = errors.New("weekly snapshot not found")
)

// WeeklyReport is everything one summary generation computed.
type WeeklyReport struct {
	Date       time.Time       `json:"date"`
	HealthWeek Week            `json:"-"`
	TaskWeek   TaskWeekSummary `json:"task_week"`
	Habits     *HabitTable     `json:"habits"`
	Document   string          `json:"-"`
	Path       string          `json:"path"`
}

// WeeklySnapshot is the archived form of a generated summary, one per health week.
type WeeklySnapshot struct {
	ID              string     `json:"id"`
	HealthWeekStart time.Time  `json:"health_week_start"`
	TaskWeekStart   time.Time  `json:"task_week_start"`
	Stats           TaskStats  `json:"stats"`
	Habits          []HabitRow `json:"habits"`
	SkippedFiles    int        `json:"skipped_files"`
	GeneratedAt     time.Time  `json:"generated_at"`
}

func NewWeeklySnapshot(r *WeeklyReport) *WeeklySnapshot {
	return &WeeklySnapshot{
		ID:              uuid.NewString(),
		HealthWeekStart: r.HealthWeek.Start,
		TaskWeekStart:   r.TaskWeek.Week.Start,
		Stats:           r.TaskWeek.Stats,
		Habits:          r.Habits.Rows(),
		SkippedFiles:    r.TaskWeek.SkippedCount(),
		GeneratedAt:     time.Now().UTC(),
	}
}

type SummaryRepository interface {
	// Save stores a snapshot, replacing any earlier one for the same health week.
	Save(ctx context.Context, snapshot *WeeklySnapshot) error

	// GetByWeek returns the snapshot of the health week starting at weekStart.
	GetByWeek(ctx context.Context, weekStart time.Time) (*WeeklySnapshot, error)

	// ListRecent returns the newest snapshots first.
	ListRecent(ctx context.Context, limit int) ([]*WeeklySnapshot, error)
}
