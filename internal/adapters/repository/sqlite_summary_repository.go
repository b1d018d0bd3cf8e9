package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/comitanigiacomo/kanso-planner/internal/core/domain"
)

var _ domain.SummaryRepository = (*SQLiteSummaryRepository)(nil)

// snapshotRecord is the gorm model of a weekly snapshot.
type snapshotRecord struct {
	ID              string    `gorm:"primaryKey;size:36"`
	HealthWeekStart time.Time `gorm:"uniqueIndex;not null"`
	TaskWeekStart   time.Time `gorm:"not null"`
	FinishedTasks   int       `gorm:"not null;default:0"`
	UnfinishedTasks int       `gorm:"not null;default:0"`
	Habits          string    `gorm:"type:text;not null"`
	SkippedFiles    int       `gorm:"not null;default:0"`
	GeneratedAt     time.Time `gorm:"index;not null"`
}

func (snapshotRecord) TableName() string {
	return "weekly_snapshots"
}

// SQLiteSummaryRepository keeps the archive in a local sqlite file next to the vault.
type SQLiteSummaryRepository struct {
	db *gorm.DB
}

// OpenSQLite opens (or creates) the archive file and migrates its schema.
// Use ":memory:" for a throwaway archive.
func OpenSQLite(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrArchiveUnavailable, err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&snapshotRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate sqlite archive: %w", err)
	}
	return db, nil
}

func NewSQLiteSummaryRepository(db *gorm.DB) *SQLiteSummaryRepository {
	return &SQLiteSummaryRepository{db: db}
}

func toRecord(s *domain.WeeklySnapshot) (*snapshotRecord, error) {
	habits, err := json.Marshal(s.Habits)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal habits: %w", err)
	}
	return &snapshotRecord{
		ID:              s.ID,
		HealthWeekStart: domain.CalendarDay(s.HealthWeekStart),
		TaskWeekStart:   domain.CalendarDay(s.TaskWeekStart),
		FinishedTasks:   s.Stats.TotalFinishedTasks,
		UnfinishedTasks: s.Stats.TotalUnfinishedTasks,
		Habits:          string(habits),
		SkippedFiles:    s.SkippedFiles,
		GeneratedAt:     s.GeneratedAt.UTC(),
	}, nil
}

func (r *snapshotRecord) toDomain() (*domain.WeeklySnapshot, error) {
	s := &domain.WeeklySnapshot{
		ID:              r.ID,
		HealthWeekStart: r.HealthWeekStart.UTC(),
		TaskWeekStart:   r.TaskWeekStart.UTC(),
		Stats:           domain.NewTaskStats(r.FinishedTasks, r.UnfinishedTasks),
		SkippedFiles:    r.SkippedFiles,
		GeneratedAt:     r.GeneratedAt.UTC(),
	}
	if err := json.Unmarshal([]byte(r.Habits), &s.Habits); err != nil {
		return nil, fmt.Errorf("failed to unmarshal habits: %w", err)
	}
	return s, nil
}

func (r *SQLiteSummaryRepository) Save(ctx context.Context, s *domain.WeeklySnapshot) error {
	rec, err := toRecord(s)
	if err != nil {
		return err
	}

	err = r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "health_week_start"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"task_week_start", "finished_tasks", "unfinished_tasks", "habits", "skipped_files", "generated_at",
		}),
	}).Create(rec).Error
	if err != nil {
		return fmt.Errorf("repository: save snapshot failed: %w", err)
	}
	return nil
}

func (r *SQLiteSummaryRepository) GetByWeek(ctx context.Context, weekStart time.Time) (*domain.WeeklySnapshot, error) {
	var rec snapshotRecord
	err := r.db.WithContext(ctx).Where("health_week_start = ?", domain.CalendarDay(weekStart)).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("repository: get snapshot failed: %w", err)
	}
	return rec.toDomain()
}

func (r *SQLiteSummaryRepository) ListRecent(ctx context.Context, limit int) ([]*domain.WeeklySnapshot, error) {
	var recs []snapshotRecord
	if err := r.db.WithContext(ctx).Order("health_week_start DESC").Limit(limit).Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("repository: list snapshots failed: %w", err)
	}

	out := make([]*domain.WeeklySnapshot, 0, len(recs))
	for i := range recs {
		s, err := recs[i].toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}
