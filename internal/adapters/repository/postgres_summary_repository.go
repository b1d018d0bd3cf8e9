package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/comitanigiacomo/kanso-planner/internal/core/domain"

	_ "github.com/jackc/pgx/v5/stdlib"
)

var (
	ErrArchiveUnavailable = errors.New("summary archive unavailable")
)

var _ domain.SummaryRepository = (*PostgresSummaryRepository)(nil)

const queryTimeout = 3 * time.Second

type PostgresSummaryRepository struct {
	db *sqlx.DB
}

func NewPostgresSummaryRepository(db *sqlx.DB) *PostgresSummaryRepository {
	return &PostgresSummaryRepository{db: db}
}

// ConnectPostgres opens a pgx backed sqlx handle and pings it.
func ConnectPostgres(ctx context.Context, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrArchiveUnavailable, err)
	}
	return db, nil
}

type snapshotRow struct {
	ID              string    `db:"id"`
	HealthWeekStart time.Time `db:"health_week_start"`
	TaskWeekStart   time.Time `db:"task_week_start"`
	TotalTasks      int       `db:"total_tasks"`
	FinishedTasks   int       `db:"finished_tasks"`
	UnfinishedTasks int       `db:"unfinished_tasks"`
	Habits          []byte    `db:"habits"`
	SkippedFiles    int       `db:"skipped_files"`
	GeneratedAt     time.Time `db:"generated_at"`
}

func (r snapshotRow) toDomain() (*domain.WeeklySnapshot, error) {
	s := &domain.WeeklySnapshot{
		ID:              r.ID,
		HealthWeekStart: r.HealthWeekStart,
		TaskWeekStart:   r.TaskWeekStart,
		Stats:           domain.NewTaskStats(r.FinishedTasks, r.UnfinishedTasks),
		SkippedFiles:    r.SkippedFiles,
		GeneratedAt:     r.GeneratedAt,
	}
	if len(r.Habits) > 0 {
		if err := json.Unmarshal(r.Habits, &s.Habits); err != nil {
			return nil, fmt.Errorf("failed to unmarshal habits: %w", err)
		}
	}
	return s, nil
}

const snapshotColumns = `id, health_week_start, task_week_start, total_tasks, finished_tasks,
	unfinished_tasks, habits, skipped_files, generated_at`

func (r *PostgresSummaryRepository) Save(ctx context.Context, s *domain.WeeklySnapshot) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	habits, err := json.Marshal(s.Habits)
	if err != nil {
		return fmt.Errorf("failed to marshal habits: %w", err)
	}

	query := `
		INSERT INTO weekly_snapshots (` + snapshotColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (health_week_start) DO UPDATE SET
			task_week_start  = EXCLUDED.task_week_start,
			total_tasks      = EXCLUDED.total_tasks,
			finished_tasks   = EXCLUDED.finished_tasks,
			unfinished_tasks = EXCLUDED.unfinished_tasks,
			habits           = EXCLUDED.habits,
			skipped_files    = EXCLUDED.skipped_files,
			generated_at     = EXCLUDED.generated_at`

	_, err = r.db.ExecContext(ctx, query,
		s.ID, domain.CalendarDay(s.HealthWeekStart), domain.CalendarDay(s.TaskWeekStart),
		s.Stats.TotalTasks, s.Stats.TotalFinishedTasks, s.Stats.TotalUnfinishedTasks,
		habits, s.SkippedFiles, s.GeneratedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "42P01" {
			return fmt.Errorf("%w: weekly_snapshots table missing, run migrations", ErrArchiveUnavailable)
		}
		return fmt.Errorf("repository: save snapshot failed: %w", err)
	}
	return nil
}

func (r *PostgresSummaryRepository) GetByWeek(ctx context.Context, weekStart time.Time) (*domain.WeeklySnapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `SELECT ` + snapshotColumns + ` FROM weekly_snapshots WHERE health_week_start = $1`

	var row snapshotRow
	if err := r.db.GetContext(ctx, &row, query, domain.CalendarDay(weekStart)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("repository: get snapshot failed: %w", err)
	}
	return row.toDomain()
}

func (r *PostgresSummaryRepository) ListRecent(ctx context.Context, limit int) ([]*domain.WeeklySnapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `SELECT ` + snapshotColumns + ` FROM weekly_snapshots ORDER BY health_week_start DESC LIMIT $1`

	var rows []snapshotRow
	if err := r.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("repository: list snapshots failed: %w", err)
	}

	out := make([]*domain.WeeklySnapshot, 0, len(rows))
	for _, row := range rows {
		s, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}
