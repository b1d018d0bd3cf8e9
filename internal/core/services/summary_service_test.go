package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/kanso-planner/internal/core/domain"
	"github.com/comitanigiacomo/kanso-planner/internal/core/services"
)

const summaryPath = "Daily Planner/Summary.md"

func TestSummaryService_GenerateWeeklySummary(t *testing.T) {
	ctx := context.Background()

	t.Run("Success: Writes the document and archives a snapshot", func(t *testing.T) {
		archive := new(MockSummaryRepository)
		h := newHarness(archive)
		h.vault.Seed(day5, "- [ ] a\n- [x] b\n- [ ] c")
		h.vault.Seed(currentTracker, trackerContent("| Legs | ☑️ | x | unchecked | y | z | w | v |"))

		archive.On("Save", ctx, mock.MatchedBy(func(s *domain.WeeklySnapshot) bool {
			return s.HealthWeekStart.Equal(time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC)) &&
				s.TaskWeekStart.Equal(time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC)) &&
				s.Stats == domain.NewTaskStats(1, 2) &&
				s.SkippedFiles == 6
		})).Return(nil)

		report, err := h.summary.GenerateWeeklySummary(ctx, wednesday)
		require.NoError(t, err)

		written, err := h.vault.Read(ctx, summaryPath)
		require.NoError(t, err)
		assert.Equal(t, report.Document, written)
		assert.Contains(t, written, "### 🏋️ Health Tracker Summary (📅 12 - 18 October)")
		assert.Contains(t, written, "    data: [0, 1, 0, 1, 1, 1, 1]")
		assert.Contains(t, written, "███░░░░░░░ **33%**")
		assert.Contains(t, written, "📊 **Average per day:**  0.1 tasks")

		archive.AssertExpectations(t)
		h.notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything)
	})

	t.Run("Success: Overwrites the previous summary entirely", func(t *testing.T) {
		h := newHarness(nil)
		h.vault.Seed(summaryPath, "# Summary\n\nInitial summary content.")

		_, err := h.summary.GenerateWeeklySummary(ctx, wednesday)
		require.NoError(t, err)

		written, _ := h.vault.Read(ctx, summaryPath)
		assert.NotContains(t, written, "Initial summary content.")
		assert.Contains(t, written, "📋 **Total Tasks:**  0")
	})

	t.Run("Success: Archive failure is not fatal", func(t *testing.T) {
		archive := new(MockSummaryRepository)
		h := newHarness(archive)
		archive.On("Save", ctx, mock.Anything).Return(errors.New("db down"))

		report, err := h.summary.GenerateWeeklySummary(ctx, wednesday)

		assert.NoError(t, err)
		assert.NotNil(t, report)
		archive.AssertExpectations(t)
	})

	t.Run("Fail: Write error is logged, notified and returned", func(t *testing.T) {
		h := newHarnessWith(newHarness(nil).vault, func(v domain.Vault) domain.Vault {
			return &brokenVault{Vault: v, failWrites: true}
		}, nil)
		h.notifier.On("Notify", ctx, mock.MatchedBy(func(msg string) bool {
			return msg == "Error generating summary: write summary: "+errDisk.Error()
		})).Once()

		report, err := h.summary.GenerateWeeklySummary(ctx, wednesday)

		assert.ErrorIs(t, err, errDisk)
		assert.Nil(t, report)
		h.notifier.AssertExpectations(t)
	})
}

func TestSummaryService_Queries(t *testing.T) {
	ctx := context.Background()

	t.Run("WeeklyStats runs only the task pass", func(t *testing.T) {
		h := newHarness(nil)
		h.vault.Seed(day7, "- [x] done")

		summary := h.summary.WeeklyStats(ctx, wednesday)

		assert.Equal(t, domain.NewTaskStats(1, 0), summary.Stats)
		assert.NotContains(t, h.vault.Files(), summaryPath)
	})

	t.Run("Chart decodes the written summary", func(t *testing.T) {
		h := newHarness(nil)
		_, err := h.summary.GenerateWeeklySummary(ctx, wednesday)
		require.NoError(t, err)

		spec, err := h.summary.Chart(ctx)

		require.NoError(t, err)
		assert.Len(t, spec.Datasets, len(domain.DefaultCategories))
	})

	t.Run("Chart on a placeholder summary has no block", func(t *testing.T) {
		h := newHarness(nil)
		h.vault.Seed(summaryPath, "# Summary\n\nInitial summary content.")

		_, err := h.summary.Chart(ctx)

		assert.ErrorIs(t, err, domain.ErrChartBlockAbsent)
	})

	t.Run("History validates the limit", func(t *testing.T) {
		h := newHarness(new(MockSummaryRepository))

		_, err := h.summary.History(ctx, 0)
		assert.ErrorIs(t, err, services.ErrInvalidLimit)

		_, err = h.summary.History(ctx, 53)
		assert.ErrorIs(t, err, services.ErrInvalidLimit)
	})

	t.Run("History reads the archive", func(t *testing.T) {
		archive := new(MockSummaryRepository)
		h := newHarness(archive)
		want := []*domain.WeeklySnapshot{{ID: "a"}, {ID: "b"}}
		archive.On("ListRecent", ctx, 2).Return(want, nil)

		got, err := h.summary.History(ctx, 2)

		require.NoError(t, err)
		assert.Equal(t, want, got)
		archive.AssertExpectations(t)
	})

	t.Run("Without an archive there is no history", func(t *testing.T) {
		h := newHarness(nil)

		got, err := h.summary.History(ctx, 5)
		require.NoError(t, err)
		assert.Empty(t, got)

		_, err = h.summary.Snapshot(ctx, wednesday)
		assert.ErrorIs(t, err, domain.ErrSnapshotNotFound)
	})

	t.Run("Snapshot looks up the health week start", func(t *testing.T) {
		archive := new(MockSummaryRepository)
		h := newHarness(archive)
		start := time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC)
		archive.On("GetByWeek", ctx, start).Return(&domain.WeeklySnapshot{ID: "x"}, nil)

		got, err := h.summary.Snapshot(ctx, wednesday)

		require.NoError(t, err)
		assert.Equal(t, "x", got.ID)
	})
}
