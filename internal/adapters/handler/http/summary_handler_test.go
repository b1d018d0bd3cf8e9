package http

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/kanso-planner/internal/adapters/repository"
	"github.com/comitanigiacomo/kanso-planner/internal/core/domain"
)

func TestSummaryHandler_Generate(t *testing.T) {
	t.Run("Success: Writes the summary for the requested date", func(t *testing.T) {
		s := newTestServer(t)
		s.vault.Seed("Daily Planner/✅Tasks/2026 Year/📅 October/📅 6 October.md", "- [x] a\n- [ ] b\n- [x] c\n")

		w := s.do(http.MethodPost, "/api/v1/summary?date=2026-10-14", nil)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		resp := decode[summaryResponse](t, w)
		assert.Equal(t, summaryFile, resp.Path)
		assert.Equal(t, "12 - 18 October", resp.HealthWeek)
		assert.Equal(t, "5 - 11 October", resp.TaskWeek)
		assert.Equal(t, domain.NewTaskStats(2, 1), resp.Stats)
		assert.Equal(t, 67, resp.Percent)
		assert.Equal(t, 6, resp.SkippedFiles)
		assert.Len(t, resp.Habits, len(domain.DefaultCategories))

		assert.Contains(t, s.vault.Files(), summaryFile)
	})

	t.Run("Success: Async request is queued", func(t *testing.T) {
		s := newTestServer(t)

		w := s.do(http.MethodPost, "/api/v1/summary?async=true", nil)

		assert.Equal(t, http.StatusAccepted, w.Code)
		require.Len(t, s.queue.jobs, 1)
		assert.Equal(t, wednesday, s.queue.jobs[0])
		assert.NotContains(t, s.vault.Files(), summaryFile)
	})

	t.Run("Fail: Full queue is 503", func(t *testing.T) {
		s := newTestServer(t)
		s.queue.accept = false

		w := s.do(http.MethodPost, "/api/v1/summary?async=true", nil)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})

	t.Run("Fail: Bad date", func(t *testing.T) {
		s := newTestServer(t)

		w := s.do(http.MethodPost, "/api/v1/summary?date=14/10/2026", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "YYYY-MM-DD")
	})
}

func TestSummaryHandler_Queries(t *testing.T) {
	t.Run("Weekly returns stats and per file outcomes", func(t *testing.T) {
		s := newTestServer(t)
		s.vault.Seed("Daily Planner/✅Tasks/2026 Year/📅 October/📅 7 October.md", "- [ ] open\n")

		w := s.do(http.MethodGet, "/api/v1/summary/weekly", nil)

		require.Equal(t, http.StatusOK, w.Code)
		resp := decode[weeklyStatsResponse](t, w)
		assert.Equal(t, "5 - 11 October", resp.Week)
		assert.Equal(t, domain.NewTaskStats(0, 1), resp.Stats)
		assert.Equal(t, []string{"- [ ] open"}, resp.Unfinished)
		assert.Len(t, resp.Files, 7)
	})

	t.Run("Chart is 404 before any summary exists", func(t *testing.T) {
		s := newTestServer(t)

		w := s.do(http.MethodGet, "/api/v1/summary/chart", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Chart decodes the generated block", func(t *testing.T) {
		s := newTestServer(t)
		require.Equal(t, http.StatusOK, s.do(http.MethodPost, "/api/v1/summary", nil).Code)

		w := s.do(http.MethodGet, "/api/v1/summary/chart", nil)

		require.Equal(t, http.StatusOK, w.Code)
		spec := decode[domain.ChartSpec](t, w)
		assert.Equal(t, "Monday", spec.Labels[0])
		assert.Len(t, spec.Datasets, len(domain.DefaultCategories))
	})

	t.Run("History and snapshot read the archive", func(t *testing.T) {
		s := newTestServer(t)
		require.Equal(t, http.StatusOK, s.do(http.MethodPost, "/api/v1/summary", nil).Code)

		w := s.do(http.MethodGet, "/api/v1/summary/history?limit=5", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, decode[[]domain.WeeklySnapshot](t, w), 1)

		w = s.do(http.MethodGet, "/api/v1/summary/snapshot?date=2026-10-16", nil)
		require.Equal(t, http.StatusOK, w.Code)

		w = s.do(http.MethodGet, "/api/v1/summary/snapshot?date=2026-01-01", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Snapshot date is read in the vault zone", func(t *testing.T) {
		db, err := repository.OpenSQLite(":memory:")
		require.NoError(t, err)
		newYork := time.FixedZone("EDT", -4*60*60)
		s := newTestServerWith(t, time.Date(2026, 10, 14, 21, 0, 0, 0, newYork), repository.NewSQLiteSummaryRepository(db))

		require.Equal(t, http.StatusOK, s.do(http.MethodPost, "/api/v1/summary", nil).Code)

		w := s.do(http.MethodGet, "/api/v1/summary/snapshot?date=2026-10-14", nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		got := decode[domain.WeeklySnapshot](t, w)
		assert.Equal(t, "2026-10-12", got.HealthWeekStart.Format("2006-01-02"))
		assert.Equal(t, "2026-10-05", got.TaskWeekStart.Format("2006-01-02"))
	})

	t.Run("History limit is validated", func(t *testing.T) {
		s := newTestServer(t)

		assert.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/api/v1/summary/history?limit=0", nil).Code)
		assert.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/api/v1/summary/history?limit=abc", nil).Code)
	})
}

func TestCategoryHandler_List(t *testing.T) {
	s := newTestServer(t)
	s.vault.Seed("Daily Planner/❤️Health Tracker/📅 October/5 - 11.md",
		"| Weekdays | Monday | Tuesday | Wednesday | Thursday | Friday | Saturday | Sunday |\n"+
			"| --- | --- | --- | --- | --- | --- | --- | --- |\n"+
			"| 🏋️ Daily Habits Track |  |  |  |  |  |  |  |\n"+
			"| Legs | x | x | x | x | x | x | x |\n"+
			"| Climbing | x | x | x | x | x | x | x |\n")

	w := s.do(http.MethodGet, "/api/v1/categories", nil)

	require.Equal(t, http.StatusOK, w.Code)
	type listResponse struct {
		Week       string             `json:"week"`
		Categories []categoryResponse `json:"categories"`
	}
	resp := decode[listResponse](t, w)

	assert.Equal(t, "12 - 18 October", resp.Week)
	require.Len(t, resp.Categories, 2)
	assert.Equal(t, categoryResponse{Name: "Legs", Color: "#4169E1"}, resp.Categories[0])
	assert.Equal(t, "Climbing", resp.Categories[1].Name)
}

func TestRouter_Health(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}
