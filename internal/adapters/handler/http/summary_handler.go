package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-planner/internal/core/domain"
	"github.com/comitanigiacomo/kanso-planner/internal/core/services"
)

// SummaryQueue accepts background regeneration requests.
type SummaryQueue interface {
	Enqueue(date time.Time, reason string) bool
}

type SummaryHandler struct {
	svc   *services.SummaryService
	queue SummaryQueue
	now   func() time.Time
}

// NewSummaryHandler builds the summary routes. queue may be nil, in which case
// ?async=true is ignored.
func NewSummaryHandler(svc *services.SummaryService, queue SummaryQueue, now func() time.Time) *SummaryHandler {
	return &SummaryHandler{svc: svc, queue: queue, now: now}
}

type summaryResponse struct {
	Path         string            `json:"path"`
	HealthWeek   string            `json:"health_week"`
	TaskWeek     string            `json:"task_week"`
	Stats        domain.TaskStats  `json:"stats"`
	Percent      int               `json:"percent"`
	Habits       []domain.HabitRow `json:"habits"`
	SkippedFiles int               `json:"skipped_files"`
}

type weeklyStatsResponse struct {
	Week       string              `json:"week"`
	Stats      domain.TaskStats    `json:"stats"`
	Percent    int                 `json:"percent"`
	Unfinished []string            `json:"unfinished"`
	Files      []domain.FileResult `json:"files"`
}

func (h *SummaryHandler) RegisterRoutes(router *gin.RouterGroup) {
	summary := router.Group("/summary")
	{
		summary.POST("", h.Generate)
		summary.GET("/weekly", h.Weekly)
		summary.GET("/chart", h.Chart)
		summary.GET("/history", h.History)
		summary.GET("/snapshot", h.Snapshot)
	}
}

// Generate godoc
// @Summary      Regenerate Summary.md for the week containing date
// @Tags         summary
// @Produce      json
// @Security     BearerAuth
// @Param        date   query     string  false  "YYYY-MM-DD, defaults to today"
// @Param        async  query     bool    false  "queue the job instead of waiting"
// @Success      200    {object}  summaryResponse
// @Success      202    {object}  map[string]string
// @Failure      400,500  {object}  map[string]string
// @Router       /summary [post]
func (h *SummaryHandler) Generate(c *gin.Context) {
	date, ok := dateParam(c, h.now)
	if !ok {
		return
	}

	if c.Query("async") == "true" && h.queue != nil {
		if !h.queue.Enqueue(date, "api") {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "summary queue is full"})
			return
		}
		c.JSON(http.StatusAccepted, gin.H{"status": "queued", "date": date.Format(dateLayout)})
		return
	}

	report, err := h.svc.GenerateWeeklySummary(c.Request.Context(), date)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, summaryResponse{
		Path:         report.Path,
		HealthWeek:   report.HealthWeek.RangeLabel(),
		TaskWeek:     report.TaskWeek.Week.RangeLabel(),
		Stats:        report.TaskWeek.Stats,
		Percent:      report.TaskWeek.Stats.CompletionPercent(),
		Habits:       report.Habits.Rows(),
		SkippedFiles: report.TaskWeek.SkippedCount(),
	})
}

// Weekly godoc
// @Summary      Task statistics of the task week containing date
// @Tags         summary
// @Produce      json
// @Security     BearerAuth
// @Param        date  query     string  false  "YYYY-MM-DD"
// @Success      200   {object}  weeklyStatsResponse
// @Router       /summary/weekly [get]
func (h *SummaryHandler) Weekly(c *gin.Context) {
	date, ok := dateParam(c, h.now)
	if !ok {
		return
	}

	week := h.svc.WeeklyStats(c.Request.Context(), date)
	unfinished := week.Unfinished
	if unfinished == nil {
		unfinished = []string{}
	}

	c.JSON(http.StatusOK, weeklyStatsResponse{
		Week:       week.Week.RangeLabel(),
		Stats:      week.Stats,
		Percent:    week.Stats.CompletionPercent(),
		Unfinished: unfinished,
		Files:      week.Files,
	})
}

func (h *SummaryHandler) Chart(c *gin.Context) {
	spec, err := h.svc.Chart(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, spec)
}

func (h *SummaryHandler) History(c *gin.Context) {
	limit := 12
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a number"})
			return
		}
		limit = n
	}

	snapshots, err := h.svc.History(c.Request.Context(), limit)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshots)
}

func (h *SummaryHandler) Snapshot(c *gin.Context) {
	date, ok := dateParam(c, h.now)
	if !ok {
		return
	}

	snapshot, err := h.svc.Snapshot(c.Request.Context(), date)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}
