package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-planner/internal/core/services"
)

type PlannerHandler struct {
	svc *services.PlannerService
}

func NewPlannerHandler(svc *services.PlannerService) *PlannerHandler {
	return &PlannerHandler{svc: svc}
}

type addTaskRequest struct {
	Text string `json:"text" binding:"max=500"`
}

type fileResponse struct {
	Path    string `json:"path"`
	Created bool   `json:"created"`
}

func (h *PlannerHandler) RegisterRoutes(router *gin.RouterGroup) {
	planner := router.Group("/planner")
	{
		planner.POST("/bootstrap", h.Bootstrap)
		planner.POST("/daily", h.CreateDaily)
		planner.GET("/today", h.Today)
		planner.POST("/tasks", h.AddTask)
		planner.POST("/migrate", h.Migrate)
		planner.POST("/tracker", h.CreateTracker)
		planner.GET("/tracker", h.TrackerSummary)
	}
}

// Bootstrap godoc
// @Summary      Create folders, daily file and tracker, migrate tasks, refresh the summary
// @Tags         planner
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  services.BootstrapResult
// @Router       /planner/bootstrap [post]
func (h *PlannerHandler) Bootstrap(c *gin.Context) {
	res, err := h.svc.Bootstrap(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *PlannerHandler) CreateDaily(c *gin.Context) {
	p, created, err := h.svc.CreateDailyFile(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, fileResponse{Path: p, Created: created})
}

func (h *PlannerHandler) Today(c *gin.Context) {
	tasks, err := h.svc.TodayTasks(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

// AddTask godoc
// @Summary      Append an open task to today's file
// @Tags         planner
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      addTaskRequest  false  "task text, defaults to 'New task'"
// @Success      201   {object}  map[string]string
// @Router       /planner/tasks [post]
func (h *PlannerHandler) AddTask(c *gin.Context) {
	var req addTaskRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	line, err := h.svc.AddTask(c.Request.Context(), req.Text)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"line": line})
}

func (h *PlannerHandler) Migrate(c *gin.Context) {
	res, err := h.svc.MigrateUnfinished(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *PlannerHandler) CreateTracker(c *gin.Context) {
	p, created, err := h.svc.CreateWeeklyTracker(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, fileResponse{Path: p, Created: created})
}

func (h *PlannerHandler) TrackerSummary(c *gin.Context) {
	lines, err := h.svc.TrackerSummary(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"totals": lines})
}
