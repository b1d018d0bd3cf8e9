package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-planner/internal/core/domain"
	"github.com/comitanigiacomo/kanso-planner/internal/core/services"
)

type CategoryHandler struct {
	source services.CategorySource
	chart  domain.ChartConfig
	now    func() time.Time
}

func NewCategoryHandler(source services.CategorySource, chart domain.ChartConfig, now func() time.Time) *CategoryHandler {
	return &CategoryHandler{source: source, chart: chart, now: now}
}

type categoryResponse struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

func (h *CategoryHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/categories", h.List)
}

// List godoc
// @Summary      Habit categories of the health week containing date
// @Tags         categories
// @Produce      json
// @Security     BearerAuth
// @Param        date  query  string  false  "YYYY-MM-DD"
// @Router       /categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	date, ok := dateParam(c, h.now)
	if !ok {
		return
	}

	set, err := h.source.Categories(c.Request.Context(), date)
	if err != nil {
		handleError(c, err)
		return
	}

	out := make([]categoryResponse, 0, set.Len())
	for _, name := range set.Names() {
		out = append(out, categoryResponse{Name: name, Color: h.chart.ColorFor(name)})
	}

	c.JSON(http.StatusOK, gin.H{
		"week":       domain.HealthWeek(date).RangeLabel(),
		"categories": out,
	})
}
