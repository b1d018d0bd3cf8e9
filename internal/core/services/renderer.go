package services

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/comitanigiacomo/kanso-planner/internal/core/domain"
)

const (
	progressSegments = 10
	filledSegment    = "█"
	emptySegment     = "░"
)

var daysPerWeek = decimal.NewFromInt(domain.DaysPerWeek)

// Renderer turns aggregated week data into the summary markdown.
type Renderer struct {
	chart domain.ChartConfig
}

func NewRenderer(chart domain.ChartConfig) *Renderer {
	return &Renderer{chart: chart}
}

func (r *Renderer) Chart() domain.ChartConfig {
	return r.chart
}

// Datasets lists one entry per category in table order.
func (r *Renderer) Datasets(habits *domain.HabitTable) []domain.ChartDataset {
	rows := habits.Rows()
	out := make([]domain.ChartDataset, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.ChartDataset{
			Label:           row.Category,
			Data:            row.Days[:],
			BackgroundColor: r.chart.ColorFor(row.Category),
		})
	}
	return out
}

// RenderChartYAML emits the fenced stacked-bar-chart block.
func (r *Renderer) RenderChartYAML(habits *domain.HabitTable) string {
	var b strings.Builder
	b.WriteString("```" + domain.ChartBlockTag + "\n")
	b.WriteString("labels:\n")
	for _, day := range r.chart.Weekdays {
		fmt.Fprintf(&b, "  - %s\n", day)
	}
	b.WriteString("datasets:\n")
	for _, ds := range r.Datasets(habits) {
		values := make([]string, len(ds.Data))
		for i, v := range ds.Data {
			values[i] = fmt.Sprint(v)
		}
		fmt.Fprintf(&b, "  - label: %s\n", ds.Label)
		fmt.Fprintf(&b, "    data: [%s]\n", strings.Join(values, ", "))
		fmt.Fprintf(&b, "    backgroundColor: \"%s\"\n", ds.BackgroundColor)
	}
	b.WriteString("```")
	return b.String()
}

// ProgressBar renders percent as 10 segments, rounding percent/10 half up.
func ProgressBar(percent int) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	blocks := (percent + 5) / 10
	return strings.Repeat(filledSegment, blocks) + strings.Repeat(emptySegment, progressSegments-blocks)
}

// AveragePerDay is finished tasks over 7 days with one decimal.
func AveragePerDay(stats domain.TaskStats) string {
	return decimal.NewFromInt(int64(stats.TotalFinishedTasks)).Div(daysPerWeek).StringFixed(1)
}

// RenderSummary builds the full Summary.md document for date.
func (r *Renderer) RenderSummary(stats domain.TaskStats, habits *domain.HabitTable, healthWeek, taskWeek domain.Week) string {
	pct := stats.CompletionPercent()

	var b strings.Builder
	fmt.Fprintf(&b, "### 🏋️ Health Tracker Summary (📅 %s)\n\n", healthWeek.RangeLabel())
	b.WriteString(r.RenderChartYAML(habits))
	b.WriteString("\n\n---\n\n")
	fmt.Fprintf(&b, "### ✅ Task Summary (📅 %s)\n", taskWeek.RangeLabel())
	b.WriteString("Progress:\n")
	fmt.Fprintf(&b, "%s **%d%%**\n\n", ProgressBar(pct), pct)
	fmt.Fprintf(&b, "📋 **Total Tasks:**  %d\n", stats.TotalTasks)
	fmt.Fprintf(&b, "✔ **Completed:**  %d\n", stats.TotalFinishedTasks)
	fmt.Fprintf(&b, "⏳ **Remaining:**  %d\n", stats.TotalUnfinishedTasks)
	fmt.Fprintf(&b, "📊 **Average per day:**  %s tasks", AveragePerDay(stats))
	return b.String()
}
