package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/kanso-planner/internal/core/domain"
	"github.com/comitanigiacomo/kanso-planner/internal/core/services"
)

func TestProgressBar(t *testing.T) {
	tests := []struct {
		percent int
		want    string
	}{
		{0, "░░░░░░░░░░"},
		{4, "░░░░░░░░░░"},
		{5, "█░░░░░░░░░"},
		{73, "███████░░░"},
		{75, "████████░░"},
		{100, "██████████"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, services.ProgressBar(tt.percent), "percent %d", tt.percent)
	}
}

func TestAveragePerDay(t *testing.T) {
	assert.Equal(t, "0.0", services.AveragePerDay(domain.TaskStats{}))
	assert.Equal(t, "1.0", services.AveragePerDay(domain.NewTaskStats(7, 0)))
	assert.Equal(t, "0.4", services.AveragePerDay(domain.NewTaskStats(3, 5)))
	assert.Equal(t, "1.4", services.AveragePerDay(domain.NewTaskStats(10, 0)))
}

func TestRenderer_RenderChartYAML(t *testing.T) {
	r := services.NewRenderer(domain.DefaultChartConfig())
	table := domain.NewHabitTable(domain.CategorySetFrom([]string{"Legs", "Climbing"}))
	table.Set("Legs", 0, 1)
	table.Set("Legs", 6, 2)

	got := r.RenderChartYAML(table)

	want := "```stacked-bar-chart\n" +
		"labels:\n" +
		"  - Monday\n  - Tuesday\n  - Wednesday\n  - Thursday\n  - Friday\n  - Saturday\n  - Sunday\n" +
		"datasets:\n" +
		"  - label: Legs\n" +
		"    data: [1, 0, 0, 0, 0, 0, 2]\n" +
		"    backgroundColor: \"#4169E1\"\n" +
		"  - label: Climbing\n" +
		"    data: [0, 0, 0, 0, 0, 0, 0]\n" +
		"    backgroundColor: \"" + domain.HashColor("Climbing") + "\"\n" +
		"```"
	assert.Equal(t, want, got)

	t.Run("Chart block decodes back to the same data", func(t *testing.T) {
		spec, err := domain.ParseChartSpec(got)
		require.NoError(t, err)
		assert.Len(t, spec.Labels, 7)
		require.Len(t, spec.Datasets, 2)
		assert.Equal(t, []int{1, 0, 0, 0, 0, 0, 2}, spec.Datasets[0].Data)
		assert.Equal(t, "#4169E1", spec.Datasets[0].BackgroundColor)
	})
}

func TestRenderer_RenderSummary(t *testing.T) {
	r := services.NewRenderer(domain.DefaultChartConfig())
	table := domain.NewHabitTable(domain.CategorySetFrom([]string{"Yoga"}))
	date := time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC)

	got := r.RenderSummary(domain.NewTaskStats(73, 27), table, domain.HealthWeek(date), domain.TaskWeek(date))

	want := "### 🏋️ Health Tracker Summary (📅 12 - 18 October)\n\n" +
		"```stacked-bar-chart\n" +
		"labels:\n" +
		"  - Monday\n  - Tuesday\n  - Wednesday\n  - Thursday\n  - Friday\n  - Saturday\n  - Sunday\n" +
		"datasets:\n" +
		"  - label: Yoga\n" +
		"    data: [0, 0, 0, 0, 0, 0, 0]\n" +
		"    backgroundColor: \"#808080\"\n" +
		"```\n\n" +
		"---\n\n" +
		"### ✅ Task Summary (📅 5 - 11 October)\n" +
		"Progress:\n" +
		"███████░░░ **73%**\n\n" +
		"📋 **Total Tasks:**  100\n" +
		"✔ **Completed:**  73\n" +
		"⏳ **Remaining:**  27\n" +
		"📊 **Average per day:**  10.4 tasks"
	assert.Equal(t, want, got)

	t.Run("Month boundary labels name both months", func(t *testing.T) {
		d := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
		doc := r.RenderSummary(domain.TaskStats{}, table, domain.HealthWeek(d), domain.TaskWeek(d))
		assert.Contains(t, doc, "(📅 28 September - 4 October)")
		assert.Contains(t, doc, "(📅 21 - 27 September)")
		assert.Contains(t, doc, "░░░░░░░░░░ **0%**")
	})
}
