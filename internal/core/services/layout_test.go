package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/comitanigiacomo/kanso-planner/internal/core/services"
)

func TestLayout(t *testing.T) {
	l := services.DefaultLayout()

	t.Run("Daily task path", func(t *testing.T) {
		got := l.DailyTaskPath(time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC))
		assert.Equal(t, "Daily Planner/✅Tasks/2026 Year/📅 October/📅 18 October.md", got)
	})

	t.Run("Tracker path inside one month", func(t *testing.T) {
		got := l.TrackerPath(time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC))
		assert.Equal(t, "Daily Planner/❤️Health Tracker/📅 October/12 - 18.md", got)
	})

	t.Run("Tracker path across months uses the month of the date", func(t *testing.T) {
		got := l.TrackerPath(time.Date(2026, 10, 2, 9, 0, 0, 0, time.UTC))
		assert.Equal(t, "Daily Planner/❤️Health Tracker/📅 October/28 Sept - 4 Oct.md", got)
	})

	t.Run("Previous tracker path", func(t *testing.T) {
		got := l.PreviousTrackerPath(time.Date(2026, 10, 7, 9, 0, 0, 0, time.UTC))
		assert.Equal(t, "Daily Planner/❤️Health Tracker/📅 September/28 Sept - 4 Oct.md", got)
	})

	t.Run("Summary path", func(t *testing.T) {
		assert.Equal(t, "Daily Planner/Summary.md", l.SummaryPath())
		assert.Equal(t, "Daily Planner/✅Tasks", l.TasksRoot())
		assert.Equal(t, "Daily Planner/❤️Health Tracker", l.HealthRoot())
	})
}
