package services

import (
	"path"
	"time"

	"github.com/comitanigiacomo/kanso-planner/internal/core/domain"
)

// Layout maps dates onto vault paths.
type Layout struct {
	PlannerDir  string
	TasksDir    string
	HealthDir   string
	SummaryFile string
}

func DefaultLayout() Layout {
	return Layout{
		PlannerDir:  "Daily Planner",
		TasksDir:    "✅Tasks",
		HealthDir:   "❤️Health Tracker",
		SummaryFile: "Summary.md",
	}
}

func (l Layout) TasksRoot() string {
	return path.Join(l.PlannerDir, l.TasksDir)
}

func (l Layout) HealthRoot() string {
	return path.Join(l.PlannerDir, l.HealthDir)
}

func (l Layout) SummaryPath() string {
	return path.Join(l.PlannerDir, l.SummaryFile)
}

// DailyTaskPath: <planner>/<tasks>/<YYYY> Year/📅 <Month>/📅 <D> <Month>.md
func (l Layout) DailyTaskPath(day time.Time) string {
	return path.Join(l.TasksRoot(), domain.YearFolder(day), domain.MonthFolder(day), domain.DayFileName(day))
}

// TrackerPath resolves the weekly tracker for date: the month folder follows
// date itself, the file name follows its health week.
func (l Layout) TrackerPath(date time.Time) string {
	return path.Join(l.HealthRoot(), domain.MonthFolder(date), domain.HealthWeek(date).FileName())
}

// PreviousTrackerPath is the tracker of the health week before date's.
func (l Layout) PreviousTrackerPath(date time.Time) string {
	return l.TrackerPath(domain.HealthWeek(date).Previous().Start)
}
