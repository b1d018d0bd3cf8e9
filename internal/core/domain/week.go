package domain

import (
	"fmt"
	"time"
)

const DaysPerWeek = 7

// Week is a 7-day span starting on a Monday at local midnight.
type Week struct {
	Start time.Time
}

// shortMonths follows the en-GB calendar abbreviations ("Sept", not "Sep").
var shortMonths = [...]string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sept", "Oct", "Nov", "Dec",
}

func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// CalendarDay keeps only the wall-clock date of t, as midnight UTC.
// Archives key weeks with it so lookups do not depend on the zone of t.
func CalendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// HealthWeek anchors t to the Monday of its own week.
// Offset is 6 on Sunday, weekday-1 otherwise.
func HealthWeek(t time.Time) Week {
	day := int(t.Weekday())
	offset := day - 1
	if day == 0 {
		offset = 6
	}
	return Week{Start: Midnight(t).AddDate(0, 0, -offset)}
}

// TaskWeek anchors t for the daily task pass.
// Offset is 6 on Sunday, weekday+6 otherwise, so every day other than Sunday
// lands on the Monday of the previous week.
func TaskWeek(t time.Time) Week {
	day := int(t.Weekday())
	offset := day + 6
	if day == 0 {
		offset = 6
	}
	return Week{Start: Midnight(t).AddDate(0, 0, -offset)}
}

func (w Week) End() time.Time {
	return w.Start.AddDate(0, 0, DaysPerWeek-1)
}

func (w Week) Day(i int) time.Time {
	return w.Start.AddDate(0, 0, i)
}

func (w Week) Days() [DaysPerWeek]time.Time {
	var days [DaysPerWeek]time.Time
	for i := range days {
		days[i] = w.Day(i)
	}
	return days
}

func (w Week) Previous() Week {
	return Week{Start: w.Start.AddDate(0, 0, -DaysPerWeek)}
}

// RangeLabel renders "13 - 19 October" or "29 September - 5 October".
func (w Week) RangeLabel() string {
	end := w.End()
	startMonth := w.Start.Month().String()
	endMonth := end.Month().String()
	if startMonth == endMonth {
		return fmt.Sprintf("%d - %d %s", w.Start.Day(), end.Day(), startMonth)
	}
	return fmt.Sprintf("%d %s - %d %s", w.Start.Day(), startMonth, end.Day(), endMonth)
}

// FileName is the weekly tracker file name: "13 - 19.md" or "29 Sept - 5 Oct.md".
func (w Week) FileName() string {
	end := w.End()
	startMonth := ShortMonth(w.Start.Month())
	endMonth := ShortMonth(end.Month())
	if startMonth == endMonth {
		return fmt.Sprintf("%d - %d.md", w.Start.Day(), end.Day())
	}
	return fmt.Sprintf("%d %s - %d %s.md", w.Start.Day(), startMonth, end.Day(), endMonth)
}

func ShortMonth(m time.Month) string {
	return shortMonths[m-1]
}

// YearFolder returns "2026 Year".
func YearFolder(t time.Time) string {
	return fmt.Sprintf("%d Year", t.Year())
}

// MonthFolder returns "📅 October".
func MonthFolder(t time.Time) string {
	return "📅 " + t.Month().String()
}

// DayFileName returns "📅 18 October.md".
func DayFileName(t time.Time) string {
	return fmt.Sprintf("📅 %d %s.md", t.Day(), t.Month().String())
}

// DayLabel returns "18/10/2026".
func DayLabel(t time.Time) string {
	return t.Format("02/01/2006")
}
