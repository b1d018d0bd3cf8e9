package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

const (
	TableTitleMarker  = "Daily Habits Track"
	TableHeaderMarker = "Weekdays"
	UncheckedCell     = "unchecked"
	CheckedGlyph      = "☑️"

	minTableFields = 9
)

// HabitTable holds per-category daily tallies, Monday first.
// Every category of the set always has a full row.
type HabitTable struct {
	categories *CategorySet
	rows       map[Category]*[DaysPerWeek]int
}

type HabitRow struct {
	Category string           `json:"category"`
	Days     [DaysPerWeek]int `json:"days"`
}

func NewHabitTable(categories *CategorySet) *HabitTable {
	t := &HabitTable{
		categories: categories,
		rows:       make(map[Category]*[DaysPerWeek]int, categories.Len()),
	}
	for _, c := range categories.Items() {
		t.rows[c] = &[DaysPerWeek]int{}
	}
	return t
}

func (t *HabitTable) Categories() *CategorySet {
	return t.categories
}

func (t *HabitTable) Row(c Category) [DaysPerWeek]int {
	if r, ok := t.rows[c]; ok {
		return *r
	}
	return [DaysPerWeek]int{}
}

func (t *HabitTable) Rows() []HabitRow {
	out := make([]HabitRow, 0, t.categories.Len())
	for _, c := range t.categories.Items() {
		out = append(out, HabitRow{Category: string(c), Days: *t.rows[c]})
	}
	return out
}

func (t *HabitTable) Set(c Category, day, value int) {
	if r, ok := t.rows[c]; ok && day >= 0 && day < DaysPerWeek {
		r[day] = value
	}
}

func (t *HabitTable) Total(c Category) int {
	sum := 0
	for _, v := range t.Row(c) {
		sum += v
	}
	return sum
}

func (t *HabitTable) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Rows())
}

// HabitTableFromRows rebuilds a table from its serialized rows.
func HabitTableFromRows(rows []HabitRow) *HabitTable {
	names := make([]string, 0, len(rows))
	for _, r := range rows {
		names = append(names, r.Category)
	}
	t := NewHabitTable(CategorySetFrom(names))
	for _, r := range rows {
		c := Category(strings.TrimSpace(r.Category))
		if row, ok := t.rows[c]; ok {
			*row = r.Days
		}
	}
	return t
}

// ParseHabitTable scans a tracker file and tallies the rows of known categories.
//
// A line containing "Weekdays" switches scanning on. Blank lines, rules and the
// title line are never data. A data row needs at least 9 pipe fields; field 1 is
// the category and fields 2..8 are Monday..Sunday. A cell containing the checked
// glyph or "unchecked" resets that day to 0, any other cell adds 1.
func ParseHabitTable(content string, categories *CategorySet) *HabitTable {
	table := NewHabitTable(categories)
	inTable := false

	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) == "" ||
			strings.Contains(line, TableHeaderMarker) ||
			strings.Contains(line, "---") ||
			strings.Contains(line, TableTitleMarker) {
			if strings.Contains(line, TableHeaderMarker) {
				inTable = true
			}
			continue
		}

		if !inTable || !strings.Contains(line, "|") {
			continue
		}

		columns := strings.Split(line, "|")
		if len(columns) < minTableFields {
			continue
		}

		row, ok := table.rows[Category(strings.TrimSpace(columns[1]))]
		if !ok {
			continue
		}

		for day := 0; day < DaysPerWeek; day++ {
			cell := strings.TrimSpace(columns[day+2])
			if strings.Contains(cell, CheckedGlyph) || strings.Contains(cell, UncheckedCell) {
				row[day] = 0
			} else {
				row[day]++
			}
		}
	}

	return table
}

// DiscoverCategories reads the category column of the rows that directly
// follow the title line. ok is false when the title is missing or no row
// yields a name.
func DiscoverCategories(content string) (*CategorySet, bool) {
	lines := strings.Split(content, "\n")

	start := -1
	for i, line := range lines {
		if strings.Contains(line, TableTitleMarker) {
			start = i
			break
		}
	}
	if start == -1 {
		return nil, false
	}

	set := NewCategorySet()
	for i := start + 1; i < len(lines) && strings.HasPrefix(lines[i], "|"); i++ {
		cells := strings.Split(lines[i], "|")
		if len(cells) < 2 {
			continue
		}
		c, err := NewCategory(cells[1])
		if err != nil {
			continue
		}
		_ = set.Add(c)
	}

	if set.Len() == 0 {
		return nil, false
	}
	return set, true
}

// RenderTrackerTable produces an empty weekly tracker table for the given
// categories, in the layout ParseHabitTable and DiscoverCategories read.
func RenderTrackerTable(categories *CategorySet, weekdays [DaysPerWeek]string) string {
	var sb strings.Builder

	sb.WriteString("| " + TableHeaderMarker + " |")
	for _, d := range weekdays {
		sb.WriteString(" " + d + " |")
	}
	sb.WriteString("\n|")
	for i := 0; i <= DaysPerWeek; i++ {
		sb.WriteString(" --- |")
	}
	sb.WriteString(fmt.Sprintf("\n| 🏋️ %s |", TableTitleMarker))
	sb.WriteString(strings.Repeat("  |", DaysPerWeek))
	sb.WriteString("\n")

	for _, c := range categories.Items() {
		sb.WriteString("| " + string(c) + " |")
		for i := 0; i < DaysPerWeek; i++ {
			sb.WriteString(" " + UncheckedCell + " |")
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
