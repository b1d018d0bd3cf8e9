package domain

import "strings"

const (
	OpenTaskMarker = "- ["
	DoneTaskMarker = "- [x]"
	NewTaskText    = "New task"
)

type TaskStats struct {
	TotalTasks           int `json:"total_tasks"`
	TotalUnfinishedTasks int `json:"total_unfinished_tasks"`
	TotalFinishedTasks   int `json:"total_finished_tasks"`
}

func NewTaskStats(finished, unfinished int) TaskStats {
	return TaskStats{
		TotalTasks:           finished + unfinished,
		TotalUnfinishedTasks: unfinished,
		TotalFinishedTasks:   finished,
	}
}

func (s TaskStats) Add(o TaskStats) TaskStats {
	return NewTaskStats(s.TotalFinishedTasks+o.TotalFinishedTasks, s.TotalUnfinishedTasks+o.TotalUnfinishedTasks)
}

// CompletionPercent is finished/total*100 rounded half up, 0 when there are no tasks.
func (s TaskStats) CompletionPercent() int {
	if s.TotalTasks <= 0 {
		return 0
	}
	return (s.TotalFinishedTasks*200 + s.TotalTasks) / (2 * s.TotalTasks)
}

// IsUnfinishedTask reports whether a line is an open checkbox that is not done.
func IsUnfinishedTask(line string) bool {
	t := strings.TrimSpace(line)
	return strings.HasPrefix(t, OpenTaskMarker) && !strings.HasPrefix(t, DoneTaskMarker)
}

func IsFinishedTask(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), DoneTaskMarker)
}

// CountTasks classifies every line of a daily file. The returned unfinished
// lines are trimmed.
func CountTasks(content string) (TaskStats, []string) {
	var unfinished []string
	finished := 0
	for _, line := range strings.Split(content, "\n") {
		switch {
		case IsFinishedTask(line):
			finished++
		case IsUnfinishedTask(line):
			unfinished = append(unfinished, strings.TrimSpace(line))
		}
	}
	return NewTaskStats(finished, len(unfinished)), unfinished
}

// TaskLine renders a new open task entry. Any run of whitespace, line breaks
// included, collapses to one space so the entry stays on a single line.
func TaskLine(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		text = NewTaskText
	}
	return "- [ ] " + text
}

// TaskText strips the checkbox from a task line: "- [ ] call mum" -> "call mum".
func TaskText(line string) string {
	t := strings.TrimSpace(line)
	if !strings.HasPrefix(t, OpenTaskMarker) {
		return t
	}
	if i := strings.Index(t, "]"); i != -1 {
		return strings.TrimSpace(t[i+1:])
	}
	return t
}
