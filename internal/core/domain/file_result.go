package domain

import "strings"

// FileResult is the outcome of reading one daily file: either a contribution
// or a skip with its reason. Skips never abort an aggregation.
type FileResult struct {
	Path       string    `json:"path"`
	Skipped    bool      `json:"skipped"`
	Reason     string    `json:"reason,omitempty"`
	Stats      TaskStats `json:"stats"`
	Unfinished []string  `json:"-"`
	Content    string    `json:"-"`
}

func FileOk(path, content string) FileResult {
	stats, unfinished := CountTasks(content)
	return FileResult{
		Path:       path,
		Stats:      stats,
		Unfinished: unfinished,
		Content:    content,
	}
}

func FileSkipped(path, reason string) FileResult {
	return FileResult{Path: path, Skipped: true, Reason: reason}
}

// TaskWeekSummary is the fold of one task-week's file results.
type TaskWeekSummary struct {
	Week       Week         `json:"-"`
	Stats      TaskStats    `json:"stats"`
	Unfinished []string     `json:"unfinished"`
	Content    string       `json:"-"`
	Files      []FileResult `json:"files"`
}

func (s TaskWeekSummary) SkippedCount() int {
	n := 0
	for _, f := range s.Files {
		if f.Skipped {
			n++
		}
	}
	return n
}

func FoldTaskWeek(week Week, results []FileResult) TaskWeekSummary {
	summary := TaskWeekSummary{Week: week, Files: results}
	var content strings.Builder

	for _, r := range results {
		if r.Skipped {
			continue
		}
		summary.Stats = summary.Stats.Add(r.Stats)
		summary.Unfinished = append(summary.Unfinished, r.Unfinished...)
		content.WriteString(r.Content)
		content.WriteString("\n")
	}

	summary.Content = strings.TrimSpace(content.String())
	return summary
}
