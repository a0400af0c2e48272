package ui

import (
	"fmt"
	"time"

	"github.com/amonks/tasktrack/task"
)

// FormatTimeAgo returns a compact age string like "2m ago".
func FormatTimeAgo(then time.Time, now time.Time) string {
	if then.IsZero() {
		return "-"
	}
	return FormatDurationShort(now.Sub(then)) + " ago"
}

// FormatDurationShort formats a duration using short units (s/m/h/d).
func FormatDurationShort(duration time.Duration) string {
	if duration < 0 {
		duration = 0
	}

	duration = duration.Truncate(time.Second)
	seconds := int64(duration.Seconds())
	if seconds < 60 {
		return fmt.Sprintf("%ds", seconds)
	}

	minutes := seconds / 60
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}

	hours := minutes / 60
	if hours < 24 {
		return fmt.Sprintf("%dh", hours)
	}

	days := hours / 24
	return fmt.Sprintf("%dd", days)
}

// FormatDue describes a task's due date relative to now, styling overdue
// dates.
func FormatDue(item task.Task, now time.Time, loc *time.Location) string {
	if item.DueDate == nil {
		return "-"
	}
	date := task.FormatDueDate(item.DueDate, loc)
	if item.IsOverdue(now) {
		return Danger(fmt.Sprintf("%s (overdue %s)", date, FormatDurationShort(now.Sub(*item.DueDate))))
	}
	return date
}
