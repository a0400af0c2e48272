// Package insight derives advice from a task collection.
//
// Everything here except Suggestions is pure: the same tasks and the same
// clock reading always yield the same report.
package insight

import (
	"fmt"
	"time"

	"github.com/amonks/tasktrack/task"
)

// OverloadThreshold is the number of in-progress tasks above which the
// workload tip is shown.
const OverloadThreshold = 3

// Kind identifies which rule produced a tip.
type Kind string

const (
	KindOverdueCritical Kind = "overdue_critical"
	KindOverload        Kind = "overload"
	KindDefault         Kind = "default"
)

// DefaultMessage is shown when no other rule applies.
const DefaultMessage = "Plan your next 2 hours: pick one high-focus item and one quick win."

// Tip is the primary piece of advice for a collection.
type Tip struct {
	Kind    Kind
	Count   int
	Message string
}

// Report bundles the primary tip with the stale set.
type Report struct {
	Tip Tip
	// Reminder is the critical-focus reminder, empty when no open task is
	// critical.
	Reminder string
	Stale    []task.Task
}

// Analyze computes the primary tip, reminder, and stale set for tasks at now.
func Analyze(tasks []task.Task, now time.Time) Report {
	return Report{
		Tip:      PrimaryTip(tasks, now),
		Reminder: FocusReminder(tasks),
		Stale:    StaleInProgress(tasks, now),
	}
}

// FocusReminder counts every critical task that is not done, due or not.
func FocusReminder(tasks []task.Task) string {
	count := len(OpenCritical(tasks))
	switch count {
	case 0:
		return ""
	case 1:
		return "Focus on 1 critical task first."
	default:
		return fmt.Sprintf("Focus on %d critical tasks first.", count)
	}
}

// OpenCritical returns critical tasks that are not done, in input order.
func OpenCritical(tasks []task.Task) []task.Task {
	var critical []task.Task
	for _, item := range tasks {
		if item.Focus == task.FocusCritical && item.Status != task.StatusDone {
			critical = append(critical, item)
		}
	}
	return critical
}

// PrimaryTip returns the highest-precedence tip. Overdue critical work
// beats workload pressure, which beats the default advice.
func PrimaryTip(tasks []task.Task, now time.Time) Tip {
	if overdue := OverdueCritical(tasks, now); len(overdue) > 0 {
		return Tip{
			Kind:    KindOverdueCritical,
			Count:   len(overdue),
			Message: fmt.Sprintf("You have %d critical overdue task(s). Tackle them first.", len(overdue)),
		}
	}
	if count := CountStatus(tasks, task.StatusInProgress); count > OverloadThreshold {
		return Tip{
			Kind:    KindOverload,
			Count:   count,
			Message: fmt.Sprintf("You have %d items in progress. Consider finishing a few before adding more.", count),
		}
	}
	return Tip{Kind: KindDefault, Message: DefaultMessage}
}

// OverdueCritical returns non-done critical tasks whose due date is strictly
// before now, in input order.
func OverdueCritical(tasks []task.Task, now time.Time) []task.Task {
	var overdue []task.Task
	for _, item := range tasks {
		if item.Focus == task.FocusCritical && item.IsOverdue(now) {
			overdue = append(overdue, item)
		}
	}
	return overdue
}

// StaleInProgress returns in-progress tasks not updated within
// task.StaleAfter, in input order.
func StaleInProgress(tasks []task.Task, now time.Time) []task.Task {
	var stale []task.Task
	for _, item := range tasks {
		if item.IsStale(now) {
			stale = append(stale, item)
		}
	}
	return stale
}

// CountStatus counts tasks in the given status.
func CountStatus(tasks []task.Task, status task.Status) int {
	count := 0
	for _, item := range tasks {
		if item.Status == status {
			count++
		}
	}
	return count
}

// StatusCounts counts tasks per status, with every status present.
func StatusCounts(tasks []task.Task) map[task.Status]int {
	counts := make(map[task.Status]int, len(task.ValidStatuses()))
	for _, status := range task.ValidStatuses() {
		counts[status] = 0
	}
	for _, item := range tasks {
		counts[item.Status]++
	}
	return counts
}
