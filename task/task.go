package task

import "time"

// Task represents a single tracked item.
type Task struct {
	// ID is assigned by the backend at creation and never changes.
	ID string `json:"id"`

	// Title is the short summary of the task (max 500 chars).
	Title string `json:"title"`

	// Description provides additional context about the task.
	Description string `json:"description,omitempty"`

	// Focus is the urgency classifier.
	Focus Focus `json:"focus"`

	// Status is the current lifecycle state.
	Status Status `json:"status"`

	// DueDate is when the task should be finished (nil when unset).
	DueDate *time.Time `json:"due_date"`

	// CreatedAt is when the task was created.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is when the task was last modified.
	UpdatedAt time.Time `json:"updated_at"`

	// TransitionReason explains the most recent status change.
	TransitionReason string `json:"transition_reason,omitempty"`

	// DelayReason explains why an in-progress task has gone stale.
	DelayReason string `json:"delay_reason,omitempty"`
}

// IsOverdue reports whether the task has a due date before now and is not done.
func (t Task) IsOverdue(now time.Time) bool {
	if t.DueDate == nil || t.Status == StatusDone {
		return false
	}
	return t.DueDate.Before(now)
}

// IsStale reports whether the task has been in progress without an update
// for longer than StaleAfter.
func (t Task) IsStale(now time.Time) bool {
	if t.Status != StatusInProgress || t.UpdatedAt.IsZero() {
		return false
	}
	return now.Sub(t.UpdatedAt) > StaleAfter
}

// IDs returns the IDs of the given tasks in order.
func IDs(tasks []Task) []string {
	ids := make([]string, 0, len(tasks))
	for _, item := range tasks {
		ids = append(ids, item.ID)
	}
	return ids
}
