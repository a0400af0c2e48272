// Package task defines the task entity shared by the client, the insight
// engine, and the reference backend.
//
// Tasks move between four lifecycle states (see Status) and carry a focus
// level (see Focus). Both are closed sets: values are only produced by the
// constants below, by ParseStatus/ParseFocus, or by JSON decoding, which
// rejects anything else after legacy normalization.
package task

import (
	"encoding/json"
	"strings"
	"time"
)

// Status represents the lifecycle state of a task.
type Status string

const (
	// StatusInProgress indicates the task is being worked on. New tasks
	// start here.
	StatusInProgress Status = "in_progress"

	// StatusPostponed indicates the task was deferred. Entering this state
	// requires a reason.
	StatusPostponed Status = "postponed"

	// StatusCancelled indicates the task was abandoned. Entering this state
	// requires a reason.
	StatusCancelled Status = "cancelled"

	// StatusDone indicates the task is finished. A done task may be
	// reopened by any other transition.
	StatusDone Status = "done"
)

// DefaultStatus is applied when a task is created without a status.
const DefaultStatus = StatusInProgress

// ValidStatuses returns all valid status values in board order.
func ValidStatuses() []Status {
	return []Status{StatusInProgress, StatusPostponed, StatusCancelled, StatusDone}
}

// IsValid returns true if the status is a known valid value.
func (s Status) IsValid() bool {
	switch s {
	case StatusInProgress, StatusPostponed, StatusCancelled, StatusDone:
		return true
	default:
		return false
	}
}

// RequiresReason reports whether entering this status needs a justification.
func (s Status) RequiresReason() bool {
	switch s {
	case StatusPostponed, StatusCancelled:
		return true
	case StatusInProgress, StatusDone:
		return false
	default:
		return false
	}
}

// Label returns the human-readable column name for the status.
func (s Status) Label() string {
	switch s {
	case StatusInProgress:
		return "In Progress"
	case StatusPostponed:
		return "Postponed"
	case StatusCancelled:
		return "Cancelled"
	case StatusDone:
		return "Done"
	default:
		return "Unknown"
	}
}

// UnmarshalJSON rejects values outside the closed status set.
func (s *Status) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseStatus parses user input into a Status. It accepts the canonical
// values plus spaced or hyphenated spellings ("in progress").
func ParseStatus(value string) (Status, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	normalized = strings.ReplaceAll(normalized, " ", "_")
	normalized = strings.ReplaceAll(normalized, "-", "_")
	status := Status(normalized)
	if !status.IsValid() {
		return "", invalidStatus(value)
	}
	return status, nil
}

// Focus classifies how urgent a task is.
type Focus string

const (
	FocusLow      Focus = "low"
	FocusMedium   Focus = "medium" // default
	FocusHigh     Focus = "high"
	FocusCritical Focus = "critical"
)

// DefaultFocus is applied when a task is created without a focus.
const DefaultFocus = FocusMedium

// ValidFocuses returns all valid focus values from least to most urgent.
func ValidFocuses() []Focus {
	return []Focus{FocusLow, FocusMedium, FocusHigh, FocusCritical}
}

// IsValid returns true if the focus is a known valid value.
func (f Focus) IsValid() bool {
	switch f {
	case FocusLow, FocusMedium, FocusHigh, FocusCritical:
		return true
	default:
		return false
	}
}

// Rank returns the sort rank for a focus level, most urgent first.
func (f Focus) Rank() int {
	switch f {
	case FocusCritical:
		return 0
	case FocusHigh:
		return 1
	case FocusMedium:
		return 2
	case FocusLow:
		return 3
	default:
		return 4
	}
}

// UnmarshalJSON rejects values outside the closed focus set.
func (f *Focus) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseFocus(raw)
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// ParseFocus parses user input into a Focus.
func ParseFocus(value string) (Focus, error) {
	focus := Focus(strings.ToLower(strings.TrimSpace(value)))
	if !focus.IsValid() {
		return "", invalidFocus(value)
	}
	return focus, nil
}

// StaleAfter is how long a task may stay in progress without an update
// before it is considered stale.
const StaleAfter = 48 * time.Hour

// MaxTitleLength is the maximum allowed length for a task title.
const MaxTitleLength = 500
