package task

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/amonks/tasktrack/internal/validation"
)

var (
	// ErrEmptyTitle is returned when a task title is empty after trimming.
	ErrEmptyTitle = errors.New("title cannot be empty")

	// ErrTitleTooLong is returned when a task title exceeds MaxTitleLength.
	ErrTitleTooLong = errors.New("title exceeds maximum length")

	// ErrInvalidStatus is returned when an unknown status is provided.
	ErrInvalidStatus = errors.New("invalid status")

	// ErrInvalidFocus is returned when an unknown focus is provided.
	ErrInvalidFocus = errors.New("invalid focus")

	// ErrInvalidDueDate is returned when a due date cannot be parsed.
	ErrInvalidDueDate = errors.New("invalid due date")

	// ErrMissingID is returned when a task has no identifier.
	ErrMissingID = errors.New("task id is required")

	// ErrTaskNotFound is returned when no task matches an ID or prefix.
	ErrTaskNotFound = errors.New("task not found")

	// ErrAmbiguousID is returned when an ID prefix matches multiple tasks.
	ErrAmbiguousID = errors.New("ambiguous task ID prefix")
)

// ValidationError reports malformed task input. It is raised before any
// request is sent.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	msg := e.Err.Error()
	if strings.HasPrefix(msg, "invalid "+e.Field) {
		return msg
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, msg)
}

func invalidStatus[V ~string](value V) error {
	return &ValidationError{Field: "status", Err: validation.InvalidValue(ErrInvalidStatus, value, ValidStatuses())}
}

func invalidFocus[V ~string](value V) error {
	return &ValidationError{Field: "focus", Err: validation.InvalidValue(ErrInvalidFocus, value, ValidFocuses())}
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ValidateTitle checks if the title is valid.
func ValidateTitle(title string) error {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return &ValidationError{Field: "title", Err: ErrEmptyTitle}
	}
	if length := utf8.RuneCountInString(trimmed); length > MaxTitleLength {
		return &ValidationError{Field: "title", Err: fmt.Errorf("%w: %d > %d", ErrTitleTooLong, length, MaxTitleLength)}
	}
	return nil
}

// ValidateTask checks if a task struct is valid.
func ValidateTask(t *Task) error {
	if err := ValidateTitle(t.Title); err != nil {
		return err
	}
	if !t.Status.IsValid() {
		return invalidStatus(t.Status)
	}
	if !t.Focus.IsValid() {
		return invalidFocus(t.Focus)
	}
	if !t.CreatedAt.IsZero() && t.UpdatedAt.Before(t.CreatedAt) {
		return &ValidationError{Field: "updated_at", Err: errors.New("updated_at precedes created_at")}
	}
	return nil
}

// IsValidationError reports whether err is a ValidationError.
func IsValidationError(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}
