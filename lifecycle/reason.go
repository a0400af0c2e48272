// Package lifecycle validates and annotates task state changes.
//
// Moving a task to postponed or cancelled needs a reason from the actor,
// and acknowledging a stale in-progress task needs a delay reason. Reasons
// are gathered through a ReasonRequester before any request is sent; when
// the actor declines, the change is abandoned with a MissingReasonError.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/amonks/tasktrack/task"
)

var (
	// ErrCancelled matches every MissingReasonError. Callers report it as a
	// cancellation rather than a failure.
	ErrCancelled = errors.New("cancelled")

	// ErrNotStale is returned when acknowledging a task that is not stale.
	ErrNotStale = errors.New("task is not stale")
)

// ReasonKind distinguishes the two kinds of reasons a task can carry.
type ReasonKind string

const (
	// KindTransition is a reason attached to a status change.
	KindTransition ReasonKind = "transition"
	// KindDelay is a reason explaining why a task is stale.
	KindDelay ReasonKind = "delay"
)

// ReasonRequest describes the reason being asked for.
type ReasonRequest struct {
	Task   task.Task
	Target task.Status
	Kind   ReasonKind

	// Optional is set when the change may proceed without a reason.
	// Interactive requesters should not prompt for optional reasons.
	Optional bool
}

// Prompt returns the question to show the actor.
func (r ReasonRequest) Prompt() string {
	if r.Kind == KindDelay {
		return "This has been in progress for 48h+. Provide a reason for delay:"
	}
	return fmt.Sprintf("Provide a reason for marking this task as %s:", r.Target)
}

// ReasonRequester obtains a reason from the actor. It returns ok=false when
// the actor declines. An error means the request itself failed.
type ReasonRequester interface {
	RequestReason(ctx context.Context, req ReasonRequest) (reason string, ok bool, err error)
}

// ReasonFunc adapts a function to ReasonRequester.
type ReasonFunc func(ctx context.Context, req ReasonRequest) (string, bool, error)

// RequestReason calls f.
func (f ReasonFunc) RequestReason(ctx context.Context, req ReasonRequest) (string, bool, error) {
	return f(ctx, req)
}

// StaticReason answers every request with a fixed reason, typically one
// supplied by a flag. An empty StaticReason declines.
type StaticReason string

// RequestReason returns the trimmed reason.
func (s StaticReason) RequestReason(_ context.Context, _ ReasonRequest) (string, bool, error) {
	reason := strings.TrimSpace(string(s))
	return reason, reason != "", nil
}

// MissingReasonError is returned when a required reason was not supplied.
// No request has been sent when it is returned.
type MissingReasonError struct {
	TaskID string
	Target task.Status
	Kind   ReasonKind
}

func (e *MissingReasonError) Error() string {
	if e.Kind == KindDelay {
		return fmt.Sprintf("delay reason required to acknowledge task %s", e.TaskID)
	}
	return fmt.Sprintf("reason required to mark task %s as %s", e.TaskID, e.Target)
}

// Is reports whether target is ErrCancelled.
func (e *MissingReasonError) Is(target error) bool {
	return target == ErrCancelled
}

// IsCancelled reports whether err means the actor declined to give a reason.
func IsCancelled(err error) bool {
	return errors.Is(err, ErrCancelled)
}
