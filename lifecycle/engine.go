package lifecycle

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/amonks/tasktrack/task"
)

// Updater sends a patch to the backend and returns the updated task.
type Updater interface {
	UpdateTask(ctx context.Context, id string, patch task.Patch) (task.Task, error)
}

// PlanTransition builds the patch for moving current to target. Every state
// is reachable from every other state, including itself. Targets that need a
// reason fail with a MissingReasonError when reason is blank.
func PlanTransition(current task.Task, target task.Status, reason string) (task.Patch, error) {
	if current.ID == "" {
		return task.Patch{}, task.ErrMissingID
	}
	if !target.IsValid() {
		return task.Patch{}, &task.ValidationError{Field: "status", Err: fmt.Errorf("%w: %q", task.ErrInvalidStatus, target)}
	}

	trimmed := strings.TrimSpace(reason)
	if target.RequiresReason() && trimmed == "" {
		return task.Patch{}, &MissingReasonError{TaskID: current.ID, Target: target, Kind: KindTransition}
	}

	status := target
	return task.Patch{Status: &status, Reason: trimmed}, nil
}

// PlanAcknowledge builds the patch attaching a delay reason to a stale task.
// The status is left untouched.
func PlanAcknowledge(current task.Task, reason string, now time.Time) (task.Patch, error) {
	if current.ID == "" {
		return task.Patch{}, task.ErrMissingID
	}
	if !current.IsStale(now) {
		return task.Patch{}, fmt.Errorf("%w: %s", ErrNotStale, current.ID)
	}

	trimmed := strings.TrimSpace(reason)
	if trimmed == "" {
		return task.Patch{}, &MissingReasonError{TaskID: current.ID, Target: current.Status, Kind: KindDelay}
	}
	return task.Patch{DelayReason: trimmed}, nil
}

// Options configures an Engine.
type Options struct {
	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// Engine applies transitions through an Updater.
type Engine struct {
	updater Updater
	now     func() time.Time
}

// NewEngine returns an Engine that sends patches through updater.
func NewEngine(updater Updater, opts Options) *Engine {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Engine{updater: updater, now: now}
}

// Transition moves current to target. When target needs a reason the
// requester is asked for one first; declining aborts before any request is
// sent. For other targets the requester may still attach an optional reason.
func (e *Engine) Transition(ctx context.Context, current task.Task, target task.Status, requester ReasonRequester) (task.Task, error) {
	if !target.IsValid() {
		return task.Task{}, &task.ValidationError{Field: "status", Err: fmt.Errorf("%w: %q", task.ErrInvalidStatus, target)}
	}

	reason, err := e.requestReason(ctx, requester, ReasonRequest{
		Task:     current,
		Target:   target,
		Kind:     KindTransition,
		Optional: !target.RequiresReason(),
	})
	if err != nil {
		return task.Task{}, err
	}

	patch, err := PlanTransition(current, target, reason)
	if err != nil {
		return task.Task{}, err
	}

	updated, err := e.updater.UpdateTask(ctx, current.ID, patch)
	if err != nil {
		return task.Task{}, fmt.Errorf("mark task %s as %s: %w", current.ID, target, err)
	}
	return updated, nil
}

// Acknowledge attaches a delay reason to a stale in-progress task without
// changing its status. Tasks that are not stale are refused before the
// requester is consulted.
func (e *Engine) Acknowledge(ctx context.Context, current task.Task, requester ReasonRequester) (task.Task, error) {
	now := e.now()
	if !current.IsStale(now) {
		return task.Task{}, fmt.Errorf("%w: %s", ErrNotStale, current.ID)
	}

	reason, err := e.requestReason(ctx, requester, ReasonRequest{
		Task:   current,
		Target: current.Status,
		Kind:   KindDelay,
	})
	if err != nil {
		return task.Task{}, err
	}

	patch, err := PlanAcknowledge(current, reason, now)
	if err != nil {
		return task.Task{}, err
	}

	updated, err := e.updater.UpdateTask(ctx, current.ID, patch)
	if err != nil {
		return task.Task{}, fmt.Errorf("acknowledge task %s: %w", current.ID, err)
	}
	return updated, nil
}

func (e *Engine) requestReason(ctx context.Context, requester ReasonRequester, req ReasonRequest) (string, error) {
	if requester == nil {
		return "", nil
	}
	reason, ok, err := requester.RequestReason(ctx, req)
	if err != nil {
		return "", fmt.Errorf("request reason: %w", err)
	}
	if !ok {
		return "", nil
	}
	return strings.TrimSpace(reason), nil
}
