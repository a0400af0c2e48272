// Package controller keeps a client-side task list in step with a backend.
//
// The Controller sequences list, create, update, and delete calls and
// applies their confirmed results to its Collection. Writes are never
// applied optimistically. When list fetches overlap, only the most recently
// issued one may replace the collection.
package controller

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/amonks/tasktrack/insight"
	"github.com/amonks/tasktrack/lifecycle"
	"github.com/amonks/tasktrack/task"
)

// ErrSuperseded is returned by Refresh when a newer fetch was issued before
// this one completed. Its result was discarded.
var ErrSuperseded = errors.New("fetch superseded by a newer request")

// Backend is the subset of the task API the controller needs.
type Backend interface {
	ListTasks(ctx context.Context, filter task.Filter) ([]task.Task, error)
	CreateTask(ctx context.Context, req task.CreateRequest) (task.Task, error)
	UpdateTask(ctx context.Context, id string, patch task.Patch) (task.Task, error)
	DeleteTask(ctx context.Context, id string) error
}

// Options configures a Controller.
type Options struct {
	Logger    *log.Logger
	Now       func() time.Time
	Suggester insight.Suggester
}

// State is a point-in-time view of the controller.
type State struct {
	Tasks   []task.Task
	Filter  task.Filter
	Loading bool
	// Err is the most recent list failure. Tasks still holds the last good
	// list when it is set.
	Err         error
	RefreshedAt time.Time
}

// Controller owns the task collection.
type Controller struct {
	backend   Backend
	engine    *lifecycle.Engine
	logger    *log.Logger
	now       func() time.Time
	suggester insight.Suggester

	mu          sync.Mutex
	collection  *Collection
	filter      task.Filter
	loading     bool
	lastErr     error
	refreshedAt time.Time
	fetchSeq    uint64
	cancelFetch context.CancelFunc
	// landed holds writes confirmed while a fetch was in flight. They are
	// replayed over that fetch's result, which may predate them.
	landed []landedWrite
}

type landedWrite struct {
	// seq is the fetch that was in flight when the write was confirmed.
	seq   uint64
	apply func(*Collection)
}

// New returns a Controller over backend with an empty collection.
func New(backend Backend, opts Options) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Controller{
		backend:    backend,
		engine:     lifecycle.NewEngine(backend, lifecycle.Options{Now: now}),
		logger:     logger,
		now:        now,
		suggester:  opts.Suggester,
		collection: NewCollection(nil),
	}
}

// Snapshot returns the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{
		Tasks:       c.collection.Tasks(),
		Filter:      c.filter,
		Loading:     c.loading,
		Err:         c.lastErr,
		RefreshedAt: c.refreshedAt,
	}
}

// Tasks returns the current task list.
func (c *Controller) Tasks() []task.Task {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.collection.Tasks()
}

// Filter returns the active filter.
func (c *Controller) Filter() task.Filter {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter
}

// SetFilter replaces the active filter and fetches with it.
func (c *Controller) SetFilter(ctx context.Context, filter task.Filter) error {
	if err := filter.Validate(); err != nil {
		return err
	}
	filter.Query = strings.TrimSpace(filter.Query)
	c.mu.Lock()
	c.filter = filter
	c.mu.Unlock()
	return c.Refresh(ctx)
}

// Refresh fetches the list for the active filter. Issuing a new fetch
// cancels any fetch still in flight; a fetch that was overtaken returns
// ErrSuperseded and leaves the collection alone. Writes confirmed while the
// fetch was in flight are reapplied over its result. On failure the
// previous list is kept and the error recorded.
func (c *Controller) Refresh(ctx context.Context) error {
	c.mu.Lock()
	c.fetchSeq++
	seq := c.fetchSeq
	if c.cancelFetch != nil {
		c.cancelFetch()
	}
	fetchCtx, cancel := context.WithCancel(ctx)
	c.cancelFetch = cancel
	filter := c.filter
	c.loading = true
	c.mu.Unlock()

	tasks, err := c.backend.ListTasks(fetchCtx, filter)

	c.mu.Lock()
	defer c.mu.Unlock()
	cancel()
	if seq != c.fetchSeq {
		return ErrSuperseded
	}
	c.cancelFetch = nil
	c.loading = false
	landed := c.landed
	c.landed = nil
	if err != nil {
		c.lastErr = err
		c.logger.Printf("list tasks failed: %v", err)
		return fmt.Errorf("list tasks: %w", err)
	}
	c.collection.ReplaceAll(tasks)
	for _, write := range landed {
		// Earlier writes were confirmed before this fetch was issued, so its
		// result already reflects them.
		if write.seq >= seq {
			write.apply(c.collection)
		}
	}
	c.lastErr = nil
	c.refreshedAt = c.now()
	return nil
}

// Find returns a task from the collection by exact ID.
func (c *Controller) Find(id string) (task.Task, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	item, ok := c.collection.Find(id)
	if !ok {
		return task.Task{}, fmt.Errorf("%w: %s", task.ErrTaskNotFound, id)
	}
	return item, nil
}

// Resolve returns the task whose ID starts with prefix.
func (c *Controller) Resolve(prefix string) (task.Task, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id, err := task.NewIDIndex(c.collection.tasks).Resolve(strings.TrimSpace(prefix))
	if err != nil {
		return task.Task{}, err
	}
	item, _ := c.collection.Find(id)
	return item, nil
}

// Create validates input, creates the task, and prepends the confirmed
// result.
func (c *Controller) Create(ctx context.Context, title string, opts task.CreateOptions) (task.Task, error) {
	req, err := task.NewCreateRequest(title, opts)
	if err != nil {
		return task.Task{}, err
	}
	created, err := c.backend.CreateTask(ctx, req)
	if err != nil {
		return task.Task{}, fmt.Errorf("create task: %w", err)
	}
	c.applyWrite(func(col *Collection) { col.ApplyCreated(created) })
	c.logger.Printf("created task %s", created.ID)
	return created, nil
}

// Update sends a field edit. A patch that moves the task into a state that
// needs a reason must carry one.
func (c *Controller) Update(ctx context.Context, id string, patch task.Patch) (task.Task, error) {
	if err := patch.Validate(); err != nil {
		return task.Task{}, err
	}
	if patch.Status != nil && patch.Status.RequiresReason() && strings.TrimSpace(patch.Reason) == "" {
		return task.Task{}, &lifecycle.MissingReasonError{TaskID: id, Target: *patch.Status, Kind: lifecycle.KindTransition}
	}
	updated, err := c.backend.UpdateTask(ctx, id, patch)
	if err != nil {
		return task.Task{}, fmt.Errorf("update task %s: %w", id, err)
	}
	c.apply(updated)
	return updated, nil
}

// Transition moves a task to target, asking requester for a reason when the
// target needs one.
func (c *Controller) Transition(ctx context.Context, current task.Task, target task.Status, requester lifecycle.ReasonRequester) (task.Task, error) {
	updated, err := c.engine.Transition(ctx, current, target, requester)
	if err != nil {
		return task.Task{}, err
	}
	c.apply(updated)
	c.logger.Printf("task %s is now %s", updated.ID, updated.Status)
	return updated, nil
}

// Acknowledge attaches a delay reason to a stale task.
func (c *Controller) Acknowledge(ctx context.Context, current task.Task, requester lifecycle.ReasonRequester) (task.Task, error) {
	updated, err := c.engine.Acknowledge(ctx, current, requester)
	if err != nil {
		return task.Task{}, err
	}
	c.apply(updated)
	return updated, nil
}

// Delete removes a task and drops it from the collection once confirmed.
func (c *Controller) Delete(ctx context.Context, id string) error {
	if err := c.backend.DeleteTask(ctx, id); err != nil {
		return fmt.Errorf("delete task %s: %w", id, err)
	}
	c.applyWrite(func(col *Collection) { col.ApplyDeleted(id) })
	c.logger.Printf("deleted task %s", id)
	return nil
}

// Insights analyzes the current collection.
func (c *Controller) Insights() insight.Report {
	tasks := c.Tasks()
	return insight.Analyze(tasks, c.now())
}

// Suggestions asks the configured suggester about the current collection.
// It returns an empty list when no suggester is configured or the call
// fails.
func (c *Controller) Suggestions(ctx context.Context) []string {
	if c.suggester == nil {
		return []string{}
	}
	return insight.Suggestions(ctx, c.suggester, c.Tasks(), c.logger)
}

// Now returns the controller's clock reading.
func (c *Controller) Now() time.Time {
	return c.now()
}

func (c *Controller) apply(updated task.Task) {
	c.applyWrite(func(col *Collection) { col.ApplyUpdated(updated) })
}

// applyWrite applies a confirmed write and, while a fetch is in flight,
// remembers it so the fetch's result cannot erase it.
func (c *Controller) applyWrite(fn func(*Collection)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(c.collection)
	if c.loading {
		c.landed = append(c.landed, landedWrite{seq: c.fetchSeq, apply: fn})
	}
}
