// Package mcptools exposes the task collection to MCP hosts over stdio.
package mcptools

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/amonks/tasktrack/controller"
	"github.com/amonks/tasktrack/lifecycle"
	"github.com/amonks/tasktrack/task"
)

// ServerName is the implementation name reported to MCP hosts.
const ServerName = "tasktrack"

// NewServer builds an MCP server whose tools read and change tasks through
// ctrl.
func NewServer(ctrl *controller.Controller, version string) *mcp.Server {
	t := &tools{ctrl: ctrl}

	server := mcp.NewServer(&mcp.Implementation{Name: ServerName, Version: version}, nil)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_tasks",
		Description: "List tasks, optionally filtered by text query, status, or focus.",
	}, t.listTasks)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "task_insights",
		Description: "Report the primary tip, the critical-focus reminder, and the stale in-progress tasks.",
	}, t.insights)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "transition_task",
		Description: "Move a task to another status. Postponing or cancelling requires a reason.",
	}, t.transition)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "nudge_task",
		Description: "Record why a stale in-progress task is still unresolved.",
	}, t.nudge)
	return server
}

// Serve runs the MCP server on stdin/stdout until ctx is done or the host
// disconnects.
func Serve(ctx context.Context, ctrl *controller.Controller, version string) error {
	return NewServer(ctrl, version).Run(ctx, &mcp.StdioTransport{})
}

// TaskView is the tool-facing shape of a task. Times are RFC 3339 strings.
type TaskView struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	Description      string `json:"description,omitempty"`
	Focus            string `json:"focus"`
	Status           string `json:"status"`
	DueDate          string `json:"due_date,omitempty"`
	CreatedAt        string `json:"created_at"`
	UpdatedAt        string `json:"updated_at"`
	TransitionReason string `json:"transition_reason,omitempty"`
	DelayReason      string `json:"delay_reason,omitempty"`
	Overdue          bool   `json:"overdue"`
	Stale            bool   `json:"stale"`
}

func viewTask(item task.Task, now time.Time) TaskView {
	view := TaskView{
		ID:               item.ID,
		Title:            item.Title,
		Description:      item.Description,
		Focus:            string(item.Focus),
		Status:           string(item.Status),
		CreatedAt:        item.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:        item.UpdatedAt.UTC().Format(time.RFC3339),
		TransitionReason: item.TransitionReason,
		DelayReason:      item.DelayReason,
		Overdue:          item.IsOverdue(now),
		Stale:            item.IsStale(now),
	}
	if item.DueDate != nil {
		view.DueDate = item.DueDate.UTC().Format(time.RFC3339)
	}
	return view
}

func viewTasks(items []task.Task, now time.Time) []TaskView {
	views := make([]TaskView, 0, len(items))
	for _, item := range items {
		views = append(views, viewTask(item, now))
	}
	return views
}

// ListInput is the list_tasks argument. Empty fields do not filter.
type ListInput struct {
	Query  string `json:"query,omitempty" jsonschema:"case-insensitive text matched against title and description"`
	Status string `json:"status,omitempty" jsonschema:"one of in_progress, postponed, cancelled, done"`
	Focus  string `json:"focus,omitempty" jsonschema:"one of low, medium, high, critical"`
}

// ListOutput is the list_tasks result.
type ListOutput struct {
	Tasks []TaskView `json:"tasks"`
}

// InsightsInput is the task_insights argument.
type InsightsInput struct {
	Suggestions bool `json:"suggestions,omitempty" jsonschema:"also ask the backend for suggestions"`
}

// InsightsOutput is the task_insights result. Suggestions is empty unless
// requested, and stays empty when the backend cannot answer.
type InsightsOutput struct {
	TipKind     string     `json:"tip_kind"`
	Tip         string     `json:"tip"`
	Reminder    string     `json:"reminder,omitempty"`
	Stale       []TaskView `json:"stale"`
	Suggestions []string   `json:"suggestions"`
}

// TransitionInput is the transition_task argument.
type TransitionInput struct {
	ID     string `json:"id" jsonschema:"task ID or unique ID prefix"`
	Status string `json:"status" jsonschema:"target status"`
	Reason string `json:"reason,omitempty" jsonschema:"required when the target is postponed or cancelled"`
}

// NudgeInput is the nudge_task argument.
type NudgeInput struct {
	ID     string `json:"id" jsonschema:"task ID or unique ID prefix"`
	Reason string `json:"reason" jsonschema:"why the task is still in progress"`
}

// TaskOutput carries the task as confirmed by the backend.
type TaskOutput struct {
	Task TaskView `json:"task"`
}

// tools serializes calls so one call's fetch never supersedes another's.
type tools struct {
	mu   sync.Mutex
	ctrl *controller.Controller
}

func (t *tools) listTasks(ctx context.Context, _ *mcp.CallToolRequest, in ListInput) (*mcp.CallToolResult, ListOutput, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	filter := task.Filter{Query: in.Query}
	if in.Status != "" {
		status, err := task.ParseStatus(in.Status)
		if err != nil {
			return nil, ListOutput{}, err
		}
		filter.Status = status
	}
	if in.Focus != "" {
		focus, err := task.ParseFocus(in.Focus)
		if err != nil {
			return nil, ListOutput{}, err
		}
		filter.Focus = focus
	}
	if err := t.ctrl.SetFilter(ctx, filter); err != nil {
		return nil, ListOutput{}, err
	}
	return nil, ListOutput{Tasks: viewTasks(t.ctrl.Tasks(), t.ctrl.Now())}, nil
}

func (t *tools) insights(ctx context.Context, _ *mcp.CallToolRequest, in InsightsInput) (*mcp.CallToolResult, InsightsOutput, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.loadAll(ctx); err != nil {
		return nil, InsightsOutput{}, err
	}
	report := t.ctrl.Insights()
	out := InsightsOutput{
		TipKind:     string(report.Tip.Kind),
		Tip:         report.Tip.Message,
		Reminder:    report.Reminder,
		Stale:       viewTasks(report.Stale, t.ctrl.Now()),
		Suggestions: []string{},
	}
	if in.Suggestions {
		out.Suggestions = t.ctrl.Suggestions(ctx)
	}
	return nil, out, nil
}

func (t *tools) transition(ctx context.Context, _ *mcp.CallToolRequest, in TransitionInput) (*mcp.CallToolResult, TaskOutput, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	target, err := task.ParseStatus(in.Status)
	if err != nil {
		return nil, TaskOutput{}, err
	}
	current, err := t.resolve(ctx, in.ID)
	if err != nil {
		return nil, TaskOutput{}, err
	}
	updated, err := t.ctrl.Transition(ctx, current, target, lifecycle.StaticReason(in.Reason))
	if err != nil {
		return nil, TaskOutput{}, toolError(err)
	}
	return nil, TaskOutput{Task: viewTask(updated, t.ctrl.Now())}, nil
}

func (t *tools) nudge(ctx context.Context, _ *mcp.CallToolRequest, in NudgeInput) (*mcp.CallToolResult, TaskOutput, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	current, err := t.resolve(ctx, in.ID)
	if err != nil {
		return nil, TaskOutput{}, err
	}
	updated, err := t.ctrl.Acknowledge(ctx, current, lifecycle.StaticReason(in.Reason))
	if err != nil {
		return nil, TaskOutput{}, toolError(err)
	}
	return nil, TaskOutput{Task: viewTask(updated, t.ctrl.Now())}, nil
}

// loadAll refreshes the collection without a filter so IDs resolve against
// every task.
func (t *tools) loadAll(ctx context.Context) error {
	return t.ctrl.SetFilter(ctx, task.Filter{})
}

func (t *tools) resolve(ctx context.Context, id string) (task.Task, error) {
	if err := t.loadAll(ctx); err != nil {
		return task.Task{}, err
	}
	return t.ctrl.Resolve(id)
}

func toolError(err error) error {
	var missing *lifecycle.MissingReasonError
	if errors.As(err, &missing) {
		return fmt.Errorf("not changed: %w; pass a reason", err)
	}
	return err
}
