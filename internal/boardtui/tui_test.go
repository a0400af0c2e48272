package boardtui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/amonks/tasktrack/controller"
	"github.com/amonks/tasktrack/task"
)

const (
	boardWidth  = 110
	boardHeight = 28
)

var boardNow = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

type memoryBackend struct {
	mu      sync.Mutex
	tasks   []task.Task
	nextID  int
	patches []task.Patch
	listErr error
}

func (b *memoryBackend) ListTasks(_ context.Context, filter task.Filter) ([]task.Task, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.listErr != nil {
		return nil, b.listErr
	}
	out := make([]task.Task, 0, len(b.tasks))
	for _, item := range b.tasks {
		if filter.Matches(item) {
			out = append(out, item)
		}
	}
	return out, nil
}

func (b *memoryBackend) CreateTask(_ context.Context, req task.CreateRequest) (task.Task, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	created := task.Task{
		ID:          fmt.Sprintf("new%d", b.nextID),
		Title:       req.Title,
		Description: req.Description,
		Focus:       req.Focus,
		Status:      req.Status,
		DueDate:     req.DueDate,
		CreatedAt:   boardNow,
		UpdatedAt:   boardNow,
	}
	b.tasks = append([]task.Task{created}, b.tasks...)
	return created, nil
}

func (b *memoryBackend) UpdateTask(_ context.Context, id string, patch task.Patch) (task.Task, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.patches = append(b.patches, patch)
	for i, item := range b.tasks {
		if item.ID != id {
			continue
		}
		if patch.Title != nil {
			item.Title = *patch.Title
		}
		if patch.Description != nil {
			item.Description = *patch.Description
		}
		if patch.Focus != nil {
			item.Focus = *patch.Focus
		}
		if patch.Status != nil {
			item.Status = *patch.Status
			item.TransitionReason = patch.Reason
		}
		if patch.DelayReason != "" {
			item.DelayReason = patch.DelayReason
		}
		item.UpdatedAt = boardNow
		b.tasks[i] = item
		return item, nil
	}
	return task.Task{}, task.ErrTaskNotFound
}

func (b *memoryBackend) DeleteTask(_ context.Context, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, item := range b.tasks {
		if item.ID == id {
			b.tasks = append(b.tasks[:i], b.tasks[i+1:]...)
			return nil
		}
	}
	return task.ErrTaskNotFound
}

func seedTasks() []task.Task {
	overdue := boardNow.Add(-24 * time.Hour)
	return []task.Task{
		{
			ID:          "aaa111",
			Title:       "Write report",
			Description: "Quarterly numbers.",
			Focus:       task.FocusCritical,
			Status:      task.StatusInProgress,
			DueDate:     &overdue,
			CreatedAt:   boardNow.Add(-72 * time.Hour),
			UpdatedAt:   boardNow.Add(-72 * time.Hour),
		},
		{
			ID:        "bbb222",
			Title:     "Call vendor",
			Focus:     task.FocusLow,
			Status:    task.StatusInProgress,
			CreatedAt: boardNow.Add(-2 * time.Hour),
			UpdatedAt: boardNow.Add(-2 * time.Hour),
		},
		{
			ID:               "ccc333",
			Title:            "Plan offsite",
			Focus:            task.FocusMedium,
			Status:           task.StatusPostponed,
			TransitionReason: "after launch",
			CreatedAt:        boardNow.Add(-5 * time.Hour),
			UpdatedAt:        boardNow.Add(-5 * time.Hour),
		},
	}
}

func newTestBoard(t *testing.T) (model, *memoryBackend) {
	t.Helper()
	useASCIIRenderer(t)

	backend := &memoryBackend{tasks: seedTasks()}
	ctrl := controller.New(backend, controller.Options{Now: func() time.Time { return boardNow }})
	m := newModel(context.Background(), ctrl, time.UTC)
	m = send(t, m, tea.WindowSizeMsg{Width: boardWidth, Height: boardHeight})
	m = run(t, m, m.Init())
	return m, backend
}

func useASCIIRenderer(t *testing.T) {
	originalProfile := lipgloss.ColorProfile()
	lipgloss.SetColorProfile(termenv.Ascii)
	t.Cleanup(func() {
		lipgloss.SetColorProfile(originalProfile)
	})
}

// send delivers msg and runs any resulting command synchronously.
func send(t *testing.T, m model, msg tea.Msg) model {
	t.Helper()
	updated, cmd := m.Update(msg)
	return run(t, updated.(model), cmd)
}

// run executes cmd and feeds board messages back into the model. Commands
// that do not finish promptly, like cursor blinks, are dropped.
func run(t *testing.T, m model, cmd tea.Cmd) model {
	t.Helper()
	if cmd == nil {
		return m
	}
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()

	var msg tea.Msg
	select {
	case msg = <-done:
	case <-time.After(100 * time.Millisecond):
		return m
	}
	switch msg := msg.(type) {
	case tasksLoadedMsg, taskSavedMsg, taskDeletedMsg, suggestionsMsg:
		return send(t, m, msg)
	case tea.BatchMsg:
		for _, inner := range msg {
			m = run(t, m, inner)
		}
	}
	return m
}

func keys(t *testing.T, m model, values ...string) model {
	t.Helper()
	for _, value := range values {
		var msg tea.KeyMsg
		switch value {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case "ctrl+s":
			msg = tea.KeyMsg{Type: tea.KeyCtrlS}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "left":
			msg = tea.KeyMsg{Type: tea.KeyLeft}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(value)}
		}
		m = send(t, m, msg)
	}
	return m
}

func TestBoardShowsInProgressColumnByUrgency(t *testing.T) {
	m, _ := newTestBoard(t)

	view := m.View()
	for _, want := range []string{"[1] In Progress (2)", "[2] Postponed (1)", "Write report", "Call vendor", "Quarterly numbers."} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q in view:\n%s", want, view)
		}
	}
	if strings.Contains(view, "Plan offsite") {
		t.Fatalf("postponed task should not be in the in-progress column:\n%s", view)
	}
	if !strings.Contains(view, "You have 1 critical overdue task(s). Tackle them first.") {
		t.Fatalf("expected overdue tip in view:\n%s", view)
	}
	if !strings.Contains(view, "1 stale") {
		t.Fatalf("expected stale count in view:\n%s", view)
	}
	if !strings.Contains(view, "Focus on 1 critical task first.") {
		t.Fatalf("expected critical reminder in view:\n%s", view)
	}

	item, ok := m.currentItem()
	if !ok || item.task.ID != "aaa111" || !item.overdue {
		t.Fatalf("expected the overdue critical task selected first, got %+v", item)
	}
}

func TestBoardSwitchesColumns(t *testing.T) {
	m, _ := newTestBoard(t)

	m = keys(t, m, "2")
	view := m.View()
	if !strings.Contains(view, "Plan offsite") || !strings.Contains(view, "after launch") {
		t.Fatalf("expected postponed task and its reason:\n%s", view)
	}
	if strings.Contains(view, "Call vendor") {
		t.Fatalf("in-progress task should be hidden:\n%s", view)
	}
}

func TestBoardDoneNeedsNoReason(t *testing.T) {
	m, backend := newTestBoard(t)

	m = keys(t, m, "d")

	if len(backend.patches) != 1 {
		t.Fatalf("expected one update, got %d", len(backend.patches))
	}
	if patch := backend.patches[0]; patch.Status == nil || *patch.Status != task.StatusDone {
		t.Fatalf("expected done patch, got %+v", patch)
	}
	if !strings.Contains(m.status, "Marked Done") {
		t.Fatalf("unexpected status %q", m.status)
	}
	if item, _ := m.currentItem(); item.task.ID != "bbb222" {
		t.Fatalf("expected selection to move to the remaining task, got %q", item.task.ID)
	}
}

func TestBoardPostponeAsksForReason(t *testing.T) {
	m, backend := newTestBoard(t)

	m = keys(t, m, "p")
	if m.modal.kind != modalReason {
		t.Fatalf("expected reason modal")
	}
	if !strings.Contains(m.View(), "Provide a reason for marking this task as postponed:") {
		t.Fatalf("expected reason prompt:\n%s", m.View())
	}

	m = keys(t, m, "waiting on data", "enter")

	if len(backend.patches) != 1 || backend.patches[0].Reason != "waiting on data" {
		t.Fatalf("expected postpone with reason, got %+v", backend.patches)
	}
	if m.modal.kind != modalNone {
		t.Fatalf("expected modal closed")
	}
}

func TestBoardEmptyReasonCancelsWithoutRequest(t *testing.T) {
	m, backend := newTestBoard(t)

	m = keys(t, m, "x", "enter")

	if len(backend.patches) != 0 {
		t.Fatalf("expected no request, got %+v", backend.patches)
	}
	if !strings.HasPrefix(m.status, "Cancelled:") || m.statusLevel != statusError {
		t.Fatalf("expected cancelled status, got %q", m.status)
	}
}

func TestBoardEscapeCancelsReason(t *testing.T) {
	m, backend := newTestBoard(t)

	m = keys(t, m, "p", "later", "esc")

	if len(backend.patches) != 0 || m.status != "Cancelled" {
		t.Fatalf("expected cancel without request, status %q patches %d", m.status, len(backend.patches))
	}
}

func TestBoardNudgeStaleTask(t *testing.T) {
	m, backend := newTestBoard(t)

	m = keys(t, m, "n", "blocked on review", "enter")

	if len(backend.patches) != 1 || backend.patches[0].DelayReason != "blocked on review" {
		t.Fatalf("expected delay reason patch, got %+v", backend.patches)
	}
	if backend.patches[0].Status != nil {
		t.Fatalf("acknowledging must not change status")
	}
}

func TestBoardNudgeFreshTaskIsRefused(t *testing.T) {
	m, backend := newTestBoard(t)

	m = keys(t, m, "down", "n")

	if m.modal.kind != modalNone || len(backend.patches) != 0 {
		t.Fatalf("expected refusal without modal or request")
	}
	if !strings.Contains(m.status, "not stale") {
		t.Fatalf("unexpected status %q", m.status)
	}
}

func TestBoardCreateDraft(t *testing.T) {
	m, backend := newTestBoard(t)

	m = keys(t, m, "c")
	if m.focus != focusDetail || !m.detail.isDraft {
		t.Fatalf("expected draft in detail pane")
	}
	m = keys(t, m, "Book flights", "ctrl+s")

	if len(backend.tasks) != 4 || backend.tasks[0].Title != "Book flights" {
		t.Fatalf("expected created task, got %+v", backend.tasks)
	}
	if m.detail.isDraft || m.detail.task.ID != "new1" {
		t.Fatalf("expected detail to show created task, got %+v", m.detail.task)
	}
	if !strings.Contains(m.View(), "[1] In Progress (3)") {
		t.Fatalf("expected new task counted:\n%s", m.View())
	}
}

func TestBoardDraftRequiresTitle(t *testing.T) {
	m, backend := newTestBoard(t)

	m = keys(t, m, "c", "ctrl+s")

	if len(backend.tasks) != 3 {
		t.Fatalf("expected no create")
	}
	if !strings.Contains(m.status, "Save failed") {
		t.Fatalf("unexpected status %q", m.status)
	}
}

func TestBoardDiscardDraft(t *testing.T) {
	m, _ := newTestBoard(t)

	m = keys(t, m, "c", "esc")
	if m.modal.kind != modalDiscardEdits {
		t.Fatalf("expected discard modal")
	}
	m = keys(t, m, "left", "enter")

	if m.detail.isDraft || m.focus != focusList {
		t.Fatalf("expected draft discarded")
	}
	for _, item := range m.taskList.Items() {
		if item.(taskItem).isDraft {
			t.Fatalf("draft still listed")
		}
	}
}

func TestBoardEditSendsFullPatch(t *testing.T) {
	m, backend := newTestBoard(t)

	m = keys(t, m, "enter", " (final)", "ctrl+s")

	if len(backend.patches) != 1 {
		t.Fatalf("expected one update, got %d", len(backend.patches))
	}
	patch := backend.patches[0]
	if patch.Title == nil || *patch.Title != "Write report (final)" {
		t.Fatalf("unexpected title patch %+v", patch.Title)
	}
	if patch.Status != nil {
		t.Fatalf("edits must not send a status")
	}
}

func TestBoardDeleteConfirms(t *testing.T) {
	m, backend := newTestBoard(t)

	m = keys(t, m, "D")
	if m.modal.kind != modalConfirmDelete {
		t.Fatalf("expected confirm modal")
	}
	m = keys(t, m, "enter")
	if len(backend.tasks) != 3 {
		t.Fatalf("default button should cancel")
	}

	m = keys(t, m, "D", "left", "enter")
	if len(backend.tasks) != 2 {
		t.Fatalf("expected task deleted, got %d tasks", len(backend.tasks))
	}
	if !strings.Contains(m.status, "Deleted aaa111") {
		t.Fatalf("unexpected status %q", m.status)
	}
}

func TestBoardFilter(t *testing.T) {
	m, _ := newTestBoard(t)

	m = keys(t, m, "/", "vendor", "enter")

	if got := m.ctrl.Filter().Query; got != "vendor" {
		t.Fatalf("expected filter applied, got %q", got)
	}
	view := m.View()
	if strings.Contains(view, "Write report") || !strings.Contains(view, "Call vendor") {
		t.Fatalf("expected filtered list:\n%s", view)
	}
	if !strings.Contains(view, `filter: "vendor"`) {
		t.Fatalf("expected filter hint:\n%s", view)
	}
}

func TestBoardLoadFailureKeepsList(t *testing.T) {
	m, backend := newTestBoard(t)

	backend.mu.Lock()
	backend.listErr = errors.New("connection refused")
	backend.mu.Unlock()
	m = keys(t, m, "r")

	if !strings.Contains(m.status, "connection refused") {
		t.Fatalf("unexpected status %q", m.status)
	}
	if len(m.taskList.Items()) != 2 {
		t.Fatalf("expected previous list kept, got %d items", len(m.taskList.Items()))
	}
}

func TestBoardSuggestionsWithoutSuggester(t *testing.T) {
	m, _ := newTestBoard(t)

	m = keys(t, m, "a")

	if m.modal.kind != modalSuggestions || !strings.Contains(m.View(), "No suggestions available.") {
		t.Fatalf("expected empty suggestions modal:\n%s", m.View())
	}
}

func TestOrderForColumn(t *testing.T) {
	due := boardNow
	later := boardNow.Add(time.Hour)
	tasks := []task.Task{
		{ID: "low", Focus: task.FocusLow, Status: task.StatusInProgress},
		{ID: "high-later", Focus: task.FocusHigh, Status: task.StatusInProgress, DueDate: &later},
		{ID: "high-none", Focus: task.FocusHigh, Status: task.StatusInProgress},
		{ID: "high-soon", Focus: task.FocusHigh, Status: task.StatusInProgress, DueDate: &due},
		{ID: "done", Focus: task.FocusCritical, Status: task.StatusDone},
	}

	got := task.IDs(orderForColumn(tasks, task.StatusInProgress))

	want := "high-soon,high-later,high-none,low"
	if strings.Join(got, ",") != want {
		t.Fatalf("expected %s, got %v", want, got)
	}
}
