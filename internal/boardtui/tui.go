// Package boardtui is the interactive task board behind `tt board`.
package boardtui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/amonks/tasktrack/controller"
	"github.com/amonks/tasktrack/lifecycle"
	"github.com/amonks/tasktrack/task"
)

type focusPane int

const (
	focusList focusPane = iota
	focusDetail
)

type statusLevel int

const (
	statusNone statusLevel = iota
	statusInfo
	statusError
)

type modalKind int

const (
	modalNone modalKind = iota
	modalHelp
	modalConfirmDelete
	modalDiscardEdits
	modalReason
	modalFilter
	modalSuggestions
)

var columns = task.ValidStatuses()

type model struct {
	ctx         context.Context
	ctrl        *controller.Controller
	loc         *time.Location
	width       int
	height      int
	column      int
	focus       focusPane
	taskList    list.Model
	detail      taskDetailModel
	modal       modalState
	status      string
	statusLevel statusLevel
	selectedID  string
}

type modalState struct {
	kind        modalKind
	message     string
	confirmText string
	cancelText  string
	selected    int
	input       textinput.Model
	subject     task.Task
	target      task.Status
	reasonKind  lifecycle.ReasonKind
	lines       []string
}

// Run shows the board until the user quits.
func Run(ctx context.Context, ctrl *controller.Controller) error {
	if ctrl == nil {
		return fmt.Errorf("controller is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	program := tea.NewProgram(newModel(ctx, ctrl, time.Local), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

func newModel(ctx context.Context, ctrl *controller.Controller, loc *time.Location) model {
	if loc == nil {
		loc = time.Local
	}
	taskList := list.New(nil, newTaskItemDelegate(), 0, 0)
	taskList.Title = columns[0].Label()
	taskList.SetShowStatusBar(false)
	taskList.SetFilteringEnabled(false)
	taskList.SetShowHelp(false)
	taskList.SetShowPagination(false)

	return model{
		ctx:      ctx,
		ctrl:     ctrl,
		loc:      loc,
		focus:    focusList,
		taskList: taskList,
		detail:   newTaskDetailModel(loc),
		modal:    modalState{kind: modalNone},
	}
}

func (m model) Init() tea.Cmd {
	return m.refreshCmd()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil
	case tasksLoadedMsg:
		m.handleTasksLoaded(msg)
		return m, nil
	case taskSavedMsg:
		m.handleTaskSaved(msg)
		return m, nil
	case taskDeletedMsg:
		m.handleTaskDeleted(msg)
		return m, nil
	case suggestionsMsg:
		m.handleSuggestions(msg)
		return m, nil
	}

	if m.modal.kind != modalNone {
		return m.updateModal(msg)
	}

	if key, ok := msg.(tea.KeyMsg); ok {
		updated, cmd, handled := m.handleKey(key)
		if handled {
			return updated, cmd
		}
		m = updated
	}

	return m, m.updateActivePane(msg)
}

func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading board..."
	}
	contentHeight := max(m.height-3, 1)
	leftWidth, rightWidth := splitWidths(m.width)

	listPane := m.renderPane(m.taskList.View(), leftWidth, contentHeight, m.focus == focusList)
	detailPane := m.renderPane(m.detail.View(), rightWidth, contentHeight, m.focus == focusDetail)
	content := lipgloss.JoinHorizontal(lipgloss.Top, listPane, detailPane)

	view := strings.Join([]string{m.renderTabs(), m.renderTipLine(), content, m.renderStatusLine()}, "\n")
	if m.modal.kind != modalNone {
		view = m.renderModalOverlay(view)
	}
	return view
}

func (m *model) updateActivePane(msg tea.Msg) tea.Cmd {
	if m.focus == focusList {
		var cmd tea.Cmd
		m.taskList, cmd = m.taskList.Update(msg)
		m.updateSelection()
		return cmd
	}

	updated, cmd, saveRequested := m.detail.Update(msg)
	m.detail = updated
	if saveRequested {
		return tea.Batch(cmd, m.saveCmd())
	}
	return cmd
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd, bool) {
	key := msg.String()
	if key == "ctrl+c" {
		return m, tea.Quit, true
	}
	if m.focus == focusDetail {
		if key == "esc" {
			return m.exitDetail(), nil, true
		}
		return m, nil, false
	}

	if updated, cmd, handled := m.handleListNavigation(key); handled {
		return updated, cmd, true
	}

	switch key {
	case "q":
		return m, tea.Quit, true
	case "?":
		m.modal = modalState{kind: modalHelp}
		return m, nil, true
	case "tab", "]":
		updated := m.activateColumn((m.column + 1) % len(columns))
		return updated, nil, true
	case "shift+tab", "[":
		updated := m.activateColumn((m.column - 1 + len(columns)) % len(columns))
		return updated, nil, true
	case "1", "2", "3", "4":
		updated := m.activateColumn(int(key[0] - '1'))
		return updated, nil, true
	case "enter":
		if _, ok := m.currentItem(); ok {
			return m.setFocus(focusDetail), nil, true
		}
		return m, nil, true
	case "c":
		return m.startDraft(), nil, true
	case "r":
		m.setStatus("Refreshing...", statusInfo)
		return m, m.refreshCmd(), true
	case "/":
		return m.openFilter(), nil, true
	case "a":
		m.setStatus("Asking for suggestions...", statusInfo)
		return m, m.suggestionsCmd(), true
	case "s":
		return m.requestTransition(task.StatusInProgress)
	case "d":
		return m.requestTransition(task.StatusDone)
	case "p":
		return m.requestTransition(task.StatusPostponed)
	case "x":
		return m.requestTransition(task.StatusCancelled)
	case "n":
		return m.requestAcknowledge()
	case "D":
		return m.promptDelete(), nil, true
	}

	return m, nil, false
}

func (m model) activateColumn(index int) model {
	if index < 0 || index >= len(columns) || index == m.column {
		return m
	}
	m.column = index
	m.taskList.Title = columns[index].Label()
	m.selectedID = ""
	m.rebuildList()
	return m
}

func (m model) exitDetail() model {
	if m.detail.IsDirty() || m.detail.isDraft {
		m.modal = modalState{
			kind:        modalDiscardEdits,
			message:     "Discard unsaved task changes?",
			confirmText: "Discard",
			cancelText:  "Keep editing",
			selected:    1,
		}
		return m
	}
	return m.setFocus(focusList)
}

func (m model) setFocus(target focusPane) model {
	if m.focus == target {
		return m
	}
	m.focus = target
	if target == focusDetail {
		m.detail.Focus()
	} else {
		m.detail.Blur()
	}
	return m
}

func (m model) startDraft() model {
	if m.column != 0 {
		m = m.activateColumn(0)
	}
	draft := task.Task{Status: task.DefaultStatus, Focus: task.DefaultFocus}
	items := append([]list.Item{taskItem{task: draft, isDraft: true}}, m.withoutDraft(m.taskList.Items())...)
	m.taskList.SetItems(items)
	m.taskList.Select(0)
	m.selectedID = ""
	m.detail.SetTask(draft, true, m.ctrl.Now())
	m.setStatus("Editing new task (ctrl+s to save)", statusInfo)
	return m.setFocus(focusDetail)
}

func (m model) requestTransition(target task.Status) (model, tea.Cmd, bool) {
	item, ok := m.currentItem()
	if !ok || item.isDraft {
		m.setStatus("Select a task first", statusError)
		return m, nil, true
	}
	if !target.RequiresReason() {
		return m, m.transitionCmd(item.task, target, nil), true
	}
	req := lifecycle.ReasonRequest{Task: item.task, Target: target, Kind: lifecycle.KindTransition}
	return m.openReason(item.task, req), nil, true
}

func (m model) requestAcknowledge() (model, tea.Cmd, bool) {
	item, ok := m.currentItem()
	if !ok || item.isDraft {
		m.setStatus("Select a task first", statusError)
		return m, nil, true
	}
	if !item.task.IsStale(m.ctrl.Now()) {
		m.setStatus(fmt.Sprintf("Task %s is not stale", item.task.ID), statusError)
		return m, nil, true
	}
	req := lifecycle.ReasonRequest{Task: item.task, Target: item.task.Status, Kind: lifecycle.KindDelay}
	return m.openReason(item.task, req), nil, true
}

func (m model) openReason(subject task.Task, req lifecycle.ReasonRequest) model {
	input := textinput.New()
	input.Prompt = "> "
	input.Placeholder = "reason"
	input.Width = 48
	input.Focus()
	m.modal = modalState{
		kind:       modalReason,
		message:    req.Prompt(),
		input:      input,
		subject:    subject,
		target:     req.Target,
		reasonKind: req.Kind,
	}
	return m
}

func (m model) openFilter() model {
	input := textinput.New()
	input.Prompt = "/ "
	input.Placeholder = "search title and description"
	input.Width = 48
	input.SetValue(m.ctrl.Filter().Query)
	input.Focus()
	m.modal = modalState{kind: modalFilter, message: "Filter tasks:", input: input}
	return m
}

func (m model) promptDelete() model {
	item, ok := m.currentItem()
	if !ok || item.isDraft {
		m.setStatus("Select a task first", statusError)
		return m
	}
	m.modal = modalState{
		kind:        modalConfirmDelete,
		message:     fmt.Sprintf("Delete task %q?", item.task.Title),
		confirmText: "Delete",
		cancelText:  "Cancel",
		selected:    1,
		subject:     item.task,
	}
	return m
}

func (m *model) updateSelection() {
	now := m.ctrl.Now()
	item, ok := m.currentItem()
	switch {
	case !ok:
		if m.detail.task.ID != "" || m.detail.isDraft {
			m.detail.SetTask(task.Task{}, false, now)
		}
		m.selectedID = ""
	case item.isDraft:
		if !m.detail.isDraft {
			m.detail.SetTask(item.task, true, now)
		}
		m.selectedID = ""
	default:
		m.selectedID = item.task.ID
		if !m.detail.isDraft && m.detail.task.ID == item.task.ID {
			if m.detail.IsDirty() || sameRevision(m.detail.task, item.task) {
				return
			}
		}
		m.detail.SetTask(item.task, false, now)
	}
}

func sameRevision(a, b task.Task) bool {
	return a.Status == b.Status && a.UpdatedAt.Equal(b.UpdatedAt)
}

// rebuildList refills the list from the controller's collection for the
// active column, keeping the selection and any draft.
func (m *model) rebuildList() {
	now := m.ctrl.Now()
	ordered := orderForColumn(m.ctrl.Tasks(), columns[m.column])
	items := make([]list.Item, 0, len(ordered)+1)
	if m.detail.isDraft {
		items = append(items, taskItem{task: m.detail.task, isDraft: true})
	}
	for _, item := range ordered {
		items = append(items, taskItem{task: item, overdue: item.IsOverdue(now), stale: item.IsStale(now)})
	}
	m.taskList.SetItems(items)
	if !m.selectByID(m.selectedID) && len(items) > 0 {
		m.taskList.Select(min(max(m.taskList.Index(), 0), len(items)-1))
	}
	m.updateSelection()
}

func (m *model) handleTasksLoaded(msg tasksLoadedMsg) {
	if errors.Is(msg.err, controller.ErrSuperseded) {
		return
	}
	if msg.err != nil {
		m.setStatus(fmt.Sprintf("Load failed: %v", msg.err), statusError)
		return
	}
	if m.status == "Refreshing..." {
		m.setStatus("", statusNone)
	}
	m.rebuildList()
}

func (m *model) handleTaskSaved(msg taskSavedMsg) {
	if msg.err != nil {
		if lifecycle.IsCancelled(msg.err) {
			m.setStatus(fmt.Sprintf("Cancelled: %v", msg.err), statusError)
			return
		}
		m.setStatus(fmt.Sprintf("%s failed: %v", msg.action, msg.err), statusError)
		return
	}
	if msg.follow {
		m.detail.SetTask(msg.task, false, m.ctrl.Now())
		m.selectedID = msg.task.ID
		for i, status := range columns {
			if status == msg.task.Status {
				m.column = i
				m.taskList.Title = status.Label()
			}
		}
	}
	m.setStatus(fmt.Sprintf("%s %s", msg.action, msg.task.ID), statusInfo)
	m.rebuildList()
}

func (m *model) handleTaskDeleted(msg taskDeletedMsg) {
	if msg.err != nil {
		m.setStatus(fmt.Sprintf("Delete failed: %v", msg.err), statusError)
		return
	}
	m.setStatus(fmt.Sprintf("Deleted %s", msg.id), statusInfo)
	m.selectedID = ""
	m.rebuildList()
}

func (m *model) handleSuggestions(msg suggestionsMsg) {
	lines := msg.suggestions
	if len(lines) == 0 {
		lines = []string{"No suggestions available."}
	}
	m.setStatus("", statusNone)
	m.modal = modalState{kind: modalSuggestions, message: "Suggestions", lines: lines}
}

func (m model) updateModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		if m.modal.kind == modalReason || m.modal.kind == modalFilter {
			var cmd tea.Cmd
			m.modal.input, cmd = m.modal.input.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	switch m.modal.kind {
	case modalHelp, modalSuggestions:
		switch key.String() {
		case "?", "esc", "enter", "q":
			m.modal = modalState{kind: modalNone}
		case "ctrl+c":
			return m, tea.Quit
		}
		return m, nil
	case modalReason, modalFilter:
		return m.updateInputModal(key)
	}

	switch key.String() {
	case "left", "right", "tab", "shift+tab":
		m.modal.selected = 1 - m.modal.selected
		return m, nil
	case "enter":
		return m.resolveModal(m.modal.selected == 0)
	case "esc":
		return m.resolveModal(false)
	case "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m model) updateInputModal(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "esc":
		if m.modal.kind == modalReason {
			m.setStatus("Cancelled", statusInfo)
		}
		m.modal = modalState{kind: modalNone}
		return m, nil
	case "ctrl+c":
		return m, tea.Quit
	case "enter":
		modal := m.modal
		m.modal = modalState{kind: modalNone}
		value := modal.input.Value()
		if modal.kind == modalFilter {
			return m, m.filterCmd(value)
		}
		requester := lifecycle.StaticReason(value)
		if modal.reasonKind == lifecycle.KindDelay {
			return m, m.acknowledgeCmd(modal.subject, requester)
		}
		return m, m.transitionCmd(modal.subject, modal.target, requester)
	}
	var cmd tea.Cmd
	m.modal.input, cmd = m.modal.input.Update(key)
	return m, cmd
}

func (m model) resolveModal(confirm bool) (tea.Model, tea.Cmd) {
	modal := m.modal
	m.modal = modalState{kind: modalNone}
	if !confirm {
		return m, nil
	}
	switch modal.kind {
	case modalConfirmDelete:
		return m, m.deleteCmd(modal.subject.ID)
	case modalDiscardEdits:
		return m.discardEdits(), nil
	default:
		return m, nil
	}
}

func (m model) discardEdits() model {
	if m.detail.isDraft {
		m.taskList.SetItems(m.withoutDraft(m.taskList.Items()))
		m.detail.SetTask(task.Task{}, false, m.ctrl.Now())
		if len(m.taskList.Items()) > 0 {
			m.taskList.Select(0)
		}
		m.selectedID = ""
	} else if item, ok := m.currentItem(); ok {
		m.detail.SetTask(item.task, false, m.ctrl.Now())
	}
	m.detail.Blur()
	m.focus = focusList
	m.updateSelection()
	m.setStatus("Edits discarded", statusInfo)
	return m
}

func (m model) withoutDraft(items []list.Item) []list.Item {
	kept := make([]list.Item, 0, len(items))
	for _, item := range items {
		if current, ok := item.(taskItem); ok && current.isDraft {
			continue
		}
		kept = append(kept, item)
	}
	return kept
}

func (m model) currentItem() (taskItem, bool) {
	item := m.taskList.SelectedItem()
	if item == nil {
		return taskItem{}, false
	}
	current, ok := item.(taskItem)
	return current, ok
}

func (m *model) selectByID(id string) bool {
	if id == "" {
		return false
	}
	for i, item := range m.taskList.Items() {
		current, ok := item.(taskItem)
		if ok && !current.isDraft && current.task.ID == id {
			m.taskList.Select(i)
			return true
		}
	}
	return false
}

func (m model) handleListNavigation(key string) (model, tea.Cmd, bool) {
	items := m.taskList.Items()
	switch key {
	case "up", "k":
		return m.moveSelection(-1, items)
	case "down", "j":
		return m.moveSelection(1, items)
	case "home", "g":
		return m.moveSelection(-len(items), items)
	case "end", "G":
		return m.moveSelection(len(items), items)
	}
	return m, nil, false
}

func (m model) moveSelection(delta int, items []list.Item) (model, tea.Cmd, bool) {
	if len(items) == 0 {
		return m, nil, true
	}
	current := max(m.taskList.Index(), 0)
	next := min(max(current+delta, 0), len(items)-1)
	if next != current {
		m.taskList.Select(next)
		m.updateSelection()
	}
	return m, nil, true
}

func (m *model) resize() {
	contentHeight := max(m.height-3, 1)
	leftWidth, rightWidth := splitWidths(m.width)
	m.taskList.SetSize(max(leftWidth-4, 1), max(contentHeight-2, 1))
	m.detail.SetSize(max(rightWidth-4, 1), max(contentHeight-2, 1))
}

func splitWidths(width int) (int, int) {
	left := width / 2
	if left < 30 {
		left = 30
	}
	if left > width-20 {
		left = width / 2
	}
	right := width - left
	if right < 20 {
		right = 20
		left = width - right
	}
	return left, right
}

func (m model) renderTabs() string {
	counts := map[task.Status]int{}
	for _, item := range m.ctrl.Tasks() {
		counts[item.Status]++
	}
	parts := make([]string, 0, len(columns))
	for i, status := range columns {
		style := tabInactiveStyle
		if i == m.column {
			style = tabActiveStyle
		}
		parts = append(parts, style.Render(fmt.Sprintf("[%d] %s (%d)", i+1, status.Label(), counts[status])))
	}
	content := lipgloss.JoinHorizontal(lipgloss.Top, parts...)
	hint := "Press ? for help"
	if query := m.ctrl.Filter().Query; query != "" {
		hint = fmt.Sprintf("filter: %q", query)
	}
	helpHint := valueMuted.Render(hint)
	spacerWidth := max(m.width-lipgloss.Width(content)-lipgloss.Width(helpHint), 1)
	return tabBarStyle.Width(m.width).Render(content + strings.Repeat(" ", spacerWidth) + helpHint)
}

func (m model) renderTipLine() string {
	report := m.ctrl.Insights()
	text := "Tip: " + report.Tip.Message
	if len(report.Stale) > 0 {
		text += fmt.Sprintf(" | %d stale", len(report.Stale))
	}
	if report.Reminder != "" {
		text += " | " + report.Reminder
	}
	return tipStyle.Render(truncateText(text, m.width))
}

func (m model) renderPane(content string, width, height int, focused bool) string {
	style := paneStyle
	if focused {
		style = paneActiveStyle
	}
	return style.Width(max(width, 0)).Height(max(height, 0)).Render(content)
}

func (m model) renderStatusLine() string {
	text := m.status
	if strings.TrimSpace(text) == "" {
		return valueMuted.Render(truncateText(m.helpSummary(), m.width))
	}
	style := valueMuted
	switch m.statusLevel {
	case statusError:
		style = statusErrorStyle
	case statusInfo:
		style = statusSuccessStyle
	}
	return style.Render(truncateText(text, m.width))
}

func (m model) helpSummary() string {
	if m.focus == focusDetail {
		return "Keys: tab next field | shift+tab prev | ctrl+s save | esc back"
	}
	return "Keys: s start | d done | p postpone | x cancel | n nudge | c new | / filter | ? help | q quit"
}

func (m *model) setStatus(text string, level statusLevel) {
	m.status = text
	m.statusLevel = level
}

func (m model) renderModalOverlay(content string) string {
	if m.modal.kind == modalNone {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.modalView())
}

func (m model) modalView() string {
	switch m.modal.kind {
	case modalHelp:
		return modalStyle.Render(helpContent())
	case modalSuggestions:
		lines := make([]string, 0, len(m.modal.lines)+2)
		lines = append(lines, labelStyle.Render(m.modal.message), "")
		for _, line := range m.modal.lines {
			lines = append(lines, "- "+line)
		}
		return modalStyle.Render(strings.Join(lines, "\n"))
	case modalReason, modalFilter:
		parts := []string{m.modal.message}
		if m.modal.subject.Title != "" {
			parts = append(parts, valueMuted.Render(m.modal.subject.Title))
		}
		parts = append(parts, "", m.modal.input.View(), "", valueMuted.Render("enter submit | esc cancel"))
		return modalStyle.Render(strings.Join(parts, "\n"))
	}

	options := []string{m.modal.confirmText, m.modal.cancelText}
	buttons := make([]string, 0, 2)
	for i, option := range options {
		style := valueMuted
		if i == m.modal.selected {
			style = selectedBorder
		}
		buttons = append(buttons, style.Render("["+option+"]"))
	}
	content := strings.Join([]string{m.modal.message, "", strings.Join(buttons, " ")}, "\n")
	return modalStyle.Render(content)
}

func helpContent() string {
	sections := []string{
		labelStyle.Render("Global"),
		"q or ctrl+c: quit",
		"[ or ] / 1-4 / tab: switch status column",
		"r: refresh",
		"/: filter by text",
		"a: ask for suggestions",
		"?: toggle help",
		"",
		labelStyle.Render("Tasks"),
		"up/down or j/k: move selection",
		"enter: edit selected task",
		"c: create task",
		"s / d: start / done",
		"p / x: postpone / cancel (asks for a reason)",
		"n: explain a stale task",
		"D: delete task",
		"",
		labelStyle.Render("Editing"),
		"tab/shift+tab: next/previous field",
		"ctrl+s: save",
		"esc: back to list",
	}
	return strings.Join(sections, "\n")
}

func (m model) refreshCmd() tea.Cmd {
	return func() tea.Msg {
		return tasksLoadedMsg{err: m.ctrl.Refresh(m.ctx)}
	}
}

func (m model) filterCmd(query string) tea.Cmd {
	return func() tea.Msg {
		filter := m.ctrl.Filter()
		filter.Query = query
		return tasksLoadedMsg{err: m.ctrl.SetFilter(m.ctx, filter)}
	}
}

func (m model) suggestionsCmd() tea.Cmd {
	return func() tea.Msg {
		return suggestionsMsg{suggestions: m.ctrl.Suggestions(m.ctx)}
	}
}

func (m model) transitionCmd(current task.Task, target task.Status, requester lifecycle.ReasonRequester) tea.Cmd {
	return func() tea.Msg {
		updated, err := m.ctrl.Transition(m.ctx, current, target, requester)
		return taskSavedMsg{task: updated, err: err, action: "Marked " + target.Label() + ":"}
	}
}

func (m model) acknowledgeCmd(current task.Task, requester lifecycle.ReasonRequester) tea.Cmd {
	return func() tea.Msg {
		updated, err := m.ctrl.Acknowledge(m.ctx, current, requester)
		return taskSavedMsg{task: updated, err: err, action: "Acknowledged"}
	}
}

func (m model) deleteCmd(id string) tea.Cmd {
	return func() tea.Msg {
		return taskDeletedMsg{id: id, err: m.ctrl.Delete(m.ctx, id)}
	}
}

func (m model) saveCmd() tea.Cmd {
	form, err := m.detail.parseForm()
	if err != nil {
		return func() tea.Msg { return taskSavedMsg{err: err, action: "Save"} }
	}
	if m.detail.isDraft {
		return func() tea.Msg {
			created, err := m.ctrl.Create(m.ctx, form.title, task.CreateOptions{
				Description: form.description,
				Focus:       form.focus,
				DueDate:     form.due,
			})
			return taskSavedMsg{task: created, err: err, action: "Created", follow: true}
		}
	}
	id := m.detail.task.ID
	return func() tea.Msg {
		patch := task.PatchFromEdit(form.title, form.description, form.focus, form.due)
		updated, err := m.ctrl.Update(m.ctx, id, patch)
		return taskSavedMsg{task: updated, err: err, action: "Saved", follow: true}
	}
}

type tasksLoadedMsg struct {
	err error
}

type taskSavedMsg struct {
	task   task.Task
	err    error
	action string
	// follow moves the board to the saved task's column.
	follow bool
}

type taskDeletedMsg struct {
	id  string
	err error
}

type suggestionsMsg struct {
	suggestions []string
}
