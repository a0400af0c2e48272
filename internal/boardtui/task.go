package boardtui

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/amonks/tasktrack/task"
)

type taskItem struct {
	task    task.Task
	isDraft bool
	overdue bool
	stale   bool
}

func (item taskItem) FilterValue() string {
	if item.isDraft {
		return "draft"
	}
	return item.task.Title
}

type taskItemDelegate struct {
	normalStyle   lipgloss.Style
	selectedStyle lipgloss.Style
}

func newTaskItemDelegate() taskItemDelegate {
	return taskItemDelegate{
		normalStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		selectedStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("24")),
	}
}

func (d taskItemDelegate) Height() int                             { return 1 }
func (d taskItemDelegate) Spacing() int                            { return 0 }
func (d taskItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d taskItemDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	item, ok := listItem.(taskItem)
	if !ok {
		return
	}

	line := formatTaskItem(item, m.Width())
	if index == m.Index() {
		fmt.Fprint(w, d.selectedStyle.Render(line))
		return
	}
	style, ok := focusStyles[item.task.Focus]
	if !ok {
		style = d.normalStyle
	}
	fmt.Fprint(w, style.Render(line))
}

func formatTaskItem(item taskItem, width int) string {
	if item.isDraft {
		return truncateText("(new task)", width)
	}
	title := strings.TrimSpace(item.task.Title)
	if title == "" {
		title = "(untitled)"
	}
	marker := " "
	switch {
	case item.overdue:
		marker = "!"
	case item.stale:
		marker = "~"
	}
	line := fmt.Sprintf("%s %-8s %s", marker, item.task.Focus, title)
	return truncateText(line, width)
}

// orderForColumn returns the tasks with status, most urgent focus first,
// then earliest due date, then newest.
func orderForColumn(tasks []task.Task, status task.Status) []task.Task {
	column := make([]task.Task, 0, len(tasks))
	for _, item := range tasks {
		if item.Status == status {
			column = append(column, item)
		}
	}
	sort.SliceStable(column, func(i, j int) bool {
		a, b := column[i], column[j]
		if a.Focus.Rank() != b.Focus.Rank() {
			return a.Focus.Rank() < b.Focus.Rank()
		}
		if (a.DueDate == nil) != (b.DueDate == nil) {
			return a.DueDate != nil
		}
		if a.DueDate != nil && !a.DueDate.Equal(*b.DueDate) {
			return a.DueDate.Before(*b.DueDate)
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
	return column
}

type taskFieldKind int

const (
	fieldTitle taskFieldKind = iota
	fieldDescription
	fieldFocus
	fieldDue
)

type taskField struct {
	kind      taskFieldKind
	label     string
	input     textinput.Model
	textarea  textarea.Model
	multiLine bool
}

func newTaskField(kind taskFieldKind, label string, value string) taskField {
	field := taskField{kind: kind, label: label}
	if kind == fieldDescription {
		area := textarea.New()
		area.SetValue(value)
		area.ShowLineNumbers = false
		area.Prompt = ""
		field.textarea = area
		field.multiLine = true
		return field
	}
	input := textinput.New()
	input.SetValue(value)
	input.Prompt = ""
	switch kind {
	case fieldTitle:
		input.CharLimit = task.MaxTitleLength
	case fieldFocus:
		input.Placeholder = "low, medium, high, critical"
	case fieldDue:
		input.Placeholder = "YYYY-MM-DD or tomorrow"
	}
	field.input = input
	return field
}

func (field taskField) Value() string {
	if field.multiLine {
		return field.textarea.Value()
	}
	return field.input.Value()
}

func (field taskField) Focus() taskField {
	if field.multiLine {
		field.textarea.Focus()
		return field
	}
	field.input.Focus()
	return field
}

func (field taskField) Blur() taskField {
	if field.multiLine {
		field.textarea.Blur()
		return field
	}
	field.input.Blur()
	return field
}

func (field taskField) Update(msg tea.Msg) (taskField, tea.Cmd) {
	var cmd tea.Cmd
	if field.multiLine {
		field.textarea, cmd = field.textarea.Update(msg)
		return field, cmd
	}
	field.input, cmd = field.input.Update(msg)
	return field, cmd
}

func (field taskField) View() string {
	if field.multiLine {
		return field.textarea.View()
	}
	return field.input.View()
}

type taskDetailModel struct {
	task       task.Task
	isDraft    bool
	now        time.Time
	loc        *time.Location
	fields     []taskField
	fieldIndex int
	focused    bool
	dirty      bool
	width      int
	height     int
	viewport   viewport.Model
}

func newTaskDetailModel(loc *time.Location) taskDetailModel {
	return taskDetailModel{viewport: viewport.New(0, 0), loc: loc}
}

func (model *taskDetailModel) SetTask(item task.Task, isDraft bool, now time.Time) {
	wasFocused := model.focused
	model.task = item
	model.isDraft = isDraft
	model.now = now
	model.fields = buildTaskFields(item, model.loc)
	model.sizeFields()
	model.fieldIndex = 0
	model.focused = false
	model.dirty = false
	if wasFocused {
		model.focused = true
		if len(model.fields) > 0 {
			model.fields[model.fieldIndex] = model.fields[model.fieldIndex].Focus()
		}
	}
	model.refreshViewport(true)
}

func (model *taskDetailModel) SetSize(width, height int) {
	model.width = max(width, 0)
	model.height = max(height, 0)
	model.sizeFields()
	model.viewport.Width = model.width
	model.viewport.Height = model.height
	model.refreshViewport(false)
}

func (model *taskDetailModel) sizeFields() {
	if model.width == 0 {
		return
	}
	inputWidth := max(model.width-14, 10)
	for i, field := range model.fields {
		if field.multiLine {
			field.textarea.SetWidth(inputWidth)
			field.textarea.SetHeight(4)
		} else {
			field.input.Width = inputWidth
		}
		model.fields[i] = field
	}
}

func (model *taskDetailModel) Focus() {
	if model.focused {
		return
	}
	model.focused = true
	if len(model.fields) > 0 {
		model.fields[model.fieldIndex] = model.fields[model.fieldIndex].Focus()
	}
	model.refreshViewport(false)
}

func (model *taskDetailModel) Blur() {
	model.focused = false
	for i := range model.fields {
		model.fields[i] = model.fields[i].Blur()
	}
	model.refreshViewport(false)
}

func (model taskDetailModel) IsDirty() bool {
	return model.dirty
}

// Update returns saveRequested=true when the user asked to save.
func (model taskDetailModel) Update(msg tea.Msg) (taskDetailModel, tea.Cmd, bool) {
	if !model.focused {
		return model, nil, false
	}

	var cmd tea.Cmd

	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "tab":
			model = model.advanceField(1)
			return model, nil, false
		case "shift+tab":
			model = model.advanceField(-1)
			return model, nil, false
		case "ctrl+s":
			return model, nil, true
		}
		if updated, cmd, handled := model.handleViewportKey(key); handled {
			return updated, cmd, false
		}
	}

	if _, ok := msg.(tea.MouseMsg); ok {
		model.viewport, cmd = model.viewport.Update(msg)
		return model, cmd, false
	}

	if len(model.fields) == 0 {
		return model, nil, false
	}

	model.fields[model.fieldIndex], cmd = model.fields[model.fieldIndex].Update(msg)
	model.dirty = model.computeDirty()
	model.refreshViewport(false)
	return model, cmd, false
}

func (model taskDetailModel) advanceField(delta int) taskDetailModel {
	if len(model.fields) == 0 {
		return model
	}
	model.fields[model.fieldIndex] = model.fields[model.fieldIndex].Blur()
	model.fieldIndex = (model.fieldIndex + delta + len(model.fields)) % len(model.fields)
	model.fields[model.fieldIndex] = model.fields[model.fieldIndex].Focus()
	model.refreshViewport(false)
	return model
}

func (model taskDetailModel) computeDirty() bool {
	values := model.valuesByKind()
	if strings.TrimSpace(values[fieldTitle]) != strings.TrimSpace(model.task.Title) {
		return true
	}
	if strings.TrimSpace(values[fieldDescription]) != strings.TrimSpace(model.task.Description) {
		return true
	}
	if strings.TrimSpace(values[fieldFocus]) != string(defaultFocus(model.task.Focus)) {
		return true
	}
	return strings.TrimSpace(values[fieldDue]) != task.FormatDueDate(model.task.DueDate, model.loc)
}

func (model taskDetailModel) valuesByKind() map[taskFieldKind]string {
	values := make(map[taskFieldKind]string, len(model.fields))
	for _, field := range model.fields {
		values[field.kind] = field.Value()
	}
	return values
}

func (model taskDetailModel) View() string {
	return model.viewport.View()
}

func (model *taskDetailModel) handleViewportKey(key tea.KeyMsg) (taskDetailModel, tea.Cmd, bool) {
	switch key.String() {
	case "up", "down":
		if model.focused && model.currentFieldIsMultiline() {
			return *model, nil, false
		}
	case "pgup", "pgdown":
	default:
		return *model, nil, false
	}
	var cmd tea.Cmd
	model.viewport, cmd = model.viewport.Update(key)
	return *model, cmd, true
}

func (model taskDetailModel) currentFieldIsMultiline() bool {
	if len(model.fields) == 0 {
		return false
	}
	return model.fields[model.fieldIndex].multiLine
}

func (model *taskDetailModel) refreshViewport(reset bool) {
	model.viewport.SetContent(model.renderContent())
	if reset {
		model.viewport.GotoTop()
	}
}

func (model taskDetailModel) renderContent() string {
	if model.task.ID == "" && !model.isDraft {
		return valueMuted.Render("No task selected")
	}

	lines := make([]string, 0, len(model.fields)+12)
	lines = append(lines, labelStyle.Render("Editable"))
	for _, field := range model.fields {
		if field.kind == fieldDescription {
			lines = append(lines, fmt.Sprintf("%s:", labelStyle.Render(field.label)))
			lines = append(lines, field.View())
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: %s", labelStyle.Render(field.label), field.View()))
	}

	if !model.isDraft {
		lines = append(lines, "")
		lines = append(lines, labelStyle.Render("Read-only"))
		lines = append(lines, formatDetailRow("ID", model.task.ID))
		lines = append(lines, formatDetailRow("Status", model.task.Status.Label()))
		lines = append(lines, formatDetailRow("Created", formatOptionalTime(model.task.CreatedAt, model.loc)))
		lines = append(lines, formatDetailRow("Updated", formatOptionalTime(model.task.UpdatedAt, model.loc)))
		lines = append(lines, formatDetailRow("Reason", model.task.TransitionReason))
		lines = append(lines, formatDetailRow("Delay", model.task.DelayReason))
		if model.task.IsOverdue(model.now) {
			lines = append(lines, statusErrorStyle.Render("Overdue"))
		}
		if model.task.IsStale(model.now) {
			lines = append(lines, warningStyle.Render("Stale: no update in 48h+ (n to explain)"))
		}
	}

	content := strings.Join(lines, "\n")
	width := model.viewport.Width
	if width <= 0 {
		return content
	}
	return lipgloss.NewStyle().Width(width).Render(content)
}

// formValues is the parsed detail form.
type formValues struct {
	title       string
	description string
	focus       task.Focus
	due         *time.Time
}

func (model taskDetailModel) parseForm() (formValues, error) {
	values := model.valuesByKind()
	title := strings.TrimSpace(values[fieldTitle])
	if err := task.ValidateTitle(title); err != nil {
		return formValues{}, err
	}
	focus, err := parseFocus(values[fieldFocus])
	if err != nil {
		return formValues{}, err
	}
	due, err := parseDue(values[fieldDue], model.now, model.loc)
	if err != nil {
		return formValues{}, err
	}
	return formValues{
		title:       title,
		description: strings.TrimSpace(values[fieldDescription]),
		focus:       focus,
		due:         due,
	}, nil
}

func buildTaskFields(item task.Task, loc *time.Location) []taskField {
	return []taskField{
		newTaskField(fieldTitle, "Title", item.Title),
		newTaskField(fieldDescription, "Description", item.Description),
		newTaskField(fieldFocus, "Focus", string(defaultFocus(item.Focus))),
		newTaskField(fieldDue, "Due", task.FormatDueDate(item.DueDate, loc)),
	}
}

func defaultFocus(value task.Focus) task.Focus {
	if value == "" {
		return task.DefaultFocus
	}
	return value
}

func parseFocus(value string) (task.Focus, error) {
	if strings.TrimSpace(value) == "" {
		return task.DefaultFocus, nil
	}
	return task.ParseFocus(value)
}

func parseDue(value string, now time.Time, loc *time.Location) (*time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	due, err := task.ParseDueDate(value, now, loc)
	if err != nil {
		return nil, err
	}
	return &due, nil
}

func formatDetailRow(label, value string) string {
	return fmt.Sprintf("%s: %s", labelStyle.Render(label), valueMuted.Render(valueOrDash(value)))
}

func truncateText(value string, width int) string {
	if width <= 0 {
		return value
	}
	return runewidth.Truncate(value, width, "...")
}

func formatOptionalTime(value time.Time, loc *time.Location) string {
	if value.IsZero() {
		return "-"
	}
	if loc == nil {
		loc = time.Local
	}
	return value.In(loc).Format("2006-01-02 15:04")
}

func valueOrDash(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}
