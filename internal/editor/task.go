package editor

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"text/template"
	"time"

	"github.com/BurntSushi/toml"

	internalstrings "github.com/amonks/tasktrack/internal/strings"
	"github.com/amonks/tasktrack/task"
)

// TaskData represents the data used to render the TOML template.
type TaskData struct {
	// IsUpdate is true when editing an existing task.
	IsUpdate bool
	// Status is shown read-only when editing.
	Status string
	Title  string
	Focus  string
	// Due is the due date in the form accepted by task.ParseDueDate.
	Due         string
	Description string
}

// DefaultCreateData returns TaskData with default values for creating a new task.
func DefaultCreateData() TaskData {
	return TaskData{Focus: string(task.DefaultFocus)}
}

// DataFromTask creates TaskData from an existing task for editing.
func DataFromTask(item task.Task, loc *time.Location) TaskData {
	return TaskData{
		IsUpdate:    true,
		Status:      string(item.Status),
		Title:       item.Title,
		Focus:       string(item.Focus),
		Due:         task.FormatDueDate(item.DueDate, loc),
		Description: item.Description,
	}
}

var taskTemplate = template.Must(template.New("task").Parse(`title = {{ printf "%q" .Title }}
focus = {{ printf "%q" .Focus }} # low, medium, high, critical
due = {{ printf "%q" .Due }} # YYYY-MM-DD, YYYY-MM-DDTHH:MM, today, tomorrow; empty for none
{{- if .IsUpdate }}
# status is {{ .Status }}; change it with tt start, done, postpone, or cancel
{{- end }}
---
{{ .Description }}
`))

// RenderTaskTOML renders the task data as a TOML string for editing.
func RenderTaskTOML(data TaskData) (string, error) {
	var buf bytes.Buffer
	if err := taskTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render template: %w", err)
	}
	return buf.String(), nil
}

// ParsedTask represents the parsed result from the TOML editor output.
type ParsedTask struct {
	Title       string `toml:"title"`
	Focus       string `toml:"focus"`
	Due         string `toml:"due"`
	Description string `toml:"-"`

	focus   task.Focus
	dueDate *time.Time
}

// ParseTaskTOML parses the TOML content from the editor. Due dates resolve
// relative to now in loc.
func ParseTaskTOML(content string, now time.Time, loc *time.Location) (*ParsedTask, error) {
	frontmatter, body := splitFrontmatter(internalstrings.NormalizeNewlines(content))

	var parsed ParsedTask
	if _, err := toml.Decode(frontmatter, &parsed); err != nil {
		return nil, fmt.Errorf("parse TOML: %w", err)
	}
	parsed.Title = strings.TrimSpace(parsed.Title)
	parsed.Description = strings.TrimSpace(body)

	if err := task.ValidateTitle(parsed.Title); err != nil {
		return nil, err
	}

	parsed.focus = task.DefaultFocus
	if strings.TrimSpace(parsed.Focus) != "" {
		focus, err := task.ParseFocus(parsed.Focus)
		if err != nil {
			return nil, err
		}
		parsed.focus = focus
	}
	parsed.Focus = string(parsed.focus)

	if strings.TrimSpace(parsed.Due) != "" {
		due, err := task.ParseDueDate(parsed.Due, now, loc)
		if err != nil {
			return nil, err
		}
		parsed.dueDate = &due
	}

	return &parsed, nil
}

// DueDate returns the parsed due date, or nil when none was given.
func (p *ParsedTask) DueDate() *time.Time {
	return p.dueDate
}

func splitFrontmatter(content string) (string, string) {
	content = strings.TrimLeft(content, "\n")
	if content == "" {
		return "", ""
	}

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) == "---" {
			return strings.Join(lines[:i], "\n"), strings.Join(lines[i+1:], "\n")
		}
	}
	return content, ""
}

func createTaskTempFile() (*os.File, error) {
	return os.CreateTemp("", "tt-task-*.md")
}

// EditTask opens the editor for a task and returns the parsed result.
// Pass nil to start from an empty create form.
func EditTask(existing *task.Task, now time.Time, loc *time.Location) (*ParsedTask, error) {
	data := DefaultCreateData()
	if existing != nil {
		data = DataFromTask(*existing, loc)
	}
	return EditTaskWithData(data, now, loc)
}

// EditTaskWithData opens the editor with pre-populated data and returns the parsed result.
func EditTaskWithData(data TaskData, now time.Time, loc *time.Location) (*ParsedTask, error) {
	content, err := RenderTaskTOML(data)
	if err != nil {
		return nil, err
	}

	tmpfile, err := createTaskTempFile()
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpfile.Name()
	defer os.Remove(tmpPath)

	if _, err := tmpfile.WriteString(content); err != nil {
		tmpfile.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if err := tmpfile.Close(); err != nil {
		return nil, fmt.Errorf("close temp file: %w", err)
	}

	if err := Edit(tmpPath); err != nil {
		return nil, err
	}

	edited, err := os.ReadFile(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("read edited file: %w", err)
	}

	return ParseTaskTOML(string(edited), now, loc)
}

// CreateOptions converts the parsed form into task.CreateOptions.
func (p *ParsedTask) CreateOptions() task.CreateOptions {
	return task.CreateOptions{
		Description: p.Description,
		Focus:       p.focus,
		DueDate:     p.dueDate,
	}
}

// Patch converts the parsed form into a full-field edit patch. An empty due
// date clears the task's due date.
func (p *ParsedTask) Patch() task.Patch {
	return task.PatchFromEdit(p.Title, p.Description, p.focus, p.dueDate)
}
