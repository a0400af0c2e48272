package editor

import (
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/amonks/tasktrack/task"
)

var testNow = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

func TestRenderTaskTOML_Create(t *testing.T) {
	content, err := RenderTaskTOML(DefaultCreateData())
	if err != nil {
		t.Fatalf("RenderTaskTOML failed: %v", err)
	}

	if !strings.Contains(content, `title = ""`) {
		t.Error("expected empty title")
	}
	if !strings.Contains(content, `focus = "medium"`) {
		t.Error("expected default focus 'medium'")
	}
	if !strings.Contains(content, `due = ""`) {
		t.Error("expected empty due date")
	}
	if !strings.Contains(content, "---") {
		t.Error("expected frontmatter separator")
	}
	if strings.Contains(content, "status is") {
		t.Error("status should not be present for create")
	}
}

func TestRenderTaskTOML_Update(t *testing.T) {
	due := time.Date(2024, 5, 12, 0, 0, 0, 0, time.UTC)
	existing := task.Task{
		ID:          "abc12345",
		Title:       "Write report",
		Focus:       task.FocusCritical,
		Status:      task.StatusPostponed,
		DueDate:     &due,
		Description: "Quarterly numbers",
	}

	content, err := RenderTaskTOML(DataFromTask(existing, time.UTC))
	if err != nil {
		t.Fatalf("RenderTaskTOML failed: %v", err)
	}

	for _, want := range []string{
		`title = "Write report"`,
		`focus = "critical"`,
		`due = "2024-05-12"`,
		"# status is postponed",
		"Quarterly numbers",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("expected %q in %q", want, content)
		}
	}

	parsed, err := ParseTaskTOML(content, testNow, time.UTC)
	if err != nil {
		t.Fatalf("rendered update should parse: %v", err)
	}
	if parsed.Title != existing.Title || parsed.Description != existing.Description {
		t.Fatalf("unexpected round trip %+v", parsed)
	}
}

func TestParseTaskTOML(t *testing.T) {
	content := `
title = "  Call vendor "
focus = "HIGH"
due = "tomorrow"
---
Ask about the invoice
with multiple lines
`

	parsed, err := ParseTaskTOML(content, testNow, time.UTC)
	if err != nil {
		t.Fatalf("ParseTaskTOML failed: %v", err)
	}

	if parsed.Title != "Call vendor" {
		t.Errorf("expected trimmed title, got %q", parsed.Title)
	}
	if parsed.Focus != "high" {
		t.Errorf("expected focus 'high', got %q", parsed.Focus)
	}
	want := time.Date(2024, 5, 11, 0, 0, 0, 0, time.UTC)
	if parsed.DueDate() == nil || !parsed.DueDate().Equal(want) {
		t.Errorf("expected due %v, got %v", want, parsed.DueDate())
	}
	if parsed.Description != "Ask about the invoice\nwith multiple lines" {
		t.Errorf("unexpected description %q", parsed.Description)
	}
}

func TestParseTaskTOML_Defaults(t *testing.T) {
	parsed, err := ParseTaskTOML(`title = "x"`, testNow, time.UTC)
	if err != nil {
		t.Fatalf("ParseTaskTOML failed: %v", err)
	}
	if parsed.Focus != string(task.DefaultFocus) {
		t.Errorf("expected default focus, got %q", parsed.Focus)
	}
	if parsed.DueDate() != nil {
		t.Errorf("expected no due date")
	}
}

func TestParseTaskTOML_Validation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{name: "missing title", content: `focus = "low"`, wantErr: task.ErrEmptyTitle},
		{name: "invalid focus", content: "title = \"x\"\nfocus = \"urgent\"", wantErr: task.ErrInvalidFocus},
		{name: "invalid due", content: "title = \"x\"\ndue = \"someday\"", wantErr: task.ErrInvalidDueDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTaskTOML(tt.content, testNow, time.UTC)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestParseTaskTOML_BadSyntax(t *testing.T) {
	if _, err := ParseTaskTOML("title = ", testNow, time.UTC); err == nil || !strings.Contains(err.Error(), "parse TOML") {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestParsedTaskPatchClearsDueDate(t *testing.T) {
	parsed, err := ParseTaskTOML("title = \"x\"\nfocus = \"low\"\n---\nbody", testNow, time.UTC)
	if err != nil {
		t.Fatalf("ParseTaskTOML failed: %v", err)
	}

	patch := parsed.Patch()
	if !patch.ClearDueDate || patch.DueDate != nil {
		t.Fatalf("expected due date to be cleared, got %+v", patch)
	}
	if patch.Focus == nil || *patch.Focus != task.FocusLow {
		t.Fatalf("expected focus low, got %v", patch.Focus)
	}

	opts := parsed.CreateOptions()
	if opts.Description != "body" || opts.Focus != task.FocusLow {
		t.Fatalf("unexpected create options %+v", opts)
	}
}

func TestCommand(t *testing.T) {
	t.Setenv("VISUAL", "")
	t.Setenv("EDITOR", "code --wait")
	if got := Command(); strings.Join(got, " ") != "code --wait" {
		t.Fatalf("expected EDITOR with args, got %v", got)
	}

	t.Setenv("VISUAL", "nano")
	if got := Command(); strings.Join(got, " ") != "nano" {
		t.Fatalf("expected VISUAL to win, got %v", got)
	}

	t.Setenv("VISUAL", "")
	t.Setenv("EDITOR", "")
	if got := Command(); strings.Join(got, " ") != "vi" {
		t.Fatalf("expected vi fallback, got %v", got)
	}
}

func TestCreateTaskTempFileExtension(t *testing.T) {
	file, err := createTaskTempFile()
	if err != nil {
		t.Fatalf("createTaskTempFile failed: %v", err)
	}
	t.Cleanup(func() {
		file.Close()
		os.Remove(file.Name())
	})

	if !strings.HasSuffix(file.Name(), ".md") {
		t.Errorf("expected temp file to end with .md, got %q", file.Name())
	}
}

func TestEditTaskWithScriptedEditor(t *testing.T) {
	dir := t.TempDir()
	script := dir + "/fake-editor"
	body := "#!/bin/sh\nprintf 'title = \"Edited\"\\nfocus = \"critical\"\\n---\\nnew body\\n' > \"$1\"\n"
	if err := os.WriteFile(script, []byte(body), 0o755); err != nil {
		t.Fatalf("write fake editor: %v", err)
	}
	t.Setenv("VISUAL", "")
	t.Setenv("EDITOR", script)

	parsed, err := EditTask(nil, testNow, time.UTC)
	if err != nil {
		t.Fatalf("EditTask failed: %v", err)
	}
	if parsed.Title != "Edited" || parsed.Focus != "critical" || parsed.Description != "new body" {
		t.Fatalf("unexpected parse %+v", parsed)
	}
}
