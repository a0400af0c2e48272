package task

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestNewCreateRequestDefaults(t *testing.T) {
	req, err := NewCreateRequest("  Write report  ", CreateOptions{})
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	if req.Title != "Write report" {
		t.Fatalf("expected trimmed title, got %q", req.Title)
	}
	if req.Status != StatusInProgress || req.Focus != FocusMedium {
		t.Fatalf("expected defaults, got %+v", req)
	}

	data, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	got := string(data)
	if strings.Contains(got, "description") {
		t.Fatalf("expected empty description omitted, got %s", got)
	}
	if !strings.Contains(got, `"due_date":null`) {
		t.Fatalf("expected null due_date, got %s", got)
	}
}

func TestNewCreateRequestValidation(t *testing.T) {
	tests := []struct {
		name  string
		title string
		opts  CreateOptions
		want  error
	}{
		{name: "empty title", title: "   ", want: ErrEmptyTitle},
		{name: "long title", title: strings.Repeat("a", MaxTitleLength+1), want: ErrTitleTooLong},
		{name: "bad focus", title: "x", opts: CreateOptions{Focus: "urgent"}, want: ErrInvalidFocus},
		{name: "bad status", title: "x", opts: CreateOptions{Status: "pending"}, want: ErrInvalidStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCreateRequest(tt.title, tt.opts)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			var validationErr *ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("expected *ValidationError, got %T", err)
			}
		})
	}
}

func TestNewCreateRequestKeepsDueDate(t *testing.T) {
	due := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	req, err := NewCreateRequest("x", CreateOptions{DueDate: &due, Focus: FocusCritical})
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	data, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"due_date":"2024-06-01T00:00:00Z"`) {
		t.Fatalf("expected due date in payload, got %s", data)
	}
}

func TestPatchMarshalOnlySetFields(t *testing.T) {
	status := StatusPostponed
	patch := Patch{Status: &status, Reason: "  blocked on review "}

	data, err := json.Marshal(patch)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var body map[string]any
	if err := json.Unmarshal(data, &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(body) != 2 {
		t.Fatalf("expected 2 keys, got %v", body)
	}
	if body["status"] != "postponed" || body["reason"] != "blocked on review" {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestPatchMarshalClearsDueDate(t *testing.T) {
	due := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	patch := Patch{DueDate: &due, ClearDueDate: true}

	data, err := json.Marshal(patch)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `{"due_date":null}` {
		t.Fatalf("expected explicit null, got %s", data)
	}
}

func TestPatchFromEdit(t *testing.T) {
	patch := PatchFromEdit("Title", "", FocusHigh, nil)
	if patch.IsEmpty() {
		t.Fatalf("expected non-empty patch")
	}
	if !patch.ClearDueDate {
		t.Fatalf("expected due date cleared")
	}
	if patch.Status != nil {
		t.Fatalf("edit patch must not carry a status")
	}
	if err := patch.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestPatchFromEditOmitsEmptyDescription(t *testing.T) {
	tests := []struct {
		name        string
		description string
		want        string
	}{
		{name: "empty", description: "", want: `{"due_date":null,"focus":"high","title":"Ship release"}`},
		{name: "blank", description: "  \n ", want: `{"due_date":null,"focus":"high","title":"Ship release"}`},
		{name: "text", description: " notes ", want: `{"description":"notes","due_date":null,"focus":"high","title":"Ship release"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(PatchFromEdit("Ship release", tt.description, FocusHigh, nil))
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			if string(data) != tt.want {
				t.Fatalf("got %s, want %s", data, tt.want)
			}
		})
	}
}

func TestPatchValidate(t *testing.T) {
	empty := ""
	if err := (Patch{Title: &empty}).Validate(); !errors.Is(err, ErrEmptyTitle) {
		t.Fatalf("expected ErrEmptyTitle, got %v", err)
	}
	focus := Focus("urgent")
	if err := (Patch{Focus: &focus}).Validate(); !errors.Is(err, ErrInvalidFocus) {
		t.Fatalf("expected ErrInvalidFocus, got %v", err)
	}
	if !(Patch{}).IsEmpty() {
		t.Fatalf("zero patch should be empty")
	}
}
