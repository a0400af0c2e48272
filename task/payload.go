package task

import (
	"encoding/json"
	"strings"
	"time"
)

// CreateOptions configures a new task.
type CreateOptions struct {
	Description string
	Focus       Focus
	Status      Status
	DueDate     *time.Time
}

// CreateRequest is the body sent to create a task.
type CreateRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Focus       Focus      `json:"focus"`
	Status      Status     `json:"status"`
	DueDate     *time.Time `json:"due_date"`
}

// NewCreateRequest validates input and builds a creation payload with
// defaults applied. An unset due date is sent as null.
func NewCreateRequest(title string, opts CreateOptions) (CreateRequest, error) {
	if err := ValidateTitle(title); err != nil {
		return CreateRequest{}, err
	}

	focus := opts.Focus
	if focus == "" {
		focus = DefaultFocus
	}
	if !focus.IsValid() {
		return CreateRequest{}, invalidFocus(opts.Focus)
	}

	status := opts.Status
	if status == "" {
		status = DefaultStatus
	}
	if !status.IsValid() {
		return CreateRequest{}, invalidStatus(opts.Status)
	}

	var due *time.Time
	if opts.DueDate != nil {
		value := *opts.DueDate
		due = &value
	}

	return CreateRequest{
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(opts.Description),
		Focus:       focus,
		Status:      status,
		DueDate:     due,
	}, nil
}

// Patch is a partial update. Nil fields are left untouched by the backend.
type Patch struct {
	Title       *string
	Description *string
	Focus       *Focus
	Status      *Status

	// Reason is sent as "reason" alongside a status change.
	Reason string

	// DelayReason acknowledges a stale task without changing its status.
	DelayReason string

	DueDate *time.Time
	// ClearDueDate sends an explicit null due date. It wins over DueDate.
	ClearDueDate bool
}

// IsEmpty reports whether the patch would change nothing.
func (p Patch) IsEmpty() bool {
	return p.Title == nil &&
		p.Description == nil &&
		p.Focus == nil &&
		p.Status == nil &&
		p.Reason == "" &&
		p.DelayReason == "" &&
		p.DueDate == nil &&
		!p.ClearDueDate
}

// Validate checks the patch fields that are set.
func (p Patch) Validate() error {
	if p.Title != nil {
		if err := ValidateTitle(*p.Title); err != nil {
			return err
		}
	}
	if p.Focus != nil && !p.Focus.IsValid() {
		return invalidFocus(*p.Focus)
	}
	if p.Status != nil && !p.Status.IsValid() {
		return invalidStatus(*p.Status)
	}
	return nil
}

// MarshalJSON encodes only the fields that are set. An empty description
// is never sent.
func (p Patch) MarshalJSON() ([]byte, error) {
	body := make(map[string]any)
	if p.Title != nil {
		body["title"] = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		if description := strings.TrimSpace(*p.Description); description != "" {
			body["description"] = description
		}
	}
	if p.Focus != nil {
		body["focus"] = *p.Focus
	}
	if p.Status != nil {
		body["status"] = *p.Status
	}
	if reason := strings.TrimSpace(p.Reason); reason != "" {
		body["reason"] = reason
	}
	if delay := strings.TrimSpace(p.DelayReason); delay != "" {
		body["delay_reason"] = delay
	}
	switch {
	case p.ClearDueDate:
		body["due_date"] = nil
	case p.DueDate != nil:
		body["due_date"] = p.DueDate.UTC()
	}
	return json.Marshal(body)
}

// PatchFromEdit builds a field-edit patch that carries every form field,
// matching an edit form that submits the whole task.
func PatchFromEdit(title, description string, focus Focus, due *time.Time) Patch {
	patch := Patch{
		Title:       &title,
		Description: &description,
		Focus:       &focus,
	}
	if due == nil {
		patch.ClearDueDate = true
	} else {
		value := *due
		patch.DueDate = &value
	}
	return patch
}
