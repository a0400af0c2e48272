package task

import (
	"encoding/json"
	"strings"
	"time"
)

// Legacy status spellings still emitted by older backends.
const (
	legacyStatusPending    = "pending"
	legacyStatusInprogress = "inprogress"
)

// wireTask mirrors Task with loosely typed enums so that legacy payloads can
// be normalized before the strict types see them.
type wireTask struct {
	ID               string     `json:"id"`
	LegacyID         string     `json:"_id"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	Focus            string     `json:"focus"`
	Status           string     `json:"status"`
	DueDate          *time.Time `json:"due_date"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
	TransitionReason string     `json:"transition_reason"`
	DelayReason      string     `json:"delay_reason"`
}

// UnmarshalJSON decodes a task as returned by any backend revision and
// normalizes it to the canonical schema.
func (t *Task) UnmarshalJSON(data []byte) error {
	var wire wireTask
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	normalized, err := wire.normalize()
	if err != nil {
		return err
	}
	*t = normalized
	return nil
}

func (w wireTask) normalize() (Task, error) {
	status, err := NormalizeStatus(w.Status)
	if err != nil {
		return Task{}, err
	}
	focus, err := NormalizeFocus(w.Focus)
	if err != nil {
		return Task{}, err
	}

	id := w.ID
	if id == "" {
		id = w.LegacyID
	}

	updatedAt := w.UpdatedAt
	if updatedAt.Before(w.CreatedAt) {
		updatedAt = w.CreatedAt
	}

	return Task{
		ID:               id,
		Title:            w.Title,
		Description:      w.Description,
		Focus:            focus,
		Status:           status,
		DueDate:          w.DueDate,
		CreatedAt:        w.CreatedAt,
		UpdatedAt:        updatedAt,
		TransitionReason: w.TransitionReason,
		DelayReason:      w.DelayReason,
	}, nil
}

// NormalizeStatus maps a status read from a backend to the canonical set.
// Legacy spellings map to StatusInProgress and an empty value maps to the
// default. Anything else must already be canonical.
func NormalizeStatus(raw string) (Status, error) {
	value := strings.ToLower(strings.TrimSpace(raw))
	switch value {
	case "":
		return DefaultStatus, nil
	case legacyStatusPending, legacyStatusInprogress:
		return StatusInProgress, nil
	}
	status := Status(value)
	if !status.IsValid() {
		return "", invalidStatus(raw)
	}
	return status, nil
}

// NormalizeFocus maps a focus read from a backend to the canonical set.
func NormalizeFocus(raw string) (Focus, error) {
	value := strings.ToLower(strings.TrimSpace(raw))
	if value == "" {
		return DefaultFocus, nil
	}
	focus := Focus(value)
	if !focus.IsValid() {
		return "", invalidFocus(raw)
	}
	return focus, nil
}
