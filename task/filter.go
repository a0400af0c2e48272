package task

import (
	"net/url"
	"strings"
)

// Filter narrows a task listing. Empty fields match everything.
type Filter struct {
	Query  string
	Status Status
	Focus  Focus
}

// Validate checks that status and focus, when set, are defined values.
func (f Filter) Validate() error {
	if f.Status != "" && !f.Status.IsValid() {
		return invalidStatus(f.Status)
	}
	if f.Focus != "" && !f.Focus.IsValid() {
		return invalidFocus(f.Focus)
	}
	return nil
}

// Values encodes the filter as query parameters, omitting empty values.
func (f Filter) Values() url.Values {
	values := url.Values{}
	if query := strings.TrimSpace(f.Query); query != "" {
		values.Set("q", query)
	}
	if f.Status != "" {
		values.Set("status", string(f.Status))
	}
	if f.Focus != "" {
		values.Set("focus", string(f.Focus))
	}
	return values
}

// IsZero reports whether the filter matches everything.
func (f Filter) IsZero() bool {
	return strings.TrimSpace(f.Query) == "" && f.Status == "" && f.Focus == ""
}

// Matches reports whether a task satisfies the filter. The query matches
// case-insensitively against the title and description.
func (f Filter) Matches(item Task) bool {
	if f.Status != "" && item.Status != f.Status {
		return false
	}
	if f.Focus != "" && item.Focus != f.Focus {
		return false
	}
	query := strings.ToLower(strings.TrimSpace(f.Query))
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(item.Title), query) ||
		strings.Contains(strings.ToLower(item.Description), query)
}
