package task

import (
	"fmt"
	"strings"
	"time"
)

// Accepted layouts for human-entered due dates, tried in order.
var dueDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseDueDate converts a human-entered due date into an absolute timestamp.
// Dates without a zone are interpreted in loc, and a bare date is midnight
// at the start of that day. The words today, tomorrow, and yesterday resolve
// relative to now.
func ParseDueDate(value string, now time.Time, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	trimmed := strings.ToLower(strings.TrimSpace(value))
	if trimmed == "" {
		return time.Time{}, &ValidationError{Field: "due_date", Err: fmt.Errorf("%w: empty", ErrInvalidDueDate)}
	}

	local := now.In(loc)
	startOfDay := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	switch trimmed {
	case "today":
		return startOfDay, nil
	case "tomorrow":
		return startOfDay.AddDate(0, 0, 1), nil
	case "yesterday":
		return startOfDay.AddDate(0, 0, -1), nil
	}

	raw := strings.TrimSpace(value)
	for _, layout := range dueDateLayouts {
		var parsed time.Time
		var err error
		if layout == time.RFC3339 {
			parsed, err = time.Parse(layout, raw)
		} else {
			parsed, err = time.ParseInLocation(layout, raw, loc)
		}
		if err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, &ValidationError{Field: "due_date", Err: fmt.Errorf("%w: %q", ErrInvalidDueDate, value)}
}

// FormatDueDate renders a due date for forms and tables. Times at local
// midnight are shown as a bare date.
func FormatDueDate(due *time.Time, loc *time.Location) string {
	if due == nil {
		return ""
	}
	if loc == nil {
		loc = time.Local
	}
	local := due.In(loc)
	if local.Hour() == 0 && local.Minute() == 0 && local.Second() == 0 {
		return local.Format("2006-01-02")
	}
	return local.Format("2006-01-02T15:04")
}
