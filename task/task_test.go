package task

import (
	"errors"
	"testing"
	"time"
)

func TestIsOverdue(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	tests := []struct {
		name string
		item Task
		want bool
	}{
		{name: "past due", item: Task{Status: StatusInProgress, DueDate: &past}, want: true},
		{name: "past due postponed", item: Task{Status: StatusPostponed, DueDate: &past}, want: true},
		{name: "past due done", item: Task{Status: StatusDone, DueDate: &past}, want: false},
		{name: "future", item: Task{Status: StatusInProgress, DueDate: &future}, want: false},
		{name: "exactly now", item: Task{Status: StatusInProgress, DueDate: &now}, want: false},
		{name: "no due date", item: Task{Status: StatusInProgress}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.item.IsOverdue(now); got != tt.want {
				t.Fatalf("IsOverdue = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsStale(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		item Task
		want bool
	}{
		{name: "72h in progress", item: Task{Status: StatusInProgress, UpdatedAt: now.Add(-72 * time.Hour)}, want: true},
		{name: "47h in progress", item: Task{Status: StatusInProgress, UpdatedAt: now.Add(-47 * time.Hour)}, want: false},
		{name: "exactly 48h", item: Task{Status: StatusInProgress, UpdatedAt: now.Add(-48 * time.Hour)}, want: false},
		{name: "72h done", item: Task{Status: StatusDone, UpdatedAt: now.Add(-72 * time.Hour)}, want: false},
		{name: "72h postponed", item: Task{Status: StatusPostponed, UpdatedAt: now.Add(-72 * time.Hour)}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.item.IsStale(now); got != tt.want {
				t.Fatalf("IsStale = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIDIndexResolve(t *testing.T) {
	index := NewIDIndex([]Task{{ID: "AB12cd"}, {ID: "ab98ff"}, {ID: "zz01"}})

	id, err := index.Resolve("ab1")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if id != "AB12cd" {
		t.Fatalf("expected original casing, got %q", id)
	}

	if _, err := index.Resolve("ab"); !errors.Is(err, ErrAmbiguousID) {
		t.Fatalf("expected ErrAmbiguousID, got %v", err)
	}
	if _, err := index.Resolve("nope"); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
	if _, err := index.Resolve(""); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound for empty prefix, got %v", err)
	}

	lengths := index.PrefixLengths()
	if lengths["zz01"] != 1 {
		t.Fatalf("expected zz01 prefix length 1, got %d", lengths["zz01"])
	}
}

func TestParseDueDate(t *testing.T) {
	loc := time.FixedZone("test", -5*60*60)
	now := time.Date(2024, 5, 10, 15, 30, 0, 0, loc)

	tests := []struct {
		input string
		want  time.Time
	}{
		{"2024-06-01", time.Date(2024, 6, 1, 0, 0, 0, 0, loc)},
		{"2024-06-01T09:15", time.Date(2024, 6, 1, 9, 15, 0, 0, loc)},
		{"2024-06-01T09:15:00Z", time.Date(2024, 6, 1, 9, 15, 0, 0, time.UTC)},
		{"today", time.Date(2024, 5, 10, 0, 0, 0, 0, loc)},
		{"Tomorrow", time.Date(2024, 5, 11, 0, 0, 0, 0, loc)},
		{"yesterday", time.Date(2024, 5, 9, 0, 0, 0, 0, loc)},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDueDate(tt.input, now, loc)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Fatalf("ParseDueDate(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}

	if _, err := ParseDueDate("next week", now, loc); !errors.Is(err, ErrInvalidDueDate) {
		t.Fatalf("expected ErrInvalidDueDate, got %v", err)
	}
}

func TestFormatDueDate(t *testing.T) {
	if got := FormatDueDate(nil, time.UTC); got != "" {
		t.Fatalf("expected empty, got %q", got)
	}
	day := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	if got := FormatDueDate(&day, time.UTC); got != "2024-06-01" {
		t.Fatalf("expected bare date, got %q", got)
	}
	withTime := time.Date(2024, 6, 1, 9, 15, 0, 0, time.UTC)
	if got := FormatDueDate(&withTime, time.UTC); got != "2024-06-01T09:15" {
		t.Fatalf("expected date and time, got %q", got)
	}
}

func TestFilterValues(t *testing.T) {
	if encoded := (Filter{}).Values().Encode(); encoded != "" {
		t.Fatalf("expected empty query, got %q", encoded)
	}

	filter := Filter{Query: " report ", Status: StatusInProgress, Focus: FocusHigh}
	if err := filter.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if encoded := filter.Values().Encode(); encoded != "focus=high&q=report&status=in_progress" {
		t.Fatalf("unexpected encoding %q", encoded)
	}

	if err := (Filter{Status: "pending"}).Validate(); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestFilterMatches(t *testing.T) {
	item := Task{Title: "Write Report", Description: "quarterly numbers", Status: StatusDone, Focus: FocusLow}

	if !(Filter{Query: "report"}).Matches(item) {
		t.Fatalf("expected title match")
	}
	if !(Filter{Query: "QUARTERLY"}).Matches(item) {
		t.Fatalf("expected description match")
	}
	if (Filter{Status: StatusInProgress}).Matches(item) {
		t.Fatalf("expected status mismatch")
	}
	if (Filter{Focus: FocusHigh}).Matches(item) {
		t.Fatalf("expected focus mismatch")
	}
}
