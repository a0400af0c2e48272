package ui

import (
	"testing"
	"time"

	"github.com/amonks/tasktrack/task"
)

func TestFormatDurationShort(t *testing.T) {
	cases := []struct {
		name     string
		duration time.Duration
		want     string
	}{
		{name: "negative", duration: -time.Minute, want: "0s"},
		{name: "seconds", duration: 45 * time.Second, want: "45s"},
		{name: "minutes", duration: 2*time.Minute + 10*time.Second, want: "2m"},
		{name: "hours", duration: 3*time.Hour + 5*time.Minute, want: "3h"},
		{name: "days", duration: 48 * time.Hour, want: "2d"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := FormatDurationShort(tc.duration)
			if got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestFormatTimeAgo(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	if got := FormatTimeAgo(now.Add(-2*time.Minute), now); got != "2m ago" {
		t.Fatalf("expected 2m ago, got %s", got)
	}
	if got := FormatTimeAgo(time.Time{}, now); got != "-" {
		t.Fatalf("expected - for zero time, got %s", got)
	}
}

func TestFormatDue(t *testing.T) {
	disableColor(t)
	now := time.Date(2025, 1, 3, 12, 0, 0, 0, time.UTC)
	past := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	future := time.Date(2025, 1, 5, 9, 30, 0, 0, time.UTC)

	cases := []struct {
		name string
		item task.Task
		want string
	}{
		{name: "unset", item: task.Task{Status: task.StatusInProgress}, want: "-"},
		{name: "overdue", item: task.Task{Status: task.StatusInProgress, DueDate: &past}, want: "2025-01-01 (overdue 2d)"},
		{name: "done is never overdue", item: task.Task{Status: task.StatusDone, DueDate: &past}, want: "2025-01-01"},
		{name: "future with time", item: task.Task{Status: task.StatusInProgress, DueDate: &future}, want: "2025-01-05T09:30"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := FormatDue(tc.item, now, time.UTC); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}
