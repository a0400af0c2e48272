package insight

import (
	"bytes"
	"context"
	"errors"
	"log"
	"strings"
	"testing"
	"time"

	"github.com/amonks/tasktrack/task"
)

var now = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

func ptr(t time.Time) *time.Time { return &t }

func TestPrimaryTipOverdueCritical(t *testing.T) {
	tasks := []task.Task{
		{ID: "a", Focus: task.FocusCritical, Status: task.StatusInProgress, DueDate: ptr(now.Add(-24 * time.Hour))},
		{ID: "b", Focus: task.FocusLow, Status: task.StatusInProgress},
	}

	tip := PrimaryTip(tasks, now)
	if tip.Kind != KindOverdueCritical || tip.Count != 1 {
		t.Fatalf("unexpected tip %+v", tip)
	}
	if tip.Message != "You have 1 critical overdue task(s). Tackle them first." {
		t.Fatalf("unexpected message %q", tip.Message)
	}
}

func TestPrimaryTipOverdueBeatsOverload(t *testing.T) {
	var tasks []task.Task
	for i := 0; i < 5; i++ {
		tasks = append(tasks, task.Task{Status: task.StatusInProgress, Focus: task.FocusMedium})
	}
	tasks = append(tasks, task.Task{Status: task.StatusPostponed, Focus: task.FocusCritical, DueDate: ptr(now.Add(-time.Minute))})

	tip := PrimaryTip(tasks, now)
	if tip.Kind != KindOverdueCritical {
		t.Fatalf("expected overdue critical to win, got %+v", tip)
	}
}

func TestPrimaryTipOverload(t *testing.T) {
	var tasks []task.Task
	for i := 0; i < 4; i++ {
		tasks = append(tasks, task.Task{Status: task.StatusInProgress, Focus: task.FocusMedium})
	}

	tip := PrimaryTip(tasks, now)
	if tip.Kind != KindOverload || tip.Count != 4 {
		t.Fatalf("unexpected tip %+v", tip)
	}
	if tip.Message != "You have 4 items in progress. Consider finishing a few before adding more." {
		t.Fatalf("unexpected message %q", tip.Message)
	}
}

func TestPrimaryTipFiveInProgress(t *testing.T) {
	titles := []string{"Ship release", "Write report", "Call vendor", "Plan offsite", "Review budget"}
	var tasks []task.Task
	for _, title := range titles {
		tasks = append(tasks, task.Task{Title: title, Status: task.StatusInProgress, Focus: task.FocusMedium, UpdatedAt: now})
	}

	report := Analyze(tasks, now)
	if report.Tip.Kind != KindOverload || report.Tip.Count != 5 {
		t.Fatalf("unexpected tip %+v", report.Tip)
	}
	if report.Tip.Message != "You have 5 items in progress. Consider finishing a few before adding more." {
		t.Fatalf("unexpected message %q", report.Tip.Message)
	}
	if len(report.Stale) != 0 {
		t.Fatalf("expected no stale tasks, got %d", len(report.Stale))
	}
}

func TestFocusReminder(t *testing.T) {
	tests := []struct {
		name  string
		tasks []task.Task
		want  string
	}{
		{name: "none", want: ""},
		{
			name: "one without due date",
			tasks: []task.Task{
				{Focus: task.FocusCritical, Status: task.StatusPostponed},
				{Focus: task.FocusHigh, Status: task.StatusInProgress},
			},
			want: "Focus on 1 critical task first.",
		},
		{
			name: "done tasks ignored",
			tasks: []task.Task{
				{Focus: task.FocusCritical, Status: task.StatusInProgress, DueDate: ptr(now.Add(time.Hour))},
				{Focus: task.FocusCritical, Status: task.StatusCancelled},
				{Focus: task.FocusCritical, Status: task.StatusDone},
			},
			want: "Focus on 2 critical tasks first.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FocusReminder(tt.tasks); got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPrimaryTipThresholdIsExclusive(t *testing.T) {
	var tasks []task.Task
	for i := 0; i < OverloadThreshold; i++ {
		tasks = append(tasks, task.Task{Status: task.StatusInProgress, Focus: task.FocusMedium})
	}
	if tip := PrimaryTip(tasks, now); tip.Kind != KindDefault {
		t.Fatalf("expected default tip at threshold, got %+v", tip)
	}
}

func TestPrimaryTipDefault(t *testing.T) {
	tasks := []task.Task{
		{Status: task.StatusDone, Focus: task.FocusCritical, DueDate: ptr(now.Add(-time.Hour))},
		{Status: task.StatusInProgress, Focus: task.FocusCritical, DueDate: ptr(now)},
		{Status: task.StatusInProgress, Focus: task.FocusHigh, DueDate: ptr(now.Add(-time.Hour))},
	}
	tip := PrimaryTip(tasks, now)
	if tip.Kind != KindDefault || tip.Message != DefaultMessage {
		t.Fatalf("unexpected tip %+v", tip)
	}
	if tip := PrimaryTip(nil, now); tip.Kind != KindDefault {
		t.Fatalf("expected default for empty set, got %+v", tip)
	}
}

func TestStaleInProgress(t *testing.T) {
	tasks := []task.Task{
		{ID: "old", Status: task.StatusInProgress, UpdatedAt: now.Add(-72 * time.Hour)},
		{ID: "fresh", Status: task.StatusInProgress, UpdatedAt: now.Add(-47 * time.Hour)},
		{ID: "done", Status: task.StatusDone, UpdatedAt: now.Add(-72 * time.Hour)},
		{ID: "older", Status: task.StatusInProgress, UpdatedAt: now.Add(-100 * time.Hour)},
	}

	stale := StaleInProgress(tasks, now)
	ids := task.IDs(stale)
	if strings.Join(ids, ",") != "old,older" {
		t.Fatalf("unexpected stale set %v", ids)
	}
}

func TestAnalyzeExposesStaleIndependently(t *testing.T) {
	tasks := []task.Task{
		{ID: "a", Status: task.StatusInProgress, Focus: task.FocusCritical, DueDate: ptr(now.Add(-time.Hour)), UpdatedAt: now.Add(-72 * time.Hour)},
	}
	report := Analyze(tasks, now)
	if report.Tip.Kind != KindOverdueCritical {
		t.Fatalf("unexpected tip %+v", report.Tip)
	}
	if len(report.Stale) != 1 {
		t.Fatalf("expected one stale task, got %d", len(report.Stale))
	}
}

func TestStatusCounts(t *testing.T) {
	counts := StatusCounts([]task.Task{{Status: task.StatusDone}, {Status: task.StatusDone}, {Status: task.StatusPostponed}})
	if counts[task.StatusDone] != 2 || counts[task.StatusPostponed] != 1 || counts[task.StatusInProgress] != 0 {
		t.Fatalf("unexpected counts %v", counts)
	}
	if len(counts) != 4 {
		t.Fatalf("expected every status present, got %v", counts)
	}
}

type fakeSuggester struct {
	calls       int
	suggestions []string
	err         error
}

func (f *fakeSuggester) Suggest(context.Context, []task.Task) ([]string, error) {
	f.calls++
	return f.suggestions, f.err
}

func TestSuggestionsEmptySetMakesNoCall(t *testing.T) {
	s := &fakeSuggester{suggestions: []string{"x"}}
	got := Suggestions(context.Background(), s, nil, nil)
	if s.calls != 0 {
		t.Fatalf("expected no call, got %d", s.calls)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty list, got %#v", got)
	}
}

func TestSuggestionsFailureDegradesToEmpty(t *testing.T) {
	var logs bytes.Buffer
	s := &fakeSuggester{err: errors.New("503")}
	got := Suggestions(context.Background(), s, []task.Task{{ID: "a"}}, log.New(&logs, "", 0))
	if len(got) != 0 {
		t.Fatalf("expected empty list, got %v", got)
	}
	if !strings.Contains(logs.String(), ErrSuggestionUnavailable.Error()) {
		t.Fatalf("expected unavailable log, got %q", logs.String())
	}
}

func TestSuggestionsTrimsBlankEntries(t *testing.T) {
	s := &fakeSuggester{suggestions: []string{" Start with the report. ", "", "  "}}
	got := Suggestions(context.Background(), s, []task.Task{{ID: "a"}}, nil)
	if len(got) != 1 || got[0] != "Start with the report." {
		t.Fatalf("unexpected suggestions %v", got)
	}
}
