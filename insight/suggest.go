package insight

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"

	"github.com/amonks/tasktrack/task"
)

// ErrSuggestionUnavailable is logged when remote suggestions fail. It is
// never returned to callers of Suggestions.
var ErrSuggestionUnavailable = errors.New("suggestions unavailable")

// Suggester produces free-text suggestions for a task set.
type Suggester interface {
	Suggest(ctx context.Context, tasks []task.Task) ([]string, error)
}

// Suggestions asks s about tasks. Any failure degrades to an empty list and
// is logged to logger. An empty task set makes no call.
func Suggestions(ctx context.Context, s Suggester, tasks []task.Task, logger *log.Logger) []string {
	if s == nil || len(tasks) == 0 {
		return []string{}
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	suggestions, err := s.Suggest(ctx, tasks)
	if err != nil {
		logger.Printf("%v: %v", ErrSuggestionUnavailable, err)
		return []string{}
	}

	cleaned := make([]string, 0, len(suggestions))
	for _, suggestion := range suggestions {
		if trimmed := strings.TrimSpace(suggestion); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	return cleaned
}
