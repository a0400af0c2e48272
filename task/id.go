package task

import (
	"fmt"
	"strings"

	"github.com/amonks/tasktrack/internal/ids"
)

// IDIndex indexes task IDs for prefix matching and display.
type IDIndex struct {
	ids      []string
	original map[string]string
}

// NewIDIndex builds an IDIndex from a slice of tasks.
func NewIDIndex(tasks []Task) IDIndex {
	taskIDs := IDs(tasks)
	original := make(map[string]string, len(taskIDs))
	for _, id := range taskIDs {
		key := strings.ToLower(id)
		if _, ok := original[key]; !ok && key != "" {
			original[key] = id
		}
	}
	return IDIndex{ids: ids.NormalizeUniqueIDs(taskIDs), original: original}
}

// Resolve returns the full task ID for a prefix, in the backend's casing.
func (index IDIndex) Resolve(prefix string) (string, error) {
	if prefix == "" {
		return "", ErrTaskNotFound
	}

	match, found, ambiguous := ids.MatchPrefixNormalized(index.ids, prefix)
	if !found {
		return "", fmt.Errorf("%w: %s", ErrTaskNotFound, prefix)
	}
	if ambiguous {
		return "", fmt.Errorf("%w: %s", ErrAmbiguousID, prefix)
	}

	if id, ok := index.original[match]; ok {
		return id, nil
	}
	return match, nil
}

// PrefixLengths returns the shortest unique prefix length for each ID,
// keyed by the lowercased ID.
func (index IDIndex) PrefixLengths() map[string]int {
	return ids.UniquePrefixLengthsNormalized(index.ids)
}
