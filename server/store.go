package server

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/amonks/tasktrack/task"
)

const maxJSONLineBytes = 1024 * 1024

// ErrReasonRequired is returned when a status change into postponed or
// cancelled carries no reason.
var ErrReasonRequired = errors.New("reason is required for this status")

// StoreOptions configures a Store.
type StoreOptions struct {
	// DataFile persists tasks as JSONL when set. The file is created on
	// first write.
	DataFile string
	Now      func() time.Time
	NewID    func() string
}

// Store holds tasks in memory, optionally mirrored to a JSONL file.
type Store struct {
	dataFile string
	now      func() time.Time
	newID    func() string

	mu    sync.Mutex
	tasks map[string]task.Task
	order []string
}

// OpenStore creates a store, loading any tasks already in the data file.
func OpenStore(opts StoreOptions) (*Store, error) {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	newID := opts.NewID
	if newID == nil {
		newID = func() string { return uuid.New().String() }
	}

	store := &Store{
		dataFile: opts.DataFile,
		now:      now,
		newID:    newID,
		tasks:    make(map[string]task.Task),
	}
	if store.dataFile == "" {
		return store, nil
	}

	items, err := readJSONL[task.Task](store.dataFile)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", store.dataFile, err)
	}
	for _, item := range items {
		if item.ID == "" {
			continue
		}
		if _, exists := store.tasks[item.ID]; !exists {
			store.order = append(store.order, item.ID)
		}
		store.tasks[item.ID] = item
	}
	return store, nil
}

// List returns tasks matching filter, newest first.
func (s *Store) List(filter task.Filter) []task.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]task.Task, 0, len(s.order))
	for i := len(s.order) - 1; i >= 0; i-- {
		item := s.tasks[s.order[i]]
		if filter.Matches(item) {
			result = append(result, item)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result
}

// Get returns a task by ID.
func (s *Store) Get(id string) (task.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.tasks[id]
	if !ok {
		return task.Task{}, fmt.Errorf("%w: %s", task.ErrTaskNotFound, id)
	}
	return item, nil
}

// Create stores a new task with a fresh ID and timestamps.
func (s *Store) Create(req task.CreateRequest) (task.Task, error) {
	created, err := task.NewCreateRequest(req.Title, task.CreateOptions{
		Description: req.Description,
		Focus:       req.Focus,
		Status:      req.Status,
		DueDate:     req.DueDate,
	})
	if err != nil {
		return task.Task{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	item := task.Task{
		ID:          s.newID(),
		Title:       created.Title,
		Description: created.Description,
		Focus:       created.Focus,
		Status:      created.Status,
		DueDate:     created.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.tasks[item.ID] = item
	s.order = append(s.order, item.ID)
	if err := s.persistLocked(); err != nil {
		delete(s.tasks, item.ID)
		s.order = s.order[:len(s.order)-1]
		return task.Task{}, err
	}
	return item, nil
}

// Update is a partial update as received by the backend. Nil fields are
// left alone.
type Update struct {
	Title       *string
	Description *string
	Focus       *task.Focus
	Status      *task.Status
	Reason      string
	DelayReason *string
	DueDate     *time.Time
	// SetDueDate distinguishes an explicit null from an absent field.
	SetDueDate bool
}

// Update applies upd to the task with the given ID and bumps updated_at.
// A delay reason is accepted whatever the current status.
func (s *Store) Update(id string, upd Update) (task.Task, error) {
	if upd.Title != nil {
		if err := task.ValidateTitle(*upd.Title); err != nil {
			return task.Task{}, err
		}
	}
	if upd.Status != nil && upd.Status.RequiresReason() && strings.TrimSpace(upd.Reason) == "" {
		return task.Task{}, fmt.Errorf("%w: %s", ErrReasonRequired, *upd.Status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	previous, ok := s.tasks[id]
	if !ok {
		return task.Task{}, fmt.Errorf("%w: %s", task.ErrTaskNotFound, id)
	}
	item := previous
	if upd.Title != nil {
		item.Title = strings.TrimSpace(*upd.Title)
	}
	if upd.Description != nil {
		item.Description = strings.TrimSpace(*upd.Description)
	}
	if upd.Focus != nil {
		item.Focus = *upd.Focus
	}
	if upd.Status != nil {
		item.Status = *upd.Status
		item.TransitionReason = strings.TrimSpace(upd.Reason)
	}
	if upd.DelayReason != nil {
		item.DelayReason = strings.TrimSpace(*upd.DelayReason)
	}
	if upd.SetDueDate {
		item.DueDate = upd.DueDate
	}

	now := s.now().UTC()
	if now.Before(item.CreatedAt) {
		now = item.CreatedAt
	}
	item.UpdatedAt = now

	s.tasks[id] = item
	if err := s.persistLocked(); err != nil {
		s.tasks[id] = previous
		return task.Task{}, err
	}
	return item, nil
}

// Delete removes a task.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	previous, ok := s.tasks[id]
	if !ok {
		return fmt.Errorf("%w: %s", task.ErrTaskNotFound, id)
	}
	previousOrder := append([]string(nil), s.order...)
	delete(s.tasks, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	if err := s.persistLocked(); err != nil {
		s.tasks[id] = previous
		s.order = previousOrder
		return err
	}
	return nil
}

// All returns every task in insertion order.
func (s *Store) All() []task.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]task.Task, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.tasks[id])
	}
	return out
}

func (s *Store) persistLocked() error {
	if s.dataFile == "" {
		return nil
	}
	items := make([]task.Task, 0, len(s.order))
	for _, id := range s.order {
		items = append(items, s.tasks[id])
	}
	return withFileLock(s.dataFile+".lock", func() error {
		return writeJSONL(s.dataFile, items)
	})
}

// withFileLock executes fn while holding an exclusive lock on the file at
// path, creating it if needed.
func withFileLock(path string, fn func() error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create parent dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return fmt.Errorf("open file for locking: %w", err)
	}
	defer f.Close()

	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX); err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	defer syscall.Flock(int(f.Fd()), syscall.LOCK_UN)

	return fn()
}

func readJSONL[T any](path string) ([]T, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	return readJSONLFromReader[T](f)
}

func readJSONLFromReader[T any](reader io.Reader) ([]T, error) {
	var items []T
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), maxJSONLineBytes)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}

		var item T
		if err := json.Unmarshal(line, &item); err != nil {
			return nil, fmt.Errorf("parse line %d: %w", lineNum, err)
		}
		items = append(items, item)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}
	return items, nil
}

// writeJSONL replaces path with items, one JSON object per line.
func writeJSONL[T any](path string, items []T) error {
	tmpPath := path + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	encoder := json.NewEncoder(f)
	for i, item := range items {
		if err := encoder.Encode(item); err != nil {
			f.Close()
			os.Remove(tmpPath)
			return fmt.Errorf("encode item %d: %w", i, err)
		}
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
