package controller

import "github.com/amonks/tasktrack/task"

// Collection is the client-side list of tasks. It has a single writer: the
// Controller that owns it.
type Collection struct {
	tasks []task.Task
}

// NewCollection returns a collection holding a copy of tasks.
func NewCollection(tasks []task.Task) *Collection {
	c := &Collection{}
	c.ReplaceAll(tasks)
	return c
}

// Tasks returns a copy of the tasks in display order.
func (c *Collection) Tasks() []task.Task {
	out := make([]task.Task, len(c.tasks))
	copy(out, c.tasks)
	return out
}

// Len returns the number of tasks.
func (c *Collection) Len() int {
	return len(c.tasks)
}

// Find returns the task with the given ID.
func (c *Collection) Find(id string) (task.Task, bool) {
	if i := c.index(id); i >= 0 {
		return c.tasks[i], true
	}
	return task.Task{}, false
}

// ApplyCreated prepends a newly created task. A task already present with
// the same ID is replaced in place instead.
func (c *Collection) ApplyCreated(created task.Task) {
	if c.ApplyUpdated(created) {
		return
	}
	c.tasks = append([]task.Task{created}, c.tasks...)
}

// ApplyUpdated replaces the task with the same ID. It reports whether a
// task was replaced.
func (c *Collection) ApplyUpdated(updated task.Task) bool {
	i := c.index(updated.ID)
	if i < 0 {
		return false
	}
	c.tasks[i] = updated
	return true
}

// ApplyDeleted removes the task with the given ID. It reports whether a task
// was removed.
func (c *Collection) ApplyDeleted(id string) bool {
	i := c.index(id)
	if i < 0 {
		return false
	}
	c.tasks = append(c.tasks[:i:i], c.tasks[i+1:]...)
	return true
}

// ReplaceAll swaps in a freshly fetched list.
func (c *Collection) ReplaceAll(tasks []task.Task) {
	c.tasks = make([]task.Task, len(tasks))
	copy(c.tasks, tasks)
}

func (c *Collection) index(id string) int {
	if id == "" {
		return -1
	}
	for i, item := range c.tasks {
		if item.ID == id {
			return i
		}
	}
	return -1
}
