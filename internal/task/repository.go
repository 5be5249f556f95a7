package task

import (
	"context"
	"time"
)

// Change pairs the state of a task before and after an edit.
type Change struct {
	Before Task
	After  Task
}

// ChangeSet is the outcome of one confirmed edit, ready for storage.
type ChangeSet struct {
	Created []Task
	Updated []Change
	Deleted []Task
}

// Empty returns true if the change set carries nothing to persist.
func (c ChangeSet) Empty() bool {
	return len(c.Created) == 0 && len(c.Updated) == 0 && len(c.Deleted) == 0
}

// Len returns the number of affected tasks.
func (c ChangeSet) Len() int {
	return len(c.Created) + len(c.Updated) + len(c.Deleted)
}

// Repository defines the storage interface for tasks.
type Repository interface {
	// CreateTask adds a new task to the repository.
	CreateTask(ctx context.Context, t Task) error

	// GetTask retrieves a task by ID. Returns ErrTaskNotFound if missing.
	GetTask(ctx context.Context, id string) (Task, error)

	// ListTasks returns timed and all-day tasks touching the date range (inclusive).
	ListTasks(ctx context.Context, from, to time.Time) ([]Task, error)

	// ListUnscheduled returns tasks without a time or all-day flag.
	ListUnscheduled(ctx context.Context) ([]Task, error)

	// ApplyChangeSet persists a change set atomically.
	ApplyChangeSet(ctx context.Context, cs ChangeSet) error

	// Close releases any resources held by the repository.
	Close() error
}
