package tasks

import (
	"errors"
	"fmt"

	"github.com/abhisek/learnpath/internal/store"
)

// ErrInvalidDuration is returned by Assign for a negative duration.
var ErrInvalidDuration = errors.New("duration in weeks must not be negative")

// NotFoundError reports a missing task or user.
type NotFoundError struct {
	Kind string // "task" or "user"
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

func (e *NotFoundError) Unwrap() error { return store.ErrNotFound }

// StateError reports an operation the task's current status does not allow.
type StateError struct {
	TaskID string
	Status store.TaskStatus
	Op     string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("cannot %s: task %s is %s", e.Op, e.TaskID, e.Status)
}

// notFound converts store.ErrNotFound into a NotFoundError and passes other
// errors through.
func notFound(kind, id string, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return &NotFoundError{Kind: kind, ID: id}
	}
	return err
}
