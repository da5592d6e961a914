package task

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrEmptyTitle is returned when a task title is empty.
	ErrEmptyTitle = errors.New("title cannot be empty")

	// ErrTitleTooLong is returned when a task title exceeds MaxTitleLength.
	ErrTitleTooLong = errors.New("title exceeds maximum length")

	// ErrEmptyDescription is returned when a task description is empty.
	ErrEmptyDescription = errors.New("description cannot be empty")

	// ErrDueDateMissing is returned when no due date is provided.
	ErrDueDateMissing = errors.New("due date is required")

	// ErrDueDateNotFuture is returned when a new task's due date is not
	// strictly in the future.
	ErrDueDateNotFuture = errors.New("due date must be in the future")

	// ErrInvalidStatus is returned when an invalid status is provided.
	ErrInvalidStatus = errors.New("invalid status")

	// ErrInvalidPriority is returned when an invalid priority is provided.
	ErrInvalidPriority = errors.New("invalid priority")

	// ErrTaskNotFound is returned when a task with the given ID is not in
	// the canonical list.
	ErrTaskNotFound = errors.New("task not found")

	// ErrTaskCancelled is returned when the advance cycle is applied to a
	// cancelled task.
	ErrTaskCancelled = errors.New("task is cancelled")
)

// ValidateTitle checks if the title is valid.
func ValidateTitle(title string) error {
	if title == "" {
		return ErrEmptyTitle
	}
	if len(title) > MaxTitleLength {
		return fmt.Errorf("%w: %d > %d", ErrTitleTooLong, len(title), MaxTitleLength)
	}
	return nil
}

// ValidateDescription checks if the description is valid.
func ValidateDescription(description string) error {
	if description == "" {
		return ErrEmptyDescription
	}
	return nil
}

// ValidateDueDate checks that the due date is set and strictly after now.
// A UX guard only; the server re-validates.
func ValidateDueDate(dueDate, now time.Time) error {
	if dueDate.IsZero() {
		return ErrDueDateMissing
	}
	if !dueDate.After(now) {
		return fmt.Errorf("%w: %s is not after %s",
			ErrDueDateNotFuture,
			dueDate.Format(time.RFC3339),
			now.Format(time.RFC3339))
	}
	return nil
}
