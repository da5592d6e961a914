// Package task implements the client-side task state: the entity types,
// the repository over the remote Task API, the synchronization engine that
// owns the canonical in-memory list, and the derived presentation view.
package task

import "time"

// Status represents the state of a task.
type Status string

const (
	// StatusPending indicates the task has not been started.
	StatusPending Status = "pending"

	// StatusInProgress indicates the task is being worked on.
	StatusInProgress Status = "inProgress"

	// StatusCompleted indicates the task is finished.
	StatusCompleted Status = "completed"

	// StatusCancelled indicates the task was abandoned. Cancelled is
	// reachable only through an explicit cancel action, never through
	// the advance cycle.
	StatusCancelled Status = "cancelled"
)

// ValidStatuses returns all valid status values.
func ValidStatuses() []Status {
	return []Status{StatusPending, StatusInProgress, StatusCompleted, StatusCancelled}
}

// IsValid returns true if the status is a known valid value.
func (s Status) IsValid() bool {
	for _, valid := range ValidStatuses() {
		if s == valid {
			return true
		}
	}
	return false
}

// Next returns the status that follows s in the user-driven cycle
// pending -> inProgress -> completed -> pending. Cancelled is not part
// of the cycle; ok is false for it and for unknown values.
func (s Status) Next() (next Status, ok bool) {
	switch s {
	case StatusPending:
		return StatusInProgress, true
	case StatusInProgress:
		return StatusCompleted, true
	case StatusCompleted:
		return StatusPending, true
	default:
		return "", false
	}
}

// Priority represents the importance of a task.
type Priority string

const (
	// PriorityLow is the lowest importance level.
	PriorityLow Priority = "low"

	// PriorityMedium is the default importance level.
	PriorityMedium Priority = "medium"

	// PriorityHigh is the highest importance level.
	PriorityHigh Priority = "high"
)

// ValidPriorities returns all valid priority values.
func ValidPriorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh}
}

// IsValid returns true if the priority is a known valid value.
func (p Priority) IsValid() bool {
	for _, valid := range ValidPriorities() {
		if p == valid {
			return true
		}
	}
	return false
}

// MaxTitleLength is the maximum allowed length for a task title.
const MaxTitleLength = 500

// Task represents a single task as confirmed by the remote service.
type Task struct {
	// ID is the opaque identifier assigned by the server, immutable
	// once created.
	ID string `json:"id"`

	// Title is the short summary of the task.
	Title string `json:"title"`

	// Description provides additional context about the task.
	Description string `json:"description"`

	// DueDate is when the task is due. Strictly in the future at
	// creation time.
	DueDate time.Time `json:"dueDate"`

	// Status is the current state of the task.
	Status Status `json:"status"`

	// Priority is the importance level.
	Priority Priority `json:"priority"`

	// CreatedAt is when the server recorded the task. Zero when the
	// server omits it.
	CreatedAt time.Time `json:"createdAt,omitzero"`

	// UpdatedAt is when the server last modified the task. Zero when
	// the server omits it.
	UpdatedAt time.Time `json:"updatedAt,omitzero"`
}
