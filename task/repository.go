package task

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/taskdeck/taskdeck/apiclient"
)

// CreateFields holds the fields the user supplies when creating a task.
type CreateFields struct {
	Title       string
	Description string
	DueDate     time.Time

	// Priority defaults to PriorityMedium when empty.
	Priority Priority
}

// UpdateFields configures fields to change on a task.
// Nil pointers mean "don't change this field".
type UpdateFields struct {
	Title       *string
	Description *string
	DueDate     *time.Time
	Status      *Status
	Priority    *Priority
}

// isEmpty reports whether no field was set.
func (f UpdateFields) isEmpty() bool {
	return f.Title == nil && f.Description == nil && f.DueDate == nil &&
		f.Status == nil && f.Priority == nil
}

// Repository performs CRUD operations against the remote Task API.
// Every failure it returns is one of the normalized taxonomy errors;
// raw transport failures never cross this boundary.
type Repository struct {
	client *apiclient.Client
}

// NewRepository returns a Repository over the given transport.
func NewRepository(client *apiclient.Client) *Repository {
	return &Repository{client: client}
}

// Wire envelopes, per the service's response shapes.
type taskEnvelope struct {
	Task Task `json:"task"`
}

type taskListEnvelope struct {
	Tasks []Task `json:"tasks"`
}

type createRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DueDate     time.Time `json:"dueDate"`
	Priority    Priority  `json:"priority"`
}

type updateRequest struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Status      *Status    `json:"status,omitempty"`
	Priority    *Priority  `json:"priority,omitempty"`
}

// List fetches all tasks. An empty list is a valid result: a 404 from the
// server means "no tasks yet" and is not an error.
func (r *Repository) List(ctx context.Context) ([]Task, error) {
	var envelope taskListEnvelope
	err := r.client.Do(ctx, http.MethodGet, "/tasks", nil, &envelope)
	if errors.Is(err, apiclient.ErrNotFound) {
		return []Task{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	if envelope.Tasks == nil {
		return []Task{}, nil
	}
	return envelope.Tasks, nil
}

// Get fetches a single task by id.
func (r *Repository) Get(ctx context.Context, id string) (*Task, error) {
	var envelope taskEnvelope
	if err := r.client.Do(ctx, http.MethodGet, taskPath(id), nil, &envelope); err != nil {
		return nil, fmt.Errorf("get task %s: %w", id, err)
	}
	return &envelope.Task, nil
}

// Create submits a new task and returns the server-confirmed record.
func (r *Repository) Create(ctx context.Context, fields CreateFields) (*Task, error) {
	priority := fields.Priority
	if priority == "" {
		priority = PriorityMedium
	}

	req := createRequest{
		Title:       fields.Title,
		Description: fields.Description,
		DueDate:     fields.DueDate,
		Priority:    priority,
	}

	var envelope taskEnvelope
	if err := r.client.Do(ctx, http.MethodPost, "/tasks", req, &envelope); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return &envelope.Task, nil
}

// Update sends only the set fields plus identity and returns the
// server-confirmed record.
func (r *Repository) Update(ctx context.Context, id string, fields UpdateFields) (*Task, error) {
	req := updateRequest{
		Title:       fields.Title,
		Description: fields.Description,
		DueDate:     fields.DueDate,
		Status:      fields.Status,
		Priority:    fields.Priority,
	}

	var envelope taskEnvelope
	if err := r.client.Do(ctx, http.MethodPut, taskPath(id), req, &envelope); err != nil {
		return nil, fmt.Errorf("update task %s: %w", id, err)
	}
	return &envelope.Task, nil
}

// Delete removes a task on the server.
func (r *Repository) Delete(ctx context.Context, id string) error {
	if err := r.client.Do(ctx, http.MethodDelete, taskPath(id), nil, nil); err != nil {
		return fmt.Errorf("delete task %s: %w", id, err)
	}
	return nil
}

func taskPath(id string) string {
	return "/tasks/" + url.PathEscape(id)
}
