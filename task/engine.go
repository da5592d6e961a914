package task

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/taskdeck/taskdeck/apiclient"
)

// Engine is the single source of truth for the task collection during an
// authenticated session. All mutation goes through the Repository, and the
// canonical list changes only when a server-confirmed record is in hand: a
// failed write leaves the prior state untouched.
//
// Operations serialize behind one mutex, so a response is always applied to
// the list as a single step; readers never observe a half-applied mutation.
// Callers should still not issue overlapping mutations for the same id from
// multiple goroutines; if they do, the later server response wins.
type Engine struct {
	mu    sync.Mutex
	repo  *Repository
	tasks []Task

	// current is the most recent operation's failure, replaced (never
	// queued) by each outcome. Success clears it. Session expiry is a
	// session boundary, not a recordable error.
	current error
}

// NewEngine returns an Engine with an empty canonical list.
func NewEngine(repo *Repository) *Engine {
	return &Engine{repo: repo}
}

// Tasks returns a copy of the canonical list in server order.
func (e *Engine) Tasks() []Task {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]Task(nil), e.tasks...)
}

// Err returns the current surfaced error, or nil.
func (e *Engine) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current
}

// View derives the presentation view from the canonical list at now.
// The derivation and the list read happen under the same lock, so the
// view never reflects a half-applied mutation.
func (e *Engine) View(now time.Time) View {
	e.mu.Lock()
	defer e.mu.Unlock()
	return DeriveView(e.tasks, now)
}

// Load fetches the full list and replaces the canonical list atomically.
func (e *Engine) Load(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	tasks, err := e.repo.List(ctx)
	if err != nil {
		return e.fail(err)
	}

	e.tasks = tasks
	e.current = nil
	return nil
}

// Create validates the fields locally, then submits the task. The
// confirmed record is appended to the end of the canonical list;
// presentation order is the view's responsibility.
func (e *Engine) Create(ctx context.Context, fields CreateFields) (*Task, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.validateCreate(&fields); err != nil {
		return nil, e.fail(err)
	}

	created, err := e.repo.Create(ctx, fields)
	if err != nil {
		return nil, e.fail(err)
	}

	e.tasks = append(e.tasks, *created)
	e.current = nil
	return created, nil
}

// validateCreate is the local preflight: it must reject bad input before
// any network call is made.
func (e *Engine) validateCreate(fields *CreateFields) error {
	if err := ValidateTitle(fields.Title); err != nil {
		return err
	}
	if err := ValidateDescription(fields.Description); err != nil {
		return err
	}
	if err := ValidateDueDate(fields.DueDate, time.Now()); err != nil {
		return err
	}
	if fields.Priority == "" {
		fields.Priority = PriorityMedium
	}
	normalized, err := normalizePriorityInput(fields.Priority)
	if err != nil {
		return err
	}
	fields.Priority = normalized
	return nil
}

// AdvanceStatus moves a task one step along the cycle
// pending -> inProgress -> completed -> pending, sending the entire next
// status value to the server. A cancelled task is rejected locally.
func (e *Engine) AdvanceStatus(ctx context.Context, id string) (*Task, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	existing := e.find(id)
	if existing == nil {
		return nil, e.fail(ErrTaskNotFound)
	}

	next, ok := existing.Status.Next()
	if !ok {
		if existing.Status == StatusCancelled {
			return nil, e.fail(ErrTaskCancelled)
		}
		return nil, e.fail(ErrInvalidStatus)
	}

	return e.applyUpdate(ctx, id, UpdateFields{Status: &next})
}

// Cancel marks a task cancelled. This is the only way a task reaches
// cancelled; the advance cycle never produces it.
func (e *Engine) Cancel(ctx context.Context, id string) (*Task, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.find(id) == nil {
		return nil, e.fail(ErrTaskNotFound)
	}

	cancelled := StatusCancelled
	return e.applyUpdate(ctx, id, UpdateFields{Status: &cancelled})
}

// UpdateFields changes the set fields on a task. The id must be present in
// the canonical list; otherwise the call fails locally with no network
// traffic. On success the server's record replaces the local entry; the
// server response is authoritative over any locally held value.
func (e *Engine) UpdateFields(ctx context.Context, id string, fields UpdateFields) (*Task, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.find(id) == nil {
		return nil, e.fail(ErrTaskNotFound)
	}

	if fields.Title != nil {
		if err := ValidateTitle(*fields.Title); err != nil {
			return nil, e.fail(err)
		}
	}
	if fields.Description != nil {
		if err := ValidateDescription(*fields.Description); err != nil {
			return nil, e.fail(err)
		}
	}
	if fields.Status != nil {
		normalized, err := normalizeStatusInput(*fields.Status)
		if err != nil {
			return nil, e.fail(err)
		}
		fields.Status = &normalized
	}
	if fields.Priority != nil {
		normalized, err := normalizePriorityInput(*fields.Priority)
		if err != nil {
			return nil, e.fail(err)
		}
		fields.Priority = &normalized
	}
	if fields.isEmpty() {
		return nil, e.fail(&apiclient.ValidationError{Message: "no fields to update"})
	}

	return e.applyUpdate(ctx, id, fields)
}

// Delete removes a task. On failure the local entry is retained, except a
// server-side not-found, which reconciles by dropping the stale entry.
func (e *Engine) Delete(ctx context.Context, id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.find(id) == nil {
		return e.fail(ErrTaskNotFound)
	}

	if err := e.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, apiclient.ErrNotFound) {
			e.remove(id)
		}
		return e.fail(err)
	}

	e.remove(id)
	e.current = nil
	return nil
}

// applyUpdate performs the repository update and reconciles the canonical
// list with the outcome. Caller holds the lock.
func (e *Engine) applyUpdate(ctx context.Context, id string, fields UpdateFields) (*Task, error) {
	updated, err := e.repo.Update(ctx, id, fields)
	if err != nil {
		if errors.Is(err, apiclient.ErrNotFound) {
			e.remove(id)
		}
		return nil, e.fail(err)
	}

	e.replace(id, *updated)
	e.current = nil
	return updated, nil
}

// fail records err as the current error and returns it. Session expiry is
// not recorded: the session is over, the caller must force
// re-authentication, and the canonical list is discarded with it.
func (e *Engine) fail(err error) error {
	if errors.Is(err, apiclient.ErrSessionExpired) {
		e.tasks = nil
		e.current = nil
		return err
	}
	e.current = err
	return err
}

func (e *Engine) find(id string) *Task {
	for i := range e.tasks {
		if e.tasks[i].ID == id {
			return &e.tasks[i]
		}
	}
	return nil
}

func (e *Engine) replace(id string, updated Task) {
	for i := range e.tasks {
		if e.tasks[i].ID == id {
			e.tasks[i] = updated
			return
		}
	}
}

func (e *Engine) remove(id string) {
	for i := range e.tasks {
		if e.tasks[i].ID == id {
			e.tasks = append(e.tasks[:i], e.tasks[i+1:]...)
			return
		}
	}
}
