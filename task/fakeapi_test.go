package task

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/taskdeck/taskdeck/apiclient"
	"github.com/taskdeck/taskdeck/credstore"
)

// fakeAPI is an in-memory Task API used by repository and engine tests.
// It mirrors the remote service's envelopes and error shapes.
type fakeAPI struct {
	mu       sync.Mutex
	tasks    []Task
	nextID   int
	requests int

	// failStatus, when nonzero, makes every request answer with this
	// status and failMessage as the error body.
	failStatus  int
	failMessage string

	server *httptest.Server
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()

	api := &fakeAPI{nextID: 1}
	api.server = httptest.NewServer(http.HandlerFunc(api.handle))
	t.Cleanup(api.server.Close)
	return api
}

func (f *fakeAPI) URL() string {
	return f.server.URL
}

// requestCount returns how many requests the server has received.
func (f *fakeAPI) requestCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests
}

// failWith makes every subsequent request fail with the given status.
func (f *fakeAPI) failWith(status int, message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failStatus = status
	f.failMessage = message
}

// seed inserts a task directly, bypassing the HTTP surface.
func (f *fakeAPI) seed(t Task) Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t.ID == "" {
		t.ID = fmt.Sprintf("task-%d", f.nextID)
		f.nextID++
	}
	f.tasks = append(f.tasks, t)
	return t
}

func (f *fakeAPI) handle(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests++

	if f.failStatus != 0 {
		writeError(w, f.failStatus, f.failMessage)
		return
	}

	switch {
	case r.URL.Path == "/tasks" && r.Method == http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]any{"tasks": f.tasks})

	case r.URL.Path == "/tasks" && r.Method == http.MethodPost:
		var req createRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "malformed body")
			return
		}
		now := time.Now().UTC()
		created := Task{
			ID:          fmt.Sprintf("task-%d", f.nextID),
			Title:       req.Title,
			Description: req.Description,
			DueDate:     req.DueDate,
			Status:      StatusPending,
			Priority:    req.Priority,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		f.nextID++
		f.tasks = append(f.tasks, created)
		writeJSON(w, http.StatusCreated, map[string]any{"task": created})

	case strings.HasPrefix(r.URL.Path, "/tasks/"):
		id := strings.TrimPrefix(r.URL.Path, "/tasks/")
		index := -1
		for i := range f.tasks {
			if f.tasks[i].ID == id {
				index = i
				break
			}
		}
		if index < 0 {
			writeError(w, http.StatusNotFound, "task not found")
			return
		}

		switch r.Method {
		case http.MethodGet:
			writeJSON(w, http.StatusOK, map[string]any{"task": f.tasks[index]})

		case http.MethodPut:
			var req updateRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, "malformed body")
				return
			}
			updated := f.tasks[index]
			if req.Title != nil {
				updated.Title = *req.Title
			}
			if req.Description != nil {
				updated.Description = *req.Description
			}
			if req.DueDate != nil {
				updated.DueDate = *req.DueDate
			}
			if req.Status != nil {
				updated.Status = *req.Status
			}
			if req.Priority != nil {
				updated.Priority = *req.Priority
			}
			updated.UpdatedAt = time.Now().UTC()
			f.tasks[index] = updated
			writeJSON(w, http.StatusOK, map[string]any{"task": updated})

		case http.MethodDelete:
			f.tasks = append(f.tasks[:index], f.tasks[index+1:]...)
			w.WriteHeader(http.StatusNoContent)

		default:
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		}

	default:
		writeError(w, http.StatusNotFound, "no such route")
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

func newTestRepository(t *testing.T, api *fakeAPI) (*Repository, *credstore.MemStore) {
	t.Helper()

	creds := credstore.NewMemStore("test-token")
	client := apiclient.New(creds, apiclient.Options{BaseURL: api.URL()})
	return NewRepository(client), creds
}

func newTestEngine(t *testing.T, api *fakeAPI) (*Engine, *credstore.MemStore) {
	t.Helper()

	repo, creds := newTestRepository(t, api)
	return NewEngine(repo), creds
}

func futureDue() time.Time {
	return time.Now().Add(24 * time.Hour).UTC().Truncate(time.Second)
}
