// Package testsupport provides the fake task service and testscript
// plumbing shared by end-to-end tests.
package testsupport

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/taskdeck/taskdeck/task"
)

// FakeService is an in-memory stand-in for the remote task service. It
// issues bearer tokens on login/signup and serves the task CRUD
// endpoints with the same envelopes and error shapes as the real one.
type FakeService struct {
	mu     sync.Mutex
	tasks  []task.Task
	tokens map[string]bool
	nextID int

	server *httptest.Server
}

// NewFakeService starts the service. Callers must Close it.
func NewFakeService() *FakeService {
	service := &FakeService{tokens: map[string]bool{}}
	service.server = httptest.NewServer(http.HandlerFunc(service.handle))
	return service
}

// URL returns the service endpoint.
func (s *FakeService) URL() string {
	return s.server.URL
}

// Close shuts the service down.
func (s *FakeService) Close() {
	s.server.Close()
}

// ExpireSessions invalidates every issued token, so the next
// authenticated request is rejected with 401.
func (s *FakeService) ExpireSessions() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens = map[string]bool{}
}

func (s *FakeService) handle(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.HasPrefix(r.URL.Path, "/auth/") {
		s.handleAuth(w, r)
		return
	}

	// Control surface for tests; not part of the service API.
	if r.URL.Path == "/_control/expire" {
		s.tokens = map[string]bool{}
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if !s.authorized(r) {
		writeError(w, http.StatusUnauthorized, "invalid or expired token")
		return
	}

	switch {
	case r.URL.Path == "/tasks" && r.Method == http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]any{"tasks": s.tasks})
	case r.URL.Path == "/tasks" && r.Method == http.MethodPost:
		s.handleCreate(w, r)
	case strings.HasPrefix(r.URL.Path, "/tasks/"):
		s.handleItem(w, r, strings.TrimPrefix(r.URL.Path, "/tasks/"))
	default:
		writeError(w, http.StatusNotFound, "no such endpoint")
	}
}

func (s *FakeService) handleAuth(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if body.Email == "" || body.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	s.nextID++
	token := fmt.Sprintf("fake-token-%d", s.nextID)
	s.tokens[token] = true
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (s *FakeService) handleCreate(w http.ResponseWriter, r *http.Request) {
	var incoming task.Task
	if err := json.NewDecoder(r.Body).Decode(&incoming); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if incoming.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}

	s.nextID++
	incoming.ID = fmt.Sprintf("t%d", s.nextID)
	if incoming.Status == "" {
		incoming.Status = task.StatusPending
	}
	incoming.CreatedAt = time.Now().UTC()
	incoming.UpdatedAt = incoming.CreatedAt

	s.tasks = append(s.tasks, incoming)
	writeJSON(w, http.StatusCreated, map[string]any{"task": incoming})
}

func (s *FakeService) handleItem(w http.ResponseWriter, r *http.Request, id string) {
	index := -1
	for i := range s.tasks {
		if s.tasks[i].ID == id {
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
		writeJSON(w, http.StatusOK, map[string]any{"task": s.tasks[index]})
	case http.MethodPut:
		var patch struct {
			Title       *string        `json:"title"`
			Description *string        `json:"description"`
			DueDate     *time.Time     `json:"dueDate"`
			Status      *task.Status   `json:"status"`
			Priority    *task.Priority `json:"priority"`
		}
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			writeError(w, http.StatusBadRequest, "malformed request body")
			return
		}
		updated := s.tasks[index]
		if patch.Title != nil {
			updated.Title = *patch.Title
		}
		if patch.Description != nil {
			updated.Description = *patch.Description
		}
		if patch.DueDate != nil {
			updated.DueDate = *patch.DueDate
		}
		if patch.Status != nil {
			updated.Status = *patch.Status
		}
		if patch.Priority != nil {
			updated.Priority = *patch.Priority
		}
		updated.UpdatedAt = time.Now().UTC()
		s.tasks[index] = updated
		writeJSON(w, http.StatusOK, map[string]any{"task": updated})
	case http.MethodDelete:
		s.tasks = append(s.tasks[:index], s.tasks[index+1:]...)
		w.WriteHeader(http.StatusNoContent)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *FakeService) authorized(r *http.Request) bool {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	return ok && s.tokens[token]
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(value)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}
