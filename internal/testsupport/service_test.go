package testsupport

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/taskdeck/taskdeck/apiclient"
	"github.com/taskdeck/taskdeck/authclient"
	"github.com/taskdeck/taskdeck/credstore"
	"github.com/taskdeck/taskdeck/task"
)

// The fake service is exercised through the real client stack, so its
// envelopes and error shapes stay compatible with what the CLI expects.
func TestFakeServiceSpeaksTheClientProtocol(t *testing.T) {
	service := NewFakeService()
	t.Cleanup(service.Close)

	creds := credstore.NewMemStore("")
	client := apiclient.New(creds, apiclient.Options{BaseURL: service.URL()})
	auth := authclient.New(client, creds)
	repo := task.NewRepository(client)
	ctx := context.Background()

	if _, err := repo.List(ctx); !errors.Is(err, apiclient.ErrSessionExpired) {
		t.Fatalf("expected session expiry without a token, got %v", err)
	}

	if err := auth.Login(ctx, "dev@example.com", "hunter22"); err != nil {
		t.Fatalf("login: %v", err)
	}

	created, err := repo.Create(ctx, task.CreateFields{
		Title:       "Check envelopes",
		Description: "Round trip through the fake",
		DueDate:     time.Now().Add(24 * time.Hour),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected server-assigned id")
	}
	if created.Status != task.StatusPending {
		t.Errorf("expected pending status, got %q", created.Status)
	}

	listed, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 1 || listed[0].ID != created.ID {
		t.Fatalf("expected created task in list, got %+v", listed)
	}

	status := task.StatusInProgress
	updated, err := repo.Update(ctx, created.ID, task.UpdateFields{Status: &status})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status != task.StatusInProgress {
		t.Errorf("expected inProgress, got %q", updated.Status)
	}

	if err := repo.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.Delete(ctx, created.ID); !errors.Is(err, apiclient.ErrNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}

	service.ExpireSessions()
	if _, err := repo.List(ctx); !errors.Is(err, apiclient.ErrSessionExpired) {
		t.Fatalf("expected session expiry after token invalidation, got %v", err)
	}

	if token, _ := creds.Token(); token != "" {
		t.Errorf("expected credential cleared after 401, got %q", token)
	}
}
