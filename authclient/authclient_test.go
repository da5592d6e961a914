package authclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/taskdeck/taskdeck/apiclient"
	"github.com/taskdeck/taskdeck/credstore"
)

func newTestAuth(t *testing.T, handler http.Handler) (*Client, *credstore.MemStore, *int) {
	t.Helper()

	requests := 0
	counting := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		handler.ServeHTTP(w, r)
	})

	server := httptest.NewServer(counting)
	t.Cleanup(server.Close)

	creds := credstore.NewMemStore("")
	client := apiclient.New(creds, apiclient.Options{BaseURL: server.URL})
	return New(client, creds), creds, &requests
}

func tokenHandler(t *testing.T, wantPath, token string) http.Handler {
	t.Helper()

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != wantPath {
			t.Errorf("expected path %q, got %q", wantPath, r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]string{"token": token})
	})
}

func TestClient_LoginStoresToken(t *testing.T) {
	auth, creds, _ := newTestAuth(t, tokenHandler(t, "/auth/login", "issued-token"))

	if err := auth.Login(context.Background(), "user@example.com", "hunter22"); err != nil {
		t.Fatalf("login: %v", err)
	}

	token, err := creds.Token()
	if err != nil {
		t.Fatalf("read credential: %v", err)
	}
	if token != "issued-token" {
		t.Errorf("expected token stored, got %q", token)
	}

	ok, err := auth.Authenticated()
	if err != nil {
		t.Fatalf("authenticated: %v", err)
	}
	if !ok {
		t.Error("expected authenticated after login")
	}
}

func TestClient_LoginPreflight(t *testing.T) {
	auth, _, requests := newTestAuth(t, tokenHandler(t, "/auth/login", "x"))

	if err := auth.Login(context.Background(), "", "pw"); !errors.Is(err, ErrEmptyEmail) {
		t.Errorf("expected ErrEmptyEmail, got %v", err)
	}
	if err := auth.Login(context.Background(), "user@example.com", ""); !errors.Is(err, ErrEmptyPassword) {
		t.Errorf("expected ErrEmptyPassword, got %v", err)
	}
	if *requests != 0 {
		t.Errorf("expected no network calls for local rejections, got %d", *requests)
	}
}

func TestClient_LoginRejected(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"message": "invalid credentials"})
	})
	auth, creds, _ := newTestAuth(t, handler)

	err := auth.Login(context.Background(), "user@example.com", "wrong")

	var validationErr *apiclient.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if validationErr.Message != "invalid credentials" {
		t.Errorf("expected server message, got %q", validationErr.Message)
	}

	token, readErr := creds.Token()
	if readErr != nil {
		t.Fatalf("read credential: %v", readErr)
	}
	if token != "" {
		t.Errorf("expected no token stored on failure, got %q", token)
	}
}

func TestClient_SignupStoresToken(t *testing.T) {
	auth, creds, _ := newTestAuth(t, tokenHandler(t, "/auth/signup", "fresh-token"))

	if err := auth.Signup(context.Background(), "Sam", "sam@example.com", "longenough"); err != nil {
		t.Fatalf("signup: %v", err)
	}

	token, err := creds.Token()
	if err != nil {
		t.Fatalf("read credential: %v", err)
	}
	if token != "fresh-token" {
		t.Errorf("expected token stored, got %q", token)
	}
}

func TestClient_SignupPreflight(t *testing.T) {
	auth, _, requests := newTestAuth(t, tokenHandler(t, "/auth/signup", "x"))

	cases := []struct {
		name     string
		userName string
		email    string
		password string
		wantErr  error
	}{
		{
			name:     "empty name",
			email:    "a@b.c",
			password: "longenough",
			wantErr:  ErrEmptyName,
		},
		{
			name:     "empty email",
			userName: "Sam",
			password: "longenough",
			wantErr:  ErrEmptyEmail,
		},
		{
			name:     "empty password",
			userName: "Sam",
			email:    "a@b.c",
			wantErr:  ErrEmptyPassword,
		},
		{
			name:     "short password",
			userName: "Sam",
			email:    "a@b.c",
			password: "five5",
			wantErr:  ErrPasswordTooShort,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := auth.Signup(context.Background(), tc.userName, tc.email, tc.password)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}

	if *requests != 0 {
		t.Errorf("expected no network calls for local rejections, got %d", *requests)
	}
}

func TestClient_EmptyTokenResponse(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})
	auth, _, _ := newTestAuth(t, handler)

	err := auth.Login(context.Background(), "user@example.com", "pw")
	if !errors.Is(err, ErrNoToken) {
		t.Fatalf("expected ErrNoToken, got %v", err)
	}
}

func TestClient_LogoutIsIdempotent(t *testing.T) {
	auth, _, _ := newTestAuth(t, tokenHandler(t, "/auth/login", "tok"))

	if err := auth.Login(context.Background(), "user@example.com", "pw"); err != nil {
		t.Fatalf("login: %v", err)
	}

	if err := auth.Logout(); err != nil {
		t.Fatalf("first logout: %v", err)
	}
	if err := auth.Logout(); err != nil {
		t.Fatalf("second logout: %v", err)
	}

	ok, err := auth.Authenticated()
	if err != nil {
		t.Fatalf("authenticated: %v", err)
	}
	if ok {
		t.Error("expected unauthenticated after logout")
	}
}
