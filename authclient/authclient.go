// Package authclient obtains a bearer credential from the Authentication
// API and persists it in the credential store.
package authclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/taskdeck/taskdeck/apiclient"
	"github.com/taskdeck/taskdeck/credstore"
)

// MinPasswordLength is the shortest password the signup form accepts.
const MinPasswordLength = 6

var (
	// ErrEmptyEmail is returned when no email is provided.
	ErrEmptyEmail = errors.New("email cannot be empty")

	// ErrEmptyPassword is returned when no password is provided.
	ErrEmptyPassword = errors.New("password cannot be empty")

	// ErrEmptyName is returned when no name is provided at signup.
	ErrEmptyName = errors.New("name cannot be empty")

	// ErrPasswordTooShort is returned when a signup password is below
	// MinPasswordLength.
	ErrPasswordTooShort = fmt.Errorf("password must be at least %d characters", MinPasswordLength)

	// ErrNoToken is returned when the server answered 2xx without a token.
	ErrNoToken = errors.New("server response contained no token")
)

// Client performs login and signup calls over the shared transport.
type Client struct {
	client *apiclient.Client
	creds  credstore.Store
}

// New returns a Client storing issued tokens in creds.
func New(client *apiclient.Client, creds credstore.Store) *Client {
	return &Client{client: client, creds: creds}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// Login exchanges credentials for a bearer token and stores it.
func (c *Client) Login(ctx context.Context, email, password string) error {
	if email == "" {
		return ErrEmptyEmail
	}
	if password == "" {
		return ErrEmptyPassword
	}

	var resp tokenResponse
	if err := c.client.Do(ctx, http.MethodPost, "/auth/login", loginRequest{
		Email:    email,
		Password: password,
	}, &resp); err != nil {
		return fmt.Errorf("login: %w", err)
	}

	return c.storeToken(resp.Token)
}

// Signup registers a new account and stores the issued token.
func (c *Client) Signup(ctx context.Context, name, email, password string) error {
	if name == "" {
		return ErrEmptyName
	}
	if email == "" {
		return ErrEmptyEmail
	}
	if password == "" {
		return ErrEmptyPassword
	}
	if len(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}

	var resp tokenResponse
	if err := c.client.Do(ctx, http.MethodPost, "/auth/signup", signupRequest{
		Name:     name,
		Email:    email,
		Password: password,
	}, &resp); err != nil {
		return fmt.Errorf("signup: %w", err)
	}

	return c.storeToken(resp.Token)
}

// Logout clears the stored credential. Idempotent.
func (c *Client) Logout() error {
	return c.creds.Clear()
}

// Authenticated reports whether a credential is currently stored.
// Presence of a token is the session; there is no separate lifecycle.
func (c *Client) Authenticated() (bool, error) {
	token, err := c.creds.Token()
	if err != nil {
		return false, err
	}
	return token != "", nil
}

func (c *Client) storeToken(token string) error {
	if token == "" {
		return ErrNoToken
	}
	if err := c.creds.SetToken(token); err != nil {
		return fmt.Errorf("store token: %w", err)
	}
	return nil
}
