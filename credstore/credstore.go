// Package credstore persists the bearer credential for the current session.
//
// The store is an explicit dependency of the transport rather than an
// ambient lookup, so session lifecycle is testable without a real
// config directory. Exactly one token is held at a time; clearing an
// absent token succeeds.
package credstore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const (
	configDirName = "taskdeck"
	tokenFileName = "token"
)

// Store holds the bearer token for the authenticated session.
type Store interface {
	// Token returns the stored token, or "" when no session exists.
	Token() (string, error)

	// SetToken replaces the stored token.
	SetToken(token string) error

	// Clear removes the stored token. Clearing an empty store is not an error.
	Clear() error
}

// FileStore persists the token in the user config directory.
type FileStore struct {
	path string
}

// DefaultTokenPath returns the token file location under the user config dir.
func DefaultTokenPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", configDirName, tokenFileName), nil
}

// OpenFileStore returns a FileStore at the default token path.
func OpenFileStore() (*FileStore, error) {
	path, err := DefaultTokenPath()
	if err != nil {
		return nil, err
	}
	return &FileStore{path: path}, nil
}

// NewFileStore returns a FileStore at an explicit path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Token reads the stored token. A missing file means no session.
func (s *FileStore) Token() (string, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read token file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// SetToken writes the token with owner-only permissions.
func (s *FileStore) SetToken(token string) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(token+"\n"), 0o600); err != nil {
		return fmt.Errorf("write token file: %w", err)
	}
	return nil
}

// Clear removes the token file. Idempotent.
func (s *FileStore) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove token file: %w", err)
	}
	return nil
}

// MemStore is an in-memory Store for tests.
type MemStore struct {
	mu    sync.Mutex
	token string
}

// NewMemStore returns a MemStore holding the given token.
func NewMemStore(token string) *MemStore {
	return &MemStore{token: token}
}

// Token returns the stored token.
func (s *MemStore) Token() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, nil
}

// SetToken replaces the stored token.
func (s *MemStore) SetToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

// Clear removes the stored token.
func (s *MemStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}
