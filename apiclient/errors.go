package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSessionExpired indicates the server rejected the bearer credential.
	// The credential store has already been cleared when this is returned.
	ErrSessionExpired = errors.New("session expired")

	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("not found")
)

// ValidationError is returned when the server rejects a payload as malformed.
// Message carries the server-supplied explanation.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	if e.Message == "" {
		return "validation failed"
	}
	return "validation failed: " + e.Message
}

// NewValidationError builds a ValidationError from a formatted message.
func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// TransportKind classifies a transport failure.
type TransportKind string

const (
	// TransportNetwork indicates the request never produced a response.
	TransportNetwork TransportKind = "network"

	// TransportHTTP indicates the server answered with an unexpected status.
	TransportHTTP TransportKind = "http"

	// TransportTimeout indicates the request exceeded its deadline.
	TransportTimeout TransportKind = "timeout"
)

// TransportError is a connectivity or server failure outside the taxonomy
// of validation, not-found, and session-expiry errors.
type TransportError struct {
	Kind    TransportKind
	Status  int
	Message string
}

func (e *TransportError) Error() string {
	switch e.Kind {
	case TransportHTTP:
		if e.Message != "" {
			return fmt.Sprintf("server error (status %d): %s", e.Status, e.Message)
		}
		return fmt.Sprintf("server error (status %d)", e.Status)
	case TransportTimeout:
		return "request timed out"
	default:
		if e.Message != "" {
			return "network error: " + e.Message
		}
		return "network error"
	}
}

// errorEnvelope is the server's error body shape. Only the message is
// consumed here so the rest of the system never sees the wire format.
type errorEnvelope struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// serverMessage extracts a human-readable message from an error body.
func serverMessage(body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return ""
	}

	var envelope errorEnvelope
	if err := json.Unmarshal(body, &envelope); err == nil {
		if envelope.Message != "" {
			return envelope.Message
		}
		if envelope.Error != "" {
			return envelope.Error
		}
	}
	return trimmed
}

// normalizeStatus maps a non-2xx response to one error of the taxonomy.
// Session expiry is handled before this point by the credential gate.
func normalizeStatus(status int, body []byte) error {
	switch {
	case status == 400 || status == 422:
		return &ValidationError{Message: serverMessage(body)}
	case status == 404:
		return ErrNotFound
	default:
		return &TransportError{
			Kind:    TransportHTTP,
			Status:  status,
			Message: serverMessage(body),
		}
	}
}
