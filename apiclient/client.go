// Package apiclient implements the HTTP transport shared by every remote
// call: one configured client that attaches the bearer credential, decodes
// JSON envelopes, and normalizes every failure into a small error taxonomy.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/taskdeck/taskdeck/credstore"
	internalstrings "github.com/taskdeck/taskdeck/internal/strings"
)

const (
	// DefaultBaseURL is the local development fallback endpoint.
	DefaultBaseURL = "http://localhost:5000"

	// DefaultTimeout bounds each request when the caller's context has
	// no earlier deadline.
	DefaultTimeout = 30 * time.Second

	// EnvBaseURL overrides the configured endpoint.
	EnvBaseURL = "TASKDECK_API_URL"

	// EnvDebug enables request/response metadata logging to stderr.
	EnvDebug = "TASKDECK_DEBUG"

	maxErrorBodyBytes = 64 * 1024
)

// Client is the single configured transport for the remote service.
// The credential store is re-read on every call, so an external logout
// takes effect on the next request.
type Client struct {
	baseURL   string
	timeout   time.Duration
	creds     credstore.Store
	http      *http.Client
	debug     bool
	debugDest io.Writer
}

// Options configures a Client. Zero values fall back to the environment,
// then to the local development defaults.
type Options struct {
	// BaseURL is the service endpoint. Empty falls back to EnvBaseURL,
	// then DefaultBaseURL.
	BaseURL string

	// Timeout bounds each request. Zero means DefaultTimeout.
	Timeout time.Duration

	// Debug logs request/response metadata to stderr. Observability
	// only; never alters behavior.
	Debug bool

	// HTTPClient overrides the underlying client, for tests.
	HTTPClient *http.Client
}

// New builds a Client around the given credential store.
func New(creds credstore.Store, opts Options) *Client {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = os.Getenv(EnvBaseURL)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	debug := opts.Debug
	if os.Getenv(EnvDebug) == "1" {
		debug = true
	}

	return &Client{
		baseURL:   NormalizeBaseURL(baseURL),
		timeout:   timeout,
		creds:     creds,
		http:      httpClient,
		debug:     debug,
		debugDest: os.Stderr,
	}
}

// NormalizeBaseURL applies the endpoint conventions: empty falls back to
// the local default, a scheme-less host gets http, trailing slashes are
// trimmed.
func NormalizeBaseURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultBaseURL
	}
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		raw = "http://" + raw
	}
	return internalstrings.TrimTrailingSlash(raw)
}

// BaseURL returns the normalized endpoint this client targets.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do issues one request. A non-nil reqBody is JSON-encoded; a non-nil
// respBody receives the decoded 2xx response. Every failure is one of
// ErrSessionExpired, ErrNotFound, *ValidationError, or *TransportError.
func (c *Client) Do(ctx context.Context, method, path string, reqBody, respBody any) error {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var bodyReader io.Reader
	if reqBody != nil {
		encoded, err := json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if err := c.attach(req); err != nil {
		return err
	}

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		classified := classifySendError(err)
		c.debugf("%s %s -> %v (%s)", method, path, classified, time.Since(started).Truncate(time.Millisecond))
		return classified
	}
	defer resp.Body.Close()

	c.debugf("%s %s -> %d (%s)", method, path, resp.StatusCode, time.Since(started).Truncate(time.Millisecond))

	if resp.StatusCode == http.StatusUnauthorized {
		return c.expireSession()
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return normalizeStatus(resp.StatusCode, body)
	}

	if respBody == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(respBody); err != nil {
		return &TransportError{
			Kind:    TransportHTTP,
			Status:  resp.StatusCode,
			Message: fmt.Sprintf("decode response body: %v", err),
		}
	}
	return nil
}

// attach sets the Authorization header when a credential exists. The store
// is consulted on every call rather than cached.
func (c *Client) attach(req *http.Request) error {
	token, err := c.creds.Token()
	if err != nil {
		return fmt.Errorf("read credential: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return nil
}

// expireSession clears the stored credential and reports the expiry.
// The clear is idempotent, so concurrent 401s cannot compound.
func (c *Client) expireSession() error {
	if err := c.creds.Clear(); err != nil {
		return errors.Join(ErrSessionExpired, fmt.Errorf("clear credential: %w", err))
	}
	return ErrSessionExpired
}

func classifySendError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &TransportError{Kind: TransportTimeout, Message: err.Error()}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return &TransportError{Kind: TransportTimeout, Message: err.Error()}
	}

	return &TransportError{Kind: TransportNetwork, Message: err.Error()}
}

func (c *Client) debugf(format string, args ...any) {
	if !c.debug || c.debugDest == nil {
		return
	}
	fmt.Fprintf(c.debugDest, "taskdeck: "+format+"\n", args...)
}
