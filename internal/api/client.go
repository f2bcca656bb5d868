// Package api provides the HTTP client for the DataHire remote API. All
// business logic (scoring, resume parsing, chat) lives behind this API; the
// client's only job is typed request/response plumbing.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// DefaultUserAgent identifies the workspace client to the API.
const DefaultUserAgent = "datahire-workspace/1.0"

// Client talks to the DataHire API. Methods are context-first and safe for
// concurrent use.
type Client struct {
	baseURL    string
	token      string
	userAgent  string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithToken sets the bearer token attached to every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithTimeout overrides the HTTP timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a client for the API rooted at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		userAgent:  DefaultUserAgent,
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Error represents a failed API call: transport failure, non-2xx status, or a
// malformed response payload.
type Error struct {
	Path    string
	Status  int
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("api error for %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error for %s: %s (HTTP %d)", e.Path, e.Message, e.Status)
	}
	return fmt.Sprintf("api error for %s: %s", e.Path, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// do executes a request and returns the raw response body. Non-2xx statuses
// are converted into *Error.
func (c *Client) do(ctx context.Context, method, path string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, &Error{Path: path, Message: "failed to encode request body", Cause: err}
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, &Error{Path: path, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &Error{Path: path, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Path: path, Status: resp.StatusCode, Message: "failed to read response body", Cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{Path: path, Status: resp.StatusCode, Message: errorMessage(data)}
	}
	return data, nil
}

// getJSON fetches path and decodes the response into out, optionally shape-
// checking the raw body first.
func (c *Client) getJSON(ctx context.Context, path string, out any, check func([]byte) error) error {
	data, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	return decode(path, data, out, check)
}

// postJSON posts body to path and decodes the response into out when out is
// non-nil.
func (c *Client) postJSON(ctx context.Context, path string, body, out any, check func([]byte) error) error {
	data, err := c.do(ctx, http.MethodPost, path, body)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return decode(path, data, out, check)
}

func decode(path string, data []byte, out any, check func([]byte) error) error {
	if check != nil {
		if err := check(data); err != nil {
			return &Error{Path: path, Message: "malformed response payload", Cause: err}
		}
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &Error{Path: path, Message: "failed to decode response", Cause: err}
	}
	return nil
}

// errorMessage pulls a server-provided error string out of a failure body.
func errorMessage(data []byte) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return "request failed"
}
