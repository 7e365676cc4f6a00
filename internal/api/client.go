// Package api is the typed client for the wrapper's /api surface. Every
// method is a single request/response round trip: no retries, no caching,
// no logging. Failures surface as *APIError carrying the server's detail
// message when one was sent, or the operation's fallback message otherwise.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// BaseURL returns the API prefix for the given environment: the local dev
// backend when dev is true, the same-origin path otherwise. Callers pass
// the result to New once; nothing in this package holds process-wide state.
func BaseURL(dev bool) string {
	if dev {
		return "http://localhost:8000/api"
	}
	return "/api"
}

// LocalBaseURL returns the loopback API prefix for a wrapper listening on
// the given port. CLI consumers use this instead of the same-origin form,
// which is only meaningful inside a browser.
func LocalBaseURL(port int) string {
	return fmt.Sprintf("http://127.0.0.1:%d/api", port)
}

// Client issues typed requests against a wrapper backend. The zero value is
// not usable; construct with New. Safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client, e.g. to set a timeout
// or to point at a test server's client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// New creates a client rooted at baseURL (no trailing slash).
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		http:    http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// APIError is the single error kind produced by this package: a request
// that failed, with a best-effort human-readable message. Error() returns
// only the message so callers can surface it to users directly.
type APIError struct {
	StatusCode int   // HTTP status, 0 for transport failures
	Message    string
	Err        error // underlying transport or decode error, if any
}

func (e *APIError) Error() string { return e.Message }

func (e *APIError) Unwrap() error { return e.Err }

// detailBody is the error body convention: a JSON object with an optional
// detail string.
type detailBody struct {
	Detail string `json:"detail"`
}

// Per-operation fallback messages, used when the server sends no parseable
// detail field.
const (
	fallbackCheckInstalled  = "Failed to check Docker installation"
	fallbackCheckRunning    = "Failed to check Docker status"
	fallbackOpenURL         = "Failed to open URL"
	fallbackStartContainer  = "Failed to start container"
	fallbackStopContainer   = "Failed to stop container"
	fallbackGetConfig       = "Failed to load configuration"
	fallbackSaveConfig      = "Failed to save configuration"
	fallbackSelectDirectory = "Failed to select directory"
)

// Config is the persisted configuration record. The port crosses the wire
// as a string.
type Config struct {
	InstallDir string `json:"install_dir"`
	Port       string `json:"port"`
}

// StartResult reports the outcome of a container start. A failed start is
// a value (Success false with Error set), not a client error.
type StartResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Port    string `json:"port,omitempty"`
}

// OperationResult is the generic acknowledgement body.
type OperationResult struct {
	Success bool `json:"success"`
}

// Directory is the select-directory result. An empty Directory means the
// user cancelled the picker.
type Directory struct {
	Directory string `json:"directory"`
}

// CheckDockerInstalled reports whether Docker is installed on the host.
func (c *Client) CheckDockerInstalled(ctx context.Context) (bool, error) {
	var out struct {
		Installed bool `json:"installed"`
	}
	if err := c.get(ctx, "/check-docker-installed", &out, fallbackCheckInstalled); err != nil {
		return false, err
	}
	return out.Installed, nil
}

// CheckDockerRunning reports whether the Docker daemon is running.
func (c *Client) CheckDockerRunning(ctx context.Context) (bool, error) {
	var out struct {
		Running bool `json:"running"`
	}
	if err := c.get(ctx, "/check-docker-running", &out, fallbackCheckRunning); err != nil {
		return false, err
	}
	return out.Running, nil
}

// OpenExternalURL asks the backend to open url in the default browser.
func (c *Client) OpenExternalURL(ctx context.Context, url string) (*OperationResult, error) {
	body := struct {
		URL string `json:"url"`
	}{URL: url}
	var out OperationResult
	if err := c.post(ctx, "/open-external-url", body, &out, fallbackOpenURL); err != nil {
		return nil, err
	}
	return &out, nil
}

// StartContainer starts the TAK server container.
func (c *Client) StartContainer(ctx context.Context) (*StartResult, error) {
	var out StartResult
	if err := c.post(ctx, "/start-container", nil, &out, fallbackStartContainer); err != nil {
		return nil, err
	}
	return &out, nil
}

// StopContainer stops the TAK server container.
func (c *Client) StopContainer(ctx context.Context) (*OperationResult, error) {
	var out OperationResult
	if err := c.post(ctx, "/stop-container", nil, &out, fallbackStopContainer); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetConfig returns the persisted configuration record.
func (c *Client) GetConfig(ctx context.Context) (*Config, error) {
	var out Config
	if err := c.get(ctx, "/config", &out, fallbackGetConfig); err != nil {
		return nil, err
	}
	return &out, nil
}

// SaveConfig persists the configuration record.
func (c *Client) SaveConfig(ctx context.Context, installDir, port string) (*OperationResult, error) {
	body := Config{InstallDir: installDir, Port: port}
	var out OperationResult
	if err := c.post(ctx, "/config", body, &out, fallbackSaveConfig); err != nil {
		return nil, err
	}
	return &out, nil
}

// SelectDirectory opens a native directory picker on the backend host.
func (c *Client) SelectDirectory(ctx context.Context) (*Directory, error) {
	var out Directory
	if err := c.get(ctx, "/select-directory", &out, fallbackSelectDirectory); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) get(ctx context.Context, path string, out any, fallback string) error {
	return c.do(ctx, http.MethodGet, path, nil, out, fallback)
}

func (c *Client) post(ctx context.Context, path string, body, out any, fallback string) error {
	return c.do(ctx, http.MethodPost, path, body, out, fallback)
}

// do issues one request: marshal body, check status, decode result. Non-2xx
// responses become an *APIError with the server's detail message when the
// body parses, the fallback message otherwise.
func (c *Client) do(ctx context.Context, method, path string, body, out any, fallback string) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &APIError{Message: fallback, Err: err}
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return &APIError{Message: fallback, Err: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &APIError{Message: fallback, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := fallback
		var detail detailBody
		if err := json.NewDecoder(resp.Body).Decode(&detail); err == nil && detail.Detail != "" {
			msg = detail.Detail
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &APIError{StatusCode: resp.StatusCode, Message: fallback, Err: err}
		}
	}
	return nil
}
