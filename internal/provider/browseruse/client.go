// Package browseruse implements provider.Client against the Browser Use Cloud REST API (v2).
package browseruse

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/octobees/maps-leads/api/internal/logging"
	"github.com/octobees/maps-leads/api/internal/provider"
)

const (
	// DefaultBaseURL is the public Browser Use Cloud API.
	DefaultBaseURL = "https://api.browser-use.com/api/v2"

	apiKeyHeader        = "X-Browser-Use-API-Key"
	defaultPollInterval = 3 * time.Second
	defaultWaitTimeout  = 10 * time.Minute
	requestTimeout      = 30 * time.Second
)

// ErrMissingAPIKey is returned by NewClient when no credential is supplied.
var ErrMissingAPIKey = errors.New("browseruse: api key is required")

// Client talks to Browser Use Cloud. It is safe for concurrent use and holds no per-task state.
type Client struct {
	apiKey       string
	baseURL      string
	httpClient   *http.Client
	pollInterval time.Duration
	waitTimeout  time.Duration
	logger       logging.Logger
}

// Option configures optional client settings.
type Option func(*Client)

// WithBaseURL overrides the API base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/"); baseURL != "" {
			c.baseURL = baseURL
		}
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithPollInterval sets how often task status is polled while awaiting completion.
func WithPollInterval(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.pollInterval = d
		}
	}
}

// WithWaitTimeout bounds how long Await waits for a terminal status.
func WithWaitTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.waitTimeout = d
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger logging.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient builds a Browser Use client. The api key must not be empty.
func NewClient(apiKey string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	c := &Client{
		apiKey:       apiKey,
		baseURL:      DefaultBaseURL,
		httpClient:   &http.Client{Timeout: requestTimeout},
		pollInterval: defaultPollInterval,
		waitTimeout:  defaultWaitTimeout,
		logger:       logging.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type createTaskRequest struct {
	Task string `json:"task"`
}

type createTaskResponse struct {
	ID        string `json:"id"`
	SessionID string `json:"sessionId"`
}

type taskView struct {
	ID        string          `json:"id"`
	Status    string          `json:"status"`
	Output    json.RawMessage `json:"output"`
	IsSuccess *bool           `json:"isSuccess"`
}

// Submit creates a task and returns a handle for awaiting it.
func (c *Client) Submit(ctx context.Context, description string) (provider.Task, error) {
	if strings.TrimSpace(description) == "" {
		return nil, errors.New("browseruse: task description must not be empty")
	}

	var created createTaskResponse
	if err := c.doJSON(ctx, http.MethodPost, "/tasks", createTaskRequest{Task: description}, &created); err != nil {
		return nil, fmt.Errorf("browseruse: create task: %w", err)
	}
	if created.ID == "" {
		return nil, errors.New("browseruse: create task: response carried no task id")
	}

	c.logger.Info("provider task created", "task_id", created.ID, "session_id", created.SessionID)
	return &task{client: c, id: created.ID}, nil
}

// Get fetches the current view of a task.
func (c *Client) Get(ctx context.Context, taskID string) (*provider.Result, error) {
	var view taskView
	if err := c.doJSON(ctx, http.MethodGet, "/tasks/"+url.PathEscape(taskID), nil, &view); err != nil {
		return nil, fmt.Errorf("browseruse: get task %s: %w", taskID, err)
	}
	return view.result(taskID)
}

func (v taskView) result(taskID string) (*provider.Result, error) {
	out, err := provider.DecodeOutput(v.Output)
	if err != nil {
		return nil, fmt.Errorf("browseruse: task %s: %w", taskID, err)
	}
	status := provider.Status(strings.ToLower(strings.TrimSpace(v.Status)))
	id := v.ID
	if id == "" {
		id = taskID
	}
	return &provider.Result{
		TaskID:    id,
		Status:    status,
		Succeeded: status == provider.StatusFinished && (v.IsSuccess == nil || *v.IsSuccess),
		Output:    out,
	}, nil
}

func (c *Client) await(ctx context.Context, taskID string) (*provider.Result, error) {
	ctx, cancel := context.WithTimeout(ctx, c.waitTimeout)
	defer cancel()

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		res, err := c.Get(ctx, taskID)
		if err != nil {
			return nil, err
		}
		if res.Status.Terminal() {
			return res, nil
		}
		if !res.Status.Known() {
			// Undocumented statuses end the wait as a failed result.
			c.logger.Warn("provider task reported unknown status", "task_id", taskID, "status", res.Status)
			res.Succeeded = false
			return res, nil
		}
		c.logger.Debug("provider task pending", "task_id", taskID, "status", res.Status)

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("browseruse: await task %s (last status %s): %w", taskID, res.Status, ctx.Err())
		case <-ticker.C:
		}
	}
}

func (c *Client) doJSON(ctx context.Context, method, path string, payload, dst any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal payload: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set(apiKeyHeader, c.apiKey)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return &APIError{StatusCode: resp.StatusCode, Message: extractAPIError(resp.Body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil && err != io.EOF {
		return fmt.Errorf("could not decode response: %w", err)
	}
	return nil
}

// APIError is a non-2xx answer from the provider.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("provider returned %d: %s", e.StatusCode, e.Message)
}

func extractAPIError(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, 64<<10))
	if err != nil || len(bytes.TrimSpace(data)) == 0 {
		return "provider returned an error"
	}

	var payload struct {
		Detail  json.RawMessage `json:"detail"`
		Message string          `json:"message"`
		Error   string          `json:"error"`
	}
	if err := json.Unmarshal(data, &payload); err == nil {
		var detail string
		if len(payload.Detail) > 0 && json.Unmarshal(payload.Detail, &detail) == nil && detail != "" {
			return detail
		}
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
		if len(payload.Detail) > 0 && string(payload.Detail) != "null" {
			return string(payload.Detail)
		}
	}
	return strings.TrimSpace(string(data))
}

type task struct {
	client *Client
	id     string
}

func (t *task) ID() string { return t.id }

func (t *task) Await(ctx context.Context) (*provider.Result, error) {
	return t.client.await(ctx, t.id)
}

var _ provider.Client = (*Client)(nil)
