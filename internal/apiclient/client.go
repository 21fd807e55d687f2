// Package apiclient performs the task CRUD calls against a configured base
// endpoint.
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
	"strings"
	"time"

	"github.com/fentz26/tasklist/internal/models"
)

// DefaultClientTimeout is the default timeout for API requests.
const DefaultClientTimeout = 10 * time.Second

// ErrAPI marks a response with a non-2xx status.
var ErrAPI = errors.New("API error")

// Client wraps HTTP calls to the task API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// New creates a new API client for the given base endpoint.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: DefaultClientTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the endpoint all calls are relative to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ListTasks fetches every task.
func (c *Client) ListTasks(ctx context.Context) ([]models.Task, error) {
	var list models.TaskList
	if err := c.do(ctx, http.MethodGet, c.baseURL, nil, &list); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return list.Tasks, nil
}

// CreateTask submits a draft and returns the persisted task with its new ID.
func (c *Client) CreateTask(ctx context.Context, draft models.Draft) (*models.Task, error) {
	var task models.Task
	if err := c.do(ctx, http.MethodPost, c.baseURL, draft, &task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return &task, nil
}

// UpdateTask sends the full task to base/{taskId} and returns the updated
// representation.
func (c *Client) UpdateTask(ctx context.Context, task models.Task) (*models.Task, error) {
	if task.TaskID == "" {
		return nil, fmt.Errorf("update task: missing taskId")
	}
	var updated models.Task
	if err := c.do(ctx, http.MethodPut, c.taskURL(task.TaskID), task, &updated); err != nil {
		return nil, fmt.Errorf("update task %s: %w", task.TaskID, err)
	}
	return &updated, nil
}

// DeleteTask removes a task. The response body is ignored.
func (c *Client) DeleteTask(ctx context.Context, taskID string) error {
	if err := c.do(ctx, http.MethodDelete, c.taskURL(taskID), nil, nil); err != nil {
		return fmt.Errorf("delete task %s: %w", taskID, err)
	}
	return nil
}

func (c *Client) taskURL(taskID string) string {
	return c.baseURL + "/" + url.PathEscape(taskID)
}

// do sends a JSON request and decodes the response into out when out is
// non-nil.
func (c *Client) do(ctx context.Context, method, target string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%w (%d): %s", ErrAPI, resp.StatusCode, strings.TrimSpace(string(data)))
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
