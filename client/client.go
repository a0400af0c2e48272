// Package client talks to a task backend over JSON/HTTP.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/amonks/tasktrack/task"
)

// DefaultTimeout bounds a single request when Options.Timeout is unset.
const DefaultTimeout = 15 * time.Second

// maxErrorBodyBytes caps how much of an error response is read.
const maxErrorBodyBytes = 64 * 1024

// Options configures a Client.
type Options struct {
	// HTTPClient overrides the transport. Its Timeout is left alone.
	HTTPClient *http.Client
	// Timeout bounds each request when HTTPClient is nil.
	Timeout time.Duration
}

// Client calls the task backend.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a client for the given address or URL.
func NewClient(addr string, opts Options) *Client {
	baseURL := strings.TrimRight(strings.TrimSpace(addr), "/")
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "http://" + baseURL
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{baseURL: baseURL, client: httpClient}
}

// BaseURL returns the backend address requests are sent to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ListTasks returns tasks matching filter. Filtering happens on the backend.
func (c *Client) ListTasks(ctx context.Context, filter task.Filter) ([]task.Task, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	var tasks []task.Task
	if err := c.do(ctx, http.MethodGet, "/tasks", filter.Values(), nil, &tasks); err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []task.Task{}
	}
	return tasks, nil
}

// GetTask returns a single task.
func (c *Client) GetTask(ctx context.Context, id string) (task.Task, error) {
	if strings.TrimSpace(id) == "" {
		return task.Task{}, task.ErrMissingID
	}
	var item task.Task
	if err := c.do(ctx, http.MethodGet, taskPath(id), nil, nil, &item); err != nil {
		return task.Task{}, err
	}
	return item, nil
}

// CreateTask creates a task and returns it as stored by the backend.
func (c *Client) CreateTask(ctx context.Context, req task.CreateRequest) (task.Task, error) {
	if err := task.ValidateTitle(req.Title); err != nil {
		return task.Task{}, err
	}
	var created task.Task
	if err := c.do(ctx, http.MethodPost, "/tasks", nil, req, &created); err != nil {
		return task.Task{}, err
	}
	return created, nil
}

// UpdateTask applies a partial update and returns the updated task.
func (c *Client) UpdateTask(ctx context.Context, id string, patch task.Patch) (task.Task, error) {
	if strings.TrimSpace(id) == "" {
		return task.Task{}, task.ErrMissingID
	}
	if err := patch.Validate(); err != nil {
		return task.Task{}, err
	}
	var updated task.Task
	if err := c.do(ctx, http.MethodPatch, taskPath(id), nil, patch, &updated); err != nil {
		return task.Task{}, err
	}
	return updated, nil
}

// DeleteTask removes a task.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return task.ErrMissingID
	}
	return c.do(ctx, http.MethodDelete, taskPath(id), nil, nil, nil)
}

type suggestRequest struct {
	Tasks []task.Task `json:"tasks"`
}

type suggestResponse struct {
	Suggestions []string `json:"suggestions"`
}

// Suggest asks the backend's assistant for suggestions about tasks.
func (c *Client) Suggest(ctx context.Context, tasks []task.Task) ([]string, error) {
	var response suggestResponse
	if err := c.do(ctx, http.MethodPost, "/ai/suggest", nil, suggestRequest{Tasks: tasks}, &response); err != nil {
		return nil, err
	}
	return response.Suggestions, nil
}

func taskPath(id string) string {
	return "/tasks/" + url.PathEscape(strings.TrimSpace(id))
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload any, dest any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return &NetworkError{Method: method, Path: path, Err: err}
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return &NetworkError{Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return readErrorResponse(method, path, resp)
	}
	if dest == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return &NetworkError{Method: method, Path: path, Err: err}
	}
	return nil
}

func readErrorResponse(method, path string, resp *http.Response) error {
	rejected := &BackendRejectedError{Method: method, Path: path, StatusCode: resp.StatusCode}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
	if err != nil || len(bytes.TrimSpace(data)) == 0 {
		return rejected
	}

	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err == nil {
		for _, key := range []string{"error", "detail", "message"} {
			if message, ok := payload[key].(string); ok && message != "" {
				rejected.Message = message
				return rejected
			}
		}
	}
	rejected.Message = strings.TrimSpace(string(data))
	return rejected
}
