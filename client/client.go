// Package client provides a typed Go client for the taskdeck API, plus an
// optimistic task store mirroring the web frontend's behavior.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/taskdeck/taskdeck-be/internal/models"
)

// Client is a typed HTTP client for the taskdeck API.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

// New creates a Client for the API at baseURL.
func New(baseURL string) *Client {
	return &Client{baseURL: baseURL, http: &http.Client{}}
}

// SetToken sets the bearer token used for authenticated requests.
func (c *Client) SetToken(token string) { c.token = token }

// APIError is a non-2xx response outside the mapped domain taxonomy.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var payload struct {
			Error string `json:"error"`
		}
		json.NewDecoder(resp.Body).Decode(&payload)
		switch resp.StatusCode {
		case http.StatusNotFound:
			return models.ErrNotFound
		case http.StatusConflict:
			return models.ErrDuplicateEmail
		case http.StatusUnauthorized:
			return models.ErrInvalidCredentials
		default:
			return &APIError{Status: resp.StatusCode, Message: payload.Error}
		}
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

// Register creates a new account.
func (c *Client) Register(ctx context.Context, name, email, password string) (models.SafeUser, error) {
	var user models.SafeUser
	err := c.do(ctx, http.MethodPost, "/auth/register",
		map[string]string{"name": name, "email": email, "password": password}, &user)
	return user, err
}

// Login authenticates and stores the returned token on the client.
func (c *Client) Login(ctx context.Context, email, password string) (models.SafeUser, error) {
	var result struct {
		Token string          `json:"token"`
		User  models.SafeUser `json:"user"`
	}
	err := c.do(ctx, http.MethodPost, "/auth/login",
		map[string]string{"email": email, "password": password}, &result)
	if err != nil {
		return models.SafeUser{}, err
	}
	c.token = result.Token
	return result.User, nil
}

// Me returns the current user with task statistics.
func (c *Client) Me(ctx context.Context) (models.EnrichedUser, error) {
	var user models.EnrichedUser
	err := c.do(ctx, http.MethodGet, "/auth/me", nil, &user)
	return user, err
}

// ListOptions carries the task list query parameters. Zero values are omitted.
type ListOptions struct {
	Limit  int
	Offset int
	Order  models.TaskOrder
	TagID  string
}

// ListTasks returns a page of the current user's tasks.
func (c *Client) ListTasks(ctx context.Context, opts ListOptions) ([]models.Task, error) {
	q := url.Values{}
	if opts.Limit > 0 {
		q.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Offset > 0 {
		q.Set("offset", strconv.Itoa(opts.Offset))
	}
	if opts.Order != "" {
		q.Set("order", string(opts.Order))
	}
	if opts.TagID != "" {
		q.Set("tagId", opts.TagID)
	}
	path := "/tasks"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var tasks []models.Task
	err := c.do(ctx, http.MethodGet, path, nil, &tasks)
	return tasks, err
}

// TaskInput carries the fields for task creation and update requests.
type TaskInput struct {
	Title       *string  `json:"title,omitempty"`
	Description *string  `json:"description,omitempty"`
	Priority    *string  `json:"priority,omitempty"`
	Completed   *bool    `json:"completed,omitempty"`
	Deadline    *string  `json:"deadline,omitempty"`
	TagIDs      []string `json:"tagIds,omitempty"`
}

// CreateTask creates a task.
func (c *Client) CreateTask(ctx context.Context, input TaskInput) (models.Task, error) {
	var task models.Task
	err := c.do(ctx, http.MethodPost, "/tasks", input, &task)
	return task, err
}

// UpdateTask applies a partial update to a task.
func (c *Client) UpdateTask(ctx context.Context, id string, input TaskInput) (models.Task, error) {
	var task models.Task
	err := c.do(ctx, http.MethodPut, "/tasks/"+id, input, &task)
	return task, err
}

// DeleteTask deletes a task.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/tasks/"+id, nil, nil)
}

// ListTags returns all of the current user's tags.
func (c *Client) ListTags(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	err := c.do(ctx, http.MethodGet, "/tags", nil, &tags)
	return tags, err
}

// CreateTag creates a tag.
func (c *Client) CreateTag(ctx context.Context, name string, color *string) (models.Tag, error) {
	var tag models.Tag
	err := c.do(ctx, http.MethodPost, "/tags",
		map[string]any{"name": name, "color": color}, &tag)
	return tag, err
}

// DeleteTag deletes a tag.
func (c *Client) DeleteTag(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/tags/"+id, nil, nil)
}
