// Package remote fetches a task list from the demo todo API.
package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/harrisonrobin/taskflow/pkg/manager"
	"github.com/harrisonrobin/taskflow/pkg/task"
)

const (
	DefaultBaseURL = "https://jsonplaceholder.typicode.com"
	DefaultLimit   = 5
)

// StatusError reports a non-2xx response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("remote returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("remote returned status %d: %s", e.StatusCode, e.Body)
}

// Client fetches todos. A single request per call, no retries.
type Client struct {
	BaseURL string
	Limit   int
	HTTP    *http.Client
}

func NewClient(baseURL string, limit int) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Client{BaseURL: baseURL, Limit: limit, HTTP: http.DefaultClient}
}

func (c *Client) endpoint() (string, error) {
	u, err := url.Parse(strings.TrimRight(c.BaseURL, "/") + "/todos")
	if err != nil {
		return "", fmt.Errorf("invalid remote url '%s': %w", c.BaseURL, err)
	}
	q := u.Query()
	q.Set("_limit", strconv.Itoa(c.Limit))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Fetch returns the remote list as plain records.
func (c *Client) Fetch(ctx context.Context) ([]task.Record, error) {
	endpoint, err := c.endpoint()
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("remote request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var records []task.Record
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode remote tasks: %w", err)
	}
	return records, nil
}

// Sync replaces m's collection with the remote list. On error m is untouched.
func Sync(ctx context.Context, c *Client, m *manager.Manager) (int, error) {
	records, err := c.Fetch(ctx)
	if err != nil {
		return 0, err
	}
	return m.LoadTasks(records), nil
}
