package mcp

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/claude/mapty/internal/workout"
)

// HTTPClient implements DataSource by calling the mapty REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but
// the session lives on the server.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL.
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) get(ctx context.Context, path string, params url.Values) ([]byte, int, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("httpclient: create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("httpclient: read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, resp.StatusCode, fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, body)
	}

	return body, resp.StatusCode, nil
}

func (c *HTTPClient) ListWorkouts(ctx context.Context, t workout.Type) ([]workout.Workout, error) {
	params := url.Values{}
	if t != "" {
		params.Set("type", string(t))
	}
	body, _, err := c.get(ctx, "/api/v1/workouts", params)
	if err != nil {
		return nil, err
	}
	return workout.Unmarshal(body)
}

func (c *HTTPClient) GetWorkout(ctx context.Context, id string) (workout.Workout, error) {
	body, status, err := c.get(ctx, "/api/v1/workouts/"+url.PathEscape(id), nil)
	if status == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return workout.UnmarshalOne(body)
}
