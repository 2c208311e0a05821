package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/meltforce/trailmark/internal/session"
	"github.com/meltforce/trailmark/internal/workout"
)

// HTTPClient implements WorkoutSource by calling the trailmark REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but the
// session lives on the remote server (accessed over Tailscale).
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies WorkoutSource.
var _ WorkoutSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL.
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// apiError is the JSON error body the REST API returns.
type apiError struct {
	Error  string               `json:"error"`
	Fields []workout.FieldError `json:"fields"`
}

func (c *HTTPClient) do(ctx context.Context, method, path string, params url.Values, in, out any) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("httpclient: encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("httpclient: create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("httpclient: read body: %w", err)
	}

	if resp.StatusCode/100 != 2 {
		return statusError(path, resp.StatusCode, data)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("httpclient: decode %s: %w", path, err)
	}
	return nil
}

// statusError maps API failures back onto the domain errors the tools
// distinguish.
func statusError(path string, status int, body []byte) error {
	var ae apiError
	_ = json.Unmarshal(body, &ae)
	switch status {
	case http.StatusNotFound:
		return fmt.Errorf("httpclient: %s: %w", path, workout.ErrNotFound)
	case http.StatusUnprocessableEntity:
		return &workout.ValidationError{Fields: ae.Fields}
	case http.StatusConflict:
		return fmt.Errorf("%w: %s", session.ErrInvalidEvent, ae.Error)
	default:
		return fmt.Errorf("httpclient: %s returned %d: %s", path, status, body)
	}
}

func (c *HTTPClient) Workouts(ctx context.Context, kind workout.Kind) ([]workout.View, error) {
	params := url.Values{}
	if kind != "" {
		params.Set("type", string(kind))
	}

	var views []workout.View
	if err := c.do(ctx, http.MethodGet, "/api/v1/workouts", params, nil, &views); err != nil {
		return nil, err
	}
	return views, nil
}

func (c *HTTPClient) Workout(ctx context.Context, id string) (workout.View, error) {
	var v workout.View
	if err := c.do(ctx, http.MethodGet, "/api/v1/workouts/"+url.PathEscape(id), nil, nil, &v); err != nil {
		return workout.View{}, err
	}
	return v, nil
}

func (c *HTTPClient) LogWorkout(ctx context.Context, coords workout.Coordinates, fields session.FormFields) (workout.View, error) {
	in := struct {
		Coordinates workout.Coordinates `json:"coordinates"`
		session.FormFields
	}{coords, fields}

	var v workout.View
	if err := c.do(ctx, http.MethodPost, "/api/v1/workouts", nil, in, &v); err != nil {
		return workout.View{}, err
	}
	return v, nil
}
