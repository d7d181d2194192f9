// Package api is the HTTP client for the trend backend.
package api

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

	"github.com/cenkalti/backoff/v4"

	"github.com/akycode08/xtrend-app/internal/logging"
	"github.com/akycode08/xtrend-app/internal/trend"
)

// Backend is what the session needs from the trend service.
type Backend interface {
	Search(ctx context.Context, params SearchParams) ([]trend.VideoItem, error)
	Results(ctx context.Context, keyword string, mode trend.SubMode) ([]trend.VideoItem, error)
	Profile(ctx context.Context, handle string) (trend.ProfileReport, error)
}

// SearchParams is the body of POST /trends/search.
type SearchParams struct {
	Target      string        `json:"target"`
	Mode        trend.SubMode `json:"mode"`
	IsDeep      bool          `json:"is_deep"`
	RescanHours int           `json:"rescan_hours"`
}

type itemsResponse struct {
	Items []json.RawMessage `json:"items"`
}

type errorBody struct {
	Message string `json:"message"`
	Detail  any    `json:"detail"`
}

// Client talks to the backend over HTTP.
type Client struct {
	baseURL         string
	http            *http.Client
	retryMaxElapsed time.Duration
}

type Option func(*Client)

// WithTimeout bounds each HTTP attempt.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithRetryMaxElapsed bounds the total time spent retrying user-initiated
// calls. Zero disables retries.
func WithRetryMaxElapsed(d time.Duration) Option {
	return func(c *Client) { c.retryMaxElapsed = d }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New creates a client for the API rooted at baseURL (e.g.
// "http://localhost:8000/api").
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:         strings.TrimRight(baseURL, "/"),
		http:            &http.Client{Timeout: 90 * time.Second},
		retryMaxElapsed: time.Minute,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// BaseURL returns the API root the client was built with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Search starts a trend search (and, for deep scans, schedules the rescan).
func (c *Client) Search(ctx context.Context, params SearchParams) ([]trend.VideoItem, error) {
	params.RescanHours = trend.ClampHours(params.RescanHours)
	body, err := json.Marshal(params)
	if err != nil {
		return nil, &Error{Op: "search", Err: err}
	}

	var resp itemsResponse
	err = c.withRetry(ctx, func() error {
		return c.do(ctx, "search", http.MethodPost, "/trends/search", body, &resp)
	})
	if err != nil {
		return nil, err
	}
	return decodeItems("search", resp.Items), nil
}

// Results fetches the backend's current view of a scanned query. It is
// called from the background poll and is never retried.
func (c *Client) Results(ctx context.Context, keyword string, mode trend.SubMode) ([]trend.VideoItem, error) {
	q := url.Values{}
	q.Set("keyword", keyword)
	q.Set("mode", string(mode))

	var resp itemsResponse
	if err := c.do(ctx, "results", http.MethodGet, "/trends/results?"+q.Encode(), nil, &resp); err != nil {
		return nil, err
	}
	return decodeItems("results", resp.Items), nil
}

// Profile fetches a live audit report for handle.
func (c *Client) Profile(ctx context.Context, handle string) (trend.ProfileReport, error) {
	var report trend.ProfileReport
	err := c.withRetry(ctx, func() error {
		return c.do(ctx, "profile", http.MethodGet, "/profiles/"+url.PathEscape(handle), nil, &report)
	})
	if err != nil {
		return trend.ProfileReport{}, err
	}
	if err := report.Validate(); err != nil {
		return trend.ProfileReport{}, &Error{Op: "profile", Err: err}
	}
	return report, nil
}

func (c *Client) withRetry(ctx context.Context, op func() error) error {
	if c.retryMaxElapsed <= 0 {
		return op()
	}

	// BackOff implementations are stateful; build one per call
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = time.Second
	bo.MaxElapsedTime = c.retryMaxElapsed

	log := logging.Component("api")
	return backoff.RetryNotify(func() error {
		err := op()
		if err == nil {
			return nil
		}
		var apiErr *Error
		if errors.As(err, &apiErr) && apiErr.Retryable() {
			return err
		}
		return backoff.Permanent(err)
	}, backoff.WithContext(bo, ctx), func(err error, wait time.Duration) {
		log.Warn().Err(err).Dur("retry_in", wait).Msg("backend call failed, retrying")
	})
}

func (c *Client) do(ctx context.Context, op, method, path string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &Error{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	log := logging.Component("api")
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		log.Debug().Str("op", op).Err(err).Dur("elapsed", time.Since(start)).Msg("request failed")
		return &Error{Op: op, Err: err}
	}
	defer resp.Body.Close()

	log.Debug().Str("op", op).Str("method", method).Str("path", path).
		Int("status", resp.StatusCode).Dur("elapsed", time.Since(start)).Msg("request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{Op: op, Status: resp.StatusCode, Message: readErrorMessage(resp.Body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{Op: op, Err: fmt.Errorf("decoding response: %w", err)}
	}
	return nil
}

// readErrorMessage pulls a human-readable reason out of an error body:
// {"message": ...} or FastAPI's {"detail": ...}.
func readErrorMessage(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 64<<10))
	if err != nil || len(data) == 0 {
		return ""
	}
	var eb errorBody
	if err := json.Unmarshal(data, &eb); err != nil {
		return ""
	}
	if eb.Message != "" {
		return eb.Message
	}
	switch d := eb.Detail.(type) {
	case string:
		return d
	case nil:
		return ""
	default:
		b, _ := json.Marshal(d)
		return string(b)
	}
}

// decodeItems decodes each item on its own so one malformed record is
// quarantined instead of failing the whole response.
func decodeItems(op string, raw []json.RawMessage) []trend.VideoItem {
	log := logging.Component("api")
	items := make([]trend.VideoItem, 0, len(raw))
	for _, r := range raw {
		var it trend.VideoItem
		if err := json.Unmarshal(r, &it); err != nil {
			log.Warn().Str("op", op).Err(err).Msg("dropping malformed item")
			continue
		}
		items = append(items, it)
	}
	if dropped := len(raw) - len(items); dropped > 0 {
		log.Warn().Str("op", op).Int("dropped", dropped).Int("kept", len(items)).Msg("quarantined malformed items")
	}
	return items
}
