package xtream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	defaultUserAgent  = "strmsync/1.0"
	defaultMaxRetries = 3
	defaultBackoff    = time.Second
	maxRetryAfter     = 60 * time.Second
)

// Sentinel errors for player API responses.
var (
	ErrUnauthorized = errors.New("unauthorized: invalid provider credentials")
	ErrRateLimited  = errors.New("rate limited: too many requests")
)

// StatusError is a non-retryable or exhausted HTTP failure.
type StatusError struct {
	Action string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d", e.Action, e.Status)
}

// Client is a player API client. It retries 429 and 5xx responses with
// exponential backoff, honoring Retry-After.
type Client struct {
	baseURL    string
	username   string
	password   string
	userAgent  string
	maxRetries int
	backoff    time.Duration
	httpClient *http.Client
	log        *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the server address given to New.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimSuffix(u, "/") }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets a logger for debug output.
func WithLogger(log *slog.Logger) Option {
	return func(c *Client) { c.log = log.With("component", "xtream") }
}

// WithUserAgent sets the User-Agent header. Many panels reject Go's default.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithMaxRetries sets how many times a transient failure is retried.
func WithMaxRetries(n int) Option {
	return func(c *Client) {
		if n >= 0 {
			c.maxRetries = n
		}
	}
}

// WithBackoff sets the initial retry delay. It doubles per attempt.
func WithBackoff(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.backoff = d
		}
	}
}

// New creates a client for the panel at baseURL.
func New(baseURL, username, password string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimSuffix(strings.TrimSpace(baseURL), "/"),
		username:   username,
		password:   password,
		userAgent:  defaultUserAgent,
		maxRetries: defaultMaxRetries,
		backoff:    defaultBackoff,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// VODCategories returns the movie categories.
func (c *Client) VODCategories(ctx context.Context) ([]Category, error) {
	var out []Category
	if err := c.getList(ctx, "get_vod_categories", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SeriesCategories returns the series categories.
func (c *Client) SeriesCategories(ctx context.Context) ([]Category, error) {
	var out []Category
	if err := c.getList(ctx, "get_series_categories", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// VODStreams returns the movies in a category.
func (c *Client) VODStreams(ctx context.Context, categoryID int) ([]Stream, error) {
	var out []Stream
	params := url.Values{"category_id": {strconv.Itoa(categoryID)}}
	if err := c.getList(ctx, "get_vod_streams", params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Series returns the series in a category.
func (c *Client) Series(ctx context.Context, categoryID int) ([]Series, error) {
	var out []Series
	params := url.Values{"category_id": {strconv.Itoa(categoryID)}}
	if err := c.getList(ctx, "get_series", params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SeriesInfo returns the episode listing of a series.
func (c *Client) SeriesInfo(ctx context.Context, seriesID int) (*SeriesInfo, error) {
	start := time.Now()
	params := url.Values{"series_id": {strconv.Itoa(seriesID)}}
	body, err := c.get(ctx, "get_series_info", params)
	if err != nil {
		return nil, err
	}

	var resp seriesInfoResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode get_series_info: %w", err)
	}
	episodes, err := decodeEpisodes(resp.Episodes)
	if err != nil {
		return nil, err
	}

	if c.log != nil {
		c.log.Debug("fetched series info", "series_id", seriesID, "seasons", len(episodes), "duration_ms", time.Since(start).Milliseconds())
	}
	return &SeriesInfo{Episodes: episodes}, nil
}

// getList fetches an action whose response is a JSON array. Panels answer
// rejected credentials with an object instead, which maps to ErrUnauthorized.
func (c *Client) getList(ctx context.Context, action string, params url.Values, out any) error {
	start := time.Now()
	body, err := c.get(ctx, action, params)
	if err != nil {
		return err
	}

	trimmed := bytes.TrimSpace(body)
	switch {
	case len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")):
		return nil
	case trimmed[0] == '{':
		var auth authResponse
		if err := json.Unmarshal(trimmed, &auth); err == nil && auth.UserInfo.Auth == 0 {
			return ErrUnauthorized
		}
		return fmt.Errorf("%s: unexpected object response", action)
	}

	if err := json.Unmarshal(trimmed, out); err != nil {
		return fmt.Errorf("decode %s: %w", action, err)
	}
	if c.log != nil {
		c.log.Debug("fetched", "action", action, "params", params.Encode(), "duration_ms", time.Since(start).Milliseconds())
	}
	return nil
}

// get performs one player API action with retries and returns the body.
func (c *Client) get(ctx context.Context, action string, params url.Values) ([]byte, error) {
	q := url.Values{}
	for k, v := range params {
		q[k] = v
	}
	q.Set("username", c.username)
	q.Set("password", c.password)
	q.Set("action", action)
	endpoint := c.baseURL + "/player_api.php?" + q.Encode()

	delay := c.backoff
	for attempt := 0; ; attempt++ {
		body, retryAfter, err := c.do(ctx, action, endpoint)
		if err == nil {
			return body, nil
		}
		if !retryable(err) || attempt >= c.maxRetries {
			return nil, err
		}

		wait := delay
		if retryAfter > 0 {
			wait = retryAfter
		}
		if c.log != nil {
			c.log.Debug("retrying", "action", action, "attempt", attempt+1, "wait", wait, "error", err)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
		delay *= 2
	}
}

func (c *Client) do(ctx context.Context, action, endpoint string) ([]byte, time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, 0, ctx.Err()
		}
		return nil, 0, &transientError{err: fmt.Errorf("%s: %w", action, err)}
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusOK:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, 0, &transientError{err: fmt.Errorf("%s: read body: %w", action, err)}
		}
		return body, 0, nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, 0, ErrUnauthorized
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, parseRetryAfter(resp.Header.Get("Retry-After")), &transientError{err: fmt.Errorf("%s: %w", action, ErrRateLimited)}
	case resp.StatusCode >= 500:
		return nil, parseRetryAfter(resp.Header.Get("Retry-After")), &transientError{err: &StatusError{Action: action, Status: resp.StatusCode}}
	default:
		return nil, 0, &StatusError{Action: action, Status: resp.StatusCode}
	}
}

// transientError marks failures worth retrying.
type transientError struct {
	err error
}

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

func retryable(err error) bool {
	var t *transientError
	return errors.As(err, &t)
}

// parseRetryAfter accepts delta-seconds or an HTTP date.
func parseRetryAfter(v string) time.Duration {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0
	}
	var d time.Duration
	if secs, err := strconv.Atoi(v); err == nil {
		d = time.Duration(secs) * time.Second
	} else if ts, err := http.ParseTime(v); err == nil {
		d = time.Until(ts)
	}
	if d < 0 {
		return 0
	}
	return min(d, maxRetryAfter)
}
