package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Client wraps HTTP calls to the strmsync server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new strmsync API client.
func NewClient(serverURL string) *Client {
	return &Client{
		baseURL: serverURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// APIError is a non-success response from the server.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("server error %d (%s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("server error %d: %s", e.Status, e.Message)
}

func (c *Client) get(path string, result any) error {
	return c.do(http.MethodGet, path, nil, result)
}

func (c *Client) post(path string, body any, result any) error {
	return c.do(http.MethodPost, path, body, result)
}

// do sends a request and decodes a 200 or 202 JSON reply into result.
// Anything else comes back as an *APIError.
func (c *Client) do(method, path string, body, result any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusAccepted:
	default:
		return readAPIError(resp)
	}
	if result == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func readAPIError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)
	apiErr := &APIError{Status: resp.StatusCode, Message: string(bytes.TrimSpace(body))}
	var parsed struct {
		Error string `json:"error"`
		Code  string `json:"code"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Error != "" {
		apiErr.Message = parsed.Error
		apiErr.Code = parsed.Code
	}
	return apiErr
}

func (c *Client) Status() (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.get("/api/v1/status", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Progress() (*ProgressResponse, error) {
	var resp ProgressResponse
	if err := c.get("/api/v1/progress", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) StartSync(full bool) (*SyncAcceptedResponse, error) {
	var resp SyncAcceptedResponse
	if err := c.post("/api/v1/sync", map[string]bool{"full": full}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) CancelSync() error {
	return c.post("/api/v1/sync/cancel", struct{}{}, nil)
}

func (c *Client) History(limit int) (*HistoryResponse, error) {
	var resp HistoryResponse
	path := "/api/v1/history"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	if err := c.get(path, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Snapshots() (*SnapshotsResponse, error) {
	var resp SnapshotsResponse
	if err := c.get("/api/v1/snapshots", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Categories(kind, match string) (*CategoriesResponse, error) {
	params := url.Values{}
	if kind != "" {
		params.Set("kind", kind)
	}
	if match != "" {
		params.Set("match", match)
	}
	path := "/api/v1/categories"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var resp CategoriesResponse
	if err := c.get(path, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Verify() (*VerifyResponse, error) {
	var resp VerifyResponse
	if err := c.get("/api/v1/verify", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
