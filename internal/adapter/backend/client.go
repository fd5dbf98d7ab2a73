package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/storyreel/internal/domain"
)

const (
	maxRetries     = 3
	baseRetryDelay = 500 * time.Millisecond
)

// Client talks to the text-to-video render backend.
// Callers bound each call with a context deadline; renders can take minutes.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	retryDelay time.Duration
	logger     *slog.Logger
}

// NewClient creates a new render backend client
func NewClient(baseURL, token string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{},
		retryDelay: baseRetryDelay,
		logger:     logger,
	}
}

// BaseURL returns the normalized backend URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// errorBody is the backend's error envelope
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// request describes one API call
type request struct {
	method      string
	path        string
	query       url.Values
	body        []byte
	contentType string
	retry       bool // only idempotent calls are retried
}

// do performs the request and returns the body of a 2xx response.
// Retries with exponential backoff on 5xx when req.retry is set.
func (c *Client) do(ctx context.Context, req request) ([]byte, error) {
	reqURL := c.baseURL + req.path
	if len(req.query) > 0 {
		reqURL = reqURL + "?" + req.query.Encode()
	}

	attempts := 1
	if req.retry {
		attempts += maxRetries
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		if attempt > 0 {
			delay := c.retryDelay * time.Duration(1<<(attempt-1)) // 500ms, 1s, 2s
			c.logger.Debug("retrying request", "attempt", attempt, "delay", delay, "path", req.path)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		var body io.Reader
		if req.body != nil {
			body = bytes.NewReader(req.body)
		}
		httpReq, err := http.NewRequestWithContext(ctx, req.method, reqURL, body)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		c.setHeaders(httpReq, req.contentType)

		c.logger.Debug("backend request", "method", req.method, "path", req.path, "attempt", attempt)

		resp, err := c.httpClient.Do(httpReq)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			c.logger.Error("backend request failed", "path", req.path, "error", err)
			return nil, fmt.Errorf("%w: %v", domain.ErrServerOffline, err)
		}

		data, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read response: %w", err)
		}

		if resp.StatusCode >= 500 && req.retry {
			lastErr = decodeError(resp.StatusCode, data)
			c.logger.Warn("backend server error, will retry",
				"status", resp.StatusCode,
				"attempt", attempt,
				"maxRetries", maxRetries,
				"path", req.path,
			)
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			err := decodeError(resp.StatusCode, data)
			c.logger.Error("backend request error", "status", resp.StatusCode, "path", req.path, "error", err)
			return nil, err
		}

		return data, nil
	}

	c.logger.Error("backend request failed after retries", "path", req.path, "error", lastErr)
	return nil, lastErr
}

func (c *Client) setHeaders(req *http.Request, contentType string) {
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

// decodeError maps a non-2xx response to a domain error
func decodeError(status int, data []byte) error {
	var body errorBody
	_ = json.Unmarshal(data, &body)
	msg := body.Error
	if msg == "" {
		msg = body.Message
	}

	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return domain.ErrAuthFailed
	case http.StatusNotFound:
		if msg != "" {
			return fmt.Errorf("%w: %s", domain.ErrNotFound, msg)
		}
		return domain.ErrNotFound
	}
	return &domain.RemoteError{Status: status, Message: msg}
}

// getJSON performs a retried GET and decodes the response into dest
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, dest interface{}) error {
	data, err := c.do(ctx, request{method: http.MethodGet, path: path, query: query, retry: true})
	if err != nil {
		return err
	}
	return decodeInto(path, data, dest)
}

// postJSON performs a single POST with a JSON body and decodes the response
func (c *Client) postJSON(ctx context.Context, path string, payload, dest interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}
	data, err := c.do(ctx, request{
		method:      http.MethodPost,
		path:        path,
		body:        body,
		contentType: "application/json",
	})
	if err != nil {
		return err
	}
	return decodeInto(path, data, dest)
}

func decodeInto(path string, data []byte, dest interface{}) error {
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}
