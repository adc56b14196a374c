package homeassistant

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/hagallery/internal/domain"
)

const (
	defaultTimeout = 30 * time.Second
	maxRetries     = 3
	baseRetryDelay = 500 * time.Millisecond
	apiRoot        = "/api"
)

// Client is an authenticated Home Assistant REST client. It implements
// domain.Runtime and is what the host assigns to a gallery card.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
	retryDelay time.Duration
}

// NewClient creates a new Home Assistant API client
func NewClient(baseURL, token string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger:     logger,
		retryDelay: baseRetryDelay,
	}
}

// BaseURL returns the server URL the client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// CallAPI performs a request against the API root and returns the body.
// path is relative to /api, matching the frontend callApi contract.
// Server errors (5xx) are retried with exponential backoff.
func (c *Client) CallAPI(ctx context.Context, method, path string) ([]byte, error) {
	reqURL := c.baseURL + apiRoot + "/" + strings.TrimLeft(path, "/")

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		if attempt > 0 {
			delay := c.retryDelay * time.Duration(1<<(attempt-1)) // 500ms, 1s, 2s
			c.logger.Debug("retrying request", "attempt", attempt, "delay", delay, "url", reqURL)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		req, err := http.NewRequestWithContext(ctx, method, reqURL, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		c.authorize(req)
		req.Header.Set("Accept", "application/json")

		c.logger.Debug("home assistant request", "method", method, "path", path, "attempt", attempt)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			c.logger.Error("home assistant request failed", "error", err)
			return nil, fmt.Errorf("%w: %v", domain.ErrServerOffline, err)
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read response: %w", err)
		}

		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			return nil, domain.ErrAuthFailed
		}

		if resp.StatusCode >= 500 && resp.StatusCode < 600 {
			lastErr = fmt.Errorf("server error: %d - %s", resp.StatusCode, string(body))
			c.logger.Warn("home assistant server error, will retry",
				"status", resp.StatusCode,
				"attempt", attempt,
				"maxRetries", maxRetries,
				"path", path,
			)
			continue
		}

		if resp.StatusCode != http.StatusOK {
			c.logger.Error("home assistant request error", "status", resp.StatusCode, "body", string(body))
			return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		}

		return body, nil
	}

	c.logger.Error("home assistant request failed after retries", "error", lastErr, "path", path)
	return nil, lastErr
}

// Open streams a host-relative URL such as /api/media_source_proxy/...
// The caller must close the returned body.
func (c *Client) Open(ctx context.Context, rawURL string) (io.ReadCloser, string, error) {
	if !strings.HasPrefix(rawURL, "/") {
		return nil, "", fmt.Errorf("refusing non-relative url %q", rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+rawURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request: %w", err)
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", domain.ErrServerOffline, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		resp.Body.Close()
		return nil, "", domain.ErrAuthFailed
	case resp.StatusCode != http.StatusOK:
		resp.Body.Close()
		return nil, "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return resp.Body, resp.Header.Get("Content-Type"), nil
}

// Ping checks that the server is reachable and the token is accepted
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.CallAPI(ctx, http.MethodGet, "/")
	return err
}

func (c *Client) authorize(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}
