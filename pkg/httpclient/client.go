package httpclient

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"loop/pkg/logger"
)

// StatusError is returned when the remote answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("request failed with status: %d, body: %s", e.StatusCode, e.Body)
}

// HTTPClient is a JSON-over-HTTP client with retries and server-sent-event streaming.
type HTTPClient interface {
	GetJSON(ctx context.Context, path string, result any, headers map[string]string) error
	PostJSON(ctx context.Context, path string, data any, result any, headers map[string]string) error
	// StreamEvents posts data and calls onEvent with the payload of every "data:" line of the
	// text/event-stream response until the stream ends or onEvent returns an error.
	StreamEvents(ctx context.Context, path string, data any, headers map[string]string, onEvent func(data []byte) error) error
	BaseURL() string
	Timeout() time.Duration
	RetryCount() int
}

// Option is a function that configures a Client
type Option func(*Client)

// Client represents an HTTP client with configurable settings
type Client struct {
	client     *http.Client
	baseURL    string
	headers    map[string]string
	timeout    time.Duration
	retryCount int
	backoff    time.Duration
	logger     logger.LoggerInterface
}

// New creates a new HTTP client with the provided options
func New(opts ...Option) HTTPClient {
	client := &Client{
		client:  &http.Client{},
		headers: make(map[string]string),
		timeout: 30 * time.Second,
		backoff: time.Second,
		logger:  logger.NoOpLogger(),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

func (c *Client) GetJSON(ctx context.Context, path string, result any, headers map[string]string) error {
	resp, err := c.do(ctx, http.MethodGet, path, nil, headers, true)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return c.decode(ctx, path, resp, result)
}

func (c *Client) PostJSON(ctx context.Context, path string, data any, result any, headers map[string]string) error {
	body, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, path, body, headers, true)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return c.decode(ctx, path, resp, result)
}

func (c *Client) StreamEvents(ctx context.Context, path string, data any, headers map[string]string, onEvent func(data []byte) error) error {
	body, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}

	merged := map[string]string{"Accept": "text/event-stream"}
	for k, v := range headers {
		merged[k] = v
	}

	// Streams are bounded by ctx only; the per-request timeout would cut long answers.
	resp, err := c.do(ctx, http.MethodPost, path, body, merged, false)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.statusError(ctx, path, resp)
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if payload == "" || payload == "[DONE]" {
			continue
		}
		if err := onEvent([]byte(payload)); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read event stream: %w", err)
	}
	return nil
}

// do sends the request, retrying transport errors with exponential backoff.
func (c *Client) do(ctx context.Context, method, path string, body []byte, headers map[string]string, bounded bool) (*http.Response, error) {
	url := c.baseURL + path

	if bounded && c.timeout > 0 {
		// The cancel func is released when the body is closed.
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		resp, err := c.attempt(ctx, method, url, body, headers)
		if err != nil {
			cancel()
			return nil, err
		}
		resp.Body = &cancelOnClose{ReadCloser: resp.Body, cancel: cancel}
		return resp, nil
	}
	return c.attempt(ctx, method, url, body, headers)
}

func (c *Client) attempt(ctx context.Context, method, url string, body []byte, headers map[string]string) (*http.Response, error) {
	var lastErr error
	for i := 0; i <= c.retryCount; i++ {
		if i > 0 {
			wait := c.backoff * time.Duration(1<<uint(i-1))
			c.logger.WarnContext(ctx, "Retrying HTTP request", "attempt", i, "url", url, "error", lastErr)
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return nil, fmt.Errorf("request canceled while retrying: %w", ctx.Err())
			}
		}

		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, url, reader)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		for k, v := range c.headers {
			req.Header.Set(k, v)
		}
		for k, v := range headers {
			req.Header.Set(k, v)
		}

		resp, err := c.client.Do(req)
		if err == nil {
			c.logger.DebugContext(ctx, "HTTP response", "method", method, "url", url, "status", resp.StatusCode)
			return resp, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
	}

	c.logger.ErrorContext(ctx, "HTTP request failed", "method", method, "url", url, "error", lastErr)
	return nil, fmt.Errorf("request failed after %d retries: %w", c.retryCount, lastErr)
}

func (c *Client) decode(ctx context.Context, path string, resp *http.Response, result any) error {
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.statusError(ctx, path, resp)
	}
	if result == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil && !errors.Is(err, io.EOF) {
		c.logger.ErrorContext(ctx, "Failed to unmarshal response", "path", path, "error", err)
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}

func (c *Client) statusError(ctx context.Context, path string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	c.logger.ErrorContext(ctx, "HTTP request failed", "path", path, "status", resp.StatusCode)
	return &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) Timeout() time.Duration {
	return c.timeout
}

func (c *Client) RetryCount() int {
	return c.retryCount
}

type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c *cancelOnClose) Close() error {
	defer c.cancel()
	return c.ReadCloser.Close()
}

// WithBaseURL sets the base URL for the client
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithTimeout bounds non-streaming requests, including reading the body.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithHeaders sets headers sent with every request
func WithHeaders(headers map[string]string) Option {
	return func(c *Client) {
		for k, v := range headers {
			c.headers[k] = v
		}
	}
}

// WithRetry retries transport failures count times, doubling backoff between attempts.
func WithRetry(count int, backoff time.Duration) Option {
	return func(c *Client) {
		c.retryCount = count
		if backoff > 0 {
			c.backoff = backoff
		}
	}
}

func WithLogger(l logger.LoggerInterface) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithHTTPClient replaces the underlying transport client
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.client = client
		}
	}
}
