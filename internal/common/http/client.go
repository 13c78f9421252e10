// internal/common/http/client.go
package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// StatusError reports a response whose status was not 200 OK.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("status %d", e.Code)
}

// Retryable reports whether the same request may succeed later.
// Client errors other than 429 will not improve on retry.
func (e *StatusError) Retryable() bool {
	return e.Code == http.StatusTooManyRequests || e.Code >= 500
}

type Client struct {
	httpClient *http.Client
	maxRetries int
	onRetry    func(attempt int, err error)
}

func NewClient(timeout time.Duration, maxRetries int) *Client {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		maxRetries: maxRetries,
	}
}

// OnRetry registers fn to be called after every failed attempt.
func (c *Client) OnRetry(fn func(attempt int, err error)) *Client {
	c.onRetry = fn
	return c
}

func (c *Client) Do(req *http.Request) (*http.Response, error) {
	return c.httpClient.Do(req)
}

// DoWithRetry sends the request built by newRequest until it gets a 200,
// a status that will not improve, or runs out of attempts. Requests are
// rebuilt per attempt so bodies are never reused. Attempts back off
// 100ms, 200ms, 400ms and so on. Context errors stop the loop at once and
// are returned wrapped.
func (c *Client) DoWithRetry(ctx context.Context, newRequest func(ctx context.Context) (*http.Request, error)) (*http.Response, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(100*(1<<(attempt-1))) * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, fmt.Errorf("waiting to retry: %w", ctx.Err())
			}
		}

		req, err := newRequest(ctx)
		if err != nil {
			return nil, err
		}

		resp, err := c.httpClient.Do(req)
		if ctx.Err() != nil {
			if resp != nil {
				resp.Body.Close()
			}
			return nil, fmt.Errorf("request: %w", ctx.Err())
		}

		if err == nil {
			if resp.StatusCode == http.StatusOK {
				return resp, nil
			}
			resp.Body.Close()
			err = &StatusError{Code: resp.StatusCode}
		}
		lastErr = err

		if c.onRetry != nil {
			c.onRetry(attempt+1, err)
		}

		var statusErr *StatusError
		if errors.As(err, &statusErr) && !statusErr.Retryable() {
			break
		}
	}

	return nil, lastErr
}
