package taskapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/alexanderramin/attendance/internal/domain"
)

// Client fetches the task list, with time entries, from the task service.
type Client interface {
	ListTasks(ctx context.Context) ([]domain.Task, error)
}

// httpClient implements Client over the task service REST API.
type httpClient struct {
	cfg      Config
	http     *http.Client
	observer Observer
}

// NewHTTPClient creates a Client for the service described by cfg.
func NewHTTPClient(cfg Config, observer Observer) Client {
	if observer == nil {
		observer = NoopObserver{}
	}
	return &httpClient{
		cfg: cfg,
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
		observer: observer,
	}
}

// statusError carries a non-200 response.
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("task service returned status %d: %s", e.code, e.body)
}

func (c *httpClient) ListTasks(ctx context.Context) ([]domain.Task, error) {
	start := time.Now()

	if c.cfg.TimeoutMs > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(c.cfg.TimeoutMs)*time.Millisecond)
		defer cancel()
	}

	url := c.cfg.TasksURL()
	var (
		lastErr  error
		status   int
		attempts int
	)
	maxAttempts := 1 + c.cfg.MaxRetries

	for attempts < maxAttempts {
		attempts++
		tasks, code, err := c.doRequest(ctx, url)
		status = code
		if err == nil {
			c.observer.OnCallComplete(CallEvent{
				URL:        url,
				Attempts:   attempts,
				StatusCode: code,
				LatencyMs:  time.Since(start).Milliseconds(),
				Tasks:      len(tasks),
				Success:    true,
			})
			return tasks, nil
		}
		lastErr = err

		// Don't retry on cancellation, rejected credentials, or a bad body.
		if ctx.Err() != nil || !retryable(err) {
			break
		}
	}

	err := classify(ctx, lastErr)
	c.observer.OnCallComplete(CallEvent{
		URL:        url,
		Attempts:   attempts,
		StatusCode: status,
		LatencyMs:  time.Since(start).Milliseconds(),
		Success:    false,
		ErrorCode:  errorCode(err),
	})
	return nil, err
}

func (c *httpClient) doRequest(ctx context.Context, url string) ([]domain.Task, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("reading response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, resp.StatusCode, fmt.Errorf("%w: status %d", ErrUnauthorized, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, resp.StatusCode, &statusError{code: resp.StatusCode, body: truncate(string(body), 200)}
	}

	tasks, err := DecodeTasks(body)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return tasks, resp.StatusCode, nil
}

func retryable(err error) bool {
	if errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrInvalidResponse) {
		return false
	}
	var se *statusError
	if errors.As(err, &se) {
		return se.code >= 500 || se.code == http.StatusTooManyRequests
	}
	return true
}

func classify(ctx context.Context, err error) error {
	switch {
	case ctx.Err() != nil || isTimeout(err):
		return ErrTimeout
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrInvalidResponse):
		return err
	case isConnectionError(err):
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	default:
		return fmt.Errorf("%w: %v", ErrRetryExhausted, err)
	}
}

func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}

func errorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return "TIMEOUT"
	case errors.Is(err, ErrUnavailable):
		return "UNAVAILABLE"
	case errors.Is(err, ErrUnauthorized):
		return "UNAUTHORIZED"
	case errors.Is(err, ErrInvalidResponse):
		return "INVALID_RESPONSE"
	default:
		return "UNKNOWN"
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
