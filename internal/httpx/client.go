package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"skycast/internal/errs"
	"skycast/internal/metrics"
)

// Config controls timeout, retry and quota behaviour of a Client.
type Config struct {
	// Name identifies the client in the circuit breaker.
	Name string

	// Timeout applies per attempt, enforced via request cancellation.
	Timeout time.Duration

	// RetryAttempts is the total number of attempts (first try included).
	RetryAttempts int

	// BackoffBase is the unit of the exponential backoff: the delay before
	// attempt n+1 is BackoffBase * 2^(n-1). Tests shrink it.
	BackoffBase time.Duration

	// DailyQuota caps outbound calls per day. Zero means unlimited.
	DailyQuota int
}

// Client fetches JSON documents with a per-attempt timeout, bounded retries
// with exponential backoff for transport failures, a circuit breaker, and a
// daily call quota.
//
// Classification follows a strict rule: an HTTP response that arrived with a
// non-2xx status is an *errs.ApiError and is never retried; only transport
// failures (*errs.NetworkError, *errs.TimeoutError) consume retry budget.
type Client struct {
	http        *http.Client
	timeout     time.Duration
	attempts    int
	backoffBase time.Duration
	breaker     *gobreaker.CircuitBreaker
	quota       *rate.Limiter
}

// NewClient creates a Client. Zero config fields fall back to the defaults
// from the configuration surface: 10s timeout, 3 attempts, 1s backoff base.
func NewClient(cfg Config) *Client {
	if cfg.Name == "" {
		cfg.Name = "upstream"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.RetryAttempts <= 0 {
		cfg.RetryAttempts = 3
	}
	if cfg.BackoffBase <= 0 {
		cfg.BackoffBase = time.Second
	}

	var quota *rate.Limiter
	if cfg.DailyQuota > 0 {
		// The full daily budget is available as burst; it refills evenly
		// over 24 hours.
		quota = rate.NewLimiter(rate.Limit(float64(cfg.DailyQuota)/(24*60*60)), cfg.DailyQuota)
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &Client{
		http:        &http.Client{},
		timeout:     cfg.Timeout,
		attempts:    cfg.RetryAttempts,
		backoffBase: cfg.BackoffBase,
		breaker:     cb,
		quota:       quota,
	}
}

// GetJSON fetches url and decodes the response body into out.
func (c *Client) GetJSON(ctx context.Context, url string, out any) error {
	if c.quota != nil && !c.quota.Allow() {
		metrics.APIQuotaDeniedTotal.Inc()
		return &errs.ApiError{Message: "daily request quota exhausted", StatusCode: http.StatusTooManyRequests}
	}

	var lastErr error

	for attempt := 1; attempt <= c.attempts; attempt++ {
		body, err := c.doAttempt(ctx, url)
		if err == nil {
			if err := json.Unmarshal(body, out); err != nil {
				return &errs.ApiError{Message: fmt.Sprintf("invalid JSON response body: %v", err)}
			}
			return nil
		}

		// A response that arrived is assumed deterministic for the same
		// request; do not retry.
		var apiErr *errs.ApiError
		if errors.As(err, &apiErr) {
			return err
		}

		// An open breaker or an abandoned caller short-circuits the budget.
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		lastErr = err
		if attempt == c.attempts {
			break
		}

		metrics.APIRetriesTotal.Inc()
		delay := c.backoffBase * (1 << (attempt - 1))
		log.Printf("DEBUG: request to %s failed (attempt %d/%d), retrying in %s: %v",
			url, attempt, c.attempts, delay, err)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	return lastErr
}

// doAttempt performs one request through the circuit breaker and returns the
// raw body on success, or a classified error.
func (c *Client) doAttempt(ctx context.Context, url string) ([]byte, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	result, err := c.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, url, nil)
		if err != nil {
			return nil, &errs.NetworkError{Message: "failed to create request", Err: err}
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, c.classifyTransport(ctx, attemptCtx, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			// Drain a little of the body for the error message; nothing
			// useful lives past that.
			snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			msg := fmt.Sprintf("API request failed: %s", resp.Status)
			if len(snippet) > 0 {
				msg = fmt.Sprintf("%s: %s", msg, snippet)
			}
			return nil, &errs.ApiError{Message: msg, StatusCode: resp.StatusCode}
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, &errs.NetworkError{Message: "failed to read response body", Err: err}
		}
		return body, nil
	})
	metrics.RecordAPIRequest(time.Since(start), err)

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, &errs.NetworkError{Message: "circuit breaker open", Err: err}
		}
		return nil, err
	}

	body, ok := result.([]byte)
	if !ok {
		return nil, &errs.NetworkError{Message: "unexpected result type from circuit breaker"}
	}
	return body, nil
}

// classifyTransport maps a failed http.Client.Do into the error taxonomy.
func (c *Client) classifyTransport(ctx, attemptCtx context.Context, err error) error {
	// Parent cancellation is the caller abandoning the request, not a
	// transport fault.
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if attemptCtx.Err() == context.DeadlineExceeded || errors.Is(err, context.DeadlineExceeded) {
		return &errs.TimeoutError{Timeout: c.timeout}
	}
	return &errs.NetworkError{Message: "request failed", Err: err}
}
