package errs

import (
	"fmt"
	"time"
)

// ValidationError reports malformed caller input. It is never retryable; the
// caller must fix the input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// ApiError reports that the upstream API responded, but with a failure status
// or an unusable body. StatusCode is 0 when no HTTP status applies (e.g. a
// body that failed to decode).
type ApiError struct {
	Message    string
	StatusCode int
}

func (e *ApiError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
	}
	return e.Message
}

// Retryable reports whether a caller could reasonably retry the request.
// Only 429 and 5xx statuses qualify; the HTTP client itself never retries
// post-response errors.
func (e *ApiError) Retryable() bool {
	return e.StatusCode == 429 || e.StatusCode >= 500
}

// NetworkError reports a transport failure: the request never completed.
type NetworkError struct {
	Message string
	Err     error
}

func (e *NetworkError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// TimeoutError reports that a single attempt exceeded the configured timeout.
type TimeoutError struct {
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("request timeout after %s", e.Timeout)
}
