package llm

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnavailable indicates the summarization endpoint could not be reached.
	ErrUnavailable = errors.New("llm endpoint unavailable")

	// ErrTimeout indicates the LLM request exceeded the configured timeout.
	ErrTimeout = errors.New("llm request timed out")

	// ErrRejected indicates a deterministic rejection (bad request, auth,
	// unknown model). These are never retried.
	ErrRejected = errors.New("llm request rejected")

	// ErrRetryExhausted indicates all retry attempts have been exhausted.
	ErrRetryExhausted = errors.New("llm retry attempts exhausted")

	// ErrNotConfigured indicates no provider could be built from the config.
	ErrNotConfigured = errors.New("llm provider not configured")
)

// StatusError carries the HTTP status of a failed provider call.
type StatusError struct {
	Code int
	Err  error
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("status %d (%s): %v", e.Code, http.StatusText(e.Code), e.Err)
}

func (e *StatusError) Unwrap() error { return e.Err }

// Transient reports whether the status is worth retrying: timeouts,
// rate limits and server-side failures.
func (e *StatusError) Transient() bool {
	return e.Code == http.StatusRequestTimeout ||
		e.Code == http.StatusTooManyRequests ||
		e.Code >= 500
}
