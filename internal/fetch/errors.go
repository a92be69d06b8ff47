package fetch

import (
	"errors"
	"fmt"
)

// Sentinel errors for user-correctable input problems.
var (
	// ErrInvalidURL indicates a missing, relative, or non-HTTP(S) URL.
	// Rejected before any network call; maps to HTTP 400 at the boundary.
	ErrInvalidURL = errors.New("invalid URL: must be absolute http or https")

	// ErrEmptyContent indicates the proxy answered 2xx with an empty body.
	ErrEmptyContent = errors.New("fetch succeeded but returned empty content")
)

// TimeoutError indicates a fetch tier exceeded its deadline.
// Maps to HTTP 408 at the boundary; the caller may retry.
type TimeoutError struct {
	// URL is the target that timed out.
	URL string

	// Err is the underlying transport error.
	Err error
}

// Error implements the error interface.
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("fetch timed out for %s: %v", e.URL, e.Err)
}

// Unwrap returns the underlying error.
func (e *TimeoutError) Unwrap() error {
	return e.Err
}

// UpstreamError indicates the proxy answered non-2xx on both tiers.
// The upstream status and body are carried for diagnostic surfacing;
// no further retries are attempted.
type UpstreamError struct {
	// URL is the target that failed.
	URL string

	// StatusCode is the upstream HTTP status.
	StatusCode int

	// Body is a truncated copy of the upstream response body.
	Body string
}

// Error implements the error interface.
func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream returned %d for %s", e.StatusCode, e.URL)
}
