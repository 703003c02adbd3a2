package domain

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested document does not exist at the
	// source. Treated as a benign empty subtree, never retried.
	ErrNotFound = errors.New("not found")

	// ErrRateLimited indicates an API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")

	// ErrInvalidConfig indicates the run configuration is malformed or
	// incomplete. The only error class allowed to escape a run.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrRunInProgress indicates a mirror pass is already running.
	ErrRunInProgress = errors.New("run in progress")

	// ErrSourceValidation indicates the source endpoint rejected a
	// connectivity or authentication check.
	ErrSourceValidation = errors.New("source validation failed")

	// ErrDestinationValidation indicates the destination endpoint
	// rejected a connectivity or authentication check.
	ErrDestinationValidation = errors.New("destination validation failed")
)

// APIError represents a classified HTTP failure from either endpoint.
type APIError struct {
	StatusCode int
	Message    string
	URL        string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error %d: %s (URL: %s)", e.StatusCode, e.Message, e.URL)
}

// SubtreeError marks a subtree that could not be fetched after the
// retry ceiling, or that failed terminally. It is caught at the root
// boundary: the root is skipped and the run continues.
type SubtreeError struct {
	// ParentID is the node whose children could not be listed.
	ParentID string

	// Err is the last underlying error.
	Err error
}

func (e *SubtreeError) Error() string {
	return fmt.Sprintf("subtree %s unavailable: %v", e.ParentID, e.Err)
}

func (e *SubtreeError) Unwrap() error {
	return e.Err
}

// UpsertError marks a destination write that failed for one candidate.
// It is recorded in the run output and never escalates past the
// candidate it belongs to.
type UpsertError struct {
	// DocumentID is the destination identifier of the failed candidate.
	DocumentID string

	// Err is the underlying cause.
	Err error
}

func (e *UpsertError) Error() string {
	return fmt.Sprintf("upsert %s: %v", e.DocumentID, e.Err)
}

func (e *UpsertError) Unwrap() error {
	return e.Err
}

// IsNotFound checks if the error indicates a document was not found.
func IsNotFound(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 404
	}
	return errors.Is(err, ErrNotFound)
}

// IsRateLimited checks if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 429
	}
	return errors.Is(err, ErrRateLimited)
}

// IsTransient checks if the error is worth retrying: rate limits,
// server-side failures, timeouts and temporary network conditions.
// Context cancellation is deliberate and never transient.
func IsTransient(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	if IsRateLimited(err) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode >= 500 || apiErr.StatusCode == 408
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}
