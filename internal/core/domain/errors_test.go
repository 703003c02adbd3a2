package domain

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// timeoutErr implements net.Error for classification tests.
type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

// TestErrors_Existence tests that all error variables exist and are not nil
func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrRateLimited", ErrRateLimited},
		{"ErrInvalidConfig", ErrInvalidConfig},
		{"ErrRunInProgress", ErrRunInProgress},
		{"ErrSourceValidation", ErrSourceValidation},
		{"ErrDestinationValidation", ErrDestinationValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

// TestIsNotFound tests not-found classification
func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(ErrNotFound))
	assert.True(t, IsNotFound(fmt.Errorf("list children: %w", ErrNotFound)))
	assert.True(t, IsNotFound(&APIError{StatusCode: 404, Message: "missing"}))
	assert.False(t, IsNotFound(&APIError{StatusCode: 500}))
	assert.False(t, IsNotFound(errors.New("boom")))
	assert.False(t, IsNotFound(nil))
}

// TestIsRateLimited tests rate limit classification
func TestIsRateLimited(t *testing.T) {
	assert.True(t, IsRateLimited(ErrRateLimited))
	assert.True(t, IsRateLimited(&APIError{StatusCode: 429}))
	assert.False(t, IsRateLimited(&APIError{StatusCode: 404}))
	assert.False(t, IsRateLimited(nil))
}

// TestIsTransient tests retryability classification
func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"rate limited sentinel", ErrRateLimited, true},
		{"429", &APIError{StatusCode: 429}, true},
		{"500", &APIError{StatusCode: 500}, true},
		{"503 wrapped", fmt.Errorf("list children: %w", &APIError{StatusCode: 503}), true},
		{"408 request timeout", &APIError{StatusCode: 408}, true},
		{"404", &APIError{StatusCode: 404}, false},
		{"401", &APIError{StatusCode: 401}, false},
		{"network timeout", timeoutErr{}, true},
		{"deadline exceeded", context.DeadlineExceeded, true},
		{"cancelled", context.Canceled, false},
		{"plain error", errors.New("parse failure"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTransient(tt.err))
		})
	}
}

// TestSubtreeError_Unwrap tests cause propagation through errors.As
func TestSubtreeError_Unwrap(t *testing.T) {
	cause := &APIError{StatusCode: 502, Message: "bad gateway"}
	err := &SubtreeError{ParentID: "node-3", Err: cause}

	assert.Contains(t, err.Error(), "node-3")

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 502, apiErr.StatusCode)
}

// TestUpsertError_Unwrap tests cause propagation
func TestUpsertError_Unwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := &UpsertError{DocumentID: "doc-3-notes", Err: cause}

	assert.Contains(t, err.Error(), "doc-3-notes")
	assert.True(t, errors.Is(err, cause))
}

// TestAPIError_Message tests the formatted message
func TestAPIError_Message(t *testing.T) {
	err := &APIError{StatusCode: 403, Message: "forbidden", URL: "https://api.example.com/v1/documents"}
	assert.Equal(t, "API error 403: forbidden (URL: https://api.example.com/v1/documents)", err.Error())
}
