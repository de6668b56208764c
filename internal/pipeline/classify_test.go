package pipeline

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/critic-dev/critic/internal/review"
)

func TestClassifyModelError(t *testing.T) {
	tests := []struct {
		name      string
		msg       string
		code      review.DiagnosticCode
		retryable *bool
		status    int
	}{
		{"status 429", "http error (status 429): slow down", review.DiagModelRateLimited, review.Bool(true), 429},
		{"rate limit text", "provider said: rate limit exceeded", review.DiagModelRateLimited, review.Bool(true), 429},
		{"client timeout", "Post \"x\": context deadline exceeded (Client.Timeout exceeded)", review.DiagModelTimeout, review.Bool(true), 0},
		{"retryable http", "http error (status 503): down", review.DiagModelHTTPError, review.Bool(true), 0},
		{"non-retryable http", "http error (status 404): missing", review.DiagModelHTTPError, review.Bool(false), 0},
		{"invalid json", "parsing response json: unexpected end of input", review.DiagModelInvalidResponse, review.Bool(true), 0},
		{"network fallback", "dial tcp: connection refused", review.DiagModelNetworkError, nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := ClassifyModelError(errors.New(tt.msg))
			assert.Equal(t, tt.code, d.Code)
			assert.Equal(t, "warning", d.Severity)
			assert.Equal(t, tt.status, d.StatusCode)
			if tt.retryable == nil {
				assert.Nil(t, d.Retryable)
			} else {
				require.NotNil(t, d.Retryable)
				assert.Equal(t, *tt.retryable, *d.Retryable)
			}
			assert.Contains(t, d.Message, tt.msg)
		})
	}
}
