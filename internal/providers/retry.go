package providers

import (
	"context"
	"fmt"
	"time"
)

type rateLimitError struct{}

func (e *rateLimitError) Error() string { return "rate limited (HTTP 429)" }

type authError struct {
	message string
}

func (e *authError) Error() string {
	return "authentication error: " + e.message
}

// IsAuthError checks if an error is an authentication error.
func IsAuthError(err error) bool {
	_, ok := err.(*authError)
	return ok
}

type serverError struct {
	statusCode int
	body       string
}

func (e *serverError) Error() string {
	return fmt.Sprintf("http error (status %d): %s", e.statusCode, e.body)
}

type badRequestError struct {
	body string
}

func (e *badRequestError) Error() string {
	return "http error (status 400): " + e.body
}

// baseBackoff is the unit for exponential backoff. Tests shrink it.
var baseBackoff = time.Second

// retryWithBackoff retries fn on rate-limit errors only. Auth failures and
// every other error return immediately; the pipeline classifies them.
func retryWithBackoff(ctx context.Context, maxRetries int, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		if _, ok := lastErr.(*rateLimitError); !ok {
			return lastErr
		}

		if attempt < maxRetries {
			backoff := time.Duration(1<<uint(attempt)) * baseBackoff
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}
	}
	return lastErr
}
