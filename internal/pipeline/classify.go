package pipeline

import (
	"strings"

	"github.com/critic-dev/critic/internal/review"
)

var httpStatusMarkers = []string{"400", "401", "403", "404", "408", "429", "500", "502", "503", "504"}
var retryableStatusMarkers = []string{"408", "429", "500", "502", "503", "504"}

// ClassifyModelError maps a model-stage transport error onto a diagnostic by
// inspecting the error text. Matching is coarse on purpose: provider errors
// arrive as free text, and an unknown shape must still land on a code.
func ClassifyModelError(err error) review.Diagnostic {
	msg := err.Error()
	lower := strings.ToLower(msg)

	diag := review.Diagnostic{
		Code:     review.DiagModelNetworkError,
		Message:  "model stage failed: " + msg,
		Severity: "warning",
		Metadata: map[string]any{"detail": msg},
	}

	switch {
	case strings.Contains(lower, "429") ||
		(strings.Contains(lower, "rate") && strings.Contains(lower, "limit")):
		diag.Code = review.DiagModelRateLimited
		diag.Retryable = review.Bool(true)
		diag.StatusCode = 429
	case strings.Contains(lower, "timeout") || strings.Contains(lower, "deadline exceeded"):
		diag.Code = review.DiagModelTimeout
		diag.Retryable = review.Bool(true)
	case strings.Contains(lower, "http") && containsAnyMarker(lower, httpStatusMarkers):
		diag.Code = review.DiagModelHTTPError
		diag.Retryable = review.Bool(containsAnyMarker(lower, retryableStatusMarkers))
	case strings.Contains(lower, "json"):
		diag.Code = review.DiagModelInvalidResponse
		diag.Retryable = review.Bool(true)
	}
	return diag
}

func containsAnyMarker(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}
