package adapters

import (
	"fmt"
	"strings"

	"github.com/critic-dev/critic/internal/review"
)

// FromFlake8 converts a flake8-shaped payload ({"issues": [{code,message,
// row,col}]}) into issues. Tolerant of nil or malformed payloads: anything
// that doesn't match the expected shape is skipped, never an error.
func FromFlake8(raw map[string]any, filename string) []review.Issue {
	items, ok := rawList(raw, "issues")
	if !ok {
		return nil
	}

	var out []review.Issue
	for _, it := range items {
		m, ok := it.(map[string]any)
		if !ok {
			continue
		}
		code := strings.TrimSpace(str(m, "code"))
		msg := strings.TrimSpace(str(m, "message"))
		if msg == "" {
			msg = "flake8 issue"
		}

		var sev review.Severity
		switch {
		case strings.HasPrefix(code, "E9"):
			sev = review.SeverityCritical
		case strings.HasPrefix(code, "F"):
			sev = review.SeverityHigh
		case strings.HasPrefix(code, "E"):
			sev = review.SeverityMedium
		default:
			sev = review.SeverityLow
		}

		desc := msg
		if code != "" {
			desc = fmt.Sprintf("%s: %s", code, msg)
		}

		out = append(out, review.Issue{
			File:        filename,
			Line:        lineOf(m, "row"),
			Category:    review.CategoryStyle,
			Severity:    sev,
			Description: desc,
			Suggestion:  "Fix the reported lint issue.",
			Source:      review.SourceExternalTool,
			Code:        code,
			Metadata:    map[string]any{"tool": "flake8", "col": m["col"]},
		})
	}
	return out
}

// FromBandit converts a bandit-shaped payload ({"result": {"results":
// [{test_id, issue_text, issue_severity, line_number, ...}]}}) into
// security issues. Same tolerance contract as FromFlake8.
func FromBandit(raw map[string]any, filename string) []review.Issue {
	result, ok := raw["result"].(map[string]any)
	if !ok {
		return nil
	}
	items, ok := rawList(result, "results")
	if !ok {
		return nil
	}

	var out []review.Issue
	for _, it := range items {
		m, ok := it.(map[string]any)
		if !ok {
			continue
		}
		testID := strings.TrimSpace(str(m, "test_id"))
		text := strings.TrimSpace(str(m, "issue_text"))
		if text == "" {
			text = "bandit issue"
		}

		desc := text
		if testID != "" {
			desc = fmt.Sprintf("%s: %s", testID, text)
		}

		out = append(out, review.Issue{
			File:        filename,
			Line:        lineOf(m, "line_number"),
			Category:    review.CategorySecurity,
			Severity:    review.NormalizeSeverity(str(m, "issue_severity")),
			Description: desc,
			Suggestion:  "Address the finding; prefer safe APIs and input validation.",
			Source:      review.SourceExternalTool,
			Code:        testID,
			Metadata: map[string]any{
				"tool":       "bandit",
				"confidence": m["issue_confidence"],
				"more_info":  m["more_info"],
			},
		})
	}
	return out
}

func rawList(m map[string]any, key string) ([]any, bool) {
	if m == nil {
		return nil, false
	}
	items, ok := m[key].([]any)
	return items, ok
}

func str(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

// lineOf reads a 1-based line number tolerant of JSON number decoding.
func lineOf(m map[string]any, key string) int {
	var n int
	switch v := m[key].(type) {
	case float64:
		n = int(v)
	case int:
		n = v
	}
	if n < 1 {
		return 1
	}
	return n
}
