package llm

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/critic-dev/critic/internal/review"
)

// Dropped records one model item rejected during validation, with the reason.
type Dropped struct {
	Item   any    `json:"item"`
	Reason string `json:"reason"`
}

// Outcome is the validated result of one model response. Issues already
// reflect the residue policy: a drop note is appended when valid issues
// coexist with dropped ones, and an all-dropped batch collapses into a
// single explicit error issue.
type Outcome struct {
	Issues  []review.Issue
	Dropped []Dropped
}

// ParseResponse validates raw model text against the issue contract. It
// never returns an error: parse and schema failures become issues, filtered
// placeholders vanish, and partial batches are salvaged. source is the
// reviewed file's text, used to reject claims it directly contradicts.
func ParseResponse(raw, source string) Outcome {
	content := stripFences(raw)

	var envelope any
	if err := json.Unmarshal([]byte(content), &envelope); err != nil {
		return Outcome{Issues: []review.Issue{errorIssue(
			"Model returned non-JSON content",
			"Ensure the provider supports response_format=json_object; otherwise enforce JSON in the prompt.",
			"model-invalid-json",
			map[string]any{"detail": err.Error(), "content_snippet": snippet(content, 500)},
		)}}
	}

	if err := envelopeSchema.Validate(envelope); err != nil {
		return Outcome{Issues: []review.Issue{errorIssue(
			"Model JSON response missing 'issues' array",
			"Update the prompt/schema to always include an 'issues' array.",
			"model-missing-issues",
			map[string]any{"detail": err.Error()},
		)}}
	}
	items := envelope.(map[string]any)["issues"].([]any)

	var issues []review.Issue
	var dropped []Dropped
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			dropped = append(dropped, Dropped{Item: item, Reason: "not an object"})
			continue
		}
		m = adaptNearMiss(m)

		desc := strOf(m, "description")
		sugg := strOf(m, "suggestion")
		if isNoIssuePlaceholder(desc, sugg) {
			// A clean review is represented by an empty list, not a filler item.
			continue
		}
		if strings.ToLower(strOf(m, "severity")) == "low" &&
			strings.ToLower(strOf(m, "category")) == "style" &&
			looksHallucinatedNit(desc, sugg, source) {
			continue
		}

		if err := issueSchema.Validate(any(m)); err != nil {
			dropped = append(dropped, Dropped{Item: item, Reason: err.Error()})
			continue
		}
		issues = append(issues, toIssue(m))
	}

	if len(issues) > 0 {
		if len(dropped) > 0 {
			issues = append(issues, review.Issue{
				Line:        1,
				Category:    review.CategoryStyle,
				Severity:    review.SeverityLow,
				Description: fmt.Sprintf("%d model issue(s) were dropped due to schema validation errors", len(dropped)),
				Suggestion:  "Tighten the model prompt/schema or extend response normalization.",
				Source:      review.SourceModel,
				Code:        "model-dropped-items",
				Metadata:    map[string]any{"dropped": len(dropped)},
			})
		}
		return Outcome{Issues: issues, Dropped: dropped}
	}

	if len(dropped) == 0 {
		return Outcome{}
	}
	out := Outcome{Dropped: dropped}
	out.Issues = []review.Issue{errorIssue(
		"Model returned no valid issues",
		"Retry; if it persists, adjust the prompt/schema and verify provider JSON support.",
		"model-no-valid-issues",
		map[string]any{"dropped": len(dropped)},
	)}
	return out
}

// adaptNearMiss maps {type,message,context}-shaped items into low/style
// issues. Items already carrying the required fields pass through untouched.
func adaptNearMiss(m map[string]any) map[string]any {
	if hasAll(m, "severity", "category", "description", "suggestion") {
		return m
	}

	message := strOf(m, "message")
	if message == "" {
		message = strOf(m, "description")
	}
	context := strOf(m, "context")
	typ := strOf(m, "type")
	if message == "" && context == "" {
		return m
	}

	desc := message
	if desc == "" {
		desc = context
	}
	sugg := "Review completed."
	if message != "" && context != "" {
		sugg = context
	}

	out := map[string]any{
		"severity":    "low",
		"category":    "style",
		"description": orDefault(strings.TrimSpace(desc), "No issues found"),
		"suggestion":  orDefault(strings.TrimSpace(sugg), "No action needed."),
		"metadata":    map[string]any{"normalized_from": orDefault(typ, "unknown"), "raw": m},
	}
	if loc, ok := m["location"]; ok {
		out["location"] = loc
	}
	return out
}

func toIssue(m map[string]any) review.Issue {
	iss := review.Issue{
		Line:        lineOf(m),
		Category:    review.Category(strOf(m, "category")),
		Severity:    review.NormalizeSeverity(strOf(m, "severity")),
		Description: strings.TrimSpace(strOf(m, "description")),
		Suggestion:  strings.TrimSpace(strOf(m, "suggestion")),
		Source:      review.SourceModel,
	}
	if md, ok := m["metadata"].(map[string]any); ok {
		iss.Metadata = md
	}
	if loc := strOf(m, "location"); loc != "" {
		if iss.Metadata == nil {
			iss.Metadata = map[string]any{}
		}
		iss.Metadata["location"] = loc
	}
	return iss
}

// lineOf reads an explicit line field, falling back to a trailing ":<n>"
// in the location string. Unknown lines resolve to 1.
func lineOf(m map[string]any) int {
	if v, ok := m["line"].(float64); ok && int(v) >= 1 {
		return int(v)
	}
	loc := strOf(m, "location")
	if i := strings.LastIndex(loc, ":"); i >= 0 {
		if n, err := strconv.Atoi(loc[i+1:]); err == nil && n >= 1 {
			return n
		}
	}
	return 1
}

// stripFences removes a wrapping markdown code fence. Providers that ignore
// response_format tend to wrap the object in ```json fences.
func stripFences(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}
	lines := strings.Split(content, "\n")
	if len(lines) < 2 {
		return content
	}
	end := len(lines)
	if strings.TrimSpace(lines[end-1]) == "```" {
		end--
	}
	return strings.Join(lines[1:end], "\n")
}

func errorIssue(desc, sugg, code string, meta map[string]any) review.Issue {
	return review.Issue{
		Line:        1,
		Category:    review.CategoryBug,
		Severity:    review.SeverityHigh,
		Description: desc,
		Suggestion:  sugg,
		Source:      review.SourceModel,
		Code:        code,
		Metadata:    meta,
	}
}

func hasAll(m map[string]any, keys ...string) bool {
	for _, k := range keys {
		if _, ok := m[k]; !ok {
			return false
		}
	}
	return true
}

func strOf(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func snippet(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
