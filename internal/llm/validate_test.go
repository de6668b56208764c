package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/critic-dev/critic/internal/review"
)

func TestParseResponse_EmptyIssues(t *testing.T) {
	out := ParseResponse(`{"issues": []}`, "")
	assert.Empty(t, out.Issues)
	assert.Empty(t, out.Dropped)
}

func TestParseResponse_FencedJSON(t *testing.T) {
	raw := "```json\n{\"issues\": [{\"severity\": \"high\", \"category\": \"bug\", " +
		"\"description\": \"off by one\", \"suggestion\": \"fix bound\", \"line\": 4}]}\n```"
	out := ParseResponse(raw, "")
	require.Len(t, out.Issues, 1)
	assert.Equal(t, review.SeverityHigh, out.Issues[0].Severity)
	assert.Equal(t, review.CategoryBug, out.Issues[0].Category)
	assert.Equal(t, 4, out.Issues[0].Line)
	assert.Equal(t, review.SourceModel, out.Issues[0].Source)
}

func TestParseResponse_NonJSON(t *testing.T) {
	out := ParseResponse("Sure! Here is my review: the code looks fine.", "")
	require.Len(t, out.Issues, 1)
	got := out.Issues[0]
	assert.Equal(t, review.SeverityHigh, got.Severity)
	assert.Equal(t, review.CategoryBug, got.Category)
	assert.Equal(t, "model-invalid-json", got.Code)
}

func TestParseResponse_MissingIssuesArray(t *testing.T) {
	out := ParseResponse(`{"findings": []}`, "")
	require.Len(t, out.Issues, 1)
	assert.Equal(t, "model-missing-issues", out.Issues[0].Code)
}

func TestParseResponse_LineFromLocation(t *testing.T) {
	raw := `{"issues": [{"severity": "medium", "category": "style",
		"description": "long line", "suggestion": "wrap it", "location": "input.py:17"}]}`
	out := ParseResponse(raw, "")
	require.Len(t, out.Issues, 1)
	assert.Equal(t, 17, out.Issues[0].Line)
	assert.Equal(t, "input.py:17", out.Issues[0].Metadata["location"])
}

func TestParseResponse_NearMissAdapted(t *testing.T) {
	raw := `{"issues": [{"type": "observation", "message": "Function is quite long",
		"context": "Consider splitting into helpers"}]}`
	out := ParseResponse(raw, "")
	require.Len(t, out.Issues, 1)
	got := out.Issues[0]
	assert.Equal(t, review.SeverityLow, got.Severity)
	assert.Equal(t, review.CategoryStyle, got.Category)
	assert.Equal(t, "Function is quite long", got.Description)
	assert.Equal(t, "Consider splitting into helpers", got.Suggestion)
	assert.Equal(t, "observation", got.Metadata["normalized_from"])
	assert.Empty(t, out.Dropped)
}

func TestParseResponse_PlaceholderOnlyIsClean(t *testing.T) {
	raw := `{"issues": [{"severity": "low", "category": "style",
		"description": "No issues found", "suggestion": "No action needed."}]}`
	out := ParseResponse(raw, "")
	assert.Empty(t, out.Issues)
	assert.Empty(t, out.Dropped)
}

func TestParseResponse_DroppedNoteAppended(t *testing.T) {
	raw := `{"issues": [
		{"severity": "high", "category": "security", "description": "shell injection", "suggestion": "use subprocess list args"},
		{"severity": "catastrophic", "category": "security", "description": "bad", "suggestion": "fix"},
		"garbage"
	]}`
	out := ParseResponse(raw, "")
	require.Len(t, out.Issues, 2)
	require.Len(t, out.Dropped, 2)

	assert.Equal(t, "shell injection", out.Issues[0].Description)

	note := out.Issues[1]
	assert.Equal(t, review.SeverityLow, note.Severity)
	assert.Equal(t, review.CategoryStyle, note.Category)
	assert.Equal(t, "model-dropped-items", note.Code)
	assert.Equal(t, 2, note.Metadata["dropped"])
}

func TestParseResponse_AllDropped(t *testing.T) {
	raw := `{"issues": [{"severity": "banana", "category": "fruit", "description": "x", "suggestion": "y"}]}`
	out := ParseResponse(raw, "")
	require.Len(t, out.Issues, 1)
	got := out.Issues[0]
	assert.Equal(t, "model-no-valid-issues", got.Code)
	assert.Equal(t, review.SeverityHigh, got.Severity)
	assert.Equal(t, review.CategoryBug, got.Category)
	require.Len(t, out.Dropped, 1)
}

func TestParseResponse_HallucinatedDocsNitDropped(t *testing.T) {
	source := "def f():\n    \"\"\"Adds things.\"\"\"\n    return 1\n"
	raw := `{"issues": [{"severity": "low", "category": "style",
		"description": "The function is missing documentation", "suggestion": "Add a docstring"}]}`
	out := ParseResponse(raw, source)
	assert.Empty(t, out.Issues)
	assert.Empty(t, out.Dropped)
}

func TestParseResponse_ExtraKeysAccepted(t *testing.T) {
	// Models decorate items with fields like "impact" beyond the contract.
	// Extra keys never disqualify an item carrying valid required fields.
	raw := `{"issues": [{"severity": "high", "category": "bug",
		"description": "index may exceed bounds", "suggestion": "check length first",
		"impact": "crash on empty input", "confidence": 0.9}]}`
	out := ParseResponse(raw, "")
	require.Len(t, out.Issues, 1)
	assert.Empty(t, out.Dropped)
	got := out.Issues[0]
	assert.Equal(t, review.SeverityHigh, got.Severity)
	assert.Equal(t, review.CategoryBug, got.Category)
	assert.Equal(t, "index may exceed bounds", got.Description)
}

func TestParseResponse_HallucinatedNitGateIgnoresCase(t *testing.T) {
	// Mixed-case severity/category still reach the contradiction filter
	// instead of leaking through to schema rejection.
	source := "def f():\n    \"\"\"Adds things.\"\"\"\n    return 1\n"
	raw := `{"issues": [{"severity": "Low", "category": "Style",
		"description": "The function is missing documentation", "suggestion": "Add a docstring"}]}`
	out := ParseResponse(raw, source)
	assert.Empty(t, out.Issues)
	assert.Empty(t, out.Dropped)
}

func TestParseResponse_HighSeverityNeverFiltered(t *testing.T) {
	// Contradiction filters apply to low/style only.
	source := "def f():\n    \"\"\"doc\"\"\"\n    return 1\n"
	raw := `{"issues": [{"severity": "high", "category": "bug",
		"description": "missing documentation causes misuse", "suggestion": "document it"}]}`
	out := ParseResponse(raw, source)
	assert.Len(t, out.Issues, 1)
}

func TestStripFences(t *testing.T) {
	assert.Equal(t, `{"issues": []}`, stripFences("```json\n{\"issues\": []}\n```"))
	assert.Equal(t, `{"issues": []}`, stripFences(`{"issues": []}`))
	assert.Equal(t, "a\nb", stripFences("```\na\nb\n```"))
}

func TestBuildPrompt(t *testing.T) {
	got, err := BuildPrompt(Request{
		Filename: "input.py",
		Code:     "print('x')\n",
		Strict:   true,
	})
	require.NoError(t, err)
	assert.Contains(t, got, `"language":"python"`)
	assert.Contains(t, got, `"filename":"input.py"`)
	assert.Contains(t, got, "strict project-level code review agent")
	assert.Contains(t, got, `return an empty list: {"issues": []}`)
}

func TestInstructions(t *testing.T) {
	assert.NotEqual(t, Instructions(true), Instructions(false))
	assert.Contains(t, Instructions(false), "high-signal")
}
