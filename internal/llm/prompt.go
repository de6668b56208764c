package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SystemPrompt anchors every review request. Providers that support a system
// role send it separately; others prepend it to the user content.
const SystemPrompt = "You are a senior Python code reviewer. Return ONLY valid JSON that " +
	"matches the provided schema. Be concrete and actionable. Do not include markdown."

const laxInstructions = "Identify issues. Prefer high-signal items. " +
	"If static analysis already reports an issue, you may reference it and expand with context."

const strictInstructions = "Act as a strict project-level code review agent. Review code as production code. " +
	"While reviewing, check for: unused variables/dead code; naming clarity; missing/weak documentation; " +
	"magic numbers/hardcoded values; readability/maintainability; basic logical correctness; " +
	"code style and language-specific best practices. " +
	"Do not approve code just because it runs or has no syntax errors. " +
	"Return issues as structured JSON matching the schema (severity/category/description/suggestion/location). " +
	"If there are no issues, return an empty list."

// Instructions returns the reviewer directive for the requested rigor.
func Instructions(strict bool) string {
	if strict {
		return strictInstructions
	}
	return laxInstructions
}

// Request carries everything a provider needs to review one file.
type Request struct {
	Filename       string
	Language       string
	Code           string
	StaticAnalysis map[string]any
	Strict         bool
}

type promptPayload struct {
	Language       string         `json:"language"`
	Filename       string         `json:"filename"`
	Code           string         `json:"code"`
	StaticAnalysis map[string]any `json:"static_analysis"`
	Instructions   string         `json:"instructions"`
}

// BuildPrompt renders the user message for a review request. Many
// OpenAI-compatible endpoints ignore a schema unless the shape is restated
// inline, so the contract is spelled out before the payload.
func BuildPrompt(req Request) (string, error) {
	lang := strings.ToLower(strings.TrimSpace(req.Language))
	if lang == "" {
		lang = "python"
	}
	payload, err := json.Marshal(promptPayload{
		Language:       lang,
		Filename:       req.Filename,
		Code:           req.Code,
		StaticAnalysis: req.StaticAnalysis,
		Instructions:   Instructions(req.Strict),
	})
	if err != nil {
		return "", fmt.Errorf("marshal prompt payload: %w", err)
	}

	var b strings.Builder
	b.WriteString("You MUST return ONLY a JSON object with exactly this shape:\n")
	b.WriteString(`{"issues": [ {"severity": "critical|high|medium|low|info", ` +
		`"category": "security|bug|performance|maintainability|style", ` +
		`"description": "...", "suggestion": "...", "location": null or string } ] }`)
	b.WriteString("\n\nRules:\n")
	b.WriteString("- Do not include markdown.\n")
	b.WriteString("- Every issue item MUST include severity, category, description, suggestion.\n")
	b.WriteString("- If there are no problems, return an empty list: {\"issues\": []}.\n\n")
	b.WriteString("Here is a JSON Schema for reference (not output):\n")
	b.WriteString(issueSchemaJSON)
	b.WriteString("\n\nInput:\n")
	b.Write(payload)
	return b.String(), nil
}
