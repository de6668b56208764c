package llm

import "github.com/santhosh-tekuri/jsonschema/v5"

const envelopeSchemaJSON = `{
  "type": "object",
  "properties": {
    "issues": {"type": "array"}
  },
  "required": ["issues"]
}`

const issueSchemaJSON = `{
  "type": "object",
  "properties": {
    "severity": {"type": "string", "enum": ["critical", "high", "medium", "low", "info"]},
    "category": {"type": "string", "enum": ["security", "bug", "performance", "maintainability", "style"]},
    "description": {"type": "string", "minLength": 1},
    "suggestion": {"type": "string"},
    "location": {"type": ["string", "null"]},
    "line": {"type": "integer", "minimum": 1},
    "metadata": {"type": "object"}
  },
  "required": ["severity", "category", "description", "suggestion"]
}`

var (
	envelopeSchema = jsonschema.MustCompileString("envelope.schema.json", envelopeSchemaJSON)
	issueSchema    = jsonschema.MustCompileString("issue.schema.json", issueSchemaJSON)
)
