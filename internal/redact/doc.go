// Package redact removes secrets from source text before it is sent to any
// model provider.
//
// Detection uses regex heuristics covering common secret shapes: API keys,
// JWTs, private keys, AWS credentials, bearer tokens, and provider-specific
// tokens (Anthropic, OpenAI, GitHub, Slack).
//
// Path-based redaction is also supported: files whose paths match configured
// glob patterns have their entire content replaced rather than being scanned
// line by line. Redaction applies only to model traffic; the local rule
// engine always sees the original text.
package redact
