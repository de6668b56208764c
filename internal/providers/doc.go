// Package providers implements the Reviewer interface for each supported
// model provider.
//
// Supported providers: OpenAI-compatible endpoints (configurable base URL),
// Anthropic, and Ollama / LM Studio for local models.
//
// All providers share a retry helper that backs off only on rate limits;
// every other transport failure is returned to the pipeline, which owns
// error classification. HTTP clients and base URLs are struct fields so
// tests can redirect calls to local httptest servers.
//
// Use [New] to obtain a Reviewer from a Config.
package providers
