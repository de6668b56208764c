// Package adapters converts raw external static-analysis tool output into
// the canonical issue model. Adapters never fail: absent or malformed tool
// payloads yield an empty list.
package adapters
