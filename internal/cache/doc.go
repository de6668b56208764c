// Package cache provides a file-based TTL cache for raw model responses.
// Entries are keyed by a hash of provider, model, and the exact request
// payload, so any prompt change misses. Only the model stage reads it; the
// local analysis path never touches the cache.
package cache
