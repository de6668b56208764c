// Package review defines the issue data model shared by all producers, plus
// the aggregation primitives that make results deterministic: severity
// normalization, fingerprint-based deduplication, severity-weighted scoring,
// and the presentation ranker.
package review
