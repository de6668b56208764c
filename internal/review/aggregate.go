package review

import (
	"crypto/sha256"
	"fmt"
	"strings"
)

// severitySynonyms maps textual severities from external producers onto the
// fixed enumeration. Lookup is case-insensitive; unknown values map to medium.
var severitySynonyms = map[string]Severity{
	"critical": SeverityCritical,
	"blocker":  SeverityCritical,
	"high":     SeverityHigh,
	"major":    SeverityHigh,
	"error":    SeverityHigh,
	"medium":   SeverityMedium,
	"moderate": SeverityMedium,
	"warning":  SeverityMedium,
	"low":      SeverityLow,
	"minor":    SeverityLow,
	"info":     SeverityInfo,
}

// NormalizeSeverity maps a raw textual severity onto the fixed enumeration.
func NormalizeSeverity(raw string) Severity {
	if s, ok := severitySynonyms[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return s
	}
	return SeverityMedium
}

// Fingerprint computes the deduplication key for an issue. Equal field
// tuples always produce equal fingerprints.
func Fingerprint(i Issue) string {
	key := fmt.Sprintf("%s|%d|%s|%s|%s|%s|%s",
		i.File, i.Line, i.Category, i.Severity,
		strings.TrimSpace(i.Description), i.Source, i.Code)
	sum := sha256.Sum256([]byte(key))
	return fmt.Sprintf("%x", sum[:8])
}

// Dedupe drops issues whose fingerprint has already been seen, preserving
// first-seen order across the concatenated input streams. Fingerprints are
// assigned to the surviving issues. Dedupe is idempotent.
func Dedupe(issues []Issue) []Issue {
	seen := make(map[string]struct{}, len(issues))
	out := make([]Issue, 0, len(issues))
	for _, i := range issues {
		fp := i.Fingerprint
		if fp == "" {
			fp = Fingerprint(i)
		}
		if _, dup := seen[fp]; dup {
			continue
		}
		seen[fp] = struct{}{}
		i.Fingerprint = fp
		out = append(out, i)
	}
	return out
}
