package review

import (
	"reflect"
	"testing"
)

func TestNormalizeSeverity(t *testing.T) {
	tests := []struct {
		raw  string
		want Severity
	}{
		{"critical", SeverityCritical},
		{"CRITICAL", SeverityCritical},
		{"blocker", SeverityCritical},
		{"high", SeverityHigh},
		{"MAJOR", SeverityHigh},
		{"error", SeverityHigh},
		{"medium", SeverityMedium},
		{"moderate", SeverityMedium},
		{"warning", SeverityMedium},
		{"  low  ", SeverityLow},
		{"minor", SeverityLow},
		{"info", SeverityInfo},
		{"", SeverityMedium},
		{"bogus", SeverityMedium},
	}
	for _, tt := range tests {
		if got := NormalizeSeverity(tt.raw); got != tt.want {
			t.Errorf("NormalizeSeverity(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestFingerprint_Deterministic(t *testing.T) {
	a := Issue{
		File: "main.py", Line: 3, Category: CategoryBug, Severity: SeverityHigh,
		Description: "  self-comparison  ", Suggestion: "fix", Source: SourceRuleEngine, Code: "L600-self-compare",
	}
	b := a
	if Fingerprint(a) != Fingerprint(b) {
		t.Fatal("identical issues produced different fingerprints")
	}

	// Description is trimmed before hashing.
	b.Description = "self-comparison"
	if Fingerprint(a) != Fingerprint(b) {
		t.Error("whitespace-only description difference changed the fingerprint")
	}

	// Differing files never collide.
	b = a
	b.File = "other.py"
	if Fingerprint(a) == Fingerprint(b) {
		t.Error("different files produced the same fingerprint")
	}
}

func TestDedupe_FirstSeenOrder(t *testing.T) {
	mk := func(src Source, line int, desc string) Issue {
		return Issue{
			File: "a.py", Line: line, Category: CategoryBug, Severity: SeverityMedium,
			Description: desc, Suggestion: "s", Source: src,
		}
	}
	issues := []Issue{
		mk(SourceRuleEngine, 1, "dup"),
		mk(SourceRuleEngine, 2, "keep"),
		mk(SourceRuleEngine, 1, "dup"),
		mk(SourceModel, 1, "dup"), // different source: not a duplicate
	}

	got := Dedupe(issues)
	if len(got) != 3 {
		t.Fatalf("got %d issues, want 3", len(got))
	}
	if got[0].Description != "dup" || got[1].Description != "keep" {
		t.Errorf("first-seen order not preserved: %v", got)
	}
	for _, i := range got {
		if i.Fingerprint == "" {
			t.Errorf("fingerprint not assigned for %q", i.Description)
		}
	}
}

func TestDedupe_Idempotent(t *testing.T) {
	issues := []Issue{
		{File: "a.py", Line: 1, Category: CategoryBug, Severity: SeverityHigh, Description: "x", Suggestion: "y", Source: SourceRuleEngine},
		{File: "a.py", Line: 1, Category: CategoryBug, Severity: SeverityHigh, Description: "x", Suggestion: "y", Source: SourceRuleEngine},
		{File: "b.py", Line: 9, Category: CategoryStyle, Severity: SeverityLow, Description: "z", Suggestion: "y", Source: SourceModel},
	}
	once := Dedupe(issues)
	twice := Dedupe(once)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("dedupe(dedupe(X)) != dedupe(X):\nonce:  %v\ntwice: %v", once, twice)
	}
}
