package review

import (
	"reflect"
	"testing"
)

func TestRank_Order(t *testing.T) {
	issues := []Issue{
		{File: "b.py", Line: 2, Category: CategoryStyle, Severity: SeverityLow, Description: "d"},
		{File: "a.py", Line: 1, Category: CategoryBug, Severity: SeverityCritical, Description: "c"},
		{File: "a.py", Line: 1, Category: CategorySecurity, Severity: SeverityCritical, Description: "b"},
		{File: "a.py", Line: 1, Category: CategorySecurity, Severity: SeverityCritical, Description: "a"},
		{File: "a.py", Line: 9, Category: CategoryBug, Severity: SeverityHigh, Description: "e"},
	}
	got := Rank(issues)

	wantDesc := []string{"a", "b", "c", "e", "d"}
	for i, w := range wantDesc {
		if got[i].Description != w {
			t.Fatalf("rank[%d].Description = %q, want %q (full: %+v)", i, got[i].Description, w, got)
		}
	}
}

func TestRank_Idempotent(t *testing.T) {
	issues := []Issue{
		{File: "z.py", Line: 3, Category: CategoryPerformance, Severity: SeverityMedium, Description: "m"},
		{File: "a.py", Line: 3, Category: CategoryMaintainability, Severity: SeverityMedium, Description: "n"},
		{File: "a.py", Line: 3, Category: CategoryMaintainability, Severity: SeverityInfo, Description: "n"},
	}
	once := Rank(issues)
	twice := Rank(once)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("rank(rank(X)) != rank(X)")
	}
}

func TestRank_DoesNotMutateInput(t *testing.T) {
	issues := []Issue{
		{File: "b.py", Severity: SeverityLow, Category: CategoryStyle},
		{File: "a.py", Severity: SeverityHigh, Category: CategoryBug},
	}
	_ = Rank(issues)
	if issues[0].File != "b.py" {
		t.Error("Rank mutated its input slice")
	}
}
