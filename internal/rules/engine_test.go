package rules

import (
	"context"
	"testing"

	"github.com/critic-dev/critic/internal/parser"
	"github.com/critic-dev/critic/internal/review"
)

func mustContext(t *testing.T, src string, strict bool) Context {
	t.Helper()
	tree, err := parser.Parse(context.Background(), []byte(src))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	t.Cleanup(tree.Close)
	return Context{Filename: "input.py", Source: []byte(src), Tree: tree, Strict: strict}
}

func issuesByCode(issues []review.Issue, code string) []review.Issue {
	var out []review.Issue
	for _, i := range issues {
		if i.Code == code {
			out = append(out, i)
		}
	}
	return out
}

func TestRegistry_StableIDs(t *testing.T) {
	seen := make(map[string]bool)
	for _, r := range Registry() {
		if r.ID == "" {
			t.Error("rule with empty ID")
		}
		if seen[r.ID] {
			t.Errorf("duplicate rule ID %q", r.ID)
		}
		seen[r.ID] = true
		if r.Run == nil {
			t.Errorf("rule %s has no Run func", r.ID)
		}
	}
}

func TestRunAll_EnableMapOverridesDefaults(t *testing.T) {
	ctx := mustContext(t, "print('hi')\n", false)

	all := RunAll(ctx, nil)
	if len(issuesByCode(all, "R100-debug-print")) != 1 {
		t.Fatalf("expected one debug-print issue, got %v", all)
	}

	off := RunAll(ctx, map[string]bool{"R100-debug-print": false})
	if len(issuesByCode(off, "R100-debug-print")) != 0 {
		t.Errorf("disabled rule still produced issues: %v", off)
	}
}

func TestRunAll_NilTree(t *testing.T) {
	if got := RunAll(Context{Filename: "x.py"}, nil); got != nil {
		t.Errorf("nil tree should yield no issues, got %v", got)
	}
}

func TestRunAll_AllIssuesFromRuleEngine(t *testing.T) {
	ctx := mustContext(t, "if x is 5:\n    print(x)\n", false)
	for _, i := range RunAll(ctx, nil) {
		if i.Source != review.SourceRuleEngine {
			t.Errorf("issue %s has source %q, want %q", i.Code, i.Source, review.SourceRuleEngine)
		}
		if i.Line < 1 {
			t.Errorf("issue %s has line %d", i.Code, i.Line)
		}
		if i.File != "input.py" {
			t.Errorf("issue %s has file %q", i.Code, i.File)
		}
	}
}
