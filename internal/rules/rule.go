package rules

import (
	"github.com/critic-dev/critic/internal/parser"
	"github.com/critic-dev/critic/internal/review"
)

// Context carries everything a detector may consult. Detectors are pure:
// same Context, same issues.
type Context struct {
	Filename string
	Source   []byte
	Tree     *parser.Tree
	Strict   bool
}

// Rule is a single detector with a stable identifier. DefaultEnabled may be
// overridden per run through the caller's enable map.
type Rule struct {
	ID             string
	Description    string
	DefaultEnabled bool
	Run            func(Context) []review.Issue
}

// Registry returns the fixed detector set: logical correctness checks first,
// then the style heuristics.
func Registry() []Rule {
	out := make([]Rule, 0, len(logicalRules)+len(styleRules))
	out = append(out, logicalRules...)
	out = append(out, styleRules...)
	return out
}

// RunAll executes every enabled rule against the parsed tree. The enabled map
// is merged over each rule's default flag. A rule that panics contributes no
// findings; rules never abort the run.
func RunAll(ctx Context, enabled map[string]bool) []review.Issue {
	if ctx.Tree == nil {
		return nil
	}

	var issues []review.Issue
	for _, r := range Registry() {
		on := r.DefaultEnabled
		if v, ok := enabled[r.ID]; ok {
			on = v
		}
		if !on {
			continue
		}
		issues = append(issues, runSafe(r, ctx)...)
	}
	return issues
}

func runSafe(r Rule, ctx Context) (out []review.Issue) {
	defer func() {
		if recover() != nil {
			out = nil
		}
	}()
	return r.Run(ctx)
}

// mkIssue builds a rule-engine issue, clamping the line to >= 1.
func mkIssue(ctx Context, line int, cat review.Category, sev review.Severity, desc, sugg, code string) review.Issue {
	if line < 1 {
		line = 1
	}
	return review.Issue{
		File:        ctx.Filename,
		Line:        line,
		Category:    cat,
		Severity:    sev,
		Description: desc,
		Suggestion:  sugg,
		Source:      review.SourceRuleEngine,
		Code:        code,
	}
}

// escalate bumps sev one step up in strict mode.
func escalate(strict bool, sev review.Severity) review.Severity {
	if !strict {
		return sev
	}
	switch sev {
	case review.SeverityInfo:
		return review.SeverityLow
	case review.SeverityLow:
		return review.SeverityMedium
	case review.SeverityMedium:
		return review.SeverityHigh
	case review.SeverityHigh:
		return review.SeverityCritical
	default:
		return sev
	}
}
