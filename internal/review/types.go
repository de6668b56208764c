package review

import "strconv"

// Severity is the ordinal urgency of an issue.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
	SeverityInfo     Severity = "info"
)

// SeverityRank returns a numeric rank for sorting (lower = more severe).
func SeverityRank(s Severity) int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityHigh:
		return 1
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 3
	case SeverityInfo:
		return 4
	default:
		return 5
	}
}

// ValidSeverity reports whether s is one of the fixed severities.
func ValidSeverity(s Severity) bool {
	return SeverityRank(s) < 5
}

// Severities lists all severities from most to least severe.
func Severities() []Severity {
	return []Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow, SeverityInfo}
}

// Category classifies what kind of defect an issue describes.
type Category string

const (
	CategorySecurity        Category = "security"
	CategoryBug             Category = "bug"
	CategoryPerformance     Category = "performance"
	CategoryMaintainability Category = "maintainability"
	CategoryStyle           Category = "style"
)

// CategoryRank returns a numeric rank for sorting (lower = shown first).
func CategoryRank(c Category) int {
	switch c {
	case CategorySecurity:
		return 0
	case CategoryBug:
		return 1
	case CategoryPerformance:
		return 2
	case CategoryMaintainability:
		return 3
	case CategoryStyle:
		return 4
	default:
		return 5
	}
}

// ValidCategory reports whether c is one of the fixed categories.
func ValidCategory(c Category) bool {
	return CategoryRank(c) < 5
}

// Source identifies which producer emitted an issue.
type Source string

const (
	SourceRuleEngine   Source = "rule-engine"
	SourceExternalTool Source = "external-tool"
	SourceModel        Source = "model"
)

// Issue is a single reported defect. Issues are created by producers during
// one review call and are immutable afterward, except for fingerprint
// assignment during aggregation.
type Issue struct {
	File        string         `json:"file"`
	Line        int            `json:"line"`
	Category    Category       `json:"category"`
	Severity    Severity       `json:"severity"`
	Description string         `json:"description"`
	Suggestion  string         `json:"suggestion"`
	Source      Source         `json:"source"`
	Code        string         `json:"code,omitempty"`
	Fingerprint string         `json:"fingerprint,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// Location renders the issue position as "file:line" for ranking and display.
func (i Issue) Location() string {
	if i.File == "" {
		return ""
	}
	if i.Line <= 0 {
		return i.File
	}
	return i.File + ":" + strconv.Itoa(i.Line)
}

// ScoreBreakdown is the severity-weighted health score for one issue set.
type ScoreBreakdown struct {
	Score             int                  `json:"score"`
	PenaltyBySeverity map[Severity]float64 `json:"penaltyBySeverity"`
	CountBySeverity   map[Severity]int     `json:"countBySeverity"`
	CountByCategory   map[Category]int     `json:"countByCategory"`
}

// DiagnosticCode enumerates operational failures of the model stage.
type DiagnosticCode string

const (
	DiagModelRateLimited     DiagnosticCode = "model-rate-limited"
	DiagModelHTTPError       DiagnosticCode = "model-http-error"
	DiagModelTimeout         DiagnosticCode = "model-timeout"
	DiagModelNetworkError    DiagnosticCode = "model-network-error"
	DiagModelInvalidResponse DiagnosticCode = "model-invalid-response"
	DiagModelDisabled        DiagnosticCode = "model-disabled"
)

// Diagnostic reports a pipeline-stage operational failure. Diagnostics stay
// separate from the issue list; they describe the review run, not the
// reviewed code.
type Diagnostic struct {
	Code       DiagnosticCode `json:"code"`
	Message    string         `json:"message"`
	Severity   string         `json:"severity"` // info|warning|error
	StatusCode int            `json:"statusCode,omitempty"`
	Retryable  *bool          `json:"retryable,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// Bool returns a pointer to b, for the Diagnostic.Retryable field.
func Bool(b bool) *bool { return &b }

// ReviewResult is the output of one per-file pipeline invocation.
type ReviewResult struct {
	Issues            []Issue        `json:"issues"`
	Score             ScoreBreakdown `json:"score"`
	Diagnostics       []Diagnostic   `json:"diagnostics"`
	StaticAnalysisRaw map[string]any `json:"staticAnalysisRaw,omitempty"`
}

// ProjectReviewResult aggregates per-file results with a project-wide rollup.
type ProjectReviewResult struct {
	PerFile     map[string]*ReviewResult `json:"perFile"`
	Overall     *ReviewResult            `json:"overall"`
	Diagnostics []Diagnostic             `json:"diagnostics"`
}
