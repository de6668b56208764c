package output

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/critic-dev/critic/internal/review"
)

// TextWriter outputs a human-readable text report.
type TextWriter struct{}

func (t *TextWriter) Write(w io.Writer, report *Report) error {
	ew := &errWriter{w: w}
	overall := report.Project.Overall

	mode := "standard"
	if report.Strict {
		mode = "strict"
	}
	ew.printf("Critic Code Review — %s mode\n", mode)
	ew.println(strings.Repeat("─", 60))
	ew.printf("Score: %d/100\n", overall.Score.Score)
	ew.printf("Issues: %d total", len(overall.Issues))
	if len(overall.Issues) > 0 {
		var parts []string
		for _, sev := range review.Severities() {
			if n := overall.Score.CountBySeverity[sev]; n > 0 {
				parts = append(parts, fmt.Sprintf("%d %s", n, sev))
			}
		}
		ew.printf(" (%s)", strings.Join(parts, ", "))
	}
	ew.println("")
	ew.println(strings.Repeat("─", 60))

	if len(overall.Issues) == 0 {
		ew.println("\nNo issues found. Looks good!")
	} else {
		t.writeIssues(ew, overall.Issues)
	}

	if len(report.Project.Diagnostics) > 0 {
		ew.printf("\n%s\n", strings.Repeat("─", 60))
		ew.println("Diagnostics:")
		for _, d := range report.Project.Diagnostics {
			ew.printf("  [%s] %s: %s\n", d.Severity, d.Code, d.Message)
		}
	}

	return ew.err
}

// writeIssues groups by severity (most severe first), then sorts by
// location within each group.
func (t *TextWriter) writeIssues(ew *errWriter, issues []review.Issue) {
	grouped := make(map[review.Severity][]review.Issue)
	for _, i := range issues {
		grouped[i.Severity] = append(grouped[i.Severity], i)
	}

	for _, sev := range review.Severities() {
		group := grouped[sev]
		if len(group) == 0 {
			continue
		}

		ew.printf("\n%s %s\n", severityIcon(sev), strings.ToUpper(string(sev)))
		ew.println(strings.Repeat("─", 40))

		sort.SliceStable(group, func(i, j int) bool {
			return group[i].Location() < group[j].Location()
		})

		for _, iss := range group {
			ew.printf("\n  %s  [%s] %s\n", iss.Location(), iss.Category, sourceTag(iss.Source))
			for _, line := range wrapText(iss.Description, 70) {
				ew.printf("    %s\n", line)
			}
			if iss.Suggestion != "" {
				ew.println("  Suggestion:")
				for _, line := range wrapText(iss.Suggestion, 70) {
					ew.printf("    %s\n", line)
				}
			}
		}
	}
}

// errWriter wraps an io.Writer and captures the first error.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

func (ew *errWriter) println(s string) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintln(ew.w, s)
}

func severityIcon(s review.Severity) string {
	switch s {
	case review.SeverityCritical:
		return "[!!!]"
	case review.SeverityHigh:
		return "[!!]"
	case review.SeverityMedium:
		return "[!]"
	case review.SeverityLow:
		return "[-]"
	case review.SeverityInfo:
		return "[i]"
	default:
		return "[?]"
	}
}

func sourceTag(s review.Source) string {
	switch s {
	case review.SourceRuleEngine:
		return "rules"
	case review.SourceExternalTool:
		return "tools"
	case review.SourceModel:
		return "model"
	default:
		return string(s)
	}
}

func wrapText(text string, width int) []string {
	if len(text) <= width {
		return []string{text}
	}
	var lines []string
	words := strings.Fields(text)
	var current strings.Builder
	for _, word := range words {
		if current.Len()+len(word)+1 > width && current.Len() > 0 {
			lines = append(lines, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(word)
	}
	if current.Len() > 0 {
		lines = append(lines, current.String())
	}
	return lines
}
