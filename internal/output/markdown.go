package output

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/critic-dev/critic/internal/review"
)

// MarkdownWriter outputs a PR-comment-friendly markdown report.
type MarkdownWriter struct{}

func (m *MarkdownWriter) Write(w io.Writer, report *Report) error {
	overall := report.Project.Overall

	fmt.Fprintf(w, "## Critic Code Review\n\n")
	fmt.Fprintf(w, "**Score: %d/100**\n\n", overall.Score.Score)

	fmt.Fprintf(w, "| Severity | Count |\n")
	fmt.Fprintf(w, "|----------|-------|\n")
	for _, sev := range review.Severities() {
		fmt.Fprintf(w, "| %s | %d |\n", sev, overall.Score.CountBySeverity[sev])
	}
	fmt.Fprintf(w, "| **Total** | **%d** |\n\n", len(overall.Issues))

	if len(overall.Issues) == 0 {
		fmt.Fprintln(w, "No issues found. :white_check_mark:")
		return nil
	}

	grouped := make(map[review.Severity][]review.Issue)
	for _, i := range overall.Issues {
		grouped[i.Severity] = append(grouped[i.Severity], i)
	}

	for _, sev := range review.Severities() {
		group := grouped[sev]
		if len(group) == 0 {
			continue
		}

		fmt.Fprintf(w, "<details>\n<summary>%s (%d)</summary>\n\n",
			strings.ToUpper(string(sev)), len(group))

		sort.SliceStable(group, func(i, j int) bool {
			return group[i].Location() < group[j].Location()
		})

		for _, iss := range group {
			fmt.Fprintf(w, "**`%s`** | %s | %s\n\n", iss.Location(), iss.Category, sourceTag(iss.Source))
			fmt.Fprintf(w, "%s\n\n", iss.Description)
			if iss.Suggestion != "" {
				fmt.Fprintf(w, "> %s\n\n", strings.ReplaceAll(iss.Suggestion, "\n", "\n> "))
			}
			fmt.Fprintf(w, "---\n\n")
		}

		fmt.Fprintf(w, "</details>\n\n")
	}

	if len(report.Project.Diagnostics) > 0 {
		fmt.Fprintf(w, "*Diagnostics:*\n\n")
		for _, d := range report.Project.Diagnostics {
			fmt.Fprintf(w, "- `%s` %s\n", d.Code, d.Message)
		}
	}

	return nil
}
