package llm

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/critic-dev/critic/internal/parser"
)

// Hallucination filters. Conservative on purpose: they only ever drop
// low/style items, and only when the text is a known placeholder or the
// claim is directly contradicted by the submitted source.

var placeholderMarkers = []string{
	"no issues found",
	"review completed",
	"no action needed",
	"code looks good",
}

// isNoIssuePlaceholder reports whether the item is a "nothing to report"
// filler. An empty issue list already means success; these add noise.
func isNoIssuePlaceholder(desc, sugg string) bool {
	d := strings.ToLower(strings.TrimSpace(desc))
	s := strings.ToLower(strings.TrimSpace(sugg))
	if d == "" && s == "" {
		return false
	}
	if !containsAny(d, placeholderMarkers) {
		return false
	}
	return s == "" || containsAny(s, placeholderMarkers)
}

// looksHallucinatedNit reports whether a low/style item is generic
// boilerplate or contradicted by the source. Callers gate on severity and
// category before invoking it.
func looksHallucinatedNit(desc, sugg, source string) bool {
	d := strings.ToLower(desc)
	s := strings.TrimSpace(strings.ToLower(sugg))

	if s == "review completed." || s == "review completed" {
		return true
	}

	claimsAbsence := strings.Contains(d, "does not") ||
		strings.Contains(d, "missing") ||
		strings.Contains(d, "no ")

	if claimsAbsence && containsAny(d, []string{"docstring", "documentation", "comments"}) {
		if hasAnyDocstring(source) {
			return true
		}
	}

	if claimsAbsence && containsAny(d, []string{"error", "exception", "handling", "checking"}) {
		if hasErrorHandling(source) || isTrivialAnnotatedSnippet(source) {
			return true
		}
	}

	if strings.Contains(d, "name") &&
		containsAny(d, []string{"more descriptive name", "improve readability", "consider using"}) {
		if isTrivialAnnotatedSnippet(source) {
			return true
		}
	}

	return false
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// hasAnyDocstring checks the module and its top-level functions and classes
// for a leading string expression. Unparseable source counts as undocumented.
func hasAnyDocstring(source string) bool {
	tree, err := parser.Parse(context.Background(), []byte(source))
	if err != nil {
		return false
	}
	defer tree.Close()

	if leadsWithString(tree.Root()) {
		return true
	}
	for _, child := range parser.NamedChildren(tree.Root()) {
		if child.Type() == "decorated_definition" {
			if def := child.ChildByFieldName("definition"); def != nil {
				child = def
			}
		}
		switch child.Type() {
		case "function_definition", "class_definition":
			if body := child.ChildByFieldName("body"); body != nil && leadsWithString(body) {
				return true
			}
		}
	}
	return false
}

func leadsWithString(block *sitter.Node) bool {
	if block == nil || block.NamedChildCount() == 0 {
		return false
	}
	first := block.NamedChild(0)
	if first.Type() != "expression_statement" || first.NamedChildCount() == 0 {
		return false
	}
	t := first.NamedChild(0).Type()
	return t == "string" || t == "concatenated_string"
}

func hasErrorHandling(source string) bool {
	return strings.Contains(source, "try:") ||
		strings.Contains(source, "except") ||
		strings.Contains(source, "raise ")
}

// isTrivialAnnotatedSnippet matches tiny single-function examples whose
// parameters and return type are already annotated. Models routinely invent
// naming and error-handling nits for these.
func isTrivialAnnotatedSnippet(source string) bool {
	if strings.Count(source, "def ") != 1 || !strings.Contains(source, "->") {
		return false
	}
	lines := 0
	for _, l := range strings.Split(source, "\n") {
		if strings.TrimSpace(l) != "" {
			lines++
		}
	}
	return lines <= 6
}
