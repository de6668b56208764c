package pipeline

import "strings"

// Preprocess normalizes newlines, strips trailing whitespace per line, and
// dedents uniformly indented text. Dedenting makes pasted snippets parse;
// it is a no-op for regular modules.
func Preprocess(code string) string {
	c := strings.ReplaceAll(code, "\r\n", "\n")
	c = strings.ReplaceAll(c, "\r", "\n")

	lines := strings.Split(c, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " \t")
	}

	margin := commonMargin(lines)
	if margin != "" {
		for i, l := range lines {
			lines[i] = strings.TrimPrefix(l, margin)
		}
	}
	return strings.TrimLeft(strings.Join(lines, "\n"), "\n")
}

// commonMargin finds the longest whitespace prefix shared by every
// non-blank line.
func commonMargin(lines []string) string {
	margin := ""
	first := true
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		indent := l[:len(l)-len(strings.TrimLeft(l, " \t"))]
		if first {
			margin = indent
			first = false
			continue
		}
		for !strings.HasPrefix(indent, margin) {
			margin = margin[:len(margin)-1]
		}
		if margin == "" {
			return ""
		}
	}
	return margin
}
