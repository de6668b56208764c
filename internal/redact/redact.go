package redact

import (
	"path/filepath"
	"regexp"
	"strings"
)

const placeholder = "[REDACTED]"

type secretPattern struct {
	name string
	re   *regexp.Regexp
}

// secretPatterns are regex heuristics for credential shapes commonly left
// in source files.
var secretPatterns = []secretPattern{
	{"aws-access-key-id", regexp.MustCompile(`AKIA[0-9A-Z]{16}`)},
	{"aws-secret-access-key", regexp.MustCompile(`(?i)(aws[_-]?secret[_-]?access[_-]?key)\s*[:=]\s*["']?([A-Za-z0-9/+=]{40})["']?`)},
	{"api-key-assignment", regexp.MustCompile(`(?i)(api[_-]?key|apikey|api[_-]?secret)\s*[:=]\s*["']?([A-Za-z0-9/+=_-]{20,})["']?`)},
	{"credential-assignment", regexp.MustCompile(`(?i)(secret|token|password|passwd|credential)\s*[:=]\s*["']([^"']{8,})["']`)},
	{"bearer-token", regexp.MustCompile(`(?i)Bearer\s+[A-Za-z0-9._-]{20,}`)},
	{"jwt", regexp.MustCompile(`eyJ[A-Za-z0-9_-]{10,}\.eyJ[A-Za-z0-9_-]{10,}\.[A-Za-z0-9_-]{10,}`)},
	{"private-key-block", regexp.MustCompile(`-----BEGIN\s+(RSA\s+)?PRIVATE KEY-----`)},
	{"github-token", regexp.MustCompile(`gh[pousr]_[A-Za-z0-9_]{36,}`)},
	{"slack-token", regexp.MustCompile(`xox[bporas]-[A-Za-z0-9-]{10,}`)},
	{"anthropic-key", regexp.MustCompile(`sk-ant-[A-Za-z0-9_-]{20,}`)},
	{"openai-key", regexp.MustCompile(`sk-[A-Za-z0-9]{20,}`)},
	{"hex-secret-assignment", regexp.MustCompile(`(?i)(key|secret|token)\s*[:=]\s*["']?[0-9a-f]{32,}["']?`)},
}

// Secrets masks credential-shaped text with [REDACTED]. Matching is
// line-wise: line count never changes, so issue line numbers computed
// against the original source stay valid after redaction.
func Secrets(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		for _, p := range secretPatterns {
			if p.re.MatchString(line) {
				line = p.re.ReplaceAllString(line, placeholder)
			}
		}
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}

// ShouldRedactPath reports whether the path matches any redaction glob.
// Patterns starting with "**/" also match against the bare filename.
func ShouldRedactPath(path string, patterns []string) bool {
	base := filepath.Base(path)
	for _, pat := range patterns {
		if ok, err := filepath.Match(pat, path); err == nil && ok {
			return true
		}
		if rest := strings.TrimPrefix(pat, "**/"); rest != pat {
			if ok, err := filepath.Match(rest, base); err == nil && ok {
				return true
			}
		}
	}
	return false
}

// Source redacts secrets from file content before it joins a model prompt.
// A path policy match replaces the whole file.
func Source(content, path string, redactPaths []string) string {
	if ShouldRedactPath(path, redactPaths) {
		return placeholder + " (file content redacted by path policy)\n"
	}
	return Secrets(content)
}
