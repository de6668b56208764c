package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNoIssuePlaceholder(t *testing.T) {
	tests := []struct {
		name string
		desc string
		sugg string
		want bool
	}{
		{"canonical placeholder", "No issues found", "No action needed.", true},
		{"looks good", "Code looks good overall", "", true},
		{"review completed pair", "Review completed", "review completed", true},
		{"real issue", "SQL injection in query builder", "Use parameterized queries", false},
		{"placeholder desc real sugg", "no issues found", "but rename the variable", false},
		{"empty", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isNoIssuePlaceholder(tt.desc, tt.sugg))
		})
	}
}

func TestLooksHallucinatedNit_DocstringContradiction(t *testing.T) {
	documented := "def add(a, b):\n    \"\"\"Add two numbers.\"\"\"\n    return a + b\n"
	bare := "def add(a, b):\n    return a + b\n"

	desc := "The function is missing documentation"
	assert.True(t, looksHallucinatedNit(desc, "Add a docstring", documented))
	assert.False(t, looksHallucinatedNit(desc, "Add a docstring", bare))
}

func TestLooksHallucinatedNit_ModuleDocstring(t *testing.T) {
	src := "\"\"\"Utility helpers.\"\"\"\n\nx = 1\n"
	assert.True(t, looksHallucinatedNit("module does not have documentation", "add docs", src))
}

func TestLooksHallucinatedNit_ErrorHandlingContradiction(t *testing.T) {
	handled := "def parse(s):\n    if not s:\n        raise ValueError('empty')\n    return int(s)\n"
	assert.True(t, looksHallucinatedNit("no error handling for invalid input", "validate input", handled))

	unhandled := "def parse(s):\n    return int(s)\n\ndef other(s):\n    x = 1\n    y = 2\n    z = 3\n    return x\n"
	assert.False(t, looksHallucinatedNit("no error handling for invalid input", "validate input", unhandled))
}

func TestLooksHallucinatedNit_NamingNitOnTrivialSnippet(t *testing.T) {
	trivial := "def add(a: int, b: int) -> int:\n    return a + b\n"
	desc := "Consider using a more descriptive name for readability"
	assert.True(t, looksHallucinatedNit(desc, "rename", trivial))

	bigger := "def add(a, b):\n    total = a + b\n    print(total)\n    for i in range(total):\n        total += i\n    if total:\n        total -= 1\n    return total\n\ndef sub(a, b):\n    return a - b\n"
	assert.False(t, looksHallucinatedNit(desc, "rename", bigger))
}

func TestLooksHallucinatedNit_ReviewCompletedSuggestion(t *testing.T) {
	assert.True(t, looksHallucinatedNit("minor style note", "Review completed.", "x = 1\n"))
}

func TestHasAnyDocstring(t *testing.T) {
	assert.True(t, hasAnyDocstring("\"\"\"module doc\"\"\"\n"))
	assert.True(t, hasAnyDocstring("class C:\n    \"\"\"doc\"\"\"\n"))
	assert.False(t, hasAnyDocstring("x = 1\n"))
	assert.False(t, hasAnyDocstring("def broken(:\n"))
}

func TestIsTrivialAnnotatedSnippet(t *testing.T) {
	assert.True(t, isTrivialAnnotatedSnippet("def add(a: int, b: int) -> int:\n    return a + b\n"))
	assert.False(t, isTrivialAnnotatedSnippet("def add(a, b):\n    return a + b\n"))
	assert.False(t, isTrivialAnnotatedSnippet("def a() -> int:\n    return 1\n\ndef b() -> int:\n    return 2\n"))
}
