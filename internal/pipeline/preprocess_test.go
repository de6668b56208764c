package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPreprocess(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"crlf normalized", "a = 1\r\nb = 2\r\n", "a = 1\nb = 2\n"},
		{"trailing spaces stripped", "a = 1   \nb = 2\t\n", "a = 1\nb = 2\n"},
		{"uniform indent removed", "    def f():\n        return 1\n", "def f():\n    return 1\n"},
		{"mixed indent kept", "def f():\n    return 1\n", "def f():\n    return 1\n"},
		{"leading blank lines dropped", "\n\nx = 1\n", "x = 1\n"},
		{"blank lines ignored for margin", "    a = 1\n\n    b = 2\n", "a = 1\n\nb = 2\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Preprocess(tt.in))
		})
	}
}
