package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestOllama_Review(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/v1/chat/completions") {
			t.Errorf("path = %q, want /v1/chat/completions suffix", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "" {
			t.Error("Authorization header sent without an API key")
		}

		resp := openaiResponse{
			Choices: []openaiChoice{
				{Message: openaiMessage{Role: "assistant", Content: `{"issues": []}`}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	o, err := NewOllama(Config{Model: "qwen2.5-coder", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewOllama: %v", err)
	}
	o.client = server.Client()

	resp, err := o.Review(context.Background(), ReviewRequest{UserPrompt: "test"})
	if err != nil {
		t.Fatalf("Review error: %v", err)
	}
	if resp.Content != `{"issues": []}` {
		t.Errorf("Content = %q", resp.Content)
	}
}

func TestNewOllama_NormalizesBaseURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", defaultOllamaURL + "/v1/chat/completions"},
		{"http://localhost:11434", "http://localhost:11434/v1/chat/completions"},
		{"http://localhost:11434/v1", "http://localhost:11434/v1/chat/completions"},
		{"http://localhost:11434/v1/chat/completions", "http://localhost:11434/v1/chat/completions"},
	}
	for _, tt := range tests {
		o, err := NewOllama(Config{BaseURL: tt.in})
		if err != nil {
			t.Fatalf("NewOllama(%q): %v", tt.in, err)
		}
		if o.baseURL != tt.want {
			t.Errorf("baseURL for %q = %q, want %q", tt.in, o.baseURL, tt.want)
		}
	}
}
