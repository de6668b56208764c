package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultOllamaURL = "http://localhost:11434"

// Ollama implements the Reviewer interface for Ollama and LM Studio
// (OpenAI-compatible API). No API key is required by default.
type Ollama struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// NewOllama creates a new Ollama provider.
func NewOllama(cfg Config) (*Ollama, error) {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultOllamaURL
	}
	baseURL = strings.TrimRight(baseURL, "/")
	baseURL = strings.TrimSuffix(baseURL, "/v1/chat/completions")
	baseURL = strings.TrimSuffix(baseURL, "/v1")

	timeout := cfg.Timeout
	if timeout <= 0 {
		// Local models are slow to load on first call.
		timeout = 300 * time.Second
	}

	return &Ollama{
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		baseURL: baseURL + "/v1/chat/completions",
		client:  &http.Client{Timeout: timeout},
	}, nil
}

func (o *Ollama) Name() string { return "ollama" }

func (o *Ollama) Review(ctx context.Context, req ReviewRequest) (ReviewResponse, error) {
	body := openaiRequest{
		Model:     o.model,
		Messages:  chatMessages(req),
		MaxTokens: maxTokensOrDefault(req.MaxTokens),
	}
	if req.Temperature > 0 {
		body.Temperature = &req.Temperature
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return ReviewResponse{}, fmt.Errorf("marshaling request: %w", err)
	}

	var resp ReviewResponse
	err = retryWithBackoff(ctx, 3, func() error {
		httpReq, err := http.NewRequestWithContext(ctx, "POST", o.baseURL, bytes.NewReader(payload))
		if err != nil {
			return fmt.Errorf("creating request: %w", err)
		}
		httpReq.Header.Set("Content-Type", "application/json")
		if o.apiKey != "" {
			httpReq.Header.Set("Authorization", "Bearer "+o.apiKey)
		}

		httpResp, err := o.client.Do(httpReq)
		if err != nil {
			return fmt.Errorf("sending request: %w", err)
		}
		defer httpResp.Body.Close()

		respBody, err := io.ReadAll(httpResp.Body)
		if err != nil {
			return fmt.Errorf("reading response: %w", err)
		}

		if chatErr := classifyStatus(httpResp.StatusCode, respBody); chatErr != nil {
			return chatErr
		}

		content, tokens, err := parseChatResponse(respBody)
		if err != nil {
			return err
		}
		resp = ReviewResponse{Content: content, TokensUsed: tokens}
		return nil
	})

	return resp, err
}
