package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const defaultOpenAIURL = "https://api.openai.com/v1/chat/completions"

// OpenAI implements the Reviewer interface for OpenAI and OpenAI-compatible
// endpoints. The base URL is configurable so self-hosted gateways work.
type OpenAI struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// NewOpenAI creates a new OpenAI provider.
func NewOpenAI(cfg Config) (*OpenAI, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: API key is not set")
	}
	return &OpenAI{
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		baseURL: normalizeChatURL(cfg.BaseURL, defaultOpenAIURL),
		client:  &http.Client{Timeout: cfg.timeout()},
	}, nil
}

func (o *OpenAI) Name() string { return "openai" }

func (o *OpenAI) Review(ctx context.Context, req ReviewRequest) (ReviewResponse, error) {
	body := openaiRequest{
		Model:          o.model,
		Messages:       chatMessages(req),
		MaxTokens:      maxTokensOrDefault(req.MaxTokens),
		ResponseFormat: &responseFormat{Type: "json_object"},
	}
	if req.Temperature > 0 {
		body.Temperature = &req.Temperature
	}

	resp, err := o.send(ctx, body)
	if err == nil {
		return resp, nil
	}

	// Many OpenAI-compatible endpoints reject response_format. Retry once
	// on any 400 without it.
	if _, ok := err.(*badRequestError); ok && body.ResponseFormat != nil {
		body.ResponseFormat = nil
		return o.send(ctx, body)
	}
	return ReviewResponse{}, err
}

func (o *OpenAI) send(ctx context.Context, body openaiRequest) (ReviewResponse, error) {
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
		httpReq.Header.Set("Authorization", "Bearer "+o.apiKey)

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

func classifyStatus(status int, body []byte) error {
	switch {
	case status == 200:
		return nil
	case status == 429:
		return &rateLimitError{}
	case status == 401 || status == 403:
		return &authError{message: string(body)}
	case status == 400:
		return &badRequestError{body: string(body)}
	case status >= 500:
		return &serverError{statusCode: status, body: string(body)}
	default:
		return fmt.Errorf("http error (status %d): %s", status, string(body))
	}
}

func parseChatResponse(respBody []byte) (string, int, error) {
	var result openaiResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", 0, fmt.Errorf("parsing response json: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", 0, fmt.Errorf("parsing response json: no choices in response")
	}
	if result.Choices[0].Message.Content == "" {
		return "", 0, fmt.Errorf("parsing response json: empty text content")
	}
	return result.Choices[0].Message.Content, result.Usage.TotalTokens, nil
}

func chatMessages(req ReviewRequest) []openaiMessage {
	return []openaiMessage{
		{Role: "system", Content: req.SystemPrompt},
		{Role: "user", Content: req.UserPrompt},
	}
}

func maxTokensOrDefault(n int) int {
	if n == 0 {
		return 4096
	}
	return n
}

// normalizeChatURL repairs the common base URL mistakes: surrounding
// quotes, a trailing slash, a missing /v1, or a missing completions path.
func normalizeChatURL(base, fallback string) string {
	base = strings.TrimSpace(base)
	if base == "" {
		return fallback
	}
	base = strings.Trim(base, `"'`)
	base = strings.TrimRight(base, "/")
	if strings.HasSuffix(base, "/chat/completions") {
		return base
	}
	if strings.HasSuffix(base, "/v1") {
		return base + "/chat/completions"
	}
	if u, err := url.Parse(base); err == nil && u.Path == "" {
		return base + "/v1/chat/completions"
	}
	return base + "/chat/completions"
}

type responseFormat struct {
	Type string `json:"type"`
}

type openaiRequest struct {
	Model          string          `json:"model"`
	Messages       []openaiMessage `json:"messages"`
	MaxTokens      int             `json:"max_tokens"`
	Temperature    *float64        `json:"temperature,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type openaiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openaiResponse struct {
	Choices []openaiChoice `json:"choices"`
	Usage   openaiUsage    `json:"usage"`
}

type openaiChoice struct {
	Message openaiMessage `json:"message"`
}

type openaiUsage struct {
	TotalTokens int `json:"total_tokens"`
}
