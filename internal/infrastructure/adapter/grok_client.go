package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const (
	grokBaseURL        = "https://api.x.ai/v1"
	grokModel          = "grok-beta"
	grokPlaceholderKey = "your-grok-api-key-here"
)

// GrokClient implements port.AIProvider against the x.ai chat completions
// API.
type GrokClient struct {
	apiKey  string
	baseURL string
	client  HTTPDoer
}

// NewGrokClient creates a Grok-backed provider. If client is nil the default
// HTTP client is used.
func NewGrokClient(apiKey string, client HTTPDoer) *GrokClient {
	if client == nil {
		client = http.DefaultClient
	}
	return &GrokClient{
		apiKey:  apiKey,
		baseURL: grokBaseURL,
		client:  client,
	}
}

// Name identifies the provider in logs.
func (c *GrokClient) Name() string { return "grok" }

// Ready reports whether a usable credential is configured.
func (c *GrokClient) Ready() bool {
	return c.apiKey != "" && c.apiKey != grokPlaceholderKey
}

type grokMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type grokRequest struct {
	Messages    []grokMessage `json:"messages"`
	Model       string        `json:"model"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type grokResponse struct {
	Choices []struct {
		Message grokMessage `json:"message"`
	} `json:"choices"`
}

// GenerateAssessment submits the prompt and returns the raw model text.
func (c *GrokClient) GenerateAssessment(ctx context.Context, prompt string) (string, error) {
	reqBody := grokRequest{
		Messages: []grokMessage{
			{Role: "system", Content: "You are a financial risk assessment engine. Respond only with valid JSON."},
			{Role: "user", Content: prompt},
		},
		Model:       grokModel,
		Temperature: 0.4,
		MaxTokens:   1024,
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("grok request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("grok API error: %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var parsed grokResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("parse response: %w", err)
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("response missing content")
	}

	return parsed.Choices[0].Message.Content, nil
}
