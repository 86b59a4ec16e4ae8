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
	geminiBaseURL        = "https://generativelanguage.googleapis.com/v1beta"
	geminiModel          = "gemini-1.5-flash"
	geminiPlaceholderKey = "your-gemini-api-key-here"
)

// HTTPDoer abstracts the HTTP client so provider calls can be tested with
// mock transports.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// GeminiClient implements port.AIProvider against the Google Generative
// Language API.
type GeminiClient struct {
	apiKey  string
	baseURL string
	client  HTTPDoer
}

// NewGeminiClient creates a Gemini-backed provider. If client is nil the
// default HTTP client is used; request deadlines come from the caller's
// context.
func NewGeminiClient(apiKey string, client HTTPDoer) *GeminiClient {
	if client == nil {
		client = http.DefaultClient
	}
	return &GeminiClient{
		apiKey:  apiKey,
		baseURL: geminiBaseURL,
		client:  client,
	}
}

// Name identifies the provider in logs.
func (c *GeminiClient) Name() string { return "gemini" }

// Ready reports whether a usable credential is configured. The documented
// placeholder value counts as unconfigured.
func (c *GeminiClient) Ready() bool {
	return c.apiKey != "" && c.apiKey != geminiPlaceholderKey
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopK            int     `json:"topK"`
	TopP            float64 `json:"topP"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// GenerateAssessment submits the prompt and returns the raw model text.
func (c *GeminiClient) GenerateAssessment(ctx context.Context, prompt string) (string, error) {
	reqBody := geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
		GenerationConfig: geminiGenerationConfig{
			Temperature:     0.4,
			TopK:            32,
			TopP:            0.95,
			MaxOutputTokens: 1024,
		},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, geminiModel, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("gemini API error: %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var parsed geminiResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("parse response: %w", err)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("response missing content")
	}

	return parsed.Candidates[0].Content.Parts[0].Text, nil
}
