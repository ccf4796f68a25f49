package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// GeminiAdapter implements Adapter for the Gemini API
type GeminiAdapter struct {
	client  *http.Client
	config  AdapterConfig
	baseURL string
}

// GeminiPart represents a content part in Gemini API format
type GeminiPart struct {
	Text string `json:"text"`
}

// GeminiContent represents a message in Gemini API format. Gemini uses
// "model" where other providers use "assistant".
type GeminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []GeminiPart `json:"parts"`
}

// GeminiRequest represents a generateContent request
type GeminiRequest struct {
	Contents          []GeminiContent `json:"contents"`
	SystemInstruction *GeminiContent  `json:"systemInstruction,omitempty"`
}

// GeminiResponse represents a generateContent response
type GeminiResponse struct {
	Candidates []struct {
		Content      GeminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
}

// NewGeminiAdapter creates a new Gemini adapter
func NewGeminiAdapter(config AdapterConfig) *GeminiAdapter {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com"
	}

	if config.Timeout == 0 {
		config.Timeout = DefaultTimeout
	}

	return &GeminiAdapter{
		client: &http.Client{
			Timeout: config.Timeout,
		},
		config:  config,
		baseURL: baseURL,
	}
}

// Send implements Adapter.Send
func (g *GeminiAdapter) Send(ctx context.Context, messages []Message) (*Message, error) {
	// Convert our messages to Gemini format, lifting system messages into
	// the systemInstruction field
	var system *GeminiContent
	contents := make([]GeminiContent, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case "system":
			system = &GeminiContent{Parts: []GeminiPart{{Text: msg.Content}}}
		case "assistant":
			contents = append(contents, GeminiContent{
				Role:  "model",
				Parts: []GeminiPart{{Text: msg.Content}},
			})
		default:
			contents = append(contents, GeminiContent{
				Role:  "user",
				Parts: []GeminiPart{{Text: msg.Content}},
			})
		}
	}

	request := GeminiRequest{
		Contents:          contents,
		SystemInstruction: system,
	}

	requestBody, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", g.baseURL, g.config.Model)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(requestBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.config.APIKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("Gemini API error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("Gemini API returned status %d: %s", resp.StatusCode, string(body))
	}

	var response GeminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	// Extract text content from the first candidate
	var content string
	if len(response.Candidates) > 0 {
		for _, part := range response.Candidates[0].Content.Parts {
			content += part.Text
		}
	}
	if content == "" {
		return nil, fmt.Errorf("unexpected response shape from Gemini")
	}

	return &Message{
		Role:      "assistant",
		Content:   content,
		Timestamp: time.Now(),
	}, nil
}

// GetModelName implements Adapter.GetModelName
func (g *GeminiAdapter) GetModelName() string {
	return g.config.Model
}

// IsAvailable implements Adapter.IsAvailable
func (g *GeminiAdapter) IsAvailable() bool {
	return g.config.APIKey != "" && g.config.Model != ""
}
