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

// ClaudeAdapter implements Adapter for the Claude API
type ClaudeAdapter struct {
	client  *http.Client
	config  AdapterConfig
	baseURL string
}

// ClaudeMessage represents a message in Claude API format
type ClaudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ClaudeRequest represents a request to the Claude API. System
// instructions travel in the top-level system field, not the message list.
type ClaudeRequest struct {
	Model     string          `json:"model"`
	MaxTokens int             `json:"max_tokens"`
	System    string          `json:"system,omitempty"`
	Messages  []ClaudeMessage `json:"messages"`
}

// ClaudeResponse represents a response from the Claude API
type ClaudeResponse struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Role    string `json:"role"`
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Model      string `json:"model"`
	StopReason string `json:"stop_reason"`
}

// NewClaudeAdapter creates a new Claude adapter
func NewClaudeAdapter(config AdapterConfig) *ClaudeAdapter {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = "https://api.anthropic.com"
	}

	if config.Timeout == 0 {
		config.Timeout = DefaultTimeout
	}

	return &ClaudeAdapter{
		client: &http.Client{
			Timeout: config.Timeout,
		},
		config:  config,
		baseURL: baseURL,
	}
}

// Send implements Adapter.Send
func (c *ClaudeAdapter) Send(ctx context.Context, messages []Message) (*Message, error) {
	// Convert our messages to Claude format, lifting system messages into
	// the dedicated request field
	var system string
	claudeMessages := make([]ClaudeMessage, 0, len(messages))
	for _, msg := range messages {
		if msg.Role == "system" {
			system = msg.Content
			continue
		}
		claudeMessages = append(claudeMessages, ClaudeMessage{
			Role:    msg.Role,
			Content: msg.Content,
		})
	}

	request := ClaudeRequest{
		Model:     c.config.Model,
		MaxTokens: 1024,
		System:    system,
		Messages:  claudeMessages,
	}

	requestBody, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/v1/messages", bytes.NewBuffer(requestBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.config.APIKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("Claude API error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("Claude API returned status %d: %s", resp.StatusCode, string(body))
	}

	var response ClaudeResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	// Extract text content from response
	var content string
	for _, block := range response.Content {
		if block.Type == "text" {
			content += block.Text
		}
	}
	if content == "" {
		return nil, fmt.Errorf("unexpected response shape from Claude")
	}

	return &Message{
		Role:      "assistant",
		Content:   content,
		Timestamp: time.Now(),
	}, nil
}

// GetModelName implements Adapter.GetModelName
func (c *ClaudeAdapter) GetModelName() string {
	return c.config.Model
}

// IsAvailable implements Adapter.IsAvailable
func (c *ClaudeAdapter) IsAvailable() bool {
	return c.config.APIKey != "" && c.config.Model != ""
}
