package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai"
)

// OpenAIAdapter implements Adapter for OpenAI and OpenAI-compatible APIs
type OpenAIAdapter struct {
	client *openai.Client
	config AdapterConfig
}

// NewOpenAIAdapter creates a new OpenAI adapter
func NewOpenAIAdapter(config AdapterConfig) *OpenAIAdapter {
	client := openai.NewClient(config.APIKey)

	// Set custom base URL if provided (self-hosted / compatible endpoints)
	if config.BaseURL != "" {
		clientConfig := openai.DefaultConfig(config.APIKey)
		clientConfig.BaseURL = config.BaseURL
		client = openai.NewClientWithConfig(clientConfig)
	}

	if config.Timeout == 0 {
		config.Timeout = DefaultTimeout
	}

	return &OpenAIAdapter{
		client: client,
		config: config,
	}
}

// Send implements Adapter.Send
func (o *OpenAIAdapter) Send(ctx context.Context, messages []Message) (*Message, error) {
	ctx, cancel := context.WithTimeout(ctx, o.config.Timeout)
	defer cancel()

	// Convert our messages to OpenAI format
	openaiMessages := make([]openai.ChatCompletionMessage, len(messages))
	for i, msg := range messages {
		openaiMessages[i] = openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		}
	}

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    o.config.Model,
		Messages: openaiMessages,
	})

	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	return &Message{
		Role:      resp.Choices[0].Message.Role,
		Content:   resp.Choices[0].Message.Content,
		Timestamp: time.Now(),
	}, nil
}

// GetModelName implements Adapter.GetModelName
func (o *OpenAIAdapter) GetModelName() string {
	return o.config.Model
}

// IsAvailable implements Adapter.IsAvailable
func (o *OpenAIAdapter) IsAvailable() bool {
	return o.config.APIKey != "" && o.config.Model != ""
}
