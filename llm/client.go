package llm

import (
	"context"
	"errors"
	"net"

	"github.com/rs/zerolog/log"

	"nexustab/config"
)

// ChatResult is the normalized outcome of a chat request. Exactly one of
// Content and Err is set; failures never surface as panics or raw errors.
type ChatResult struct {
	Content string
	Err     string
}

// Failed reports whether the request produced an error
func (r ChatResult) Failed() bool {
	return r.Err != ""
}

// Client sends chat requests to the configured provider and normalizes
// every outcome into a ChatResult
type Client struct{}

// NewClient creates a new provider client
func NewClient() *Client {
	return &Client{}
}

// SendChat sends the message history to the active provider. The system
// instruction describing the action grammar is prepended to every
// request. All failures, including timeouts and unexpected response
// shapes, come back as ChatResult.Err.
func (c *Client) SendChat(ctx context.Context, cfg *config.Config, history []Message) (result ChatResult) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("provider client panic")
			result = ChatResult{Err: "Request failed"}
		}
	}()

	adapter, err := CreateAdapter(cfg)
	if err != nil {
		return ChatResult{Err: err.Error()}
	}

	messages := make([]Message, 0, len(history)+1)
	messages = append(messages, SystemPrompt())
	messages = append(messages, history...)

	ctx, cancel := context.WithTimeout(ctx, DefaultTimeout)
	defer cancel()

	response, err := adapter.Send(ctx, messages)
	if err != nil {
		if isTimeout(err) {
			return ChatResult{Err: "Request timed out"}
		}
		log.Warn().Err(err).Str("provider", cfg.Provider).Msg("chat request failed")
		return ChatResult{Err: err.Error()}
	}

	if response == nil || response.Content == "" {
		return ChatResult{Err: "Unexpected response from provider"}
	}

	return ChatResult{Content: response.Content}
}

// isTimeout reports whether err is a deadline or network timeout
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
