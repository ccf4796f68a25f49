package config

import (
	"context"
	"fmt"

	"nexustab/store"
)

// Provider identifiers
const (
	ProviderOpenAI = "openai"
	ProviderClaude = "claude"
	ProviderGemini = "gemini"
)

// Supported chat popup shortcuts
const (
	ShortcutCtrlSpace = "ctrl+space"
	ShortcutAltSpace  = "alt+space"
	ShortcutMetaSpace = "meta+space"
)

// ProviderConfig holds the per-provider credentials and model selection.
// BaseURL is only meaningful for the OpenAI-compatible provider, where it
// enables self-hosted endpoints.
type ProviderConfig struct {
	APIKey  string `json:"api_key"`
	Model   string `json:"model"`
	BaseURL string `json:"base_url,omitempty"`
}

// Config represents the nexustab AI configuration
type Config struct {
	Provider                  string         `json:"provider"`
	ChatShortcut              string         `json:"chat_shortcut"`
	ConfirmDestructiveActions bool           `json:"confirm_destructive_actions"`
	OpenAI                    ProviderConfig `json:"openai"`
	Claude                    ProviderConfig `json:"claude"`
	Gemini                    ProviderConfig `json:"gemini"`
}

// DefaultConfig returns a config with default values
func DefaultConfig() *Config {
	return &Config{
		Provider:                  ProviderOpenAI,
		ChatShortcut:              ShortcutCtrlSpace,
		ConfirmDestructiveActions: true,
		OpenAI:                    ProviderConfig{Model: "gpt-4o-mini"},
		Claude:                    ProviderConfig{Model: "claude-sonnet-4-20250514"},
		Gemini:                    ProviderConfig{Model: "gemini-2.0-flash"},
	}
}

// LoadConfig loads the AI configuration from the store, creating defaults
// on first read
func LoadConfig(ctx context.Context, s *store.Store) (*Config, error) {
	cfg := DefaultConfig()

	found, err := s.Get(ctx, store.KeyAIConfig, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if !found {
		if err := SaveConfig(ctx, s, cfg); err != nil {
			return nil, err
		}
	}

	// Repair values an older settings surface may have left blank
	if cfg.Provider == "" {
		cfg.Provider = ProviderOpenAI
	}
	if cfg.ChatShortcut == "" {
		cfg.ChatShortcut = ShortcutCtrlSpace
	}

	return cfg, nil
}

// SaveConfig persists the AI configuration to the store
func SaveConfig(ctx context.Context, s *store.Store, cfg *Config) error {
	if err := s.Set(ctx, store.KeyAIConfig, cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	return nil
}

// ActiveProvider returns the sub-config selected by Provider
func (c *Config) ActiveProvider() ProviderConfig {
	switch c.Provider {
	case ProviderClaude:
		return c.Claude
	case ProviderGemini:
		return c.Gemini
	default:
		return c.OpenAI
	}
}

// HasAPIKey reports whether the active provider has a usable API key.
// A blank key disables chat submission entirely.
func (c *Config) HasAPIKey() bool {
	return c.ActiveProvider().APIKey != ""
}

// Get retrieves a configuration value by key
func (c *Config) Get(key string) (interface{}, error) {
	switch key {
	case "provider":
		return c.Provider, nil
	case "chat_shortcut":
		return c.ChatShortcut, nil
	case "confirm_destructive_actions":
		return c.ConfirmDestructiveActions, nil
	case "openai.api_key":
		return c.OpenAI.APIKey, nil
	case "openai.model":
		return c.OpenAI.Model, nil
	case "openai.base_url":
		return c.OpenAI.BaseURL, nil
	case "claude.api_key":
		return c.Claude.APIKey, nil
	case "claude.model":
		return c.Claude.Model, nil
	case "gemini.api_key":
		return c.Gemini.APIKey, nil
	case "gemini.model":
		return c.Gemini.Model, nil
	default:
		return nil, fmt.Errorf("unknown config key: %s", key)
	}
}

// Set updates a configuration value by key
func (c *Config) Set(key string, value string) error {
	switch key {
	case "provider":
		switch value {
		case ProviderOpenAI, ProviderClaude, ProviderGemini:
			c.Provider = value
			return nil
		default:
			return fmt.Errorf("unknown provider: %s (supported: openai, claude, gemini)", value)
		}
	case "chat_shortcut":
		switch value {
		case ShortcutCtrlSpace, ShortcutAltSpace, ShortcutMetaSpace:
			c.ChatShortcut = value
			return nil
		default:
			return fmt.Errorf("unknown shortcut: %s (supported: ctrl+space, alt+space, meta+space)", value)
		}
	case "confirm_destructive_actions":
		switch value {
		case "true":
			c.ConfirmDestructiveActions = true
		case "false":
			c.ConfirmDestructiveActions = false
		default:
			return fmt.Errorf("expected 'true' or 'false' for confirm_destructive_actions, got: %s", value)
		}
		return nil
	case "openai.api_key":
		c.OpenAI.APIKey = value
		return nil
	case "openai.model":
		c.OpenAI.Model = value
		return nil
	case "openai.base_url":
		c.OpenAI.BaseURL = value
		return nil
	case "claude.api_key":
		c.Claude.APIKey = value
		return nil
	case "claude.model":
		c.Claude.Model = value
		return nil
	case "gemini.api_key":
		c.Gemini.APIKey = value
		return nil
	case "gemini.model":
		c.Gemini.Model = value
		return nil
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
}
