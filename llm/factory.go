package llm

import (
	"fmt"

	"nexustab/config"
)

// CreateAdapter creates an LLM adapter for the active provider in the
// given configuration
func CreateAdapter(cfg *config.Config) (Adapter, error) {
	provider := cfg.ActiveProvider()

	adapterConfig := AdapterConfig{
		Model:   provider.Model,
		APIKey:  provider.APIKey,
		BaseURL: provider.BaseURL,
		Timeout: DefaultTimeout,
	}

	if adapterConfig.APIKey == "" {
		return nil, fmt.Errorf("no API key configured for provider %s", cfg.Provider)
	}
	if adapterConfig.Model == "" {
		return nil, fmt.Errorf("no model configured for provider %s", cfg.Provider)
	}

	switch cfg.Provider {
	case config.ProviderOpenAI:
		return NewOpenAIAdapter(adapterConfig), nil
	case config.ProviderClaude:
		return NewClaudeAdapter(adapterConfig), nil
	case config.ProviderGemini:
		return NewGeminiAdapter(adapterConfig), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s (supported: openai, claude, gemini)", cfg.Provider)
	}
}
