package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"nexustab/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	tempDir, err := os.MkdirTemp("", "nexustab-config-test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })
	return store.NewStore(filepath.Join(tempDir, "store.json"))
}

func TestLoadConfigCreatesDefaults(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	cfg, err := LoadConfig(ctx, s)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Provider != ProviderOpenAI {
		t.Errorf("Expected default provider openai, got %s", cfg.Provider)
	}
	if !cfg.ConfirmDestructiveActions {
		t.Error("Expected confirm_destructive_actions to default to true")
	}
	if cfg.ChatShortcut != ShortcutCtrlSpace {
		t.Errorf("Expected default shortcut ctrl+space, got %s", cfg.ChatShortcut)
	}

	// Defaults must have been persisted on first read
	var persisted Config
	found, err := s.Get(ctx, store.KeyAIConfig, &persisted)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !found {
		t.Fatal("Expected defaults to be persisted on first load")
	}
}

func TestLoadConfigRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	cfg := DefaultConfig()
	cfg.Provider = ProviderClaude
	cfg.Claude.APIKey = "sk-test"
	cfg.ConfirmDestructiveActions = false

	if err := SaveConfig(ctx, s, cfg); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	loaded, err := LoadConfig(ctx, s)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if loaded.Provider != ProviderClaude {
		t.Errorf("Expected provider claude, got %s", loaded.Provider)
	}
	if loaded.Claude.APIKey != "sk-test" {
		t.Errorf("Expected Claude API key to round-trip, got '%s'", loaded.Claude.APIKey)
	}
	if loaded.ConfirmDestructiveActions {
		t.Error("Expected confirm_destructive_actions false to round-trip")
	}
}

func TestActiveProvider(t *testing.T) {
	cfg := DefaultConfig()
	cfg.OpenAI.APIKey = "key-openai"
	cfg.Claude.APIKey = "key-claude"
	cfg.Gemini.APIKey = "key-gemini"

	cases := []struct {
		provider string
		wantKey  string
	}{
		{ProviderOpenAI, "key-openai"},
		{ProviderClaude, "key-claude"},
		{ProviderGemini, "key-gemini"},
	}

	for _, tc := range cases {
		cfg.Provider = tc.provider
		if got := cfg.ActiveProvider().APIKey; got != tc.wantKey {
			t.Errorf("Provider %s: expected key %s, got %s", tc.provider, tc.wantKey, got)
		}
	}
}

func TestHasAPIKey(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.HasAPIKey() {
		t.Error("Expected HasAPIKey false with blank key")
	}

	cfg.OpenAI.APIKey = "sk-test"
	if !cfg.HasAPIKey() {
		t.Error("Expected HasAPIKey true with key set")
	}

	// Key on an inactive provider must not count
	cfg.Provider = ProviderGemini
	if cfg.HasAPIKey() {
		t.Error("Expected HasAPIKey false when active provider has no key")
	}
}

func TestSetValidation(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Set("provider", "claude"); err != nil {
		t.Errorf("Set provider failed: %v", err)
	}
	if err := cfg.Set("provider", "mistral"); err == nil {
		t.Error("Expected error for unknown provider")
	}
	if err := cfg.Set("chat_shortcut", "alt+space"); err != nil {
		t.Errorf("Set shortcut failed: %v", err)
	}
	if err := cfg.Set("chat_shortcut", "f13"); err == nil {
		t.Error("Expected error for unknown shortcut")
	}
	if err := cfg.Set("confirm_destructive_actions", "false"); err != nil {
		t.Errorf("Set confirm failed: %v", err)
	}
	if cfg.ConfirmDestructiveActions {
		t.Error("Expected confirm_destructive_actions to be false")
	}
	if err := cfg.Set("confirm_destructive_actions", "maybe"); err == nil {
		t.Error("Expected error for non-boolean confirm value")
	}
	if err := cfg.Set("nope", "x"); err == nil {
		t.Error("Expected error for unknown key")
	}
}

func TestGetSetRoundTrip(t *testing.T) {
	cfg := DefaultConfig()

	keys := map[string]string{
		"openai.api_key":  "sk-1",
		"openai.base_url": "http://localhost:8080/v1",
		"claude.api_key":  "sk-2",
		"gemini.model":    "gemini-2.0-pro",
	}

	for key, value := range keys {
		if err := cfg.Set(key, value); err != nil {
			t.Fatalf("Set %s failed: %v", key, err)
		}
		got, err := cfg.Get(key)
		if err != nil {
			t.Fatalf("Get %s failed: %v", key, err)
		}
		if got != value {
			t.Errorf("Key %s: expected %s, got %v", key, value, got)
		}
	}
}
