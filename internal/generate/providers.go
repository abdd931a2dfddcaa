// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"fmt"

	"github.com/pdiddy/paper-engine/pkg/types"
)

// Default model per provider when the config does not name one.
const (
	defaultGeminiModel    = "gemini-1.5-flash"
	defaultOpenAIModel    = "gpt-4o-mini"
	defaultAnthropicModel = "claude-sonnet-4-5-20250929"
)

// ResolveModel returns cfg.Model, or the default model for cfg.Provider
// when unset.
func ResolveModel(cfg types.AIConfig) string {
	if cfg.Model != "" {
		return cfg.Model
	}
	switch cfg.Provider {
	case types.ProviderOpenAI:
		return defaultOpenAIModel
	case types.ProviderAnthropic:
		return defaultAnthropicModel
	default:
		return defaultGeminiModel
	}
}

// NewBackend returns the Backend selected by cfg.Provider (R6.1, R6.3).
// An empty provider selects Gemini. A missing API key or an unknown
// provider is a ConfigError raised before any network call.
func NewBackend(cfg types.GenerationConfig) (Backend, error) {
	if cfg.APIKey == "" {
		return nil, &ConfigError{Field: "api_key", Reason: "API key is required"}
	}

	model := ResolveModel(cfg.AIConfig)
	switch cfg.Provider {
	case types.ProviderGemini, "":
		return NewGeminiBackend(cfg.APIKey, model), nil
	case types.ProviderOpenAI:
		return NewOpenAIBackend(cfg.APIKey, model), nil
	case types.ProviderAnthropic:
		return NewAnthropicBackend(cfg.APIKey, model), nil
	default:
		return nil, &ConfigError{Field: "provider", Reason: fmt.Sprintf("unknown provider %q", cfg.Provider)}
	}
}
