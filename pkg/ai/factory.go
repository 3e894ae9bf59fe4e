package ai

import (
	"fmt"

	"ava-backend/pkg/gemini"
	"ava-backend/pkg/openai"
)

// Config holds AI provider configuration
type Config struct {
	Provider ProviderType // "openai", "gemini", "ollama" or "auto"

	// OpenAI config
	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string

	// Gemini config
	GeminiAPIKey string

	// Ollama config
	OllamaBaseURL string // e.g., "http://localhost:11434"
	OllamaModel   string // e.g., "llama3", "mistral"
}

// NewCompletionService creates a CompletionService based on the config.
// This is the factory function - switch AI provider by changing config.Provider.
// "auto" builds a fallback chain: OpenAI primary, Gemini on quota errors,
// Ollama as the local last resort.
func NewCompletionService(cfg Config) (CompletionService, error) {
	switch cfg.Provider {
	case ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required for OpenAI provider")
		}
		return openai.NewClient(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.OpenAIModel, ""), nil

	case ProviderGemini:
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is required for Gemini provider")
		}
		return gemini.NewGeminiService(cfg.GeminiAPIKey), nil

	case ProviderOllama:
		return NewOllamaService(cfg.OllamaBaseURL, cfg.OllamaModel), nil

	default:
		var primary CompletionService
		if cfg.OpenAIAPIKey != "" {
			primary = openai.NewClient(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.OpenAIModel, "")
		}
		var secondary CompletionService
		if cfg.GeminiAPIKey != "" {
			secondary = gemini.NewGeminiService(cfg.GeminiAPIKey)
		}
		if primary == nil && secondary == nil {
			return NewOllamaService(cfg.OllamaBaseURL, cfg.OllamaModel), nil
		}
		return NewFallbackService(primary, secondary, NewOllamaService(cfg.OllamaBaseURL, cfg.OllamaModel)), nil
	}
}
