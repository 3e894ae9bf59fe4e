package ai

import "context"

// CompletionService is the interface for text generation providers.
// Implement this interface to add new AI providers (OpenAI, Gemini, Ollama, etc.)
type CompletionService interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// ProviderType represents the AI provider type
type ProviderType string

const (
	ProviderOpenAI ProviderType = "openai"
	ProviderGemini ProviderType = "gemini"
	ProviderOllama ProviderType = "ollama"
	ProviderAuto   ProviderType = "auto"
)
