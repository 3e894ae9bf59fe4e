package ai

import (
	"context"
	"fmt"
	"log"
	"net"
	"strings"
)

// FallbackService routes completions across providers:
// primary first, secondary on quota/connection errors, then the local model.
type FallbackService struct {
	primary   CompletionService
	secondary CompletionService
	local     CompletionService
}

// NewFallbackService creates a fallback chain. Any provider may be nil.
func NewFallbackService(primary, secondary, local CompletionService) *FallbackService {
	return &FallbackService{
		primary:   primary,
		secondary: secondary,
		local:     local,
	}
}

// isConnectionError checks if the error is a network/connection error
func isConnectionError(err error) bool {
	if err == nil {
		return false
	}

	if _, ok := err.(net.Error); ok {
		return true
	}

	errStr := strings.ToLower(err.Error())
	connectionIndicators := []string{
		"connection refused",
		"no such host",
		"network is unreachable",
		"connection reset",
		"timeout",
		"dial tcp",
		"eof",
	}

	for _, indicator := range connectionIndicators {
		if strings.Contains(errStr, indicator) {
			return true
		}
	}

	return false
}

// isQuotaError checks if the error indicates API quota exhaustion (429)
func isQuotaError(err error) bool {
	if err == nil {
		return false
	}

	errStr := strings.ToLower(err.Error())
	quotaIndicators := []string{
		"429",
		"quota",
		"rate limit",
		"too many requests",
		"resource exhausted",
	}

	for _, indicator := range quotaIndicators {
		if strings.Contains(errStr, indicator) {
			return true
		}
	}

	return false
}

// Complete walks the provider chain, advancing on quota and connection
// errors. Other provider errors advance too but are logged, so a single
// misbehaving provider never takes the pipeline down with it.
func (f *FallbackService) Complete(ctx context.Context, prompt string) (string, error) {
	var lastErr error

	for _, provider := range []CompletionService{f.primary, f.secondary, f.local} {
		if provider == nil {
			continue
		}

		result, err := provider.Complete(ctx, prompt)
		if err == nil {
			return result, nil
		}
		lastErr = err

		switch {
		case isQuotaError(err):
			log.Printf("[AI] Provider quota exhausted: %v, trying next provider", err)
		case isConnectionError(err):
			log.Printf("[AI] Provider unreachable: %v, trying next provider", err)
		default:
			log.Printf("[AI] Provider error: %v, trying next provider", err)
		}
	}

	if lastErr != nil {
		return "", fmt.Errorf("all completion providers failed: %w", lastErr)
	}
	return "", fmt.Errorf("no AI provider available")
}
