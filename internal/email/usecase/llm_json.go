package usecase

import (
	"fmt"
	"strings"
)

// extractJSONObject pulls the first top-level JSON object out of a model
// response, tolerating markdown code fences and surrounding prose.
func extractJSONObject(raw string) (string, error) {
	cleaned := stripCodeFences(raw)

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start == -1 || end == -1 || end < start {
		return "", fmt.Errorf("no JSON object in response")
	}

	return cleaned[start : end+1], nil
}

// extractJSONArray pulls the first top-level JSON array out of a model
// response.
func extractJSONArray(raw string) (string, error) {
	cleaned := stripCodeFences(raw)

	start := strings.Index(cleaned, "[")
	end := strings.LastIndex(cleaned, "]")
	if start == -1 || end == -1 || end < start {
		return "", fmt.Errorf("no JSON array in response")
	}

	return cleaned[start : end+1], nil
}

func stripCodeFences(raw string) string {
	cleaned := strings.TrimSpace(raw)
	if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimSuffix(cleaned, "```")
		cleaned = strings.TrimSpace(cleaned)
	}
	return cleaned
}
