// Package llm defines the provider interface and implementations for model interaction.
package llm

import (
	"context"
	"strings"
)

// Settings configures the model request.
type Settings struct {
	Model       string
	Temperature float64
	MaxTokens   int
	Seed        *int
	// JSON asks the provider for a JSON-only response where the API supports it.
	JSON bool
}

// Provider generates text from a prompt using a language model.
type Provider interface {
	Generate(ctx context.Context, prompt string, settings Settings) (string, error)
	Name() string
}

// ExtractJSON strips markdown code fences and surrounding prose from a
// model response, returning the JSON object text.
func ExtractJSON(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		if i := strings.Index(s, "\n"); i >= 0 {
			s = s[i+1:]
		} else {
			s = strings.TrimPrefix(s, "```")
		}
		s = strings.TrimSpace(s)
		s = strings.TrimSuffix(s, "```")
		s = strings.TrimSpace(s)
	}
	if strings.HasPrefix(s, "{") || strings.HasPrefix(s, "[") {
		return s
	}
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		return s[start : end+1]
	}
	return s
}
