package llm

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
)

// ResolveProvider selects a provider based on the model flag and available API keys.
func ResolveProvider(modelFlag string) (Provider, error) {
	// Explicit provider from model flag
	if modelFlag != "" {
		lower := strings.ToLower(modelFlag)
		switch {
		case strings.HasPrefix(lower, "google:"):
			p, err := NewGemini()
			if err != nil {
				return nil, err
			}
			return &modelOverride{Provider: p, model: modelFlag[len("google:"):]}, nil

		case strings.HasPrefix(lower, "gemini"):
			p, err := NewGemini()
			if err != nil {
				return nil, err
			}
			return &modelOverride{Provider: p, model: modelFlag}, nil

		case strings.HasPrefix(lower, "anthropic:"):
			p, err := NewAnthropic()
			if err != nil {
				return nil, err
			}
			return &modelOverride{Provider: p, model: modelFlag[len("anthropic:"):]}, nil

		case strings.HasPrefix(lower, "claude"):
			p, err := NewAnthropic()
			if err != nil {
				return nil, err
			}
			return &modelOverride{Provider: p, model: modelFlag}, nil

		case strings.HasPrefix(lower, "openai:"):
			p, err := NewOpenAI()
			if err != nil {
				return nil, err
			}
			return &modelOverride{Provider: p, model: modelFlag[len("openai:"):]}, nil

		case strings.HasPrefix(lower, "gpt"):
			p, err := NewOpenAI()
			if err != nil {
				return nil, err
			}
			return &modelOverride{Provider: p, model: modelFlag}, nil
		}
		return nil, fmt.Errorf("unrecognized model %q: use a gemini, claude or gpt model, or a google:, anthropic: or openai: prefix", modelFlag)
	}

	// Auto-detect from environment
	if geminiKey() != "" {
		return NewGemini()
	}
	if os.Getenv("ANTHROPIC_API_KEY") != "" {
		return NewAnthropic()
	}
	if os.Getenv("OPENAI_API_KEY") != "" {
		return NewOpenAI()
	}

	return nil, ErrNoProvider
}

// ErrNoProvider is returned when no API key is configured.
var ErrNoProvider = errors.New("no model provider configured: set GEMINI_API_KEY, ANTHROPIC_API_KEY or OPENAI_API_KEY")

// modelOverride wraps a provider to override the model in settings.
type modelOverride struct {
	Provider
	model string
}

func (m *modelOverride) Generate(ctx context.Context, prompt string, s Settings) (string, error) {
	s.Model = m.model
	return m.Provider.Generate(ctx, prompt, s)
}
