package llm

import (
	"context"
	"fmt"
	"os"

	"google.golang.org/genai"
)

const geminiDefaultModel = "gemini-2.5-flash"

// GeminiProvider implements Provider using the Gemini API.
type GeminiProvider struct {
	client *genai.Client
}

// NewGemini creates a Gemini provider using the GEMINI_API_KEY or
// GOOGLE_API_KEY env var.
func NewGemini() (*GeminiProvider, error) {
	key := geminiKey()
	if key == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}
	return newGemini(&genai.ClientConfig{
		APIKey:  key,
		Backend: genai.BackendGeminiAPI,
	})
}

func newGemini(cfg *genai.ClientConfig) (*GeminiProvider, error) {
	client, err := genai.NewClient(context.Background(), cfg)
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	return &GeminiProvider{client: client}, nil
}

func geminiKey() string {
	if k := os.Getenv("GEMINI_API_KEY"); k != "" {
		return k
	}
	return os.Getenv("GOOGLE_API_KEY")
}

func (g *GeminiProvider) Name() string { return "gemini" }

func (g *GeminiProvider) Generate(ctx context.Context, prompt string, s Settings) (string, error) {
	model := s.model(geminiDefaultModel)
	maxTokens := s.maxTokens()

	cfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(s.Temperature)),
		MaxOutputTokens: int32(maxTokens),
	}
	if s.JSON {
		cfg.ResponseMIMEType = "application/json"
	}
	if s.Seed != nil {
		cfg.Seed = genai.Ptr(int32(*s.Seed))
	}

	result, err := g.client.Models.GenerateContent(ctx, model, genai.Text(prompt), cfg)
	if err != nil {
		return "", fmt.Errorf("gemini: request failed: %w", err)
	}
	if len(result.Candidates) == 0 {
		return "", fmt.Errorf("gemini: no candidates in response")
	}
	if result.Candidates[0].FinishReason == genai.FinishReasonMaxTokens {
		return "", fmt.Errorf("gemini: response truncated at %d tokens", maxTokens)
	}

	text := result.Text()
	if text == "" {
		return "", fmt.Errorf("gemini: no text content in response")
	}
	return text, nil
}
