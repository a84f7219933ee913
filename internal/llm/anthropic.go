package llm

import (
	"context"
	"fmt"
	"net/http"
)

const (
	anthropicAPIURL       = "https://api.anthropic.com/v1/messages"
	anthropicDefaultModel = "claude-sonnet-4-5"
	anthropicAPIVersion   = "2023-06-01"

	jsonOnlyInstruction = "Respond with a single JSON object and nothing else."
)

// AnthropicProvider implements Provider using the Anthropic Messages API.
type AnthropicProvider struct {
	apiKey string
	apiURL string
	client *http.Client
}

// NewAnthropic creates an Anthropic provider using the ANTHROPIC_API_KEY env var.
func NewAnthropic() (*AnthropicProvider, error) {
	key, err := requireKey("ANTHROPIC_API_KEY")
	if err != nil {
		return nil, err
	}
	return &AnthropicProvider{apiKey: key, apiURL: anthropicAPIURL, client: &http.Client{}}, nil
}

func (a *AnthropicProvider) Name() string { return "anthropic" }

// Generate sends a single user message. With s.JSON the system prompt asks
// for a bare JSON object; the Messages API has no JSON response mode.
func (a *AnthropicProvider) Generate(ctx context.Context, prompt string, s Settings) (string, error) {
	maxTokens := s.maxTokens()
	req := anthropicRequest{
		Model:       s.model(anthropicDefaultModel),
		MaxTokens:   maxTokens,
		Temperature: &s.Temperature,
		Messages:    []anthropicMessage{{Role: "user", Content: prompt}},
	}
	if s.JSON {
		req.System = jsonOnlyInstruction
	}

	header := http.Header{}
	header.Set("X-API-Key", a.apiKey)
	header.Set("Anthropic-Version", anthropicAPIVersion)

	var resp anthropicResponse
	if err := postJSON(ctx, a.client, "anthropic", a.apiURL, header, req, &resp); err != nil {
		return "", err
	}
	if resp.StopReason == "max_tokens" {
		return "", fmt.Errorf("anthropic: response truncated at %d tokens", maxTokens)
	}
	for _, block := range resp.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("anthropic: no text content in response")
}

type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	Temperature *float64           `json:"temperature,omitempty"`
	System      string             `json:"system,omitempty"`
	Messages    []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content    []anthropicContentBlock `json:"content"`
	StopReason string                  `json:"stop_reason"`
}

type anthropicContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}
