package llm

import (
	"context"
	"fmt"
	"net/http"
)

const (
	openaiAPIURL       = "https://api.openai.com/v1/chat/completions"
	openaiDefaultModel = "gpt-4o"
)

// OpenAIProvider implements Provider using the OpenAI Chat Completions API.
type OpenAIProvider struct {
	apiKey string
	apiURL string
	client *http.Client
}

// NewOpenAI creates an OpenAI provider using the OPENAI_API_KEY env var.
func NewOpenAI() (*OpenAIProvider, error) {
	key, err := requireKey("OPENAI_API_KEY")
	if err != nil {
		return nil, err
	}
	return &OpenAIProvider{apiKey: key, apiURL: openaiAPIURL, client: &http.Client{}}, nil
}

func (o *OpenAIProvider) Name() string { return "openai" }

func (o *OpenAIProvider) Generate(ctx context.Context, prompt string, s Settings) (string, error) {
	maxTokens := s.maxTokens()
	req := openaiRequest{
		Model:       s.model(openaiDefaultModel),
		MaxTokens:   maxTokens,
		Temperature: s.Temperature,
		Seed:        s.Seed,
		Messages:    []openaiMessage{{Role: "user", Content: prompt}},
	}
	if s.JSON {
		req.ResponseFormat = &openaiResponseFormat{Type: "json_object"}
	}

	header := http.Header{}
	header.Set("Authorization", "Bearer "+o.apiKey)

	var resp openaiResponse
	if err := postJSON(ctx, o.client, "openai", o.apiURL, header, req, &resp); err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai: no choices in response")
	}
	choice := resp.Choices[0]
	if choice.FinishReason == "length" {
		return "", fmt.Errorf("openai: response truncated at %d tokens", maxTokens)
	}
	return choice.Message.Content, nil
}

type openaiRequest struct {
	Model          string                `json:"model"`
	MaxTokens      int                   `json:"max_tokens"`
	Temperature    float64               `json:"temperature"`
	Seed           *int                  `json:"seed,omitempty"`
	Messages       []openaiMessage       `json:"messages"`
	ResponseFormat *openaiResponseFormat `json:"response_format,omitempty"`
}

type openaiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openaiResponseFormat struct {
	Type string `json:"type"`
}

type openaiResponse struct {
	Choices []openaiChoice `json:"choices"`
}

type openaiChoice struct {
	Message      openaiMessage `json:"message"`
	FinishReason string        `json:"finish_reason"`
}
