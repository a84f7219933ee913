package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"os"
)

// DefaultMaxTokens caps a response when Settings.MaxTokens is unset. An
// insight is two short fields, so this is generous.
const DefaultMaxTokens = 1024

func (s Settings) maxTokens() int {
	switch {
	case s.MaxTokens <= 0:
		return DefaultMaxTokens
	case s.MaxTokens > math.MaxInt32:
		return math.MaxInt32
	}
	return s.MaxTokens
}

func (s Settings) model(fallback string) string {
	if s.Model == "" {
		return fallback
	}
	return s.Model
}

func requireKey(env string) (string, error) {
	key := os.Getenv(env)
	if key == "" {
		return "", fmt.Errorf("%s environment variable not set", env)
	}
	return key, nil
}

// postJSON sends in as a JSON POST and decodes a 200 response into out.
// Errors are prefixed with the provider name.
func postJSON(ctx context.Context, client *http.Client, provider, url string, header http.Header, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("%s: marshal request: %w", provider, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%s: create request: %w", provider, err)
	}
	req.Header = header.Clone()
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%s: request failed: %w", provider, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: read response: %w", provider, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: API returned %d: %s", provider, resp.StatusCode, string(respBody))
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("%s: parse response: %w", provider, err)
	}
	return nil
}
