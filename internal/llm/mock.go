package llm

import (
	"context"
	"sync"
)

// MockProvider is a test double that returns canned responses.
// When Responses is set, successive calls return successive entries and
// the last entry repeats.
type MockProvider struct {
	Response  string
	Responses []string
	Err       error

	mu      sync.Mutex
	prompts []string
}

func (m *MockProvider) Name() string { return "mock" }

func (m *MockProvider) Generate(_ context.Context, prompt string, _ Settings) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prompts = append(m.prompts, prompt)
	if m.Err != nil {
		return "", m.Err
	}
	if len(m.Responses) > 0 {
		i := len(m.prompts) - 1
		if i >= len(m.Responses) {
			i = len(m.Responses) - 1
		}
		return m.Responses[i], nil
	}
	return m.Response, nil
}

// Prompts returns the prompts received so far.
func (m *MockProvider) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.prompts...)
}
