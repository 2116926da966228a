package ai

import "context"

// MockClient permite tests sin llamar al modelo real.
type MockClient struct {
	Response string
	Err      error
	Prompts  []string
}

func (m *MockClient) Generate(_ context.Context, prompt string) (string, error) {
	m.Prompts = append(m.Prompts, prompt)
	return m.Response, m.Err
}
