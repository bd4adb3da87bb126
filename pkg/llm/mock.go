package llm

import "context"

// MockProvider is a configurable Provider for tests. Responses are returned
// in order; once exhausted, the last one repeats.
type MockProvider struct {
	Responses []string
	Err       error
	Calls     []string
	next      int
}

var _ Provider = (*MockProvider)(nil)

func (m *MockProvider) Complete(ctx context.Context, systemMessage, prompt string) (string, error) {
	m.Calls = append(m.Calls, prompt)
	if m.Err != nil {
		return "", m.Err
	}
	if len(m.Responses) == 0 {
		return "", nil
	}
	if m.next >= len(m.Responses) {
		return m.Responses[len(m.Responses)-1], nil
	}
	resp := m.Responses[m.next]
	m.next++
	return resp, nil
}
