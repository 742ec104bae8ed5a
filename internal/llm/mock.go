package llm

import "context"

// MockClient is a canned Client for tests. Responses are returned in order;
// once exhausted, Err (or the last response) is repeated.
type MockClient struct {
	Responses []string
	Err       error
	Calls     []Request
	ModelName string
}

func (m *MockClient) Model() string {
	if m.ModelName == "" {
		return "mock-model"
	}
	return m.ModelName
}

func (m *MockClient) Complete(ctx context.Context, req Request) (string, error) {
	m.Calls = append(m.Calls, req)
	if m.Err != nil {
		return "", m.Err
	}
	if len(m.Responses) == 0 {
		return "", nil
	}
	resp := m.Responses[0]
	if len(m.Responses) > 1 {
		m.Responses = m.Responses[1:]
	}
	return resp, nil
}
