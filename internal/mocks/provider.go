package mocks

import (
	"context"

	"github.com/campaign-os/planner-api/internal/llm"
)

// MockProvider is a mock implementation of llm.Provider
type MockProvider struct {
	Response    string
	Err         error
	Calls       int
	LastRequest llm.CompletionRequest
}

func (m *MockProvider) Complete(ctx context.Context, req llm.CompletionRequest) (string, error) {
	m.Calls++
	m.LastRequest = req
	if m.Err != nil {
		return "", m.Err
	}
	return m.Response, nil
}
