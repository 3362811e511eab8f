package provider

import (
	"context"
	"sync"
)

// MockCompleter is a scriptable Completer for tests. It returns queued
// responses in order and records every prompt it receives.
type MockCompleter struct {
	mu sync.Mutex

	// Responses to return, consumed in order. The last one repeats.
	Responses []string
	// Errors to return, consumed in order alongside Responses.
	Errors []error

	// Prompts records every prompt passed to Complete.
	Prompts []string

	index int
}

// NewMockCompleter creates a mock that always returns response.
func NewMockCompleter(response string) *MockCompleter {
	return &MockCompleter{Responses: []string{response}}
}

// Name returns the provider name.
func (m *MockCompleter) Name() string {
	return "mock"
}

// Complete implements Completer.
func (m *MockCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Prompts = append(m.Prompts, prompt)

	i := m.index
	m.index++

	if i < len(m.Errors) && m.Errors[i] != nil {
		return "", m.Errors[i]
	}
	if len(m.Responses) == 0 {
		return "", nil
	}
	if i >= len(m.Responses) {
		i = len(m.Responses) - 1
	}
	return m.Responses[i], nil
}

// Calls returns how many times Complete was invoked.
func (m *MockCompleter) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Prompts)
}

// LastPrompt returns the most recent prompt, or "" if none.
func (m *MockCompleter) LastPrompt() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Prompts) == 0 {
		return ""
	}
	return m.Prompts[len(m.Prompts)-1]
}
