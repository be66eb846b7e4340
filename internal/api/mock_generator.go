package api

import (
	"context"
	"sync"
)

// MockGenerator is a Generator for tests
type MockGenerator struct {
	// Mock return values
	Response  string
	Err       error
	ModelName string

	// Gate, when non-nil, makes Generate wait for a receive before answering
	Gate chan struct{}

	mu      sync.Mutex
	prompts []string
	closed  bool
}

// Ensure MockGenerator implements Generator
var _ Generator = (*MockGenerator)(nil)

func (m *MockGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()

	if m.Gate != nil {
		select {
		case <-m.Gate:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return m.Response, m.Err
}

func (m *MockGenerator) Model() string {
	if m.ModelName == "" {
		return "mock-model"
	}
	return m.ModelName
}

func (m *MockGenerator) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Prompts returns every prompt received so far
func (m *MockGenerator) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.prompts))
	copy(out, m.prompts)
	return out
}

// IsClosed reports whether Close was called
func (m *MockGenerator) IsClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}
