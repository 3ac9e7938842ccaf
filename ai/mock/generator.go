package mock

import (
	"context"
	"fmt"
)

// MockGenerator is a test double for ai.Generator.
type MockGenerator struct {
	// GenerateFunc is called by Generate if set.
	GenerateFunc func(ctx context.Context, prompt, contextText, ownerNote string) (string, error)

	// Available controls IsAvailable's answer. Defaults true via
	// NewMockGenerator.
	Available bool

	callCount int
}

// NewMockGenerator creates a mock generator that echoes its inputs.
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{Available: true}
}

// Generate returns a canned reply describing what it was asked, so tests
// can assert that context and disclosure notes made it through.
func (m *MockGenerator) Generate(ctx context.Context, prompt, contextText, ownerNote string) (string, error) {
	m.callCount++

	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, prompt, contextText, ownerNote)
	}

	return fmt.Sprintf("reply to %q (context %d bytes, note %d bytes)",
		prompt, len(contextText), len(ownerNote)), nil
}

// IsAvailable reports the configured availability.
func (m *MockGenerator) IsAvailable(ctx context.Context) bool {
	return m.Available
}

// CallCount returns the number of Generate calls.
func (m *MockGenerator) CallCount() int {
	return m.callCount
}
