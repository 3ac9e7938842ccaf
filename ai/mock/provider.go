package mock

import (
	"github.com/quindle/recall/ai"
)

// MockProvider is a test double for ai.Provider wrapping the mock embedder
// and generator.
type MockProvider struct {
	MockEmbedder  *MockEmbedder
	MockGenerator *MockGenerator

	// Model is the embedding model identifier reported for index pinning.
	Model string

	// EmbedderErr, when set, is returned by Embedder() — simulates a model
	// load failure.
	EmbedderErr error

	// GeneratorErr, when set, is returned by Generator().
	GeneratorErr error
}

var _ ai.Provider = (*MockProvider)(nil)

// NewMockProvider creates a provider with default deterministic services.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		MockEmbedder:  NewMockEmbedder(),
		MockGenerator: NewMockGenerator(),
		Model:         "mock-embedder",
	}
}

func (p *MockProvider) EmbeddingModel() string {
	return p.Model
}

func (p *MockProvider) Embedder() (ai.Embedder, error) {
	if p.EmbedderErr != nil {
		return nil, p.EmbedderErr
	}
	return p.MockEmbedder, nil
}

func (p *MockProvider) Generator() (ai.Generator, error) {
	if p.GeneratorErr != nil {
		return nil, p.GeneratorErr
	}
	return p.MockGenerator, nil
}

func (p *MockProvider) Close() error {
	return nil
}
