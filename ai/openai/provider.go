// Copyright 2026 Quindle Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package openai

import (
	"log/slog"
	"sync"

	"github.com/quindle/recall/ai"
)

// Provider implements ai.Provider using OpenAI-compatible services.
// Construction only validates configuration; the embedder and generator
// clients are built lazily on first request and reused afterwards, so a
// process that never embeds never loads a model client.
type Provider struct {
	config *ai.Config
	logger *slog.Logger

	embedOnce sync.Once
	embedder  *Embedder
	embedErr  error

	genOnce   sync.Once
	generator *Generator
	genErr    error
}

// NewProvider creates an AI provider with OpenAI-compatible services.
// The config is validated and normalized before use.
//
// Returns ai.Provider interface (not *Provider) to enforce abstraction and
// prevent coupling to OpenAI-specific implementation details.
func NewProvider(config *ai.Config) (ai.Provider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &Provider{
		config: config,
		logger: slog.Default().With("component", "openai-provider"),
	}, nil
}

// EmbeddingModel returns the configured embedding model identifier without
// constructing the embedder.
func (p *Provider) EmbeddingModel() string {
	return p.config.ResolvedEmbeddingModel()
}

// Embedder returns the text embedding service, creating it on first call.
func (p *Provider) Embedder() (ai.Embedder, error) {
	p.embedOnce.Do(func() {
		p.logger.Debug("initializing embedder",
			"host", p.config.EmbeddingHost,
			"model", p.config.ResolvedEmbeddingModel())
		p.embedder, p.embedErr = newEmbedder(p.config)
	})
	if p.embedErr != nil {
		return nil, p.embedErr
	}
	return p.embedder, nil
}

// Generator returns the generation service, creating it on first call.
func (p *Provider) Generator() (ai.Generator, error) {
	p.genOnce.Do(func() {
		p.logger.Debug("initializing generator",
			"host", p.config.GeneratorHost,
			"model", p.config.GeneratorModel)
		p.generator, p.genErr = newGenerator(p.config)
	})
	if p.genErr != nil {
		return nil, p.genErr
	}
	return p.generator, nil
}

// Close releases resources held by the provider.
// Currently a no-op as the underlying clients don't require explicit cleanup.
func (p *Provider) Close() error {
	p.logger.Debug("closing OpenAI provider")
	return nil
}
