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


package ai

import (
	"errors"
	"strings"
)

// Profile selects the embedding quality/speed trade-off. The profile is
// fixed for the lifetime of a store instance: the index pins the resolved
// model identifier, and mixing models in one index corrupts distance
// semantics.
type Profile string

const (
	// ProfileFast is the lightweight embedding model: small download,
	// high throughput, good quality.
	ProfileFast Profile = "fast"

	// ProfileQuality is the heavy multilingual model: an order of magnitude
	// slower to embed, better cross-language recall.
	ProfileQuality Profile = "quality"
)

// Default model identifiers per profile, for OpenAI-compatible local
// serving (Ollama, LocalAI, vLLM).
const (
	fastEmbeddingModel    = "all-minilm"
	qualityEmbeddingModel = "bge-m3"
)

// Config holds configuration for the AI services.
type Config struct {
	// EmbeddingHost is the base URL for the embedding service API.
	// Example: "http://localhost:11434/v1"
	EmbeddingHost string

	// GeneratorHost is the base URL for the chat-completion service API.
	// Example: "http://localhost:1234/v1" for LM Studio.
	GeneratorHost string

	// Profile selects the embedding model when EmbeddingModel is unset.
	Profile Profile

	// EmbeddingModel overrides the profile's model identifier when set.
	EmbeddingModel string

	// GeneratorModel is the chat model identifier.
	GeneratorModel string
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithEmbeddingHost sets the embedding service host URL.
func WithEmbeddingHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
	}
}

// WithGeneratorHost sets the generation service host URL.
func WithGeneratorHost(host string) ConfigOption {
	return func(c *Config) {
		c.GeneratorHost = host
	}
}

// WithProfile selects the embedding profile.
func WithProfile(profile Profile) ConfigOption {
	return func(c *Config) {
		c.Profile = profile
	}
}

// WithEmbeddingModel overrides the profile's embedding model identifier.
func WithEmbeddingModel(model string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingModel = model
	}
}

// WithGeneratorModel sets the chat model identifier.
func WithGeneratorModel(model string) ConfigOption {
	return func(c *Config) {
		c.GeneratorModel = model
	}
}

// DefaultConfig returns a Config with sensible defaults for local
// OpenAI-compatible services and the fast embedding profile.
func DefaultConfig() *Config {
	return &Config{
		EmbeddingHost:  "http://localhost:11434/v1",
		GeneratorHost:  "http://localhost:1234/v1",
		Profile:        ProfileFast,
		GeneratorModel: "google/gemma-3n-e4b",
	}
}

// NewConfig creates a Config with default values and applies the provided
// options.
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// ResolvedEmbeddingModel returns the embedding model identifier after
// applying the profile default.
func (c *Config) ResolvedEmbeddingModel() string {
	if c.EmbeddingModel != "" {
		return c.EmbeddingModel
	}
	if c.Profile == ProfileQuality {
		return qualityEmbeddingModel
	}
	return fastEmbeddingModel
}

// Normalize ensures hosts carry the /v1 suffix OpenAI-compatible APIs
// expect.
func (c *Config) Normalize() {
	c.EmbeddingHost = ensureV1(c.EmbeddingHost)
	c.GeneratorHost = ensureV1(c.GeneratorHost)
}

func ensureV1(host string) string {
	if host == "" || strings.HasSuffix(host, "/v1") {
		return host
	}
	return strings.TrimSuffix(host, "/") + "/v1"
}

// Validate checks that the configuration is complete. It normalizes first.
func (c *Config) Validate() error {
	c.Normalize()

	if c.EmbeddingHost == "" {
		return errors.New("ai config: EmbeddingHost is required")
	}
	if c.GeneratorHost == "" {
		return errors.New("ai config: GeneratorHost is required")
	}
	if c.Profile != ProfileFast && c.Profile != ProfileQuality {
		return errors.New("ai config: Profile must be fast or quality")
	}
	if c.GeneratorModel == "" {
		return errors.New("ai config: GeneratorModel is required")
	}
	return nil
}
