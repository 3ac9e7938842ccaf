package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, ProfileFast, cfg.Profile)
	assert.Equal(t, "all-minilm", cfg.ResolvedEmbeddingModel())
}

func TestNewConfig_Options(t *testing.T) {
	cfg := NewConfig(
		WithEmbeddingHost("http://embedder:9100"),
		WithGeneratorHost("http://llm:1234"),
		WithProfile(ProfileQuality),
		WithGeneratorModel("qwen2.5:7b"),
	)

	require.NoError(t, cfg.Validate())
	assert.Equal(t, "http://embedder:9100/v1", cfg.EmbeddingHost)
	assert.Equal(t, "http://llm:1234/v1", cfg.GeneratorHost)
	assert.Equal(t, "bge-m3", cfg.ResolvedEmbeddingModel())
	assert.Equal(t, "qwen2.5:7b", cfg.GeneratorModel)
}

func TestConfig_EmbeddingModelOverride(t *testing.T) {
	cfg := NewConfig(WithEmbeddingModel("text-embedding-3-small"))
	assert.Equal(t, "text-embedding-3-small", cfg.ResolvedEmbeddingModel())
}

func TestConfig_Normalize(t *testing.T) {
	tests := []struct {
		name string
		host string
		want string
	}{
		{"bare host", "http://localhost:11434", "http://localhost:11434/v1"},
		{"trailing slash", "http://localhost:11434/", "http://localhost:11434/v1"},
		{"already normalized", "http://localhost:11434/v1", "http://localhost:11434/v1"},
		{"empty stays empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{EmbeddingHost: tt.host}
			cfg.Normalize()
			assert.Equal(t, tt.want, cfg.EmbeddingHost)
		})
	}
}

func TestConfig_Validate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing embedding host", func(c *Config) { c.EmbeddingHost = "" }},
		{"missing generator host", func(c *Config) { c.GeneratorHost = "" }},
		{"bad profile", func(c *Config) { c.Profile = Profile("turbo") }},
		{"missing generator model", func(c *Config) { c.GeneratorModel = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
