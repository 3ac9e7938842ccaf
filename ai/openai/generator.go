package openai

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/quindle/recall/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

const (
	generateTemperature = 0.8
	generateMaxTokens   = 500
	probeTimeout        = 5 * time.Second
)

// Generator implements ai.Generator against an OpenAI-compatible chat
// completion endpoint (LM Studio, Ollama, vLLM).
type Generator struct {
	client  *openai.LLM
	baseURL string
	probe   *http.Client
	logger  *slog.Logger
}

// newGenerator is an internal constructor that returns the concrete type.
func newGenerator(config *ai.Config) (*Generator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.GeneratorHost),
		openai.WithToken("none"),
		openai.WithModel(config.GeneratorModel),
	)
	if err != nil {
		return nil, err
	}

	return &Generator{
		client:  client,
		baseURL: config.GeneratorHost,
		probe:   &http.Client{Timeout: probeTimeout},
		logger:  slog.Default().With("component", "openai-generator"),
	}, nil
}

// NewGenerator creates a generator using the provided configuration.
func NewGenerator(config *ai.Config) (ai.Generator, error) {
	return newGenerator(config)
}

// Generate produces a reply to the prompt. Retrieved context and the
// third-party disclosure note, when present, are passed as additional
// system messages ahead of the user turn.
func (g *Generator) Generate(ctx context.Context, prompt, contextText, ownerNote string) (string, error) {
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, systemPersona),
	}

	if strings.TrimSpace(contextText) != "" {
		messages = append(messages,
			llms.TextParts(llms.ChatMessageTypeSystem, contextPreamble+"\n"+contextText))
	}
	if ownerNote != "" {
		messages = append(messages,
			llms.TextParts(llms.ChatMessageTypeSystem, ownerNote))
	}

	messages = append(messages, llms.TextParts(llms.ChatMessageTypeHuman, prompt))

	resp, err := g.client.GenerateContent(ctx, messages,
		llms.WithTemperature(generateTemperature),
		llms.WithMaxTokens(generateMaxTokens),
	)
	if err != nil {
		g.logger.Error("generation failed", "err", err)
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", nil
	}
	return strings.TrimSpace(resp.Choices[0].Content), nil
}

// IsAvailable reports whether the chat backend answers its model listing
// endpoint. Failures of any kind report false, never propagate.
func (g *Generator) IsAvailable(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/models", nil)
	if err != nil {
		return false
	}
	resp, err := g.probe.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
