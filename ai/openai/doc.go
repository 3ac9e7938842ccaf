// Package openai implements the ai interfaces against OpenAI-compatible
// HTTP APIs using langchaingo. It works with any compatible local server
// (Ollama, LM Studio, LocalAI, vLLM) as well as hosted endpoints.
package openai
