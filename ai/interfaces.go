package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity
// search. Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a
	// single provider call. Batch embedding is materially faster than
	// calling EmbedText in a loop; bulk ingestion depends on it.
	// The returned slice contains embeddings in input order.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Generator produces a reply to a prompt given retrieved conversation
// context. It is an opaque collaborator: the engine passes its output
// through unmodified. ownerNote, when non-empty, is a disclosure the
// generator must honor about whose history the context is.
type Generator interface {
	Generate(ctx context.Context, prompt, contextText, ownerNote string) (string, error)

	// IsAvailable reports whether the generation backend is reachable.
	// It must not panic and should respect the context deadline.
	IsAvailable(ctx context.Context) bool
}

// Provider aggregates the AI services and manages their lifecycle.
// Construction is cheap; the expensive model clients are built lazily and
// idempotently on the first Embedder or Generator call, so processes that
// never embed (a health-check-only run, for example) pay nothing.
type Provider interface {
	// EmbeddingModel returns the identifier of the embedding model this
	// provider would use. Safe to call before the embedder exists; the
	// store pins this identifier inside the index.
	EmbeddingModel() string

	// Embedder returns the embedding service, creating it on first call.
	// Subsequent calls return the same instance (or the same error).
	Embedder() (Embedder, error)

	// Generator returns the generation service, creating it on first call.
	Generator() (Generator, error)

	// Close releases resources held by the provider and its services.
	Close() error
}
