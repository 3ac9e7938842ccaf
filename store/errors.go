package store

import "errors"

var (
	// ErrRepositoryRequired indicates a nil document repository was passed.
	ErrRepositoryRequired = errors.New("document repository is required")

	// ErrProviderRequired indicates a nil AI provider was passed.
	ErrProviderRequired = errors.New("AI provider is required")

	// ErrModelMismatch indicates the collection is pinned to a different
	// embedding model than the provider would use. Mixing embedding spaces
	// in one index makes distances meaningless.
	ErrModelMismatch = errors.New("embedding model mismatch")

	// ErrEmbeddingCountMismatch indicates the embedding provider returned a
	// different number of vectors than texts submitted.
	ErrEmbeddingCountMismatch = errors.New("embedding count does not match input count")
)
