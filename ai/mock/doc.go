// Package mock provides deterministic in-memory implementations of the ai
// interfaces for tests. Embeddings are derived from the input text so that
// similarity-based assertions are stable across runs.
package mock
