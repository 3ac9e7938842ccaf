// Package retrieval assembles owner-scoped conversation context for the
// generation step. It resolves cross-owner mentions through a display-name
// directory, rewrites history-style questions into a broader topical
// probe, and always constrains the underlying vector search to a single
// owner's documents.
package retrieval
