// Package store implements the owner-scoped semantic document store.
//
// A VectorStore couples a document repository with an embedding provider:
// documents are embedded when written and retrieved by vector similarity.
// The store pins the embedding model identifier inside the index on first
// write and refuses to operate under a different model, since vectors from
// different models are not comparable.
package store
