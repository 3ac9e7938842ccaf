package storage

import (
	"context"

	"github.com/quindle/recall/core"
)

// DocumentRepository provides operations for managing stored conversation
// documents. Implementations must be thread-safe and support concurrent
// access.
type DocumentRepository interface {
	// PutDocuments writes one or more documents to storage.
	// Writes are upserts keyed by each document's content-derived ID,
	// so re-inserting the same document overwrites rather than
	// duplicates. Sets InsertedAt if not already set.
	PutDocuments(ctx context.Context, docs ...*core.Document) error

	// GetDocument retrieves a single document by ID.
	// Returns ErrNotFound if the document doesn't exist.
	GetDocument(ctx context.Context, id core.ID) (*core.Document, error)

	// CountDocuments returns the number of stored documents.
	CountDocuments(ctx context.Context) (int, error)

	// FindNearest finds documents nearest to the given vector, ordered
	// by ascending distance, up to limit results. When owner is
	// non-empty only documents whose Metadata.User equals owner are
	// considered.
	FindNearest(ctx context.Context, vector []float32, limit int, owner string) ([]*core.SearchResult, error)

	// ModelPin returns the embedding model identifier the collection is
	// pinned to, or "" if no documents have been written yet.
	ModelPin(ctx context.Context) (string, error)

	// SetModelPin records the embedding model identifier for the
	// collection. Set once on first write; callers must not change an
	// existing pin.
	SetModelPin(ctx context.Context, model string) error

	// DeleteAll removes every document and the model pin.
	DeleteAll(ctx context.Context) error

	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}
