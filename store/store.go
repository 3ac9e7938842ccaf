package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/quindle/recall/ai"
	"github.com/quindle/recall/core"
	"github.com/quindle/recall/storage"
)

// VectorStore provides semantic storage and retrieval of conversation
// documents. Documents are embedded on write and searched by vector
// similarity, always scoped to an owner.
type VectorStore struct {
	repo     storage.DocumentRepository
	provider ai.Provider
	logger   *slog.Logger

	mu       sync.Mutex
	embedder ai.Embedder
}

// Option configures a VectorStore.
type Option func(*VectorStore) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *VectorStore) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewVectorStore creates a new vector store. The embedding client is not
// built here; it is created lazily on the first operation that needs it,
// so opening the store stays cheap.
func NewVectorStore(
	repo storage.DocumentRepository,
	provider ai.Provider,
	opts ...Option,
) (*VectorStore, error) {
	if repo == nil {
		return nil, ErrRepositoryRequired
	}
	if provider == nil {
		return nil, ErrProviderRequired
	}

	s := &VectorStore{
		repo:     repo,
		provider: provider,
		logger:   slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// ensureReady builds the embedder on first use and verifies the model pin.
// The first write pins the provider's embedding model inside the index;
// every later open must use the same model or the stored vectors and the
// query vectors would live in different spaces.
func (s *VectorStore) ensureReady(ctx context.Context) (ai.Embedder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.embedder != nil {
		return s.embedder, nil
	}

	model := s.provider.EmbeddingModel()
	pinned, err := s.repo.ModelPin(ctx)
	if err != nil {
		return nil, err
	}
	if pinned != "" && pinned != model {
		return nil, fmt.Errorf("%w: index pinned to %q, provider uses %q",
			ErrModelMismatch, pinned, model)
	}

	embedder, err := s.provider.Embedder()
	if err != nil {
		return nil, err
	}

	if pinned == "" {
		if err := s.repo.SetModelPin(ctx, model); err != nil {
			return nil, err
		}
		s.logger.Info("pinned embedding model", "model", model)
	}

	s.embedder = embedder
	return embedder, nil
}

// AddOne embeds and stores a single document. The document's ID is derived
// from its content and timestamp, so storing the same conversation twice
// overwrites rather than duplicates. Returns the assigned ID.
func (s *VectorStore) AddOne(ctx context.Context, doc *core.Document) (core.ID, error) {
	if err := core.ValidateDocument(doc); err != nil {
		return 0, err
	}

	embedder, err := s.ensureReady(ctx)
	if err != nil {
		return 0, err
	}

	if doc.Id == 0 {
		doc.Id = core.IDFromContent(doc.Content, doc.Metadata.Timestamp)
	}

	vector, err := embedder.EmbedText(ctx, doc.Content)
	if err != nil {
		s.logger.Error("error embedding document", "id", doc.Id, "err", err)
		return 0, err
	}
	doc.Vector = vector

	if err := s.repo.PutDocuments(ctx, doc); err != nil {
		return 0, err
	}

	return doc.Id, nil
}

// AddBatch embeds and stores multiple documents using a single batch
// embedding call. Returns the number of documents stored. An empty batch
// is a no-op.
func (s *VectorStore) AddBatch(ctx context.Context, docs []*core.Document) (int, error) {
	if len(docs) == 0 {
		return 0, nil
	}

	for _, doc := range docs {
		if err := core.ValidateDocument(doc); err != nil {
			return 0, err
		}
	}

	embedder, err := s.ensureReady(ctx)
	if err != nil {
		return 0, err
	}

	texts := make([]string, len(docs))
	for i, doc := range docs {
		if doc.Id == 0 {
			doc.Id = core.IDFromContent(doc.Content, doc.Metadata.Timestamp)
		}
		texts[i] = doc.Content
	}

	vectors, err := embedder.EmbedTexts(ctx, texts)
	if err != nil {
		s.logger.Error("error embedding batch", "size", len(docs), "err", err)
		return 0, err
	}
	if len(vectors) != len(docs) {
		return 0, fmt.Errorf("%w: got %d vectors for %d documents",
			ErrEmbeddingCountMismatch, len(vectors), len(docs))
	}

	for i, doc := range docs {
		doc.Vector = vectors[i]
	}

	if err := s.repo.PutDocuments(ctx, docs...); err != nil {
		return 0, err
	}

	return len(docs), nil
}

// Search finds up to k documents nearest to the query, scoped to owner.
// k is clamped to the number of stored documents; searching an empty
// store returns an empty result set, not an error.
func (s *VectorStore) Search(ctx context.Context, query string, k int, owner string) ([]*core.SearchResult, error) {
	embedder, err := s.ensureReady(ctx)
	if err != nil {
		return nil, err
	}

	count, err := s.repo.CountDocuments(ctx)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return []*core.SearchResult{}, nil
	}
	if k > count {
		k = count
	}
	if k <= 0 {
		return []*core.SearchResult{}, nil
	}

	vector, err := embedder.EmbedText(ctx, query)
	if err != nil {
		s.logger.Error("error embedding query", "err", err)
		return nil, err
	}

	return s.repo.FindNearest(ctx, vector, k, owner)
}

// Count returns the number of stored documents.
func (s *VectorStore) Count(ctx context.Context) (int, error) {
	return s.repo.CountDocuments(ctx)
}

// IsAvailable reports whether the embedding backend is usable.
// It never returns an error; any failure reads as unavailable.
func (s *VectorStore) IsAvailable(ctx context.Context) bool {
	embedder, err := s.ensureReady(ctx)
	if err != nil {
		return false
	}
	if _, err := embedder.EmbedText(ctx, "ping"); err != nil {
		return false
	}
	return true
}

// ClearAll removes every document and the embedding model pin, returning
// the store to its freshly-created state.
func (s *VectorStore) ClearAll(ctx context.Context) error {
	s.mu.Lock()
	s.embedder = nil
	s.mu.Unlock()
	return s.repo.DeleteAll(ctx)
}
