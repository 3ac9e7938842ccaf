package store

import (
	"context"
	"testing"

	"github.com/quindle/recall/ai/mock"
	"github.com/quindle/recall/core"
	"github.com/quindle/recall/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*VectorStore, *mock.MockProvider) {
	t.Helper()
	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() {
		repo.Close()
		backend.Close()
	})

	provider := mock.NewMockProvider()
	s, err := NewVectorStore(repo, provider)
	require.NoError(t, err)
	return s, provider
}

func testDoc(content, timestamp, user string) *core.Document {
	return &core.Document{
		Content: content,
		Metadata: core.Metadata{
			User:      user,
			Username:  "tester",
			Timestamp: timestamp,
			Provider:  "json",
			Source:    "chat_log",
		},
	}
}

func TestNewVectorStore_Validation(t *testing.T) {
	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	defer backend.Close()
	defer repo.Close()

	_, err = NewVectorStore(nil, mock.NewMockProvider())
	assert.ErrorIs(t, err, ErrRepositoryRequired)

	_, err = NewVectorStore(repo, nil)
	assert.ErrorIs(t, err, ErrProviderRequired)
}

func TestAddOne(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	doc := testDoc("User tester asked: hi\nBot replied: hello", "2024-01-15T10:30:00", "100")
	id, err := s.AddOne(ctx, doc)
	require.NoError(t, err)
	assert.NotZero(t, id)
	assert.NotEmpty(t, doc.Vector)

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestAddOne_Idempotent(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	id1, err := s.AddOne(ctx, testDoc("same exchange", "2024-01-15T10:30:00", "100"))
	require.NoError(t, err)

	id2, err := s.AddOne(ctx, testDoc("same exchange", "2024-01-15T10:30:00", "100"))
	require.NoError(t, err)

	assert.Equal(t, id1, id2)

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestAddOne_Validation(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	_, err := s.AddOne(ctx, testDoc("", "2024-01-15T10:30:00", "100"))
	assert.ErrorIs(t, err, core.ErrEmptyContent)

	_, err = s.AddOne(ctx, testDoc("content", "2024-01-15T10:30:00", ""))
	assert.ErrorIs(t, err, core.ErrMissingOwner)
}

func TestAddBatch(t *testing.T) {
	s, provider := newTestStore(t)
	ctx := context.Background()

	docs := []*core.Document{
		testDoc("first exchange", "2024-01-01T00:00:00", "100"),
		testDoc("second exchange", "2024-01-02T00:00:00", "100"),
		testDoc("third exchange", "2024-01-03T00:00:00", "200"),
	}

	before := provider.MockEmbedder.CallCount()
	n, err := s.AddBatch(ctx, docs)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	// One batch embedding call, not one per document
	assert.Equal(t, before+1, provider.MockEmbedder.CallCount())

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	for _, doc := range docs {
		assert.NotZero(t, doc.Id)
		assert.NotEmpty(t, doc.Vector)
	}
}

func TestAddBatch_Empty(t *testing.T) {
	s, provider := newTestStore(t)

	n, err := s.AddBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, 0, provider.MockEmbedder.CallCount())
}

func TestSearch_EmptyStore(t *testing.T) {
	s, _ := newTestStore(t)

	results, err := s.Search(context.Background(), "anything", 5, "100")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearch_ClampsToCount(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	_, err := s.AddOne(ctx, testDoc("only one document", "2024-01-01T00:00:00", "100"))
	require.NoError(t, err)

	results, err := s.Search(ctx, "only one document", 10, "100")
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestSearch_OwnerIsolation(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	_, err := s.AddOne(ctx, testDoc("alice talks about cooking", "2024-01-01T00:00:00", "100"))
	require.NoError(t, err)
	_, err = s.AddOne(ctx, testDoc("bob talks about cooking", "2024-01-02T00:00:00", "200"))
	require.NoError(t, err)

	results, err := s.Search(ctx, "cooking", 10, "100")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "100", results[0].Document.Metadata.User)
}

func TestSearch_FindsSameTextFirst(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	_, err := s.AddOne(ctx, testDoc("how do I bake bread", "2024-01-01T00:00:00", "100"))
	require.NoError(t, err)
	_, err = s.AddOne(ctx, testDoc("completely unrelated text", "2024-01-02T00:00:00", "100"))
	require.NoError(t, err)

	// The mock embedder maps identical text to identical vectors, so an
	// exact-text query must rank its document first at distance ~0.
	results, err := s.Search(ctx, "how do I bake bread", 2, "100")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "how do I bake bread", results[0].Document.Content)
	assert.InDelta(t, 0.0, results[0].Distance, 0.0001)
}

func TestModelPinGuard(t *testing.T) {
	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	defer backend.Close()
	defer repo.Close()

	ctx := context.Background()

	first := mock.NewMockProvider()
	first.Model = "all-minilm"
	s1, err := NewVectorStore(repo, first)
	require.NoError(t, err)

	_, err = s1.AddOne(ctx, testDoc("pins the model", "2024-01-01T00:00:00", "100"))
	require.NoError(t, err)

	// Reopening over the same repository with a different embedding model
	// must refuse to operate.
	second := mock.NewMockProvider()
	second.Model = "bge-m3"
	s2, err := NewVectorStore(repo, second)
	require.NoError(t, err)

	_, err = s2.AddOne(ctx, testDoc("different space", "2024-01-02T00:00:00", "100"))
	assert.ErrorIs(t, err, ErrModelMismatch)

	_, err = s2.Search(ctx, "anything", 5, "100")
	assert.ErrorIs(t, err, ErrModelMismatch)
}

func TestIsAvailable(t *testing.T) {
	s, provider := newTestStore(t)
	ctx := context.Background()

	assert.True(t, s.IsAvailable(ctx))

	provider.MockEmbedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return nil, assert.AnError
	}
	assert.False(t, s.IsAvailable(ctx))
}

func TestClearAll(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	_, err := s.AddOne(ctx, testDoc("to be cleared", "2024-01-01T00:00:00", "100"))
	require.NoError(t, err)

	require.NoError(t, s.ClearAll(ctx))

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	// The model pin is gone too, so a later write re-pins fresh.
	_, err = s.AddOne(ctx, testDoc("fresh start", "2024-02-01T00:00:00", "100"))
	require.NoError(t, err)
}
