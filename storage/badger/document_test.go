package badger

import (
	"context"
	"fmt"
	"testing"

	"github.com/quindle/recall/core"
	"github.com/quindle/recall/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) storage.DocumentRepository {
	t.Helper()
	repo, backend, err := NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() {
		repo.Close()
		backend.Close()
	})
	return repo
}

func makeDoc(content, timestamp, user string, vector []float32) *core.Document {
	return &core.Document{
		Id:      core.IDFromContent(content, timestamp),
		Content: content,
		Metadata: core.Metadata{
			User:      user,
			Username:  "tester",
			Timestamp: timestamp,
			Provider:  "json",
			Source:    "chat_log",
		},
		Vector: vector,
	}
}

func TestPutGetDocument(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	doc := makeDoc("User tester asked: hi\nBot replied: hello", "2024-01-15T10:30:00", "100", []float32{0.1, 0.2, 0.3})

	err := repo.PutDocuments(ctx, doc)
	require.NoError(t, err)
	assert.False(t, doc.InsertedAt.IsZero())

	got, err := repo.GetDocument(ctx, doc.Id)
	require.NoError(t, err)
	assert.Equal(t, doc.Id, got.Id)
	assert.Equal(t, doc.Content, got.Content)
	assert.Equal(t, doc.Metadata, got.Metadata)
	assert.Equal(t, doc.Vector, got.Vector)
}

func TestGetDocument_NotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.GetDocument(context.Background(), core.ID(12345))
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestPutDocuments_UpsertByID(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	doc := makeDoc("same content", "2024-01-15T10:30:00", "100", []float32{0.1, 0.2})

	require.NoError(t, repo.PutDocuments(ctx, doc))
	require.NoError(t, repo.PutDocuments(ctx, doc))

	count, err := repo.CountDocuments(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestCountDocuments(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	count, err := repo.CountDocuments(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	docs := []*core.Document{
		makeDoc("first", "2024-01-01T00:00:00", "100", []float32{1, 0}),
		makeDoc("second", "2024-01-02T00:00:00", "100", []float32{0, 1}),
		makeDoc("third", "2024-01-03T00:00:00", "200", []float32{1, 1}),
	}
	require.NoError(t, repo.PutDocuments(ctx, docs...))

	count, err = repo.CountDocuments(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestFindNearest_Ordering(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	docs := []*core.Document{
		makeDoc("exact match", "2024-01-01T00:00:00", "100", []float32{1, 0, 0}),
		makeDoc("close match", "2024-01-02T00:00:00", "100", []float32{0.9, 0.1, 0}),
		makeDoc("far match", "2024-01-03T00:00:00", "100", []float32{0, 0, 1}),
	}
	require.NoError(t, repo.PutDocuments(ctx, docs...))

	results, err := repo.FindNearest(ctx, []float32{1, 0, 0}, 10, "")
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "exact match", results[0].Document.Content)
	assert.InDelta(t, 0.0, results[0].Distance, 0.0001)
	for i := 0; i < len(results)-1; i++ {
		assert.LessOrEqual(t, results[i].Distance, results[i+1].Distance)
	}
}

func TestFindNearest_OwnerFilter(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	docs := []*core.Document{
		makeDoc("alice topic", "2024-01-01T00:00:00", "100", []float32{1, 0}),
		makeDoc("bob topic", "2024-01-02T00:00:00", "200", []float32{1, 0}),
	}
	require.NoError(t, repo.PutDocuments(ctx, docs...))

	results, err := repo.FindNearest(ctx, []float32{1, 0}, 10, "200")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "bob topic", results[0].Document.Content)

	// Empty owner searches everything
	results, err = repo.FindNearest(ctx, []float32{1, 0}, 10, "")
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestFindNearest_SkipsDocsWithoutVectors(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	docs := []*core.Document{
		makeDoc("embedded", "2024-01-01T00:00:00", "100", []float32{1, 0}),
		makeDoc("not embedded", "2024-01-02T00:00:00", "100", nil),
	}
	require.NoError(t, repo.PutDocuments(ctx, docs...))

	results, err := repo.FindNearest(ctx, []float32{1, 0}, 10, "")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "embedded", results[0].Document.Content)
}

func TestFindNearest_Limit(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		doc := makeDoc("message", fmt.Sprintf("2024-01-01T00:00:%02d", i), "100", []float32{1, 0})
		require.NoError(t, repo.PutDocuments(ctx, doc))
	}

	results, err := repo.FindNearest(ctx, []float32{1, 0}, 3, "")
	require.NoError(t, err)
	assert.Len(t, results, 3)
}

func TestFindNearest_InvalidLimit(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.FindNearest(context.Background(), []float32{1, 0}, 0, "")
	assert.ErrorIs(t, err, storage.ErrInvalidQuery)
}

func TestModelPin(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	model, err := repo.ModelPin(ctx)
	require.NoError(t, err)
	assert.Empty(t, model)

	require.NoError(t, repo.SetModelPin(ctx, "all-minilm"))

	model, err = repo.ModelPin(ctx)
	require.NoError(t, err)
	assert.Equal(t, "all-minilm", model)
}

func TestDeleteAll(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	docs := []*core.Document{
		makeDoc("first", "2024-01-01T00:00:00", "100", []float32{1, 0}),
		makeDoc("second", "2024-01-02T00:00:00", "200", []float32{0, 1}),
	}
	require.NoError(t, repo.PutDocuments(ctx, docs...))
	require.NoError(t, repo.SetModelPin(ctx, "all-minilm"))

	require.NoError(t, repo.DeleteAll(ctx))

	count, err := repo.CountDocuments(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	model, err := repo.ModelPin(ctx)
	require.NoError(t, err)
	assert.Empty(t, model)
}
