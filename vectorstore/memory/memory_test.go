package memory

import (
	"context"
	"testing"

	"github.com/poiesic/recall/core"
	"github.com/poiesic/recall/vectorstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func point(id string, text string, vector []float32) vectorstore.Point {
	return vectorstore.Point{
		ID:     id,
		Vector: vector,
		Payload: core.Chunk{
			Text:       text,
			Source:     "test",
			SourceType: core.SourceNote,
		},
	}
}

func TestUpsertAndSearch(t *testing.T) {
	ctx := context.Background()
	idx := NewIndex()
	require.NoError(t, idx.EnsureReady(ctx, 3))

	require.NoError(t, idx.Upsert(ctx, []vectorstore.Point{
		point("a", "alpha", []float32{1, 0, 0}),
		point("b", "beta", []float32{0, 1, 0}),
		point("c", "gamma", []float32{0.9, 0.1, 0}),
	}))
	assert.Equal(t, 3, idx.Len())

	hits, err := idx.Search(ctx, []float32{1, 0, 0}, 2)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "alpha", hits[0].Chunk.Text)
	assert.Equal(t, "gamma", hits[1].Chunk.Text)
	assert.Greater(t, hits[0].Score, hits[1].Score)
}

func TestUpsertOverwritesSameID(t *testing.T) {
	ctx := context.Background()
	idx := NewIndex()

	require.NoError(t, idx.Upsert(ctx, []vectorstore.Point{point("a", "old", []float32{1, 0})}))
	require.NoError(t, idx.Upsert(ctx, []vectorstore.Point{point("a", "new", []float32{1, 0})}))

	assert.Equal(t, 1, idx.Len())
	hits, err := idx.Search(ctx, []float32{1, 0}, 1)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "new", hits[0].Chunk.Text)
}

func TestSearchEmptyIndex(t *testing.T) {
	idx := NewIndex()
	hits, err := idx.Search(context.Background(), []float32{1, 0, 0}, 5)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, cosineSimilarity([]float32{1, 0}, []float32{1, 0}), 1e-6)
	assert.InDelta(t, 0.0, cosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-6)
	assert.Equal(t, float32(0), cosineSimilarity([]float32{1, 0}, []float32{1, 0, 0}))
	assert.Equal(t, float32(0), cosineSimilarity(nil, nil))
}
