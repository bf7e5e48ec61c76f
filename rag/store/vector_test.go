package store

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lango-rag/ragchat/rag"
)

func TestInMemoryVectorStore(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryVectorStore()
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, 0, s.Dimension())

	res, err := s.Search(ctx, []float32{1, 0}, 3)
	require.NoError(t, err)
	assert.Empty(t, res)

	docs := []rag.Document{
		{ID: "x", Content: "along x"},
		{ID: "y", Content: "along y"},
		{ID: "xy", Content: "diagonal"},
		{ID: "negx", Content: "opposite"},
	}
	embs := [][]float32{{1, 0}, {0, 1}, {1, 1}, {-1, 0}}
	require.NoError(t, s.AddAll(ctx, embs, docs))
	assert.Equal(t, 4, s.Len())
	assert.Equal(t, 2, s.Dimension())

	t.Run("Ordered by relevance", func(t *testing.T) {
		res, err := s.Search(ctx, []float32{1, 0}, 10)
		require.NoError(t, err)
		require.Len(t, res, 4)
		assert.Equal(t, "x", res[0].Document.ID)
		assert.InDelta(t, 1.0, res[0].Score, 1e-9)
		assert.Equal(t, "xy", res[1].Document.ID)
		assert.InDelta(t, 0.8536, res[1].Score, 1e-4)
		assert.Equal(t, "y", res[2].Document.ID)
		assert.InDelta(t, 0.5, res[2].Score, 1e-9)
		assert.Equal(t, "negx", res[3].Document.ID)
		assert.InDelta(t, 0.0, res[3].Score, 1e-9)
		assert.Equal(t, []float32{1, 0}, res[0].Document.Embedding)
	})

	t.Run("Top k", func(t *testing.T) {
		res, err := s.Search(ctx, []float32{0, 2}, 1)
		require.NoError(t, err)
		require.Len(t, res, 1)
		assert.Equal(t, "y", res[0].Document.ID)
	})

	t.Run("Ties keep insertion order", func(t *testing.T) {
		ts := NewInMemoryVectorStore()
		require.NoError(t, ts.AddAll(ctx,
			[][]float32{{1, 0}, {2, 0}, {3, 0}},
			[]rag.Document{{ID: "a"}, {ID: "b"}, {ID: "c"}},
		))
		res, err := ts.Search(ctx, []float32{1, 0}, 3)
		require.NoError(t, err)
		assert.Equal(t, "a", res[0].Document.ID)
		assert.Equal(t, "b", res[1].Document.ID)
		assert.Equal(t, "c", res[2].Document.ID)
	})

	t.Run("Invalid input", func(t *testing.T) {
		_, err := s.Search(ctx, []float32{1, 0}, 0)
		assert.Error(t, err)

		err = s.AddAll(ctx, [][]float32{{1, 0}}, nil)
		assert.Error(t, err)

		// a query of the wrong dimension has cosine zero everywhere
		res, err := s.Search(ctx, []float32{1, 0, 0}, 1)
		require.NoError(t, err)
		assert.Equal(t, 0.5, res[0].Score)
	})
}

func TestRelevanceScore(t *testing.T) {
	assert.InDelta(t, 0.0, RelevanceScore(-1), 1e-9)
	assert.InDelta(t, 0.5, RelevanceScore(0), 1e-9)
	assert.InDelta(t, 0.65, RelevanceScore(0.3), 1e-9)
	assert.InDelta(t, 1.0, RelevanceScore(1), 1e-9)
}

func TestInMemoryVectorStore_Concurrent(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryVectorStore()
	e := NewMockEmbedder(16)

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			text := fmt.Sprintf("segment %d", i)
			emb, _ := e.EmbedDocument(ctx, text)
			_ = s.AddAll(ctx, [][]float32{emb}, []rag.Document{{ID: text, Content: text}})
			_, _ = s.Search(ctx, emb, 2)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 8, s.Len())
}
