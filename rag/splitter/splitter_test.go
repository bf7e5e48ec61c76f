package splitter

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lango-rag/ragchat/rag"
)

func TestNewRecursive(t *testing.T) {
	_, err := NewRecursive(0, 0)
	assert.Error(t, err)

	_, err = NewRecursive(300, 300)
	assert.Error(t, err)

	_, err = NewRecursive(300, -1)
	assert.Error(t, err)

	s, err := NewRecursive(300, 30)
	require.NoError(t, err)
	assert.NotNil(t, s)
}

func TestRecursiveSplitter(t *testing.T) {
	t.Run("Split on words", func(t *testing.T) {
		s, err := NewRecursive(11, 0)
		require.NoError(t, err)

		chunks, err := s.SplitText("alpha beta gamma delta")
		require.NoError(t, err)
		assert.Equal(t, []string{"alpha beta", "gamma delta"}, chunks)
	})

	t.Run("Split documents", func(t *testing.T) {
		s, err := NewRecursive(40, 5)
		require.NoError(t, err)

		doc := rag.Document{
			ID:       "rag.pdf#0",
			Content:  strings.Repeat("Les embeddings représentent le texte. ", 6),
			Metadata: map[string]any{"source": "rag.pdf", "page": 1},
		}
		segments, err := s.SplitDocuments([]rag.Document{doc})
		require.NoError(t, err)
		require.Greater(t, len(segments), 1)

		for i, seg := range segments {
			assert.LessOrEqual(t, utf8.RuneCountInString(seg.Content), 40)
			assert.Equal(t, "rag.pdf", seg.Metadata["source"])
			assert.Equal(t, 1, seg.Metadata["page"])
			assert.Equal(t, i, seg.Metadata["chunk_index"])
			assert.Equal(t, len(segments), seg.Metadata["chunk_total"])
			assert.Equal(t, "rag.pdf#0", seg.Metadata["parent_id"])

			_, err := uuid.Parse(seg.ID)
			assert.NoError(t, err)
		}

		// parent metadata is copied, not shared
		segments[0].Metadata["source"] = "changed"
		assert.Equal(t, "rag.pdf", doc.Metadata["source"])
	})

	t.Run("Documents split like text", func(t *testing.T) {
		s, err := NewRecursive(30, 5)
		require.NoError(t, err)

		text := "Le RAG combine une recherche documentaire et une génération de texte par un modèle."
		chunks, err := s.SplitText(text)
		require.NoError(t, err)

		segments, err := s.SplitDocuments([]rag.Document{{ID: "d", Content: text}})
		require.NoError(t, err)
		require.Len(t, segments, len(chunks))
		for i, seg := range segments {
			assert.Equal(t, chunks[i], seg.Content)
		}
	})

	t.Run("Blank documents yield no segments", func(t *testing.T) {
		s, err := NewRecursive(300, 30)
		require.NoError(t, err)

		segments, err := s.SplitDocuments([]rag.Document{
			{ID: "empty", Content: ""},
			{ID: "blank", Content: " \n\n \t "},
		})
		require.NoError(t, err)
		assert.Empty(t, segments)
	})
}
