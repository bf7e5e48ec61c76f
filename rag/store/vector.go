package store

import (
	"context"
	"fmt"
	"math"
	"slices"
	"sync"

	"github.com/lango-rag/ragchat/rag"
)

// InMemoryVectorStore keeps segments and their embeddings in memory and answers
// queries with a linear cosine-similarity scan. It is safe for concurrent use.
//
// Scores are relevance scores in [0, 1]: (cosine + 1) / 2. A cosine of 0
// scores 0.5.
type InMemoryVectorStore struct {
	mu         sync.RWMutex
	documents  []rag.Document
	embeddings [][]float32
}

// NewInMemoryVectorStore creates a new InMemoryVectorStore
func NewInMemoryVectorStore() *InMemoryVectorStore {
	return &InMemoryVectorStore{
		documents:  make([]rag.Document, 0),
		embeddings: make([][]float32, 0),
	}
}

// AddAll adds documents with explicit embeddings, pairing them by index
func (s *InMemoryVectorStore) AddAll(ctx context.Context, embeddings [][]float32, documents []rag.Document) error {
	if len(documents) != len(embeddings) {
		return fmt.Errorf("documents and embeddings must have same length: %d != %d", len(documents), len(embeddings))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range documents {
		doc := documents[i]
		doc.Embedding = embeddings[i]
		s.documents = append(s.documents, doc)
		s.embeddings = append(s.embeddings, embeddings[i])
	}
	return nil
}

// Search returns the k documents most similar to queryEmbedding, best first,
// scored with RelevanceScore. Ties keep insertion order.
func (s *InMemoryVectorStore) Search(ctx context.Context, queryEmbedding []float32, k int) ([]rag.DocumentSearchResult, error) {
	if k <= 0 {
		return nil, fmt.Errorf("k must be positive")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.documents) == 0 {
		return []rag.DocumentSearchResult{}, nil
	}

	type docScore struct {
		index int
		score float64
	}

	scores := make([]docScore, len(s.documents))
	for i, docEmb := range s.embeddings {
		scores[i] = docScore{index: i, score: RelevanceScore(cosineSimilarity32(queryEmbedding, docEmb))}
	}

	slices.SortStableFunc(scores, func(a, b docScore) int {
		switch {
		case a.score > b.score:
			return -1
		case a.score < b.score:
			return 1
		default:
			return 0
		}
	})

	k = min(k, len(scores))
	results := make([]rag.DocumentSearchResult, k)
	for i := range k {
		results[i] = rag.DocumentSearchResult{
			Document: s.documents[scores[i].index],
			Score:    scores[i].score,
		}
	}

	return results, nil
}

// Len returns the number of stored segments
func (s *InMemoryVectorStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.documents)
}

// Dimension returns the dimension of the first stored embedding, or 0 when empty
func (s *InMemoryVectorStore) Dimension() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.embeddings) == 0 {
		return 0
	}
	return len(s.embeddings[0])
}

// RelevanceScore maps a cosine similarity in [-1, 1] to [0, 1]
func RelevanceScore(cosine float64) float64 {
	return (cosine + 1) / 2
}

// cosineSimilarity32 returns 0 for vectors of different length or zero norm
func cosineSimilarity32(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dotProduct float64
	var normA float64
	var normB float64

	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}
