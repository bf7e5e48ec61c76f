package retriever

import (
	"context"
	"fmt"

	"github.com/lango-rag/ragchat/log"
	"github.com/lango-rag/ragchat/rag"
)

const (
	// DefaultMaxResults is the number of segments returned when unset
	DefaultMaxResults = 3
	// DefaultMinScore is the relevance score below which segments are dropped.
	// Stores score in [0, 1], where 0.5 is an orthogonal match.
	DefaultMinScore = 0.5
)

// VectorRetriever embeds the query and returns the closest segments of a
// vector store whose score reaches minScore.
type VectorRetriever struct {
	name        string
	vectorStore rag.VectorStore
	embedder    rag.Embedder
	maxResults  int
	minScore    float64
}

// VectorOption configures a VectorRetriever
type VectorOption func(*VectorRetriever)

// WithMaxResults sets how many segments are requested from the store
func WithMaxResults(n int) VectorOption {
	return func(r *VectorRetriever) {
		r.maxResults = n
	}
}

// WithMinScore sets the minimum relevance score, in [0, 1]
func WithMinScore(score float64) VectorOption {
	return func(r *VectorRetriever) {
		r.minScore = score
	}
}

// WithName sets the name reported by Name
func WithName(name string) VectorOption {
	return func(r *VectorRetriever) {
		r.name = name
	}
}

// NewVectorRetriever creates a new vector retriever
func NewVectorRetriever(vectorStore rag.VectorStore, embedder rag.Embedder, opts ...VectorOption) *VectorRetriever {
	r := &VectorRetriever{
		name:        "vector",
		vectorStore: vectorStore,
		embedder:    embedder,
		maxResults:  DefaultMaxResults,
		minScore:    DefaultMinScore,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.maxResults <= 0 {
		r.maxResults = DefaultMaxResults
	}
	return r
}

// Name returns the retriever name
func (r *VectorRetriever) Name() string {
	return r.name
}

// Retrieve retrieves documents based on a query
func (r *VectorRetriever) Retrieve(ctx context.Context, query string) ([]rag.Document, error) {
	results, err := r.RetrieveWithScores(ctx, query)
	if err != nil {
		return nil, err
	}

	docs := make([]rag.Document, len(results))
	for i, result := range results {
		docs[i] = result.Document
	}
	return docs, nil
}

// RetrieveWithScores is Retrieve keeping the similarity scores
func (r *VectorRetriever) RetrieveWithScores(ctx context.Context, query string) ([]rag.DocumentSearchResult, error) {
	queryEmbedding, err := r.embedder.EmbedDocument(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	results, err := r.vectorStore.Search(ctx, queryEmbedding, r.maxResults)
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}

	filtered := make([]rag.DocumentSearchResult, 0, len(results))
	for _, result := range results {
		if result.Score >= r.minScore {
			filtered = append(filtered, result)
		}
	}
	log.Debug("retriever %s: %d/%d segments above %.2f", r.name, len(filtered), len(results), r.minScore)

	return filtered, nil
}
