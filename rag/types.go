package rag

import (
	"context"
	"time"
)

// Document is a unit of text flowing through the pipeline: a loaded page, a
// split segment, or a piece of content returned by a retriever.
type Document struct {
	ID        string         `json:"id"`
	Content   string         `json:"content"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	Embedding []float32      `json:"embedding,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// Source returns the "source" metadata value, or "" when absent.
func (d Document) Source() string {
	if s, ok := d.Metadata["source"].(string); ok {
		return s
	}
	return ""
}

// DocumentSearchResult is a document paired with its similarity score.
type DocumentSearchResult struct {
	Document Document `json:"document"`
	Score    float64  `json:"score"`
}

// DocumentLoader loads documents from a source
type DocumentLoader interface {
	Load(ctx context.Context) ([]Document, error)
}

// TextSplitter splits documents into segments
type TextSplitter interface {
	SplitDocuments(docs []Document) ([]Document, error)
}

// Embedder turns text into vectors
type Embedder interface {
	EmbedDocument(ctx context.Context, text string) ([]float32, error)
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
}

// VectorStore stores segment embeddings and answers nearest-neighbour queries
type VectorStore interface {
	AddAll(ctx context.Context, embeddings [][]float32, docs []Document) error
	Search(ctx context.Context, query []float32, k int) ([]DocumentSearchResult, error)
	Len() int
}

// Retriever returns the documents relevant to a query. The name is used by
// routers and in logs.
type Retriever interface {
	Name() string
	Retrieve(ctx context.Context, query string) ([]Document, error)
}
