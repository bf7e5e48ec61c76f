package rag

import (
	"context"
	"errors"
	"fmt"

	"github.com/lango-rag/ragchat/log"
)

// ErrEmptyDocument is returned when a loader yields no text to index.
var ErrEmptyDocument = errors.New("document has no text content")

// IndexResult summarises one indexing run.
type IndexResult struct {
	Segments   []Document
	Embeddings [][]float32
}

// Indexer runs load, split, embed and store for a single source.
type Indexer struct {
	splitter TextSplitter
	embedder Embedder
	store    VectorStore
}

// NewIndexer creates an Indexer writing into store.
func NewIndexer(splitter TextSplitter, embedder Embedder, store VectorStore) *Indexer {
	return &Indexer{
		splitter: splitter,
		embedder: embedder,
		store:    store,
	}
}

// Index loads the documents produced by loader and adds their segments to the store.
func (ix *Indexer) Index(ctx context.Context, loader DocumentLoader) (*IndexResult, error) {
	docs, err := loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load document: %w", err)
	}

	segments, err := ix.splitter.SplitDocuments(docs)
	if err != nil {
		return nil, err
	}
	if len(segments) == 0 {
		return nil, ErrEmptyDocument
	}
	log.Debug("split %d page(s) into %d segments", len(docs), len(segments))

	texts := make([]string, len(segments))
	for i, seg := range segments {
		texts[i] = seg.Content
	}

	vectors, err := ix.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("failed to embed segments: %w", err)
	}
	if len(vectors) != len(segments) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d segments", len(vectors), len(segments))
	}

	if err := ix.store.AddAll(ctx, vectors, segments); err != nil {
		return nil, fmt.Errorf("failed to store embeddings: %w", err)
	}

	return &IndexResult{
		Segments:   segments,
		Embeddings: vectors,
	}, nil
}
