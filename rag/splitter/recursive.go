package splitter

import (
	"fmt"
	"maps"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tmc/langchaingo/textsplitter"

	"github.com/lango-rag/ragchat/rag"
)

// RecursiveSplitter splits documents into segments of at most chunkSize
// characters, overlapping by chunkOverlap. The splitting itself is done by
// langchaingo's RecursiveCharacter splitter, through rag.LangChainTextSplitter,
// trying paragraph, line, word and character boundaries in that order.
type RecursiveSplitter struct {
	splitter textsplitter.RecursiveCharacter
	chunker  *rag.LangChainTextSplitter
	size     int
	overlap  int
}

// NewRecursive creates a RecursiveSplitter
func NewRecursive(chunkSize, chunkOverlap int) (*RecursiveSplitter, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", chunkSize)
	}
	if chunkOverlap < 0 || chunkOverlap >= chunkSize {
		return nil, fmt.Errorf("chunk overlap must be in [0, %d), got %d", chunkSize, chunkOverlap)
	}

	rc := textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(chunkSize),
		textsplitter.WithChunkOverlap(chunkOverlap),
	)
	return &RecursiveSplitter{
		splitter: rc,
		chunker:  rag.NewLangChainTextSplitter(rc),
		size:     chunkSize,
		overlap:  chunkOverlap,
	}, nil
}

// SplitText splits a single text into chunks
func (s *RecursiveSplitter) SplitText(text string) ([]string, error) {
	return s.splitter.SplitText(text)
}

// SplitDocuments splits every document and returns the non-blank segments.
// Each segment inherits the metadata of its parent plus chunk_index,
// chunk_total and parent_id.
func (s *RecursiveSplitter) SplitDocuments(docs []rag.Document) ([]rag.Document, error) {
	segments := make([]rag.Document, 0, len(docs))
	now := time.Now()

	for _, doc := range docs {
		chunks, err := s.chunker.SplitDocuments([]rag.Document{doc})
		if err != nil {
			return nil, fmt.Errorf("document %s: %w", doc.ID, err)
		}

		kept := make([]string, 0, len(chunks))
		for _, chunk := range chunks {
			if strings.TrimSpace(chunk.Content) != "" {
				kept = append(kept, chunk.Content)
			}
		}

		for i, chunk := range kept {
			metadata := make(map[string]any, len(doc.Metadata)+3)
			maps.Copy(metadata, doc.Metadata)
			metadata["chunk_index"] = i
			metadata["chunk_total"] = len(kept)
			metadata["parent_id"] = doc.ID

			segments = append(segments, rag.Document{
				ID:        uuid.NewString(),
				Content:   chunk,
				Metadata:  metadata,
				CreatedAt: now,
			})
		}
	}

	return segments, nil
}
