package loader

import (
	"context"
	"fmt"
	"maps"
	"os"
	"time"

	"github.com/lango-rag/ragchat/rag"
)

// TextLoader loads a plain text or markdown file as a single document
type TextLoader struct {
	filePath string
	metadata map[string]any
}

// Option configures the loaders of this package
type Option func(metadata map[string]any)

// WithMetadata sets additional metadata for loaded documents
func WithMetadata(metadata map[string]any) Option {
	return func(m map[string]any) {
		maps.Copy(m, metadata)
	}
}

// NewTextLoader creates a new TextLoader
func NewTextLoader(filePath string, opts ...Option) *TextLoader {
	metadata := map[string]any{
		"source": filePath,
		"type":   "text",
	}
	for _, opt := range opts {
		opt(metadata)
	}

	return &TextLoader{
		filePath: filePath,
		metadata: metadata,
	}
}

// Load reads the whole file into one document
func (l *TextLoader) Load(ctx context.Context) ([]rag.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	content, err := os.ReadFile(l.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", l.filePath, err)
	}

	metadata := make(map[string]any, len(l.metadata))
	maps.Copy(metadata, l.metadata)

	return []rag.Document{{
		ID:        fmt.Sprintf("text_%s", l.filePath),
		Content:   string(content),
		Metadata:  metadata,
		CreatedAt: time.Now(),
	}}, nil
}
