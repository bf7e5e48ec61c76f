package loader

import (
	"context"
	"fmt"
	"os"

	"github.com/tmc/langchaingo/documentloaders"

	"github.com/lango-rag/ragchat/rag"
)

// PDFLoader loads a PDF file, one document per page. Parsing is done by
// langchaingo's PDF loader.
type PDFLoader struct {
	filePath string
	metadata map[string]any
}

// NewPDFLoader creates a new PDFLoader
func NewPDFLoader(filePath string, opts ...Option) *PDFLoader {
	metadata := map[string]any{
		"source": filePath,
		"type":   "pdf",
	}
	for _, opt := range opts {
		opt(metadata)
	}

	return &PDFLoader{
		filePath: filePath,
		metadata: metadata,
	}
}

// Load opens the file and extracts the text of every page. Pages carry the
// "page" and "total_pages" metadata set by the parser.
func (l *PDFLoader) Load(ctx context.Context) ([]rag.Document, error) {
	f, err := os.Open(l.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", l.filePath, err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file %s: %w", l.filePath, err)
	}

	pdf := documentloaders.NewPDF(f, stat.Size())
	docs, err := rag.NewLangChainDocumentLoader(pdf, l.metadata).Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to parse pdf %s: %w", l.filePath, err)
	}
	return docs, nil
}
