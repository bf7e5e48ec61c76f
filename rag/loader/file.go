package loader

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/lango-rag/ragchat/rag"
)

// ErrUnsupportedFormat is returned by NewFileLoader for unknown extensions.
var ErrUnsupportedFormat = errors.New("unsupported document format")

// NewFileLoader picks a loader from the file extension.
func NewFileLoader(filePath string, opts ...Option) (rag.DocumentLoader, error) {
	switch ext := strings.ToLower(filepath.Ext(filePath)); ext {
	case ".pdf":
		return NewPDFLoader(filePath, opts...), nil
	case ".txt", ".md", ".markdown":
		return NewTextLoader(filePath, opts...), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}
