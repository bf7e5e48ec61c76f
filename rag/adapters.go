package rag

import (
	"context"
	"fmt"
	"maps"
	"time"

	"github.com/tmc/langchaingo/documentloaders"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/schema"
	"github.com/tmc/langchaingo/textsplitter"
)

// LangChainDocumentLoader adapts langchaingo's documentloaders.Loader to DocumentLoader
type LangChainDocumentLoader struct {
	loader   documentloaders.Loader
	metadata map[string]any
}

// NewLangChainDocumentLoader creates a new adapter for langchaingo document loaders.
// The given metadata is merged into every loaded document.
func NewLangChainDocumentLoader(loader documentloaders.Loader, metadata map[string]any) *LangChainDocumentLoader {
	return &LangChainDocumentLoader{
		loader:   loader,
		metadata: metadata,
	}
}

// Load loads documents using the underlying langchaingo loader
func (l *LangChainDocumentLoader) Load(ctx context.Context) ([]Document, error) {
	schemaDocs, err := l.loader.Load(ctx)
	if err != nil {
		return nil, err
	}

	docs := FromSchemaDocuments(schemaDocs)
	for i := range docs {
		maps.Copy(docs[i].Metadata, l.metadata)
	}
	return docs, nil
}

// FromSchemaDocuments converts langchaingo schema documents to Documents
func FromSchemaDocuments(schemaDocs []schema.Document) []Document {
	now := time.Now()
	docs := make([]Document, len(schemaDocs))
	for i, schemaDoc := range schemaDocs {
		metadata := make(map[string]any, len(schemaDoc.Metadata))
		maps.Copy(metadata, schemaDoc.Metadata)

		docs[i] = Document{
			Content:   schemaDoc.PageContent,
			Metadata:  metadata,
			CreatedAt: now,
		}

		if source, ok := schemaDoc.Metadata["source"]; ok {
			docs[i].ID = fmt.Sprintf("%v#%d", source, i)
		} else {
			docs[i].ID = fmt.Sprintf("doc_%d", i)
		}
	}
	return docs
}

// ToSchemaDocuments converts Documents to langchaingo schema documents
func ToSchemaDocuments(docs []Document) []schema.Document {
	schemaDocs := make([]schema.Document, len(docs))
	for i, doc := range docs {
		metadata := make(map[string]any, len(doc.Metadata))
		maps.Copy(metadata, doc.Metadata)
		schemaDocs[i] = schema.Document{
			PageContent: doc.Content,
			Metadata:    metadata,
		}
	}
	return schemaDocs
}

// LangChainTextSplitter adapts langchaingo's textsplitter.TextSplitter to TextSplitter
type LangChainTextSplitter struct {
	splitter textsplitter.TextSplitter
}

// NewLangChainTextSplitter creates a new adapter for langchaingo text splitters
func NewLangChainTextSplitter(splitter textsplitter.TextSplitter) *LangChainTextSplitter {
	return &LangChainTextSplitter{
		splitter: splitter,
	}
}

// SplitDocuments splits documents with the wrapped splitter, keeping metadata
func (l *LangChainTextSplitter) SplitDocuments(docs []Document) ([]Document, error) {
	split, err := textsplitter.SplitDocuments(l.splitter, ToSchemaDocuments(docs))
	if err != nil {
		return nil, fmt.Errorf("failed to split documents: %w", err)
	}
	return FromSchemaDocuments(split), nil
}

// LangChainEmbedder adapts langchaingo's embeddings.Embedder to Embedder
type LangChainEmbedder struct {
	embedder embeddings.Embedder
}

// NewLangChainEmbedder creates a new adapter for langchaingo embedders
func NewLangChainEmbedder(embedder embeddings.Embedder) *LangChainEmbedder {
	return &LangChainEmbedder{
		embedder: embedder,
	}
}

// EmbedDocument embeds a single text as a query vector
func (l *LangChainEmbedder) EmbedDocument(ctx context.Context, text string) ([]float32, error) {
	return l.embedder.EmbedQuery(ctx, text)
}

// EmbedDocuments embeds multiple texts in one call
func (l *LangChainEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	return l.embedder.EmbedDocuments(ctx, texts)
}
