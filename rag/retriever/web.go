package retriever

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lango-rag/ragchat/rag"
)

// WebSearchResult is a single hit returned by a web search engine
type WebSearchResult struct {
	Title   string
	URL     string
	Snippet string
}

// WebSearchEngine runs a web search and returns at most n results
type WebSearchEngine interface {
	Search(ctx context.Context, query string, n int) ([]WebSearchResult, error)
}

// WebSearchRetriever turns web search results into documents
type WebSearchRetriever struct {
	engine     WebSearchEngine
	maxResults int
}

// NewWebSearchRetriever creates a new WebSearchRetriever
func NewWebSearchRetriever(engine WebSearchEngine, maxResults int) *WebSearchRetriever {
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	return &WebSearchRetriever{
		engine:     engine,
		maxResults: maxResults,
	}
}

// Name returns the retriever name
func (r *WebSearchRetriever) Name() string {
	return "web"
}

// Retrieve searches the web for query. Each result becomes a document whose
// content is the title followed by the snippet.
func (r *WebSearchRetriever) Retrieve(ctx context.Context, query string) ([]rag.Document, error) {
	results, err := r.engine.Search(ctx, query, r.maxResults)
	if err != nil {
		return nil, fmt.Errorf("web search failed: %w", err)
	}

	now := time.Now()
	docs := make([]rag.Document, 0, len(results))
	for _, res := range results {
		content := strings.TrimSpace(strings.Join([]string{res.Title, res.Snippet}, "\n"))
		if content == "" {
			continue
		}
		docs = append(docs, rag.Document{
			ID:      res.URL,
			Content: content,
			Metadata: map[string]any{
				"source": res.URL,
				"title":  res.Title,
				"type":   "web",
			},
			CreatedAt: now,
		})
		if len(docs) == r.maxResults {
			break
		}
	}
	return docs, nil
}
