package tool

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/lango-rag/ragchat/rag/retriever"
)

// TavilySearch searches the web with the Tavily Search API.
type TavilySearch struct {
	APIKey      string
	BaseURL     string
	MaxResults  int
	SearchDepth string
	Client      *http.Client
}

type TavilyOption func(*TavilySearch)

// WithTavilyBaseURL sets the endpoint of the Tavily Search API.
func WithTavilyBaseURL(baseURL string) TavilyOption {
	return func(t *TavilySearch) {
		t.BaseURL = baseURL
	}
}

// WithTavilyMaxResults sets the default number of results (1-20).
func WithTavilyMaxResults(n int) TavilyOption {
	return func(t *TavilySearch) {
		t.MaxResults = min(max(n, 1), 20)
	}
}

// WithTavilySearchDepth sets the search depth, "basic" or "advanced".
func WithTavilySearchDepth(depth string) TavilyOption {
	return func(t *TavilySearch) {
		t.SearchDepth = depth
	}
}

// WithTavilyHTTPClient sets the HTTP client used for requests.
func WithTavilyHTTPClient(client *http.Client) TavilyOption {
	return func(t *TavilySearch) {
		t.Client = client
	}
}

// NewTavilySearch creates a new TavilySearch tool.
// If apiKey is empty, it tries to read from TAVILY_API_KEY environment variable.
func NewTavilySearch(apiKey string, opts ...TavilyOption) (*TavilySearch, error) {
	if apiKey == "" {
		apiKey = os.Getenv("TAVILY_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("TAVILY_API_KEY not set")
	}

	t := &TavilySearch{
		APIKey:      apiKey,
		BaseURL:     "https://api.tavily.com/search",
		MaxResults:  3,
		SearchDepth: "basic",
		Client:      http.DefaultClient,
	}

	for _, opt := range opts {
		opt(t)
	}

	return t, nil
}

type tavilyRequest struct {
	APIKey      string `json:"api_key"`
	Query       string `json:"query"`
	SearchDepth string `json:"search_depth"`
	MaxResults  int    `json:"max_results"`
}

type tavilyResponse struct {
	Results []struct {
		Title   string  `json:"title"`
		URL     string  `json:"url"`
		Content string  `json:"content"`
		Score   float64 `json:"score"`
	} `json:"results"`
}

// Search runs a query and returns at most n results.
func (t *TavilySearch) Search(ctx context.Context, query string, n int) ([]retriever.WebSearchResult, error) {
	if n <= 0 {
		n = t.MaxResults
	}

	body, err := json.Marshal(tavilyRequest{
		APIKey:      t.APIKey,
		Query:       query,
		SearchDepth: t.SearchDepth,
		MaxResults:  n,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.BaseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+t.APIKey)

	resp, err := t.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("tavily api returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var result tavilyResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	out := make([]retriever.WebSearchResult, 0, len(result.Results))
	for _, r := range result.Results {
		out = append(out, retriever.WebSearchResult{
			Title:   cleanSnippet(r.Title),
			URL:     r.URL,
			Snippet: cleanSnippet(r.Content),
		})
	}
	if len(out) > n {
		out = out[:n]
	}
	return out, nil
}
