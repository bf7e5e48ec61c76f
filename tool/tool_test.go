package tool

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lango-rag/ragchat/rag/retriever"
)

var (
	_ retriever.WebSearchEngine = (*TavilySearch)(nil)
	_ retriever.WebSearchEngine = (*BraveSearch)(nil)
)

func TestTavilySearch(t *testing.T) {
	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer tvly-test", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results":[
			{"title":"Le RAG expliqué","url":"https://example.com/rag","content":"Le <b>RAG</b> combine  recherche &amp; génération.","score":0.9},
			{"title":"Fine-tuning","url":"https://example.com/ft","content":"Adapter les poids","score":0.8}
		]}`))
	}))
	defer server.Close()

	search, err := NewTavilySearch("tvly-test", WithTavilyBaseURL(server.URL), WithTavilyMaxResults(5))
	require.NoError(t, err)

	results, err := search.Search(context.Background(), "c'est quoi le RAG", 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "Le RAG expliqué", results[0].Title)
	assert.Equal(t, "https://example.com/rag", results[0].URL)
	assert.Equal(t, "Le RAG combine recherche & génération.", results[0].Snippet)

	assert.Equal(t, "c'est quoi le RAG", got["query"])
	assert.Equal(t, float64(2), got["max_results"])
	assert.Equal(t, "basic", got["search_depth"])
	assert.Equal(t, "tvly-test", got["api_key"])

	// n <= 0 falls back to the configured maximum
	results, err = search.Search(context.Background(), "c'est quoi le RAG", 0)
	require.NoError(t, err)
	assert.Len(t, results, 2)
	assert.Equal(t, float64(5), got["max_results"])
}

func TestTavilySearch_Errors(t *testing.T) {
	t.Setenv("TAVILY_API_KEY", "")
	_, err := NewTavilySearch("")
	assert.ErrorContains(t, err, "TAVILY_API_KEY not set")

	t.Setenv("TAVILY_API_KEY", "tvly-env")
	search, err := NewTavilySearch("")
	require.NoError(t, err)
	assert.Equal(t, "tvly-env", search.APIKey)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":{"error":"Unauthorized: missing or invalid API key."}}`))
	}))
	defer server.Close()

	search, err = NewTavilySearch("bad", WithTavilyBaseURL(server.URL))
	require.NoError(t, err)
	_, err = search.Search(context.Background(), "q", 3)
	assert.ErrorContains(t, err, "status 401")
	assert.ErrorContains(t, err, "invalid API key")
}

func TestBraveSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "brave-test", r.Header.Get("X-Subscription-Token"))
		assert.Equal(t, "monuments de Paris", r.URL.Query().Get("q"))
		assert.Equal(t, "2", r.URL.Query().Get("count"))
		assert.Equal(t, "fr", r.URL.Query().Get("search_lang"))

		w.Write([]byte(`{"web":{"results":[
			{"title":"Tour Eiffel","url":"https://example.com/eiffel","description":"La <strong>tour</strong> Eiffel"},
			{"title":"Louvre","url":"https://example.com/louvre","description":"Musée"},
			{"title":"Extra","url":"https://example.com/extra","description":"ignored"}
		]}}`))
	}))
	defer server.Close()

	search, err := NewBraveSearch("brave-test", WithBraveBaseURL(server.URL))
	require.NoError(t, err)

	results, err := search.Search(context.Background(), "monuments de Paris", 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "La tour Eiffel", results[0].Snippet)
	assert.Equal(t, "Louvre", results[1].Title)
}

func TestBraveSearch_Errors(t *testing.T) {
	t.Setenv("BRAVE_API_KEY", "")
	_, err := NewBraveSearch("")
	assert.Error(t, err)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	search, err := NewBraveSearch("key", WithBraveBaseURL(server.URL), WithBraveCount(50))
	require.NoError(t, err)
	assert.Equal(t, 20, search.Count)

	_, err = search.Search(context.Background(), "q", 0)
	assert.ErrorContains(t, err, "status: 429")
}
