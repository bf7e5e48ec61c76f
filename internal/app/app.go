package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/kataras/golog"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/lango-rag/ragchat/config"
	"github.com/lango-rag/ragchat/graph"
	"github.com/lango-rag/ragchat/log"
	"github.com/lango-rag/ragchat/memory"
	"github.com/lango-rag/ragchat/rag"
	"github.com/lango-rag/ragchat/rag/loader"
	"github.com/lango-rag/ragchat/rag/retriever"
	"github.com/lango-rag/ragchat/rag/splitter"
	"github.com/lango-rag/ragchat/rag/store"
	"github.com/lango-rag/ragchat/store/postgres"
	"github.com/lango-rag/ragchat/store/redis"
	"github.com/lango-rag/ragchat/store/sqlite"
	"github.com/lango-rag/ragchat/tool"
)

// SetupLogger installs a golog-backed logger writing to w at the given level
func SetupLogger(w io.Writer, level string) error {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return err
	}

	g := golog.New()
	g.SetOutput(w)
	logger := log.NewGologLogger(g)
	logger.SetLevel(lvl)
	log.SetDefaultLogger(logger)
	return nil
}

// NewChatModel connects to Gemini. The API key must be set.
func NewChatModel(ctx context.Context, cfg config.GeminiConfig) (llms.Model, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: GEMINI_API_KEY", config.ErrMissingCredential)
	}

	model, err := googleai.New(ctx,
		googleai.WithAPIKey(cfg.APIKey),
		googleai.WithDefaultModel(cfg.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return model, nil
}

// NewEmbedder creates the embedding model selected by cfg.Provider
func NewEmbedder(cfg config.EmbeddingConfig) (rag.Embedder, error) {
	var client embeddings.EmbedderClient

	switch strings.ToLower(cfg.Provider) {
	case "", "ollama":
		model := cfg.Model
		if model == "" {
			model = config.DefaultOllamaModel
		}
		opts := []ollama.Option{ollama.WithModel(model)}
		if cfg.ServerURL != "" {
			opts = append(opts, ollama.WithServerURL(cfg.ServerURL))
		}
		llm, err := ollama.New(opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create ollama client: %w", err)
		}
		client = llm
	case "openai":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("%w: OPENAI_API_KEY", config.ErrMissingCredential)
		}
		opts := []openai.Option{openai.WithToken(cfg.APIKey)}
		if cfg.Model != "" {
			opts = append(opts, openai.WithEmbeddingModel(cfg.Model))
		}
		if cfg.ServerURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.ServerURL))
		}
		llm, err := openai.New(opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create openai client: %w", err)
		}
		client = llm
	case "mock":
		return store.NewMockEmbedder(384), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider: %q", cfg.Provider)
	}

	embedder, err := embeddings.NewEmbedder(client)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder: %w", err)
	}
	return rag.NewLangChainEmbedder(embedder), nil
}

// NewWebSearch creates the web search engine selected by cfg.Web.Provider
func NewWebSearch(cfg *config.Config) (retriever.WebSearchEngine, error) {
	if err := cfg.RequireWebSearch(); err != nil {
		return nil, err
	}

	switch strings.ToLower(cfg.Web.Provider) {
	case "", "tavily":
		opts := []tool.TavilyOption{
			tool.WithTavilyMaxResults(cfg.Tavily.MaxResults),
			tool.WithTavilySearchDepth(cfg.Tavily.SearchDepth),
		}
		if cfg.Tavily.BaseURL != "" {
			opts = append(opts, tool.WithTavilyBaseURL(cfg.Tavily.BaseURL))
		}
		return tool.NewTavilySearch(cfg.Tavily.APIKey, opts...)
	case "brave":
		return tool.NewBraveSearch(cfg.Brave.APIKey, tool.WithBraveCount(cfg.Tavily.MaxResults))
	default:
		return nil, fmt.Errorf("unknown web search provider: %q", cfg.Web.Provider)
	}
}

// NewMemoryStore opens the chat memory backend. The returned function
// releases it.
func NewMemoryStore(ctx context.Context, cfg config.MemoryConfig) (memory.Store, func(), error) {
	switch strings.ToLower(cfg.Backend) {
	case "", "memory":
		return memory.NewInMemoryStore(), func() {}, nil
	case "redis":
		s := redis.NewRedisMemoryStore(redis.RedisOptions{
			Addr: cfg.RedisAddr,
			TTL:  cfg.RedisTTL,
		})
		if err := s.Ping(ctx); err != nil {
			s.Close()
			return nil, nil, fmt.Errorf("failed to reach redis at %s: %w", cfg.RedisAddr, err)
		}
		return s, func() { s.Close() }, nil
	case "sqlite":
		s, err := sqlite.NewSqliteMemoryStore(sqlite.SqliteOptions{Path: cfg.SqlitePath})
		if err != nil {
			return nil, nil, err
		}
		return s, func() { s.Close() }, nil
	case "postgres":
		s, err := postgres.NewPostgresMemoryStore(ctx, postgres.PostgresOptions{ConnString: cfg.PostgresDSN})
		if err != nil {
			return nil, nil, err
		}
		if err := s.InitSchema(ctx); err != nil {
			s.Close()
			return nil, nil, err
		}
		return s, s.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown memory backend: %q", cfg.Backend)
	}
}

// NewWindowMemory opens the configured backend and wraps it in a window memory
func NewWindowMemory(ctx context.Context, cfg config.MemoryConfig) (*memory.WindowMemory, func(), error) {
	st, closeFn, err := NewMemoryStore(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	mem, err := memory.NewWindowMemory(cfg.MaxMessages, st, cfg.SessionID)
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	return mem, closeFn, nil
}

// RetryPolicy converts the retry settings, nil when retries are off
func RetryPolicy(cfg config.RetryConfig) *graph.RetryPolicy {
	if cfg.MaxRetries <= 0 {
		return nil
	}

	backoff := graph.ExponentialBackoff
	switch strings.ToLower(cfg.Backoff) {
	case "fixed":
		backoff = graph.FixedBackoff
	case "linear":
		backoff = graph.LinearBackoff
	}

	return &graph.RetryPolicy{
		MaxRetries:      cfg.MaxRetries,
		BackoffStrategy: backoff,
		BaseDelay:       cfg.BaseDelay,
		RetryableErrors: []string{"429", "500", "502", "503", "504", "deadline exceeded", "connection reset"},
	}
}

// IndexPDF loads path, splits it with the configured chunking and stores
// the embedded segments in a new in-memory vector store. Text and markdown
// files are accepted too.
func IndexPDF(ctx context.Context, path string, embedder rag.Embedder, cfg config.IndexConfig) (*store.InMemoryVectorStore, *rag.IndexResult, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, nil, fmt.Errorf("cannot read document: %w", err)
	}

	l, err := loader.NewFileLoader(path)
	if err != nil {
		return nil, nil, err
	}
	sp, err := splitter.NewRecursive(cfg.ChunkSize, cfg.ChunkOverlap)
	if err != nil {
		return nil, nil, err
	}

	vs := store.NewInMemoryVectorStore()
	res, err := rag.NewIndexer(sp, embedder, vs).Index(ctx, l)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to index %s: %w", path, err)
	}
	return vs, res, nil
}
