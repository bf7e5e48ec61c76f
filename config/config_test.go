package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate runs the test in an empty directory with no credentials set.
func isolate(t *testing.T) string {
	dir := t.TempDir()
	t.Chdir(dir)
	for _, key := range []string{"GEMINI_API_KEY", "TAVILY_API_KEY", "BRAVE_API_KEY", "OPENAI_API_KEY", "EMBEDDING_API_KEY"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "gemini-2.5-flash", cfg.Gemini.Model)
	assert.InDelta(t, 0.3, cfg.Gemini.Temperature, 1e-9)
	assert.True(t, cfg.Gemini.LogRequests)
	assert.Equal(t, 300, cfg.Index.ChunkSize)
	assert.Equal(t, 30, cfg.Index.ChunkOverlap)
	assert.Equal(t, 3, cfg.Retrieval.MaxResults)
	assert.InDelta(t, 0.5, cfg.Retrieval.MinScore, 1e-9)
	assert.Equal(t, 10, cfg.Memory.MaxMessages)
	assert.Equal(t, "memory", cfg.Memory.Backend)
	assert.True(t, cfg.Memory.Augmented)
	assert.Equal(t, "ollama", cfg.Embedding.Provider)
	assert.Equal(t, "all-minilm", cfg.Embedding.Model)
	assert.Equal(t, "tavily", cfg.Web.Provider)
	assert.Equal(t, time.Second, cfg.Retry.BaseDelay)
	assert.Equal(t, "info", cfg.Log.Level)

	assert.ErrorIs(t, cfg.RequireGemini(), ErrMissingCredential)
	assert.ErrorContains(t, cfg.RequireWebSearch(), "TAVILY_API_KEY")
}

func TestLoad_Environment(t *testing.T) {
	isolate(t)
	t.Setenv("GEMINI_API_KEY", "gemini-key")
	t.Setenv("TAVILY_API_KEY", "tvly-key")
	t.Setenv("OPENAI_API_KEY", "sk-key")
	t.Setenv("INDEX_CHUNK_SIZE", "500")
	t.Setenv("MEMORY_REDIS_TTL", "24h")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "gemini-key", cfg.Gemini.APIKey)
	assert.Equal(t, "tvly-key", cfg.Tavily.APIKey)
	assert.Equal(t, "sk-key", cfg.Embedding.APIKey)
	assert.Equal(t, 500, cfg.Index.ChunkSize)
	assert.Equal(t, 24*time.Hour, cfg.Memory.RedisTTL)

	assert.NoError(t, cfg.RequireGemini())
	assert.NoError(t, cfg.RequireWebSearch())
}

func TestLoad_ProgramDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("", WithDefault("gemini.temperature", 0.2), WithDefault("retrieval.max_results", 2))
	require.NoError(t, err)
	assert.InDelta(t, 0.2, cfg.Gemini.Temperature, 1e-9)
	assert.Equal(t, 2, cfg.Retrieval.MaxResults)

	t.Setenv("GEMINI_TEMPERATURE", "0.7")
	cfg, err = Load("", WithDefault("gemini.temperature", 0.2))
	require.NoError(t, err)
	assert.InDelta(t, 0.7, cfg.Gemini.Temperature, 1e-9)
}

func TestLoad_EmbeddingProviderDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultOllamaModel, cfg.Embedding.Model)
	assert.Equal(t, DefaultOllamaURL, cfg.Embedding.ServerURL)

	t.Setenv("EMBEDDING_PROVIDER", "openai")
	cfg, err = Load("")
	require.NoError(t, err)
	assert.Empty(t, cfg.Embedding.Model)
	assert.Empty(t, cfg.Embedding.ServerURL)

	t.Setenv("EMBEDDING_MODEL", "text-embedding-3-small")
	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, "text-embedding-3-small", cfg.Embedding.Model)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("GEMINI_API_KEY=from-dotenv\n"), 0600))
	t.Cleanup(func() { os.Unsetenv("GEMINI_API_KEY") })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.Gemini.APIKey)
}

func TestLoad_File(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
gemini:
  temperature: 0.2
retrieval:
  max_results: 2
web:
  provider: brave
memory:
  backend: sqlite
  sqlite_path: /tmp/chat.db
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.InDelta(t, 0.2, cfg.Gemini.Temperature, 1e-9)
	assert.Equal(t, 2, cfg.Retrieval.MaxResults)
	assert.Equal(t, "sqlite", cfg.Memory.Backend)
	assert.Equal(t, "/tmp/chat.db", cfg.Memory.SqlitePath)
	assert.ErrorContains(t, cfg.RequireWebSearch(), "BRAVE_API_KEY")

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	isolate(t)
	base, err := Load("")
	require.NoError(t, err)

	tests := []struct {
		name   string
		modify func(c *Config)
	}{
		{"overlap too large", func(c *Config) { c.Index.ChunkOverlap = c.Index.ChunkSize }},
		{"zero chunk size", func(c *Config) { c.Index.ChunkSize = 0 }},
		{"no results", func(c *Config) { c.Retrieval.MaxResults = 0 }},
		{"score above one", func(c *Config) { c.Retrieval.MinScore = 1.5 }},
		{"no memory", func(c *Config) { c.Memory.MaxMessages = 0 }},
		{"negative retries", func(c *Config) { c.Retry.MaxRetries = -1 }},
		{"too many retries", func(c *Config) { c.Retry.MaxRetries = MaxRetryLimit + 1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := *base
			tt.modify(&c)
			assert.Error(t, c.Validate())
		})
	}

	assert.NoError(t, base.Validate())

	c := *base
	c.Retry.MaxRetries = MaxRetryLimit
	assert.NoError(t, c.Validate())
}
