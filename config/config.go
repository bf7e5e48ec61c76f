package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// MaxRetryLimit bounds retry.max_retries
const MaxRetryLimit = 10

// ErrMissingCredential is returned when a required API key is not configured
var ErrMissingCredential = errors.New("missing credential")

// Config holds the settings shared by the programs
type Config struct {
	Gemini    GeminiConfig    `mapstructure:"gemini"`
	Tavily    TavilyConfig    `mapstructure:"tavily"`
	Web       WebConfig       `mapstructure:"web"`
	Brave     BraveConfig     `mapstructure:"brave"`
	Embedding EmbeddingConfig `mapstructure:"embedding"`
	Index     IndexConfig     `mapstructure:"index"`
	Retrieval RetrievalConfig `mapstructure:"retrieval"`
	Router    RouterConfig    `mapstructure:"router"`
	Memory    MemoryConfig    `mapstructure:"memory"`
	Retry     RetryConfig     `mapstructure:"retry"`
	Log       LogConfig       `mapstructure:"log"`
}

// GeminiConfig configures the chat model
type GeminiConfig struct {
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	Temperature float64 `mapstructure:"temperature"`
	LogRequests bool    `mapstructure:"log_requests"`
}

// TavilyConfig configures the Tavily web search
type TavilyConfig struct {
	APIKey      string `mapstructure:"api_key"`
	MaxResults  int    `mapstructure:"max_results"`
	SearchDepth string `mapstructure:"search_depth"`
	BaseURL     string `mapstructure:"base_url"`
}

// WebConfig selects the web search provider: tavily or brave
type WebConfig struct {
	Provider string `mapstructure:"provider"`
}

// BraveConfig configures the Brave web search
type BraveConfig struct {
	APIKey string `mapstructure:"api_key"`
}

const (
	// DefaultOllamaModel is the embedding model used with the ollama provider
	DefaultOllamaModel = "all-minilm"
	// DefaultOllamaURL is the address of a local Ollama server
	DefaultOllamaURL = "http://localhost:11434"
)

// EmbeddingConfig configures the embedding model: ollama, openai or mock.
// Model and ServerURL default per provider; for openai the client library
// defaults apply.
type EmbeddingConfig struct {
	Provider  string `mapstructure:"provider"`
	Model     string `mapstructure:"model"`
	ServerURL string `mapstructure:"server_url"`
	APIKey    string `mapstructure:"api_key"`
}

// IndexConfig configures document splitting
type IndexConfig struct {
	ChunkSize    int `mapstructure:"chunk_size"`
	ChunkOverlap int `mapstructure:"chunk_overlap"`
}

// RetrievalConfig configures the vector retrievers
type RetrievalConfig struct {
	MaxResults int     `mapstructure:"max_results"`
	MinScore   float64 `mapstructure:"min_score"`
}

// RouterConfig configures the language model router
type RouterConfig struct {
	Fallback string `mapstructure:"fallback"`
}

// MemoryConfig configures the chat memory: memory, redis, sqlite or postgres
type MemoryConfig struct {
	MaxMessages int           `mapstructure:"max_messages"`
	Backend     string        `mapstructure:"backend"`
	SessionID   string        `mapstructure:"session_id"`
	RedisAddr   string        `mapstructure:"redis_addr"`
	RedisTTL    time.Duration `mapstructure:"redis_ttl"`
	SqlitePath  string        `mapstructure:"sqlite_path"`
	PostgresDSN string        `mapstructure:"postgres_dsn"`
	// Augmented stores the user message with its retrieved contents
	Augmented bool `mapstructure:"augmented"`
}

// RetryConfig configures retries of failed chat turns
type RetryConfig struct {
	MaxRetries int           `mapstructure:"max_retries"`
	Backoff    string        `mapstructure:"backoff"`
	BaseDelay  time.Duration `mapstructure:"base_delay"`
}

// LogConfig configures logging
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Option adjusts the loader before the file and environment are read
type Option func(v *viper.Viper)

// WithDefault replaces the built-in default of key. File and environment
// values still take precedence.
func WithDefault(key string, value any) Option {
	return func(v *viper.Viper) {
		v.SetDefault(key, value)
	}
}

// Load reads the configuration. A .env file in the working directory is
// loaded into the environment first when present. configPath is optional;
// when set the file must exist. Environment variables override the file,
// with dots in keys replaced by underscores (GEMINI_API_KEY, INDEX_CHUNK_SIZE...).
func Load(configPath string, opts ...Option) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	for _, opt := range opts {
		opt(v)
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("embedding.api_key", "EMBEDDING_API_KEY", "OPENAI_API_KEY"); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.Embedding.applyProviderDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// setDefaults sets the default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.model", "gemini-2.5-flash")
	v.SetDefault("gemini.temperature", 0.3)
	v.SetDefault("gemini.log_requests", true)

	v.SetDefault("tavily.api_key", "")
	v.SetDefault("tavily.max_results", 3)
	v.SetDefault("tavily.search_depth", "basic")
	v.SetDefault("tavily.base_url", "https://api.tavily.com/search")

	v.SetDefault("web.provider", "tavily")
	v.SetDefault("brave.api_key", "")

	v.SetDefault("embedding.provider", "ollama")
	v.SetDefault("embedding.model", "")
	v.SetDefault("embedding.server_url", "")
	v.SetDefault("embedding.api_key", "")

	v.SetDefault("index.chunk_size", 300)
	v.SetDefault("index.chunk_overlap", 30)

	v.SetDefault("retrieval.max_results", 3)
	v.SetDefault("retrieval.min_score", 0.5)

	v.SetDefault("router.fallback", "do_not_route")

	v.SetDefault("memory.max_messages", 10)
	v.SetDefault("memory.backend", "memory")
	v.SetDefault("memory.session_id", "default")
	v.SetDefault("memory.redis_addr", "localhost:6379")
	v.SetDefault("memory.redis_ttl", 0)
	v.SetDefault("memory.sqlite_path", "ragchat.db")
	v.SetDefault("memory.postgres_dsn", "")
	v.SetDefault("memory.augmented", true)

	v.SetDefault("retry.max_retries", 0)
	v.SetDefault("retry.backoff", "exponential")
	v.SetDefault("retry.base_delay", time.Second)

	v.SetDefault("log.level", "info")
}

func (e *EmbeddingConfig) applyProviderDefaults() {
	switch strings.ToLower(e.Provider) {
	case "", "ollama":
		if e.Model == "" {
			e.Model = DefaultOllamaModel
		}
		if e.ServerURL == "" {
			e.ServerURL = DefaultOllamaURL
		}
	}
}

// Validate checks value ranges
func (c *Config) Validate() error {
	switch {
	case c.Index.ChunkSize <= 0:
		return fmt.Errorf("index.chunk_size must be positive, got %d", c.Index.ChunkSize)
	case c.Index.ChunkOverlap < 0 || c.Index.ChunkOverlap >= c.Index.ChunkSize:
		return fmt.Errorf("index.chunk_overlap must be in [0, %d), got %d", c.Index.ChunkSize, c.Index.ChunkOverlap)
	case c.Retrieval.MaxResults <= 0:
		return fmt.Errorf("retrieval.max_results must be positive, got %d", c.Retrieval.MaxResults)
	case c.Retrieval.MinScore < 0 || c.Retrieval.MinScore > 1:
		return fmt.Errorf("retrieval.min_score must be in [0, 1], got %g", c.Retrieval.MinScore)
	case c.Tavily.MaxResults <= 0:
		return fmt.Errorf("tavily.max_results must be positive, got %d", c.Tavily.MaxResults)
	case c.Memory.MaxMessages < 1:
		return fmt.Errorf("memory.max_messages must be at least 1, got %d", c.Memory.MaxMessages)
	case c.Retry.MaxRetries < 0 || c.Retry.MaxRetries > MaxRetryLimit:
		return fmt.Errorf("retry.max_retries must be in [0, %d], got %d", MaxRetryLimit, c.Retry.MaxRetries)
	}
	return nil
}

// RequireGemini checks that the chat model key is set
func (c *Config) RequireGemini() error {
	if c.Gemini.APIKey == "" {
		return fmt.Errorf("%w: GEMINI_API_KEY", ErrMissingCredential)
	}
	return nil
}

// RequireWebSearch checks that the key of the selected web search provider is set
func (c *Config) RequireWebSearch() error {
	switch c.Web.Provider {
	case "brave":
		if c.Brave.APIKey == "" {
			return fmt.Errorf("%w: BRAVE_API_KEY", ErrMissingCredential)
		}
	default:
		if c.Tavily.APIKey == "" {
			return fmt.Errorf("%w: TAVILY_API_KEY", ErrMissingCredential)
		}
	}
	return nil
}
