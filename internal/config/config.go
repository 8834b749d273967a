// Package config provides configuration management for crowdsay.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

// Defaults.
const (
	DefaultPort           = 8714
	DefaultTopAnswers     = 10
	DefaultMaxConns       = 4
	DefaultEmbedURL       = "http://localhost:11434"
	DefaultEmbedModel     = "nomic-embed-text"
	DefaultEmbedCacheSize = 4096
	DefaultSimCacheSize   = 16384
	DefaultEmbedTimeout   = 30 * time.Second
)

// Config holds runtime settings for the crowdsay worker.
type Config struct {
	// Port the HTTP API listens on.
	Port int
	// DBPath is the SQLite database file.
	DBPath string
	// MaxConns bounds the database connection pool.
	MaxConns int
	// TopAnswers bounds the persisted leaderboard per question.
	TopAnswers int

	// EmbedURL is the Ollama-compatible embeddings endpoint. Empty disables
	// semantic matching; clustering then uses fuzzy matching only.
	EmbedURL string
	// EmbedModel is the embedding model name.
	EmbedModel string
	// EmbedCacheSize bounds the embedding LRU cache.
	EmbedCacheSize int
	// SimCacheSize bounds the pairwise similarity LRU cache.
	SimCacheSize int
	// EmbedTimeout bounds a single embedding request.
	EmbedTimeout time.Duration
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Port:           DefaultPort,
		DBPath:         DBPath(),
		MaxConns:       DefaultMaxConns,
		TopAnswers:     DefaultTopAnswers,
		EmbedURL:       DefaultEmbedURL,
		EmbedModel:     DefaultEmbedModel,
		EmbedCacheSize: DefaultEmbedCacheSize,
		SimCacheSize:   DefaultSimCacheSize,
		EmbedTimeout:   DefaultEmbedTimeout,
	}
}

// Load returns the default configuration with CROWDSAY_* environment
// overrides applied. Invalid values are logged and ignored.
func Load() *Config {
	cfg := Default()

	if v := os.Getenv("CROWDSAY_PORT"); v != "" {
		cfg.Port = envInt("CROWDSAY_PORT", v, cfg.Port)
	}
	if v := os.Getenv("CROWDSAY_DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("CROWDSAY_MAX_CONNS"); v != "" {
		cfg.MaxConns = envInt("CROWDSAY_MAX_CONNS", v, cfg.MaxConns)
	}
	if v := os.Getenv("CROWDSAY_TOP_ANSWERS"); v != "" {
		cfg.TopAnswers = envInt("CROWDSAY_TOP_ANSWERS", v, cfg.TopAnswers)
	}
	if v, ok := os.LookupEnv("CROWDSAY_EMBED_URL"); ok {
		// Explicitly empty disables the embedder.
		cfg.EmbedURL = v
	}
	if v := os.Getenv("CROWDSAY_EMBED_MODEL"); v != "" {
		cfg.EmbedModel = v
	}
	if v := os.Getenv("CROWDSAY_EMBED_CACHE_SIZE"); v != "" {
		cfg.EmbedCacheSize = envInt("CROWDSAY_EMBED_CACHE_SIZE", v, cfg.EmbedCacheSize)
	}
	if v := os.Getenv("CROWDSAY_SIM_CACHE_SIZE"); v != "" {
		cfg.SimCacheSize = envInt("CROWDSAY_SIM_CACHE_SIZE", v, cfg.SimCacheSize)
	}

	return cfg
}

func envInt(name, value string, fallback int) int {
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		log.Warn().
			Str("name", name).
			Str("value", value).
			Msg("Invalid environment override, using default")
		return fallback
	}
	return parsed
}

// DataDir returns the per-user data directory (~/.crowdsay).
func DataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".crowdsay"
	}
	return filepath.Join(home, ".crowdsay")
}

// DBPath returns the default database file path.
func DBPath() string {
	return filepath.Join(DataDir(), "crowdsay.db")
}

// EnsureDataDir creates the data directory if missing.
func EnsureDataDir() error {
	return os.MkdirAll(DataDir(), 0o755)
}
