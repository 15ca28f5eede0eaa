package config

import (
	"errors"
	"os"

	"gopkg.in/yaml.v3"
)

// OpenAIEmbedderConfig holds settings for the OpenAI embeddings client.
type OpenAIEmbedderConfig struct {
	APIKeyEnv   string `yaml:"api_key_env"`
	Model       string `yaml:"model"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// EmbedderConfig selects and configures the embedder implementation.
type EmbedderConfig struct {
	Type      string                `yaml:"type"` // "hash" or "openai"
	Dimension int                   `yaml:"dimension"`
	OpenAI    *OpenAIEmbedderConfig `yaml:"openai,omitempty"`
}

// QdrantConfig contains connection details for a Qdrant vector store.
type QdrantConfig struct {
	URL         string `yaml:"url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	Collection  string `yaml:"collection"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// PostgresConfig contains connection details for the pgvector store.
type PostgresConfig struct {
	URLEnv string `yaml:"url_env"`
	Table  string `yaml:"table"`
}

// StoreConfig selects and configures the vector store backend.
type StoreConfig struct {
	Type     string          `yaml:"type"` // "memory", "qdrant" or "pgvector"
	Qdrant   *QdrantConfig   `yaml:"qdrant,omitempty"`
	Postgres *PostgresConfig `yaml:"postgres,omitempty"`
}

// Config is the root application configuration.
type Config struct {
	CSVPath     string         `yaml:"csv_path"`
	HTTPAddr    string         `yaml:"http_addr"`
	StoreOpSecs int            `yaml:"store_op_secs"` // timeout around store/embed calls
	Embedder    EmbedderConfig `yaml:"embedder"`
	Store       StoreConfig    `yaml:"store"`
}

// Load reads a YAML config from path. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	applyDefaults(cfg)
	return cfg, nil
}

// Default returns the configuration used when no file is present:
// local hash embedder over the in-memory store.
func Default() *Config {
	return &Config{
		CSVPath:     "textile_orders.csv",
		HTTPAddr:    ":8080",
		StoreOpSecs: 15,
		Embedder:    EmbedderConfig{Type: "hash", Dimension: 256},
		Store:       StoreConfig{Type: "memory"},
	}
}

func applyDefaults(cfg *Config) {
	if cfg.CSVPath == "" {
		cfg.CSVPath = "textile_orders.csv"
	}
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}
	if cfg.StoreOpSecs == 0 {
		cfg.StoreOpSecs = 15
	}
	if cfg.Embedder.Type == "" {
		cfg.Embedder.Type = "hash"
	}
	if cfg.Embedder.Dimension == 0 {
		cfg.Embedder.Dimension = 256
	}
	if cfg.Embedder.Type == "openai" {
		if cfg.Embedder.OpenAI == nil {
			cfg.Embedder.OpenAI = &OpenAIEmbedderConfig{}
		}
		if cfg.Embedder.OpenAI.APIKeyEnv == "" {
			cfg.Embedder.OpenAI.APIKeyEnv = "OPENAI_API_KEY"
		}
		if cfg.Embedder.OpenAI.TimeoutSecs == 0 {
			cfg.Embedder.OpenAI.TimeoutSecs = 30
		}
	}
	if cfg.Store.Type == "" {
		cfg.Store.Type = "memory"
	}
	if cfg.Store.Type == "qdrant" {
		if cfg.Store.Qdrant == nil {
			cfg.Store.Qdrant = &QdrantConfig{}
		}
		if cfg.Store.Qdrant.URL == "" {
			cfg.Store.Qdrant.URL = "http://localhost:6333"
		}
		if cfg.Store.Qdrant.Collection == "" {
			cfg.Store.Qdrant.Collection = "textile_orders"
		}
		if cfg.Store.Qdrant.APIKeyEnv == "" {
			cfg.Store.Qdrant.APIKeyEnv = "QDRANT_API_KEY"
		}
		if cfg.Store.Qdrant.TimeoutSecs == 0 {
			cfg.Store.Qdrant.TimeoutSecs = 15
		}
	}
	if cfg.Store.Type == "pgvector" {
		if cfg.Store.Postgres == nil {
			cfg.Store.Postgres = &PostgresConfig{}
		}
		if cfg.Store.Postgres.URLEnv == "" {
			cfg.Store.Postgres.URLEnv = "DATABASE_URL"
		}
		if cfg.Store.Postgres.Table == "" {
			cfg.Store.Postgres.Table = "textile_orders"
		}
	}
}
