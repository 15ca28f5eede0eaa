package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"textile-assistant/internal/config"
	"textile-assistant/internal/core"
	"textile-assistant/internal/embedding"
	"textile-assistant/internal/vectorstore"
	"textile-assistant/internal/vectorstore/memory"
	"textile-assistant/internal/vectorstore/pgvector"
	"textile-assistant/internal/vectorstore/qdrant"
)

// BuildService assembles the embedder, vector store and order store described
// by the configuration. API keys and connection strings are read from the
// environment variables the config names, never from the config file itself.
// The returned cleanup releases backend resources (the pgx pool); it is a
// no-op for the other backends.
func BuildService(ctx context.Context, cfg *config.Config) (ApplicationService, func(), error) {
	embedder, err := buildEmbedder(cfg)
	if err != nil {
		return nil, nil, err
	}

	store, cleanup, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	opTimeout := time.Duration(cfg.StoreOpSecs) * time.Second
	orders, err := core.NewOrderStore(ctx, store, embedder, opTimeout)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	return NewAppService(orders, cfg.CSVPath), cleanup, nil
}

func buildEmbedder(cfg *config.Config) (embedding.Embedder, error) {
	switch cfg.Embedder.Type {
	case "hash":
		return embedding.NewHashEmbedder(cfg.Embedder.Dimension), nil
	case "openai":
		oc := cfg.Embedder.OpenAI
		return embedding.NewOpenAIEmbedder(embedding.OpenAIConfig{
			APIKey:  os.Getenv(oc.APIKeyEnv),
			Model:   oc.Model,
			Timeout: time.Duration(oc.TimeoutSecs) * time.Second,
		})
	default:
		return nil, fmt.Errorf("unknown embedder type: %q", cfg.Embedder.Type)
	}
}

func buildStore(ctx context.Context, cfg *config.Config) (vectorstore.Store, func(), error) {
	noop := func() {}
	switch cfg.Store.Type {
	case "memory":
		return memory.New(), noop, nil
	case "qdrant":
		qc := cfg.Store.Qdrant
		return qdrant.New(qdrant.Config{
			URL:        qc.URL,
			APIKey:     os.Getenv(qc.APIKeyEnv),
			Collection: qc.Collection,
			Timeout:    time.Duration(qc.TimeoutSecs) * time.Second,
		}), noop, nil
	case "pgvector":
		pc := cfg.Store.Postgres
		pool, err := pgvector.NewPool(ctx, os.Getenv(pc.URLEnv))
		if err != nil {
			return nil, nil, err
		}
		return pgvector.New(pool, pc.Table), pool.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown store type: %q", cfg.Store.Type)
	}
}
