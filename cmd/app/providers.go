package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/faq-chatbot/internal/domain/auth"
	"github.com/yanqian/faq-chatbot/internal/domain/question"
	"github.com/yanqian/faq-chatbot/internal/domain/resolution"
	"github.com/yanqian/faq-chatbot/internal/domain/schema"
	"github.com/yanqian/faq-chatbot/internal/infra/config"
	"github.com/yanqian/faq-chatbot/internal/infra/dataset"
	"github.com/yanqian/faq-chatbot/internal/infra/eventbus"
	"github.com/yanqian/faq-chatbot/internal/infra/llm/chatgpt"
	"github.com/yanqian/faq-chatbot/internal/infra/questionrepo"
	"github.com/yanqian/faq-chatbot/internal/infra/searchpg"
	"github.com/yanqian/faq-chatbot/internal/infra/weaviate"
	"github.com/yanqian/faq-chatbot/pkg/metrics"
)

func provideAuthConfig(cfg *config.Config) auth.Config {
	return auth.Config{
		Secret:       cfg.Auth.Secret,
		Issuer:       cfg.Auth.Issuer,
		Audience:     cfg.Auth.Audience,
		AdminKeyHash: cfg.Auth.AdminKeyHash,
	}
}

func provideQuestionConfig(cfg *config.Config) question.Config {
	return question.Config{
		RecentLimit:   cfg.Questions.RecentLimit,
		MaxTextLength: cfg.Questions.MaxTextLength,
	}
}

func provideResolutionConfig(cfg *config.Config) resolution.Config {
	family, _ := resolution.ParseFamily(cfg.Resolution.Family)
	return resolution.Config{
		Family:             family,
		CertaintyThreshold: cfg.Resolution.CertaintyThreshold,
		CallTimeout:        cfg.Resolution.CallTimeout,
		RunTimeout:         cfg.Resolution.RunTimeout,
		Apology:            cfg.Resolution.Apology,
	}
}

func provideSchemaConfig(cfg *config.Config) schema.Config {
	return schema.Config{BatchSize: cfg.Schema.BatchSize}
}

func provideTokenEstimator(cfg *config.Config) *metrics.TokenEstimator {
	return metrics.NewTokenEstimator(cfg.LLM.Model)
}

// providePgxPool returns a shared connection pool, or nil when Postgres is
// not configured or unreachable. Consumers fall back to in-memory
// implementations on nil.
func providePgxPool(cfg *config.Config, logger *slog.Logger) *pgxpool.Pool {
	dsn := strings.TrimSpace(cfg.Postgres.DSN)
	if dsn == "" {
		logger.Info("postgres dsn not set, falling back to in-memory storage")
		return nil
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Error("invalid postgres dsn, falling back to in-memory storage", "error", err)
		return nil
	}
	if cfg.Postgres.MaxConns > 0 {
		poolConfig.MaxConns = cfg.Postgres.MaxConns
	}
	if cfg.Postgres.MinConns > 0 {
		poolConfig.MinConns = cfg.Postgres.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		logger.Error("failed to initialize postgres pool, falling back to in-memory storage", "error", err)
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("postgres ping failed, falling back to in-memory storage", "error", err)
		pool.Close()
		return nil
	}
	return pool
}

func provideQuestionRepository(pool *pgxpool.Pool, logger *slog.Logger) question.Repository {
	if pool == nil {
		return questionrepo.NewMemoryRepository()
	}
	repo := questionrepo.NewPostgresRepository(pool)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := repo.Init(ctx); err != nil {
		logger.Error("question table migration failed, using memory repository", "error", err)
		return questionrepo.NewMemoryRepository()
	}
	logger.Info("question postgres repository enabled")
	return repo
}

func provideBus(cfg *config.Config, logger *slog.Logger) question.Bus {
	if !cfg.Valkey.Enabled {
		return eventbus.NewMemoryBus()
	}
	opt, err := buildValkeyOptions(cfg)
	if err != nil {
		logger.Error("invalid valkey configuration, falling back to memory bus", "error", err)
		return eventbus.NewMemoryBus()
	}
	client, err := valkey.NewClient(opt)
	if err != nil {
		logger.Error("failed to create valkey client, falling back to memory bus", "error", err)
		return eventbus.NewMemoryBus()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		logger.Error("valkey ping failed, falling back to memory bus", "error", err)
		client.Close()
		return eventbus.NewMemoryBus()
	}
	logger.Info("valkey event bus enabled", "addr", cfg.Valkey.Addr)
	return eventbus.NewValkeyBus(client, cfg.Valkey.Channel, logger)
}

func buildValkeyOptions(cfg *config.Config) (valkey.ClientOption, error) {
	if strings.Contains(cfg.Valkey.Addr, "://") {
		return valkey.ParseURL(cfg.Valkey.Addr)
	}
	return valkey.ClientOption{InitAddress: []string{cfg.Valkey.Addr}}, nil
}

func provideSearchBackend(cfg *config.Config, pool *pgxpool.Pool, m *metrics.ResolutionMetrics, logger *slog.Logger) (resolution.SearchBackend, error) {
	switch cfg.Resolution.Backend {
	case "pgvector":
		if pool == nil {
			return nil, fmt.Errorf("pgvector backend requires a reachable postgres instance")
		}
		llm, err := chatgpt.NewClient(cfg.LLM.APIKey, cfg.LLM.BaseURL)
		if err != nil {
			return nil, err
		}
		backend := searchpg.NewBackend(searchpg.Config{
			EmbeddingModel: cfg.LLM.EmbeddingModel,
			Model:          cfg.LLM.Model,
			Temperature:    cfg.LLM.Temperature,
		}, pool, llm, logger)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := backend.Init(ctx); err != nil {
			return nil, fmt.Errorf("initialize pgvector backend: %w", err)
		}
		return backend, nil
	default:
		return weaviate.NewClient(weaviate.Config{
			BaseURL:        cfg.Weaviate.BaseURL,
			APIKey:         cfg.Weaviate.APIKey,
			OpenAIKey:      cfg.Weaviate.OpenAIKey,
			HuggingFaceKey: cfg.Weaviate.HuggingFaceKey,
			AzureKey:       cfg.Weaviate.AzureKey,
			Timeout:        cfg.Weaviate.Timeout,
			BreakerEnabled: cfg.Weaviate.Breaker.Enabled,
			MaxFailures:    cfg.Weaviate.Breaker.MaxFailures,
			OpenFor:        cfg.Weaviate.Breaker.OpenFor,
		}, m, logger)
	}
}

func provideSchemaManager(backend resolution.SearchBackend) (schema.Manager, error) {
	manager, ok := backend.(schema.Manager)
	if !ok {
		return nil, fmt.Errorf("search backend %T does not manage schemas", backend)
	}
	return manager, nil
}

func provideAnswerSink(repo question.Repository) resolution.AnswerSink {
	return repo
}

func provideDatasetSource(cfg *config.Config) (schema.DatasetSource, error) {
	bucket := cfg.Schema.Bucket
	if bucket.Endpoint != "" {
		return dataset.NewBucketSource(bucket.Endpoint, bucket.AccessKey, bucket.SecretKey, bucket.Region, bucket.Name, bucket.ObjectKey)
	}
	return dataset.NewHTTPSource(cfg.Schema.DatasetURL)
}
