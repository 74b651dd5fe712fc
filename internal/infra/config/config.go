package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Auth       AuthConfig       `yaml:"auth"`
	Weaviate   WeaviateConfig   `yaml:"weaviate"`
	LLM        LLMConfig        `yaml:"llm"`
	Resolution ResolutionConfig `yaml:"resolution"`
	Questions  QuestionsConfig  `yaml:"questions"`
	Schema     SchemaConfig     `yaml:"schema"`
	Valkey     ValkeyConfig     `yaml:"valkey"`
	Postgres   PostgresConfig   `yaml:"postgres"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address        string          `yaml:"address"`
	ReadTimeout    time.Duration   `yaml:"readTimeout"`
	WriteTimeout   time.Duration   `yaml:"writeTimeout"`
	AllowedOrigins []string        `yaml:"allowedOrigins"`
	RateLimit      RateLimitConfig `yaml:"rateLimit"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// AuthConfig controls bearer-token and admin-key verification.
type AuthConfig struct {
	Secret       string `yaml:"secret"`
	Issuer       string `yaml:"issuer"`
	Audience     string `yaml:"audience"`
	AdminKeyHash string `yaml:"adminKeyHash"`
}

// WeaviateConfig holds the search backend connection settings.
type WeaviateConfig struct {
	BaseURL        string        `yaml:"baseUrl"`
	APIKey         string        `yaml:"apiKey"`
	OpenAIKey      string        `yaml:"openAiKey"`
	HuggingFaceKey string        `yaml:"huggingFaceKey"`
	AzureKey       string        `yaml:"azureKey"`
	Timeout        time.Duration `yaml:"timeout"`
	Breaker        BreakerConfig `yaml:"breaker"`
}

// BreakerConfig drives the circuit breaker around backend calls.
type BreakerConfig struct {
	Enabled     bool          `yaml:"enabled"`
	MaxFailures uint32        `yaml:"maxFailures"`
	OpenFor     time.Duration `yaml:"openFor"`
}

// LLMConfig contains OpenAI-compatible API settings used by the local
// pgvector backend.
type LLMConfig struct {
	APIKey         string  `yaml:"apiKey"`
	BaseURL        string  `yaml:"baseUrl"`
	Model          string  `yaml:"model"`
	EmbeddingModel string  `yaml:"embeddingModel"`
	Temperature    float32 `yaml:"temperature"`
}

// ResolutionConfig drives the answer-resolution pipeline.
type ResolutionConfig struct {
	Family             string        `yaml:"family"`
	CertaintyThreshold float64       `yaml:"certaintyThreshold"`
	CallTimeout        time.Duration `yaml:"callTimeout"`
	RunTimeout         time.Duration `yaml:"runTimeout"`
	Apology            string        `yaml:"apology"`
	// Backend selects the search backend implementation: "weaviate" or
	// "pgvector".
	Backend string `yaml:"backend"`
}

// QuestionsConfig controls the client-facing question surface.
type QuestionsConfig struct {
	RecentLimit   int `yaml:"recentLimit"`
	MaxTextLength int `yaml:"maxTextLength"`
}

// SchemaConfig controls the administrative seeding flow.
type SchemaConfig struct {
	DatasetURL string `yaml:"datasetUrl"`
	BatchSize  int    `yaml:"batchSize"`
	// Bucket settings switch the dataset source to S3-compatible storage.
	Bucket BucketConfig `yaml:"bucket"`
}

// BucketConfig holds S3-compatible object storage settings.
type BucketConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	Region    string `yaml:"region"`
	Name      string `yaml:"name"`
	ObjectKey string `yaml:"objectKey"`
}

// ValkeyConfig contains connection information for the event bus.
type ValkeyConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
	Channel string `yaml:"channel"`
}

// PostgresConfig contains DSN and pooling settings.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// Load reads configuration from a YAML file and environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:      ":8080",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 60 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 60,
				Burst:             20,
			},
		},
		Weaviate: WeaviateConfig{
			Timeout: 15 * time.Second,
			Breaker: BreakerConfig{
				Enabled:     true,
				MaxFailures: 5,
				OpenFor:     30 * time.Second,
			},
		},
		LLM: LLMConfig{
			Model:          "gpt-3.5-turbo",
			EmbeddingModel: "text-embedding-3-small",
			Temperature:    0.7,
		},
		Resolution: ResolutionConfig{
			Family:             "OpenAI",
			CertaintyThreshold: 0.7,
			CallTimeout:        15 * time.Second,
			RunTimeout:         2 * time.Minute,
			Backend:            "weaviate",
		},
		Questions: QuestionsConfig{
			RecentLimit:   25,
			MaxTextLength: 1000,
		},
		Schema: SchemaConfig{
			DatasetURL: "https://cdn.statically.io/gh/Brahim-Benzarti/chatbot-redacre/main/faqs.json",
			BatchSize:  100,
		},
		Valkey: ValkeyConfig{
			Channel: "faq:questions",
		},
	}
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("AUTH_SECRET"); v != "" {
		cfg.Auth.Secret = v
	}
	if v := os.Getenv("AUTH_ISSUER"); v != "" {
		cfg.Auth.Issuer = v
	}
	if v := os.Getenv("AUTH_AUDIENCE"); v != "" {
		cfg.Auth.Audience = v
	}
	if v := os.Getenv("ADMIN_KEY_HASH"); v != "" {
		cfg.Auth.AdminKeyHash = v
	}
	if v := os.Getenv("WEAVIATE_BASE_URL"); v != "" {
		cfg.Weaviate.BaseURL = v
	}
	if v := os.Getenv("WEAVIATE_API_KEY"); v != "" {
		cfg.Weaviate.APIKey = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.Weaviate.OpenAIKey = v
		if cfg.LLM.APIKey == "" {
			cfg.LLM.APIKey = v
		}
	}
	if v := os.Getenv("HUGGINGFACE_API_KEY"); v != "" {
		cfg.Weaviate.HuggingFaceKey = v
	}
	if v := os.Getenv("AZURE_API_KEY"); v != "" {
		cfg.Weaviate.AzureKey = v
	}
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		cfg.LLM.BaseURL = v
	}
	if v := os.Getenv("RESOLUTION_FAMILY"); v != "" {
		cfg.Resolution.Family = v
	}
	if v := os.Getenv("RESOLUTION_BACKEND"); v != "" {
		cfg.Resolution.Backend = v
	}
	if v := os.Getenv("RESOLUTION_THRESHOLD"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Resolution.CertaintyThreshold = parsed
		}
	}
	if v := os.Getenv("DATASET_URL"); v != "" {
		cfg.Schema.DatasetURL = v
	}
	if v := os.Getenv("SEED_BATCH_SIZE"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Schema.BatchSize = parsed
		}
	}
	if v := os.Getenv("VALKEY_ADDR"); v != "" {
		cfg.Valkey.Enabled = true
		cfg.Valkey.Addr = v
	}
	if v := os.Getenv("POSTGRES_DSN"); v != "" {
		cfg.Postgres.DSN = v
	}
}

// Validate rejects configurations the service cannot run with.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	switch c.Resolution.Backend {
	case "weaviate", "pgvector":
	default:
		return fmt.Errorf("resolution.backend must be weaviate or pgvector, got %q", c.Resolution.Backend)
	}
	switch c.Resolution.Family {
	case "HuggingFace", "OpenAI":
	default:
		return fmt.Errorf("resolution.family must be HuggingFace or OpenAI, got %q", c.Resolution.Family)
	}
	if c.Resolution.CertaintyThreshold < 0 || c.Resolution.CertaintyThreshold > 1 {
		return errors.New("resolution.certaintyThreshold must be within [0,1]")
	}
	if c.Schema.BatchSize <= 0 {
		return errors.New("schema.batchSize must be positive")
	}
	if c.Resolution.Backend == "pgvector" && c.Postgres.DSN == "" {
		return errors.New("postgres.dsn is required for the pgvector backend")
	}
	return nil
}
