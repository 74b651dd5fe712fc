package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("WEAVIATE_BASE_URL", "")

	cfg := defaultConfig()
	applyEnvOverrides(cfg)
	require.NoError(t, cfg.Validate())

	require.Equal(t, ":8080", cfg.HTTP.Address)
	require.Equal(t, "weaviate", cfg.Resolution.Backend)
	require.Equal(t, "OpenAI", cfg.Resolution.Family)
	require.Equal(t, 0.7, cfg.Resolution.CertaintyThreshold)
	require.Equal(t, 100, cfg.Schema.BatchSize)
	require.Equal(t, 25, cfg.Questions.RecentLimit)
	require.NotEmpty(t, cfg.Schema.DatasetURL)
}

func TestLoadFromFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
http:
  address: ":9090"
  readTimeout: 5s
resolution:
  family: HuggingFace
  certaintyThreshold: 0.8
weaviate:
  baseUrl: "http://weaviate:8080"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("CONFIG_PATH", path)
	t.Setenv("RESOLUTION_THRESHOLD", "0.65")
	t.Setenv("DATASET_URL", "https://example.com/faqs.json")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.HTTP.Address)
	require.Equal(t, 5*time.Second, cfg.HTTP.ReadTimeout)
	require.Equal(t, "HuggingFace", cfg.Resolution.Family)
	require.Equal(t, "http://weaviate:8080", cfg.Weaviate.BaseURL)
	// Env beats file.
	require.Equal(t, 0.65, cfg.Resolution.CertaintyThreshold)
	require.Equal(t, "https://example.com/faqs.json", cfg.Schema.DatasetURL)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := defaultConfig()
	cfg.Resolution.Backend = "elasticsearch"
	require.Error(t, cfg.Validate())

	cfg = defaultConfig()
	cfg.Resolution.Family = "Cohere"
	require.Error(t, cfg.Validate())

	cfg = defaultConfig()
	cfg.Resolution.CertaintyThreshold = 1.5
	require.Error(t, cfg.Validate())

	cfg = defaultConfig()
	cfg.Resolution.Backend = "pgvector"
	require.Error(t, cfg.Validate())

	cfg = defaultConfig()
	cfg.Resolution.Backend = "pgvector"
	cfg.Postgres.DSN = "postgres://localhost/faq"
	require.NoError(t, cfg.Validate())
}

func TestValkeyAddrEnablesBus(t *testing.T) {
	cfg := defaultConfig()
	t.Setenv("VALKEY_ADDR", "valkey:6379")
	applyEnvOverrides(cfg)
	require.True(t, cfg.Valkey.Enabled)
	require.Equal(t, "valkey:6379", cfg.Valkey.Addr)
}
