package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "hashing", cfg.Encoder.Kind)
	assert.Equal(t, 10*time.Second, cfg.Encoder.Timeout)
	assert.True(t, cfg.Retrieval.Hybrid)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoad_NoFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().Retrieval, cfg.Retrieval)
	assert.Equal(t, Default().Ingest, cfg.Ingest)
}

func TestLoad_YAMLFile(t *testing.T) {
	content := `
encoder:
  kind: hashing
  dimension: 128
  timeout: 3s
retrieval:
  lexical_backend: bleve
  hybrid: false
server:
  port: 9090
snapshot_path: /tmp/index.json
`
	path := filepath.Join(t.TempDir(), "ranker.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 128, cfg.Encoder.Dimension)
	assert.Equal(t, 3*time.Second, cfg.Encoder.Timeout)
	assert.Equal(t, "bleve", cfg.Retrieval.LexicalBackend)
	assert.False(t, cfg.Retrieval.Hybrid)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "/tmp/index.json", cfg.SnapshotPath)
	// Keys absent from the file keep their defaults.
	assert.Equal(t, 50, cfg.Retrieval.PrefilterTopN)
}

func TestLoad_JSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ranker.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"ingest": {"workers": 2}, "log": {"json": true}}`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Ingest.Workers)
	assert.True(t, cfg.Log.JSON)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ranker.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"server": {"port": 9000}}`), 0644))
	t.Setenv("RANKER_SERVER_PORT", "9100")
	t.Setenv("RANKER_DATABASE_URL", "postgres://localhost/ranker")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, "postgres://localhost/ranker", cfg.DatabaseURL)
}

func TestLoad_FileNotFound(t *testing.T) {
	cfg, err := Load("/nonexistent/path/ranker.yaml")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Setenv("RANKER_ENCODER_KIND", "word2vec")

	cfg, err := Load("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "config error")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"openai without key", func(c *Config) { c.Encoder.Kind = "openai" }, true},
		{"openai with key", func(c *Config) { c.Encoder.Kind = "openai"; c.Encoder.APIKey = "sk-test" }, false},
		{"redis without address", func(c *Config) { c.Cache.Kind = "redis" }, true},
		{"redis with address", func(c *Config) { c.Cache.Kind = "redis"; c.Cache.RedisAddr = "localhost:6379" }, false},
		{"unknown lexical backend", func(c *Config) { c.Retrieval.LexicalBackend = "solr" }, true},
		{"zero workers", func(c *Config) { c.Ingest.Workers = 0 }, true},
		{"negative rate limit", func(c *Config) { c.Server.RateLimit = -1 }, true},
		{"zero timeout", func(c *Config) { c.Encoder.Timeout = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConversions(t *testing.T) {
	cfg := Default()
	cfg.Encoder.Mode = "sections"
	cfg.Ingest.Workers = 3

	opts := cfg.RecommenderOptions()
	assert.Equal(t, 3, opts.Workers)
	assert.Equal(t, "sections", string(opts.Mode))
	assert.True(t, opts.Hybrid)

	enc := cfg.EncoderSettings()
	assert.Equal(t, "hashing", string(enc.Kind))
}
