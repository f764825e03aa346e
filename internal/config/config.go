// Package config provides configuration loading and validation for the CLI
// and server.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/candidate-ranker/internal/embedding"
	"github.com/jonathan/candidate-ranker/internal/index"
	"github.com/jonathan/candidate-ranker/internal/recommender"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g.
// RANKER_ENCODER_KIND.
const EnvPrefix = "RANKER"

// Config is the full ranker configuration. Precedence, lowest first:
// defaults, the config file, environment variables.
type Config struct {
	Encoder      EncoderConfig   `mapstructure:"encoder" validate:"required"`
	Cache        CacheConfig     `mapstructure:"cache" validate:"required"`
	Retrieval    RetrievalConfig `mapstructure:"retrieval" validate:"required"`
	Ingest       IngestConfig    `mapstructure:"ingest" validate:"required"`
	Server       ServerConfig    `mapstructure:"server" validate:"required"`
	Log          LogConfig       `mapstructure:"log"`
	DatabaseURL  string          `mapstructure:"database_url"`
	SnapshotPath string          `mapstructure:"snapshot_path"`
}

// EncoderConfig selects and tunes the text encoder.
type EncoderConfig struct {
	Kind      string        `mapstructure:"kind" validate:"required,oneof=hashing openai gemini"`
	Dimension int           `mapstructure:"dimension" validate:"min=0,max=8192"` // 0 selects the encoder's native size
	Model     string        `mapstructure:"model"`
	APIKey    string        `mapstructure:"api_key" validate:"required_unless=Kind hashing"`
	BaseURL   string        `mapstructure:"base_url"`
	Timeout   time.Duration `mapstructure:"timeout" validate:"gt=0"`
	Mode      string        `mapstructure:"mode" validate:"required,oneof=skills sections"`
}

// CacheConfig selects the embedding cache.
type CacheConfig struct {
	Kind      string        `mapstructure:"kind" validate:"required,oneof=none memory redis"`
	Capacity  int           `mapstructure:"capacity" validate:"min=0"`
	RedisAddr string        `mapstructure:"redis_addr" validate:"required_if=Kind redis"`
	TTL       time.Duration `mapstructure:"ttl" validate:"min=0"`
}

// RetrievalConfig controls which indexes are built.
type RetrievalConfig struct {
	Hybrid               bool   `mapstructure:"hybrid"`
	LexicalBackend       string `mapstructure:"lexical_backend" validate:"required,oneof=bm25 bleve"`
	PrefilterTopN        int    `mapstructure:"prefilter_top_n" validate:"min=1"`
	Approximate          bool   `mapstructure:"approximate"`
	ApproximateMinCorpus int    `mapstructure:"approximate_min_corpus" validate:"min=1"`
	Trees                int    `mapstructure:"trees" validate:"min=1,max=100"`
}

// IngestConfig controls index builds.
type IngestConfig struct {
	Workers int `mapstructure:"workers" validate:"min=1,max=256"`
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Port      int `mapstructure:"port" validate:"min=1,max=65535"`
	RateLimit int `mapstructure:"rate_limit" validate:"min=0"` // requests per minute per client, 0 disables
}

// LogConfig controls the zap logger.
type LogConfig struct {
	JSON  bool `mapstructure:"json"`
	Debug bool `mapstructure:"debug"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Encoder: EncoderConfig{
			Kind:    string(embedding.KindHashing),
			Timeout: embedding.DefaultTimeout,
			Mode:    string(embedding.ModeSkills),
		},
		Cache: CacheConfig{
			Kind:     "memory",
			Capacity: 10000,
			TTL:      24 * time.Hour,
		},
		Retrieval: RetrievalConfig{
			Hybrid:               true,
			LexicalBackend:       index.BackendBM25,
			PrefilterTopN:        50,
			Approximate:          true,
			ApproximateMinCorpus: recommender.DefaultApproximateMinCorpus,
			Trees:                index.DefaultTrees,
		},
		Ingest: IngestConfig{Workers: recommender.DefaultWorkers},
		Server: ServerConfig{Port: 8080, RateLimit: 600},
	}
}

// Load reads configuration from path (optional; JSON, YAML or TOML by
// extension) and RANKER_* environment variables, then validates it.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// setDefaults registers every key so environment variables can override
// keys absent from the config file.
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("encoder.kind", d.Encoder.Kind)
	v.SetDefault("encoder.dimension", d.Encoder.Dimension)
	v.SetDefault("encoder.model", d.Encoder.Model)
	v.SetDefault("encoder.api_key", d.Encoder.APIKey)
	v.SetDefault("encoder.base_url", d.Encoder.BaseURL)
	v.SetDefault("encoder.timeout", d.Encoder.Timeout)
	v.SetDefault("encoder.mode", d.Encoder.Mode)

	v.SetDefault("cache.kind", d.Cache.Kind)
	v.SetDefault("cache.capacity", d.Cache.Capacity)
	v.SetDefault("cache.redis_addr", d.Cache.RedisAddr)
	v.SetDefault("cache.ttl", d.Cache.TTL)

	v.SetDefault("retrieval.hybrid", d.Retrieval.Hybrid)
	v.SetDefault("retrieval.lexical_backend", d.Retrieval.LexicalBackend)
	v.SetDefault("retrieval.prefilter_top_n", d.Retrieval.PrefilterTopN)
	v.SetDefault("retrieval.approximate", d.Retrieval.Approximate)
	v.SetDefault("retrieval.approximate_min_corpus", d.Retrieval.ApproximateMinCorpus)
	v.SetDefault("retrieval.trees", d.Retrieval.Trees)

	v.SetDefault("ingest.workers", d.Ingest.Workers)

	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.rate_limit", d.Server.RateLimit)

	v.SetDefault("log.json", d.Log.JSON)
	v.SetDefault("log.debug", d.Log.Debug)

	v.SetDefault("database_url", d.DatabaseURL)
	v.SetDefault("snapshot_path", d.SnapshotPath)
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	return nil
}

// EncoderSettings converts the encoder section for embedding.New.
func (c *Config) EncoderSettings() embedding.Config {
	return embedding.Config{
		Kind:      embedding.Kind(c.Encoder.Kind),
		Dimension: c.Encoder.Dimension,
		Model:     c.Encoder.Model,
		APIKey:    c.Encoder.APIKey,
		BaseURL:   c.Encoder.BaseURL,
	}
}

// RecommenderOptions converts the retrieval and ingest sections.
func (c *Config) RecommenderOptions() recommender.Options {
	return recommender.Options{
		Hybrid:               c.Retrieval.Hybrid,
		LexicalBackend:       c.Retrieval.LexicalBackend,
		PrefilterTopN:        c.Retrieval.PrefilterTopN,
		Approximate:          c.Retrieval.Approximate,
		ApproximateMinCorpus: c.Retrieval.ApproximateMinCorpus,
		Trees:                c.Retrieval.Trees,
		Workers:              c.Ingest.Workers,
		Mode:                 embedding.Mode(c.Encoder.Mode),
	}
}
