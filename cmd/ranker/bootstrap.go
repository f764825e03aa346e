package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/jonathan/candidate-ranker/internal/config"
	"github.com/jonathan/candidate-ranker/internal/db"
	"github.com/jonathan/candidate-ranker/internal/embedding"
	"github.com/jonathan/candidate-ranker/internal/observability"
	"github.com/jonathan/candidate-ranker/internal/recommender"
	"github.com/jonathan/candidate-ranker/internal/schemas"
	"github.com/jonathan/candidate-ranker/internal/types"
)

// app bundles everything a command needs.
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	registry *prometheus.Registry
	svc      *recommender.Service
	closers  []func()
}

// newApp loads configuration and wires the recommender service.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	logger, err := observability.NewLogger(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	a := &app{cfg: cfg, logger: logger, registry: prometheus.NewRegistry()}
	a.closers = append(a.closers, func() { _ = logger.Sync() })

	enc, err := embedding.New(ctx, cfg.EncoderSettings())
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create encoder: %w", err)
	}

	cache, err := a.newCache(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	svc, err := recommender.New(cfg.RecommenderOptions(), recommender.Dependencies{
		Encoder:        enc,
		Cache:          cache,
		EncoderTimeout: cfg.Encoder.Timeout,
		Logger:         logger,
		Metrics:        observability.NewMetrics(a.registry),
	})
	if err != nil {
		a.Close()
		return nil, err
	}
	a.svc = svc

	logger.Debug("ranker configured",
		zap.String("encoder", enc.Version()),
		zap.String("cache", cfg.Cache.Kind),
		zap.String("lexical_backend", cfg.Retrieval.LexicalBackend),
	)
	return a, nil
}

func (a *app) newCache(ctx context.Context) (embedding.Cache, error) {
	switch a.cfg.Cache.Kind {
	case "redis":
		rc, err := embedding.NewRedisCache(ctx, a.cfg.Cache.RedisAddr, a.cfg.Cache.TTL)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() { _ = rc.Close() })
		return rc, nil
	case "memory":
		return embedding.NewMemoryCache(a.cfg.Cache.Capacity), nil
	default:
		return nil, nil
	}
}

// connectDB opens the profile store named by the configured database URL.
func (a *app) connectDB(ctx context.Context) (*db.DB, error) {
	if a.cfg.DatabaseURL == "" {
		return nil, errors.New("database_url is not configured (set RANKER_DATABASE_URL)")
	}
	database, err := db.Connect(ctx, a.cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := database.EnsureSchema(ctx); err != nil {
		database.Close()
		return nil, err
	}
	a.closers = append(a.closers, database.Close)
	return database, nil
}

// restore loads the snapshot at path, falling back to the configured one.
func (a *app) restore(ctx context.Context, path string) (*recommender.Handle, error) {
	if path == "" {
		path = a.cfg.SnapshotPath
	}
	if path == "" {
		return nil, errors.New("no snapshot given (use --snapshot or set snapshot_path)")
	}
	return a.svc.Restore(ctx, path)
}

// Close releases resources in reverse order of acquisition.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// loadProfiles reads and schema-checks a profiles JSON file.
func loadProfiles(path string) ([]types.Profile, error) {
	if err := schemas.ValidateFile(schemas.Profiles, path); err != nil {
		return nil, fmt.Errorf("invalid profiles file %s: %w", path, err)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profiles file %s: %w", path, err)
	}
	var profiles []types.Profile
	if err := json.Unmarshal(content, &profiles); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profiles JSON: %w", err)
	}
	return profiles, nil
}

// splitList parses a comma-separated flag value.
func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	out = append(out, '\n')
	_, err = w.Write(out)
	return err
}
