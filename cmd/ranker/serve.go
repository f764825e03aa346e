package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/candidate-ranker/internal/server"
)

var (
	servePort     int
	serveSnapshot string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: "Start an HTTP server that exposes search, learnability and stats endpoints. The index is restored " +
		"from a snapshot when one exists, otherwise built from the profile database when configured.",
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (defaults to server.port)")
	serveCmd.Flags().StringVarP(&serveSnapshot, "snapshot", "s", "", "Path to an index snapshot (defaults to snapshot_path)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	deps := server.Deps{
		Service:  a.svc,
		Logger:   a.logger,
		Gatherer: a.registry,
	}
	if a.cfg.DatabaseURL != "" {
		database, err := a.connectDB(ctx)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		deps.Source = database
	}

	snapshotPath := serveSnapshot
	if snapshotPath == "" {
		snapshotPath = a.cfg.SnapshotPath
	}
	switch {
	case snapshotPath != "" && fileExists(snapshotPath):
		if _, err := a.svc.Restore(ctx, snapshotPath); err != nil {
			return err
		}
	case deps.Source != nil:
		profiles, err := deps.Source.ListProfiles(ctx)
		if err != nil {
			return err
		}
		if len(profiles) > 0 {
			if _, err := a.svc.BuildIndex(ctx, profiles); err != nil {
				return fmt.Errorf("failed to build index: %w", err)
			}
		}
	default:
		a.logger.Warn("starting without an index; POST /admin/rebuild once a profile store is configured")
	}

	port := a.cfg.Server.Port
	if servePort > 0 {
		port = servePort
	}

	srv, err := server.New(server.Config{Port: port, RateLimit: a.cfg.Server.RateLimit}, deps)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}
	if h := a.svc.Handle(); h != nil {
		a.logger.Info("index ready", zap.String("index_id", h.ID), zap.Int("profiles", h.Size))
	}
	return srv.Start()
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, fs.ErrNotExist)
}
