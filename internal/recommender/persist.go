package recommender

import (
	"context"
	"fmt"

	"github.com/jonathan/candidate-ranker/internal/embedding"
	"github.com/jonathan/candidate-ranker/internal/snapshot"
	"go.uber.org/zap"
)

// Snapshot writes the active index to path.
func (s *Service) Snapshot(path string) error {
	st, err := s.current()
	if err != nil {
		return err
	}

	err = snapshot.Write(path, &snapshot.Snapshot{
		ID:             st.handle.ID,
		CreatedAt:      st.handle.BuiltAt,
		EncoderVersion: st.handle.EncoderVersion,
		Dimension:      st.handle.Dimension,
		Mode:           string(s.composer.Mode()),
		Profiles:       st.profiles,
		Graph:          st.graph,
	})
	if err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	s.logger.Info("snapshot written", zap.String("index_id", st.handle.ID), zap.String("path", path))
	return nil
}

// Restore replaces the active index with the snapshot at path without
// re-encoding. The snapshot must come from the same encoder version and
// embedding mode. Snapshots without a mode were built in skills mode.
func (s *Service) Restore(ctx context.Context, path string) (*Handle, error) {
	snap, err := snapshot.Read(path)
	if err != nil {
		return nil, err
	}
	if snap.EncoderVersion != s.encoder.Version() || snap.Dimension != s.encoder.Dimension() {
		return nil, &ConfigurationError{
			Message: fmt.Sprintf("snapshot encoded with %s (%d dims), service uses %s (%d dims)",
				snap.EncoderVersion, snap.Dimension, s.encoder.Version(), s.encoder.Dimension()),
		}
	}
	mode := embedding.Mode(snap.Mode)
	if mode == "" {
		mode = embedding.ModeSkills
	}
	if mode != s.composer.Mode() {
		return nil, &ConfigurationError{
			Message: fmt.Sprintf("snapshot embedded in %s mode, service uses %s mode", mode, s.composer.Mode()),
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	st := s.assemble(snap.Profiles, snap.Graph, snap.ID, snap.CreatedAt)
	s.state.Store(st)
	s.metrics.SetIndexSize(st.handle.Size)

	s.logger.Info("snapshot restored",
		zap.String("index_id", snap.ID),
		zap.Int("profiles", len(snap.Profiles)),
		zap.String("path", path),
	)
	h := *st.handle
	return &h, nil
}
