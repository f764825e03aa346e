// Package snapshot persists a built index to a single JSON file and loads it
// back.
package snapshot

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/candidate-ranker/internal/graph"
	"github.com/jonathan/candidate-ranker/internal/schemas"
	"github.com/jonathan/candidate-ranker/internal/types"
	"golang.org/x/crypto/blake2b"
)

// Format tags the envelope so incompatible layouts are rejected up front.
const Format = "candidate-ranker/v1"

// Snapshot is everything needed to restore an index without re-encoding.
type Snapshot struct {
	ID             string                 `json:"id"`
	CreatedAt      time.Time              `json:"created_at"`
	EncoderVersion string                 `json:"encoder_version"`
	Dimension      int                    `json:"dimension"`
	Mode           string                 `json:"mode,omitempty"`
	Profiles       []types.IndexedProfile `json:"profiles"`
	Graph          *graph.SkillGraph      `json:"graph"`
}

type envelope struct {
	Format   string          `json:"format"`
	Checksum string          `json:"checksum"`
	Snapshot json.RawMessage `json:"snapshot"`
}

// CorruptError reports a snapshot whose contents do not match its checksum.
type CorruptError struct {
	Path    string
	Message string
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("snapshot %s is corrupt: %s", e.Path, e.Message)
}

// Write stores snap at path. The file is written to a temporary sibling,
// synced and renamed, so readers see either the old file or the new one.
func Write(path string, snap *Snapshot) error {
	if snap == nil {
		return fmt.Errorf("snapshot is nil")
	}
	if snap.Graph == nil {
		snap.Graph = graph.Build(nil)
	}

	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	data, err := json.Marshal(envelope{
		Format:   Format,
		Checksum: checksum(payload),
		Snapshot: payload,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot envelope: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	tmp := fmt.Sprintf("%s.tmp-%s", path, uuid.NewString())
	if err := writeSynced(tmp, data); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to move snapshot into place: %w", err)
	}
	return nil
}

func writeSynced(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create snapshot file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to sync snapshot: %w", err)
	}
	return f.Close()
}

// Read loads and verifies the snapshot at path.
func Read(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	if err := schemas.Validate(schemas.Snapshot, data); err != nil {
		return nil, fmt.Errorf("snapshot %s failed schema validation: %w", path, err)
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot envelope: %w", err)
	}
	if got := checksum(compact(env.Snapshot)); got != env.Checksum {
		return nil, &CorruptError{Path: path, Message: "checksum mismatch"}
	}

	var snap Snapshot
	if err := json.Unmarshal(env.Snapshot, &snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	for i, p := range snap.Profiles {
		if len(p.Embedding) != snap.Dimension {
			return nil, &CorruptError{
				Path:    path,
				Message: fmt.Sprintf("profile %d has %d dimensions, expected %d", i, len(p.Embedding), snap.Dimension),
			}
		}
	}
	return &snap, nil
}

// compact strips insignificant whitespace so a reformatted file still
// verifies.
func compact(raw []byte) []byte {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return raw
	}
	return buf.Bytes()
}

func checksum(payload []byte) string {
	sum := blake2b.Sum256(payload)
	return hex.EncodeToString(sum[:])
}
