package corpus

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kailas-cloud/ragdex/internal/domain"
)

// Snapshot artifact file names inside the corpus directory.
const (
	SnapshotFile = "documents.json"
	IndexFile    = "vectors.hnsw"
)

// Snapshot is the persisted document list produced by the offline indexer.
// Vectors holds the document embeddings used for title suggestions; a snapshot
// without them still serves search, with suggestions degraded to empty.
type Snapshot struct {
	Model     string            `json:"model"`
	Dimension int               `json:"dimension"`
	Documents []domain.Document `json:"documents"`
	Vectors   [][]float32       `json:"vectors,omitempty"`
}

// ReadSnapshot loads a snapshot file and fills in placeholder titles
// for untitled documents.
func ReadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}

	for i := range snap.Documents {
		if snap.Documents[i].Title == "" {
			snap.Documents[i].Title = domain.DefaultTitle(i)
		}
	}
	return &snap, nil
}

// Write persists the snapshot atomically (temp file + rename).
func (s *Snapshot) Write(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create snapshot directory: %w", err)
	}

	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename snapshot: %w", err)
	}
	return nil
}
