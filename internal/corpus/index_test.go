package corpus

import (
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/kailas-cloud/ragdex/internal/domain"
)

func buildIndex(t *testing.T, vectors [][]float32) *VectorIndex {
	t.Helper()
	idx := NewVectorIndex(len(vectors[0]))
	for i, v := range vectors {
		if err := idx.Add(i, v); err != nil {
			t.Fatalf("add vector %d: %v", i, err)
		}
	}
	return idx
}

func TestVectorIndexSearch(t *testing.T) {
	idx := buildIndex(t, [][]float32{
		{1, 0, 0},
		{0, 1, 0},
		{0.9, 0.1, 0},
	})

	hits, err := idx.Search([]float32{1, 0, 0}, 3)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(hits) != 3 {
		t.Fatalf("expected 3 hits, got %d", len(hits))
	}

	if hits[0].Pos != 0 {
		t.Errorf("expected exact match first, got pos %d", hits[0].Pos)
	}
	if hits[0].Distance != 0 {
		t.Errorf("expected zero distance for exact match, got %f", hits[0].Distance)
	}
	if hits[1].Pos != 2 {
		t.Errorf("expected pos 2 second, got %d", hits[1].Pos)
	}

	// Distance is squared L2: (1-0.9)^2 + 0.1^2 = 0.02
	if math.Abs(hits[1].Distance-0.02) > 1e-6 {
		t.Errorf("expected squared L2 distance 0.02, got %f", hits[1].Distance)
	}

	for i := 1; i < len(hits); i++ {
		if hits[i].Distance < hits[i-1].Distance {
			t.Errorf("hits not sorted by distance at %d", i)
		}
	}
}

func TestVectorIndexDimensionMismatch(t *testing.T) {
	idx := NewVectorIndex(3)

	if err := idx.Add(0, []float32{1, 2}); !errors.Is(err, domain.ErrDimensionMismatch) {
		t.Errorf("Add: expected ErrDimensionMismatch, got %v", err)
	}

	_, err := idx.Search([]float32{1, 2, 3, 4}, 1)
	if !errors.Is(err, domain.ErrDimensionMismatch) {
		t.Errorf("Search: expected ErrDimensionMismatch, got %v", err)
	}
}

func TestVectorIndexEmpty(t *testing.T) {
	idx := NewVectorIndex(4)
	hits, err := idx.Search([]float32{0, 0, 0, 0}, 5)
	if err != nil {
		t.Fatalf("search on empty index: %v", err)
	}
	if len(hits) != 0 {
		t.Errorf("expected no hits, got %d", len(hits))
	}
}

func TestVectorIndexSaveLoad(t *testing.T) {
	idx := buildIndex(t, [][]float32{
		{1, 0},
		{0, 1},
		{-1, 0},
	})

	path := filepath.Join(t.TempDir(), IndexFile)
	if err := idx.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := LoadVectorIndex(path, 2)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Len() != 3 {
		t.Fatalf("expected 3 vectors after load, got %d", loaded.Len())
	}

	hits, err := loaded.Search([]float32{0.9, 0.1}, 1)
	if err != nil {
		t.Fatalf("search after load: %v", err)
	}
	if len(hits) != 1 || hits[0].Pos != 0 {
		t.Errorf("expected pos 0 nearest after reload, got %+v", hits)
	}
}

func TestLoadVectorIndexMissingFile(t *testing.T) {
	_, err := LoadVectorIndex(filepath.Join(t.TempDir(), "absent.hnsw"), 2)
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}
