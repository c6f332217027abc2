package suggest

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/kailas-cloud/ragdex/internal/domain"
)

type mockCorpus struct {
	docs    []domain.Document
	vectors [][]float32
}

func (m *mockCorpus) Len() int                         { return len(m.docs) }
func (m *mockCorpus) Document(pos int) domain.Document { return m.docs[pos] }
func (m *mockCorpus) HasVectors() bool                 { return len(m.vectors) > 0 }

func (m *mockCorpus) DocVector(pos int) []float32 {
	if pos >= len(m.vectors) {
		return nil
	}
	return m.vectors[pos]
}

type mockEmbedder struct {
	vector []float32
	err    error
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return domain.EmbeddingResult{Embedding: m.vector}, nil
}

func TestSuggest_RanksByCosine(t *testing.T) {
	mc := &mockCorpus{
		docs: []domain.Document{
			{Title: "Orthogonal"},
			{Title: "Aligned"},
			{Title: "Opposed"},
		},
		vectors: [][]float32{
			{0, 1},
			{1, 0},
			{-1, 0},
		},
	}
	svc := New(mc, &mockEmbedder{vector: []float32{1, 0}})

	titles, err := svc.Suggest(context.Background(), "anything")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"Aligned", "Orthogonal", "Opposed"}
	if !reflect.DeepEqual(titles, want) {
		t.Errorf("expected %v, got %v", want, titles)
	}
}

func TestSuggest_CapsAtFive(t *testing.T) {
	docs := make([]domain.Document, 8)
	vectors := make([][]float32, 8)
	for i := range docs {
		docs[i] = domain.Document{Title: domain.DefaultTitle(i)}
		vectors[i] = []float32{1, float32(i)}
	}
	svc := New(&mockCorpus{docs: docs, vectors: vectors}, &mockEmbedder{vector: []float32{1, 0}})

	titles, err := svc.Suggest(context.Background(), "query")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(titles) != 5 {
		t.Errorf("expected 5 suggestions, got %d", len(titles))
	}
}

func TestSuggest_TieBreaksByPosition(t *testing.T) {
	mc := &mockCorpus{
		docs: []domain.Document{
			{Title: "First"},
			{Title: "Second"},
		},
		vectors: [][]float32{
			{1, 0},
			{2, 0}, // same direction, same cosine
		},
	}
	svc := New(mc, &mockEmbedder{vector: []float32{1, 0}})

	titles, err := svc.Suggest(context.Background(), "query")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"First", "Second"}
	if !reflect.DeepEqual(titles, want) {
		t.Errorf("expected %v, got %v", want, titles)
	}
}

func TestSuggest_UnavailableWithoutVectors(t *testing.T) {
	svc := New(&mockCorpus{docs: []domain.Document{{Title: "a"}}}, &mockEmbedder{vector: []float32{1}})

	_, err := svc.Suggest(context.Background(), "query")
	if !errors.Is(err, domain.ErrSuggestUnavailable) {
		t.Fatalf("expected ErrSuggestUnavailable, got %v", err)
	}
}

func TestSuggest_EmptyQuery(t *testing.T) {
	svc := New(&mockCorpus{}, &mockEmbedder{vector: []float32{1}})

	if _, err := svc.Suggest(context.Background(), "  "); !errors.Is(err, domain.ErrEmptyQuery) {
		t.Fatalf("expected ErrEmptyQuery, got %v", err)
	}
}

func TestSuggest_EmbedderErrorPropagates(t *testing.T) {
	boom := errors.New("provider down")
	svc := New(
		&mockCorpus{docs: []domain.Document{{Title: "a"}}, vectors: [][]float32{{1}}},
		&mockEmbedder{err: boom},
	)

	if _, err := svc.Suggest(context.Background(), "query"); !errors.Is(err, boom) {
		t.Fatalf("expected embedder error, got %v", err)
	}
}

func TestCosine(t *testing.T) {
	if got := cosine([]float32{1, 0}, []float32{1, 0}); got != 1 {
		t.Errorf("identical vectors: expected 1, got %f", got)
	}
	if got := cosine([]float32{1, 0}, []float32{0, 1}); got != 0 {
		t.Errorf("orthogonal vectors: expected 0, got %f", got)
	}
	if got := cosine([]float32{0, 0}, []float32{1, 0}); got != 0 {
		t.Errorf("zero vector: expected 0, got %f", got)
	}
	if got := cosine([]float32{1}, []float32{1, 0}); got != 0 {
		t.Errorf("dimension mismatch: expected 0, got %f", got)
	}
}
