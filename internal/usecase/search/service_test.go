package search

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/kailas-cloud/ragdex/internal/corpus"
	"github.com/kailas-cloud/ragdex/internal/domain"
)

type mockCorpus struct {
	docs      []domain.Document
	hits      []corpus.Hit
	searchErr error

	vectorizer *corpus.Vectorizer
	rows       []corpus.TermVector
}

func newMockCorpus(t *testing.T, docs []domain.Document, hits []corpus.Hit) *mockCorpus {
	t.Helper()
	texts := make([]string, len(docs))
	for i, d := range docs {
		texts[i] = d.Text
	}
	vec := corpus.NewVectorizer()
	rows := vec.Fit(texts)
	return &mockCorpus{docs: docs, hits: hits, vectorizer: vec, rows: rows}
}

func (m *mockCorpus) Len() int                        { return len(m.docs) }
func (m *mockCorpus) Document(pos int) domain.Document { return m.docs[pos] }

func (m *mockCorpus) SearchNearest(_ []float32, k int) ([]corpus.Hit, error) {
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	if len(m.hits) > k {
		return m.hits[:k], nil
	}
	return m.hits, nil
}

func (m *mockCorpus) TransformQuery(text string) corpus.TermVector {
	return m.vectorizer.Transform(text)
}

func (m *mockCorpus) LexicalRows() []corpus.TermVector { return m.rows }

type mockEmbedder struct {
	vector []float32
	err    error
	calls  int
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	m.calls++
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return domain.EmbeddingResult{Embedding: m.vector}, nil
}

func testDocs() []domain.Document {
	return []domain.Document{
		{Title: "Go Routines", Text: "Goroutines are lightweight threads managed by the runtime."},
		{Title: "Channels", Text: "Channels let goroutines exchange values and synchronize."},
		{Title: "Cooking Pasta", Text: "Boil salted water and cook the pasta until al dente."},
	}
}

func TestSearch_EmptyQuery(t *testing.T) {
	svc := New(newMockCorpus(t, testDocs(), nil), &mockEmbedder{vector: []float32{1, 0}})

	for _, query := range []string{"", "   ", "\t\n"} {
		if _, err := svc.Search(context.Background(), query, 5, 0.5); !errors.Is(err, domain.ErrEmptyQuery) {
			t.Errorf("query %q: expected ErrEmptyQuery, got %v", query, err)
		}
	}
}

func TestSearch_EmbedderErrorPropagates(t *testing.T) {
	wrapped := errors.New("upstream down")
	embed := &mockEmbedder{err: wrapped}
	svc := New(newMockCorpus(t, testDocs(), nil), embed)

	_, err := svc.Search(context.Background(), "goroutines", 5, 0.5)
	if !errors.Is(err, wrapped) {
		t.Fatalf("expected wrapped embedder error, got %v", err)
	}
}

func TestSearch_DenseThresholdFiltering(t *testing.T) {
	// d=1 -> sim 0.5 kept; d=4 -> sim 0.2 kept (boundary); d=9 -> sim 0.1 dropped.
	hits := []corpus.Hit{{Pos: 0, Distance: 1}, {Pos: 1, Distance: 4}, {Pos: 2, Distance: 9}}
	mc := newMockCorpus(t, testDocs(), hits)
	svc := New(mc, &mockEmbedder{vector: []float32{1, 0}})

	results, err := svc.Search(context.Background(), "zzzunmatched", 5, 1.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results after threshold filter, got %d", len(results))
	}
	if results[0].Title != "Go Routines" || results[1].Title != "Channels" {
		t.Errorf("unexpected order: %q, %q", results[0].Title, results[1].Title)
	}
}

func TestSearch_LexicalOnlyMatch(t *testing.T) {
	// No dense hits at all; the pasta document should still surface via TF-IDF.
	mc := newMockCorpus(t, testDocs(), nil)
	svc := New(mc, &mockEmbedder{vector: []float32{1, 0}})

	results, err := svc.Search(context.Background(), "pasta al dente", 5, 0.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("expected lexical-only results")
	}
	if results[0].Title != "Cooking Pasta" {
		t.Errorf("expected Cooking Pasta first, got %q", results[0].Title)
	}
}

func TestSearch_NoMatchesAnywhere(t *testing.T) {
	mc := newMockCorpus(t, testDocs(), nil)
	svc := New(mc, &mockEmbedder{vector: []float32{1, 0}})

	results, err := svc.Search(context.Background(), "quantum blockchain", 5, 0.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
}

func TestSearch_Idempotent(t *testing.T) {
	hits := []corpus.Hit{{Pos: 0, Distance: 0.5}, {Pos: 1, Distance: 1.2}}
	mc := newMockCorpus(t, testDocs(), hits)
	svc := New(mc, &mockEmbedder{vector: []float32{1, 0}})

	first, err := svc.Search(context.Background(), "goroutines channels", 5, 0.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.Search(context.Background(), "goroutines channels", 5, 0.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("same query produced different rankings:\n%v\n%v", first, second)
	}
}

func TestSearch_DefaultTopK(t *testing.T) {
	docs := make([]domain.Document, 8)
	hits := make([]corpus.Hit, 8)
	for i := range docs {
		docs[i] = domain.Document{Title: domain.DefaultTitle(i), Text: "shared overlapping tokens everywhere"}
		hits[i] = corpus.Hit{Pos: i, Distance: float64(i) * 0.1}
	}
	mc := newMockCorpus(t, docs, hits)
	svc := New(mc, &mockEmbedder{vector: []float32{1, 0}})

	results, err := svc.Search(context.Background(), "shared tokens", 0, 0.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != defaultTopK {
		t.Errorf("expected default top_k of %d, got %d", defaultTopK, len(results))
	}
}

func TestSearch_ConfiguredDefaultTopK(t *testing.T) {
	docs := make([]domain.Document, 8)
	hits := make([]corpus.Hit, 8)
	for i := range docs {
		docs[i] = domain.Document{Title: domain.DefaultTitle(i), Text: "shared overlapping tokens everywhere"}
		hits[i] = corpus.Hit{Pos: i, Distance: float64(i) * 0.1}
	}
	mc := newMockCorpus(t, docs, hits)
	svc := New(mc, &mockEmbedder{vector: []float32{1, 0}}).WithDefaultTopK(3)

	results, err := svc.Search(context.Background(), "shared tokens", 0, 0.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 3 {
		t.Errorf("expected configured top_k of 3, got %d", len(results))
	}
}

func TestSearch_ReturnAllMerged(t *testing.T) {
	// Dense and lexical candidates are disjoint: documents 0-1 match only
	// by vector, documents 2-3 only by the query tokens. With top_k=2 each
	// retriever contributes 2, so the merged union holds 4.
	docs := []domain.Document{
		{Title: "Doc A", Text: "goroutine scheduling internals"},
		{Title: "Doc B", Text: "channel buffering semantics"},
		{Title: "Doc C", Text: "boil the pasta in salted water"},
		{Title: "Doc D", Text: "fresh pasta dough recipes"},
	}
	hits := []corpus.Hit{{Pos: 0, Distance: 0.1}, {Pos: 1, Distance: 0.2}}

	t.Run("legacy mode returns the whole union", func(t *testing.T) {
		mc := newMockCorpus(t, docs, hits)
		svc := New(mc, &mockEmbedder{vector: []float32{1, 0}}).WithReturnAllMerged(true)

		results, err := svc.Search(context.Background(), "pasta", 2, 0.5)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(results) != 4 {
			t.Errorf("expected all 4 merged results in legacy mode, got %d", len(results))
		}
	})

	t.Run("default mode honors top_k", func(t *testing.T) {
		mc := newMockCorpus(t, docs, hits)
		svc := New(mc, &mockEmbedder{vector: []float32{1, 0}})

		results, err := svc.Search(context.Background(), "pasta", 2, 0.5)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(results) != 2 {
			t.Errorf("expected top_k truncation to 2, got %d", len(results))
		}
	})
}

func TestSearch_AlphaClamped(t *testing.T) {
	hits := []corpus.Hit{{Pos: 0, Distance: 0.5}}
	mc := newMockCorpus(t, testDocs(), hits)
	svc := New(mc, &mockEmbedder{vector: []float32{1, 0}})

	for _, alpha := range []float64{-3, 7} {
		results, err := svc.Search(context.Background(), "goroutines", 5, alpha)
		if err != nil {
			t.Fatalf("alpha=%g: unexpected error: %v", alpha, err)
		}
		for _, r := range results {
			if r.RelevanceScore < 0 || r.RelevanceScore > 1 {
				t.Errorf("alpha=%g: score out of range: %f", alpha, r.RelevanceScore)
			}
		}
	}
}
