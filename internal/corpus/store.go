package corpus

import (
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/kailas-cloud/ragdex/internal/domain"
)

// Handle is the read-only corpus state: documents, the dense vector index,
// the fitted TF-IDF model, and (optionally) raw document embeddings.
// The three indexed structures share the corpus ordering; Load refuses
// artifacts where they disagree. A Handle is safe for concurrent use
// without locking once constructed.
type Handle struct {
	docs       []domain.Document
	vectors    [][]float32
	index      *VectorIndex
	vectorizer *Vectorizer
	lexical    []TermVector
}

// New builds a Handle from in-memory parts, fitting the TF-IDF model over
// the document texts in corpus order. vectors may be nil.
func New(docs []domain.Document, vectors [][]float32, index *VectorIndex) *Handle {
	texts := make([]string, len(docs))
	for i, d := range docs {
		texts[i] = d.Text
	}
	v := NewVectorizer()
	rows := v.Fit(texts)

	return &Handle{
		docs:       docs,
		vectors:    vectors,
		index:      index,
		vectorizer: v,
		lexical:    rows,
	}
}

// Load reads the persisted snapshot and vector index from dir and verifies
// their mutual consistency against the embedding provider's dimension.
// All failures wrap domain.ErrCorpusLoad.
func Load(dir string, dim int, logger *zap.Logger) (*Handle, error) {
	snap, err := ReadSnapshot(filepath.Join(dir, SnapshotFile))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrCorpusLoad, err)
	}

	if snap.Dimension != dim {
		return nil, fmt.Errorf("%w: snapshot dimension %d, embedder dimension %d",
			domain.ErrCorpusLoad, snap.Dimension, dim)
	}

	index, err := LoadVectorIndex(filepath.Join(dir, IndexFile), dim)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrCorpusLoad, err)
	}

	if index.Len() != len(snap.Documents) {
		return nil, fmt.Errorf("%w: %d documents but %d indexed vectors",
			domain.ErrCorpusLoad, len(snap.Documents), index.Len())
	}

	if len(snap.Vectors) > 0 && len(snap.Vectors) != len(snap.Documents) {
		return nil, fmt.Errorf("%w: %d documents but %d stored vectors",
			domain.ErrCorpusLoad, len(snap.Documents), len(snap.Vectors))
	}

	h := New(snap.Documents, snap.Vectors, index)

	logger.Info("Corpus loaded",
		zap.Int("documents", len(h.docs)),
		zap.Int("dimension", dim),
		zap.Int("vocabulary", h.vectorizer.Dimension()),
		zap.Bool("doc_vectors", h.HasVectors()),
		zap.String("model", snap.Model),
	)
	return h, nil
}

// Len returns the number of documents.
func (h *Handle) Len() int { return len(h.docs) }

// Document returns the document at the given corpus position.
func (h *Handle) Document(pos int) domain.Document { return h.docs[pos] }

// Documents returns all documents in corpus order.
func (h *Handle) Documents() []domain.Document { return h.docs }

// SearchNearest queries the dense index for the k nearest document vectors.
func (h *Handle) SearchNearest(query []float32, k int) ([]Hit, error) {
	return h.index.Search(query, k)
}

// TransformQuery maps a query into the frozen TF-IDF space.
func (h *Handle) TransformQuery(text string) TermVector {
	return h.vectorizer.Transform(text)
}

// LexicalRows returns the per-document TF-IDF rows in corpus order.
func (h *Handle) LexicalRows() []TermVector { return h.lexical }

// HasVectors reports whether raw document embeddings were loaded.
func (h *Handle) HasVectors() bool { return len(h.vectors) > 0 }

// DocVector returns the stored embedding for the given corpus position,
// nil when the snapshot carried no vectors.
func (h *Handle) DocVector(pos int) []float32 {
	if pos < 0 || pos >= len(h.vectors) {
		return nil
	}
	return h.vectors[pos]
}
