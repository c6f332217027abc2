package search

import (
	"context"

	"github.com/kailas-cloud/ragdex/internal/corpus"
	"github.com/kailas-cloud/ragdex/internal/domain"
)

// Corpus is the read-only corpus view the retrievers work against.
type Corpus interface {
	Len() int
	Document(pos int) domain.Document
	SearchNearest(query []float32, k int) ([]corpus.Hit, error)
	TransformQuery(text string) corpus.TermVector
	LexicalRows() []corpus.TermVector
}

// Embedder vectorizes query text.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
