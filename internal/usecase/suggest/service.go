package suggest

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/kailas-cloud/ragdex/internal/domain"
)

// maxSuggestions caps the number of titles returned per query.
const maxSuggestions = 5

// Corpus is the read-only corpus view the suggester scans. Document
// vectors may be absent when the snapshot was built without them.
type Corpus interface {
	Len() int
	Document(pos int) domain.Document
	HasVectors() bool
	DocVector(pos int) []float32
}

// Embedder vectorizes query text.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// Service suggests document titles related to a query by cosine
// similarity over the stored document embeddings.
type Service struct {
	corpus Corpus
	embed  Embedder
}

func New(corpus Corpus, embed Embedder) *Service {
	return &Service{corpus: corpus, embed: embed}
}

// Suggest returns up to five document titles ranked by cosine similarity
// to the query. It fails with ErrSuggestUnavailable when the corpus
// carries no document vectors.
func (s *Service) Suggest(ctx context.Context, query string) ([]string, error) {
	if strings.TrimSpace(query) == "" {
		return nil, domain.ErrEmptyQuery
	}
	if !s.corpus.HasVectors() {
		return nil, domain.ErrSuggestUnavailable
	}

	emb, err := s.embed.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("vectorize query: %w", err)
	}

	type scored struct {
		pos   int
		score float64
	}
	ranked := make([]scored, 0, s.corpus.Len())
	for pos := 0; pos < s.corpus.Len(); pos++ {
		vec := s.corpus.DocVector(pos)
		if vec == nil {
			continue
		}
		ranked = append(ranked, scored{pos: pos, score: cosine(emb.Embedding, vec)})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].pos < ranked[j].pos
	})

	if len(ranked) > maxSuggestions {
		ranked = ranked[:maxSuggestions]
	}

	titles := make([]string, len(ranked))
	for i, r := range ranked {
		titles[i] = s.corpus.Document(r.pos).Title
	}
	return titles, nil
}

// cosine returns the cosine similarity of a and b, 0 when either side
// has zero magnitude or the dimensions differ.
func cosine(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
