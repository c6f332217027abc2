package search

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/ragdex/internal/domain"
	"github.com/kailas-cloud/ragdex/internal/metrics"
)

// defaultTopK is used when the caller passes a non-positive top_k.
const defaultTopK = 5

// Service runs hybrid retrieval: dense and lexical search fused into
// one ranking.
type Service struct {
	corpus    Corpus
	embed     Embedder
	fallback  int
	returnAll bool
}

// New creates a hybrid search service.
func New(corpus Corpus, embed Embedder) *Service {
	return &Service{corpus: corpus, embed: embed, fallback: defaultTopK}
}

// WithDefaultTopK overrides the fallback top_k applied when a request
// carries no positive value.
func (s *Service) WithDefaultTopK(k int) *Service {
	if k > 0 {
		s.fallback = k
	}
	return s
}

// WithReturnAllMerged makes Search return every merged candidate instead of
// truncating to top_k, replicating the legacy service's behavior.
func (s *Service) WithReturnAllMerged(on bool) *Service {
	s.returnAll = on
	return s
}

// Search runs both retrievers concurrently and fuses their rankings.
// alpha weighs the dense signal and must be in [0,1]; out-of-range values
// are clamped.
func (s *Service) Search(ctx context.Context, query string, topK int, alpha float64) ([]domain.FusedResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, domain.ErrEmptyQuery
	}
	if topK <= 0 {
		topK = s.fallback
	}
	if alpha < 0 {
		alpha = 0
	} else if alpha > 1 {
		alpha = 1
	}

	var (
		dense   []domain.Candidate
		lexical []domain.Candidate
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		dense, err = s.searchDense(gctx, query, topK)
		return err
	})
	g.Go(func() error {
		lexical = s.searchLexical(query, topK)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("hybrid search: %w", err)
	}

	metrics.RetrievalCandidatesTotal.WithLabelValues("dense").Add(float64(len(dense)))
	metrics.RetrievalCandidatesTotal.WithLabelValues("lexical").Add(float64(len(lexical)))

	results := fuse(dense, lexical, alpha, topK, s.returnAll)
	metrics.RetrievalCandidatesTotal.WithLabelValues("fused").Add(float64(len(results)))
	return results, nil
}
