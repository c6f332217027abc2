package search

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/ragdex/internal/domain"
)

// similarityThreshold drops dense candidates whose distance-derived
// similarity falls below it.
const similarityThreshold = 0.2

// searchDense embeds the query and runs nearest-neighbor search.
// Distance d maps to similarity 1/(1+d), bounded in (0,1]; candidates
// below the threshold are dropped. Order is ascending distance with
// corpus-position tie-break, both guaranteed by the index.
func (s *Service) searchDense(ctx context.Context, query string, topK int) ([]domain.Candidate, error) {
	emb, err := s.embed.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("vectorize query: %w", err)
	}

	hits, err := s.corpus.SearchNearest(emb.Embedding, topK)
	if err != nil {
		return nil, fmt.Errorf("search nearest: %w", err)
	}

	candidates := make([]domain.Candidate, 0, len(hits))
	for _, hit := range hits {
		similarity := 1.0 / (1.0 + hit.Distance)
		if similarity < similarityThreshold {
			continue
		}
		candidates = append(candidates, domain.Candidate{
			Pos:      hit.Pos,
			Document: s.corpus.Document(hit.Pos),
			Score:    similarity,
			Distance: hit.Distance,
		})
	}
	return candidates, nil
}
