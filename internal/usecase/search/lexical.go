package search

import (
	"sort"

	"github.com/kailas-cloud/ragdex/internal/domain"
)

// searchLexical scores the query against every corpus row in the frozen
// TF-IDF space and keeps the topK highest. Documents sharing no vocabulary
// with the query (zero score) are not matches. Ties break by corpus
// position ascending.
func (s *Service) searchLexical(query string, topK int) []domain.Candidate {
	qv := s.corpus.TransformQuery(query)
	if len(qv) == 0 {
		return nil
	}

	rows := s.corpus.LexicalRows()
	candidates := make([]domain.Candidate, 0, topK)
	for pos, row := range rows {
		score := qv.Dot(row)
		if score == 0 {
			continue
		}
		candidates = append(candidates, domain.Candidate{
			Pos:      pos,
			Document: s.corpus.Document(pos),
			Score:    score,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].Pos < candidates[j].Pos
	})

	if len(candidates) > topK {
		candidates = candidates[:topK]
	}
	return candidates
}
