package search

import (
	"math"
	"sort"

	"github.com/kailas-cloud/ragdex/internal/domain"
)

// normEpsilon guards the min-max division: when every score in a list is
// equal, each entry normalizes to 0 instead of NaN.
const normEpsilon = 1e-8

// normalize min-max scales candidate scores to [0,1], per list.
func normalize(candidates []domain.Candidate) []float64 {
	if len(candidates) == 0 {
		return nil
	}

	minS, maxS := candidates[0].Score, candidates[0].Score
	for _, c := range candidates[1:] {
		if c.Score < minS {
			minS = c.Score
		}
		if c.Score > maxS {
			maxS = c.Score
		}
	}

	norms := make([]float64, len(candidates))
	for i, c := range candidates {
		norms[i] = (c.Score - minS) / (maxS - minS + normEpsilon)
	}
	return norms
}

// fuse blends the two candidate lists into one ranking keyed by corpus
// position. alpha weighs the dense signal: 0 is pure lexical, 1 pure dense.
// A dense candidate absent from the lexical list contributes lexical 0 and
// vice versa, so the merged list is the union of both. Results sort by
// rounded score descending, stable on dense-then-lexical insertion order.
// topK is honored unless returnAll replicates the legacy over-returning.
func fuse(dense, lexical []domain.Candidate, alpha float64, topK int, returnAll bool) []domain.FusedResult {
	denseNorm := normalize(dense)
	lexNorm := normalize(lexical)

	lexByPos := make(map[int]float64, len(lexical))
	for i, c := range lexical {
		lexByPos[c.Pos] = lexNorm[i]
	}

	type entry struct {
		doc   domain.Document
		score float64
	}
	merged := make([]entry, 0, len(dense)+len(lexical))
	seen := make(map[int]struct{}, len(dense)+len(lexical))

	for i, c := range dense {
		relevance := alpha*denseNorm[i] + (1-alpha)*lexByPos[c.Pos]
		merged = append(merged, entry{doc: c.Document, score: round2(relevance)})
		seen[c.Pos] = struct{}{}
	}

	for i, c := range lexical {
		if _, ok := seen[c.Pos]; ok {
			continue
		}
		merged = append(merged, entry{doc: c.Document, score: round2((1 - alpha) * lexNorm[i])})
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].score > merged[j].score
	})

	if !returnAll && len(merged) > topK {
		merged = merged[:topK]
	}

	results := make([]domain.FusedResult, len(merged))
	for i, e := range merged {
		results[i] = domain.FusedResult{
			Title:          e.doc.Title,
			Text:           e.doc.Text,
			Snippet:        e.doc.Snippet(),
			RelevanceScore: e.score,
		}
	}
	return results
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
