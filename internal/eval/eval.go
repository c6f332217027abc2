// Package eval provides offline retrieval quality metrics for corpus
// tuning: precision@k over expected titles and query coverage. It is a
// library for benchmark harnesses, not part of the serving path.
package eval

// QueryResult pairs one query's expected titles with the titles the
// search actually returned, in rank order.
type QueryResult struct {
	Expected  []string
	Retrieved []string
}

// PrecisionAtK returns the average precision@k across queries: per
// query, the share of the first k retrieved titles that appear in the
// expected set. A query with no retrieved titles scores 0.
func PrecisionAtK(results []QueryResult, k int) float64 {
	if len(results) == 0 || k <= 0 {
		return 0
	}

	var sum float64
	for _, r := range results {
		sum += precision(r, k)
	}
	return sum / float64(len(results))
}

func precision(r QueryResult, k int) float64 {
	if len(r.Retrieved) == 0 {
		return 0
	}

	expected := make(map[string]struct{}, len(r.Expected))
	for _, title := range r.Expected {
		expected[title] = struct{}{}
	}

	top := r.Retrieved
	if len(top) > k {
		top = top[:k]
	}

	tp := 0
	seen := make(map[string]struct{}, len(top))
	for _, title := range top {
		if _, dup := seen[title]; dup {
			continue
		}
		seen[title] = struct{}{}
		if _, ok := expected[title]; ok {
			tp++
		}
	}

	denom := k
	if len(r.Retrieved) < k {
		denom = len(r.Retrieved)
	}
	return float64(tp) / float64(denom)
}

// Coverage returns the share of queries where at least one expected
// title appears in the first k retrieved titles.
func Coverage(results []QueryResult, k int) float64 {
	if len(results) == 0 {
		return 0
	}

	hit := 0
	for _, r := range results {
		if precision(r, k) > 0 {
			hit++
		}
	}
	return float64(hit) / float64(len(results))
}
