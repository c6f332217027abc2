package corpus

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

// TermVector is a sparse vector over the corpus vocabulary,
// keyed by term index.
type TermVector map[int]float64

// Dot computes the dot product of two term vectors.
// Both sides are L2-normalized by Transform, so this is cosine similarity.
func (a TermVector) Dot(b TermVector) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	var sum float64
	for idx, v := range a {
		sum += v * b[idx]
	}
	return sum
}

// Vectorizer is a TF-IDF term weighting model. The vocabulary and IDF values
// are frozen after Fit; queries are only ever transformed into the same space.
type Vectorizer struct {
	vocabulary   map[string]int
	idf          []float64
	tokenPattern *regexp.Regexp
}

// NewVectorizer creates an unfitted TF-IDF vectorizer.
func NewVectorizer() *Vectorizer {
	return &Vectorizer{
		vocabulary:   make(map[string]int),
		tokenPattern: regexp.MustCompile(`[\p{L}\p{N}]{2,}`),
	}
}

// Fit builds the vocabulary and IDF values from the corpus texts and returns
// the transformed corpus rows, one per text, in corpus order. An empty corpus
// yields an empty vocabulary; every transform then produces a zero vector.
func (v *Vectorizer) Fit(texts []string) []TermVector {
	df := make(map[string]int)
	for _, text := range texts {
		seen := make(map[string]struct{})
		for _, tok := range v.tokenize(text) {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}

	// Stable vocabulary ordering keeps rows reproducible across reloads.
	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	v.vocabulary = make(map[string]int, len(terms))
	v.idf = make([]float64, len(terms))
	n := float64(len(texts))
	for i, term := range terms {
		v.vocabulary[term] = i
		// Smoothed IDF, matching the fitted document-frequency pass.
		v.idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1.0
	}

	rows := make([]TermVector, len(texts))
	for i, text := range texts {
		rows[i] = v.Transform(text)
	}
	return rows
}

// Dimension returns the vocabulary size.
func (v *Vectorizer) Dimension() int { return len(v.idf) }

// Transform computes the L2-normalized TF-IDF vector for the given text.
// Out-of-vocabulary terms are dropped.
func (v *Vectorizer) Transform(text string) TermVector {
	tf := make(map[int]int)
	total := 0
	for _, tok := range v.tokenize(text) {
		if idx, ok := v.vocabulary[tok]; ok {
			tf[idx]++
			total++
		}
	}

	vec := make(TermVector, len(tf))
	if total == 0 {
		return vec
	}

	var norm float64
	for idx, count := range tf {
		w := (float64(count) / float64(total)) * v.idf[idx]
		vec[idx] = w
		norm += w * w
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for idx := range vec {
			vec[idx] /= norm
		}
	}
	return vec
}

func (v *Vectorizer) tokenize(text string) []string {
	return v.tokenPattern.FindAllString(strings.ToLower(text), -1)
}
