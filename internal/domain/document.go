package domain

import "fmt"

// snippetLen is the maximum snippet length in bytes before truncation.
const snippetLen = 200

// Document is a single corpus entry. Documents are immutable after load.
// Title is a display attribute; the corpus position is the identity key.
type Document struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

// Snippet returns the document text truncated to 200 characters,
// with an ellipsis appended when truncation happened.
func (d Document) Snippet() string {
	if len(d.Text) > snippetLen {
		return d.Text[:snippetLen] + "..."
	}
	return d.Text
}

// DefaultTitle returns the placeholder title for an untitled document
// at the given zero-based corpus position.
func DefaultTitle(pos int) string {
	return fmt.Sprintf("Document %d", pos+1)
}

// Candidate is a transient per-query retrieval hit. Pos is the document's
// corpus position and the stable merge key for rank fusion.
type Candidate struct {
	Pos      int
	Document Document
	// Score is the retriever-native relevance: distance-derived similarity
	// for dense hits, raw TF-IDF dot product for lexical hits.
	Score float64
	// Distance is the squared L2 distance for dense hits, 0 otherwise.
	Distance float64
}

// FusedResult is a single hybrid search hit returned to the caller.
type FusedResult struct {
	Title   string `json:"title"`
	Text    string `json:"text"`
	Snippet string `json:"snippet"`
	// RelevanceScore is the blended dense/lexical score, rounded to 2 decimals.
	RelevanceScore float64 `json:"relevanceScore"`
}
