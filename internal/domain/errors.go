package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrCorpusLoad signals a missing or mutually inconsistent corpus snapshot.
	ErrCorpusLoad = errors.New("corpus load failed")
	// ErrDimensionMismatch signals a query embedding dimension that differs from the index.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
	// ErrEmbeddingProvider signals an embedding provider failure.
	ErrEmbeddingProvider = errors.New("embedding provider error")
	// ErrGenerationProvider signals a text-generation provider failure.
	ErrGenerationProvider = errors.New("generation provider error")
	// ErrEmptyQuery signals a missing or blank query string.
	ErrEmptyQuery = errors.New("query is required")
	// ErrSuggestUnavailable signals that document vectors were not loaded,
	// so title suggestions are degraded to an empty list.
	ErrSuggestUnavailable = errors.New("suggestions unavailable: no document vectors")
)

// DimensionMismatchError wraps ErrDimensionMismatch with both dimensions.
type DimensionMismatchError struct {
	Index int
	Query int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("%s: index %d, query %d", ErrDimensionMismatch.Error(), e.Index, e.Query)
}

func (e *DimensionMismatchError) Unwrap() error { return ErrDimensionMismatch }

// NewDimensionMismatch creates a dimension mismatch error.
func NewDimensionMismatch(index, query int) error {
	return &DimensionMismatchError{Index: index, Query: query}
}
