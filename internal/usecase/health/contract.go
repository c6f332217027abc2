package health

import "context"

// CorpusInfo exposes the loaded corpus state the health check inspects.
type CorpusInfo interface {
	Len() int
	HasVectors() bool
}

// CachePinger checks cache store availability.
type CachePinger interface {
	Ping(ctx context.Context) error
}
