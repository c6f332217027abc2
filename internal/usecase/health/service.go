package health

import (
	"context"

	"github.com/kailas-cloud/ragdex/internal/domain"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
	// Unhealthy indicates the service cannot answer queries.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckDegraded indicates a component running with reduced capability.
	CheckDegraded CheckResult = "degraded"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks. The corpus is mandatory: without
// it no query can be answered, so a missing or empty corpus makes the
// whole service unhealthy. A corpus lacking document vectors only
// degrades suggestions. embedding and cache can be nil.
type Service struct {
	corpus    CorpusInfo
	embedding domain.HealthChecker
	cache     CachePinger
}

// New creates a Service.
func New(corpus CorpusInfo, embedding domain.HealthChecker, cache CachePinger) *Service {
	return &Service{corpus: corpus, embedding: embedding, cache: cache}
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	switch {
	case s.corpus == nil || s.corpus.Len() == 0:
		checks["corpus"] = CheckError
	case !s.corpus.HasVectors():
		checks["corpus"] = CheckDegraded
	default:
		checks["corpus"] = CheckOK
	}

	if s.embedding != nil {
		if err := s.embedding.HealthCheck(ctx); err != nil {
			checks["embedding"] = CheckError
		} else {
			checks["embedding"] = CheckOK
		}
	}

	if s.cache != nil {
		if err := s.cache.Ping(ctx); err != nil {
			checks["cache"] = CheckError
		} else {
			checks["cache"] = CheckOK
		}
	}

	if checks["corpus"] == CheckError {
		return Report{Status: Unhealthy, Checks: checks}
	}

	status := Healthy
	for _, v := range checks {
		if v != CheckOK {
			status = Degraded
			break
		}
	}

	return Report{Status: status, Checks: checks}
}
