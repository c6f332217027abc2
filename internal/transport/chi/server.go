package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/ragdex/internal/domain"
	"github.com/kailas-cloud/ragdex/internal/logger"
	healthuc "github.com/kailas-cloud/ragdex/internal/usecase/health"
	"github.com/kailas-cloud/ragdex/internal/usecase/summarize"
)

// Response strings promised to API clients.
const (
	msgQueryRequired = "Query is required"
	msgNoResults     = "No relevant documents found for this query."
	msgNoSummary     = "No relevant summary could be generated from the documents."
	msgInvalidBody   = "Invalid request body"
	msgInternalError = "internal error"
)

// Searcher runs hybrid retrieval.
type Searcher interface {
	Search(ctx context.Context, query string, topK int, alpha float64) ([]domain.FusedResult, error)
}

// Suggester returns related document titles.
type Suggester interface {
	Suggest(ctx context.Context, query string) ([]string, error)
}

// Summarizer condenses documents and answers questions over them.
type Summarizer interface {
	Summarize(ctx context.Context, texts []string, length summarize.Length) string
	Answer(ctx context.Context, texts []string, question string) string
}

// HealthService reports aggregated component health.
type HealthService interface {
	Check(ctx context.Context) healthuc.Report
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Server is the HTTP API surface. Handlers log through the per-request
// logger placed in the context by the wide-event middleware.
type Server struct {
	search        Searcher
	suggest       Suggester
	summarize     Summarizer
	health        HealthService
	defaultAlpha  float64
	defaultLength summarize.Length
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	search Searcher,
	suggest Suggester,
	summarizer Summarizer,
	health HealthService,
) *Server {
	s := &Server{
		search:        search,
		suggest:       suggest,
		summarize:     summarizer,
		health:        health,
		defaultAlpha:  0.5,
		defaultLength: summarize.LengthMedium,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrEmptyQuery, http.StatusBadRequest, msgQueryRequired),
		sentinelHandler(domain.ErrDimensionMismatch, http.StatusBadRequest, ""),
		sentinelHandler(domain.ErrEmbeddingProvider, http.StatusBadGateway, ""),
		sentinelHandler(domain.ErrGenerationProvider, http.StatusBadGateway, ""),
	}
	return s
}

// WithDefaultAlpha overrides the dense/lexical blend weight applied when a
// search request carries no alpha. Out-of-range values are ignored.
func (s *Server) WithDefaultAlpha(alpha float64) *Server {
	if alpha >= 0 && alpha <= 1 {
		s.defaultAlpha = alpha
	}
	return s
}

// WithDefaultLength overrides the summary length applied when a summarize
// request carries none.
func (s *Server) WithDefaultLength(length summarize.Length) *Server {
	if length != "" {
		s.defaultLength = length
	}
	return s
}

// Routes mounts all API routes on the given router.
func (s *Server) Routes(r chi.Router) {
	r.Post("/suggest", s.handleSuggest)
	r.Post("/search", s.handleSearch)
	r.Post("/summarize", s.handleSummarize)
	r.Post("/answer", s.handleAnswer)
	r.Get("/health", s.handleHealth)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
}

type suggestRequest struct {
	Query string `json:"query"`
}

type suggestResponse struct {
	Suggestions []string `json:"suggestions"`
	Error       string   `json:"error,omitempty"`
}

// handleSuggest serves POST /suggest. An unusable request or a corpus
// without document vectors degrades to an empty suggestion list rather
// than an error; only provider failures surface as 500.
func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	var req suggestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusOK, suggestResponse{Suggestions: []string{}})
		return
	}

	titles, err := s.suggest.Suggest(r.Context(), req.Query)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyQuery) || errors.Is(err, domain.ErrSuggestUnavailable) {
			writeJSON(w, http.StatusOK, suggestResponse{Suggestions: []string{}})
			return
		}
		logger.FromContext(r.Context()).Error("suggest failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, suggestResponse{
			Suggestions: []string{},
			Error:       safeMessage(err),
		})
		return
	}

	if titles == nil {
		titles = []string{}
	}
	writeJSON(w, http.StatusOK, suggestResponse{Suggestions: titles})
}

type searchRequest struct {
	Query string   `json:"query"`
	TopK  int      `json:"top_k"`
	Alpha *float64 `json:"alpha"`
}

type searchResponse struct {
	Results []domain.FusedResult `json:"results"`
	Message string               `json:"message,omitempty"`
}

// handleSearch serves POST /search.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	alpha := s.defaultAlpha
	if req.Alpha != nil {
		alpha = *req.Alpha
	}

	results, err := s.search.Search(r.Context(), req.Query, req.TopK, alpha)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	if len(results) == 0 {
		writeJSON(w, http.StatusOK, searchResponse{
			Results: []domain.FusedResult{},
			Message: msgNoResults,
		})
		return
	}

	writeJSON(w, http.StatusOK, searchResponse{Results: results})
}

type summarizeRequest struct {
	Documents []summarizeDocument `json:"documents"`
	Length    string              `json:"length"`
}

type summarizeResponse struct {
	Summary string `json:"summary"`
}

// handleSummarize serves POST /summarize. An empty or invalid document
// list short-circuits to the no-results message without a generation
// call.
func (s *Server) handleSummarize(w http.ResponseWriter, r *http.Request) {
	var req summarizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusOK, summarizeResponse{Summary: msgNoResults})
		return
	}

	texts := documentTexts(req.Documents)
	if len(texts) == 0 {
		writeJSON(w, http.StatusOK, summarizeResponse{Summary: msgNoResults})
		return
	}

	length := summarize.Length(req.Length)
	if length == "" {
		length = s.defaultLength
	}

	summary := s.summarize.Summarize(r.Context(), texts, length)
	if strings.TrimSpace(summary) == "" || strings.EqualFold(strings.TrimSpace(summary), "no summary available") {
		summary = msgNoSummary
	}

	writeJSON(w, http.StatusOK, summarizeResponse{Summary: summary})
}

type answerRequest struct {
	Documents []summarizeDocument `json:"documents"`
	Question  string              `json:"question"`
}

type answerResponse struct {
	Answer string `json:"answer"`
}

// handleAnswer serves POST /answer.
func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		writeError(w, http.StatusBadRequest, "Question is required")
		return
	}

	answer := s.summarize.Answer(r.Context(), documentTexts(req.Documents), req.Question)
	writeJSON(w, http.StatusOK, answerResponse{Answer: answer})
}

// handleHealth serves GET /health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	status := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// safeMessage returns a sentinel error message for the client without
// exposing internals.
func safeMessage(err error) string {
	sentinels := []error{
		domain.ErrEmptyQuery,
		domain.ErrDimensionMismatch,
		domain.ErrEmbeddingProvider,
		domain.ErrGenerationProvider,
		domain.ErrSuggestUnavailable,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return msgInternalError
}

// sentinelHandler returns an errorHandler that matches a single sentinel
// error. An empty message falls back to the sentinel's own text.
func sentinelHandler(sentinel error, status int, message string) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		msg := message
		if msg == "" {
			msg = safeMessage(err)
		}
		writeError(w, status, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())
	log.Warn("domain error", zap.Error(err))
	for _, h := range s.errorHandlers {
		if h(w, err) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, msgInternalError)
}
