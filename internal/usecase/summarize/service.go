package summarize

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/kailas-cloud/ragdex/internal/domain"
)

// Fixed responses returned without calling the generation provider.
const (
	FallbackNoDocuments = "I do not have enough information to summarize this topic."
	FallbackNoAnswer    = "I do not have information on this topic."
)

// Length is the caller's summary size hint.
type Length string

const (
	LengthShort  Length = "short"
	LengthMedium Length = "medium"
	LengthLong   Length = "long"
)

// target maps the hint to the sentence or paragraph target embedded in
// the prompt. Unknown hints fall back to medium.
func (l Length) target() string {
	switch l {
	case LengthShort:
		return "in 2-3 sentences"
	case LengthLong:
		return "in a few paragraphs"
	default:
		return "in 5-6 sentences"
	}
}

// Service condenses retrieved documents into a single summary: one
// generation call per document through a bounded worker pool, then one
// combination call. Per-document failures are inlined as text so the
// combination pass still runs.
type Service struct {
	generate domain.Generator
	pool     *ants.Pool
	logger   *zap.Logger
}

// New creates the summarization service with a worker pool of the given
// size. concurrency below 1 is treated as 1 (sequential).
func New(generate domain.Generator, concurrency int, logger *zap.Logger) (*Service, error) {
	if concurrency < 1 {
		concurrency = 1
	}
	pool, err := ants.NewPool(concurrency)
	if err != nil {
		return nil, fmt.Errorf("create summarize pool: %w", err)
	}
	return &Service{generate: generate, pool: pool, logger: logger}, nil
}

// Close releases the worker pool. The service must not be used after.
func (s *Service) Close() {
	s.pool.Release()
}

// Summarize produces one combined summary for the given document texts.
// Errors from the provider never propagate: they are embedded into the
// output, and an empty input returns the fixed fallback with no call.
func (s *Service) Summarize(ctx context.Context, texts []string, length Length) string {
	if len(texts) == 0 {
		return FallbackNoDocuments
	}

	summaries := make([]string, len(texts))
	var wg sync.WaitGroup
	for i, text := range texts {
		// Shadow the loop variables: with the go directive at 1.21 they are
		// shared across iterations, and the closure below must capture this
		// iteration's values.
		i, text := i, text
		wg.Add(1)
		if err := s.pool.Submit(func() {
			defer wg.Done()
			summaries[i] = s.summarizeOne(ctx, text, length, i)
		}); err != nil {
			// Pool rejected the task (released or overloaded); degrade to
			// running inline so the slot is still filled.
			summaries[i] = s.summarizeOne(ctx, text, length, i)
			wg.Done()
		}
	}
	wg.Wait()

	return s.combine(ctx, summaries)
}

func (s *Service) summarizeOne(ctx context.Context, text string, length Length, pos int) string {
	prompt := fmt.Sprintf(
		"You are an expert summarizer. Summarize the following document factually %s. "+
			"Do NOT add any information not present in the text.\n\n%s",
		length.target(), text,
	)
	out, err := s.generate.Generate(ctx, prompt)
	if err != nil {
		s.logger.Warn("document summarization failed",
			zap.Int("document", pos+1),
			zap.Error(err),
		)
		return fmt.Sprintf("Error summarizing document %d: %s", pos+1, err)
	}
	return strings.TrimSpace(out)
}

func (s *Service) combine(ctx context.Context, summaries []string) string {
	prompt := "Combine the following individual summaries into a single, coherent, factual summary. " +
		"Do NOT include any Acknowledgement\n\n" +
		"Do NOT include anything not in the original summaries.\n\n" +
		strings.Join(summaries, "\n\n")

	out, err := s.generate.Generate(ctx, prompt)
	if err != nil {
		s.logger.Warn("summary combination failed", zap.Error(err))
		return fmt.Sprintf("Error combining summaries: %s", err)
	}
	return strings.TrimSpace(out)
}

// Answer responds to a question strictly from the given documents.
// An empty document list returns the fixed fallback with no call.
func (s *Service) Answer(ctx context.Context, texts []string, question string) string {
	if len(texts) == 0 {
		return FallbackNoAnswer
	}

	var b strings.Builder
	b.WriteString("Answer the question based ONLY on the following documents. ")
	b.WriteString("If the answer is not contained in the documents, respond with: '")
	b.WriteString(FallbackNoAnswer)
	b.WriteString("'\n\nDocuments:\n")
	for i, text := range texts {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "%d. %s", i+1, text)
	}
	fmt.Fprintf(&b, "\n\nQuestion: %s\nAnswer:", question)

	out, err := s.generate.Generate(ctx, b.String())
	if err != nil {
		s.logger.Warn("question answering failed", zap.Error(err))
		return fmt.Sprintf("Error answering question: %s", err)
	}
	return strings.TrimSpace(out)
}
