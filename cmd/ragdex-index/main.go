// Command ragdex-index is the offline corpus builder: it reads a raw
// JSON document list, embeds every document, and writes the snapshot
// and vector index the API server loads at startup. Documents and
// vectors are written in one pass so both artifacts share ordering.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/ragdex/internal/config"
	"github.com/kailas-cloud/ragdex/internal/corpus"
	"github.com/kailas-cloud/ragdex/internal/domain"
	logpkg "github.com/kailas-cloud/ragdex/internal/logger"
	"github.com/kailas-cloud/ragdex/internal/metrics"
	openaiTransport "github.com/kailas-cloud/ragdex/internal/transport/openai"
)

func main() {
	var (
		inputPath = flag.String("input", "", "path to the raw JSON document list (required)")
		outDir    = flag.String("out", "", "output directory (default: corpus.dir from config)")
	)
	flag.Parse()

	env := config.GetEnv()
	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	if *inputPath == "" {
		flag.Usage()
		logger.Fatal("-input is required")
	}
	dir := *outDir
	if dir == "" {
		dir = cfg.Corpus.Dir
	}

	metrics.Register()

	docs, err := readDocuments(*inputPath)
	if err != nil {
		logger.Fatal("Failed to read documents", zap.Error(err))
	}
	logger.Info("Loaded documents", zap.Int("count", len(docs)))

	embedder := openaiTransport.NewEmbedder(&openaiTransport.EmbedderConfig{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Timeout:    time.Duration(cfg.Embedding.TimeoutSec) * time.Second,
		Logger:     logger,
	})

	ctx := context.Background()
	index := corpus.NewVectorIndex(cfg.Embedding.Dimensions)
	vectors := make([][]float32, len(docs))

	start := time.Now()
	for i, doc := range docs {
		res, err := embedder.Embed(ctx, doc.Text)
		if err != nil {
			logger.Fatal("Failed to embed document",
				zap.Int("position", i),
				zap.String("title", doc.Title),
				zap.Error(err),
			)
		}
		if err := index.Add(i, res.Embedding); err != nil {
			logger.Fatal("Failed to index document",
				zap.Int("position", i),
				zap.Error(err),
			)
		}
		vectors[i] = res.Embedding

		if (i+1)%50 == 0 {
			logger.Info("Embedding progress", zap.Int("done", i+1), zap.Int("total", len(docs)))
		}
	}
	logger.Info("Embeddings generated",
		zap.Int("count", len(docs)),
		zap.Duration("took", time.Since(start)),
	)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		logger.Fatal("Failed to create output directory", zap.Error(err))
	}

	snap := &corpus.Snapshot{
		Model:     cfg.Embedding.Model,
		Dimension: cfg.Embedding.Dimensions,
		Documents: docs,
		Vectors:   vectors,
	}
	if err := snap.Write(filepath.Join(dir, corpus.SnapshotFile)); err != nil {
		logger.Fatal("Failed to write snapshot", zap.Error(err))
	}
	if err := index.Save(filepath.Join(dir, corpus.IndexFile)); err != nil {
		logger.Fatal("Failed to write vector index", zap.Error(err))
	}

	logger.Info("Corpus built",
		zap.String("dir", dir),
		zap.Int("documents", len(docs)),
		zap.Int("dimension", cfg.Embedding.Dimensions),
	)
}

// readDocuments parses the raw input: a JSON array whose elements are
// either bare strings or {title, text} objects. Untitled documents get
// positional placeholder titles.
func readDocuments(path string) ([]domain.Document, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("%s holds no documents", path)
	}

	docs := make([]domain.Document, len(raw))
	for i, item := range raw {
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			docs[i] = domain.Document{Title: domain.DefaultTitle(i), Text: s}
			continue
		}
		var doc domain.Document
		if err := json.Unmarshal(item, &doc); err != nil {
			return nil, fmt.Errorf("document %d: %w", i, err)
		}
		if doc.Title == "" {
			doc.Title = domain.DefaultTitle(i)
		}
		docs[i] = doc
	}
	return docs, nil
}
