package docingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pkruger-dev/tabulaq/internal/core"
	"github.com/pkruger-dev/tabulaq/internal/models"
)

// Config tunes the streaming pipeline.
//
// TargetTokens:  approximate tokens per chunk (e.g., 500).
// OverlapTokens: token overlap between consecutive chunks (e.g., 50).
// BatchSize:     how many chunks to embed/write in one batch.
type Config struct {
	TargetTokens  int
	OverlapTokens int
	BatchSize     int
}

func (c Config) withDefaults() Config {
	if c.TargetTokens <= 0 {
		c.TargetTokens = 500
	}
	if c.OverlapTokens < 0 {
		c.OverlapTokens = 0
	}
	if c.BatchSize <= 0 {
		c.BatchSize = 16
	}
	return c
}

// chunk is the internal representation passed through the pipeline.
type chunk struct {
	Pos      int
	Text     string
	TokenCnt int
}

// Service is the default ingestion pipeline for non-spreadsheet documents:
// docconv text extraction, token-bounded chunking, batched embedding and
// persistence. Unlike the table pipeline, its failures surface as Go errors
// so the proxy can pass them through unchanged.
type Service struct {
	db       core.DbClient
	embedder core.EmbeddingProvider
	cfg      Config
	logger   *slog.Logger
}

func NewService(db core.DbClient, embedder core.EmbeddingProvider, cfg Config, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{db: db, embedder: embedder, cfg: cfg.withDefaults(), logger: logger}
}

var _ core.Ingestor = (*Service)(nil)

// Ingest extracts, chunks, embeds and persists one document. The stages are
// tied together with an errgroup: any stage error cancels the rest and is
// returned to the caller.
func (s *Service) Ingest(ctx context.Context, req *models.IngestRequest) (*models.DocumentMetadata, error) {
	contentType := "text/plain"
	if req.DocumentMimeType != nil && *req.DocumentMimeType != "" {
		contentType = *req.DocumentMimeType
	}

	s.logger.Info("default ingestion started",
		"document_id", req.DocumentID, "filename", req.Filename, "content_type", contentType)

	g, gctx := errgroup.WithContext(ctx)

	fragCh := s.extractText(gctx, g, req.RawContent, contentType)
	chunkCh := s.streamChunk(gctx, g, fragCh)

	var stored int
	g.Go(func() error {
		n, err := s.embedAndPersist(gctx, req.DocumentID, chunkCh)
		stored = n
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("ingest %s: %w", req.DocumentID, err)
	}

	s.logger.Info("default ingestion finished", "document_id", req.DocumentID, "chunks", stored)

	sum := sha256.Sum256(req.RawContent)
	return &models.DocumentMetadata{
		DocumentID:       req.DocumentID,
		DocumentSource:   req.DocumentSource,
		DocumentClass:    req.DocumentClass,
		DocumentMimeType: req.DocumentMimeType,
		DocumentInternal: req.DocumentInternal,
		Description:      req.Description,
		Filename:         req.Filename,
		FileSize:         len(req.RawContent),
		ContentHash:      hex.EncodeToString(sum[:]),
		CreatedAt:        time.Now().UTC(),
		ChunksCount:      stored,
		StoredChunks:     stored,
		EmbeddingModel:   s.embedder.ModelName(),
	}, nil
}
