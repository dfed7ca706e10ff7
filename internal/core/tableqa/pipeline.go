package tableqa

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"github.com/pkruger-dev/tabulaq/internal/core"
	"github.com/pkruger-dev/tabulaq/internal/models"
)

// Config tunes the table pipeline.
//
// MaxChunkSize: soft byte bound per chunk; a single QA block may exceed it.
// Overlap:      when > 0, the last lines of a closed chunk seed the next one.
type Config struct {
	MaxChunkSize int
	Overlap      int
}

// Pipeline runs the FAQ-table ingestion sequence: extract, chunk, embed,
// store, then assemble DocumentMetadata. Chunks move through the embedding
// and storage stages strictly one at a time; a chunk's failure is recorded on
// the chunk and never aborts the batch.
type Pipeline struct {
	extractor *Extractor
	chunker   *Chunker
	embedder  core.EmbeddingProvider
	store     core.FAQVectorStore
	logger    *slog.Logger
}

func NewPipeline(embedder core.EmbeddingProvider, store core.FAQVectorStore, cfg Config, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		extractor: NewExtractor(logger),
		chunker:   NewChunker(cfg.MaxChunkSize, cfg.Overlap),
		embedder:  embedder,
		store:     store,
		logger:    logger,
	}
}

var _ core.Ingestor = (*Pipeline)(nil)

// Ingest processes one spreadsheet upload end to end and always returns a
// metadata record. Structural extraction errors short-circuit past chunking,
// embedding and storage; a panic anywhere in the run is converted into an
// unexpected_error record on a best-effort metadata rather than propagated.
func (p *Pipeline) Ingest(ctx context.Context, req *models.IngestRequest) (md *models.DocumentMetadata, err error) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("table ingestion panicked", "document_id", req.DocumentID, "panic", r)
			md = p.buildMetadata(req, &models.ExtractionResult{}, nil, 0)
			md.ProcessingErrors = append(md.ProcessingErrors, newError(
				fmt.Sprintf("unexpected failure: %v", r),
				KindUnexpectedError,
				map[string]any{"filename": req.Filename},
			))
			err = nil
		}
	}()

	p.logger.Info("table ingestion started", "document_id", req.DocumentID, "filename", req.Filename)

	res := p.extractor.Extract(ctx, req.Filename, req.RawContent)
	if len(res.Errors) > 0 {
		p.logger.Warn("extraction failed, skipping downstream stages",
			"document_id", req.DocumentID, "errors", len(res.Errors))
		return p.buildMetadata(req, res, nil, 0), nil
	}

	chunks := p.chunker.Split(res.Content, res.QAPairs)

	p.embedChunks(ctx, chunks)
	stored := p.storeChunks(ctx, req.DocumentID, chunks)

	p.logger.Info("table ingestion finished",
		"document_id", req.DocumentID,
		"qa_pairs", len(res.QAPairs),
		"chunks", len(chunks),
		"stored", stored,
		"sheet", res.SheetName)

	return p.buildMetadata(req, res, chunks, stored), nil
}

// embedChunks requests one embedding per chunk, in order. Success attaches
// embedding plus embedding_model to the chunk metadata; failure attaches
// embedding_error and moves on.
func (p *Pipeline) embedChunks(ctx context.Context, chunks []models.TableChunk) {
	for i := range chunks {
		chunk := &chunks[i]

		vecs, err := p.embedder.EmbedTexts(ctx, []string{chunk.Content})
		if err == nil && len(vecs) != 1 {
			err = fmt.Errorf("embedder returned %d vectors for one text", len(vecs))
		}
		if err != nil {
			p.logger.Warn("embedding failed", "chunk_id", chunk.ChunkID, "err", err)
			chunk.Metadata["embedding_error"] = err.Error()
			continue
		}

		chunk.Metadata["embedding"] = vecs[0]
		chunk.Metadata["embedding_model"] = p.embedder.ModelName()
	}
}

// storeChunks upserts every embedded chunk, in order, and returns how many
// landed. Chunks without an embedding are skipped; an upsert failure attaches
// storage_error to the chunk and does not stop the batch.
func (p *Pipeline) storeChunks(ctx context.Context, documentID string, chunks []models.TableChunk) int {
	stored := 0
	for i := range chunks {
		chunk := &chunks[i]

		embedding, ok := chunk.Metadata["embedding"].([]float32)
		if !ok {
			continue
		}

		row := &models.FAQChunkRow{
			DocumentID: documentID,
			ChunkID:    chunk.ChunkID,
			Content:    chunk.Content,
			Embedding:  embedding,
			Metadata:   storageMetadata(chunk.Metadata),
			CreatedAt:  time.Now().UTC(),
		}

		if err := p.store.UpsertFAQChunk(ctx, row); err != nil {
			p.logger.Warn("chunk upsert failed", "chunk_id", chunk.ChunkID, "err", err)
			chunk.Metadata["storage_error"] = err.Error()
			continue
		}
		stored++
	}
	return stored
}

// storageMetadata copies the chunk metadata minus the raw vector, which
// lives in the dedicated embedding column.
func storageMetadata(meta map[string]any) map[string]any {
	out := make(map[string]any, len(meta))
	for k, v := range meta {
		if k == "embedding" {
			continue
		}
		out[k] = v
	}
	return out
}

func (p *Pipeline) buildMetadata(req *models.IngestRequest, res *models.ExtractionResult, chunks []models.TableChunk, stored int) *models.DocumentMetadata {
	sum := sha256.Sum256(req.RawContent)

	md := &models.DocumentMetadata{
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

		SheetName:    res.SheetName,
		TotalRows:    res.TotalRows,
		TotalColumns: res.TotalColumns,
		QAPairsCount: len(res.QAPairs),
		ChunksCount:  len(chunks),
		StoredChunks: stored,

		ProcessingErrors:   res.Errors,
		ProcessingWarnings: res.Warnings,
	}

	if stored > 0 {
		md.EmbeddingModel = p.embedder.ModelName()
	}

	return md
}
