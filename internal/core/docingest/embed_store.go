package docingest

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pkruger-dev/tabulaq/internal/models"
)

// embedAndPersist consumes chunks, embeds them in batches and writes them to
// the database. Returns the number of chunks written.
func (s *Service) embedAndPersist(ctx context.Context, docID string, in <-chan chunk) (int, error) {
	batch := make([]chunk, 0, s.cfg.BatchSize)
	written := 0

	flush := func(items []chunk) error {
		if len(items) == 0 {
			return nil
		}

		texts := make([]string, len(items))
		for i := range items {
			texts[i] = items[i].Text
		}

		vecs, err := s.embedder.EmbedTexts(ctx, texts)
		if err != nil {
			return fmt.Errorf("embed: %w", err)
		}
		if len(vecs) != len(items) {
			return fmt.Errorf("embed size mismatch: got %d want %d", len(vecs), len(items))
		}

		rows := make([]models.DocumentChunk, len(items))
		for i := range items {
			rows[i] = models.DocumentChunk{
				ID:         uuid.NewString(),
				DocumentID: docID,
				Text:       items[i].Text,
				Embedding:  vecs[i],
				Position:   items[i].Pos,
				TokenCount: items[i].TokenCnt,
				CreatedAt:  time.Now().UTC(),
			}
		}
		if err := s.db.InsertDocumentChunks(ctx, rows); err != nil {
			return fmt.Errorf("insert chunks: %w", err)
		}
		written += len(rows)
		return nil
	}

	for c := range in {
		batch = append(batch, c)
		if len(batch) == s.cfg.BatchSize {
			if err := flush(batch); err != nil {
				return written, err
			}
			batch = batch[:0]
		}
	}
	if err := flush(batch); err != nil {
		return written, err
	}
	return written, nil
}
