package core

import (
	"context"

	"github.com/pkruger-dev/tabulaq/internal/models"
)

// Ingestor runs one ingestion pass for a document and always reports what
// happened as DocumentMetadata. Recoverable processing problems land in the
// metadata's error list; only infrastructure failures surface as a Go error.
type Ingestor interface {
	Ingest(ctx context.Context, req *models.IngestRequest) (*models.DocumentMetadata, error)
}
