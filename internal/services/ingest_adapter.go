package services

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/pkruger-dev/tabulaq/internal/core"
	"github.com/pkruger-dev/tabulaq/internal/models"
)

// spreadsheetExts are the extensions routed to the table pipeline; everything
// else goes to the default service untouched.
var spreadsheetExts = map[string]bool{
	".xlsx": true,
	".xls":  true,
	".xlsm": true,
	".xlsb": true,
	".csv":  true,
}

// IngestAdapter dispatches an upload by file extension: spreadsheet-like
// files run through the specialized table pipeline, everything else is
// delegated verbatim to the default ingestion service, whose result and
// errors pass through unchanged.
type IngestAdapter struct {
	table          core.Ingestor
	defaultService core.Ingestor
	logger         *slog.Logger
}

func NewIngestAdapter(table, defaultService core.Ingestor, logger *slog.Logger) *IngestAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &IngestAdapter{table: table, defaultService: defaultService, logger: logger}
}

var _ core.Ingestor = (*IngestAdapter)(nil)

// Ingest routes the request. The table pipeline never returns an error for
// expected structural problems; for delegated files the default service's
// error, if any, propagates to the caller as-is.
func (a *IngestAdapter) Ingest(ctx context.Context, req *models.IngestRequest) (*models.DocumentMetadata, error) {
	ext := strings.ToLower(filepath.Ext(req.Filename))

	if spreadsheetExts[ext] {
		a.logger.Info("routing to table pipeline", "filename", req.Filename, "ext", ext)
		return a.table.Ingest(ctx, req)
	}

	a.logger.Info("routing to default service", "filename", req.Filename, "ext", ext)
	return a.defaultService.Ingest(ctx, req)
}
