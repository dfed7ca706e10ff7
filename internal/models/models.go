package models

import (
	"time"
)

// User represents an authenticated user of the system.
type User struct {
	ID           string    `db:"id" json:"id"`
	FirstName    string    `db:"first_name" json:"first_name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Document represents an uploaded document tracked in the registry.
type Document struct {
	ID          string    `db:"id" json:"id"`
	UserID      string    `db:"user_id" json:"user_id"`
	FileName    string    `db:"file_name" json:"file_name"`
	StorageURL  string    `db:"storage_url" json:"storage_url"`
	SourceType  string    `db:"source_type" json:"source_type"` // "upload" or "url"
	ContentType string    `db:"content_type" json:"content_type"`
	Status      string    `db:"status" json:"status"` // uploaded | processing | ready | failed
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// DocumentChunk represents one text chunk produced by the default pipeline.
type DocumentChunk struct {
	ID         string    `db:"id" json:"id"`
	DocumentID string    `db:"document_id" json:"document_id"`
	Text       string    `db:"text" json:"text"`
	Embedding  []float32 `db:"embedding" json:"embedding"` // pgvector column
	Position   int       `db:"position" json:"position"`
	TokenCount int       `db:"token_count" json:"token_count"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// QAPair is one normalized question/answer row extracted from a FAQ sheet.
// Question and Answer are non-empty after trimming; Comment is nil when the
// Kommentar column is absent or blank for the row.
type QAPair struct {
	RowID    string  `json:"row_id"`
	Question string  `json:"question"`
	Answer   string  `json:"answer"`
	Comment  *string `json:"comment,omitempty"`
	RowIndex int     `json:"row_index"`
}

// TableChunk is one QA-preserving chunk of formatted table content.
// Metadata is mutated in place by the embedding and storage stages
// (embedding, embedding_model, embedding_error, storage_error).
type TableChunk struct {
	ChunkID  string         `json:"chunk_id"`
	Content  string         `json:"content"`
	QAPairs  []QAPair       `json:"qa_pairs"`
	Metadata map[string]any `json:"metadata"`
}

// ErrorRecord describes a recoverable processing error. Append-only.
type ErrorRecord struct {
	Message   string         `json:"message"`
	Kind      string         `json:"error_type"`
	Details   map[string]any `json:"details,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// WarningRecord describes a non-fatal processing observation. Append-only.
type WarningRecord struct {
	Message   string         `json:"message"`
	Kind      string         `json:"warning_type"`
	Details   map[string]any `json:"details,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// ExtractionResult is the outcome of reading a spreadsheet into QA pairs.
// A non-empty Errors list is terminal: downstream stages are skipped.
type ExtractionResult struct {
	Content      string          `json:"content"`
	QAPairs      []QAPair        `json:"qa_pairs"`
	SheetName    string          `json:"sheet_name"`
	TotalRows    int             `json:"total_rows"`
	TotalColumns int             `json:"total_columns"`
	Errors       []ErrorRecord   `json:"processing_errors,omitempty"`
	Warnings     []WarningRecord `json:"processing_warnings,omitempty"`
}

// IngestRequest carries one document and its identity fields through the
// ingestion entry points. DocumentID and DocumentSource are required; the
// remaining identity fields are optional.
type IngestRequest struct {
	Filename         string  `json:"filename"`
	RawContent       []byte  `json:"-"`
	DocumentID       string  `json:"document_id"`
	DocumentSource   string  `json:"document_source"`
	DocumentClass    *string `json:"document_class,omitempty"`
	DocumentMimeType *string `json:"document_mime_type,omitempty"`
	DocumentInternal *string `json:"document_internal,omitempty"`
	Description      *string `json:"description,omitempty"`
}

// DocumentMetadata is the aggregate result of one ingestion run. It is
// always returned, even when processing failed; a non-empty ProcessingErrors
// list is the failure signal. Immutable once returned.
type DocumentMetadata struct {
	DocumentID       string    `json:"document_id"`
	DocumentSource   string    `json:"document_source"`
	DocumentClass    *string   `json:"document_class,omitempty"`
	DocumentMimeType *string   `json:"document_mime_type,omitempty"`
	DocumentInternal *string   `json:"document_internal,omitempty"`
	Description      *string   `json:"description,omitempty"`
	Filename         string    `json:"filename,omitempty"`
	FileSize         int       `json:"file_size,omitempty"`
	ContentHash      string    `json:"content_hash,omitempty"`
	CreatedAt        time.Time `json:"created_at"`

	SheetName    string `json:"sheet_name,omitempty"`
	TotalRows    int    `json:"total_rows,omitempty"`
	TotalColumns int    `json:"total_columns,omitempty"`
	QAPairsCount int    `json:"qa_pairs_count,omitempty"`
	ChunksCount  int    `json:"chunks_count,omitempty"`
	StoredChunks int    `json:"stored_chunks,omitempty"`

	EmbeddingModel string `json:"embedding_model,omitempty"`

	ProcessingErrors   []ErrorRecord   `json:"processing_errors,omitempty"`
	ProcessingWarnings []WarningRecord `json:"processing_warnings,omitempty"`
}

// Failed reports whether the run accumulated document-level errors.
func (m *DocumentMetadata) Failed() bool {
	return len(m.ProcessingErrors) > 0
}

// FAQChunkRow is the persistence shape for one table chunk. The embedding
// travels separately from Metadata so the store can keep it in the vector
// column rather than the JSONB blob.
type FAQChunkRow struct {
	DocumentID string         `db:"document_id"`
	ChunkID    string         `db:"chunk_id"`
	Content    string         `db:"content"`
	Embedding  []float32      `db:"embedding"`
	Metadata   map[string]any `db:"metadata"`
	CreatedAt  time.Time      `db:"created_at"`
}
