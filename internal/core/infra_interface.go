package core

import (
	"context"
	"io"

	"github.com/pkruger-dev/tabulaq/internal/models"
)

// DbClient defines all persistence operations the services need.
// It abstracts Postgres/pgvector so higher layers never depend on a specific DB.
type DbClient interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	CreateDocument(ctx context.Context, doc *models.Document) error
	GetDocumentByID(ctx context.Context, id string) (*models.Document, error)
	ListDocumentsByUser(ctx context.Context, userID string) ([]models.Document, error)
	UpdateDocumentStatus(ctx context.Context, id string, status string) error

	InsertDocumentChunks(ctx context.Context, chunks []models.DocumentChunk) error
	GetChunksByDocument(ctx context.Context, documentID string) ([]models.DocumentChunk, error)

	Close() error
}

// FAQVectorStore persists QA-table chunks. UpsertFAQChunk is keyed by
// (document_id, chunk_id); on conflict it overwrites content, embedding,
// metadata and timestamp, so re-ingesting the same document replaces rather
// than duplicates.
type FAQVectorStore interface {
	UpsertFAQChunk(ctx context.Context, row *models.FAQChunkRow) error
	GetFAQChunksByDocument(ctx context.Context, documentID string) ([]models.FAQChunkRow, error)
	DeleteFAQChunksByDocument(ctx context.Context, documentID string) error
}

// ObjectClient defines interactions with S3 or any object storage.
type ObjectClient interface {
	UploadFile(ctx context.Context, bucket, key string, data []byte, contentType string) (url string, err error)
	DeleteFile(ctx context.Context, bucket, key string) error
	GetFile(ctx context.Context, bucket, key string) ([]byte, error)

	GetObjectReader(ctx context.Context, bucket, key string) (io.ReadCloser, error)
}
