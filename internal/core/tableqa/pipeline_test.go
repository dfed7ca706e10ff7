package tableqa_test

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkruger-dev/tabulaq/internal/core/tableqa"
	"github.com/pkruger-dev/tabulaq/internal/models"
)

// fakeEmbedder returns a fixed vector per call and can be told to fail on
// specific call numbers (1-based).
type fakeEmbedder struct {
	calls   int
	failOn  map[int]bool
	failAll bool
}

func (f *fakeEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	f.calls++
	if f.failAll || f.failOn[f.calls] {
		return nil, errors.New("embedding backend unavailable")
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{0.1, 0.2, 0.3}
	}
	return out, nil
}

func (f *fakeEmbedder) ModelName() string { return "fake-embedding-001" }

type fakeStore struct {
	rows    []*models.FAQChunkRow
	failIDs map[string]bool
}

func (f *fakeStore) UpsertFAQChunk(ctx context.Context, row *models.FAQChunkRow) error {
	if f.failIDs[row.ChunkID] {
		return errors.New("connection reset")
	}
	f.rows = append(f.rows, row)
	return nil
}

func (f *fakeStore) GetFAQChunksByDocument(ctx context.Context, documentID string) ([]models.FAQChunkRow, error) {
	out := make([]models.FAQChunkRow, 0, len(f.rows))
	for _, row := range f.rows {
		out = append(out, *row)
	}
	return out, nil
}

func (f *fakeStore) DeleteFAQChunksByDocument(ctx context.Context, documentID string) error {
	f.rows = nil
	return nil
}

func ingestRequest(t *testing.T, sheets []testSheet) *models.IngestRequest {
	t.Helper()
	return &models.IngestRequest{
		Filename:       "faq.xlsx",
		RawContent:     workbookBytes(t, sheets),
		DocumentID:     "doc-123",
		DocumentSource: "upload",
	}
}

func faqSheet(n int) []testSheet {
	rows := [][]any{{"Nr.", "Frage", "Antwort", "Kommentar"}}
	for i := 1; i <= n; i++ {
		nr := strconv.Itoa(i)
		rows = append(rows, []any{nr, "Frage " + nr, "Antwort " + nr, ""})
	}
	return []testSheet{{name: "Test_Chatbot", rows: rows}}
}

func TestPipelineIngestStoresAllChunks(t *testing.T) {
	embedder := &fakeEmbedder{}
	store := &fakeStore{}
	p := tableqa.NewPipeline(embedder, store, tableqa.Config{MaxChunkSize: 1000}, nil)

	md, err := p.Ingest(context.Background(), ingestRequest(t, faqSheet(3)))
	require.NoError(t, err)
	require.NotNil(t, md)

	assert.False(t, md.Failed())
	assert.Equal(t, "doc-123", md.DocumentID)
	assert.Equal(t, "Test_Chatbot", md.SheetName)
	assert.Equal(t, 3, md.QAPairsCount)
	assert.Equal(t, md.ChunksCount, md.StoredChunks)
	assert.Equal(t, "fake-embedding-001", md.EmbeddingModel)
	assert.NotEmpty(t, md.ContentHash)

	require.NotEmpty(t, store.rows)
	for _, row := range store.rows {
		assert.Equal(t, "doc-123", row.DocumentID)
		assert.Equal(t, []float32{0.1, 0.2, 0.3}, row.Embedding)
		// The raw vector lives in the embedding column, not the metadata blob.
		assert.NotContains(t, row.Metadata, "embedding")
		assert.Equal(t, "fake-embedding-001", row.Metadata["embedding_model"])
	}
}

func TestPipelineEmbeddingFailureIsChunkScoped(t *testing.T) {
	embedder := &fakeEmbedder{failOn: map[int]bool{1: true}}
	store := &fakeStore{}
	// Small chunks so the sheet produces several of them.
	p := tableqa.NewPipeline(embedder, store, tableqa.Config{MaxChunkSize: 150}, nil)

	md, err := p.Ingest(context.Background(), ingestRequest(t, faqSheet(6)))
	require.NoError(t, err)

	// A chunk failure never becomes a document failure.
	assert.False(t, md.Failed())
	assert.Greater(t, md.ChunksCount, 1)
	assert.Equal(t, md.ChunksCount-1, md.StoredChunks)
	assert.Len(t, store.rows, md.ChunksCount-1)
}

func TestPipelineStorageFailureIsChunkScoped(t *testing.T) {
	embedder := &fakeEmbedder{}
	store := &fakeStore{failIDs: map[string]bool{"table_chunk_0": true}}
	p := tableqa.NewPipeline(embedder, store, tableqa.Config{MaxChunkSize: 150}, nil)

	md, err := p.Ingest(context.Background(), ingestRequest(t, faqSheet(6)))
	require.NoError(t, err)

	assert.False(t, md.Failed())
	assert.Equal(t, md.ChunksCount-1, md.StoredChunks)
}

func TestPipelineAllEmbeddingsFail(t *testing.T) {
	embedder := &fakeEmbedder{failAll: true}
	store := &fakeStore{}
	p := tableqa.NewPipeline(embedder, store, tableqa.Config{MaxChunkSize: 1000}, nil)

	md, err := p.Ingest(context.Background(), ingestRequest(t, faqSheet(2)))
	require.NoError(t, err)

	assert.False(t, md.Failed())
	assert.Equal(t, 0, md.StoredChunks)
	assert.Empty(t, store.rows)
	assert.Empty(t, md.EmbeddingModel)
}

// panickingEmbedder simulates an unexpected runtime failure inside a stage.
type panickingEmbedder struct{}

func (panickingEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	panic("embedding client state corrupted")
}

func (panickingEmbedder) ModelName() string { return "fake-embedding-001" }

func TestPipelinePanicBecomesUnexpectedError(t *testing.T) {
	store := &fakeStore{}
	p := tableqa.NewPipeline(panickingEmbedder{}, store, tableqa.Config{MaxChunkSize: 1000}, nil)

	md, err := p.Ingest(context.Background(), ingestRequest(t, faqSheet(2)))

	// A panic never propagates and never becomes a Go error.
	require.NoError(t, err)
	require.NotNil(t, md)

	assert.True(t, md.Failed())
	require.Len(t, md.ProcessingErrors, 1)
	assert.Equal(t, tableqa.KindUnexpectedError, md.ProcessingErrors[0].Kind)
	assert.Contains(t, md.ProcessingErrors[0].Message, "embedding client state corrupted")

	assert.Equal(t, "doc-123", md.DocumentID)
	assert.NotEmpty(t, md.ContentHash)
	assert.Zero(t, md.StoredChunks)
	assert.Empty(t, store.rows)
}

func TestPipelineStructuralErrorShortCircuits(t *testing.T) {
	embedder := &fakeEmbedder{}
	store := &fakeStore{}
	p := tableqa.NewPipeline(embedder, store, tableqa.Config{}, nil)

	req := &models.IngestRequest{
		Filename:       "broken.xlsx",
		RawContent:     []byte("not a workbook"),
		DocumentID:     "doc-999",
		DocumentSource: "upload",
	}

	md, err := p.Ingest(context.Background(), req)
	require.NoError(t, err)

	assert.True(t, md.Failed())
	require.Len(t, md.ProcessingErrors, 1)
	assert.Equal(t, tableqa.KindExcelReadError, md.ProcessingErrors[0].Kind)
	assert.Zero(t, md.ChunksCount)
	assert.Zero(t, embedder.calls)
	assert.Empty(t, store.rows)
}

func TestPipelineReingestIsIdempotentPerChunk(t *testing.T) {
	embedder := &fakeEmbedder{}
	store := &fakeStore{}
	p := tableqa.NewPipeline(embedder, store, tableqa.Config{MaxChunkSize: 1000}, nil)

	req := ingestRequest(t, faqSheet(3))
	_, err := p.Ingest(context.Background(), req)
	require.NoError(t, err)

	firstIDs := make([]string, 0, len(store.rows))
	for _, row := range store.rows {
		firstIDs = append(firstIDs, row.ChunkID)
	}

	store.rows = nil
	_, err = p.Ingest(context.Background(), req)
	require.NoError(t, err)

	secondIDs := make([]string, 0, len(store.rows))
	for _, row := range store.rows {
		secondIDs = append(secondIDs, row.ChunkID)
	}

	// Same content yields the same chunk ids, so upserts overwrite in place.
	assert.Equal(t, firstIDs, secondIDs)
}
