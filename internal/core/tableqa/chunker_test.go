package tableqa_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkruger-dev/tabulaq/internal/core/tableqa"
	"github.com/pkruger-dev/tabulaq/internal/models"
)

func makePairs(n int, answerLen int) []models.QAPair {
	pairs := make([]models.QAPair, n)
	for i := range pairs {
		pairs[i] = models.QAPair{
			RowID:    fmt.Sprintf("%d", i+1),
			Question: fmt.Sprintf("Frage Nummer %d", i+1),
			Answer:   strings.Repeat("x", answerLen),
			RowIndex: i,
		}
	}
	return pairs
}

func TestChunkerSplitsAtBlockBoundaries(t *testing.T) {
	pairs := makePairs(4, 80)
	content := tableqa.FormatContent(pairs, "FAQ_DEUTSCH")

	chunks := tableqa.NewChunker(200, 0).Split(content, pairs)
	require.Greater(t, len(chunks), 1)

	// Flattening the chunks' QA lists reproduces the input, once each, in order.
	var flattened []models.QAPair
	for _, c := range chunks {
		flattened = append(flattened, c.QAPairs...)
	}
	assert.Equal(t, pairs, flattened)

	// Every pair's block lives wholly in the chunk that claims it.
	for _, c := range chunks {
		for _, p := range c.QAPairs {
			assert.Contains(t, c.Content, fmt.Sprintf("## Frage %s", p.RowID))
			assert.Contains(t, c.Content, fmt.Sprintf("**Antwort:** %s", p.Answer))
		}
	}
}

func TestChunkerIDsAndMetadata(t *testing.T) {
	pairs := makePairs(3, 80)
	content := tableqa.FormatContent(pairs, "Test_Chatbot")

	chunks := tableqa.NewChunker(200, 0).Split(content, pairs)

	for i, c := range chunks {
		expectedID := fmt.Sprintf("table_chunk_%d", i)
		assert.Equal(t, expectedID, c.ChunkID)
		assert.Equal(t, expectedID, c.Metadata["chunk_id"])
		assert.Equal(t, "table_qa", c.Metadata["chunk_type"])
		assert.Equal(t, len(c.Content), c.Metadata["chunk_size"])
		assert.Equal(t, len(c.QAPairs), c.Metadata["qa_pairs_count"])
	}
}

func TestChunkerOversizedBlockStaysWhole(t *testing.T) {
	pairs := makePairs(1, 500)
	content := tableqa.FormatContent(pairs, "FAQ_DEUTSCH")

	chunks := tableqa.NewChunker(100, 0).Split(content, pairs)

	// The block exceeds the limit on its own; it must not be split.
	var holder *models.TableChunk
	for i := range chunks {
		if len(chunks[i].QAPairs) == 1 {
			holder = &chunks[i]
		}
	}
	require.NotNil(t, holder)
	assert.Contains(t, holder.Content, strings.Repeat("x", 500))
	assert.Greater(t, len(holder.Content), 100)
}

func TestChunkerSingleChunkWhenUnderLimit(t *testing.T) {
	pairs := makePairs(2, 20)
	content := tableqa.FormatContent(pairs, "FAQ_DEUTSCH")

	chunks := tableqa.NewChunker(5000, 0).Split(content, pairs)

	require.Len(t, chunks, 1)
	assert.Equal(t, "table_chunk_0", chunks[0].ChunkID)
	assert.Equal(t, content, chunks[0].Content)
	assert.Equal(t, pairs, chunks[0].QAPairs)
}

func TestChunkerNoPairs(t *testing.T) {
	content := tableqa.FormatContent(nil, "FAQ_DEUTSCH")

	chunks := tableqa.NewChunker(1000, 0).Split(content, nil)

	require.Len(t, chunks, 1)
	assert.Empty(t, chunks[0].QAPairs)
}

func TestChunkerOverlapSeedsNextChunk(t *testing.T) {
	pairs := makePairs(4, 80)
	content := tableqa.FormatContent(pairs, "FAQ_DEUTSCH")

	chunks := tableqa.NewChunker(200, 100).Split(content, pairs)
	require.Greater(t, len(chunks), 1)

	for i := 1; i < len(chunks); i++ {
		prevLines := strings.Split(chunks[i-1].Content, "\n")
		tail := prevLines[len(prevLines)-3:]
		assert.True(t, strings.HasPrefix(chunks[i].Content, strings.Join(tail, "\n")),
			"chunk %d does not start with the previous chunk's tail", i)
	}

	// Overlap duplicates raw lines only, never QA attribution.
	var flattened []models.QAPair
	for _, c := range chunks {
		flattened = append(flattened, c.QAPairs...)
	}
	assert.Equal(t, pairs, flattened)
}
