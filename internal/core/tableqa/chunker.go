package tableqa

import (
	"fmt"
	"strings"

	"github.com/pkruger-dev/tabulaq/internal/models"
)

// overlapLines is how many trailing lines of a closed chunk seed the next
// buffer when overlap is enabled.
const overlapLines = 3

// Chunker splits formatted table content into size-bounded chunks without
// cutting inside a QA block. Cuts happen only at BlockMarker lines, so a
// single block larger than MaxChunkSize stays whole and the chunk simply
// exceeds the limit.
type Chunker struct {
	maxChunkSize int
	overlap      int
}

func NewChunker(maxChunkSize, overlap int) *Chunker {
	if maxChunkSize <= 0 {
		maxChunkSize = 1000
	}
	if overlap < 0 {
		overlap = 0
	}
	return &Chunker{maxChunkSize: maxChunkSize, overlap: overlap}
}

// Split walks the content line by line, accumulating into a buffer. When a
// QA boundary line arrives and the buffer would grow past maxChunkSize, the
// buffer is closed into a chunk first. Each QA pair is attributed to the
// chunk active when its boundary line is appended, so flattening the chunks'
// QA lists in order reproduces the input pairs exactly once each.
func (c *Chunker) Split(content string, pairs []models.QAPair) []models.TableChunk {
	lines := strings.Split(content, "\n")

	var chunks []models.TableChunk
	var buf []string
	var bufPairs []models.QAPair
	size := 0
	chunkID := 0
	nextPair := 0

	for _, line := range lines {
		lineSize := len(line) + 1 // +1 for the newline

		if strings.HasPrefix(line, BlockMarker) && size+lineSize > c.maxChunkSize && len(buf) > 0 {
			chunks = append(chunks, makeChunk(chunkID, buf, bufPairs))
			chunkID++

			closed := buf
			buf = nil
			bufPairs = nil
			size = 0

			// Overlap comes from the tail of the chunk that was just
			// closed; it duplicates raw lines only, never QA attribution.
			if c.overlap > 0 {
				start := len(closed) - overlapLines
				if start < 0 {
					start = 0
				}
				for _, prev := range closed[start:] {
					buf = append(buf, prev)
					size += len(prev) + 1
				}
			}
		}

		buf = append(buf, line)
		size += lineSize

		if strings.HasPrefix(line, BlockMarker) && nextPair < len(pairs) {
			bufPairs = append(bufPairs, pairs[nextPair])
			nextPair++
		}
	}

	if len(buf) > 0 {
		chunks = append(chunks, makeChunk(chunkID, buf, bufPairs))
	}

	return chunks
}

func makeChunk(id int, lines []string, pairs []models.QAPair) models.TableChunk {
	content := strings.Join(lines, "\n")
	chunkID := fmt.Sprintf("table_chunk_%d", id)

	return models.TableChunk{
		ChunkID: chunkID,
		Content: content,
		QAPairs: append([]models.QAPair(nil), pairs...),
		Metadata: map[string]any{
			"chunk_type":     "table_qa",
			"chunk_id":       chunkID,
			"chunk_size":     len(content),
			"qa_pairs_count": len(pairs),
		},
	}
}
