package docingest

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func collectChunks(t *testing.T, cfg Config, frags []string) []chunk {
	t.Helper()

	s := &Service{cfg: cfg.withDefaults()}
	g, ctx := errgroup.WithContext(context.Background())

	in := make(chan string, len(frags))
	for _, f := range frags {
		in <- f
	}
	close(in)

	out := s.streamChunk(ctx, g, in)

	var chunks []chunk
	for ch := range out {
		chunks = append(chunks, ch)
	}
	require.NoError(t, g.Wait())
	return chunks
}

func TestStreamChunkGroupsByTokenBudget(t *testing.T) {
	frags := []string{
		strings.Repeat("a", 40), // ~10 tokens each
		strings.Repeat("b", 40),
		strings.Repeat("c", 40),
		strings.Repeat("d", 40),
	}

	chunks := collectChunks(t, Config{TargetTokens: 20, OverlapTokens: 0, BatchSize: 4}, frags)

	require.Len(t, chunks, 2)
	assert.Equal(t, 0, chunks[0].Pos)
	assert.Equal(t, 1, chunks[1].Pos)
	assert.Contains(t, chunks[0].Text, strings.Repeat("a", 40))
	assert.Contains(t, chunks[0].Text, strings.Repeat("b", 40))
	assert.Contains(t, chunks[1].Text, strings.Repeat("c", 40))
}

func TestStreamChunkFlushesTail(t *testing.T) {
	chunks := collectChunks(t, Config{TargetTokens: 1000, OverlapTokens: 0, BatchSize: 4},
		[]string{"short fragment"})

	require.Len(t, chunks, 1)
	assert.Equal(t, "short fragment", chunks[0].Text)
	assert.Equal(t, approxTokens("short fragment"), chunks[0].TokenCnt)
}

func TestStreamChunkOverlapCarriesTail(t *testing.T) {
	frags := []string{
		strings.Repeat("a", 40),
		strings.Repeat("b", 40),
		strings.Repeat("c", 40),
		strings.Repeat("d", 40),
	}

	chunks := collectChunks(t, Config{TargetTokens: 20, OverlapTokens: 10, BatchSize: 4}, frags)

	require.GreaterOrEqual(t, len(chunks), 2)
	// The first chunk's last fragment reappears at the head of the second.
	assert.Contains(t, chunks[1].Text, strings.Repeat("b", 40))
}

func TestStreamChunkNoOverlapOnlyTailChunk(t *testing.T) {
	// The stream ends exactly at a flush boundary; the leftover buffer holds
	// only the carried-over overlap and must not become a chunk of its own.
	frags := []string{
		strings.Repeat("a", 40), // ~10 tokens each
		strings.Repeat("b", 40),
	}

	chunks := collectChunks(t, Config{TargetTokens: 20, OverlapTokens: 10, BatchSize: 4}, frags)

	require.Len(t, chunks, 1)
	assert.Contains(t, chunks[0].Text, strings.Repeat("a", 40))
	assert.Contains(t, chunks[0].Text, strings.Repeat("b", 40))
}

func TestStreamChunkEmptyInput(t *testing.T) {
	chunks := collectChunks(t, Config{TargetTokens: 20}, nil)
	assert.Empty(t, chunks)
}

func TestApproxTokens(t *testing.T) {
	assert.Equal(t, 0, approxTokens(""))
	assert.Equal(t, 1, approxTokens("abc"))
	assert.Equal(t, 1, approxTokens("abcd"))
	assert.Equal(t, 2, approxTokens("abcde"))
}
