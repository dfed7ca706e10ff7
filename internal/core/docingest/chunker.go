package docingest

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"
)

// streamChunk groups incoming fragments into token-bounded chunks with
// optional overlap. Chunks carry a stable zero-based position.
func (s *Service) streamChunk(ctx context.Context, g *errgroup.Group, frags <-chan string) <-chan chunk {
	out := make(chan chunk, 8)

	g.Go(func() error {
		defer close(out)

		var (
			buf    []string
			tokSum int
			pos    int
			fresh  bool // buffer holds fragments not yet emitted
		)

		// flush emits the current buffer as a chunk and seeds the next
		// buffer with a tail worth roughly OverlapTokens.
		flush := func() error {
			if tokSum == 0 {
				return nil
			}
			ch := chunk{Pos: pos, Text: strings.Join(buf, "\n"), TokenCnt: tokSum}
			pos++

			select {
			case out <- ch:
			case <-ctx.Done():
				return ctx.Err()
			}

			if s.cfg.OverlapTokens > 0 {
				var keep []string
				remain := s.cfg.OverlapTokens
				for j := len(buf) - 1; j >= 0 && remain > 0; j-- {
					keep = append([]string{buf[j]}, keep...)
					remain -= approxTokens(buf[j])
				}
				buf = keep
				tokSum = 0
				for _, frag := range buf {
					tokSum += approxTokens(frag)
				}
			} else {
				buf = buf[:0]
				tokSum = 0
			}
			fresh = false
			return nil
		}

		for frag := range frags {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			buf = append(buf, frag)
			tokSum += approxTokens(frag)
			fresh = true

			if tokSum >= s.cfg.TargetTokens {
				if err := flush(); err != nil {
					return err
				}
			}
		}

		// Skip the final flush when the buffer holds nothing but the
		// overlap tail carried over from the last emitted chunk.
		if !fresh {
			return nil
		}
		return flush()
	})

	return out
}

// approxTokens is a cheap token estimator (~4 chars per token).
func approxTokens(s string) int {
	n := len([]rune(s))
	if n <= 0 {
		return 0
	}
	return (n + 3) / 4
}
