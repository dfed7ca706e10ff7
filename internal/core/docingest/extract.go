package docingest

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"code.sajari.com/docconv"
	"golang.org/x/sync/errgroup"
)

// extractText converts the raw document into a stream of trimmed, non-empty
// text fragments via docconv. The channel closes when extraction completes;
// extraction errors cancel the group.
func (s *Service) extractText(ctx context.Context, g *errgroup.Group, raw []byte, contentType string) <-chan string {
	out := make(chan string, 32)

	g.Go(func() error {
		defer close(out)

		res, err := docconv.Convert(bytes.NewReader(raw), contentType, false)
		if err != nil {
			return fmt.Errorf("docconv %s: %w", contentType, err)
		}
		if res.Body == "" {
			return fmt.Errorf("docconv %s: extracted empty text", contentType)
		}

		for _, line := range strings.Split(res.Body, "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			select {
			case out <- line:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	return out
}
