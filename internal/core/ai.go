package core

import "context"

// EmbeddingProvider turns texts into embedding vectors. ModelName identifies
// the backing model for provenance metadata.
type EmbeddingProvider interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
	ModelName() string
}
