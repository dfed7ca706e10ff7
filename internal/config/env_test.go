package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pkruger-dev/tabulaq/internal/config"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/tabulaq")

	cfg := config.LoadConfig()

	assert.Equal(t, "postgres://localhost:5432/tabulaq", cfg.DatabaseURL)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 1000, cfg.MaxChunkSize)
	assert.Equal(t, 100, cfg.ChunkOverlap)
	assert.Equal(t, 500, cfg.TargetTokens)
	assert.Equal(t, 16, cfg.BatchSize)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/tabulaq")
	t.Setenv("PORT", "9000")
	t.Setenv("MAX_CHUNK_SIZE", "2000")
	t.Setenv("CHUNK_OVERLAP", "not-a-number")

	cfg := config.LoadConfig()

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 2000, cfg.MaxChunkSize)
	// Unparseable ints fall back to the default.
	assert.Equal(t, 100, cfg.ChunkOverlap)
}
