package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/pkruger-dev/tabulaq/internal/config"
	db "github.com/pkruger-dev/tabulaq/internal/core/database"
	"github.com/pkruger-dev/tabulaq/internal/core/docingest"
	"github.com/pkruger-dev/tabulaq/internal/core/llm"
	objectclient "github.com/pkruger-dev/tabulaq/internal/core/object-client"
	"github.com/pkruger-dev/tabulaq/internal/core/tableqa"
	"github.com/pkruger-dev/tabulaq/internal/services"
)

type App struct {
	DBClient     *db.DatabaseClient
	ObjectClient *objectclient.S3Client
	Ingestor     *services.IngestAdapter
	Server       *Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	appCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	dbClient, err := db.NewDatabaseClient(appCtx, cfg)
	if err != nil {
		return nil, err
	}
	logger.Info("database initialized and ready")

	objClient, err := objectclient.NewS3Client(appCtx, cfg)
	if err != nil {
		return nil, err
	}
	logger.Info("object client initialized and ready")

	embedder, err := llm.NewGeminiEmbedder(appCtx, cfg.AIAPIKey, cfg.EmbedModel)
	if err != nil {
		return nil, fmt.Errorf("couldn't initialize the embedder, %w", err)
	}

	docService := docingest.NewService(dbClient, embedder, docingest.Config{
		TargetTokens:  cfg.TargetTokens,
		OverlapTokens: cfg.OverlapTokens,
		BatchSize:     cfg.BatchSize,
	}, logger)

	tablePipeline := tableqa.NewPipeline(embedder, dbClient, tableqa.Config{
		MaxChunkSize: cfg.MaxChunkSize,
		Overlap:      cfg.ChunkOverlap,
	}, logger)

	ingestor := services.NewIngestAdapter(tablePipeline, docService, logger)

	documents := services.NewDocumentService(dbClient, objClient, cfg.BucketName)
	users := services.NewUserService(dbClient)

	server := NewServer(cfg, users, documents, ingestor)

	return &App{
		DBClient:     dbClient,
		ObjectClient: objClient,
		Ingestor:     ingestor,
		Server:       server,
	}, nil
}

func (a *App) Close() {
	if a.DBClient != nil {
		_ = a.DBClient.Close()
	}
}
