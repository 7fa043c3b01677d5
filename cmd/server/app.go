package main

import (
	"context"
	"fmt"
	"log/slog"

	"google.golang.org/genai"

	"github.com/phrazzld/vidgen-api/internal/config"
	"github.com/phrazzld/vidgen-api/internal/finalize"
	"github.com/phrazzld/vidgen-api/internal/platform/gcs"
	"github.com/phrazzld/vidgen-api/internal/platform/logger"
	"github.com/phrazzld/vidgen-api/internal/platform/veo"
	"github.com/phrazzld/vidgen-api/internal/poller"
	"github.com/phrazzld/vidgen-api/internal/task"
)

// application holds the assembled dependencies of the running server.
type application struct {
	config    *config.Config
	logger    *slog.Logger
	executor  *task.Executor
	blobStore *gcs.Store
}

// newApplication loads configuration and wires the full dependency graph:
// GenAI client, blob store, finalizer, poller, and task executor.
func newApplication(ctx context.Context) (*application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logger.Setup(cfg.Server)
	log.Info("configuration loaded",
		"port", cfg.Server.Port,
		"model", cfg.Video.Model,
		"bucket", cfg.Storage.Bucket)

	genaiClient, err := newGenAIClient(ctx, cfg.GenAI)
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	blobStore, err := gcs.NewStore(ctx, cfg.Storage, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create blob store: %w", err)
	}

	finalizer, err := finalize.NewFinalizer(blobStore, cfg.Storage.SignedURLTTL(), log)
	if err != nil {
		return nil, fmt.Errorf("failed to create finalizer: %w", err)
	}

	backend, err := veo.NewBackend(genaiClient, cfg.Video, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create video backend: %w", err)
	}

	runner, err := poller.New(backend, finalizer, poller.Config{
		PollInterval:          cfg.Video.PollInterval(),
		AssumedGenerationTime: cfg.Video.AssumedGenerationTime(),
		PollTimeout:           cfg.Video.PollTimeout(),
	}, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create poller: %w", err)
	}

	executor, err := task.NewExecutor(task.NewStore(), runner, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create task executor: %w", err)
	}

	return &application{
		config:    cfg,
		logger:    log,
		executor:  executor,
		blobStore: blobStore,
	}, nil
}

// newGenAIClient builds the GenAI client for either the Gemini API or
// Vertex AI, depending on configuration.
func newGenAIClient(ctx context.Context, cfg config.GenAIConfig) (*genai.Client, error) {
	if cfg.UseVertexAI {
		return genai.NewClient(ctx, &genai.ClientConfig{
			Backend:  genai.BackendVertexAI,
			Project:  cfg.ProjectID,
			Location: cfg.Location,
		})
	}

	return genai.NewClient(ctx, &genai.ClientConfig{
		Backend: genai.BackendGeminiAPI,
		APIKey:  cfg.APIKey,
	})
}

// cleanup settles running tasks and releases clients.
func (app *application) cleanup() {
	app.logger.Info("stopping running tasks")
	app.executor.Stop()

	if err := app.blobStore.Close(); err != nil {
		app.logger.Warn("failed to close blob store", "error", err)
	}
}
