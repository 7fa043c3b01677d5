// Package veo implements the long-running operation backend for video
// generation on top of the GenAI SDK. It abstracts the details of the Veo
// API so the polling core depends only on the domain operation model.
package veo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"google.golang.org/genai"

	"github.com/phrazzld/vidgen-api/internal/config"
	"github.com/phrazzld/vidgen-api/internal/domain"
)

// Common errors returned by the backend
var (
	ErrNilClient    = errors.New("genai client cannot be nil")
	ErrNilLogger    = errors.New("logger cannot be nil")
	ErrUnnamedPoll  = errors.New("cannot poll an operation without a name")
	ErrNilOperation = errors.New("operation cannot be nil")
)

// Backend starts and polls Veo video generation operations.
type Backend struct {
	client           *genai.Client
	model            string
	personGeneration string
	aspectRatio      string
	logger           *slog.Logger
}

// NewBackend creates a Backend using the given GenAI client and video
// generation settings.
func NewBackend(client *genai.Client, cfg config.VideoConfig, logger *slog.Logger) (*Backend, error) {
	if client == nil {
		return nil, ErrNilClient
	}
	if logger == nil {
		return nil, ErrNilLogger
	}

	return &Backend{
		client:           client,
		model:            cfg.Model,
		personGeneration: cfg.PersonGeneration,
		aspectRatio:      cfg.AspectRatio,
		logger:           logger.With("component", "veo_backend"),
	}, nil
}

// Start kicks off a video generation operation for the prompt.
func (b *Backend) Start(ctx context.Context, prompt string) (*domain.Operation, error) {
	b.logger.Debug("starting video generation", "model", b.model)

	op, err := b.client.Models.GenerateVideos(ctx, b.model, prompt, nil, &genai.GenerateVideosConfig{
		PersonGeneration: b.personGeneration,
		AspectRatio:      b.aspectRatio,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start video generation: %w", err)
	}

	return toDomain(op), nil
}

// Poll fetches a fresh snapshot of the operation by name. Returns a nil
// operation with a nil error when the backend response cannot be read as an
// operation, which the caller treats as a protocol violation.
func (b *Backend) Poll(ctx context.Context, op *domain.Operation) (*domain.Operation, error) {
	if op == nil {
		return nil, ErrNilOperation
	}
	if op.Name == "" {
		return nil, ErrUnnamedPoll
	}

	polled, err := b.client.Operations.GetVideosOperation(ctx, &genai.GenerateVideosOperation{
		Name: op.Name,
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to poll operation %s: %w", op.Name, err)
	}

	return toDomain(polled), nil
}

// toDomain maps an SDK operation snapshot into the immutable domain value.
// A nil SDK operation maps to nil, signalling an unreadable response.
func toDomain(op *genai.GenerateVideosOperation) *domain.Operation {
	if op == nil {
		return nil
	}

	out := &domain.Operation{
		Name: op.Name,
		Done: op.Done,
	}

	if len(op.Error) > 0 {
		if msg, ok := op.Error["message"].(string); ok && msg != "" {
			out.ErrorMessage = msg
		} else {
			// Unstructured errors are passed through in string form.
			out.ErrorMessage = fmt.Sprintf("%v", op.Error)
		}
	}

	if resp := op.Response; resp != nil {
		result := &domain.OperationResult{
			RejectionCount:   int(resp.RAIMediaFilteredCount),
			RejectionReasons: resp.RAIMediaFilteredReasons,
		}
		if len(resp.GeneratedVideos) > 0 && resp.GeneratedVideos[0].Video != nil {
			video := resp.GeneratedVideos[0].Video
			result.Payload = video.VideoBytes
			result.MIMEType = video.MIMEType
		}
		out.Result = result
	}

	return out
}
