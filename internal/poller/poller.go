// Package poller drives the backend's start/poll cycle for a single video
// generation task and converts it into a sequence of progress events ending
// in exactly one terminal event. The poller owns the operation value for the
// duration of a run; each poll returns a fresh snapshot that is threaded
// through loop state.
package poller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/phrazzld/vidgen-api/internal/domain"
	"github.com/phrazzld/vidgen-api/internal/progress"
	"github.com/phrazzld/vidgen-api/internal/redact"
)

// Common construction errors
var (
	ErrNilBackend   = errors.New("backend cannot be nil")
	ErrNilFinalizer = errors.New("finalizer cannot be nil")
	ErrNilLogger    = errors.New("logger cannot be nil")
)

// unknownOperationName is used in progress messages when the backend does not
// report an operation identifier. A missing identifier is cosmetic and never
// stops polling.
const unknownOperationName = "N/A"

// Backend is the long-running operation capability the poller drives.
type Backend interface {
	// Start kicks off a generation operation for the prompt.
	Start(ctx context.Context, prompt string) (*domain.Operation, error)

	// Poll fetches a fresh snapshot of the operation. A nil snapshot with a
	// nil error signals a protocol violation: the response could not be read
	// as an operation at all.
	Poll(ctx context.Context, op *domain.Operation) (*domain.Operation, error)
}

// Finalizer turns a completed operation's payload into a durable artifact.
type Finalizer interface {
	Finalize(ctx context.Context, payload []byte, mimeType, taskID, prompt string) (*domain.ArtifactRef, error)
}

// EstimateFunc maps elapsed time against an assumed total duration to a
// bounded progress percentage.
type EstimateFunc func(elapsed, assumedTotal time.Duration) int

// EmitFunc delivers one progress event to the task's consumer. It returns
// false when the consumer has stopped listening, in which case the poller
// stops issuing events after the in-flight iteration.
type EmitFunc func(domain.ProgressEvent) bool

// Config holds the polling loop settings.
type Config struct {
	// PollInterval is the fixed sleep between polls.
	PollInterval time.Duration

	// AssumedGenerationTime is the assumed total duration used for the
	// simulated progress estimate.
	AssumedGenerationTime time.Duration

	// PollTimeout is the wall-clock ceiling on the whole run. Zero disables
	// the ceiling and polls indefinitely.
	PollTimeout time.Duration
}

// Poller runs the start/poll/finalize cycle for video generation tasks.
type Poller struct {
	backend   Backend
	finalizer Finalizer
	estimate  EstimateFunc
	config    Config
	logger    *slog.Logger
}

// New creates a Poller. The estimate function defaults to progress.Estimate
// when nil.
func New(backend Backend, finalizer Finalizer, config Config, logger *slog.Logger) (*Poller, error) {
	if backend == nil {
		return nil, ErrNilBackend
	}
	if finalizer == nil {
		return nil, ErrNilFinalizer
	}
	if logger == nil {
		return nil, ErrNilLogger
	}

	return &Poller{
		backend:   backend,
		finalizer: finalizer,
		estimate:  progress.Estimate,
		config:    config,
		logger:    logger.With("component", "poller"),
	}, nil
}

// SetEstimator replaces the progress estimate function. Intended for tests
// and for swapping in a genuine progress signal once one exists.
func (p *Poller) SetEstimator(estimate EstimateFunc) {
	if estimate != nil {
		p.estimate = estimate
	}
}

// Run executes one complete generation cycle for the task and returns the
// terminal event. Every event, including the terminal one, is offered to
// emit; if emit reports the consumer is gone, no further events are issued
// but the terminal outcome is still returned so the task record can be
// settled. A run never exits without a terminal event: any unexpected
// failure is caught here, logged with the last known operation identifier,
// and converted into a failed terminal event.
func (p *Poller) Run(
	ctx context.Context,
	taskID string,
	prompt string,
	emit EmitFunc,
) (terminal domain.ProgressEvent) {
	logger := p.logger.With("task_id", taskID)
	opName := unknownOperationName

	defer func() {
		if r := recover(); r != nil {
			logger.Error("unexpected failure during video generation",
				"operation", opName,
				"panic", r)
			terminal = domain.FailedEvent(
				"An unexpected error occurred during video generation.",
				redact.String(fmt.Sprintf("unexpected failure: %v", r)))
			emit(terminal)
		}
	}()

	if !emit(domain.WorkingEvent(
		fmt.Sprintf("Received prompt: %q. Starting video generation.", prompt), 0)) {
		return p.abandoned(logger, opName)
	}

	started := time.Now()

	op, err := p.backend.Start(ctx, prompt)
	if err != nil {
		logger.Error("failed to start video generation", "error", err)
		terminal = domain.FailedEvent(
			"Video generation could not be started.",
			fmt.Sprintf("failed to start operation: %v", err))
		emit(terminal)
		return terminal
	}
	if op == nil {
		return p.protocolViolation(logger, opName, emit)
	}
	if op.Name != "" {
		opName = op.Name
	} else {
		logger.Warn("backend did not report an operation identifier")
	}

	logger.Info("video generation operation started", "operation", opName)

	if !emit(domain.WorkingEvent(
		fmt.Sprintf("Video generation operation %q started. Polling for completion.", opName),
		progress.MinPercent)) {
		return p.abandoned(logger, opName)
	}

	var deadline time.Time
	if p.config.PollTimeout > 0 {
		deadline = started.Add(p.config.PollTimeout)
	}

	iteration := 0
	for !op.Done {
		if !deadline.IsZero() && time.Now().After(deadline) {
			logger.Error("polling deadline exceeded",
				"operation", opName,
				"timeout", p.config.PollTimeout)
			terminal = domain.FailedEvent(
				"Video generation did not complete in time.",
				domain.ErrPollTimeout.Error())
			emit(terminal)
			return terminal
		}

		select {
		case <-ctx.Done():
			logger.Warn("video generation cancelled", "operation", opName, "error", ctx.Err())
			terminal = domain.FailedEvent(
				"Video generation was cancelled.",
				fmt.Sprintf("cancelled while polling: %v", ctx.Err()))
			emit(terminal)
			return terminal
		case <-time.After(p.config.PollInterval):
		}

		polled, err := p.backend.Poll(ctx, op)
		if err != nil {
			logger.Error("failed to poll operation", "operation", opName, "error", err)
			terminal = domain.FailedEvent(
				"Video generation polling failed.",
				fmt.Sprintf("poll failed: %v", err))
			emit(terminal)
			return terminal
		}
		if polled == nil {
			return p.protocolViolation(logger, opName, emit)
		}

		op = polled
		if op.Name != "" {
			opName = op.Name
		}

		iteration++
		percent := p.estimate(time.Since(started), p.config.AssumedGenerationTime)
		if !emit(domain.WorkingEvent(
			fmt.Sprintf("Video generation in progress (operation: %s, iteration %d). Simulated progress: %d%%.",
				opName, iteration, percent),
			percent)) {
			return p.abandoned(logger, opName)
		}
	}

	logger.Info("video generation operation finished polling",
		"operation", opName,
		"iterations", iteration)

	terminal = p.settle(ctx, op, taskID, prompt, logger)
	emit(terminal)
	return terminal
}

// settle classifies a done operation into its single terminal event,
// invoking the finalizer only for a successful operation with a payload.
func (p *Poller) settle(
	ctx context.Context,
	op *domain.Operation,
	taskID string,
	prompt string,
	logger *slog.Logger,
) domain.ProgressEvent {
	if op.ErrorMessage != "" {
		message := fmt.Sprintf("Video generation failed: %s", op.ErrorMessage)
		logger.Error("operation finished with backend error", "error", op.ErrorMessage)
		return domain.FailedEvent(message, op.ErrorMessage)
	}

	switch {
	case op.Result.HasPayload():
		return p.finalizeResult(ctx, op.Result, taskID, prompt, logger)

	case op.Result.Rejected():
		reasons := strings.Join(op.Result.RejectionReasons, ", ")
		if reasons == "" {
			reasons = "unknown safety filter"
		}
		message := fmt.Sprintf("%s. Reasons: %s", domain.ErrContentRejected.Error(), reasons)
		logger.Warn("generation blocked by safety filters",
			"rejection_count", op.Result.RejectionCount,
			"reasons", reasons)
		return domain.FailedEvent(message, message)

	default:
		// An unrecognized empty result is never treated as success.
		logger.Error("operation done without payload or explicit rejection")
		message := domain.ErrEmptyResult.Error()
		return domain.FailedEvent(message, message)
	}
}

// finalizeResult hands the payload to the finalizer and converts its outcome
// into the terminal event.
func (p *Poller) finalizeResult(
	ctx context.Context,
	result *domain.OperationResult,
	taskID string,
	prompt string,
	logger *slog.Logger,
) domain.ProgressEvent {
	mimeType := result.MIMEType
	if mimeType == "" {
		mimeType = "video/mp4"
	}

	artifact, err := p.finalizer.Finalize(ctx, result.Payload, mimeType, taskID, prompt)
	if err != nil {
		logger.Error("failed to finalize generated video", "error", err)
		return domain.FailedEvent(
			"Video was generated but could not be stored.",
			err.Error())
	}

	var message string
	if artifact.Signed {
		message = fmt.Sprintf("Video generation successful. Access video at link (expires): %s", artifact.URL)
	} else {
		message = fmt.Sprintf("Video generation successful. Video stored at %s. A signed URL could not be generated.", artifact.URL)
	}

	logger.Info("video generation completed",
		"artifact", artifact.Name,
		"signed", artifact.Signed)

	return domain.CompletedEvent(message, artifact)
}

// protocolViolation emits the immediate terminal failure for an unreadable
// poll response. The backend contract is broken, so this is never retried.
func (p *Poller) protocolViolation(logger *slog.Logger, opName string, emit EmitFunc) domain.ProgressEvent {
	logger.Error("backend returned an unreadable operation", "operation", opName)
	terminal := domain.FailedEvent(
		"Video generation polling encountered an API issue.",
		domain.ErrProtocolViolation.Error())
	emit(terminal)
	return terminal
}

// abandoned records the terminal outcome for a task whose consumer stopped
// listening mid-run. No event is emitted since nothing is consuming them.
func (p *Poller) abandoned(logger *slog.Logger, opName string) domain.ProgressEvent {
	logger.Warn("event stream closed by consumer, stopping polling", "operation", opName)
	return domain.FailedEvent(
		"Video generation stopped: caller stopped consuming events.",
		"event stream closed by consumer")
}
