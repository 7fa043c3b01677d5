package task

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/phrazzld/vidgen-api/internal/domain"
	"github.com/phrazzld/vidgen-api/internal/poller"
)

// Common construction errors
var (
	ErrNilStore  = errors.New("store cannot be nil")
	ErrNilRunner = errors.New("runner cannot be nil")
	ErrNilLogger = errors.New("logger cannot be nil")
)

// Runner executes one complete generation cycle for a task, emitting progress
// events and returning the terminal event. Implemented by poller.Poller.
type Runner interface {
	Run(ctx context.Context, taskID, prompt string, emit poller.EmitFunc) domain.ProgressEvent
}

// Executor owns task identity and lifecycle. Submissions start work
// immediately in a per-task goroutine; many tasks run concurrently, each one
// a single sequential control flow suspending during polling sleeps.
type Executor struct {
	store  *Store
	runner Runner
	logger *slog.Logger

	// ctx governs the lifetime of all running tasks; cancelled by Stop.
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	// active bounds the number of simultaneously running tasks.
	active chan struct{}
}

// maxConcurrentTasks bounds the number of simultaneously running tasks.
const maxConcurrentTasks = 1024

// ErrTooManyTasks is returned when the concurrent task limit is reached.
var ErrTooManyTasks = errors.New("too many concurrent tasks, try again later")

// NewExecutor creates an Executor using the given store and runner.
func NewExecutor(store *Store, runner Runner, logger *slog.Logger) (*Executor, error) {
	if store == nil {
		return nil, ErrNilStore
	}
	if runner == nil {
		return nil, ErrNilRunner
	}
	if logger == nil {
		return nil, ErrNilLogger
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Executor{
		store:  store,
		runner: runner,
		logger: logger.With("component", "executor"),
		ctx:    ctx,
		cancel: cancel,
		active: make(chan struct{}, maxConcurrentTasks),
	}, nil
}

// Submit validates and registers a new task, starts the generation cycle
// immediately, and returns the event stream for it. The first event is a
// working event at percent zero; exactly one terminal event ends the stream.
// Work proceeds whether or not the caller reads the stream; closing the
// stream stops further event emission after the in-flight iteration.
func (e *Executor) Submit(prompt, taskID string) (*Stream, error) {
	task, err := domain.NewVideoTask(taskID, prompt)
	if err != nil {
		return nil, err
	}

	select {
	case e.active <- struct{}{}:
	default:
		return nil, ErrTooManyTasks
	}

	if err := e.store.Save(task); err != nil {
		<-e.active
		return nil, err
	}

	logger := e.logger.With("task_id", task.ID)
	logger.Info("task submitted", "prompt_length", len(prompt))

	stream := newStream(defaultStreamBuffer)

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		defer func() { <-e.active }()
		defer stream.finish()

		// On executor shutdown, close the stream so an emit suspended on a
		// full buffer unblocks and the run can settle.
		unregister := context.AfterFunc(e.ctx, stream.Close)
		defer unregister()

		if err := e.store.UpdateState(task.ID, domain.TaskStateWorking, "", nil); err != nil {
			logger.Error("failed to mark task as working", "error", err)
		}

		terminal := e.runner.Run(e.ctx, task.ID, prompt, stream.emit)
		e.settle(task.ID, terminal, logger)
	}()

	return stream, nil
}

// settle records the terminal outcome on the task record.
func (e *Executor) settle(taskID string, terminal domain.ProgressEvent, logger *slog.Logger) {
	var err error
	switch terminal.Kind {
	case domain.EventCompleted:
		err = e.store.UpdateState(taskID, domain.TaskStateCompleted, "", terminal.Artifact)
		logger.Info("task completed")
	default:
		err = e.store.UpdateState(taskID, domain.TaskStateFailed, terminal.ErrorDetail, nil)
		logger.Info("task failed", "reason", terminal.ErrorDetail)
	}

	if err != nil {
		logger.Error("failed to record terminal task state", "error", err)
	}
}

// GetTask retrieves a copy of the task record with the given ID.
func (e *Executor) GetTask(id string) (*domain.VideoTask, error) {
	return e.store.Get(id)
}

// Stop cancels all running tasks and waits for their goroutines to settle.
// In-flight runs observe the cancellation at their next suspension point and
// end with a failed terminal event.
func (e *Executor) Stop() {
	e.cancel()
	e.wg.Wait()
}
