package task

import (
	"context"
	"log/slog"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/vidgen-api/internal/domain"
	"github.com/phrazzld/vidgen-api/internal/poller"
)

// scriptedRunner implements the Runner interface for testing
type scriptedRunner struct {
	working  []domain.ProgressEvent
	terminal domain.ProgressEvent
	delay    time.Duration
	started  atomic.Bool
	stopped  atomic.Bool
}

func (r *scriptedRunner) Run(
	ctx context.Context,
	taskID, prompt string,
	emit poller.EmitFunc,
) domain.ProgressEvent {
	r.started.Store(true)
	for _, ev := range r.working {
		if r.delay > 0 {
			time.Sleep(r.delay)
		}
		select {
		case <-ctx.Done():
			terminal := domain.FailedEvent("cancelled", "cancelled while polling")
			emit(terminal)
			return terminal
		default:
		}
		if !emit(ev) {
			r.stopped.Store(true)
			return domain.FailedEvent("stopped", "event stream closed by consumer")
		}
	}
	emit(r.terminal)
	return r.terminal
}

func setupTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

func completedRunner() *scriptedRunner {
	return &scriptedRunner{
		working: []domain.ProgressEvent{
			domain.WorkingEvent("starting", 0),
			domain.WorkingEvent("polling", 5),
			domain.WorkingEvent("in progress", 50),
		},
		terminal: domain.CompletedEvent("done", &domain.ArtifactRef{
			URL:    "https://signed.example.com/t1/video.mp4",
			Signed: true,
		}),
	}
}

func newTestExecutor(t *testing.T, runner Runner) *Executor {
	e, err := NewExecutor(NewStore(), runner, setupTestLogger())
	require.NoError(t, err)
	return e
}

func drain(t *testing.T, stream *Stream) []domain.ProgressEvent {
	t.Helper()
	var events []domain.ProgressEvent
	for ev := range stream.Events() {
		events = append(events, ev)
	}
	return events
}

func TestNewExecutorValidation(t *testing.T) {
	logger := setupTestLogger()
	runner := completedRunner()
	store := NewStore()

	_, err := NewExecutor(nil, runner, logger)
	assert.ErrorIs(t, err, ErrNilStore)

	_, err = NewExecutor(store, nil, logger)
	assert.ErrorIs(t, err, ErrNilRunner)

	_, err = NewExecutor(store, runner, nil)
	assert.ErrorIs(t, err, ErrNilLogger)
}

func TestSubmitDeliversFullSequence(t *testing.T) {
	e := newTestExecutor(t, completedRunner())

	stream, err := e.Submit("a cat video", "t1")
	require.NoError(t, err)

	events := drain(t, stream)
	require.Len(t, events, 4)
	for i, ev := range events[:3] {
		assert.Equal(t, domain.EventWorking, ev.Kind, "event %d", i)
	}
	terminal := events[3]
	assert.Equal(t, domain.EventCompleted, terminal.Kind)
	assert.Equal(t, 100, terminal.Percent)

	taskRecord, err := e.GetTask("t1")
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStateCompleted, taskRecord.State)
	require.NotNil(t, taskRecord.Artifact)
	assert.True(t, taskRecord.Artifact.Signed)
}

func TestSubmitValidation(t *testing.T) {
	e := newTestExecutor(t, completedRunner())

	_, err := e.Submit("", "t1")
	assert.ErrorIs(t, err, domain.ErrEmptyPrompt)

	_, err = e.Submit("a prompt", "")
	assert.ErrorIs(t, err, domain.ErrEmptyTaskID)

	_, err = e.Submit("a prompt", "has/slash")
	assert.ErrorIs(t, err, domain.ErrUnsafeTaskID)
}

func TestSubmitDuplicateTaskID(t *testing.T) {
	e := newTestExecutor(t, completedRunner())

	stream, err := e.Submit("a prompt", "t1")
	require.NoError(t, err)
	drain(t, stream)

	_, err = e.Submit("a prompt", "t1")
	assert.ErrorIs(t, err, ErrTaskExists)
}

func TestSubmitFailedTaskRecordsReason(t *testing.T) {
	runner := &scriptedRunner{
		working:  []domain.ProgressEvent{domain.WorkingEvent("starting", 0)},
		terminal: domain.FailedEvent("Video generation failed: model unavailable", "model unavailable"),
	}
	e := newTestExecutor(t, runner)

	stream, err := e.Submit("a prompt", "t1")
	require.NoError(t, err)
	events := drain(t, stream)

	terminal := events[len(events)-1]
	assert.Equal(t, domain.EventFailed, terminal.Kind)

	taskRecord, err := e.GetTask("t1")
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStateFailed, taskRecord.State)
	assert.Equal(t, "model unavailable", taskRecord.FailureReason)
	assert.Nil(t, taskRecord.Artifact)
}

func TestWorkBeginsBeforeConsumption(t *testing.T) {
	e := newTestExecutor(t, completedRunner())

	_, err := e.Submit("a prompt", "t1")
	require.NoError(t, err)

	// Without reading a single event, the task should still run to
	// completion: events accumulate in the stream buffer.
	require.Eventually(t, func() bool {
		taskRecord, err := e.GetTask("t1")
		return err == nil && taskRecord.State == domain.TaskStateCompleted
	}, time.Second, 5*time.Millisecond, "work must progress without a consumer")
}

func TestCloseStopsEmission(t *testing.T) {
	runner := &scriptedRunner{
		working:  make([]domain.ProgressEvent, 100),
		terminal: domain.CompletedEvent("done", nil),
		delay:    time.Millisecond,
	}
	for i := range runner.working {
		runner.working[i] = domain.WorkingEvent("tick", 5)
	}
	e := newTestExecutor(t, runner)

	stream, err := e.Submit("a prompt", "t1")
	require.NoError(t, err)

	// Read a couple of events, then walk away.
	<-stream.Events()
	<-stream.Events()
	stream.Close()

	require.Eventually(t, func() bool {
		return runner.stopped.Load()
	}, time.Second, 5*time.Millisecond, "runner must observe the closed stream and stop emitting")

	taskRecord, err := e.GetTask("t1")
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		taskRecord, err = e.GetTask("t1")
		return err == nil && taskRecord.State == domain.TaskStateFailed
	}, time.Second, 5*time.Millisecond)
}

func TestStopSettlesRunningTasks(t *testing.T) {
	runner := &scriptedRunner{
		working:  make([]domain.ProgressEvent, 1000),
		terminal: domain.CompletedEvent("done", nil),
		delay:    time.Millisecond,
	}
	for i := range runner.working {
		runner.working[i] = domain.WorkingEvent("tick", 5)
	}
	e := newTestExecutor(t, runner)

	stream, err := e.Submit("a prompt", "t1")
	require.NoError(t, err)
	<-stream.Events()

	done := make(chan struct{})
	go func() {
		e.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return; running tasks were not settled")
	}
}

func TestStreamEmitAfterClose(t *testing.T) {
	s := newStream(2)
	assert.True(t, s.emit(domain.WorkingEvent("one", 0)))
	s.Close()
	assert.False(t, s.emit(domain.WorkingEvent("two", 5)))
	s.Close() // idempotent
}
