package domain

import (
	"errors"
	"regexp"
	"time"
)

// TaskState represents the lifecycle state of a video generation task
type TaskState string

// Possible task state values
const (
	TaskStateSubmitted TaskState = "submitted"
	TaskStateWorking   TaskState = "working"
	TaskStateCompleted TaskState = "completed"
	TaskStateFailed    TaskState = "failed"
)

// IsTerminal returns true if the state is a terminal state.
func (s TaskState) IsTerminal() bool {
	return s == TaskStateCompleted || s == TaskStateFailed
}

// Common validation errors for VideoTask
var (
	ErrEmptyTaskID      = errors.New("task ID cannot be empty")
	ErrUnsafeTaskID     = errors.New("task ID must contain only letters, digits, '.', '_' or '-'")
	ErrEmptyPrompt      = errors.New("prompt cannot be empty")
	ErrInvalidTaskState = errors.New("invalid task state")
)

// taskIDPattern restricts task IDs to path-safe characters since the ID is
// also used as a storage path namespace.
var taskIDPattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// VideoTask represents a single video generation request and its lifecycle.
// Tasks are created on submission, mutated only by the task executor, and are
// not persisted beyond the process lifetime.
type VideoTask struct {
	ID            string       `json:"id"`
	Prompt        string       `json:"prompt"`
	State         TaskState    `json:"state"`
	FailureReason string       `json:"failure_reason,omitempty"`
	Artifact      *ArtifactRef `json:"artifact,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// NewVideoTask creates a new VideoTask with the given caller-supplied ID and
// prompt. The task starts in the submitted state with creation/update
// timestamps set. Returns an error if validation fails.
func NewVideoTask(id, prompt string) (*VideoTask, error) {
	task := &VideoTask{
		ID:        id,
		Prompt:    prompt,
		State:     TaskStateSubmitted,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the VideoTask has valid data.
// Returns an error if any field fails validation.
func (t *VideoTask) Validate() error {
	if t.ID == "" {
		return ErrEmptyTaskID
	}

	if !taskIDPattern.MatchString(t.ID) {
		return ErrUnsafeTaskID
	}

	if t.Prompt == "" {
		return ErrEmptyPrompt
	}

	if !isValidTaskState(t.State) {
		return ErrInvalidTaskState
	}

	return nil
}

// UpdateState updates the task's state and the UpdatedAt timestamp.
// Returns an error if the new state is invalid.
func (t *VideoTask) UpdateState(state TaskState) error {
	if !isValidTaskState(state) {
		return ErrInvalidTaskState
	}

	t.State = state
	t.UpdatedAt = time.Now().UTC()
	return nil
}

// isValidTaskState checks if the given state is a valid TaskState.
func isValidTaskState(state TaskState) bool {
	switch state {
	case TaskStateSubmitted, TaskStateWorking, TaskStateCompleted, TaskStateFailed:
		return true
	default:
		return false
	}
}
