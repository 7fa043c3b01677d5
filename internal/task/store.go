package task

import (
	"errors"
	"sync"

	"github.com/phrazzld/vidgen-api/internal/domain"
)

// Common errors returned by the Store
var (
	ErrTaskNotFound = errors.New("task not found")
	ErrTaskExists   = errors.New("task ID already in use")
)

// Store keeps task records in memory for the process lifetime. Records are
// copied on the way in and out so callers never share mutable state with the
// executor. Safe for concurrent use.
type Store struct {
	mu    sync.RWMutex
	tasks map[string]*domain.VideoTask
}

// NewStore creates an empty in-memory task store.
func NewStore() *Store {
	return &Store{
		tasks: make(map[string]*domain.VideoTask),
	}
}

// Save adds a new task record. Returns ErrTaskExists if the ID is taken.
func (s *Store) Save(task *domain.VideoTask) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[task.ID]; ok {
		return ErrTaskExists
	}

	record := *task
	s.tasks[task.ID] = &record
	return nil
}

// Get retrieves a copy of the task with the given ID.
// Returns ErrTaskNotFound if no such task exists.
func (s *Store) Get(id string) (*domain.VideoTask, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.tasks[id]
	if !ok {
		return nil, ErrTaskNotFound
	}

	task := *record
	return &task, nil
}

// UpdateState transitions the stored task to the given state, recording the
// failure reason or artifact where applicable.
func (s *Store) UpdateState(
	id string,
	state domain.TaskState,
	failureReason string,
	artifact *domain.ArtifactRef,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.tasks[id]
	if !ok {
		return ErrTaskNotFound
	}

	if err := record.UpdateState(state); err != nil {
		return err
	}
	record.FailureReason = failureReason
	record.Artifact = artifact
	return nil
}

// List returns copies of all task records, in no particular order.
func (s *Store) List() []*domain.VideoTask {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tasks := make([]*domain.VideoTask, 0, len(s.tasks))
	for _, record := range s.tasks {
		task := *record
		tasks = append(tasks, &task)
	}
	return tasks
}
