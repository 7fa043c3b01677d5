package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/phrazzld/vidgen-api/internal/api/shared"
	"github.com/phrazzld/vidgen-api/internal/domain"
	"github.com/phrazzld/vidgen-api/internal/events"
	"github.com/phrazzld/vidgen-api/internal/task"
)

// TaskService abstracts the task executor for the handler.
type TaskService interface {
	Submit(prompt, taskID string) (*task.Stream, error)
	GetTask(id string) (*domain.VideoTask, error)
}

// TaskHandler handles task-related HTTP requests
type TaskHandler struct {
	service   TaskService
	validator *validator.Validate
	logger    *slog.Logger
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(service TaskService, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{
		service:   service,
		validator: validator.New(),
		logger:    logger.With("component", "task_handler"),
	}
}

// SubmitTask handles POST /api/tasks requests. It starts a generation task
// and streams its progress events to the caller as newline-delimited JSON,
// one wire event per line, flushed as they arrive. The final line is always
// the terminal event.
func (h *TaskHandler) SubmitTask(w http.ResponseWriter, r *http.Request) {
	var req SubmitTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	taskID := req.TaskID
	if taskID == "" {
		taskID = uuid.New().String()
	}

	stream, err := h.service.Submit(req.Prompt, taskID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	logger := h.logger.With("task_id", taskID, "trace_id", shared.GetTraceID(r.Context()))
	logger.Info("streaming task events")

	w.Header().Set("Content-Type", "application/x-ndjson")
	w.Header().Set("X-Task-ID", taskID)
	w.WriteHeader(http.StatusOK)

	flusher, canFlush := w.(http.Flusher)
	encoder := json.NewEncoder(w)

	// Stop forwarding when the client goes away; the in-flight run settles on
	// its own once it observes the closed stream.
	clientGone := r.Context().Done()

	for {
		select {
		case <-clientGone:
			stream.Close()
			logger.Debug("client disconnected, stream closed")
			return
		case ev, ok := <-stream.Events():
			if !ok {
				return
			}
			if err := encoder.Encode(events.FromProgress(ev)); err != nil {
				stream.Close()
				logger.Warn("failed to write event, stream closed", "error", err)
				return
			}
			if canFlush {
				flusher.Flush()
			}
		}
	}
}

// GetTask handles GET /api/tasks/{id} requests, returning a task snapshot.
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "id")
	if taskID == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Task ID is required")
		return
	}

	t, err := h.service.GetTask(taskID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(t))
}
