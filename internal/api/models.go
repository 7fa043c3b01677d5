package api

import (
	"time"

	"github.com/phrazzld/vidgen-api/internal/domain"
)

// SubmitTaskRequest represents the request body for submitting a new
// generation task. TaskID is optional; a fresh UUID is assigned when omitted.
type SubmitTaskRequest struct {
	Prompt string `json:"prompt"  validate:"required,min=1"`
	TaskID string `json:"task_id" validate:"omitempty,max=256"`
}

// ArtifactResponse represents the finalized artifact of a completed task.
type ArtifactResponse struct {
	URL         string `json:"url"`
	MIMEType    string `json:"mime_type"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Signed      bool   `json:"signed"`
}

// TaskResponse represents the response data for a task snapshot.
type TaskResponse struct {
	ID            string            `json:"id"`
	Prompt        string            `json:"prompt"`
	State         string            `json:"state"`
	FailureReason string            `json:"failure_reason,omitempty"`
	Artifact      *ArtifactResponse `json:"artifact,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// taskToResponse converts a domain.VideoTask to a TaskResponse
func taskToResponse(t *domain.VideoTask) TaskResponse {
	resp := TaskResponse{
		ID:            t.ID,
		Prompt:        t.Prompt,
		State:         string(t.State),
		FailureReason: t.FailureReason,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
	if t.Artifact != nil {
		resp.Artifact = &ArtifactResponse{
			URL:         t.Artifact.URL,
			MIMEType:    t.Artifact.MIMEType,
			Name:        t.Artifact.Name,
			Description: t.Artifact.Description,
			Signed:      t.Artifact.Signed,
		}
	}
	return resp
}
