package events

import (
	"github.com/phrazzld/vidgen-api/internal/domain"
)

// FilePartData points a caller at the finalized artifact bytes.
type FilePartData struct {
	URI      string `json:"uri"`
	MIMEType string `json:"mimeType"`
}

// StreamEvent is the wire-level shape of one progress event. Non-terminal
// events carry updates and a progress percentage; the terminal event carries
// the outcome, a stable final message, and for successes the artifact
// reference.
type StreamEvent struct {
	IsTaskComplete      bool          `json:"is_task_complete"`
	Updates             string        `json:"updates,omitempty"`
	ProgressPercent     int           `json:"progress_percent"`
	Content             string        `json:"content,omitempty"`
	IsError             bool          `json:"is_error,omitempty"`
	FinalMessageText    string        `json:"final_message_text,omitempty"`
	FilePartData        *FilePartData `json:"file_part_data,omitempty"`
	ArtifactName        string        `json:"artifact_name,omitempty"`
	ArtifactDescription string        `json:"artifact_description,omitempty"`
}

// FromProgress converts a domain progress event into its wire envelope.
func FromProgress(ev domain.ProgressEvent) StreamEvent {
	switch ev.Kind {
	case domain.EventCompleted:
		wire := StreamEvent{
			IsTaskComplete:   true,
			ProgressPercent:  ev.Percent,
			FinalMessageText: ev.Message,
		}
		if ev.Artifact != nil {
			wire.FilePartData = &FilePartData{
				URI:      ev.Artifact.URL,
				MIMEType: ev.Artifact.MIMEType,
			}
			wire.ArtifactName = ev.Artifact.Name
			wire.ArtifactDescription = ev.Artifact.Description
		}
		return wire

	case domain.EventFailed:
		return StreamEvent{
			IsTaskComplete:   true,
			IsError:          true,
			ProgressPercent:  ev.Percent,
			Content:          ev.ErrorDetail,
			FinalMessageText: ev.Message,
		}

	default:
		return StreamEvent{
			IsTaskComplete:  false,
			Updates:         ev.Message,
			ProgressPercent: ev.Percent,
		}
	}
}
