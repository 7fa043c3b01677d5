package domain

// EventKind distinguishes progress updates from the two terminal outcomes.
type EventKind string

// Possible event kinds
const (
	EventWorking   EventKind = "working"
	EventCompleted EventKind = "completed"
	EventFailed    EventKind = "failed"
)

// ProgressEvent is one update delivered to a caller about a running task.
// A task's event sequence consists of zero or more working events followed by
// exactly one completed or failed event, after which nothing else is emitted.
type ProgressEvent struct {
	// Kind tags the event as a progress update or a terminal outcome.
	Kind EventKind

	// Message is the human-readable description of the current step.
	Message string

	// Percent is the estimated completion percentage in [0,100].
	// It is non-decreasing across working events; 100 is reserved for the
	// terminal event.
	Percent int

	// Artifact describes the finalized result. Set only on completed events.
	Artifact *ArtifactRef

	// ErrorDetail carries the failure description. Set only on failed events.
	ErrorDetail string
}

// Terminal reports whether this event ends the task's event sequence.
func (e ProgressEvent) Terminal() bool {
	return e.Kind == EventCompleted || e.Kind == EventFailed
}

// WorkingEvent builds a non-terminal progress update.
func WorkingEvent(message string, percent int) ProgressEvent {
	return ProgressEvent{
		Kind:    EventWorking,
		Message: message,
		Percent: percent,
	}
}

// CompletedEvent builds the successful terminal event carrying the artifact.
func CompletedEvent(message string, artifact *ArtifactRef) ProgressEvent {
	return ProgressEvent{
		Kind:     EventCompleted,
		Message:  message,
		Percent:  100,
		Artifact: artifact,
	}
}

// FailedEvent builds the unsuccessful terminal event carrying the error detail.
func FailedEvent(message string, detail string) ProgressEvent {
	return ProgressEvent{
		Kind:        EventFailed,
		Message:     message,
		Percent:     100,
		ErrorDetail: detail,
	}
}
