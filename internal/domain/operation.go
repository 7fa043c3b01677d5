package domain

// Operation is an immutable snapshot of a long-running video generation
// operation on the backend. Each poll returns a fresh value; the poller
// threads it through loop state rather than mutating it in place, so a value
// is never shared across tasks or poll iterations.
type Operation struct {
	// Name is the backend's identifier for the operation. May be empty when
	// the backend does not report one; callers should treat that as cosmetic.
	Name string

	// Done reports whether the operation has reached a terminal state on the
	// backend. Polling continues only while Done is false.
	Done bool

	// ErrorMessage carries the backend's error text when the operation
	// finished unsuccessfully. Empty when no error was reported.
	ErrorMessage string

	// Result holds the generation output once the operation is done.
	// Nil while in flight or when the backend returned nothing.
	Result *OperationResult
}

// OperationResult is the payload portion of a completed operation.
type OperationResult struct {
	// Payload is the raw generated media. Empty when generation produced no
	// output, which is never treated as success.
	Payload []byte

	// MIMEType describes the payload encoding, e.g. "video/mp4".
	MIMEType string

	// RejectionCount is the number of outputs withheld by content moderation.
	RejectionCount int

	// RejectionReasons lists the moderation reasons, if any were given.
	RejectionReasons []string
}

// HasPayload reports whether the result carries generated media bytes.
func (r *OperationResult) HasPayload() bool {
	return r != nil && len(r.Payload) > 0
}

// Rejected reports whether content moderation withheld the output.
func (r *OperationResult) Rejected() bool {
	return r != nil && r.RejectionCount > 0
}
