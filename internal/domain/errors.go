package domain

import "errors"

// Failure taxonomy for the polling and finalization pipeline. All of these
// are terminal: the only retry in this system is the poll-until-done loop
// itself, and resubmission as a new task is the caller's recourse.
var (
	// ErrProtocolViolation is returned when a poll response lacks the shape
	// of an operation. The backend contract, not a transient state, is
	// broken, so polling stops immediately and is never retried.
	ErrProtocolViolation = errors.New("backend returned an unreadable operation")

	// ErrBackendFailed is returned when the operation finished with an error
	// reported by the backend.
	ErrBackendFailed = errors.New("video generation failed on the backend")

	// ErrContentRejected is returned when content moderation withheld the
	// generated output.
	ErrContentRejected = errors.New("video generation was blocked by safety filters")

	// ErrEmptyResult is returned when the operation completed without a
	// payload and without an explicit rejection. An unrecognized empty
	// result is never treated as success.
	ErrEmptyResult = errors.New("generation completed but returned no video and no explicit rejection")

	// ErrFinalizeFailed is returned when uploading the generated bytes to
	// durable storage failed or the storage client is unavailable.
	ErrFinalizeFailed = errors.New("failed to finalize generated video")

	// ErrPollTimeout is returned when the operation did not report done
	// within the configured wall-clock ceiling.
	ErrPollTimeout = errors.New("video generation did not complete within the polling deadline")
)
