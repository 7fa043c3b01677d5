package task

import (
	"sync"

	"github.com/phrazzld/vidgen-api/internal/domain"
)

// defaultStreamBuffer is how many events a stream holds before the producer
// suspends. The buffer lets work progress before the caller starts reading.
const defaultStreamBuffer = 16

// Stream is a lazy, pull-based sequence of progress events for one task.
// The sequence carries zero or more working events followed by exactly one
// terminal event, after which the channel is closed. Closing the stream
// tells the producer to stop issuing events after its in-flight iteration;
// it does not abort the backend operation.
type Stream struct {
	events    chan domain.ProgressEvent
	closed    chan struct{}
	closeOnce sync.Once
}

// newStream creates a stream with the given event buffer size.
func newStream(buffer int) *Stream {
	if buffer <= 0 {
		buffer = defaultStreamBuffer
	}
	return &Stream{
		events: make(chan domain.ProgressEvent, buffer),
		closed: make(chan struct{}),
	}
}

// Events returns the channel progress events are delivered on. The channel
// is closed after the terminal event.
func (s *Stream) Events() <-chan domain.ProgressEvent {
	return s.events
}

// Close signals that the caller has stopped consuming. Safe to call more
// than once and safe to call concurrently with event delivery.
func (s *Stream) Close() {
	s.closeOnce.Do(func() {
		close(s.closed)
	})
}

// emit offers an event to the consumer, suspending while the buffer is full.
// Returns false once the stream has been closed.
func (s *Stream) emit(ev domain.ProgressEvent) bool {
	select {
	case <-s.closed:
		return false
	default:
	}

	select {
	case s.events <- ev:
		return true
	case <-s.closed:
		return false
	}
}

// finish closes the event channel. Called by the producer exactly once,
// after the terminal event has been offered.
func (s *Stream) finish() {
	close(s.events)
}
