package pipeline

import (
	"sync"

	"podscribe/internal/stage"
)

// ProgressEvent is one observable step of a pipeline run: a stage, a
// human-readable status message, and an overall fraction in [0,1].
type ProgressEvent struct {
	Stage    stage.Name
	Message  string
	Fraction float64
}

// Reporter delivers progress events to at most one consumer without ever
// blocking the producer: events go through a buffered channel and are dropped
// when the consumer lags, so the model's forward progress never stalls on a
// slow listener. Fractions are clamped monotone.
type Reporter struct {
	mu     sync.Mutex
	ch     chan ProgressEvent
	last   float64
	closed bool
}

// NewReporter creates a reporter with the given buffer size (minimum 1).
func NewReporter(buffer int) *Reporter {
	if buffer < 1 {
		buffer = 1
	}
	return &Reporter{ch: make(chan ProgressEvent, buffer)}
}

// Events returns the consumer side. The channel is closed when the pipeline
// run finishes, successfully or not.
func (r *Reporter) Events() <-chan ProgressEvent {
	return r.ch
}

// Publish emits an event. Fractions lower than anything already published are
// raised to the last published value so consumers never observe regress. A
// nil reporter is a valid no-op.
func (r *Reporter) Publish(s stage.Name, message string, fraction float64) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	if fraction < r.last {
		fraction = r.last
	}
	if fraction > 1 {
		fraction = 1
	}
	r.last = fraction

	select {
	case r.ch <- ProgressEvent{Stage: s, Message: message, Fraction: fraction}:
	default:
		// consumer is lagging; dropping beats blocking the pipeline
	}
}

// Close closes the event channel. Safe to call more than once; Publish after
// Close is ignored.
func (r *Reporter) Close() {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.closed = true
	close(r.ch)
}
