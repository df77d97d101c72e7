// Package progress provides the UI-facing side channel for pipeline status
// events. Emission is fire-and-forget: the pipeline never blocks on a slow
// consumer and never sees an error from the channel.
package progress

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Severity classifies a progress event.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Event is an observability-only message. It carries no control-flow weight:
// dropping every event changes nothing about a run's outcome.
type Event struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// Emitter fans progress events out to at most one consumer through a
// buffered channel. When the buffer is full or the emitter is closed, events
// are dropped and logged, never propagated.
type Emitter struct {
	mu     sync.Mutex
	ch     chan Event
	closed bool
}

// DefaultBuffer is the event buffer size used by NewEmitter.
const DefaultBuffer = 64

// NewEmitter creates an Emitter with the given buffer size (DefaultBuffer if
// size <= 0).
func NewEmitter(size int) *Emitter {
	if size <= 0 {
		size = DefaultBuffer
	}
	return &Emitter{ch: make(chan Event, size)}
}

// Emit delivers an event if the consumer is keeping up, otherwise drops it.
func (e *Emitter) Emit(ev Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	select {
	case e.ch <- ev:
	default:
		zap.L().Debug("progress: dropped event",
			zap.String("severity", string(ev.Severity)),
			zap.String("message", ev.Message),
		)
	}
}

// Info emits an info-severity event with fmt.Sprintf formatting.
func (e *Emitter) Info(format string, args ...any) {
	e.Emit(Event{Severity: SeverityInfo, Message: fmt.Sprintf(format, args...)})
}

// Warning emits a warning-severity event.
func (e *Emitter) Warning(format string, args ...any) {
	e.Emit(Event{Severity: SeverityWarning, Message: fmt.Sprintf(format, args...)})
}

// Error emits an error-severity event.
func (e *Emitter) Error(format string, args ...any) {
	e.Emit(Event{Severity: SeverityError, Message: fmt.Sprintf(format, args...)})
}

// Events returns the consumer side of the stream. It is closed by Close.
func (e *Emitter) Events() <-chan Event {
	return e.ch
}

// Close marks the emitter closed and closes the event channel. Emit calls
// after Close are no-ops.
func (e *Emitter) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.closed = true
	close(e.ch)
}
