package treasury

import (
	"context"
)

// Event is an observable notification produced while processing a
// transaction. Events are only published once the state change that
// produced them was committed.
type Event interface {
	// EventType returns a short, stable name of this kind of event. It
	// is used for routing and metric labels.
	EventType() string
}

// EventSink receives committed events, in the order they were emitted.
type EventSink interface {
	Publish(ctx Context, events []Event) error
}

// EventRecorder collects events emitted during a single call. It is not
// safe for concurrent use, as calls are processed one at a time.
type EventRecorder struct {
	events []Event
}

// NewEventRecorder returns an empty recorder.
func NewEventRecorder() *EventRecorder {
	return &EventRecorder{}
}

// Record appends an event.
func (r *EventRecorder) Record(e Event) {
	r.events = append(r.events, e)
}

// Events returns all recorded events.
func (r *EventRecorder) Events() []Event {
	return r.events
}

// Reset drops all recorded events.
func (r *EventRecorder) Reset() {
	r.events = nil
}

// WithEventRecorder attaches a recorder to the context. Any event emitted
// with EmitEvent using returned context is collected by the recorder.
func WithEventRecorder(ctx Context, r *EventRecorder) Context {
	return context.WithValue(ctx, contextKeyEvents, r)
}

// GetEventRecorder returns the recorder attached to the context or nil.
func GetEventRecorder(ctx Context) *EventRecorder {
	r, _ := ctx.Value(contextKeyEvents).(*EventRecorder)
	return r
}

// EmitEvent records an event in the context recorder. If no recorder is
// present the event is only logged.
func EmitEvent(ctx Context, e Event) {
	if r := GetEventRecorder(ctx); r != nil {
		r.Record(e)
		return
	}
	GetLogger(ctx).Debug("event dropped, no recorder", "event", e.EventType())
}

// MultiSink publishes to all given sinks. Publishing does not stop on the
// first failure, the first error is returned.
type MultiSink []EventSink

var _ EventSink = MultiSink(nil)

// Publish implements EventSink.
func (ms MultiSink) Publish(ctx Context, events []Event) error {
	var first error
	for _, s := range ms {
		if s == nil {
			continue
		}
		if err := s.Publish(ctx, events); err != nil && first == nil {
			first = err
		}
	}
	return first
}
