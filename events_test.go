package treasury

import (
	"context"
	"testing"

	"github.com/iov-one/treasury/errors"
	"github.com/stretchr/testify/assert"
)

type namedEvent string

func (e namedEvent) EventType() string { return string(e) }

type collectSink struct {
	events []Event
	err    error
}

func (s *collectSink) Publish(ctx Context, events []Event) error {
	s.events = append(s.events, events...)
	return s.err
}

func TestEmitEvent(t *testing.T) {
	// without a recorder the event is dropped
	EmitEvent(context.Background(), namedEvent("lost"))

	r := NewEventRecorder()
	ctx := WithEventRecorder(context.Background(), r)
	assert.Equal(t, r, GetEventRecorder(ctx))

	EmitEvent(ctx, namedEvent("first"))
	EmitEvent(ctx, namedEvent("second"))
	assert.Equal(t, []Event{namedEvent("first"), namedEvent("second")}, r.Events())

	r.Reset()
	assert.Empty(t, r.Events())
}

func TestMultiSink(t *testing.T) {
	failing := &collectSink{err: errors.ErrDatabase}
	ok := &collectSink{}
	sink := MultiSink{failing, nil, ok}

	events := []Event{namedEvent("a")}
	err := sink.Publish(context.Background(), events)
	assert.True(t, errors.ErrDatabase.Is(err))
	// a failing sink does not stop the others
	assert.Equal(t, events, failing.events)
	assert.Equal(t, events, ok.events)
}
