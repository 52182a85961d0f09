package metrics

import (
	treasury "github.com/iov-one/treasury"
	"github.com/iov-one/treasury/x/cosign"
)

var _ treasury.EventSink = (*Metrics)(nil)

// Publish implements treasury.EventSink.
func (m *Metrics) Publish(ctx treasury.Context, events []treasury.Event) error {
	for _, e := range events {
		m.Events.With("type", e.EventType()).Add(1)
		if ev, ok := e.(*cosign.OperationApproved); ok {
			m.Executions.With("operation", ev.Operation.Type.String()).Add(1)
		}
	}
	return nil
}
