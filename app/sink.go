package app

import (
	treasury "github.com/iov-one/treasury"
	"github.com/tendermint/tendermint/libs/log"
)

// LogSink writes every committed event to the logger.
type LogSink struct {
	logger log.Logger
}

var _ treasury.EventSink = (*LogSink)(nil)

// NewLogSink returns a sink writing to given logger.
func NewLogSink(logger log.Logger) *LogSink {
	return &LogSink{logger: logger.With("module", "events")}
}

// Publish implements treasury.EventSink.
func (s *LogSink) Publish(ctx treasury.Context, events []treasury.Event) error {
	for _, e := range events {
		s.logger.Info("event", "type", e.EventType(), "tx", treasury.GetTxID(ctx))
	}
	return nil
}
