package utils

import (
	treasury "github.com/iov-one/treasury"
)

type testEvent string

func (e testEvent) EventType() string { return string(e) }

// writeHandler writes the key/value pair, emits an event and returns the
// configured error.
type writeHandler struct {
	key, value []byte
	event      testEvent
	err        error
}

var _ treasury.Handler = writeHandler{}

func (h writeHandler) Check(ctx treasury.Context, db treasury.KVStore, tx treasury.Tx) (*treasury.CheckResult, error) {
	if err := db.Set(h.key, h.value); err != nil {
		return nil, err
	}
	if h.event != "" {
		treasury.EmitEvent(ctx, h.event)
	}
	if h.err != nil {
		return nil, h.err
	}
	return &treasury.CheckResult{Log: "checked"}, nil
}

func (h writeHandler) Deliver(ctx treasury.Context, db treasury.KVStore, tx treasury.Tx) (*treasury.DeliverResult, error) {
	if err := db.Set(h.key, h.value); err != nil {
		return nil, err
	}
	if h.event != "" {
		treasury.EmitEvent(ctx, h.event)
	}
	if h.err != nil {
		return nil, h.err
	}
	return &treasury.DeliverResult{Log: "delivered"}, nil
}

type panicHandler struct{}

var _ treasury.Handler = panicHandler{}

func (p panicHandler) Check(ctx treasury.Context, store treasury.KVStore, tx treasury.Tx) (*treasury.CheckResult, error) {
	panic("check panic")
}

func (p panicHandler) Deliver(ctx treasury.Context, store treasury.KVStore, tx treasury.Tx) (*treasury.DeliverResult, error) {
	panic("deliver panic")
}

type nopTx struct{}

func (nopTx) GetMsg() (treasury.Msg, error) { return nil, nil }

type recordingSink struct {
	published [][]treasury.Event
	err       error
}

func (s *recordingSink) Publish(ctx treasury.Context, events []treasury.Event) error {
	s.published = append(s.published, events)
	return s.err
}
