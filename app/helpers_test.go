package app

import (
	treasury "github.com/iov-one/treasury"
	"github.com/iov-one/treasury/errors"
)

// countingDecorator counts each call on the way in and on the way out.
type countingDecorator struct {
	called int
}

var _ treasury.Decorator = (*countingDecorator)(nil)

func (c *countingDecorator) Check(ctx treasury.Context, store treasury.KVStore, tx treasury.Tx, next treasury.Checker) (*treasury.CheckResult, error) {
	c.called++
	res, err := next.Check(ctx, store, tx)
	c.called++
	return res, err
}

func (c *countingDecorator) Deliver(ctx treasury.Context, store treasury.KVStore, tx treasury.Tx, next treasury.Deliverer) (*treasury.DeliverResult, error) {
	c.called++
	res, err := next.Deliver(ctx, store, tx)
	c.called++
	return res, err
}

type countingHandler struct {
	called int
}

var _ treasury.Handler = (*countingHandler)(nil)

func (c *countingHandler) Check(treasury.Context, treasury.KVStore, treasury.Tx) (*treasury.CheckResult, error) {
	c.called++
	return &treasury.CheckResult{}, nil
}

func (c *countingHandler) Deliver(treasury.Context, treasury.KVStore, treasury.Tx) (*treasury.DeliverResult, error) {
	c.called++
	return &treasury.DeliverResult{}, nil
}

// panicDecorator panics when the tx carries the panic message.
type panicDecorator struct{}

var _ treasury.Decorator = panicDecorator{}

func (panicDecorator) Check(ctx treasury.Context, store treasury.KVStore, tx treasury.Tx, next treasury.Checker) (*treasury.CheckResult, error) {
	if msg, _ := tx.GetMsg(); msg != nil && msg.Path() == "panic" {
		panic("boom")
	}
	return next.Check(ctx, store, tx)
}

func (panicDecorator) Deliver(ctx treasury.Context, store treasury.KVStore, tx treasury.Tx, next treasury.Deliverer) (*treasury.DeliverResult, error) {
	if msg, _ := tx.GetMsg(); msg != nil && msg.Path() == "panic" {
		panic("boom")
	}
	return next.Deliver(ctx, store, tx)
}

type pathMsg string

func (m pathMsg) Path() string    { return string(m) }
func (m pathMsg) Validate() error { return nil }

type pathTx string

func (t pathTx) GetMsg() (treasury.Msg, error) {
	if t == "" {
		return nil, errors.Wrap(errors.ErrEmpty, "msg")
	}
	return pathMsg(t), nil
}
