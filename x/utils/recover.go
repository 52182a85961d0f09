package utils

import (
	"fmt"

	treasury "github.com/iov-one/treasury"
	"github.com/iov-one/treasury/errors"
)

// Recovery converts a panic raised by any later decorator or handler into
// an ErrPanic error carrying the path of the message being processed. The
// panic value is logged at error level. Nothing written by the panicking
// call reaches the store, as the savepoint below never commits.
type Recovery struct{}

var _ treasury.Decorator = Recovery{}

func NewRecovery() Recovery {
	return Recovery{}
}

func (r Recovery) Check(ctx treasury.Context, store treasury.KVStore, tx treasury.Tx, next treasury.Checker) (res *treasury.CheckResult, err error) {
	defer func() {
		if v := recover(); v != nil {
			res, err = nil, panicError(ctx, tx, "check", v)
		}
	}()
	return next.Check(ctx, store, tx)
}

func (r Recovery) Deliver(ctx treasury.Context, store treasury.KVStore, tx treasury.Tx, next treasury.Deliverer) (res *treasury.DeliverResult, err error) {
	defer func() {
		if v := recover(); v != nil {
			res, err = nil, panicError(ctx, tx, "deliver", v)
		}
	}()
	return next.Deliver(ctx, store, tx)
}

func panicError(ctx treasury.Context, tx treasury.Tx, phase string, v interface{}) error {
	path := "unknown"
	if tx != nil {
		if msg, err := tx.GetMsg(); err == nil && msg != nil {
			path = msg.Path()
		}
	}
	treasury.GetLogger(ctx).Error("panic recovered",
		"phase", phase, "path", path, "panic", fmt.Sprintf("%v", v))
	return errors.Wrapf(errors.ErrPanic, "%s %s: %v", phase, path, v)
}
