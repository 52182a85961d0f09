package utils

import (
	treasury "github.com/iov-one/treasury"
	"github.com/iov-one/treasury/errors"
)

// Savepoint will isolate all data inside of the call,
// and commit/rollback to savepoint based on if error.
//
// Events emitted during a delivered call are collected and published to
// the sink only after the call changes were written. Events of a failed
// call are dropped together with its changes.
type Savepoint struct {
	onCheck   bool
	onDeliver bool
	sink      treasury.EventSink
}

var _ treasury.Decorator = Savepoint{}

// NewSavepoint creates a Savepoint decorator,
// but you must call OnCheck/OnDeliver so it will be triggered
func NewSavepoint() Savepoint {
	return Savepoint{}
}

// OnCheck returns a savepoint that will trigger on CheckTx
func (s Savepoint) OnCheck() Savepoint {
	s.onCheck = true
	return s
}

// OnDeliver returns a savepoint that will trigger on DeliverTx
func (s Savepoint) OnDeliver() Savepoint {
	s.onDeliver = true
	return s
}

// WithSink returns a savepoint that publishes committed events to given
// sink.
func (s Savepoint) WithSink(sink treasury.EventSink) Savepoint {
	s.sink = sink
	return s
}

// Check will optionally set a checkpoint. Events are never published from
// a check.
func (s Savepoint) Check(ctx treasury.Context, store treasury.KVStore, tx treasury.Tx, next treasury.Checker) (*treasury.CheckResult, error) {
	ctx = treasury.WithEventRecorder(ctx, treasury.NewEventRecorder())
	if !s.onCheck {
		return next.Check(ctx, store, tx)
	}

	cstore, ok := store.(treasury.CacheableKVStore)
	if !ok {
		return next.Check(ctx, store, tx)
	}

	cache := cstore.CacheWrap()
	if res, err := next.Check(ctx, cache, tx); err != nil {
		cache.Discard()
		return nil, err
	} else if werr := cache.Write(); werr != nil {
		return nil, errors.Wrap(werr, "writing savepoint")
	} else {
		return res, nil
	}
}

// Deliver will optionally set a checkpoint
func (s Savepoint) Deliver(ctx treasury.Context, store treasury.KVStore, tx treasury.Tx, next treasury.Deliverer) (*treasury.DeliverResult, error) {
	rec := treasury.NewEventRecorder()
	ctx = treasury.WithEventRecorder(ctx, rec)

	var (
		res *treasury.DeliverResult
		err error
	)
	cstore, ok := store.(treasury.CacheableKVStore)
	if !s.onDeliver || !ok {
		res, err = next.Deliver(ctx, store, tx)
		if err != nil {
			return nil, err
		}
	} else {
		cache := cstore.CacheWrap()
		if res, err = next.Deliver(ctx, cache, tx); err != nil {
			cache.Discard()
			return nil, err
		}
		if werr := cache.Write(); werr != nil {
			return nil, errors.Wrap(werr, "writing savepoint")
		}
	}

	res.Events = append(res.Events, rec.Events()...)
	if s.sink != nil && len(res.Events) != 0 {
		// State is already committed. A sink failure must not fail the
		// call.
		if err := s.sink.Publish(ctx, res.Events); err != nil {
			treasury.GetLogger(ctx).Error("cannot publish events", "err", err, "count", len(res.Events))
		}
	}
	return res, nil
}
