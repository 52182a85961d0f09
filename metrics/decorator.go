package metrics

import (
	"strconv"
	"time"

	treasury "github.com/iov-one/treasury"
	"github.com/iov-one/treasury/errors"
)

// Decorator measures delivered transactions. Checks are not measured.
type Decorator struct {
	m *Metrics
}

var _ treasury.Decorator = Decorator{}

// NewDecorator returns a decorator reporting to given metrics.
func NewDecorator(m *Metrics) Decorator {
	return Decorator{m: m}
}

// Check implements treasury.Decorator.
func (d Decorator) Check(ctx treasury.Context, store treasury.KVStore, tx treasury.Tx, next treasury.Checker) (*treasury.CheckResult, error) {
	return next.Check(ctx, store, tx)
}

// Deliver implements treasury.Decorator.
func (d Decorator) Deliver(ctx treasury.Context, store treasury.KVStore, tx treasury.Tx, next treasury.Deliverer) (*treasury.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, store, tx)
	d.m.Duration.Observe(time.Since(start).Seconds())
	code, _ := errors.Info(err, false)
	d.m.Transactions.With("code", strconv.FormatUint(uint64(code), 10)).Add(1)
	return res, err
}
