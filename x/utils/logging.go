package utils

import (
	"encoding/hex"
	"strings"
	"time"

	treasury "github.com/iov-one/treasury"
)

// Logging is a decorator to log messages as they pass through
type Logging struct{}

var _ treasury.Decorator = Logging{}

// NewLogging creates a Logging decorator
func NewLogging() Logging {
	return Logging{}
}

// Check logs error -> info, success -> debug
func (r Logging) Check(ctx treasury.Context, store treasury.KVStore, tx treasury.Tx, next treasury.Checker) (*treasury.CheckResult, error) {
	ctx = withTxInfo(ctx, tx)
	start := time.Now()
	res, err := next.Check(ctx, store, tx)
	var resLog string
	if err == nil {
		resLog = res.Log
	}
	logDuration(ctx, start, resLog, err, true)
	return res, err
}

// Deliver logs error -> error, success -> info
func (r Logging) Deliver(ctx treasury.Context, store treasury.KVStore, tx treasury.Tx, next treasury.Deliverer) (*treasury.DeliverResult, error) {
	ctx = withTxInfo(ctx, tx)
	start := time.Now()
	res, err := next.Deliver(ctx, store, tx)
	var resLog string
	if err == nil {
		resLog = res.Log
		ctx = treasury.WithLogInfo(ctx, "executed", res.Executed)
	}
	logDuration(ctx, start, resLog, err, false)
	return res, err
}

// withTxInfo attaches the transaction id and the message path to the
// context logger, so that all handlers log them.
func withTxInfo(ctx treasury.Context, tx treasury.Tx) treasury.Context {
	if id := treasury.GetTxID(ctx); id != nil {
		ctx = treasury.WithLogInfo(ctx, "tx", strings.ToUpper(hex.EncodeToString(id)))
	}
	if msg, err := tx.GetMsg(); err == nil && msg != nil {
		ctx = treasury.WithLogInfo(ctx, "path", msg.Path())
	}
	return ctx
}

// logDuration writes information about the time and result to the logger
func logDuration(ctx treasury.Context, start time.Time, msg string, err error, lowPrio bool) {
	delta := time.Since(start)
	logger := treasury.GetLogger(ctx).With("duration", delta/time.Microsecond)

	if err != nil {
		logger = logger.With("err", err)
	}

	// Although message can be empty, we still want to emit a log entry
	// because it contains other relevant information beside the message.

	if err != nil {
		logger.Error(msg)
	} else {
		if lowPrio {
			logger.Debug(msg)
		} else {
			logger.Info(msg)
		}
	}
}
