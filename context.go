/*
Package treasury defines all common interfaces that tie
together the various subpackages of the multisignature
treasury, as well as implementations of some of the simpler
components (when interfaces would be too much overhead).

We pass context through context.Context between
app, middleware, and handlers. To do so, treasury defines
some common keys to store info, such as the chain id, the
time of the call and the id of the transaction being
processed. Each extension, such as member, may add its own
keys to enrich the context with specific data.

There should exist two functions for every XYZ of type T
that we want to support in Context:

	WithXYZ(Context, T) Context
	GetXYZ(Context) (val T, ok bool)

WithXYZ may panic if the value was previously set
to avoid lower-level modules overwriting the value
(eg. tx id, chain id)
*/
package treasury

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/tendermint/tendermint/libs/log"
)

type contextKey int // local to the treasury module

const (
	contextKeyTxID contextKey = iota
	contextKeyChainID
	contextKeyLogger
	contextKeyTime
	contextKeyEvents
)

var (
	// DefaultLogger is used for all context that have not
	// set anything themselves
	DefaultLogger = log.NewNopLogger()

	// IsValidChainID is the RegExp to ensure valid chain IDs
	IsValidChainID = regexp.MustCompile(`^[a-zA-Z0-9_\-]{6,20}$`).MatchString
)

// Context is just an alias for the standard implementation.
// We use functions to extend it to our domain
type Context = context.Context

// WithTxID sets the id of the transaction currently processed. The id is
// used as the nonce of every vote cast by that transaction.
//
// It panics if the id was already set, as an inner handler must never
// pretend to be another transaction.
func WithTxID(ctx Context, id []byte) Context {
	if _, ok := ctx.Value(contextKeyTxID).([]byte); ok {
		panic("Tried to overwrite tx id")
	}
	return context.WithValue(ctx, contextKeyTxID, id)
}

// GetTxID returns the id of the currently processed transaction or nil.
func GetTxID(ctx Context) []byte {
	val, _ := ctx.Value(contextKeyTxID).([]byte)
	return val
}

// WithChainID sets the chain id for the Context.
// panics if called with chain id already set
func WithChainID(ctx Context, chainID string) Context {
	if ctx.Value(contextKeyChainID) != nil {
		panic("Tried to overwrite chain id")
	}
	if !IsValidChainID(chainID) {
		panic(fmt.Sprintf("Invalid chain id: %q", chainID))
	}
	return context.WithValue(ctx, contextKeyChainID, chainID)
}

// GetChainID returns the current chain id
// panics if chain id not already set (should never happen)
func GetChainID(ctx Context) string {
	if x := ctx.Value(contextKeyChainID); x == nil {
		panic("Chain id not present in context")
	}
	return ctx.Value(contextKeyChainID).(string)
}

// WithBlockTime sets the time of the current call. All time based decisions
// must use this value instead of the wall clock.
func WithBlockTime(ctx Context, t time.Time) Context {
	return context.WithValue(ctx, contextKeyTime, t)
}

// BlockTime returns the time set for the current call.
func BlockTime(ctx Context) (time.Time, bool) {
	t, ok := ctx.Value(contextKeyTime).(time.Time)
	return t, ok
}

// UnixBlockTime returns the time of the current call as UnixTime. Zero is
// returned when the time was not set.
func UnixBlockTime(ctx Context) UnixTime {
	t, ok := BlockTime(ctx)
	if !ok {
		return 0
	}
	return AsUnixTime(t)
}

// WithLogger sets the logger for this context
func WithLogger(ctx Context, logger log.Logger) Context {
	return context.WithValue(ctx, contextKeyLogger, logger)
}

// WithLogInfo accepts keyvalue pairs, and returns another
// context like this, after passing all the keyvals to the
// Logger
func WithLogInfo(ctx Context, keyvals ...interface{}) Context {
	logger := GetLogger(ctx).With(keyvals...)
	return WithLogger(ctx, logger)
}

// GetLogger returns the currently set logger, or
// DefaultLogger if none was set
func GetLogger(ctx Context) log.Logger {
	if x := ctx.Value(contextKeyLogger); x != nil {
		if logger, ok := x.(log.Logger); ok {
			return logger
		}
	}
	return DefaultLogger
}
