package app

import (
	"context"
	"crypto/sha256"
	"sync"
	"time"

	treasury "github.com/iov-one/treasury"
	"github.com/iov-one/treasury/errors"
	"github.com/tendermint/tendermint/libs/log"
)

// Result is the outcome of processing a single transaction.
type Result struct {
	// Code is zero on success, otherwise the registered error code.
	Code uint32 `json:"code"`
	Log  string `json:"log,omitempty"`
	Data []byte `json:"data,omitempty"`
	// Executed is set when the transaction completed an approval round.
	Executed bool             `json:"executed,omitempty"`
	Events   []treasury.Event `json:"events,omitempty"`
}

// IsOK returns true if the transaction succeeded.
func (r Result) IsOK() bool {
	return r.Code == errors.SuccessCode
}

// Application processes transactions one at a time. Every delivered
// transaction is committed to the store before the next one is accepted.
type Application struct {
	mu sync.Mutex

	db      treasury.CacheableKVStore
	handler treasury.Handler
	init    treasury.Initializer
	queries *QueryRouter
	logger  log.Logger
	chainID string
	debug   bool
	now     func() time.Time
}

// NewApplication returns an application using given store. The chain ID is
// loaded from the store if the chain was initialized before.
func NewApplication(db treasury.CacheableKVStore, handler treasury.Handler, init treasury.Initializer, queries *QueryRouter) (*Application, error) {
	chainID, err := loadChainID(db)
	if err != nil {
		return nil, err
	}
	return &Application{
		db:      db,
		handler: handler,
		init:    init,
		queries: queries,
		logger:  log.NewNopLogger(),
		chainID: chainID,
		now:     time.Now,
	}, nil
}

// WithLogger sets the logger passed to all handlers.
func (a *Application) WithLogger(logger log.Logger) *Application {
	a.logger = logger
	return a
}

// WithDebug enables full error messages, including internal ones, in
// results.
func (a *Application) WithDebug(debug bool) *Application {
	a.debug = debug
	return a
}

// WithClock sets the source of the block time.
func (a *Application) WithClock(now func() time.Time) *Application {
	a.now = now
	return a
}

// ChainID returns the chain ID or an empty string if the chain was not
// initialized yet.
func (a *Application) ChainID() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.chainID
}

// InitChain stores the chain ID and loads the genesis state. It can be
// called only once for a store.
func (a *Application) InitChain(gen *Genesis) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	cache := a.db.CacheWrap()
	if err := saveChainID(cache, gen.ChainID); err != nil {
		cache.Discard()
		return err
	}
	ctx := treasury.WithChainID(context.Background(), gen.ChainID)
	ctx = treasury.WithBlockTime(ctx, a.now())
	ctx = treasury.WithLogger(ctx, a.logger.With("call", "init_chain"))
	if err := a.init.FromGenesis(ctx, gen.AppState, cache); err != nil {
		cache.Discard()
		return errors.Wrap(err, "genesis")
	}
	if err := cache.Write(); err != nil {
		return errors.Wrap(err, "write genesis")
	}
	a.chainID = gen.ChainID
	a.logger.Info("chain initialized", "chain_id", gen.ChainID)
	return nil
}

// DeliverTx processes the transaction and commits its changes.
func (a *Application) DeliverTx(raw []byte) Result {
	a.mu.Lock()
	defer a.mu.Unlock()

	tx, ctx, err := a.load(raw, "deliver_tx")
	if err != nil {
		return a.errResult(err)
	}
	res, err := a.handler.Deliver(ctx, a.db, tx)
	if err != nil {
		return a.errResult(err)
	}
	return Result{
		Log:      res.Log,
		Data:     res.Data,
		Executed: res.Executed,
		Events:   res.Events,
	}
}

// CheckTx validates the transaction without changing the state.
func (a *Application) CheckTx(raw []byte) Result {
	a.mu.Lock()
	defer a.mu.Unlock()

	tx, ctx, err := a.load(raw, "check_tx")
	if err != nil {
		return a.errResult(err)
	}
	cache := a.db.CacheWrap()
	defer cache.Discard()
	res, err := a.handler.Check(ctx, cache, tx)
	if err != nil {
		return a.errResult(err)
	}
	return Result{Log: res.Log}
}

// Query returns the models found under the path for given key.
func (a *Application) Query(path string, key []byte) ([]treasury.Model, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.queries.Query(a.db, path, key)
}

// load decodes the transaction and prepares its context. The transaction
// ID is the sha256 hash of the raw bytes.
func (a *Application) load(raw []byte, call string) (tx *Tx, ctx treasury.Context, err error) {
	if a.chainID == "" {
		return nil, nil, errors.Wrap(errors.ErrState, "chain not initialized")
	}
	defer errors.Recover(&err)
	if tx, err = DecodeTx(raw); err != nil {
		return nil, nil, err
	}
	id := sha256.Sum256(raw)
	ctx = treasury.WithChainID(context.Background(), a.chainID)
	ctx = treasury.WithBlockTime(ctx, a.now())
	ctx = treasury.WithTxID(ctx, id[:])
	ctx = treasury.WithLogger(ctx, a.logger.With("call", call))
	return tx, ctx, nil
}

func (a *Application) errResult(err error) Result {
	code, msg := errors.Info(err, a.debug)
	return Result{Code: code, Log: msg}
}
