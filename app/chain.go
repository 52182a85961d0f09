package app

import (
	"reflect"

	treasury "github.com/iov-one/treasury"
)

// Decorators is an ordered stack of decorators that is not bound to a
// handler yet. The first decorator sees a transaction first.
//
//	app.ChainDecorators(
//	  utils.NewLogging(),
//	  utils.NewRecovery(),
//	  utils.NewSavepoint().OnDeliver(),
//	  member.NewAuthenticator(registry),
//	).WithHandler(router)
type Decorators []treasury.Decorator

// ChainDecorators starts a stack. Nil decorators, including typed nil
// pointers, are skipped so optional components can be passed directly.
func ChainDecorators(ds ...treasury.Decorator) Decorators {
	return Decorators(nil).Chain(ds...)
}

// Chain returns a new stack with given decorators appended. The receiver
// is never modified.
func (d Decorators) Chain(ds ...treasury.Decorator) Decorators {
	res := make(Decorators, len(d), len(d)+len(ds))
	copy(res, d)
	for _, dec := range ds {
		if !isNilDecorator(dec) {
			res = append(res, dec)
		}
	}
	return res
}

// WithHandler binds the stack to the final handler.
func (d Decorators) WithHandler(h treasury.Handler) treasury.Handler {
	for i := len(d) - 1; i >= 0; i-- {
		h = link{dec: d[i], next: h}
	}
	return h
}

func isNilDecorator(d treasury.Decorator) bool {
	if d == nil {
		return true
	}
	v := reflect.ValueOf(d)
	return v.Kind() == reflect.Ptr && v.IsNil()
}

// link runs a decorator with the rest of the stack as its next handler.
type link struct {
	dec  treasury.Decorator
	next treasury.Handler
}

var _ treasury.Handler = link{}

func (l link) Check(ctx treasury.Context, db treasury.KVStore, tx treasury.Tx) (*treasury.CheckResult, error) {
	return l.dec.Check(ctx, db, tx, l.next)
}

func (l link) Deliver(ctx treasury.Context, db treasury.KVStore, tx treasury.Tx) (*treasury.DeliverResult, error) {
	return l.dec.Deliver(ctx, db, tx, l.next)
}
