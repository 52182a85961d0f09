/*
Package treasurytest provides helpers to write tests of the treasury
extensions.
*/
package treasurytest

import (
	"context"
	"crypto/sha256"
	"fmt"
	"time"

	treasury "github.com/iov-one/treasury"
	"github.com/iov-one/treasury/orm"
	"golang.org/x/crypto/ed25519"
)

// Key is an ed25519 key pair used to authenticate members in tests.
type Key struct {
	Public  ed25519.PublicKey
	Private ed25519.PrivateKey
}

// NewKey returns a key pair derived from the given seed. The same seed
// always returns the same key.
func NewKey(seed string) Key {
	s := sha256.Sum256([]byte(seed))
	priv := ed25519.NewKeyFromSeed(s[:])
	return Key{
		Public:  priv.Public().(ed25519.PublicKey),
		Private: priv,
	}
}

// Condition returns the signature condition of the key.
func (k Key) Condition() treasury.Condition {
	return treasury.NewCondition("sigs", "ed25519", k.Public)
}

// Address returns the address of the key condition.
func (k Key) Address() treasury.Address {
	return k.Condition().Address()
}

// Sign returns the signature of the message.
func (k Key) Sign(msg []byte) []byte {
	return ed25519.Sign(k.Private, msg)
}

// SequenceID returns the key of the n-th element generated by an orm
// sequence.
func SequenceID(n int64) []byte {
	return orm.EncodeSequence(n)
}

// NewAddress returns a valid address derived from the given name.
func NewAddress(name string) treasury.Address {
	return treasury.NewAddress([]byte(name))
}

// Context returns a context set up the way the application prepares it
// for a transaction: chain id, block time and transaction id.
func Context(txID string) treasury.Context {
	ctx := context.Background()
	ctx = treasury.WithChainID(ctx, "test-chain")
	ctx = treasury.WithBlockTime(ctx, time.Date(2019, 6, 1, 12, 0, 0, 0, time.UTC))
	id := sha256.Sum256([]byte(txID))
	return treasury.WithTxID(ctx, id[:])
}

// Contexts returns a generator of unique transaction contexts sharing the
// same event recorder.
func Contexts(rec *treasury.EventRecorder) func() treasury.Context {
	var n int
	return func() treasury.Context {
		n++
		ctx := Context(fmt.Sprintf("tx-%d", n))
		if rec != nil {
			ctx = treasury.WithEventRecorder(ctx, rec)
		}
		return ctx
	}
}
