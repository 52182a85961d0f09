package member

import (
	"testing"

	treasury "github.com/iov-one/treasury"
	"github.com/iov-one/treasury/errors"
	"github.com/iov-one/treasury/store"
	"github.com/iov-one/treasury/treasurytest"
	"github.com/iov-one/treasury/treasurytest/assert"
)

func TestRegistry(t *testing.T) {
	db := store.MemStore()
	r := NewRegistry()
	ctx := treasurytest.Context("mint")

	alice := treasurytest.NewKey("alice").Address()
	bob := treasurytest.NewKey("bob").Address()

	a, err := r.Mint(ctx, db, alice)
	assert.Nil(t, err)
	assert.Equal(t, treasurytest.SequenceID(1), a)
	b, err := r.Mint(ctx, db, bob)
	assert.Nil(t, err)
	assert.Equal(t, treasurytest.SequenceID(2), b)

	m, err := r.Get(db, a)
	assert.Nil(t, err)
	assert.Equal(t, alice, m.Account)
	assert.Equal(t, true, m.Enabled)
	assert.Equal(t, treasury.UnixBlockTime(ctx), m.CreatedAt)

	n, err := r.CountEnabled(db)
	assert.Nil(t, err)
	assert.Equal(t, 2, n)

	assert.Nil(t, r.SetEnabled(ctx, db, a, false))
	assert.IsErr(t, errors.ErrState, r.SetEnabled(ctx, db, a, false))

	ok, err := r.IsEnabled(db, a)
	assert.Nil(t, err)
	assert.Equal(t, false, ok)
	ok, err = r.Exists(db, a)
	assert.Nil(t, err)
	assert.Equal(t, true, ok)

	n, err = r.CountEnabled(db)
	assert.Nil(t, err)
	assert.Equal(t, 1, n)

	unknown := treasurytest.SequenceID(99)
	ok, err = r.IsEnabled(db, unknown)
	assert.Nil(t, err)
	assert.Equal(t, false, ok)
	ok, err = r.Exists(db, unknown)
	assert.Nil(t, err)
	assert.Equal(t, false, ok)
	_, err = r.Get(db, unknown)
	assert.IsErr(t, errors.ErrNotFound, err)
	assert.IsErr(t, errors.ErrNotFound, r.SetEnabled(ctx, db, unknown, true))

	assert.Nil(t, r.SetEnabled(ctx, db, a, true))
	n, err = r.CountEnabled(db)
	assert.Nil(t, err)
	assert.Equal(t, 2, n)
}

func TestMintInvalidAccount(t *testing.T) {
	db := store.MemStore()
	r := NewRegistry()
	_, err := r.Mint(treasurytest.Context("mint"), db, treasury.Address("short"))
	assert.IsErr(t, errors.ErrInput, err)
}

func TestMemberSequence(t *testing.T) {
	m := Member{Sequence: 4}
	assert.IsErr(t, ErrInvalidSequence, m.CheckAndIncrementSequence(3))
	assert.Nil(t, m.CheckAndIncrementSequence(4))
	assert.Equal(t, int64(5), m.Sequence)

	m.Sequence = maxSequenceValue
	assert.IsErr(t, ErrInvalidSequence, m.CheckAndIncrementSequence(maxSequenceValue))
}
