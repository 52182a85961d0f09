package vault

import (
	"context"
	"testing"
	"time"

	treasury "github.com/iov-one/treasury"
	"github.com/iov-one/treasury/coin"
	"github.com/iov-one/treasury/errors"
	"github.com/iov-one/treasury/gconf"
	"github.com/iov-one/treasury/store"
	"github.com/iov-one/treasury/treasurytest"
	"github.com/iov-one/treasury/treasurytest/assert"
)

var (
	dao       = treasurytest.NewAddress("dao")
	alice     = treasurytest.NewAddress("alice")
	validator = treasurytest.NewAddress("validator")
	picky     = treasurytest.NewAddress("picky")
)

func iov(whole int64) coin.Coin {
	return coin.NewCoin(whole, 0, "IOV")
}

func setupVault(t testing.TB) (treasury.CacheableKVStore, *Controller) {
	t.Helper()
	db := store.MemStore()
	conf := &Configuration{
		Metadata:        &treasury.Metadata{Schema: 1},
		Account:         dao,
		StakeTicker:     "IOV",
		UnbondingPeriod: 3600,
	}
	assert.Nil(t, gconf.Save(db, configurationPackage, conf))

	c := NewController()
	assert.Nil(t, c.Issue(db, dao, iov(100)))
	assert.Nil(t, c.Issue(db, dao, coin.NewCoin(5, 0, "ETH")))
	assert.Nil(t, c.RegisterValidator(db, validator, true))
	assert.Nil(t, c.RegisterValidator(db, picky, false))
	assert.Nil(t, c.SetBadgeHolder(db, dao))
	assert.Nil(t, c.MintNonFungible(db, "art", []byte("mona"), dao))
	assert.Nil(t, c.MintNonFungible(db, "art", []byte("scream"), alice))
	return db, c
}

func atTime(t time.Time) treasury.Context {
	ctx := treasury.WithChainID(context.Background(), "test-chain")
	return treasury.WithBlockTime(ctx, t)
}

func TestMoveCoins(t *testing.T) {
	db, c := setupVault(t)

	assert.Nil(t, c.MoveCoins(db, dao, alice, iov(40)))
	bal, err := c.Balance(db, dao)
	assert.Nil(t, err)
	assert.Equal(t, iov(60), bal.Balance("IOV"))
	bal, err = c.Balance(db, alice)
	assert.Nil(t, err)
	assert.Equal(t, iov(40), bal.Balance("IOV"))

	assert.IsErr(t, errors.ErrInsufficientAmount, c.MoveCoins(db, dao, alice, iov(61)))
	assert.IsErr(t, errors.ErrAmount, c.MoveCoins(db, dao, alice, iov(0)))
	assert.IsErr(t, errors.ErrInsufficientAmount, c.MoveCoins(db, dao, alice, coin.NewCoin(1, 0, "BTC")))

	// Emptied wallets are removed.
	assert.Nil(t, c.MoveCoins(db, alice, dao, iov(40)))
	bal, err = c.Balance(db, alice)
	assert.Nil(t, err)
	assert.Equal(t, true, bal.IsEmpty())
}

func TestNonFungibles(t *testing.T) {
	db, c := setupVault(t)

	assert.IsErr(t, errors.ErrDuplicate, c.MintNonFungible(db, "art", []byte("mona"), alice))
	assert.Nil(t, c.CheckNonFungibles(db, "art", [][]byte{[]byte("mona")}, dao))
	assert.IsErr(t, ErrNotOwner, c.CheckNonFungibles(db, "art", [][]byte{[]byte("mona"), []byte("scream")}, dao))
	assert.IsErr(t, errors.ErrNotFound, c.CheckNonFungibles(db, "art", [][]byte{[]byte("unknown")}, dao))
	assert.IsErr(t, errors.ErrEmpty, c.CheckNonFungibles(db, "art", nil, dao))

	assert.Nil(t, c.MoveNonFungibles(db, "art", [][]byte{[]byte("mona")}, dao, alice))
	owner, err := c.NonFungibleOwner(db, "art", []byte("mona"))
	assert.Nil(t, err)
	assert.Equal(t, alice, owner)
	assert.IsErr(t, ErrNotOwner, c.MoveNonFungibles(db, "art", [][]byte{[]byte("mona")}, dao, alice))
}

func TestBadge(t *testing.T) {
	db, c := setupVault(t)

	assert.IsErr(t, ErrNotOwner, c.TransferBadge(db, alice, dao))
	assert.Nil(t, c.TransferBadge(db, dao, alice))
	holder, err := c.BadgeHolder(db)
	assert.Nil(t, err)
	assert.Equal(t, alice, holder)
}

func TestStaking(t *testing.T) {
	db, c := setupVault(t)
	start := time.Date(2019, 6, 1, 12, 0, 0, 0, time.UTC)

	assert.IsErr(t, ErrStakeRejected, c.Stake(db, dao, picky, iov(10)))
	assert.IsErr(t, ErrStakeRejected, c.Stake(db, dao, alice, iov(10)))
	assert.IsErr(t, ErrInvalidTicker, c.Stake(db, dao, validator, coin.NewCoin(1, 0, "ETH")))
	assert.IsErr(t, errors.ErrInsufficientAmount, c.Stake(db, dao, validator, iov(101)))

	assert.Nil(t, c.Stake(db, dao, validator, iov(30)))
	staked, err := c.Staked(db, dao, validator)
	assert.Nil(t, err)
	assert.Equal(t, iov(30), staked)
	bal, err := c.Balance(db, dao)
	assert.Nil(t, err)
	assert.Equal(t, iov(70), bal.Balance("IOV"))

	_, err = c.Unstake(atTime(start), db, dao, validator, iov(31))
	assert.IsErr(t, errors.ErrInsufficientAmount, err)

	claimID, err := c.Unstake(atTime(start), db, dao, validator, iov(20))
	assert.Nil(t, err)
	staked, err = c.Staked(db, dao, validator)
	assert.Nil(t, err)
	assert.Equal(t, iov(10), staked)

	claim, err := c.GetClaim(db, claimID)
	assert.Nil(t, err)
	assert.Equal(t, treasury.AsUnixTime(start.Add(time.Hour)), claim.UnlockAt)

	ids := [][]byte{claimID}
	_, err = c.Claim(atTime(start.Add(time.Minute)), db, dao, validator, ids)
	assert.IsErr(t, ErrClaimLocked, err)
	_, err = c.Claim(atTime(start.Add(2*time.Hour)), db, alice, validator, ids)
	assert.IsErr(t, ErrNotOwner, err)
	_, err = c.Claim(atTime(start.Add(2*time.Hour)), db, dao, picky, ids)
	assert.IsErr(t, errors.ErrInput, err)

	total, err := c.Claim(atTime(start.Add(2*time.Hour)), db, dao, validator, ids)
	assert.Nil(t, err)
	assert.Equal(t, iov(20), total)
	bal, err = c.Balance(db, dao)
	assert.Nil(t, err)
	assert.Equal(t, iov(90), bal.Balance("IOV"))

	_, err = c.GetClaim(db, claimID)
	assert.IsErr(t, errors.ErrNotFound, err)

	// Unstaking everything removes the stake.
	_, err = c.Unstake(atTime(start), db, dao, validator, iov(10))
	assert.Nil(t, err)
	staked, err = c.Staked(db, dao, validator)
	assert.Nil(t, err)
	assert.Equal(t, true, staked.IsZero())
}
