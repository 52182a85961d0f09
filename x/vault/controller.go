package vault

import (
	"bytes"

	treasury "github.com/iov-one/treasury"
	"github.com/iov-one/treasury/coin"
	"github.com/iov-one/treasury/errors"
	"github.com/iov-one/treasury/orm"
)

var badgeKey = []byte("account")

// Controller moves assets between owners. It performs no authorization.
type Controller struct {
	wallets    orm.ModelBucket
	nfts       orm.ModelBucket
	badge      orm.ModelBucket
	validators orm.ModelBucket
	stakes     orm.ModelBucket
	claims     orm.ModelBucket
}

// NewController returns a controller using the vault buckets.
func NewController() *Controller {
	return &Controller{
		wallets:    orm.NewModelBucket("wallet", &Wallet{}),
		nfts:       orm.NewModelBucket("nft", &NonFungible{}),
		badge:      orm.NewModelBucket("badge", &Badge{}),
		validators: orm.NewModelBucket("validator", &Validator{}),
		stakes:     orm.NewModelBucket("stake", &Stake{}),
		claims:     orm.NewModelBucket("claim", &Claim{}),
	}
}

// Balance returns all coins held by the owner.
func (c *Controller) Balance(db treasury.ReadOnlyKVStore, owner treasury.Address) (coin.Coins, error) {
	w, err := c.wallet(db, owner)
	if err != nil {
		return nil, err
	}
	return w.Coins, nil
}

func (c *Controller) wallet(db treasury.ReadOnlyKVStore, owner treasury.Address) (*Wallet, error) {
	var w Wallet
	err := c.wallets.One(db, owner, &w)
	switch {
	case errors.ErrNotFound.Is(err):
		return &Wallet{Metadata: &treasury.Metadata{Schema: 1}}, nil
	case err != nil:
		return nil, err
	}
	return &w, nil
}

func (c *Controller) saveWallet(db treasury.KVStore, owner treasury.Address, w *Wallet) error {
	if w.Coins.IsEmpty() {
		if err := c.wallets.Delete(db, owner); err != nil && !errors.ErrNotFound.Is(err) {
			return err
		}
		return nil
	}
	_, err := c.wallets.Put(db, owner, w)
	return err
}

// Issue adds coins to the owner wallet.
func (c *Controller) Issue(db treasury.KVStore, owner treasury.Address, amount coin.Coin) error {
	if err := owner.Validate(); err != nil {
		return errors.Wrap(err, "owner")
	}
	if !amount.IsPositive() {
		return errors.Wrap(errors.ErrAmount, "must be positive")
	}
	w, err := c.wallet(db, owner)
	if err != nil {
		return err
	}
	if w.Coins, err = w.Coins.Add(amount); err != nil {
		return err
	}
	return c.saveWallet(db, owner, w)
}

// MoveCoins moves the given amount from src to dst. It fails with
// ErrInsufficientAmount if src does not hold enough.
func (c *Controller) MoveCoins(db treasury.KVStore, src, dst treasury.Address, amount coin.Coin) error {
	if !amount.IsPositive() {
		return errors.Wrap(errors.ErrAmount, "must be positive")
	}
	if err := dst.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}
	from, err := c.wallet(db, src)
	if err != nil {
		return err
	}
	if from.Coins, err = from.Coins.Subtract(amount); err != nil {
		return err
	}
	if err := c.saveWallet(db, src, from); err != nil {
		return err
	}
	to, err := c.wallet(db, dst)
	if err != nil {
		return err
	}
	if to.Coins, err = to.Coins.Add(amount); err != nil {
		return err
	}
	return c.saveWallet(db, dst, to)
}

// MintNonFungible creates a token owned by given address. It fails with
// ErrDuplicate if the token already exists.
func (c *Controller) MintNonFungible(db treasury.KVStore, resource string, id []byte, owner treasury.Address) error {
	key := compositeKey([]byte(resource), id)
	if err := c.nfts.Has(db, key); err == nil {
		return errors.Wrapf(errors.ErrDuplicate, "%s %X", resource, id)
	} else if !errors.ErrNotFound.Is(err) {
		return err
	}
	nft := &NonFungible{
		Metadata: &treasury.Metadata{Schema: 1},
		Resource: resource,
		ID:       id,
		Owner:    owner,
	}
	_, err := c.nfts.Put(db, key, nft)
	return err
}

// NonFungibleOwner returns the owner of the token.
func (c *Controller) NonFungibleOwner(db treasury.ReadOnlyKVStore, resource string, id []byte) (treasury.Address, error) {
	var nft NonFungible
	if err := c.nfts.One(db, compositeKey([]byte(resource), id), &nft); err != nil {
		return nil, errors.Wrapf(err, "%s %X", resource, id)
	}
	return nft.Owner, nil
}

// CheckNonFungibles returns ErrNotOwner unless all tokens are owned by
// given address.
func (c *Controller) CheckNonFungibles(db treasury.ReadOnlyKVStore, resource string, ids [][]byte, owner treasury.Address) error {
	if len(ids) == 0 {
		return errors.Wrap(errors.ErrEmpty, "no token ids")
	}
	for _, id := range ids {
		got, err := c.NonFungibleOwner(db, resource, id)
		if err != nil {
			return err
		}
		if !got.Equals(owner) {
			return errors.Wrapf(ErrNotOwner, "%s %X", resource, id)
		}
	}
	return nil
}

// MoveNonFungibles transfers tokens from src to dst.
func (c *Controller) MoveNonFungibles(db treasury.KVStore, resource string, ids [][]byte, src, dst treasury.Address) error {
	if err := c.CheckNonFungibles(db, resource, ids, src); err != nil {
		return err
	}
	for _, id := range ids {
		nft := &NonFungible{
			Metadata: &treasury.Metadata{Schema: 1},
			Resource: resource,
			ID:       id,
			Owner:    dst,
		}
		if _, err := c.nfts.Put(db, compositeKey([]byte(resource), id), nft); err != nil {
			return errors.Wrapf(err, "%s %X", resource, id)
		}
	}
	return nil
}

// BadgeHolder returns the current holder of the account badge.
func (c *Controller) BadgeHolder(db treasury.ReadOnlyKVStore) (treasury.Address, error) {
	var b Badge
	if err := c.badge.One(db, badgeKey, &b); err != nil {
		return nil, errors.Wrap(err, "account badge")
	}
	return b.Holder, nil
}

// SetBadgeHolder assigns the account badge.
func (c *Controller) SetBadgeHolder(db treasury.KVStore, holder treasury.Address) error {
	b := &Badge{
		Metadata: &treasury.Metadata{Schema: 1},
		Holder:   holder,
	}
	_, err := c.badge.Put(db, badgeKey, b)
	return err
}

// TransferBadge moves the account badge. It fails with ErrNotOwner if the
// badge is not held by src.
func (c *Controller) TransferBadge(db treasury.KVStore, src, dst treasury.Address) error {
	holder, err := c.BadgeHolder(db)
	if err != nil {
		return err
	}
	if !holder.Equals(src) {
		return errors.Wrap(ErrNotOwner, "account badge")
	}
	return c.SetBadgeHolder(db, dst)
}

// RegisterValidator stores a staking target.
func (c *Controller) RegisterValidator(db treasury.KVStore, addr treasury.Address, acceptsStake bool) error {
	if err := addr.Validate(); err != nil {
		return errors.Wrap(err, "validator")
	}
	v := &Validator{
		Metadata:     &treasury.Metadata{Schema: 1},
		AcceptsStake: acceptsStake,
	}
	_, err := c.validators.Put(db, addr, v)
	return err
}

// AcceptsStake returns ErrStakeRejected unless the validator exists and
// accepts delegated stake.
func (c *Controller) AcceptsStake(db treasury.ReadOnlyKVStore, addr treasury.Address) error {
	var v Validator
	if err := c.validators.One(db, addr, &v); err != nil {
		if errors.ErrNotFound.Is(err) {
			return errors.Wrapf(ErrStakeRejected, "unknown validator %s", addr)
		}
		return err
	}
	if !v.AcceptsStake {
		return errors.Wrapf(ErrStakeRejected, "validator %s does not accept stake", addr)
	}
	return nil
}

// Staked returns the amount owner delegated to the validator.
func (c *Controller) Staked(db treasury.ReadOnlyKVStore, owner, validator treasury.Address) (coin.Coin, error) {
	conf, err := loadConfiguration(db)
	if err != nil {
		return coin.Coin{}, err
	}
	s, err := c.stake(db, owner, validator, conf.StakeTicker)
	if err != nil {
		return coin.Coin{}, err
	}
	return s.Amount, nil
}

func (c *Controller) stake(db treasury.ReadOnlyKVStore, owner, validator treasury.Address, ticker string) (*Stake, error) {
	var s Stake
	err := c.stakes.One(db, compositeKey(owner, validator), &s)
	switch {
	case errors.ErrNotFound.Is(err):
		return &Stake{
			Metadata:  &treasury.Metadata{Schema: 1},
			Owner:     owner,
			Validator: validator,
			Amount:    coin.NewCoin(0, 0, ticker),
		}, nil
	case err != nil:
		return nil, err
	}
	return &s, nil
}

// CheckStake returns an error if the amount cannot be staked with the
// validator.
func (c *Controller) CheckStake(db treasury.ReadOnlyKVStore, validator treasury.Address, amount coin.Coin) error {
	conf, err := loadConfiguration(db)
	if err != nil {
		return err
	}
	if amount.Ticker != conf.StakeTicker {
		return errors.Wrapf(ErrInvalidTicker, "only %s can be staked", conf.StakeTicker)
	}
	return c.AcceptsStake(db, validator)
}

// Stake moves the amount from the owner wallet to a stake with the
// validator.
func (c *Controller) Stake(db treasury.KVStore, owner, validator treasury.Address, amount coin.Coin) error {
	if err := c.CheckStake(db, validator, amount); err != nil {
		return err
	}
	w, err := c.wallet(db, owner)
	if err != nil {
		return err
	}
	if w.Coins, err = w.Coins.Subtract(amount); err != nil {
		return err
	}
	if err := c.saveWallet(db, owner, w); err != nil {
		return err
	}
	s, err := c.stake(db, owner, validator, amount.Ticker)
	if err != nil {
		return err
	}
	if s.Amount, err = s.Amount.Add(amount); err != nil {
		return err
	}
	_, err = c.stakes.Put(db, compositeKey(owner, validator), s)
	return err
}

// Unstake reduces the stake and creates a claim that can be collected
// once the unbonding period passed. The claim ID is returned.
func (c *Controller) Unstake(ctx treasury.Context, db treasury.KVStore, owner, validator treasury.Address, amount coin.Coin) ([]byte, error) {
	conf, err := loadConfiguration(db)
	if err != nil {
		return nil, err
	}
	s, err := c.stake(db, owner, validator, conf.StakeTicker)
	if err != nil {
		return nil, err
	}
	if !s.Amount.IsGTE(amount) {
		return nil, errors.Wrapf(errors.ErrInsufficientAmount, "staked %s, need %s", s.Amount, amount)
	}
	if s.Amount, err = s.Amount.Subtract(amount); err != nil {
		return nil, err
	}
	key := compositeKey(owner, validator)
	if s.Amount.IsZero() {
		if err := c.stakes.Delete(db, key); err != nil && !errors.ErrNotFound.Is(err) {
			return nil, err
		}
	} else if _, err := c.stakes.Put(db, key, s); err != nil {
		return nil, err
	}

	claim := &Claim{
		Metadata:  &treasury.Metadata{Schema: 1},
		Owner:     owner,
		Validator: validator,
		Amount:    amount,
		UnlockAt:  treasury.UnixBlockTime(ctx).Add(conf.Unbonding()),
	}
	return c.claims.Put(db, nil, claim)
}

// GetClaim returns the claim with given ID.
func (c *Controller) GetClaim(db treasury.ReadOnlyKVStore, id []byte) (*Claim, error) {
	var claim Claim
	if err := c.claims.One(db, id, &claim); err != nil {
		return nil, errors.Wrapf(err, "claim %X", id)
	}
	return &claim, nil
}

// CheckClaims returns an error unless all claims belong to the owner, were
// created by unstaking from the validator and are unlocked.
func (c *Controller) CheckClaims(ctx treasury.Context, db treasury.ReadOnlyKVStore, owner, validator treasury.Address, ids [][]byte) error {
	_, err := c.claimable(ctx, db, owner, validator, ids)
	return err
}

func (c *Controller) claimable(ctx treasury.Context, db treasury.ReadOnlyKVStore, owner, validator treasury.Address, ids [][]byte) ([]*Claim, error) {
	if len(ids) == 0 {
		return nil, errors.Wrap(errors.ErrEmpty, "no claim ids")
	}
	now := treasury.UnixBlockTime(ctx)
	claims := make([]*Claim, 0, len(ids))
	for _, id := range ids {
		claim, err := c.GetClaim(db, id)
		if err != nil {
			return nil, err
		}
		if !claim.Owner.Equals(owner) {
			return nil, errors.Wrapf(ErrNotOwner, "claim %X", id)
		}
		if !bytes.Equal(claim.Validator, validator) {
			return nil, errors.Wrapf(errors.ErrInput, "claim %X was not unstaked from %s", id, validator)
		}
		if now < claim.UnlockAt {
			return nil, errors.Wrapf(ErrClaimLocked, "claim %X unlocks at %s", id, claim.UnlockAt.Time())
		}
		claims = append(claims, claim)
	}
	return claims, nil
}

// Claim collects unlocked claims into the owner wallet and returns the
// collected amount.
func (c *Controller) Claim(ctx treasury.Context, db treasury.KVStore, owner, validator treasury.Address, ids [][]byte) (coin.Coin, error) {
	claims, err := c.claimable(ctx, db, owner, validator, ids)
	if err != nil {
		return coin.Coin{}, err
	}
	w, err := c.wallet(db, owner)
	if err != nil {
		return coin.Coin{}, err
	}
	total := coin.NewCoin(0, 0, claims[0].Amount.Ticker)
	for i, claim := range claims {
		if total, err = total.Add(claim.Amount); err != nil {
			return coin.Coin{}, err
		}
		if w.Coins, err = w.Coins.Add(claim.Amount); err != nil {
			return coin.Coin{}, err
		}
		if err := c.claims.Delete(db, ids[i]); err != nil {
			return coin.Coin{}, err
		}
	}
	if err := c.saveWallet(db, owner, w); err != nil {
		return coin.Coin{}, err
	}
	return total, nil
}
