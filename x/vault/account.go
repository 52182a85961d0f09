package vault

import (
	treasury "github.com/iov-one/treasury"
	"github.com/iov-one/treasury/coin"
	"github.com/iov-one/treasury/errors"
)

// Account is the treasury wallet. All assets are moved from or to the
// account address declared in the configuration.
type Account struct {
	ctrl *Controller
}

// NewAccount returns the treasury account backed by given controller.
func NewAccount(ctrl *Controller) *Account {
	return &Account{ctrl: ctrl}
}

// Address returns the address of the treasury wallet.
func (a *Account) Address(db treasury.ReadOnlyKVStore) (treasury.Address, error) {
	conf, err := loadConfiguration(db)
	if err != nil {
		return nil, err
	}
	return conf.Account, nil
}

// Balance returns the amount of given currency held by the treasury.
func (a *Account) Balance(db treasury.ReadOnlyKVStore, ticker string) (coin.Coin, error) {
	addr, err := a.Address(db)
	if err != nil {
		return coin.Coin{}, err
	}
	coins, err := a.ctrl.Balance(db, addr)
	if err != nil {
		return coin.Coin{}, err
	}
	return coins.Balance(ticker), nil
}

// HoldsBadge returns ErrNotOwner unless the treasury holds the account
// badge.
func (a *Account) HoldsBadge(db treasury.ReadOnlyKVStore) error {
	addr, err := a.Address(db)
	if err != nil {
		return err
	}
	holder, err := a.ctrl.BadgeHolder(db)
	if err != nil {
		return err
	}
	if !holder.Equals(addr) {
		return errors.Wrap(ErrNotOwner, "account badge is not held by the treasury")
	}
	return nil
}

// CheckNonFungibles returns an error unless the treasury owns all tokens.
func (a *Account) CheckNonFungibles(db treasury.ReadOnlyKVStore, resource string, ids [][]byte) error {
	addr, err := a.Address(db)
	if err != nil {
		return err
	}
	return a.ctrl.CheckNonFungibles(db, resource, ids, addr)
}

// CheckStake returns an error if the amount cannot be delegated to the
// validator.
func (a *Account) CheckStake(db treasury.ReadOnlyKVStore, validator treasury.Address, amount coin.Coin) error {
	return a.ctrl.CheckStake(db, validator, amount)
}

// Staked returns the amount the treasury delegated to the validator.
func (a *Account) Staked(db treasury.ReadOnlyKVStore, validator treasury.Address) (coin.Coin, error) {
	addr, err := a.Address(db)
	if err != nil {
		return coin.Coin{}, err
	}
	return a.ctrl.Staked(db, addr, validator)
}

// CheckClaims returns an error unless all claims can be collected by the
// treasury.
func (a *Account) CheckClaims(ctx treasury.Context, db treasury.ReadOnlyKVStore, validator treasury.Address, ids [][]byte) error {
	addr, err := a.Address(db)
	if err != nil {
		return err
	}
	return a.ctrl.CheckClaims(ctx, db, addr, validator, ids)
}

// SendFungibles moves coins to the recipient.
func (a *Account) SendFungibles(ctx treasury.Context, db treasury.KVStore, recipient treasury.Address, amount coin.Coin) error {
	addr, err := a.Address(db)
	if err != nil {
		return err
	}
	if err := a.ctrl.MoveCoins(db, addr, recipient, amount); err != nil {
		return err
	}
	treasury.GetLogger(ctx).Info("coins sent", "recipient", recipient.String(), "amount", amount.String())
	return nil
}

// SendNonFungibles moves tokens to the recipient.
func (a *Account) SendNonFungibles(ctx treasury.Context, db treasury.KVStore, recipient treasury.Address, resource string, ids [][]byte) error {
	addr, err := a.Address(db)
	if err != nil {
		return err
	}
	if err := a.ctrl.MoveNonFungibles(db, resource, ids, addr, recipient); err != nil {
		return err
	}
	treasury.GetLogger(ctx).Info("non fungibles sent", "recipient", recipient.String(), "resource", resource, "count", len(ids))
	return nil
}

// TransferBadge hands the account badge over to the component.
func (a *Account) TransferBadge(ctx treasury.Context, db treasury.KVStore, component treasury.Address) error {
	addr, err := a.Address(db)
	if err != nil {
		return err
	}
	if err := a.ctrl.TransferBadge(db, addr, component); err != nil {
		return err
	}
	treasury.GetLogger(ctx).Info("account badge transferred", "component", component.String())
	return nil
}

// Stake delegates the amount to the validator.
func (a *Account) Stake(ctx treasury.Context, db treasury.KVStore, validator treasury.Address, amount coin.Coin) error {
	addr, err := a.Address(db)
	if err != nil {
		return err
	}
	if err := a.ctrl.Stake(db, addr, validator, amount); err != nil {
		return err
	}
	treasury.GetLogger(ctx).Info("staked", "validator", validator.String(), "amount", amount.String())
	return nil
}

// Unstake withdraws the amount from the validator. The returned claim ID
// is used to collect the amount once unlocked.
func (a *Account) Unstake(ctx treasury.Context, db treasury.KVStore, validator treasury.Address, amount coin.Coin) ([]byte, error) {
	addr, err := a.Address(db)
	if err != nil {
		return nil, err
	}
	id, err := a.ctrl.Unstake(ctx, db, addr, validator, amount)
	if err != nil {
		return nil, err
	}
	treasury.GetLogger(ctx).Info("unstaked", "validator", validator.String(), "amount", amount.String(), "claim", id)
	return id, nil
}

// ClaimUnstaked collects the claims into the treasury wallet.
func (a *Account) ClaimUnstaked(ctx treasury.Context, db treasury.KVStore, validator treasury.Address, ids [][]byte) (coin.Coin, error) {
	addr, err := a.Address(db)
	if err != nil {
		return coin.Coin{}, err
	}
	total, err := a.ctrl.Claim(ctx, db, addr, validator, ids)
	if err != nil {
		return coin.Coin{}, err
	}
	treasury.GetLogger(ctx).Info("claimed", "validator", validator.String(), "amount", total.String())
	return total, nil
}
