package treasury

import (
	"encoding/binary"

	treasury "github.com/iov-one/treasury"
	"github.com/iov-one/treasury/coin"
	"github.com/iov-one/treasury/errors"
	"github.com/iov-one/treasury/x/cosign"
)

// Dispatcher checks whether an operation can be executed and applies its
// effect.
type Dispatcher struct {
	policy  *cosign.Policy
	members Members
	account Account
}

// NewDispatcher returns a dispatcher applying effects to given members
// registry and account.
func NewDispatcher(policy *cosign.Policy, members Members, account Account) *Dispatcher {
	return &Dispatcher{
		policy:  policy,
		members: members,
		account: account,
	}
}

// CheckAvailability returns an error if the operation cannot be executed
// in the current state. It is called when a vote is submitted.
func (d *Dispatcher) CheckAvailability(ctx treasury.Context, db treasury.ReadOnlyKVStore, op *cosign.Operation) error {
	switch op.Type {
	case cosign.MintMember:
		return nil
	case cosign.DisableMember:
		return d.policy.CheckDisable(db, op.Targets[0])
	case cosign.EnableMember:
		return d.policy.CheckEnable(db, op.Targets[0])
	case cosign.IncreaseMinCosigners:
		return d.policy.CheckIncrease(db)
	case cosign.DecreaseMinCosigners:
		return d.policy.CheckDecrease(db)
	}

	if err := d.account.HoldsBadge(db); err != nil {
		return err
	}
	switch op.Type {
	case cosign.SendFungibles:
		return d.checkBalance(db, op.Amount)
	case cosign.SendNonFungibles:
		return d.account.CheckNonFungibles(db, op.Resource, op.Targets)
	case cosign.TransferAccountBadge:
		return nil
	case cosign.Stake:
		if err := d.account.CheckStake(db, op.Validator, op.Amount); err != nil {
			return err
		}
		return d.checkBalance(db, op.Amount)
	case cosign.Unstake:
		staked, err := d.account.Staked(db, op.Validator)
		if err != nil {
			return err
		}
		if !staked.IsGTE(op.Amount) {
			return errors.Wrapf(errors.ErrInsufficientAmount, "staked %s, need %s", staked, op.Amount)
		}
		return nil
	case cosign.ClaimUnstaked:
		return d.account.CheckClaims(ctx, db, op.Validator, op.Targets)
	}
	return errors.Wrapf(errors.ErrType, "unknown operation type %d", uint32(op.Type))
}

func (d *Dispatcher) checkBalance(db treasury.ReadOnlyKVStore, amount coin.Coin) error {
	bal, err := d.account.Balance(db, amount.Ticker)
	if err != nil {
		return err
	}
	if !bal.IsGTE(amount) {
		return errors.Wrapf(errors.ErrInsufficientAmount, "have %s, need %s", bal, amount)
	}
	return nil
}

// Execute applies the effect of an approved operation. The returned data
// is the ID of a created entity, if any.
func (d *Dispatcher) Execute(ctx treasury.Context, db treasury.KVStore, op *cosign.Operation) ([]byte, error) {
	switch op.Type {
	case cosign.MintMember:
		return d.members.Mint(ctx, db, op.Recipient)
	case cosign.DisableMember:
		return nil, d.members.SetEnabled(ctx, db, op.Targets[0], false)
	case cosign.EnableMember:
		return nil, d.members.SetEnabled(ctx, db, op.Targets[0], true)
	case cosign.IncreaseMinCosigners:
		min, err := d.policy.IncreaseMinCosigners(db)
		return encodeThreshold(min), err
	case cosign.DecreaseMinCosigners:
		min, err := d.policy.DecreaseMinCosigners(db)
		return encodeThreshold(min), err
	case cosign.SendFungibles:
		return nil, d.account.SendFungibles(ctx, db, op.Recipient, op.Amount)
	case cosign.SendNonFungibles:
		return nil, d.account.SendNonFungibles(ctx, db, op.Recipient, op.Resource, op.Targets)
	case cosign.TransferAccountBadge:
		return nil, d.account.TransferBadge(ctx, db, op.Component)
	case cosign.Stake:
		return nil, d.account.Stake(ctx, db, op.Validator, op.Amount)
	case cosign.Unstake:
		return d.account.Unstake(ctx, db, op.Validator, op.Amount)
	case cosign.ClaimUnstaked:
		total, err := d.account.ClaimUnstaked(ctx, db, op.Validator, op.Targets)
		if err != nil {
			return nil, err
		}
		return []byte(total.String()), nil
	}
	return nil, errors.Wrapf(errors.ErrType, "unknown operation type %d", uint32(op.Type))
}

func encodeThreshold(min uint32) []byte {
	raw := make([]byte, 4)
	binary.BigEndian.PutUint32(raw, min)
	return raw
}
