package vault

import (
	"regexp"

	treasury "github.com/iov-one/treasury"
	"github.com/iov-one/treasury/coin"
	"github.com/iov-one/treasury/errors"
	"github.com/iov-one/treasury/orm"
)

// IsResourceName is the RegExp to ensure valid non fungible resource names.
var IsResourceName = regexp.MustCompile(`^[a-z0-9_\-]{3,32}$`).MatchString

// Wallet holds coins of a single owner.
type Wallet struct {
	Metadata *treasury.Metadata `json:"metadata"`
	Coins    coin.Coins         `json:"coins"`
}

var _ orm.Model = (*Wallet)(nil)

func (w *Wallet) Marshal() ([]byte, error)   { return treasury.MarshalModel(w) }
func (w *Wallet) Unmarshal(raw []byte) error { return treasury.UnmarshalModel(raw, w) }

func (w *Wallet) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", w.Metadata.Validate())
	errs = errors.AppendField(errs, "Coins", w.Coins.Validate())
	return errs
}

// NonFungible records the owner of a single non fungible token.
type NonFungible struct {
	Metadata *treasury.Metadata `json:"metadata"`
	Resource string             `json:"resource"`
	ID       []byte             `json:"id"`
	Owner    treasury.Address   `json:"owner"`
}

var _ orm.Model = (*NonFungible)(nil)

func (n *NonFungible) Marshal() ([]byte, error)   { return treasury.MarshalModel(n) }
func (n *NonFungible) Unmarshal(raw []byte) error { return treasury.UnmarshalModel(raw, n) }

func (n *NonFungible) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", n.Metadata.Validate())
	if !IsResourceName(n.Resource) {
		errs = errors.AppendField(errs, "Resource", ErrInvalidNFTName)
	}
	if len(n.ID) == 0 {
		errs = errors.AppendField(errs, "ID", errors.ErrEmpty)
	}
	errs = errors.AppendField(errs, "Owner", n.Owner.Validate())
	return errs
}

// Badge records the holder of the account badge. Whoever holds it controls
// the treasury account.
type Badge struct {
	Metadata *treasury.Metadata `json:"metadata"`
	Holder   treasury.Address   `json:"holder"`
}

var _ orm.Model = (*Badge)(nil)

func (b *Badge) Marshal() ([]byte, error)   { return treasury.MarshalModel(b) }
func (b *Badge) Unmarshal(raw []byte) error { return treasury.UnmarshalModel(raw, b) }

func (b *Badge) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", b.Metadata.Validate())
	errs = errors.AppendField(errs, "Holder", b.Holder.Validate())
	return errs
}

// Validator is a staking target.
type Validator struct {
	Metadata *treasury.Metadata `json:"metadata"`
	// AcceptsStake is false for validators that do not accept delegated
	// stake.
	AcceptsStake bool `json:"accepts_stake"`
}

var _ orm.Model = (*Validator)(nil)

func (v *Validator) Marshal() ([]byte, error)   { return treasury.MarshalModel(v) }
func (v *Validator) Unmarshal(raw []byte) error { return treasury.UnmarshalModel(raw, v) }

func (v *Validator) Validate() error {
	return errors.AppendField(nil, "Metadata", v.Metadata.Validate())
}

// Stake is the amount an owner delegated to a validator.
type Stake struct {
	Metadata  *treasury.Metadata `json:"metadata"`
	Owner     treasury.Address   `json:"owner"`
	Validator treasury.Address   `json:"validator"`
	Amount    coin.Coin          `json:"amount"`
}

var _ orm.Model = (*Stake)(nil)

func (s *Stake) Marshal() ([]byte, error)   { return treasury.MarshalModel(s) }
func (s *Stake) Unmarshal(raw []byte) error { return treasury.UnmarshalModel(raw, s) }

func (s *Stake) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", s.Metadata.Validate())
	errs = errors.AppendField(errs, "Owner", s.Owner.Validate())
	errs = errors.AppendField(errs, "Validator", s.Validator.Validate())
	if err := s.Amount.Validate(); err != nil {
		errs = errors.AppendField(errs, "Amount", err)
	} else if s.Amount.Whole < 0 || s.Amount.Fractional < 0 {
		errs = errors.AppendField(errs, "Amount", errors.Wrap(errors.ErrAmount, "negative"))
	}
	return errs
}

// Claim is unstaked value that can be collected once unlocked.
type Claim struct {
	Metadata  *treasury.Metadata `json:"metadata"`
	Owner     treasury.Address   `json:"owner"`
	Validator treasury.Address   `json:"validator"`
	Amount    coin.Coin          `json:"amount"`
	UnlockAt  treasury.UnixTime  `json:"unlock_at"`
}

var _ orm.Model = (*Claim)(nil)

func (c *Claim) Marshal() ([]byte, error)   { return treasury.MarshalModel(c) }
func (c *Claim) Unmarshal(raw []byte) error { return treasury.UnmarshalModel(raw, c) }

func (c *Claim) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", c.Metadata.Validate())
	errs = errors.AppendField(errs, "Owner", c.Owner.Validate())
	errs = errors.AppendField(errs, "Validator", c.Validator.Validate())
	if err := c.Amount.Validate(); err != nil {
		errs = errors.AppendField(errs, "Amount", err)
	} else if !c.Amount.IsPositive() {
		errs = errors.AppendField(errs, "Amount", errors.Wrap(errors.ErrAmount, "must be positive"))
	}
	return errs
}

// compositeKey joins length prefixed parts.
func compositeKey(parts ...[]byte) []byte {
	var key []byte
	for _, p := range parts {
		key = append(key, byte(len(p)))
		key = append(key, p...)
	}
	return key
}
