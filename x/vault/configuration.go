package vault

import (
	"time"

	treasury "github.com/iov-one/treasury"
	"github.com/iov-one/treasury/coin"
	"github.com/iov-one/treasury/errors"
	"github.com/iov-one/treasury/gconf"
)

const configurationPackage = "vault"

// Configuration of the staking rules.
type Configuration struct {
	Metadata *treasury.Metadata `json:"metadata"`
	// Account is the address of the treasury wallet.
	Account treasury.Address `json:"account"`
	// StakeTicker is the only currency that can be staked.
	StakeTicker string `json:"stake_ticker"`
	// UnbondingPeriod is the number of seconds an unstaked amount is
	// locked before it can be claimed.
	UnbondingPeriod int64 `json:"unbonding_period"`
}

var _ gconf.Configuration = (*Configuration)(nil)

func (c *Configuration) Marshal() ([]byte, error)   { return treasury.MarshalModel(c) }
func (c *Configuration) Unmarshal(raw []byte) error { return treasury.UnmarshalModel(raw, c) }

func (c *Configuration) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", c.Metadata.Validate())
	errs = errors.AppendField(errs, "Account", c.Account.Validate())
	if !coin.IsCC(c.StakeTicker) {
		errs = errors.AppendField(errs, "StakeTicker", ErrInvalidTicker)
	}
	if c.UnbondingPeriod < 0 {
		errs = errors.AppendField(errs, "UnbondingPeriod", errors.Wrap(errors.ErrInput, "negative"))
	}
	return errs
}

// Unbonding returns the unbonding period as a duration.
func (c *Configuration) Unbonding() time.Duration {
	return time.Duration(c.UnbondingPeriod) * time.Second
}

func loadConfiguration(db treasury.ReadOnlyKVStore) (*Configuration, error) {
	var conf Configuration
	if err := gconf.Load(db, configurationPackage, &conf); err != nil {
		return nil, errors.Wrap(err, "load configuration")
	}
	return &conf, nil
}
