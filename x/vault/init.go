package vault

import (
	treasury "github.com/iov-one/treasury"
	"github.com/iov-one/treasury/coin"
	"github.com/iov-one/treasury/errors"
	"github.com/iov-one/treasury/gconf"
)

// Initializer loads the vault state from genesis.
type Initializer struct {
	Controller *Controller
}

var _ treasury.Initializer = (*Initializer)(nil)

type genesis struct {
	BadgeHolder treasury.Address `json:"badge_holder"`
	Wallets     []struct {
		Address treasury.Address `json:"address"`
		Coins   []coin.Coin      `json:"coins"`
	} `json:"wallets"`
	NonFungibles []struct {
		Resource string           `json:"resource"`
		ID       string           `json:"id"`
		Owner    treasury.Address `json:"owner"`
	} `json:"non_fungibles"`
	Validators []struct {
		Address      treasury.Address `json:"address"`
		AcceptsStake bool             `json:"accepts_stake"`
	} `json:"validators"`
}

// FromGenesis reads the "conf.vault" and "vault" sections. When no badge
// holder is given, the treasury account holds the badge.
func (i *Initializer) FromGenesis(ctx treasury.Context, opts treasury.Options, db treasury.KVStore) error {
	var conf Configuration
	if err := gconf.InitConfig(db, opts, configurationPackage, &conf); err != nil {
		return errors.Wrap(err, "init config")
	}

	var gen genesis
	if err := opts.ReadOptions("vault", &gen); err != nil {
		return err
	}

	holder := gen.BadgeHolder
	if len(holder) == 0 {
		holder = conf.Account
	}
	if err := i.Controller.SetBadgeHolder(db, holder); err != nil {
		return errors.Wrap(err, "badge holder")
	}
	for n, w := range gen.Wallets {
		for _, c := range w.Coins {
			if err := i.Controller.Issue(db, w.Address, c); err != nil {
				return errors.Wrapf(err, "wallet #%d", n)
			}
		}
	}
	for n, nft := range gen.NonFungibles {
		if err := i.Controller.MintNonFungible(db, nft.Resource, []byte(nft.ID), nft.Owner); err != nil {
			return errors.Wrapf(err, "non fungible #%d", n)
		}
	}
	for n, v := range gen.Validators {
		if err := i.Controller.RegisterValidator(db, v.Address, v.AcceptsStake); err != nil {
			return errors.Wrapf(err, "validator #%d", n)
		}
	}
	return nil
}
