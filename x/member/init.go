package member

import (
	treasury "github.com/iov-one/treasury"
	"github.com/iov-one/treasury/errors"
)

// Initializer mints badges listed in the genesis file.
type Initializer struct {
	Registry *Registry
}

var _ treasury.Initializer = (*Initializer)(nil)

// FromGenesis reads the "members" section. Badges are issued in the order
// they are listed, so the first member gets the badge ID 1.
//
//	"members": [
//	  {"account": "bech32:dao1..."},
//	  {"account": "B1CA7E78F74423AE01DA3B51E676934D9105F282", "disabled": true}
//	]
func (i *Initializer) FromGenesis(ctx treasury.Context, opts treasury.Options, db treasury.KVStore) error {
	var members []struct {
		Account  treasury.Address `json:"account"`
		Disabled bool             `json:"disabled"`
	}
	if err := opts.ReadOptions("members", &members); err != nil {
		return err
	}
	for n, m := range members {
		id, err := i.Registry.Mint(ctx, db, m.Account)
		if err != nil {
			return errors.Wrapf(err, "member #%d", n)
		}
		if m.Disabled {
			if err := i.Registry.SetEnabled(ctx, db, id, false); err != nil {
				return errors.Wrapf(err, "member #%d", n)
			}
		}
	}
	return nil
}
