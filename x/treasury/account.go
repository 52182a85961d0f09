package treasury

import (
	treasury "github.com/iov-one/treasury"
	"github.com/iov-one/treasury/coin"
)

// Account is the custodial wallet whose assets are managed by the
// treasury operations. Read methods are used to check that an operation
// can be executed when it is submitted, write methods apply the effect.
type Account interface {
	Balance(db treasury.ReadOnlyKVStore, ticker string) (coin.Coin, error)
	HoldsBadge(db treasury.ReadOnlyKVStore) error
	CheckNonFungibles(db treasury.ReadOnlyKVStore, resource string, ids [][]byte) error
	CheckStake(db treasury.ReadOnlyKVStore, validator treasury.Address, amount coin.Coin) error
	Staked(db treasury.ReadOnlyKVStore, validator treasury.Address) (coin.Coin, error)
	CheckClaims(ctx treasury.Context, db treasury.ReadOnlyKVStore, validator treasury.Address, ids [][]byte) error

	SendFungibles(ctx treasury.Context, db treasury.KVStore, recipient treasury.Address, amount coin.Coin) error
	SendNonFungibles(ctx treasury.Context, db treasury.KVStore, recipient treasury.Address, resource string, ids [][]byte) error
	TransferBadge(ctx treasury.Context, db treasury.KVStore, component treasury.Address) error
	Stake(ctx treasury.Context, db treasury.KVStore, validator treasury.Address, amount coin.Coin) error
	Unstake(ctx treasury.Context, db treasury.KVStore, validator treasury.Address, amount coin.Coin) ([]byte, error)
	ClaimUnstaked(ctx treasury.Context, db treasury.KVStore, validator treasury.Address, ids [][]byte) (coin.Coin, error)
}

// Members is the registry of voters that can be modified by the treasury
// operations.
type Members interface {
	Mint(ctx treasury.Context, db treasury.KVStore, account treasury.Address) ([]byte, error)
	SetEnabled(ctx treasury.Context, db treasury.KVStore, id []byte, enabled bool) error
}
