package vault

import "github.com/iov-one/treasury/errors"

var (
	ErrNotOwner       = errors.Register(1020, "not owner")
	ErrStakeRejected  = errors.Register(1021, "stake rejected")
	ErrClaimLocked    = errors.Register(1022, "claim locked")
	ErrInvalidTicker  = errors.Register(1023, "invalid ticker")
	ErrInvalidNFTName = errors.Register(1024, "invalid non fungible resource")
)
