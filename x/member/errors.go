package member

import "github.com/iov-one/treasury/errors"

var (
	ErrInvalidSequence = errors.Register(1010, "invalid sequence number")
	ErrMissingBadge    = errors.Register(1011, "missing badge")
)
