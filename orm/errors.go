package orm

import (
	"github.com/iov-one/treasury/errors"
)

// Orm reserves 100~109 error codes

// ErrBucket is returned when a bucket is misconfigured or used with a
// model of a wrong type.
var ErrBucket = errors.Register(100, "invalid bucket")
