package orm

import (
	treasury "github.com/iov-one/treasury"
)

// Model is implemented by any entity that can be stored using ModelBucket.
type Model interface {
	treasury.Persistent
	Validate() error
}
