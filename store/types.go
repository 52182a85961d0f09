package store

import treasury "github.com/iov-one/treasury"

// Move references for all storage types into this package
// for shorter names everywhere

type (
	ReadOnlyKVStore  = treasury.ReadOnlyKVStore
	SetDeleter       = treasury.SetDeleter
	KVStore          = treasury.KVStore
	Batch            = treasury.Batch
	Iterator         = treasury.Iterator
	CacheableKVStore = treasury.CacheableKVStore
	KVCacheWrap      = treasury.KVCacheWrap
	Model            = treasury.Model
)

// Pair constructs a model from a key-value pair
var Pair = treasury.Pair
