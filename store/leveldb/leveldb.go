/*
Package leveldb provides a persistent KVStore backed by goleveldb.

Writes performed through a batch are applied atomically, so a cache wrap
written on top of this store either lands completely or not at all.
*/
package leveldb

import (
	"github.com/iov-one/treasury/errors"
	"github.com/iov-one/treasury/store"
	"github.com/syndtr/goleveldb/leveldb"
	leveldbIterator "github.com/syndtr/goleveldb/leveldb/iterator"
	leveldbStorage "github.com/syndtr/goleveldb/leveldb/storage"
	leveldbUtil "github.com/syndtr/goleveldb/leveldb/util"
)

// Store is a KVStore persisted in a leveldb database.
type Store struct {
	db *leveldb.DB
}

var _ store.CacheableKVStore = (*Store)(nil)

// Open returns a store persisted in the given directory. Use an empty path
// or "memory" to keep the data in memory only.
func Open(path string) (*Store, error) {
	var (
		db  *leveldb.DB
		err error
	)
	if path == "" || path == "memory" {
		db, err = leveldb.Open(leveldbStorage.NewMemStorage(), nil)
	} else {
		db, err = leveldb.OpenFile(path, nil)
	}
	if err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "open %q: %s", path, err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}

// Get returns nil if the key does not exist.
func (s *Store) Get(key []byte) ([]byte, error) {
	val, err := s.db.Get(key, nil)
	switch err {
	case nil:
		return val, nil
	case leveldb.ErrNotFound:
		return nil, nil
	default:
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
}

// Has returns true if a value is stored under given key.
func (s *Store) Has(key []byte) (bool, error) {
	ok, err := s.db.Has(key, nil)
	if err != nil {
		return false, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return ok, nil
}

// Set stores the value directly. Prefer using a batch or a cache wrap.
func (s *Store) Set(key, value []byte) error {
	if err := s.db.Put(key, value, nil); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}

// Delete removes the key directly.
func (s *Store) Delete(key []byte) error {
	if err := s.db.Delete(key, nil); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}

// NewBatch returns an atomic batch.
func (s *Store) NewBatch() store.Batch {
	return &batch{db: s.db, b: new(leveldb.Batch)}
}

// CacheWrap returns an in-memory cache that is written to the database in
// a single atomic batch.
func (s *Store) CacheWrap() store.KVCacheWrap {
	return store.NewBTreeCacheWrap(s, s.NewBatch(), nil)
}

// Iterator over [start, end) in ascending order.
func (s *Store) Iterator(start, end []byte) (store.Iterator, error) {
	it := s.db.NewIterator(&leveldbUtil.Range{Start: start, Limit: end}, nil)
	return &iterator{it: it, move: it.Next}, nil
}

// ReverseIterator over [start, end) in descending order.
func (s *Store) ReverseIterator(start, end []byte) (store.Iterator, error) {
	it := s.db.NewIterator(&leveldbUtil.Range{Start: start, Limit: end}, nil)
	first := true
	move := func() bool {
		if first {
			first = false
			return it.Last()
		}
		return it.Prev()
	}
	return &iterator{it: it, move: move}, nil
}

type batch struct {
	db *leveldb.DB
	b  *leveldb.Batch
}

func (b *batch) Set(key, value []byte) error {
	b.b.Put(key, value)
	return nil
}

func (b *batch) Delete(key []byte) error {
	b.b.Delete(key)
	return nil
}

func (b *batch) Write() error {
	if err := b.db.Write(b.b, nil); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	b.b.Reset()
	return nil
}

type iterator struct {
	it   leveldbIterator.Iterator
	move func() bool
}

// Next implements store.Iterator. Key and value are copied, as leveldb
// reuses the buffers.
func (i *iterator) Next() ([]byte, []byte, error) {
	if !i.move() {
		if err := i.it.Error(); err != nil {
			return nil, nil, errors.Wrap(errors.ErrDatabase, err.Error())
		}
		return nil, nil, errors.ErrIteratorDone
	}
	key := append([]byte(nil), i.it.Key()...)
	value := append([]byte(nil), i.it.Value()...)
	return key, value, nil
}

func (i *iterator) Release() {
	i.it.Release()
}
