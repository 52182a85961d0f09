package store

import (
	"bytes"

	"github.com/google/btree"
	"github.com/iov-one/treasury/errors"
)

// ascendItems returns all cached items within [start, end) in ascending
// order.
func ascendItems(bt *btree.BTree, start, end []byte) []keyer {
	var res []keyer
	collect := func(i btree.Item) bool {
		res = append(res, i.(keyer))
		return true
	}
	switch {
	case start == nil && end == nil:
		bt.Ascend(collect)
	case start == nil:
		bt.AscendLessThan(bkey{end}, collect)
	case end == nil:
		bt.AscendGreaterOrEqual(bkey{start}, collect)
	default:
		bt.AscendRange(bkey{start}, bkey{end}, collect)
	}
	return res
}

// descendItems returns all cached items within [start, end) in descending
// order.
func descendItems(bt *btree.BTree, start, end []byte) []keyer {
	items := ascendItems(bt, start, end)
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}
	return items
}

// mergeIterator combines cached items with the iterator of the backing
// store. Cached values override the parent and deleted items hide them.
type mergeIterator struct {
	cached  []keyer
	parent  Iterator
	reverse bool

	// head of the parent iterator, nil when not loaded
	pkey, pvalue []byte
	pdone        bool
}

var _ Iterator = (*mergeIterator)(nil)

func newMergeIterator(cached []keyer, parent Iterator, reverse bool) *mergeIterator {
	return &mergeIterator{
		cached:  cached,
		parent:  parent,
		reverse: reverse,
	}
}

// loadParent makes sure the head of the parent iterator is available.
func (m *mergeIterator) loadParent() error {
	if m.pdone || m.pkey != nil {
		return nil
	}
	key, value, err := m.parent.Next()
	if errors.ErrIteratorDone.Is(err) {
		m.pdone = true
		return nil
	}
	if err != nil {
		return err
	}
	m.pkey, m.pvalue = key, value
	return nil
}

// cmp compares cached and parent key, respecting the iteration order.
// Negative result means the cached item goes first.
func (m *mergeIterator) cmp(cached, parent []byte) int {
	c := bytes.Compare(cached, parent)
	if m.reverse {
		return -c
	}
	return c
}

// Next implements Iterator.
func (m *mergeIterator) Next() ([]byte, []byte, error) {
	for {
		if err := m.loadParent(); err != nil {
			return nil, nil, err
		}

		if len(m.cached) == 0 {
			if m.pdone {
				return nil, nil, errors.ErrIteratorDone
			}
			key, value := m.pkey, m.pvalue
			m.pkey, m.pvalue = nil, nil
			return key, value, nil
		}

		head := m.cached[0]
		if !m.pdone {
			switch c := m.cmp(head.Key(), m.pkey); {
			case c > 0:
				key, value := m.pkey, m.pvalue
				m.pkey, m.pvalue = nil, nil
				return key, value, nil
			case c == 0:
				// Cached item overrides the parent.
				m.pkey, m.pvalue = nil, nil
			}
		}

		m.cached = m.cached[1:]
		if s, ok := head.(setItem); ok {
			return s.key, s.value, nil
		}
		// Deleted item, skip it.
	}
}

// Release implements Iterator.
func (m *mergeIterator) Release() {
	m.parent.Release()
	m.cached = nil
}
