package store

import (
	"bytes"
	"sort"
	"testing"

	"github.com/iov-one/treasury/errors"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"
)

// TestSuite runs the same set of checks against any CacheableKVStore. Every
// backend used by the treasury must pass it.
type TestSuite struct {
	makeBase TestStoreConstructor
}

// TestStoreConstructor returns a new, empty store and a function releasing
// it.
type TestStoreConstructor func() (base CacheableKVStore, cleanup func())

func NewTestSuite(constructor TestStoreConstructor) *TestSuite {
	return &TestSuite{
		makeBase: constructor,
	}
}

// GetSet checks that writes made in nested cache wraps reach the base only
// once every layer was written.
func (s *TestSuite) GetSet(t *testing.T) {
	base, cleanup := s.makeBase()
	defer cleanup()

	member, seq := []byte("member:1"), []byte("seq:1")
	s.AssertGetHas(t, base, member, nil, false)
	require.NoError(t, base.Set(member, []byte("enabled")))
	s.AssertGetHas(t, base, member, []byte("enabled"), true)

	// A transaction wrap with a handler savepoint on top.
	tx := base.CacheWrap()
	handler := tx.CacheWrap()
	require.NoError(t, handler.Set(seq, []byte{1}))
	require.NoError(t, handler.Delete(member))
	s.AssertGetHas(t, handler, member, nil, false)
	s.AssertGetHas(t, tx, seq, nil, false)

	require.NoError(t, handler.Write())
	s.AssertGetHas(t, tx, seq, []byte{1}, true)
	s.AssertGetHas(t, tx, member, nil, false)
	s.AssertGetHas(t, base, seq, nil, false)
	s.AssertGetHas(t, base, member, []byte("enabled"), true)

	// Discarding the transaction drops the handler writes too.
	tx.Discard()
	s.AssertGetHas(t, base, seq, nil, false)
	s.AssertGetHas(t, base, member, []byte("enabled"), true)

	tx = base.CacheWrap()
	handler = tx.CacheWrap()
	require.NoError(t, handler.Set(seq, []byte{2}))
	require.NoError(t, handler.Write())
	require.NoError(t, tx.Write())
	s.AssertGetHas(t, base, seq, []byte{2}, true)
	s.AssertGetHas(t, base, member, []byte("enabled"), true)
}

// CacheConflicts checks that a cache wrap can overwrite and delete values
// of its parent without affecting it until written.
func (s *TestSuite) CacheConflicts(t *testing.T) {
	k := func(s string) []byte { return []byte("op:" + s) }
	v := func(s string) []byte { return []byte("votes:" + s) }

	cases := map[string]struct {
		parentOps     []Op
		childOps      []Op
		parentQueries []Model // Key is what we query, Value is what we expect
		childQueries  []Model
	}{
		"overwrite one, delete another, add a third": {
			parentOps:     []Op{SetOp(k("a"), v("1")), SetOp(k("b"), v("1"))},
			childOps:      []Op{SetOp(k("a"), v("2")), SetOp(k("c"), v("1")), DelOp(k("b"))},
			parentQueries: []Model{Pair(k("a"), v("1")), Pair(k("b"), v("1")), Pair(k("c"), nil)},
			childQueries:  []Model{Pair(k("a"), v("2")), Pair(k("b"), nil), Pair(k("c"), v("1"))},
		},
		"delete and set again": {
			parentOps:     []Op{SetOp(k("a"), v("1"))},
			childOps:      []Op{DelOp(k("a")), SetOp(k("a"), v("3"))},
			parentQueries: []Model{Pair(k("a"), v("1"))},
			childQueries:  []Model{Pair(k("a"), v("3"))},
		},
		"delete missing": {
			childOps:      []Op{DelOp(k("x"))},
			parentQueries: []Model{Pair(k("x"), nil)},
			childQueries:  []Model{Pair(k("x"), nil)},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			parent, cleanup := s.makeBase()
			defer cleanup()

			for _, op := range tc.parentOps {
				require.NoError(t, op.Apply(parent))
			}
			child := parent.CacheWrap()
			for _, op := range tc.childOps {
				require.NoError(t, op.Apply(child))
			}

			for _, q := range tc.parentQueries {
				s.AssertGetHas(t, parent, q.Key, q.Value, q.Value != nil)
			}
			for _, q := range tc.childQueries {
				s.AssertGetHas(t, child, q.Key, q.Value, q.Value != nil)
			}

			require.NoError(t, child.Write())
			for _, q := range tc.childQueries {
				s.AssertGetHas(t, parent, q.Key, q.Value, q.Value != nil)
			}
		})
	}
}

// Iterator checks that iterating a cache wrap merges its writes with the
// parent content, in both directions and for any range. The result is
// compared against a plain map the same operations were applied to.
func (s *TestSuite) Iterator(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	keys := gen.SliceOf(gen.UInt8Range(0, 31))
	bound := gen.UInt8Range(0, 32)

	properties.Property("cache wrap iteration matches the model", prop.ForAll(
		func(parentSet, childSet, childDel []uint8, lo, hi uint8) bool {
			base, cleanup := s.makeBase()
			defer cleanup()

			model := make(map[string][]byte)
			for _, k := range parentSet {
				key, value := []byte{k}, []byte{k, 'p'}
				if err := base.Set(key, value); err != nil {
					return false
				}
				model[string(key)] = value
			}
			child := base.CacheWrap()
			for _, k := range childSet {
				key, value := []byte{k}, []byte{k, 'c'}
				if err := child.Set(key, value); err != nil {
					return false
				}
				model[string(key)] = value
			}
			for _, k := range childDel {
				if err := child.Delete([]byte{k}); err != nil {
					return false
				}
				delete(model, string([]byte{k}))
			}

			start, end := rangeBounds(lo, hi)
			want := modelRange(model, start, end)
			if !iterEquals(child.Iterator(start, end))(want) {
				return false
			}
			if !iterEquals(child.ReverseIterator(start, end))(reverse(want)) {
				return false
			}

			// Once written the parent holds the same content.
			if err := child.Write(); err != nil {
				return false
			}
			return iterEquals(base.Iterator(start, end))(want)
		},
		keys, keys, keys, bound, bound,
	))

	properties.TestingRun(t)
}

func (s *TestSuite) AssertGetHas(t testing.TB, kv ReadOnlyKVStore, key, val []byte, has bool) {
	t.Helper()
	got, err := kv.Get(key)
	require.NoError(t, err)
	require.Equal(t, val, got)
	exists, err := kv.Has(key)
	require.NoError(t, err)
	require.Equal(t, has, exists)
}

// rangeBounds converts generated values into an iteration range. The value
// 32 stands for an open bound.
func rangeBounds(lo, hi uint8) (start, end []byte) {
	if lo > hi {
		lo, hi = hi, lo
	}
	if lo < 32 {
		start = []byte{lo}
	}
	if hi < 32 && hi != lo {
		end = []byte{hi}
	}
	return start, end
}

// modelRange returns the sorted content of the model within [start, end).
func modelRange(model map[string][]byte, start, end []byte) []Model {
	var res []Model
	for k, v := range model {
		key := []byte(k)
		if start != nil && bytes.Compare(key, start) < 0 {
			continue
		}
		if end != nil && bytes.Compare(key, end) >= 0 {
			continue
		}
		res = append(res, Pair(key, v))
	}
	sort.Slice(res, func(i, j int) bool {
		return bytes.Compare(res[i].Key, res[j].Key) < 0
	})
	return res
}

// iterEquals returns a function that consumes the iterator and reports
// whether it returned exactly the expected models.
func iterEquals(it Iterator, err error) func([]Model) bool {
	return func(expected []Model) bool {
		if err != nil {
			return false
		}
		defer it.Release()
		for _, m := range expected {
			key, value, err := it.Next()
			if err != nil || !bytes.Equal(key, m.Key) || !bytes.Equal(value, m.Value) {
				return false
			}
		}
		_, _, err := it.Next()
		return errors.ErrIteratorDone.Is(err)
	}
}

// reverse returns a copy of the slice with elements in reverse order
func reverse(models []Model) []Model {
	res := make([]Model, len(models))
	for i, m := range models {
		res[len(models)-1-i] = m
	}
	return res
}
