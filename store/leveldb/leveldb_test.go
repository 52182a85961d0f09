package leveldb

import (
	"io/ioutil"
	"os"
	"testing"

	"github.com/iov-one/treasury/store"
	"github.com/stretchr/testify/require"
)

func makeMemory() (store.CacheableKVStore, func()) {
	s, err := Open("memory")
	if err != nil {
		panic(err)
	}
	return s, func() { s.Close() }
}

func TestLevelDBStore(t *testing.T) {
	suite := store.NewTestSuite(makeMemory)
	t.Run("get set", suite.GetSet)
	t.Run("cache conflicts", suite.CacheConflicts)
	t.Run("iterator", suite.Iterator)
}

func TestLevelDBPersistence(t *testing.T) {
	dir, err := ioutil.TempDir("", "treasury-leveldb")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	s, err := Open(dir)
	require.NoError(t, err)
	cache := s.CacheWrap()
	require.NoError(t, cache.Set([]byte("member"), []byte("alice")))
	require.NoError(t, cache.Write())
	require.NoError(t, s.Close())

	s, err = Open(dir)
	require.NoError(t, err)
	defer s.Close()
	got, err := s.Get([]byte("member"))
	require.NoError(t, err)
	require.Equal(t, []byte("alice"), got)
}
