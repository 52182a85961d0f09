package cosign

import (
	"testing"

	treasury "github.com/iov-one/treasury"
	"github.com/iov-one/treasury/coin"
	"github.com/iov-one/treasury/store"
	"github.com/iov-one/treasury/treasurytest"
)

// memRegistry is a registry kept in memory. It ignores the database.
type memRegistry struct {
	enabled map[string]bool
}

var _ Registry = (*memRegistry)(nil)

func newMemRegistry(voters ...[]byte) *memRegistry {
	r := &memRegistry{enabled: make(map[string]bool)}
	for _, v := range voters {
		r.enabled[string(v)] = true
	}
	return r
}

func (r *memRegistry) IsEnabled(db treasury.ReadOnlyKVStore, voterID []byte) (bool, error) {
	return r.enabled[string(voterID)], nil
}

func (r *memRegistry) Exists(db treasury.ReadOnlyKVStore, voterID []byte) (bool, error) {
	_, ok := r.enabled[string(voterID)]
	return ok, nil
}

func (r *memRegistry) CountEnabled(db treasury.ReadOnlyKVStore) (int, error) {
	var n int
	for _, ok := range r.enabled {
		if ok {
			n++
		}
	}
	return n, nil
}

func (r *memRegistry) set(voterID []byte, enabled bool) {
	r.enabled[string(voterID)] = enabled
}

var (
	voterX = treasurytest.SequenceID(1)
	voterY = treasurytest.SequenceID(2)
	voterZ = treasurytest.SequenceID(3)
)

// setupController returns a controller with given threshold and all voters
// enabled.
func setupController(t testing.TB, minCosigners uint32, voters ...[]byte) (treasury.CacheableKVStore, *Controller, *memRegistry) {
	t.Helper()
	db := store.MemStore()
	reg := newMemRegistry(voters...)
	conf := &Configuration{
		Metadata:     &treasury.Metadata{Schema: 1},
		MinCosigners: minCosigners,
	}
	if err := SaveConfiguration(db, conf); err != nil {
		t.Fatalf("cannot save configuration: %s", err)
	}
	return db, NewController(reg), reg
}

func sendOp(description string) *Operation {
	return NewOperation(description, SendFungibles).
		WithResource("IOV").
		WithAmount(coinOf(10)).
		WithRecipient(treasurytest.NewAddress("alice"))
}

func coinOf(whole int64) coin.Coin {
	return coin.NewCoin(whole, 0, "IOV")
}
