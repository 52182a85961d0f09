package treasury

import (
	"testing"

	treasury "github.com/iov-one/treasury"
	"github.com/iov-one/treasury/coin"
	"github.com/iov-one/treasury/gconf"
	"github.com/iov-one/treasury/store"
	"github.com/iov-one/treasury/treasurytest"
	"github.com/iov-one/treasury/treasurytest/assert"
	"github.com/iov-one/treasury/x/cosign"
	"github.com/iov-one/treasury/x/member"
	"github.com/iov-one/treasury/x/vault"
	amino "github.com/tendermint/go-amino"
)

var testCodec = func() *amino.Codec {
	cdc := amino.NewCodec()
	cdc.RegisterInterface((*treasury.Msg)(nil), nil)
	RegisterCodec(cdc)
	return cdc
}()

type testTx struct {
	msg  treasury.Msg
	cred *member.Credential
}

var _ member.SignedTx = (*testTx)(nil)

func (tx *testTx) GetMsg() (treasury.Msg, error) { return tx.msg, nil }

func (tx *testTx) GetSignBytes() ([]byte, error) { return testCodec.MarshalBinaryBare(tx.msg) }

func (tx *testTx) GetCredential() *member.Credential { return tx.cred }

type routes map[string]treasury.Handler

func (r routes) Handle(path string, h treasury.Handler) { r[path] = h }

var (
	dao       = treasurytest.NewAddress("dao")
	alice     = treasurytest.NewAddress("alice")
	validator = treasurytest.NewAddress("validator")
	meta      = &treasury.Metadata{Schema: 1}
)

func iov(whole int64) coin.Coin {
	return coin.NewCoin(whole, 0, "IOV")
}

// env is a treasury with three members (0, 1 and 2) and a threshold of
// two. The treasury wallet holds 100 IOV and the "art/mona" token.
type env struct {
	db      treasury.CacheableKVStore
	ctrl    *cosign.Controller
	members *member.Registry
	vault   *vault.Controller
	account Account
	routes  routes
	keys    []treasurytest.Key
	ids     [][]byte
	events  *treasury.EventRecorder
	next    func() treasury.Context
}

func newEnv(t testing.TB) *env {
	t.Helper()
	e := &env{
		db:      store.MemStore(),
		members: member.NewRegistry(),
		vault:   vault.NewController(),
		routes:  make(routes),
		events:  treasury.NewEventRecorder(),
	}
	e.next = treasurytest.Contexts(e.events)
	e.ctrl = cosign.NewController(e.members)
	e.account = vault.NewAccount(e.vault)

	assert.Nil(t, cosign.SaveConfiguration(e.db, &cosign.Configuration{Metadata: meta, MinCosigners: 2}))
	assert.Nil(t, gconf.Save(e.db, "vault", &vault.Configuration{
		Metadata:    meta,
		Account:     dao,
		StakeTicker: "IOV",
	}))
	for _, name := range []string{"member-0", "member-1", "member-2"} {
		key := treasurytest.NewKey(name)
		id, err := e.members.Mint(e.next(), e.db, key.Address())
		assert.Nil(t, err)
		e.keys = append(e.keys, key)
		e.ids = append(e.ids, id)
	}
	assert.Nil(t, e.vault.Issue(e.db, dao, iov(100)))
	assert.Nil(t, e.vault.SetBadgeHolder(e.db, dao))
	assert.Nil(t, e.vault.MintNonFungible(e.db, "art", []byte("mona"), dao))
	assert.Nil(t, e.vault.RegisterValidator(e.db, validator, true))

	RegisterRoutes(e.routes, e.ctrl, NewDispatcher(e.ctrl.Policy(), e.members, e.account))
	e.events.Reset()
	return e
}

// deliver sends the message signed by given member. State changes are
// committed only if the call succeeds.
func (e *env) deliver(t testing.TB, who int, msg treasury.Msg) (*treasury.DeliverResult, error) {
	t.Helper()
	m, err := e.members.Get(e.db, e.ids[who])
	assert.Nil(t, err)

	tx := &testTx{msg: msg}
	tx.cred, err = member.Sign(e.keys[who].Private, tx, "test-chain", e.ids[who], m.Sequence)
	assert.Nil(t, err)

	h, ok := e.routes[msg.Path()]
	if !ok {
		t.Fatalf("no handler for %q", msg.Path())
	}
	cache := e.db.CacheWrap()
	res, err := member.NewAuthenticator(e.members).Deliver(e.next(), cache, tx, h)
	if err != nil {
		cache.Discard()
		return nil, err
	}
	assert.Nil(t, cache.Write())
	return res, nil
}

func (e *env) balance(t testing.TB, owner treasury.Address) coin.Coin {
	t.Helper()
	coins, err := e.vault.Balance(e.db, owner)
	assert.Nil(t, err)
	return coins.Balance("IOV")
}

func (e *env) votes(t testing.TB, op *cosign.Operation) int {
	t.Helper()
	cs, err := e.ctrl.Cosigners(e.db, op)
	assert.Nil(t, err)
	return cs.Len()
}
