package treasury

import (
	"encoding/binary"
	"testing"

	treasury "github.com/iov-one/treasury"
	"github.com/iov-one/treasury/coin"
	"github.com/iov-one/treasury/errors"
	"github.com/iov-one/treasury/treasurytest"
	"github.com/iov-one/treasury/treasurytest/assert"
	"github.com/iov-one/treasury/x/cosign"
	"github.com/iov-one/treasury/x/vault"
)

func TestSendFungiblesRound(t *testing.T) {
	e := newEnv(t)
	msg := &SendFungiblesMsg{
		Metadata:    meta,
		Description: "grant #1",
		Amount:      iov(40),
		Recipient:   alice,
	}

	res, err := e.deliver(t, 0, msg)
	assert.Nil(t, err)
	assert.Equal(t, false, res.Executed)
	assert.Equal(t, iov(100), e.balance(t, dao))
	assert.Equal(t, 1, e.votes(t, msg.Operation()))

	// The same member cannot vote twice in a round.
	_, err = e.deliver(t, 0, msg)
	assert.IsErr(t, cosign.ErrDuplicateVote, err)

	res, err = e.deliver(t, 1, msg)
	assert.Nil(t, err)
	assert.Equal(t, true, res.Executed)
	assert.Equal(t, iov(60), e.balance(t, dao))
	assert.Equal(t, iov(40), e.balance(t, alice))
	assert.Equal(t, 0, e.votes(t, msg.Operation()))

	events := e.events.Events()
	assert.Equal(t, 2, len(events))
	assert.Equal(t, "cosign/opened", events[0].EventType())
	assert.Equal(t, "cosign/approved", events[1].EventType())
	approved := events[1].(*cosign.OperationApproved)
	assert.Equal(t, [][]byte{e.ids[0], e.ids[1]}, approved.Cosigners.VoterIDs())

	// Executing again requires a new round.
	res, err = e.deliver(t, 2, msg)
	assert.Nil(t, err)
	assert.Equal(t, false, res.Executed)
	assert.Equal(t, iov(60), e.balance(t, dao))
}

func TestAvailabilityIsCheckedOnEveryVote(t *testing.T) {
	e := newEnv(t)
	big := &SendFungiblesMsg{Metadata: meta, Description: "big", Amount: iov(80), Recipient: alice}
	small := &SendFungiblesMsg{Metadata: meta, Description: "small", Amount: iov(30), Recipient: alice}

	_, err := e.deliver(t, 0, big)
	assert.Nil(t, err)

	_, err = e.deliver(t, 0, small)
	assert.Nil(t, err)
	res, err := e.deliver(t, 1, small)
	assert.Nil(t, err)
	assert.Equal(t, true, res.Executed)

	// Only 70 left, the pending round can no longer be completed.
	_, err = e.deliver(t, 1, big)
	assert.IsErr(t, errors.ErrInsufficientAmount, err)
	assert.Equal(t, 1, e.votes(t, big.Operation()))
}

type failingAccount struct {
	Account
}

func (failingAccount) SendFungibles(treasury.Context, treasury.KVStore, treasury.Address, coin.Coin) error {
	return errors.Wrap(errors.ErrDatabase, "wallet unavailable")
}

func TestEffectFailureRevertsTheRound(t *testing.T) {
	e := newEnv(t)
	e.routes = make(routes)
	RegisterRoutes(e.routes, e.ctrl, NewDispatcher(e.ctrl.Policy(), e.members, failingAccount{e.account}))

	msg := &SendFungiblesMsg{Metadata: meta, Description: "doomed", Amount: iov(1), Recipient: alice}
	_, err := e.deliver(t, 0, msg)
	assert.Nil(t, err)

	_, err = e.deliver(t, 1, msg)
	assert.IsErr(t, cosign.ErrEffectFailure, err)

	// The approving vote was rolled back together with the effect.
	cs, err := e.ctrl.Cosigners(e.db, msg.Operation())
	assert.Nil(t, err)
	assert.Equal(t, [][]byte{e.ids[0]}, cs.VoterIDs())
	rec, err := e.ctrl.Ledger().Get(e.db, msg.Operation())
	assert.Nil(t, err)
	assert.Equal(t, uint32(0), rec.Executions)
	assert.Equal(t, iov(100), e.balance(t, dao))
}

func TestMemberManagement(t *testing.T) {
	e := newEnv(t)

	mint := &MintMemberMsg{Metadata: meta, Description: "welcome", Recipient: alice}
	_, err := e.deliver(t, 0, mint)
	assert.Nil(t, err)
	res, err := e.deliver(t, 2, mint)
	assert.Nil(t, err)
	assert.Equal(t, true, res.Executed)
	newID := res.Data
	m, err := e.members.Get(e.db, newID)
	assert.Nil(t, err)
	assert.Equal(t, alice, m.Account)
	assert.Equal(t, true, m.Enabled)

	// Member 1 votes on a payment, then gets disabled. Its vote no longer
	// counts towards the threshold.
	pay := &SendFungiblesMsg{Metadata: meta, Description: "pay", Amount: iov(5), Recipient: alice}
	_, err = e.deliver(t, 1, pay)
	assert.Nil(t, err)

	disable := &DisableMemberMsg{Metadata: meta, Description: "bye", Member: e.ids[1]}
	_, err = e.deliver(t, 0, disable)
	assert.Nil(t, err)
	res, err = e.deliver(t, 2, disable)
	assert.Nil(t, err)
	assert.Equal(t, true, res.Executed)
	enabled, err := e.members.IsEnabled(e.db, e.ids[1])
	assert.Nil(t, err)
	assert.Equal(t, false, enabled)

	// A disabled member cannot vote at all.
	_, err = e.deliver(t, 1, pay)
	assert.IsErr(t, cosign.ErrInvalidVoter, err)

	res, err = e.deliver(t, 0, pay)
	assert.Nil(t, err)
	assert.Equal(t, false, res.Executed)
	cs, err := e.ctrl.Cosigners(e.db, pay.Operation())
	assert.Nil(t, err)
	assert.Equal(t, [][]byte{e.ids[0]}, cs.VoterIDs())

	enable := &EnableMemberMsg{Metadata: meta, Description: "welcome back", Member: e.ids[1]}
	_, err = e.deliver(t, 0, enable)
	assert.Nil(t, err)
	res, err = e.deliver(t, 2, enable)
	assert.Nil(t, err)
	assert.Equal(t, true, res.Executed)

	// Enabling an enabled member is not available.
	again := &EnableMemberMsg{Metadata: meta, Description: "again", Member: e.ids[1]}
	_, err = e.deliver(t, 0, again)
	assert.IsErr(t, cosign.ErrPolicyViolation, err)
}

func TestThresholdChanges(t *testing.T) {
	e := newEnv(t)

	dec := &DecreaseMinCosignersMsg{Metadata: meta, Description: "lower"}
	_, err := e.deliver(t, 0, dec)
	assert.IsErr(t, cosign.ErrPolicyViolation, err)

	inc := &IncreaseMinCosignersMsg{Metadata: meta, Description: "raise"}
	_, err = e.deliver(t, 0, inc)
	assert.Nil(t, err)
	res, err := e.deliver(t, 1, inc)
	assert.Nil(t, err)
	assert.Equal(t, true, res.Executed)
	assert.Equal(t, uint32(3), binary.BigEndian.Uint32(res.Data))

	// All three members are required now and no further increase is
	// possible.
	_, err = e.deliver(t, 0, inc)
	assert.IsErr(t, cosign.ErrPolicyViolation, err)

	for i := 0; i < 2; i++ {
		res, err = e.deliver(t, i, dec)
		assert.Nil(t, err)
		assert.Equal(t, false, res.Executed)
	}
	res, err = e.deliver(t, 2, dec)
	assert.Nil(t, err)
	assert.Equal(t, true, res.Executed)
	assert.Equal(t, uint32(2), binary.BigEndian.Uint32(res.Data))
}

func TestAssetOperations(t *testing.T) {
	e := newEnv(t)
	both := func(msg OperationMsg) *treasury.DeliverResult {
		t.Helper()
		_, err := e.deliver(t, 0, msg)
		assert.Nil(t, err)
		res, err := e.deliver(t, 1, msg)
		assert.Nil(t, err)
		assert.Equal(t, true, res.Executed)
		return res
	}

	both(&SendNonFungiblesMsg{
		Metadata:    meta,
		Description: "gift",
		Resource:    "art",
		IDs:         [][]byte{[]byte("mona")},
		Recipient:   alice,
	})
	owner, err := e.vault.NonFungibleOwner(e.db, "art", []byte("mona"))
	assert.Nil(t, err)
	assert.Equal(t, alice, owner)

	both(&StakeMsg{Metadata: meta, Description: "stake", Amount: iov(50), Validator: validator})
	assert.Equal(t, iov(50), e.balance(t, dao))

	res := both(&UnstakeMsg{Metadata: meta, Description: "unstake", Amount: iov(20), Validator: validator})
	claimID := res.Data
	staked, err := e.account.Staked(e.db, validator)
	assert.Nil(t, err)
	assert.Equal(t, iov(30), staked)

	res = both(&ClaimUnstakedMsg{
		Metadata:    meta,
		Description: "claim",
		Claims:      [][]byte{claimID},
		Validator:   validator,
	})
	assert.Equal(t, iov(20).String(), string(res.Data))
	assert.Equal(t, iov(70), e.balance(t, dao))

	component := treasurytest.NewAddress("component")
	both(&TransferAccountBadgeMsg{Metadata: meta, Description: "handover", Component: component})
	holder, err := e.vault.BadgeHolder(e.db)
	assert.Nil(t, err)
	assert.Equal(t, component, holder)

	// Without the badge the treasury cannot move assets anymore.
	_, err = e.deliver(t, 0, &SendFungiblesMsg{Metadata: meta, Description: "x", Amount: iov(1), Recipient: alice})
	assert.IsErr(t, vault.ErrNotOwner, err)
}

func TestRemoveSignature(t *testing.T) {
	e := newEnv(t)
	msg := &SendFungiblesMsg{Metadata: meta, Description: "maybe", Amount: iov(10), Recipient: alice}
	remove := &RemoveSignatureMsg{Metadata: meta, Operation: *msg.Operation()}

	_, err := e.deliver(t, 0, remove)
	assert.IsErr(t, cosign.ErrOperationNotFound, err)

	_, err = e.deliver(t, 0, msg)
	assert.Nil(t, err)

	_, err = e.deliver(t, 1, remove)
	assert.IsErr(t, cosign.ErrVoteNotFound, err)

	_, err = e.deliver(t, 0, remove)
	assert.Nil(t, err)
	assert.Equal(t, 0, e.votes(t, msg.Operation()))

	// The round starts over.
	_, err = e.deliver(t, 1, msg)
	assert.Nil(t, err)
	res, err := e.deliver(t, 0, msg)
	assert.Nil(t, err)
	assert.Equal(t, true, res.Executed)

	var opened int
	for _, ev := range e.events.Events() {
		if _, ok := ev.(*cosign.OperationOpened); ok {
			opened++
		}
	}
	assert.Equal(t, 1, opened)
}

func TestDisabledMemberCannotRemoveSignature(t *testing.T) {
	e := newEnv(t)
	msg := &SendFungiblesMsg{Metadata: meta, Description: "maybe", Amount: iov(10), Recipient: alice}
	remove := &RemoveSignatureMsg{Metadata: meta, Operation: *msg.Operation()}

	_, err := e.deliver(t, 0, msg)
	assert.Nil(t, err)
	assert.Nil(t, e.members.SetEnabled(e.next(), e.db, e.ids[0], false))

	_, err = e.deliver(t, 0, remove)
	assert.IsErr(t, cosign.ErrInvalidVoter, err)
	assert.Equal(t, 1, e.votes(t, msg.Operation()))
}

func TestHandlerRequiresAuthentication(t *testing.T) {
	e := newEnv(t)
	msg := &SendFungiblesMsg{Metadata: meta, Description: "anon", Amount: iov(1), Recipient: alice}
	h := e.routes[msg.Path()]

	_, err := h.Check(e.next(), e.db, &testTx{msg: msg})
	assert.IsErr(t, cosign.ErrInvalidVoter, err)
	_, err = h.Deliver(e.next(), e.db, &testTx{msg: msg})
	assert.IsErr(t, cosign.ErrInvalidVoter, err)
}
