package treasury

import (
	"fmt"

	treasury "github.com/iov-one/treasury"
	"github.com/iov-one/treasury/errors"
	"github.com/iov-one/treasury/x/cosign"
	"github.com/iov-one/treasury/x/member"
)

// RegisterRoutes will instantiate and register all handlers in this
// package.
func RegisterRoutes(r treasury.Registry, ctrl *cosign.Controller, d *Dispatcher) {
	h := OperationHandler{ctrl: ctrl, dispatcher: d}
	for _, msg := range []OperationMsg{
		&MintMemberMsg{},
		&DisableMemberMsg{},
		&EnableMemberMsg{},
		&IncreaseMinCosignersMsg{},
		&DecreaseMinCosignersMsg{},
		&SendFungiblesMsg{},
		&SendNonFungiblesMsg{},
		&TransferAccountBadgeMsg{},
		&StakeMsg{},
		&UnstakeMsg{},
		&ClaimUnstakedMsg{},
	} {
		r.Handle(msg.Path(), h)
	}
	r.Handle(pathRemoveSignatureMsg, RemoveSignatureHandler{ctrl: ctrl})
}

// OperationHandler casts the sender vote on the operation described by the
// message and applies the effect when the round is approved.
type OperationHandler struct {
	ctrl       *cosign.Controller
	dispatcher *Dispatcher
}

var _ treasury.Handler = OperationHandler{}

// Check validates the message and that the operation can be executed
// without casting a vote.
func (h OperationHandler) Check(ctx treasury.Context, db treasury.KVStore, tx treasury.Tx) (*treasury.CheckResult, error) {
	op, _, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	return &treasury.CheckResult{Log: op.String()}, nil
}

// Deliver casts the vote. If the vote completes the round the operation
// effect is applied. An effect failure fails the whole call.
func (h OperationHandler) Deliver(ctx treasury.Context, db treasury.KVStore, tx treasury.Tx) (*treasury.DeliverResult, error) {
	op, voter, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	executed, err := h.ctrl.ProposeOrCosign(ctx, db, op, voter)
	if err != nil {
		return nil, err
	}
	if !executed {
		return &treasury.DeliverResult{Log: "vote accepted"}, nil
	}
	data, err := h.dispatcher.Execute(ctx, db, op)
	if err != nil {
		return nil, errors.Wrapf(cosign.ErrEffectFailure, "%s: %s", op.Type, err)
	}
	return &treasury.DeliverResult{
		Data:     data,
		Log:      fmt.Sprintf("%s executed", op.Type),
		Executed: true,
	}, nil
}

func (h OperationHandler) validate(ctx treasury.Context, db treasury.KVStore, tx treasury.Tx) (*cosign.Operation, []byte, error) {
	voter := member.GetVoter(ctx)
	if voter == nil {
		return nil, nil, errors.Wrap(cosign.ErrInvalidVoter, "no authenticated member")
	}
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, nil, errors.Wrap(err, "cannot get message")
	}
	opMsg, ok := msg.(OperationMsg)
	if !ok {
		return nil, nil, errors.WithType(errors.ErrMsg, msg)
	}
	if err := opMsg.Validate(); err != nil {
		return nil, nil, err
	}
	op := opMsg.Operation()
	if err := h.dispatcher.CheckAvailability(ctx, db, op); err != nil {
		return nil, nil, errors.Wrap(err, "operation not available")
	}
	return op, voter, nil
}

// RemoveSignatureHandler withdraws the sender vote from an operation.
type RemoveSignatureHandler struct {
	ctrl *cosign.Controller
}

var _ treasury.Handler = RemoveSignatureHandler{}

// Check validates the message and that the sender has a vote to
// withdraw.
func (h RemoveSignatureHandler) Check(ctx treasury.Context, db treasury.KVStore, tx treasury.Tx) (*treasury.CheckResult, error) {
	op, voter, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	cs, err := h.ctrl.Cosigners(db, op)
	if err != nil {
		return nil, err
	}
	if cs.Len() == 0 {
		return nil, errors.Wrapf(cosign.ErrOperationNotFound, "%s has no pending round", op)
	}
	if !cs.Has(voter) {
		return nil, errors.Wrapf(cosign.ErrVoteNotFound, "member %X", voter)
	}
	return &treasury.CheckResult{}, nil
}

// Deliver withdraws the vote.
func (h RemoveSignatureHandler) Deliver(ctx treasury.Context, db treasury.KVStore, tx treasury.Tx) (*treasury.DeliverResult, error) {
	op, voter, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.WithdrawVote(ctx, db, op, voter); err != nil {
		return nil, err
	}
	return &treasury.DeliverResult{Log: "vote withdrawn"}, nil
}

func (h RemoveSignatureHandler) validate(ctx treasury.Context, tx treasury.Tx) (*cosign.Operation, []byte, error) {
	voter := member.GetVoter(ctx)
	if voter == nil {
		return nil, nil, errors.Wrap(cosign.ErrInvalidVoter, "no authenticated member")
	}
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, nil, errors.Wrap(err, "cannot get message")
	}
	rmsg, ok := msg.(*RemoveSignatureMsg)
	if !ok {
		return nil, nil, errors.WithType(errors.ErrMsg, msg)
	}
	if err := rmsg.Validate(); err != nil {
		return nil, nil, err
	}
	return rmsg.Target(), voter, nil
}
