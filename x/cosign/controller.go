package cosign

import (
	treasury "github.com/iov-one/treasury"
	"github.com/iov-one/treasury/errors"
)

// Controller collects votes on operations. It owns the ledger and the
// threshold configuration, voters are consulted through the registry.
//
// Calls must be serialized by the caller and every call must be executed
// within a savepoint, so that a failing call or a failing operation effect
// leaves no trace.
type Controller struct {
	registry Registry
	ledger   *Ledger
	policy   *Policy
}

// NewController returns a controller that consults given registry.
func NewController(r Registry) *Controller {
	return &Controller{
		registry: r,
		ledger:   NewLedger(),
		policy:   NewPolicy(r),
	}
}

// Policy returns the threshold policy used by this controller.
func (c *Controller) Policy() *Policy {
	return c.policy
}

// Ledger returns the ledger used by this controller.
func (c *Controller) Ledger() *Ledger {
	return c.ledger
}

// ProposeOrCosign casts a vote of given voter on the operation. True is
// returned if this vote completed the round. Only then the caller must
// apply the operation effect, within the same savepoint.
//
// The first vote opens the operation. Any following vote first drops the
// votes of members that were disabled since they voted.
func (c *Controller) ProposeOrCosign(ctx treasury.Context, db treasury.KVStore, op *Operation, voterID []byte) (bool, error) {
	if err := op.Validate(); err != nil {
		return false, errors.Wrap(err, "operation")
	}
	if err := c.checkVoter(db, voterID); err != nil {
		return false, err
	}
	log := treasury.GetLogger(ctx).With("operation", op.String())

	rec, err := c.ledger.Get(db, op)
	switch {
	case errors.ErrNotFound.Is(err):
		rec = &OperationRecord{
			Metadata:  &treasury.Metadata{Schema: 1},
			Operation: op,
			Cosigners: Cosigners{NewCosigner(ctx, voterID)},
		}
		if err := c.ledger.Save(db, rec); err != nil {
			return false, errors.Wrap(err, "save operation")
		}
		treasury.EmitEvent(ctx, &OperationOpened{Operation: op, Proposer: voterID})
		log.Info("operation opened", "proposer", voterHex(voterID))
		return false, nil
	case err != nil:
		return false, errors.Wrap(err, "ledger")
	}

	if err := c.purge(ctx, db, rec); err != nil {
		return false, err
	}
	cosigners, ok := rec.Cosigners.Insert(NewCosigner(ctx, voterID))
	if !ok {
		return false, errors.Wrapf(ErrDuplicateVote, "member %X", voterID)
	}
	rec.Cosigners = cosigners

	min, err := c.policy.MinCosigners(db)
	if err != nil {
		return false, err
	}
	if rec.Cosigners.Len() < int(min) {
		if err := c.ledger.Save(db, rec); err != nil {
			return false, errors.Wrap(err, "save operation")
		}
		log.Debug("vote cast", "voter", voterHex(voterID), "votes", rec.Cosigners.Len(), "required", min)
		return false, nil
	}

	treasury.EmitEvent(ctx, &OperationApproved{Operation: op, Cosigners: rec.Cosigners})
	log.Info("operation approved", "cosigners", rec.Cosigners.Len())
	rec.Cosigners = nil
	rec.Executions++
	if err := c.ledger.Save(db, rec); err != nil {
		return false, errors.Wrap(err, "save operation")
	}
	return true, nil
}

// WithdrawVote removes the vote of given voter from the current round of
// the operation. Votes of disabled members are not purged.
func (c *Controller) WithdrawVote(ctx treasury.Context, db treasury.KVStore, op *Operation, voterID []byte) error {
	rec, err := c.ledger.Get(db, op)
	switch {
	case errors.ErrNotFound.Is(err):
		return errors.Wrap(ErrOperationNotFound, op.String())
	case err != nil:
		return errors.Wrap(err, "ledger")
	}
	if rec.Cosigners.Len() == 0 {
		return errors.Wrapf(ErrOperationNotFound, "%s has no pending round", op)
	}
	cosigners, ok := rec.Cosigners.Remove(voterID)
	if !ok {
		return errors.Wrapf(ErrVoteNotFound, "member %X", voterID)
	}
	rec.Cosigners = cosigners
	if err := c.ledger.Save(db, rec); err != nil {
		return errors.Wrap(err, "save operation")
	}
	treasury.GetLogger(ctx).Info("vote withdrawn",
		"operation", op.String(), "voter", voterHex(voterID), "votes", rec.Cosigners.Len())
	return nil
}

// Cosigners returns the votes cast in the current round of the operation.
// Votes of disabled members are included. ErrOperationNotFound is returned
// if the operation was never proposed.
func (c *Controller) Cosigners(db treasury.ReadOnlyKVStore, op *Operation) (Cosigners, error) {
	rec, err := c.ledger.Get(db, op)
	switch {
	case errors.ErrNotFound.Is(err):
		return nil, errors.Wrap(ErrOperationNotFound, op.String())
	case err != nil:
		return nil, errors.Wrap(err, "ledger")
	}
	return rec.Cosigners, nil
}

func (c *Controller) checkVoter(db treasury.ReadOnlyKVStore, voterID []byte) error {
	if len(voterID) == 0 {
		return errors.Wrap(ErrInvalidVoter, "missing voter")
	}
	ok, err := c.registry.IsEnabled(db, voterID)
	if err != nil {
		return errors.Wrap(err, "registry")
	}
	if !ok {
		return errors.Wrapf(ErrInvalidVoter, "member %X is not enabled", voterID)
	}
	return nil
}

// purge drops votes of members that are no longer enabled.
func (c *Controller) purge(ctx treasury.Context, db treasury.ReadOnlyKVStore, rec *OperationRecord) error {
	kept, err := rec.Cosigners.Retain(func(cs *Cosigner) (bool, error) {
		return cs.IsEnabled(db, c.registry)
	})
	if err != nil {
		return errors.Wrap(err, "purge")
	}
	if dropped := rec.Cosigners.Len() - kept.Len(); dropped > 0 {
		treasury.GetLogger(ctx).Debug("purged disabled cosigners",
			"operation", rec.Operation.String(), "dropped", dropped)
	}
	rec.Cosigners = kept
	return nil
}
