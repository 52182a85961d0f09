package cosign

import "github.com/iov-one/treasury/errors"

var (
	ErrInvalidVoter      = errors.Register(1000, "invalid voter")
	ErrDuplicateVote     = errors.Register(1001, "duplicate vote")
	ErrOperationNotFound = errors.Register(1002, "operation not found")
	ErrVoteNotFound      = errors.Register(1003, "vote not found")
	ErrPolicyViolation   = errors.Register(1004, "policy violation")
	ErrEffectFailure     = errors.Register(1005, "effect failure")
)
