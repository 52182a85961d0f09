package member

import (
	treasury "github.com/iov-one/treasury"
	"github.com/iov-one/treasury/errors"
	"github.com/iov-one/treasury/orm"
)

// maxSequenceValue is the greatest sequence a client can represent
// without losing precision (2^53 - 1).
const maxSequenceValue = 9007199254740991

// Member is the badge of a single voter.
type Member struct {
	Metadata *treasury.Metadata `json:"metadata"`
	// Account is the address of the condition allowed to use this badge.
	Account treasury.Address `json:"account"`
	// Enabled members are allowed to vote.
	Enabled bool `json:"enabled"`
	// Sequence is the expected sequence of the next authenticated
	// transaction.
	Sequence  int64             `json:"sequence"`
	CreatedAt treasury.UnixTime `json:"created_at"`
}

var _ orm.Model = (*Member)(nil)

// Marshal implements treasury.Persistent.
func (m *Member) Marshal() ([]byte, error) {
	return treasury.MarshalModel(m)
}

// Unmarshal implements treasury.Persistent.
func (m *Member) Unmarshal(raw []byte) error {
	return treasury.UnmarshalModel(raw, m)
}

// Validate implements orm.Model.
func (m *Member) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "Account", m.Account.Validate())
	if m.Sequence < 0 || m.Sequence > maxSequenceValue {
		errs = errors.AppendField(errs, "Sequence", ErrInvalidSequence)
	}
	return errs
}

// CheckAndIncrementSequence increments the sequence if it is equal to
// the expected value. An error is returned otherwise.
func (m *Member) CheckAndIncrementSequence(expected int64) error {
	if m.Sequence != expected {
		return errors.Wrapf(ErrInvalidSequence, "mismatch expected %d, got %d", expected, m.Sequence)
	}
	if m.Sequence >= maxSequenceValue {
		return errors.Wrap(ErrInvalidSequence, "sequence overflow")
	}
	m.Sequence++
	return nil
}
