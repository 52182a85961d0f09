package cosign

import (
	"bytes"
	"fmt"

	treasury "github.com/iov-one/treasury"
	"github.com/iov-one/treasury/errors"
)

// Registry is the source of truth about voters. It is only read by this
// package.
type Registry interface {
	// IsEnabled returns true if a voter with given ID exists and is
	// allowed to vote.
	IsEnabled(db treasury.ReadOnlyKVStore, voterID []byte) (bool, error)
	// Exists returns true if a voter with given ID was ever issued.
	Exists(db treasury.ReadOnlyKVStore, voterID []byte) (bool, error)
	// CountEnabled returns the number of voters allowed to vote.
	CountEnabled(db treasury.ReadOnlyKVStore) (int, error)
}

// Cosigner is a single vote of a member. The nonce is the ID of the
// transaction that cast the vote. Two cosigners are equal if they were
// cast by the same voter.
type Cosigner struct {
	VoterID []byte `json:"voter_id"`
	Nonce   []byte `json:"nonce"`
}

// NewCosigner returns a vote of given voter cast by the transaction being
// processed.
func NewCosigner(ctx treasury.Context, voterID []byte) *Cosigner {
	return &Cosigner{
		VoterID: voterID,
		Nonce:   treasury.GetTxID(ctx),
	}
}

// Validate returns an error if the cosigner has no voter.
func (c *Cosigner) Validate() error {
	if c == nil || len(c.VoterID) == 0 {
		return errors.Wrap(errors.ErrEmpty, "voter id")
	}
	return nil
}

// Equals returns true if both votes were cast by the same voter.
func (c *Cosigner) Equals(o *Cosigner) bool {
	if c == nil || o == nil {
		return c == o
	}
	return bytes.Equal(c.VoterID, o.VoterID)
}

// IsEnabled returns true if the voter is still allowed to vote.
func (c *Cosigner) IsEnabled(db treasury.ReadOnlyKVStore, r Registry) (bool, error) {
	return r.IsEnabled(db, c.VoterID)
}

func (c *Cosigner) String() string {
	return fmt.Sprintf("%X", c.VoterID)
}

// Cosigners is a set of votes ordered by the time they were cast. A voter
// can be present only once.
type Cosigners []*Cosigner

// Len returns the number of votes.
func (cs Cosigners) Len() int {
	return len(cs)
}

// Has returns true if the voter cast a vote.
func (cs Cosigners) Has(voterID []byte) bool {
	return cs.index(voterID) >= 0
}

func (cs Cosigners) index(voterID []byte) int {
	for i, c := range cs {
		if bytes.Equal(c.VoterID, voterID) {
			return i
		}
	}
	return -1
}

// Insert appends a vote. False is returned and the set is not modified if
// the voter already voted.
func (cs Cosigners) Insert(c *Cosigner) (Cosigners, bool) {
	if cs.Has(c.VoterID) {
		return cs, false
	}
	return append(cs, c), true
}

// Remove deletes the vote of given voter, keeping the order of remaining
// votes. False is returned if the voter did not vote.
func (cs Cosigners) Remove(voterID []byte) (Cosigners, bool) {
	i := cs.index(voterID)
	if i < 0 {
		return cs, false
	}
	res := make(Cosigners, 0, len(cs)-1)
	res = append(res, cs[:i]...)
	return append(res, cs[i+1:]...), true
}

// Retain returns a set with only those votes that keep returns true for.
func (cs Cosigners) Retain(keep func(*Cosigner) (bool, error)) (Cosigners, error) {
	res := make(Cosigners, 0, len(cs))
	for _, c := range cs {
		ok, err := keep(c)
		if err != nil {
			return nil, err
		}
		if ok {
			res = append(res, c)
		}
	}
	return res, nil
}

// VoterIDs returns IDs of all voters in the order they voted.
func (cs Cosigners) VoterIDs() [][]byte {
	ids := make([][]byte, len(cs))
	for i, c := range cs {
		ids[i] = c.VoterID
	}
	return ids
}

// Validate returns an error if any vote is invalid or a voter is present
// more than once.
func (cs Cosigners) Validate() error {
	var errs error
	seen := make(map[string]struct{}, len(cs))
	for i, c := range cs {
		if err := c.Validate(); err != nil {
			errs = errors.AppendField(errs, fmt.Sprintf("Cosigners.%d", i), err)
			continue
		}
		if _, ok := seen[string(c.VoterID)]; ok {
			errs = errors.AppendField(errs, fmt.Sprintf("Cosigners.%d", i), ErrDuplicateVote)
		}
		seen[string(c.VoterID)] = struct{}{}
	}
	return errs
}
