package member

import (
	"crypto/sha512"
	"encoding/binary"

	treasury "github.com/iov-one/treasury"
	"github.com/iov-one/treasury/errors"
	"github.com/iov-one/treasury/x/cosign"
	"golang.org/x/crypto/ed25519"
)

// SignCodeV1 is the current way to prefix the bytes we use to build
// a signature
var SignCodeV1 = []byte{0, 0xCA, 0xFE, 0}

// Credential proves that the transaction was sent by the holder of a
// badge.
type Credential struct {
	Badge     []byte `json:"badge"`
	PubKey    []byte `json:"pubkey"`
	Sequence  int64  `json:"sequence"`
	Signature []byte `json:"signature"`
}

// Validate ensures the credential meets basic standards.
func (c *Credential) Validate() error {
	if c == nil {
		return errors.Wrap(ErrMissingBadge, "missing credential")
	}
	var errs error
	if len(c.Badge) == 0 {
		errs = errors.AppendField(errs, "Badge", ErrMissingBadge)
	}
	if len(c.PubKey) != ed25519.PublicKeySize {
		errs = errors.AppendField(errs, "PubKey", errors.Wrap(errors.ErrUnauthorized, "invalid public key"))
	}
	if c.Sequence < 0 {
		errs = errors.AppendField(errs, "Sequence", errors.Wrap(ErrInvalidSequence, "negative"))
	}
	if len(c.Signature) != ed25519.SignatureSize {
		errs = errors.AppendField(errs, "Signature", errors.Wrap(errors.ErrUnauthorized, "invalid signature"))
	}
	return errs
}

// Condition returns the signature condition of the credential key.
func (c *Credential) Condition() treasury.Condition {
	return treasury.NewCondition("sigs", "ed25519", c.PubKey)
}

// SignedTx represents a transaction that is authenticated by a member
// credential.
type SignedTx interface {
	// GetSignBytes returns the canonical byte representation of the Msg.
	GetSignBytes() ([]byte, error)

	// GetCredential returns the credential of the sender or nil.
	GetCredential() *Credential
}

/*
BuildSignBytes combines all info on the actual tx before signing

We use the following format:

version | len(chainID) | chainID      | len(badge) | badge | nonce             | signBytes
4bytes  | uint8        | ascii string | uint8      | bytes | int64 (bigendian) | serialized transaction

This is then prehashed with sha512 before fed into
the public key signing/verification step
*/
func BuildSignBytes(signBytes []byte, chainID string, badge []byte, seq int64) ([]byte, error) {
	if seq < 0 {
		return nil, errors.Wrap(ErrInvalidSequence, "negative")
	}
	if !treasury.IsValidChainID(chainID) {
		return nil, errors.Wrapf(errors.ErrInput, "chain id: %v", chainID)
	}
	if len(badge) == 0 || len(badge) > 255 {
		return nil, errors.Wrap(ErrMissingBadge, "invalid badge length")
	}

	nonce := make([]byte, 8)
	binary.BigEndian.PutUint64(nonce, uint64(seq))

	output := make([]byte, 0, 4+1+len(chainID)+1+len(badge)+8+len(signBytes))
	output = append(output, SignCodeV1...)
	output = append(output, uint8(len(chainID)))
	output = append(output, chainID...)
	output = append(output, uint8(len(badge)))
	output = append(output, badge...)
	output = append(output, nonce...)
	output = append(output, signBytes...)

	hashed := sha512.Sum512(output)
	return hashed[:], nil
}

// Sign returns a credential for the transaction, signed with given key.
func Sign(key ed25519.PrivateKey, tx SignedTx, chainID string, badge []byte, seq int64) (*Credential, error) {
	bz, err := tx.GetSignBytes()
	if err != nil {
		return nil, err
	}
	toSign, err := BuildSignBytes(bz, chainID, badge, seq)
	if err != nil {
		return nil, err
	}
	return &Credential{
		Badge:     badge,
		PubKey:    key.Public().(ed25519.PublicKey),
		Sequence:  seq,
		Signature: ed25519.Sign(key, toSign),
	}, nil
}

// Authenticator is a decorator that verifies the member credential of a
// transaction and sets the voter in the context.
type Authenticator struct {
	registry *Registry
}

var _ treasury.Decorator = Authenticator{}

// NewAuthenticator returns a decorator that requires every transaction to
// be sent by an enabled member.
func NewAuthenticator(r *Registry) Authenticator {
	return Authenticator{registry: r}
}

// Check verifies the credential before calling down the stack.
func (a Authenticator) Check(ctx treasury.Context, db treasury.KVStore, tx treasury.Tx, next treasury.Checker) (*treasury.CheckResult, error) {
	ctx, err := a.authenticate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	return next.Check(ctx, db, tx)
}

// Deliver verifies the credential before calling down the stack.
func (a Authenticator) Deliver(ctx treasury.Context, db treasury.KVStore, tx treasury.Tx, next treasury.Deliverer) (*treasury.DeliverResult, error) {
	ctx, err := a.authenticate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	return next.Deliver(ctx, db, tx)
}

func (a Authenticator) authenticate(ctx treasury.Context, db treasury.KVStore, tx treasury.Tx) (treasury.Context, error) {
	stx, ok := tx.(SignedTx)
	if !ok {
		return nil, errors.Wrapf(errors.ErrUnauthorized, "%T is not signed", tx)
	}
	id, err := a.Verify(ctx, db, stx)
	if err != nil {
		return nil, errors.Wrap(err, "cannot authenticate")
	}
	return withVoter(ctx, id), nil
}

// Verify checks the transaction credential and increments the member
// sequence. The badge ID is returned.
func (a Authenticator) Verify(ctx treasury.Context, db treasury.KVStore, tx SignedTx) ([]byte, error) {
	cred := tx.GetCredential()
	if err := cred.Validate(); err != nil {
		return nil, err
	}
	m, err := a.registry.Get(db, cred.Badge)
	if err != nil {
		if errors.ErrNotFound.Is(err) {
			return nil, errors.Wrapf(cosign.ErrInvalidVoter, "unknown badge %X", cred.Badge)
		}
		return nil, err
	}
	if !m.Account.Equals(cred.Condition().Address()) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "key does not hold the badge")
	}
	if !m.Enabled {
		return nil, errors.Wrapf(cosign.ErrInvalidVoter, "member %X is disabled", cred.Badge)
	}

	bz, err := tx.GetSignBytes()
	if err != nil {
		return nil, err
	}
	toSign, err := BuildSignBytes(bz, treasury.GetChainID(ctx), cred.Badge, cred.Sequence)
	if err != nil {
		return nil, err
	}
	if !ed25519.Verify(ed25519.PublicKey(cred.PubKey), toSign, cred.Signature) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "invalid signature")
	}
	if err := m.CheckAndIncrementSequence(cred.Sequence); err != nil {
		return nil, err
	}
	if err := a.registry.Save(db, cred.Badge, m); err != nil {
		return nil, err
	}
	return cred.Badge, nil
}
