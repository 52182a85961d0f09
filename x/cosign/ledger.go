package cosign

import (
	"bytes"

	treasury "github.com/iov-one/treasury"
	"github.com/iov-one/treasury/errors"
	"github.com/iov-one/treasury/orm"
)

// OperationRecord is the vote set of an operation. Records are never
// deleted. Executions counts the rounds that reached the threshold.
type OperationRecord struct {
	Metadata   *treasury.Metadata `json:"metadata"`
	Operation  *Operation         `json:"operation"`
	Cosigners  Cosigners          `json:"cosigners"`
	Executions uint32             `json:"executions"`
}

var _ orm.Model = (*OperationRecord)(nil)

// Marshal implements treasury.Persistent.
func (r *OperationRecord) Marshal() ([]byte, error) {
	return treasury.MarshalModel(r)
}

// Unmarshal implements treasury.Persistent.
func (r *OperationRecord) Unmarshal(raw []byte) error {
	return treasury.UnmarshalModel(raw, r)
}

// Validate implements orm.Model.
func (r *OperationRecord) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", r.Metadata.Validate())
	errs = errors.AppendField(errs, "Operation", r.Operation.Validate())
	errs = errors.AppendField(errs, "Cosigners", r.Cosigners.Validate())
	return errs
}

// Ledger stores vote sets of all operations ever proposed, indexed by the
// operation key.
type Ledger struct {
	bucket orm.ModelBucket
}

// NewLedger returns a ledger using the "cosignop" bucket.
func NewLedger() *Ledger {
	return &Ledger{
		bucket: orm.NewModelBucket("cosignop", &OperationRecord{}),
	}
}

// Get returns the record of given operation. ErrNotFound is returned if the
// operation was never proposed.
func (l *Ledger) Get(db treasury.ReadOnlyKVStore, op *Operation) (*OperationRecord, error) {
	var rec OperationRecord
	if err := l.bucket.One(db, op.Key(), &rec); err != nil {
		return nil, err
	}
	if !bytes.Equal(rec.Operation.canonical(), op.canonical()) {
		return nil, errors.Wrapf(errors.ErrState, "key collision with %s", rec.Operation)
	}
	return &rec, nil
}

// Save stores the record under its operation key.
func (l *Ledger) Save(db treasury.KVStore, rec *OperationRecord) error {
	if rec.Operation == nil {
		return errors.Wrap(errors.ErrEmpty, "operation")
	}
	_, err := l.bucket.Put(db, rec.Operation.Key(), rec)
	return err
}

// Each calls fn for every stored record, ordered by operation key.
func (l *Ledger) Each(db treasury.ReadOnlyKVStore, fn func(*OperationRecord) error) error {
	return l.bucket.Each(db, func(key []byte, m orm.Model) error {
		return fn(m.(*OperationRecord))
	})
}
