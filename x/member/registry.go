package member

import (
	treasury "github.com/iov-one/treasury"
	"github.com/iov-one/treasury/errors"
	"github.com/iov-one/treasury/orm"
	"github.com/iov-one/treasury/x/cosign"
)

// Registry keeps track of all issued badges.
type Registry struct {
	bucket orm.ModelBucket
}

var _ cosign.Registry = (*Registry)(nil)

// NewRegistry returns a registry using the "member" bucket. Badge IDs are
// generated by a sequence.
func NewRegistry() *Registry {
	return &Registry{
		bucket: orm.NewModelBucket("member", &Member{}),
	}
}

// Get returns the member with given badge ID. ErrNotFound is returned if
// no such badge was issued.
func (r *Registry) Get(db treasury.ReadOnlyKVStore, id []byte) (*Member, error) {
	var m Member
	if err := r.bucket.One(db, id, &m); err != nil {
		return nil, errors.Wrapf(err, "member %X", id)
	}
	return &m, nil
}

// IsEnabled implements cosign.Registry.
func (r *Registry) IsEnabled(db treasury.ReadOnlyKVStore, id []byte) (bool, error) {
	m, err := r.Get(db, id)
	switch {
	case errors.ErrNotFound.Is(err):
		return false, nil
	case err != nil:
		return false, err
	}
	return m.Enabled, nil
}

// Exists implements cosign.Registry.
func (r *Registry) Exists(db treasury.ReadOnlyKVStore, id []byte) (bool, error) {
	err := r.bucket.Has(db, id)
	switch {
	case errors.ErrNotFound.Is(err):
		return false, nil
	case err != nil:
		return false, err
	}
	return true, nil
}

// CountEnabled implements cosign.Registry.
func (r *Registry) CountEnabled(db treasury.ReadOnlyKVStore) (int, error) {
	var n int
	err := r.Each(db, func(id []byte, m *Member) error {
		if m.Enabled {
			n++
		}
		return nil
	})
	return n, err
}

// Each calls fn for every member ordered by badge ID.
func (r *Registry) Each(db treasury.ReadOnlyKVStore, fn func(id []byte, m *Member) error) error {
	return r.bucket.Each(db, func(key []byte, m orm.Model) error {
		return fn(key, m.(*Member))
	})
}

// Mint issues a new enabled badge for given account and returns its ID.
func (r *Registry) Mint(ctx treasury.Context, db treasury.KVStore, account treasury.Address) ([]byte, error) {
	m := &Member{
		Metadata:  &treasury.Metadata{Schema: 1},
		Account:   account,
		Enabled:   true,
		CreatedAt: treasury.UnixBlockTime(ctx),
	}
	id, err := r.bucket.Put(db, nil, m)
	if err != nil {
		return nil, errors.Wrap(err, "cannot save member")
	}
	treasury.GetLogger(ctx).Info("member minted", "badge", badgeHex(id), "account", account.String())
	return id, nil
}

// SetEnabled changes whether the member is allowed to vote. ErrState is
// returned if the member already is in the requested state.
func (r *Registry) SetEnabled(ctx treasury.Context, db treasury.KVStore, id []byte, enabled bool) error {
	m, err := r.Get(db, id)
	if err != nil {
		return err
	}
	if m.Enabled == enabled {
		return errors.Wrapf(errors.ErrState, "member %X enabled is already %v", id, enabled)
	}
	m.Enabled = enabled
	if err := r.Save(db, id, m); err != nil {
		return err
	}
	treasury.GetLogger(ctx).Info("member updated", "badge", badgeHex(id), "enabled", enabled)
	return nil
}

// Save stores the member under given badge ID.
func (r *Registry) Save(db treasury.KVStore, id []byte, m *Member) error {
	if len(id) == 0 {
		return errors.Wrap(errors.ErrEmpty, "badge id")
	}
	if _, err := r.bucket.Put(db, id, m); err != nil {
		return errors.Wrap(err, "cannot save member")
	}
	return nil
}
