package cosign

import (
	treasury "github.com/iov-one/treasury"
	"github.com/iov-one/treasury/errors"
	"github.com/iov-one/treasury/gconf"
)

const (
	configurationPackage = "cosign"

	// LowestMinCosigners is the smallest accepted threshold. A single
	// member must never be able to execute an operation alone.
	LowestMinCosigners = 2
)

// Configuration holds the threshold of approvals required to execute an
// operation.
type Configuration struct {
	Metadata     *treasury.Metadata `json:"metadata"`
	MinCosigners uint32             `json:"min_cosigners"`
}

var _ gconf.Configuration = (*Configuration)(nil)

// Marshal implements gconf.Configuration.
func (c *Configuration) Marshal() ([]byte, error) {
	return treasury.MarshalModel(c)
}

// Unmarshal implements gconf.Configuration.
func (c *Configuration) Unmarshal(raw []byte) error {
	return treasury.UnmarshalModel(raw, c)
}

// Validate implements gconf.Configuration.
func (c *Configuration) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", c.Metadata.Validate())
	if c.MinCosigners < LowestMinCosigners {
		errs = errors.AppendField(errs, "MinCosigners",
			errors.Wrapf(errors.ErrInput, "must be at least %d", LowestMinCosigners))
	}
	return errs
}

// LoadConfiguration returns the current threshold configuration.
func LoadConfiguration(db treasury.ReadOnlyKVStore) (*Configuration, error) {
	var conf Configuration
	if err := gconf.Load(db, configurationPackage, &conf); err != nil {
		return nil, errors.Wrap(err, "load configuration")
	}
	return &conf, nil
}

// SaveConfiguration validates and stores the threshold configuration.
func SaveConfiguration(db treasury.KVStore, conf *Configuration) error {
	return gconf.Save(db, configurationPackage, conf)
}

// Policy guards and applies changes of the threshold and of the voter set.
// Checks are meant to be run when an operation is submitted, the
// execution itself only protects the lowest threshold.
type Policy struct {
	registry Registry
}

// NewPolicy returns a policy consulting given registry.
func NewPolicy(r Registry) *Policy {
	return &Policy{registry: r}
}

// MinCosigners returns the number of votes required to execute an
// operation.
func (p *Policy) MinCosigners(db treasury.ReadOnlyKVStore) (uint32, error) {
	conf, err := LoadConfiguration(db)
	if err != nil {
		return 0, err
	}
	return conf.MinCosigners, nil
}

// CheckIncrease returns ErrPolicyViolation unless there are more enabled
// voters than the current threshold.
func (p *Policy) CheckIncrease(db treasury.ReadOnlyKVStore) error {
	min, enabled, err := p.state(db)
	if err != nil {
		return err
	}
	if enabled <= int(min) {
		return errors.Wrapf(ErrPolicyViolation,
			"%d enabled members cannot satisfy threshold %d", enabled, min+1)
	}
	return nil
}

// CheckDecrease returns ErrPolicyViolation if the threshold would drop
// below the lowest accepted value.
func (p *Policy) CheckDecrease(db treasury.ReadOnlyKVStore) error {
	min, err := p.MinCosigners(db)
	if err != nil {
		return err
	}
	if min <= LowestMinCosigners {
		return errors.Wrapf(ErrPolicyViolation, "threshold cannot be lower than %d", LowestMinCosigners)
	}
	return nil
}

// CheckDisable returns ErrPolicyViolation unless the voter is enabled and
// the remaining enabled voters can still satisfy the threshold.
func (p *Policy) CheckDisable(db treasury.ReadOnlyKVStore, voterID []byte) error {
	ok, err := p.registry.IsEnabled(db, voterID)
	if err != nil {
		return err
	}
	if !ok {
		return errors.Wrapf(ErrPolicyViolation, "member %X is not enabled", voterID)
	}
	min, enabled, err := p.state(db)
	if err != nil {
		return err
	}
	if enabled <= int(min) {
		return errors.Wrapf(ErrPolicyViolation,
			"%d enabled members would not satisfy threshold %d", enabled-1, min)
	}
	return nil
}

// CheckEnable returns ErrPolicyViolation unless the voter exists and is
// disabled.
func (p *Policy) CheckEnable(db treasury.ReadOnlyKVStore, voterID []byte) error {
	exists, err := p.registry.Exists(db, voterID)
	if err != nil {
		return err
	}
	if !exists {
		return errors.Wrapf(ErrPolicyViolation, "member %X does not exist", voterID)
	}
	ok, err := p.registry.IsEnabled(db, voterID)
	if err != nil {
		return err
	}
	if ok {
		return errors.Wrapf(ErrPolicyViolation, "member %X is already enabled", voterID)
	}
	return nil
}

// IncreaseMinCosigners raises the threshold by one.
func (p *Policy) IncreaseMinCosigners(db treasury.KVStore) (uint32, error) {
	conf, err := LoadConfiguration(db)
	if err != nil {
		return 0, err
	}
	conf.MinCosigners++
	if err := SaveConfiguration(db, conf); err != nil {
		return 0, err
	}
	return conf.MinCosigners, nil
}

// DecreaseMinCosigners lowers the threshold by one. It fails with
// ErrPolicyViolation if the lowest threshold is already set.
func (p *Policy) DecreaseMinCosigners(db treasury.KVStore) (uint32, error) {
	conf, err := LoadConfiguration(db)
	if err != nil {
		return 0, err
	}
	if conf.MinCosigners <= LowestMinCosigners {
		return 0, errors.Wrapf(ErrPolicyViolation, "threshold cannot be lower than %d", LowestMinCosigners)
	}
	conf.MinCosigners--
	if err := SaveConfiguration(db, conf); err != nil {
		return 0, err
	}
	return conf.MinCosigners, nil
}

func (p *Policy) state(db treasury.ReadOnlyKVStore) (uint32, int, error) {
	min, err := p.MinCosigners(db)
	if err != nil {
		return 0, 0, err
	}
	enabled, err := p.registry.CountEnabled(db)
	if err != nil {
		return 0, 0, errors.Wrap(err, "count enabled")
	}
	return min, enabled, nil
}
