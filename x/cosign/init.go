package cosign

import (
	treasury "github.com/iov-one/treasury"
	"github.com/iov-one/treasury/errors"
	"github.com/iov-one/treasury/gconf"
)

// Initializer stores the threshold configuration from genesis. Members
// must be loaded before, as the threshold cannot exceed the number of
// enabled members.
type Initializer struct {
	Registry Registry
}

var _ treasury.Initializer = (*Initializer)(nil)

// FromGenesis reads the "conf.cosign" section.
func (i *Initializer) FromGenesis(ctx treasury.Context, opts treasury.Options, db treasury.KVStore) error {
	var conf Configuration
	if err := gconf.InitConfig(db, opts, configurationPackage, &conf); err != nil {
		return errors.Wrap(err, "init config")
	}
	enabled, err := i.Registry.CountEnabled(db)
	if err != nil {
		return errors.Wrap(err, "count enabled")
	}
	if int(conf.MinCosigners) > enabled {
		return errors.Wrapf(ErrPolicyViolation,
			"threshold %d is greater than the number of members %d", conf.MinCosigners, enabled)
	}
	treasury.GetLogger(ctx).Info("cosign configured", "min_cosigners", conf.MinCosigners)
	return nil
}
