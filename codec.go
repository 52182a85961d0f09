package treasury

import (
	"github.com/iov-one/treasury/errors"
	amino "github.com/tendermint/go-amino"
)

// modelCodec serializes plain models. Models never hold interface values,
// so no type registration is needed.
var modelCodec = amino.NewCodec()

// MarshalModel returns the binary representation of a model.
func MarshalModel(m interface{}) ([]byte, error) {
	raw, err := modelCodec.MarshalBinaryBare(m)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrModel, "marshal %T: %s", m, err)
	}
	return raw, nil
}

// UnmarshalModel loads the binary representation into the model pointer.
func UnmarshalModel(raw []byte, ptr interface{}) error {
	if err := modelCodec.UnmarshalBinaryBare(raw, ptr); err != nil {
		return errors.Wrapf(errors.ErrModel, "unmarshal %T: %s", ptr, err)
	}
	return nil
}
