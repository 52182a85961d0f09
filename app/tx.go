package app

import (
	"encoding/json"
	"reflect"

	treasury "github.com/iov-one/treasury"
	"github.com/iov-one/treasury/errors"
	"github.com/iov-one/treasury/x/member"
	xtreasury "github.com/iov-one/treasury/x/treasury"
	amino "github.com/tendermint/go-amino"
)

// TxCodec encodes transactions in their binary form.
var TxCodec = MakeCodec()

// MakeCodec returns a codec with all messages registered.
func MakeCodec() *amino.Codec {
	cdc := amino.NewCodec()
	cdc.RegisterInterface((*treasury.Msg)(nil), nil)
	xtreasury.RegisterCodec(cdc)
	cdc.Seal()
	return cdc
}

// Tx is a message signed by a member.
type Tx struct {
	Msg        treasury.Msg       `json:"msg"`
	Credential *member.Credential `json:"credential"`
}

var _ member.SignedTx = (*Tx)(nil)

// GetMsg implements treasury.Tx.
func (tx *Tx) GetMsg() (treasury.Msg, error) {
	if tx.Msg == nil {
		return nil, errors.Wrap(errors.ErrEmpty, "message")
	}
	return tx.Msg, nil
}

// GetCredential implements member.SignedTx.
func (tx *Tx) GetCredential() *member.Credential {
	return tx.Credential
}

// GetSignBytes returns the binary form of the transaction without the
// credential.
func (tx *Tx) GetSignBytes() ([]byte, error) {
	raw, err := TxCodec.MarshalBinaryBare(Tx{Msg: tx.Msg})
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return raw, nil
}

// EncodeTx returns the binary representation of the transaction.
func EncodeTx(tx *Tx) ([]byte, error) {
	raw, err := TxCodec.MarshalBinaryBare(*tx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return raw, nil
}

// DecodeTx parses a binary transaction.
func DecodeTx(raw []byte) (*Tx, error) {
	if len(raw) == 0 {
		return nil, errors.Wrap(errors.ErrEmpty, "transaction")
	}
	var tx Tx
	if err := TxCodec.UnmarshalBinaryBare(raw, &tx); err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return &tx, nil
}

// jsonTx is the human editable form of a transaction. The message type is
// selected by its path.
type jsonTx struct {
	Path       string             `json:"path"`
	Msg        json.RawMessage    `json:"msg"`
	Credential *member.Credential `json:"credential,omitempty"`
}

var msgTypes = func() map[string]reflect.Type {
	types := make(map[string]reflect.Type)
	for _, msg := range xtreasury.Messages() {
		types[msg.Path()] = reflect.TypeOf(msg).Elem()
	}
	return types
}()

// MarshalJSON implements json.Marshaler.
func (tx Tx) MarshalJSON() ([]byte, error) {
	if tx.Msg == nil {
		return nil, errors.Wrap(errors.ErrEmpty, "message")
	}
	msg, err := json.Marshal(tx.Msg)
	if err != nil {
		return nil, err
	}
	return json.Marshal(jsonTx{
		Path:       tx.Msg.Path(),
		Msg:        msg,
		Credential: tx.Credential,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (tx *Tx) UnmarshalJSON(raw []byte) error {
	var j jsonTx
	if err := json.Unmarshal(raw, &j); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	typ, ok := msgTypes[j.Path]
	if !ok {
		return errors.Wrapf(errors.ErrType, "unknown message path %q", j.Path)
	}
	msg := reflect.New(typ).Interface().(treasury.Msg)
	if err := json.Unmarshal(j.Msg, msg); err != nil {
		return errors.Wrapf(errors.ErrInput, "message: %s", err)
	}
	tx.Msg = msg
	tx.Credential = j.Credential
	return nil
}
