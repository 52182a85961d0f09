package treasury

import (
	"reflect"

	treasury "github.com/iov-one/treasury"
	amino "github.com/tendermint/go-amino"
)

// Messages returns an empty instance of every message handled by this
// package.
func Messages() []treasury.Msg {
	return []treasury.Msg{
		&MintMemberMsg{},
		&DisableMemberMsg{},
		&EnableMemberMsg{},
		&IncreaseMinCosignersMsg{},
		&DecreaseMinCosignersMsg{},
		&SendFungiblesMsg{},
		&SendNonFungiblesMsg{},
		&TransferAccountBadgeMsg{},
		&StakeMsg{},
		&UnstakeMsg{},
		&ClaimUnstakedMsg{},
		&RemoveSignatureMsg{},
	}
}

// RegisterCodec registers all messages of this package as
// "treasury/<TypeName>". The treasury.Msg interface must be registered by
// the caller.
func RegisterCodec(cdc *amino.Codec) {
	for _, msg := range Messages() {
		name := reflect.TypeOf(msg).Elem().Name()
		cdc.RegisterConcrete(msg, "treasury/"+name, nil)
	}
}
