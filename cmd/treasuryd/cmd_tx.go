package main

import (
	"flag"
	"fmt"
	"io"
	"sort"
	"strings"

	treasury "github.com/iov-one/treasury"
	"github.com/iov-one/treasury/app"
	"github.com/iov-one/treasury/coin"
	xtreasury "github.com/iov-one/treasury/x/treasury"
)

// operationFlags are the flags describing an operation. Only the flags
// used by the selected operation type may be set.
type operationFlags struct {
	typ         *string
	description *string
	amount      *coin.Coin
	recipient   *treasury.Address
	resource    *string
	targets     *hexList
	component   *treasury.Address
	validator   *treasury.Address
}

func registerOperationFlags(fl *flag.FlagSet) *operationFlags {
	return &operationFlags{
		typ:         fl.String("type", "", "Operation type, one of: "+strings.Join(operationTypes(), ", ")),
		description: fl.String("description", "", "Operation description. Operations with different descriptions are voted on separately."),
		amount:      flCoin(fl, "amount", `Amount, for example "10 IOV".`),
		recipient:   flAddress(fl, "recipient", "Recipient address."),
		resource:    fl.String("resource", "", "Non fungible token resource name."),
		targets:     flHexList(fl, "targets", "Comma separated hex list of member badges, token IDs or claim IDs."),
		component:   flAddress(fl, "component", "Component receiving the account badge."),
		validator:   flAddress(fl, "validator", "Validator address."),
	}
}

var operationBuilders = map[string]func(f *operationFlags, meta *treasury.Metadata) (xtreasury.OperationMsg, error){
	"mint_member": func(f *operationFlags, meta *treasury.Metadata) (xtreasury.OperationMsg, error) {
		return &xtreasury.MintMemberMsg{Metadata: meta, Description: *f.description, Recipient: *f.recipient}, nil
	},
	"disable_member": func(f *operationFlags, meta *treasury.Metadata) (xtreasury.OperationMsg, error) {
		target, err := f.single()
		return &xtreasury.DisableMemberMsg{Metadata: meta, Description: *f.description, Member: target}, err
	},
	"enable_member": func(f *operationFlags, meta *treasury.Metadata) (xtreasury.OperationMsg, error) {
		target, err := f.single()
		return &xtreasury.EnableMemberMsg{Metadata: meta, Description: *f.description, Member: target}, err
	},
	"increase_min_cosigners": func(f *operationFlags, meta *treasury.Metadata) (xtreasury.OperationMsg, error) {
		return &xtreasury.IncreaseMinCosignersMsg{Metadata: meta, Description: *f.description}, nil
	},
	"decrease_min_cosigners": func(f *operationFlags, meta *treasury.Metadata) (xtreasury.OperationMsg, error) {
		return &xtreasury.DecreaseMinCosignersMsg{Metadata: meta, Description: *f.description}, nil
	},
	"send_fungibles": func(f *operationFlags, meta *treasury.Metadata) (xtreasury.OperationMsg, error) {
		return &xtreasury.SendFungiblesMsg{Metadata: meta, Description: *f.description, Amount: *f.amount, Recipient: *f.recipient}, nil
	},
	"send_non_fungibles": func(f *operationFlags, meta *treasury.Metadata) (xtreasury.OperationMsg, error) {
		return &xtreasury.SendNonFungiblesMsg{
			Metadata:    meta,
			Description: *f.description,
			Resource:    *f.resource,
			IDs:         *f.targets,
			Recipient:   *f.recipient,
		}, nil
	},
	"transfer_account_badge": func(f *operationFlags, meta *treasury.Metadata) (xtreasury.OperationMsg, error) {
		return &xtreasury.TransferAccountBadgeMsg{Metadata: meta, Description: *f.description, Component: *f.component}, nil
	},
	"stake": func(f *operationFlags, meta *treasury.Metadata) (xtreasury.OperationMsg, error) {
		return &xtreasury.StakeMsg{Metadata: meta, Description: *f.description, Amount: *f.amount, Validator: *f.validator}, nil
	},
	"unstake": func(f *operationFlags, meta *treasury.Metadata) (xtreasury.OperationMsg, error) {
		return &xtreasury.UnstakeMsg{Metadata: meta, Description: *f.description, Amount: *f.amount, Validator: *f.validator}, nil
	},
	"claim_unstaked": func(f *operationFlags, meta *treasury.Metadata) (xtreasury.OperationMsg, error) {
		return &xtreasury.ClaimUnstakedMsg{Metadata: meta, Description: *f.description, Claims: *f.targets, Validator: *f.validator}, nil
	},
}

func operationTypes() []string {
	names := make([]string, 0, len(operationBuilders))
	for name := range operationBuilders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (f *operationFlags) single() ([]byte, error) {
	if len(*f.targets) != 1 {
		return nil, fmt.Errorf("exactly one target member required, got %d", len(*f.targets))
	}
	return (*f.targets)[0], nil
}

// build returns the validated message described by the flags.
func (f *operationFlags) build() (xtreasury.OperationMsg, error) {
	builder, ok := operationBuilders[*f.typ]
	if !ok {
		return nil, fmt.Errorf("unknown operation type %q", *f.typ)
	}
	msg, err := builder(f, &treasury.Metadata{Schema: 1})
	if err != nil {
		return nil, err
	}
	if err := msg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid operation: %s", err)
	}
	return msg, nil
}

func cmdPropose(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Create a transaction casting a vote on an operation.

The first vote opens an approval round. Once enough members voted for the
same operation it is executed. The transaction must be signed before it
can be submitted.
`)
		fl.PrintDefaults()
	}
	f := registerOperationFlags(fl)
	fl.Parse(args)

	msg, err := f.build()
	if err != nil {
		return err
	}
	return writeJSON(output, app.Tx{Msg: msg})
}

func cmdWithdraw(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Create a transaction withdrawing your vote from an operation. The operation
is described with the same flags as when proposing it.
`)
		fl.PrintDefaults()
	}
	f := registerOperationFlags(fl)
	fl.Parse(args)

	op, err := f.build()
	if err != nil {
		return err
	}
	msg := &xtreasury.RemoveSignatureMsg{
		Metadata:  &treasury.Metadata{Schema: 1},
		Operation: *op.Operation(),
	}
	return writeJSON(output, app.Tx{Msg: msg})
}
