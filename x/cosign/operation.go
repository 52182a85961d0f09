package cosign

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"strings"

	treasury "github.com/iov-one/treasury"
	"github.com/iov-one/treasury/coin"
	"github.com/iov-one/treasury/errors"
)

// OperationType declares the kind of action an operation describes. Values
// are stable and part of the operation key.
type OperationType uint32

const (
	MintMember OperationType = iota
	DisableMember
	EnableMember
	IncreaseMinCosigners
	DecreaseMinCosigners
	SendFungibles
	SendNonFungibles
	TransferAccountBadge
	Stake
	Unstake
	ClaimUnstaked
)

var operationTypeNames = map[OperationType]string{
	MintMember:           "mint_member",
	DisableMember:        "disable_member",
	EnableMember:         "enable_member",
	IncreaseMinCosigners: "increase_min_cosigners",
	DecreaseMinCosigners: "decrease_min_cosigners",
	SendFungibles:        "send_fungibles",
	SendNonFungibles:     "send_non_fungibles",
	TransferAccountBadge: "transfer_account_badge",
	Stake:                "stake",
	Unstake:              "unstake",
	ClaimUnstaked:        "claim_unstaked",
}

func (t OperationType) String() string {
	if n, ok := operationTypeNames[t]; ok {
		return n
	}
	return fmt.Sprintf("OperationType(%d)", uint32(t))
}

// Validate returns an error if the type is not known.
func (t OperationType) Validate() error {
	if _, ok := operationTypeNames[t]; !ok {
		return errors.Wrapf(errors.ErrType, "unknown operation type %d", uint32(t))
	}
	return nil
}

const (
	// MaxDescriptionLength is the longest description accepted, in bytes.
	MaxDescriptionLength = 1024
	// MaxTargetLength is the longest accepted target identifier, in bytes.
	MaxTargetLength = 64
	// MaxResourceLength is the longest accepted resource name, in bytes.
	MaxResourceLength = 64

	// keyVersion prefixes the canonical encoding. It must change whenever
	// the encoding does.
	keyVersion byte = 1
)

// Operation describes an action of the treasury. All attributes but the
// description and the type are optional, a zero value means that the
// attribute is absent. Which attributes are required depends on the type.
//
// Operation is a value. Builder methods return a modified copy.
type Operation struct {
	Description string           `json:"description"`
	Type        OperationType    `json:"type"`
	Resource    string           `json:"resource,omitempty"`
	Amount      coin.Coin        `json:"amount"`
	Targets     [][]byte         `json:"targets,omitempty"`
	Recipient   treasury.Address `json:"recipient,omitempty"`
	Component   treasury.Address `json:"component,omitempty"`
	Validator   treasury.Address `json:"validator,omitempty"`
}

// NewOperation returns an operation of given type. Surrounding white space
// is removed from the description.
func NewOperation(description string, t OperationType) *Operation {
	return &Operation{
		Description: strings.TrimSpace(description),
		Type:        t,
	}
}

func (o *Operation) clone() *Operation {
	cpy := *o
	if o.Targets != nil {
		cpy.Targets = make([][]byte, len(o.Targets))
		copy(cpy.Targets, o.Targets)
	}
	return &cpy
}

// WithResource returns a copy of the operation with the resource set.
func (o *Operation) WithResource(resource string) *Operation {
	cpy := o.clone()
	cpy.Resource = resource
	return cpy
}

// WithAmount returns a copy of the operation with the amount set.
func (o *Operation) WithAmount(amount coin.Coin) *Operation {
	cpy := o.clone()
	cpy.Amount = amount
	return cpy
}

// WithTargets returns a copy of the operation with the targets set. The
// order of targets is significant.
func (o *Operation) WithTargets(targets ...[]byte) *Operation {
	cpy := o.clone()
	cpy.Targets = append([][]byte(nil), targets...)
	return cpy
}

// WithRecipient returns a copy of the operation with the recipient set.
func (o *Operation) WithRecipient(a treasury.Address) *Operation {
	cpy := o.clone()
	cpy.Recipient = a
	return cpy
}

// WithComponent returns a copy of the operation with the component set.
func (o *Operation) WithComponent(a treasury.Address) *Operation {
	cpy := o.clone()
	cpy.Component = a
	return cpy
}

// WithValidator returns a copy of the operation with the validator set.
func (o *Operation) WithValidator(a treasury.Address) *Operation {
	cpy := o.clone()
	cpy.Validator = a
	return cpy
}

// Key returns the identity of the operation. Two operations have the same
// key only if all their attributes are equal, description included.
func (o *Operation) Key() []byte {
	h := sha256.Sum256(o.canonical())
	return h[:]
}

// Equals returns true if both operations describe the same action.
func (o *Operation) Equals(other *Operation) bool {
	if o == nil || other == nil {
		return o == other
	}
	return bytes.Equal(o.Key(), other.Key())
}

const (
	tagDescription byte = iota + 1
	tagType
	tagResource
	tagAmount
	tagTargets
	tagRecipient
	tagComponent
	tagValidator
)

// canonical returns a deterministic encoding of all attributes. Every
// attribute is written with its tag and a presence flag, variable length
// values are length prefixed.
func (o *Operation) canonical() []byte {
	var e encoder
	e.buf.WriteByte(keyVersion)

	e.tag(tagDescription, true)
	e.bytes([]byte(o.Description))

	e.tag(tagType, true)
	e.uvarint(uint64(o.Type))

	e.tag(tagResource, o.Resource != "")
	if o.Resource != "" {
		e.bytes([]byte(o.Resource))
	}

	e.tag(tagAmount, !o.Amount.IsEmpty())
	if !o.Amount.IsEmpty() {
		e.varint(o.Amount.Whole)
		e.varint(o.Amount.Fractional)
		e.bytes([]byte(o.Amount.Ticker))
	}

	e.tag(tagTargets, len(o.Targets) > 0)
	if len(o.Targets) > 0 {
		e.uvarint(uint64(len(o.Targets)))
		for _, t := range o.Targets {
			e.bytes(t)
		}
	}

	for _, a := range []struct {
		tag  byte
		addr treasury.Address
	}{
		{tagRecipient, o.Recipient},
		{tagComponent, o.Component},
		{tagValidator, o.Validator},
	} {
		e.tag(a.tag, len(a.addr) > 0)
		if len(a.addr) > 0 {
			e.bytes(a.addr)
		}
	}
	return e.buf.Bytes()
}

type encoder struct {
	buf bytes.Buffer
	tmp [binary.MaxVarintLen64]byte
}

func (e *encoder) tag(t byte, present bool) {
	e.buf.WriteByte(t)
	if present {
		e.buf.WriteByte(1)
	} else {
		e.buf.WriteByte(0)
	}
}

func (e *encoder) uvarint(v uint64) {
	n := binary.PutUvarint(e.tmp[:], v)
	e.buf.Write(e.tmp[:n])
}

func (e *encoder) varint(v int64) {
	n := binary.PutVarint(e.tmp[:], v)
	e.buf.Write(e.tmp[:n])
}

func (e *encoder) bytes(b []byte) {
	e.uvarint(uint64(len(b)))
	e.buf.Write(b)
}

const (
	attrResource = 1 << iota
	attrAmount
	attrTargets
	attrRecipient
	attrComponent
	attrValidator
)

// required lists the attributes each operation type must carry. All other
// attributes must be absent.
var required = map[OperationType]int{
	MintMember:           attrRecipient,
	DisableMember:        attrTargets,
	EnableMember:         attrTargets,
	IncreaseMinCosigners: 0,
	DecreaseMinCosigners: 0,
	SendFungibles:        attrResource | attrAmount | attrRecipient,
	SendNonFungibles:     attrResource | attrTargets | attrRecipient,
	TransferAccountBadge: attrComponent,
	Stake:                attrAmount | attrValidator,
	Unstake:              attrAmount | attrValidator,
	ClaimUnstaked:        attrTargets | attrValidator,
}

// Validate returns an error if the operation cannot be executed because of
// missing, superfluous or malformed attributes.
func (o *Operation) Validate() error {
	if o == nil {
		return errors.Wrap(errors.ErrEmpty, "operation")
	}
	var errs error
	if len(o.Description) > MaxDescriptionLength {
		errs = errors.AppendField(errs, "Description", errors.Wrapf(errors.ErrInput, "longer than %d bytes", MaxDescriptionLength))
	}
	if err := o.Type.Validate(); err != nil {
		return errors.AppendField(errs, "Type", err)
	}
	want := required[o.Type]

	presence := []struct {
		name    string
		attr    int
		present bool
	}{
		{"Resource", attrResource, o.Resource != ""},
		{"Amount", attrAmount, !o.Amount.IsEmpty()},
		{"Targets", attrTargets, len(o.Targets) > 0},
		{"Recipient", attrRecipient, len(o.Recipient) > 0},
		{"Component", attrComponent, len(o.Component) > 0},
		{"Validator", attrValidator, len(o.Validator) > 0},
	}
	for _, p := range presence {
		switch needed := want&p.attr != 0; {
		case needed && !p.present:
			errs = errors.AppendField(errs, p.name, errors.Wrapf(errors.ErrEmpty, "required by %s", o.Type))
		case !needed && p.present:
			errs = errors.AppendField(errs, p.name, errors.Wrapf(errors.ErrInput, "not allowed for %s", o.Type))
		}
	}
	if errs != nil {
		return errs
	}

	if o.Resource != "" && len(o.Resource) > MaxResourceLength {
		errs = errors.AppendField(errs, "Resource", errors.Wrapf(errors.ErrInput, "longer than %d bytes", MaxResourceLength))
	}
	if !o.Amount.IsEmpty() {
		if err := o.Amount.Validate(); err != nil {
			errs = errors.AppendField(errs, "Amount", err)
		} else if !o.Amount.IsPositive() {
			errs = errors.AppendField(errs, "Amount", errors.Wrap(errors.ErrAmount, "must be positive"))
		}
	}
	if o.Type == SendFungibles && o.Resource != o.Amount.Ticker {
		errs = errors.AppendField(errs, "Resource", errors.Wrapf(errors.ErrCurrency, "amount ticker is %q", o.Amount.Ticker))
	}
	switch o.Type {
	case DisableMember, EnableMember:
		if len(o.Targets) != 1 {
			errs = errors.AppendField(errs, "Targets", errors.Wrap(errors.ErrInput, "exactly one member required"))
		}
	}
	seen := make(map[string]struct{}, len(o.Targets))
	for i, t := range o.Targets {
		name := fmt.Sprintf("Targets.%d", i)
		if len(t) == 0 || len(t) > MaxTargetLength {
			errs = errors.AppendField(errs, name, errors.Wrapf(errors.ErrInput, "length must be between 1 and %d", MaxTargetLength))
			continue
		}
		if _, ok := seen[string(t)]; ok {
			errs = errors.AppendField(errs, name, errors.Wrapf(errors.ErrDuplicate, "%X", t))
		}
		seen[string(t)] = struct{}{}
	}
	for _, a := range []struct {
		name string
		addr treasury.Address
	}{
		{"Recipient", o.Recipient},
		{"Component", o.Component},
		{"Validator", o.Validator},
	} {
		if len(a.addr) > 0 {
			errs = errors.AppendField(errs, a.name, a.addr.Validate())
		}
	}
	return errs
}

func (o *Operation) String() string {
	return fmt.Sprintf("%s %q", o.Type, o.Description)
}
