package treasury

import (
	"strings"

	treasury "github.com/iov-one/treasury"
	"github.com/iov-one/treasury/coin"
	"github.com/iov-one/treasury/errors"
	"github.com/iov-one/treasury/x/cosign"
)

const pathRemoveSignatureMsg = "treasury/remove_signature"

// OperationMsg is implemented by all messages that cast a vote.
type OperationMsg interface {
	treasury.Msg
	// Operation returns the operation this message votes on.
	Operation() *cosign.Operation
}

func operationPath(t cosign.OperationType) string {
	return "treasury/" + t.String()
}

// memberOperation builds an operation targeting a single member. A missing
// member leaves the targets absent.
func memberOperation(description string, typ cosign.OperationType, member []byte) *cosign.Operation {
	op := cosign.NewOperation(description, typ)
	if len(member) == 0 {
		return op
	}
	return op.WithTargets(member)
}

func validateOperation(meta *treasury.Metadata, op *cosign.Operation) error {
	if err := meta.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if err := op.Validate(); err != nil {
		return errors.Wrap(err, "operation")
	}
	return nil
}

// MintMemberMsg issues a new member badge to the recipient.
type MintMemberMsg struct {
	Metadata    *treasury.Metadata `json:"metadata"`
	Description string             `json:"description"`
	Recipient   treasury.Address   `json:"recipient"`
}

var _ OperationMsg = (*MintMemberMsg)(nil)

func (MintMemberMsg) Path() string { return operationPath(cosign.MintMember) }

func (m *MintMemberMsg) Operation() *cosign.Operation {
	return cosign.NewOperation(m.Description, cosign.MintMember).WithRecipient(m.Recipient)
}

func (m *MintMemberMsg) Validate() error { return validateOperation(m.Metadata, m.Operation()) }

// DisableMemberMsg revokes the right to vote of a member.
type DisableMemberMsg struct {
	Metadata    *treasury.Metadata `json:"metadata"`
	Description string             `json:"description"`
	Member      []byte             `json:"member"`
}

var _ OperationMsg = (*DisableMemberMsg)(nil)

func (DisableMemberMsg) Path() string { return operationPath(cosign.DisableMember) }

func (m *DisableMemberMsg) Operation() *cosign.Operation {
	return memberOperation(m.Description, cosign.DisableMember, m.Member)
}

func (m *DisableMemberMsg) Validate() error { return validateOperation(m.Metadata, m.Operation()) }

// EnableMemberMsg restores the right to vote of a disabled member.
type EnableMemberMsg struct {
	Metadata    *treasury.Metadata `json:"metadata"`
	Description string             `json:"description"`
	Member      []byte             `json:"member"`
}

var _ OperationMsg = (*EnableMemberMsg)(nil)

func (EnableMemberMsg) Path() string { return operationPath(cosign.EnableMember) }

func (m *EnableMemberMsg) Operation() *cosign.Operation {
	return memberOperation(m.Description, cosign.EnableMember, m.Member)
}

func (m *EnableMemberMsg) Validate() error { return validateOperation(m.Metadata, m.Operation()) }

// IncreaseMinCosignersMsg raises the number of required votes by one.
type IncreaseMinCosignersMsg struct {
	Metadata    *treasury.Metadata `json:"metadata"`
	Description string             `json:"description"`
}

var _ OperationMsg = (*IncreaseMinCosignersMsg)(nil)

func (IncreaseMinCosignersMsg) Path() string { return operationPath(cosign.IncreaseMinCosigners) }

func (m *IncreaseMinCosignersMsg) Operation() *cosign.Operation {
	return cosign.NewOperation(m.Description, cosign.IncreaseMinCosigners)
}

func (m *IncreaseMinCosignersMsg) Validate() error {
	return validateOperation(m.Metadata, m.Operation())
}

// DecreaseMinCosignersMsg lowers the number of required votes by one.
type DecreaseMinCosignersMsg struct {
	Metadata    *treasury.Metadata `json:"metadata"`
	Description string             `json:"description"`
}

var _ OperationMsg = (*DecreaseMinCosignersMsg)(nil)

func (DecreaseMinCosignersMsg) Path() string { return operationPath(cosign.DecreaseMinCosigners) }

func (m *DecreaseMinCosignersMsg) Operation() *cosign.Operation {
	return cosign.NewOperation(m.Description, cosign.DecreaseMinCosigners)
}

func (m *DecreaseMinCosignersMsg) Validate() error {
	return validateOperation(m.Metadata, m.Operation())
}

// SendFungiblesMsg pays coins from the treasury wallet.
type SendFungiblesMsg struct {
	Metadata    *treasury.Metadata `json:"metadata"`
	Description string             `json:"description"`
	Amount      coin.Coin          `json:"amount"`
	Recipient   treasury.Address   `json:"recipient"`
}

var _ OperationMsg = (*SendFungiblesMsg)(nil)

func (SendFungiblesMsg) Path() string { return operationPath(cosign.SendFungibles) }

func (m *SendFungiblesMsg) Operation() *cosign.Operation {
	return cosign.NewOperation(m.Description, cosign.SendFungibles).
		WithResource(m.Amount.Ticker).
		WithAmount(m.Amount).
		WithRecipient(m.Recipient)
}

func (m *SendFungiblesMsg) Validate() error { return validateOperation(m.Metadata, m.Operation()) }

// SendNonFungiblesMsg transfers tokens held by the treasury.
type SendNonFungiblesMsg struct {
	Metadata    *treasury.Metadata `json:"metadata"`
	Description string             `json:"description"`
	Resource    string             `json:"resource"`
	IDs         [][]byte           `json:"ids"`
	Recipient   treasury.Address   `json:"recipient"`
}

var _ OperationMsg = (*SendNonFungiblesMsg)(nil)

func (SendNonFungiblesMsg) Path() string { return operationPath(cosign.SendNonFungibles) }

func (m *SendNonFungiblesMsg) Operation() *cosign.Operation {
	return cosign.NewOperation(m.Description, cosign.SendNonFungibles).
		WithResource(m.Resource).
		WithTargets(m.IDs...).
		WithRecipient(m.Recipient)
}

func (m *SendNonFungiblesMsg) Validate() error { return validateOperation(m.Metadata, m.Operation()) }

// TransferAccountBadgeMsg hands control of the treasury account over to
// another component.
type TransferAccountBadgeMsg struct {
	Metadata    *treasury.Metadata `json:"metadata"`
	Description string             `json:"description"`
	Component   treasury.Address   `json:"component"`
}

var _ OperationMsg = (*TransferAccountBadgeMsg)(nil)

func (TransferAccountBadgeMsg) Path() string { return operationPath(cosign.TransferAccountBadge) }

func (m *TransferAccountBadgeMsg) Operation() *cosign.Operation {
	return cosign.NewOperation(m.Description, cosign.TransferAccountBadge).WithComponent(m.Component)
}

func (m *TransferAccountBadgeMsg) Validate() error {
	return validateOperation(m.Metadata, m.Operation())
}

// StakeMsg delegates coins of the treasury to a validator.
type StakeMsg struct {
	Metadata    *treasury.Metadata `json:"metadata"`
	Description string             `json:"description"`
	Amount      coin.Coin          `json:"amount"`
	Validator   treasury.Address   `json:"validator"`
}

var _ OperationMsg = (*StakeMsg)(nil)

func (StakeMsg) Path() string { return operationPath(cosign.Stake) }

func (m *StakeMsg) Operation() *cosign.Operation {
	return cosign.NewOperation(m.Description, cosign.Stake).WithAmount(m.Amount).WithValidator(m.Validator)
}

func (m *StakeMsg) Validate() error { return validateOperation(m.Metadata, m.Operation()) }

// UnstakeMsg withdraws delegated coins. The result is a claim that can
// be collected after the unbonding period.
type UnstakeMsg struct {
	Metadata    *treasury.Metadata `json:"metadata"`
	Description string             `json:"description"`
	Amount      coin.Coin          `json:"amount"`
	Validator   treasury.Address   `json:"validator"`
}

var _ OperationMsg = (*UnstakeMsg)(nil)

func (UnstakeMsg) Path() string { return operationPath(cosign.Unstake) }

func (m *UnstakeMsg) Operation() *cosign.Operation {
	return cosign.NewOperation(m.Description, cosign.Unstake).WithAmount(m.Amount).WithValidator(m.Validator)
}

func (m *UnstakeMsg) Validate() error { return validateOperation(m.Metadata, m.Operation()) }

// ClaimUnstakedMsg collects unlocked claims into the treasury wallet.
type ClaimUnstakedMsg struct {
	Metadata    *treasury.Metadata `json:"metadata"`
	Description string             `json:"description"`
	Claims      [][]byte           `json:"claims"`
	Validator   treasury.Address   `json:"validator"`
}

var _ OperationMsg = (*ClaimUnstakedMsg)(nil)

func (ClaimUnstakedMsg) Path() string { return operationPath(cosign.ClaimUnstaked) }

func (m *ClaimUnstakedMsg) Operation() *cosign.Operation {
	return cosign.NewOperation(m.Description, cosign.ClaimUnstaked).WithTargets(m.Claims...).WithValidator(m.Validator)
}

func (m *ClaimUnstakedMsg) Validate() error { return validateOperation(m.Metadata, m.Operation()) }

// RemoveSignatureMsg withdraws the vote of the sender from the current
// round of the operation.
type RemoveSignatureMsg struct {
	Metadata  *treasury.Metadata `json:"metadata"`
	Operation cosign.Operation   `json:"operation"`
}

var _ treasury.Msg = (*RemoveSignatureMsg)(nil)

func (RemoveSignatureMsg) Path() string { return pathRemoveSignatureMsg }

// Target returns the operation with its description normalized the way
// it is when the operation is proposed.
func (m *RemoveSignatureMsg) Target() *cosign.Operation {
	op := m.Operation
	op.Description = strings.TrimSpace(op.Description)
	return &op
}

func (m *RemoveSignatureMsg) Validate() error { return validateOperation(m.Metadata, m.Target()) }
