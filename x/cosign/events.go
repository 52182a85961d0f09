package cosign

import (
	"encoding/hex"
	"strings"
)

// OperationOpened is emitted when an operation is proposed for the first
// time. Later rounds of a stored operation do not emit it.
type OperationOpened struct {
	Operation *Operation `json:"operation"`
	Proposer  []byte     `json:"proposer"`
}

// EventType implements treasury.Event.
func (OperationOpened) EventType() string { return "cosign/opened" }

// OperationApproved is emitted when a round collected enough votes. The
// cosigners are listed in the order they voted.
type OperationApproved struct {
	Operation *Operation `json:"operation"`
	Cosigners Cosigners  `json:"cosigners"`
}

// EventType implements treasury.Event.
func (OperationApproved) EventType() string { return "cosign/approved" }

func voterHex(id []byte) string {
	return strings.ToUpper(hex.EncodeToString(id))
}
