package member

import (
	"context"
	"encoding/hex"
	"strings"

	treasury "github.com/iov-one/treasury"
)

type contextKey int // local to the member module

const (
	contextKeyVoter contextKey = iota
)

// withVoter is private, only the authenticator can set the voter.
func withVoter(ctx treasury.Context, id []byte) treasury.Context {
	return context.WithValue(ctx, contextKeyVoter, id)
}

// GetVoter returns the badge ID of the member that authenticated the
// current transaction or nil.
func GetVoter(ctx treasury.Context) []byte {
	val, _ := ctx.Value(contextKeyVoter).([]byte)
	return val
}

func badgeHex(id []byte) string {
	return strings.ToUpper(hex.EncodeToString(id))
}
