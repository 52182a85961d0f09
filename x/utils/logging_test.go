package utils

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	treasury "github.com/iov-one/treasury"
	"github.com/iov-one/treasury/store"
	"github.com/stretchr/testify/assert"
	"github.com/tendermint/tendermint/libs/log"
)

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	ctx := treasury.WithLogger(context.Background(), log.NewTMLogger(&buf))
	ctx = treasury.WithTxID(ctx, []byte{0xab, 0xcd})
	kv := store.MemStore()

	_, err := NewLogging().Deliver(ctx, kv, nopTx{}, writeHandler{key: []byte("k"), value: []byte("v")})
	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "delivered")
	assert.Contains(t, buf.String(), "tx=ABCD")

	buf.Reset()
	_, err = NewLogging().Deliver(ctx, kv, nopTx{}, writeHandler{key: []byte("k"), value: []byte("v"), err: fmt.Errorf("broken")})
	assert.Error(t, err)
	assert.Contains(t, buf.String(), "broken")
}
