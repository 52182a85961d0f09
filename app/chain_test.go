package app

import (
	"context"
	"testing"

	"github.com/iov-one/treasury/x/utils"
	"github.com/stretchr/testify/assert"
)

func TestChain(t *testing.T) {
	c1 := &countingDecorator{}
	c2 := &countingDecorator{}
	c3 := &countingDecorator{}
	h := &countingHandler{}

	stack := ChainDecorators(
		c1,
		utils.NewLogging(),
		utils.NewRecovery(),
		c2,
		panicDecorator{},
		c3,
	).WithHandler(h)

	bg := context.Background()

	// make some calls, make sure it is fine
	_, err := stack.Check(bg, nil, pathTx("ok"))
	assert.NoError(t, err)
	_, err = stack.Deliver(bg, nil, pathTx("ok"))
	assert.NoError(t, err)

	// decorators are counted double, once in, once out
	assert.Equal(t, 4, c1.called)
	assert.Equal(t, 4, c2.called)
	assert.Equal(t, 4, c3.called)
	assert.Equal(t, 2, h.called)

	// now, let's trigger a panic
	_, err = stack.Check(bg, nil, pathTx("panic"))
	assert.Error(t, err)
	_, err = stack.Deliver(bg, nil, pathTx("panic"))
	assert.Error(t, err)

	assert.Equal(t, 8, c1.called)
	// note that c2 is called twice in, but not out
	assert.Equal(t, 6, c2.called)
	// and those two ins don't make it to c3 due to panic
	assert.Equal(t, 4, c3.called)
	assert.Equal(t, 2, h.called)
}

func TestChainSkipsNil(t *testing.T) {
	var missing *countingDecorator
	c := &countingDecorator{}
	h := &countingHandler{}

	stack := ChainDecorators(nil, missing, c).Chain(nil).WithHandler(h)
	_, err := stack.Deliver(context.Background(), nil, pathTx("ok"))
	assert.NoError(t, err)
	assert.Equal(t, 2, c.called)
	assert.Equal(t, 1, h.called)
}

func TestChainDoesNotShareTail(t *testing.T) {
	a, b := &countingDecorator{}, &countingDecorator{}
	base := ChainDecorators(&countingDecorator{})
	left := base.Chain(a)
	right := base.Chain(b)
	assert.Equal(t, 1, len(base))

	_, err := left.WithHandler(&countingHandler{}).Deliver(context.Background(), nil, pathTx("ok"))
	assert.NoError(t, err)
	assert.Equal(t, 2, a.called)
	assert.Equal(t, 0, b.called)
	assert.Equal(t, 2, len(right))
}
