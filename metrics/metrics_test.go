package metrics

import (
	"context"
	"fmt"
	"testing"

	treasury "github.com/iov-one/treasury"
	"github.com/iov-one/treasury/errors"
	"github.com/iov-one/treasury/x/cosign"
	stdprometheus "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// counterValue returns the value of the counter with given name and
// label value, or -1 if not found.
func counterValue(t *testing.T, reg *stdprometheus.Registry, name, label string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		for _, m := range f.GetMetric() {
			for _, l := range m.GetLabel() {
				if l.GetValue() == label {
					return m.GetCounter().GetValue()
				}
			}
		}
	}
	return -1
}

func TestPublish(t *testing.T) {
	reg := stdprometheus.NewRegistry()
	m, err := NewMetrics(reg)
	require.NoError(t, err)

	op := cosign.NewOperation("raise", cosign.IncreaseMinCosigners)
	err = m.Publish(context.Background(), []treasury.Event{
		&cosign.OperationOpened{Operation: op},
		&cosign.OperationApproved{Operation: op},
		&cosign.OperationOpened{Operation: op},
	})
	require.NoError(t, err)

	assert.Equal(t, 2.0, counterValue(t, reg, "treasury_cosign_events_total", "cosign/opened"))
	assert.Equal(t, 1.0, counterValue(t, reg, "treasury_cosign_events_total", "cosign/approved"))
	assert.Equal(t, 1.0, counterValue(t, reg, "treasury_cosign_executions_total", "increase_min_cosigners"))
}

func TestDoubleRegistration(t *testing.T) {
	reg := stdprometheus.NewRegistry()
	_, err := NewMetrics(reg)
	require.NoError(t, err)
	_, err = NewMetrics(reg)
	assert.Error(t, err)
}

type resultHandler struct {
	err error
}

func (h resultHandler) Check(treasury.Context, treasury.KVStore, treasury.Tx) (*treasury.CheckResult, error) {
	return &treasury.CheckResult{}, h.err
}

func (h resultHandler) Deliver(treasury.Context, treasury.KVStore, treasury.Tx) (*treasury.DeliverResult, error) {
	if h.err != nil {
		return nil, h.err
	}
	return &treasury.DeliverResult{}, nil
}

func TestDecorator(t *testing.T) {
	reg := stdprometheus.NewRegistry()
	m, err := NewMetrics(reg)
	require.NoError(t, err)
	d := NewDecorator(m)
	ctx := context.Background()

	_, err = d.Deliver(ctx, nil, nil, resultHandler{})
	require.NoError(t, err)
	_, err = d.Deliver(ctx, nil, nil, resultHandler{err: errors.Wrap(cosign.ErrDuplicateVote, "again")})
	require.Error(t, err)
	_, err = d.Deliver(ctx, nil, nil, resultHandler{err: fmt.Errorf("unknown")})
	require.Error(t, err)

	assert.Equal(t, 1.0, counterValue(t, reg, "treasury_tx_delivered_total", "0"))
	assert.Equal(t, 1.0, counterValue(t, reg, "treasury_tx_delivered_total", "1001"))
	assert.Equal(t, 1.0, counterValue(t, reg, "treasury_tx_delivered_total", "1"))

	// Checks are not counted.
	_, err = d.Check(ctx, nil, nil, resultHandler{})
	require.NoError(t, err)
	assert.Equal(t, 1.0, counterValue(t, reg, "treasury_tx_delivered_total", "0"))

	NopMetrics().Events.With("type", "x").Add(1)
}
