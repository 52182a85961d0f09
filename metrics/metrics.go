/*
Package metrics exposes the treasury activity as prometheus metrics.

Metrics implements treasury.EventSink, so committed events are counted,
and provides a decorator measuring every delivered transaction.
*/
package metrics

import (
	"github.com/go-kit/kit/metrics"
	"github.com/go-kit/kit/metrics/discard"
	kitprometheus "github.com/go-kit/kit/metrics/prometheus"
	stdprometheus "github.com/prometheus/client_golang/prometheus"
)

const (
	Namespace = "treasury"

	CosignSubsystem = "cosign"
	TxSubsystem     = "tx"
)

// Metrics groups all treasury metrics.
type Metrics struct {
	// Events counts committed events by type.
	Events metrics.Counter
	// Executions counts approved operations by operation type.
	Executions metrics.Counter
	// Transactions counts delivered transactions by result code.
	Transactions metrics.Counter
	// Duration measures the time spent delivering a transaction.
	Duration metrics.Histogram
}

// NewMetrics returns metrics registered with given registerer.
func NewMetrics(reg stdprometheus.Registerer) (*Metrics, error) {
	events := stdprometheus.NewCounterVec(stdprometheus.CounterOpts{
		Namespace: Namespace,
		Subsystem: CosignSubsystem,
		Name:      "events_total",
		Help:      "Number of committed events.",
	}, []string{"type"})
	executions := stdprometheus.NewCounterVec(stdprometheus.CounterOpts{
		Namespace: Namespace,
		Subsystem: CosignSubsystem,
		Name:      "executions_total",
		Help:      "Number of approved operations.",
	}, []string{"operation"})
	transactions := stdprometheus.NewCounterVec(stdprometheus.CounterOpts{
		Namespace: Namespace,
		Subsystem: TxSubsystem,
		Name:      "delivered_total",
		Help:      "Number of delivered transactions.",
	}, []string{"code"})
	duration := stdprometheus.NewHistogramVec(stdprometheus.HistogramOpts{
		Namespace: Namespace,
		Subsystem: TxSubsystem,
		Name:      "deliver_seconds",
		Help:      "Time spent delivering a transaction.",
		Buckets:   stdprometheus.DefBuckets,
	}, []string{})

	for _, c := range []stdprometheus.Collector{events, executions, transactions, duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return &Metrics{
		Events:       kitprometheus.NewCounter(events),
		Executions:   kitprometheus.NewCounter(executions),
		Transactions: kitprometheus.NewCounter(transactions),
		Duration:     kitprometheus.NewHistogram(duration),
	}, nil
}

// NopMetrics returns metrics that discard all values.
func NopMetrics() *Metrics {
	return &Metrics{
		Events:       discard.NewCounter(),
		Executions:   discard.NewCounter(),
		Transactions: discard.NewCounter(),
		Duration:     discard.NewHistogram(),
	}
}
