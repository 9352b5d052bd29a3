package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the market engine.
type Metrics struct {
	// Operations by name and outcome ("ok" or an error category)
	Operations *prometheus.CounterVec

	// Value paid out by distribution role
	Distributed *prometheus.CounterVec

	// Value a sale left undisbursed
	Undisbursed prometheus.Counter

	// Passes sold
	PassesSold prometheus.Counter

	// Operation latency by name
	OperationLatency *prometheus.HistogramVec
}

// New registers the market metrics on reg. A nil reg uses the default
// registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Metrics{
		Operations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "passbook_market_operations_total",
			Help: "Total market operations by operation and outcome",
		}, []string{"operation", "outcome"}),

		Distributed: f.NewCounterVec(prometheus.CounterOpts{
			Name: "passbook_market_distributed_total",
			Help: "Total value distributed by payout role, in smallest settlement units",
		}, []string{"role"}), // role: "creator", "seller", "operator", "referrer", "kickback"

		Undisbursed: f.NewCounter(prometheus.CounterOpts{
			Name: "passbook_market_undisbursed_total",
			Help: "Total sale value left undisbursed, in smallest settlement units",
		}),

		PassesSold: f.NewCounter(prometheus.CounterOpts{
			Name: "passbook_market_passes_sold_total",
			Help: "Total passes sold",
		}),

		OperationLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "passbook_market_operation_duration_seconds",
			Help:    "Duration of market operations including the ledger commit",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}, []string{"operation"}),
	}
}

// IncrementOperation records one operation outcome.
func (m *Metrics) IncrementOperation(operation, outcome string) {
	if m != nil {
		m.Operations.WithLabelValues(operation, outcome).Inc()
	}
}

// AddDistributed records value paid under role.
func (m *Metrics) AddDistributed(role string, amount uint64) {
	if m != nil && amount > 0 {
		m.Distributed.WithLabelValues(role).Add(float64(amount))
	}
}

// AddUndisbursed records value a sale did not pay out.
func (m *Metrics) AddUndisbursed(amount uint64) {
	if m != nil && amount > 0 {
		m.Undisbursed.Add(float64(amount))
	}
}

// IncrementPassesSold records one sold pass.
func (m *Metrics) IncrementPassesSold() {
	if m != nil {
		m.PassesSold.Inc()
	}
}

// ObserveOperationLatency records how long an operation took.
func (m *Metrics) ObserveOperationLatency(operation string, d time.Duration) {
	if m != nil {
		m.OperationLatency.WithLabelValues(operation).Observe(d.Seconds())
	}
}
