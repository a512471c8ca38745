package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SettlementMetrics records settlement outcomes and timing.
type SettlementMetrics struct {
	duration prometheus.Histogram
	success  *prometheus.CounterVec
	failure  *prometheus.CounterVec
}

// NewSettlementMetrics registers the settlement metrics on the provided
// registerer.
func NewSettlementMetrics(reg prometheus.Registerer) *SettlementMetrics {
	if reg == nil {
		return &SettlementMetrics{}
	}
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "settlement_duration_seconds",
		Help:    "Duration of sale settlements in seconds.",
		Buckets: prometheus.DefBuckets,
	})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "settlement_success",
		Help: "Successful settlements by payment method.",
	}, []string{"method"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "settlement_failure",
		Help: "Failed settlements by error code.",
	}, []string{"code"})
	reg.MustRegister(duration, success, failure)
	return &SettlementMetrics{
		duration: duration,
		success:  success,
		failure:  failure,
	}
}

// ObserveDuration records how long a settlement took.
func (m *SettlementMetrics) ObserveDuration(duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.Observe(duration.Seconds())
}

// IncSuccess increments the success counter for the payment method.
func (m *SettlementMetrics) IncSuccess(method string) {
	if m == nil || m.success == nil {
		return
	}
	m.success.WithLabelValues(normalizeLabel(method)).Inc()
}

// IncFailure increments the failure counter for the error code.
func (m *SettlementMetrics) IncFailure(code string) {
	if m == nil || m.failure == nil {
		return
	}
	m.failure.WithLabelValues(normalizeLabel(code)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
