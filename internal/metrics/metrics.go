package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for provider calls.
const (
	OutcomeSuccess     = "success"
	OutcomeError       = "error"
	OutcomeCircuitOpen = "circuit_open"
)

// ProviderMetrics records outbound weather provider calls.
type ProviderMetrics struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

// NewProviderMetrics registers provider metrics on reg. A nil reg leaves
// the collectors unregistered, which is what tests want.
func NewProviderMetrics(reg prometheus.Registerer) *ProviderMetrics {
	m := &ProviderMetrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "observatory",
			Name:      "provider_requests_total",
			Help:      "Weather provider requests by provider and outcome.",
		}, []string{"provider", "outcome"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "observatory",
			Name:      "provider_request_duration_seconds",
			Help:      "Weather provider request latency, retries included.",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		}, []string{"provider"}),
	}
	if reg != nil {
		reg.MustRegister(m.requests, m.latency)
	}
	return m
}

// Observe records one finished call. Safe on a nil receiver.
func (m *ProviderMetrics) Observe(provider, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(provider, outcome).Inc()
	m.latency.WithLabelValues(provider).Observe(elapsed.Seconds())
}

// Requests exposes the counter so callers and tests can read it.
func (m *ProviderMetrics) Requests() *prometheus.CounterVec {
	return m.requests
}
