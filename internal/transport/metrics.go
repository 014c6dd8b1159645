package transport

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeOK           = "ok"
	outcomeAPIError     = "api_error"
	outcomeAuthRequired = "auth_required"
	outcomeNetworkError = "network_error"
	outcomeCancelled    = "cancelled"
)

// Metrics records outbound request counts and latency
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics registers the client collectors on reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "balance_client",
			Name:      "requests_total",
			Help:      "Outbound balance API requests by outcome.",
		}, []string{"method", "path", "outcome"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "balance_client",
			Name:      "request_duration_seconds",
			Help:      "Outbound balance API request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),
	}
}

func (m *Metrics) observe(method, path, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, path, outcome).Inc()
	m.duration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}
