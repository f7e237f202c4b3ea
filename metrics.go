package postgrest

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors updated on every request.
type Metrics struct {
	Requests *prometheus.CounterVec
	Duration *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg. A nil reg
// leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "postgrest_client_requests_total",
				Help: "Total number of PostgREST requests by operation, method and status code",
			},
			[]string{"operation", "method", "code"},
		),
		Duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "postgrest_client_request_duration_seconds",
				Help:    "Duration of PostgREST requests",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation", "method"},
		),
	}
}

// observe is a no-op on a nil receiver.
func (m *Metrics) observe(op Operation, method, code string, d time.Duration) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(op.String(), method, code).Inc()
	m.Duration.WithLabelValues(op.String(), method).Observe(d.Seconds())
}
