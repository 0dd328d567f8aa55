package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the quote module.
type Metrics struct {
	QuotesGenerated *prometheus.CounterVec
	GenerateLatency prometheus.Histogram
}

// New creates a Metrics instance with all quote module metrics registered.
func New() *Metrics {
	return &Metrics{
		QuotesGenerated: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "covira_quotes_generated_total",
			Help: "Total quote generations by outcome",
		}, []string{"outcome"}), // outcome: "ok", "invalid_request", "rate_not_configured"

		GenerateLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "covira_quote_generate_duration_seconds",
			Help:    "Duration of quote generation",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1},
		}),
	}
}

// IncrementGenerated records a quote generation outcome.
func (m *Metrics) IncrementGenerated(outcome string) {
	if m != nil {
		m.QuotesGenerated.WithLabelValues(outcome).Inc()
	}
}

// ObserveGenerateLatency records the generation duration.
func (m *Metrics) ObserveGenerateLatency(d time.Duration) {
	if m != nil {
		m.GenerateLatency.Observe(d.Seconds())
	}
}
