package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the audit module. AppendFailures is the
// alerting signal for audit sink outages, which are deliberately invisible
// to business callers.
type Metrics struct {
	Appended       *prometheus.CounterVec
	AppendFailures prometheus.Counter
	Published      prometheus.Counter
	PublishErrors  prometheus.Counter
}

// New creates a Metrics instance with all audit module metrics registered.
func New() *Metrics {
	return &Metrics{
		Appended: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "covira_audit_appended_total",
			Help: "Total audit entries appended by action",
		}, []string{"action"}),

		AppendFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "covira_audit_append_failures_total",
			Help: "Total audit append failures swallowed from callers",
		}),

		Published: promauto.NewCounter(prometheus.CounterOpts{
			Name: "covira_audit_published_total",
			Help: "Total audit entries published to kafka",
		}),

		PublishErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "covira_audit_publish_errors_total",
			Help: "Total kafka publish failures (entries are retried)",
		}),
	}
}

func (m *Metrics) IncrementAppended(action string) {
	if m != nil {
		m.Appended.WithLabelValues(action).Inc()
	}
}

func (m *Metrics) IncrementAppendFailures() {
	if m != nil {
		m.AppendFailures.Inc()
	}
}

func (m *Metrics) IncrementPublished() {
	if m != nil {
		m.Published.Inc()
	}
}

func (m *Metrics) IncrementPublishErrors() {
	if m != nil {
		m.PublishErrors.Inc()
	}
}
