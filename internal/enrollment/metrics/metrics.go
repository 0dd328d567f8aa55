package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the enrollment workflow.
type Metrics struct {
	StepsRecorded *prometheus.CounterVec
	Submissions   prometheus.Counter
	AccessDenials prometheus.Counter
}

// New creates a Metrics instance with all enrollment metrics registered.
func New() *Metrics {
	return &Metrics{
		StepsRecorded: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "covira_enrollment_steps_recorded_total",
			Help: "Total step completions recorded by step name",
		}, []string{"step"}),

		Submissions: promauto.NewCounter(prometheus.CounterOpts{
			Name: "covira_enrollment_submissions_total",
			Help: "Total applications submitted",
		}),

		AccessDenials: promauto.NewCounter(prometheus.CounterOpts{
			Name: "covira_enrollment_access_denials_total",
			Help: "Total application requests denied by the access guard",
		}),
	}
}

func (m *Metrics) IncrementStepsRecorded(step string) {
	if m != nil {
		m.StepsRecorded.WithLabelValues(step).Inc()
	}
}

func (m *Metrics) IncrementSubmissions() {
	if m != nil {
		m.Submissions.Inc()
	}
}

func (m *Metrics) IncrementAccessDenials() {
	if m != nil {
		m.AccessDenials.Inc()
	}
}
