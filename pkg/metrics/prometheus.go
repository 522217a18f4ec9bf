package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusRecorder implements Recorder with Prometheus collectors.
type PrometheusRecorder struct {
	fieldChanges       *prometheus.CounterVec
	validations        *prometheus.CounterVec
	submissions        *prometheus.CounterVec
	submissionDuration prometheus.Histogram
}

var _ Recorder = (*PrometheusRecorder)(nil)

// NewPrometheusRecorder registers the order form collectors on reg. A nil reg
// falls back to the default registerer.
func NewPrometheusRecorder(reg prometheus.Registerer) *PrometheusRecorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &PrometheusRecorder{
		fieldChanges: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orderform_field_changes_total",
				Help: "Total number of order form field changes by field",
			},
			[]string{"field"},
		),
		validations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orderform_validations_total",
				Help: "Total number of whole-form validations by result (valid, invalid, stale)",
			},
			[]string{"result"},
		),
		submissions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orderform_submissions_total",
				Help: "Total number of order submissions by outcome",
			},
			[]string{"outcome"},
		),
		submissionDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "orderform_submission_duration_seconds",
				Help:    "Duration of order submissions in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
	}
}

// ObserveFieldChange counts a field mutation.
func (p *PrometheusRecorder) ObserveFieldChange(field string) {
	p.fieldChanges.WithLabelValues(field).Inc()
}

// ObserveValidation counts a whole-form validation result.
func (p *PrometheusRecorder) ObserveValidation(result string) {
	p.validations.WithLabelValues(result).Inc()
}

// ObserveSubmission counts a submission and records its duration.
func (p *PrometheusRecorder) ObserveSubmission(outcome string, duration time.Duration) {
	p.submissions.WithLabelValues(outcome).Inc()
	p.submissionDuration.Observe(duration.Seconds())
}
