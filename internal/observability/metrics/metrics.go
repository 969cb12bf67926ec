package metrics

import "github.com/prometheus/client_golang/prometheus"

// Outcome labels recorded for every lead generation attempt.
const (
	OutcomeSuccess            = "success"
	OutcomeConfigurationError = "configuration_error"
	OutcomeProviderError      = "provider_error"
	OutcomeExtractionError    = "extraction_error"
)

// LeadMetrics exposes counters/histograms for lead generation.
type LeadMetrics struct {
	generateTotal *prometheus.CounterVec
	providerTask  *prometheus.HistogramVec
	leadsReturned prometheus.Histogram
}

// NewLeadMetrics registers the lead metrics on reg (the default registerer when nil).
func NewLeadMetrics(reg prometheus.Registerer) *LeadMetrics {
	m := &LeadMetrics{
		generateTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "leads_api",
			Name:      "generate_total",
			Help:      "Total lead generation attempts by outcome",
		}, []string{"outcome"}),
		providerTask: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "leads_api",
			Name:      "provider_task_seconds",
			Help:      "Wall time spent waiting on the browser automation provider",
			Buckets:   []float64{5, 15, 30, 60, 120, 180, 300, 600},
		}, []string{"status"}),
		leadsReturned: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "leads_api",
			Name:      "leads_returned",
			Help:      "Number of leads returned per successful request",
			Buckets:   []float64{1, 5, 10, 20, 50, 100},
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.generateTotal, m.providerTask, m.leadsReturned)
	return m
}

func (m *LeadMetrics) ObserveOutcome(outcome string) {
	if m == nil {
		return
	}
	m.generateTotal.WithLabelValues(outcome).Inc()
}

func (m *LeadMetrics) ObserveProviderTask(status string, seconds float64) {
	if m == nil {
		return
	}
	if status == "" {
		status = "unknown"
	}
	m.providerTask.WithLabelValues(status).Observe(seconds)
}

func (m *LeadMetrics) ObserveLeadsReturned(count int) {
	if m == nil {
		return
	}
	m.leadsReturned.Observe(float64(count))
}
