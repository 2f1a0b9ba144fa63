// Package metrics provides Prometheus metrics for the registration service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics groups every collector the service exports. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	// Validation outcomes by status (success, failure, error)
	ValidationOutcome *prometheus.CounterVec

	// Subscription requests written, by recipient (mother, household)
	SubscriptionRequests *prometheus.CounterVec

	// Collaborator call latency by service and operation
	CallLatency *prometheus.HistogramVec

	// Collaborator failures by service and category
	CallErrors *prometheus.CounterVec

	// Worker task results by outcome (success, failure, exhausted)
	TaskResults *prometheus.CounterVec

	// Tasks currently executing
	TasksInFlight prometheus.Gauge
}

// New registers the collectors with the default registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry registers the collectors with reg.
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		ValidationOutcome: f.NewCounterVec(prometheus.CounterOpts{
			Name: "hellomama_registration_validations_total",
			Help: "Registration validation runs by outcome",
		}, []string{"status"}),

		SubscriptionRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "hellomama_registration_subscription_requests_total",
			Help: "Subscription requests created by recipient",
		}, []string{"recipient"}),

		CallLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "hellomama_registration_collaborator_duration_seconds",
			Help:    "Duration of calls to collaborating services",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"service", "operation"}),

		CallErrors: f.NewCounterVec(prometheus.CounterOpts{
			Name: "hellomama_registration_collaborator_errors_total",
			Help: "Failed calls to collaborating services by category",
		}, []string{"service", "category"}),

		TaskResults: f.NewCounterVec(prometheus.CounterOpts{
			Name: "hellomama_registration_tasks_total",
			Help: "Validation tasks processed by the worker pool",
		}, []string{"result"}),

		TasksInFlight: f.NewGauge(prometheus.GaugeOpts{
			Name: "hellomama_registration_tasks_in_flight",
			Help: "Validation tasks currently executing",
		}),
	}
}

// IncValidation counts one validation run by status.
func (m *Metrics) IncValidation(status string) {
	if m != nil {
		m.ValidationOutcome.WithLabelValues(status).Inc()
	}
}

// IncSubscriptionRequest counts one subscription request written for recipient.
func (m *Metrics) IncSubscriptionRequest(recipient string) {
	if m != nil {
		m.SubscriptionRequests.WithLabelValues(recipient).Inc()
	}
}

// ObserveCall records the latency of one collaborator call.
func (m *Metrics) ObserveCall(service, operation string, d time.Duration) {
	if m != nil {
		m.CallLatency.WithLabelValues(service, operation).Observe(d.Seconds())
	}
}

// IncCallError counts one failed collaborator call by error category.
func (m *Metrics) IncCallError(service, category string) {
	if m != nil {
		m.CallErrors.WithLabelValues(service, category).Inc()
	}
}

// IncTask counts one finished worker task by result.
func (m *Metrics) IncTask(result string) {
	if m != nil {
		m.TaskResults.WithLabelValues(result).Inc()
	}
}

// TaskStarted marks a task as running and returns a func that marks it done.
func (m *Metrics) TaskStarted() func() {
	if m == nil {
		return func() {}
	}
	m.TasksInFlight.Inc()
	return m.TasksInFlight.Dec
}
