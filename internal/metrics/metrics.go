// Package metrics defines the Prometheus collectors exported on /metrics
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "teacherpin"

// Metrics holds every collector of the service
type Metrics struct {
	// PinValidations counts validation attempts by outcome status
	PinValidations *prometheus.CounterVec
	// Registrations counts registration attempts by result
	Registrations *prometheus.CounterVec
	// AccountLocks counts lockouts triggered by failed attempts
	AccountLocks prometheus.Counter
	// AuditFailures counts audit writes that failed and aborted an operation
	AuditFailures prometheus.Counter
	// Responses counts HTTP responses by method, route and status code
	Responses *prometheus.CounterVec
	// RequestDuration observes HTTP latency by method and route
	RequestDuration *prometheus.HistogramVec
	// RateLimited counts requests rejected by the rate limiter
	RateLimited prometheus.Counter
}

// New registers the collectors with reg
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		PinValidations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pin_validations_total",
			Help:      "The total number of PIN validation attempts by outcome",
		}, []string{"status"}),
		Registrations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registrations_total",
			Help:      "The total number of teacher registration attempts",
		}, []string{"result"}),
		AccountLocks: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "account_locks_total",
			Help:      "The total number of accounts locked after failed attempts",
		}),
		AuditFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audit_failures_total",
			Help:      "The total number of failed audit writes",
		}),
		Responses: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_responses_total",
			Help:      "The total number of responses by status code",
		}, []string{"method", "route", "status"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "The request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		RateLimited: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limit_exceeded_total",
			Help:      "The total number of rate limit exceeded events",
		}),
	}
}

// ObserveValidation records one PIN validation outcome
func (m *Metrics) ObserveValidation(status string, locked bool) {
	if m == nil {
		return
	}
	m.PinValidations.WithLabelValues(status).Inc()
	if locked {
		m.AccountLocks.Inc()
	}
}

// ObserveRegistration records one registration attempt
func (m *Metrics) ObserveRegistration(result string) {
	if m == nil {
		return
	}
	m.Registrations.WithLabelValues(result).Inc()
}

// ObserveAuditFailure records an audit write that failed
func (m *Metrics) ObserveAuditFailure() {
	if m == nil {
		return
	}
	m.AuditFailures.Inc()
}
