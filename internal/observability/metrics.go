package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors of the service. Each instance owns
// its registry so tests can build as many as they need.
type Metrics struct {
	registry      *prometheus.Registry
	requests      *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	errors        *prometheus.CounterVec
	authFailures  *prometheus.CounterVec
	authOutcomes  *prometheus.CounterVec
	forbidden     *prometheus.CounterVec
	revokedPruned prometheus.Counter
	auditEvents   *prometheus.CounterVec
}

// NewMetrics registers all collectors on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"method", "path", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_errors_total",
			Help: "Error responses by error code.",
		}, []string{"method", "path", "code"}),
		authFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "auth_failures_total",
			Help: "Rejected authentications by internal reason.",
		}, []string{"reason"}),
		authOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "auth_operations_total",
			Help: "Register, login and logout outcomes.",
		}, []string{"operation", "outcome"}),
		forbidden: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "auth_forbidden_total",
			Help: "Permission checks that denied access.",
		}, []string{"operation"}),
		revokedPruned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "revoked_tokens_pruned_total",
			Help: "Expired revocation entries removed.",
		}),
		auditEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "audit_events_total",
			Help: "Domain events handled by the audit subscriber.",
		}, []string{"type"}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests, m.duration, m.errors,
		m.authFailures, m.authOutcomes, m.forbidden,
		m.revokedPruned, m.auditEvents,
	)
	return m
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordRequest observes a finished request.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	code := strconv.Itoa(status)
	m.requests.WithLabelValues(method, path, code).Inc()
	m.duration.WithLabelValues(method, path, code).Observe(duration.Seconds())
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(method, path, code).Inc()
}

// RecordAuthFailure counts a rejected authentication.
func (m *Metrics) RecordAuthFailure(reason string) {
	if m == nil {
		return
	}
	m.authFailures.WithLabelValues(reason).Inc()
}

// RecordAuthOutcome counts the result of an AuthService operation.
func (m *Metrics) RecordAuthOutcome(operation, outcome string) {
	if m == nil {
		return
	}
	m.authOutcomes.WithLabelValues(operation, outcome).Inc()
}

// RecordForbidden counts a denied permission check.
func (m *Metrics) RecordForbidden(operation string) {
	if m == nil {
		return
	}
	m.forbidden.WithLabelValues(operation).Inc()
}

// RecordPruned adds n removed revocation entries.
func (m *Metrics) RecordPruned(n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.revokedPruned.Add(float64(n))
}

// RecordAuditEvent counts a handled domain event.
func (m *Metrics) RecordAuditEvent(eventType string) {
	if m == nil {
		return
	}
	m.auditEvents.WithLabelValues(eventType).Inc()
}
