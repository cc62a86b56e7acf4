// Package metrics exposes the service's Prometheus counters from a private
// registry. A nil *Metrics is valid and records nothing.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service counters.
type Metrics struct {
	registry *prometheus.Registry

	provisioning *prometheus.CounterVec
	guard        *prometheus.CounterVec
	teardown     *prometheus.CounterVec
	logins       *prometheus.CounterVec
	requests     *prometheus.CounterVec
}

// New creates and registers all collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		provisioning: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ats_provisioning_total",
			Help: "Tenant provisioning attempts by result.",
		}, []string{"result"}),
		guard: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ats_guard_decisions_total",
			Help: "Navigation guard decisions.",
		}, []string{"decision"}),
		teardown: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ats_teardown_total",
			Help: "Credential teardown runs by outcome.",
		}, []string{"outcome"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ats_logins_total",
			Help: "Password logins by result.",
		}, []string{"result"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ats_http_requests_total",
			Help: "HTTP requests by method and status class.",
		}, []string{"method", "status"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.provisioning,
		m.guard,
		m.teardown,
		m.logins,
		m.requests,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Provisioning counts a provisioning attempt.
func (m *Metrics) Provisioning(result string) {
	if m == nil {
		return
	}
	m.provisioning.WithLabelValues(result).Inc()
}

// GuardDecision counts a navigation guard decision.
func (m *Metrics) GuardDecision(decision string) {
	if m == nil {
		return
	}
	m.guard.WithLabelValues(decision).Inc()
}

// Teardown counts a teardown run.
func (m *Metrics) Teardown(complete bool) {
	if m == nil {
		return
	}
	outcome := "complete"
	if !complete {
		outcome = "partial"
	}
	m.teardown.WithLabelValues(outcome).Inc()
}

// Login counts a login attempt.
func (m *Metrics) Login(result string) {
	if m == nil {
		return
	}
	m.logins.WithLabelValues(result).Inc()
}

// Request counts a served HTTP request.
func (m *Metrics) Request(method string, status int) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, strconv.Itoa(status/100)+"xx").Inc()
}
