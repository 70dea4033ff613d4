// Package metrics exposes prometheus counters for authentication outcomes and HTTP traffic.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "eduteach"

// Auth outcome labels.
const (
	ResultSuccess            = "success"
	ResultInvalidCredentials = "invalid_credentials"
	ResultDuplicate          = "duplicate"
	ResultInvalid            = "invalid"
	ResultError              = "error"
)

// Metrics groups the collectors registered by the server.
type Metrics struct {
	Logins        *prometheus.CounterVec
	Registrations *prometheus.CounterVec
	AuthFailures  *prometheus.CounterVec
	HTTPRequests  *prometheus.CounterVec
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "logins_total",
			Help:      "Login attempts by result.",
		}, []string{"result"}),
		Registrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "registrations_total",
			Help:      "Registration attempts by result.",
		}, []string{"result"}),
		AuthFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "failures_total",
			Help:      "Rejected bearer tokens by reason.",
		}, []string{"reason"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
	}
	reg.MustRegister(m.Logins, m.Registrations, m.AuthFailures, m.HTTPRequests)
	return m
}

// Noop returns metrics registered on a throwaway registry.
func Noop() *Metrics {
	return New(prometheus.NewRegistry())
}
