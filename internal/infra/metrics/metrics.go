// Package metrics holds the Prometheus instrumentation for the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Auth outcome label values.
const (
	TypeRegister = "register"
	TypeLogin    = "login"
	TypeRefresh  = "refresh"
	TypeGate     = "gate"
)

// Metrics bundles every collector the service exposes. A single instance is
// created at startup and injected where counters are incremented.
type Metrics struct {
	RequestCount   *prometheus.CounterVec
	RequestLatency *prometheus.HistogramVec

	StringsSaved     prometheus.Counter
	StringsRetrieved prometheus.Counter

	AuthSuccess *prometheus.CounterVec
	AuthFailure *prometheus.CounterVec
}

// New registers all collectors on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		RequestCount: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "stringbox_http_requests_total",
			Help: "Total HTTP requests",
		}, []string{"method", "path", "status"}),
		RequestLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "stringbox_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		StringsSaved: factory.NewCounter(prometheus.CounterOpts{
			Name: "stringbox_strings_saved_total",
			Help: "Number of strings saved",
		}),
		StringsRetrieved: factory.NewCounter(prometheus.CounterOpts{
			Name: "stringbox_strings_retrieved_total",
			Help: "Number of strings retrieved",
		}),
		AuthSuccess: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "stringbox_auth_success_total",
			Help: "Authentication success count",
		}, []string{"type"}),
		AuthFailure: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "stringbox_auth_failure_total",
			Help: "Authentication failure count",
		}, []string{"type"}),
	}
}

// NewDefault registers the collectors on the default Prometheus registry.
// Used as the fx provider in production wiring.
func NewDefault() *Metrics {
	return New(prometheus.DefaultRegisterer)
}
