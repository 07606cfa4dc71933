// Package metrics exposes Prometheus collectors for the sign-in flow, route gating,
// and calls to the plant backend. Every method is safe on a nil *Metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	obserrors "github.com/aquaflow/aquaflow-ui/internal/observability/errors"
)

// Result constants for metric labels.
const (
	ResultSuccess = "success"
	ResultError   = "error"
	ResultNoop    = "noop"
)

const namespace = "aquaflow"

// Metrics holds all Prometheus collectors.
type Metrics struct {
	registry *prometheus.Registry

	SessionExchanges     *prometheus.CounterVec
	SessionExchangeDedup prometheus.Counter
	Logouts              *prometheus.CounterVec
	RouteDecisions       *prometheus.CounterVec
	BackendRequests      *prometheus.CounterVec
	BackendDuration      *prometheus.HistogramVec
	Exports              *prometheus.CounterVec
}

// New creates and registers all collectors on registry. A nil registry gets a fresh one
// with the Go and process collectors attached.
func New(registry *prometheus.Registry) *Metrics {
	if registry == nil {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	m := &Metrics{
		registry: registry,
		SessionExchanges: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "session_exchanges_total",
				Help:      "Login callback session exchanges by result",
			},
			[]string{"result", "error_class"},
		),
		SessionExchangeDedup: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "session_exchange_duplicates_total",
				Help:      "Callback invocations that joined an exchange already in flight or finished",
			},
		),
		Logouts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "logouts_total",
				Help:      "Sessions ended by reason",
			},
			[]string{"reason"},
		),
		RouteDecisions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "route_decisions_total",
				Help:      "Protected route decisions by page and outcome",
			},
			[]string{"page", "outcome"},
		),
		BackendRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "backend_requests_total",
				Help:      "Requests to the plant backend by operation and status",
			},
			[]string{"operation", "status"},
		),
		BackendDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "backend_request_duration_seconds",
				Help:      "Plant backend request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		Exports: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "exports_total",
				Help:      "Spreadsheet exports by kind and result",
			},
			[]string{"kind", "result"},
		),
	}

	registry.MustRegister(
		m.SessionExchanges,
		m.SessionExchangeDedup,
		m.Logouts,
		m.RouteDecisions,
		m.BackendRequests,
		m.BackendDuration,
		m.Exports,
	)
	return m
}

// Registry returns the registry the collectors live on.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveSessionExchange records the outcome of a backend session exchange.
func (m *Metrics) ObserveSessionExchange(err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.SessionExchanges.WithLabelValues(ResultError, obserrors.Classify(err)).Inc()
		return
	}
	m.SessionExchanges.WithLabelValues(ResultSuccess, "").Inc()
}

// ObserveSessionExchangeDuplicate records a callback that did not trigger an exchange.
func (m *Metrics) ObserveSessionExchangeDuplicate() {
	if m == nil {
		return
	}
	m.SessionExchangeDedup.Inc()
}

// ObserveLogout records a session ending; reason is "user" or "unauthorized".
func (m *Metrics) ObserveLogout(reason string) {
	if m == nil {
		return
	}
	m.Logouts.WithLabelValues(reason).Inc()
}

// ObserveRouteDecision records a protected route decision.
func (m *Metrics) ObserveRouteDecision(page, outcome string) {
	if m == nil {
		return
	}
	m.RouteDecisions.WithLabelValues(page, outcome).Inc()
}

// ObserveBackendRequest records a backend call. status 0 means the request never got a response.
func (m *Metrics) ObserveBackendRequest(operation string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	label := "transport_error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	m.BackendRequests.WithLabelValues(operation, label).Inc()
	m.BackendDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// ObserveExport records a spreadsheet export attempt.
func (m *Metrics) ObserveExport(kind string, err error) {
	if m == nil {
		return
	}
	result := ResultSuccess
	if err != nil {
		result = ResultError
	}
	m.Exports.WithLabelValues(kind, result).Inc()
}
