// Package metrics exposes Prometheus collectors for the gateway and the onboarding pipelines.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "onboarding"

// Metrics groups the collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	gatewayRequests *prometheus.CounterVec
	gatewayLatency  *prometheus.HistogramVec
	pipelineRuns    *prometheus.CounterVec
	repairFailures  prometheus.Counter
}

// New creates collectors registered on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		gatewayRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "gateway",
				Name:      "requests_total",
				Help:      "Record gateway calls by operation and result.",
			},
			[]string{"operation", "result"},
		),
		gatewayLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "gateway",
				Name:      "request_duration_seconds",
				Help:      "Duration of record gateway calls in seconds.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		pipelineRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "pipeline",
				Name:      "runs_total",
				Help:      "Dependent call pipeline outcomes by flow and stage.",
			},
			[]string{"flow", "status", "stage"},
		),
		repairFailures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "addresses",
				Name:      "default_repair_failures_total",
				Help:      "Second call of a default-address swap that failed.",
			},
		),
	}
	m.registry.MustRegister(m.gatewayRequests, m.gatewayLatency, m.pipelineRuns, m.repairFailures)
	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveGateway records one gateway call.
func (m *Metrics) ObserveGateway(operation string, err error, took time.Duration) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.gatewayRequests.WithLabelValues(operation, result).Inc()
	m.gatewayLatency.WithLabelValues(operation).Observe(took.Seconds())
}

// ObservePipeline records the outcome of one pipeline run.
func (m *Metrics) ObservePipeline(flow, status, stage string) {
	if m == nil {
		return
	}
	m.pipelineRuns.WithLabelValues(flow, status, stage).Inc()
}

// DefaultRepairFailed counts a failed best-effort default repair.
func (m *Metrics) DefaultRepairFailed() {
	if m == nil {
		return
	}
	m.repairFailures.Inc()
}
