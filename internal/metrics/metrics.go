// Package metrics exposes the process's Prometheus counters and gauges
// for operational visibility into the aggregation engine: adapter
// disconnects, merge emissions, and active subscriptions.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds every counter/gauge the aggregator reports. A process
// owns exactly one Metrics instance, shared read-only across
// subscriptions.
type Metrics struct {
	registry *prometheus.Registry

	SubscriptionsActive prometheus.Gauge
	AdapterDisconnects  *prometheus.CounterVec
	AdapterDecodeErrors *prometheus.CounterVec
	MergeEmissionsTotal prometheus.Counter
}

// New constructs a Metrics instance bound to a fresh registry, so the
// process's own Go-runtime metrics don't leak into it by default.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	return &Metrics{
		registry: registry,
		SubscriptionsActive: promauto.With(registry).NewGauge(prometheus.GaugeOpts{
			Name: "orderbook_subscriptions_active",
			Help: "Number of BookSummary RPC subscriptions currently streaming.",
		}),
		AdapterDisconnects: promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
			Name: "orderbook_adapter_disconnects_total",
			Help: "Total number of feed adapter disconnects, by venue.",
		}, []string{"venue"}),
		AdapterDecodeErrors: promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
			Name: "orderbook_adapter_decode_errors_total",
			Help: "Total number of per-frame decode errors, by venue.",
		}, []string{"venue"}),
		MergeEmissionsTotal: promauto.With(registry).NewCounter(prometheus.CounterOpts{
			Name: "orderbook_merge_emissions_total",
			Help: "Total number of merged views emitted by the merge engine across all subscriptions.",
		}),
	}
}

// Handler returns the HTTP handler that serves this registry's metrics
// in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
