// Package metrics exposes Prometheus collectors for the dashboard process.
package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/advcompro/garage-dashboard/internal/gateway"
	"github.com/advcompro/garage-dashboard/internal/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "garage"

// Metrics holds a private registry so tests and multiple instances do not collide
type Metrics struct {
	registry *prometheus.Registry

	customers      prometheus.Gauge
	activeRepairs  prometheus.Gauge
	mechanics      prometheus.Gauge
	storeEvents    *prometheus.CounterVec
	gatewayCalls   *prometheus.CounterVec
	gatewayLatency *prometheus.HistogramVec
	syncRuns       *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		customers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "customers",
			Help:      "Customers currently held by the store.",
		}),
		activeRepairs: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_repairs",
			Help:      "Customers whose car is not yet checked.",
		}),
		mechanics: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "mechanics",
			Help:      "Mechanics currently held by the store.",
		}),
		storeEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_events_total",
			Help:      "Store mutations by kind.",
		}, []string{"kind"}),
		gatewayCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "gateway",
			Name:      "requests_total",
			Help:      "Gateway calls by operation and outcome.",
		}, []string{"op", "outcome"}),
		gatewayLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "gateway",
			Name:      "request_duration_seconds",
			Help:      "Gateway call latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
		syncRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "runs_total",
			Help:      "Scheduled refresh runs by outcome.",
		}, []string{"outcome"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.customers,
		m.activeRepairs,
		m.mechanics,
		m.storeEvents,
		m.gatewayCalls,
		m.gatewayLatency,
		m.syncRuns,
	)
	return m
}

// ObserveStore is a store subscriber
func (m *Metrics) ObserveStore(ev store.Event) {
	m.storeEvents.WithLabelValues(string(ev.Kind)).Inc()
	m.customers.Set(float64(ev.TotalCustomers))
	m.activeRepairs.Set(float64(ev.ActiveRepairs))
	m.mechanics.Set(float64(ev.TotalMechanics))
}

// ObserveGateway matches gateway.Observer
func (m *Metrics) ObserveGateway(op string, d time.Duration, err error) {
	m.gatewayCalls.WithLabelValues(op, Outcome(err)).Inc()
	m.gatewayLatency.WithLabelValues(op).Observe(d.Seconds())
}

// ObserveSync records one scheduled refresh
func (m *Metrics) ObserveSync(err error) {
	m.syncRuns.WithLabelValues(Outcome(err)).Inc()
}

// Outcome maps an error to a low-cardinality label value
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, gateway.ErrTimeout):
		return "timeout"
	case errors.Is(err, gateway.ErrUnavailable):
		return "unavailable"
	case errors.Is(err, gateway.ErrRejected):
		return "rejected"
	default:
		return "error"
	}
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
