// Package telemetry exposes the service's Prometheus collectors.
package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "booking_analytics"

// Metrics satisfies the observer hooks of the hub, the dispatcher and the engine.
type Metrics struct {
	registry *prometheus.Registry

	viewers            prometheus.Gauge
	broadcasts         *prometheus.CounterVec
	droppedFrames      prometheus.Counter
	watchState         *prometheus.GaugeVec
	polling            prometheus.Gauge
	aggregationFailure *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.viewers = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "connected_viewers",
		Help:      "Viewers currently connected to the push channel",
	})
	m.broadcasts = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "broadcasts_total",
		Help:      "Events broadcast to all viewers",
	}, []string{"event"})
	m.droppedFrames = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "dropped_frames_total",
		Help:      "Frames dropped because a viewer queue was full",
	})
	m.watchState = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "watch_state",
		Help:      "Change watch state (0 initializing, 1 subscribed, 2 reconnecting, 3 unavailable)",
	}, []string{"watch"})
	m.polling = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "polling_active",
		Help:      "1 while the polling fallback is running",
	})
	m.aggregationFailure = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "aggregation_failures_total",
		Help:      "Failed view computations by view",
	}, []string{"view"})

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.viewers, m.broadcasts, m.droppedFrames,
		m.watchState, m.polling, m.aggregationFailure,
	)
	return m
}

func (m *Metrics) ViewerConnected()         { m.viewers.Inc() }
func (m *Metrics) ViewerDisconnected()      { m.viewers.Dec() }
func (m *Metrics) Broadcasted(event string) { m.broadcasts.WithLabelValues(event).Inc() }
func (m *Metrics) FrameDropped()            { m.droppedFrames.Inc() }

func (m *Metrics) WatchStateChanged(watch string, state int) {
	m.watchState.WithLabelValues(watch).Set(float64(state))
}

func (m *Metrics) PollingActive(active bool) {
	if active {
		m.polling.Set(1)
		return
	}
	m.polling.Set(0)
}

func (m *Metrics) AggregationFailed(view string) {
	m.aggregationFailure.WithLabelValues(view).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
