package server

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/josz009/folio/pkg/observability"
)

var histogramBuckets = []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10}

// metrics holds every collector folio exports. Its methods implement the
// observability hook interfaces so library packages report through it.
type metrics struct {
	registry *prometheus.Registry

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	upstream        *prometheus.CounterVec
	upstreamLatency *prometheus.HistogramVec
	upstreamErrors  *prometheus.CounterVec
	cacheOps        *prometheus.CounterVec
	cacheBytes      *prometheus.CounterVec
	loads           *prometheus.CounterVec
	loadDuration    prometheus.Histogram
	events          *prometheus.CounterVec
	activeViews     *prometheus.GaugeVec
	streamClients   *prometheus.GaugeVec
}

func newMetrics(reg *prometheus.Registry) *metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := &metrics{
		registry: reg,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "folio", Subsystem: "http",
			Name: "requests_total", Help: "Count of processed HTTP requests",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "folio", Subsystem: "http",
			Name: "request_duration_seconds", Help: "Latency distribution of HTTP handlers",
			Buckets: histogramBuckets,
		}, []string{"method", "route"}),
		upstream: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "folio", Subsystem: "upstream",
			Name: "responses_total", Help: "Responses received from upstream APIs",
		}, []string{"host", "status"}),
		upstreamLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "folio", Subsystem: "upstream",
			Name: "request_duration_seconds", Help: "Latency of upstream API requests",
			Buckets: histogramBuckets,
		}, []string{"host"}),
		upstreamErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "folio", Subsystem: "upstream",
			Name: "errors_total", Help: "Upstream requests that failed without a response",
		}, []string{"host"}),
		cacheOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "folio", Subsystem: "cache",
			Name: "operations_total", Help: "Cache lookups and stores by outcome",
		}, []string{"namespace", "op"}),
		cacheBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "folio", Subsystem: "cache",
			Name: "stored_bytes_total", Help: "Bytes written to the cache",
		}, []string{"namespace"}),
		loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "folio", Subsystem: "portfolio",
			Name: "loads_total", Help: "Project list loads by outcome",
		}, []string{"degraded"}),
		loadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "folio", Subsystem: "portfolio",
			Name: "load_duration_seconds", Help: "Time to fetch and reconcile projects",
			Buckets: histogramBuckets,
		}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "folio", Subsystem: "siem",
			Name: "events_total", Help: "Synthetic security events generated",
		}, []string{"view", "severity"}),
		activeViews: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "folio", Subsystem: "siem",
			Name: "active", Help: "1 while the view's simulator is running",
		}, []string{"view"}),
		streamClients: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "folio", Subsystem: "siem",
			Name: "stream_clients", Help: "Connected event stream subscribers",
		}, []string{"view"}),
	}
	reg.MustRegister(
		m.requests, m.requestDuration,
		m.upstream, m.upstreamLatency, m.upstreamErrors,
		m.cacheOps, m.cacheBytes,
		m.loads, m.loadDuration,
		m.events, m.activeViews, m.streamClients,
	)
	return m
}

// install routes library hooks to m.
func (m *metrics) install() {
	observability.SetHTTPHooks(m)
	observability.SetCacheHooks(m)
	observability.SetLoaderHooks(m)
	observability.SetSimulatorHooks(m)
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *metrics) observeRequest(method, route string, status int, elapsed time.Duration) {
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (m *metrics) OnRequest(context.Context, string, string, string) {}

func (m *metrics) OnResponse(_ context.Context, _ string, host, _ string, status int, elapsed time.Duration) {
	m.upstream.WithLabelValues(host, strconv.Itoa(status)).Inc()
	m.upstreamLatency.WithLabelValues(host).Observe(elapsed.Seconds())
}

func (m *metrics) OnError(_ context.Context, _ string, host, _ string, _ error) {
	m.upstreamErrors.WithLabelValues(host).Inc()
}

func (m *metrics) OnCacheHit(_ context.Context, ns string) {
	m.cacheOps.WithLabelValues(ns, "hit").Inc()
}

func (m *metrics) OnCacheMiss(_ context.Context, ns string) {
	m.cacheOps.WithLabelValues(ns, "miss").Inc()
}

func (m *metrics) OnCacheSet(_ context.Context, ns string, size int) {
	m.cacheOps.WithLabelValues(ns, "set").Inc()
	m.cacheBytes.WithLabelValues(ns).Add(float64(size))
}

func (m *metrics) OnLoad(_ context.Context, _ string, _ int, degraded bool, elapsed time.Duration) {
	m.loads.WithLabelValues(strconv.FormatBool(degraded)).Inc()
	m.loadDuration.Observe(elapsed.Seconds())
}

func (m *metrics) OnActivate(view string)   { m.activeViews.WithLabelValues(view).Set(1) }
func (m *metrics) OnDeactivate(view string) { m.activeViews.WithLabelValues(view).Set(0) }

func (m *metrics) OnEvent(view, severity string) {
	m.events.WithLabelValues(view, severity).Inc()
}
