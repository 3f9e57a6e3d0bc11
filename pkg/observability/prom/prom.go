// Package prom implements the observability hooks with Prometheus collectors.
//
//	reg := prometheus.NewRegistry()
//	m := prom.New(reg)
//	m.Register() // install as the global hooks
//	http.Handle("/metrics", prom.Handler(reg))
package prom

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/flowdoc/pkg/observability"
)

const namespace = "flowdoc"

// Metrics holds every collector and implements all hook interfaces.
type Metrics struct {
	parseDuration     prometheus.Histogram
	parseElements     *prometheus.CounterVec
	parseWarnings     prometheus.Counter
	serializeDuration prometheus.Histogram
	serializeBytes    prometheus.Counter
	validateIssues    prometheus.Counter
	composeOps        *prometheus.CounterVec

	renderInFlight prometheus.Gauge
	renderDuration *prometheus.HistogramVec
	renderBytes    *prometheus.CounterVec
	renders        *prometheus.CounterVec

	cacheOps   *prometheus.CounterVec
	cacheBytes *prometheus.CounterVec

	httpInFlight prometheus.Gauge
	httpDuration *prometheus.HistogramVec
	httpRequests *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		parseDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "document",
			Name:      "parse_duration_seconds",
			Help:      "Time to parse flowchart source text",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}),
		parseElements: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "document",
			Name:      "parsed_elements_total",
			Help:      "Nodes and edges produced by the parser",
		}, []string{"kind"}),
		parseWarnings: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "document",
			Name:      "parse_warnings_total",
			Help:      "Warnings emitted by the parser",
		}),
		serializeDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "document",
			Name:      "serialize_duration_seconds",
			Help:      "Time to serialize a document to source text",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
		}),
		serializeBytes: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "document",
			Name:      "serialized_bytes_total",
			Help:      "Bytes of source text produced by the serializer",
		}),
		validateIssues: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "document",
			Name:      "validation_issues_total",
			Help:      "Integrity issues reported by the validator",
		}),
		composeOps: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "document",
			Name:      "compose_operations_total",
			Help:      "Editing operations by outcome (applied, refused, error)",
		}, []string{"op", "outcome"}),

		renderInFlight: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "render",
			Name:      "in_flight",
			Help:      "Renders currently running",
		}),
		renderDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "render",
			Name:      "duration_seconds",
			Help:      "Render latency in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"format"}),
		renderBytes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "render",
			Name:      "output_bytes_total",
			Help:      "Bytes of rendered images",
		}, []string{"format"}),
		renders: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "render",
			Name:      "total",
			Help:      "Renders by theme, format and status (ok, error)",
		}, []string{"theme", "format", "status"}),

		cacheOps: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "operations_total",
			Help:      "Cache lookups and writes by key type and result (hit, miss, set)",
		}, []string{"key_type", "result"}),
		cacheBytes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "written_bytes_total",
			Help:      "Bytes written to the cache",
		}, []string{"key_type"}),

		httpInFlight: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "HTTP requests currently being served",
		}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route and status code",
		}, []string{"method", "route", "code"}),
	}
}

// Register installs m as the global document, render, cache and HTTP hooks.
func (m *Metrics) Register() {
	observability.SetDocumentHooks(m)
	observability.SetRenderHooks(m)
	observability.SetCacheHooks(m)
	observability.SetHTTPHooks(m)
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

func (m *Metrics) OnParse(_ context.Context, nodes, edges, warnings int, d time.Duration) {
	m.parseDuration.Observe(d.Seconds())
	m.parseElements.WithLabelValues("node").Add(float64(nodes))
	m.parseElements.WithLabelValues("edge").Add(float64(edges))
	m.parseWarnings.Add(float64(warnings))
}

func (m *Metrics) OnSerialize(_ context.Context, size int, d time.Duration) {
	m.serializeDuration.Observe(d.Seconds())
	m.serializeBytes.Add(float64(size))
}

func (m *Metrics) OnValidate(_ context.Context, issues int) {
	m.validateIssues.Add(float64(issues))
}

func (m *Metrics) OnCompose(_ context.Context, op string, applied bool, err error) {
	outcome := "applied"
	switch {
	case err != nil:
		outcome = "error"
	case !applied:
		outcome = "refused"
	}
	m.composeOps.WithLabelValues(op, outcome).Inc()
}

func (m *Metrics) OnRenderStart(context.Context, string, string) {
	m.renderInFlight.Inc()
}

func (m *Metrics) OnRenderComplete(_ context.Context, theme, format string, size int, d time.Duration, failed bool) {
	m.renderInFlight.Dec()
	status := "ok"
	if failed {
		status = "error"
	}
	m.renders.WithLabelValues(theme, format, status).Inc()
	m.renderDuration.WithLabelValues(format).Observe(d.Seconds())
	m.renderBytes.WithLabelValues(format).Add(float64(size))
}

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.cacheOps.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.cacheOps.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.cacheOps.WithLabelValues(keyType, "set").Inc()
	m.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

func (m *Metrics) OnRequest(context.Context, string, string) {
	m.httpInFlight.Inc()
}

func (m *Metrics) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	m.httpInFlight.Dec()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}

var (
	_ observability.DocumentHooks = (*Metrics)(nil)
	_ observability.RenderHooks   = (*Metrics)(nil)
	_ observability.CacheHooks    = (*Metrics)(nil)
	_ observability.HTTPHooks     = (*Metrics)(nil)
)
