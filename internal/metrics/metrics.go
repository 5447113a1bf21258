package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type ServerMetrics struct {
	Requests     *prometheus.CounterVec
	LatencyMS    *prometheus.HistogramVec
	Upstream     *prometheus.CounterVec
	UpstreamMS   *prometheus.HistogramVec
	Replays      prometheus.Counter
	PublishFails prometheus.Counter

	registry *prometheus.Registry
}

var latencyBuckets = []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000}

// NewServerMetrics registers the collectors on a private registry, so several
// instances (tests, lambda warm starts) never collide.
func NewServerMetrics(service string) *ServerMetrics {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pedidos",
		Subsystem: service,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"handler", "method", "status"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "pedidos",
		Subsystem: service,
		Name:      "http_request_duration_ms",
		Help:      "HTTP request latency in milliseconds.",
		Buckets:   latencyBuckets,
	}, []string{"handler"})
	upstream := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pedidos",
		Subsystem: service,
		Name:      "upstream_calls_total",
		Help:      "Calls to the users and products services by outcome.",
	}, []string{"upstream", "outcome"})
	upstreamLatency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "pedidos",
		Subsystem: service,
		Name:      "upstream_call_duration_ms",
		Help:      "Upstream call latency in milliseconds.",
		Buckets:   latencyBuckets,
	}, []string{"upstream"})
	replays := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "pedidos",
		Subsystem: service,
		Name:      "idempotent_replays_total",
		Help:      "POST requests answered from a stored idempotency record.",
	})
	publishFails := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "pedidos",
		Subsystem: service,
		Name:      "event_publish_failures_total",
		Help:      "Pedido events that could not be sent.",
	})

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		requests, latency, upstream, upstreamLatency, replays, publishFails,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return &ServerMetrics{
		Requests:     requests,
		LatencyMS:    latency,
		Upstream:     upstream,
		UpstreamMS:   upstreamLatency,
		Replays:      replays,
		PublishFails: publishFails,
		registry:     reg,
	}
}

// ObserveRequest records one served HTTP request. handler is the route
// template, never the raw path.
func (m *ServerMetrics) ObserveRequest(handler, method string, status int, elapsed time.Duration) {
	m.Requests.WithLabelValues(handler, method, strconv.Itoa(status)).Inc()
	m.LatencyMS.WithLabelValues(handler).Observe(ms(elapsed))
}

// ObserveUpstream records one call to a sibling service.
func (m *ServerMetrics) ObserveUpstream(service, outcome string, elapsed time.Duration) {
	m.Upstream.WithLabelValues(service, outcome).Inc()
	m.UpstreamMS.WithLabelValues(service).Observe(ms(elapsed))
}

func (m *ServerMetrics) IncReplay() { m.Replays.Inc() }
func (m *ServerMetrics) IncPublishFailure() { m.PublishFails.Inc() }

// Handler exposes the registry in the Prometheus text format.
func (m *ServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
