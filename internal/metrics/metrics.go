package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// HTTPMetrics mede as requisições por rota.
type HTTPMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	if reg == nil {
		return &HTTPMetrics{}
	}
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
	reg.MustRegister(requests, duration)

	return &HTTPMetrics{requests: requests, duration: duration}
}

func (m *HTTPMetrics) Observe(method, route string, status int, elapsed time.Duration) {
	if m == nil || m.requests == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.duration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// WorkOrderMetrics conta eventos do ciclo de vida das ordens.
type WorkOrderMetrics struct {
	events *prometheus.CounterVec
}

func NewWorkOrderMetrics(reg prometheus.Registerer) *WorkOrderMetrics {
	if reg == nil {
		return &WorkOrderMetrics{}
	}
	events := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "work_order_events_total",
		Help: "Work order lifecycle events (created, updated, completed, deleted, part_added, part_deleted).",
	}, []string{"event"})
	reg.MustRegister(events)

	return &WorkOrderMetrics{events: events}
}

func (m *WorkOrderMetrics) Inc(event string) {
	if m == nil || m.events == nil {
		return
	}
	m.events.WithLabelValues(event).Inc()
}
