package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestHTTPMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	m.Observe("GET", "/api/work-orders/:id", 200, 30*time.Millisecond)
	m.Observe("GET", "/api/work-orders/:id", 200, 10*time.Millisecond)
	m.Observe("GET", "", 404, time.Millisecond)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.requests.WithLabelValues("GET", "/api/work-orders/:id", "200")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.requests.WithLabelValues("GET", "unmatched", "404")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.duration))
}

func TestWorkOrderMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWorkOrderMetrics(reg)

	m.Inc("created")
	m.Inc("created")
	m.Inc("completed")

	assert.Equal(t, float64(2), testutil.ToFloat64(m.events.WithLabelValues("created")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.events.WithLabelValues("completed")))
}

func TestNilRegistererIsNoop(t *testing.T) {
	var w *WorkOrderMetrics
	w.Inc("created")
	NewWorkOrderMetrics(nil).Inc("created")
	NewHTTPMetrics(nil).Observe("GET", "/", 200, time.Second)
}
