package observability

import (
	"io"
	"net/http"
	"strings"
	"time"
)

// Metrics holds the process-wide counters exposed on /metrics in Prometheus text format.
type Metrics struct {
	apiRequests  *CounterVec
	apiLatency   *HistogramVec
	apiInflight  *Gauge
	storeOps     *CounterVec
	storeLatency *HistogramVec
	storeRows    *CounterVec
}

func NewMetrics() *Metrics {
	return &Metrics{
		apiRequests: NewCounterVec("clientcontacts_http_requests_total", "HTTP requests by method, route and status.", []string{"method", "route", "status"}),
		apiLatency:  NewHistogramVec("clientcontacts_http_request_duration_seconds", "HTTP request latency.", []string{"method", "route"}, nil),
		apiInflight: NewGauge("clientcontacts_http_inflight_requests", "HTTP requests currently being served."),
		storeOps:    NewCounterVec("clientcontacts_store_operations_total", "Unit-of-work operations by name and outcome code.", []string{"op", "status"}),
		storeLatency: NewHistogramVec("clientcontacts_store_operation_duration_seconds", "Unit-of-work operation latency.", []string{"op"},
			[]float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1}),
		storeRows: NewCounterVec("clientcontacts_store_rows_affected_total", "Rows written by committed units of work.", []string{"op"}),
	}
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	method = strings.ToUpper(method)
	m.apiRequests.Inc(method, route, status)
	m.apiLatency.Observe(dur.Seconds(), method, route)
}

func (m *Metrics) APIInflightInc() {
	if m != nil {
		m.apiInflight.Add(1)
	}
}

func (m *Metrics) APIInflightDec() {
	if m != nil {
		m.apiInflight.Add(-1)
	}
}

func (m *Metrics) ObserveStoreOperation(op, status string, rows int, dur time.Duration) {
	if m == nil {
		return
	}
	m.storeOps.Inc(op, status)
	m.storeLatency.Observe(dur.Seconds(), op)
	if rows > 0 {
		m.storeRows.Add(float64(rows), op)
	}
}

// StoreOperations reads the counter for one (op, status) pair.
func (m *Metrics) StoreOperations(op, status string) float64 {
	if m == nil {
		return 0
	}
	return m.storeOps.Value(op, status)
}

func (m *Metrics) WriteHTTP(w http.ResponseWriter, _ *http.Request) {
	if m == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	_ = m.WritePrometheus(w)
}

func (m *Metrics) WritePrometheus(w io.Writer) error {
	if m == nil {
		return nil
	}
	for _, c := range []interface{ WritePrometheus(io.Writer) error }{
		m.apiRequests, m.apiLatency, m.apiInflight, m.storeOps, m.storeLatency, m.storeRows,
	} {
		if err := c.WritePrometheus(w); err != nil {
			return err
		}
	}
	return nil
}
