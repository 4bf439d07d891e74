// Package metrics tracks order/trade/settlement counters and exposes them
// two ways: cheap atomic reads for the /health endpoint, and a Prometheus
// registry at /metrics.
package metrics

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds thread-safe counters for the trading platform.
type Metrics struct {
	StartTime time.Time

	OrdersReceived atomic.Int64
	OrdersRejected atomic.Int64
	TradesExecuted atomic.Int64
	TxAppended     atomic.Int64

	registry       *prometheus.Registry
	ordersReceived prometheus.Counter
	ordersRejected prometheus.Counter
	tradesExecuted prometheus.Counter
	orderLatency   prometheus.Histogram
}

// New creates a Metrics instance with its own Prometheus registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		StartTime: time.Now(),
		registry:  registry,
		ordersReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "trading_platform_orders_received_total",
			Help: "Total number of orders accepted by the platform.",
		}),
		ordersRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "trading_platform_orders_rejected_total",
			Help: "Total number of orders for which the platform returned an error.",
		}),
		tradesExecuted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "trading_platform_trades_executed_total",
			Help: "Total number of matches settled against accounts.",
		}),
		orderLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "trading_platform_order_latency_seconds",
			Help:    "Time to process and settle a single order.",
			Buckets: prometheus.DefBuckets,
		}),
	}

	registry.MustRegister(m.ordersReceived, m.ordersRejected, m.tradesExecuted, m.orderLatency)
	return m
}

// Handler returns the Prometheus exposition HTTP handler for /metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordAccepted records an order that was accepted for matching, along
// with the number of trades it produced and how long processing took.
func (m *Metrics) RecordAccepted(trades int, elapsed time.Duration) {
	m.OrdersReceived.Add(1)
	m.ordersReceived.Inc()

	if trades > 0 {
		m.TradesExecuted.Add(int64(trades))
		m.tradesExecuted.Add(float64(trades))
	}

	m.orderLatency.Observe(elapsed.Seconds())
}

// RecordRejected records an order for which the platform returned an
// error, whether it was rejected before matching or failed at settlement.
func (m *Metrics) RecordRejected() {
	m.OrdersRejected.Add(1)
	m.ordersRejected.Inc()
}

// RecordTx records an account-level transaction being appended to the log.
func (m *Metrics) RecordTx(count int) {
	m.TxAppended.Add(int64(count))
}

// Uptime returns how long this Metrics instance has been running.
func (m *Metrics) Uptime() time.Duration {
	return time.Since(m.StartTime)
}
