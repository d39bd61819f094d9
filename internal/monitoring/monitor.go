package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Monitor collects and provides metrics for the order service
type Monitor struct {
	ordersCreated prometheus.Counter
	ordersUpdated prometheus.Counter
	ordersDeleted prometheus.Counter
	eventsSent    prometheus.Counter
	subscribers   prometheus.Gauge
	startTime     time.Time
}

// NewMonitor creates a monitor registered against reg.
func NewMonitor(reg prometheus.Registerer) *Monitor {
	m := &Monitor{
		ordersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "qrmenu_orders_created_total",
			Help: "Number of orders created.",
		}),
		ordersUpdated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "qrmenu_orders_updated_total",
			Help: "Number of order status updates.",
		}),
		ordersDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "qrmenu_orders_deleted_total",
			Help: "Number of orders deleted.",
		}),
		eventsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "qrmenu_broadcast_events_total",
			Help: "Number of events broadcast to subscribers.",
		}),
		subscribers: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "qrmenu_dashboard_subscribers",
			Help: "Currently connected dashboard subscribers.",
		}),
		startTime: time.Now(),
	}
	reg.MustRegister(m.ordersCreated, m.ordersUpdated, m.ordersDeleted, m.eventsSent, m.subscribers)
	return m
}

// RecordOrderCreated counts a successful order creation.
func (m *Monitor) RecordOrderCreated() {
	if m == nil {
		return
	}
	m.ordersCreated.Inc()
}

// RecordOrderUpdated counts a successful status update.
func (m *Monitor) RecordOrderUpdated() {
	if m == nil {
		return
	}
	m.ordersUpdated.Inc()
}

// RecordOrderDeleted counts a successful deletion.
func (m *Monitor) RecordOrderDeleted() {
	if m == nil {
		return
	}
	m.ordersDeleted.Inc()
}

// RecordBroadcast counts an event fanned out to subscribers.
func (m *Monitor) RecordBroadcast() {
	if m == nil {
		return
	}
	m.eventsSent.Inc()
}

// SubscriberConnected tracks a new dashboard connection.
func (m *Monitor) SubscriberConnected() {
	if m == nil {
		return
	}
	m.subscribers.Inc()
}

// SubscriberDisconnected tracks a dropped dashboard connection.
func (m *Monitor) SubscriberDisconnected() {
	if m == nil {
		return
	}
	m.subscribers.Dec()
}

// Uptime returns how long the monitor has been alive.
func (m *Monitor) Uptime() time.Duration {
	if m == nil {
		return 0
	}
	return time.Since(m.startTime)
}
