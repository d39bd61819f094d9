package main

import (
	"sort"
	"time"
)

// Order mirrors the server's order wire shape.
type Order struct {
	OrderID   int         `json:"orderId"`
	Items     []OrderItem `json:"items"`
	Total     float64     `json:"total"`
	Status    string      `json:"status"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// OrderItem represents an item line in an order
type OrderItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// statusLabels maps each status to the action label shown on the dashboard.
var statusLabels = map[string]string{
	"pending":   "Accept",
	"accepted":  "Start preparing",
	"preparing": "Mark ready",
	"ready":     "Complete",
}

// Mirror is the dashboard's local copy of all orders, reconciled from the
// initial snapshot plus incremental events. It is only ever mutated from the
// UI loop, so it needs no locking.
type Mirror struct {
	orders []Order
}

// NewMirror creates an empty mirror.
func NewMirror() *Mirror {
	return &Mirror{}
}

// Load replaces the mirror with a full snapshot.
func (m *Mirror) Load(orders []Order) {
	m.orders = append(m.orders[:0:0], orders...)
}

// Add appends a newly created order. Duplicate deliveries are ignored.
func (m *Mirror) Add(order Order) {
	for i := range m.orders {
		if m.orders[i].OrderID == order.OrderID {
			return
		}
	}
	m.orders = append(m.orders, order)
}

// Update replaces the matching order. An unknown id is acceptable staleness
// and is a no-op; the next snapshot reconciles it.
func (m *Mirror) Update(order Order) {
	for i := range m.orders {
		if m.orders[i].OrderID == order.OrderID {
			m.orders[i] = order
			return
		}
	}
}

// Remove drops the order with the given id, if known.
func (m *Mirror) Remove(orderID int) {
	for i := range m.orders {
		if m.orders[i].OrderID == orderID {
			m.orders = append(m.orders[:i], m.orders[i+1:]...)
			return
		}
	}
}

// Active returns non-completed orders, newest first.
func (m *Mirror) Active() []Order {
	var out []Order
	for _, o := range m.orders {
		if o.Status != "completed" {
			out = append(out, o)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// Completed returns completed orders, most recently updated first.
func (m *Mirror) Completed() []Order {
	var out []Order
	for _, o := range m.orders {
		if o.Status == "completed" {
			out = append(out, o)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out
}

// Counts returns the number of orders per status.
func (m *Mirror) Counts() map[string]int {
	counts := make(map[string]int)
	for _, o := range m.orders {
		counts[o.Status]++
	}
	return counts
}

// Len returns the total number of mirrored orders.
func (m *Mirror) Len() int {
	return len(m.orders)
}

// actionLabel returns the dashboard button label for an order's status, or
// "" for terminal orders.
func actionLabel(status string) string {
	return statusLabels[status]
}
