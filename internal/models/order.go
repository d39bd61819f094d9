package models

import (
	"time"
)

// Order represents a customer order submitted from the menu
type Order struct {
	ID        uint        `json:"-" gorm:"primary_key"`
	OrderID   int         `json:"orderId" gorm:"unique_index"`
	Items     []OrderItem `json:"items" gorm:"foreignkey:OrderRef"`
	Total     float64     `json:"total"`
	Status    OrderStatus `json:"status" gorm:"index:idx_orders_status_created"`
	CreatedAt time.Time   `json:"createdAt" gorm:"index:idx_orders_status_created"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// OrderItem represents a menu item line within an order
type OrderItem struct {
	ID       uint    `json:"-" gorm:"primary_key"`
	OrderRef uint    `json:"-" gorm:"index"`
	ItemID   string  `json:"id"`
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// OrderStatus represents the possible states of an order
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusAccepted  OrderStatus = "accepted"
	StatusPreparing OrderStatus = "preparing"
	StatusReady     OrderStatus = "ready"
	StatusCompleted OrderStatus = "completed"
)

// Statuses lists every recognized status in progression order.
var Statuses = []OrderStatus{
	StatusPending,
	StatusAccepted,
	StatusPreparing,
	StatusReady,
	StatusCompleted,
}

// next maps each status to its sole successor. Completed is terminal.
var next = map[OrderStatus]OrderStatus{
	StatusPending:   StatusAccepted,
	StatusAccepted:  StatusPreparing,
	StatusPreparing: StatusReady,
	StatusReady:     StatusCompleted,
}

// Next returns the status following s. The second return is false when s is
// terminal or unrecognized.
func (s OrderStatus) Next() (OrderStatus, bool) {
	n, ok := next[s]
	return n, ok
}

// IsValid reports whether s is one of the five recognized statuses.
func (s OrderStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusPreparing, StatusReady, StatusCompleted:
		return true
	default:
		return false
	}
}

func (s OrderStatus) String() string { return string(s) }

// IsTerminal reports whether no further transition exists from s.
func (s OrderStatus) IsTerminal() bool {
	_, ok := next[s]
	return !ok
}
