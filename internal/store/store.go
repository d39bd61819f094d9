package store

import (
	"context"
	"errors"
	"fmt"

	"qrmenu/internal/models"
)

// ErrNotFound indicates the requested order does not exist.
var ErrNotFound = errors.New("order not found")

// PersistenceError wraps a backing-store read or write failure. It is surfaced
// as a 500 and the process keeps running; subsequent calls re-probe
// connectivity and may degrade to the in-memory fallback.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Store persists order records. The store is the sole owner of orders; every
// other component operates on copies obtained through it.
type Store interface {
	// Create persists a fully-formed order.
	Create(ctx context.Context, order *models.Order) error
	// Find returns the order with the given orderId, or ErrNotFound.
	Find(ctx context.Context, orderID int) (*models.Order, error)
	// FindAll returns orders newest-first, filtered by status when status is
	// non-empty.
	FindAll(ctx context.Context, status models.OrderStatus) ([]models.Order, error)
	// UpdateStatus sets the order's status and refreshes updatedAt.
	UpdateStatus(ctx context.Context, orderID int, status models.OrderStatus) (*models.Order, error)
	// Delete removes the order, or returns ErrNotFound.
	Delete(ctx context.Context, orderID int) error
	// NextID returns the next unused orderId.
	NextID(ctx context.Context) (int, error)
}
