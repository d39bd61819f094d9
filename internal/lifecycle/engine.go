// Package lifecycle enforces the order state machine: submission validation,
// id assignment, and forward-only status progression.
package lifecycle

import (
	"context"
	"time"

	"qrmenu/internal/models"
	"qrmenu/internal/monitoring"
	"qrmenu/internal/store"
)

// Broadcaster receives exactly one event for every successful mutation, in
// store-commit order.
type Broadcaster interface {
	OrderCreated(order models.Order)
	OrderUpdated(order models.Order)
	OrderDeleted(orderID int)
}

// Engine coordinates order mutations: it validates, writes through the store,
// and notifies the broadcaster after each committed change.
type Engine struct {
	store   store.Store
	events  Broadcaster
	monitor *monitoring.Monitor
}

// NewEngine creates an engine over the given store and broadcaster.
func NewEngine(s store.Store, events Broadcaster, monitor *monitoring.Monitor) *Engine {
	return &Engine{store: s, events: events, monitor: monitor}
}

// Submit validates and persists a new order with status pending.
//
// Only the creation-time invariants the menu client relies on are enforced:
// items non-empty and total > 0. The total is not re-derived from item prices
// server-side, so a crafted client can submit a mismatched total; re-deriving
// it here is a known hardening opportunity.
func (e *Engine) Submit(ctx context.Context, items []models.OrderItem, total float64) (*models.Order, error) {
	if len(items) == 0 {
		return nil, models.ErrEmptyOrder
	}
	if total <= 0 {
		return nil, models.ErrInvalidTotal
	}

	id, err := e.store.NextID(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	order := &models.Order{
		OrderID:   id,
		Items:     items,
		Total:     total,
		Status:    models.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := e.store.Create(ctx, order); err != nil {
		return nil, err
	}

	e.monitor.RecordOrderCreated()
	e.events.OrderCreated(*order)
	return order, nil
}

// Advance moves the order to the status following its current one. This is
// the recommended lifecycle path; it fails with ErrInvalidTransition once the
// order is completed.
func (e *Engine) Advance(ctx context.Context, orderID int) (*models.Order, error) {
	current, err := e.store.Find(ctx, orderID)
	if err != nil {
		return nil, err
	}
	nextStatus, ok := current.Status.Next()
	if !ok {
		return nil, models.ErrInvalidTransition
	}

	updated, err := e.store.UpdateStatus(ctx, orderID, nextStatus)
	if err != nil {
		return nil, err
	}
	e.monitor.RecordOrderUpdated()
	e.events.OrderUpdated(*updated)
	return updated, nil
}

// SetStatus assigns a status directly, bypassing the transition function.
// It exists for administrative correction; the value must still be one of
// the recognized statuses.
func (e *Engine) SetStatus(ctx context.Context, orderID int, status models.OrderStatus) (*models.Order, error) {
	if !status.IsValid() {
		return nil, models.ErrInvalidStatus
	}

	updated, err := e.store.UpdateStatus(ctx, orderID, status)
	if err != nil {
		return nil, err
	}
	e.monitor.RecordOrderUpdated()
	e.events.OrderUpdated(*updated)
	return updated, nil
}

// Remove deletes the order. Deleting non-terminal orders is permitted; that
// is how cancellation works.
func (e *Engine) Remove(ctx context.Context, orderID int) error {
	if err := e.store.Delete(ctx, orderID); err != nil {
		return err
	}
	e.monitor.RecordOrderDeleted()
	e.events.OrderDeleted(orderID)
	return nil
}

// Get returns a single order.
func (e *Engine) Get(ctx context.Context, orderID int) (*models.Order, error) {
	return e.store.Find(ctx, orderID)
}

// List returns orders newest-first, filtered by status when non-empty.
// Unknown filter values yield an empty list rather than an error.
func (e *Engine) List(ctx context.Context, status models.OrderStatus) ([]models.Order, error) {
	return e.store.FindAll(ctx, status)
}
