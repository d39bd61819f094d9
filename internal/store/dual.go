package store

import (
	"context"

	"qrmenu/internal/models"
)

// DualStore routes each call to the database when it is reachable and to the
// in-memory fallback otherwise. The mode is probed per call, so the store may
// shift modes between operations as connectivity changes. Records written in
// one mode are not migrated when the mode changes; that is an accepted
// limitation of the fallback design.
type DualStore struct {
	durable  *GormStore
	fallback *MemoryStore
}

// NewDualStore creates a store that prefers durable and falls back to memory.
// durable may be nil when no database was configured.
func NewDualStore(durable *GormStore, fallback *MemoryStore) *DualStore {
	return &DualStore{durable: durable, fallback: fallback}
}

// Mode reports which backing store would answer a call right now.
func (s *DualStore) Mode() string {
	if s.durable != nil && s.durable.Available() {
		return "durable"
	}
	return "fallback"
}

func (s *DualStore) pick() Store {
	if s.durable != nil && s.durable.Available() {
		return s.durable
	}
	return s.fallback
}

func (s *DualStore) Create(ctx context.Context, order *models.Order) error {
	return s.pick().Create(ctx, order)
}

func (s *DualStore) Find(ctx context.Context, orderID int) (*models.Order, error) {
	return s.pick().Find(ctx, orderID)
}

func (s *DualStore) FindAll(ctx context.Context, status models.OrderStatus) ([]models.Order, error) {
	return s.pick().FindAll(ctx, status)
}

func (s *DualStore) UpdateStatus(ctx context.Context, orderID int, status models.OrderStatus) (*models.Order, error) {
	return s.pick().UpdateStatus(ctx, orderID, status)
}

func (s *DualStore) Delete(ctx context.Context, orderID int) error {
	return s.pick().Delete(ctx, orderID)
}

func (s *DualStore) NextID(ctx context.Context) (int, error) {
	return s.pick().NextID(ctx)
}

var _ Store = (*DualStore)(nil)
