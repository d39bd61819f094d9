package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"qrmenu/internal/models"
)

// MemoryStore is the in-process fallback used when the database is
// unreachable. Ids come from a monotonic counter seeded at 1 that never
// resets while the process is alive. Data held here is not migrated to the
// database if connectivity returns.
type MemoryStore struct {
	mu     sync.RWMutex
	orders []models.Order
	nextID int
}

// NewMemoryStore creates an empty fallback store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{nextID: 1}
}

// Create stores a copy of the order.
func (s *MemoryStore) Create(ctx context.Context, order *models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders = append(s.orders, copyOrder(*order))
	return nil
}

// Find returns a copy of the order with the given orderId.
func (s *MemoryStore) Find(ctx context.Context, orderID int) (*models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.orders {
		if s.orders[i].OrderID == orderID {
			o := copyOrder(s.orders[i])
			return &o, nil
		}
	}
	return nil, ErrNotFound
}

// FindAll returns orders newest-first, filtered by status when set.
func (s *MemoryStore) FindAll(ctx context.Context, status models.OrderStatus) ([]models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Order, 0, len(s.orders))
	for i := range s.orders {
		if status != "" && s.orders[i].Status != status {
			continue
		}
		out = append(out, copyOrder(s.orders[i]))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].OrderID > out[j].OrderID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// UpdateStatus sets the order's status and refreshes updatedAt.
func (s *MemoryStore) UpdateStatus(ctx context.Context, orderID int, status models.OrderStatus) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.orders {
		if s.orders[i].OrderID == orderID {
			s.orders[i].Status = status
			s.orders[i].UpdatedAt = time.Now()
			o := copyOrder(s.orders[i])
			return &o, nil
		}
	}
	return nil, ErrNotFound
}

// Delete removes the order. Its id is never reused.
func (s *MemoryStore) Delete(ctx context.Context, orderID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.orders {
		if s.orders[i].OrderID == orderID {
			s.orders = append(s.orders[:i], s.orders[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// NextID returns the next id from the monotonic counter.
func (s *MemoryStore) NextID(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	return id, nil
}

func copyOrder(o models.Order) models.Order {
	items := make([]models.OrderItem, len(o.Items))
	copy(items, o.Items)
	o.Items = items
	return o
}

var _ Store = (*MemoryStore)(nil)
