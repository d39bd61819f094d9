package lifecycle

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qrmenu/internal/models"
	"qrmenu/internal/store"
)

// recorder captures broadcast events for assertions.
type recorder struct {
	created []models.Order
	updated []models.Order
	deleted []int
}

func (r *recorder) OrderCreated(o models.Order) { r.created = append(r.created, o) }
func (r *recorder) OrderUpdated(o models.Order) { r.updated = append(r.updated, o) }
func (r *recorder) OrderDeleted(id int)         { r.deleted = append(r.deleted, id) }

func (r *recorder) total() int { return len(r.created) + len(r.updated) + len(r.deleted) }

func newTestEngine() (*Engine, *recorder) {
	rec := &recorder{}
	return NewEngine(store.NewMemoryStore(), rec, nil), rec
}

func teaItems() []models.OrderItem {
	return []models.OrderItem{{ItemID: "a", Name: "Tea", Quantity: 2, Price: 10}}
}

func TestSubmitAssignsIDAndPendingStatus(t *testing.T) {
	ctx := context.Background()
	engine, rec := newTestEngine()

	order, err := engine.Submit(ctx, teaItems(), 20)
	require.NoError(t, err)

	assert.Equal(t, 1, order.OrderID)
	assert.Equal(t, models.StatusPending, order.Status)
	assert.Equal(t, 20.0, order.Total)
	assert.Len(t, rec.created, 1)

	second, err := engine.Submit(ctx, teaItems(), 20)
	require.NoError(t, err)
	assert.Equal(t, 2, second.OrderID)
}

func TestSubmitValidation(t *testing.T) {
	ctx := context.Background()
	engine, rec := newTestEngine()

	_, err := engine.Submit(ctx, nil, 20)
	assert.ErrorIs(t, err, models.ErrEmptyOrder)

	_, err = engine.Submit(ctx, teaItems(), 0)
	assert.ErrorIs(t, err, models.ErrInvalidTotal)

	_, err = engine.Submit(ctx, teaItems(), -5)
	assert.ErrorIs(t, err, models.ErrInvalidTotal)

	// Failed submissions broadcast nothing
	assert.Zero(t, rec.total())
}

func TestAdvanceWalksFullLifecycle(t *testing.T) {
	ctx := context.Background()
	engine, rec := newTestEngine()

	order, err := engine.Submit(ctx, teaItems(), 20)
	require.NoError(t, err)

	want := []models.OrderStatus{
		models.StatusAccepted,
		models.StatusPreparing,
		models.StatusReady,
		models.StatusCompleted,
	}
	for _, status := range want {
		updated, err := engine.Advance(ctx, order.OrderID)
		require.NoError(t, err)
		assert.Equal(t, status, updated.Status)
	}

	// Completed is terminal
	_, err = engine.Advance(ctx, order.OrderID)
	assert.ErrorIs(t, err, models.ErrInvalidTransition)

	// One broadcast per successful mutation: 1 create + 4 updates
	assert.Equal(t, 5, rec.total())
	assert.Len(t, rec.updated, 4)
}

func TestAdvanceUnknownOrder(t *testing.T) {
	engine, rec := newTestEngine()

	_, err := engine.Advance(context.Background(), 42)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.Zero(t, rec.total())
}

func TestSetStatusValidatesValue(t *testing.T) {
	ctx := context.Background()
	engine, rec := newTestEngine()

	order, err := engine.Submit(ctx, teaItems(), 20)
	require.NoError(t, err)

	_, err = engine.SetStatus(ctx, order.OrderID, "cancelled")
	assert.ErrorIs(t, err, models.ErrInvalidStatus)

	updated, err := engine.SetStatus(ctx, order.OrderID, models.StatusReady)
	require.NoError(t, err)
	assert.Equal(t, models.StatusReady, updated.Status)
	assert.Len(t, rec.updated, 1)
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	engine, rec := newTestEngine()

	order, err := engine.Submit(ctx, teaItems(), 20)
	require.NoError(t, err)

	require.NoError(t, engine.Remove(ctx, order.OrderID))
	assert.Equal(t, []int{order.OrderID}, rec.deleted)

	_, err = engine.Get(ctx, order.OrderID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	// Deleting a nonexistent order triggers no broadcast
	before := rec.total()
	err = engine.Remove(ctx, 42)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.Equal(t, before, rec.total())
}

func TestListNewestFirst(t *testing.T) {
	ctx := context.Background()
	engine, _ := newTestEngine()

	for i := 0; i < 3; i++ {
		_, err := engine.Submit(ctx, teaItems(), 20)
		require.NoError(t, err)
	}

	orders, err := engine.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, orders, 3)
	for i := 0; i+1 < len(orders); i++ {
		assert.False(t, orders[i].CreatedAt.Before(orders[i+1].CreatedAt),
			"expected newest-first ordering")
	}
}
