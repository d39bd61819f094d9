package store

import (
	"context"
	"time"

	"github.com/jinzhu/gorm"
	_ "github.com/lib/pq"           // PostgreSQL driver
	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"qrmenu/internal/models"
)

// Open opens the database and runs migrations. dialect is "sqlite3" or
// "postgres".
func Open(dialect, source string) (*gorm.DB, error) {
	db, err := gorm.Open(dialect, source)
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&models.Order{}, &models.OrderItem{}).Error; err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// GormStore persists orders in the configured SQL database.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a database-backed store.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Available reports whether the database is currently reachable.
func (s *GormStore) Available() bool {
	return s.db != nil && s.db.DB().Ping() == nil
}

// Create inserts the order and its items.
func (s *GormStore) Create(ctx context.Context, order *models.Order) error {
	if err := s.db.Create(order).Error; err != nil {
		return &PersistenceError{Op: "create order", Err: err}
	}
	return nil
}

// Find returns the order with the given orderId.
func (s *GormStore) Find(ctx context.Context, orderID int) (*models.Order, error) {
	var o models.Order
	err := s.db.Preload("Items").Where("order_id = ?", orderID).First(&o).Error
	if gorm.IsRecordNotFoundError(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, &PersistenceError{Op: "find order", Err: err}
	}
	return &o, nil
}

// FindAll returns orders newest-first, filtered by status when set.
func (s *GormStore) FindAll(ctx context.Context, status models.OrderStatus) ([]models.Order, error) {
	query := s.db.Preload("Items").Order("created_at desc")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, &PersistenceError{Op: "list orders", Err: err}
	}
	return orders, nil
}

// UpdateStatus sets the order's status and refreshes updatedAt.
func (s *GormStore) UpdateStatus(ctx context.Context, orderID int, status models.OrderStatus) (*models.Order, error) {
	res := s.db.Model(&models.Order{}).
		Where("order_id = ?", orderID).
		Updates(map[string]interface{}{"status": status, "updated_at": time.Now()})
	if res.Error != nil {
		return nil, &PersistenceError{Op: "update order", Err: res.Error}
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.Find(ctx, orderID)
}

// Delete removes the order and its items.
func (s *GormStore) Delete(ctx context.Context, orderID int) error {
	o, err := s.Find(ctx, orderID)
	if err != nil {
		return err
	}
	if err := s.db.Where("order_ref = ?", o.ID).Delete(&models.OrderItem{}).Error; err != nil {
		return &PersistenceError{Op: "delete order items", Err: err}
	}
	if err := s.db.Where("order_id = ?", orderID).Delete(&models.Order{}).Error; err != nil {
		return &PersistenceError{Op: "delete order", Err: err}
	}
	return nil
}

// NextID derives the next id from the highest existing orderId. The read and
// the subsequent insert are not atomic, so two near-simultaneous submissions
// can race onto the same id; hardening this means a database sequence or an
// atomic counter.
func (s *GormStore) NextID(ctx context.Context) (int, error) {
	var maxID int
	row := s.db.Model(&models.Order{}).Select("coalesce(max(order_id), 0)").Row()
	if err := row.Scan(&maxID); err != nil {
		return 0, &PersistenceError{Op: "next order id", Err: err}
	}
	return maxID + 1, nil
}

var _ Store = (*GormStore)(nil)
