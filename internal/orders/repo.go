package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/calderwood/conreg-backend/pkg/db/models"
	"github.com/calderwood/conreg-backend/pkg/enums"
)

// Repository exposes persistence operations for orders and their items.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an order repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) OrderRepository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// FindOfferingForUpdate loads the offering scoped to the convention with the
// row locked for the duration of the transaction.
func (r *Repository) FindOfferingForUpdate(ctx context.Context, offeringID uuid.UUID, conventionID int64) (*models.Offering, error) {
	var row models.Offering
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Variants").
		Where("id = ? AND convention_id = ?", offeringID, conventionID).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// FindOrderByUUID loads the order for (orderUUID, conventionID).
func (r *Repository) FindOrderByUUID(ctx context.Context, orderUUID uuid.UUID, conventionID int64) (*models.Order, error) {
	var row models.Order
	err := r.db.WithContext(ctx).
		Where("order_uuid = ? AND convention_id = ?", orderUUID, conventionID).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// CreateOrder inserts a new order row.
func (r *Repository) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	if order.Status == "" {
		order.Status = enums.OrderStatusOpen
	}
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

// SaveOrder persists the order row.
func (r *Repository) SaveOrder(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Save(order).Error
}

// TouchOrder bumps the order's last-modified timestamp.
func (r *Repository) TouchOrder(ctx context.Context, orderID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Update("last_modified_at", gorm.Expr("now()")).Error
}

// CreateItem inserts an order item. The unique index on item_uuid makes the
// insert the idempotency gate.
func (r *Repository) CreateItem(ctx context.Context, item *models.OrderItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// FindItemByUUID loads the item recorded for the idempotency key.
func (r *Repository) FindItemByUUID(ctx context.Context, itemUUID uuid.UUID) (*models.OrderItem, error) {
	var row models.OrderItem
	err := r.db.WithContext(ctx).
		Where("item_uuid = ?", itemUUID).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// CountSold returns how many items the offering has sold across orders that
// still count against inventory.
func (r *Repository) CountSold(ctx context.Context, offeringID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("order_items").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("order_items.offering_id = ? AND orders.status NOT IN ?", offeringID,
			[]enums.OrderStatus{enums.OrderStatusCancelled, enums.OrderStatusRefunded}).
		Count(&count).Error
	return count, err
}
