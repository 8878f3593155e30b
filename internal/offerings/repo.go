package offerings

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/calderwood/conreg-backend/pkg/db/models"
	"github.com/calderwood/conreg-backend/pkg/enums"
)

// Repository exposes persistence operations for the offering catalog.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an offering repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListByConvention returns the convention's offerings with ordered variants.
func (r *Repository) ListByConvention(ctx context.Context, conventionID int64) ([]models.Offering, error) {
	var rows []models.Offering
	err := r.db.WithContext(ctx).
		Preload("Variants", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("convention_id = ?", conventionID).
		Order("position ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// SoldCounts returns the number of items sold per offering for the
// convention. Items on cancelled or refunded orders do not count.
func (r *Repository) SoldCounts(ctx context.Context, conventionID int64) (map[uuid.UUID]int, error) {
	type row struct {
		OfferingID uuid.UUID
		Sold       int
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Table("order_items").
		Select("order_items.offering_id AS offering_id, COUNT(*) AS sold").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.convention_id = ? AND orders.status NOT IN ?", conventionID,
			[]enums.OrderStatus{enums.OrderStatusCancelled, enums.OrderStatusRefunded}).
		Group("order_items.offering_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[uuid.UUID]int, len(rows))
	for _, r := range rows {
		counts[r.OfferingID] = r.Sold
	}
	return counts, nil
}
