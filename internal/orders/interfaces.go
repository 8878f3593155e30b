package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/calderwood/conreg-backend/pkg/db/models"
)

// OrderRepository defines the persistence surface required by the order service.
type OrderRepository interface {
	WithTx(tx *gorm.DB) OrderRepository
	FindOfferingForUpdate(ctx context.Context, offeringID uuid.UUID, conventionID int64) (*models.Offering, error)
	FindOrderByUUID(ctx context.Context, orderUUID uuid.UUID, conventionID int64) (*models.Order, error)
	CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
	SaveOrder(ctx context.Context, order *models.Order) error
	TouchOrder(ctx context.Context, orderID uuid.UUID) error
	CreateItem(ctx context.Context, item *models.OrderItem) error
	FindItemByUUID(ctx context.Context, itemUUID uuid.UUID) (*models.OrderItem, error)
	CountSold(ctx context.Context, offeringID uuid.UUID) (int64, error)
}
