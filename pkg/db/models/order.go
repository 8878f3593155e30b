package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/calderwood/conreg-backend/pkg/enums"
)

// Order groups the registration items a visitor submits in one session.
// OrderUUID is minted client-side and is unique within a convention.
type Order struct {
	ID                  uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ReferenceNumber     int64                `gorm:"column:reference_number;->"`
	ConventionID        int64                `gorm:"column:convention_id;not null;uniqueIndex:idx_orders_convention_order_uuid"`
	OrderUUID           uuid.UUID            `gorm:"column:order_uuid;type:uuid;not null;uniqueIndex:idx_orders_convention_order_uuid"`
	Status              enums.OrderStatus    `gorm:"column:status;not null;default:'OPEN'"`
	PaymentMethod       *enums.PaymentMethod `gorm:"column:payment_method"`
	AtDoorPaymentMethod *enums.PaymentMethod `gorm:"column:at_door_payment_method"`
	ConfirmationEmail   *string              `gorm:"column:confirmation_email"`
	PaymentIntentID     *string              `gorm:"column:payment_intent_id"`
	FinalizedAt         *time.Time           `gorm:"column:finalized_at"`
	PaidAt              *time.Time           `gorm:"column:paid_at"`
	Items               []OrderItem          `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt           time.Time            `gorm:"column:created_at;autoCreateTime"`
	LastModifiedAt      time.Time            `gorm:"column:last_modified_at;autoUpdateTime"`
}
