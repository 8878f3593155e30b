package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Variant is a selectable option within an offering. A variant with a
// non-nil SuggestedPrice fixes the price for that selection.
type Variant struct {
	ID             uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OfferingID     uuid.UUID        `gorm:"column:offering_id;type:uuid;not null;index"`
	Name           string           `gorm:"column:name;not null"`
	Description    *string          `gorm:"column:description"`
	SuggestedPrice *decimal.Decimal `gorm:"column:suggested_price;type:numeric(10,2)"`
	Position       int              `gorm:"column:position;not null;default:0"`
	CreatedAt      time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
