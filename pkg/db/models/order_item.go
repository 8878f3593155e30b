package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/calderwood/conreg-backend/pkg/enums"
)

// OrderItem captures one submitted registration, snapshotted at insert.
// ItemUUID is minted client-side and its unique index is what makes
// resubmission idempotent.
type OrderItem struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID       uuid.UUID       `gorm:"column:order_id;type:uuid;not null;index"`
	ItemUUID      uuid.UUID       `gorm:"column:item_uuid;type:uuid;not null;uniqueIndex:idx_order_items_item_uuid"`
	OfferingID    uuid.UUID       `gorm:"column:offering_id;type:uuid;not null;index"`
	VariantID     *uuid.UUID      `gorm:"column:variant_id;type:uuid"`
	OfferingTitle string          `gorm:"column:offering_title;not null"`
	VariantName   *string         `gorm:"column:variant_name"`
	For           string          `gorm:"column:for_name;not null"`
	Email         *string         `gorm:"column:email"`
	Amount        decimal.Decimal `gorm:"column:amount;type:numeric(10,2);not null"`
	Currency      enums.Currency  `gorm:"column:currency;not null;default:'USD'"`
	Address1      *string         `gorm:"column:address1"`
	Address2      *string         `gorm:"column:address2"`
	City          *string         `gorm:"column:city"`
	State         *string         `gorm:"column:state"`
	Zip           *string         `gorm:"column:zip"`
	Country       *string         `gorm:"column:country"`
	Age           *string         `gorm:"column:age"`
	Volunteer     bool            `gorm:"column:volunteer;not null;default:false"`
	Newsletter    bool            `gorm:"column:newsletter;not null;default:false"`
	SnailMail     bool            `gorm:"column:snail_mail;not null;default:false"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
