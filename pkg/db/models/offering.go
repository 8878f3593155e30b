package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/calderwood/conreg-backend/pkg/enums"
)

// Offering is a purchasable registration product for a convention. Which of
// the price columns apply depends on PricingMode.
type Offering struct {
	ID              uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ConventionID    int64                  `gorm:"column:convention_id;not null;index"`
	Title           string                 `gorm:"column:title;not null"`
	Description     *string                `gorm:"column:description"`
	Highlights      pq.StringArray         `gorm:"column:highlights;type:text[];not null;default:ARRAY[]::text[]"`
	PricingMode     enums.PricingMode      `gorm:"column:pricing_mode;not null"`
	SuggestedPrice  *decimal.Decimal       `gorm:"column:suggested_price;type:numeric(10,2)"`
	MinPrice        *decimal.Decimal       `gorm:"column:min_price;type:numeric(10,2)"`
	MaxPrice        *decimal.Decimal       `gorm:"column:max_price;type:numeric(10,2)"`
	Currency        enums.Currency         `gorm:"column:currency;not null;default:'USD'"`
	EmailRequired   enums.EmailRequirement `gorm:"column:email_required;not null;default:'REQUIRED'"`
	AddressRequired bool                   `gorm:"column:address_required;not null;default:false"`
	AgeRequired     bool                   `gorm:"column:age_required;not null;default:false"`
	AddPrompts      bool                   `gorm:"column:add_prompts;not null;default:false"`
	IsMembership    bool                   `gorm:"column:is_membership;not null;default:false"`
	IsRestricted    bool                   `gorm:"column:is_restricted;not null;default:false"`
	Emphasis        bool                   `gorm:"column:emphasis;not null;default:false"`
	Quantity        *int                   `gorm:"column:quantity"`
	Position        int                    `gorm:"column:position;not null;default:0"`
	Variants        []Variant              `gorm:"foreignKey:OfferingID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}

// HasVariants reports whether the offering prices through variants.
func (o Offering) HasVariants() bool {
	return len(o.Variants) > 0
}

// Capped reports whether the offering carries an inventory cap.
func (o Offering) Capped() bool {
	return o.Quantity != nil
}
