package offerings

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/calderwood/conreg-backend/pkg/db/models"
	"github.com/calderwood/conreg-backend/pkg/enums"
)

// VariantDTO is the catalog projection of a variant.
type VariantDTO struct {
	ID             uuid.UUID        `json:"id"`
	Name           string           `json:"name"`
	Description    *string          `json:"description,omitempty"`
	SuggestedPrice *decimal.Decimal `json:"suggestedPrice,omitempty"`
}

// OfferingDTO is the catalog projection of an offering. Remaining is nil
// when the offering carries no inventory cap.
type OfferingDTO struct {
	ID              uuid.UUID              `json:"id"`
	Title           string                 `json:"title"`
	Description     *string                `json:"description,omitempty"`
	Highlights      []string               `json:"highlights,omitempty"`
	PricingMode     enums.PricingMode      `json:"pricingMode"`
	SuggestedPrice  *decimal.Decimal       `json:"suggestedPrice,omitempty"`
	MinimumPrice    *decimal.Decimal       `json:"minimumPrice,omitempty"`
	MaximumPrice    *decimal.Decimal       `json:"maximumPrice,omitempty"`
	Currency        enums.Currency         `json:"currency"`
	EmailRequired   enums.EmailRequirement `json:"emailRequired"`
	AddressRequired bool                   `json:"addressRequired"`
	AgeRequired     bool                   `json:"ageRequired"`
	AddPrompts      bool                   `json:"addPrompts"`
	IsMembership    bool                   `json:"isMembership"`
	IsRestricted    bool                   `json:"isRestricted"`
	Emphasis        bool                   `json:"emphasis"`
	Remaining       *int                   `json:"remaining,omitempty"`
	Variants        []VariantDTO           `json:"variants,omitempty"`
}

// Catalog is the full catalog response for a convention.
type Catalog struct {
	ConventionID int64         `json:"conventionId"`
	RegClosed    bool          `json:"reg_closed"`
	Offerings    []OfferingDTO `json:"offerings"`
}

func toDTO(o models.Offering, sold int) OfferingDTO {
	dto := OfferingDTO{
		ID:              o.ID,
		Title:           o.Title,
		Description:     o.Description,
		Highlights:      o.Highlights,
		PricingMode:     o.PricingMode,
		SuggestedPrice:  o.SuggestedPrice,
		MinimumPrice:    o.MinPrice,
		MaximumPrice:    o.MaxPrice,
		Currency:        o.Currency,
		EmailRequired:   o.EmailRequired,
		AddressRequired: o.AddressRequired,
		AgeRequired:     o.AgeRequired,
		AddPrompts:      o.AddPrompts,
		IsMembership:    o.IsMembership,
		IsRestricted:    o.IsRestricted,
		Emphasis:        o.Emphasis,
	}
	if o.Quantity != nil {
		remaining := *o.Quantity - sold
		if remaining < 0 {
			remaining = 0
		}
		dto.Remaining = &remaining
	}
	for _, v := range o.Variants {
		dto.Variants = append(dto.Variants, VariantDTO{
			ID:             v.ID,
			Name:           v.Name,
			Description:    v.Description,
			SuggestedPrice: v.SuggestedPrice,
		})
	}
	return dto
}
