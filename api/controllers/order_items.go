package controllers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/calderwood/conreg-backend/api/responses"
	"github.com/calderwood/conreg-backend/api/validators"
	"github.com/calderwood/conreg-backend/internal/conventions"
	"github.com/calderwood/conreg-backend/internal/orders"
	"github.com/calderwood/conreg-backend/internal/pricing"
	"github.com/calderwood/conreg-backend/pkg/db/models"
	pkgerrors "github.com/calderwood/conreg-backend/pkg/errors"
	"github.com/calderwood/conreg-backend/pkg/logger"
)

type submitItemValues struct {
	Email           string      `json:"email"`
	Amount          json.Number `json:"amount"`
	VariantID       string      `json:"variantId"`
	Age             string      `json:"age"`
	StreetLine1     string      `json:"streetLine1"`
	StreetLine2     string      `json:"streetLine2"`
	City            string      `json:"city"`
	StateOrProvince string      `json:"stateOrProvince"`
	ZipOrPostalCode string      `json:"zipOrPostalCode"`
	Country         string      `json:"country"`
	Volunteer       bool        `json:"volunteer"`
	Newsletter      bool        `json:"newsletter"`
	SnailMail       bool        `json:"snailMail"`
}

type submitItemRequest struct {
	OrderID  string           `json:"orderId" validate:"required,uuid"`
	For      string           `json:"for"`
	ItemUUID string           `json:"itemUUID" validate:"required,uuid"`
	Offering string           `json:"offering" validate:"required,uuid"`
	Values   submitItemValues `json:"values"`
}

type orderItemDTO struct {
	ItemUUID      string  `json:"itemUUID"`
	OrderUUID     string  `json:"orderId"`
	Offering      string  `json:"offering"`
	OfferingTitle string  `json:"offeringTitle"`
	VariantName   *string `json:"variantName,omitempty"`
	For           string  `json:"for"`
	Amount        string  `json:"amount"`
	Currency      string  `json:"currency"`
	Replayed      bool    `json:"replayed,omitempty"`
}

func toOrderItemDTO(item *models.OrderItem, orderUUID uuid.UUID, replayed bool) orderItemDTO {
	return orderItemDTO{
		ItemUUID:      item.ItemUUID.String(),
		OrderUUID:     orderUUID.String(),
		Offering:      item.OfferingID.String(),
		OfferingTitle: item.OfferingTitle,
		VariantName:   item.VariantName,
		For:           item.For,
		Amount:        item.Amount.StringFixed(2),
		Currency:      string(item.Currency),
		Replayed:      replayed,
	}
}

// normalizeAmount renders a JSON amount with two decimal places when it is
// fractional, so "40.5" and 40.50 both validate consistently.
func normalizeAmount(raw json.Number) string {
	s := raw.String()
	if s == "" || !strings.Contains(s, ".") {
		return s
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return s
	}
	if d.Exponent() >= -2 {
		return d.StringFixed(2)
	}
	return s
}

// SubmitOrderItem records one registration item. A repeated itemUUID
// returns the originally stored row with a 200, a sold-out offering returns
// 409, and submissions after the registration close time return 403.
func SubmitOrderItem(ordSvc orders.Service, conSvc conventions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if ordSvc == nil || conSvc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		var req submitItemRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		convention, err := conSvc.Current(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if convention.RegClosedAt(time.Now()) {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeRegClosed, "registration is closed"))
			return
		}

		orderUUID, err := uuid.Parse(req.OrderID)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order id"))
			return
		}
		itemUUID, err := uuid.Parse(req.ItemUUID)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid item uuid"))
			return
		}
		offeringID, err := uuid.Parse(req.Offering)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid offering id"))
			return
		}

		result, err := ordSvc.SubmitItem(ctx, orders.SubmitItemInput{
			ConventionID: convention.ID,
			OrderUUID:    orderUUID,
			ItemUUID:     itemUUID,
			OfferingID:   offeringID,
			Fields: pricing.Input{
				For:             req.For,
				Email:           req.Values.Email,
				Amount:          normalizeAmount(req.Values.Amount),
				VariantID:       req.Values.VariantID,
				Age:             req.Values.Age,
				StreetLine1:     req.Values.StreetLine1,
				StreetLine2:     req.Values.StreetLine2,
				City:            req.Values.City,
				StateOrProvince: req.Values.StateOrProvince,
				ZipOrPostalCode: req.Values.ZipOrPostalCode,
				Country:         req.Values.Country,
				Volunteer:       req.Values.Volunteer,
				Newsletter:      req.Values.Newsletter,
				SnailMail:       req.Values.SnailMail,
			},
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		status := http.StatusCreated
		if result.AlreadyRecorded {
			status = http.StatusOK
		}
		responses.WriteSuccessStatus(w, status, toOrderItemDTO(result.Item, orderUUID, result.AlreadyRecorded))
	}
}
