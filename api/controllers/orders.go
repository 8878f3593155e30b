package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/calderwood/conreg-backend/api/responses"
	"github.com/calderwood/conreg-backend/api/validators"
	"github.com/calderwood/conreg-backend/internal/conventions"
	"github.com/calderwood/conreg-backend/internal/orders"
	"github.com/calderwood/conreg-backend/pkg/db/models"
	"github.com/calderwood/conreg-backend/pkg/enums"
	pkgerrors "github.com/calderwood/conreg-backend/pkg/errors"
	"github.com/calderwood/conreg-backend/pkg/logger"
)

type finalizeOrderRequest struct {
	PaymentMethod     string  `json:"paymentMethod" validate:"required"`
	ConfirmationEmail string  `json:"confirmationEmail" validate:"omitempty,email"`
	PaymentIntentID   *string `json:"paymentIntentId"`
}

type payOrderRequest struct {
	AtDoorPaymentMethod string `json:"atDoorPaymentMethod"`
}

type orderDTO struct {
	OrderUUID     string  `json:"orderId"`
	Status        string  `json:"status"`
	PaymentMethod *string `json:"paymentMethod,omitempty"`
	FinalizedAt   *string `json:"finalizedAt,omitempty"`
	PaidAt        *string `json:"paidAt,omitempty"`
}

func toOrderDTO(order *models.Order) orderDTO {
	dto := orderDTO{
		OrderUUID: order.OrderUUID.String(),
		Status:    string(order.Status),
	}
	if order.PaymentMethod != nil {
		method := string(*order.PaymentMethod)
		dto.PaymentMethod = &method
	}
	if order.FinalizedAt != nil {
		stamp := order.FinalizedAt.Format(time.RFC3339)
		dto.FinalizedAt = &stamp
	}
	if order.PaidAt != nil {
		stamp := order.PaidAt.Format(time.RFC3339)
		dto.PaidAt = &stamp
	}
	return dto
}

func orderUUIDParam(r *http.Request) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "orderUUID"))
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "order uuid is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order uuid")
	}
	return id, nil
}

// FinalizeOrder checks an open order out with its payment metadata.
func FinalizeOrder(ordSvc orders.Service, conSvc conventions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if ordSvc == nil || conSvc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		orderUUID, err := orderUUIDParam(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var req finalizeOrderRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		method, err := enums.ParsePaymentMethod(req.PaymentMethod)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method"))
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

		order, err := ordSvc.Finalize(ctx, orders.FinalizeInput{
			ConventionID:      convention.ID,
			OrderUUID:         orderUUID,
			PaymentMethod:     method,
			ConfirmationEmail: req.ConfirmationEmail,
			PaymentIntentID:   req.PaymentIntentID,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, toOrderDTO(order))
	}
}

// PayOrder marks a checked-out order as paid, optionally recording the
// at-door payment method.
func PayOrder(ordSvc orders.Service, conSvc conventions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if ordSvc == nil || conSvc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		orderUUID, err := orderUUIDParam(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var req payOrderRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		var atDoor *enums.PaymentMethod
		if req.AtDoorPaymentMethod != "" {
			method, err := enums.ParsePaymentMethod(req.AtDoorPaymentMethod)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid at-door payment method"))
				return
			}
			atDoor = &method
		}

		convention, err := conSvc.Current(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		order, err := ordSvc.MarkPaid(ctx, orders.MarkPaidInput{
			ConventionID:        convention.ID,
			OrderUUID:           orderUUID,
			AtDoorPaymentMethod: atDoor,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, toOrderDTO(order))
	}
}

// CancelOrder cancels a finalized order.
func CancelOrder(ordSvc orders.Service, conSvc conventions.Service, logg *logger.Logger) http.HandlerFunc {
	return transitionHandler(ordSvc, conSvc, logg, func(svc orders.Service, conventionID int64, orderUUID uuid.UUID, r *http.Request) (*models.Order, error) {
		return svc.Cancel(r.Context(), conventionID, orderUUID)
	})
}

// RefundOrder refunds a finalized order.
func RefundOrder(ordSvc orders.Service, conSvc conventions.Service, logg *logger.Logger) http.HandlerFunc {
	return transitionHandler(ordSvc, conSvc, logg, func(svc orders.Service, conventionID int64, orderUUID uuid.UUID, r *http.Request) (*models.Order, error) {
		return svc.Refund(r.Context(), conventionID, orderUUID)
	})
}

func transitionHandler(ordSvc orders.Service, conSvc conventions.Service, logg *logger.Logger, apply func(orders.Service, int64, uuid.UUID, *http.Request) (*models.Order, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if ordSvc == nil || conSvc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		orderUUID, err := orderUUIDParam(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		conventionID, err := validators.ParseQueryInt64(r, "conId", 0)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if conventionID == 0 {
			convention, err := conSvc.Current(ctx)
			if err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
			conventionID = convention.ID
		}

		order, err := apply(ordSvc, conventionID, orderUUID, r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, toOrderDTO(order))
	}
}
