package controllers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/calderwood/conreg-backend/api/responses"
	"github.com/calderwood/conreg-backend/internal/conventions"
	"github.com/calderwood/conreg-backend/internal/orders"
	"github.com/calderwood/conreg-backend/pkg/config"
	pkgerrors "github.com/calderwood/conreg-backend/pkg/errors"
	"github.com/calderwood/conreg-backend/pkg/logger"
)

const callbackSignatureHeader = "X-Callback-Signature"

type paymentCallbackRequest struct {
	OrderUUID       string `json:"orderUuid"`
	PaymentIntentID string `json:"paymentIntentId"`
	Status          string `json:"status"`
}

func verifyCallbackSignature(secret string, payload []byte, signature string) bool {
	if secret == "" || signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// PaymentCallback handles the gateway's asynchronous payment notification.
// The request body is authenticated with an HMAC-SHA256 signature over the
// raw payload; a succeeded payment moves the order to PAID.
func PaymentCallback(ordSvc orders.Service, conSvc conventions.Service, cfg config.PaymentsConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if ordSvc == nil || conSvc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		payload, err := io.ReadAll(r.Body)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read request body"))
			return
		}

		if !verifyCallbackSignature(cfg.CallbackSecret, payload, r.Header.Get(callbackSignatureHeader)) {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid callback signature"))
			return
		}

		var req paymentCallbackRequest
		if err := json.Unmarshal(payload, &req); err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid callback payload"))
			return
		}
		orderUUID, err := uuid.Parse(req.OrderUUID)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order uuid"))
			return
		}

		if req.Status != "succeeded" {
			if logg != nil {
				logg.Info(logg.WithOrderUUID(ctx, req.OrderUUID), "ignoring non-success payment callback")
			}
			responses.WriteSuccess(w, nil)
			return
		}

		convention, err := conSvc.Current(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		order, err := ordSvc.MarkPaid(ctx, orders.MarkPaidInput{
			ConventionID: convention.ID,
			OrderUUID:    orderUUID,
		})
		if err != nil {
			// Replayed callbacks land on an already-paid order.
			if coded := pkgerrors.As(err); coded != nil && coded.Code() == pkgerrors.CodeStateConflict {
				responses.WriteSuccess(w, nil)
				return
			}
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, toOrderDTO(order))
	}
}
