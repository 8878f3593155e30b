package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/calderwood/conreg-backend/internal/orders"
	"github.com/calderwood/conreg-backend/pkg/db/models"
	"github.com/calderwood/conreg-backend/pkg/enums"
	"github.com/calderwood/conreg-backend/pkg/types"
)

func submitBody(orderID, itemUUID, offeringID string) string {
	return `{
		"orderId": "` + orderID + `",
		"for": "Ada Lovelace",
		"itemUUID": "` + itemUUID + `",
		"offering": "` + offeringID + `",
		"values": {"email": "ada@example.com", "amount": 45}
	}`
}

func storedItem(itemUUID, offeringID uuid.UUID) *models.OrderItem {
	return &models.OrderItem{
		ID:            uuid.New(),
		ItemUUID:      itemUUID,
		OfferingID:    offeringID,
		OfferingTitle: "Attending Membership",
		For:           "Ada Lovelace",
		Amount:        decimal.RequireFromString("45.00"),
		Currency:      enums.CurrencyUSD,
	}
}

func TestSubmitOrderItemCreated(t *testing.T) {
	t.Parallel()

	orderUUID, itemUUID, offeringID := uuid.New(), uuid.New(), uuid.New()
	ordSvc := &stubOrders{
		submitResult: &orders.SubmitItemResult{Item: storedItem(itemUUID, offeringID)},
	}
	handler := SubmitOrderItem(ordSvc, &stubConventions{convention: openConvention()}, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/order-items",
		strings.NewReader(submitBody(orderUUID.String(), itemUUID.String(), offeringID.String())))
	w := httptest.NewRecorder()
	handler(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201, body %s", w.Code, w.Body.String())
	}
	if ordSvc.lastSubmit.ConventionID != 7 {
		t.Fatalf("convention id = %d", ordSvc.lastSubmit.ConventionID)
	}
	if ordSvc.lastSubmit.Fields.Amount != "45" {
		t.Fatalf("amount = %q", ordSvc.lastSubmit.Fields.Amount)
	}

	var body types.SuccessEnvelope
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	data := body.Data.(map[string]any)
	if data["itemUUID"] != itemUUID.String() {
		t.Fatalf("itemUUID = %v", data["itemUUID"])
	}
	if data["amount"] != "45.00" {
		t.Fatalf("amount = %v", data["amount"])
	}
}

func TestSubmitOrderItemReplayReturns200(t *testing.T) {
	t.Parallel()

	orderUUID, itemUUID, offeringID := uuid.New(), uuid.New(), uuid.New()
	ordSvc := &stubOrders{
		submitResult: &orders.SubmitItemResult{
			Item:            storedItem(itemUUID, offeringID),
			AlreadyRecorded: true,
		},
	}
	handler := SubmitOrderItem(ordSvc, &stubConventions{convention: openConvention()}, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/order-items",
		strings.NewReader(submitBody(orderUUID.String(), itemUUID.String(), offeringID.String())))
	w := httptest.NewRecorder()
	handler(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("replay status = %d, want 200", w.Code)
	}
}

func TestSubmitOrderItemSoldOut(t *testing.T) {
	t.Parallel()

	handler := SubmitOrderItem(&stubOrders{submitErr: soldOutErr()},
		&stubConventions{convention: openConvention()}, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/order-items",
		strings.NewReader(submitBody(uuid.NewString(), uuid.NewString(), uuid.NewString())))
	w := httptest.NewRecorder()
	handler(w, req)

	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", w.Code)
	}
}

func TestSubmitOrderItemRegClosed(t *testing.T) {
	t.Parallel()

	ordSvc := &stubOrders{}
	handler := SubmitOrderItem(ordSvc, &stubConventions{convention: closedConvention()}, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/order-items",
		strings.NewReader(submitBody(uuid.NewString(), uuid.NewString(), uuid.NewString())))
	w := httptest.NewRecorder()
	handler(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}
	if ordSvc.lastSubmit.ItemUUID != uuid.Nil {
		t.Fatal("closed registration must not reach the order service")
	}
}

func TestSubmitOrderItemRejectsMalformedBody(t *testing.T) {
	t.Parallel()

	handler := SubmitOrderItem(&stubOrders{}, &stubConventions{convention: openConvention()}, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/order-items",
		strings.NewReader(`{"orderId": "not-a-uuid"}`))
	w := httptest.NewRecorder()
	handler(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestNormalizeAmount(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"":      "",
		"45":    "45",
		"45.5":  "45.50",
		"45.50": "45.50",
		"0":     "0",
	}
	for in, want := range cases {
		if got := normalizeAmount(json.Number(in)); got != want {
			t.Fatalf("normalizeAmount(%q) = %q, want %q", in, got, want)
		}
	}
}
