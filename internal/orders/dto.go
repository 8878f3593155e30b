package orders

import (
	"github.com/google/uuid"

	"github.com/calderwood/conreg-backend/internal/pricing"
	"github.com/calderwood/conreg-backend/pkg/db/models"
	"github.com/calderwood/conreg-backend/pkg/enums"
)

// SubmitItemInput carries one validated cart line to the write path.
// ItemUUID is the client-minted idempotency key; a retry of the same logical
// add must reuse it.
type SubmitItemInput struct {
	ConventionID int64
	OrderUUID    uuid.UUID
	ItemUUID     uuid.UUID
	OfferingID   uuid.UUID
	Fields       pricing.Input
}

// SubmitItemResult reports the stored item. AlreadyRecorded is true when the
// item UUID had been persisted by an earlier attempt and the stored row was
// returned instead of inserting a second one.
type SubmitItemResult struct {
	Item            *models.OrderItem
	Order           *models.Order
	AlreadyRecorded bool
}

// FinalizeInput moves an OPEN order to CHECKED_OUT.
type FinalizeInput struct {
	ConventionID      int64
	OrderUUID         uuid.UUID
	PaymentMethod     enums.PaymentMethod
	ConfirmationEmail string
	PaymentIntentID   *string
}

// MarkPaidInput moves a CHECKED_OUT order to PAID.
type MarkPaidInput struct {
	ConventionID        int64
	OrderUUID           uuid.UUID
	AtDoorPaymentMethod *enums.PaymentMethod
}
