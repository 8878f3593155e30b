package registrations

import (
	"fmt"

	"github.com/calderwood/conreg-backend/pkg/enums"
	"github.com/calderwood/conreg-backend/pkg/pagination"
)

// SearchInput carries a registration search request. Page is zero-based.
// BaseURL, when set, is the query prefix page links are appended to.
type SearchInput struct {
	ConventionID int64
	Term         string
	Page         int
	BaseURL      string
}

// ItemDTO is one rendered report line.
type ItemDTO struct {
	ID                  int64   `json:"id"`
	OrderUUID           string  `json:"orderUuid"`
	Key                 string  `json:"key"`
	ConfirmationEmail   *string `json:"confirmation_mail"`
	Title               *string `json:"title"`
	Paid                string  `json:"paid"`
	Amount              *string `json:"amount"`
	For                 *string `json:"for"`
	Email               *string `json:"email_address"`
	PaymentMethod       *string `json:"payment_method"`
	FinalizedDate       *string `json:"finalized_date,omitempty"`
	FinalizedDateSimple *string `json:"finalized_date_simple,omitempty"`
}

// SearchResult is the search response payload.
type SearchResult struct {
	Items      []ItemDTO         `json:"items"`
	Pagination pagination.Meta   `json:"pagination"`
	Links      []pagination.Link `json:"links,omitempty"`
}

var paymentMethodLabels = map[enums.PaymentMethod]string{
	enums.PaymentMethodCard:   "Credit card",
	enums.PaymentMethodAtDoor: "At the door",
	enums.PaymentMethodCash:   "Cash",
	enums.PaymentMethodCheck:  "Cheque",
}

func paymentMethodLabel(m *enums.PaymentMethod) *string {
	if m == nil {
		return nil
	}
	label, ok := paymentMethodLabels[*m]
	if !ok {
		label = string(*m)
	}
	return &label
}

func toItemDTO(row Row) ItemDTO {
	dto := ItemDTO{
		ID:                row.ReferenceNumber,
		OrderUUID:         row.OrderUUID.String(),
		Key:               fmt.Sprintf("%d-%s", row.ReferenceNumber, row.OrderUUID),
		ConfirmationEmail: row.ConfirmationEmail,
		Title:             row.OfferingTitle,
		Paid:              "No",
		For:               row.For,
		Email:             row.Email,
		PaymentMethod:     paymentMethodLabel(row.PaymentMethod),
	}
	if row.Status == enums.OrderStatusPaid {
		dto.Paid = "Yes"
	}
	if row.Amount != nil {
		amount := row.Amount.StringFixed(2)
		dto.Amount = &amount
	}
	if row.FinalizedAt != nil {
		full := row.FinalizedAt.Format("2006-01-02T15:04:05-07:00")
		simple := row.FinalizedAt.Format("Jan 2 15:04")
		dto.FinalizedDate = &full
		dto.FinalizedDateSimple = &simple
	}
	return dto
}
