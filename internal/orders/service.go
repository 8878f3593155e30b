// Package orders implements the exactly-once item submission protocol and
// the order lifecycle state machine.
package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/calderwood/conreg-backend/internal/pricing"
	"github.com/calderwood/conreg-backend/pkg/db"
	"github.com/calderwood/conreg-backend/pkg/db/models"
	"github.com/calderwood/conreg-backend/pkg/enums"
	pkgerrors "github.com/calderwood/conreg-backend/pkg/errors"
	"github.com/calderwood/conreg-backend/pkg/logger"
	"github.com/calderwood/conreg-backend/pkg/metrics"
	"github.com/calderwood/conreg-backend/pkg/money"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type catalogInvalidator interface {
	InvalidateCatalog(ctx context.Context, conventionID int64)
}

// Service exposes the order write path.
type Service interface {
	SubmitItem(ctx context.Context, input SubmitItemInput) (*SubmitItemResult, error)
	Finalize(ctx context.Context, input FinalizeInput) (*models.Order, error)
	MarkPaid(ctx context.Context, input MarkPaidInput) (*models.Order, error)
	Cancel(ctx context.Context, conventionID int64, orderUUID uuid.UUID) (*models.Order, error)
	Refund(ctx context.Context, conventionID int64, orderUUID uuid.UUID) (*models.Order, error)
}

type service struct {
	repo    OrderRepository
	tx      txRunner
	catalog catalogInvalidator
	metrics *metrics.RegistrationMetrics
	logg    *logger.Logger
	now     func() time.Time
}

// NewService builds the order service. catalog and reg metrics are optional.
func NewService(repo OrderRepository, tx txRunner, catalog catalogInvalidator, reg *metrics.RegistrationMetrics, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:    repo,
		tx:      tx,
		catalog: catalog,
		metrics: reg,
		logg:    logg,
		now:     time.Now,
	}, nil
}

// errDuplicateItem aborts the transaction when the unique index caught a
// concurrent insert of the same item UUID.
var errDuplicateItem = errors.New("order item already recorded")

// SubmitItem runs the whole submission as one atomic transaction: offering
// lookup with the row locked, lazy order creation, idempotent item insert,
// in-transaction inventory re-check, last-modified touch. Any failure rolls
// the entire transaction back.
func (s *service) SubmitItem(ctx context.Context, input SubmitItemInput) (*SubmitItemResult, error) {
	if input.OrderUUID == uuid.Nil || input.ItemUUID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order and item UUIDs are required")
	}

	start := s.now()
	ctx = s.logg.WithOrderUUID(ctx, input.OrderUUID.String())

	var (
		result        SubmitItemResult
		offeringTitle string
		capped        bool
	)

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		offering, err := repo.FindOfferingForUpdate(ctx, input.OfferingID, input.ConventionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "offering does not exist for this convention")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading offering")
		}
		offeringTitle = offering.Title
		capped = offering.Capped()

		if check := pricing.Validate(offering, input.Fields); !check.OK() {
			return pkgerrors.New(pkgerrors.CodeValidation, "item failed validation").
				WithDetails(map[string]any{"messages": check.Messages})
		}

		// Replay of a key we already stored is a success, not an error.
		if stored, err := repo.FindItemByUUID(ctx, input.ItemUUID); err == nil {
			result.Item = stored
			result.AlreadyRecorded = true
			return nil
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checking idempotency key")
		}

		order, err := repo.FindOrderByUUID(ctx, input.OrderUUID, input.ConventionID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			order, err = repo.CreateOrder(ctx, &models.Order{
				ConventionID: input.ConventionID,
				OrderUUID:    input.OrderUUID,
				Status:       enums.OrderStatusOpen,
			})
		}
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolving order")
		}
		if order.Status != enums.OrderStatusOpen {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order is no longer open for items")
		}

		item, err := buildItem(offering, order, input)
		if err != nil {
			return err
		}
		if err := repo.CreateItem(ctx, item); err != nil {
			if db.IsUniqueViolation(err, "idx_order_items_item_uuid") {
				return errDuplicateItem
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "inserting order item")
		}

		if offering.Capped() {
			sold, err := repo.CountSold(ctx, offering.ID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "re-checking inventory")
			}
			if sold > int64(*offering.Quantity) {
				return pkgerrors.New(pkgerrors.CodeSoldOut, "offering is sold out")
			}
		}

		if err := repo.TouchOrder(ctx, order.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "touching order")
		}

		result.Item = item
		result.Order = order
		return nil
	})

	if errors.Is(err, errDuplicateItem) {
		// The unique index caught a concurrent insert; the winning row is
		// the result.
		stored, ferr := s.repo.FindItemByUUID(ctx, input.ItemUUID)
		if ferr != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, ferr, "loading recorded item")
		}
		s.metrics.IncReplayed(offeringTitle)
		return &SubmitItemResult{Item: stored, AlreadyRecorded: true}, nil
	}
	if err != nil {
		if coded := pkgerrors.As(err); coded != nil && coded.Code() == pkgerrors.CodeSoldOut {
			s.metrics.IncSoldOut(offeringTitle)
		}
		return nil, err
	}

	s.metrics.ObserveDuration(offeringTitle, s.now().Sub(start))
	if result.AlreadyRecorded {
		s.metrics.IncReplayed(offeringTitle)
		return &result, nil
	}

	s.metrics.IncSubmitted(offeringTitle)
	if capped && s.catalog != nil {
		s.catalog.InvalidateCatalog(ctx, input.ConventionID)
	}
	s.logg.Info(ctx, "order item recorded")
	return &result, nil
}

func buildItem(offering *models.Offering, order *models.Order, input SubmitItemInput) (*models.OrderItem, error) {
	fields := input.Fields

	var variant *models.Variant
	var variantID *uuid.UUID
	if fields.VariantID != "" {
		for i := range offering.Variants {
			if offering.Variants[i].ID.String() == fields.VariantID {
				variant = &offering.Variants[i]
				id := variant.ID
				variantID = &id
				break
			}
		}
	}

	raw := fields.Amount
	if derived, ok := pricing.DeriveAmount(offering, variant); ok {
		raw = derived
	}
	amount, err := money.Parse(raw)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item failed validation").
			WithDetails(map[string]any{"messages": []string{"The amount value looks a bit fishy"}})
	}

	item := &models.OrderItem{
		OrderID:       order.ID,
		ItemUUID:      input.ItemUUID,
		OfferingID:    offering.ID,
		VariantID:     variantID,
		OfferingTitle: offering.Title,
		For:           fields.For,
		Email:         optional(fields.Email),
		Amount:        amount.Decimal(),
		Currency:      offering.Currency,
		Address1:      optional(fields.StreetLine1),
		Address2:      optional(fields.StreetLine2),
		City:          optional(fields.City),
		State:         optional(fields.StateOrProvince),
		Zip:           optional(fields.ZipOrPostalCode),
		Country:       optional(fields.Country),
		Age:           optional(fields.Age),
		Volunteer:     fields.Volunteer,
		Newsletter:    fields.Newsletter,
		SnailMail:     fields.SnailMail,
	}
	if variant != nil {
		item.VariantName = &variant.Name
	}
	return item, nil
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

// transition applies a single guarded status change in its own transaction.
func (s *service) transition(ctx context.Context, conventionID int64, orderUUID uuid.UUID, target enums.OrderStatus, mutate func(*models.Order)) (*models.Order, error) {
	var updated *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.FindOrderByUUID(ctx, orderUUID, conventionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading order")
		}

		if !order.Status.CanTransitionTo(target) {
			return pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("cannot move order from %s to %s", order.Status, target))
		}

		order.Status = target
		if mutate != nil {
			mutate(order)
		}
		order.LastModifiedAt = s.now()
		if err := repo.SaveOrder(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "saving order")
		}
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Finalize moves an OPEN order to CHECKED_OUT with its payment metadata.
func (s *service) Finalize(ctx context.Context, input FinalizeInput) (*models.Order, error) {
	if !input.PaymentMethod.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}
	now := s.now()
	return s.transition(ctx, input.ConventionID, input.OrderUUID, enums.OrderStatusCheckedOut, func(o *models.Order) {
		method := input.PaymentMethod
		o.PaymentMethod = &method
		o.FinalizedAt = &now
		if input.ConfirmationEmail != "" {
			email := input.ConfirmationEmail
			o.ConfirmationEmail = &email
		}
		o.PaymentIntentID = input.PaymentIntentID
	})
}

// MarkPaid moves a CHECKED_OUT order to PAID.
func (s *service) MarkPaid(ctx context.Context, input MarkPaidInput) (*models.Order, error) {
	if input.AtDoorPaymentMethod != nil && !input.AtDoorPaymentMethod.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid at-door payment method")
	}
	now := s.now()
	return s.transition(ctx, input.ConventionID, input.OrderUUID, enums.OrderStatusPaid, func(o *models.Order) {
		o.AtDoorPaymentMethod = input.AtDoorPaymentMethod
		o.PaidAt = &now
	})
}

// Cancel moves a CHECKED_OUT or PAID order to CANCELLED.
func (s *service) Cancel(ctx context.Context, conventionID int64, orderUUID uuid.UUID) (*models.Order, error) {
	order, err := s.transition(ctx, conventionID, orderUUID, enums.OrderStatusCancelled, nil)
	if err != nil {
		return nil, err
	}
	if s.catalog != nil {
		s.catalog.InvalidateCatalog(ctx, conventionID)
	}
	return order, nil
}

// Refund moves a CHECKED_OUT or PAID order to REFUNDED.
func (s *service) Refund(ctx context.Context, conventionID int64, orderUUID uuid.UUID) (*models.Order, error) {
	order, err := s.transition(ctx, conventionID, orderUUID, enums.OrderStatusRefunded, nil)
	if err != nil {
		return nil, err
	}
	if s.catalog != nil {
		s.catalog.InvalidateCatalog(ctx, conventionID)
	}
	return order, nil
}
