// Package registrations implements the admin read side: term search over
// finalized orders and the CSV report.
package registrations

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/calderwood/conreg-backend/pkg/enums"
)

// Row is one item-level line of the registration report. Item columns are
// nullable because finalized orders can exist without items only through
// manual intervention; the left join keeps them visible.
type Row struct {
	ReferenceNumber   int64                `gorm:"column:reference_number"`
	OrderUUID         uuid.UUID            `gorm:"column:order_uuid"`
	Status            enums.OrderStatus    `gorm:"column:status"`
	PaymentMethod     *enums.PaymentMethod `gorm:"column:payment_method"`
	ConfirmationEmail *string              `gorm:"column:confirmation_email"`
	FinalizedAt       *time.Time           `gorm:"column:finalized_at"`
	For               *string              `gorm:"column:for_name"`
	Email             *string              `gorm:"column:email"`
	Amount            *decimal.Decimal     `gorm:"column:amount"`
	Currency          *enums.Currency      `gorm:"column:currency"`
	OfferingTitle     *string              `gorm:"column:offering_title"`
}

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

var finalizedStatuses = []enums.OrderStatus{
	enums.OrderStatusCheckedOut,
	enums.OrderStatusPaid,
}

func (r *Repository) base(ctx context.Context, conventionID int64, term string) *gorm.DB {
	q := r.db.WithContext(ctx).
		Table("orders AS o").
		Joins("LEFT JOIN order_items AS i ON i.order_id = o.id").
		Joins("LEFT JOIN offerings AS off ON off.id = i.offering_id").
		Where("o.convention_id = ?", conventionID).
		Where("o.status IN ?", finalizedStatuses)

	if term = strings.TrimSpace(term); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		cond := "LOWER(i.for_name) LIKE ? OR LOWER(i.email) LIKE ? OR LOWER(o.confirmation_email) LIKE ?"
		args := []any{like, like, like}
		if ref, err := strconv.ParseInt(term, 10, 64); err == nil {
			cond += " OR o.reference_number = ?"
			args = append(args, ref)
		}
		q = q.Where(cond, args...)
	}
	return q
}

// Count returns the total number of report rows matching the term.
func (r *Repository) Count(ctx context.Context, conventionID int64, term string) (int64, error) {
	var total int64
	err := r.base(ctx, conventionID, term).Count(&total).Error
	return total, err
}

// Find returns one page of report rows ordered by finalized date, order
// reference, then item insertion order.
func (r *Repository) Find(ctx context.Context, conventionID int64, term string, offset, limit int) ([]Row, error) {
	var rows []Row
	err := r.base(ctx, conventionID, term).
		Select("o.reference_number, o.order_uuid, o.status, o.payment_method, o.confirmation_email, o.finalized_at, " +
			"i.for_name, i.email, i.amount, i.currency, off.title AS offering_title").
		Order("o.finalized_at, o.reference_number, i.created_at").
		Offset(offset).
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

// FindAll returns every report row for the convention, unpaged, for the CSV
// export.
func (r *Repository) FindAll(ctx context.Context, conventionID int64) ([]Row, error) {
	var rows []Row
	err := r.base(ctx, conventionID, "").
		Select("o.reference_number, o.order_uuid, o.status, o.payment_method, o.confirmation_email, o.finalized_at, " +
			"i.for_name, i.email, i.amount, i.currency, off.title AS offering_title").
		Order("o.finalized_at, o.reference_number, i.created_at").
		Scan(&rows).Error
	return rows, err
}
