package registrations

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/calderwood/conreg-backend/pkg/logger"
	"github.com/calderwood/conreg-backend/pkg/pagination"
)

type repository interface {
	Count(ctx context.Context, conventionID int64, term string) (int64, error)
	Find(ctx context.Context, conventionID int64, term string, offset, limit int) ([]Row, error)
	FindAll(ctx context.Context, conventionID int64) ([]Row, error)
}

// Service exposes the registration search and report export.
type Service interface {
	Search(ctx context.Context, input SearchInput) (*SearchResult, error)
	ExportCSV(ctx context.Context, conventionID int64, w io.Writer) error
}

type service struct {
	repo     repository
	pageSize int
	logg     *logger.Logger
}

// NewService builds the registration query service.
func NewService(repo repository, pageSize int, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("registration repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if pageSize < 1 {
		pageSize = pagination.DefaultPageSize
	}
	return &service{repo: repo, pageSize: pageSize, logg: logg}, nil
}

func (s *service) Search(ctx context.Context, input SearchInput) (*SearchResult, error) {
	ctx = s.logg.WithConventionID(ctx, input.ConventionID)
	params := pagination.Normalize(pagination.Params{Page: input.Page, PageSize: s.pageSize})

	total, err := s.repo.Count(ctx, input.ConventionID, input.Term)
	if err != nil {
		return nil, fmt.Errorf("counting registrations: %w", err)
	}

	rows, err := s.repo.Find(ctx, input.ConventionID, input.Term, params.Offset(), params.PageSize)
	if err != nil {
		return nil, fmt.Errorf("listing registrations: %w", err)
	}

	items := make([]ItemDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, toItemDTO(row))
	}

	return &SearchResult{
		Items:      items,
		Pagination: pagination.BuildMeta(params, len(items), int(total)),
		Links:      pagination.BuildLinks(input.BaseURL, params, len(items), int(total)),
	}, nil
}

var csvHeader = []string{
	"Order", "Order UUID", "Paid", "Payment Method", "Finalized",
	"For", "Email", "Offering", "Amount", "Currency", "Confirmation Email",
}

// ExportCSV writes the full report for a convention to w, one line per
// order item.
func (s *service) ExportCSV(ctx context.Context, conventionID int64, w io.Writer) error {
	rows, err := s.repo.FindAll(ctx, conventionID)
	if err != nil {
		return fmt.Errorf("loading registration report: %w", err)
	}

	out := csv.NewWriter(w)
	if err := out.Write(csvHeader); err != nil {
		return fmt.Errorf("writing report header: %w", err)
	}
	for _, row := range rows {
		dto := toItemDTO(row)
		record := []string{
			fmt.Sprintf("%d", dto.ID),
			dto.OrderUUID,
			dto.Paid,
			deref(dto.PaymentMethod),
			deref(dto.FinalizedDate),
			deref(dto.For),
			deref(dto.Email),
			deref(dto.Title),
			deref(dto.Amount),
			currencyOf(row),
			deref(dto.ConfirmationEmail),
		}
		if err := out.Write(record); err != nil {
			return fmt.Errorf("writing report row: %w", err)
		}
	}
	out.Flush()
	return out.Error()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func currencyOf(row Row) string {
	if row.Currency == nil {
		return ""
	}
	return string(*row.Currency)
}
