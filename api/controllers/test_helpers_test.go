package controllers

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/calderwood/conreg-backend/internal/admins"
	"github.com/calderwood/conreg-backend/internal/orders"
	"github.com/calderwood/conreg-backend/internal/registrations"
	"github.com/calderwood/conreg-backend/pkg/db/models"
	"github.com/calderwood/conreg-backend/pkg/enums"
	pkgerrors "github.com/calderwood/conreg-backend/pkg/errors"
	"github.com/calderwood/conreg-backend/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{Output: io.Discard, Level: zerolog.ErrorLevel})
}

type stubConventions struct {
	convention *models.Convention
	err        error
}

func (s *stubConventions) Current(context.Context) (*models.Convention, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.convention, nil
}

func (s *stubConventions) Get(context.Context, int64) (*models.Convention, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.convention, nil
}

func (s *stubConventions) RegClosed(ctx context.Context, _ int64) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	return s.convention.RegClosedAt(time.Now()), nil
}

func openConvention() *models.Convention {
	return &models.Convention{
		ID:         7,
		Name:       "ConReg 2026",
		Currency:   enums.CurrencyUSD,
		ActiveFrom: time.Now().Add(-24 * time.Hour),
		ActiveTo:   time.Now().Add(24 * time.Hour),
	}
}

func closedConvention() *models.Convention {
	con := openConvention()
	closeTime := time.Now().Add(-time.Hour)
	con.RegCloseTime = &closeTime
	return con
}

type stubOrders struct {
	submitResult *orders.SubmitItemResult
	submitErr    error
	lastSubmit   orders.SubmitItemInput

	order         *models.Order
	transitionErr error
	paidCalls     int
}

func (s *stubOrders) SubmitItem(_ context.Context, input orders.SubmitItemInput) (*orders.SubmitItemResult, error) {
	s.lastSubmit = input
	if s.submitErr != nil {
		return nil, s.submitErr
	}
	return s.submitResult, nil
}

func (s *stubOrders) Finalize(context.Context, orders.FinalizeInput) (*models.Order, error) {
	if s.transitionErr != nil {
		return nil, s.transitionErr
	}
	return s.order, nil
}

func (s *stubOrders) MarkPaid(context.Context, orders.MarkPaidInput) (*models.Order, error) {
	s.paidCalls++
	if s.transitionErr != nil {
		return nil, s.transitionErr
	}
	return s.order, nil
}

func (s *stubOrders) Cancel(context.Context, int64, uuid.UUID) (*models.Order, error) {
	if s.transitionErr != nil {
		return nil, s.transitionErr
	}
	return s.order, nil
}

func (s *stubOrders) Refund(context.Context, int64, uuid.UUID) (*models.Order, error) {
	if s.transitionErr != nil {
		return nil, s.transitionErr
	}
	return s.order, nil
}

type stubAdmins struct {
	result *admins.LoginResult
	err    error
}

func (s *stubAdmins) Login(context.Context, string, string) (*admins.LoginResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

type stubRegistrations struct {
	result    *registrations.SearchResult
	lastInput registrations.SearchInput
	csvBody   string
}

func (s *stubRegistrations) Search(_ context.Context, input registrations.SearchInput) (*registrations.SearchResult, error) {
	s.lastInput = input
	return s.result, nil
}

func (s *stubRegistrations) ExportCSV(_ context.Context, _ int64, w io.Writer) error {
	_, err := io.WriteString(w, s.csvBody)
	return err
}

func soldOutErr() error {
	return pkgerrors.New(pkgerrors.CodeSoldOut, "offering is sold out")
}

func replayStateConflict() error {
	return pkgerrors.New(pkgerrors.CodeStateConflict, "cannot move order from PAID to PAID")
}
