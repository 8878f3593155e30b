// Package conventions resolves which convention a request operates on and
// whether its registration window is still open.
package conventions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/calderwood/conreg-backend/pkg/db/models"
	pkgerrors "github.com/calderwood/conreg-backend/pkg/errors"
)

type repository interface {
	FindActiveAt(ctx context.Context, t time.Time) (*models.Convention, error)
	FindByID(ctx context.Context, id int64) (*models.Convention, error)
}

// Service exposes convention registry lookups.
type Service interface {
	Current(ctx context.Context) (*models.Convention, error)
	Get(ctx context.Context, id int64) (*models.Convention, error)
	RegClosed(ctx context.Context, id int64) (bool, error)
}

type service struct {
	repo repository
	now  func() time.Time
}

// NewService builds the convention registry service.
func NewService(repo repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("convention repository required")
	}
	return &service{repo: repo, now: time.Now}, nil
}

// Current returns the convention whose active window covers now.
func (s *service) Current(ctx context.Context) (*models.Convention, error) {
	row, err := s.repo.FindActiveAt(ctx, s.now())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no active convention")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading current convention")
	}
	return row, nil
}

// Get loads a convention by id, for admin queries against past conventions.
func (s *service) Get(ctx context.Context, id int64) (*models.Convention, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "convention not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading convention")
	}
	return row, nil
}

// RegClosed reports whether registration for the convention has closed.
func (s *service) RegClosed(ctx context.Context, id int64) (bool, error) {
	row, err := s.Get(ctx, id)
	if err != nil {
		return false, err
	}
	return row.RegClosedAt(s.now()), nil
}
