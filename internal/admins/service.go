package admins

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/calderwood/conreg-backend/pkg/auth"
	"github.com/calderwood/conreg-backend/pkg/config"
	"github.com/calderwood/conreg-backend/pkg/db/models"
	pkgerrors "github.com/calderwood/conreg-backend/pkg/errors"
	"github.com/calderwood/conreg-backend/pkg/logger"
	"github.com/calderwood/conreg-backend/pkg/security"
)

type repository interface {
	FindByEmail(ctx context.Context, email string) (*models.AdminUser, error)
	RecordLogin(ctx context.Context, adminID uuid.UUID, at time.Time) error
}

// LoginResult carries the minted token and the admin it identifies.
type LoginResult struct {
	Token string `json:"token"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Service authenticates admins.
type Service interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
}

type service struct {
	repo repository
	jwt  config.JWTConfig
	logg *logger.Logger
	now  func() time.Time
}

// NewService builds the admin authentication service.
func NewService(repo repository, jwt config.JWTConfig, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("admin repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, jwt: jwt, logg: logg, now: time.Now}, nil
}

// errBadCredentials is the single failure surfaced for unknown email, wrong
// password, and deactivated accounts alike.
func errBadCredentials() error {
	return pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid email or password")
}

func (s *service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	if email == "" || password == "" {
		return nil, errBadCredentials()
	}

	admin, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errBadCredentials()
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "looking up admin")
	}
	if !admin.IsActive {
		return nil, errBadCredentials()
	}

	ok, err := security.VerifyPassword(password, admin.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verifying password")
	}
	if !ok {
		return nil, errBadCredentials()
	}

	now := s.now()
	token, err := auth.MintAccessToken(s.jwt, now, auth.AccessTokenPayload{
		AdminID: admin.ID,
		Email:   admin.Email,
		Name:    admin.Name,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "minting access token")
	}

	if err := s.repo.RecordLogin(ctx, admin.ID, now); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "admin_email", admin.Email), "recording admin login failed")
	}
	s.logg.Info(s.logg.WithField(ctx, "admin_email", admin.Email), "admin logged in")

	return &LoginResult{Token: token, Email: admin.Email, Name: admin.Name}, nil
}
