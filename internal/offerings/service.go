// Package offerings serves the catalog a convention presents to visitors.
package offerings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/calderwood/conreg-backend/internal/conventions"
	"github.com/calderwood/conreg-backend/pkg/db/models"
	pkgerrors "github.com/calderwood/conreg-backend/pkg/errors"
	"github.com/calderwood/conreg-backend/pkg/logger"
	pkgredis "github.com/calderwood/conreg-backend/pkg/redis"
)

type repository interface {
	ListByConvention(ctx context.Context, conventionID int64) ([]models.Offering, error)
	SoldCounts(ctx context.Context, conventionID int64) (map[uuid.UUID]int, error)
}

type catalogCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	CatalogKey(conventionID int64) string
}

// Service exposes catalog reads.
type Service interface {
	List(ctx context.Context, conventionID int64, includeRestricted bool) (*Catalog, error)
	InvalidateCatalog(ctx context.Context, conventionID int64)
}

type service struct {
	repo        repository
	conventions conventions.Service
	cache       catalogCache
	cacheTTL    time.Duration
	logg        *logger.Logger
}

// NewService builds the catalog service. The cache is optional; without it
// every List hits the database.
func NewService(repo repository, cons conventions.Service, cache catalogCache, cacheTTL time.Duration, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("offering repository required")
	}
	if cons == nil {
		return nil, fmt.Errorf("convention service required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:        repo,
		conventions: cons,
		cache:       cache,
		cacheTTL:    cacheTTL,
		logg:        logg,
	}, nil
}

// List returns the catalog snapshot for the convention. Restricted offerings
// are filtered out for unprivileged callers. The unprivileged snapshot is
// served from the cache when fresh; the privileged view always hits the
// database.
func (s *service) List(ctx context.Context, conventionID int64, includeRestricted bool) (*Catalog, error) {
	if !includeRestricted && s.cache != nil {
		if raw, err := s.cache.Get(ctx, s.cache.CatalogKey(conventionID)); err == nil {
			var cached Catalog
			if err := json.Unmarshal([]byte(raw), &cached); err == nil {
				return &cached, nil
			}
			// Unreadable payload: fall through and rebuild.
			s.cache.Del(ctx, s.cache.CatalogKey(conventionID))
		} else if !errors.Is(err, pkgredis.ErrMiss) {
			s.logg.Warn(ctx, "catalog cache read failed, serving from db")
		}
	}

	regClosed, err := s.conventions.RegClosed(ctx, conventionID)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.ListByConvention(ctx, conventionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing offerings")
	}
	sold, err := s.repo.SoldCounts(ctx, conventionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting sold items")
	}

	catalog := &Catalog{ConventionID: conventionID, RegClosed: regClosed}
	for _, row := range rows {
		if row.IsRestricted && !includeRestricted {
			continue
		}
		catalog.Offerings = append(catalog.Offerings, toDTO(row, sold[row.ID]))
	}

	if !includeRestricted && s.cache != nil && s.cacheTTL > 0 {
		if payload, err := json.Marshal(catalog); err == nil {
			if err := s.cache.Set(ctx, s.cache.CatalogKey(conventionID), string(payload), s.cacheTTL); err != nil {
				s.logg.Warn(ctx, "catalog cache write failed")
			}
		}
	}

	return catalog, nil
}

// InvalidateCatalog drops the cached snapshot after a write that consumed
// inventory.
func (s *service) InvalidateCatalog(ctx context.Context, conventionID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, s.cache.CatalogKey(conventionID)); err != nil {
		s.logg.Warn(ctx, "catalog cache invalidation failed")
	}
}
