package offerings

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/calderwood/conreg-backend/pkg/db/models"
	"github.com/calderwood/conreg-backend/pkg/logger"
	pkgredis "github.com/calderwood/conreg-backend/pkg/redis"
)

type stubRepo struct {
	rows      []models.Offering
	sold      map[uuid.UUID]int
	listCalls int
}

func (s *stubRepo) ListByConvention(ctx context.Context, conventionID int64) ([]models.Offering, error) {
	s.listCalls++
	return s.rows, nil
}

func (s *stubRepo) SoldCounts(ctx context.Context, conventionID int64) (map[uuid.UUID]int, error) {
	return s.sold, nil
}

type stubConventions struct {
	regClosed bool
}

func (s *stubConventions) Current(ctx context.Context) (*models.Convention, error) {
	return &models.Convention{ID: 1}, nil
}

func (s *stubConventions) Get(ctx context.Context, id int64) (*models.Convention, error) {
	return &models.Convention{ID: id}, nil
}

func (s *stubConventions) RegClosed(ctx context.Context, id int64) (bool, error) {
	return s.regClosed, nil
}

type stubCache struct {
	data map[string]string
}

func newStubCache() *stubCache {
	return &stubCache{data: map[string]string{}}
}

func (c *stubCache) Get(ctx context.Context, key string) (string, error) {
	v, ok := c.data[key]
	if !ok {
		return "", pkgredis.ErrMiss
	}
	return v, nil
}

func (c *stubCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	c.data[key] = value.(string)
	return nil
}

func (c *stubCache) Del(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

func (c *stubCache) CatalogKey(conventionID int64) string {
	return "test:catalog"
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{Output: io.Discard, Level: zerolog.ErrorLevel})
}

func cappedOffering(quantity int, restricted bool) models.Offering {
	return models.Offering{
		ID:           uuid.New(),
		ConventionID: 1,
		Title:        "Weekend Pass",
		Quantity:     &quantity,
		IsRestricted: restricted,
	}
}

func TestListComputesRemaining(t *testing.T) {
	t.Parallel()

	offering := cappedOffering(10, false)
	repo := &stubRepo{
		rows: []models.Offering{offering},
		sold: map[uuid.UUID]int{offering.ID: 4},
	}
	svc, err := NewService(repo, &stubConventions{}, nil, 0, testLogger())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	catalog, err := svc.List(context.Background(), 1, false)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(catalog.Offerings) != 1 {
		t.Fatalf("expected 1 offering, got %d", len(catalog.Offerings))
	}
	if got := catalog.Offerings[0].Remaining; got == nil || *got != 6 {
		t.Fatalf("expected remaining 6, got %v", got)
	}
}

func TestListUncappedOfferingHasNilRemaining(t *testing.T) {
	t.Parallel()

	offering := models.Offering{ID: uuid.New(), ConventionID: 1, Title: "Donation"}
	repo := &stubRepo{rows: []models.Offering{offering}}
	svc, _ := NewService(repo, &stubConventions{}, nil, 0, testLogger())

	catalog, err := svc.List(context.Background(), 1, false)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if catalog.Offerings[0].Remaining != nil {
		t.Fatal("uncapped offering must report nil remaining")
	}
}

func TestListFiltersRestrictedForUnprivileged(t *testing.T) {
	t.Parallel()

	repo := &stubRepo{rows: []models.Offering{
		cappedOffering(5, false),
		cappedOffering(5, true),
	}}
	svc, _ := NewService(repo, &stubConventions{}, nil, 0, testLogger())

	catalog, err := svc.List(context.Background(), 1, false)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(catalog.Offerings) != 1 {
		t.Fatalf("expected restricted offering hidden, got %d rows", len(catalog.Offerings))
	}

	catalog, err = svc.List(context.Background(), 1, true)
	if err != nil {
		t.Fatalf("list privileged: %v", err)
	}
	if len(catalog.Offerings) != 2 {
		t.Fatalf("expected privileged caller to see both, got %d rows", len(catalog.Offerings))
	}
}

func TestListCarriesRegClosed(t *testing.T) {
	t.Parallel()

	repo := &stubRepo{}
	svc, _ := NewService(repo, &stubConventions{regClosed: true}, nil, 0, testLogger())

	catalog, err := svc.List(context.Background(), 1, false)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !catalog.RegClosed {
		t.Fatal("expected reg_closed flag set")
	}
}

func TestListServesFromCacheAndInvalidates(t *testing.T) {
	t.Parallel()

	repo := &stubRepo{rows: []models.Offering{cappedOffering(5, false)}}
	cache := newStubCache()
	svc, _ := NewService(repo, &stubConventions{}, cache, time.Minute, testLogger())

	ctx := context.Background()
	if _, err := svc.List(ctx, 1, false); err != nil {
		t.Fatalf("list: %v", err)
	}
	if _, err := svc.List(ctx, 1, false); err != nil {
		t.Fatalf("list: %v", err)
	}
	if repo.listCalls != 1 {
		t.Fatalf("expected second list served from cache, got %d db reads", repo.listCalls)
	}

	svc.InvalidateCatalog(ctx, 1)
	if _, err := svc.List(ctx, 1, false); err != nil {
		t.Fatalf("list: %v", err)
	}
	if repo.listCalls != 2 {
		t.Fatalf("expected invalidation to force a db read, got %d", repo.listCalls)
	}
}

func TestPrivilegedListBypassesCache(t *testing.T) {
	t.Parallel()

	repo := &stubRepo{rows: []models.Offering{cappedOffering(5, true)}}
	cache := newStubCache()
	svc, _ := NewService(repo, &stubConventions{}, cache, time.Minute, testLogger())

	ctx := context.Background()
	if _, err := svc.List(ctx, 1, true); err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(cache.data) != 0 {
		t.Fatal("privileged snapshot must never be cached")
	}
}
