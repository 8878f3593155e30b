package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/calderwood/conreg-backend/api/middleware"
	"github.com/calderwood/conreg-backend/internal/offerings"
)

type stubOfferings struct {
	catalog        *offerings.Catalog
	lastConvention int64
	lastPrivileged bool
}

func (s *stubOfferings) List(_ context.Context, conventionID int64, includeRestricted bool) (*offerings.Catalog, error) {
	s.lastConvention = conventionID
	s.lastPrivileged = includeRestricted
	return s.catalog, nil
}

func (s *stubOfferings) InvalidateCatalog(context.Context, int64) {}

func TestListOfferingsAnonymous(t *testing.T) {
	t.Parallel()

	offSvc := &stubOfferings{catalog: &offerings.Catalog{ConventionID: 7}}
	handler := ListOfferings(offSvc, &stubConventions{convention: openConvention()}, testLogger())

	w := httptest.NewRecorder()
	handler(w, httptest.NewRequest(http.MethodGet, "/api/v1/offerings", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if offSvc.lastConvention != 7 {
		t.Fatalf("convention id = %d", offSvc.lastConvention)
	}
	if offSvc.lastPrivileged {
		t.Fatal("anonymous request must not see restricted offerings")
	}
}

func TestListOfferingsAdminSeesRestricted(t *testing.T) {
	t.Parallel()

	offSvc := &stubOfferings{catalog: &offerings.Catalog{ConventionID: 7}}
	handler := ListOfferings(offSvc, &stubConventions{convention: openConvention()}, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/offerings", nil)
	req = req.WithContext(middleware.WithAdmin(req.Context(), "admin-id", "registrar@example.com"))
	w := httptest.NewRecorder()
	handler(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !offSvc.lastPrivileged {
		t.Fatal("admin request should include restricted offerings")
	}
}

func TestListOfferingsConIdRequiresAdmin(t *testing.T) {
	t.Parallel()

	offSvc := &stubOfferings{catalog: &offerings.Catalog{}}
	handler := ListOfferings(offSvc, &stubConventions{convention: openConvention()}, testLogger())

	w := httptest.NewRecorder()
	handler(w, httptest.NewRequest(http.MethodGet, "/api/v1/offerings?conId=3", nil))

	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}
}
