package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	pkgauth "github.com/calderwood/conreg-backend/pkg/auth"
	"github.com/calderwood/conreg-backend/pkg/config"
	"github.com/calderwood/conreg-backend/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{Output: io.Discard, Level: zerolog.ErrorLevel})
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret-test-secret-test-1234",
		Issuer:            "conreg-test",
		ExpirationMinutes: 30,
	}
}

func mintToken(t *testing.T, cfg config.JWTConfig) (string, uuid.UUID) {
	t.Helper()
	adminID := uuid.New()
	token, err := pkgauth.MintAccessToken(cfg, time.Now(), pkgauth.AccessTokenPayload{
		AdminID: adminID,
		Email:   "registrar@example.com",
		Name:    "Registrar",
	})
	if err != nil {
		t.Fatalf("MintAccessToken: %v", err)
	}
	return token, adminID
}

func TestRequireAdminRejectsMissingToken(t *testing.T) {
	t.Parallel()

	handler := RequireAdmin(testJWTConfig(), testLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run without credentials")
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestRequireAdminRejectsGarbageToken(t *testing.T) {
	t.Parallel()

	handler := RequireAdmin(testJWTConfig(), testLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run with a bad token")
	}))

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestRequireAdminSeedsContext(t *testing.T) {
	t.Parallel()

	cfg := testJWTConfig()
	token, adminID := mintToken(t, cfg)

	var gotID, gotEmail string
	handler := RequireAdmin(cfg, testLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = AdminIDFromContext(r.Context())
		gotEmail = AdminEmailFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if gotID != adminID.String() {
		t.Fatalf("admin id = %q, want %q", gotID, adminID)
	}
	if gotEmail != "registrar@example.com" {
		t.Fatalf("admin email = %q", gotEmail)
	}
}

func TestOptionalAdminLetsAnonymousThrough(t *testing.T) {
	t.Parallel()

	var sawAdmin bool
	handler := OptionalAdmin(testJWTConfig(), testLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawAdmin = IsAdmin(r.Context())
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/offerings", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if sawAdmin {
		t.Fatal("anonymous request must not be an admin")
	}
}

func TestOptionalAdminTreatsBadTokenAsAnonymous(t *testing.T) {
	t.Parallel()

	var sawAdmin bool
	handler := OptionalAdmin(testJWTConfig(), testLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawAdmin = IsAdmin(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/offerings", nil)
	req.Header.Set("Authorization", "Bearer bogus")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusOK || sawAdmin {
		t.Fatalf("bad token should be anonymous, status=%d admin=%v", w.Code, sawAdmin)
	}
}

func TestOptionalAdminSeedsContextForValidToken(t *testing.T) {
	t.Parallel()

	cfg := testJWTConfig()
	token, adminID := mintToken(t, cfg)

	var gotID string
	handler := OptionalAdmin(cfg, testLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = AdminIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/offerings", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if gotID != adminID.String() {
		t.Fatalf("admin id = %q, want %q", gotID, adminID)
	}
}
