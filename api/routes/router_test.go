package routes

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/calderwood/conreg-backend/pkg/config"
	"github.com/calderwood/conreg-backend/pkg/logger"
)

func testRouter(t *testing.T) http.Handler {
	t.Helper()
	cfg := &config.Config{}
	cfg.App.Env = "test"
	cfg.JWT = config.JWTConfig{
		Secret:            "test-secret-test-secret-test-1234",
		Issuer:            "conreg-test",
		ExpirationMinutes: 30,
	}
	logg := logger.New(logger.Options{Output: io.Discard, Level: zerolog.ErrorLevel})
	return NewRouter(cfg, logg, nil, nil, prometheus.NewRegistry(), nil, nil, nil, nil, nil)
}

func TestRouterHealthLive(t *testing.T) {
	t.Parallel()

	r := testRouter(t)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if got := w.Header().Get("X-ConReg-Env"); got != "test" {
		t.Fatalf("env header = %q", got)
	}
}

func TestRouterMetricsExposed(t *testing.T) {
	t.Parallel()

	r := testRouter(t)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestRouterRegistrationsRequireAuth(t *testing.T) {
	t.Parallel()

	r := testRouter(t)
	for _, path := range []string{"/api/v1/registrations/", "/api/v1/registrations/report"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("%s status = %d, want 401", path, w.Code)
		}
	}
}

func TestRouterAdminOrderActionsRequireAuth(t *testing.T) {
	t.Parallel()

	r := testRouter(t)
	for _, path := range []string{
		"/api/v1/orders/3e9a4a38-33e5-4f5a-8e52-7dbb4fbf0a7d/pay",
		"/api/v1/orders/3e9a4a38-33e5-4f5a-8e52-7dbb4fbf0a7d/cancel",
		"/api/v1/orders/3e9a4a38-33e5-4f5a-8e52-7dbb4fbf0a7d/refund",
	} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, path, nil))
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("%s status = %d, want 401", path, w.Code)
		}
	}
}

func TestRouterUnknownRoute(t *testing.T) {
	t.Parallel()

	r := testRouter(t)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d", w.Code)
	}
}
