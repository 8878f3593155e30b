package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/calderwood/conreg-backend/internal/admins"
	pkgerrors "github.com/calderwood/conreg-backend/pkg/errors"
	"github.com/calderwood/conreg-backend/pkg/types"
)

func TestLoginSuccess(t *testing.T) {
	t.Parallel()

	svc := &stubAdmins{result: &admins.LoginResult{
		Token: "a.b.c",
		Email: "registrar@example.com",
		Name:  "Registrar",
	}}
	handler := Login(svc, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
		strings.NewReader(`{"email": "registrar@example.com", "password": "correct horse"}`))
	w := httptest.NewRecorder()
	handler(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var body types.SuccessEnvelope
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	data := body.Data.(map[string]any)
	if data["token"] != "a.b.c" {
		t.Fatalf("token = %v", data["token"])
	}
}

func TestLoginBadCredentials(t *testing.T) {
	t.Parallel()

	svc := &stubAdmins{err: pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid email or password")}
	handler := Login(svc, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
		strings.NewReader(`{"email": "registrar@example.com", "password": "wrong"}`))
	w := httptest.NewRecorder()
	handler(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestLoginRejectsMissingFields(t *testing.T) {
	t.Parallel()

	handler := Login(&stubAdmins{}, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
		strings.NewReader(`{"email": "not-an-email"}`))
	w := httptest.NewRecorder()
	handler(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}
