package controllers

import (
	"net/http"

	"github.com/calderwood/conreg-backend/api/responses"
	"github.com/calderwood/conreg-backend/api/validators"
	"github.com/calderwood/conreg-backend/internal/admins"
	pkgerrors "github.com/calderwood/conreg-backend/pkg/errors"
	"github.com/calderwood/conreg-backend/pkg/logger"
)

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login authenticates an admin and returns the bearer token used by the
// registration query endpoints.
func Login(svc admins.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var req loginRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := svc.Login(ctx, req.Email, req.Password)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
