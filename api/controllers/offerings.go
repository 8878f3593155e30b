package controllers

import (
	"net/http"

	"github.com/calderwood/conreg-backend/api/middleware"
	"github.com/calderwood/conreg-backend/api/responses"
	"github.com/calderwood/conreg-backend/api/validators"
	"github.com/calderwood/conreg-backend/internal/conventions"
	"github.com/calderwood/conreg-backend/internal/offerings"
	pkgerrors "github.com/calderwood/conreg-backend/pkg/errors"
	"github.com/calderwood/conreg-backend/pkg/logger"
)

// ListOfferings serves the public catalog for the current convention.
// Admin bearer tokens also see restricted offerings and may target a past
// convention with the conId parameter.
func ListOfferings(offSvc offerings.Service, conSvc conventions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if offSvc == nil || conSvc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog unavailable"))
			return
		}

		isAdmin := middleware.IsAdmin(ctx)

		conventionID, err := validators.ParseQueryInt64(r, "conId", 0)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if conventionID != 0 && !isAdmin {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "convention override requires admin access"))
			return
		}
		if conventionID == 0 {
			convention, err := conSvc.Current(ctx)
			if err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
			conventionID = convention.ID
		}

		catalog, err := offSvc.List(ctx, conventionID, isAdmin)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, catalog)
	}
}
