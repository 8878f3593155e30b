package controllers

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/calderwood/conreg-backend/api/responses"
	"github.com/calderwood/conreg-backend/api/validators"
	"github.com/calderwood/conreg-backend/internal/conventions"
	"github.com/calderwood/conreg-backend/internal/registrations"
	pkgerrors "github.com/calderwood/conreg-backend/pkg/errors"
	"github.com/calderwood/conreg-backend/pkg/logger"
)

func resolveConventionID(r *http.Request, conSvc conventions.Service) (int64, error) {
	conventionID, err := validators.ParseQueryInt64(r, "conId", 0)
	if err != nil {
		return 0, err
	}
	if conventionID != 0 {
		return conventionID, nil
	}
	convention, err := conSvc.Current(r.Context())
	if err != nil {
		return 0, err
	}
	return convention.ID, nil
}

// SearchRegistrations serves the paged admin search over finalized orders.
func SearchRegistrations(regSvc registrations.Service, conSvc conventions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if regSvc == nil || conSvc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "registration query unavailable"))
			return
		}

		conventionID, err := resolveConventionID(r, conSvc)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		page, err := validators.ParseQueryInt(r, "page", 0, 0, 1<<20)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		term := strings.TrimSpace(r.URL.Query().Get("term"))

		baseURL := r.URL.Path + "?"
		if term != "" {
			baseURL += "term=" + url.QueryEscape(term) + "&"
		}

		result, err := regSvc.Search(ctx, registrations.SearchInput{
			ConventionID: conventionID,
			Term:         term,
			Page:         page,
			BaseURL:      baseURL,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// RegistrationsReport streams the full registration report as CSV.
func RegistrationsReport(regSvc registrations.Service, conSvc conventions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if regSvc == nil || conSvc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "registration report unavailable"))
			return
		}

		conventionID, err := resolveConventionID(r, conSvc)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=registrations-%d.csv", conventionID))
		if err := regSvc.ExportCSV(ctx, conventionID, w); err != nil {
			// Headers are already out; log instead of rewriting the response.
			if logg != nil {
				logg.Error(ctx, "registration report export failed", err)
			}
		}
	}
}
