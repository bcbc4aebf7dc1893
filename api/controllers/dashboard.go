package controllers

import (
	"net/http"

	"github.com/swapsafe/swapsafe-backend/api/responses"
	"github.com/swapsafe/swapsafe-backend/internal/dashboard"
	pkgerrors "github.com/swapsafe/swapsafe-backend/pkg/errors"
	"github.com/swapsafe/swapsafe-backend/pkg/logger"
)

func Dashboard(svc dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dashboard service unavailable"))
			return
		}

		userID, err := viewerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		summary, err := svc.Summary(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}
