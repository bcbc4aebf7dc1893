package controllers

import (
	"net/http"

	"github.com/swapsafe/swapsafe-backend/api/responses"
	"github.com/swapsafe/swapsafe-backend/api/validators"
	"github.com/swapsafe/swapsafe-backend/internal/auth"
	pkgerrors "github.com/swapsafe/swapsafe-backend/pkg/errors"
	"github.com/swapsafe/swapsafe-backend/pkg/logger"
)

// AuthLogin exchanges credentials for an access token and refresh token.
func AuthLogin(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var body auth.LoginRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		w.Header().Set(tokenHeader, result.Token)
		responses.WriteSuccess(w, result)
	}
}

// AuthRegister creates an account and signs it in.
func AuthRegister(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var body auth.RegisterRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Register(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		w.Header().Set(tokenHeader, result.Token)
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}
