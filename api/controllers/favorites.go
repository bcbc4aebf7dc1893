package controllers

import (
	"net/http"

	"github.com/swapsafe/swapsafe-backend/api/responses"
	"github.com/swapsafe/swapsafe-backend/api/validators"
	"github.com/swapsafe/swapsafe-backend/internal/wishlist"
	pkgerrors "github.com/swapsafe/swapsafe-backend/pkg/errors"
	"github.com/swapsafe/swapsafe-backend/pkg/logger"
	"github.com/swapsafe/swapsafe-backend/pkg/pagination"
)

// ListFavorites returns the caller's saved products.
func ListFavorites(svc wishlist.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "wishlist service unavailable"))
			return
		}
		userID, err := viewerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var params pagination.Params
		if params.Page, err = validators.ParseQueryInt(r, "page", 1, 1, 10000); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if params.PageSize, err = validators.ParseQueryInt(r, "pageSize", pagination.DefaultPageSize, 1, pagination.MaxPageSize); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.List(r.Context(), userID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

// AddFavorite saves a product for the caller.
func AddFavorite(svc wishlist.Service, logg *logger.Logger) http.HandlerFunc {
	return toggleFavorite(svc, logg, true)
}

// RemoveFavorite un-saves a product for the caller.
func RemoveFavorite(svc wishlist.Service, logg *logger.Logger) http.HandlerFunc {
	return toggleFavorite(svc, logg, false)
}

func toggleFavorite(svc wishlist.Service, logg *logger.Logger, add bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "wishlist service unavailable"))
			return
		}
		userID, err := viewerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		productID, err := uuidParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var out *wishlist.Toggle
		if add {
			out, err = svc.Add(r.Context(), userID, productID)
		} else {
			out, err = svc.Remove(r.Context(), userID, productID)
		}
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, out)
	}
}
