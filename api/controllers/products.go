package controllers

import (
	"net/http"

	"github.com/swapsafe/swapsafe-backend/api/responses"
	"github.com/swapsafe/swapsafe-backend/api/validators"
	products "github.com/swapsafe/swapsafe-backend/internal/products"
	"github.com/swapsafe/swapsafe-backend/internal/transactions"
	"github.com/swapsafe/swapsafe-backend/pkg/enums"
	pkgerrors "github.com/swapsafe/swapsafe-backend/pkg/errors"
	"github.com/swapsafe/swapsafe-backend/pkg/logger"
	"github.com/swapsafe/swapsafe-backend/pkg/pagination"
)

type purchaseRequest struct {
	PaymentMethod string  `json:"paymentMethod" validate:"required,max=64"`
	Notes         *string `json:"notes" validate:"omitempty,max=1000"`
}

// ListProducts serves the marketplace browse grid.
func ListProducts(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		input, err := parseProductQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.ListProducts(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

// GetProduct returns one listing with its scam analysis and related listings.
func GetProduct(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		id, err := uuidParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		origin, err := parseOrigin(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.GetProduct(r.Context(), id, origin)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}

// PurchaseProduct opens an escrow transaction for the caller.
func PurchaseProduct(svc transactions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "transaction service unavailable"))
			return
		}

		buyer, err := viewerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		productID, err := uuidParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body purchaseRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		txn, err := svc.Purchase(r.Context(), buyer, transactions.PurchaseInput{
			ProductID:     productID,
			PaymentMethod: body.PaymentMethod,
			Notes:         body.Notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, txn)
	}
}

func parseProductQuery(r *http.Request) (products.ListProductsInput, error) {
	var input products.ListProductsInput
	var err error

	f := &input.Filters
	f.Keyword = r.URL.Query().Get("search")
	if f.Category, err = validators.ParseQueryEnum(r, "category", enums.ParseProductCategory); err != nil {
		return input, err
	}
	if f.PriceMin, err = validators.ParseQueryDecimal(r, "priceMin"); err != nil {
		return input, err
	}
	if f.PriceMax, err = validators.ParseQueryDecimal(r, "priceMax"); err != nil {
		return input, err
	}
	for _, raw := range validators.ParseQueryList(r, "condition") {
		c, parseErr := enums.ParseProductCondition(raw)
		if parseErr != nil {
			return input, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid query parameter").WithDetails(map[string]any{"field": "condition"})
		}
		f.Conditions = append(f.Conditions, c)
	}
	if f.TrustScoreMin, err = validators.ParseQueryInt(r, "trustScoreMin", 0, 0, 100); err != nil {
		return input, err
	}
	if f.MaxDistance, err = validators.ParseQueryFloat(r, "maxDistance"); err != nil {
		return input, err
	}
	if f.EcoFriendly, err = validators.ParseQueryBool(r, "ecoFriendly"); err != nil {
		return input, err
	}
	if f.VerifiedSellers, err = validators.ParseQueryBool(r, "verifiedSellers"); err != nil {
		return input, err
	}
	if f.ScamShield, err = validators.ParseQueryBool(r, "scamShield"); err != nil {
		return input, err
	}

	if input.Sort, err = validators.ParseQueryEnum(r, "sort", enums.ParseSortKey); err != nil {
		return input, err
	}
	if input.Direction, err = validators.ParseQueryEnum(r, "direction", enums.ParseSortDirection); err != nil {
		return input, err
	}
	if input.Pagination.Page, err = validators.ParseQueryInt(r, "page", 1, 1, 10000); err != nil {
		return input, err
	}
	if input.Pagination.PageSize, err = validators.ParseQueryInt(r, "pageSize", pagination.DefaultPageSize, 1, pagination.MaxPageSize); err != nil {
		return input, err
	}
	if input.Origin, err = parseOrigin(r); err != nil {
		return input, err
	}
	return input, nil
}

// parseOrigin reads lat/lng; both or neither must be present.
func parseOrigin(r *http.Request) (*products.Coordinates, error) {
	lat, err := validators.ParseQueryFloat(r, "lat")
	if err != nil {
		return nil, err
	}
	lng, err := validators.ParseQueryFloat(r, "lng")
	if err != nil {
		return nil, err
	}
	switch {
	case lat == nil && lng == nil:
		return nil, nil
	case lat == nil || lng == nil:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "lat and lng must be provided together")
	case *lat < -90 || *lat > 90 || *lng < -180 || *lng > 180:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coordinates out of range")
	}
	return &products.Coordinates{Latitude: *lat, Longitude: *lng}, nil
}
