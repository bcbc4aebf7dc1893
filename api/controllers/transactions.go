package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/swapsafe/swapsafe-backend/api/responses"
	"github.com/swapsafe/swapsafe-backend/api/validators"
	"github.com/swapsafe/swapsafe-backend/internal/transactions"
	"github.com/swapsafe/swapsafe-backend/pkg/enums"
	pkgerrors "github.com/swapsafe/swapsafe-backend/pkg/errors"
	"github.com/swapsafe/swapsafe-backend/pkg/logger"
)

type transactionActionRequest struct {
	Action string `json:"action" validate:"required"`
}

// ListTransactions returns the caller's orders filtered by the query string,
// with counts per tab.
func ListTransactions(svc transactions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "transaction service unavailable"))
			return
		}

		viewer, err := viewerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filters, err := parseTransactionQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.List(r.Context(), viewer, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func GetTransaction(svc transactions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "transaction service unavailable"))
			return
		}

		viewer, err := viewerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		txn, err := svc.Get(r.Context(), viewer, transactionIDParam(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, txn)
	}
}

// TransactionAction applies a buyer or seller action to an order.
func TransactionAction(svc transactions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "transaction service unavailable"))
			return
		}

		viewer, err := viewerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body transactionActionRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		action, err := enums.ParseTransactionAction(strings.TrimSpace(body.Action))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid action").WithDetails(map[string]any{"field": "action"}))
			return
		}

		txn, err := svc.PerformAction(r.Context(), viewer, transactionIDParam(r), action)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, txn)
	}
}

func transactionIDParam(r *http.Request) string {
	return strings.ToUpper(strings.TrimSpace(chi.URLParam(r, "id")))
}

func parseTransactionQuery(r *http.Request) (transactions.Filters, error) {
	var f transactions.Filters
	var err error

	f.Search = r.URL.Query().Get("search")
	if f.Tab, err = validators.ParseQueryEnum(r, "tab", enums.ParseTransactionTab); err != nil {
		return f, err
	}
	if f.Status, err = validators.ParseQueryEnum(r, "status", enums.ParseTransactionStatus); err != nil {
		return f, err
	}
	if f.Role, err = validators.ParseQueryEnum(r, "role", enums.ParseTransactionRole); err != nil {
		return f, err
	}
	if f.Amount, err = validators.ParseQueryEnum(r, "amount", enums.ParseAmountBucket); err != nil {
		return f, err
	}
	if f.DateFrom, err = validators.ParseQueryDate(r, "dateFrom"); err != nil {
		return f, err
	}
	if f.DateTo, err = validators.ParseQueryDate(r, "dateTo"); err != nil {
		return f, err
	}
	if f.DateFrom != nil && f.DateTo != nil && f.DateFrom.After(*f.DateTo) {
		return f, pkgerrors.New(pkgerrors.CodeValidation, "dateFrom must not be after dateTo")
	}
	if f.HighRiskOnly, err = validators.ParseQueryBool(r, "highRiskOnly"); err != nil {
		return f, err
	}
	if f.Sort, err = validators.ParseQueryEnum(r, "sort", enums.ParseSortKey); err != nil {
		return f, err
	}
	if f.Direction, err = validators.ParseQueryEnum(r, "direction", enums.ParseSortDirection); err != nil {
		return f, err
	}
	return f, nil
}
