package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/swapsafe/swapsafe-backend/internal/transactions"
	"github.com/swapsafe/swapsafe-backend/pkg/enums"
	pkgerrors "github.com/swapsafe/swapsafe-backend/pkg/errors"
)

type stubTransactionService struct {
	viewer   uuid.UUID
	filters  transactions.Filters
	id       string
	action   enums.TransactionAction
	purchase transactions.PurchaseInput
	err      error
}

func (s *stubTransactionService) List(ctx context.Context, viewer uuid.UUID, filters transactions.Filters) (*transactions.ListResult, error) {
	s.viewer, s.filters = viewer, filters
	return &transactions.ListResult{Items: []transactions.Transaction{}}, s.err
}

func (s *stubTransactionService) Get(ctx context.Context, viewer uuid.UUID, id string) (*transactions.Transaction, error) {
	s.viewer, s.id = viewer, id
	if s.err != nil {
		return nil, s.err
	}
	return &transactions.Transaction{ID: id}, nil
}

func (s *stubTransactionService) PerformAction(ctx context.Context, viewer uuid.UUID, id string, action enums.TransactionAction) (*transactions.Transaction, error) {
	s.viewer, s.id, s.action = viewer, id, action
	if s.err != nil {
		return nil, s.err
	}
	return &transactions.Transaction{ID: id, Status: enums.TransactionStatusProcessing}, nil
}

func (s *stubTransactionService) Dispatch(ctx context.Context, viewer uuid.UUID, id string, action enums.TransactionAction, within transactions.WithinFunc) (*transactions.Transaction, error) {
	return s.PerformAction(ctx, viewer, id, action)
}

func (s *stubTransactionService) Purchase(ctx context.Context, buyer uuid.UUID, input transactions.PurchaseInput) (*transactions.Transaction, error) {
	s.viewer, s.purchase = buyer, input
	return &transactions.Transaction{ID: "SW-2024-006", Status: enums.TransactionStatusPending}, s.err
}

func TestListTransactionsParsesFilters(t *testing.T) {
	viewer := uuid.New()
	svc := &stubTransactionService{}
	target := "/api/v1/transactions?search=macbook&tab=active&status=shipped&role=selling&amount=500%2B" +
		"&dateFrom=2024-01-01&dateTo=2024-01-31&highRiskOnly=true&sort=amount&direction=asc"

	rec := httptest.NewRecorder()
	ListTransactions(svc, testLogger()).ServeHTTP(rec, newRequest(http.MethodGet, target, nil, viewer, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	f := svc.filters
	if svc.viewer != viewer || f.Search != "macbook" || f.Tab != enums.TransactionTabActive {
		t.Fatalf("unexpected filters %+v", f)
	}
	if f.Status != enums.TransactionStatusShipped || f.Role != enums.TransactionRoleSeller || f.Amount != enums.AmountBucketAbove500 {
		t.Fatalf("unexpected enum filters %+v", f)
	}
	if f.DateFrom == nil || f.DateTo == nil || f.DateTo.Day() != 31 || !f.HighRiskOnly {
		t.Fatalf("unexpected range filters %+v", f)
	}
	if f.Sort != enums.SortKeyAmount || f.Direction != enums.SortAsc {
		t.Fatalf("unexpected sort %s %s", f.Sort, f.Direction)
	}
}

func TestListTransactionsRejectsBadFilters(t *testing.T) {
	viewer := uuid.New()
	for _, target := range []string{
		"/api/v1/transactions?tab=archived",
		"/api/v1/transactions?amount=1000-2000",
		"/api/v1/transactions?dateFrom=2024-02-01&dateTo=2024-01-01",
		"/api/v1/transactions?dateFrom=yesterday",
	} {
		rec := httptest.NewRecorder()
		ListTransactions(&stubTransactionService{}, testLogger()).ServeHTTP(rec, newRequest(http.MethodGet, target, nil, viewer, nil))
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400 got %d", target, rec.Code)
		}
	}
}

func TestGetTransactionRequiresViewer(t *testing.T) {
	rec := httptest.NewRecorder()
	GetTransaction(&stubTransactionService{}, testLogger()).ServeHTTP(rec, newRequest(http.MethodGet, "/api/v1/transactions/SW-2024-001", nil, uuid.Nil, map[string]string{"id": "SW-2024-001"}))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}

func TestGetTransactionNormalizesID(t *testing.T) {
	svc := &stubTransactionService{}
	rec := httptest.NewRecorder()
	GetTransaction(svc, testLogger()).ServeHTTP(rec, newRequest(http.MethodGet, "/api/v1/transactions/sw-2024-001", nil, uuid.New(), map[string]string{"id": "sw-2024-001"}))
	if rec.Code != http.StatusOK || svc.id != "SW-2024-001" {
		t.Fatalf("unexpected code=%d id=%s", rec.Code, svc.id)
	}
}

func TestTransactionAction(t *testing.T) {
	viewer := uuid.New()
	params := map[string]string{"id": "SW-2024-001"}

	svc := &stubTransactionService{}
	rec := httptest.NewRecorder()
	TransactionAction(svc, testLogger()).ServeHTTP(rec, newRequest(http.MethodPost, "/x", strings.NewReader(`{"action":"confirm"}`), viewer, params))
	if rec.Code != http.StatusOK || svc.action != enums.TransactionActionConfirm || svc.id != "SW-2024-001" {
		t.Fatalf("unexpected code=%d action=%s id=%s", rec.Code, svc.action, svc.id)
	}

	rec = httptest.NewRecorder()
	TransactionAction(svc, testLogger()).ServeHTTP(rec, newRequest(http.MethodPost, "/x", strings.NewReader(`{"action":"teleport"}`), viewer, params))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown action, got %d", rec.Code)
	}

	svc = &stubTransactionService{err: pkgerrors.New(pkgerrors.CodeStateConflict, "cannot ship a pending order")}
	rec = httptest.NewRecorder()
	TransactionAction(svc, testLogger()).ServeHTTP(rec, newRequest(http.MethodPost, "/x", strings.NewReader(`{"action":"ship"}`), viewer, params))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for disallowed transition, got %d", rec.Code)
	}
	if env := decodeError(t, rec); env.Error.Code != "STATE_CONFLICT" {
		t.Fatalf("unexpected code %s", env.Error.Code)
	}
}
