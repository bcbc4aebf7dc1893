package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	products "github.com/swapsafe/swapsafe-backend/internal/products"
	"github.com/swapsafe/swapsafe-backend/internal/transactions"
	"github.com/swapsafe/swapsafe-backend/pkg/enums"
	"github.com/swapsafe/swapsafe-backend/pkg/pagination"
)

type stubProductService struct {
	listInput products.ListProductsInput
	getID     uuid.UUID
	getOrigin *products.Coordinates
}

func (s *stubProductService) ListProducts(ctx context.Context, input products.ListProductsInput) (*pagination.Page[products.ProductDTO], error) {
	s.listInput = input
	return &pagination.Page[products.ProductDTO]{Items: []products.ProductDTO{}, Page: 1, PageSize: 6}, nil
}

func (s *stubProductService) GetProduct(ctx context.Context, id uuid.UUID, origin *products.Coordinates) (*products.ProductDetail, error) {
	s.getID = id
	s.getOrigin = origin
	return &products.ProductDetail{Product: products.ProductDTO{ID: id, Title: "MacBook Air M2"}}, nil
}

func TestListProductsParsesQuery(t *testing.T) {
	svc := &stubProductService{}
	target := "/api/v1/products?search=iphone&category=electronics&priceMin=100&priceMax=900" +
		"&condition=like-new,good&trustScoreMin=90&maxDistance=5&ecoFriendly=true&verifiedSellers=true" +
		"&scamShield=true&sort=price&direction=asc&page=2&pageSize=12&lat=37.77&lng=-122.41"
	rec := httptest.NewRecorder()
	ListProducts(svc, testLogger()).ServeHTTP(rec, newRequest(http.MethodGet, target, nil, uuid.Nil, nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	in := svc.listInput
	f := in.Filters
	if f.Keyword != "iphone" || f.Category != enums.ProductCategoryElectronics || f.TrustScoreMin != 90 {
		t.Fatalf("unexpected filters %+v", f)
	}
	if f.PriceMin == nil || f.PriceMin.String() != "100" || f.PriceMax == nil || f.PriceMax.String() != "900" {
		t.Fatalf("unexpected price bounds %v %v", f.PriceMin, f.PriceMax)
	}
	if len(f.Conditions) != 2 || f.Conditions[1] != enums.ProductConditionGood {
		t.Fatalf("unexpected conditions %v", f.Conditions)
	}
	if f.MaxDistance == nil || *f.MaxDistance != 5 || !f.EcoFriendly || !f.VerifiedSellers || !f.ScamShield {
		t.Fatalf("unexpected toggles %+v", f)
	}
	if in.Sort != enums.SortKeyPrice || in.Direction != enums.SortAsc {
		t.Fatalf("unexpected sort %s %s", in.Sort, in.Direction)
	}
	if in.Pagination.Page != 2 || in.Pagination.PageSize != 12 {
		t.Fatalf("unexpected pagination %+v", in.Pagination)
	}
	if in.Origin == nil || in.Origin.Latitude != 37.77 {
		t.Fatalf("unexpected origin %+v", in.Origin)
	}
}

func TestListProductsRejectsBadQuery(t *testing.T) {
	cases := map[string]string{
		"condition":   "/api/v1/products?condition=mint",
		"sort":        "/api/v1/products?sort=popularity",
		"half origin": "/api/v1/products?lat=37.7",
		"page size":   "/api/v1/products?pageSize=500",
		"price":       "/api/v1/products?priceMin=cheap",
	}
	for name, target := range cases {
		svc := &stubProductService{}
		rec := httptest.NewRecorder()
		ListProducts(svc, testLogger()).ServeHTTP(rec, newRequest(http.MethodGet, target, nil, uuid.Nil, nil))
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400 got %d", name, rec.Code)
		}
		if code := decodeError(t, rec).Error.Code; code != "VALIDATION_ERROR" {
			t.Fatalf("%s: unexpected code %s", name, code)
		}
	}
}

func TestGetProductParsesID(t *testing.T) {
	svc := &stubProductService{}
	id := uuid.New()

	rec := httptest.NewRecorder()
	GetProduct(svc, testLogger()).ServeHTTP(rec, newRequest(http.MethodGet, "/api/v1/products/"+id.String(), nil, uuid.Nil, map[string]string{"productId": id.String()}))
	if rec.Code != http.StatusOK || svc.getID != id || svc.getOrigin != nil {
		t.Fatalf("unexpected result code=%d id=%s origin=%v", rec.Code, svc.getID, svc.getOrigin)
	}

	rec = httptest.NewRecorder()
	GetProduct(svc, testLogger()).ServeHTTP(rec, newRequest(http.MethodGet, "/api/v1/products/nope", nil, uuid.Nil, map[string]string{"productId": "nope"}))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad id, got %d", rec.Code)
	}
}

func TestPurchaseProduct(t *testing.T) {
	buyer := uuid.New()
	productID := uuid.New()
	svc := &stubTransactionService{}
	handler := PurchaseProduct(svc, testLogger())
	params := map[string]string{"productId": productID.String()}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, newRequest(http.MethodPost, "/api/v1/products/x/purchase", strings.NewReader(`{"paymentMethod":"escrow"}`), uuid.Nil, params))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without viewer, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, newRequest(http.MethodPost, "/api/v1/products/x/purchase", strings.NewReader(`{}`), buyer, params))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without payment method, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, newRequest(http.MethodPost, "/api/v1/products/x/purchase", strings.NewReader(`{"paymentMethod":"escrow","notes":"leave at door"}`), buyer, params))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.viewer != buyer || svc.purchase.ProductID != productID || svc.purchase.PaymentMethod != "escrow" {
		t.Fatalf("unexpected purchase %+v by %s", svc.purchase, svc.viewer)
	}
	if svc.purchase.Notes == nil || *svc.purchase.Notes != "leave at door" {
		t.Fatalf("expected notes forwarded, got %v", svc.purchase.Notes)
	}
	var txn transactions.Transaction
	decodeData(t, rec, &txn)
	if txn.ID != "SW-2024-006" {
		t.Fatalf("unexpected transaction %+v", txn)
	}
}
