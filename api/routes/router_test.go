package routes

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	products "github.com/swapsafe/swapsafe-backend/internal/products"
	"github.com/swapsafe/swapsafe-backend/pkg/config"
	pkgerrors "github.com/swapsafe/swapsafe-backend/pkg/errors"
	"github.com/swapsafe/swapsafe-backend/pkg/logger"
	"github.com/swapsafe/swapsafe-backend/pkg/metrics"
	"github.com/swapsafe/swapsafe-backend/pkg/pagination"
)

type stubPinger struct {
	err error
}

func (s stubPinger) Ping(context.Context) error {
	return s.err
}

type stubSessionManager struct{}

func (stubSessionManager) HasSession(ctx context.Context, accessID string) (bool, error) {
	return true, nil
}

func (stubSessionManager) Rotate(ctx context.Context, oldAccessID string, userID uuid.UUID, provided string) (string, string, error) {
	return "", "", nil
}

func (stubSessionManager) Revoke(ctx context.Context, accessID string) error {
	return nil
}

type stubProducts struct{}

func (stubProducts) ListProducts(ctx context.Context, input products.ListProductsInput) (*pagination.Page[products.ProductDTO], error) {
	return &pagination.Page[products.ProductDTO]{
		Items:    []products.ProductDTO{{ID: uuid.New(), Title: "MacBook Air M2"}},
		Page:     1,
		PageSize: 20,
		Total:    1,
	}, nil
}

func (stubProducts) GetProduct(ctx context.Context, id uuid.UUID, origin *products.Coordinates) (*products.ProductDetail, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test"},
		JWT: config.JWTConfig{Secret: "secret", Issuer: "swapsafe", ExpirationMinutes: 10},
	}
}

func testRouter(t *testing.T, deps Dependencies) http.Handler {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "routes-test", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(testConfig(), logg, deps)
}

func TestHealthRoutes(t *testing.T) {
	router := testRouter(t, Dependencies{DB: stubPinger{}, Sessions: stubSessionManager{}})

	for _, path := range []string{"/health/live", "/health/ready"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("%s: expected 200 got %d", path, resp.Code)
		}
		if got := resp.Header().Get("X-SwapSafe-Env"); got != "test" {
			t.Fatalf("%s: expected env header got %q", path, got)
		}
	}
}

func TestReadinessReportsDependencyFailure(t *testing.T) {
	router := testRouter(t, Dependencies{DB: stubPinger{err: errors.New("db down")}, Sessions: stubSessionManager{}})

	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), `"dependency":"db"`) {
		t.Fatalf("expected dependency detail, got %s", resp.Body.String())
	}
}

func TestProductBrowsingIsPublic(t *testing.T) {
	router := testRouter(t, Dependencies{DB: stubPinger{}, Sessions: stubSessionManager{}, Products: stubProducts{}})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products?category=electronics", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if !strings.Contains(resp.Body.String(), "MacBook Air M2") {
		t.Fatalf("expected product in body, got %s", resp.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/products/"+uuid.NewString(), nil)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	router := testRouter(t, Dependencies{DB: stubPinger{}, Sessions: stubSessionManager{}})

	cases := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/transactions"},
		{http.MethodGet, "/api/v1/transactions/TXN-001"},
		{http.MethodPost, "/api/v1/transactions/TXN-001/actions"},
		{http.MethodGet, "/api/v1/notifications"},
		{http.MethodGet, "/api/v1/notifications/unread-count"},
		{http.MethodGet, "/api/v1/dashboard"},
		{http.MethodGet, "/api/v1/favorites"},
		{http.MethodPut, "/api/v1/products/" + uuid.NewString() + "/favorite"},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: expected 401 got %d", tc.method, tc.path, resp.Code)
		}
	}
}

func TestPurchaseRequiresAuth(t *testing.T) {
	router := testRouter(t, Dependencies{DB: stubPinger{}, Sessions: stubSessionManager{}})

	// no redis store: the idempotency guard passes through
	req := httptest.NewRequest(http.MethodPost, "/api/v1/products/"+uuid.NewString()+"/purchase", strings.NewReader(`{}`))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewNotificationMetrics(reg)
	m.StreamOpened()

	router := testRouter(t, Dependencies{DB: stubPinger{}, Sessions: stubSessionManager{}, Gatherer: reg, NotificationMetrics: m})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "notification_streams 1") {
		t.Fatalf("expected stream gauge in exposition, got %s", resp.Body.String())
	}
}

func TestUnknownRouteIs404(t *testing.T) {
	router := testRouter(t, Dependencies{DB: stubPinger{}, Sessions: stubSessionManager{}})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}
