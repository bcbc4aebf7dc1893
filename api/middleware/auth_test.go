package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/swapsafe/swapsafe-backend/pkg/auth"
	"github.com/swapsafe/swapsafe-backend/pkg/auth/session"
	"github.com/swapsafe/swapsafe-backend/pkg/config"
	"github.com/swapsafe/swapsafe-backend/pkg/enums"
)

func testJWT(minutes int) config.JWTConfig {
	return config.JWTConfig{Secret: "secret", Issuer: "swapsafe", ExpirationMinutes: minutes}
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthRejectsMissingToken(t *testing.T) {
	handler := Auth(testJWT(10), stubSessionVerifier{ok: true}, nil)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthRejectsInvalidToken(t *testing.T) {
	handler := Auth(testJWT(10), stubSessionVerifier{ok: true}, nil)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer invalid")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthAllowsValidToken(t *testing.T) {
	cfg := testJWT(60)
	userID := uuid.New()
	token := mintTestToken(t, cfg, userID, enums.UserTypeBuyer)

	var captured struct {
		user     string
		userType string
		access   string
	}
	handler := Auth(cfg, stubSessionVerifier{ok: true}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.user = UserIDFromContext(r.Context())
		captured.userType = UserTypeFromContext(r.Context())
		captured.access = AccessIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if captured.user != userID.String() {
		t.Fatalf("expected user %s got %s", userID, captured.user)
	}
	if captured.userType != string(enums.UserTypeBuyer) {
		t.Fatalf("expected buyer got %s", captured.userType)
	}
	if captured.access == "" {
		t.Fatal("expected access id in context")
	}
}

func TestAuthAcceptsQueryToken(t *testing.T) {
	cfg := testJWT(60)
	token := mintTestToken(t, cfg, uuid.New(), enums.UserTypeSeller)
	handler := Auth(cfg, stubSessionVerifier{ok: true}, nil)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/notifications/stream?token="+token, nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestAuthRejectsRevokedSession(t *testing.T) {
	cfg := testJWT(60)
	token := mintTestToken(t, cfg, uuid.New(), enums.UserTypeBuyer)

	cases := []struct {
		name     string
		verifier stubSessionVerifier
		want     int
	}{
		{"revoked", stubSessionVerifier{ok: false}, http.StatusUnauthorized},
		{"store down", stubSessionVerifier{err: errors.New("redis down")}, http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		handler := Auth(cfg, tc.verifier, nil)(okHandler())
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, req)
		if resp.Code != tc.want {
			t.Fatalf("%s: expected %d got %d", tc.name, tc.want, resp.Code)
		}
	}
}

func TestBearerToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "bearer  abc ")
	if got := BearerToken(req); got != "abc" {
		t.Fatalf("expected abc got %q", got)
	}
}

func mintTestToken(t *testing.T, cfg config.JWTConfig, userID uuid.UUID, userType enums.UserType) string {
	t.Helper()
	token, err := auth.MintAccessToken(cfg, time.Now(), auth.AccessTokenPayload{
		UserID:   userID,
		Email:    "buyer@swapsafe.com",
		UserType: userType,
		JTI:      session.NewAccessID(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

type stubSessionVerifier struct {
	ok  bool
	err error
}

func (s stubSessionVerifier) HasSession(ctx context.Context, accessID string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	return s.ok, nil
}
