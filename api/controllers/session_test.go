package controllers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/swapsafe/swapsafe-backend/internal/auth"
	"github.com/swapsafe/swapsafe-backend/internal/users"
	pkgAuth "github.com/swapsafe/swapsafe-backend/pkg/auth"
	"github.com/swapsafe/swapsafe-backend/pkg/auth/session"
	"github.com/swapsafe/swapsafe-backend/pkg/config"
	"github.com/swapsafe/swapsafe-backend/pkg/enums"
	pkgerrors "github.com/swapsafe/swapsafe-backend/pkg/errors"
)

var testJWTConfig = config.JWTConfig{Secret: "test-secret", Issuer: "swapsafe", ExpirationMinutes: 60}

type stubRotator struct {
	rotatedFrom string
	rotatedFor  uuid.UUID
	revoked     string
	rotateErr   error
}

func (s *stubRotator) Rotate(ctx context.Context, oldAccessID string, userID uuid.UUID, provided string) (string, string, error) {
	s.rotatedFrom, s.rotatedFor = oldAccessID, userID
	if s.rotateErr != nil {
		return "", "", s.rotateErr
	}
	return "new-access-id", "new-refresh", nil
}

func (s *stubRotator) Revoke(ctx context.Context, accessID string) error {
	s.revoked = accessID
	return nil
}

func mintToken(t *testing.T, now time.Time, userID uuid.UUID) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(testJWTConfig, now, pkgAuth.AccessTokenPayload{
		UserID:   userID,
		Email:    "buyer@swapsafe.com",
		UserType: enums.UserTypeBuyer,
		JTI:      "old-access-id",
	})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	return token
}

func TestAuthRefreshRotatesExpiredToken(t *testing.T) {
	userID := uuid.New()
	rotator := &stubRotator{}
	token := mintToken(t, time.Now().Add(-2*time.Hour), userID)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", strings.NewReader(`{"refreshToken":"old-refresh"}`))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	AuthRefresh(rotator, testJWTConfig, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if rotator.rotatedFrom != "old-access-id" || rotator.rotatedFor != userID {
		t.Fatalf("unexpected rotation %+v", rotator)
	}
	var payload refreshResponse
	decodeData(t, rec, &payload)
	if payload.RefreshToken != "new-refresh" || payload.Token == "" || rec.Header().Get(tokenHeader) != payload.Token {
		t.Fatalf("unexpected payload %+v", payload)
	}
	claims, err := pkgAuth.ParseAccessToken(testJWTConfig, payload.Token)
	if err != nil {
		t.Fatalf("parse new token: %v", err)
	}
	if claims.ID != "new-access-id" || claims.UserID != userID || claims.Email != "buyer@swapsafe.com" {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestAuthRefreshRejectsInvalidRefreshToken(t *testing.T) {
	rotator := &stubRotator{rotateErr: session.ErrInvalidRefreshToken}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", strings.NewReader(`{"refreshToken":"stolen"}`))
	req.Header.Set("Authorization", "Bearer "+mintToken(t, time.Now(), uuid.New()))
	rec := httptest.NewRecorder()
	AuthRefresh(rotator, testJWTConfig, testLogger()).ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}

	rotator.rotateErr = errors.New("redis down")
	req = httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", strings.NewReader(`{"refreshToken":"x"}`))
	req.Header.Set("Authorization", "Bearer "+mintToken(t, time.Now(), uuid.New()))
	rec = httptest.NewRecorder()
	AuthRefresh(rotator, testJWTConfig, testLogger()).ServeHTTP(rec, req)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d", rec.Code)
	}
}

func TestAuthLogout(t *testing.T) {
	rotator := &stubRotator{}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, time.Now(), uuid.New()))
	rec := httptest.NewRecorder()
	AuthLogout(rotator, testJWTConfig, testLogger()).ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || rotator.revoked != "old-access-id" {
		t.Fatalf("unexpected code=%d revoked=%s", rec.Code, rotator.revoked)
	}

	rec = httptest.NewRecorder()
	AuthLogout(rotator, testJWTConfig, testLogger()).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}
}

type stubAuthService struct {
	registered auth.RegisterRequest
	loginErr   error
}

func (s *stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.Session, error) {
	if s.loginErr != nil {
		return nil, s.loginErr
	}
	return &auth.Session{Token: "access", RefreshToken: "refresh", User: &users.UserDTO{Email: req.Email}}, nil
}

func (s *stubAuthService) Register(ctx context.Context, req auth.RegisterRequest) (*auth.Session, error) {
	s.registered = req
	return &auth.Session{Token: "access", RefreshToken: "refresh", User: &users.UserDTO{Email: req.Email, FullName: req.FullName}}, nil
}

func TestAuthLoginValidatesAndSetsHeader(t *testing.T) {
	svc := &stubAuthService{}

	rec := httptest.NewRecorder()
	AuthLogin(svc, testLogger()).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":"nope","password":"123"}`)))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
	details := decodeError(t, rec).Error.Details
	if details["email"] == nil || details["password"] == nil {
		t.Fatalf("expected field details, got %v", details)
	}

	rec = httptest.NewRecorder()
	AuthLogin(svc, testLogger()).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":"buyer@swapsafe.com","password":"buyer123"}`)))
	if rec.Code != http.StatusOK || rec.Header().Get(tokenHeader) != "access" {
		t.Fatalf("unexpected code=%d header=%q", rec.Code, rec.Header().Get(tokenHeader))
	}

	svc.loginErr = pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	rec = httptest.NewRecorder()
	AuthLogin(svc, testLogger()).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":"buyer@swapsafe.com","password":"wrongpass"}`)))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}

func TestAuthRegisterCreatesSession(t *testing.T) {
	svc := &stubAuthService{}
	body := `{"fullName":"Jamie Rivera","email":"jamie@swapsafe.com","phone":"+1 (555) 123-4567","password":"supersecret","confirmPassword":"supersecret","userType":"seller","agreeTerms":true,"agreePrivacy":true}`

	rec := httptest.NewRecorder()
	AuthRegister(svc, testLogger()).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(body)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.registered.FullName != "Jamie Rivera" || svc.registered.UserType != "seller" {
		t.Fatalf("unexpected registration %+v", svc.registered)
	}
	var session auth.Session
	decodeData(t, rec, &session)
	if session.User == nil || session.User.Email != "jamie@swapsafe.com" {
		t.Fatalf("unexpected session %+v", session)
	}
}
