package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/swapsafe/swapsafe-backend/internal/users"
	pkgAuth "github.com/swapsafe/swapsafe-backend/pkg/auth"
	"github.com/swapsafe/swapsafe-backend/pkg/config"
	"github.com/swapsafe/swapsafe-backend/pkg/db/models"
	"github.com/swapsafe/swapsafe-backend/pkg/enums"
	pkgerrors "github.com/swapsafe/swapsafe-backend/pkg/errors"
	"github.com/swapsafe/swapsafe-backend/pkg/security"
	"gorm.io/gorm"
)

var testJWT = config.JWTConfig{
	Secret:            "secret",
	Issuer:            "swapsafe",
	ExpirationMinutes: 30,
}

type stubUserRepo struct {
	byEmail   map[string]*models.User
	createErr error
	findErr   error
}

func newStubUserRepo(existing ...*models.User) *stubUserRepo {
	repo := &stubUserRepo{byEmail: map[string]*models.User{}}
	for _, u := range existing {
		repo.byEmail[u.Email] = u
	}
	return repo
}

func (s *stubUserRepo) Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	user := dto.ToModel()
	s.byEmail[user.Email] = user
	return user, nil
}

func (s *stubUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	if user, ok := s.byEmail[email]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return nil
}

type stubSessionManager struct {
	refreshToken string
	accessIDs    []string
	userIDs      []uuid.UUID
}

func (s *stubSessionManager) Generate(ctx context.Context, accessID string, userID uuid.UUID) (string, error) {
	s.accessIDs = append(s.accessIDs, accessID)
	s.userIDs = append(s.userIDs, userID)
	return s.refreshToken, nil
}

func buildTestService(t *testing.T, repo *stubUserRepo) (Service, *stubSessionManager) {
	t.Helper()
	sessions := &stubSessionManager{refreshToken: "refresh-token"}
	svc, err := NewService(ServiceParams{
		UserRepo:       repo,
		SessionManager: sessions,
		JWTConfig:      testJWT,
	})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc, sessions
}

func mustHashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := security.HashPassword(password, config.PasswordConfig{})
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return hash
}

func TestServiceLoginIssuesTokens(t *testing.T) {
	user := &models.User{
		ID:           uuid.New(),
		Email:        "seller@swapsafe.com",
		PasswordHash: mustHashPassword(t, "demo123"),
		FullName:     "Demo Seller",
		UserType:     enums.UserTypeSeller,
	}
	svc, sessions := buildTestService(t, newStubUserRepo(user))

	resp, err := svc.Login(context.Background(), LoginRequest{Email: "  Seller@SwapSafe.com ", Password: "demo123"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	claims, err := pkgAuth.ParseAccessToken(testJWT, resp.Token)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.UserID != user.ID || claims.UserType != enums.UserTypeSeller || claims.Email != user.Email {
		t.Fatalf("unexpected claims %+v", claims)
	}
	if resp.RefreshToken != "refresh-token" || len(sessions.accessIDs) != 1 || sessions.accessIDs[0] != claims.ID {
		t.Fatalf("refresh session must be keyed by the token id")
	}
	if sessions.userIDs[0] != user.ID {
		t.Fatalf("refresh session bound to wrong user")
	}
	if resp.User == nil || resp.User.FullName != "Demo Seller" || resp.User.LastLoginAt == nil {
		t.Fatalf("unexpected user %+v", resp.User)
	}
}

func TestServiceLoginRejectsBadCredentials(t *testing.T) {
	user := &models.User{ID: uuid.New(), Email: "buyer@swapsafe.com", PasswordHash: mustHashPassword(t, "demo123"), UserType: enums.UserTypeBuyer}
	svc, _ := buildTestService(t, newStubUserRepo(user))

	for _, req := range []LoginRequest{
		{Email: "buyer@swapsafe.com", Password: "wrong-password"},
		{Email: "nobody@swapsafe.com", Password: "demo123"},
		{Email: "   ", Password: "demo123"},
	} {
		_, err := svc.Login(context.Background(), req)
		if !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
			t.Fatalf("%s: expected unauthorized, got %v", req.Email, err)
		}
	}

	repo := newStubUserRepo()
	repo.findErr = errors.New("db down")
	svc, _ = buildTestService(t, repo)
	if _, err := svc.Login(context.Background(), LoginRequest{Email: "a@b.co", Password: "demo123"}); !pkgerrors.IsCode(err, pkgerrors.CodeInternal) {
		t.Fatalf("expected internal error, got %v", err)
	}
}

func validRegistration() RegisterRequest {
	return RegisterRequest{
		FullName:        "Sarah Johnson",
		Email:           "Sarah@Example.com",
		Phone:           "+1 (555) 123-4567",
		Password:        "Sup3r$ecret",
		ConfirmPassword: "Sup3r$ecret",
		AgreeTerms:      true,
		AgreePrivacy:    true,
	}
}

func TestServiceRegister(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := buildTestService(t, repo)

	resp, err := svc.Register(context.Background(), validRegistration())
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if resp.Token == "" || resp.User.Email != "sarah@example.com" || resp.User.UserType != enums.UserTypeBuyer {
		t.Fatalf("unexpected response %+v", resp.User)
	}
	stored := repo.byEmail["sarah@example.com"]
	if stored == nil || stored.PasswordHash == "Sup3r$ecret" {
		t.Fatal("password must be stored hashed")
	}
	if ok, _ := security.VerifyPassword("Sup3r$ecret", stored.PasswordHash); !ok {
		t.Fatal("stored hash does not verify")
	}

	if _, err := svc.Register(context.Background(), validRegistration()); !pkgerrors.IsCode(err, pkgerrors.CodeConflict) {
		t.Fatalf("expected conflict for duplicate email, got %v", err)
	}
}

func TestServiceRegisterValidation(t *testing.T) {
	svc, _ := buildTestService(t, newStubUserRepo())
	cases := map[string]func(r *RegisterRequest){
		"fullName":        func(r *RegisterRequest) { r.FullName = "S" },
		"phone":           func(r *RegisterRequest) { r.Phone = "12345" },
		"password":        func(r *RegisterRequest) { r.Password, r.ConfirmPassword = "short", "short" },
		"confirmPassword": func(r *RegisterRequest) { r.ConfirmPassword = "different" },
		"agreeTerms":      func(r *RegisterRequest) { r.AgreeTerms = false },
		"agreePrivacy":    func(r *RegisterRequest) { r.AgreePrivacy = false },
		"userType":        func(r *RegisterRequest) { r.UserType = "admin" },
	}
	for field, mutate := range cases {
		req := validRegistration()
		mutate(&req)
		_, err := svc.Register(context.Background(), req)
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("%s: expected validation error, got %v", field, err)
		}
		details, _ := typed.Details().(map[string]any)
		if details["field"] != field {
			t.Fatalf("%s: unexpected details %v", field, typed.Details())
		}
	}
}

func TestPhonePattern(t *testing.T) {
	for _, ok := range []string{"5551234567", "+1 555 123 4567", "(555) 123-4567"} {
		if !PhonePattern.MatchString(ok) {
			t.Fatalf("%q should be accepted", ok)
		}
	}
	for _, bad := range []string{"555-1234", "call me", "+1 555 abc 4567"} {
		if PhonePattern.MatchString(bad) {
			t.Fatalf("%q should be rejected", bad)
		}
	}
}
