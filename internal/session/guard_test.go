package session

import (
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/swapsafe/swapsafe-backend/internal/users"
	"github.com/swapsafe/swapsafe-backend/pkg/enums"
	"github.com/swapsafe/swapsafe-backend/pkg/logger"
)

var fixedNow = time.Date(2024, 1, 20, 10, 0, 0, 0, time.UTC)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userId": uuid.NewString(),
		"exp":    exp.Unix(),
	})
	signed, err := token.SignedString([]byte("client-cannot-verify-this"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return signed
}

func newGuard(t *testing.T, store Storage) *Guard {
	t.Helper()
	g, err := NewGuard(GuardParams{
		Storage: store,
		Logger:  logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
		Clock:   func() time.Time { return fixedNow },
	})
	if err != nil {
		t.Fatalf("new guard: %v", err)
	}
	return g
}

func demoUser() *users.UserDTO {
	return &users.UserDTO{ID: uuid.New(), Email: "buyer@swapsafe.com", FullName: "Demo Buyer", UserType: enums.UserTypeBuyer}
}

func TestCheckAuthStatusExpiredTokenClearsSession(t *testing.T) {
	store := NewMemoryStorage()
	store.Set(TokenKey, signedToken(t, fixedNow.Add(-time.Hour)))
	store.Set(UserKey, `{"id":"`+uuid.NewString()+`","email":"buyer@swapsafe.com"}`)

	g := newGuard(t, store)
	if g.CheckAuthStatus(context.Background()) {
		t.Fatal("expired token must not authenticate")
	}
	if g.Authenticated() || g.User() != nil {
		t.Fatal("guard state should be logged out")
	}
	for _, key := range []string{TokenKey, UserKey} {
		if _, ok, _ := store.Get(key); ok {
			t.Fatalf("%s should have been cleared", key)
		}
	}
}

func TestCheckAuthStatusValidToken(t *testing.T) {
	store := NewMemoryStorage()
	g := newGuard(t, store)
	user := demoUser()
	if _, err := g.Login(context.Background(), signedToken(t, fixedNow.Add(time.Hour)), user); err != nil {
		t.Fatalf("login: %v", err)
	}

	reloaded := newGuard(t, store)
	if !reloaded.CheckAuthStatus(context.Background()) {
		t.Fatal("unexpired token should authenticate")
	}
	if reloaded.User() == nil || reloaded.User().ID != user.ID {
		t.Fatalf("unexpected user %+v", reloaded.User())
	}
}

func TestCheckAuthStatusMalformedTokenClearsSession(t *testing.T) {
	cases := map[string]string{
		"garbage":    "not-a-token",
		"bad base64": "aaa.!!!.bbb",
		"no exp":     "eyJhbGciOiJIUzI1NiJ9.eyJ1c2VySWQiOiJ4In0.c2ln",
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			store := NewMemoryStorage()
			store.Set(TokenKey, token)
			store.Set(UserKey, `{}`)
			g := newGuard(t, store)
			if g.CheckAuthStatus(context.Background()) {
				t.Fatal("malformed token must not authenticate")
			}
			if _, ok, _ := store.Get(TokenKey); ok {
				t.Fatal("token should have been cleared")
			}
		})
	}
}

func TestCheckAuthStatusWithoutUserStaysLoggedOut(t *testing.T) {
	store := NewMemoryStorage()
	token := signedToken(t, fixedNow.Add(time.Hour))
	store.Set(TokenKey, token)
	g := newGuard(t, store)
	if g.CheckAuthStatus(context.Background()) {
		t.Fatal("token without user must not authenticate")
	}
	if got, _, _ := store.Get(TokenKey); got != token {
		t.Fatal("a missing user alone does not clear the token")
	}
}

func TestNavigationPreservesDestination(t *testing.T) {
	g := newGuard(t, NewMemoryStorage())
	g.CheckAuthStatus(context.Background())

	nav := g.Navigate(RouteTransactions)
	if nav.Path != RouteLogin || nav.ReturnTo != RouteTransactions || !nav.Redirect {
		t.Fatalf("unexpected navigation %+v", nav)
	}
	nav, err := g.Login(context.Background(), signedToken(t, fixedNow.Add(time.Hour)), demoUser())
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if nav.Path != RouteTransactions {
		t.Fatalf("login should resume %s, got %s", RouteTransactions, nav.Path)
	}

	if nav := g.Navigate(RouteLogin); nav.Path != RouteDashboard {
		t.Fatalf("authenticated visit to login should land on dashboard, got %+v", nav)
	}
	if nav := g.Navigate(RouteMarketplace); nav.Redirect {
		t.Fatalf("authenticated access to protected route should pass, got %+v", nav)
	}

	if nav := g.Logout(context.Background()); nav.Path != RouteLogin {
		t.Fatalf("logout should go to login, got %+v", nav)
	}
	if g.Token() != "" || g.Authenticated() {
		t.Fatal("logout should clear the session")
	}
}

func TestResolveRoot(t *testing.T) {
	if nav := Resolve(RouteRoot, true, ""); nav.Path != RouteDashboard {
		t.Fatalf("got %+v", nav)
	}
	if nav := Resolve(RouteRoot, false, ""); nav.Path != RouteLogin {
		t.Fatalf("got %+v", nav)
	}
	if nav := Resolve("/about", false, ""); nav.Redirect {
		t.Fatalf("unknown routes are open, got %+v", nav)
	}
}

func TestFileStorageRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	store := NewFileStorage(path)
	if _, ok, err := store.Get(TokenKey); err != nil || ok {
		t.Fatalf("empty store: ok=%v err=%v", ok, err)
	}
	if err := store.Set(TokenKey, "abc"); err != nil {
		t.Fatalf("set: %v", err)
	}
	loc := Location{Latitude: 37.7749, Longitude: -122.4194, City: "San Francisco", State: "CA", Country: "USA", DisplayName: "San Francisco, CA"}
	if err := SaveLocation(store, loc); err != nil {
		t.Fatalf("save location: %v", err)
	}

	reopened := NewFileStorage(path)
	if v, ok, _ := reopened.Get(TokenKey); !ok || v != "abc" {
		t.Fatalf("token not persisted: %q %v", v, ok)
	}
	got, err := LoadLocation(reopened)
	if err != nil || got == nil || *got != loc {
		t.Fatalf("location not persisted: %+v %v", got, err)
	}
	if err := reopened.Delete(TokenKey); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := NewFileStorage(path).Get(TokenKey); ok {
		t.Fatal("delete not persisted")
	}
}

func TestLoadLocationDropsCorruptEntry(t *testing.T) {
	store := NewMemoryStorage()
	store.Set(LocationKey, "{broken")
	got, err := LoadLocation(store)
	if err != nil || got != nil {
		t.Fatalf("expected absent location, got %+v %v", got, err)
	}
	if _, ok, _ := store.Get(LocationKey); ok {
		t.Fatal("corrupt entry should be removed")
	}
}
