package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/swapsafe/swapsafe-backend/internal/users"
	"github.com/swapsafe/swapsafe-backend/pkg/logger"
)

var errNoExpiry = errors.New("token has no exp claim")

// Guard decides route access from client-held state only. The token's
// signature is never checked here; the API verifies every request.
type Guard struct {
	store Storage
	logg  *logger.Logger
	now   func() time.Time

	authenticated bool
	user          *users.UserDTO
	returnTo      string
}

// GuardParams configure a Guard.
type GuardParams struct {
	Storage Storage
	Logger  *logger.Logger
	Clock   func() time.Time
}

func NewGuard(params GuardParams) (*Guard, error) {
	if params.Storage == nil {
		return nil, errors.New("session storage required")
	}
	if params.Logger == nil {
		return nil, errors.New("logger required")
	}
	clock := params.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Guard{store: params.Storage, logg: params.Logger, now: clock}, nil
}

// CheckAuthStatus loads the persisted session. An expired or unreadable token
// clears it.
func (g *Guard) CheckAuthStatus(ctx context.Context) bool {
	g.authenticated, g.user = false, nil

	token, hasToken, err := g.store.Get(TokenKey)
	if err != nil {
		g.fail(ctx, err)
		return false
	}
	rawUser, hasUser, err := g.store.Get(UserKey)
	if err != nil {
		g.fail(ctx, err)
		return false
	}
	if !hasToken || !hasUser || token == "" || rawUser == "" {
		return false
	}

	exp, err := tokenExpiry(token)
	if err != nil {
		g.fail(ctx, err)
		return false
	}
	if !exp.After(g.now()) {
		g.logg.Info(ctx, "session.expired")
		g.clear(ctx)
		return false
	}

	var user users.UserDTO
	if err := json.Unmarshal([]byte(rawUser), &user); err != nil {
		g.fail(ctx, fmt.Errorf("decode user: %w", err))
		return false
	}
	g.authenticated, g.user = true, &user
	return true
}

// Authenticated reports the result of the last check, login or logout.
func (g *Guard) Authenticated() bool { return g.authenticated }

// User returns the cached user, or nil when logged out.
func (g *Guard) User() *users.UserDTO { return g.user }

// Token returns the persisted bearer token.
func (g *Guard) Token() string {
	token, _, err := g.store.Get(TokenKey)
	if err != nil {
		return ""
	}
	return token
}

// Navigate applies the route policy and remembers the destination a later
// login should resume.
func (g *Guard) Navigate(path string) Navigation {
	nav := Resolve(path, g.authenticated, g.returnTo)
	g.returnTo = nav.ReturnTo
	return nav
}

// Login persists token and user and returns the saved destination.
func (g *Guard) Login(ctx context.Context, token string, user *users.UserDTO) (Navigation, error) {
	if token == "" || user == nil {
		return Navigation{}, errors.New("token and user required")
	}
	raw, err := json.Marshal(user)
	if err != nil {
		return Navigation{}, err
	}
	if err := g.store.Set(TokenKey, token); err != nil {
		return Navigation{}, err
	}
	if err := g.store.Set(UserKey, string(raw)); err != nil {
		return Navigation{}, err
	}
	g.authenticated, g.user = true, user

	nav := Navigation{Path: landing(g.returnTo), Redirect: true}
	g.returnTo = ""
	g.logg.Info(g.logg.WithUserID(ctx, user.ID.String()), "session.login")
	return nav, nil
}

// UpdateUser replaces the cached user.
func (g *Guard) UpdateUser(user *users.UserDTO) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return err
	}
	if err := g.store.Set(UserKey, string(raw)); err != nil {
		return err
	}
	g.user = user
	return nil
}

// Logout clears the session and sends the client to the login route.
func (g *Guard) Logout(ctx context.Context) Navigation {
	g.clear(ctx)
	return Navigation{Path: RouteLogin, Redirect: true}
}

func (g *Guard) fail(ctx context.Context, err error) {
	g.logg.Error(ctx, "session.check_failed", err)
	g.clear(ctx)
}

func (g *Guard) clear(ctx context.Context) {
	for _, key := range []string{TokenKey, UserKey} {
		if err := g.store.Delete(key); err != nil {
			g.logg.Error(g.logg.WithField(ctx, "key", key), "session.clear_failed", err)
		}
	}
	g.authenticated, g.user = false, nil
}

func tokenExpiry(token string) (time.Time, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, err
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, err
	}
	if exp == nil {
		return time.Time{}, errNoExpiry
	}
	return exp.Time, nil
}
