package session

// Client routes known to the guard.
const (
	RouteRoot         = "/"
	RouteLogin        = "/user-login"
	RouteRegistration = "/user-registration"
	RouteDashboard    = "/user-dashboard"
	RouteMarketplace  = "/marketplace-browse"
	RouteProduct      = "/product-details"
	RouteTransactions = "/transaction-management"
)

// Access classifies a route.
type Access int

const (
	AccessOpen Access = iota
	AccessPublic
	AccessProtected
)

var routeAccess = map[string]Access{
	RouteLogin:        AccessPublic,
	RouteRegistration: AccessPublic,
	RouteDashboard:    AccessProtected,
	RouteMarketplace:  AccessProtected,
	RouteProduct:      AccessProtected,
	RouteTransactions: AccessProtected,
}

// AccessOf returns the access class of path. Unknown paths are open.
func AccessOf(path string) Access {
	return routeAccess[path]
}

// Navigation is where the client should go next. ReturnTo carries the
// destination a login should resume.
type Navigation struct {
	Path     string
	ReturnTo string
	Redirect bool
}

// Resolve applies the route policy to a navigation request. returnTo is the
// destination saved by an earlier redirect, if any.
func Resolve(path string, authenticated bool, returnTo string) Navigation {
	switch {
	case path == RouteRoot && authenticated:
		return Navigation{Path: RouteDashboard, Redirect: true}
	case path == RouteRoot:
		return Navigation{Path: RouteLogin, Redirect: true}
	case AccessOf(path) == AccessProtected && !authenticated:
		return Navigation{Path: RouteLogin, ReturnTo: path, Redirect: true}
	case AccessOf(path) == AccessPublic && authenticated:
		return Navigation{Path: landing(returnTo), Redirect: true}
	}
	return Navigation{Path: path, ReturnTo: returnTo}
}

func landing(returnTo string) string {
	if returnTo == "" {
		return RouteDashboard
	}
	return returnTo
}
