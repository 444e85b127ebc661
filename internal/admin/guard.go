package admin

// Route identifies a navigable screen.
type Route string

const (
	// RouteLogin is the admin sign-in screen.
	RouteLogin Route = "/admin"
	// RouteDashboard is the protected menu editor screen.
	RouteDashboard Route = "/admin/dashboard"
)

// Navigator performs screen transitions on behalf of the workflows.
type Navigator interface {
	Navigate(Route)
}

// NavigatorFunc adapts a function to the Navigator interface.
type NavigatorFunc func(Route)

// Navigate calls the wrapped function.
func (f NavigatorFunc) Navigate(r Route) { f(r) }

// SessionGuard gates access to protected routes on credential presence.
// It performs no server round-trip: an absent or locally expired token is
// the only thing that denies access, and the denied path triggers no data
// fetches.
type SessionGuard struct {
	creds CredentialStore
}

// NewSessionGuard creates a SessionGuard over the given store.
func NewSessionGuard(creds CredentialStore) *SessionGuard {
	return &SessionGuard{creds: creds}
}

// Allow reports whether a credential is present.
func (g *SessionGuard) Allow() bool {
	return g.creds.Token() != ""
}

// Resolve maps a requested route to the one that should actually render:
// protected routes fall back to the login screen when no credential exists.
func (g *SessionGuard) Resolve(target Route) Route {
	if target == RouteDashboard && !g.Allow() {
		return RouteLogin
	}
	return target
}
