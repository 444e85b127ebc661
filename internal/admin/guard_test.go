package admin

import (
	"context"
	"testing"
)

func TestGuardAllowTracksCredential(t *testing.T) {
	creds := &memCreds{}
	g := NewSessionGuard(creds)

	if g.Allow() {
		t.Error("Allow() true without a credential")
	}
	creds.token = "tok-1"
	if !g.Allow() {
		t.Error("Allow() false with a credential")
	}
}

func TestGuardResolveFallsBackToLogin(t *testing.T) {
	g := NewSessionGuard(&memCreds{})

	if got := g.Resolve(RouteDashboard); got != RouteLogin {
		t.Errorf("Resolve(dashboard) = %q, want login", got)
	}
	if got := g.Resolve(RouteLogin); got != RouteLogin {
		t.Errorf("Resolve(login) = %q", got)
	}
}

func TestGuardResolvePassesThroughWhenAuthenticated(t *testing.T) {
	g := NewSessionGuard(&memCreds{token: "tok-1"})

	if got := g.Resolve(RouteDashboard); got != RouteDashboard {
		t.Errorf("Resolve(dashboard) = %q, want dashboard", got)
	}
}

// A denied dashboard must not trigger any data fetch: the guard decides on
// the stored credential alone, and the editor only loads once it is shown.
func TestGuardDenialTriggersNoFetch(t *testing.T) {
	backend := newFakeBackend()
	creds := &memCreds{}
	g := NewSessionGuard(creds)
	e := NewMenuEditor(backend, creds, &recordNav{}, discardLogger())

	if route := g.Resolve(RouteDashboard); route == RouteDashboard {
		e.Load(context.Background())
	}

	if n := backend.count("MenuSections"); n != 0 {
		t.Errorf("menu fetched %d times on denied access, want 0", n)
	}
}
