package admin

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/cafe-fausse/server/internal/gateway"
	"github.com/cafe-fausse/server/internal/models"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeBackend records every call so tests can assert on both payloads and
// call counts.
type fakeBackend struct {
	mu    sync.Mutex
	calls map[string]int

	menu    []models.MenuSection
	menuErr error

	loginRes *gateway.LoginResult
	loginErr error

	logoutErr error

	saved   []models.MenuItem
	saveErr error

	deleted   []string
	deleteErr error

	reservationRes *gateway.ReservationResult
	reservationErr error

	newsletterMsg string
	newsletterErr error
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{calls: make(map[string]int)}
}

func (f *fakeBackend) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeBackend) record(name string) {
	f.mu.Lock()
	f.calls[name]++
	f.mu.Unlock()
}

func (f *fakeBackend) SubmitReservation(_ context.Context, r gateway.Reservation) (*gateway.ReservationResult, error) {
	f.record("SubmitReservation")
	if f.reservationErr != nil {
		return nil, f.reservationErr
	}
	if f.reservationRes != nil {
		return f.reservationRes, nil
	}
	return &gateway.ReservationResult{Message: "Reservation confirmed.", TableNumber: 1, TimeSlot: r.Datetime}, nil
}

func (f *fakeBackend) SubscribeNewsletter(_ context.Context, email string) (string, error) {
	f.record("SubscribeNewsletter")
	if f.newsletterErr != nil {
		return "", f.newsletterErr
	}
	if f.newsletterMsg != "" {
		return f.newsletterMsg, nil
	}
	return "Subscribed " + email, nil
}

func (f *fakeBackend) MenuSections(context.Context) ([]models.MenuSection, error) {
	f.record("MenuSections")
	if f.menuErr != nil {
		return nil, f.menuErr
	}
	return f.menu, nil
}

func (f *fakeBackend) Login(context.Context, string, string) (*gateway.LoginResult, error) {
	f.record("Login")
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return f.loginRes, nil
}

func (f *fakeBackend) Logout(context.Context) error {
	f.record("Logout")
	return f.logoutErr
}

func (f *fakeBackend) SaveMenuItem(_ context.Context, item models.MenuItem) error {
	f.record("SaveMenuItem")
	if f.saveErr != nil {
		return f.saveErr
	}
	f.mu.Lock()
	f.saved = append(f.saved, item)
	f.mu.Unlock()
	return nil
}

func (f *fakeBackend) DeleteMenuItem(_ context.Context, name string) error {
	f.record("DeleteMenuItem")
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.mu.Lock()
	f.deleted = append(f.deleted, name)
	f.mu.Unlock()
	return nil
}

// memCreds is an in-memory CredentialStore.
type memCreds struct {
	mu      sync.Mutex
	token   string
	expires *time.Time
	saveErr error
	clears  int
}

func (m *memCreds) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.expires != nil && !time.Now().Before(*m.expires) {
		return ""
	}
	return m.token
}

func (m *memCreds) Save(token string, expiresAt *time.Time) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.mu.Lock()
	m.token = token
	m.expires = expiresAt
	m.mu.Unlock()
	return nil
}

func (m *memCreds) Clear() error {
	m.mu.Lock()
	m.token = ""
	m.expires = nil
	m.clears++
	m.mu.Unlock()
	return nil
}

// recordNav collects navigations.
type recordNav struct {
	mu     sync.Mutex
	routes []Route
}

func (n *recordNav) Navigate(r Route) {
	n.mu.Lock()
	n.routes = append(n.routes, r)
	n.mu.Unlock()
}

func (n *recordNav) last() Route {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.routes) == 0 {
		return ""
	}
	return n.routes[len(n.routes)-1]
}

func sampleMenu() []models.MenuSection {
	return []models.MenuSection{
		{
			Title: "Starters",
			Items: []models.MenuItem{
				{Name: "Soup", Description: "Roasted tomato", Price: "$8", Image: "/img/soup.jpg"},
				{Name: "Bruschetta", Description: "Grilled bread", Price: "$9.50"},
			},
		},
		{
			Title: "Mains",
			Items: []models.MenuItem{
				{Name: "Ribeye", Description: "Dry aged", Price: "$34"},
			},
		},
	}
}
