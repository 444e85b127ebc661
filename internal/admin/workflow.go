package admin

import (
	"context"
	"errors"

	"github.com/cafe-fausse/server/internal/gateway"
	"github.com/cafe-fausse/server/internal/models"
)

// Backend is the slice of the gateway client the workflows depend on.
// *gateway.Client satisfies it; tests substitute a fake.
type Backend interface {
	SubmitReservation(ctx context.Context, r gateway.Reservation) (*gateway.ReservationResult, error)
	SubscribeNewsletter(ctx context.Context, email string) (string, error)
	MenuSections(ctx context.Context) ([]models.MenuSection, error)
	Login(ctx context.Context, username, password string) (*gateway.LoginResult, error)
	Logout(ctx context.Context) error
	SaveMenuItem(ctx context.Context, item models.MenuItem) error
	DeleteMenuItem(ctx context.Context, name string) error
}

var _ Backend = (*gateway.Client)(nil)

// FormState is the lifecycle of a submitting form.
type FormState int

const (
	StateIdle FormState = iota
	StateLoading
	StateSuccess
	StateError
)

// String returns the state name for logs and UIs.
func (s FormState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateSuccess:
		return "success"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// backendMessage extracts the structured backend message from err, falling
// back to the given default. Backend-reported messages take precedence over
// generic fallbacks.
func backendMessage(err error, fallback string) string {
	var apiErr *gateway.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
