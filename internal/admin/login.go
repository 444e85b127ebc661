package admin

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// LoginWorkflow drives the admin sign-in form.
//
// States run idle → loading → {success, error} and are re-entrant: a new
// submission from the error state goes back to loading.
type LoginWorkflow struct {
	client Backend
	creds  CredentialStore
	nav    Navigator
	logger *slog.Logger

	mu      sync.Mutex
	state   FormState
	message string
}

// NewLoginWorkflow creates a LoginWorkflow.
func NewLoginWorkflow(client Backend, creds CredentialStore, nav Navigator, logger *slog.Logger) *LoginWorkflow {
	return &LoginWorkflow{
		client: client,
		creds:  creds,
		nav:    nav,
		logger: logger,
		state:  StateIdle,
	}
}

// State returns the current form state and its user-facing message.
func (w *LoginWorkflow) State() (FormState, string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state, w.message
}

// Start runs the entry check: an already stored credential skips the form
// and navigates straight to the dashboard.
func (w *LoginWorkflow) Start() {
	if w.creds.Token() != "" {
		w.nav.Navigate(RouteDashboard)
	}
}

// Submit authenticates with the backend and persists the issued token.
// Empty fields never reach the backend. A success response without a token
// is a backend contract violation and is surfaced as an error rather than
// papered over with a placeholder credential.
func (w *LoginWorkflow) Submit(ctx context.Context, username, password string) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		w.setState(StateError, "Username and password are required.")
		return
	}

	w.setState(StateLoading, "")

	res, err := w.client.Login(ctx, username, password)
	if err != nil {
		w.setState(StateError, backendMessage(err, "Invalid Credentials"))
		return
	}
	if res.Token == "" {
		w.logger.Error("login response carried no token")
		w.setState(StateError, "Login failed: the server did not issue a session token.")
		return
	}

	var expires *time.Time
	if !res.ExpiresAt.IsZero() {
		t := res.ExpiresAt
		expires = &t
	}
	if err := w.creds.Save(res.Token, expires); err != nil {
		w.logger.Error("persist credential failed", slog.String("error", err.Error()))
		w.setState(StateError, "Login succeeded but the session could not be saved.")
		return
	}

	w.setState(StateSuccess, res.Message)
	w.nav.Navigate(RouteDashboard)
}

func (w *LoginWorkflow) setState(s FormState, msg string) {
	w.mu.Lock()
	w.state = s
	w.message = msg
	w.mu.Unlock()
}
