// Package gateway wraps outbound HTTP calls to the Café Fausse backend API.
// It is pure request/response plumbing: no retries, no caching.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/cafe-fausse/server/internal/models"
)

const (
	// DefaultBaseURL is used when no base URL is configured.
	DefaultBaseURL = "http://localhost:8080"
	// EnvBaseURL overrides the backend location.
	EnvBaseURL = "CAFE_API_BASE_URL"
	// requestTimeout is the fixed overall deadline for every call.
	requestTimeout = 10 * time.Second
)

// TokenSource supplies the session token attached to protected calls.
// An empty token means no Authorization header is sent.
type TokenSource interface {
	Token() string
}

// APIError is a backend-reported failure with its structured message.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("backend returned status %d", e.Status)
}

// Client issues JSON calls against the backend API.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
}

// New creates a Client. An empty baseURL falls back to the CAFE_API_BASE_URL
// environment variable, then to DefaultBaseURL. tokens may be nil for a
// client that only uses public endpoints.
func New(baseURL string, tokens TokenSource) *Client {
	if baseURL == "" {
		baseURL = strings.TrimSpace(os.Getenv(EnvBaseURL))
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: requestTimeout},
		tokens:  tokens,
	}
}

// Reservation is the request payload for a reservation.
type Reservation struct {
	Datetime string `json:"datetime"`
	Guests   int    `json:"guests"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

// ReservationResult confirms a placed reservation.
type ReservationResult struct {
	Message       string `json:"message"`
	ReservationID int64  `json:"reservationId"`
	TableNumber   int    `json:"tableNumber"`
	TimeSlot      string `json:"timeSlot"`
}

// LoginResult carries the issued session token.
type LoginResult struct {
	Message   string    `json:"message"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// SubmitReservation creates a reservation request.
func (c *Client) SubmitReservation(ctx context.Context, r Reservation) (*ReservationResult, error) {
	var out ReservationResult
	if err := c.do(ctx, http.MethodPost, "/api/reservations", r, &out, false); err != nil {
		return nil, err
	}
	return &out, nil
}

// SubscribeNewsletter signs the email address up for the newsletter and
// returns the backend's confirmation message.
func (c *Client) SubscribeNewsletter(ctx context.Context, email string) (string, error) {
	var out struct {
		Message string `json:"message"`
	}
	body := map[string]string{"email": email}
	if err := c.do(ctx, http.MethodPost, "/api/newsletter", body, &out, false); err != nil {
		return "", err
	}
	return out.Message, nil
}

// MenuSections fetches the ordered menu sections.
func (c *Client) MenuSections(ctx context.Context) ([]models.MenuSection, error) {
	var out []models.MenuSection
	if err := c.do(ctx, http.MethodGet, "/api/menu", nil, &out, false); err != nil {
		return nil, err
	}
	return out, nil
}

// Login authenticates the admin and returns the session token.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	var out LoginResult
	body := map[string]string{"username": username, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/admin", body, &out, false); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout invalidates the current session server-side.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/admin/logout", nil, nil, true)
}

// SaveMenuItem persists the full item record, keyed by the item's name.
func (c *Client) SaveMenuItem(ctx context.Context, item models.MenuItem) error {
	return c.do(ctx, http.MethodPost, "/api/menuchange", item, nil, true)
}

// DeleteMenuItem removes the named item from the menu.
func (c *Client) DeleteMenuItem(ctx context.Context, name string) error {
	path := "/api/menu/items/" + url.PathEscape(name)
	return c.do(ctx, http.MethodDelete, path, nil, nil, true)
}

// do issues one JSON request. Responses with status >= 400 are decoded into
// an *APIError carrying the backend's message (or error) field when present.
func (c *Client) do(ctx context.Context, method, path string, body, out any, authed bool) error {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("gateway: encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("gateway: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if authed && c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("gateway: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var payload struct {
			Message string `json:"message"`
			Error   string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&payload)
		msg := payload.Message
		if msg == "" {
			msg = payload.Error
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("gateway: decode response: %w", err)
		}
	}
	return nil
}
