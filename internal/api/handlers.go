package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/cafe-fausse/server/internal/apperr"
	"github.com/cafe-fausse/server/internal/cafeservice"
)

// Handler holds API route handlers.
type Handler struct {
	svc *cafeservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *cafeservice.Service) *Handler {
	return &Handler{svc: svc}
}

// Health handles GET /api/health.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// CreateReservation handles POST /api/reservations.
//
// Validates the time slot and required fields, then assigns a random free
// table for the slot. A fully booked slot is a 409.
func (h *Handler) CreateReservation(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req ReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, messageBody("Invalid JSON body."))
		return
	}

	slot, err := req.TimeSlot()
	if err != nil {
		writeJSON(w, http.StatusBadRequest, messageBody("Invalid or missing time slot."))
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeJSON(w, http.StatusBadRequest, messageBody("Guest name is required."))
		return
	}
	if strings.TrimSpace(req.Email) == "" {
		writeJSON(w, http.StatusBadRequest, messageBody("Email address is required."))
		return
	}
	partySize, err := req.PartySize()
	if err != nil {
		writeJSON(w, http.StatusBadRequest, messageBody("Number of guests must be numeric."))
		return
	}

	conf, err := h.svc.CreateReservation(slot, partySize, strings.TrimSpace(req.Name), req.Email, strings.TrimSpace(req.Phone))
	switch {
	case errors.Is(err, apperr.ErrInvalid):
		writeJSON(w, http.StatusBadRequest, messageBody("Number of guests must be at least 1."))
	case errors.Is(err, apperr.ErrConflict):
		writeJSON(w, http.StatusConflict, messageBody("Selected time slot is fully booked, please pick another time slot!"))
	case err != nil:
		slog.Error("create reservation failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, messageBody("Unable to process reservation at this time."))
	default:
		writeJSON(w, http.StatusCreated, ReservationResponse{
			Message:       "Reservation confirmed.",
			ReservationID: conf.ReservationID,
			TableNumber:   conf.TableNumber,
			TimeSlot:      conf.TimeSlot.Format(time.RFC3339),
		})
	}
}

// SubscribeNewsletter handles POST /api/newsletter.
func (h *Handler) SubscribeNewsletter(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req NewsletterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, messageBody("Invalid JSON body."))
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		writeJSON(w, http.StatusBadRequest, messageBody("Email is required."))
		return
	}
	if err := is.Email.Validate(email); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, messageBody("Invalid email format."))
		return
	}

	if err := h.svc.SubscribeNewsletter(email, strings.TrimSpace(req.Name)); err != nil {
		slog.Error("newsletter subscribe failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, messageBody("Unable to subscribe right now."))
		return
	}
	writeJSON(w, http.StatusCreated, messageBody("You are subscribed to the Café Fausse newsletter."))
}

// GetMenu handles GET /api/menu.
func (h *Handler) GetMenu(w http.ResponseWriter, r *http.Request) {
	sections, err := h.svc.MenuSections()
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("menu.json not found"))
			return
		}
		slog.Error("menu load failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, sections)
}

// AdminLogin handles POST /api/admin.
//
// Successful logins receive a server-side session token with an expiry.
// Repeated failures for the same username hit an exponential cooldown.
func (h *Handler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, messageBody("Invalid JSON body."))
		return
	}

	// Passwords are compared byte for byte against the configured bcrypt
	// hash, so whitespace is significant and must survive intact.
	username := strings.TrimSpace(req.Username)
	password := req.Password
	if username == "" || password == "" {
		writeJSON(w, http.StatusBadRequest, messageBody("Username and password are required."))
		return
	}

	session, err := h.svc.Login(username, password)
	if err != nil {
		var throttled *cafeservice.ThrottledError
		switch {
		case errors.As(err, &throttled):
			w.Header().Set("Retry-After", fmt.Sprintf("%d", int(throttled.RetryAfter.Seconds())+1))
			writeJSON(w, http.StatusTooManyRequests, messageBody("Too many failed attempts. Please wait before retrying."))
		case errors.Is(err, apperr.ErrUnauthorized):
			writeJSON(w, http.StatusUnauthorized, messageBody("Invalid credentials."))
		default:
			slog.Error("admin login failed", slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, messageBody("Unable to process login at this time."))
		}
		return
	}

	writeJSON(w, http.StatusOK, LoginResponse{
		Message:   "Login successful.",
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
	})
}

// AdminLogout handles POST /api/admin/logout. The session named by the
// Bearer token is invalidated server-side.
func (h *Handler) AdminLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Logout(bearerToken(r)); err != nil {
		slog.Error("logout failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ChangeMenuItem handles POST /api/menuchange.
//
// The full item record is persisted, not only the price: local edits to
// description and image survive a reload.
func (h *Handler) ChangeMenuItem(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req MenuChangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("Missing item name"))
		return
	}

	item, err := h.svc.UpdateMenuItem(req.Name, req.Item())
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrNotFound):
			writeJSON(w, http.StatusNotFound, errorBody(fmt.Sprintf("Item '%s' not found", req.Name)))
		case errors.Is(err, apperr.ErrInvalid):
			writeJSON(w, http.StatusBadRequest, errorBody("Missing item name"))
		default:
			slog.Error("menu change failed", slog.String("item", req.Name), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("Failed to save changes"))
		}
		return
	}
	writeJSON(w, http.StatusOK, MenuChangeResponse{Success: true, Item: *item})
}

// DeleteMenuItem handles DELETE /api/menu/items/{name}.
func (h *Handler) DeleteMenuItem(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if decoded, err := url.PathUnescape(name); err == nil {
		name = decoded
	}
	if name == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("Missing item name"))
		return
	}

	if err := h.svc.DeleteMenuItem(name); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody(fmt.Sprintf("Item '%s' not found", name)))
			return
		}
		slog.Error("menu delete failed", slog.String("item", name), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("Failed to save changes"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
