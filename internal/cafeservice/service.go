// Package cafeservice implements the restaurant's domain operations on top
// of the SQLite store and the menu document provider.
package cafeservice

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/cafe-fausse/server/internal/apperr"
	"github.com/cafe-fausse/server/internal/menu"
	"github.com/cafe-fausse/server/internal/models"
	"github.com/cafe-fausse/server/internal/store"
)

// placementRetries bounds how often a reservation re-picks a table after
// losing a unique-constraint race for the same slot.
const placementRetries = 3

// Options carries the admin and capacity settings the service needs.
type Options struct {
	AdminUsername     string
	AdminPasswordHash string
	SessionTTL        time.Duration
	TotalTables       int
}

// Service exposes the restaurant's domain operations.
type Service struct {
	store  store.Store
	menu   menu.Provider
	logger *slog.Logger
	opts   Options

	// notify, when set, is invoked after a successful menu mutation.
	// kind is "updated" or "deleted"; name is the item name.
	notify func(kind, name string)

	now func() time.Time
}

// NewService creates a new Service.
func NewService(st store.Store, mp menu.Provider, logger *slog.Logger, opts Options) *Service {
	return &Service{
		store:  st,
		menu:   mp,
		logger: logger,
		opts:   opts,
		now:    time.Now,
	}
}

// SetNotify registers a callback for menu change events.
func (s *Service) SetNotify(fn func(kind, name string)) {
	s.notify = fn
}

// Confirmation is returned after a successful reservation.
type Confirmation struct {
	ReservationID int64
	TableNumber   int
	TimeSlot      time.Time
}

// CreateReservation assigns a random free table for the slot and persists the
// reservation together with the customer record. A fully booked slot maps to
// apperr.ErrConflict.
func (s *Service) CreateReservation(slot time.Time, partySize int, name, email, phone string) (*Confirmation, error) {
	if partySize < 1 {
		return nil, fmt.Errorf("party size must be at least 1: %w", apperr.ErrInvalid)
	}

	customerID, err := s.store.UpsertReservationCustomer(name, email, phone)
	if err != nil {
		return nil, err
	}

	for attempt := 0; attempt < placementRetries; attempt++ {
		occupied, err := s.store.OccupiedTables(slot)
		if err != nil {
			return nil, err
		}

		var available []int
		for table := 1; table <= s.opts.TotalTables; table++ {
			if _, taken := occupied[table]; !taken {
				available = append(available, table)
			}
		}
		if len(available) == 0 {
			return nil, fmt.Errorf("no tables free at %s: %w", slot.Format(time.RFC3339), apperr.ErrConflict)
		}

		table := available[rand.IntN(len(available))]
		id, err := s.store.CreateReservation(customerID, slot, partySize, table)
		if errors.Is(err, apperr.ErrConflict) {
			// Lost the race for this table; pick again.
			continue
		}
		if err != nil {
			return nil, err
		}
		return &Confirmation{ReservationID: id, TableNumber: table, TimeSlot: slot}, nil
	}
	return nil, fmt.Errorf("could not place reservation: %w", apperr.ErrConflict)
}

// SubscribeNewsletter opts the email address in to the newsletter.
func (s *Service) SubscribeNewsletter(email, name string) error {
	return s.store.SubscribeNewsletter(email, name)
}

// MenuSections returns the ordered menu sections.
func (s *Service) MenuSections() ([]models.MenuSection, error) {
	return s.menu.Load()
}

// UpdateMenuItem replaces the full record of the item whose name matches
// target (case-insensitive) and persists the menu. The updated item is
// returned.
func (s *Service) UpdateMenuItem(target string, upd models.MenuItem) (*models.MenuItem, error) {
	if strings.TrimSpace(target) == "" {
		return nil, fmt.Errorf("item name is required: %w", apperr.ErrInvalid)
	}

	sections, err := s.menu.Load()
	if err != nil {
		return nil, err
	}

	si, ii, ok := findItem(sections, target)
	if !ok {
		return nil, fmt.Errorf("item %q: %w", target, apperr.ErrNotFound)
	}

	if upd.Name == "" {
		upd.Name = sections[si].Items[ii].Name
	}
	sections[si].Items[ii] = upd

	if err := s.menu.Save(sections); err != nil {
		return nil, err
	}
	s.logger.Info("menu item updated", slog.String("item", upd.Name))
	if s.notify != nil {
		s.notify("updated", upd.Name)
	}
	item := sections[si].Items[ii]
	return &item, nil
}

// DeleteMenuItem removes the named item (case-insensitive) and persists the
// menu.
func (s *Service) DeleteMenuItem(target string) error {
	sections, err := s.menu.Load()
	if err != nil {
		return err
	}

	si, ii, ok := findItem(sections, target)
	if !ok {
		return fmt.Errorf("item %q: %w", target, apperr.ErrNotFound)
	}

	items := sections[si].Items
	sections[si].Items = append(items[:ii], items[ii+1:]...)

	if err := s.menu.Save(sections); err != nil {
		return err
	}
	s.logger.Info("menu item deleted", slog.String("item", target))
	if s.notify != nil {
		s.notify("deleted", target)
	}
	return nil
}

// findItem locates an item by name across sections, case-insensitively.
func findItem(sections []models.MenuSection, name string) (sectionIdx, itemIdx int, ok bool) {
	for si := range sections {
		for ii := range sections[si].Items {
			if strings.EqualFold(sections[si].Items[ii].Name, name) {
				return si, ii, true
			}
		}
	}
	return 0, 0, false
}

// ThrottledError reports an active login cooldown.
type ThrottledError struct {
	RetryAfter time.Duration
}

func (e *ThrottledError) Error() string {
	return fmt.Sprintf("too many failed attempts, retry in %s", e.RetryAfter.Round(time.Second))
}

// Unwrap lets errors.Is match apperr.ErrThrottled.
func (e *ThrottledError) Unwrap() error { return apperr.ErrThrottled }

// Login verifies the admin credentials and issues a session token. Failed
// attempts feed an exponential per-username cooldown.
func (s *Service) Login(username, password string) (*models.Session, error) {
	now := s.now()

	wait, err := s.store.CooldownRemaining(username, now)
	if err != nil {
		return nil, err
	}
	if wait > 0 {
		return nil, &ThrottledError{RetryAfter: wait}
	}

	if username != s.opts.AdminUsername ||
		bcrypt.CompareHashAndPassword([]byte(s.opts.AdminPasswordHash), []byte(password)) != nil {
		if recErr := s.store.RecordLoginFailure(username, now); recErr != nil {
			s.logger.Warn("record login failure", slog.String("error", recErr.Error()))
		}
		return nil, apperr.ErrUnauthorized
	}

	if err := s.store.ResetLoginFailures(username); err != nil {
		s.logger.Warn("reset login failures", slog.String("error", err.Error()))
	}

	session := models.Session{
		Token:     uuid.NewString(),
		IssuedAt:  now,
		ExpiresAt: now.Add(s.opts.SessionTTL),
	}
	if err := s.store.CreateSession(session); err != nil {
		return nil, err
	}
	s.logger.Info("admin session issued", slog.String("username", username))
	return &session, nil
}

// Logout invalidates the session token server-side.
func (s *Service) Logout(token string) error {
	return s.store.DeleteSession(token)
}

// ValidateToken checks that the token names a live session. Expired sessions
// are purged eagerly.
func (s *Service) ValidateToken(token string) error {
	if token == "" {
		return apperr.ErrUnauthorized
	}
	session, err := s.store.GetSession(token)
	if err != nil {
		return err
	}
	if !s.now().Before(session.ExpiresAt) {
		_ = s.store.DeleteSession(token)
		return apperr.ErrUnauthorized
	}
	return nil
}

// ListReservations returns reservations at or after from, oldest first.
func (s *Service) ListReservations(from time.Time, limit int) ([]store.ReservationRow, error) {
	return s.store.ListReservations(from, limit)
}
