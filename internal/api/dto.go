package api

import (
	"fmt"
	"strconv"
	"time"

	"github.com/cafe-fausse/server/internal/models"
)

// ReservationRequest is the request body for creating a reservation.
// Guests is accepted as either a JSON number or a numeric string, matching
// what the public form submits.
type ReservationRequest struct {
	Datetime string `json:"datetime"`
	Guests   any    `json:"guests"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

// timeSlotLayouts are the accepted datetime formats, most specific first.
var timeSlotLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// TimeSlot parses the datetime field.
func (r ReservationRequest) TimeSlot() (time.Time, error) {
	for _, layout := range timeSlotLayouts {
		if t, err := time.Parse(layout, r.Datetime); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time slot %q", r.Datetime)
}

// PartySize coerces the guests field to an int.
func (r ReservationRequest) PartySize() (int, error) {
	switch v := r.Guests.(type) {
	case float64:
		return int(v), nil
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("guests is not numeric: %q", v)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("guests is not numeric")
	}
}

// ReservationResponse confirms a placed reservation.
type ReservationResponse struct {
	Message       string `json:"message"`
	ReservationID int64  `json:"reservationId"`
	TableNumber   int    `json:"tableNumber"`
	TimeSlot      string `json:"timeSlot"`
}

// NewsletterRequest is the request body for a newsletter signup.
type NewsletterRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// LoginRequest is the request body for admin login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the issued session token.
type LoginResponse struct {
	Message   string    `json:"message"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// MenuChangeRequest is the request body for updating a menu item. Name
// identifies the item; the remaining fields replace the stored record.
type MenuChangeRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Image       string `json:"image"`
}

// Item converts the request into the domain record.
func (r MenuChangeRequest) Item() models.MenuItem {
	return models.MenuItem{
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Image:       r.Image,
	}
}

// MenuChangeResponse returns the updated item.
type MenuChangeResponse struct {
	Success bool            `json:"success"`
	Item    models.MenuItem `json:"item"`
}
