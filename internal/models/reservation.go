package models

import "time"

// Customer holds contact details and newsletter preferences. Customers are
// upserted by lower-cased email address.
type Customer struct {
	ID               int64     `json:"id"`
	Name             string    `json:"name,omitempty"`
	Email            string    `json:"email"`
	Phone            string    `json:"phone,omitempty"`
	NewsletterOptIn  bool      `json:"newsletter_opt_in"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Reservation is a confirmed table booking. The pair (TimeSlot, TableNumber)
// is unique: a table cannot be double-booked for the same slot.
type Reservation struct {
	ID          int64     `json:"id"`
	CustomerID  int64     `json:"customer_id"`
	TimeSlot    time.Time `json:"time_slot"`
	PartySize   int       `json:"party_size"`
	TableNumber int       `json:"table_number"`
	CreatedAt   time.Time `json:"created_at"`
}

// Session is a server-side admin session. Presence of a matching, unexpired
// row is what authorizes protected API calls.
type Session struct {
	Token     string    `json:"token"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}
