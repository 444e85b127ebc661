package store

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/cafe-fausse/server/internal/apperr"
)

// ReservationRow is a reservation joined with its customer's contact details.
type ReservationRow struct {
	ID          int64
	TimeSlot    time.Time
	PartySize   int
	TableNumber int
	Name        string
	Email       string
}

// UpsertReservationCustomer creates or refreshes the customer record for a
// reservation and returns its id. An existing customer keeps their phone
// number when the new one is empty.
func (db *DB) UpsertReservationCustomer(name, email, phone string) (int64, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	_, err := db.conn.Exec(`
		INSERT INTO customers (name, email, phone, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(email) DO UPDATE SET
			name       = excluded.name,
			phone      = CASE WHEN excluded.phone <> '' THEN excluded.phone ELSE customers.phone END,
			updated_at = CURRENT_TIMESTAMP
	`, name, email, phone)
	if err != nil {
		return 0, fmt.Errorf("store: upsert customer: %w", err)
	}

	var id int64
	if err := db.conn.QueryRow(`SELECT id FROM customers WHERE email = ?`, email).Scan(&id); err != nil {
		return 0, fmt.Errorf("store: lookup customer id: %w", err)
	}
	return id, nil
}

// SubscribeNewsletter sets the newsletter opt-in flag for the customer,
// creating the record if the email is new.
func (db *DB) SubscribeNewsletter(email, name string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	_, err := db.conn.Exec(`
		INSERT INTO customers (name, email, newsletter_opt_in, updated_at)
		VALUES (?, ?, 1, CURRENT_TIMESTAMP)
		ON CONFLICT(email) DO UPDATE SET
			newsletter_opt_in = 1,
			name              = CASE WHEN excluded.name <> '' THEN excluded.name ELSE customers.name END,
			updated_at        = CURRENT_TIMESTAMP
	`, name, email)
	if err != nil {
		return fmt.Errorf("store: subscribe newsletter: %w", err)
	}
	return nil
}

// OccupiedTables returns the set of table numbers already booked for the slot.
func (db *DB) OccupiedTables(slot time.Time) (map[int]struct{}, error) {
	rows, err := db.conn.Query(`SELECT table_number FROM reservations WHERE time_slot = ?`, slot.UTC())
	if err != nil {
		return nil, fmt.Errorf("store: occupied tables: %w", err)
	}
	defer rows.Close()

	out := make(map[int]struct{})
	for rows.Next() {
		var n int
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		out[n] = struct{}{}
	}
	return out, rows.Err()
}

// CreateReservation inserts a reservation. A unique-constraint violation on
// (time_slot, table_number) is reported as apperr.ErrConflict so the caller
// can retry with a different table.
func (db *DB) CreateReservation(customerID int64, slot time.Time, partySize, tableNumber int) (int64, error) {
	res, err := db.conn.Exec(`
		INSERT INTO reservations (customer_id, time_slot, party_size, table_number)
		VALUES (?, ?, ?, ?)
	`, customerID, slot.UTC(), partySize, tableNumber)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return 0, apperr.ErrConflict
		}
		return 0, fmt.Errorf("store: create reservation: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("store: reservation id: %w", err)
	}
	return id, nil
}

// ListReservations returns reservations at or after from, oldest first.
func (db *DB) ListReservations(from time.Time, limit int) ([]ReservationRow, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.conn.Query(`
		SELECT r.id, r.time_slot, r.party_size, r.table_number, c.name, c.email
		FROM reservations r
		JOIN customers c ON c.id = r.customer_id
		WHERE r.time_slot >= ?
		ORDER BY r.time_slot ASC
		LIMIT ?
	`, from.UTC(), limit)
	if err != nil {
		return nil, fmt.Errorf("store: list reservations: %w", err)
	}
	defer rows.Close()

	var out []ReservationRow
	for rows.Next() {
		var r ReservationRow
		if err := rows.Scan(&r.ID, &r.TimeSlot, &r.PartySize, &r.TableNumber, &r.Name, &r.Email); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
