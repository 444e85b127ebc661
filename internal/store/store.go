// Package store provides SQLite-backed persistence for customers,
// reservations, admin sessions, and login throttling.
package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/cafe-fausse/server/internal/models"
)

// Store defines the persistence operations the service layer depends on.
// Consumers should depend on this interface rather than the concrete *DB type
// to facilitate testing with mocks.
type Store interface {
	UpsertReservationCustomer(name, email, phone string) (int64, error)
	SubscribeNewsletter(email, name string) error
	OccupiedTables(slot time.Time) (map[int]struct{}, error)
	CreateReservation(customerID int64, slot time.Time, partySize, tableNumber int) (int64, error)
	ListReservations(from time.Time, limit int) ([]ReservationRow, error)

	CreateSession(s models.Session) error
	GetSession(token string) (*models.Session, error)
	DeleteSession(token string) error
	PurgeExpiredSessions(now time.Time) (int64, error)

	CooldownRemaining(username string, now time.Time) (time.Duration, error)
	RecordLoginFailure(username string, now time.Time) error
	ResetLoginFailures(username string) error

	Close() error
}

// Verify *DB satisfies Store at compile time.
var _ Store = (*DB)(nil)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS customers (
	id                INTEGER PRIMARY KEY AUTOINCREMENT,
	name              TEXT NOT NULL DEFAULT '',
	email             TEXT NOT NULL UNIQUE,
	phone             TEXT NOT NULL DEFAULT '',
	newsletter_opt_in INTEGER NOT NULL DEFAULT 0,
	created_at        DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at        DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS reservations (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	customer_id  INTEGER NOT NULL REFERENCES customers(id) ON DELETE CASCADE,
	time_slot    DATETIME NOT NULL,
	party_size   INTEGER NOT NULL,
	table_number INTEGER NOT NULL,
	created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	UNIQUE(time_slot, table_number)
);

CREATE INDEX IF NOT EXISTS idx_reservations_slot ON reservations(time_slot);

CREATE TABLE IF NOT EXISTS sessions (
	token      TEXT PRIMARY KEY,
	issued_at  DATETIME NOT NULL,
	expires_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS login_attempts (
	username       TEXT PRIMARY KEY,
	fail_count     INTEGER NOT NULL DEFAULT 0,
	last_failed_at DATETIME,
	cooldown_until DATETIME
);
`

// DB wraps a sql.DB with store-specific operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
