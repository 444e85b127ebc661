package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/cafe-fausse/server/internal/apperr"
	"github.com/cafe-fausse/server/internal/models"
)

// CreateSession persists a newly issued admin session.
func (db *DB) CreateSession(s models.Session) error {
	_, err := db.conn.Exec(`
		INSERT INTO sessions (token, issued_at, expires_at) VALUES (?, ?, ?)
	`, s.Token, s.IssuedAt.UTC(), s.ExpiresAt.UTC())
	if err != nil {
		return fmt.Errorf("store: create session: %w", err)
	}
	return nil
}

// GetSession returns the session for token. Unknown tokens map to
// apperr.ErrUnauthorized; the caller decides whether expiry also does.
func (db *DB) GetSession(token string) (*models.Session, error) {
	var s models.Session
	err := db.conn.QueryRow(`
		SELECT token, issued_at, expires_at FROM sessions WHERE token = ?
	`, token).Scan(&s.Token, &s.IssuedAt, &s.ExpiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrUnauthorized
	}
	if err != nil {
		return nil, fmt.Errorf("store: get session: %w", err)
	}
	return &s, nil
}

// DeleteSession removes a session. Deleting an unknown token is not an error.
func (db *DB) DeleteSession(token string) error {
	if _, err := db.conn.Exec(`DELETE FROM sessions WHERE token = ?`, token); err != nil {
		return fmt.Errorf("store: delete session: %w", err)
	}
	return nil
}

// PurgeExpiredSessions removes every session that expired before now and
// returns how many were dropped.
func (db *DB) PurgeExpiredSessions(now time.Time) (int64, error) {
	res, err := db.conn.Exec(`DELETE FROM sessions WHERE expires_at < ?`, now.UTC())
	if err != nil {
		return 0, fmt.Errorf("store: purge sessions: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
