package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// cooldownCap bounds the exponential login backoff.
const cooldownCap = 30 * time.Second

// CooldownForFailCount returns min(cap, 2^failCount seconds).
func CooldownForFailCount(failCount int) time.Duration {
	if failCount >= 5 {
		return cooldownCap
	}
	d := time.Duration(1<<uint(failCount)) * time.Second
	if d > cooldownCap {
		return cooldownCap
	}
	return d
}

// CooldownRemaining reports how long the username must wait before another
// login attempt. Zero means no active cooldown.
func (db *DB) CooldownRemaining(username string, now time.Time) (time.Duration, error) {
	var until sql.NullTime
	err := db.conn.QueryRow(`
		SELECT cooldown_until FROM login_attempts WHERE username = ?
	`, username).Scan(&until)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("store: cooldown lookup: %w", err)
	}
	if !until.Valid || !now.Before(until.Time) {
		return 0, nil
	}
	return until.Time.Sub(now), nil
}

// RecordLoginFailure increments the failure counter and pushes the cooldown
// window forward with exponential backoff.
func (db *DB) RecordLoginFailure(username string, now time.Time) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	var failCount int
	err = tx.QueryRow(`SELECT fail_count FROM login_attempts WHERE username = ?`, username).Scan(&failCount)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("store: read fail count: %w", err)
	}
	failCount++
	cooldownUntil := now.UTC().Add(CooldownForFailCount(failCount))

	_, err = tx.Exec(`
		INSERT INTO login_attempts (username, fail_count, last_failed_at, cooldown_until)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(username) DO UPDATE SET
			fail_count     = excluded.fail_count,
			last_failed_at = excluded.last_failed_at,
			cooldown_until = excluded.cooldown_until
	`, username, failCount, now.UTC(), cooldownUntil)
	if err != nil {
		return fmt.Errorf("store: record login failure: %w", err)
	}
	return tx.Commit()
}

// ResetLoginFailures clears the throttle state after a successful login.
func (db *DB) ResetLoginFailures(username string) error {
	if _, err := db.conn.Exec(`DELETE FROM login_attempts WHERE username = ?`, username); err != nil {
		return fmt.Errorf("store: reset login failures: %w", err)
	}
	return nil
}
