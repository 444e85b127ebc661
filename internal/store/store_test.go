package store

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/cafe-fausse/server/internal/apperr"
	"github.com/cafe-fausse/server/internal/models"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "cafe-store-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := Open(dbFile.Name())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestUpsertReservationCustomer(t *testing.T) {
	db := testDB(t)

	id1, err := db.UpsertReservationCustomer("Jane", "JANE@example.com", "555-0100")
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	// Same email (case-insensitive) must hit the same row; empty phone keeps the old one.
	id2, err := db.UpsertReservationCustomer("Jane Doe", "jane@example.com", "")
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if id1 != id2 {
		t.Errorf("ids differ: %d vs %d", id1, id2)
	}
}

func TestReservationConflict(t *testing.T) {
	db := testDB(t)

	cid, err := db.UpsertReservationCustomer("Jane", "jane@example.com", "")
	if err != nil {
		t.Fatal(err)
	}
	slot := time.Date(2026, 9, 1, 19, 0, 0, 0, time.UTC)

	if _, err := db.CreateReservation(cid, slot, 2, 7); err != nil {
		t.Fatalf("first reservation: %v", err)
	}
	_, err = db.CreateReservation(cid, slot, 4, 7)
	if !errors.Is(err, apperr.ErrConflict) {
		t.Errorf("double-booked table error = %v, want ErrConflict", err)
	}

	occupied, err := db.OccupiedTables(slot)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := occupied[7]; !ok {
		t.Error("table 7 should be occupied")
	}
	if len(occupied) != 1 {
		t.Errorf("occupied count = %d, want 1", len(occupied))
	}
}

func TestSubscribeNewsletterSetsOptIn(t *testing.T) {
	db := testDB(t)

	if _, err := db.UpsertReservationCustomer("Jane", "jane@example.com", ""); err != nil {
		t.Fatal(err)
	}
	if err := db.SubscribeNewsletter("jane@example.com", ""); err != nil {
		t.Fatalf("subscribe existing: %v", err)
	}
	if err := db.SubscribeNewsletter("new@example.com", "New Person"); err != nil {
		t.Fatalf("subscribe new: %v", err)
	}
}

func TestSessionLifecycle(t *testing.T) {
	db := testDB(t)
	now := time.Now().UTC().Truncate(time.Second)

	s := models.Session{Token: "tok-1", IssuedAt: now, ExpiresAt: now.Add(time.Hour)}
	if err := db.CreateSession(s); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := db.GetSession("tok-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.ExpiresAt.Equal(s.ExpiresAt) {
		t.Errorf("expires_at = %v, want %v", got.ExpiresAt, s.ExpiresAt)
	}

	if _, err := db.GetSession("unknown"); !errors.Is(err, apperr.ErrUnauthorized) {
		t.Errorf("unknown token error = %v, want ErrUnauthorized", err)
	}

	if err := db.DeleteSession("tok-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := db.GetSession("tok-1"); !errors.Is(err, apperr.ErrUnauthorized) {
		t.Error("deleted session should be gone")
	}
}

func TestPurgeExpiredSessions(t *testing.T) {
	db := testDB(t)
	now := time.Now().UTC()

	_ = db.CreateSession(models.Session{Token: "old", IssuedAt: now.Add(-2 * time.Hour), ExpiresAt: now.Add(-time.Hour)})
	_ = db.CreateSession(models.Session{Token: "live", IssuedAt: now, ExpiresAt: now.Add(time.Hour)})

	n, err := db.PurgeExpiredSessions(now)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("purged = %d, want 1", n)
	}
	if _, err := db.GetSession("live"); err != nil {
		t.Errorf("live session should survive purge: %v", err)
	}
}

func TestLoginThrottleBackoff(t *testing.T) {
	db := testDB(t)
	now := time.Now().UTC()

	remaining, err := db.CooldownRemaining("admin", now)
	if err != nil || remaining != 0 {
		t.Fatalf("fresh user cooldown = %v, %v", remaining, err)
	}

	if err := db.RecordLoginFailure("admin", now); err != nil {
		t.Fatal(err)
	}
	remaining, err = db.CooldownRemaining("admin", now)
	if err != nil {
		t.Fatal(err)
	}
	if remaining <= 0 || remaining > 2*time.Second {
		t.Errorf("cooldown after one failure = %v, want (0, 2s]", remaining)
	}

	// Cooldown expires on its own.
	remaining, err = db.CooldownRemaining("admin", now.Add(time.Minute))
	if err != nil || remaining != 0 {
		t.Errorf("expired cooldown = %v, %v", remaining, err)
	}

	if err := db.ResetLoginFailures("admin"); err != nil {
		t.Fatal(err)
	}
	remaining, _ = db.CooldownRemaining("admin", now)
	if remaining != 0 {
		t.Errorf("cooldown after reset = %v, want 0", remaining)
	}
}

func TestCooldownForFailCount(t *testing.T) {
	cases := []struct {
		fails int
		want  time.Duration
	}{
		{1, 2 * time.Second},
		{2, 4 * time.Second},
		{4, 16 * time.Second},
		{5, 30 * time.Second},
		{10, 30 * time.Second},
	}
	for _, c := range cases {
		if got := CooldownForFailCount(c.fails); got != c.want {
			t.Errorf("CooldownForFailCount(%d) = %v, want %v", c.fails, got, c.want)
		}
	}
}

func TestListReservations(t *testing.T) {
	db := testDB(t)

	cid, _ := db.UpsertReservationCustomer("Jane", "jane@example.com", "")
	base := time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		if _, err := db.CreateReservation(cid, base.Add(time.Duration(i)*time.Hour), 2, i+1); err != nil {
			t.Fatal(err)
		}
	}

	rows, err := db.ListReservations(base.Add(30*time.Minute), 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if !rows[0].TimeSlot.Before(rows[1].TimeSlot) {
		t.Error("rows should be ordered oldest first")
	}
	if rows[0].Email != "jane@example.com" {
		t.Errorf("email = %q", rows[0].Email)
	}
}
