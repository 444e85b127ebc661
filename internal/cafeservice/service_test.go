package cafeservice

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/cafe-fausse/server/internal/apperr"
	"github.com/cafe-fausse/server/internal/models"
	"github.com/cafe-fausse/server/internal/testutil"
)

const testPassword = "swordfish"

func testService(t *testing.T, totalTables int) *Service {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}

	db := testutil.TestDB(t)
	_, fs := testutil.TestMenu(t, testutil.SampleMenu())
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return NewService(db, fs, logger, Options{
		AdminUsername:     "admin",
		AdminPasswordHash: string(hash),
		SessionTTL:        time.Hour,
		TotalTables:       totalTables,
	})
}

func TestCreateReservationAssignsFreeTable(t *testing.T) {
	svc := testService(t, 2)
	slot := time.Date(2026, 9, 4, 19, 0, 0, 0, time.UTC)

	first, err := svc.CreateReservation(slot, 2, "Jane", "jane@example.com", "")
	if err != nil {
		t.Fatalf("first reservation: %v", err)
	}
	second, err := svc.CreateReservation(slot, 4, "Joe", "joe@example.com", "")
	if err != nil {
		t.Fatalf("second reservation: %v", err)
	}
	if first.TableNumber == second.TableNumber {
		t.Errorf("both reservations got table %d", first.TableNumber)
	}

	// Two tables, both taken: third request must be rejected.
	_, err = svc.CreateReservation(slot, 2, "Late", "late@example.com", "")
	if !errors.Is(err, apperr.ErrConflict) {
		t.Errorf("fully booked slot error = %v, want ErrConflict", err)
	}

	// A different slot is unaffected.
	if _, err := svc.CreateReservation(slot.Add(time.Hour), 2, "Late", "late@example.com", ""); err != nil {
		t.Errorf("different slot should succeed: %v", err)
	}
}

func TestCreateReservationRejectsBadPartySize(t *testing.T) {
	svc := testService(t, 5)
	_, err := svc.CreateReservation(time.Now(), 0, "Jane", "jane@example.com", "")
	if !errors.Is(err, apperr.ErrInvalid) {
		t.Errorf("party size 0 error = %v, want ErrInvalid", err)
	}
}

func TestUpdateMenuItemReplacesFullRecord(t *testing.T) {
	svc := testService(t, 5)

	updated, err := svc.UpdateMenuItem("soup", models.MenuItem{
		Name:        "Soup",
		Description: "Roasted tomato",
		Price:       "$9",
		Image:       "/img/soup.jpg",
	})
	if err != nil {
		t.Fatalf("UpdateMenuItem: %v", err)
	}
	if updated.Price != "$9" || updated.Description != "Roasted tomato" {
		t.Errorf("unexpected item: %+v", updated)
	}

	// The change survives a reload.
	sections, err := svc.MenuSections()
	if err != nil {
		t.Fatal(err)
	}
	if sections[0].Items[0].Image != "/img/soup.jpg" {
		t.Errorf("image not persisted: %+v", sections[0].Items[0])
	}
}

func TestUpdateMenuItemUnknown(t *testing.T) {
	svc := testService(t, 5)
	_, err := svc.UpdateMenuItem("Nonexistent", models.MenuItem{Name: "Nonexistent"})
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("unknown item error = %v, want ErrNotFound", err)
	}
}

func TestDeleteMenuItem(t *testing.T) {
	svc := testService(t, 5)

	var gotKind, gotName string
	svc.SetNotify(func(kind, name string) { gotKind, gotName = kind, name })

	if err := svc.DeleteMenuItem("Bruschetta"); err != nil {
		t.Fatalf("DeleteMenuItem: %v", err)
	}
	if gotKind != "deleted" || gotName != "Bruschetta" {
		t.Errorf("notify got (%q, %q)", gotKind, gotName)
	}

	sections, _ := svc.MenuSections()
	if len(sections[0].Items) != 1 {
		t.Errorf("starters should have one item left, got %d", len(sections[0].Items))
	}
	if len(sections[1].Items) != 1 {
		t.Errorf("other sections must be untouched, got %d items", len(sections[1].Items))
	}

	if err := svc.DeleteMenuItem("Bruschetta"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("second delete error = %v, want ErrNotFound", err)
	}
}

func TestLoginIssuesValidSession(t *testing.T) {
	svc := testService(t, 5)

	session, err := svc.Login("admin", testPassword)
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if session.Token == "" {
		t.Fatal("empty session token")
	}
	if err := svc.ValidateToken(session.Token); err != nil {
		t.Errorf("fresh token should validate: %v", err)
	}

	if err := svc.Logout(session.Token); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if err := svc.ValidateToken(session.Token); !errors.Is(err, apperr.ErrUnauthorized) {
		t.Errorf("logged-out token error = %v, want ErrUnauthorized", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc := testService(t, 5)
	_, err := svc.Login("admin", "wrong")
	if !errors.Is(err, apperr.ErrUnauthorized) {
		t.Errorf("wrong password error = %v, want ErrUnauthorized", err)
	}
}

func TestLoginThrottleAfterFailure(t *testing.T) {
	svc := testService(t, 5)

	if _, err := svc.Login("admin", "wrong"); !errors.Is(err, apperr.ErrUnauthorized) {
		t.Fatalf("first failure: %v", err)
	}

	// Immediately retrying lands in the cooldown window.
	_, err := svc.Login("admin", testPassword)
	var throttled *ThrottledError
	if !errors.As(err, &throttled) {
		t.Fatalf("second attempt error = %v, want ThrottledError", err)
	}
	if throttled.RetryAfter <= 0 {
		t.Errorf("retry-after = %v, want positive", throttled.RetryAfter)
	}

	// After the cooldown passes, the correct password works again.
	svc.now = func() time.Time { return time.Now().Add(time.Minute) }
	if _, err := svc.Login("admin", testPassword); err != nil {
		t.Errorf("login after cooldown: %v", err)
	}
}

func TestValidateTokenExpiry(t *testing.T) {
	svc := testService(t, 5)

	session, err := svc.Login("admin", testPassword)
	if err != nil {
		t.Fatal(err)
	}

	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if err := svc.ValidateToken(session.Token); !errors.Is(err, apperr.ErrUnauthorized) {
		t.Errorf("expired token error = %v, want ErrUnauthorized", err)
	}
}
