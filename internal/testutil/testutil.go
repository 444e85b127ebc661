// Package testutil provides shared test helpers for setting up databases and menu data.
package testutil

import (
	"os"
	"testing"

	"github.com/cafe-fausse/server/internal/menu"
	"github.com/cafe-fausse/server/internal/models"
	"github.com/cafe-fausse/server/internal/store"
)

// TestDB creates a temporary SQLite database that is automatically cleaned up.
func TestDB(t *testing.T) *store.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "cafe-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := store.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestMenu creates a temporary data directory seeded with the given sections.
func TestMenu(t *testing.T, sections []models.MenuSection) (string, *menu.FS) {
	t.Helper()
	dir := t.TempDir()
	fs, err := menu.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	if sections != nil {
		if err := fs.Save(sections); err != nil {
			t.Fatal(err)
		}
	}
	return dir, fs
}

// SampleMenu returns a small two-section menu used across tests.
func SampleMenu() []models.MenuSection {
	return []models.MenuSection{
		{
			Title:       "Starters",
			Description: "Light beginnings",
			Items: []models.MenuItem{
				{Name: "Soup", Description: "Seasonal vegetables", Price: "$8", Image: ""},
				{Name: "Bruschetta", Description: "Tomato and basil", Price: "$9.50", Image: ""},
			},
		},
		{
			Title:       "Mains",
			Description: "From the kitchen",
			Items: []models.MenuItem{
				{Name: "Ribeye", Description: "28-day aged", Price: "$34", Image: ""},
			},
		},
	}
}
