// Package menu stores the menu content as a JSON document on disk.
package menu

import "github.com/cafe-fausse/server/internal/models"

// Provider is the interface for menu content access.
type Provider interface {
	// Load returns the ordered menu sections.
	Load() ([]models.MenuSection, error)
	// Save atomically replaces the stored menu.
	Save(sections []models.MenuSection) error
}
