package menu

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cafe-fausse/server/internal/apperr"
	"github.com/cafe-fausse/server/internal/models"
)

// FileName is the menu document inside the data directory.
const FileName = "menu.json"

// FS implements Provider backed by a menu.json file on the local file system.
type FS struct {
	root string // absolute path to the data directory
}

// NewFS creates a new FS provider rooted at the given data directory.
// The directory must already exist.
func NewFS(root string) (*FS, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("menu: resolve root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("menu: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("menu: root is not a directory: %s", abs)
	}
	return &FS{root: abs}, nil
}

// Path returns the absolute path of the menu document.
func (f *FS) Path() string {
	return filepath.Join(f.root, FileName)
}

// Load reads and decodes menu.json. A missing file maps to apperr.ErrNotFound.
func (f *FS) Load() ([]models.MenuSection, error) {
	data, err := os.ReadFile(f.Path())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("menu: %s: %w", FileName, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("menu: read: %w", err)
	}
	var sections []models.MenuSection
	if err := json.Unmarshal(data, &sections); err != nil {
		return nil, fmt.Errorf("menu: decode: %w", err)
	}
	return sections, nil
}

// Save atomically writes the menu: tmp file → fsync → rename.
func (f *FS) Save(sections []models.MenuSection) error {
	data, err := json.MarshalIndent(sections, "", "  ")
	if err != nil {
		return fmt.Errorf("menu: encode: %w", err)
	}

	tmp, err := os.CreateTemp(f.root, ".menu-tmp-*")
	if err != nil {
		return fmt.Errorf("menu: create temp: %w", err)
	}
	tmpName := tmp.Name()

	// Clean up on any failure path.
	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("menu: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("menu: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("menu: close temp: %w", err)
	}
	if err := os.Rename(tmpName, f.Path()); err != nil {
		return fmt.Errorf("menu: rename: %w", err)
	}
	success = true
	return nil
}
