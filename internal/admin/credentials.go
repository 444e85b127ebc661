// Package admin implements the admin-facing client workflows: credential
// storage, the session guard, login, and the menu editor.
package admin

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const credFileName = "credentials.json"

// EnvToken overrides the stored credential, useful for scripted sessions.
const EnvToken = "CAFE_ADMIN_TOKEN"

// Credentials is the persisted admin session credential.
type Credentials struct {
	Token     string     `json:"token"`
	SavedAt   time.Time  `json:"saved_at"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// Expired reports whether the credential is past its server-provided expiry.
func (c *Credentials) Expired(now time.Time) bool {
	return c.ExpiresAt != nil && !now.Before(*c.ExpiresAt)
}

// CredentialStore is the durable token store shared by the session guard and
// the workflows. It survives process restarts.
type CredentialStore interface {
	// Token returns the stored token, or "" when absent or expired.
	Token() string
	// Save persists a freshly issued token.
	Save(token string, expiresAt *time.Time) error
	// Clear erases the stored credential. Clearing an empty store is not an
	// error.
	Clear() error
}

// FileStore keeps the credential in a JSON file under the user config
// directory, owner-readable only.
type FileStore struct {
	mu  sync.Mutex
	dir string
}

// NewFileStore creates a FileStore rooted at dir. An empty dir resolves to
// <user config dir>/cafe-fausse.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("admin: resolve config dir: %w", err)
		}
		dir = filepath.Join(base, "cafe-fausse")
	}
	return &FileStore{dir: dir}, nil
}

func (f *FileStore) path() string {
	return filepath.Join(f.dir, credFileName)
}

// Token returns the stored token. The CAFE_ADMIN_TOKEN environment variable
// takes precedence over the file.
func (f *FileStore) Token() string {
	if env := strings.TrimSpace(os.Getenv(EnvToken)); env != "" {
		return env
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path())
	if err != nil {
		return ""
	}
	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return ""
	}
	if creds.Expired(time.Now()) {
		return ""
	}
	return creds.Token
}

// Save persists the token with 0600 permissions.
func (f *FileStore) Save(token string, expiresAt *time.Time) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("admin: refusing to save empty token")
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.MkdirAll(f.dir, 0o700); err != nil {
		return fmt.Errorf("admin: mkdir: %w", err)
	}
	creds := Credentials{
		Token:     token,
		SavedAt:   time.Now(),
		ExpiresAt: expiresAt,
	}
	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return fmt.Errorf("admin: marshal credentials: %w", err)
	}
	if err := os.WriteFile(f.path(), data, 0o600); err != nil {
		return fmt.Errorf("admin: write credentials: %w", err)
	}
	return nil
}

// Clear erases the stored credential.
func (f *FileStore) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path()); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("admin: remove credentials: %w", err)
	}
	return nil
}
