package internal

import (
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	App          ApplicationConfig  `yaml:"app"`
	SQLite       SQLiteConfig       `yaml:"sqlite"`
	Menu         MenuConfig         `yaml:"menu"`
	Admin        AdminConfig        `yaml:"admin"`
	Reservations ReservationsConfig `yaml:"reservations"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.SQLite.Validate(); err != nil {
		return err
	}
	if err := c.Menu.Validate(); err != nil {
		return err
	}
	if err := c.Admin.Validate(); err != nil {
		return err
	}
	return c.Reservations.Validate()
}

// LogLevel is a slog level that decodes from the symbolic YAML forms
// ("DEBUG", "INFO", "WARN", "ERROR", with optional offsets like "WARN+2").
type LogLevel slog.Level

// UnmarshalYAML decodes a symbolic level name.
func (l *LogLevel) UnmarshalYAML(value *yaml.Node) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(value.Value)); err != nil {
		return fmt.Errorf("invalid log_level %q: %w", value.Value, err)
	}
	*l = LogLevel(lvl)
	return nil
}

// Level implements slog.Leveler.
func (l LogLevel) Level() slog.Level { return slog.Level(l) }

// String returns the level name.
func (l LogLevel) String() string { return slog.Level(l).String() }

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel LogLevel   `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// SQLiteConfig holds SQLite database configuration.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the SQLite configuration.
func (c *SQLiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// MenuConfig holds the path to the directory containing menu.json.
type MenuConfig struct {
	DataDir string `yaml:"data_dir"`
}

// Validate validates the menu configuration.
func (c *MenuConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.DataDir, validation.Required),
	)
}

// AdminConfig holds admin authentication configuration.
//
// PasswordHash is a bcrypt hash of the admin password; plaintext passwords
// are never stored in configuration. SessionTTL bounds how long an issued
// session token stays valid.
type AdminConfig struct {
	Username     string        `yaml:"username"`
	PasswordHash string        `yaml:"password_hash"`
	SessionTTL   time.Duration `yaml:"session_ttl"`
}

// Validate validates the admin configuration.
func (c *AdminConfig) Validate() error {
	if c.SessionTTL <= 0 {
		return fmt.Errorf("admin: session_ttl must be positive, got %s", c.SessionTTL)
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.Username, validation.Required),
		validation.Field(&c.PasswordHash, validation.Required),
	)
}

// ReservationsConfig holds reservation capacity configuration.
type ReservationsConfig struct {
	TotalTables int `yaml:"total_tables"`
}

// Validate validates the reservations configuration.
func (c *ReservationsConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.TotalTables, validation.Required, validation.Min(1)),
	)
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: LogLevel(slog.LevelInfo),
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		SQLite: SQLiteConfig{
			Path: "./cafe.db",
		},
		Menu: MenuConfig{
			DataDir: "./data",
		},
		Admin: AdminConfig{
			SessionTTL: 12 * time.Hour,
		},
		Reservations: ReservationsConfig{
			TotalTables: 30,
		},
	}
}
