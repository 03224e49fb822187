package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/Tiliavir/worktime/internal/model"
	"github.com/Tiliavir/worktime/internal/storage"
)

// Config is the root configuration for wt, stored in ~/.worktime/config.json.
// The file supports single-line // comments for documentation purposes.
type Config struct {
	Settings model.UserSettings `json:"settings"`
	// TeamFile is an optional YAML file with team overrides.
	TeamFile string        `json:"team_file" env:"WORKTIME_TEAM_FILE"`
	Storage  StorageConfig `json:"storage"`
	Server   ServerConfig  `json:"server"`
	Log      LogConfig     `json:"log"`
	Outlook  OutlookConfig `json:"outlook"`
}

// StorageConfig selects the entry store.
type StorageConfig struct {
	// Driver is "files" (one JSON file per day) or "sqlite".
	Driver string `json:"driver" env:"WORKTIME_STORAGE_DRIVER"`
	// Path overrides the data location. Empty = inside ~/.worktime.
	Path string `json:"path" env:"WORKTIME_STORAGE_PATH"`
}

// ServerConfig configures `wt serve`.
type ServerConfig struct {
	Addr string `json:"addr" env:"WORKTIME_SERVER_ADDR"`
}

// LogConfig configures diagnostics on stderr.
type LogConfig struct {
	Level string `json:"level" env:"WORKTIME_LOG_LEVEL"`
}

// OutlookConfig holds Microsoft Graph / Outlook calendar import settings.
type OutlookConfig struct {
	// TenantID is the Azure AD tenant. Use "common" for personal/multi-tenant accounts.
	TenantID string `json:"tenant_id"`
	// ClientID is the Azure app (client) ID for the OAuth2 device code flow.
	ClientID string `json:"client_id"`
	// DefaultLocation is used for events that carry no location.
	DefaultLocation string `json:"default_location"`
	// Timezone is the IANA timezone for event times (e.g. "Europe/Berlin"). Empty = UTC.
	Timezone string `json:"timezone"`
}

const (
	// DefaultTenantID is the Microsoft "common" tenant (supports personal and
	// multi-tenant organisational accounts without additional registration).
	DefaultTenantID = "common"
	// DefaultClientID is the well-known public Azure CLI app ID.
	// It supports device code flow without a client secret and requires no
	// app registration.
	DefaultClientID = "04b07795-8542-4c4a-95af-30b2c573d5ab"
	// DefaultLocation is assigned to imported events without a location.
	DefaultLocation = "Meetings"
	// DefaultServerAddr is the listen address of the API server.
	DefaultServerAddr = "127.0.0.1:8420"
	// DefaultLogLevel keeps command output free of diagnostics.
	DefaultLogLevel = "warn"
)

// Default returns a Config pre-filled with the built-in defaults.
func Default() Config {
	return Config{
		Settings: model.DefaultUserSettings(),
		Storage:  StorageConfig{Driver: storage.DriverFiles},
		Server:   ServerConfig{Addr: DefaultServerAddr},
		Log:      LogConfig{Level: DefaultLogLevel},
		Outlook: OutlookConfig{
			TenantID:        DefaultTenantID,
			ClientID:        DefaultClientID,
			DefaultLocation: DefaultLocation,
		},
	}
}

// configTemplate is the annotated config written on first run.
// Lines whose trimmed content starts with // are stripped before JSON parsing.
const configTemplate = `// wt configuration – ~/.worktime/config.json
//
// All settings are optional; missing keys fall back to the defaults below.
// Every value in "settings", "storage", "server" and "log" can also be set
// through WORKTIME_* environment variables.
{
  // ── Compensation ─────────────────────────────────────────────────────────
  "settings": {
    // Share of driving time credited as work time, in percent.
    "driver_compensation_percent": 100,
    // Share of passenger time credited as work time, in percent.
    "passenger_compensation_percent": 90,
    // Hours credited for sick leave, PTO and bank holidays without times.
    // The monthly target is derived from it (hours * 260 / 12).
    "default_work_hours": 8
    // Uncomment to set an explicit monthly target instead:
    // , "expected_monthly_hours": 160
  },

  // Optional YAML file with team overrides; team values win where set.
  "team_file": "",

  // ── Storage ──────────────────────────────────────────────────────────────
  "storage": {
    // "files" keeps one JSON file per day, "sqlite" a single database.
    "driver": "files",
    // Leave empty to store inside ~/.worktime.
    "path": ""
  },

  // ── API server (wt serve) ────────────────────────────────────────────────
  "server": {
    "addr": "127.0.0.1:8420"
  },

  "log": {
    // debug, info, warn or error
    "level": "warn"
  },

  // ── Microsoft Graph / Outlook calendar import ────────────────────────────
  "outlook": {
    // "common" works for personal Microsoft accounts and any organisation.
    "tenant_id": "common",
    // The built-in value is the public Azure CLI app – no app registration needed.
    "client_id": "04b07795-8542-4c4a-95af-30b2c573d5ab",
    // Location assigned to imported events that have none.
    "default_location": "Meetings",
    // IANA timezone for calendar event times, e.g. "Europe/Berlin". Empty = UTC.
    "timezone": ""
  }
}
`

// FilePath returns the path to ~/.worktime/config.json.
func FilePath() (string, error) {
	base, err := storage.BaseDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "config.json"), nil
}

// stripLineComments removes lines whose leading non-whitespace content starts
// with //. Only full-line comments are handled; inline comments are not stripped.
func stripLineComments(data []byte) []byte {
	var out []byte
	for _, line := range bytes.Split(data, []byte("\n")) {
		if bytes.HasPrefix(bytes.TrimLeft(line, " \t"), []byte("//")) {
			continue
		}
		out = append(out, line...)
		out = append(out, '\n')
	}
	return out
}

// Load reads ~/.worktime/config.json, creating it with annotated defaults on
// first run.
func Load() (Config, error) {
	path, err := FilePath()
	if err != nil {
		return Default(), err
	}
	return LoadFile(path)
}

// LoadFile reads the config at path. A missing file is created from the
// annotated template. Environment variables override file values.
func LoadFile(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		if writeErr := writeDefault(path); writeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not create config file %s: %v\n", path, writeErr)
		}
	case err != nil:
		return Default(), fmt.Errorf("reading config file %s: %w", path, err)
	default:
		// Keys missing from the file keep their defaults; explicit zeros stay zero.
		if err := json.Unmarshal(stripLineComments(data), &cfg); err != nil {
			return Default(), fmt.Errorf("parsing config file %s: %w\nTip: delete the file to regenerate defaults", path, err)
		}
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Default(), fmt.Errorf("reading environment overrides: %w", err)
	}

	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = storage.DriverFiles
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = DefaultServerAddr
	}
	if cfg.Outlook.TenantID == "" {
		cfg.Outlook.TenantID = DefaultTenantID
	}
	if cfg.Outlook.ClientID == "" {
		cfg.Outlook.ClientID = DefaultClientID
	}
	if cfg.Outlook.DefaultLocation == "" {
		cfg.Outlook.DefaultLocation = DefaultLocation
	}
	cfg.TeamFile = expandHome(cfg.TeamFile)
	cfg.Storage.Path = expandHome(cfg.Storage.Path)

	return cfg, cfg.Validate()
}

// Validate rejects settings no calculation can make sense of.
func (c Config) Validate() error {
	s := c.Settings
	if s.DriverCompensationPercent < 0 || s.PassengerCompensationPercent < 0 {
		return fmt.Errorf("compensation percentages must not be negative")
	}
	if s.DefaultWorkHours < 0 || s.DefaultWorkHours > 24 {
		return fmt.Errorf("default_work_hours must be between 0 and 24, got %g", s.DefaultWorkHours)
	}
	if s.ExpectedMonthlyHours != nil && *s.ExpectedMonthlyHours < 0 {
		return fmt.Errorf("expected_monthly_hours must not be negative")
	}
	switch c.Storage.Driver {
	case storage.DriverFiles, storage.DriverSQLite:
	default:
		return fmt.Errorf("unknown storage driver %q (want %q or %q)", c.Storage.Driver, storage.DriverFiles, storage.DriverSQLite)
	}
	return nil
}

// StoragePath resolves where the configured driver keeps its data.
func (c Config) StoragePath() (string, error) {
	if c.Storage.Path != "" {
		return c.Storage.Path, nil
	}
	base, err := storage.BaseDir()
	if err != nil {
		return "", err
	}
	if c.Storage.Driver == storage.DriverSQLite {
		return filepath.Join(base, "worktime.db"), nil
	}
	return base, nil
}

// Effective merges the personal settings with the team file, if any.
func (c Config) Effective() (model.EffectiveSettings, error) {
	if c.TeamFile == "" {
		return model.Merge(c.Settings, nil), nil
	}
	team, err := LoadTeam(c.TeamFile)
	if err != nil {
		return model.Merge(c.Settings, nil), err
	}
	return model.Merge(c.Settings, team), nil
}

// writeDefault creates the config directory and writes the annotated default
// config template.
func writeDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(configTemplate), 0o600); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
