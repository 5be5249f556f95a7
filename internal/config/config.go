// Package config handles configuration loading from files, defaults, and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/javiermolinar/timebox/internal/block"
	"github.com/javiermolinar/timebox/internal/edit"
	"github.com/javiermolinar/timebox/internal/task"
)

// Config holds the application configuration.
type Config struct {
	Edit     EditConfig     `toml:"edit"`
	Timeline TimelineConfig `toml:"timeline"`
	Storage  StorageConfig  `toml:"storage"`
	UI       UIConfig       `toml:"ui"`
}

// EditConfig holds the settings read by every edit.
type EditConfig struct {
	MinimalDurationMinutes int    `toml:"minimal_duration_minutes"`
	Policy                 string `toml:"policy"` // "push", "shrink" or "none"
	DefaultDurationMinutes int    `toml:"default_duration_minutes"`
	SnapStepMinutes        int    `toml:"snap_step_minutes"`
}

// TimelineConfig holds the visible window of the timeline.
type TimelineConfig struct {
	DayStart string   `toml:"day_start"` // e.g., "08:00"
	DayEnd   string   `toml:"day_end"`   // e.g., "20:00"
	Days     int      `toml:"days"`      // visible days
	Workdays []string `toml:"workdays"`  // e.g., ["monday", "tuesday", ...]
}

// StorageConfig holds database settings.
type StorageConfig struct {
	DBPath string `toml:"db_path"`
}

// UIConfig holds TUI settings.
type UIConfig struct {
	Theme string `toml:"theme"` // "mocha", "macchiato", "frappe", "latte"
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Edit: EditConfig{
			MinimalDurationMinutes: 10,
			Policy:                 "push",
			DefaultDurationMinutes: 30,
			SnapStepMinutes:        15,
		},
		Timeline: TimelineConfig{
			DayStart: "08:00",
			DayEnd:   "20:00",
			Days:     7,
			Workdays: []string{"monday", "tuesday", "wednesday", "thursday", "friday"},
		},
		Storage: StorageConfig{
			DBPath: defaultDBPath(),
		},
		UI: UIConfig{
			Theme: "mocha",
		},
	}
}

// defaultDBPath returns the default database path.
func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "timebox.db"
	}
	return filepath.Join(home, ".local", "share", "timebox", "timebox.db")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "timebox", "config.toml")
}

// Load loads configuration from the default path, merging with defaults and env vars.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom loads configuration from the specified path.
// It starts with defaults, overlays file config if it exists, then applies env overrides.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	// Try to load from file (not an error if it doesn't exist)
	if err := loadFromFile(path, cfg); err != nil {
		return nil, err
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	cfg.Storage.DBPath = expandPath(cfg.Storage.DBPath)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads config from a file if it exists.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // File doesn't exist, use defaults
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
// Environment variables take precedence over file config.
func applyEnvOverrides(cfg *Config) error {
	ints := []struct {
		env string
		dst *int
	}{
		{"TIMEBOX_MIN_DURATION", &cfg.Edit.MinimalDurationMinutes},
		{"TIMEBOX_DEFAULT_DURATION", &cfg.Edit.DefaultDurationMinutes},
		{"TIMEBOX_SNAP_STEP", &cfg.Edit.SnapStepMinutes},
		{"TIMEBOX_DAYS", &cfg.Timeline.Days},
	}
	for _, o := range ints {
		v := os.Getenv(o.env)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s must be a number, got %q", o.env, v)
		}
		*o.dst = n
	}

	if v := os.Getenv("TIMEBOX_POLICY"); v != "" {
		cfg.Edit.Policy = v
	}
	if v := os.Getenv("TIMEBOX_DAY_START"); v != "" {
		cfg.Timeline.DayStart = v
	}
	if v := os.Getenv("TIMEBOX_DAY_END"); v != "" {
		cfg.Timeline.DayEnd = v
	}
	if v := os.Getenv("TIMEBOX_WORKDAYS"); v != "" {
		cfg.Timeline.Workdays = strings.Split(v, ",")
	}
	if v := os.Getenv("TIMEBOX_DB_PATH"); v != "" {
		cfg.Storage.DBPath = v
	}
	if v := os.Getenv("TIMEBOX_UI_THEME"); v != "" {
		cfg.UI.Theme = v
	}
	return nil
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Edit.MinimalDurationMinutes < 1 {
		return errors.New("minimal_duration_minutes must be at least 1")
	}
	if c.Edit.DefaultDurationMinutes < c.Edit.MinimalDurationMinutes {
		return errors.New("default_duration_minutes must not be below minimal_duration_minutes")
	}
	if c.Edit.SnapStepMinutes < 1 || c.Edit.SnapStepMinutes > 60 {
		return fmt.Errorf("snap_step_minutes must be between 1 and 60, got %d", c.Edit.SnapStepMinutes)
	}
	if _, err := block.ParsePolicy(c.Edit.Policy); err != nil {
		return err
	}

	if err := validateTime(c.Timeline.DayStart, "day_start"); err != nil {
		return err
	}
	if err := validateTime(c.Timeline.DayEnd, "day_end"); err != nil {
		return err
	}
	if c.Timeline.DayStart >= c.Timeline.DayEnd {
		return errors.New("day_start must be before day_end")
	}
	if c.Timeline.Days < 1 || c.Timeline.Days > 31 {
		return fmt.Errorf("days must be between 1 and 31, got %d", c.Timeline.Days)
	}
	for _, day := range c.Timeline.Workdays {
		if !isValidWeekday(day) {
			return fmt.Errorf("invalid workday: %s", day)
		}
	}

	if c.Storage.DBPath == "" {
		return errors.New("db_path must be set")
	}
	return nil
}

// validateTime checks if a time string is in HH:MM format.
func validateTime(t, field string) error {
	if _, err := task.ParseClock(t); err != nil {
		return fmt.Errorf("%s must be in HH:MM format, got %q", field, t)
	}
	return nil
}

var validWeekdays = map[string]bool{
	"monday":    true,
	"tuesday":   true,
	"wednesday": true,
	"thursday":  true,
	"friday":    true,
	"saturday":  true,
	"sunday":    true,
}

func isValidWeekday(day string) bool {
	return validWeekdays[strings.ToLower(day)]
}

// IsWorkday returns true if the given weekday name is a configured workday.
func (c *Config) IsWorkday(weekday string) bool {
	weekday = strings.ToLower(weekday)
	for _, d := range c.Timeline.Workdays {
		if strings.ToLower(d) == weekday {
			return true
		}
	}
	return false
}

// EditSettings converts the [edit] section for the editor.
// The config must have passed Validate.
func (c *Config) EditSettings() edit.Settings {
	policy, _ := block.ParsePolicy(c.Edit.Policy)
	return edit.Settings{
		MinimalDurationMinutes: c.Edit.MinimalDurationMinutes,
		DefaultDurationMinutes: c.Edit.DefaultDurationMinutes,
		Policy:                 policy,
	}
}

// VisibleMinutes returns the visible window as minutes since midnight.
func (c *Config) VisibleMinutes() (start, end int) {
	return task.TimeToMinutes(c.Timeline.DayStart), task.TimeToMinutes(c.Timeline.DayEnd)
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigPath())
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
