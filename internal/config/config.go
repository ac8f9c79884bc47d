package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alexanderramin/attendance/internal/attendance"
	"github.com/alexanderramin/attendance/internal/taskapi"
	"gopkg.in/yaml.v3"
)

// Config is the complete runtime configuration.
type Config struct {
	API      taskapi.Config `yaml:"api"`
	Rules    RulesConfig    `yaml:"rules"`
	Store    StoreConfig    `yaml:"store"`
	Timezone string         `yaml:"timezone"`
	Log      LogConfig      `yaml:"log"`
}

type RulesConfig struct {
	MissingEndHours float64 `yaml:"missing_end_hours"`
	OvertimeHours   float64 `yaml:"overtime_hours"`
}

type StoreConfig struct {
	DBPath string `yaml:"db_path"`
	// SnapshotKeep is how many fetched snapshots survive pruning.
	SnapshotKeep int `yaml:"snapshot_keep"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultConfig returns the built-in defaults. The database lives under
// ~/.attendance unless the home directory cannot be found.
func DefaultConfig() *Config {
	def := attendance.DefaultRules()
	return &Config{
		API: taskapi.DefaultConfig(),
		Rules: RulesConfig{
			MissingEndHours: def.MissingEndAfter.Hours(),
			OvertimeHours:   def.OvertimeHours,
		},
		Store: StoreConfig{
			DBPath:       defaultDBPath(),
			SnapshotKeep: 10,
		},
		Timezone: "Local",
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "attendance.db"
	}
	return filepath.Join(home, UserConfigDir, "attendance.db")
}

// LoadFromFile overlays the YAML file at path onto c. Keys absent from the
// file keep their current values.
func (c *Config) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// Validate checks the final configuration.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.API.BaseURL) == "" {
		return fmt.Errorf("api.base_url is required")
	}
	if c.API.TimeoutMs <= 0 {
		return fmt.Errorf("api.timeout_ms must be positive, got %d", c.API.TimeoutMs)
	}
	if c.API.MaxRetries < 0 {
		return fmt.Errorf("api.max_retries cannot be negative, got %d", c.API.MaxRetries)
	}
	if c.Rules.MissingEndHours <= 0 {
		return fmt.Errorf("rules.missing_end_hours must be positive, got %v", c.Rules.MissingEndHours)
	}
	if c.Rules.OvertimeHours <= 0 {
		return fmt.Errorf("rules.overtime_hours must be positive, got %v", c.Rules.OvertimeHours)
	}
	if c.Store.DBPath == "" {
		return fmt.Errorf("store.db_path is required")
	}
	if c.Store.SnapshotKeep < 1 {
		return fmt.Errorf("store.snapshot_keep must be at least 1, got %d", c.Store.SnapshotKeep)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}

// Location resolves the configured time zone. "Local" and the empty string
// mean the process zone.
func (c *Config) Location() (*time.Location, error) {
	switch c.Timezone {
	case "", "Local", "local":
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// DetectionRules converts the hour thresholds into attendance.Rules.
func (c *Config) DetectionRules() attendance.Rules {
	return attendance.Rules{
		MissingEndAfter: time.Duration(c.Rules.MissingEndHours * float64(time.Hour)),
		OvertimeHours:   c.Rules.OvertimeHours,
	}
}

// ParseLevel maps a level name to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}
