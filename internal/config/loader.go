package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/alexanderramin/attendance/internal/taskapi"
)

const (
	// UserConfigDir is the directory for user-level config and data, under $HOME.
	UserConfigDir = ".attendance"
	// UserConfigFile is the name of the user-level config file.
	UserConfigFile = "config.yaml"
	// ConfigPathEnv names an explicit config file, replacing the user file.
	ConfigPathEnv = "ATTENDANCE_CONFIG"
)

// Loader handles configuration loading with layered precedence.
type Loader struct {
	logger *slog.Logger
}

func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// Load builds the configuration in layers:
// 1. DefaultConfig
// 2. the YAML file named by $ATTENDANCE_CONFIG, else ~/.attendance/config.yaml
// 3. ATTENDANCE_* environment variables
// and validates the result. A file named explicitly must exist.
func (l *Loader) Load() (*Config, error) {
	cfg := DefaultConfig()

	if path := os.Getenv(ConfigPathEnv); path != "" {
		if err := cfg.LoadFromFile(path); err != nil {
			return nil, err
		}
		l.logger.Debug("loaded config", slog.String("path", path))
	} else if path := l.userConfigPath(); path != "" {
		if err := cfg.LoadFromFile(path); err == nil {
			l.logger.Debug("loaded user config", slog.String("path", path))
		} else if !os.IsNotExist(err) {
			l.logger.Warn("failed to load user config", slog.String("path", path), slog.String("error", err.Error()))
		}
	}

	l.applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (l *Loader) userConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, UserConfigDir, UserConfigFile)
}

func (l *Loader) applyEnv(cfg *Config) {
	taskapi.ApplyEnv(&cfg.API)

	if v := os.Getenv("ATTENDANCE_DB"); v != "" {
		cfg.Store.DBPath = v
	}
	if v := os.Getenv("ATTENDANCE_TZ"); v != "" {
		cfg.Timezone = v
	}
	if v := os.Getenv("ATTENDANCE_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("ATTENDANCE_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	l.envFloat("ATTENDANCE_MISSING_END_HOURS", &cfg.Rules.MissingEndHours)
	l.envFloat("ATTENDANCE_OVERTIME_HOURS", &cfg.Rules.OvertimeHours)
	if v := os.Getenv("ATTENDANCE_SNAPSHOT_KEEP"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Store.SnapshotKeep = n
		} else {
			l.logger.Warn("ignoring malformed env var", slog.String("name", "ATTENDANCE_SNAPSHOT_KEEP"), slog.String("value", v))
		}
	}
}

func (l *Loader) envFloat(name string, dst *float64) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		l.logger.Warn("ignoring malformed env var", slog.String("name", name), slog.String("value", v))
		return
	}
	*dst = f
}
