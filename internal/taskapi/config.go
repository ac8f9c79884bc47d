package taskapi

import (
	"os"
	"strconv"
	"strings"
)

// Config holds the connection settings for the task service.
type Config struct {
	BaseURL    string `yaml:"base_url"`
	TasksPath  string `yaml:"tasks_path"`
	Token      string `yaml:"token"`
	TimeoutMs  int    `yaml:"timeout_ms"`
	MaxRetries int    `yaml:"max_retries"`
}

// DefaultConfig points at a task service on localhost with no token.
func DefaultConfig() Config {
	return Config{
		BaseURL:    "http://localhost:5000",
		TasksPath:  "/api/tasks/",
		TimeoutMs:  10000,
		MaxRetries: 1,
	}
}

// ApplyEnv overrides cfg with any ATTENDANCE_API_* variables that are set.
// Malformed numbers are ignored.
func ApplyEnv(cfg *Config) {
	if v := os.Getenv("ATTENDANCE_API_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("ATTENDANCE_API_TOKEN"); v != "" {
		cfg.Token = v
	}
	if v := os.Getenv("ATTENDANCE_API_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TimeoutMs = n
		}
	}
	if v := os.Getenv("ATTENDANCE_API_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.MaxRetries = n
		}
	}
}

// TasksURL joins the base URL and the task list path.
func (c Config) TasksURL() string {
	path := c.TasksPath
	if path == "" {
		path = DefaultConfig().TasksPath
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return strings.TrimRight(c.BaseURL, "/") + path
}
