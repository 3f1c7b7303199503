package server

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultRoom is the room every session starts in. Rooms are free-form
// strings with no managed lifecycle; a room "exists" while at least one
// session's room field matches it.
const DefaultRoom = "general"

// Config holds server configuration.
type Config struct {
	Addr         string        // TCP bind address (e.g. ":5000")
	DBPath       string        // SQLite database path
	EventLogPath string        // append-only event log path (empty = disabled)
	AdminName    string        // reserved administrator display name
	MetricsAddr  string        // HTTP bind address for /metrics (empty = disabled)
	TypingIdle   time.Duration // typing-indicator debounce window
	HistorySize  int           // per-user message history ring capacity
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Addr:         ":5000",
		DBPath:       "linechat.db",
		EventLogPath: "linechat_events.log",
		AdminName:    "admin",
		MetricsAddr:  ":5001",
		TypingIdle:   2 * time.Second,
		HistorySize:  10,
	}
}

// fileConfig is the on-disk YAML shape. Pointer fields distinguish an
// absent key from a zero value; typing_idle is a Go duration string.
type fileConfig struct {
	Addr        *string `yaml:"addr"`
	DBPath      *string `yaml:"db_path"`
	EventLog    *string `yaml:"event_log"`
	Admin       *string `yaml:"admin"`
	MetricsAddr *string `yaml:"metrics_addr"`
	TypingIdle  *string `yaml:"typing_idle"`
	HistorySize *int    `yaml:"history_size"`
}

// LoadConfigFile reads a YAML config file and overlays it on top of the
// given base config. Keys absent from the file keep their base value.
func LoadConfigFile(path string, base Config) (Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path from user-provided CLI flag
	if err != nil {
		return base, fmt.Errorf("server: read config: %w", err)
	}

	var file fileConfig
	if err := yaml.Unmarshal(data, &file); err != nil {
		return base, fmt.Errorf("server: parse config: %w", err)
	}

	cfg := base
	if file.Addr != nil {
		cfg.Addr = *file.Addr
	}
	if file.DBPath != nil {
		cfg.DBPath = *file.DBPath
	}
	if file.EventLog != nil {
		cfg.EventLogPath = *file.EventLog
	}
	if file.Admin != nil {
		cfg.AdminName = *file.Admin
	}
	if file.MetricsAddr != nil {
		cfg.MetricsAddr = *file.MetricsAddr
	}
	if file.TypingIdle != nil {
		d, err := time.ParseDuration(*file.TypingIdle)
		if err != nil || d <= 0 {
			return base, fmt.Errorf("server: parse config: invalid typing_idle %q", *file.TypingIdle)
		}
		cfg.TypingIdle = d
	}
	if file.HistorySize != nil {
		if *file.HistorySize <= 0 {
			return base, fmt.Errorf("server: parse config: invalid history_size %d", *file.HistorySize)
		}
		cfg.HistorySize = *file.HistorySize
	}
	return cfg, nil
}
