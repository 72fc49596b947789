package config

import (
	"os"
	"strconv"
	"strings"
)

// loadFromEnv overrides config from TODOS_* environment variables.
// Malformed numbers are ignored.
func loadFromEnv(cfg *Config) {
	setEnv := func(field string) {
		cfg.setSource(field, SourceEnv)
	}

	if v := os.Getenv("TODOS_PRESET"); v != "" {
		cfg.Preset = v
		setEnv("preset")
	}
	if v := os.Getenv("TODOS_MAX_NAME_LENGTH"); v != "" {
		if i, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			cfg.MaxNameLength = i
			setEnv("max_name_length")
		}
	}
	if v := os.Getenv("TODOS_MAX_TASKS"); v != "" {
		if i, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			cfg.MaxTaskCount = i
			setEnv("max_task_count")
		}
	}
	if v := os.Getenv("TODOS_SEED"); v != "" {
		cfg.SeedFile = v
		setEnv("seed_file")
	}
	if v := os.Getenv("TODOS_START_OPEN"); v != "" {
		cfg.StartOpen = boolFromString(v)
		setEnv("start_open")
	}

	// Logging configuration
	if v := os.Getenv("TODOS_LOG_DIR"); v != "" {
		cfg.LogDir = v
		setEnv("log_dir")
	}
	if v := os.Getenv("TODOS_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
		setEnv("log_level")
	}
	if v := os.Getenv("TODOS_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
		setEnv("log_format")
	}
	if v := os.Getenv("TODOS_LOG_TIMESTAMPS"); v != "" {
		cfg.LogTimestamps = boolFromString(v)
		setEnv("log_timestamps")
	}
	if v := os.Getenv("TODOS_LOG_CALLER"); v != "" {
		cfg.LogCaller = boolFromString(v)
		setEnv("log_caller")
	}
}

func boolFromString(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
