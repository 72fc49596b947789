package config

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nibzard/todos-go/internal/todo"
)

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// Default values.
const (
	DefaultPreset    = string(todo.PresetCapped)
	DefaultLogDir    = "~/.todos/logs"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// Config holds the full configuration for todos.
type Config struct {
	// Limits
	Preset        string `toml:"preset"`
	MaxNameLength int    `toml:"max_name_length"` // 0 keeps the preset value
	MaxTaskCount  int    `toml:"max_task_count"`  // 0 keeps the preset value

	// Seed file loaded at start-up
	SeedFile string `toml:"seed_file"`

	// UI
	StartOpen bool `toml:"start_open"`

	// Logging configuration
	LogDir        string `toml:"log_dir"`
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`

	// Working directory (computed)
	ProjectRoot string `toml:"-"`

	// Sources records where each field was last set from, keyed by TOML name.
	Sources map[string]ConfigSource `toml:"-"`
}

// configFields returns the list of configurable field names for source tracking.
func configFields() []string {
	return []string{
		"preset",
		"max_name_length",
		"max_task_count",
		"seed_file",
		"start_open",
		"log_dir",
		"log_level",
		"log_format",
		"log_timestamps",
		"log_caller",
	}
}

// Limits resolves the preset and explicit overrides into task limits.
// An explicit name length turns off width-based adaptation.
func (c *Config) Limits() todo.Limits {
	preset, err := todo.ParsePreset(c.Preset)
	if err != nil {
		preset = todo.Preset(DefaultPreset)
	}
	limits := todo.PresetLimits(preset)
	if c.MaxNameLength > 0 {
		limits.MaxNameLength = c.MaxNameLength
		limits.Adaptive = false
	}
	if c.MaxTaskCount > 0 {
		limits.MaxTaskCount = c.MaxTaskCount
	}
	return limits
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if _, err := todo.ParsePreset(c.Preset); err != nil {
		return fmt.Errorf("preset: %w", err)
	}
	if c.MaxNameLength < 0 {
		return fmt.Errorf("max_name_length: must not be negative, got %d", c.MaxNameLength)
	}
	if c.MaxTaskCount < 0 {
		return fmt.Errorf("max_task_count: must not be negative, got %d", c.MaxTaskCount)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json", "logfmt":
	default:
		return fmt.Errorf("log_format: unknown format %q, must be one of: text, json, logfmt", c.LogFormat)
	}
	return c.Limits().Validate()
}

// Source returns where the named field was set from.
func (c *Config) Source(field string) ConfigSource {
	if s, ok := c.Sources[field]; ok {
		return s
	}
	return SourceDefault
}

func (c *Config) setSource(field string, source ConfigSource) {
	if c.Sources == nil {
		c.Sources = make(map[string]ConfigSource)
	}
	c.Sources[field] = source
}
