package config

import (
	"flag"
)

// flagToSource maps flag names to config field names.
var flagToSource = map[string]string{
	"preset":          "preset",
	"max-name-length": "max_name_length",
	"max-tasks":       "max_task_count",
	"seed":            "seed_file",
	"open":            "start_open",
	"log-dir":         "log_dir",
	"log-level":       "log_level",
	"log-format":      "log_format",
	"log-timestamps":  "log_timestamps",
	"log-caller":      "log_caller",
}

// parseFlags defines and parses CLI flags, binding them directly to cfg.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string) error {
	if fs == nil {
		fs = flag.NewFlagSet(appName, flag.ContinueOnError)
	}

	// Limits
	fs.StringVar(&cfg.Preset, "preset", cfg.Preset, "Limit preset (capped, open, adaptive)")
	fs.IntVar(&cfg.MaxNameLength, "max-name-length", cfg.MaxNameLength, "Maximum task name length (0 = preset default)")
	fs.IntVar(&cfg.MaxTaskCount, "max-tasks", cfg.MaxTaskCount, "Maximum number of tasks (0 = preset default)")

	// Seed and UI
	fs.StringVar(&cfg.SeedFile, "seed", cfg.SeedFile, "JSON file of tasks to preload")
	fs.BoolVar(&cfg.StartOpen, "open", cfg.StartOpen, "Start with the task panel expanded")

	// Logging
	fs.StringVar(&cfg.LogDir, "log-dir", cfg.LogDir, "Log directory")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text, json, logfmt)")
	fs.BoolVar(&cfg.LogTimestamps, "log-timestamps", cfg.LogTimestamps, "Show timestamps in logs")
	fs.BoolVar(&cfg.LogCaller, "log-caller", cfg.LogCaller, "Show caller location in logs")

	if err := fs.Parse(args); err != nil {
		return err
	}

	fs.Visit(func(f *flag.Flag) {
		if field, ok := flagToSource[f.Name]; ok {
			cfg.setSource(field, SourceFlag)
		}
	})
	return nil
}
