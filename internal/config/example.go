package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# todos configuration file
# Values can be overridden by TODOS_* environment variables or CLI flags

# Limit preset:
#   capped   - names up to 30 characters, at most 4 tasks
#   open     - names up to 100 characters, no task cap
#   adaptive - no task cap, 50 characters below 80 columns, else 100
preset = "capped"

# Explicit overrides (0 keeps the preset value)
max_name_length = 0
max_task_count = 0

# JSON file of tasks to preload at start-up (never written back)
# seed_file = "tasks.json"

# Start with the task panel expanded
start_open = false

# Session logs (supports ~ expansion and %VAR% on Windows)
log_dir = "~/.todos/logs"
log_level = "info"      # debug, info, warn, error
log_format = "text"     # text, json, logfmt
log_timestamps = false
log_caller = false
`
}
