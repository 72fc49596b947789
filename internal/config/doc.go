// Package config handles configuration loading and defaults.
//
// Configuration is loaded from multiple sources in priority order:
// 1. Built-in defaults
// 2. User config file (~/.todos/todos.toml or OS-specific config directory)
// 3. Project config file (todos.toml or .todos.toml in the working directory)
// 4. Environment variables (TODOS_*)
// 5. CLI flags
//
// Each level overrides the previous one, so CLI flags take precedence.
//
// User-level config locations:
// - ~/.todos/todos.toml (preferred)
// - Windows: %APPDATA%\todos\todos.toml
// - macOS: ~/Library/Application Support/todos/todos.toml
// - Linux/BSD: $XDG_CONFIG_HOME/todos/todos.toml or ~/.config/todos/todos.toml
//
// Task limits come from a preset (capped, open, adaptive) with optional
// max_name_length and max_task_count overrides; see Config.Limits.
package config
