// Package cmd implements the CLI command structure for todos.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/nibzard/todos-go/internal/config"
	"github.com/nibzard/todos-go/internal/logging"
	"github.com/nibzard/todos-go/internal/todo"
	"github.com/nibzard/todos-go/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Standard streams, replaced in tests.
var (
	stdin  io.Reader = os.Stdin
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// Run executes the todos CLI.
func Run(ctx context.Context, args []string) error {
	// Create a flag set for global options
	fs := flag.NewFlagSet("todos", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		printUsage(fs, stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	// Global flags
	cfg, err := config.Load(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if *help {
		printUsage(fs, stdout)
		return nil
	}
	if *showVersion {
		return versionCommand()
	}

	// Determine the subcommand
	// If no args or first arg is a flag, use "tui" as default
	subcommand := "tui"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 && !strings.HasPrefix(remainingArgs[0], "-") {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}

	switch subcommand {
	case "tui":
		return tuiCommand(ctx, cfg, remainingArgs)
	case "play":
		return playCommand(ctx, cfg, remainingArgs)
	case "ls":
		return lsCommand(cfg, remainingArgs)
	case "doctor":
		return doctorCommand(cfg, remainingArgs)
	case "tail":
		return tailCommand(ctx, cfg, remainingArgs)
	case "config":
		return configCommand(cfg, remainingArgs)
	case "schema":
		return schemaCommand(remainingArgs)
	case "version":
		return versionCommand()
	case "help":
		printUsage(fs, stdout)
		return nil
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// tuiCommand launches the interactive TUI.
func tuiCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("todos tui", flag.ContinueOnError)
	fs.SetOutput(stderr)
	open := fs.Bool("open", cfg.StartOpen, "Start with the task panel expanded")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	session, err := openSession(cfg)
	if err != nil {
		return err
	}
	defer session.Close()

	store, err := newStore(cfg, session)
	if err != nil {
		return err
	}

	logger := session.Logger()
	logger.Info("tui started", "limits", store.Limits().String(), "tasks", store.Len())
	err = ui.RunTUI(ctx, store, ui.WithStartOpen(*open), ui.WithLogger(logger))
	logger.Info("tui stopped", "tasks", store.Len(), "remaining", store.RemainingCount())
	return err
}

// playCommand drives the store from a command script.
func playCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("todos play", flag.ContinueOnError)
	fs.SetOutput(stderr)
	echo := fs.Bool("echo", false, "Print each command before its output")
	export := fs.String("export", "", "Write the final list to this file (.json, .yaml or .yml)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	remaining := fs.Args()
	if len(remaining) > 1 {
		return fmt.Errorf("unexpected arguments: %v", remaining[1:])
	}

	var in io.Reader = stdin
	source := "stdin"
	if len(remaining) == 1 && remaining[0] != "-" {
		f, err := os.Open(remaining[0])
		if err != nil {
			return fmt.Errorf("opening script: %w", err)
		}
		defer f.Close()
		in = f
		source = remaining[0]
	}

	session, err := openSession(cfg)
	if err != nil {
		return err
	}
	defer session.Close()

	store, err := newStore(cfg, session)
	if err != nil {
		return err
	}

	logger := session.Logger()
	logger.Info("script started", "source", source, "limits", store.Limits().String())
	if err := ui.RunScript(ctx, store, in, stdout, ui.ScriptOptions{Echo: *echo, Logger: logger}); err != nil {
		logger.Error("script failed", "err", err)
		return err
	}

	if *export != "" {
		if err := store.Snapshot().Save(*export); err != nil {
			return fmt.Errorf("exporting tasks: %w", err)
		}
		logger.Info("tasks exported", "path", *export, "tasks", store.Len())
	}
	return nil
}

// lsCommand prints the tasks of a seed file.
func lsCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("todos ls", flag.ContinueOnError)
	fs.SetOutput(stderr)
	filterArg := fs.String("filter", "", "Filter (all|active|completed)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	remaining := fs.Args()
	if len(remaining) > 2 {
		return fmt.Errorf("unexpected arguments: %v", remaining[2:])
	}
	if len(remaining) >= 1 && *filterArg == "" {
		if _, err := todo.ParseFilter(remaining[0]); err == nil {
			*filterArg = remaining[0]
			remaining = remaining[1:]
		}
	}
	if len(remaining) > 1 {
		return fmt.Errorf("unexpected arguments: %v", remaining[1:])
	}

	filter, err := todo.ParseFilter(*filterArg)
	if err != nil {
		return err
	}

	seed := cfg.SeedFile
	if len(remaining) == 1 {
		seed = remaining[0]
	}
	if seed == "" {
		return fmt.Errorf("no seed file: pass a path or set seed_file")
	}

	limits := cfg.Limits()
	file, err := todo.LoadSeed(seed, limits)
	if err != nil {
		return fmt.Errorf("loading seed file: %w", err)
	}

	store := todo.NewStore(limits, todo.WithTasks(file.Tasks))
	store.SetFilter(filter)
	return ui.Render(stdout, store)
}

// doctorCommand checks configuration, the log directory and the seed file.
func doctorCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("todos doctor", flag.ContinueOnError)
	fs.SetOutput(stderr)
	schemaPath := fs.String("schema", "", "Validate the seed file against this schema instead of the built-in one")
	if err := fs.Parse(args); err != nil {
		return err
	}
	remaining := fs.Args()
	if len(remaining) > 1 {
		return fmt.Errorf("unexpected arguments: %v", remaining[1:])
	}

	seed := cfg.SeedFile
	if len(remaining) == 1 {
		seed = remaining[0]
	}

	ok := true
	fmt.Fprintln(stdout, "todos doctor")
	fmt.Fprintln(stdout)

	configFile := config.ConfigFile()
	if configFile == "" {
		configFile = "(none, using defaults)"
	}
	fmt.Fprintf(stdout, "Config file: %s\n", configFile)

	limits := cfg.Limits()
	fmt.Fprintf(stdout, "Limits:      %s (preset %s)\n", limits, cfg.Preset)

	if err := os.MkdirAll(cfg.LogDir, 0755); err != nil {
		fmt.Fprintf(stdout, "[FAIL] log dir %s: %v\n", cfg.LogDir, err)
		ok = false
	} else {
		fmt.Fprintf(stdout, "[OK]   log dir %s\n", cfg.LogDir)
	}

	if seed == "" {
		fmt.Fprintln(stdout, "[SKIP] no seed file configured")
	} else if !checkSeed(seed, *schemaPath, limits) {
		ok = false
	}

	if !ok {
		return fmt.Errorf("doctor checks failed")
	}
	return nil
}

func checkSeed(path, schemaPath string, limits todo.Limits) bool {
	file, err := todo.Load(path)
	if err != nil {
		fmt.Fprintf(stdout, "[FAIL] seed file %s: %v\n", path, err)
		return false
	}
	result := file.Validate(todo.ValidationOptions{SchemaPath: schemaPath, Limits: &limits})
	for _, w := range result.Warnings {
		fmt.Fprintf(stdout, "[WARN] %s\n", w)
	}
	if !result.Valid {
		fmt.Fprintf(stdout, "[FAIL] seed file %s\n", path)
		for _, e := range result.Errors {
			fmt.Fprintf(stdout, "       %v\n", e)
		}
		return false
	}
	mode := "schema"
	if !result.UsedSchema {
		mode = "minimal checks"
	}
	fmt.Fprintf(stdout, "[OK]   seed file %s (%d tasks, %s)\n", path, len(file.Tasks), mode)
	return true
}

// tailCommand tails the latest session log.
func tailCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("todos tail", flag.ContinueOnError)
	fs.SetOutput(stderr)
	follow := fs.Bool("f", false, "Follow the log (like tail -f)")
	fs.BoolVar(follow, "follow", false, "Follow the log (like tail -f)")
	n := fs.Int("n", 0, "Number of lines to show (0 = all)")
	list := fs.Bool("list", false, "List session logs instead of tailing")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *list {
		sessions, err := logging.FindSessions(cfg.LogDir)
		if err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("listing logs: %w", err)
		}
		if len(sessions) == 0 {
			fmt.Fprintln(stdout, "No log files found.")
			return nil
		}
		for _, s := range sessions {
			fmt.Fprintf(stdout, "%s  %s  %d bytes\n", s.ModTime.Format("2006-01-02 15:04:05"), s.Name, s.Size)
		}
		return nil
	}

	logPath, err := logging.FindLatestLog(cfg.LogDir)
	if err != nil {
		return fmt.Errorf("finding latest log: %w", err)
	}
	if logPath == "" {
		fmt.Fprintln(stdout, "No log files found.")
		return nil
	}

	fmt.Fprintf(stdout, "Tailing: %s\n", logPath)
	if *follow {
		fmt.Fprintln(stdout, "(Ctrl+C to stop)")
	}
	fmt.Fprintln(stdout)

	return logging.TailLog(ctx, stdout, logPath, *n, *follow)
}

// configCommand prints the effective configuration.
func configCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("todos config", flag.ContinueOnError)
	fs.SetOutput(stderr)
	example := fs.Bool("example", false, "Print a commented example config file")
	sources := fs.Bool("sources", false, "Show where each value came from")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *example {
		fmt.Fprint(stdout, config.ExampleConfig())
		return nil
	}
	if err := cfg.Encode(stdout); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if *sources {
		fmt.Fprintln(stdout)
		fields := make([]string, 0, len(cfg.Sources))
		for field := range cfg.Sources {
			fields = append(fields, field)
		}
		sort.Strings(fields)
		for _, field := range fields {
			fmt.Fprintf(stdout, "# %s: %s\n", field, cfg.Source(field))
		}
	}
	return nil
}

// schemaCommand prints the built-in seed file schema, a starting point
// for doctor -schema.
func schemaCommand(args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments: %v", args)
	}
	_, err := io.WriteString(stdout, todo.SeedSchema())
	return err
}

func versionCommand() error {
	fmt.Fprintf(stdout, "todos version %s\n", Version)
	return nil
}

// openSession opens the per-session log file.
func openSession(cfg *config.Config) (*logging.SessionLogger, error) {
	session, err := logging.NewSessionLogger(cfg.LogDir, logging.Options{
		Level:      cfg.LogLevel,
		Format:     cfg.LogFormat,
		Timestamps: cfg.LogTimestamps,
		Caller:     cfg.LogCaller,
		Prefix:     "todos",
	})
	if err != nil {
		return nil, fmt.Errorf("opening session log: %w", err)
	}
	return session, nil
}

// newStore builds the store from the configured limits and seed file.
func newStore(cfg *config.Config, session *logging.SessionLogger) (*todo.Store, error) {
	limits := cfg.Limits()
	opts := []todo.StoreOption{todo.WithLogger(session.Logger())}

	if cfg.SeedFile != "" {
		file, err := todo.LoadSeed(cfg.SeedFile, limits)
		if err != nil {
			return nil, fmt.Errorf("loading seed file: %w", err)
		}
		opts = append(opts, todo.WithTasks(file.Tasks))
		session.Logger().Info("seed loaded", "path", cfg.SeedFile, "tasks", len(file.Tasks))
	}
	return todo.NewStore(limits, opts...), nil
}

func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "todos - a small, capped to-do list for the terminal")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  todos [options] [command]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  tui              Launch the terminal UI (default command)")
	fmt.Fprintln(w, "  play [file]      Run a command script from file or stdin")
	fmt.Fprintln(w, "  ls [filter] [file]  List the tasks of a seed file")
	fmt.Fprintln(w, "  doctor [file]    Check config, log dir and seed file")
	fmt.Fprintln(w, "  tail             Tail the latest session log")
	fmt.Fprintln(w, "  config           Print the effective configuration")
	fmt.Fprintln(w, "  schema           Print the built-in seed file schema")
	fmt.Fprintln(w, "  version          Show version information")
	fmt.Fprintln(w, "  help             Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fs.SetOutput(stderr)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Play Options (use with 'play' command):")
	fmt.Fprintln(w, "  -echo")
	fmt.Fprintln(w, "        Print each command before its output")
	fmt.Fprintln(w, "  -export string")
	fmt.Fprintln(w, "        Write the final list to this file (.json, .yaml or .yml)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Script commands:")
	fmt.Fprintln(w, "  add <text>, toggle <n>, rm <n>, filter <all|active|completed>,")
	fmt.Fprintln(w, "  clear, show, export [json|yaml]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Tail Options (use with 'tail' command):")
	fmt.Fprintln(w, "  -f, -follow")
	fmt.Fprintln(w, "        Follow the log (like tail -f)")
	fmt.Fprintln(w, "  -n int")
	fmt.Fprintln(w, "        Number of lines to show (0 = all)")
	fmt.Fprintln(w, "  -list")
	fmt.Fprintln(w, "        List session logs instead of tailing")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Config Options (use with 'config' command):")
	fmt.Fprintln(w, "  -example")
	fmt.Fprintln(w, "        Print a commented example config file")
	fmt.Fprintln(w, "  -sources")
	fmt.Fprintln(w, "        Show where each value came from")
}
