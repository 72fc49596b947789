package ui

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/charmbracelet/log"

	"github.com/nibzard/todos-go/internal/todo"
)

// ScriptOptions configures RunScript.
type ScriptOptions struct {
	// Echo prints each command before its output.
	Echo bool
	// Logger receives one entry per command. Nil discards.
	Logger *log.Logger
}

// ScriptError reports a malformed script line.
type ScriptError struct {
	Line int
	Text string
	Err  error
}

func (e *ScriptError) Error() string {
	if e.Text == "" {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("line %d: %q: %v", e.Line, e.Text, e.Err)
}

func (e *ScriptError) Unwrap() error {
	return e.Err
}

// ErrUnknownCommand is returned for a script verb that does not exist.
var ErrUnknownCommand = errors.New("unknown command")

// RunScript reads one command per line from r, applies it to store and
// writes the results to w. Rejected adds and bad positions produce warnings
// and the script continues; malformed lines stop it with a *ScriptError.
//
// Commands:
//
//	add <text>       add a task
//	toggle <n>       toggle the nth visible task
//	rm <n>           remove the nth visible task
//	filter <name>    all, active or completed
//	clear            clear completed tasks
//	show             print the visible list
//	export [format]  print the list as a seed file (json or yaml)
//
// Blank lines and lines starting with # are skipped.
func RunScript(ctx context.Context, store *todo.Store, r io.Reader, w io.Writer, opts ScriptOptions) error {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if opts.Echo {
			fmt.Fprintf(w, "> %s\n", line)
		}

		verb, arg := splitCommand(line)
		logger.Debug("script command", "line", lineNo, "verb", verb)

		if err := runCommand(store, w, strings.ToLower(verb), arg); err != nil {
			return &ScriptError{Line: lineNo, Text: line, Err: err}
		}
	}
	if err := scanner.Err(); err != nil {
		return &ScriptError{Line: lineNo + 1, Err: err}
	}
	return nil
}

// splitCommand splits a line at its first run of whitespace.
func splitCommand(line string) (verb, arg string) {
	i := strings.IndexFunc(line, unicode.IsSpace)
	if i < 0 {
		return line, ""
	}
	return line[:i], strings.TrimSpace(line[i:])
}

func runCommand(store *todo.Store, w io.Writer, verb, arg string) error {
	switch verb {
	case "add":
		task, err := store.AddTask(arg)
		switch {
		case err == nil:
			fmt.Fprintf(w, "added: %s\n", task.Name)
		case errors.Is(err, todo.ErrEmptyName):
		case errors.Is(err, todo.ErrLimitReached):
			warn(w, "%s A maximum of %d tasks can be placed.", LimitMessage, store.Limits().MaxTaskCount)
		default:
			warn(w, "%v", err)
		}
	case "toggle", "rm":
		task, ok, err := visibleAt(store, arg)
		if err != nil {
			return err
		}
		if !ok {
			warn(w, "no visible task at position %s", arg)
			return nil
		}
		if verb == "rm" {
			store.RemoveTask(task.ID)
			fmt.Fprintf(w, "removed: %s\n", task.Name)
			return nil
		}
		if err := store.ToggleComplete(task.ID); err != nil {
			return err
		}
		state := "active"
		if !task.Completed {
			state = "completed"
		}
		fmt.Fprintf(w, "%s: %s\n", state, task.Name)
	case "filter":
		f, err := todo.ParseFilter(arg)
		if err != nil {
			return err
		}
		store.SetFilter(f)
		fmt.Fprintf(w, "filter: %s\n", f.Label())
	case "clear":
		fmt.Fprintf(w, "cleared: %d\n", store.ClearCompleted())
	case "show":
		return Render(w, store)
	case "export":
		format, err := todo.ParseFormat(arg)
		if err != nil {
			return err
		}
		data, err := store.Snapshot().Encode(format)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	default:
		return fmt.Errorf("%w %q", ErrUnknownCommand, verb)
	}
	return nil
}

// visibleAt resolves a 1-based position in the visible list.
func visibleAt(store *todo.Store, arg string) (todo.Task, bool, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return todo.Task{}, false, fmt.Errorf("position must be a number, got %q", arg)
	}
	visible := store.VisibleTasks()
	if n < 1 || n > len(visible) {
		return todo.Task{}, false, nil
	}
	return visible[n-1], true, nil
}

func warn(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "warning: "+format+"\n", args...)
}

// Render writes the visible list, the limit notice and the counter as plain text.
func Render(w io.Writer, store *todo.Store) error {
	var b strings.Builder
	visible := store.VisibleTasks()
	if len(visible) == 0 {
		b.WriteString(EmptyMessage + "\n")
	}
	for i, t := range visible {
		check := " "
		if t.Completed {
			check = "x"
		}
		fmt.Fprintf(&b, "%d. [%s] %s\n", i+1, check, t.Name)
	}
	if store.LimitReached() {
		b.WriteString(LimitMessage + "\n")
	}
	fmt.Fprintf(&b, "%s | filter: %s\n", remainingLabel(store.RemainingCount()), store.Filter().Label())
	_, err := io.WriteString(w, b.String())
	return err
}
