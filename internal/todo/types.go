package todo

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Task represents a single to-do item.
type Task struct {
	ID        int64      `json:"id" yaml:"id"`
	Name      string     `json:"name" yaml:"name"`
	Completed bool       `json:"completed" yaml:"completed"`
	CreatedAt *time.Time `json:"created_at,omitempty" yaml:"created_at,omitempty"`
}

// IsZero returns true if the task has no ID.
func (t *Task) IsZero() bool {
	return t.ID == 0
}

// Filter selects which tasks are visible.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterActive    Filter = "active"
	FilterCompleted Filter = "completed"
)

// Filters returns the filters in display order.
func Filters() []Filter {
	return []Filter{FilterAll, FilterActive, FilterCompleted}
}

// Match reports whether t is visible under f.
func (f Filter) Match(t Task) bool {
	switch f {
	case FilterActive:
		return !t.Completed
	case FilterCompleted:
		return t.Completed
	default:
		return true
	}
}

// Label returns the title-cased name shown in filter controls.
func (f Filter) Label() string {
	switch f {
	case FilterActive:
		return "Active"
	case FilterCompleted:
		return "Completed"
	default:
		return "All"
	}
}

// ParseFilter parses a filter name, ignoring case and surrounding space.
// An empty string yields FilterAll.
func ParseFilter(s string) (Filter, error) {
	switch Filter(strings.ToLower(strings.TrimSpace(s))) {
	case "", FilterAll:
		return FilterAll, nil
	case FilterActive:
		return FilterActive, nil
	case FilterCompleted, "done":
		return FilterCompleted, nil
	}
	return "", fmt.Errorf("%w %q, must be one of: all, active, completed", ErrUnknownFilter, s)
}

// Sentinel errors returned by Store operations.
var (
	ErrEmptyName     = errors.New("task name is empty")
	ErrNameTooLong   = errors.New("task name too long")
	ErrLimitReached  = errors.New("task limit reached")
	ErrTaskNotFound  = errors.New("task not found")
	ErrUnknownFilter = errors.New("unknown filter")
)

// ValidationError represents a validation error with context.
type ValidationError struct {
	Path string // field or JSON path the error refers to
	Err  error  // Underlying error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}
