package todo

import (
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/log"
)

// Store holds the ordered task list and the active filter.
// It is not safe for concurrent use; a single UI loop owns it.
type Store struct {
	limits       Limits
	tasks        []Task
	filter       Filter
	limitReached bool
	lastID       int64
	now          func() time.Time
	logger       *log.Logger
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithLogger sets the logger used for mutation and rejection events.
func WithLogger(logger *log.Logger) StoreOption {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock sets the time source used for task IDs and timestamps.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithTasks preloads tasks in the given order.
// Tasks with a zero ID are assigned a fresh one.
func WithTasks(tasks []Task) StoreOption {
	return func(s *Store) {
		for _, t := range tasks {
			if t.ID > s.lastID {
				s.lastID = t.ID
			}
		}
		for _, t := range tasks {
			if t.IsZero() {
				t.ID = s.nextID()
			}
			s.tasks = append(s.tasks, t)
		}
	}
}

// NewStore creates an empty store with the given limits and filter "all".
func NewStore(limits Limits, opts ...StoreOption) *Store {
	s := &Store{
		limits: limits,
		filter: FilterAll,
		now:    time.Now,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Limits returns the active limits.
func (s *Store) Limits() Limits {
	return s.limits
}

// SetMaxNameLength changes the name cap. Existing tasks are kept as they are.
func (s *Store) SetMaxNameLength(n int) {
	if n <= 0 || n == s.limits.MaxNameLength {
		return
	}
	s.logger.Debug("name limit changed", "from", s.limits.MaxNameLength, "to", n)
	s.limits.MaxNameLength = n
}

// CheckName validates text as a task name without adding it.
// It returns the trimmed name.
func (s *Store) CheckName(text string) (string, error) {
	name := strings.TrimSpace(text)
	if name == "" {
		return "", &ValidationError{Path: "name", Err: ErrEmptyName}
	}
	if n := utf8.RuneCountInString(name); n > s.limits.MaxNameLength {
		return "", &ValidationError{
			Path: "name",
			Err:  fmt.Errorf("%w: %d characters, maximum is %d", ErrNameTooLong, n, s.limits.MaxNameLength),
		}
	}
	return name, nil
}

// AddTask appends a new incomplete task named by the trimmed text.
// Empty text, text over the name cap and adds to a full list are rejected
// without changing the list; a full list also sets the limit-reached flag.
func (s *Store) AddTask(text string) (Task, error) {
	if s.limits.Bounded() && len(s.tasks) >= s.limits.MaxTaskCount {
		s.limitReached = true
		s.logger.Warn("add rejected", "reason", "limit", "max_tasks", s.limits.MaxTaskCount)
		return Task{}, &ValidationError{
			Path: "tasks",
			Err:  fmt.Errorf("%w: a maximum of %d tasks can be placed", ErrLimitReached, s.limits.MaxTaskCount),
		}
	}

	name, err := s.CheckName(text)
	if err != nil {
		s.logger.Warn("add rejected", "reason", err)
		return Task{}, err
	}

	created := s.now().UTC()
	task := Task{
		ID:        s.nextID(),
		Name:      name,
		CreatedAt: &created,
	}
	s.tasks = append(s.tasks, task)
	s.limitReached = false
	s.logger.Debug("task added", "id", task.ID, "name", task.Name, "count", len(s.tasks))
	return task, nil
}

// ToggleComplete flips the completed flag of the task with id.
func (s *Store) ToggleComplete(id int64) error {
	i := s.index(id)
	if i < 0 {
		return fmt.Errorf("toggle %d: %w", id, ErrTaskNotFound)
	}
	s.tasks[i].Completed = !s.tasks[i].Completed
	s.logger.Debug("task toggled", "id", id, "completed", s.tasks[i].Completed)
	return nil
}

// RemoveTask deletes the task with id. It reports whether a task was removed.
func (s *Store) RemoveTask(id int64) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	s.releaseLimit()
	s.logger.Debug("task removed", "id", id, "count", len(s.tasks))
	return true
}

// ClearCompleted removes every completed task and returns how many were removed.
func (s *Store) ClearCompleted() int {
	kept := s.tasks[:0]
	for _, t := range s.tasks {
		if !t.Completed {
			kept = append(kept, t)
		}
	}
	removed := len(s.tasks) - len(kept)
	for i := len(kept); i < len(s.tasks); i++ {
		s.tasks[i] = Task{}
	}
	s.tasks = kept
	if removed > 0 {
		s.releaseLimit()
		s.logger.Debug("completed tasks cleared", "removed", removed, "count", len(s.tasks))
	}
	return removed
}

// SetFilter sets the active filter.
func (s *Store) SetFilter(f Filter) {
	if f == "" {
		f = FilterAll
	}
	if f != s.filter {
		s.logger.Debug("filter changed", "filter", f)
	}
	s.filter = f
}

// Filter returns the active filter.
func (s *Store) Filter() Filter {
	return s.filter
}

// VisibleTasks returns the tasks matching the active filter in list order.
// The result is a copy.
func (s *Store) VisibleTasks() []Task {
	visible := make([]Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if s.filter.Match(t) {
			visible = append(visible, t)
		}
	}
	return visible
}

// RemainingCount returns the number of incomplete tasks.
func (s *Store) RemainingCount() int {
	n := 0
	for _, t := range s.tasks {
		if !t.Completed {
			n++
		}
	}
	return n
}

// LimitReached reports whether an add was rejected because the list is full
// and no removal has brought it back under capacity since.
func (s *Store) LimitReached() bool {
	return s.limitReached
}

// Tasks returns a copy of the full list.
func (s *Store) Tasks() []Task {
	out := make([]Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Len returns the number of tasks.
func (s *Store) Len() int {
	return len(s.tasks)
}

// Get returns the task with id.
func (s *Store) Get(id int64) (Task, bool) {
	i := s.index(id)
	if i < 0 {
		return Task{}, false
	}
	return s.tasks[i], true
}

// Snapshot returns the list as a seed file.
func (s *Store) Snapshot() *File {
	return &File{
		SchemaVersion: SchemaVersion,
		Tasks:         s.Tasks(),
	}
}

func (s *Store) index(id int64) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// nextID derives an ID from the clock in milliseconds, bumping past the last
// issued ID when two tasks land in the same millisecond.
func (s *Store) nextID() int64 {
	id := s.now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}

func (s *Store) releaseLimit() {
	if !s.limitReached {
		return
	}
	if !s.limits.Bounded() || len(s.tasks) < s.limits.MaxTaskCount {
		s.limitReached = false
		s.logger.Debug("limit released", "count", len(s.tasks))
	}
}
