// Package ui provides the terminal interface and a headless script runner.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/nibzard/todos-go/internal/todo"
	"github.com/nibzard/todos-go/internal/utils"
)

// LimitMessage is shown while the task cap blocks new tasks.
const LimitMessage = "Task limit reached!"

// EmptyMessage is shown when no task matches the active filter.
const EmptyMessage = "No tasks"

const placeholder = "What needs to be done?"

// TUIOption configures the TUI behavior.
type TUIOption func(*tuiConfig)

// tuiConfig holds TUI configuration.
type tuiConfig struct {
	startOpen bool
	logger    *log.Logger
}

// WithStartOpen expands the task panel on start.
func WithStartOpen(open bool) TUIOption {
	return func(c *tuiConfig) {
		c.startOpen = open
	}
}

// WithLogger sets the logger for UI events.
func WithLogger(logger *log.Logger) TUIOption {
	return func(c *tuiConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// RunTUI starts the TUI over store.
func RunTUI(ctx context.Context, store *todo.Store, opts ...TUIOption) error {
	if !utils.IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY; use `todos play` for scripted input")
	}

	model := newTUIModel(store, opts...)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	return nil
}

type focus int

const (
	focusInput focus = iota
	// focusDisabled is the input while the task cap blocks new tasks.
	// Keystrokes are dropped until esc moves to the list.
	focusDisabled
	focusList
)

type tuiModel struct {
	store  *todo.Store
	logger *log.Logger

	keys  keyMap
	help  help.Model
	input textinput.Model

	focus   focus
	open    bool
	cursor  int
	width   int
	warning string
}

func newTUIModel(store *todo.Store, opts ...TUIOption) *tuiModel {
	c := &tuiConfig{logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(c)
	}

	input := textinput.New()
	input.Placeholder = placeholder
	input.Prompt = "› "
	input.Focus()

	m := &tuiModel{
		store:  store,
		logger: c.logger,
		keys:   defaultKeyMap(),
		help:   help.New(),
		input:  input,
		focus:  focusInput,
		open:   c.startOpen,
	}
	m.syncFocus()
	return m
}

func (m *tuiModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width)
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.ForceQuit) {
			return m, tea.Quit
		}
		if key.Matches(msg, m.keys.Panel) {
			m.open = !m.open
			return m, nil
		}
		switch m.focus {
		case focusInput:
			cmd = m.updateInput(msg)
		case focusDisabled:
			m.updateDisabled(msg)
		default:
			cmd = m.updateList(msg)
		}
	}
	m.syncFocus()
	return m, cmd
}

func (m *tuiModel) updateInput(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Submit):
		m.submit()
		return nil
	case key.Matches(msg, m.keys.Leave):
		m.leaveInput()
		return nil
	case msg.Type == tea.KeyUp || msg.Type == tea.KeyDown:
		if m.open {
			m.moveCursor(msg.Type == tea.KeyDown)
		}
		return nil
	}

	prev := m.input.Value()
	prevPos := m.input.Position()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	// Only edits that grow the buffer past the limit are reverted, so a
	// buffer left over-long by a shrinking limit can still be shortened.
	limit := m.store.Limits().MaxNameLength
	if n := utf8.RuneCountInString(m.input.Value()); n > limit && n > utf8.RuneCountInString(prev) {
		m.input.SetValue(prev)
		m.input.SetCursor(prevPos)
		m.warning = fmt.Sprintf("Task names are limited to %d characters.", limit)
		m.logger.Warn("input rejected", "length", n, "max", limit)
		return cmd
	}
	if m.input.Value() != prev {
		m.warning = ""
	}
	return cmd
}

func (m *tuiModel) updateDisabled(msg tea.KeyMsg) {
	if key.Matches(msg, m.keys.Leave) {
		m.leaveInput()
	}
}

// leaveInput moves focus to the list and shows the panel it acts on.
func (m *tuiModel) leaveInput() {
	m.focus = focusList
	m.open = true
	m.input.Blur()
}

func (m *tuiModel) updateList(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return nil
	case key.Matches(msg, m.keys.Insert):
		if m.store.LimitReached() {
			m.warning = LimitMessage
			return nil
		}
		m.focus = focusInput
		return m.input.Focus()
	}

	// The remaining keys act on the list, which is hidden while the
	// panel is collapsed.
	if !m.open {
		return nil
	}
	switch {
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(false)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(true)
	case key.Matches(msg, m.keys.Toggle):
		if t, ok := m.selected(); ok {
			if err := m.store.ToggleComplete(t.ID); err != nil {
				m.warning = err.Error()
			}
		}
	case key.Matches(msg, m.keys.Delete):
		if t, ok := m.selected(); ok {
			m.store.RemoveTask(t.ID)
		}
	case key.Matches(msg, m.keys.All):
		m.store.SetFilter(todo.FilterAll)
	case key.Matches(msg, m.keys.Active):
		m.store.SetFilter(todo.FilterActive)
	case key.Matches(msg, m.keys.Completed):
		m.store.SetFilter(todo.FilterCompleted)
	case key.Matches(msg, m.keys.Clear):
		m.store.ClearCompleted()
	}
	return nil
}

// submit adds the buffer as a task. Empty input is ignored silently.
func (m *tuiModel) submit() {
	_, err := m.store.AddTask(m.input.Value())
	switch {
	case err == nil:
		m.input.Reset()
		m.warning = ""
	case errors.Is(err, todo.ErrEmptyName):
	case errors.Is(err, todo.ErrLimitReached):
		m.warning = fmt.Sprintf("A maximum of %d tasks can be placed!", m.store.Limits().MaxTaskCount)
	default:
		m.warning = err.Error()
	}
}

// syncFocus disables the input while the task cap blocks new tasks and
// keeps the cursor inside the visible list.
func (m *tuiModel) syncFocus() {
	if m.store.LimitReached() && m.focus == focusInput {
		m.focus = focusDisabled
		m.input.Blur()
	}
	if n := len(m.store.VisibleTasks()); m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *tuiModel) resize(width int) {
	m.width = width
	m.help.Width = width
	m.input.Width = max(width-8, 10)
	if m.store.Limits().Adaptive {
		m.store.SetMaxNameLength(todo.NameLengthForWidth(width))
	}
}

func (m *tuiModel) moveCursor(down bool) {
	n := len(m.store.VisibleTasks())
	if n == 0 {
		return
	}
	if down && m.cursor < n-1 {
		m.cursor++
	}
	if !down && m.cursor > 0 {
		m.cursor--
	}
}

func (m *tuiModel) selected() (todo.Task, bool) {
	visible := m.store.VisibleTasks()
	if m.cursor < 0 || m.cursor >= len(visible) {
		return todo.Task{}, false
	}
	return visible[m.cursor], true
}

func (m *tuiModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("todos") + "\n\n")

	arrow := "▸"
	if m.open {
		arrow = "▾"
	}
	b.WriteString(arrowStyle.Render(arrow) + " " + m.input.View() + "\n")

	if m.warning != "" {
		b.WriteString(warnStyle.Render(m.warning) + "\n")
	}

	if m.open {
		b.WriteString(panelStyle.Render(m.panelView()) + "\n")
	}

	var keys help.KeyMap = m.keys
	if m.focus != focusList {
		keys = inputKeyMap{m.keys}
	}
	b.WriteString(helpBarStyle.Render(m.help.View(keys)) + "\n")
	return b.String()
}

func (m *tuiModel) panelView() string {
	var b strings.Builder
	visible := m.store.VisibleTasks()
	if len(visible) == 0 {
		b.WriteString(mutedStyle.Render(EmptyMessage) + "\n")
	}
	for i, t := range visible {
		cursor := "  "
		if i == m.cursor && m.focus == focusList {
			cursor = cursorStyle.Render("> ")
		}
		check := "( )"
		name := t.Name
		if m.width > 0 {
			name = utils.Truncate(name, max(m.width-12, 10))
		}
		if t.Completed {
			check = checkStyle.Render("(✓)")
			name = doneStyle.Render(name)
		}
		b.WriteString(cursor + check + " " + name + "\n")
	}

	if m.store.LimitReached() {
		b.WriteString(limitStyle.Render(LimitMessage) + "\n")
	}

	b.WriteString("\n" + mutedStyle.Render(remainingLabel(m.store.RemainingCount())) + "  ")
	for _, f := range todo.Filters() {
		if f == m.store.Filter() {
			b.WriteString(activeFilter.Render(f.Label()))
		} else {
			b.WriteString(filterStyle.Render(f.Label()))
		}
	}
	b.WriteString("  " + mutedStyle.Render("Clear completed (C)"))
	return b.String()
}

func remainingLabel(n int) string {
	return fmt.Sprintf("%d items left", n)
}
