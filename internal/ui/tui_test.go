package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"

	"github.com/nibzard/todos-go/internal/todo"
)

func typeText(m *tuiModel, s string) {
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func press(m *tuiModel, k tea.KeyType) tea.Cmd {
	_, cmd := m.Update(tea.KeyMsg{Type: k})
	return cmd
}

func pressRune(m *tuiModel, r rune) tea.Cmd {
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	return cmd
}

func addViaInput(t *testing.T, m *tuiModel, name string) {
	t.Helper()
	typeText(m, name)
	press(m, tea.KeyEnter)
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestSubmitAddsTask(t *testing.T) {
	store := todo.NewStore(todo.CappedLimits())
	m := newTUIModel(store)

	addViaInput(t, m, "Buy milk")

	if store.Len() != 1 || store.Tasks()[0].Name != "Buy milk" {
		t.Fatalf("tasks = %+v", store.Tasks())
	}
	if m.input.Value() != "" {
		t.Errorf("input should be cleared after add, got %q", m.input.Value())
	}
}

func TestSubmitEmptyIsIgnored(t *testing.T) {
	store := todo.NewStore(todo.CappedLimits())
	m := newTUIModel(store)

	press(m, tea.KeyEnter)
	addViaInput(t, m, "   ")

	if store.Len() != 0 {
		t.Fatalf("empty submissions should not add, got %d tasks", store.Len())
	}
	if m.warning != "" {
		t.Errorf("empty submissions are silent, got warning %q", m.warning)
	}
}

func TestKeystrokeGuard(t *testing.T) {
	store := todo.NewStore(todo.CappedLimits())
	m := newTUIModel(store)

	full := strings.Repeat("a", todo.CompactNameLength)
	typeText(m, full)
	if m.input.Value() != full {
		t.Fatalf("input = %q, want %d characters", m.input.Value(), todo.CompactNameLength)
	}

	typeText(m, "b")
	if m.input.Value() != full {
		t.Errorf("keystroke past the limit should be reverted, input = %q", m.input.Value())
	}
	if !strings.Contains(m.warning, "30") {
		t.Errorf("expected length warning, got %q", m.warning)
	}

	press(m, tea.KeyEnter)
	if store.Len() != 1 {
		t.Fatalf("name at the limit should be accepted, got %d tasks", store.Len())
	}
	if m.warning != "" {
		t.Errorf("warning should clear after a successful add, got %q", m.warning)
	}
}

func TestPasteOverLimitIsReverted(t *testing.T) {
	store := todo.NewStore(todo.CappedLimits())
	m := newTUIModel(store)

	typeText(m, "short")
	typeText(m, strings.Repeat("x", 40))
	if m.input.Value() != "short" {
		t.Errorf("input = %q, want unchanged", m.input.Value())
	}
}

func TestLimitDisablesInput(t *testing.T) {
	store := todo.NewStore(todo.CappedLimits())
	m := newTUIModel(store, WithStartOpen(true))

	for _, name := range []string{"one", "two", "three", "four"} {
		addViaInput(t, m, name)
	}
	if m.focus != focusInput {
		t.Fatal("input should stay enabled until an add is rejected")
	}

	addViaInput(t, m, "five")
	if store.Len() != 4 {
		t.Fatalf("fifth task should be rejected, got %d tasks", store.Len())
	}
	if !store.LimitReached() {
		t.Fatal("limit flag should be set")
	}
	if m.focus != focusDisabled || m.input.Focused() {
		t.Error("input should be disabled while the limit is reached")
	}
	if !strings.Contains(m.View(), LimitMessage) {
		t.Errorf("view should show %q", LimitMessage)
	}

	pressRune(m, 'i')
	if m.focus != focusDisabled {
		t.Error("input cannot be focused while the limit is reached")
	}

	press(m, tea.KeyEsc)
	if m.focus != focusList {
		t.Fatal("esc should move focus to the list")
	}
	pressRune(m, 'i')
	if m.focus != focusList || !strings.Contains(m.warning, LimitMessage) {
		t.Errorf("insert should be refused at the limit, focus=%d warning=%q", m.focus, m.warning)
	}

	pressRune(m, 'd')
	if store.Len() != 3 || store.LimitReached() {
		t.Fatalf("delete should release the limit, len=%d reached=%v", store.Len(), store.LimitReached())
	}
	if strings.Contains(m.View(), LimitMessage) {
		t.Error("limit message should be gone after a removal")
	}

	pressRune(m, 'i')
	if m.focus != focusInput || !m.input.Focused() {
		t.Error("input should be enabled again")
	}
}

func TestTypingAtLimitLeavesListAlone(t *testing.T) {
	store := todo.NewStore(todo.CappedLimits())
	m := newTUIModel(store, WithStartOpen(true))
	for _, name := range []string{"one", "two", "three", "four"} {
		addViaInput(t, m, name)
	}
	addViaInput(t, m, "bread")
	if !store.LimitReached() {
		t.Fatal("limit flag should be set")
	}
	before := store.Tasks()

	for _, r := range "add milk, then discard it" {
		pressRune(m, r)
	}
	press(m, tea.KeySpace)
	press(m, tea.KeyEnter)
	press(m, tea.KeyDown)

	if diff := cmp.Diff(before, store.Tasks()); diff != "" {
		t.Errorf("typing while disabled changed the list (-before +after):\n%s", diff)
	}
	if store.Filter() != todo.FilterAll {
		t.Errorf("filter = %s, want all", store.Filter())
	}
	if m.input.Value() != "bread" {
		t.Errorf("input = %q, want the rejected text kept", m.input.Value())
	}
	if m.focus != focusDisabled {
		t.Errorf("focus = %d, want disabled", m.focus)
	}
}

func TestCollapsedPanelIgnoresListKeys(t *testing.T) {
	store := todo.NewStore(todo.OpenLimits())
	m := newTUIModel(store)
	addViaInput(t, m, "Buy milk")
	addViaInput(t, m, "Walk dog")

	press(m, tea.KeyEsc)
	press(m, tea.KeyTab)
	if m.focus != focusList || m.open {
		t.Fatalf("want list focus with the panel collapsed, focus=%d open=%v", m.focus, m.open)
	}

	for _, r := range "dx3C" {
		pressRune(m, r)
	}
	press(m, tea.KeySpace)
	if store.Len() != 2 || store.RemainingCount() != 2 || store.Filter() != todo.FilterAll {
		t.Errorf("hidden list changed: tasks=%v filter=%s", store.Tasks(), store.Filter())
	}

	pressRune(m, 'i')
	if m.focus != focusInput {
		t.Error("insert should still work with the panel collapsed")
	}
}

func TestLeaveOpensPanel(t *testing.T) {
	store := todo.NewStore(todo.CappedLimits())
	m := newTUIModel(store)
	addViaInput(t, m, "Buy milk")

	press(m, tea.KeyEsc)
	if !m.open {
		t.Fatal("esc should show the list it moves focus to")
	}
	pressRune(m, 'd')
	if store.Len() != 0 {
		t.Errorf("delete on the visible list should work, got %d tasks", store.Len())
	}
}

func TestListKeys(t *testing.T) {
	store := todo.NewStore(todo.OpenLimits())
	m := newTUIModel(store, WithStartOpen(true))
	addViaInput(t, m, "Buy milk")
	addViaInput(t, m, "Walk dog")
	addViaInput(t, m, "Read book")

	press(m, tea.KeyEsc)
	if m.focus != focusList {
		t.Fatal("esc should move focus to the list")
	}

	pressRune(m, 'j')
	pressRune(m, 'x')
	if got := store.Tasks()[1]; !got.Completed {
		t.Errorf("second task should be completed: %+v", got)
	}
	if store.RemainingCount() != 2 {
		t.Errorf("remaining = %d, want 2", store.RemainingCount())
	}

	pressRune(m, '2')
	if store.Filter() != todo.FilterActive || len(store.VisibleTasks()) != 2 {
		t.Errorf("active filter: %s %v", store.Filter(), store.VisibleTasks())
	}
	pressRune(m, '3')
	if store.Filter() != todo.FilterCompleted || len(store.VisibleTasks()) != 1 {
		t.Errorf("completed filter: %s %v", store.Filter(), store.VisibleTasks())
	}
	if m.cursor != 0 {
		t.Errorf("cursor should be clamped to the visible list, got %d", m.cursor)
	}

	pressRune(m, '1')
	pressRune(m, 'C')
	if store.Len() != 2 {
		t.Fatalf("clear completed should leave 2 tasks, got %d", store.Len())
	}
	if got := store.Tasks(); got[0].Name != "Buy milk" || got[1].Name != "Read book" {
		t.Errorf("order not preserved: %+v", got)
	}

	pressRune(m, 'k')
	pressRune(m, 'k')
	if m.cursor != 0 {
		t.Errorf("cursor should stop at the top, got %d", m.cursor)
	}
}

func TestPanelToggle(t *testing.T) {
	store := todo.NewStore(todo.CappedLimits())
	m := newTUIModel(store)

	if strings.Contains(m.View(), "items left") {
		t.Error("panel should start closed")
	}
	press(m, tea.KeyTab)
	view := m.View()
	if !strings.Contains(view, "0 items left") {
		t.Errorf("open panel should show the counter: %s", view)
	}
	if !strings.Contains(view, EmptyMessage) {
		t.Errorf("empty list should show %q", EmptyMessage)
	}
	press(m, tea.KeyTab)
	if strings.Contains(m.View(), "items left") {
		t.Error("tab should close the panel")
	}
}

func TestViewListsTasks(t *testing.T) {
	store := todo.NewStore(todo.CappedLimits())
	m := newTUIModel(store, WithStartOpen(true))
	addViaInput(t, m, "Buy milk")
	addViaInput(t, m, "Walk dog")

	view := m.View()
	for _, want := range []string{"todos", "Buy milk", "Walk dog", "2 items left", "All", "Active", "Completed"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestQuitKeys(t *testing.T) {
	store := todo.NewStore(todo.CappedLimits())
	m := newTUIModel(store)

	pressRune(m, 'q')
	if m.input.Value() != "q" {
		t.Errorf("input = %q, want q", m.input.Value())
	}

	press(m, tea.KeyEsc)
	if !isQuit(pressRune(m, 'q')) {
		t.Error("q should quit from the list")
	}
	if !isQuit(press(m, tea.KeyCtrlC)) {
		t.Error("ctrl+c should always quit")
	}
}

func TestAdaptiveResize(t *testing.T) {
	store := todo.NewStore(todo.AdaptiveLimits())
	m := newTUIModel(store)

	m.Update(tea.WindowSizeMsg{Width: 60, Height: 20})
	if got := store.Limits().MaxNameLength; got != todo.NarrowNameLength {
		t.Errorf("narrow width: max name = %d, want %d", got, todo.NarrowNameLength)
	}
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	if got := store.Limits().MaxNameLength; got != todo.WideNameLength {
		t.Errorf("wide width: max name = %d, want %d", got, todo.WideNameLength)
	}
	long := strings.Repeat("a", 80)
	typeText(m, long)
	if m.input.Value() != long {
		t.Fatalf("80 characters fit the wide limit, input has %d", len(m.input.Value()))
	}

	m.Update(tea.WindowSizeMsg{Width: 60, Height: 20})
	press(m, tea.KeyBackspace)
	if got := m.input.Value(); got != long[:79] {
		t.Errorf("backspace should shorten an over-long buffer, got %d characters", len(got))
	}
	if m.warning != "" {
		t.Errorf("shortening should not warn, got %q", m.warning)
	}

	typeText(m, "b")
	if got := m.input.Value(); got != long[:79] {
		t.Errorf("growing past the narrow limit should be reverted, got %d characters", len(got))
	}
	if !strings.Contains(m.warning, "50") {
		t.Errorf("expected length warning, got %q", m.warning)
	}
}

func TestNarrowViewTruncatesNames(t *testing.T) {
	store := todo.NewStore(todo.OpenLimits())
	m := newTUIModel(store, WithStartOpen(true))
	name := strings.Repeat("n", 60)
	addViaInput(t, m, name)

	m.Update(tea.WindowSizeMsg{Width: 40, Height: 20})
	view := m.View()
	if strings.Contains(view, name) {
		t.Error("long name should be truncated at 40 columns")
	}
	if !strings.Contains(view, strings.Repeat("n", 25)+"...") {
		t.Errorf("expected truncated name in view:\n%s", view)
	}
	if store.Tasks()[0].Name != name {
		t.Error("truncation must not change the stored name")
	}
}

func TestFixedLimitsIgnoreResize(t *testing.T) {
	store := todo.NewStore(todo.CappedLimits())
	m := newTUIModel(store)

	m.Update(tea.WindowSizeMsg{Width: 60, Height: 20})
	if got := store.Limits().MaxNameLength; got != todo.CompactNameLength {
		t.Errorf("max name = %d, want %d", got, todo.CompactNameLength)
	}
}
