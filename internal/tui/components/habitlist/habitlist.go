// Package habitlist renders the scrollable habit list and translates key
// presses into messages for the root model to act on.
package habitlist

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"ritual/internal/models"
	"ritual/internal/recurrence"
)

type AddHabitMsg struct{}

type MarkHabitMsg struct {
	ID string
}

type UnmarkHabitMsg struct {
	ID string
}

type ArchiveHabitMsg struct {
	ID string
}

type DeleteHabitMsg struct {
	ID string
}

type RestoreHabitMsg struct {
	ID string
}

type Item struct {
	Habit     models.Habit
	Streak    recurrence.StreakResult
	IsMarked  bool
	IsDeleted bool
}

// actionable reports whether mark/unmark/archive apply to this item.
// Deleted and archived habits only support restore or delete.
func (i Item) actionable() bool {
	return !i.IsDeleted && i.Habit.ArchivedAt == nil
}

func (i Item) Title() string {
	switch {
	case i.IsDeleted:
		return "[DELETED] " + i.Habit.Name
	case i.Habit.ArchivedAt != nil:
		return "[ARCHIVED] " + i.Habit.Name
	case i.IsMarked:
		return "✓ " + i.Habit.Name
	default:
		return "○ " + i.Habit.Name
	}
}

func (i Item) Description() string {
	if i.IsDeleted {
		return "can restore with 'r'"
	}
	if i.Habit.ArchivedAt != nil {
		return i.Habit.Rule.Describe() + ", archived"
	}

	desc := i.Habit.Rule.Describe()
	switch {
	case i.Streak.Length == 0:
		desc += ", no streak yet"
	case i.Streak.Active:
		desc += fmt.Sprintf(", streak %d", i.Streak.Length)
	default:
		desc += fmt.Sprintf(", streak 0 (was %d)", i.Streak.Length)
	}
	return desc
}

func (i Item) FilterValue() string { return i.Habit.Name }

type KeyMap struct {
	Add     key.Binding
	Mark    key.Binding
	Unmark  key.Binding
	Archive key.Binding
	Delete  key.Binding
	Restore key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Add:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Mark:    key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "mark done")),
		Unmark:  key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "unmark")),
		Archive: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "archive")),
		Delete:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Restore: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "restore")),
	}
}

func (k KeyMap) bindings() []key.Binding {
	return []key.Binding{k.Add, k.Mark, k.Unmark, k.Archive, k.Delete, k.Restore}
}

type Model struct {
	list list.Model
	keys KeyMap
}

// New builds the habit list. marks holds the habit IDs already completed
// today (today in each habit's own timezone, which is why the caller
// computes it), streaks the current run per habit ID.
func New(habits []models.Habit, marks map[string]bool, streaks map[string]recurrence.StreakResult, width, height int) Model {
	keys := DefaultKeyMap()

	l := list.New(buildItems(habits, marks, streaks), list.NewDefaultDelegate(), width, height)
	l.Title = "Habits"
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.AdditionalShortHelpKeys = keys.bindings
	l.AdditionalFullHelpKeys = keys.bindings

	return Model{
		list: l,
		keys: keys,
	}
}

func buildItems(habits []models.Habit, marks map[string]bool, streaks map[string]recurrence.StreakResult) []list.Item {
	items := make([]list.Item, len(habits))
	for i, h := range habits {
		isDeleted := h.DeletedAt != nil
		items[i] = Item{
			Habit:     h,
			Streak:    streaks[h.ID],
			IsMarked:  marks[h.ID] && !isDeleted && h.ArchivedAt == nil,
			IsDeleted: isDeleted,
		}
	}
	return items
}

func (m *Model) SetHabits(habits []models.Habit, marks map[string]bool, streaks map[string]recurrence.StreakResult) {
	m.list.SetItems(buildItems(habits, marks, streaks))
}

// Filtering reports whether the list's filter input owns the keyboard, so
// the root model knows to keep its global bindings out of the way.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

// selected returns the highlighted habit, if any.
func (m Model) selected() (Item, bool) {
	i, ok := m.list.SelectedItem().(Item)
	return i, ok
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && !m.Filtering() {
		if cmd := m.handleKey(msg); cmd != nil {
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// handleKey maps an action key to its message, or returns nil when the key
// does not apply to the selected item and should fall through to the list.
func (m Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, m.keys.Add) {
		return emit(AddHabitMsg{})
	}

	i, ok := m.selected()
	if !ok {
		return nil
	}

	switch {
	case key.Matches(msg, m.keys.Mark):
		if i.actionable() && !i.IsMarked {
			return emit(MarkHabitMsg{ID: i.Habit.ID})
		}
	case key.Matches(msg, m.keys.Unmark):
		if i.actionable() && i.IsMarked {
			return emit(UnmarkHabitMsg{ID: i.Habit.ID})
		}
	case key.Matches(msg, m.keys.Archive):
		if i.actionable() {
			return emit(ArchiveHabitMsg{ID: i.Habit.ID})
		}
	case key.Matches(msg, m.keys.Delete):
		if !i.IsDeleted {
			return emit(DeleteHabitMsg{ID: i.Habit.ID})
		}
	case key.Matches(msg, m.keys.Restore):
		if i.IsDeleted {
			return emit(RestoreHabitMsg{ID: i.Habit.ID})
		}
	}
	return nil
}

func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && m.list.FilterState() != list.Filtering {
		return "\n  Nothing here yet.\n  Press 'a' to add your first habit."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
