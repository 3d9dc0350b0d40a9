package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"ritual/internal/cli"
	"ritual/internal/constants"
	"ritual/internal/recurrence"
	"ritual/internal/storage"
	"ritual/internal/tui/components/habitlist"
	"ritual/internal/tui/components/settingsview"
	"ritual/internal/tui/components/statsview"
)

type Model struct {
	store            storage.Provider
	state            constants.SessionState
	keys             KeyMap
	help             help.Model
	habitList        habitlist.Model
	statsView        statsview.Model
	settingsView     settingsview.Model
	form             *huh.Form
	habitForm        *HabitFormModel
	settingsForm     *SettingsFormModel
	habitToArchiveID string
	habitToDeleteID  string
	quitting         bool
	width            int
	height           int
}

func NewModel(store storage.Provider) Model {
	currentSettings, _ := store.GetSettings()

	m := Model{
		store:        store,
		state:        constants.StateHabits,
		keys:         DefaultKeyMap(),
		help:         help.New(),
		habitList:    habitlist.New(nil, nil, nil, 0, 0),
		statsView:    statsview.New(nil, 0, 0),
		settingsView: settingsview.New(currentSettings, 0, 0),
	}
	m.refreshHabits()
	m.refreshStats()

	return m
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	switch m.state {
	case constants.StateHabits:
		keys = append(keys, m.keys.Add, m.keys.Mark)
	case constants.StateSettings:
		keys = append(keys, m.keys.Edit)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help}
	navigation := []key.Binding{m.keys.Up, m.keys.Down, m.keys.Enter}

	var actions []key.Binding
	switch m.state {
	case constants.StateHabits:
		actions = []key.Binding{m.keys.Add, m.keys.Mark, m.keys.Unmark, m.keys.Archive, m.keys.Delete, m.keys.Restore}
	case constants.StateSettings:
		actions = []key.Binding{m.keys.Edit}
	}

	return [][]key.Binding{global, navigation, actions}
}

func (m Model) Init() tea.Cmd {
	return nil
}

// refreshHabits reloads the habit list with today's marks and current
// streaks. Today is computed per habit because each habit's rule runs in
// its own timezone.
func (m *Model) refreshHabits() {
	settings, err := m.store.GetSettings()
	if err != nil {
		return
	}
	habits, err := m.store.GetAllHabits(false, true)
	if err != nil {
		return
	}

	now := time.Now()
	marks := make(map[string]bool, len(habits))
	streaks := make(map[string]recurrence.StreakResult, len(habits))
	for _, h := range habits {
		loc, err := cli.HabitLocation(h, settings)
		if err != nil {
			continue
		}
		day := now.In(loc).Format(constants.DateFormat)
		if _, err := m.store.GetCompletion(h.ID, day); err == nil {
			marks[h.ID] = true
		}
		completions, err := m.store.GetCompletionsForHabit(h.ID, "", "")
		if err != nil {
			continue
		}
		streaks[h.ID] = recurrence.CurrentStreak(cli.CompletionInstants(completions, loc), h.Rule, now.In(loc))
	}

	m.habitList.SetHabits(habits, marks, streaks)
}

func (m *Model) refreshStats() {
	settings, err := m.store.GetSettings()
	if err != nil {
		return
	}
	habits, err := m.store.GetAllHabits(false, false)
	if err != nil {
		return
	}

	now := time.Now()
	rows := make([]statsview.Row, 0, len(habits))
	for _, h := range habits {
		loc, err := cli.HabitLocation(h, settings)
		if err != nil {
			continue
		}
		completions, err := m.store.GetCompletionsForHabit(h.ID, "", "")
		if err != nil {
			continue
		}
		instants := cli.CompletionInstants(completions, loc)
		rows = append(rows, statsview.Row{
			Habit:   h,
			Current: recurrence.CurrentStreak(instants, h.Rule, now.In(loc)),
			Longest: recurrence.LongestStreak(instants, h.Rule),
		})
	}

	m.statsView.SetRows(rows)
}

func (m *Model) refreshSettings() {
	currentSettings, err := m.store.GetSettings()
	if err != nil {
		return
	}
	m.settingsView.SetSettings(currentSettings)
}
