package tui

import (
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/google/uuid"

	"ritual/internal/cli"
	"ritual/internal/constants"
	"ritual/internal/models"
	"ritual/internal/timeutil"
	"ritual/internal/tui/components/habitlist"
	"ritual/internal/tui/components/settingsview"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

		h, v := docStyle.GetFrameSize()
		listHeight := msg.Height - 4
		m.habitList.SetSize(msg.Width-h, listHeight-v)
		m.statsView.SetSize(msg.Width-h, listHeight-v)
		m.settingsView.SetSize(msg.Width-h, listHeight-v)
		return m, nil

	case habitlist.AddHabitMsg:
		m.habitForm = &HabitFormModel{Kind: models.KindDaily, Value: "1"}
		m.form = NewHabitForm(m.habitForm)
		m.state = constants.StateAddHabit
		return m, m.form.Init()

	case habitlist.MarkHabitMsg:
		m.setCompletion(msg.ID, true)
		return m, nil

	case habitlist.UnmarkHabitMsg:
		m.setCompletion(msg.ID, false)
		return m, nil

	case habitlist.ArchiveHabitMsg:
		m.habitToArchiveID = msg.ID
		m.state = constants.StateConfirmArchive
		return m, nil

	case habitlist.DeleteHabitMsg:
		m.habitToDeleteID = msg.ID
		m.state = constants.StateConfirmDelete
		return m, nil

	case habitlist.RestoreHabitMsg:
		if err := m.store.RestoreHabit(msg.ID); err == nil {
			m.refreshHabits()
			m.refreshStats()
		}
		return m, nil

	case settingsview.EditSettingsMsg:
		currentSettings, err := m.store.GetSettings()
		if err != nil {
			return m, nil
		}
		m.settingsForm = &SettingsFormModel{
			Timezone:         currentSettings.Timezone,
			DefaultTimeframe: currentSettings.DefaultTimeframe,
			AutoBackup:       currentSettings.AutoBackup,
			MaxBackups:       strconv.Itoa(currentSettings.MaxBackups),
		}
		m.form = NewSettingsForm(m.settingsForm)
		m.state = constants.StateEditSettings
		return m, m.form.Init()

	case tea.KeyMsg:
		switch m.state {
		case constants.StateAddHabit:
			if msg.String() == "esc" {
				m.form = nil
				m.habitForm = nil
				m.state = constants.StateHabits
				return m, nil
			}

		case constants.StateEditSettings:
			if msg.String() == "esc" {
				m.form = nil
				m.settingsForm = nil
				m.state = constants.StateSettings
				return m, nil
			}

		case constants.StateConfirmArchive:
			switch msg.String() {
			case "y", "Y":
				if err := m.store.ArchiveHabit(m.habitToArchiveID); err == nil {
					m.refreshHabits()
					m.refreshStats()
				}
				m.habitToArchiveID = ""
				m.state = constants.StateHabits
			case "n", "N", "esc", "q":
				m.habitToArchiveID = ""
				m.state = constants.StateHabits
			}
			return m, nil

		case constants.StateConfirmDelete:
			switch msg.String() {
			case "y", "Y":
				if err := m.store.DeleteHabit(m.habitToDeleteID); err == nil {
					m.refreshHabits()
					m.refreshStats()
				}
				m.habitToDeleteID = ""
				m.state = constants.StateHabits
			case "n", "N", "esc", "q":
				m.habitToDeleteID = ""
				m.state = constants.StateHabits
			}
			return m, nil

		default:
			// The filter input owns the keyboard while the user types a query.
			if m.state == constants.StateHabits && m.habitList.Filtering() {
				break
			}
			switch {
			case key.Matches(msg, m.keys.Quit):
				m.quitting = true
				return m, tea.Quit
			case key.Matches(msg, m.keys.Help):
				m.help.ShowAll = !m.help.ShowAll
				return m, nil
			case key.Matches(msg, m.keys.Tab):
				m.state = nextTab(m.state)
				if m.state == constants.StateStats {
					m.refreshStats()
				}
				return m, nil
			case key.Matches(msg, m.keys.ShiftTab):
				m.state = prevTab(m.state)
				if m.state == constants.StateStats {
					m.refreshStats()
				}
				return m, nil
			}
		}
	}

	if m.state == constants.StateAddHabit || m.state == constants.StateEditSettings {
		return m.updateForm(msg)
	}

	var cmd tea.Cmd
	switch m.state {
	case constants.StateHabits:
		m.habitList, cmd = m.habitList.Update(msg)
	case constants.StateSettings:
		m.settingsView, cmd = m.settingsView.Update(msg)
	}
	return m, cmd
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		if m.state == constants.StateAddHabit {
			return m.submitHabitForm()
		}
		return m.submitSettingsForm()
	case huh.StateAborted:
		if m.state == constants.StateAddHabit {
			m.state = constants.StateHabits
		} else {
			m.state = constants.StateSettings
		}
		m.form = nil
		m.habitForm = nil
		m.settingsForm = nil
	}
	return m, cmd
}

func (m Model) submitHabitForm() (tea.Model, tea.Cmd) {
	fm := m.habitForm
	rule, err := buildHabitRule(fm)
	if err != nil {
		m.form.State = huh.StateNormal
		return m, nil
	}

	name := strings.TrimSpace(fm.Name)
	if _, err := m.store.GetHabitByName(name); err == nil {
		// Name collision; reopen the form for correction.
		m.form.State = huh.StateNormal
		return m, nil
	}

	tz := strings.TrimSpace(fm.Timezone)
	if tz == "" {
		currentSettings, err := m.store.GetSettings()
		if err != nil {
			m.form.State = huh.StateNormal
			return m, nil
		}
		tz = currentSettings.Timezone
	}

	now := time.Now()
	habit := models.Habit{
		ID:        uuid.New().String(),
		Name:      name,
		Notes:     strings.TrimSpace(fm.Notes),
		Rule:      rule,
		Timezone:  tz,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := m.store.AddHabit(habit); err != nil {
		m.form.State = huh.StateNormal
		return m, nil
	}

	m.form = nil
	m.habitForm = nil
	m.state = constants.StateHabits
	m.refreshHabits()
	m.refreshStats()
	return m, nil
}

func (m Model) submitSettingsForm() (tea.Model, tea.Cmd) {
	fm := m.settingsForm

	maxBackups, err := strconv.Atoi(strings.TrimSpace(fm.MaxBackups))
	if err != nil || maxBackups < 1 {
		m.form.State = huh.StateNormal
		return m, nil
	}
	tf, err := timeutil.ParseTimeframe(fm.DefaultTimeframe)
	if err != nil {
		m.form.State = huh.StateNormal
		return m, nil
	}

	updated := models.Settings{
		Timezone:         strings.TrimSpace(fm.Timezone),
		DefaultTimeframe: string(tf),
		AutoBackup:       fm.AutoBackup,
		MaxBackups:       maxBackups,
	}
	if err := m.store.SaveSettings(updated); err != nil {
		m.form.State = huh.StateNormal
		return m, nil
	}

	m.form = nil
	m.settingsForm = nil
	m.state = constants.StateSettings
	m.refreshSettings()
	// A timezone change can move "today", so marks need recomputing.
	m.refreshHabits()
	m.refreshStats()
	return m, nil
}

// setCompletion marks or unmarks the habit for today in its own timezone.
func (m *Model) setCompletion(id string, done bool) {
	currentSettings, err := m.store.GetSettings()
	if err != nil {
		return
	}
	habit, err := m.store.GetHabit(id)
	if err != nil {
		return
	}
	loc, err := cli.HabitLocation(habit, currentSettings)
	if err != nil {
		return
	}
	now := time.Now().In(loc)
	day := now.Format(constants.DateFormat)

	if !done {
		if err := m.store.DeleteCompletion(habit.ID, day); err == nil {
			m.refreshHabits()
			m.refreshStats()
		}
		return
	}

	instant, err := cli.CompletionInstant(habit.Rule, day, now, loc)
	if err != nil {
		return
	}
	completion := models.Completion{
		ID:          uuid.New().String(),
		HabitID:     habit.ID,
		Day:         day,
		CompletedAt: instant,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if err := m.store.AddCompletion(completion); err == nil {
		m.refreshHabits()
		m.refreshStats()
	}
}

func nextTab(s constants.SessionState) constants.SessionState {
	switch s {
	case constants.StateHabits:
		return constants.StateStats
	case constants.StateStats:
		return constants.StateSettings
	default:
		return constants.StateHabits
	}
}

func prevTab(s constants.SessionState) constants.SessionState {
	switch s {
	case constants.StateHabits:
		return constants.StateSettings
	case constants.StateStats:
		return constants.StateHabits
	default:
		return constants.StateStats
	}
}
