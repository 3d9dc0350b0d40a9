package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"ritual/internal/constants"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case constants.StateHabits:
		content = docStyle.Render(m.habitList.View())
	case constants.StateStats:
		content = m.statsView.View()
	case constants.StateSettings:
		content = m.settingsView.View()
	case constants.StateAddHabit, constants.StateEditSettings:
		content = docStyle.Render(m.form.View())
	case constants.StateConfirmArchive:
		content = m.viewConfirmArchive()
	case constants.StateConfirmDelete:
		content = m.viewConfirmDelete()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		content,
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	active := m.activeTab()
	var tabs []string
	for _, t := range []struct {
		title string
		state constants.SessionState
	}{
		{"Habits", constants.StateHabits},
		{"Stats", constants.StateStats},
		{"Settings", constants.StateSettings},
	} {
		if active == t.state {
			tabs = append(tabs, activeTabStyle.Render(t.title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(t.title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

// activeTab maps overlay states back to the tab they operate on so the tab
// bar stays stable while a form or confirmation is up.
func (m Model) activeTab() constants.SessionState {
	switch m.state {
	case constants.StateAddHabit, constants.StateConfirmArchive, constants.StateConfirmDelete:
		return constants.StateHabits
	case constants.StateEditSettings:
		return constants.StateSettings
	default:
		return m.state
	}
}

func (m Model) viewConfirmArchive() string {
	return lipgloss.Place(m.width, m.height-4,
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			warningStyle.Render(fmt.Sprintf("Archive habit %q?", m.habitName(m.habitToArchiveID))),
			"",
			"Archived habits keep their history and stop appearing in lists.",
			"",
			"[y] Yes   [n] No",
		),
	)
}

func (m Model) viewConfirmDelete() string {
	return lipgloss.Place(m.width, m.height-4,
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render(fmt.Sprintf("Delete habit %q?", m.habitName(m.habitToDeleteID))),
			"",
			"Completions are kept; select the deleted entry and press 'r' to restore.",
			"",
			"[y] Yes   [n] No",
		),
	)
}

func (m Model) habitName(id string) string {
	habit, err := m.store.GetHabit(id)
	if err != nil {
		return id
	}
	return habit.Name
}
