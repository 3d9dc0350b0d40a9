package statsview

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"ritual/internal/models"
	"ritual/internal/recurrence"
)

// Row is one habit's streak summary, computed by the caller so the view
// stays free of storage and timezone concerns.
type Row struct {
	Habit   models.Habit
	Current recurrence.StreakResult
	Longest int
}

type Model struct {
	rows   []Row
	width  int
	height int
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginBottom(1)

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	nameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Width(26)

	numStyle = lipgloss.NewStyle().
			Width(8).
			Align(lipgloss.Right)

	lapsedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

func New(rows []Row, width, height int) Model {
	return Model{
		rows:   rows,
		width:  width,
		height: height,
	}
}

func (m *Model) SetRows(rows []Row) {
	m.rows = rows
}

func (m Model) View() string {
	if m.width == 0 {
		return ""
	}
	if len(m.rows) == 0 {
		return "\n  No habits to report on yet."
	}

	lines := []string{
		titleStyle.Render("Streaks"),
		headerStyle.Render(fmt.Sprintf("%-26s %8s %8s  %s", "HABIT", "CURRENT", "LONGEST", "STATUS")),
	}

	for _, r := range m.rows {
		lines = append(lines, fmt.Sprintf("%s %s %s  %s",
			nameStyle.Render(r.Habit.Name),
			numStyle.Render(fmt.Sprintf("%d", displayLength(r.Current))),
			numStyle.Render(fmt.Sprintf("%d", r.Longest)),
			statusCell(r.Current),
		))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Left,
		lipgloss.Top,
		lipgloss.NewStyle().Padding(2, 4).Render(content),
	)
}

func statusCell(s recurrence.StreakResult) string {
	switch {
	case s.Length == 0:
		return mutedStyle.Render("-")
	case s.Active:
		return "active"
	default:
		return lapsedStyle.Render(fmt.Sprintf("lapsed (was %d)", s.Length))
	}
}

// displayLength treats a lapsed run as zero; the achieved length lives in
// the status cell.
func displayLength(s recurrence.StreakResult) int {
	if !s.Active {
		return 0
	}
	return s.Length
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
