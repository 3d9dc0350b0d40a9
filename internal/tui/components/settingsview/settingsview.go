// Package settingsview shows the current configuration as a read-only page;
// editing happens in a form owned by the root model.
package settingsview

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"ritual/internal/models"
)

type EditSettingsMsg struct{}

var (
	headingStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#6B4FBB", Dark: "#A78BFA"}).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#8A8A8A", Dark: "#585858"}).
			Width(25)

	valueStyle = lipgloss.NewStyle().Bold(true)

	sectionStyle = lipgloss.NewStyle().
			MarginTop(1).
			MarginBottom(1)

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#8A8A8A", Dark: "#585858"}).
			Italic(true).
			MarginTop(2)
)

type Model struct {
	settings models.Settings
	width    int
	height   int
}

func New(settings models.Settings, width, height int) Model {
	return Model{
		settings: settings,
		width:    width,
		height:   height,
	}
}

func (m *Model) SetSettings(settings models.Settings) {
	m.settings = settings
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "e" {
		return m, func() tea.Msg { return EditSettingsMsg{} }
	}
	return m, nil
}

func row(label, value string) string {
	return fmt.Sprintf("%s %s", labelStyle.Render(label), valueStyle.Render(value))
}

func section(title string, rows ...string) string {
	body := lipgloss.JoinVertical(lipgloss.Left, rows...)
	return sectionStyle.Render(headingStyle.Render(title) + "\n" + body)
}

func (m Model) View() string {
	if m.width == 0 {
		return ""
	}

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		section("General",
			row("Timezone:", m.settings.Timezone),
			row("Default Timeframe:", m.settings.DefaultTimeframe),
		),
		section("Backups",
			row("Auto Backup:", fmt.Sprintf("%t", m.settings.AutoBackup)),
			row("Max Backups:", fmt.Sprintf("%d", m.settings.MaxBackups)),
		),
		hintStyle.Render("Press 'e' to edit settings"),
	)

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Left,
		lipgloss.Top,
		lipgloss.NewStyle().Padding(2, 4).Render(content),
	)
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
