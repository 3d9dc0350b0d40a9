package tui

import "github.com/charmbracelet/lipgloss"

// Adaptive colors keep the dashboard readable on light terminals.
var (
	accent = lipgloss.AdaptiveColor{Light: "#6B4FBB", Dark: "#A78BFA"}
	dim    = lipgloss.AdaptiveColor{Light: "#8A8A8A", Dark: "#585858"}

	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accent).
			Underline(true).
			Padding(0, 1)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(dim).
				Padding(0, 1)

	dangerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("9"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11"))

	docStyle = lipgloss.NewStyle().Margin(1, 2)
)
