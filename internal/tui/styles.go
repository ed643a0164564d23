package tui

import "github.com/charmbracelet/lipgloss"

var (
	activeTabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(lipgloss.Color("236")).
			Padding(0, 1).
			Bold(true)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().
			Width(12).
			Padding(0, 1)

	takenStyle = cellStyle.
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("114"))

	skippedStyle = cellStyle.
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("210"))

	snoozedStyle = cellStyle.
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("110"))

	dueSoonStyle = cellStyle.
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("221"))

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("205")).
			Padding(1, 3)

	dangerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("114"))
)
