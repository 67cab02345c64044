package tui

import "github.com/charmbracelet/lipgloss"

// ------- minimal styling helpers (Lip Gloss) -------
var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	headingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	mutedStyle   = lipgloss.NewStyle().Faint(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	loadingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))

	selectedStyle = lipgloss.NewStyle().Bold(true).Reverse(true)
	deleteStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helpStyle     = lipgloss.NewStyle().Faint(true)

	buttonStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	disabledButtonStyle = lipgloss.NewStyle().Faint(true)

	panelStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("8")).Padding(0, 1)
)

const deleteSymbol = "×"
