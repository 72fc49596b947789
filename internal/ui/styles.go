package ui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("168"))
	arrowStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	cursorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	doneStyle    = lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("243"))
	checkStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("71"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true)
	limitStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	filterStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Padding(0, 1)
	activeFilter = filterStyle.Foreground(lipgloss.Color("212")).Underline(true)
	panelStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("238")).Padding(0, 1)
	helpBarStyle = lipgloss.NewStyle().MarginTop(1)
)
