package tui

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	accent = lipgloss.Color("36")  // teal
	danger = lipgloss.Color("203") // soft red
	warn   = lipgloss.Color("214") // amber
	dim    = lipgloss.Color("243")

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(accent)
	tabStyle   = lipgloss.NewStyle().Foreground(dim).Padding(0, 1)
	tabActive  = lipgloss.NewStyle().Bold(true).Foreground(accent).Padding(0, 1).Underline(true)

	labelStyle  = lipgloss.NewStyle().Foreground(dim)
	valueStyle  = lipgloss.NewStyle().Bold(true)
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errStyle    = lipgloss.NewStyle().Foreground(danger)
	warnStyle   = lipgloss.NewStyle().Foreground(warn)
	helpStyle   = lipgloss.NewStyle().Foreground(dim)
	cursorStyle = lipgloss.NewStyle().Reverse(true)

	headerRowStyle = lipgloss.NewStyle().Bold(true).Foreground(dim).Underline(true)
	selectedStyle  = lipgloss.NewStyle().Bold(true).Foreground(accent)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(dim).
			Padding(0, 2).
			MarginRight(2)
)
