package ui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("208"))
	subtitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	tabStyle       = lipgloss.NewStyle().Padding(0, 2).Foreground(lipgloss.Color("243"))
	activeTabStyle = lipgloss.NewStyle().Padding(0, 2).Bold(true).Foreground(lipgloss.Color("230")).Background(lipgloss.Color("208"))

	userBubbleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("208")).
			Padding(0, 1).
			Align(lipgloss.Right)

	assistantCardStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("137")).
				Padding(0, 1)

	specLabelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	specValueStyle   = lipgloss.NewStyle().Bold(true)
	badgeStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("137")).Padding(0, 1)
	imageLinkStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Underline(true)
	placeholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("243")).Italic(true)
	errorStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	helpStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	statusStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("63")).Bold(true)
	selectedRowStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("62"))
	emptyStateStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("243")).Align(lipgloss.Center).PaddingTop(2)
)
