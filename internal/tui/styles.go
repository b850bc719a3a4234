package tui

import "github.com/charmbracelet/lipgloss"

var (
	// Colors
	colorPrimary = lipgloss.Color("12")  // bright blue
	colorAccent  = lipgloss.Color("10")  // bright green
	colorDim     = lipgloss.Color("240") // gray
	colorBorder  = lipgloss.Color("238") // dark gray

	// Input area
	styleInput = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	styleInputPrompt = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	// Speakers
	styleUserLabel = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	styleAssistantLabel = lipgloss.NewStyle().
				Foreground(colorAccent).
				Bold(true)

	styleUserText = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	// Empty state / hints
	styleHint = lipgloss.NewStyle().
			Foreground(colorDim)

	stylePrompt = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			PaddingLeft(2)

	styleSending = lipgloss.NewStyle().
			Foreground(colorDim).
			Italic(true)

	// Panels
	stylePanelBorder = lipgloss.NewStyle().
				Border(lipgloss.NormalBorder(), true).
				BorderForeground(colorBorder)

	styleStatus = lipgloss.NewStyle().
			Foreground(colorDim)
)
