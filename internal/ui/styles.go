package ui

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title     lipgloss.Style
	subtitle  lipgloss.Style
	header    lipgloss.Style
	userLabel lipgloss.Style
	botLabel  lipgloss.Style
	pending   lipgloss.Style
	banner    lipgloss.Style
	errorText lipgloss.Style
	help      lipgloss.Style
	cursor    lipgloss.Style
	inputBox  lipgloss.Style
}

func defaultStyles() styles {
	var (
		blue = lipgloss.Color("#7aa2f7")
		mint = lipgloss.Color("#9ece6a")
		pink = lipgloss.Color("#f7768e")
		gold = lipgloss.Color("#e0af68")
		grey = lipgloss.Color("#565f89")
	)
	return styles{
		title: lipgloss.NewStyle().
			Foreground(blue).
			Bold(true),
		subtitle: lipgloss.NewStyle().
			Foreground(grey),
		header: lipgloss.NewStyle().
			Foreground(mint).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(blue).
			Padding(0, 1),
		userLabel: lipgloss.NewStyle().Foreground(blue).Bold(true),
		botLabel:  lipgloss.NewStyle().Foreground(mint).Bold(true),
		pending:   lipgloss.NewStyle().Foreground(grey).Italic(true),
		banner: lipgloss.NewStyle().
			Foreground(gold).
			Bold(true),
		errorText: lipgloss.NewStyle().Foreground(pink),
		help:      lipgloss.NewStyle().Foreground(grey),
		cursor:    lipgloss.NewStyle().Foreground(pink).Bold(true),
		inputBox: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(mint).
			Padding(0, 1),
	}
}
