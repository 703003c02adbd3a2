package report

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title    lipgloss.Style
	header   lipgloss.Style
	count    lipgloss.Style
	label    lipgloss.Style
	good     lipgloss.Style
	warning  lipgloss.Style
	bad      lipgloss.Style
	section  lipgloss.Style
	failID   lipgloss.Style
	failNote lipgloss.Style
	empty    lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:    lipgloss.NewStyle().Bold(true),
		header:   lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		count:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252")),
		label:    lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		good:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
		warning:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214")),
		bad:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		section:  lipgloss.NewStyle().MarginTop(1),
		failID:   lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		failNote: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		empty:    lipgloss.NewStyle().Faint(true),
	}
}
