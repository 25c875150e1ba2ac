package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/codegym-software/imeetcal/internal/calendar"
)

type Styles struct {
	Normal    lipgloss.Style
	Dim       lipgloss.Style
	Today     lipgloss.Style
	Selected  lipgloss.Style
	Header    lipgloss.Style
	WeekDay   lipgloss.Style
	NowLine   lipgloss.Style
	Help      lipgloss.Style
	Message   lipgloss.Style
	ErrBanner lipgloss.Style
	Border    lipgloss.Style
	Input     lipgloss.Style
	Label     lipgloss.Style

	Event map[calendar.Color]lipgloss.Style
}

func DefaultStyles() Styles {
	event := map[calendar.Color]lipgloss.Style{
		calendar.ColorAmber: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		calendar.ColorBlue:  lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		calendar.ColorRed:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		calendar.ColorGreen: lipgloss.NewStyle().Foreground(lipgloss.Color("40")),
		calendar.ColorGray:  lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	}

	return Styles{
		Normal: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")),
		Dim: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")),
		Today: lipgloss.NewStyle().
			Foreground(lipgloss.Color("220")).
			Bold(true),
		Selected: lipgloss.NewStyle().
			Foreground(lipgloss.Color("235")).
			Background(lipgloss.Color("220")).
			Bold(true),
		Header: lipgloss.NewStyle().
			Foreground(lipgloss.Color("220")).
			Bold(true).
			Underline(true),
		WeekDay: lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true),
		NowLine: lipgloss.NewStyle().
			Foreground(lipgloss.Color("235")).
			Background(lipgloss.Color("4")),
		Help: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")),
		Message: lipgloss.NewStyle().
			Foreground(lipgloss.Color("220")).
			Background(lipgloss.Color("235")).
			Padding(0, 1),
		ErrBanner: lipgloss.NewStyle().
			Foreground(lipgloss.Color("231")).
			Background(lipgloss.Color("124")).
			Padding(0, 1),
		Border: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238")),
		Input: lipgloss.NewStyle().
			Foreground(lipgloss.Color("235")).
			Background(lipgloss.Color("220")),
		Label: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true),

		Event: event,
	}
}

func (s Styles) eventStyle(c calendar.Color) lipgloss.Style {
	if style, ok := s.Event[c]; ok {
		return style
	}
	return s.Event[calendar.ColorGray]
}
