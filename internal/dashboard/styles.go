package dashboard

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/skymetrics/skymetrics/internal/model"
)

type palette struct {
	text   string
	muted  string
	faint  string
	border string
	accent string
	danger string
}

var (
	darkPalette = palette{
		text:   "#F0F0F0",
		muted:  "#B0B0B0",
		faint:  "#6E6E6E",
		border: "#4A4A4A",
		accent: "#6366F1",
		danger: "#FF4D4F",
	}
	lightPalette = palette{
		text:   "#1E293B",
		muted:  "#475569",
		faint:  "#94A3B8",
		border: "#CBD5E1",
		accent: "#4F46E5",
		danger: "#DC2626",
	}
)

type styles struct {
	activeNav   lipgloss.Style
	inactiveNav lipgloss.Style
	header      lipgloss.Style
	errorText   lipgloss.Style
	card        lipgloss.Style
	cardTitle   lipgloss.Style
	cardValue   lipgloss.Style
	muted       lipgloss.Style
	modal       lipgloss.Style
	table       table.Styles
}

func newStyles(theme model.Theme) styles {
	p := darkPalette
	if theme == model.ThemeLight {
		p = lightPalette
	}
	s := styles{
		activeNav: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.text)).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color(p.accent)),
		inactiveNav: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.muted)).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color(p.border)),
		header:    lipgloss.NewStyle().Foreground(lipgloss.Color(p.faint)),
		errorText: lipgloss.NewStyle().Foreground(lipgloss.Color(p.danger)),
		card: lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color(p.border)),
		cardTitle: lipgloss.NewStyle().Foreground(lipgloss.Color(p.muted)),
		cardValue: lipgloss.NewStyle().Foreground(lipgloss.Color(p.text)).Bold(true),
		muted:     lipgloss.NewStyle().Foreground(lipgloss.Color(p.muted)),
		modal: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color(p.accent)).
			Padding(1, 2),
	}

	ts := table.DefaultStyles()
	ts.Header = ts.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color(p.border)).
		Foreground(lipgloss.Color(p.muted)).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	ts.Cell = ts.Cell.
		Foreground(lipgloss.Color(p.text)).
		Padding(0, 1).
		PaddingLeft(0)
	ts.Selected = ts.Cell.
		Foreground(lipgloss.Color(p.accent)).
		Bold(true)
	s.table = ts
	return s
}
