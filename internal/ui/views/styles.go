package views

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains all the style definitions for the UI
type Styles struct {
	Title          lipgloss.Style
	Dim            lipgloss.Style
	Status         lipgloss.Style
	StatusError    lipgloss.Style
	Filter         lipgloss.Style
	Help           lipgloss.Style
	Pane           lipgloss.Style
	PaneFocused    lipgloss.Style
	PaneTitle      lipgloss.Style
	Cursor         lipgloss.Style
	Selected       lipgloss.Style
	SelectedCursor lipgloss.Style
	Pseudo         lipgloss.Style
	Match          lipgloss.Style
	Mismatch       lipgloss.Style
	Label          lipgloss.Style
	Value          lipgloss.Style
}

// NewStyles creates a new Styles instance with default values
func NewStyles() *Styles {
	pane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("241")).
		Padding(0, 1)

	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")),
		Dim: lipgloss.NewStyle().Faint(true),
		Status: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")),
		StatusError:    lipgloss.NewStyle().Foreground(lipgloss.Color("203")), // red
		Filter:         lipgloss.NewStyle().Foreground(lipgloss.Color("214")), // yellow
		Help:           lipgloss.NewStyle().Faint(true),
		Pane:           pane,
		PaneFocused:    pane.BorderForeground(lipgloss.Color("99")),
		PaneTitle:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		Cursor:         lipgloss.NewStyle().Background(lipgloss.Color("238")),
		Selected:       lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		SelectedCursor: lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true).Background(lipgloss.Color("238")),
		Pseudo:         lipgloss.NewStyle().Foreground(lipgloss.Color("51")).Italic(true), // cyan
		Match:          lipgloss.NewStyle().Foreground(lipgloss.Color("78")),              // green
		Mismatch:       lipgloss.NewStyle().Foreground(lipgloss.Color("203")),             // red
		Label:          lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
		Value:          lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
	}
}

// Row picks the style for a list row from its cursor and selection state
func (s *Styles) Row(isCursor, isSelected bool) lipgloss.Style {
	switch {
	case isCursor && isSelected:
		return s.SelectedCursor
	case isCursor:
		return s.Cursor
	case isSelected:
		return s.Selected
	default:
		return lipgloss.NewStyle()
	}
}

// EValueColor returns a color for an e-value, greener for stronger hits
func EValueColor(evalue float64) string {
	switch {
	case evalue <= 1e-50:
		return "78" // green
	case evalue <= 1e-10:
		return "33" // blue
	case evalue <= 1e-3:
		return "214" // yellow
	default:
		return "203" // red
	}
}
