package theme

import "github.com/charmbracelet/lipgloss"

// Styles describes reusable Lip Gloss styles shared across the UI.
type Styles struct {
	Canvas        *lipgloss.Style
	CanvasTitle   *lipgloss.Style
	PopupCard     *lipgloss.Style
	SwitchCard    *lipgloss.Style
	InertCard     *lipgloss.Style
	FocusedCard   *lipgloss.Style
	ActiveCard    *lipgloss.Style
	PopupPanel    *lipgloss.Style
	PopupTitle    *lipgloss.Style
	BackButton    *lipgloss.Style
	Overlay       *lipgloss.Style
	OverlayTitle  *lipgloss.Style
	OverlayHint   *lipgloss.Style
	Debug         *lipgloss.Style
	Error         *lipgloss.Style
	Info          *lipgloss.Style
	Header        *lipgloss.Style
	Footer        *lipgloss.Style
	SearchPrompt  *lipgloss.Style
	SearchItem    *lipgloss.Style
	SearchCurrent *lipgloss.Style
}

var defaultStyles = Styles{
	Canvas: ptr(
		lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("238")),
	),
	CanvasTitle: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true),
	),
	PopupCard: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("24")),
	),
	SwitchCard: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("179")),
	),
	InertCard: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Background(lipgloss.Color("236")).Italic(true),
	),
	FocusedCard: ptr(
		lipgloss.NewStyle().Underline(true).Bold(true),
	),
	ActiveCard: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("33")).Bold(true),
	),
	PopupPanel: ptr(
		lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("33")).Padding(0, 1),
	),
	PopupTitle: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Bold(true),
	),
	BackButton: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("238")).Padding(0, 1),
	),
	Overlay: ptr(
		lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(lipgloss.Color("250")),
	),
	OverlayTitle: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Bold(true),
	),
	OverlayHint: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	),
	Debug: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	),
	Error: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	),
	Info: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	Header: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true),
	),
	Footer: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	SearchPrompt: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("34")).Bold(true),
	),
	SearchItem: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	SearchCurrent: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("238")).Bold(true),
	),
}

// Default exposes the standard style set used across the application.
func Default() *Styles {
	return &defaultStyles
}

func ptr(style lipgloss.Style) *lipgloss.Style {
	return &style
}
