package theme

import "github.com/charmbracelet/lipgloss"

// Styles describes reusable Lip Gloss styles shared by the collection widget
// and the demo browser.
type Styles struct {
	Cell               *lipgloss.Style
	CellIndicator      *lipgloss.Style
	HighlightedCell    *lipgloss.Style
	HighlightIndicator *lipgloss.Style
	SelectedCell       *lipgloss.Style
	FreshCell          *lipgloss.Style
	SectionHeader      *lipgloss.Style
	Empty              *lipgloss.Style
	MenuBorder         *lipgloss.Style
	MenuTitle          *lipgloss.Style
	MenuAction         *lipgloss.Style
	MenuActionActive   *lipgloss.Style
	MenuDestructive    *lipgloss.Style
	Info               *lipgloss.Style
	Error              *lipgloss.Style
	Header             *lipgloss.Style
	Footer             *lipgloss.Style
	Filter             *lipgloss.Style
	FilterPrompt       *lipgloss.Style
	FilterPlaceholder  *lipgloss.Style
	Cursor             *lipgloss.Style
}

var defaultStyles = Styles{
	Cell: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	CellIndicator: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
	),
	HighlightedCell: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("238")).Bold(true),
	),
	HighlightIndicator: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Background(lipgloss.Color("238")),
	),
	SelectedCell: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
	),
	FreshCell: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("34")).Italic(true),
	),
	SectionHeader: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true),
	),
	Empty: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true),
	),
	MenuBorder: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	),
	MenuTitle: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true),
	),
	MenuAction: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
	),
	MenuActionActive: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("238")),
	),
	MenuDestructive: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	),
	Info: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	Error: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	),
	Header: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true),
	),
	Footer: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	Filter: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	FilterPrompt: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("34")).Bold(true),
	),
	FilterPlaceholder: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	),
	Cursor: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("33")).Blink(true),
	),
}

// Background colours used for list appearances.
var (
	SystemBackground        = lipgloss.AdaptiveColor{Light: "255", Dark: "233"}
	SystemGroupedBackground = lipgloss.AdaptiveColor{Light: "254", Dark: "235"}
)

// Default exposes the standard style set.
func Default() *Styles {
	return &defaultStyles
}

func ptr(style lipgloss.Style) *lipgloss.Style {
	return &style
}
