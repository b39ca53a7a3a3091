package widget

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Capabilities describes what the terminal can show. It is resolved once,
// when a view is constructed.
type Capabilities struct {
	// StatefulCells is true when cell state can be conveyed through colour,
	// so state-dependent cell configuration is worth running.
	StatefulCells bool
}

// DetectCapabilities inspects the output's colour profile.
func DetectCapabilities() Capabilities {
	return Capabilities{StatefulCells: lipgloss.ColorProfile() != termenv.Ascii}
}
