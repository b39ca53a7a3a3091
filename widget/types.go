// Package widget implements Grid, an imperative terminal collection widget
// for Bubble Tea programs. A Grid owns its displayed content, the live
// selection, the highlighted and focused cells and the viewport. Content
// changes arrive as snapshot changesets; user interaction is reported
// through a Delegate.
package widget

import (
	"github.com/atomicstack/collectionview/snapshot"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// IndexPath locates a cell by section and item position.
type IndexPath = snapshot.IndexPath

// CellState is the interaction state a cell is configured for.
type CellState struct {
	Selected    bool
	Highlighted bool
	Focused     bool
	Disabled    bool
}

// Cell is the configurable presentation of one item. Providers fill in
// Content and optionally override the background or the whole style.
type Cell struct {
	Path       IndexPath
	State      CellState
	Content    string
	Background lipgloss.TerminalColor
	Style      *lipgloss.Style
}

// CellProvider configures cell for the item at path.
type CellProvider[I any] func(cell *Cell, path IndexPath, item I)

// ScrollPosition controls where a programmatically selected item is
// scrolled to.
type ScrollPosition int

const (
	ScrollNone ScrollPosition = iota
	ScrollTop
	ScrollCenteredVertically
	ScrollBottom
)

// Point is a terminal cell coordinate.
type Point struct {
	X, Y int
}

// MenuAction is one entry of a context menu.
type MenuAction struct {
	Title       string
	Destructive bool
	Perform     func() tea.Cmd
}

// ContextMenu describes the menu shown for one or more items. Preview is
// optional text rendered above the actions; choosing it triggers
// WillPerformPreviewAction.
type ContextMenu struct {
	Identifier string
	Title      string
	Preview    string
	Actions    []MenuAction
}

// Alignment positions a background view inside the grid.
type Alignment struct {
	Horizontal lipgloss.Position
	Vertical   lipgloss.Position
}

// Center is the default background view alignment.
var Center = Alignment{Horizontal: lipgloss.Center, Vertical: lipgloss.Center}

// Handle is the non-generic view of a Grid handed to delegate callbacks.
type Handle interface {
	NumberOfSections() int
	NumberOfItems(section int) int
	IndexPathsForSelectedItems() []IndexPath
	IndexPathsForVisibleItems() []IndexPath
	CursorIndexPath() (IndexPath, bool)
	AllowsSelection() bool
	AllowsMultipleSelection() bool
	Size() (width, height int)
	SelectItem(path IndexPath, animated bool, scroll ScrollPosition)
	DeselectItem(path IndexPath, animated bool)
	ScrollToItem(path IndexPath, scroll ScrollPosition)
}
