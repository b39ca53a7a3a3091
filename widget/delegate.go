package widget

import tea "github.com/charmbracelet/bubbletea"

// Delegate receives interaction events from a Grid. Predicates gate the
// matching interaction; notifications are informational.
type Delegate interface {
	ShouldSelect(h Handle, path IndexPath) bool
	DidSelect(h Handle, path IndexPath)
	ShouldDeselect(h Handle, path IndexPath) bool
	DidDeselect(h Handle, path IndexPath)

	ShouldHighlight(h Handle, path IndexPath) bool
	DidHighlight(h Handle, path IndexPath)
	DidUnhighlight(h Handle, path IndexPath)

	ShouldBeginMultipleSelectionInteraction(h Handle, path IndexPath) bool
	DidBeginMultipleSelectionInteraction(h Handle, path IndexPath)
	DidEndMultipleSelectionInteraction(h Handle)

	WillDisplay(h Handle, cell *Cell, path IndexPath)
	DidEndDisplaying(h Handle, cell *Cell, path IndexPath)

	// ContextMenuConfiguration returns the menu for paths, or nil to
	// suppress it. point is where the menu was requested.
	ContextMenuConfiguration(h Handle, paths []IndexPath, point Point) *ContextMenu
	WillDisplayContextMenu(h Handle, menu *ContextMenu)
	WillEndContextMenu(h Handle, menu *ContextMenu)
	WillPerformPreviewAction(h Handle, menu *ContextMenu) tea.Cmd
}

// PrefetchDataSource is told about items about to scroll into view and
// about items that left the prefetch window without being displayed.
type PrefetchDataSource interface {
	PrefetchItems(h Handle, paths []IndexPath)
	CancelPrefetching(h Handle, paths []IndexPath)
}

// NopDelegate answers every predicate with true and ignores every
// notification. Embed it to implement only part of Delegate.
type NopDelegate struct{}

func (NopDelegate) ShouldSelect(Handle, IndexPath) bool   { return true }
func (NopDelegate) DidSelect(Handle, IndexPath)           {}
func (NopDelegate) ShouldDeselect(Handle, IndexPath) bool { return true }
func (NopDelegate) DidDeselect(Handle, IndexPath)         {}

func (NopDelegate) ShouldHighlight(Handle, IndexPath) bool { return true }
func (NopDelegate) DidHighlight(Handle, IndexPath)         {}
func (NopDelegate) DidUnhighlight(Handle, IndexPath)       {}

func (NopDelegate) ShouldBeginMultipleSelectionInteraction(Handle, IndexPath) bool { return true }
func (NopDelegate) DidBeginMultipleSelectionInteraction(Handle, IndexPath)         {}
func (NopDelegate) DidEndMultipleSelectionInteraction(Handle)                      {}

func (NopDelegate) WillDisplay(Handle, *Cell, IndexPath)      {}
func (NopDelegate) DidEndDisplaying(Handle, *Cell, IndexPath) {}

func (NopDelegate) ContextMenuConfiguration(Handle, []IndexPath, Point) *ContextMenu { return nil }
func (NopDelegate) WillDisplayContextMenu(Handle, *ContextMenu)                      {}
func (NopDelegate) WillEndContextMenu(Handle, *ContextMenu)                          {}
func (NopDelegate) WillPerformPreviewAction(Handle, *ContextMenu) tea.Cmd            { return nil }
