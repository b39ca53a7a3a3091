package collection

import (
	"github.com/atomicstack/collectionview/widget"
	tea "github.com/charmbracelet/bubbletea"
)

type (
	// PathHandler is told about an event on one cell.
	PathHandler func(h widget.Handle, path IndexPath)
	// PathPredicate gates an interaction on one cell.
	PathPredicate func(h widget.Handle, path IndexPath) bool
	// CellHandler is told about a cell entering or leaving the viewport.
	CellHandler func(h widget.Handle, cell *widget.Cell, path IndexPath)
	// MenuProvider returns the context menu for paths, or nil for none.
	MenuProvider func(paths []IndexPath, point widget.Point) *widget.ContextMenu
	// MenuHandler is told about a context menu being shown or dismissed.
	MenuHandler func(menu *widget.ContextMenu)
	// PrefetchHandler is told about paths entering or leaving the prefetch
	// window.
	PrefetchHandler func(paths []IndexPath)
)

// Handlers holds the optional interaction callbacks of a View. A nil
// predicate allows the interaction.
type Handlers struct {
	DidSelect       PathHandler
	ShouldSelect    PathPredicate
	ShouldDeselect  PathPredicate
	ShouldHighlight PathPredicate
	DidHighlight    PathHandler
	DidUnhighlight  PathHandler

	ShouldBeginMultipleSelection PathPredicate
	DidBeginMultipleSelection    PathHandler
	DidEndMultipleSelection      func()

	WillDisplay      CellHandler
	DidEndDisplaying CellHandler

	ContextMenu              MenuProvider
	WillDisplayContextMenu   MenuHandler
	WillEndContextMenu       MenuHandler
	WillPerformPreviewAction func(menu *widget.ContextMenu) tea.Cmd

	Prefetch       PrefetchHandler
	CancelPrefetch PrefetchHandler
}

// OnSelect runs fn after the user selects a cell.
func (v View[S, I]) OnSelect(fn PathHandler) View[S, I] {
	v.handlers.DidSelect = fn
	return v
}

func (v View[S, I]) OnShouldSelect(fn PathPredicate) View[S, I] {
	v.handlers.ShouldSelect = fn
	return v
}

func (v View[S, I]) OnShouldDeselect(fn PathPredicate) View[S, I] {
	v.handlers.ShouldDeselect = fn
	return v
}

func (v View[S, I]) OnShouldHighlight(fn PathPredicate) View[S, I] {
	v.handlers.ShouldHighlight = fn
	return v
}

func (v View[S, I]) OnHighlight(fn PathHandler) View[S, I] {
	v.handlers.DidHighlight = fn
	return v
}

func (v View[S, I]) OnUnhighlight(fn PathHandler) View[S, I] {
	v.handlers.DidUnhighlight = fn
	return v
}

// OnShouldBeginMultipleSelection gates the shift-extend gesture.
func (v View[S, I]) OnShouldBeginMultipleSelection(fn PathPredicate) View[S, I] {
	v.handlers.ShouldBeginMultipleSelection = fn
	return v
}

func (v View[S, I]) OnBeginMultipleSelection(fn PathHandler) View[S, I] {
	v.handlers.DidBeginMultipleSelection = fn
	return v
}

func (v View[S, I]) OnEndMultipleSelection(fn func()) View[S, I] {
	v.handlers.DidEndMultipleSelection = fn
	return v
}

func (v View[S, I]) OnWillDisplay(fn CellHandler) View[S, I] {
	v.handlers.WillDisplay = fn
	return v
}

func (v View[S, I]) OnEndDisplaying(fn CellHandler) View[S, I] {
	v.handlers.DidEndDisplaying = fn
	return v
}

// ContextMenu supplies the menu opened with the menu key or a right click.
func (v View[S, I]) ContextMenu(fn MenuProvider) View[S, I] {
	v.handlers.ContextMenu = fn
	return v
}

func (v View[S, I]) OnContextMenuDisplay(fn MenuHandler) View[S, I] {
	v.handlers.WillDisplayContextMenu = fn
	return v
}

func (v View[S, I]) OnContextMenuEnd(fn MenuHandler) View[S, I] {
	v.handlers.WillEndContextMenu = fn
	return v
}

func (v View[S, I]) OnPreviewAction(fn func(menu *widget.ContextMenu) tea.Cmd) View[S, I] {
	v.handlers.WillPerformPreviewAction = fn
	return v
}

func (v View[S, I]) OnPrefetch(fn PrefetchHandler) View[S, I] {
	v.handlers.Prefetch = fn
	return v
}

func (v View[S, I]) OnCancelPrefetch(fn PrefetchHandler) View[S, I] {
	v.handlers.CancelPrefetch = fn
	return v
}
