package collection

import (
	"github.com/atomicstack/collectionview/internal/logging/events"
	"github.com/atomicstack/collectionview/snapshot"
	"github.com/atomicstack/collectionview/widget"
	tea "github.com/charmbracelet/bubbletea"
)

// Coordinator relays grid events back to the current View: user selection
// is written to the selection binding and every event is forwarded to the
// matching handler.
type Coordinator[S, I comparable] struct {
	parent View[S, I]
}

var (
	_ widget.Delegate           = (*Coordinator[string, string])(nil)
	_ widget.PrefetchDataSource = (*Coordinator[string, string])(nil)
)

func (c *Coordinator[S, I]) ShouldSelect(h widget.Handle, p IndexPath) bool {
	return allow(c.parent.handlers.ShouldSelect, h, p)
}

// DidSelect resolves the item at p against the bound data and adds it to
// the selection. Single selection replaces the previous member. A path
// that no longer resolves leaves the selection alone.
func (c *Coordinator[S, I]) DidSelect(h widget.Handle, p IndexPath) {
	v := c.parent
	if v.mode != SelectionNone {
		item, ok := snapshot.ItemAt(v.data.Get(), p)
		events.Relay.Select(p.String(), ok)
		if ok {
			var next Set[I]
			if v.mode == SelectionMultiple {
				next = v.selection.Get().Clone()
			}
			next.Add(item)
			v.selection.Set(next)
		}
	}
	if v.handlers.DidSelect != nil {
		v.handlers.DidSelect(h, p)
	}
}

func (c *Coordinator[S, I]) ShouldDeselect(h widget.Handle, p IndexPath) bool {
	return allow(c.parent.handlers.ShouldDeselect, h, p)
}

// DidDeselect removes the item at p from the selection.
func (c *Coordinator[S, I]) DidDeselect(h widget.Handle, p IndexPath) {
	v := c.parent
	if v.mode == SelectionNone {
		return
	}
	item, ok := snapshot.ItemAt(v.data.Get(), p)
	events.Relay.Deselect(p.String(), ok)
	if !ok {
		return
	}
	current := v.selection.Get()
	if !current.Has(item) {
		return
	}
	next := current.Clone()
	next.Remove(item)
	v.selection.Set(next)
}

func (c *Coordinator[S, I]) ShouldHighlight(h widget.Handle, p IndexPath) bool {
	return allow(c.parent.handlers.ShouldHighlight, h, p)
}

func (c *Coordinator[S, I]) DidHighlight(h widget.Handle, p IndexPath) {
	call(c.parent.handlers.DidHighlight, h, p)
}

func (c *Coordinator[S, I]) DidUnhighlight(h widget.Handle, p IndexPath) {
	call(c.parent.handlers.DidUnhighlight, h, p)
}

func (c *Coordinator[S, I]) ShouldBeginMultipleSelectionInteraction(h widget.Handle, p IndexPath) bool {
	return allow(c.parent.handlers.ShouldBeginMultipleSelection, h, p)
}

func (c *Coordinator[S, I]) DidBeginMultipleSelectionInteraction(h widget.Handle, p IndexPath) {
	call(c.parent.handlers.DidBeginMultipleSelection, h, p)
}

func (c *Coordinator[S, I]) DidEndMultipleSelectionInteraction(widget.Handle) {
	if fn := c.parent.handlers.DidEndMultipleSelection; fn != nil {
		fn()
	}
}

func (c *Coordinator[S, I]) WillDisplay(h widget.Handle, cell *widget.Cell, p IndexPath) {
	if fn := c.parent.handlers.WillDisplay; fn != nil {
		fn(h, cell, p)
	}
}

func (c *Coordinator[S, I]) DidEndDisplaying(h widget.Handle, cell *widget.Cell, p IndexPath) {
	if fn := c.parent.handlers.DidEndDisplaying; fn != nil {
		fn(h, cell, p)
	}
}

func (c *Coordinator[S, I]) ContextMenuConfiguration(_ widget.Handle, paths []IndexPath, point widget.Point) *widget.ContextMenu {
	if fn := c.parent.handlers.ContextMenu; fn != nil {
		return fn(paths, point)
	}
	return nil
}

func (c *Coordinator[S, I]) WillDisplayContextMenu(_ widget.Handle, menu *widget.ContextMenu) {
	if fn := c.parent.handlers.WillDisplayContextMenu; fn != nil {
		fn(menu)
	}
}

func (c *Coordinator[S, I]) WillEndContextMenu(_ widget.Handle, menu *widget.ContextMenu) {
	if fn := c.parent.handlers.WillEndContextMenu; fn != nil {
		fn(menu)
	}
}

func (c *Coordinator[S, I]) WillPerformPreviewAction(_ widget.Handle, menu *widget.ContextMenu) tea.Cmd {
	if fn := c.parent.handlers.WillPerformPreviewAction; fn != nil {
		return fn(menu)
	}
	return nil
}

func (c *Coordinator[S, I]) PrefetchItems(_ widget.Handle, paths []IndexPath) {
	if fn := c.parent.handlers.Prefetch; fn != nil {
		fn(paths)
	}
}

func (c *Coordinator[S, I]) CancelPrefetching(_ widget.Handle, paths []IndexPath) {
	if fn := c.parent.handlers.CancelPrefetch; fn != nil {
		fn(paths)
	}
}

func allow(fn PathPredicate, h widget.Handle, p IndexPath) bool {
	return fn == nil || fn(h, p)
}

func call(fn PathHandler, h widget.Handle, p IndexPath) {
	if fn != nil {
		fn(h, p)
	}
}
