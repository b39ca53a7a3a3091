package widget

import (
	"slices"

	"github.com/atomicstack/collectionview/internal/logging/events"
	"github.com/atomicstack/collectionview/snapshot"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

const wheelStep = 3

// Update handles keyboard, mouse and transition messages addressed to the
// grid.
func (g *Grid[S, I]) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case TransitionMsg:
		if msg.grid == g.id && msg.generation == g.generation {
			clear(g.fresh)
		}
		return nil
	case tea.KeyMsg:
		if g.menu != nil {
			return g.handleMenuKey(msg)
		}
		return g.handleKey(msg)
	case tea.MouseMsg:
		return g.handleMouse(msg)
	}
	return nil
}

func (g *Grid[S, I]) handleKey(msg tea.KeyMsg) tea.Cmd {
	extend := key.Matches(msg, g.keys.ExtendUp, g.keys.ExtendDown, g.keys.ExtendLeft, g.keys.ExtendRight)
	if !extend && g.extending {
		g.endMultipleSelection()
	}
	switch {
	case key.Matches(msg, g.keys.ExtendUp):
		g.extendSelection(func() IndexPath { return g.verticalTarget(-1) })
	case key.Matches(msg, g.keys.ExtendDown):
		g.extendSelection(func() IndexPath { return g.verticalTarget(1) })
	case key.Matches(msg, g.keys.ExtendLeft):
		g.extendSelection(func() IndexPath { return g.linearTarget(-1) })
	case key.Matches(msg, g.keys.ExtendRight):
		g.extendSelection(func() IndexPath { return g.linearTarget(1) })
	case key.Matches(msg, g.keys.Up):
		g.moveCursor(g.verticalTarget(-1))
	case key.Matches(msg, g.keys.Down):
		g.moveCursor(g.verticalTarget(1))
	case key.Matches(msg, g.keys.Left):
		g.moveCursor(g.linearTarget(-1))
	case key.Matches(msg, g.keys.Right):
		g.moveCursor(g.linearTarget(1))
	case key.Matches(msg, g.keys.PageUp):
		g.moveCursor(g.verticalTarget(-g.cellRowsPerPage()))
	case key.Matches(msg, g.keys.PageDown):
		g.moveCursor(g.verticalTarget(g.cellRowsPerPage()))
	case key.Matches(msg, g.keys.Home):
		if paths := g.orderedPaths(); len(paths) > 0 {
			g.moveCursor(paths[0])
		}
	case key.Matches(msg, g.keys.End):
		if paths := g.orderedPaths(); len(paths) > 0 {
			g.moveCursor(paths[len(paths)-1])
		}
	case key.Matches(msg, g.keys.Toggle):
		if g.hasCursor {
			g.toggle(g.cursor)
		}
	case key.Matches(msg, g.keys.Menu):
		if g.hasCursor {
			g.openMenu(g.pointFor(g.cursor))
		}
	}
	return nil
}

func (g *Grid[S, I]) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if msg.Action != tea.MouseActionPress {
		return nil
	}
	if g.menu != nil {
		g.closeMenu()
		return nil
	}
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		g.scrollBy(-wheelStep)
	case tea.MouseButtonWheelDown:
		g.scrollBy(wheelStep)
	case tea.MouseButtonLeft:
		if p, ok := g.hitTest(msg.X, msg.Y); ok {
			g.moveCursor(p)
			g.toggle(p)
		}
	case tea.MouseButtonRight:
		if p, ok := g.hitTest(msg.X, msg.Y); ok {
			g.moveCursor(p)
			g.openMenu(Point{X: msg.X, Y: msg.Y})
		}
	}
	return nil
}

// hitTest maps a screen coordinate to the cell under it.
func (g *Grid[S, I]) hitTest(x, y int) (IndexPath, bool) {
	rows := g.rows()
	start, end := g.visibleRange(len(rows))
	r := start + y - g.originY
	if y < g.originY || r >= end {
		return IndexPath{}, false
	}
	target := rows[r]
	if target.kind != rowCells {
		return IndexPath{}, false
	}
	rx := x - g.originX - g.layout.Inset()
	if rx < 0 {
		return IndexPath{}, false
	}
	col := rx / g.cellWidth()
	if col >= target.count {
		return IndexPath{}, false
	}
	return snapshot.Path(target.section, target.first+col), true
}

// pointFor returns the screen coordinate of the cell at p.
func (g *Grid[S, I]) pointFor(p IndexPath) Point {
	rows := g.rows()
	r := rowOf(rows, p)
	if r < 0 {
		return Point{X: g.originX, Y: g.originY}
	}
	col := p.Item - rows[r].first
	return Point{
		X: g.originX + g.layout.Inset() + col*g.cellWidth(),
		Y: g.originY + r - g.offset,
	}
}

func (g *Grid[S, I]) cellRowsPerPage() int {
	rows := g.rows()
	page := g.pageRows(len(rows))
	cells := 0
	for _, r := range rows[:min(page, len(rows))] {
		if r.kind == rowCells {
			cells++
		}
	}
	return max(cells, 1)
}

// verticalTarget moves delta cell rows, keeping the column where the target
// row is wide enough.
func (g *Grid[S, I]) verticalTarget(delta int) IndexPath {
	if !g.hasCursor {
		return g.clampPath(IndexPath{})
	}
	rows := g.rows()
	r := rowOf(rows, g.cursor)
	if r < 0 {
		return g.cursor
	}
	col := g.cursor.Item - rows[r].first
	step := 1
	if delta < 0 {
		step = -1
	}
	target := r
	for remaining := delta * step; remaining > 0; {
		next := target + step
		for next >= 0 && next < len(rows) && rows[next].kind != rowCells {
			next += step
		}
		if next < 0 || next >= len(rows) {
			break
		}
		target = next
		remaining--
	}
	dest := rows[target]
	return snapshot.Path(dest.section, dest.first+min(col, dest.count-1))
}

// linearTarget moves delta items in reading order.
func (g *Grid[S, I]) linearTarget(delta int) IndexPath {
	paths := g.orderedPaths()
	if len(paths) == 0 {
		return IndexPath{}
	}
	if !g.hasCursor {
		return paths[0]
	}
	i := slices.Index(paths, g.cursor)
	if i < 0 {
		return g.clampPath(g.cursor)
	}
	return paths[min(max(i+delta, 0), len(paths)-1)]
}

// moveCursor focuses p and moves the highlight with it.
func (g *Grid[S, I]) moveCursor(p IndexPath) {
	id, ok := g.identityAt(p)
	if !ok {
		return
	}
	if g.hasCursor && g.cursor == p {
		return
	}
	if g.hasHighlight {
		old, ok := g.loc[g.highlightID]
		g.hasHighlight = false
		g.highlightID = nil
		if ok {
			g.delegate.DidUnhighlight(g, old)
		}
	}
	g.cursor = p
	g.hasCursor = true
	if g.delegate.ShouldHighlight(g, p) {
		g.highlightID = id
		g.hasHighlight = true
		g.delegate.DidHighlight(g, p)
	}
	events.Widget.Cursor(g.id, p.String())
	g.ensureCursorVisible()
	g.refreshDisplay()
}

// toggle is the user selection gesture on p. A selected item is
// deselected in multiple selection mode and selected again otherwise.
func (g *Grid[S, I]) toggle(p IndexPath) {
	if !g.allowsSelection {
		return
	}
	id, ok := g.identityAt(p)
	if !ok {
		return
	}
	if _, on := g.selected[id]; on && g.allowsMultiple {
		if !g.delegate.ShouldDeselect(g, p) {
			return
		}
		delete(g.selected, id)
		events.Widget.Select(g.id, p.String(), false)
		g.delegate.DidDeselect(g, p)
		return
	}
	g.userSelect(p, id)
}

func (g *Grid[S, I]) userSelect(p IndexPath, id any) {
	if !g.delegate.ShouldSelect(g, p) {
		return
	}
	if !g.allowsMultiple {
		for _, other := range g.IndexPathsForSelectedItems() {
			if other == p {
				continue
			}
			otherID, _ := g.identityAt(other)
			delete(g.selected, otherID)
			events.Widget.Select(g.id, other.String(), false)
			g.delegate.DidDeselect(g, other)
		}
	}
	g.selected[id] = struct{}{}
	events.Widget.Select(g.id, p.String(), true)
	g.delegate.DidSelect(g, p)
}

// extendSelection runs one step of the multiple selection interaction:
// the first step asks the delegate to begin, then every cell the cursor
// passes over is selected.
func (g *Grid[S, I]) extendSelection(target func() IndexPath) {
	if !g.allowsMultiple || !g.hasCursor {
		g.moveCursor(target())
		return
	}
	if !g.extending {
		if !g.delegate.ShouldBeginMultipleSelectionInteraction(g, g.cursor) {
			g.moveCursor(target())
			return
		}
		g.extending = true
		g.delegate.DidBeginMultipleSelectionInteraction(g, g.cursor)
		g.selectIfNeeded(g.cursor)
	}
	g.moveCursor(target())
	g.selectIfNeeded(g.cursor)
}

func (g *Grid[S, I]) selectIfNeeded(p IndexPath) {
	id, ok := g.identityAt(p)
	if !ok {
		return
	}
	if _, on := g.selected[id]; on {
		return
	}
	g.userSelect(p, id)
}

func (g *Grid[S, I]) endMultipleSelection() {
	g.extending = false
	g.delegate.DidEndMultipleSelectionInteraction(g)
}

// InMultipleSelectionInteraction reports whether an extend gesture is in
// progress.
func (g *Grid[S, I]) InMultipleSelectionInteraction() bool { return g.extending }
