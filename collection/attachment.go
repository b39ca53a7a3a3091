package collection

import (
	"github.com/atomicstack/collectionview/internal/logging/events"
	"github.com/atomicstack/collectionview/snapshot"
	"github.com/atomicstack/collectionview/widget"
	tea "github.com/charmbracelet/bubbletea"
)

// Attachment binds a View to the Grid it drives. Every update pass mirrors
// the background, applies the content diff and reconciles the selection,
// in that order.
type Attachment[S, I comparable] struct {
	view   View[S, I]
	grid   *widget.Grid[S, I]
	coord  *Coordinator[S, I]
	cached snapshot.Snapshot[S, I]

	subscriptions []func()
	dirty         bool
	updating      bool
	dismantled    bool
}

// Make creates the grid for v and runs the first update pass. A zero
// height shows every row.
func (v View[S, I]) Make(width, height int) *Attachment[S, I] {
	coord := &Coordinator[S, I]{parent: v}
	opts := append(v.widgetOptions(width, height),
		widget.WithDelegate(coord),
		widget.WithPrefetchDataSource(coord),
	)
	a := &Attachment[S, I]{
		view:  v,
		coord: coord,
		grid:  widget.New[S, I](v.layout, v.provider(), opts...),
	}
	a.Update(v)
	return a
}

// Grid exposes the driven widget.
func (a *Attachment[S, I]) Grid() *widget.Grid[S, I] { return a.grid }

// View renders the grid.
func (a *Attachment[S, I]) View() string { return a.grid.View() }

// Update swaps in the current description and runs an update pass.
func (a *Attachment[S, I]) Update(v View[S, I]) tea.Cmd {
	if a.dismantled {
		return nil
	}
	a.view = v
	a.coord.parent = v
	a.grid.SetLayout(v.layout)
	a.grid.SetProvider(v.provider())
	a.subscribe()
	return a.pass()
}

// HandleMsg forwards msg to the grid and runs an update pass when a
// binding changed as a result.
func (a *Attachment[S, I]) HandleMsg(msg tea.Msg) tea.Cmd {
	if a.dismantled {
		return nil
	}
	cmd := a.grid.Update(msg)
	return tea.Batch(cmd, a.Sync())
}

// Sync runs an update pass if a binding changed since the last one.
func (a *Attachment[S, I]) Sync() tea.Cmd {
	if a.dismantled || !a.dirty {
		return nil
	}
	return a.pass()
}

// Dismantle stops observing the bindings.
func (a *Attachment[S, I]) Dismantle() {
	if a.dismantled {
		return
	}
	a.unsubscribe()
	a.dismantled = true
	a.cached = snapshot.Snapshot[S, I]{}
	a.grid.SetDelegate(nil)
	a.grid.SetPrefetchDataSource(nil)
	events.Collection.Dismantle()
}

func (a *Attachment[S, I]) subscribe() {
	a.unsubscribe()
	a.subscriptions = append(a.subscriptions,
		a.view.data.Subscribe(func(*snapshot.SectionMap[S, I]) { a.markDirty() }),
		a.view.selection.Subscribe(func(Set[I]) { a.markDirty() }),
	)
}

func (a *Attachment[S, I]) unsubscribe() {
	for _, cancel := range a.subscriptions {
		cancel()
	}
	a.subscriptions = nil
}

func (a *Attachment[S, I]) markDirty() {
	if !a.updating {
		a.dirty = true
	}
}

func (a *Attachment[S, I]) pass() tea.Cmd {
	a.dirty = false
	a.updating = true
	defer func() { a.updating = false }()

	v := a.view
	changed := a.grid.SetBackgroundColor(v.background)
	changed = a.grid.SetBackgroundView(v.backgroundView, v.backgroundAlign) || changed
	events.Collection.Background(changed)

	var cmd tea.Cmd
	target := snapshot.FromMap(v.data.Get())
	if cs := snapshot.Diff(a.cached, target); !cs.IsEmpty() {
		animated := !a.cached.IsEmpty()
		events.Collection.Apply(cs.String(), animated)
		cmd = a.grid.Apply(cs, animated)
	}
	a.cached = target

	if v.mode != SelectionNone {
		a.reconcile()
	}
	return cmd
}

// reconcile makes the grid's live selection match the selection binding.
// Members no longer present in the content are pruned from the binding.
func (a *Attachment[S, I]) reconcile() {
	selection := a.view.selection.Get()
	desired := make([]IndexPath, 0, selection.Len())
	want := make(map[IndexPath]struct{}, selection.Len())
	var stale []I
	for _, item := range selection.Items() {
		p, ok := a.grid.IndexPathFor(item)
		if !ok {
			stale = append(stale, item)
			continue
		}
		desired = append(desired, p)
		want[p] = struct{}{}
	}

	current := a.grid.IndexPathsForSelectedItems()
	have := make(map[IndexPath]struct{}, len(current))
	deselected, selected := 0, 0
	for _, p := range current {
		have[p] = struct{}{}
		if _, ok := want[p]; !ok {
			a.grid.DeselectItem(p, true)
			deselected++
		}
	}
	for _, p := range desired {
		if _, ok := have[p]; !ok {
			a.grid.SelectItem(p, true, widget.ScrollCenteredVertically)
			selected++
		}
	}
	if deselected > 0 || selected > 0 || len(stale) > 0 {
		events.Collection.Reconcile(deselected, selected, len(stale))
	}

	if len(stale) > 0 {
		pruned := selection.Clone()
		for _, item := range stale {
			pruned.Remove(item)
		}
		a.view.selection.Set(pruned)
	}
}
