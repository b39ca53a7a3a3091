package widget

import (
	"fmt"
	"slices"
	"sync/atomic"
	"time"

	"github.com/atomicstack/collectionview/internal/logging/events"
	"github.com/atomicstack/collectionview/internal/theme"
	"github.com/atomicstack/collectionview/snapshot"
	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// TransitionDuration is how long inserted, moved and reloaded cells keep
// their fresh style after an animated apply.
var TransitionDuration = 400 * time.Millisecond

const defaultWidth = 80

var gridIDs atomic.Int64

// TransitionMsg ends the transition started by an animated Apply.
type TransitionMsg struct {
	grid       int64
	generation int
}

type tracked[I any] struct {
	path IndexPath
	item I
}

// Grid displays sections of items in rows and columns.
type Grid[S, I comparable] struct {
	id         int64
	layout     Layout
	provider   CellProvider[I]
	delegate   Delegate
	prefetcher PrefetchDataSource
	styles     *theme.Styles
	keys       KeyMap
	help       help.Model
	showHelp   bool
	title      func(key any) string

	allowsSelection bool
	allowsMultiple  bool

	content snapshot.Snapshot[S, I]
	loc     snapshot.Locator

	width, height    int
	originX, originY int
	offset           int

	cursor       IndexPath
	hasCursor    bool
	highlightID  any
	hasHighlight bool
	selected     map[any]struct{}
	extending    bool

	fresh      map[any]struct{}
	generation int

	displayed  map[any]tracked[I]
	prefetched map[any]tracked[I]

	menu *menuState

	background      lipgloss.TerminalColor
	backgroundView  string
	backgroundAlign Alignment
}

// Option configures a Grid at construction.
type Option func(*settings)

type settings struct {
	delegate        Delegate
	prefetcher      PrefetchDataSource
	styles          *theme.Styles
	keys            *KeyMap
	showHelp        bool
	title           func(key any) string
	allowsSelection bool
	allowsMultiple  bool
	width, height   int
}

// WithDelegate routes interaction events to d.
func WithDelegate(d Delegate) Option {
	return func(s *settings) { s.delegate = d }
}

// WithPrefetchDataSource routes prefetch events to p.
func WithPrefetchDataSource(p PrefetchDataSource) Option {
	return func(s *settings) { s.prefetcher = p }
}

// WithStyles replaces the default theme.
func WithStyles(styles *theme.Styles) Option {
	return func(s *settings) { s.styles = styles }
}

// WithKeyMap replaces the default bindings.
func WithKeyMap(k KeyMap) Option {
	return func(s *settings) { s.keys = &k }
}

// WithHelp renders a one line key hint below the cells.
func WithHelp(show bool) Option {
	return func(s *settings) { s.showHelp = show }
}

// WithSectionTitles formats section keys for headers.
func WithSectionTitles(title func(key any) string) Option {
	return func(s *settings) { s.title = title }
}

// WithSelection fixes the selection behaviour for the grid's lifetime.
func WithSelection(allows, multiple bool) Option {
	return func(s *settings) {
		s.allowsSelection = allows
		s.allowsMultiple = allows && multiple
	}
}

// WithSize sets the initial size. Zero height shows every row.
func WithSize(width, height int) Option {
	return func(s *settings) {
		s.width = width
		s.height = height
	}
}

// New builds an empty grid. Content arrives through Apply.
func New[S, I comparable](layout Layout, provider CellProvider[I], opts ...Option) *Grid[S, I] {
	cfg := settings{allowsSelection: true}
	for _, opt := range opts {
		opt(&cfg)
	}
	if layout == nil {
		layout = ListLayout{}
	}
	g := &Grid[S, I]{
		id:              gridIDs.Add(1),
		layout:          layout,
		provider:        provider,
		delegate:        cfg.delegate,
		prefetcher:      cfg.prefetcher,
		styles:          cfg.styles,
		keys:            DefaultKeyMap(),
		help:            help.New(),
		showHelp:        cfg.showHelp,
		title:           cfg.title,
		allowsSelection: cfg.allowsSelection,
		allowsMultiple:  cfg.allowsMultiple,
		width:           cfg.width,
		height:          cfg.height,
		loc:             snapshot.Locator{},
		selected:        map[any]struct{}{},
		fresh:           map[any]struct{}{},
		displayed:       map[any]tracked[I]{},
		prefetched:      map[any]tracked[I]{},
		backgroundAlign: Center,
	}
	if g.delegate == nil {
		g.delegate = NopDelegate{}
	}
	if g.styles == nil {
		g.styles = theme.Default()
	}
	if cfg.keys != nil {
		g.keys = *cfg.keys
	}
	if g.title == nil {
		g.title = func(key any) string { return fmt.Sprint(key) }
	}
	return g
}

// ID distinguishes grids in trace output.
func (g *Grid[S, I]) ID() int64 { return g.id }

// SetDelegate swaps the delegate. Nil restores the permissive default.
func (g *Grid[S, I]) SetDelegate(d Delegate) {
	if d == nil {
		d = NopDelegate{}
	}
	g.delegate = d
}

// SetPrefetchDataSource swaps the prefetch receiver.
func (g *Grid[S, I]) SetPrefetchDataSource(p PrefetchDataSource) {
	g.prefetcher = p
}

// SetProvider replaces the cell provider used from the next render on.
func (g *Grid[S, I]) SetProvider(provider CellProvider[I]) {
	g.provider = provider
}

// SetLayout replaces the layout and keeps the cursor in view.
func (g *Grid[S, I]) SetLayout(layout Layout) {
	if layout == nil {
		return
	}
	g.layout = layout
	g.ensureCursorVisible()
	g.refreshDisplay()
}

// SetSize resizes the grid. Zero height shows every row.
func (g *Grid[S, I]) SetSize(width, height int) {
	if width == g.width && height == g.height {
		return
	}
	g.width = width
	g.height = height
	g.help.Width = width
	g.ensureCursorVisible()
	g.refreshDisplay()
}

// SetOrigin tells the grid where its top-left corner sits on screen so
// mouse events can be mapped to cells.
func (g *Grid[S, I]) SetOrigin(x, y int) {
	g.originX = x
	g.originY = y
}

// Content returns the displayed snapshot.
func (g *Grid[S, I]) Content() snapshot.Snapshot[S, I] {
	return g.content.Clone()
}

func (g *Grid[S, I]) NumberOfSections() int { return g.content.NumberOfSections() }

func (g *Grid[S, I]) NumberOfItems(section int) int { return g.content.NumberOfItems(section) }

// IndexPathFor locates item in the displayed content by identity.
func (g *Grid[S, I]) IndexPathFor(item I) (IndexPath, bool) {
	p, ok := g.loc[snapshot.Identity(item)]
	return p, ok
}

// ItemAt resolves path against the displayed content.
func (g *Grid[S, I]) ItemAt(path IndexPath) (I, bool) { return g.content.ItemAt(path) }

func (g *Grid[S, I]) AllowsSelection() bool { return g.allowsSelection }

func (g *Grid[S, I]) AllowsMultipleSelection() bool { return g.allowsMultiple }

func (g *Grid[S, I]) Size() (int, int) { return g.width, g.height }

// CursorIndexPath reports the focused cell.
func (g *Grid[S, I]) CursorIndexPath() (IndexPath, bool) { return g.cursor, g.hasCursor }

// HighlightedIndexPath reports the highlighted cell, if any.
func (g *Grid[S, I]) HighlightedIndexPath() (IndexPath, bool) {
	if !g.hasHighlight {
		return IndexPath{}, false
	}
	p, ok := g.loc[g.highlightID]
	return p, ok
}

// IndexPathsForSelectedItems returns the live selection in display order.
func (g *Grid[S, I]) IndexPathsForSelectedItems() []IndexPath {
	if len(g.selected) == 0 {
		return nil
	}
	paths := make([]IndexPath, 0, len(g.selected))
	for id := range g.selected {
		if p, ok := g.loc[id]; ok {
			paths = append(paths, p)
		}
	}
	return snapshot.SortPaths(paths)
}

// IndexPathsForVisibleItems returns the cells inside the viewport.
func (g *Grid[S, I]) IndexPathsForVisibleItems() []IndexPath {
	rows := g.rows()
	start, end := g.visibleRange(len(rows))
	return pathsInRows(rows[start:end])
}

// Apply patches the displayed content with cs. Cell state of surviving
// items is kept; selection and highlight of deleted items are dropped.
// An animated apply marks changed cells fresh and returns the command that
// ends the transition.
func (g *Grid[S, I]) Apply(cs snapshot.Changeset[S, I], animated bool) tea.Cmd {
	if cs.IsEmpty() {
		return nil
	}
	var cursorID any
	hadCursor := g.hasCursor
	if hadCursor {
		if item, ok := g.content.ItemAt(g.cursor); ok {
			cursorID = snapshot.Identity(item)
		}
	}

	g.content = snapshot.Apply(g.content, cs)
	g.loc = g.content.Locator()

	for id := range g.selected {
		if _, ok := g.loc[id]; !ok {
			delete(g.selected, id)
		}
	}
	for id := range g.fresh {
		if _, ok := g.loc[id]; !ok {
			delete(g.fresh, id)
		}
	}
	if g.hasHighlight {
		if _, ok := g.loc[g.highlightID]; !ok {
			g.hasHighlight = false
			g.highlightID = nil
		}
	}
	switch p, ok := g.loc[cursorID]; {
	case g.content.IsEmpty():
		g.hasCursor = false
		g.cursor = IndexPath{}
	case hadCursor && cursorID != nil && ok:
		g.cursor = p
	case hadCursor:
		g.cursor = g.clampPath(g.cursor)
	default:
		g.cursor = g.clampPath(IndexPath{})
		g.hasCursor = true
	}
	g.clampOffset()

	events.Widget.Apply(g.id, cs.String(), animated)
	var cmd tea.Cmd
	if animated {
		for _, ch := range cs.Items {
			if ch.Kind != snapshot.Delete {
				g.fresh[snapshot.Identity(ch.Item)] = struct{}{}
			}
		}
		g.generation++
		msg := TransitionMsg{grid: g.id, generation: g.generation}
		cmd = tea.Tick(TransitionDuration, func(time.Time) tea.Msg { return msg })
	}
	g.refreshDisplay()
	return cmd
}

// IsFresh reports whether the item at path is still inside its transition.
func (g *Grid[S, I]) IsFresh(path IndexPath) bool {
	item, ok := g.content.ItemAt(path)
	if !ok {
		return false
	}
	_, fresh := g.fresh[snapshot.Identity(item)]
	return fresh
}

// SelectItem selects the item at path without consulting the delegate.
// In single selection mode the previous selection is replaced. animated
// has no visual effect in a terminal.
func (g *Grid[S, I]) SelectItem(path IndexPath, animated bool, scroll ScrollPosition) {
	if !g.allowsSelection {
		return
	}
	item, ok := g.content.ItemAt(path)
	if !ok {
		return
	}
	if !g.allowsMultiple {
		clear(g.selected)
	}
	g.selected[snapshot.Identity(item)] = struct{}{}
	g.ScrollToItem(path, scroll)
}

// DeselectItem deselects the item at path without consulting the delegate.
func (g *Grid[S, I]) DeselectItem(path IndexPath, animated bool) {
	item, ok := g.content.ItemAt(path)
	if !ok {
		return
	}
	delete(g.selected, snapshot.Identity(item))
}

// IsSelected reports whether the item at path is selected.
func (g *Grid[S, I]) IsSelected(path IndexPath) bool {
	item, ok := g.content.ItemAt(path)
	if !ok {
		return false
	}
	_, selected := g.selected[snapshot.Identity(item)]
	return selected
}

// ScrollToItem moves the viewport so the item at path sits at scroll.
func (g *Grid[S, I]) ScrollToItem(path IndexPath, scroll ScrollPosition) {
	if scroll == ScrollNone {
		return
	}
	rows := g.rows()
	r := rowOf(rows, path)
	if r < 0 {
		return
	}
	page := g.pageRows(len(rows))
	switch scroll {
	case ScrollTop:
		g.offset = r
	case ScrollCenteredVertically:
		g.offset = r - page/2
	case ScrollBottom:
		g.offset = r - page + 1
	}
	g.clampOffset()
	g.refreshDisplay()
}

// BackgroundColor returns the grid background, nil when unset.
func (g *Grid[S, I]) BackgroundColor() lipgloss.TerminalColor { return g.background }

// SetBackgroundColor sets the background behind cells and padding. It
// reports whether the value changed.
func (g *Grid[S, I]) SetBackgroundColor(color lipgloss.TerminalColor) bool {
	if sameColor(g.background, color) {
		return false
	}
	g.background = color
	return true
}

// SetBackgroundView sets content rendered when the grid has no items. It
// reports whether anything changed.
func (g *Grid[S, I]) SetBackgroundView(view string, align Alignment) bool {
	if view == g.backgroundView && align == g.backgroundAlign {
		return false
	}
	g.backgroundView = view
	g.backgroundAlign = align
	return true
}

func sameColor(a, b lipgloss.TerminalColor) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a == b
}

func (g *Grid[S, I]) identityAt(path IndexPath) (any, bool) {
	item, ok := g.content.ItemAt(path)
	if !ok {
		return nil, false
	}
	return snapshot.Identity(item), true
}

func (g *Grid[S, I]) stateOf(path IndexPath, id any) CellState {
	_, selected := g.selected[id]
	return CellState{
		Selected:    selected,
		Highlighted: g.hasHighlight && g.highlightID == id,
		Focused:     g.hasCursor && g.cursor == path,
		Disabled:    !g.allowsSelection,
	}
}

func (g *Grid[S, I]) cell(path IndexPath, item I) Cell {
	c := Cell{
		Path:    path,
		State:   g.stateOf(path, snapshot.Identity(item)),
		Content: fmt.Sprint(item),
	}
	if g.provider != nil {
		c.Content = ""
		g.provider(&c, path, item)
	}
	return c
}

// clampPath returns the nearest valid path to p, preferring later
// sections when p's section has become empty.
func (g *Grid[S, I]) clampPath(p IndexPath) IndexPath {
	n := g.content.NumberOfSections()
	if n == 0 {
		return IndexPath{}
	}
	section := min(max(p.Section, 0), n-1)
	for s := section; s < n; s++ {
		if count := g.content.NumberOfItems(s); count > 0 {
			if s != section {
				return snapshot.Path(s, 0)
			}
			return snapshot.Path(s, min(max(p.Item, 0), count-1))
		}
	}
	for s := section - 1; s >= 0; s-- {
		if count := g.content.NumberOfItems(s); count > 0 {
			return snapshot.Path(s, count-1)
		}
	}
	return IndexPath{}
}

func (g *Grid[S, I]) orderedPaths() []IndexPath {
	paths := make([]IndexPath, 0, g.content.ItemCount())
	for s, sec := range g.content.Sections {
		for i := range sec.Items {
			paths = append(paths, snapshot.Path(s, i))
		}
	}
	return paths
}

// refreshDisplay reconciles display and prefetch tracking with the
// current viewport.
func (g *Grid[S, I]) refreshDisplay() {
	rows := g.rows()
	start, end := g.visibleRange(len(rows))
	visible := pathsInRows(rows[start:end])

	next := make(map[any]tracked[I], len(visible))
	for _, p := range visible {
		item, _ := g.content.ItemAt(p)
		next[snapshot.Identity(item)] = tracked[I]{path: p, item: item}
	}

	var ended []tracked[I]
	for id, t := range g.displayed {
		if _, ok := next[id]; !ok {
			ended = append(ended, t)
		}
	}
	slices.SortFunc(ended, func(a, b tracked[I]) int { return a.path.Compare(b.path) })
	for _, t := range ended {
		c := g.cell(t.path, t.item)
		g.delegate.DidEndDisplaying(g, &c, t.path)
	}
	appeared := 0
	for _, p := range visible {
		item, _ := g.content.ItemAt(p)
		if _, ok := g.displayed[snapshot.Identity(item)]; ok {
			continue
		}
		appeared++
		c := g.cell(p, item)
		g.delegate.WillDisplay(g, &c, p)
	}
	g.displayed = next
	events.Widget.Display(g.id, appeared, len(ended))

	page := end - start
	windowEnd := min(end+page, len(rows))
	window := pathsInRows(rows[end:windowEnd])
	nextPrefetch := make(map[any]tracked[I], len(window))
	var prefetch []IndexPath
	for _, p := range window {
		item, _ := g.content.ItemAt(p)
		id := snapshot.Identity(item)
		nextPrefetch[id] = tracked[I]{path: p, item: item}
		if _, ok := g.prefetched[id]; !ok {
			prefetch = append(prefetch, p)
		}
	}
	var cancel []IndexPath
	for id, t := range g.prefetched {
		if _, ok := nextPrefetch[id]; ok {
			continue
		}
		if _, shown := next[id]; shown {
			continue
		}
		if p, ok := g.loc[id]; ok {
			cancel = append(cancel, p)
		} else {
			cancel = append(cancel, t.path)
		}
	}
	g.prefetched = nextPrefetch
	if g.prefetcher == nil {
		return
	}
	snapshot.SortPaths(cancel)
	if len(prefetch) > 0 {
		g.prefetcher.PrefetchItems(g, prefetch)
	}
	if len(cancel) > 0 {
		g.prefetcher.CancelPrefetching(g, cancel)
	}
	events.Widget.Prefetch(g.id, len(prefetch), len(cancel))
}
