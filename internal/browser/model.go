// Package browser is a tmux window browser built on the collection view:
// sessions are sections, windows are items.
package browser

import (
	"fmt"
	"strings"

	"github.com/atomicstack/collectionview/collection"
	"github.com/atomicstack/collectionview/internal/backend"
	"github.com/atomicstack/collectionview/internal/logging"
	"github.com/atomicstack/collectionview/internal/logging/events"
	"github.com/atomicstack/collectionview/internal/theme"
	"github.com/atomicstack/collectionview/internal/tmux"
	"github.com/atomicstack/collectionview/snapshot"
	"github.com/atomicstack/collectionview/widget"
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// chrome is the header, filter and status rows around the grid.
const chrome = 3

const emptyText = "no matching windows"

var styles = theme.Default()

var currentBackground = lipgloss.AdaptiveColor{Light: "253", Dark: "236"}

// Options configures the browser.
type Options struct {
	SocketPath string
	ClientID   string
	Width      int
	Height     int
	ShowFooter bool
	Layout     string
	Columns    int
	Selection  collection.SelectionMode
	Appearance widget.ListAppearance
}

type (
	windowSet = collection.Set[tmux.Window]
	attached  = collection.Attachment[string, tmux.Window]
)

// Model implements tea.Model for the window browser.
type Model struct {
	opts    Options
	store   *Store
	watcher *backend.Watcher
	actions actions

	data   *collection.State[*snapshot.SectionMap[string, tmux.Window]]
	multi  *collection.State[windowSet]
	single *collection.State[*tmux.Window]
	attach *attached
	hidden windowSet

	filter  textinput.Model
	keys    keyMap
	matches int

	width, height           int
	fixedWidth, fixedHeight bool

	errMsg   string
	infoMsg  string
	loaded   bool
	quitting bool
}

// NewModel builds the browser. watcher may be nil; data then arrives only
// through Load.
func NewModel(opts Options, watcher *backend.Watcher) *Model {
	m := &Model{
		opts:    opts,
		store:   NewStore(),
		watcher: watcher,
		actions: tmuxActions(),
		keys:    defaultKeyMap(),
		width:   80,
		height:  24,
	}
	if opts.Width > 0 {
		m.width = opts.Width
		m.fixedWidth = true
	}
	if opts.Height > 0 {
		m.height = opts.Height
		m.fixedHeight = true
	}

	m.data = collection.NewState(snapshot.NewSectionMap[string, tmux.Window]())
	m.multi = collection.NewState(windowSet{})
	var none *tmux.Window
	m.single = collection.NewState(none)

	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "filter windows"
	ti.Cursor.SetMode(cursor.CursorStatic)
	ti.PromptStyle = *styles.FilterPrompt
	ti.TextStyle = *styles.Filter
	ti.PlaceholderStyle = *styles.FilterPlaceholder
	ti.Cursor.Style = *styles.Cursor
	m.filter = ti

	m.attach = m.buildView().Make(m.width, m.gridHeight())
	m.attach.Grid().SetOrigin(0, 2)
	return m
}

func (m *Model) buildView() collection.View[string, tmux.Window] {
	var layout widget.Layout = widget.ListLayout{Appearance: m.opts.Appearance}
	if m.opts.Layout == "grid" {
		layout = widget.GridLayout{FixedColumns: m.opts.Columns}
	}
	register := collection.StatefulContent(m.cellText,
		collection.WithStatefulCellBackground(m.cellBackground))

	var v collection.View[string, tmux.Window]
	switch m.opts.Selection {
	case collection.SelectionMultiple:
		v = collection.New(m.data, m.multi, layout, register)
	case collection.SelectionSingle:
		v = collection.NewSingle(m.data, m.single, layout, register)
	default:
		if m.opts.Layout == "grid" {
			v = collection.NewWithStatefulContent(m.data, layout, m.cellText)
		} else {
			v = collection.NewList(m.data, m.opts.Appearance, m.listContent, m.cellBackground)
		}
	}
	v = v.BackgroundView(widget.Center, render(styles.Empty, emptyText))
	if m.opts.Layout != "grid" {
		v = v.BackgroundColor(m.opts.Appearance.DefaultBackground())
	}
	return v.
		SectionTitles(m.store.Title).
		ShowHelp(m.opts.ShowFooter).
		ContextMenu(m.contextMenu).
		OnPreviewAction(m.previewAction)
}

func (m *Model) cellText(_ snapshot.IndexPath, state widget.CellState, w tmux.Window) string {
	label := m.store.Label(w)
	if state.Selected && m.opts.Selection == collection.SelectionSingle {
		label += "  ✓"
	}
	return label
}

func (m *Model) listContent(p snapshot.IndexPath, state widget.CellState, w tmux.Window) collection.ListContent {
	content := collection.ListContent{Text: m.cellText(p, state, w)}
	if state.Focused {
		content.SecondaryText = w.ID
	}
	return content
}

func (m *Model) cellBackground(_ snapshot.IndexPath, _ widget.CellState, w tmux.Window) lipgloss.TerminalColor {
	if w.Current {
		return currentBackground
	}
	return nil
}

// Init is part of the tea.Model interface.
func (m *Model) Init() tea.Cmd {
	if m.watcher == nil {
		return nil
	}
	return waitForBackendEvent(m.watcher)
}

// Update responds to Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	case backendEventMsg:
		cmd := m.applyBackendEvent(msg.event)
		if m.watcher != nil {
			return m, tea.Batch(cmd, waitForBackendEvent(m.watcher))
		}
		return m, cmd
	case backendDoneMsg:
		m.watcher = nil
		return m, nil
	case actionResultMsg:
		m.applyActionResult(msg)
		return m, nil
	}
	return m, m.attach.HandleMsg(msg)
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, m.keys.Abort) {
		return m.quit()
	}
	if m.filter.Focused() {
		return m.handleFilterKey(msg)
	}
	if m.attach.Grid().MenuOpen() {
		return m.attach.HandleMsg(msg)
	}
	// Pasted or fast input arrives as one burst; "/serv" opens the filter
	// with "serv" typed.
	if msg.Type == tea.KeyRunes && !msg.Alt && len(msg.Runes) > 1 && msg.Runes[0] == '/' {
		focus := m.filter.Focus()
		rest := tea.KeyMsg{Type: tea.KeyRunes, Runes: msg.Runes[1:]}
		return tea.Batch(focus, m.handleFilterKey(rest))
	}
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Filter):
		return m.filter.Focus()
	case key.Matches(msg, m.keys.Clear) && m.filter.Value() != "":
		return m.setQuery("")
	case key.Matches(msg, m.keys.Refresh):
		if m.watcher != nil {
			m.watcher.Refresh()
		}
		return nil
	}
	return m.attach.HandleMsg(msg)
}

func (m *Model) handleFilterKey(msg tea.KeyMsg) tea.Cmd {
	// esc followed quickly by a key is read as alt+key.
	if msg.Type == tea.KeyRunes && msg.Alt {
		m.filter.Blur()
		cleared := m.setQuery("")
		msg.Alt = false
		return tea.Batch(cleared, m.handleKey(msg))
	}
	switch {
	case key.Matches(msg, m.keys.Clear):
		m.filter.Blur()
		return m.setQuery("")
	case key.Matches(msg, m.keys.Accept):
		m.filter.Blur()
		return nil
	}
	before := m.filter.Value()
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	if m.filter.Value() == before {
		return cmd
	}
	return tea.Batch(cmd, m.applyFilter())
}

func (m *Model) setQuery(query string) tea.Cmd {
	m.filter.SetValue(query)
	return m.applyFilter()
}

// applyFilter replaces the bound section map with the filtered listing and
// scrolls to the best match. Selected windows the filter hides are pruned
// by the collection; they are parked in hidden and selected again once the
// filter shows them.
func (m *Model) applyFilter() tea.Cmd {
	query := strings.TrimSpace(m.filter.Value())
	sections, matches := m.store.Sections(query)
	m.matches = matches
	if query == "" {
		events.Filter.Cleared()
	} else {
		events.Filter.Changed(query, matches)
	}
	before := m.selection()
	m.data.Set(sections)
	cmd := m.attach.Sync()
	after := m.selection()
	for _, w := range before.Items() {
		if !after.Has(w) && m.store.Has(w) {
			m.hidden.Add(w)
		}
	}
	cmd = tea.Batch(cmd, m.restoreHidden())
	if query != "" {
		m.scrollToBestMatch(query)
	}
	return cmd
}

// restoreHidden selects parked windows that are visible again and forgets
// the ones that closed.
func (m *Model) restoreHidden() tea.Cmd {
	if m.hidden.Len() == 0 {
		return nil
	}
	grid := m.attach.Grid()
	next := m.selection().Clone()
	restored := false
	for _, w := range m.hidden.Items() {
		switch _, visible := grid.IndexPathFor(w); {
		case !m.store.Has(w):
			m.hidden.Remove(w)
		case m.opts.Selection == collection.SelectionSingle && next.Len() > 0:
			// superseded by a newer choice
			m.hidden.Remove(w)
		case visible:
			m.hidden.Remove(w)
			next.Add(w)
			restored = true
		}
	}
	if !restored {
		return nil
	}
	m.setSelection(next)
	return m.attach.Sync()
}

// selection is the bound selection as a set, whatever the mode.
func (m *Model) selection() windowSet {
	switch m.opts.Selection {
	case collection.SelectionMultiple:
		return m.multi.Get()
	case collection.SelectionSingle:
		if w := m.single.Get(); w != nil {
			return collection.NewSet(*w)
		}
	}
	return windowSet{}
}

func (m *Model) setSelection(set windowSet) {
	switch m.opts.Selection {
	case collection.SelectionMultiple:
		m.multi.Set(set)
	case collection.SelectionSingle:
		if w, ok := set.First(); ok {
			m.single.Set(&w)
		}
	}
}

func (m *Model) scrollToBestMatch(query string) {
	content := m.attach.Grid().Content()
	var flat []tmux.Window
	var paths []snapshot.IndexPath
	for s, section := range content.Sections {
		for i, w := range section.Items {
			flat = append(flat, w)
			paths = append(paths, snapshot.Path(s, i))
		}
	}
	if idx := bestMatch(flat, query); idx >= 0 {
		m.attach.Grid().ScrollToItem(paths[idx], widget.ScrollCenteredVertically)
	}
}

func (m *Model) resize(width, height int) {
	if !m.fixedWidth {
		m.width = width
	}
	if !m.fixedHeight {
		m.height = height
	}
	m.filter.Width = max(m.width-len(m.filter.Prompt)-1, 1)
	m.attach.Grid().SetSize(m.width, m.gridHeight())
}

func (m *Model) gridHeight() int {
	return max(m.height-chrome, 1)
}

func (m *Model) applyBackendEvent(evt backend.Event) tea.Cmd {
	if evt.Err != nil {
		events.Backend.Error(evt.Err)
		logging.Error(evt.Err)
		m.errMsg = evt.Err.Error()
		return nil
	}
	m.errMsg = ""
	return m.Load(evt.Snapshot)
}

// Load replaces the listing and re-applies the active filter.
func (m *Model) Load(snap backend.Snapshot) tea.Cmd {
	m.store.Update(snap)
	m.loaded = true
	events.Backend.Refresh(m.store.SessionCount(), m.store.WindowCount())
	return m.applyFilter()
}

func (m *Model) quit() tea.Cmd {
	m.quitting = true
	return tea.Quit
}

// Selected returns the selected windows in selection order, with the
// values of the latest listing. Windows hidden by the filter come last.
func (m *Model) Selected() []tmux.Window {
	selected := m.selection().Items()
	if m.opts.Selection == collection.SelectionMultiple || len(selected) == 0 {
		selected = append(selected, m.hidden.Items()...)
	}
	for i, w := range selected {
		if latest, ok := m.store.Window(w); ok {
			selected[i] = latest
		}
	}
	return selected
}

// SelectedIDs returns the session:index targets of the selection.
func (m *Model) SelectedIDs() []string {
	selected := m.Selected()
	ids := make([]string, len(selected))
	for i, w := range selected {
		ids[i] = w.ID
	}
	return ids
}

// Quitting reports whether the user asked to leave.
func (m *Model) Quitting() bool { return m.quitting }

// View renders the browser.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	lines := []string{m.headerView(), m.filterView(), m.attach.View(), m.statusView()}
	return strings.Join(lines, "\n")
}

func (m *Model) headerView() string {
	text := "tmux windows"
	if m.loaded {
		text = fmt.Sprintf("tmux windows · %d sessions · %d windows", m.store.SessionCount(), m.store.WindowCount())
	}
	return render(styles.Header, truncateLine(text, m.width))
}

func (m *Model) filterView() string {
	if !m.filter.Focused() && m.filter.Value() == "" {
		return render(styles.FilterPlaceholder, truncateLine("press / to filter", m.width))
	}
	view := m.filter.View()
	if q := strings.TrimSpace(m.filter.Value()); q != "" {
		view += render(styles.Info, fmt.Sprintf("  %d match", m.matches)+plural(m.matches))
	}
	return view
}

func (m *Model) statusView() string {
	switch {
	case m.errMsg != "":
		return render(styles.Error, truncateLine(m.errMsg, m.width))
	case m.infoMsg != "":
		return render(styles.Info, truncateLine(m.infoMsg, m.width))
	case !m.loaded:
		return render(styles.Footer, "loading…")
	}
	status := fmt.Sprintf("%s selection", m.opts.Selection)
	if m.opts.Selection != collection.SelectionNone {
		n := len(m.Selected())
		status = fmt.Sprintf("%d selected", n)
	}
	return render(styles.Footer, truncateLine(status, m.width))
}

func render(style *lipgloss.Style, text string) string {
	if style == nil || text == "" {
		return text
	}
	return style.Render(text)
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "es"
}
