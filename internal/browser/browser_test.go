package browser

import (
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/atomicstack/collectionview/collection"
	"github.com/atomicstack/collectionview/internal/backend"
	"github.com/atomicstack/collectionview/internal/tmux"
	"github.com/atomicstack/collectionview/snapshot"
	"github.com/atomicstack/collectionview/widget"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	widget.TransitionDuration = time.Millisecond
	os.Exit(m.Run())
}

var (
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func fixture() backend.Snapshot {
	return backend.Snapshot{
		Sessions: tmux.SessionSnapshot{
			Sessions: []tmux.Session{
				{Name: "main", Label: "main: 2 windows (attached)"},
				{Name: "work", Label: "work: 1 window"},
			},
			Current: "main",
		},
		Windows: tmux.WindowSnapshot{
			Windows: []tmux.Window{
				{InternalID: "@1", ID: "main:1", Session: "main", Index: 1, Name: "editor", Active: true, Current: true},
				{InternalID: "@2", ID: "main:2", Session: "main", Index: 2, Name: "logs"},
				{InternalID: "@3", ID: "work:1", Session: "work", Index: 1, Name: "server", Active: true},
			},
			CurrentID:      "main:1",
			CurrentSession: "main",
		},
	}
}

type fakeActions struct {
	switched []string
	killed   [][]string
	err      error
}

func (f *fakeActions) install(m *Model) {
	m.actions = actions{
		switchWindow: func(_, _, target string) error {
			f.switched = append(f.switched, target)
			return f.err
		},
		killWindows: func(_ string, targets []string) error {
			f.killed = append(f.killed, targets)
			return f.err
		},
	}
}

func newLoadedHarness(t *testing.T, opts Options) *Harness {
	t.Helper()
	if opts.Width == 0 {
		opts.Width = 60
	}
	if opts.Height == 0 {
		opts.Height = 20
	}
	h := NewHarness(NewModel(opts, nil))
	h.Send(backendEventMsg{event: backend.Event{Snapshot: fixture()}})
	return h
}

func TestStoreGroupsWindowsAndAlignsLabels(t *testing.T) {
	s := NewStore()
	snap := fixture()
	snap.Windows.Windows = append(snap.Windows.Windows,
		tmux.Window{InternalID: "@9", ID: "scratch:10", Session: "scratch", Index: 10, Name: "tmp"})
	s.Update(snap)

	sections, matches := s.Sections("")
	assert.Equal(t, 4, matches)
	assert.Equal(t, []string{"main", "work", "scratch"}, keys(sections))
	assert.Equal(t, "main: 2 windows (attached)", s.Title("main"))
	assert.Equal(t, "scratch", s.Title("scratch"))
	assert.Equal(t, 3, s.SessionCount())
	assert.Equal(t, 4, s.WindowCount())
	assert.Equal(t, "main:1", s.CurrentID())

	windows, _ := snapshot.Get(sections, "main")
	require.Len(t, windows, 2)
	assert.Equal(t, " 1  editor  *", s.Label(windows[0]))
	assert.Equal(t, " 2  logs", s.Label(windows[1]))
	work, _ := snapshot.Get(sections, "work")
	assert.Equal(t, " 1  server  -", s.Label(work[0]))
}

func TestStoreSectionsDropEmptySessionsWhileFiltering(t *testing.T) {
	s := NewStore()
	snap := fixture()
	snap.Sessions.Sessions = append(snap.Sessions.Sessions, tmux.Session{Name: "idle", Label: "idle"})
	s.Update(snap)

	all, _ := s.Sections("")
	assert.Equal(t, []string{"main", "work", "idle"}, keys(all))

	filtered, matches := s.Sections("serv")
	assert.Equal(t, 1, matches)
	assert.Equal(t, []string{"work"}, keys(filtered))
}

func TestFilterWindowsFallsBackToSubstring(t *testing.T) {
	windows := fixture().Windows.Windows
	for i := range windows {
		windows[i].Label = windows[i].Name
	}
	assert.Len(t, filterWindows(windows, ""), 3)
	assert.Equal(t, "logs", only(t, filterWindows(windows, "lgs")).Name)
	assert.Equal(t, "logs", only(t, filterWindows(windows, "MAIN:2")).Name)
	assert.Empty(t, filterWindows(windows, "zzz"))
}

func TestBestMatchPrefersExactThenPrefix(t *testing.T) {
	windows := []tmux.Window{
		{ID: "a:1", Name: "logs-old"},
		{ID: "a:2", Name: "logs"},
		{ID: "a:3", Name: "editor"},
	}
	assert.Equal(t, 1, bestMatch(windows, "logs"))
	assert.Equal(t, 0, bestMatch(windows, "log"))
	assert.Equal(t, 2, bestMatch(windows, "a:3"))
	assert.Equal(t, 2, bestMatch(windows, "edr"))
	assert.Equal(t, -1, bestMatch(nil, "x"))
}

func TestModelRendersSessionsAsSections(t *testing.T) {
	h := newLoadedHarness(t, Options{Appearance: widget.AppearanceGrouped})
	view := h.View()
	assert.Contains(t, view, "2 sessions · 3 windows")
	assert.Contains(t, view, "main: 2 windows (attached)")
	assert.Contains(t, view, "work: 1 window")
	assert.Contains(t, view, "editor")
	assert.Contains(t, view, "server")
	assert.Contains(t, view, "none selection")
}

func TestModelShowsLoadingUntilFirstSnapshot(t *testing.T) {
	h := NewHarness(NewModel(Options{Width: 40, Height: 10}, nil))
	assert.Contains(t, h.View(), "loading")
	assert.Contains(t, h.View(), emptyText)
}

func TestModelMultipleSelectionCollectsWindows(t *testing.T) {
	h := newLoadedHarness(t, Options{Selection: collection.SelectionMultiple})
	h.Send(keyEnter, keyDown, keyDown, keyEnter)

	m := h.Model()
	assert.Equal(t, []string{"main:1", "work:1"}, m.SelectedIDs())
	assert.Contains(t, h.View(), "2 selected")

	h.Send(runes("q"))
	assert.True(t, m.Quitting())
	assert.Equal(t, "", h.View())
}

func TestModelSingleSelectionReplacesChoice(t *testing.T) {
	h := newLoadedHarness(t, Options{Selection: collection.SelectionSingle})
	h.Send(keyEnter, keyDown, keyEnter)
	assert.Equal(t, []string{"main:2"}, h.Model().SelectedIDs())
	assert.Contains(t, h.View(), "1 selected")
}

func TestModelFilterNarrowsAndClears(t *testing.T) {
	h := newLoadedHarness(t, Options{Appearance: widget.AppearanceGrouped})
	h.Send(runes("/"), runes("s"), runes("e"), runes("r"), runes("v"))

	view := h.View()
	assert.Contains(t, view, "server")
	assert.NotContains(t, view, "editor")
	assert.NotContains(t, view, "main: 2 windows")
	assert.Contains(t, view, "1 match")

	h.Send(keyEsc)
	view = h.View()
	assert.Contains(t, view, "editor")
	assert.Contains(t, view, "press / to filter")
}

func TestModelFilterWithoutMatchesShowsBackgroundView(t *testing.T) {
	h := newLoadedHarness(t, Options{})
	h.Send(runes("/"), runes("z"), runes("z"), runes("z"), keyEnter)
	assert.Contains(t, h.View(), emptyText)
	assert.Contains(t, h.View(), "0 matches")
}

func TestModelPrunesSelectionOfClosedWindows(t *testing.T) {
	h := newLoadedHarness(t, Options{Selection: collection.SelectionMultiple})
	h.Send(keyEnter, keyDown, keyEnter)
	require.Equal(t, []string{"main:1", "main:2"}, h.Model().SelectedIDs())

	snap := fixture()
	snap.Windows.Windows = append(snap.Windows.Windows[:1], snap.Windows.Windows[2:]...)
	h.Send(backendEventMsg{event: backend.Event{Snapshot: snap}})
	assert.Equal(t, []string{"main:1"}, h.Model().SelectedIDs())
}

func TestModelKeepsSelectionAcrossRenames(t *testing.T) {
	h := newLoadedHarness(t, Options{Selection: collection.SelectionMultiple})
	h.Send(keyDown, keyEnter)

	snap := fixture()
	snap.Windows.Windows[1].Name = "journal"
	h.Send(backendEventMsg{event: backend.Event{Snapshot: snap}})

	selected := h.Model().Selected()
	require.Len(t, selected, 1)
	assert.Equal(t, "journal", selected[0].Name)
	assert.Contains(t, h.View(), "journal")
}

func TestModelReportsBackendErrors(t *testing.T) {
	h := newLoadedHarness(t, Options{})
	h.Send(backendEventMsg{event: backend.Event{Err: errors.New("no server running")}})
	assert.Contains(t, h.View(), "no server running")
	assert.Contains(t, h.View(), "editor")

	h.Send(backendEventMsg{event: backend.Event{Snapshot: fixture()}})
	assert.NotContains(t, h.View(), "no server running")
}

func TestContextMenuSwitchesToWindow(t *testing.T) {
	h := newLoadedHarness(t, Options{SocketPath: "/tmp/sock"})
	fake := &fakeActions{}
	fake.install(h.Model())

	h.Send(keyDown, runes("m"))
	require.True(t, h.Model().attach.Grid().MenuOpen())
	assert.Contains(t, h.View(), "Switch to window")

	h.Send(keyEnter)
	assert.False(t, h.Model().attach.Grid().MenuOpen())
	assert.Equal(t, []string{"main:2"}, fake.switched)
	assert.Contains(t, h.View(), "switched to main:2")
}

func TestContextMenuPreviewSwitches(t *testing.T) {
	h := newLoadedHarness(t, Options{})
	fake := &fakeActions{}
	fake.install(h.Model())

	h.Send(runes("m"), runes("p"))
	assert.Equal(t, []string{"main:1"}, fake.switched)
}

func TestContextMenuKillsSelectedWindows(t *testing.T) {
	h := newLoadedHarness(t, Options{Selection: collection.SelectionMultiple})
	fake := &fakeActions{err: errors.New("can't find window")}
	fake.install(h.Model())

	h.Send(keyEnter, keyDown, keyEnter, runes("m"))
	assert.Contains(t, h.View(), "Kill 2 windows")
	assert.NotContains(t, h.View(), "Switch to window")

	h.Send(keyEnter)
	assert.Equal(t, [][]string{{"main:1", "main:2"}}, fake.killed)
	assert.Contains(t, h.View(), "can't find window")
}

func TestGridLayoutWithoutSelection(t *testing.T) {
	h := newLoadedHarness(t, Options{Layout: "grid", Columns: 2})
	h.Send(keyEnter)
	assert.Empty(t, h.Model().Selected())
	assert.Contains(t, h.View(), "server")
}

func TestResizeFollowsTerminalUnlessFixed(t *testing.T) {
	m := NewModel(Options{Height: 12}, nil)
	h := NewHarness(m)
	h.Send(tea.WindowSizeMsg{Width: 100, Height: 40})
	w, gh := m.attach.Grid().Size()
	assert.Equal(t, 100, w)
	assert.Equal(t, 12-chrome, gh)
}

func keys(m *snapshot.SectionMap[string, tmux.Window]) []string {
	var out []string
	for k := range m.All() {
		out = append(out, k)
	}
	return out
}

func only(t *testing.T, windows []tmux.Window) tmux.Window {
	t.Helper()
	require.Len(t, windows, 1)
	return windows[0]
}

func TestSearchTextCombinesLabelAndName(t *testing.T) {
	got := searchText([]tmux.Window{{Label: "a:1", Name: "vim"}})
	assert.Equal(t, []string{"a:1 vim"}, got)
	assert.True(t, strings.HasSuffix(got[0], "vim"))
}

func TestModelAcceptsFilterTypedInOneBurst(t *testing.T) {
	h := newLoadedHarness(t, Options{Appearance: widget.AppearanceGrouped})
	h.Send(runes("/serv"))
	view := h.View()
	assert.Contains(t, view, "server")
	assert.NotContains(t, view, "editor")
	assert.Contains(t, view, "1 match")

	// esc then q arrives as alt+q
	h.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q"), Alt: true})
	assert.True(t, h.Model().Quitting())
	assert.Empty(t, h.Model().filter.Value())
}

func TestModelAltKeyLeavesFilterAndClearsIt(t *testing.T) {
	h := newLoadedHarness(t, Options{})
	h.Send(runes("/"), runes("logs"), tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j"), Alt: true})
	m := h.Model()
	assert.False(t, m.filter.Focused())
	assert.False(t, m.Quitting())
	assert.Contains(t, h.View(), "editor")
	assert.Contains(t, h.View(), "press / to filter")
}

func TestModelKeepsSelectionHiddenByFilter(t *testing.T) {
	h := newLoadedHarness(t, Options{Selection: collection.SelectionMultiple})
	h.Send(keyEnter, keyDown, keyEnter)
	require.Equal(t, []string{"main:1", "main:2"}, h.Model().SelectedIDs())

	h.Send(runes("/"), runes("serv"), keyEnter, keyEnter)
	m := h.Model()
	assert.Equal(t, []string{"work:1", "main:1", "main:2"}, m.SelectedIDs())
	assert.Contains(t, h.View(), "3 selected")

	h.Send(keyEsc)
	assert.ElementsMatch(t, []string{"main:1", "main:2", "work:1"}, m.SelectedIDs())
	assert.Len(t, m.attach.Grid().IndexPathsForSelectedItems(), 3)
	assert.Zero(t, m.hidden.Len())
}

func TestModelForgetsHiddenSelectionOfClosedWindows(t *testing.T) {
	h := newLoadedHarness(t, Options{Selection: collection.SelectionMultiple})
	h.Send(keyEnter, keyDown, keyEnter, runes("/"), runes("serv"), keyEnter)
	require.Equal(t, []string{"main:1", "main:2"}, h.Model().SelectedIDs())

	snap := fixture()
	snap.Windows.Windows = append(snap.Windows.Windows[:1], snap.Windows.Windows[2:]...)
	h.Send(backendEventMsg{event: backend.Event{Snapshot: snap}})
	assert.Equal(t, []string{"main:1"}, h.Model().SelectedIDs())

	h.Send(keyEsc)
	assert.Equal(t, []string{"main:1"}, h.Model().SelectedIDs())
}

func TestModelSingleSelectionHiddenChoiceIsSuperseded(t *testing.T) {
	h := newLoadedHarness(t, Options{Selection: collection.SelectionSingle})
	h.Send(keyEnter, runes("/"), runes("serv"), keyEnter)
	require.Equal(t, []string{"main:1"}, h.Model().SelectedIDs())

	h.Send(keyEnter)
	assert.Equal(t, []string{"work:1"}, h.Model().SelectedIDs())

	h.Send(keyEsc)
	assert.Equal(t, []string{"work:1"}, h.Model().SelectedIDs())
}
