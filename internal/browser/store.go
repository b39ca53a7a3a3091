package browser

import (
	"strconv"

	"github.com/atomicstack/collectionview/internal/backend"
	"github.com/atomicstack/collectionview/internal/format/table"
	"github.com/atomicstack/collectionview/internal/tmux"
	"github.com/atomicstack/collectionview/snapshot"
)

// Store keeps the latest server listing and turns it into section maps
// keyed by session name.
type Store struct {
	sessions []tmux.Session
	titles   map[string]string
	windows  map[string][]tmux.Window
	labels   map[any]string
	byID     map[any]tmux.Window
	current  string
	count    int
}

func NewStore() *Store {
	return &Store{
		titles:  map[string]string{},
		windows: map[string][]tmux.Window{},
		labels:  map[any]string{},
		byID:    map[any]tmux.Window{},
	}
}

// Update replaces the listing with snap. Windows of sessions missing from
// the session list are still shown, after the known sessions.
func (s *Store) Update(snap backend.Snapshot) {
	s.sessions = append(s.sessions[:0], snap.Sessions.Sessions...)
	s.windows = snap.Windows.BySession()
	s.current = snap.Windows.CurrentID
	s.count = len(snap.Windows.Windows)
	clear(s.titles)
	for _, session := range s.sessions {
		s.titles[session.Name] = session.Label
	}
	for _, w := range snap.Windows.Windows {
		if _, ok := s.titles[w.Session]; !ok {
			s.titles[w.Session] = w.Session
			s.sessions = append(s.sessions, tmux.Session{Name: w.Session, Label: w.Session})
		}
	}

	rows := make([][]string, len(snap.Windows.Windows))
	for i, w := range snap.Windows.Windows {
		rows[i] = []string{strconv.Itoa(w.Index), displayName(w), flags(w)}
	}
	formatted := table.Format(rows, []table.Alignment{table.AlignRight, table.AlignLeft, table.AlignLeft})
	clear(s.labels)
	clear(s.byID)
	for i, w := range snap.Windows.Windows {
		s.labels[w.DiffID()] = formatted[i]
		s.byID[w.DiffID()] = w
	}
}

// Sections returns the windows matching query grouped by session. Sessions
// without matches are left out while a query is active.
func (s *Store) Sections(query string) (*snapshot.SectionMap[string, tmux.Window], int) {
	m := snapshot.NewSectionMap[string, tmux.Window]()
	matches := 0
	for _, session := range s.sessions {
		windows := filterWindows(s.windows[session.Name], query)
		if len(windows) == 0 && query != "" {
			continue
		}
		m.Set(session.Name, windows)
		matches += len(windows)
	}
	return m, matches
}

// Title is the header text for a session.
func (s *Store) Title(name string) string {
	if title, ok := s.titles[name]; ok && title != "" {
		return title
	}
	return name
}

// Has reports whether a window with w's identity is in the listing.
func (s *Store) Has(w tmux.Window) bool {
	_, ok := s.byID[w.DiffID()]
	return ok
}

// Window returns the listed value of the window with w's identity.
func (s *Store) Window(w tmux.Window) (tmux.Window, bool) {
	latest, ok := s.byID[w.DiffID()]
	return latest, ok
}

// Label is the aligned cell text for w.
func (s *Store) Label(w tmux.Window) string {
	if label, ok := s.labels[w.DiffID()]; ok {
		return label
	}
	return displayName(w)
}

func (s *Store) SessionCount() int { return len(s.sessions) }

func (s *Store) WindowCount() int { return s.count }

// CurrentID is the session:index of the window the user is looking at.
func (s *Store) CurrentID() string { return s.current }

func displayName(w tmux.Window) string {
	if w.Name != "" {
		return w.Name
	}
	return w.Label
}

func flags(w tmux.Window) string {
	switch {
	case w.Current:
		return "*"
	case w.Active:
		return "-"
	}
	return ""
}
