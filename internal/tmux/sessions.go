package tmux

import (
	"fmt"
	"os"
	"strings"

	gotmux "github.com/atomicstack/gotmuxcc/gotmuxcc"
)

const (
	envSessionFormat     = "COLLECTIONVIEW_SESSION_FORMAT"
	defaultSessionFormat = "#S: #{session_windows} windows#{?session_attached, (attached),}"
)

// Session is one tmux session. It is a section key of the browser, so it
// only carries fields that stay stable while the session lives.
type Session struct {
	Name  string
	Label string
}

// SessionSnapshot lists sessions in tmux order along with per-session
// details that change frequently.
type SessionSnapshot struct {
	Sessions []Session
	Attached map[string][]string
	Windows  map[string]int
	Current  string
}

// FetchSessions lists the sessions of the server at socketPath.
func FetchSessions(socketPath string) (SessionSnapshot, error) {
	client, err := newTmux(socketPath)
	if err != nil {
		return SessionSnapshot{}, err
	}
	sessions, err := client.ListSessions()
	if err != nil {
		return SessionSnapshot{}, fmt.Errorf("list sessions: %w", err)
	}
	labels := fetchSessionLabels(client, os.Getenv(envSessionFormat))
	snap := SessionSnapshot{
		Sessions: make([]Session, 0, len(sessions)),
		Attached: realAttachedClients(client),
		Windows:  make(map[string]int, len(sessions)),
		Current:  currentSessionName(client),
	}
	for _, s := range sessions {
		if s == nil {
			continue
		}
		label := labels[s.Name]
		if label == "" {
			label = defaultLabelForSession(s)
		}
		snap.Sessions = append(snap.Sessions, Session{Name: s.Name, Label: label})
		snap.Windows[s.Name] = s.Windows
	}
	return snap, nil
}

func fetchSessionLabels(client tmuxClient, envFormat string) map[string]string {
	labelExpr := defaultSessionFormat
	if custom := strings.TrimSpace(envFormat); custom != "" {
		labelExpr = "#S: " + custom
	}
	lines, err := client.ListSessionsFormat("#{session_name}\t" + labelExpr)
	if err != nil {
		return map[string]string{}
	}
	labels := make(map[string]string, len(lines))
	for _, line := range lines {
		name, label, _ := strings.Cut(strings.TrimSpace(line), "\t")
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if label = strings.TrimSpace(label); label == "" {
			label = name
		}
		labels[name] = label
	}
	return labels
}

func defaultLabelForSession(s *gotmux.Session) string {
	label := fmt.Sprintf("%s: %d window", s.Name, s.Windows)
	if s.Windows != 1 {
		label += "s"
	}
	if s.Attached > 0 {
		label += " (attached)"
	}
	return label
}

// realAttachedClients maps session names to attached clients, leaving out
// control-mode connections such as our own.
func realAttachedClients(client tmuxClient) map[string][]string {
	clients, err := client.ListClients()
	if err != nil {
		return nil
	}
	result := make(map[string][]string)
	for _, c := range clients {
		if c == nil || c.ControlMode || c.Session == "" {
			continue
		}
		result[c.Session] = append(result[c.Session], c.Name)
	}
	return result
}

func currentSessionName(client tmuxClient) string {
	if pane := strings.TrimSpace(os.Getenv("TMUX_PANE")); pane != "" {
		if name, err := client.DisplayMessage(pane, "#{session_name}"); err == nil {
			if name = strings.TrimSpace(name); name != "" {
				return name
			}
		}
	}
	if clients, err := client.ListClients(); err == nil {
		for _, c := range clients {
			if c != nil && !c.ControlMode && c.Session != "" {
				return c.Session
			}
		}
	}
	return ""
}
