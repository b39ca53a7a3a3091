package tmux

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	gotmux "github.com/atomicstack/gotmuxcc/gotmuxcc"
)

const (
	envWindowFilter = "COLLECTIONVIEW_WINDOW_FILTER"
	envWindowFormat = "COLLECTIONVIEW_WINDOW_FORMAT"
)

// Window is one tmux window. InternalID is tmux's @id; ID is the
// session:index target.
type Window struct {
	InternalID string
	ID         string
	Session    string
	Index      int
	Name       string
	Label      string
	Active     bool
	Current    bool
}

// DiffID keeps a window's cell stable across renames and focus changes.
func (w Window) DiffID() any {
	if w.InternalID != "" {
		return w.InternalID
	}
	return w.ID
}

// WindowSnapshot lists windows in tmux order.
type WindowSnapshot struct {
	Windows        []Window
	CurrentID      string
	CurrentSession string
}

// BySession groups windows under their session name, keeping order.
func (s WindowSnapshot) BySession() map[string][]Window {
	out := make(map[string][]Window)
	for _, w := range s.Windows {
		out[w.Session] = append(out[w.Session], w)
	}
	return out
}

// FetchWindows lists the windows of every session on the server at
// socketPath.
func FetchWindows(socketPath string) (WindowSnapshot, error) {
	client, err := newTmux(socketPath)
	if err != nil {
		return WindowSnapshot{}, err
	}
	all, err := client.ListAllWindows()
	if err != nil {
		return WindowSnapshot{}, fmt.Errorf("list windows: %w", err)
	}
	lines, err := fetchWindowLines(client)
	if err != nil {
		lines = fallbackWindowLines(all)
	}
	byID := make(map[string]*gotmux.Window, len(all))
	for _, w := range all {
		if w != nil {
			byID[w.Id] = w
		}
	}

	snap := WindowSnapshot{CurrentSession: currentSessionName(client)}
	for _, line := range lines {
		entry := Window{InternalID: line.windowID, ID: line.displayID, Label: line.label}
		if w := byID[line.windowID]; w != nil {
			entry.Session = firstSession(w)
			if entry.Session == "" {
				entry.Session = strings.TrimSpace(w.Session)
			}
			entry.Index = w.Index
			entry.Name = w.Name
			entry.Active = w.Active
		} else {
			session, index, _ := strings.Cut(line.displayID, ":")
			entry.Session = strings.TrimSpace(session)
			entry.Index, _ = strconv.Atoi(index)
		}
		if entry.ID == "" {
			entry.ID = fmt.Sprintf("%s:%d", entry.Session, entry.Index)
		}
		entry.Current = entry.Active && entry.Session == snap.CurrentSession
		if entry.Current && snap.CurrentID == "" {
			snap.CurrentID = entry.ID
		}
		snap.Windows = append(snap.Windows, entry)
	}
	return snap, nil
}

type windowLine struct {
	windowID  string
	displayID string
	label     string
}

func fetchWindowLines(client tmuxClient) ([]windowLine, error) {
	filter := strings.TrimSpace(os.Getenv(envWindowFilter))
	formatExpr := strings.TrimSpace(os.Getenv(envWindowFormat))
	if formatExpr == "" {
		formatExpr = "#{window_name}"
	}
	format := fmt.Sprintf("#{window_id}\t#{session_name}:#{window_index}\t#S:#{window_index}: %s", formatExpr)
	raw, err := client.ListWindowsFormat("", filter, format)
	if err != nil {
		return nil, err
	}
	result := make([]windowLine, 0, len(raw))
	for _, line := range raw {
		parts := strings.SplitN(strings.TrimSpace(line), "\t", 3)
		if len(parts) < 2 {
			continue
		}
		entry := windowLine{
			windowID:  strings.TrimSpace(parts[0]),
			displayID: strings.TrimSpace(parts[1]),
		}
		entry.label = entry.displayID
		if len(parts) > 2 && strings.TrimSpace(parts[2]) != "" {
			entry.label = strings.TrimSpace(parts[2])
		}
		result = append(result, entry)
	}
	return result, nil
}

func fallbackWindowLines(windows []*gotmux.Window) []windowLine {
	lines := make([]windowLine, 0, len(windows))
	for _, w := range windows {
		if w == nil {
			continue
		}
		id := fmt.Sprintf("%s:%d", firstSession(w), w.Index)
		lines = append(lines, windowLine{windowID: w.Id, displayID: id, label: id + ": " + w.Name})
	}
	return lines
}

func firstSession(w *gotmux.Window) string {
	if len(w.ActiveSessionsList) > 0 {
		return w.ActiveSessionsList[0]
	}
	if len(w.LinkedSessionsList) > 0 {
		return w.LinkedSessionsList[0]
	}
	return ""
}

// SwitchToWindow selects target and points clientID at its session. An
// empty clientID lets tmux pick the most recent client.
func SwitchToWindow(socketPath, clientID, target string) error {
	target = strings.TrimSpace(target)
	if target == "" {
		return fmt.Errorf("switch to window: empty target")
	}
	client, err := newTmux(socketPath)
	if err != nil {
		return err
	}
	if err := client.SelectWindow(target); err != nil {
		return fmt.Errorf("select window %s: %w", target, err)
	}
	session, _, _ := strings.Cut(target, ":")
	opts := &gotmux.SwitchClientOptions{TargetSession: session}
	if clientID = strings.TrimSpace(clientID); clientID != "" {
		opts.TargetClient = clientID
	}
	if err := client.SwitchClient(opts); err != nil {
		return fmt.Errorf("switch client to %s: %w", session, err)
	}
	return nil
}

// KillWindows kills every non-blank target, stopping at the first error.
func KillWindows(socketPath string, targets []string) error {
	if len(targets) == 0 {
		return nil
	}
	client, err := newTmux(socketPath)
	if err != nil {
		return err
	}
	for _, target := range targets {
		target = strings.TrimSpace(target)
		if target == "" {
			continue
		}
		if _, err := client.Command("kill-window", "-t", target); err != nil {
			return fmt.Errorf("kill window %s: %w", target, err)
		}
	}
	return nil
}
