package browser

import (
	"fmt"
	"strings"

	"github.com/atomicstack/collectionview/internal/logging"
	"github.com/atomicstack/collectionview/internal/tmux"
	"github.com/atomicstack/collectionview/snapshot"
	"github.com/atomicstack/collectionview/widget"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/truncate"
)

// actionResultMsg reports the outcome of a context menu action.
type actionResultMsg struct {
	info string
	err  error
}

// actions are the tmux operations the context menu performs.
type actions struct {
	switchWindow func(socketPath, clientID, target string) error
	killWindows  func(socketPath string, targets []string) error
}

func tmuxActions() actions {
	return actions{switchWindow: tmux.SwitchToWindow, killWindows: tmux.KillWindows}
}

func (m *Model) windowsAt(paths []snapshot.IndexPath) []tmux.Window {
	out := make([]tmux.Window, 0, len(paths))
	for _, p := range paths {
		if w, ok := m.attach.Grid().ItemAt(p); ok {
			out = append(out, w)
		}
	}
	return out
}

func (m *Model) contextMenu(paths []snapshot.IndexPath, _ widget.Point) *widget.ContextMenu {
	windows := m.windowsAt(paths)
	if len(windows) == 0 {
		return nil
	}
	targets := make([]string, len(windows))
	for i, w := range windows {
		targets[i] = w.ID
	}
	menu := &widget.ContextMenu{Identifier: strings.Join(targets, ",")}
	if len(windows) == 1 {
		w := windows[0]
		menu.Title = w.ID
		menu.Preview = m.store.Label(w)
		menu.Actions = append(menu.Actions, widget.MenuAction{
			Title:   "Switch to window",
			Perform: m.switchCmd(w.ID),
		})
	} else {
		menu.Title = fmt.Sprintf("%d windows", len(windows))
	}
	title := "Kill window"
	if len(windows) > 1 {
		title = fmt.Sprintf("Kill %d windows", len(windows))
	}
	menu.Actions = append(menu.Actions, widget.MenuAction{
		Title:       title,
		Destructive: true,
		Perform:     m.killCmd(targets),
	})
	return menu
}

// previewAction switches to the previewed window.
func (m *Model) previewAction(menu *widget.ContextMenu) tea.Cmd {
	if menu == nil || menu.Identifier == "" || strings.Contains(menu.Identifier, ",") {
		return nil
	}
	return m.switchCmd(menu.Identifier)()
}

func (m *Model) switchCmd(target string) func() tea.Cmd {
	socket, client, run := m.opts.SocketPath, m.opts.ClientID, m.actions.switchWindow
	return func() tea.Cmd {
		return func() tea.Msg {
			if err := run(socket, client, target); err != nil {
				return actionResultMsg{err: err}
			}
			return actionResultMsg{info: "switched to " + target}
		}
	}
}

func (m *Model) killCmd(targets []string) func() tea.Cmd {
	socket, run := m.opts.SocketPath, m.actions.killWindows
	return func() tea.Cmd {
		return func() tea.Msg {
			if err := run(socket, targets); err != nil {
				return actionResultMsg{err: err}
			}
			return actionResultMsg{info: "killed " + strings.Join(targets, ", ")}
		}
	}
}

func (m *Model) applyActionResult(msg actionResultMsg) {
	if msg.err != nil {
		logging.Error(msg.err)
		m.errMsg = msg.err.Error()
		m.infoMsg = ""
		return
	}
	m.errMsg = ""
	m.infoMsg = msg.info
	if m.watcher != nil {
		m.watcher.Refresh()
	}
}

func truncateLine(text string, width int) string {
	if width <= 0 {
		return text
	}
	return truncate.StringWithTail(text, uint(width), "…")
}
