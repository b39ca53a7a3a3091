package widget

import (
	"slices"
	"strings"

	"github.com/atomicstack/collectionview/internal/logging/events"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type menuState struct {
	config *ContextMenu
	paths  []IndexPath
	active int
}

// MenuOpen reports whether a context menu is showing.
func (g *Grid[S, I]) MenuOpen() bool { return g.menu != nil }

// openMenu asks the delegate for a menu covering the cursor item, or the
// whole selection when the cursor sits inside it.
func (g *Grid[S, I]) openMenu(point Point) {
	paths := []IndexPath{g.cursor}
	if selected := g.IndexPathsForSelectedItems(); len(selected) > 1 && slices.Contains(selected, g.cursor) {
		paths = selected
	}
	config := g.delegate.ContextMenuConfiguration(g, paths, point)
	if config == nil {
		return
	}
	g.menu = &menuState{config: config, paths: paths}
	events.Menu.Open(g.id, config.Identifier, len(paths))
	g.delegate.WillDisplayContextMenu(g, config)
}

func (g *Grid[S, I]) closeMenu() {
	if g.menu == nil {
		return
	}
	config := g.menu.config
	g.menu = nil
	events.Menu.Close(g.id, config.Identifier)
	g.delegate.WillEndContextMenu(g, config)
}

func (g *Grid[S, I]) handleMenuKey(msg tea.KeyMsg) tea.Cmd {
	m := g.menu
	switch {
	case key.Matches(msg, g.keys.Close, g.keys.Menu):
		g.closeMenu()
	case key.Matches(msg, g.keys.Up):
		if m.active > 0 {
			m.active--
		}
	case key.Matches(msg, g.keys.Down):
		if m.active < len(m.config.Actions)-1 {
			m.active++
		}
	case key.Matches(msg, g.keys.Preview):
		config := m.config
		cmd := g.delegate.WillPerformPreviewAction(g, config)
		g.closeMenu()
		return cmd
	case key.Matches(msg, g.keys.Toggle):
		if len(m.config.Actions) == 0 {
			g.closeMenu()
			return nil
		}
		action := m.config.Actions[m.active]
		events.Menu.Perform(g.id, m.config.Identifier, action.Title)
		g.closeMenu()
		if action.Perform != nil {
			return action.Perform()
		}
	}
	return nil
}

func (g *Grid[S, I]) renderMenu(width, height int) string {
	m := g.menu
	lines := make([]string, 0, len(m.config.Actions)+4)
	if title := strings.TrimSpace(m.config.Title); title != "" {
		lines = append(lines, render(g.styles.MenuTitle, title))
	}
	if preview := strings.TrimSpace(m.config.Preview); preview != "" {
		for _, line := range strings.Split(preview, "\n") {
			lines = append(lines, render(g.styles.Info, line))
		}
		lines = append(lines, "")
	}
	for i, action := range m.config.Actions {
		style := g.styles.MenuAction
		if action.Destructive {
			style = g.styles.MenuDestructive
		}
		label := "  " + action.Title
		if i == m.active {
			label = "› " + action.Title
			style = g.styles.MenuActionActive
		}
		lines = append(lines, render(style, label))
	}
	if len(m.config.Actions) == 0 {
		lines = append(lines, render(g.styles.Empty, "(no actions)"))
	}
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor(g.styles.MenuBorder)).
		Padding(0, 1).
		Render(strings.Join(lines, "\n"))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}

func borderColor(style *lipgloss.Style) lipgloss.TerminalColor {
	if style == nil {
		return lipgloss.NoColor{}
	}
	return style.GetForeground()
}

func render(style *lipgloss.Style, text string) string {
	if style == nil || text == "" {
		return text
	}
	return style.Render(text)
}
