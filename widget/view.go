package widget

import (
	"strings"

	"github.com/atomicstack/collectionview/snapshot"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

const (
	cellIndicator = "▌"
	emptyMessage  = "(no items)"
)

// View renders the viewport. It has no side effects on display tracking;
// that happens in Update and Apply.
func (g *Grid[S, I]) View() string {
	width := g.renderWidth()
	rows := g.rows()
	start, end := g.visibleRange(len(rows))
	page := g.pageRows(len(rows))

	var body string
	switch {
	case g.menu != nil:
		body = g.renderMenu(width, page)
	case g.content.IsEmpty():
		body = g.renderEmpty(width, page)
	default:
		lines := make([]string, 0, page)
		for _, r := range rows[start:end] {
			lines = append(lines, g.renderRow(r, width))
		}
		if g.height > 0 {
			for len(lines) < page {
				lines = append(lines, g.pad(width))
			}
		}
		body = strings.Join(lines, "\n")
	}
	if !g.showHelp {
		return body
	}
	hints := g.keys.ShortHelp()
	if g.menu != nil {
		hints = g.keys.menuHelp()
	}
	return body + "\n" + fit(g.help.ShortHelpView(hints), width)
}

func (g *Grid[S, I]) renderEmpty(width, height int) string {
	content := g.backgroundView
	h, v := g.backgroundAlign.Horizontal, g.backgroundAlign.Vertical
	if content == "" {
		content = render(g.styles.Empty, emptyMessage)
		h, v = lipgloss.Left, lipgloss.Top
	}
	if g.height <= 0 {
		height = lipgloss.Height(content)
	}
	var opts []lipgloss.WhitespaceOption
	if g.background != nil {
		opts = append(opts, lipgloss.WithWhitespaceBackground(g.background))
	}
	return lipgloss.Place(width, height, h, v, content, opts...)
}

func (g *Grid[S, I]) renderRow(r row, width int) string {
	inset := g.layout.Inset()
	switch r.kind {
	case rowHeader:
		key, _ := g.content.SectionKeyAt(r.section)
		style := g.withBackground(g.styles.SectionHeader, nil)
		title := fit(g.title(key), width-inset)
		if w := lipgloss.Width(title); w < width-inset {
			title += strings.Repeat(" ", width-inset-w)
		}
		return g.pad(inset) + style.Render(title)
	case rowSpacer:
		return g.pad(width)
	}
	cellWidth := g.cellWidth()
	var b strings.Builder
	b.WriteString(g.pad(inset))
	for i := 0; i < r.count; i++ {
		p := snapshot.Path(r.section, r.first+i)
		item, _ := g.content.ItemAt(p)
		b.WriteString(g.renderCell(p, item, cellWidth))
	}
	if used := inset + r.count*cellWidth; used < width {
		b.WriteString(g.pad(width - used))
	}
	return b.String()
}

// renderCell draws one cell exactly width columns wide: the focus
// indicator, the selection mark when multiple selection is allowed, then
// the provider's content.
func (g *Grid[S, I]) renderCell(p IndexPath, item I, width int) string {
	cell := g.cell(p, item)
	state := g.stateOf(p, snapshot.Identity(item))

	lineStyle := g.styles.Cell
	indicatorStyle := g.styles.CellIndicator
	if g.IsFresh(p) {
		lineStyle = g.styles.FreshCell
	}
	if state.Selected {
		lineStyle = g.styles.SelectedCell
	}
	if state.Focused {
		indicatorStyle = g.styles.HighlightIndicator
	}
	if state.Highlighted {
		lineStyle = g.styles.HighlightedCell
	}
	if cell.Style != nil {
		lineStyle = cell.Style
	}

	mark := ""
	if g.allowsMultiple {
		mark = "[ ] "
		if state.Selected {
			mark = "[✓] "
		}
	}
	content, _, _ := strings.Cut(cell.Content, "\n")
	text := fit(" "+mark+content, width-1)
	if w := lipgloss.Width(text); w < width-1 {
		text += strings.Repeat(" ", width-1-w)
	}
	return g.withBackground(indicatorStyle, cell.Background).Render(cellIndicator) +
		g.withBackground(lineStyle, cell.Background).Render(text)
}

// withBackground fills in a background when style has none: the cell's
// own, else the grid's.
func (g *Grid[S, I]) withBackground(style *lipgloss.Style, cellBackground lipgloss.TerminalColor) lipgloss.Style {
	var s lipgloss.Style
	if style != nil {
		s = *style
	}
	bg := cellBackground
	if bg == nil {
		bg = g.background
	}
	if bg == nil {
		return s
	}
	if _, unset := s.GetBackground().(lipgloss.NoColor); unset || cellBackground != nil {
		s = s.Background(bg)
	}
	return s
}

func (g *Grid[S, I]) pad(n int) string {
	if n <= 0 {
		return ""
	}
	space := strings.Repeat(" ", n)
	if g.background == nil {
		return space
	}
	return lipgloss.NewStyle().Background(g.background).Render(space)
}

// fit truncates text to width columns, ANSI aware.
func fit(text string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(text) <= width {
		return text
	}
	return truncate.StringWithTail(text, uint(width), "…")
}
