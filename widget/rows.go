package widget

import "github.com/atomicstack/collectionview/snapshot"

type rowKind int

const (
	rowHeader rowKind = iota
	rowCells
	rowSpacer
)

// row is one terminal line of the grid. Cell rows cover items
// [first, first+count) of section.
type row struct {
	kind    rowKind
	section int
	first   int
	count   int
}

func (g *Grid[S, I]) renderWidth() int {
	if g.width > 0 {
		return g.width
	}
	return defaultWidth
}

func (g *Grid[S, I]) columns() int {
	return max(g.layout.Columns(g.renderWidth()-g.layout.Inset()), 1)
}

func (g *Grid[S, I]) cellWidth() int {
	return max((g.renderWidth()-g.layout.Inset())/g.columns(), 1)
}

func (g *Grid[S, I]) rows() []row {
	cols := g.columns()
	headers := g.layout.ShowsSectionHeaders()
	spacing := g.layout.SectionSpacing()
	rows := make([]row, 0, g.content.ItemCount()/cols+2*len(g.content.Sections))
	for s, sec := range g.content.Sections {
		if headers {
			rows = append(rows, row{kind: rowHeader, section: s})
		}
		for first := 0; first < len(sec.Items); first += cols {
			rows = append(rows, row{kind: rowCells, section: s, first: first, count: min(cols, len(sec.Items)-first)})
		}
		if s < len(g.content.Sections)-1 {
			for range spacing {
				rows = append(rows, row{kind: rowSpacer, section: s})
			}
		}
	}
	return rows
}

func (g *Grid[S, I]) footerRows() int {
	if g.showHelp {
		return 1
	}
	return 0
}

// pageRows is the number of rows the viewport shows.
func (g *Grid[S, I]) pageRows(total int) int {
	if g.height <= 0 {
		return max(total, 1)
	}
	return max(g.height-g.footerRows(), 1)
}

func (g *Grid[S, I]) visibleRange(total int) (int, int) {
	start := min(max(g.offset, 0), total)
	end := min(start+g.pageRows(total), total)
	return start, end
}

func (g *Grid[S, I]) clampOffset() {
	total := len(g.rows())
	maxOffset := max(total-g.pageRows(total), 0)
	g.offset = min(max(g.offset, 0), maxOffset)
}

// ensureCursorVisible scrolls the minimum amount needed to show the cursor
// row, and the section header above it when it is the section's first row.
func (g *Grid[S, I]) ensureCursorVisible() {
	g.clampOffset()
	if !g.hasCursor {
		return
	}
	rows := g.rows()
	r := rowOf(rows, g.cursor)
	if r < 0 {
		return
	}
	top := r
	if r > 0 && rows[r-1].kind == rowHeader {
		top = r - 1
	}
	page := g.pageRows(len(rows))
	if top < g.offset {
		g.offset = top
	}
	if r > g.offset+page-1 {
		g.offset = r - page + 1
	}
	g.clampOffset()
}

func (g *Grid[S, I]) scrollBy(delta int) {
	g.offset += delta
	g.clampOffset()
	g.refreshDisplay()
}

func rowOf(rows []row, p IndexPath) int {
	for i, r := range rows {
		if r.kind == rowCells && r.section == p.Section && p.Item >= r.first && p.Item < r.first+r.count {
			return i
		}
	}
	return -1
}

func pathsInRows(rows []row) []IndexPath {
	var paths []IndexPath
	for _, r := range rows {
		if r.kind != rowCells {
			continue
		}
		for i := 0; i < r.count; i++ {
			paths = append(paths, snapshot.Path(r.section, r.first+i))
		}
	}
	return paths
}
