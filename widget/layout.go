package widget

import (
	"fmt"
	"strings"

	"github.com/atomicstack/collectionview/internal/theme"
	"github.com/charmbracelet/lipgloss"
)

// Layout decides how sections and items are arranged into terminal rows.
type Layout interface {
	// Columns returns how many cells share a row at the given width.
	Columns(width int) int
	ShowsSectionHeaders() bool
	// SectionSpacing is the number of blank rows after each section.
	SectionSpacing() int
	// Inset is the left margin of every row.
	Inset() int
}

// ListAppearance mirrors the classic list styles.
type ListAppearance int

const (
	AppearancePlain ListAppearance = iota
	AppearanceGrouped
	AppearanceInsetGrouped
	AppearanceSidebar
	AppearanceSidebarPlain
)

var appearanceNames = map[ListAppearance]string{
	AppearancePlain:        "plain",
	AppearanceGrouped:      "grouped",
	AppearanceInsetGrouped: "inset-grouped",
	AppearanceSidebar:      "sidebar",
	AppearanceSidebarPlain: "sidebar-plain",
}

func (a ListAppearance) String() string {
	if name, ok := appearanceNames[a]; ok {
		return name
	}
	return fmt.Sprintf("ListAppearance(%d)", int(a))
}

// ParseListAppearance resolves a name produced by String.
func ParseListAppearance(name string) (ListAppearance, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for a, candidate := range appearanceNames {
		if candidate == name {
			return a, nil
		}
	}
	return AppearancePlain, fmt.Errorf("unknown list appearance %q", name)
}

// DefaultBackground is the background a list of this appearance sits on:
// plain styles use the system background, grouped styles the grouped one.
func (a ListAppearance) DefaultBackground() lipgloss.TerminalColor {
	switch a {
	case AppearanceGrouped, AppearanceInsetGrouped, AppearanceSidebar:
		return theme.SystemGroupedBackground
	default:
		return theme.SystemBackground
	}
}

// HeaderMode overrides whether a list shows section headers.
type HeaderMode int

const (
	HeaderAuto HeaderMode = iota
	HeaderNone
	HeaderVisible
)

// ListLayout is a single column list.
type ListLayout struct {
	Appearance ListAppearance
	HeaderMode HeaderMode
}

func (l ListLayout) Columns(int) int { return 1 }

func (l ListLayout) ShowsSectionHeaders() bool {
	switch l.HeaderMode {
	case HeaderNone:
		return false
	case HeaderVisible:
		return true
	}
	return l.Appearance != AppearancePlain && l.Appearance != AppearanceSidebarPlain
}

func (l ListLayout) SectionSpacing() int {
	switch l.Appearance {
	case AppearanceGrouped, AppearanceInsetGrouped:
		return 1
	}
	return 0
}

func (l ListLayout) Inset() int {
	switch l.Appearance {
	case AppearanceInsetGrouped:
		return 2
	case AppearanceSidebar, AppearanceSidebarPlain:
		return 1
	}
	return 0
}

const defaultMinCellWidth = 24

// GridLayout flows items into columns, either a fixed number or as many as
// fit MinCellWidth.
type GridLayout struct {
	FixedColumns int
	MinCellWidth int
	HideHeaders  bool
	Spacing      int
}

func (g GridLayout) Columns(width int) int {
	if g.FixedColumns > 0 {
		return g.FixedColumns
	}
	minWidth := g.MinCellWidth
	if minWidth <= 0 {
		minWidth = defaultMinCellWidth
	}
	cols := width / minWidth
	if cols < 1 {
		cols = 1
	}
	return cols
}

func (g GridLayout) ShowsSectionHeaders() bool { return !g.HideHeaders }
func (g GridLayout) SectionSpacing() int       { return max(g.Spacing, 0) }
func (g GridLayout) Inset() int                { return 0 }
