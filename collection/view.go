// Package collection is the declarative side of the collection view: a
// View value describes sections of items, the selection and the cell
// configuration, and an Attachment keeps a widget.Grid in step with it.
package collection

import (
	"fmt"
	"strings"

	"github.com/atomicstack/collectionview/snapshot"
	"github.com/atomicstack/collectionview/widget"
	"github.com/charmbracelet/lipgloss"
)

// IndexPath locates a cell by section and item position.
type IndexPath = snapshot.IndexPath

// SelectionMode is fixed when a View is constructed.
type SelectionMode int

const (
	SelectionNone SelectionMode = iota
	SelectionSingle
	SelectionMultiple
)

func (m SelectionMode) String() string {
	switch m {
	case SelectionSingle:
		return "single"
	case SelectionMultiple:
		return "multiple"
	}
	return "none"
}

// ParseSelectionMode resolves a name produced by String.
func ParseSelectionMode(name string) (SelectionMode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "none", "":
		return SelectionNone, nil
	case "single":
		return SelectionSingle, nil
	case "multiple", "multi":
		return SelectionMultiple, nil
	}
	return SelectionNone, fmt.Errorf("unknown selection mode %q", name)
}

// CellRegistration configures the cell for one item.
type CellRegistration[I any] func(cell *widget.Cell, path IndexPath, item I)

// View describes a collection. It is a value: modifiers return a copy and
// leave the receiver untouched.
type View[S, I comparable] struct {
	data      Binding[*snapshot.SectionMap[S, I]]
	selection Binding[Set[I]]
	mode      SelectionMode
	layout    widget.Layout
	register  CellRegistration[I]

	background      lipgloss.TerminalColor
	backgroundView  string
	backgroundAlign widget.Alignment

	handlers Handlers

	keys     *widget.KeyMap
	showHelp bool
	title    func(S) string
}

// New describes a collection with multiple selection bound to selection.
func New[S, I comparable](
	data Binding[*snapshot.SectionMap[S, I]],
	selection Binding[Set[I]],
	layout widget.Layout,
	register CellRegistration[I],
) View[S, I] {
	return View[S, I]{
		data:            data,
		selection:       selection,
		mode:            SelectionMultiple,
		layout:          layout,
		register:        register,
		backgroundAlign: widget.Center,
	}
}

// NewSingle describes a collection with single selection bound to
// selection. A nil selection turns selection off.
func NewSingle[S, I comparable](
	data Binding[*snapshot.SectionMap[S, I]],
	selection Binding[*I],
	layout widget.Layout,
	register CellRegistration[I],
) View[S, I] {
	v := View[S, I]{
		data:            data,
		selection:       Constant(Set[I]{}),
		mode:            SelectionNone,
		layout:          layout,
		register:        register,
		backgroundAlign: widget.Center,
	}
	if selection != nil {
		v.mode = SelectionSingle
		v.selection = Derived(selection, singleToSet[I], setToSingle[I])
	}
	return v
}

func singleToSet[I comparable](p *I) Set[I] {
	if p == nil {
		return Set[I]{}
	}
	return NewSet(*p)
}

func setToSingle[I comparable](_ *I, s Set[I]) *I {
	item, ok := s.First()
	if !ok {
		return nil
	}
	return &item
}

// NewWithContent describes a collection without selection whose cells
// show the text returned by content.
func NewWithContent[S, I comparable](
	data Binding[*snapshot.SectionMap[S, I]],
	layout widget.Layout,
	content func(IndexPath, I) string,
	opts ...ContentOption[I],
) View[S, I] {
	return NewSingle[S, I](data, nil, layout, Content(content, opts...))
}

// NewWithStatefulContent is NewWithContent with content that depends on
// the cell state.
func NewWithStatefulContent[S, I comparable](
	data Binding[*snapshot.SectionMap[S, I]],
	layout widget.Layout,
	content func(IndexPath, widget.CellState, I) string,
	opts ...ContentOption[I],
) View[S, I] {
	return NewSingle[S, I](data, nil, layout, StatefulContent(content, opts...))
}

// Mode reports the selection mode.
func (v View[S, I]) Mode() SelectionMode { return v.mode }

// Data returns the bound section map.
func (v View[S, I]) Data() *snapshot.SectionMap[S, I] { return v.data.Get() }

// Selection returns the bound selection.
func (v View[S, I]) Selection() Set[I] { return v.selection.Get() }

// BackgroundColor sets the colour behind the cells. Nil restores the
// widget default.
func (v View[S, I]) BackgroundColor(color lipgloss.TerminalColor) View[S, I] {
	v.background = color
	return v
}

// BackgroundStyle fills the area behind the cells with the background of
// style and removes any background view.
func (v View[S, I]) BackgroundStyle(style lipgloss.Style) View[S, I] {
	v.background = nil
	if bg := style.GetBackground(); bg != nil {
		if _, unset := bg.(lipgloss.NoColor); !unset {
			v.background = bg
		}
	}
	v.backgroundView = ""
	return v
}

// BackgroundView shows content behind an empty collection and clears the
// background colour.
func (v View[S, I]) BackgroundView(align widget.Alignment, content string) View[S, I] {
	v.background = nil
	v.backgroundView = content
	v.backgroundAlign = align
	return v
}

// KeyMap replaces the widget bindings.
func (v View[S, I]) KeyMap(keys widget.KeyMap) View[S, I] {
	v.keys = &keys
	return v
}

// ShowHelp toggles the key hint line.
func (v View[S, I]) ShowHelp(show bool) View[S, I] {
	v.showHelp = show
	return v
}

// SectionTitles formats section keys for headers.
func (v View[S, I]) SectionTitles(title func(S) string) View[S, I] {
	v.title = title
	return v
}

func (v View[S, I]) widgetOptions(width, height int) []widget.Option {
	opts := []widget.Option{
		widget.WithSelection(v.mode != SelectionNone, v.mode == SelectionMultiple),
		widget.WithSize(width, height),
		widget.WithHelp(v.showHelp),
	}
	if v.keys != nil {
		opts = append(opts, widget.WithKeyMap(*v.keys))
	}
	if v.title != nil {
		title := v.title
		opts = append(opts, widget.WithSectionTitles(func(key any) string {
			s, _ := key.(S)
			return title(s)
		}))
	}
	return opts
}

func (v View[S, I]) provider() widget.CellProvider[I] {
	if v.register == nil {
		return nil
	}
	return widget.CellProvider[I](v.register)
}
