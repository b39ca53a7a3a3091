package collection

import (
	"github.com/atomicstack/collectionview/snapshot"
	"github.com/atomicstack/collectionview/widget"
	"github.com/charmbracelet/lipgloss"
)

type contentConfig[I any] struct {
	background func(IndexPath, widget.CellState, I) lipgloss.TerminalColor
	configure  func(*widget.Cell, IndexPath, widget.CellState, I)
	caps       *widget.Capabilities
}

// ContentOption adjusts a content registration.
type ContentOption[I any] func(*contentConfig[I])

// WithCellBackground paints every cell with color.
func WithCellBackground[I any](color lipgloss.TerminalColor) ContentOption[I] {
	return func(c *contentConfig[I]) {
		c.background = func(IndexPath, widget.CellState, I) lipgloss.TerminalColor { return color }
	}
}

// WithCellBackgroundFunc picks the cell background per item.
func WithCellBackgroundFunc[I any](fn func(IndexPath, I) lipgloss.TerminalColor) ContentOption[I] {
	return func(c *contentConfig[I]) {
		c.background = func(p IndexPath, _ widget.CellState, item I) lipgloss.TerminalColor { return fn(p, item) }
	}
}

// WithStatefulCellBackground picks the cell background per item and state.
func WithStatefulCellBackground[I any](fn func(IndexPath, widget.CellState, I) lipgloss.TerminalColor) ContentOption[I] {
	return func(c *contentConfig[I]) { c.background = fn }
}

// WithCellConfig runs fn after the content and background are set.
func WithCellConfig[I any](fn func(*widget.Cell, IndexPath, I)) ContentOption[I] {
	return func(c *contentConfig[I]) {
		c.configure = func(cell *widget.Cell, p IndexPath, _ widget.CellState, item I) { fn(cell, p, item) }
	}
}

// WithStatefulCellConfig is WithCellConfig with access to the cell state.
func WithStatefulCellConfig[I any](fn func(*widget.Cell, IndexPath, widget.CellState, I)) ContentOption[I] {
	return func(c *contentConfig[I]) { c.configure = fn }
}

// WithCapabilities overrides terminal detection.
func WithCapabilities[I any](caps widget.Capabilities) ContentOption[I] {
	return func(c *contentConfig[I]) { c.caps = &caps }
}

func newContentConfig[I any](opts []ContentOption[I]) contentConfig[I] {
	var cfg contentConfig[I]
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.caps == nil {
		caps := widget.DetectCapabilities()
		cfg.caps = &caps
	}
	return cfg
}

func (c contentConfig[I]) decorate(cell *widget.Cell, p IndexPath, state widget.CellState, item I) {
	if c.background != nil {
		cell.Background = c.background(p, state, item)
	}
	if c.configure != nil {
		c.configure(cell, p, state, item)
	}
}

// Content registers cells showing the text returned by content.
func Content[I any](content func(IndexPath, I) string, opts ...ContentOption[I]) CellRegistration[I] {
	cfg := newContentConfig(opts)
	return func(cell *widget.Cell, p IndexPath, item I) {
		cell.Content = content(p, item)
		cfg.decorate(cell, p, cell.State, item)
	}
}

// StatefulContent registers cells whose text depends on the cell state.
// On terminals that cannot show state the builders see a zero state.
func StatefulContent[I any](content func(IndexPath, widget.CellState, I) string, opts ...ContentOption[I]) CellRegistration[I] {
	cfg := newContentConfig(opts)
	stateful := cfg.caps.StatefulCells
	return func(cell *widget.Cell, p IndexPath, item I) {
		var state widget.CellState
		if stateful {
			state = cell.State
		}
		cell.Content = content(p, state, item)
		cfg.decorate(cell, p, state, item)
	}
}

// ListContent is the text of a list cell.
type ListContent struct {
	Text          string
	SecondaryText string
}

func (c ListContent) String() string {
	if c.SecondaryText == "" {
		return c.Text
	}
	return c.Text + "  " + c.SecondaryText
}

type listConfig[I any] struct {
	layout  widget.ListLayout
	content []ContentOption[I]
}

// ListOption adjusts a list built by NewList.
type ListOption[I any] func(*listConfig[I])

// WithListLayout edits the list layout after the appearance is applied.
func WithListLayout[I any](fn func(*widget.ListLayout)) ListOption[I] {
	return func(c *listConfig[I]) { fn(&c.layout) }
}

// WithListContentOptions passes content options to the cell registration.
func WithListContentOptions[I any](opts ...ContentOption[I]) ListOption[I] {
	return func(c *listConfig[I]) { c.content = append(c.content, opts...) }
}

// NewList describes a list without selection. content and background are
// evaluated per cell; background may be nil. The collection background
// follows appearance.
func NewList[S, I comparable](
	data Binding[*snapshot.SectionMap[S, I]],
	appearance widget.ListAppearance,
	content func(IndexPath, widget.CellState, I) ListContent,
	background func(IndexPath, widget.CellState, I) lipgloss.TerminalColor,
	opts ...ListOption[I],
) View[S, I] {
	cfg := listConfig[I]{layout: widget.ListLayout{Appearance: appearance}}
	for _, opt := range opts {
		opt(&cfg)
	}
	contentOpts := cfg.content
	if background != nil {
		contentOpts = append([]ContentOption[I]{WithStatefulCellBackground(background)}, contentOpts...)
	}
	register := StatefulContent(func(p IndexPath, state widget.CellState, item I) string {
		return content(p, state, item).String()
	}, contentOpts...)
	return NewSingle[S, I](data, nil, cfg.layout, register).
		BackgroundColor(appearance.DefaultBackground())
}
