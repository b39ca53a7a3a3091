package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/atomicstack/collectionview/collection"
	"github.com/atomicstack/collectionview/internal/backend"
	"github.com/atomicstack/collectionview/internal/browser"
	"github.com/atomicstack/collectionview/internal/logging/events"
	"github.com/atomicstack/collectionview/internal/tmux"
	"github.com/atomicstack/collectionview/widget"
	tea "github.com/charmbracelet/bubbletea"
)

const pollInterval = 1500 * time.Millisecond

// Config describes user-provided application options.
type Config struct {
	SocketPath string
	Width      int
	Height     int
	ShowFooter bool
	Layout     string
	Columns    int
	Selection  collection.SelectionMode
	Appearance widget.ListAppearance
}

// Run bootstraps and executes the Bubble Tea program. It returns the
// session:index targets the user selected. opts are appended to the
// program's defaults.
func Run(cfg Config, opts ...tea.ProgramOption) (selected []string, err error) {
	defer func() { events.App.Exit(len(selected), err) }()
	defer tmux.Shutdown()

	socketPath, err := tmux.ResolveSocketPath(cfg.SocketPath)
	if err != nil {
		return nil, fmt.Errorf("resolve socket path: %w", err)
	}
	watcher := backend.NewWatcher(backend.TmuxFetcher(socketPath), pollInterval)
	defer watcher.Stop()

	model := browser.NewModel(browser.Options{
		SocketPath: socketPath,
		ClientID:   tmux.CurrentClientID(socketPath),
		Width:      cfg.Width,
		Height:     cfg.Height,
		ShowFooter: cfg.ShowFooter,
		Layout:     cfg.Layout,
		Columns:    cfg.Columns,
		Selection:  cfg.Selection,
		Appearance: cfg.Appearance,
	}, watcher)
	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithMouseCellMotion()}, opts...)
	program := tea.NewProgram(model, opts...)
	if _, err = program.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) {
			return nil, nil
		}
		return nil, err
	}
	return model.SelectedIDs(), nil
}
