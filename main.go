package main

import (
	"fmt"
	"io"
	"os"

	"github.com/atomicstack/collectionview/internal/app"
	"github.com/atomicstack/collectionview/internal/config"
	"github.com/atomicstack/collectionview/internal/logging"
	"github.com/atomicstack/collectionview/internal/logging/events"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"
)

func main() {
	runtimeCfg := config.MustLoad()
	if err := config.Validate(runtimeCfg); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	logging.Configure(runtimeCfg.Logging.FilePath)
	logging.SetTraceEnabled(runtimeCfg.Logging.Trace)

	scr := openScreen()
	events.App.Start(startupTracePayload(runtimeCfg, scr))

	selected, err := app.Run(runtimeCfg.App, scr.programOptions()...)
	scr.close()
	if err != nil {
		logging.Error(err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	printSelection(os.Stdout, selected)
}

// printSelection writes one session:index target per line so the output
// can be piped into tmux commands.
func printSelection(w io.Writer, selected []string) {
	for _, id := range selected {
		fmt.Fprintln(w, id)
	}
}

// screen is the terminal the browser draws on. When stdout is piped the
// browser renders to the controlling tty and stdout only carries the
// selection.
type screen struct {
	Source string `json:"source"`
	Piped  bool   `json:"piped"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
	Error  string `json:"error,omitempty"`

	file  *os.File
	owned bool
}

const controllingTTY = "/dev/tty"

func openScreen() screen {
	if term.IsTerminal(int(os.Stdout.Fd())) {
		return measure(screen{Source: "stdout", file: os.Stdout})
	}
	scr := screen{Piped: true}
	tty, err := os.OpenFile(controllingTTY, os.O_WRONLY, 0)
	if err != nil {
		scr.Error = err.Error()
		return scr
	}
	scr.Source, scr.file, scr.owned = controllingTTY, tty, true
	return measure(scr)
}

func measure(scr screen) screen {
	width, height, err := term.GetSize(int(scr.file.Fd()))
	if err != nil {
		scr.Error = err.Error()
		return scr
	}
	scr.Width, scr.Height = width, height
	return scr
}

func (s screen) programOptions() []tea.ProgramOption {
	if s.Piped && s.file != nil {
		return []tea.ProgramOption{tea.WithOutput(s.file)}
	}
	return nil
}

func (s screen) close() {
	if s.owned {
		_ = s.file.Close()
	}
}

// browserSettings is the resolved browser configuration as traced at
// startup. A zero viewport dimension follows the screen.
type browserSettings struct {
	Socket     string `json:"socket"`
	Layout     string `json:"layout"`
	Columns    int    `json:"columns,omitempty"`
	Selection  string `json:"selection"`
	Appearance string `json:"appearance"`
	Footer     bool   `json:"footer"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
}

func resolveBrowserSettings(cfg app.Config, scr screen) browserSettings {
	settings := browserSettings{
		Socket:     cfg.SocketPath,
		Layout:     cfg.Layout,
		Columns:    cfg.Columns,
		Selection:  cfg.Selection.String(),
		Appearance: cfg.Appearance.String(),
		Footer:     cfg.ShowFooter,
		Width:      cfg.Width,
		Height:     cfg.Height,
	}
	if settings.Width <= 0 {
		settings.Width = scr.Width
	}
	if settings.Height <= 0 {
		settings.Height = scr.Height
	}
	return settings
}

// startupTracePayload bundles runtime context for trace logging.
func startupTracePayload(cfg config.Config, scr screen) map[string]interface{} {
	flags := make(map[string]interface{}, len(cfg.Flags)+2)
	for k, v := range cfg.Flags {
		flags[k] = v
	}
	flags["trace"] = cfg.Logging.Trace
	flags["logFile"] = cfg.Logging.FilePath
	return map[string]interface{}{
		"argv":    cfg.Args,
		"flags":   flags,
		"browser": resolveBrowserSettings(cfg.App, scr),
		"screen":  scr,
	}
}
