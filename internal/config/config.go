package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/atomicstack/collectionview/collection"
	"github.com/atomicstack/collectionview/internal/app"
	"github.com/atomicstack/collectionview/widget"
)

// Config captures runtime configuration for the application.
type Config struct {
	App     app.Config
	Logging Logging
	Flags   map[string]string
	Args    []string
}

type Logging struct {
	FilePath string
	Trace    bool
}

const (
	envSocketPath = "COLLECTIONVIEW_SOCKET"
	envWidth      = "COLLECTIONVIEW_WIDTH"
	envHeight     = "COLLECTIONVIEW_HEIGHT"
	envShowFooter = "COLLECTIONVIEW_FOOTER"
	envTrace      = "COLLECTIONVIEW_TRACE"
	envLogFile    = "COLLECTIONVIEW_LOG_FILE"
	envLayout     = "COLLECTIONVIEW_LAYOUT"
	envColumns    = "COLLECTIONVIEW_COLUMNS"
	envSelection  = "COLLECTIONVIEW_SELECTION"
	envAppearance = "COLLECTIONVIEW_APPEARANCE"
)

// Load parses configuration from CLI arguments and environment variables.
func Load() (Config, error) {
	return LoadArgs(os.Args[1:], os.Environ())
}

// LoadArgs allows tests to supply specific args/environment.
func LoadArgs(args []string, environ []string) (Config, error) {
	env := parseEnv(environ)

	fs := flag.NewFlagSet("collectionview", flag.ContinueOnError)
	fs.SetOutput(new(strings.Builder))

	socket := fs.String("socket", envOrDefault(env, envSocketPath, ""), "path to the tmux socket (overrides environment detection)")
	width := fs.Int("width", envOrInt(env, envWidth, 0), "desired viewport width in cells (0 uses terminal width)")
	height := fs.Int("height", envOrInt(env, envHeight, 0), "desired viewport height in rows (0 uses terminal height)")
	footer := fs.Bool("footer", envOrBool(env, envShowFooter, false), "enable footer hint row (disabled by default)")
	trace := fs.Bool("trace", envOrBool(env, envTrace, false), "enable verbose JSON trace logging")
	logFile := fs.String("log-file", envOrDefault(env, envLogFile, ""), "path to the log file")
	layout := fs.String("layout", envOrDefault(env, envLayout, "list"), "cell arrangement: list or grid")
	columns := fs.Int("columns", envOrInt(env, envColumns, 0), "grid columns (0 fits the width)")
	selection := fs.String("selection", envOrDefault(env, envSelection, "multiple"), "selection mode: none, single or multiple")
	appearance := fs.String("appearance", envOrDefault(env, envAppearance, "inset-grouped"), "list appearance: plain, grouped, inset-grouped, sidebar or sidebar-plain")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if *width < 0 {
		return Config{}, fmt.Errorf("width must be >= 0 (got %d)", *width)
	}
	if *height < 0 {
		return Config{}, fmt.Errorf("height must be >= 0 (got %d)", *height)
	}
	if *columns < 0 {
		return Config{}, fmt.Errorf("columns must be >= 0 (got %d)", *columns)
	}
	mode, err := collection.ParseSelectionMode(*selection)
	if err != nil {
		return Config{}, err
	}
	look, err := widget.ParseListAppearance(*appearance)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		App: app.Config{
			SocketPath: *socket,
			Width:      *width,
			Height:     *height,
			ShowFooter: *footer,
			Layout:     strings.ToLower(strings.TrimSpace(*layout)),
			Columns:    *columns,
			Selection:  mode,
			Appearance: look,
		},
		Logging: Logging{
			FilePath: *logFile,
			Trace:    *trace,
		},
		Flags: map[string]string{
			"socket":     *socket,
			"width":      strconv.Itoa(*width),
			"height":     strconv.Itoa(*height),
			"footer":     strconv.FormatBool(*footer),
			"trace":      strconv.FormatBool(*trace),
			"logFile":    *logFile,
			"layout":     *layout,
			"columns":    strconv.Itoa(*columns),
			"selection":  mode.String(),
			"appearance": look.String(),
		},
		Args: append([]string(nil), args...),
	}

	return cfg, nil
}

func parseEnv(environ []string) map[string]string {
	values := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}
		values[parts[0]] = parts[1]
	}
	return values
}

func envOrDefault(env map[string]string, key, fallback string) string {
	if v, ok := env[key]; ok {
		return v
	}
	return fallback
}

func envOrInt(env map[string]string, key string, fallback int) int {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrBool(env map[string]string, key string, fallback bool) bool {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

// MustLoad returns configuration or exits.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	return cfg
}

// Validate checks combinations the flag parser cannot.
func Validate(cfg Config) error {
	switch cfg.App.Layout {
	case "list", "grid":
	default:
		return fmt.Errorf("layout must be list or grid (got %q)", cfg.App.Layout)
	}
	if cfg.App.Columns > 0 && cfg.App.Layout != "grid" {
		return fmt.Errorf("columns only applies to the grid layout")
	}
	return nil
}
