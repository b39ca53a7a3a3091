package main

import (
	"strings"
	"testing"

	"github.com/atomicstack/collectionview/collection"
	"github.com/atomicstack/collectionview/internal/app"
	"github.com/atomicstack/collectionview/internal/config"
	"github.com/atomicstack/collectionview/widget"
)

func TestStartupTracePayloadIncludesFlags(t *testing.T) {
	cfg := config.Config{
		App: app.Config{
			SocketPath: "socket-path",
			Width:      80,
			Height:     24,
			ShowFooter: true,
			Layout:     "grid",
			Columns:    3,
			Selection:  collection.SelectionSingle,
			Appearance: widget.AppearanceGrouped,
		},
		Logging: config.Logging{
			FilePath: "trace.log",
			Trace:    true,
		},
		Flags: map[string]string{
			"socket":    "socket-path",
			"footer":    "true",
			"selection": "single",
		},
		Args: []string{"--socket", "socket-path"},
	}

	payload := startupTracePayload(cfg, screen{Source: "stdout", Width: 120, Height: 40})

	flagsValue, ok := payload["flags"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected flags map in payload")
	}
	if flagsValue["socket"] != "socket-path" {
		t.Fatalf("expected socket flag %q, got %v", "socket-path", flagsValue["socket"])
	}
	if flagsValue["trace"] != true {
		t.Fatalf("expected trace flag true, got %v", flagsValue["trace"])
	}
	if flagsValue["logFile"] != "trace.log" {
		t.Fatalf("expected log file trace.log, got %v", flagsValue["logFile"])
	}

	browser, ok := payload["browser"].(browserSettings)
	if !ok {
		t.Fatalf("expected browser settings in payload")
	}
	want := browserSettings{
		Socket:     "socket-path",
		Layout:     "grid",
		Columns:    3,
		Selection:  "single",
		Appearance: widget.AppearanceGrouped.String(),
		Footer:     true,
		Width:      80,
		Height:     24,
	}
	if browser != want {
		t.Fatalf("expected browser settings %#v, got %#v", want, browser)
	}
	if scr, ok := payload["screen"].(screen); !ok || scr.Source != "stdout" {
		t.Fatalf("expected stdout screen in payload, got %#v", payload["screen"])
	}
}

func TestResolveBrowserSettingsFollowsScreenForUnsetViewport(t *testing.T) {
	cfg := app.Config{Layout: "list", Selection: collection.SelectionMultiple, Width: 60}
	got := resolveBrowserSettings(cfg, screen{Source: controllingTTY, Piped: true, Width: 100, Height: 30})
	if got.Width != 60 {
		t.Fatalf("expected fixed width 60, got %d", got.Width)
	}
	if got.Height != 30 {
		t.Fatalf("expected screen height 30, got %d", got.Height)
	}
	if got.Selection != "multiple" {
		t.Fatalf("expected multiple selection, got %q", got.Selection)
	}
}

func TestPipedScreenRedirectsProgramOutput(t *testing.T) {
	if opts := (screen{Source: "stdout"}).programOptions(); len(opts) != 0 {
		t.Fatalf("expected default output for a terminal stdout, got %d options", len(opts))
	}
	if opts := (screen{Piped: true}).programOptions(); len(opts) != 0 {
		t.Fatalf("expected no redirect without a tty, got %d options", len(opts))
	}
}

func TestPrintSelectionWritesOneTargetPerLine(t *testing.T) {
	var out strings.Builder
	printSelection(&out, []string{"main:1", "work:3"})
	if out.String() != "main:1\nwork:3\n" {
		t.Fatalf("unexpected output %q", out.String())
	}
	out.Reset()
	printSelection(&out, nil)
	if out.Len() != 0 {
		t.Fatalf("expected no output for empty selection, got %q", out.String())
	}
}
