package testutil

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const browserScript = `#!/bin/sh
"$BROWSER_BIN" -socket "$BROWSER_SOCKET" -width 80 -height 24 -selection none -appearance grouped 2>/dev/null
printf '%s' $? > "$BROWSER_EXIT"
sleep 300
`

func TestBrowserListsAndFiltersWindows(t *testing.T) {
	bin := buildBinary(t)
	srv := StartServer(t)
	srv.NewWindow(SessionName, "logs")
	srv.NewWindow(SessionName, "server")

	dir := t.TempDir()
	exitFile := filepath.Join(dir, "exit-code")
	script := filepath.Join(dir, "run.sh")
	if err := os.WriteFile(script, []byte(browserScript), 0o755); err != nil {
		t.Fatalf("failed to write launcher script: %v", err)
	}
	srv.Launch("browser", 80, 24, script, map[string]string{
		"BROWSER_BIN":    bin,
		"BROWSER_SOCKET": srv.Socket,
		"BROWSER_EXIT":   exitFile,
	})
	pane := "browser:0.0"

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	out := srv.WaitFor(ctx, pane, exitFile, containsAll(SessionName, "editor", "logs", "server"))
	if !strings.Contains(out, "sessions") {
		t.Fatalf("expected header in output:\n%s", out)
	}

	srv.Type(pane, "/", "serv")
	srv.WaitFor(ctx, pane, exitFile, func(out string) bool {
		return strings.Contains(out, "server") && !strings.Contains(out, "logs")
	})

	srv.Type(pane, "Escape", "q")
	srv.WaitFor(ctx, pane, exitFile, func(string) bool {
		data, err := os.ReadFile(exitFile)
		return err == nil && strings.TrimSpace(string(data)) == "0"
	})
}
