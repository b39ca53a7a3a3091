package testutil

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	gotmux "github.com/atomicstack/gotmuxcc/gotmuxcc"
)

// SessionName is the session every test server starts with. Its first
// window is called "editor".
const SessionName = "collectionview-test"

var ErrPaneUnavailable = errors.New("tmux pane unavailable")

// keyGap separates keystrokes so the browser reads them one at a time.
const keyGap = 100 * time.Millisecond

// RequireTmux skips the calling test when tmux is not on PATH.
func RequireTmux(t *testing.T) string {
	t.Helper()
	path, err := exec.LookPath("tmux")
	if err != nil {
		t.Skip("skipping: tmux binary not available")
	}
	return path
}

// Server is a throwaway tmux server on a private socket.
type Server struct {
	t      *testing.T
	Socket string
	logDir string
}

// StartServer boots a server with SessionName and registers its teardown
// with t.Cleanup.
func StartServer(t *testing.T) *Server {
	t.Helper()
	RequireTmux(t)
	dir, err := os.MkdirTemp("/tmp", "collectionview-*")
	if err != nil {
		t.Fatalf("failed to create tmux temp dir: %v", err)
	}
	t.Cleanup(func() { _ = os.RemoveAll(dir) })
	s := &Server{t: t, Socket: filepath.Join(dir, "tmux-test.sock"), logDir: dir}
	if err := s.command("-f", "/dev/null", "-vv", "new-session", "-d", "-s", SessionName, "-n", "editor", "sleep", "600").Run(); err != nil {
		t.Skipf("skipping: failed to start tmux server: %v", err)
	}
	t.Cleanup(s.stop)
	return s
}

func (s *Server) stop() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := killServer(ctx, s.Socket); err != nil {
		s.t.Logf("control-mode kill failed for %s: %v; using kill-server", s.Socket, err)
		_ = s.command("kill-server").Run()
	}
	s.assertNoCrash()
}

// NewWindow adds a window running sleep to session.
func (s *Server) NewWindow(session, name string) {
	s.t.Helper()
	if err := s.command("new-window", "-d", "-t", session+":", "-n", name, "sleep", "600").Run(); err != nil {
		s.t.Fatalf("new-window %s failed: %v", name, err)
	}
}

// Launch starts a session of the given size running script, with env
// exported into the pane.
func (s *Server) Launch(session string, width, height int, script string, env map[string]string) {
	s.t.Helper()
	args := []string{"new-session", "-d", "-x", fmt.Sprint(width), "-y", fmt.Sprint(height), "-s", session}
	for k, v := range env {
		args = append(args, "-e", k+"="+v)
	}
	args = append(args, script)
	if err := s.command(args...).Run(); err != nil {
		s.t.Fatalf("failed to launch %s: %v", script, err)
	}
	if err := s.command("has-session", "-t", session).Run(); err != nil {
		s.t.Skipf("skipping: unable to create tmux session: %v", err)
	}
}

// Type sends each key to target separately, pausing in between.
func (s *Server) Type(target string, keys ...string) {
	s.t.Helper()
	for _, k := range keys {
		if err := s.command("send-keys", "-t", target, k).Run(); err != nil {
			s.t.Fatalf("send-keys %q failed: %v", k, err)
		}
		time.Sleep(keyGap)
	}
}

// Capture returns the rendered contents of a pane.
func (s *Server) Capture(target string) (string, error) {
	out, err := s.command("capture-pane", "-p", "-t", target).Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
			return "", ErrPaneUnavailable
		}
		return "", fmt.Errorf("capture-pane failed: %w", err)
	}
	return string(out), nil
}

// WindowNames lists the window names of session in index order.
func (s *Server) WindowNames(session string) ([]string, error) {
	out, err := s.command("list-windows", "-t", session, "-F", "#{window_name}").Output()
	if err != nil {
		return nil, err
	}
	return strings.Fields(string(out)), nil
}

func (s *Server) assertNoCrash() {
	files, _ := filepath.Glob(filepath.Join(s.logDir, "tmux-server-*.log"))
	files2, _ := filepath.Glob("tmux-server-*.log")
	for _, path := range append(files, files2...) {
		content, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if bytes.Contains(content, []byte("server exited unexpectedly")) {
			s.t.Errorf("tmux server reported unexpected exit; see %s", path)
		}
	}
}

// command runs tmux against the server with the caller's TMUX unset, so a
// test started inside tmux does not talk to the user's server.
func (s *Server) command(extra ...string) *exec.Cmd {
	cmd := exec.Command("tmux", append([]string{"-S", s.Socket}, extra...)...)
	env := make([]string, 0, len(os.Environ())+2)
	for _, entry := range os.Environ() {
		if !strings.HasPrefix(entry, "TMUX=") {
			env = append(env, entry)
		}
	}
	cmd.Env = append(env, "TMUX=", "TMUX_TMPDIR="+filepath.Dir(s.Socket))
	cmd.Dir = s.logDir
	return cmd
}

func killServer(ctx context.Context, socket string) error {
	client, err := gotmux.NewTmuxWithOptions(socket, gotmux.WithContext(ctx))
	if err != nil {
		return err
	}
	defer client.Close()
	return client.KillServer()
}
