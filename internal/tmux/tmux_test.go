package tmux

import (
	"errors"
	"os/user"
	"path/filepath"
	"strings"
	"testing"

	gotmux "github.com/atomicstack/gotmuxcc/gotmuxcc"
)

func withStubTmux(t *testing.T, fn func(string) (tmuxClient, error)) {
	t.Helper()
	prev := newTmux
	newTmux = fn
	t.Cleanup(func() { newTmux = prev })
}

type fakeClient struct {
	sessions    []*gotmux.Session
	sessionsErr error
	windows     []*gotmux.Window
	windowsErr  error
	clients     []*gotmux.Client

	switchCalls       []*gotmux.SwitchClientOptions
	selectWindowCalls []string
	selectWindowErr   error

	displayMessageFn        func(target, format string) (string, error)
	listSessionsFormatLines []string
	listWindowsFormatLines  []string
	listWindowsFormatErr    error

	commandCalls [][]string
	commandErr   error
	closed       int
}

func (f *fakeClient) ListSessions() ([]*gotmux.Session, error) { return f.sessions, f.sessionsErr }

func (f *fakeClient) ListAllWindows() ([]*gotmux.Window, error) {
	if f.windowsErr != nil {
		return nil, f.windowsErr
	}
	return f.windows, nil
}

func (f *fakeClient) ListClients() ([]*gotmux.Client, error) { return f.clients, nil }

func (f *fakeClient) SwitchClient(opts *gotmux.SwitchClientOptions) error {
	f.switchCalls = append(f.switchCalls, opts)
	return nil
}

func (f *fakeClient) SelectWindow(target string) error {
	f.selectWindowCalls = append(f.selectWindowCalls, target)
	return f.selectWindowErr
}

func (f *fakeClient) DisplayMessage(target, format string) (string, error) {
	if f.displayMessageFn != nil {
		return f.displayMessageFn(target, format)
	}
	return "", nil
}

func (f *fakeClient) ListSessionsFormat(string) ([]string, error) {
	return f.listSessionsFormatLines, nil
}

func (f *fakeClient) ListWindowsFormat(_, _, _ string) ([]string, error) {
	if f.listWindowsFormatErr != nil {
		return nil, f.listWindowsFormatErr
	}
	return f.listWindowsFormatLines, nil
}

func (f *fakeClient) Command(parts ...string) (string, error) {
	f.commandCalls = append(f.commandCalls, append([]string(nil), parts...))
	return "", f.commandErr
}

func (f *fakeClient) Close() error {
	f.closed++
	return nil
}

func TestDefaultLabelForSession(t *testing.T) {
	session := &gotmux.Session{Name: "dev", Windows: 1}
	if got := defaultLabelForSession(session); got != "dev: 1 window" {
		t.Fatalf("unexpected label %q", got)
	}
	session.Windows = 3
	session.Attached = 1
	if got := defaultLabelForSession(session); got != "dev: 3 windows (attached)" {
		t.Fatalf("unexpected label for plural %q", got)
	}
}

func TestResolveSocketPath(t *testing.T) {
	t.Run("flag wins", func(t *testing.T) {
		got, err := ResolveSocketPath("/tmp/flag")
		if err != nil || got != "/tmp/flag" {
			t.Fatalf("expected /tmp/flag, got %q (%v)", got, err)
		}
	})
	t.Run("env overrides", func(t *testing.T) {
		t.Setenv(envSocket, "/tmp/env")
		got, err := ResolveSocketPath("")
		if err != nil || got != "/tmp/env" {
			t.Fatalf("expected /tmp/env, got %q (%v)", got, err)
		}
	})
	t.Run("tmux env fallback", func(t *testing.T) {
		t.Setenv(envSocket, "")
		t.Setenv("TMUX", "/tmp/socket,123,0")
		got, err := ResolveSocketPath("")
		if err != nil || got != "/tmp/socket" {
			t.Fatalf("expected /tmp/socket, got %q (%v)", got, err)
		}
	})
	t.Run("default path", func(t *testing.T) {
		t.Setenv(envSocket, "")
		t.Setenv("TMUX", "")
		t.Setenv("TMUX_TMPDIR", "/tmp")
		u, _ := user.Current()
		got, err := ResolveSocketPath("")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if want := filepath.Join("/tmp", "tmux-"+u.Uid, "default"); got != want {
			t.Fatalf("expected %q, got %q", want, got)
		}
	})
}

func TestFetchSessionsSkipsControlModeClients(t *testing.T) {
	fake := &fakeClient{
		sessions: []*gotmux.Session{
			{Name: "dev", Windows: 2, Attached: 1},
			{Name: "ops", Windows: 1, Attached: 1},
		},
		clients: []*gotmux.Client{
			{Name: "ctl", Session: "ops", ControlMode: true},
			{Name: "/dev/pts/1", Session: "dev"},
		},
		listSessionsFormatLines: []string{"dev\tcustom label"},
	}
	withStubTmux(t, func(string) (tmuxClient, error) { return fake, nil })
	t.Setenv(envSessionFormat, "")
	t.Setenv("TMUX_PANE", "")

	snap, err := FetchSessions("sock")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.Current != "dev" {
		t.Fatalf("expected current dev, got %q", snap.Current)
	}
	if len(snap.Sessions) != 2 || snap.Sessions[0].Label != "custom label" {
		t.Fatalf("unexpected sessions %#v", snap.Sessions)
	}
	if snap.Sessions[1].Label != "ops: 1 window (attached)" {
		t.Fatalf("expected default label for ops, got %q", snap.Sessions[1].Label)
	}
	if len(snap.Attached["ops"]) != 0 {
		t.Fatalf("control-mode client counted as attached: %v", snap.Attached)
	}
	if snap.Windows["dev"] != 2 {
		t.Fatalf("expected 2 windows for dev, got %d", snap.Windows["dev"])
	}
}

func TestFetchSessionsCurrentFromTmuxPane(t *testing.T) {
	fake := &fakeClient{
		sessions: []*gotmux.Session{{Name: "a"}, {Name: "b"}},
		displayMessageFn: func(target, format string) (string, error) {
			if target != "%3" {
				t.Fatalf("unexpected target %q", target)
			}
			return "b\n", nil
		},
	}
	withStubTmux(t, func(string) (tmuxClient, error) { return fake, nil })
	t.Setenv("TMUX_PANE", "%3")

	snap, err := FetchSessions("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.Current != "b" {
		t.Fatalf("expected current b, got %q", snap.Current)
	}
}

func TestFetchSessionsPropagatesError(t *testing.T) {
	fake := &fakeClient{sessionsErr: errors.New("boom")}
	withStubTmux(t, func(string) (tmuxClient, error) { return fake, nil })
	if _, err := FetchSessions(""); err == nil || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}

func TestFetchWindowLinesParsesOutput(t *testing.T) {
	fake := &fakeClient{
		listWindowsFormatLines: []string{
			" @1\tdev:0\tdev:0: main",
			"@2\tdev:1\t ",
			"garbage",
		},
	}
	t.Setenv(envWindowFilter, "")
	t.Setenv(envWindowFormat, "")
	lines, err := fetchWindowLines(fake)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("expected two lines, got %d", len(lines))
	}
	if lines[0].windowID != "@1" || lines[0].label != "dev:0: main" {
		t.Fatalf("unexpected first line %#v", lines[0])
	}
	if lines[1].label != "dev:1" {
		t.Fatalf("expected display id as label, got %#v", lines[1])
	}
}

func TestFetchWindowsUsesFallbackLines(t *testing.T) {
	fake := &fakeClient{
		windows: []*gotmux.Window{
			{Id: "@1", Index: 0, Name: "main", Active: true, ActiveSessionsList: []string{"dev"}},
			{Id: "@2", Index: 1, Name: "logs", LinkedSessionsList: []string{"dev"}},
			{Id: "@3", Index: 0, Name: "db", Active: true, ActiveSessionsList: []string{"ops"}},
		},
		clients:              []*gotmux.Client{{Name: "/dev/pts/0", Session: "dev"}},
		listWindowsFormatErr: errors.New("boom"),
	}
	withStubTmux(t, func(string) (tmuxClient, error) { return fake, nil })
	t.Setenv("TMUX_PANE", "")

	snap, err := FetchWindows("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.CurrentID != "dev:0" {
		t.Fatalf("expected current id dev:0, got %q", snap.CurrentID)
	}
	if len(snap.Windows) != 3 {
		t.Fatalf("expected 3 windows, got %d", len(snap.Windows))
	}
	if snap.Windows[1].Label != "dev:1: logs" {
		t.Fatalf("unexpected fallback label %q", snap.Windows[1].Label)
	}
	if snap.Windows[2].Current {
		t.Fatalf("active window of another session marked current")
	}
	grouped := snap.BySession()
	if len(grouped["dev"]) != 2 || len(grouped["ops"]) != 1 {
		t.Fatalf("unexpected grouping %#v", grouped)
	}
}

func TestWindowDiffIDPrefersInternalID(t *testing.T) {
	renamed := Window{InternalID: "@1", ID: "dev:0", Name: "a"}
	other := renamed
	other.Name = "b"
	if renamed.DiffID() != other.DiffID() {
		t.Fatalf("rename changed identity")
	}
	if got := (Window{ID: "dev:4"}).DiffID(); got != "dev:4" {
		t.Fatalf("expected display id fallback, got %v", got)
	}
}

func TestSwitchToWindowSelectsAndSwitches(t *testing.T) {
	fake := &fakeClient{}
	withStubTmux(t, func(string) (tmuxClient, error) { return fake, nil })
	if err := SwitchToWindow("", "/dev/pts/1", "ops:2"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fake.selectWindowCalls) != 1 || fake.selectWindowCalls[0] != "ops:2" {
		t.Fatalf("unexpected select calls %v", fake.selectWindowCalls)
	}
	if len(fake.switchCalls) != 1 || fake.switchCalls[0].TargetSession != "ops" || fake.switchCalls[0].TargetClient != "/dev/pts/1" {
		t.Fatalf("unexpected switch calls %#v", fake.switchCalls)
	}
	if err := SwitchToWindow("", "", "  "); err == nil {
		t.Fatalf("expected error for empty target")
	}
}

func TestSwitchToWindowPropagatesSelectError(t *testing.T) {
	fake := &fakeClient{selectWindowErr: errors.New("boom")}
	withStubTmux(t, func(string) (tmuxClient, error) { return fake, nil })
	if err := SwitchToWindow("", "", "dev:1"); err == nil || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("expected error, got %v", err)
	}
	if len(fake.switchCalls) != 0 {
		t.Fatalf("switched client after failed select")
	}
}

func TestKillWindowsSkipsBlankAndRunsCommands(t *testing.T) {
	fake := &fakeClient{}
	withStubTmux(t, func(string) (tmuxClient, error) { return fake, nil })
	if err := KillWindows("", []string{"  ", " @1 ", "@2"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fake.commandCalls) != 2 {
		t.Fatalf("expected 2 command calls, got %v", fake.commandCalls)
	}
	if got := strings.Join(fake.commandCalls[0], " "); got != "kill-window -t @1" {
		t.Fatalf("unexpected first call %q", got)
	}
}

func TestKillWindowsCommandError(t *testing.T) {
	fake := &fakeClient{commandErr: errors.New("tmux error")}
	withStubTmux(t, func(string) (tmuxClient, error) { return fake, nil })
	if err := KillWindows("", []string{"@1"}); err == nil {
		t.Fatalf("expected error, got nil")
	}
}

func TestShutdownClosesClient(t *testing.T) {
	fake := &fakeClient{}
	prevClient, prevSocket := cachedClient, cachedSocket
	cachedClient, cachedSocket = fake, "/tmp/test"
	t.Cleanup(func() { cachedClient, cachedSocket = prevClient, prevSocket })

	Shutdown()
	if cachedClient != nil || cachedSocket != "" {
		t.Fatalf("expected cache cleared after Shutdown")
	}
	if fake.closed != 1 {
		t.Fatalf("expected client closed once, got %d", fake.closed)
	}
}

func TestCurrentClientIDSkipsControlMode(t *testing.T) {
	fake := &fakeClient{clients: []*gotmux.Client{
		{Name: "ctl", ControlMode: true},
		{Name: "/dev/pts/4", Session: "dev"},
	}}
	withStubTmux(t, func(string) (tmuxClient, error) { return fake, nil })
	if got := CurrentClientID(""); got != "/dev/pts/4" {
		t.Fatalf("expected /dev/pts/4, got %q", got)
	}
}
