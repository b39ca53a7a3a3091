package tmux

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"
	"sync"

	gotmux "github.com/atomicstack/gotmuxcc/gotmuxcc"
)

const envSocket = "COLLECTIONVIEW_SOCKET"

type tmuxClient interface {
	ListSessions() ([]*gotmux.Session, error)
	ListAllWindows() ([]*gotmux.Window, error)
	ListClients() ([]*gotmux.Client, error)
	SwitchClient(*gotmux.SwitchClientOptions) error
	SelectWindow(target string) error
	DisplayMessage(target, format string) (string, error)
	ListSessionsFormat(format string) ([]string, error)
	ListWindowsFormat(target, filter, format string) ([]string, error)
	Command(parts ...string) (string, error)
	Close() error
}

var (
	clientMu     sync.Mutex
	cachedClient tmuxClient
	cachedSocket string

	// newTmux returns the control-mode connection for socketPath, reusing
	// the previous one while the socket is unchanged.
	newTmux = func(socketPath string) (tmuxClient, error) {
		clientMu.Lock()
		defer clientMu.Unlock()
		if cachedClient != nil && cachedSocket == socketPath {
			return cachedClient, nil
		}
		if cachedClient != nil {
			_ = cachedClient.Close()
			cachedClient = nil
		}
		var (
			client *gotmux.Tmux
			err    error
		)
		if socketPath != "" {
			client, err = gotmux.NewTmux(socketPath)
		} else {
			client, err = gotmux.DefaultTmux()
		}
		if err != nil {
			return nil, fmt.Errorf("connect to tmux: %w", err)
		}
		cachedClient = client
		cachedSocket = socketPath
		return client, nil
	}
)

// Shutdown closes the cached control-mode connection.
func Shutdown() {
	clientMu.Lock()
	defer clientMu.Unlock()
	if cachedClient != nil {
		_ = cachedClient.Close()
	}
	cachedClient = nil
	cachedSocket = ""
}

// ResolveSocketPath picks the tmux socket: the flag, then the environment,
// then the server the caller runs inside, then tmux's default location.
func ResolveSocketPath(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if env := os.Getenv(envSocket); env != "" {
		return env, nil
	}
	if tmuxEnv := os.Getenv("TMUX"); tmuxEnv != "" {
		if path, _, _ := strings.Cut(tmuxEnv, ","); path != "" {
			return path, nil
		}
	}
	baseDir := os.Getenv("TMUX_TMPDIR")
	if baseDir == "" {
		baseDir = "/tmp"
	}
	u, err := user.Current()
	if err != nil {
		return "", fmt.Errorf("resolve tmux socket: %w", err)
	}
	return filepath.Join(baseDir, "tmux-"+u.Uid, "default"), nil
}

// CurrentClientID returns the first attached client that is not a
// control-mode connection, so switch-client targets what the user sees.
func CurrentClientID(socketPath string) string {
	client, err := newTmux(socketPath)
	if err != nil {
		return ""
	}
	clients, err := client.ListClients()
	if err != nil {
		return ""
	}
	for _, c := range clients {
		if c != nil && !c.ControlMode && c.Name != "" {
			return c.Name
		}
	}
	return ""
}
